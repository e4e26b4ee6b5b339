package classifier_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/JaimeStill/leafscan/pkg/classifier"
	"github.com/JaimeStill/leafscan/pkg/features"
)

var centers = [][]float32{
	{0.2, 0.8, 0.1, 0.5},
	{0.8, 0.2, 0.1, 0.5},
	{0.5, 0.5, 0.9, 0.5},
}

// blobs returns perClass jittered points around each of the first k centers.
// The last feature is constant across all samples.
func blobs(k, perClass int) ([]features.Vector, []int) {
	var X []features.Vector
	var y []int
	for c := range k {
		for i := range perClass {
			v := make(features.Vector, len(centers[c]))
			for j, m := range centers[c] {
				if j == len(v)-1 {
					v[j] = m
					continue
				}
				jitter := float32((i*37+j*11)%13-6) / 100
				v[j] = m + jitter
			}
			X = append(X, v)
			y = append(y, c)
		}
	}
	return X, y
}

func sum(p []float64) float64 {
	var s float64
	for _, v := range p {
		s += v
	}
	return s
}

type fixedScorer []float64

func (s fixedScorer) NumClasses() int                        { return len(s) }
func (s fixedScorer) DecisionFunction(_ []float64) []float64 { return s }

func TestSoftmax(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
	}{
		{"small", []float64{2, 1, 0}},
		{"large magnitudes", []float64{1000, 1001, 999}},
		{"negative", []float64{-1000, -1001, -999}},
		{"equal", []float64{3, 3, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := classifier.Softmax(tt.scores)
			if len(p) != len(tt.scores) {
				t.Fatalf("len: got %d", len(p))
			}
			for i, v := range p {
				if math.IsNaN(v) || v < 0 || v > 1 {
					t.Fatalf("p[%d] = %v", i, v)
				}
			}
			if math.Abs(sum(p)-1) > 1e-12 {
				t.Errorf("sum: got %v", sum(p))
			}
			for i := range tt.scores {
				for j := range tt.scores {
					if tt.scores[i] > tt.scores[j] && p[i] <= p[j] {
						t.Errorf("order not preserved between %d and %d", i, j)
					}
				}
			}
		})
	}

	if classifier.Softmax(nil) != nil {
		t.Error("Softmax(nil) should be nil")
	}
}

func TestFitScaler(t *testing.T) {
	X := [][]float64{
		{1, 5, 10},
		{3, 5, 20},
	}
	s, err := classifier.FitScaler(X)
	if err != nil {
		t.Fatalf("FitScaler() error = %v", err)
	}

	wantMean := []float64{2, 5, 15}
	wantScale := []float64{1, 1, 5}
	if !reflect.DeepEqual(s.Mean, wantMean) {
		t.Errorf("Mean: got %v, want %v", s.Mean, wantMean)
	}
	if !reflect.DeepEqual(s.Scale, wantScale) {
		t.Errorf("Scale: got %v, want %v", s.Scale, wantScale)
	}

	got, err := s.Transform([]float64{3, 5, 10})
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{1, 0, -1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Transform: got %v, want %v", got, want)
	}

	if _, err := s.Transform([]float64{1, 2}); !errors.Is(err, classifier.ErrDimensionMismatch) {
		t.Errorf("short input: got %v, want ErrDimensionMismatch", err)
	}
}

func TestFitScalerRagged(t *testing.T) {
	_, err := classifier.FitScaler([][]float64{{1, 2}, {3}})
	if !errors.Is(err, classifier.ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestFitKinds(t *testing.T) {
	for _, kind := range []classifier.Kind{classifier.KindLogistic, classifier.KindLinearSVM} {
		t.Run(string(kind), func(t *testing.T) {
			X, y := blobs(3, 12)

			p, err := classifier.Fit(X, y, 3, classifier.Options{Kind: kind})
			if err != nil {
				t.Fatalf("Fit() error = %v", err)
			}
			if got, _ := p.Kind(); got != kind {
				t.Errorf("Kind(): got %s, want %s", got, kind)
			}
			if p.NumClasses() != 3 || p.Dim() != 4 {
				t.Errorf("shape: %d classes, %d dims", p.NumClasses(), p.Dim())
			}

			for i, x := range X {
				proba, err := p.PredictProba(x)
				if err != nil {
					t.Fatal(err)
				}
				if math.Abs(sum(proba)-1) > 1e-9 {
					t.Fatalf("sample %d: proba sums to %v", i, sum(proba))
				}
				got, _ := p.Predict(x)
				if got != y[i] {
					t.Errorf("sample %d: predicted %d, want %d (proba %v)", i, got, y[i], proba)
				}
			}
		})
	}
}

func TestFitDeterministic(t *testing.T) {
	for _, kind := range []classifier.Kind{classifier.KindLogistic, classifier.KindLinearSVM} {
		t.Run(string(kind), func(t *testing.T) {
			X, y := blobs(2, 10)

			a, err := classifier.Fit(X, y, 2, classifier.Options{Kind: kind})
			if err != nil {
				t.Fatal(err)
			}
			b, err := classifier.Fit(X, y, 2, classifier.Options{Kind: kind})
			if err != nil {
				t.Fatal(err)
			}

			pa, _ := a.Params()
			pb, _ := b.Params()
			if !reflect.DeepEqual(pa, pb) {
				t.Error("identical inputs produced different parameters")
			}
		})
	}
}

func TestFitErrors(t *testing.T) {
	X, y := blobs(2, 3)

	tests := []struct {
		name    string
		X       []features.Vector
		y       []int
		k       int
		opts    classifier.Options
		wantErr error
	}{
		{"empty", nil, nil, 2, classifier.Options{}, classifier.ErrEmptyTrainingSet},
		{"length mismatch", X, y[:2], 2, classifier.Options{}, classifier.ErrInvalidLabels},
		{"one class declared", X, y, 1, classifier.Options{}, classifier.ErrTooFewClasses},
		{"label out of range", X, append(y[:len(y)-1:len(y)-1], 5), 2, classifier.Options{}, classifier.ErrInvalidLabels},
		{"one class present", X, make([]int, len(X)), 2, classifier.Options{}, classifier.ErrTooFewClasses},
		{"unknown kind", X, y, 2, classifier.Options{Kind: "forest"}, classifier.ErrUnknownKind},
		{"ragged", []features.Vector{{1, 2}, {1}}, []int{0, 1}, 2, classifier.Options{}, classifier.ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classifier.Fit(tt.X, tt.y, tt.k, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPredictProbaDimensionMismatch(t *testing.T) {
	X, y := blobs(2, 5)
	p, err := classifier.Fit(X, y, 2, classifier.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.PredictProba(features.Vector{1, 2, 3}); !errors.Is(err, classifier.ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestScoreOnlyUsesSoftmax(t *testing.T) {
	scores := fixedScorer{2, 1, 0}
	p := &classifier.Pipeline{
		Scaler:    &classifier.Scaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}},
		Estimator: &classifier.ScoreOnly{Scorer: scores},
	}

	proba, err := p.PredictProba(features.Vector{0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	want := classifier.Softmax(scores)
	if !reflect.DeepEqual(proba, want) {
		t.Errorf("got %v, want %v", proba, want)
	}
	if got, _ := p.Predict(features.Vector{0.5, 0.5}); got != 0 {
		t.Errorf("Predict: got %d, want 0", got)
	}
}

func TestPredictTieLowestIndex(t *testing.T) {
	p := &classifier.Pipeline{
		Scaler:    &classifier.Scaler{Mean: []float64{0}, Scale: []float64{1}},
		Estimator: &classifier.ScoreOnly{Scorer: fixedScorer{1, 4, 4, 4}},
	}
	got, err := p.Predict(features.Vector{1})
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

func TestParamsRoundTrip(t *testing.T) {
	for _, kind := range []classifier.Kind{classifier.KindLogistic, classifier.KindLinearSVM} {
		t.Run(string(kind), func(t *testing.T) {
			X, y := blobs(3, 6)
			p, err := classifier.Fit(X, y, 3, classifier.Options{Kind: kind})
			if err != nil {
				t.Fatal(err)
			}
			params, err := p.Params()
			if err != nil {
				t.Fatal(err)
			}
			rebuilt, err := classifier.FromParams(params)
			if err != nil {
				t.Fatalf("FromParams() error = %v", err)
			}

			for _, x := range X {
				a, _ := p.PredictProba(x)
				b, _ := rebuilt.PredictProba(x)
				if !reflect.DeepEqual(a, b) {
					t.Fatalf("probabilities differ: %v vs %v", a, b)
				}
			}
		})
	}
}

func TestParamsUnsupportedEstimator(t *testing.T) {
	p := &classifier.Pipeline{
		Scaler:    &classifier.Scaler{Mean: []float64{0}, Scale: []float64{1}},
		Estimator: &classifier.ScoreOnly{Scorer: fixedScorer{0, 1}},
	}
	if _, err := p.Params(); !errors.Is(err, classifier.ErrUnknownKind) {
		t.Errorf("got %v, want ErrUnknownKind", err)
	}
}

func TestFromParamsInvalid(t *testing.T) {
	valid := func() classifier.Params {
		return classifier.Params{
			Scaler: classifier.ScalerParams{Mean: []float64{0, 0}, Scale: []float64{1, 1}},
			Classifier: classifier.EstimatorParams{
				Kind:       classifier.KindLogistic,
				Weights:    [][]float64{{1, 0}, {0, 1}},
				Intercepts: []float64{0, 0},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*classifier.Params)
		wantErr error
	}{
		{"empty scaler", func(p *classifier.Params) { p.Scaler = classifier.ScalerParams{} }, classifier.ErrInvalidParams},
		{"scale length", func(p *classifier.Params) { p.Scaler.Scale = []float64{1} }, classifier.ErrInvalidParams},
		{"zero scale", func(p *classifier.Params) { p.Scaler.Scale[1] = 0 }, classifier.ErrInvalidParams},
		{"nan mean", func(p *classifier.Params) { p.Scaler.Mean[0] = math.NaN() }, classifier.ErrInvalidParams},
		{"single class", func(p *classifier.Params) {
			p.Classifier.Weights = p.Classifier.Weights[:1]
			p.Classifier.Intercepts = p.Classifier.Intercepts[:1]
		}, classifier.ErrInvalidParams},
		{"short row", func(p *classifier.Params) { p.Classifier.Weights[1] = []float64{1} }, classifier.ErrInvalidParams},
		{"inf weight", func(p *classifier.Params) { p.Classifier.Weights[0][0] = math.Inf(1) }, classifier.ErrInvalidParams},
		{"unknown kind", func(p *classifier.Params) { p.Classifier.Kind = "forest" }, classifier.ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			if _, err := classifier.FromParams(p); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := classifier.FromParams(valid()); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    classifier.Kind
		wantErr bool
	}{
		{"", classifier.KindLogistic, false},
		{"logistic", classifier.KindLogistic, false},
		{"linear_svm", classifier.KindLinearSVM, false},
		{"svc", "", true},
	}
	for _, tt := range tests {
		got, err := classifier.ParseKind(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseKind(%q) = %s, %v", tt.in, got, err)
		}
	}
}
