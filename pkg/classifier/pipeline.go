// Package classifier implements the scaling and classification stages that
// turn feature vectors into class probabilities.
//
// A Pipeline standardises its input with a Scaler fitted on the training
// set and then hands the scaled vector to an Estimator. Two estimator
// families exist: models with native probability output (Logistic) and
// models that only produce decision scores, adapted through ScoreOnly.
package classifier

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/JaimeStill/leafscan/pkg/features"
)

// Kind names a trainable estimator.
type Kind string

const (
	KindLogistic  Kind = "logistic"
	KindLinearSVM Kind = "linear_svm"
)

// ParseKind validates a kind string. The empty string selects logistic.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindLogistic:
		return KindLogistic, nil
	case KindLinearSVM:
		return KindLinearSVM, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Options selects and tunes the estimator fitted by Fit.
type Options struct {
	Kind     Kind
	Logistic LogisticOptions
	SVM      SVMOptions
}

// Pipeline chains a Scaler and an Estimator.
type Pipeline struct {
	Scaler    *Scaler
	Estimator Estimator
}

// Fit standardises X, then trains the estimator chosen by opts on the scaled
// matrix. Every y must lie in [0,numClasses) and at least two classes must
// be present.
func Fit(X []features.Vector, y []int, numClasses int, opts Options) (*Pipeline, error) {
	if len(X) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d samples, %d labels", ErrInvalidLabels, len(X), len(y))
	}
	if numClasses < 2 {
		return nil, ErrTooFewClasses
	}
	if len(X[0]) == 0 {
		return nil, fmt.Errorf("%w: zero-length feature vectors", ErrDimensionMismatch)
	}

	seen := make([]bool, numClasses)
	distinct := 0
	for i, c := range y {
		if c < 0 || c >= numClasses {
			return nil, fmt.Errorf("%w: sample %d has class %d", ErrInvalidLabels, i, c)
		}
		if !seen[c] {
			seen[c] = true
			distinct++
		}
	}
	if distinct < 2 {
		return nil, ErrTooFewClasses
	}

	kind, err := ParseKind(string(opts.Kind))
	if err != nil {
		return nil, err
	}

	raw := make([][]float64, len(X))
	for i, v := range X {
		raw[i] = v.Float64()
	}

	scaler, err := FitScaler(raw)
	if err != nil {
		return nil, err
	}
	scaled, err := scaler.transformAll(raw)
	if err != nil {
		return nil, err
	}

	var est Estimator
	switch kind {
	case KindLinearSVM:
		est = &ScoreOnly{Scorer: FitLinearSVM(scaled, y, numClasses, opts.SVM)}
	default:
		est = FitLogistic(scaled, y, numClasses, opts.Logistic)
	}

	return &Pipeline{Scaler: scaler, Estimator: est}, nil
}

// Dim returns the feature length the pipeline accepts.
func (p *Pipeline) Dim() int {
	return p.Scaler.Dim()
}

// NumClasses returns the number of output probabilities.
func (p *Pipeline) NumClasses() int {
	return p.Estimator.NumClasses()
}

// PredictProba returns one probability per class, summing to 1.
func (p *Pipeline) PredictProba(x features.Vector) ([]float64, error) {
	if p == nil || p.Scaler == nil || p.Estimator == nil {
		return nil, ErrNotFitted
	}
	scaled, err := p.Scaler.Transform(x.Float64())
	if err != nil {
		return nil, err
	}
	return p.Estimator.PredictProba(scaled), nil
}

// Predict returns the most probable class. Ties resolve to the lowest index.
func (p *Pipeline) Predict(x features.Vector) (int, error) {
	proba, err := p.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return floats.MaxIdx(proba), nil
}
