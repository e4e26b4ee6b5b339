package classifier

import (
	"fmt"
	"math"
	"slices"
)

// ScalerParams are the fitted standardisation statistics.
type ScalerParams struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// EstimatorParams are the fitted linear model coefficients.
type EstimatorParams struct {
	Kind       Kind        `json:"kind"`
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
}

// Params is the serialisable form of a Pipeline.
type Params struct {
	Scaler     ScalerParams    `json:"scaler"`
	Classifier EstimatorParams `json:"classifier"`
}

// Kind reports which estimator family the pipeline holds.
func (p *Pipeline) Kind() (Kind, error) {
	switch e := p.Estimator.(type) {
	case *Logistic:
		return KindLogistic, nil
	case *ScoreOnly:
		if _, ok := e.Scorer.(*LinearSVM); ok {
			return KindLinearSVM, nil
		}
	}
	return "", fmt.Errorf("%w: %T", ErrUnknownKind, p.Estimator)
}

// Params captures the fitted state. Only estimators built by Fit can be
// exported.
func (p *Pipeline) Params() (Params, error) {
	if p == nil || p.Scaler == nil || p.Estimator == nil {
		return Params{}, ErrNotFitted
	}

	kind, err := p.Kind()
	if err != nil {
		return Params{}, err
	}

	var lin Linear
	switch e := p.Estimator.(type) {
	case *Logistic:
		lin = e.Linear
	case *ScoreOnly:
		lin = e.Scorer.(*LinearSVM).Linear
	}

	weights := make([][]float64, len(lin.Weights))
	for c, w := range lin.Weights {
		weights[c] = slices.Clone(w)
	}

	return Params{
		Scaler: ScalerParams{
			Mean:  slices.Clone(p.Scaler.Mean),
			Scale: slices.Clone(p.Scaler.Scale),
		},
		Classifier: EstimatorParams{
			Kind:       kind,
			Weights:    weights,
			Intercepts: slices.Clone(lin.Intercepts),
		},
	}, nil
}

// FromParams rebuilds a Pipeline, rejecting inconsistent shapes and
// non-finite values.
func FromParams(p Params) (*Pipeline, error) {
	d := len(p.Scaler.Mean)
	if d == 0 || len(p.Scaler.Scale) != d {
		return nil, fmt.Errorf("%w: scaler mean has %d values, scale has %d", ErrInvalidParams, d, len(p.Scaler.Scale))
	}
	for j := range d {
		if !finite(p.Scaler.Mean[j]) || !finite(p.Scaler.Scale[j]) || p.Scaler.Scale[j] <= 0 {
			return nil, fmt.Errorf("%w: scaler feature %d", ErrInvalidParams, j)
		}
	}

	k := len(p.Classifier.Weights)
	if k < 2 || len(p.Classifier.Intercepts) != k {
		return nil, fmt.Errorf("%w: %d weight rows, %d intercepts", ErrInvalidParams, k, len(p.Classifier.Intercepts))
	}
	lin := Linear{
		Weights:    make([][]float64, k),
		Intercepts: slices.Clone(p.Classifier.Intercepts),
	}
	for c, w := range p.Classifier.Weights {
		if len(w) != d {
			return nil, fmt.Errorf("%w: weight row %d has %d values, want %d", ErrInvalidParams, c, len(w), d)
		}
		if slices.ContainsFunc(w, func(v float64) bool { return !finite(v) }) || !finite(lin.Intercepts[c]) {
			return nil, fmt.Errorf("%w: class %d has non-finite coefficients", ErrInvalidParams, c)
		}
		lin.Weights[c] = slices.Clone(w)
	}

	scaler := &Scaler{
		Mean:  slices.Clone(p.Scaler.Mean),
		Scale: slices.Clone(p.Scaler.Scale),
	}

	switch p.Classifier.Kind {
	case KindLogistic:
		return &Pipeline{Scaler: scaler, Estimator: &Logistic{Linear: lin}}, nil
	case KindLinearSVM:
		return &Pipeline{Scaler: scaler, Estimator: &ScoreOnly{Scorer: &LinearSVM{Linear: lin}}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, p.Classifier.Kind)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
