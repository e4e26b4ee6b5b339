package classifier

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogisticOptions tunes multinomial logistic regression.
type LogisticOptions struct {
	// C is the inverse L2 regularisation strength.
	C       float64 `json:"c"`
	MaxIter int     `json:"max_iter"`
	// Tol stops training once the largest gradient component falls below it.
	Tol float64 `json:"tol"`
}

func DefaultLogisticOptions() LogisticOptions {
	return LogisticOptions{C: 1, MaxIter: 300, Tol: 1e-6}
}

func (o LogisticOptions) withDefaults() LogisticOptions {
	d := DefaultLogisticOptions()
	if o.C <= 0 {
		o.C = d.C
	}
	if o.MaxIter <= 0 {
		o.MaxIter = d.MaxIter
	}
	if o.Tol <= 0 {
		o.Tol = d.Tol
	}
	return o
}

// Logistic is a multinomial logistic regression model. Its probabilities
// come directly from the fitted model.
type Logistic struct {
	Linear
}

func (l *Logistic) PredictProba(x []float64) []float64 {
	return Softmax(l.scores(x))
}

// FitLogistic minimises the class-weighted multinomial log loss with an L2
// penalty by full-batch gradient descent. The step size is fixed at the
// inverse Lipschitz bound of the objective, so fitting is deterministic.
func FitLogistic(X [][]float64, y []int, k int, opts LogisticOptions) *Logistic {
	opts = opts.withDefaults()
	n, d := len(X), len(X[0])

	sw := balancedWeights(y, k)
	sumW := floats.Sum(sw)
	lambda := 1 / (opts.C * sumW)

	var maxSq float64
	for _, row := range X {
		maxSq = math.Max(maxSq, floats.Dot(row, row)+1)
	}
	step := 1 / (0.5*maxSq + lambda)

	m := &Logistic{Linear: newLinear(k, d)}
	grad := newLinear(k, d)

	for range opts.MaxIter {
		for c := range k {
			clear(grad.Weights[c])
		}
		clear(grad.Intercepts)

		for i := range n {
			p := m.PredictProba(X[i])
			for c := range k {
				g := p[c]
				if y[i] == c {
					g--
				}
				g *= sw[i] / sumW
				floats.AddScaled(grad.Weights[c], g, X[i])
				grad.Intercepts[c] += g
			}
		}

		var largest float64
		for c := range k {
			floats.AddScaled(grad.Weights[c], lambda, m.Weights[c])
			largest = math.Max(largest, floats.Norm(grad.Weights[c], math.Inf(1)))
			largest = math.Max(largest, math.Abs(grad.Intercepts[c]))

			floats.AddScaled(m.Weights[c], -step, grad.Weights[c])
			m.Intercepts[c] -= step * grad.Intercepts[c]
		}

		if largest < opts.Tol {
			break
		}
	}
	return m
}
