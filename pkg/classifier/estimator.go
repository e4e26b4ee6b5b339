package classifier

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Estimator maps a scaled feature vector to a probability distribution over
// classes. Implementations are immutable after fitting.
type Estimator interface {
	NumClasses() int
	PredictProba(x []float64) []float64
}

// Scorer produces unnormalised per-class decision scores.
type Scorer interface {
	NumClasses() int
	DecisionFunction(x []float64) []float64
}

// ScoreOnly adapts a Scorer that has no native probability output into an
// Estimator by passing its scores through a softmax.
type ScoreOnly struct {
	Scorer Scorer
}

func (s *ScoreOnly) NumClasses() int {
	return s.Scorer.NumClasses()
}

func (s *ScoreOnly) PredictProba(x []float64) []float64 {
	return Softmax(s.Scorer.DecisionFunction(x))
}

// Softmax converts raw scores into a distribution. The maximum is subtracted
// before exponentiation so large magnitudes stay finite.
func Softmax(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	out := make([]float64, len(scores))
	top := floats.Max(scores)
	for i, s := range scores {
		out[i] = math.Exp(s - top)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

// Linear holds a weight row and an intercept per class.
type Linear struct {
	Weights    [][]float64
	Intercepts []float64
}

func newLinear(k, d int) Linear {
	w := make([][]float64, k)
	for c := range w {
		w[c] = make([]float64, d)
	}
	return Linear{Weights: w, Intercepts: make([]float64, k)}
}

func (l *Linear) NumClasses() int {
	return len(l.Weights)
}

func (l *Linear) scores(x []float64) []float64 {
	out := make([]float64, len(l.Weights))
	for c, w := range l.Weights {
		out[c] = floats.Dot(w, x) + l.Intercepts[c]
	}
	return out
}

// balancedWeights returns n/(k*n_c) for each sample's class.
func balancedWeights(y []int, k int) []float64 {
	counts := make([]int, k)
	for _, c := range y {
		counts[c]++
	}
	n := float64(len(y))
	w := make([]float64, len(y))
	for i, c := range y {
		w[i] = n / (float64(k) * float64(counts[c]))
	}
	return w
}
