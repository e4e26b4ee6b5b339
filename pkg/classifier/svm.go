package classifier

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// SVMOptions tunes the one-vs-rest linear SVM.
type SVMOptions struct {
	// C is the inverse regularisation strength.
	C      float64 `json:"c"`
	Epochs int     `json:"epochs"`
	Seed   uint64  `json:"seed"`
}

func DefaultSVMOptions() SVMOptions {
	return SVMOptions{C: 3, Epochs: 50, Seed: 42}
}

func (o SVMOptions) withDefaults() SVMOptions {
	d := DefaultSVMOptions()
	if o.C <= 0 {
		o.C = d.C
	}
	if o.Epochs <= 0 {
		o.Epochs = d.Epochs
	}
	if o.Seed == 0 {
		o.Seed = d.Seed
	}
	return o
}

// LinearSVM is a one-vs-rest linear support vector machine. It yields
// margins, not probabilities; wrap it in ScoreOnly to obtain a distribution.
type LinearSVM struct {
	Linear
}

func (s *LinearSVM) DecisionFunction(x []float64) []float64 {
	return s.scores(x)
}

// FitLinearSVM trains one binary hinge-loss model per class with the Pegasos
// stochastic subgradient method. Sample order is shuffled by a PCG source
// seeded from opts.Seed, so the same data always yields the same model.
func FitLinearSVM(X [][]float64, y []int, k int, opts SVMOptions) *LinearSVM {
	opts = opts.withDefaults()
	n, d := len(X), len(X[0])

	sw := balancedWeights(y, k)
	lambda := 1 / (opts.C * float64(n))
	radius := math.Sqrt(floats.Max(sw) / lambda)

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	order := make([]int, n)

	m := &LinearSVM{Linear: newLinear(k, d)}

	for c := range k {
		w := m.Weights[c]
		var b float64
		t := 0

		for i := range order {
			order[i] = i
		}

		for range opts.Epochs {
			rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

			for _, i := range order {
				t++
				eta := 1 / (lambda * float64(t))
				target := -1.0
				if y[i] == c {
					target = 1
				}
				margin := target * (floats.Dot(w, X[i]) + b)

				shrink := 1 - eta*lambda
				floats.Scale(shrink, w)
				b *= shrink

				if margin < 1 {
					floats.AddScaled(w, eta*sw[i]*target, X[i])
					b += eta * sw[i] * target
				}

				if norm := math.Sqrt(floats.Dot(w, w) + b*b); norm > radius {
					floats.Scale(radius/norm, w)
					b *= radius / norm
				}
			}
		}
		m.Intercepts[c] = b
	}
	return m
}
