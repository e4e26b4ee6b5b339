package classifier

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// minScale is the standard deviation below which a feature is treated as
// constant and left unscaled.
const minScale = 1e-12

// Scaler standardises features to zero mean and unit variance using
// statistics captured from the training matrix.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler computes per-column mean and population standard deviation.
func FitScaler(X [][]float64) (*Scaler, error) {
	if len(X) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	d := len(X[0])
	col := make([]float64, len(X))

	s := &Scaler{
		Mean:  make([]float64, d),
		Scale: make([]float64, d),
	}

	for j := range d {
		for i, row := range X {
			if len(row) != d {
				return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrDimensionMismatch, i, len(row), d)
			}
			col[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std < minScale {
			std = 1
		}
		s.Mean[j] = mean
		s.Scale[j] = std
	}
	return s, nil
}

// Dim returns the expected feature count.
func (s *Scaler) Dim() int {
	return len(s.Mean)
}

// Transform returns the standardised copy of x.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x), len(s.Mean))
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

func (s *Scaler) transformAll(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		t, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}
