package stats

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// ErrNotFitted is returned when a transform is used before Fit.
var ErrNotFitted = errors.New("stats: scaler is not fitted")

// StandardScaler standardizes each column to zero mean and unit variance using
// the population statistics seen at Fit time. Columns with zero variance keep
// a divisor of 1.
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fitted reports whether the scaler holds learned statistics.
func (s *StandardScaler) Fitted() bool { return s.Mean != nil }

func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("stats: cannot fit scaler on zero rows")
	}
	c := len(X[0])
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	for j := range c {
		s.Mean[j], s.Std[j] = stat.PopMeanStdDev(Column(X, j), nil)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return nil
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.Fitted() {
		return nil, ErrNotFitted
	}
	Y := make([][]float64, len(X))
	for i, in := range X {
		if len(in) != len(s.Mean) {
			return nil, errors.Errorf("stats: scaler fitted on %d columns, got %d", len(s.Mean), len(in))
		}
		row := make([]float64, len(in))
		for j, v := range in {
			row[j] = (v - s.Mean[j]) / s.Std[j]
		}
		Y[i] = row
	}
	return Y, nil
}

