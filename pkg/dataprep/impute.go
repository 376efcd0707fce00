package dataprep

import (
	"math"

	"github.com/pkg/errors"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/stats"
)

// MissingCategory fills categorical columns that had no observed value at fit time.
const MissingCategory = "missing"

// ErrNotFitted is returned by transforms used before Fit.
var ErrNotFitted = errors.New("dataprep: transformer is not fitted")

// IsMissing reports whether a text cell is a missing-value marker.
func IsMissing(v string) bool {
	return v == "" || v == "NA" || v == "NaN"
}

// ---------- Categorical ----------

// MostFrequentImputer replaces missing text cells with the column's most
// frequent observed value.
type MostFrequentImputer struct {
	Fill []string `json:"fill"`
}

func (m *MostFrequentImputer) Fit(X [][]string) error {
	cols := numCols(X)
	m.Fill = make([]string, cols)
	for j := range cols {
		var observed []string
		for _, row := range X {
			if !IsMissing(row[j]) {
				observed = append(observed, row[j])
			}
		}
		if mode, ok := stats.Mode(observed); ok {
			m.Fill[j] = mode
		} else {
			m.Fill[j] = MissingCategory
		}
	}
	return nil
}

func (m *MostFrequentImputer) Transform(X [][]string) ([][]string, error) {
	if m.Fill == nil {
		return nil, ErrNotFitted
	}
	out := make([][]string, len(X))
	for i, in := range X {
		if len(in) != len(m.Fill) {
			return nil, errors.Errorf("dataprep: imputer fitted on %d columns, got %d", len(m.Fill), len(in))
		}
		row := make([]string, len(in))
		for j, v := range in {
			if IsMissing(v) {
				v = m.Fill[j]
			}
			row[j] = v
		}
		out[i] = row
	}
	return out, nil
}

// ---------- Numeric ----------

// MedianImputer replaces NaN cells with the column's median observed value.
// A column with no observed value at fit time is filled with 0.
type MedianImputer struct {
	Statistics []float64 `json:"statistics"`
}

func (m *MedianImputer) Fit(X [][]float64) error {
	cols := numCols(X)
	m.Statistics = make([]float64, cols)
	for j := range cols {
		if med, ok := stats.NaNMedian(stats.Column(X, j)); ok {
			m.Statistics[j] = med
		}
	}
	return nil
}

func (m *MedianImputer) Transform(X [][]float64) ([][]float64, error) {
	if m.Statistics == nil {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i, in := range X {
		if len(in) != len(m.Statistics) {
			return nil, errors.Errorf("dataprep: imputer fitted on %d columns, got %d", len(m.Statistics), len(in))
		}
		row := make([]float64, len(in))
		for j, v := range in {
			if math.IsNaN(v) {
				v = m.Statistics[j]
			}
			row[j] = v
		}
		out[i] = row
	}
	return out, nil
}

func numCols[T any](X [][]T) int {
	if len(X) == 0 {
		return 0
	}
	return len(X[0])
}
