package dataprep

import (
	"sort"

	"github.com/pkg/errors"
)

// OneHotEncoder expands each text column into one indicator per category seen
// at fit time. Categories are kept in ascending order. A value not seen at fit
// time encodes as all zeros for its column.
type OneHotEncoder struct {
	Categories [][]string `json:"categories"`
}

func (e *OneHotEncoder) Fit(X [][]string) error {
	cols := numCols(X)
	e.Categories = make([][]string, cols)
	for j := range cols {
		seen := make(map[string]struct{})
		for _, row := range X {
			seen[row[j]] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		e.Categories[j] = cats
	}
	return nil
}

// NumOutputs is the width of the encoded rows.
func (e *OneHotEncoder) NumOutputs() int {
	n := 0
	for _, cats := range e.Categories {
		n += len(cats)
	}
	return n
}

func (e *OneHotEncoder) Transform(X [][]string) ([][]float64, error) {
	if e.Categories == nil {
		return nil, ErrNotFitted
	}
	width := e.NumOutputs()
	out := make([][]float64, len(X))
	for i, in := range X {
		if len(in) != len(e.Categories) {
			return nil, errors.Errorf("dataprep: encoder fitted on %d columns, got %d", len(e.Categories), len(in))
		}
		vec := make([]float64, width)
		offset := 0
		for j, v := range in {
			cats := e.Categories[j]
			if k := sort.SearchStrings(cats, v); k < len(cats) && cats[k] == v {
				vec[offset+k] = 1
			}
			offset += len(cats)
		}
		out[i] = vec
	}
	return out, nil
}

// FeatureNames names the encoded outputs as "column=category".
func (e *OneHotEncoder) FeatureNames(columns []string) []string {
	names := make([]string, 0, e.NumOutputs())
	for j, cats := range e.Categories {
		for _, v := range cats {
			names = append(names, columns[j]+"="+v)
		}
	}
	return names
}
