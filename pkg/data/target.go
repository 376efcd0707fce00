package data

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

var (
	// ErrMissingTarget is returned when no target column is named or detected.
	ErrMissingTarget = errors.New("data: target column not found")
	// ErrInvalidTarget is returned when target values are not binary.
	ErrInvalidTarget = errors.New("data: target is not binary")
)

// DefaultTargets are the conventional target column names tried by DetectTarget.
var DefaultTargets = []string{"Churn", "churn"}

// DetectTarget returns the first candidate present in df.
func DetectTarget(df dataframe.DataFrame, candidates []string) (string, error) {
	for _, c := range candidates {
		if HasColumn(df, c) {
			return c, nil
		}
	}
	return "", errors.Wrapf(ErrMissingTarget, "none of %v present", candidates)
}

var labelWords = map[string]int{
	"0": 0, "1": 1,
	"false": 0, "true": 1,
	"no": 0, "yes": 1,
}

// SplitTarget separates df into the feature table (target dropped) and the
// target coerced to 0/1 labels. Booleans map true to 1; numeric targets must
// already be 0 or 1; text targets may use 0/1, true/false or yes/no in any case.
func SplitTarget(df dataframe.DataFrame, target string) (dataframe.DataFrame, []int, error) {
	if !HasColumn(df, target) {
		return dataframe.DataFrame{}, nil, errors.Wrapf(ErrMissingTarget, "%q", target)
	}
	y, err := Labels(df.Col(target))
	if err != nil {
		return dataframe.DataFrame{}, nil, errors.WithMessagef(err, "column %q", target)
	}
	X := df.Drop(target)
	if X.Err != nil {
		return dataframe.DataFrame{}, nil, errors.Wrapf(X.Err, "data: drop target %q", target)
	}
	return X, y, nil
}

// Labels coerces a series to binary labels.
func Labels(s series.Series) ([]int, error) {
	y := make([]int, s.Len())
	for i := range y {
		e := s.Elem(i)
		if e.IsNA() {
			return nil, errors.Wrapf(ErrInvalidTarget, "row %d is missing", i)
		}
		switch s.Type() {
		case series.Bool:
			b, _ := e.Bool()
			if b {
				y[i] = 1
			}
		case series.Int, series.Float:
			v := e.Float()
			if v != 0 && v != 1 {
				return nil, errors.Wrapf(ErrInvalidTarget, "row %d has value %g", i, v)
			}
			y[i] = int(v)
		default:
			v, ok := labelWords[strings.ToLower(strings.TrimSpace(e.String()))]
			if !ok {
				return nil, errors.Wrapf(ErrInvalidTarget, "row %d has value %q", i, e.String())
			}
			y[i] = v
		}
	}
	return y, nil
}

// ClassCounts returns how many rows hold each label.
func ClassCounts(y []int) map[int]int {
	counts := make(map[int]int, 2)
	for _, v := range y {
		counts[v]++
	}
	return counts
}
