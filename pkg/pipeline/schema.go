package pipeline

import (
	"github.com/go-gota/gota/series"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/data"
)

// Schema describes the input columns a fitted plan expects.
type Schema struct {
	FeatureNames []string `json:"feature_names"`
	Types        []string `json:"types"` // "categorical" or "numeric"
}

func newSchema(cat, num []string) Schema {
	s := Schema{}
	for _, c := range cat {
		s.FeatureNames = append(s.FeatureNames, c)
		s.Types = append(s.Types, data.Categorical.String())
	}
	for _, c := range num {
		s.FeatureNames = append(s.FeatureNames, c)
		s.Types = append(s.Types, data.Numeric.String())
	}
	return s
}

// ColumnTypes maps every input column to text. Tables read with it keep cells
// as written and leave parsing to the plan.
func (s Schema) ColumnTypes() map[string]series.Type {
	types := make(map[string]series.Type, len(s.FeatureNames))
	for _, name := range s.FeatureNames {
		types[name] = series.String
	}
	return types
}
