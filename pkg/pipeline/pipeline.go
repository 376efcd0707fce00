// Package pipeline assembles the churn model: a column-wise preprocessing plan
// feeding a logistic regression classifier, fitted and applied as one unit.
package pipeline

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/model"
)

// Pipeline chains the preprocessing plan and the classifier.
type Pipeline struct {
	Preprocessor *Preprocessor             `json:"preprocessor"`
	Classifier   *model.LogisticRegression `json:"classifier"`
}

func New(pre *Preprocessor, clf *model.LogisticRegression) *Pipeline {
	return &Pipeline{Preprocessor: pre, Classifier: clf}
}

// Fit fits the plan on X, transforms X and fits the classifier on the result.
func (p *Pipeline) Fit(X dataframe.DataFrame, y []int) error {
	if len(y) != X.Nrow() {
		return errors.Errorf("pipeline: %d rows but %d labels", X.Nrow(), len(y))
	}
	if err := p.Preprocessor.Fit(X); err != nil {
		return errors.WithMessage(err, "fit preprocessor")
	}
	features, err := p.Preprocessor.Transform(X)
	if err != nil {
		return errors.WithMessage(err, "transform training rows")
	}
	labels := make([]float64, len(y))
	for i, v := range y {
		labels[i] = float64(v)
	}
	return errors.WithMessage(p.Classifier.Fit(features, labels), "fit classifier")
}

// PredictProba returns the positive-class probability of each row of X.
func (p *Pipeline) PredictProba(X dataframe.DataFrame) ([]float64, error) {
	features, err := p.Preprocessor.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Classifier.PredictProba(features)
}

// Predict returns the hard label of each row of X.
func (p *Pipeline) Predict(X dataframe.DataFrame) ([]int, error) {
	features, err := p.Preprocessor.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Classifier.Predict(features)
}

// Schema returns the input columns the pipeline expects.
func (p *Pipeline) Schema() Schema { return p.Preprocessor.Schema() }
