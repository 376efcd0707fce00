// Package model holds the classifiers used by the churn pipeline.
package model

// Classifier is a binary supervised model over dense feature rows.
type Classifier interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]int, error)
	PredictProba(X [][]float64) ([]float64, error) // returns p(y=1)
}
