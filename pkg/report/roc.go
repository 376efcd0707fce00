package report

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// ROCCurve is a receiver operating characteristic curve, ordered by
// increasing false positive rate.
type ROCCurve struct {
	FPR []float64 `json:"fpr"`
	TPR []float64 `json:"tpr"`
	AUC float64   `json:"auc"`
}

// NewROCCurve builds the ROC curve of positive-class scores against labels.
// Both classes must be present.
func NewROCCurve(yTrue []int, scores []float64) (*ROCCurve, error) {
	if len(yTrue) != len(scores) {
		return nil, errors.Errorf("report: %d labels but %d scores", len(yTrue), len(scores))
	}
	y := append([]float64(nil), scores...)
	classes := make([]bool, len(yTrue))
	var positives int
	for i, v := range yTrue {
		classes[i] = v == 1
		positives += v
	}
	if positives == 0 || positives == len(yTrue) {
		return nil, errors.New("report: ROC needs both classes present")
	}
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	if len(fpr) > 1 && fpr[0] > fpr[len(fpr)-1] {
		reverse(fpr)
		reverse(tpr)
	}
	return &ROCCurve{FPR: fpr, TPR: tpr, AUC: integrate.Trapezoidal(fpr, tpr)}, nil
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
