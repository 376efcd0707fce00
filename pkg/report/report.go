// Package report scores binary churn predictions: per-class precision, recall
// and F1, accuracy, confusion matrix, and ROC curves.
package report

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/model"
)

// ClassMetrics are the scores of one class, or of an average over classes.
type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// ClassificationReport summarizes predictions against ground truth.
type ClassificationReport struct {
	Classes     []ClassMetrics `json:"classes"`
	Accuracy    float64        `json:"accuracy"`
	MacroAvg    ClassMetrics   `json:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg"`
	Confusion   [2][2]int      `json:"confusion"`
	Total       int            `json:"total"`
}

// NewClassificationReport scores yPred against yTrue, both holding labels 0 or 1.
func NewClassificationReport(yTrue, yPred []int) (*ClassificationReport, error) {
	if len(yTrue) != len(yPred) {
		return nil, errors.Errorf("report: %d labels but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return nil, errors.New("report: no rows to score")
	}
	for i := range yTrue {
		if (yTrue[i] != 0 && yTrue[i] != 1) || (yPred[i] != 0 && yPred[i] != 1) {
			return nil, errors.Errorf("report: row %d is not binary (true=%d, pred=%d)", i, yTrue[i], yPred[i])
		}
	}

	r := &ClassificationReport{
		Accuracy:  model.Accuracy(yTrue, yPred),
		Confusion: model.ConfusionMatrix(yTrue, yPred),
		Total:     len(yTrue),
		MacroAvg:  ClassMetrics{Label: "macro avg", Support: len(yTrue)},
		WeightedAvg: ClassMetrics{
			Label:   "weighted avg",
			Support: len(yTrue),
		},
	}
	for _, label := range []int{0, 1} {
		p, rec, f1 := model.PrecisionRecallF1(yTrue, yPred, label)
		support := r.Confusion[label][0] + r.Confusion[label][1]
		r.Classes = append(r.Classes, ClassMetrics{
			Label:     fmt.Sprint(label),
			Precision: p,
			Recall:    rec,
			F1:        f1,
			Support:   support,
		})
		w := float64(support) / float64(len(yTrue))
		r.MacroAvg.Precision += p / 2
		r.MacroAvg.Recall += rec / 2
		r.MacroAvg.F1 += f1 / 2
		r.WeightedAvg.Precision += p * w
		r.WeightedAvg.Recall += rec * w
		r.WeightedAvg.F1 += f1 * w
	}
	return r, nil
}

// Rows returns the report as a header plus one row per class and average,
// formatted with two decimals.
func (r *ClassificationReport) Rows() [][]string {
	rows := [][]string{{"", "precision", "recall", "f1-score", "support"}}
	line := func(m ClassMetrics) []string {
		return []string{m.Label, f2(m.Precision), f2(m.Recall), f2(m.F1), fmt.Sprint(m.Support)}
	}
	for _, c := range r.Classes {
		rows = append(rows, line(c))
	}
	rows = append(rows,
		[]string{"accuracy", "", "", f2(r.Accuracy), fmt.Sprint(r.Total)},
		line(r.MacroAvg),
		line(r.WeightedAvg),
	)
	return rows
}

// String renders the report as a plain-text table.
func (r *ClassificationReport) String() string {
	var b strings.Builder
	for i, row := range r.Rows() {
		fmt.Fprintf(&b, "%12s %9s %9s %9s %9s\n", row[0], row[1], row[2], row[3], row[4])
		if i == 0 || i == len(r.Classes) {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func f2(v float64) string { return fmt.Sprintf("%.2f", v) }
