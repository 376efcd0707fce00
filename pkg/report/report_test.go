package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassificationReport(t *testing.T) {
	yTrue := []int{0, 0, 0, 1, 1}
	yPred := []int{0, 0, 1, 1, 0}
	r, err := NewClassificationReport(yTrue, yPred)
	require.NoError(t, err)

	require.Len(t, r.Classes, 2)
	assert.Equal(t, "0", r.Classes[0].Label)
	assert.Equal(t, 3, r.Classes[0].Support)
	assert.Equal(t, 2, r.Classes[1].Support)
	assert.InDelta(t, 2.0/3.0, r.Classes[0].Precision, 1e-12)
	assert.InDelta(t, 2.0/3.0, r.Classes[0].Recall, 1e-12)
	assert.InDelta(t, 0.5, r.Classes[1].Precision, 1e-12)
	assert.InDelta(t, 0.5, r.Classes[1].Recall, 1e-12)
	assert.InDelta(t, 0.6, r.Accuracy, 1e-12)
	assert.InDelta(t, (2.0/3.0+0.5)/2, r.MacroAvg.F1, 1e-12)
	assert.InDelta(t, 0.6*2.0/3.0+0.4*0.5, r.WeightedAvg.F1, 1e-12)
	assert.Equal(t, [2][2]int{{2, 1}, {1, 1}}, r.Confusion)

	text := r.String()
	assert.Contains(t, text, "precision")
	assert.Contains(t, text, "accuracy")
	assert.Contains(t, text, "weighted avg")
	assert.Len(t, r.Rows(), 6)
}

func TestClassificationReportErrors(t *testing.T) {
	_, err := NewClassificationReport([]int{0}, []int{0, 1})
	assert.Error(t, err)
	_, err = NewClassificationReport(nil, nil)
	assert.Error(t, err)
	_, err = NewClassificationReport([]int{2}, []int{0})
	assert.Error(t, err)
}

func TestROCCurve(t *testing.T) {
	perfect, err := NewROCCurve([]int{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, perfect.AUC, 1e-12)
	assert.Equal(t, 0.0, perfect.FPR[0])
	assert.Equal(t, 1.0, perfect.FPR[len(perfect.FPR)-1])

	inverted, err := NewROCCurve([]int{1, 1, 0, 0}, []float64{0.1, 0.2, 0.8, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, inverted.AUC, 1e-12)

	_, err = NewROCCurve([]int{1, 1}, []float64{0.1, 0.2})
	assert.Error(t, err)
}

func TestSaveROCPlot(t *testing.T) {
	c, err := NewROCCurve([]int{0, 1, 0, 1}, []float64{0.3, 0.6, 0.4, 0.35})
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "roc.png")
	require.NoError(t, SaveROCPlot(c, out))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
