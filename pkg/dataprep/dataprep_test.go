package dataprep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMostFrequentImputer(t *testing.T) {
	X := [][]string{{"a", "NaN"}, {"b", ""}, {"b", "NA"}, {"NaN", "NA"}}
	var imp MostFrequentImputer
	_, err := imp.Transform(X)
	require.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, imp.Fit(X))
	assert.Equal(t, []string{"b", MissingCategory}, imp.Fill)

	out, err := imp.Transform([][]string{{"", "x"}, {"a", "NaN"}})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"b", "x"}, {"a", MissingCategory}}, out)

	_, err = imp.Transform([][]string{{"a"}})
	assert.Error(t, err)
}

func TestMedianImputer(t *testing.T) {
	nan := math.NaN()
	X := [][]float64{{1, nan}, {nan, nan}, {3, nan}, {10, nan}}
	var imp MedianImputer
	require.NoError(t, imp.Fit(X))
	assert.Equal(t, []float64{3, 0}, imp.Statistics)

	out, err := imp.Transform([][]float64{{nan, 5}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 5}}, out)
}

func TestOneHotEncoderIgnoresUnknown(t *testing.T) {
	var enc OneHotEncoder
	require.NoError(t, enc.Fit([][]string{{"b", "x"}, {"a", "x"}, {"b", "y"}}))
	assert.Equal(t, [][]string{{"a", "b"}, {"x", "y"}}, enc.Categories)
	assert.Equal(t, 4, enc.NumOutputs())
	assert.Equal(t, []string{"plan=a", "plan=b", "tier=x", "tier=y"}, enc.FeatureNames([]string{"plan", "tier"}))

	out, err := enc.Transform([][]string{{"a", "y"}, {"zzz", "x"}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0, 0, 1}, {0, 0, 1, 0}}, out)

	_, err = (&OneHotEncoder{}).Transform([][]string{{"a"}})
	assert.ErrorIs(t, err, ErrNotFitted)
}
