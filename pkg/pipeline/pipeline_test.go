package pipeline

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/model"
)

func customers() (dataframe.DataFrame, []int) {
	df := dataframe.New(
		series.New([]string{"1", "2", "3", "NaN", "5", "6", "7", "8"}, series.Int, "tenure"),
		series.New([]string{"a", "b", "a", "b", "NaN", "b", "a", "b"}, series.String, "plan"),
		series.New([]bool{true, false, true, false, true, false, true, false}, series.Bool, "paperless"),
	)
	return df, []int{0, 1, 0, 1, 0, 1, 0, 1}
}

func TestBuildPreprocessorInfersKinds(t *testing.T) {
	df, _ := customers()
	pre, err := BuildPreprocessor(df, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"plan"}, pre.Categorical)
	assert.Equal(t, []string{"tenure", "paperless"}, pre.Numeric)
	assert.False(t, pre.Fitted())
	assert.Equal(t, Schema{
		FeatureNames: []string{"plan", "tenure", "paperless"},
		Types:        []string{"categorical", "numeric", "numeric"},
	}, pre.Schema())
}

func TestBuildPreprocessorExplicitLists(t *testing.T) {
	df, _ := customers()

	pre, err := BuildPreprocessor(df, []string{"plan", "tenure"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"plan", "tenure"}, pre.Categorical)
	assert.Equal(t, []string{"paperless"}, pre.Numeric, "derived list leaves out explicitly claimed columns")

	pre, err = BuildPreprocessor(df, []string{}, []string{"tenure"})
	require.NoError(t, err)
	assert.Empty(t, pre.Categorical)
	assert.Equal(t, []string{"tenure"}, pre.Numeric)

	_, err = BuildPreprocessor(df, []string{"plan", "tenure"}, []string{"tenure"})
	assert.ErrorIs(t, err, ErrOverlappingFeatures)

	_, err = BuildPreprocessor(df, []string{"plan", "plan"}, nil)
	assert.ErrorIs(t, err, ErrOverlappingFeatures)

	_, err = BuildPreprocessor(df, []string{"region"}, nil)
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = BuildPreprocessor(df, []string{}, []string{})
	assert.ErrorIs(t, err, ErrNoFeatures)
}

func TestPreprocessorTransform(t *testing.T) {
	df, _ := customers()
	pre, err := BuildPreprocessor(df, nil, nil)
	require.NoError(t, err)
	_, err = pre.Transform(df)
	require.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, pre.Fit(df))
	assert.True(t, pre.Fitted())
	assert.Equal(t, []string{"b"}, pre.CatImputer.Fill)
	assert.Equal(t, []float64{5, 0.5}, pre.NumImputer.Statistics)
	assert.Equal(t, []string{"plan=a", "plan=b", "tenure", "paperless"}, pre.FeatureNames())

	out, err := pre.Transform(df)
	require.NoError(t, err)
	require.Len(t, out, 8)
	for _, row := range out {
		assert.Len(t, row, 4)
	}
	assert.Equal(t, []float64{0, 1}, out[4][:2], "missing category imputed with most frequent")

	var sum float64
	for _, row := range out {
		sum += row[2]
	}
	assert.InDelta(t, 0, sum, 1e-9, "numeric outputs are centered")
}

func TestPreprocessorUnseenCategoryAndSchemaMismatch(t *testing.T) {
	df, _ := customers()
	pre, err := BuildPreprocessor(df, nil, nil)
	require.NoError(t, err)
	require.NoError(t, pre.Fit(df))

	fresh := dataframe.New(
		series.New([]string{"z"}, series.String, "plan"),
		series.New([]float64{4}, series.Float, "tenure"),
		series.New([]string{"true"}, series.String, "paperless"),
		series.New([]string{"ignored"}, series.String, "extra"),
	)
	out, err := pre.Transform(fresh)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, out[0][:2])
	assert.False(t, math.IsNaN(out[0][2]))

	_, err = pre.Transform(fresh.Drop("tenure"))
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	bad := dataframe.New(
		series.New([]string{"a"}, series.String, "plan"),
		series.New([]string{"lots"}, series.String, "tenure"),
		series.New([]bool{true}, series.Bool, "paperless"),
	)
	_, err = pre.Transform(bad)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestPreprocessorIgnoresReadType(t *testing.T) {
	fit := dataframe.New(
		series.New([]string{"007", "abc", "007", "abc"}, series.String, "plan"),
		series.New([]int{1, 2, 3, 4}, series.Int, "tenure"),
	)
	pre, err := BuildPreprocessor(fit, nil, nil)
	require.NoError(t, err)
	require.NoError(t, pre.Fit(fit))
	assert.Equal(t, []string{"plan=7", "plan=abc", "tenure"}, pre.FeatureNames())

	want, err := pre.Transform(fit.Subset([]int{0}))
	require.NoError(t, err)
	for name, X := range map[string]dataframe.DataFrame{
		"int codes": dataframe.New(
			series.New([]int{7}, series.Int, "plan"),
			series.New([]int{1}, series.Int, "tenure"),
		),
		"text": dataframe.New(
			series.New([]string{"007"}, series.String, "plan"),
			series.New([]string{"1"}, series.String, "tenure"),
		),
		"float codes": dataframe.New(
			series.New([]float64{7}, series.Float, "plan"),
			series.New([]float64{1}, series.Float, "tenure"),
		),
	} {
		got, err := pre.Transform(X)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestPipelineFitPredict(t *testing.T) {
	df, y := customers()
	pre, err := BuildPreprocessor(df, nil, nil)
	require.NoError(t, err)
	p := New(pre, model.NewLogisticRegression())
	require.NoError(t, p.Fit(df, y))

	pred, err := p.Predict(df)
	require.NoError(t, err)
	assert.Equal(t, y, pred)

	proba, err := p.PredictProba(df)
	require.NoError(t, err)
	require.Len(t, proba, df.Nrow())
	for i, pr := range proba {
		assert.Equal(t, y[i] == 1, pr > 0.5)
	}

	assert.Error(t, p.Fit(df, y[:3]))
}
