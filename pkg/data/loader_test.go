package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o644))
	return p
}

func TestLoadInfersKinds(t *testing.T) {
	p := writeFile(t, "customers.csv", "tenure,plan,monthly,paperless,Churn\n"+
		"1,basic,29.5,true,0\n"+
		"NA,premium,,false,1\n"+
		"12,,80.25,true,0\n")
	df, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 3, df.Nrow())
	assert.Equal(t, []string{"tenure", "plan", "monthly", "paperless", "Churn"}, df.Names())

	cat, num := InferKinds(df)
	assert.Equal(t, []string{"plan"}, cat)
	assert.Equal(t, []string{"tenure", "monthly", "paperless", "Churn"}, num)
	assert.True(t, df.Col("tenure").Elem(1).IsNA())
	assert.True(t, df.Col("plan").Elem(2).IsNA())
}

func TestLoadDelimiter(t *testing.T) {
	p := writeFile(t, "semi.csv", "a;b\n1;x\n2;y\n")
	df, err := Load(p, WithDelimiter(';'))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, df.Names())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestSplitTarget(t *testing.T) {
	tests := []struct {
		name   string
		values any
		typ    series.Type
		want   []int
		err    error
	}{
		{"ints", []int{0, 1, 1}, series.Int, []int{0, 1, 1}, nil},
		{"bools", []bool{true, false, true}, series.Bool, []int{1, 0, 1}, nil},
		{"yes/no", []string{"Yes", "no", "YES"}, series.String, []int{1, 0, 1}, nil},
		{"floats", []float64{1, 0, 0}, series.Float, []int{1, 0, 0}, nil},
		{"not binary", []int{0, 2, 1}, series.Int, nil, ErrInvalidTarget},
		{"unknown words", []string{"maybe", "no", "yes"}, series.String, nil, ErrInvalidTarget},
		{"missing value", []string{"1", "NaN", "0"}, series.Int, nil, ErrInvalidTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df := dataframe.New(
				series.New([]int{1, 2, 3}, series.Int, "tenure"),
				series.New(tt.values, tt.typ, "Churn"),
			)
			X, y, err := SplitTarget(df, "Churn")
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, y)
			assert.Equal(t, []string{"tenure"}, X.Names())
		})
	}
}

func TestSplitTargetMissing(t *testing.T) {
	df := dataframe.New(series.New([]int{1, 2}, series.Int, "x"))
	_, _, err := SplitTarget(df, "Churn")
	assert.ErrorIs(t, err, ErrMissingTarget)
}

func TestDetectTarget(t *testing.T) {
	df := dataframe.New(
		series.New([]int{1}, series.Int, "x"),
		series.New([]int{0}, series.Int, "churn"),
	)
	got, err := DetectTarget(df, DefaultTargets)
	require.NoError(t, err)
	assert.Equal(t, "churn", got)

	_, err = DetectTarget(df, []string{"Exited"})
	assert.ErrorIs(t, err, ErrMissingTarget)
}

func TestFromRecords(t *testing.T) {
	df, err := FromRecords([]map[string]any{
		{"tenure": 3.0, "plan": "basic"},
		{"tenure": 12.0, "plan": nil},
		{"plan": "premium"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, df.Nrow())
	assert.Equal(t, series.String, df.Col("tenure").Type())
	assert.Equal(t, "12", df.Col("tenure").Elem(1).String())
	assert.True(t, df.Col("tenure").Elem(2).IsNA())
	assert.True(t, df.Col("plan").Elem(1).IsNA())

	_, err = FromRecords(nil)
	assert.Error(t, err)
}

func TestFromRecordsKeepsTextPerRecord(t *testing.T) {
	alone, err := FromRecords([]map[string]any{{"plan": "007", "flag": "true"}})
	require.NoError(t, err)
	mixed, err := FromRecords([]map[string]any{
		{"plan": "007", "flag": "true"},
		{"plan": "abc", "flag": "maybe"},
	})
	require.NoError(t, err)
	for _, col := range []string{"plan", "flag"} {
		assert.Equal(t, series.String, alone.Col(col).Type(), col)
		assert.Equal(t, mixed.Col(col).Elem(0).String(), alone.Col(col).Elem(0).String(), col)
	}
	assert.Equal(t, "007", alone.Col("plan").Elem(0).String())
}

func TestLoadWithTypes(t *testing.T) {
	path := writeFile(t, "codes.csv", "plan,tenure\n007,1\n010,2\n")

	detected, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, series.Int, detected.Col("plan").Type())

	fixed, err := Load(path, WithTypes(map[string]series.Type{"plan": series.String}))
	require.NoError(t, err)
	assert.Equal(t, series.String, fixed.Col("plan").Type())
	assert.Equal(t, []string{"007", "010"}, fixed.Col("plan").Records())
	assert.Equal(t, series.Int, fixed.Col("tenure").Type())
}

func TestDropColumnAndRows(t *testing.T) {
	df := dataframe.New(
		series.New([]int{1, 2, 3}, series.Int, "a"),
		series.New([]string{"x", "y", "z"}, series.String, "b"),
	)
	assert.Equal(t, []string{"b"}, DropColumn(df, "a").Names())
	assert.Equal(t, df.Names(), DropColumn(df, "nope").Names())
	assert.Equal(t, []string{"z", "x"}, Rows(df, []int{2, 0}).Col("b").Records())
	assert.Equal(t, map[int]int{0: 1, 1: 2}, ClassCounts([]int{1, 0, 1}))
}
