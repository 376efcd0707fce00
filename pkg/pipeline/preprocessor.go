package pipeline

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/data"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/dataprep"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/stats"
)

var (
	// ErrSchemaMismatch is returned when a table does not fit the schema the plan was fitted on.
	ErrSchemaMismatch = errors.New("pipeline: schema mismatch")
	// ErrOverlappingFeatures is returned when a column is listed as both categorical and numeric.
	ErrOverlappingFeatures = errors.New("pipeline: column listed as both categorical and numeric")
	// ErrUnknownColumn is returned when an explicit feature list names a column the table lacks.
	ErrUnknownColumn = errors.New("pipeline: unknown feature column")
	// ErrNoFeatures is returned when no feature column is left to train on.
	ErrNoFeatures = errors.New("pipeline: no feature columns")
	// ErrNotFitted is returned when transforming with an unfitted plan.
	ErrNotFitted = errors.New("pipeline: not fitted")
)

// Preprocessor is the column-wise transformation plan: a categorical branch
// (most-frequent imputation, one-hot encoding) and a numeric branch (median
// imputation, standardization). Outputs are concatenated categorical first.
type Preprocessor struct {
	Categorical []string `json:"categorical"`
	Numeric     []string `json:"numeric"`

	CatImputer *dataprep.MostFrequentImputer `json:"cat_imputer"`
	Encoder    *dataprep.OneHotEncoder       `json:"encoder"`
	NumImputer *dataprep.MedianImputer       `json:"num_imputer"`
	Scaler     *stats.StandardScaler         `json:"scaler"`
}

// BuildPreprocessor plans the preprocessing of df's columns. A nil list is
// derived from the detected column types (text is categorical; int, float and
// bool are numeric), leaving out columns claimed by the other, explicit list.
// Explicit lists must name existing columns and must not share a column.
func BuildPreprocessor(df dataframe.DataFrame, cat, num []string) (*Preprocessor, error) {
	for _, list := range [][]string{cat, num} {
		for _, c := range list {
			if !data.HasColumn(df, c) {
				return nil, errors.Wrapf(ErrUnknownColumn, "%q", c)
			}
		}
	}
	if err := checkDisjoint(cat, num); err != nil {
		return nil, err
	}
	inferredCat, inferredNum := data.InferKinds(df)
	if cat == nil {
		cat = without(inferredCat, num)
	}
	if num == nil {
		num = without(inferredNum, cat)
	}
	if len(cat)+len(num) == 0 {
		return nil, ErrNoFeatures
	}
	klog.V(1).Infof("preprocessor plan: categorical=%v numeric=%v", cat, num)
	return &Preprocessor{
		Categorical: append([]string{}, cat...),
		Numeric:     append([]string{}, num...),
		CatImputer:  &dataprep.MostFrequentImputer{},
		Encoder:     &dataprep.OneHotEncoder{},
		NumImputer:  &dataprep.MedianImputer{},
		Scaler:      stats.NewStandardScaler(),
	}, nil
}

func checkDisjoint(cat, num []string) error {
	seen := make(map[string]string, len(cat)+len(num))
	for _, named := range []struct {
		kind string
		cols []string
	}{{"categorical", cat}, {"numeric", num}} {
		for _, c := range named.cols {
			if prev, ok := seen[c]; ok {
				return errors.Wrapf(ErrOverlappingFeatures, "%q listed as %s and %s", c, prev, named.kind)
			}
			seen[c] = named.kind
		}
	}
	return nil
}

func without(cols, exclude []string) []string {
	out := []string{}
	for _, c := range cols {
		drop := false
		for _, e := range exclude {
			if c == e {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, c)
		}
	}
	return out
}

// Schema returns the input columns the plan consumes.
func (p *Preprocessor) Schema() Schema { return newSchema(p.Categorical, p.Numeric) }

// Fitted reports whether every step holds learned parameters.
func (p *Preprocessor) Fitted() bool {
	return p.CatImputer.Fill != nil && p.Encoder.Categories != nil &&
		p.NumImputer.Statistics != nil && p.Scaler.Fitted()
}

// Fit learns imputation values, category vocabularies and scaling statistics from X.
func (p *Preprocessor) Fit(X dataframe.DataFrame) error {
	if X.Nrow() == 0 {
		return errors.New("pipeline: cannot fit on zero rows")
	}
	catX, err := categoricalMatrix(X, p.Categorical)
	if err != nil {
		return err
	}
	if err := p.CatImputer.Fit(catX); err != nil {
		return err
	}
	if catX, err = p.CatImputer.Transform(catX); err != nil {
		return err
	}
	if err := p.Encoder.Fit(catX); err != nil {
		return err
	}

	numX, err := numericMatrix(X, p.Numeric)
	if err != nil {
		return err
	}
	if err := p.NumImputer.Fit(numX); err != nil {
		return err
	}
	if numX, err = p.NumImputer.Transform(numX); err != nil {
		return err
	}
	return p.Scaler.Fit(numX)
}

// Transform applies the fitted plan to X. Columns are selected by name; extra
// columns are ignored and missing ones are a schema mismatch.
func (p *Preprocessor) Transform(X dataframe.DataFrame) ([][]float64, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	catX, err := categoricalMatrix(X, p.Categorical)
	if err != nil {
		return nil, err
	}
	if catX, err = p.CatImputer.Transform(catX); err != nil {
		return nil, err
	}
	encoded, err := p.Encoder.Transform(catX)
	if err != nil {
		return nil, err
	}

	numX, err := numericMatrix(X, p.Numeric)
	if err != nil {
		return nil, err
	}
	if numX, err = p.NumImputer.Transform(numX); err != nil {
		return nil, err
	}
	scaled, err := p.Scaler.Transform(numX)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, X.Nrow())
	for i := range out {
		row := make([]float64, 0, len(encoded[i])+len(scaled[i]))
		row = append(row, encoded[i]...)
		out[i] = append(row, scaled[i]...)
	}
	return out, nil
}

// FeatureNames names the transformed outputs in order.
func (p *Preprocessor) FeatureNames() []string {
	names := p.Encoder.FeatureNames(p.Categorical)
	return append(names, p.Numeric...)
}

func column(X dataframe.DataFrame, name string) (series.Series, error) {
	if !data.HasColumn(X, name) {
		return series.Series{}, errors.Wrapf(ErrSchemaMismatch, "column %q is missing", name)
	}
	return X.Col(name), nil
}

// categoricalMatrix reads cols as text, row-major. Cells holding a number,
// typed or as text, are rendered in shortest form so 1, 1.0 and 01 name the
// same category whatever type the column was read as.
func categoricalMatrix(X dataframe.DataFrame, cols []string) ([][]string, error) {
	out := make([][]string, X.Nrow())
	for i := range out {
		out[i] = make([]string, len(cols))
	}
	for j, name := range cols {
		s, err := column(X, name)
		if err != nil {
			return nil, err
		}
		for i := range out {
			e := s.Elem(i)
			switch {
			case e.IsNA():
				out[i][j] = "NaN"
			case s.Type() == series.Int || s.Type() == series.Float:
				out[i][j] = strconv.FormatFloat(e.Float(), 'f', -1, 64)
			default:
				out[i][j] = categoryText(e.String())
			}
		}
	}
	return out, nil
}

// numericMatrix reads cols as floats, row-major, with NaN for missing cells.
// Text columns are parsed; a value that is neither a number nor a boolean is a
// schema mismatch.
func numericMatrix(X dataframe.DataFrame, cols []string) ([][]float64, error) {
	out := make([][]float64, X.Nrow())
	for i := range out {
		out[i] = make([]float64, len(cols))
	}
	for j, name := range cols {
		s, err := column(X, name)
		if err != nil {
			return nil, err
		}
		for i := range out {
			e := s.Elem(i)
			if e.IsNA() {
				out[i][j] = math.NaN()
				continue
			}
			if s.Type() != series.String {
				out[i][j] = e.Float()
				continue
			}
			v, err := parseNumber(e.String())
			if err != nil {
				return nil, errors.Wrapf(ErrSchemaMismatch, "column %q row %d: %q is not numeric", name, i, e.String())
			}
			out[i][j] = v
		}
	}
	return out, nil
}

func categoryText(s string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return 0, err
	}
	if b {
		return 1, nil
	}
	return 0, nil
}
