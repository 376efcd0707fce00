// Package data loads tabular churn datasets into gota DataFrames and extracts
// binary targets from them.
package data

import (
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrNotFound is returned by Load when the input path does not exist.
var ErrNotFound = errors.New("data: file not found")

// NaNValues are the cell values treated as missing.
var NaNValues = []string{"", "NA", "NaN", "nan", "null", "<nil>"}

// ColumnKind is the semantic type of a column for preprocessing purposes.
type ColumnKind int

const (
	Categorical ColumnKind = iota
	Numeric
)

func (k ColumnKind) String() string {
	switch k {
	case Categorical:
		return "categorical"
	case Numeric:
		return "numeric"
	}
	return "unknown"
}

// KindOf maps a gota series type to its preprocessing kind. Booleans are numeric.
func KindOf(t series.Type) ColumnKind {
	switch t {
	case series.Int, series.Float, series.Bool:
		return Numeric
	}
	return Categorical
}

type loadConfig struct {
	delimiter rune
	types     map[string]series.Type
}

// LoadOption customizes Load.
type LoadOption func(*loadConfig)

// WithDelimiter sets the field delimiter (default ',').
func WithDelimiter(r rune) LoadOption { return func(c *loadConfig) { c.delimiter = r } }

// WithTypes fixes the type of the named columns instead of detecting it.
// Columns not in the map are still detected.
func WithTypes(types map[string]series.Type) LoadOption {
	return func(c *loadConfig) { c.types = types }
}

// Load reads a delimited file with a header row. Column types are detected
// from content unless fixed with WithTypes.
func Load(path string, opts ...LoadOption) (dataframe.DataFrame, error) {
	cfg := loadConfig{delimiter: ','}
	for _, o := range opts {
		o(&cfg)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return dataframe.DataFrame{}, errors.Wrapf(ErrNotFound, "%s", path)
		}
		return dataframe.DataFrame{}, errors.Wrapf(err, "data: stat %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "data: open %s", path)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(NaNValues),
		dataframe.WithDelimiter(cfg.delimiter),
		dataframe.WithTypes(cfg.types),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(df.Err, "data: parse %s", path)
	}
	klog.V(1).Infof("loaded %s: %d rows x %d columns", path, df.Nrow(), df.Ncol())
	return df, nil
}

// FromRecords builds a table of text columns from row-like key/value
// mappings. Keys missing from a record become missing values. Types are not
// guessed, so a record reads the same whatever other records it arrives with.
func FromRecords(records []map[string]any) (dataframe.DataFrame, error) {
	if len(records) == 0 {
		return dataframe.DataFrame{}, errors.New("data: no records")
	}
	df := dataframe.LoadMaps(records,
		dataframe.DetectTypes(false),
		dataframe.NaNValues(NaNValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(df.Err, "data: load records")
	}
	return df, nil
}

// InferKinds partitions the table's columns, in column order, into categorical
// (text) and numeric (int, float, bool) names.
func InferKinds(df dataframe.DataFrame) (cat, num []string) {
	cat, num = []string{}, []string{}
	types := df.Types()
	for i, name := range df.Names() {
		if KindOf(types[i]) == Numeric {
			num = append(num, name)
		} else {
			cat = append(cat, name)
		}
	}
	return cat, num
}

// HasColumn reports whether df has a column called name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// DropColumn returns df without the named column. A missing column is a no-op.
func DropColumn(df dataframe.DataFrame, name string) dataframe.DataFrame {
	if !HasColumn(df, name) {
		return df
	}
	return df.Drop(name)
}

// Rows returns the subset of df at the given row indices, in that order.
func Rows(df dataframe.DataFrame, idx []int) dataframe.DataFrame {
	return df.Subset(idx)
}
