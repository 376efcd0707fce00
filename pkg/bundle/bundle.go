// Package bundle persists fitted churn pipelines.
//
// A bundle is a single JSON document holding the fitted pipeline parameters,
// the input schema and the training configuration, tagged with a format
// version. Bundles are written to a temporary file and renamed into place, so
// an existing bundle is replaced whole or not at all.
package bundle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/pipeline"
)

// FormatVersion is the bundle layout version written by Save.
const FormatVersion = 1

var (
	// ErrIO wraps failures reading or writing bundle files.
	ErrIO = errors.New("bundle: i/o failure")
	// ErrUnsupportedVersion is returned for bundles written by a newer format.
	ErrUnsupportedVersion = errors.New("bundle: unsupported format version")
	// ErrInvalid is returned for bundles missing required parts.
	ErrInvalid = errors.New("bundle: invalid contents")
)

// Meta is the training configuration recorded alongside the pipeline.
type Meta struct {
	Target      string   `json:"target"`
	CatFeatures []string `json:"cat_features"`
	NumFeatures []string `json:"num_features"`
	TestSize    float64  `json:"test_size"`
	RandomState int64    `json:"random_state"`
}

// Bundle is the persisted artifact.
type Bundle struct {
	FormatVersion int             `json:"format_version"`
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Config        Meta            `json:"config"`
	Schema        pipeline.Schema `json:"schema"`

	// The embedded pipeline puts "preprocessor" and "classifier" at the top level.
	*pipeline.Pipeline
}

// New wraps a fitted pipeline and its configuration into a bundle with a fresh ID.
func New(p *pipeline.Pipeline, meta Meta) *Bundle {
	return &Bundle{
		FormatVersion: FormatVersion,
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		Config:        meta,
		Schema:        p.Schema(),
		Pipeline:      p,
	}
}

// Save writes b to path, creating parent directories as needed.
func (b *Bundle) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(ErrIO, "create %s: %v", dir, err)
	}
	contents, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return errors.Wrapf(ErrIO, "encode bundle: %v", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(ErrIO, "create temp file in %s: %v", dir, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(contents); err != nil {
		tmp.Close()
		return errors.Wrapf(ErrIO, "write %s: %v", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(ErrIO, "close %s: %v", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(ErrIO, "rename to %s: %v", path, err)
	}
	klog.V(1).Infof("saved bundle %s to %s (%d bytes)", b.ID, path, len(contents))
	return nil
}

// Load reads and validates the bundle at path.
func Load(path string) (*Bundle, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "read %s: %v", path, err)
	}
	var b Bundle
	if err := json.Unmarshal(contents, &b); err != nil {
		return nil, errors.Wrapf(ErrIO, "decode %s: %v", path, err)
	}
	if b.FormatVersion < 1 || b.FormatVersion > FormatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "%s has version %d, this build reads up to %d",
			path, b.FormatVersion, FormatVersion)
	}
	if err := b.validate(); err != nil {
		return nil, errors.WithMessagef(err, "%s", path)
	}
	klog.V(1).Infof("loaded bundle %s from %s", b.ID, path)
	return &b, nil
}

func (b *Bundle) validate() error {
	p := b.Pipeline
	switch {
	case p == nil || p.Preprocessor == nil || p.Classifier == nil:
		return errors.Wrap(ErrInvalid, "pipeline is incomplete")
	case p.Preprocessor.CatImputer == nil || p.Preprocessor.Encoder == nil ||
		p.Preprocessor.NumImputer == nil || p.Preprocessor.Scaler == nil:
		return errors.Wrap(ErrInvalid, "preprocessor is incomplete")
	case !p.Preprocessor.Fitted() || !p.Classifier.Fitted():
		return errors.Wrap(ErrInvalid, "pipeline is not fitted")
	}
	if want := p.Preprocessor.Encoder.NumOutputs() + len(p.Preprocessor.Numeric); len(p.Classifier.W) != want {
		return errors.Wrapf(ErrInvalid, "classifier has %d weights, preprocessor produces %d features",
			len(p.Classifier.W), want)
	}
	return nil
}

// LoadPipeline loads the bundle at path and returns its pipeline.
func LoadPipeline(path string) (*pipeline.Pipeline, error) {
	b, err := Load(path)
	if err != nil {
		return nil, err
	}
	return b.Pipeline, nil
}
