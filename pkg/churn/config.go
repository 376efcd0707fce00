package churn

import (
	"github.com/pkg/errors"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/bundle"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/model"
)

// Defaults for TrainConfig.
const (
	DefaultTestSize    = 0.2
	DefaultRandomState = 42
)

// ErrInvalidConfig is returned by TrainConfig.Validate.
var ErrInvalidConfig = errors.New("churn: invalid training configuration")

// TrainConfig holds the options of one training run.
//
// A nil feature list is derived from the table's column types; an empty,
// non-nil list means "no columns of this kind".
type TrainConfig struct {
	Target      string
	CatFeatures []string
	NumFeatures []string
	TestSize    float64
	RandomState int64

	// MaxIter and C tune the classifier; zero keeps the model defaults.
	MaxIter int
	C       float64

	// Progress, when set, receives the classifier's iteration count and loss.
	Progress func(iter int, loss float64)
}

// DefaultTrainConfig returns a config for target with the default split.
func DefaultTrainConfig(target string) TrainConfig {
	return TrainConfig{
		Target:      target,
		TestSize:    DefaultTestSize,
		RandomState: DefaultRandomState,
	}
}

// Validate checks the config's values.
func (c TrainConfig) Validate() error {
	switch {
	case c.Target == "":
		return errors.Wrap(ErrInvalidConfig, "target is empty")
	case c.TestSize <= 0 || c.TestSize >= 1:
		return errors.Wrapf(ErrInvalidConfig, "test size must be in (0, 1), got %g", c.TestSize)
	case c.MaxIter < 0:
		return errors.Wrapf(ErrInvalidConfig, "max iterations must not be negative, got %d", c.MaxIter)
	case c.C < 0:
		return errors.Wrapf(ErrInvalidConfig, "C must not be negative, got %g", c.C)
	}
	return nil
}

func (c TrainConfig) classifier() *model.LogisticRegression {
	var opts []model.Option
	if c.MaxIter > 0 {
		opts = append(opts, model.WithMaxIter(c.MaxIter))
	}
	if c.C > 0 {
		opts = append(opts, model.WithC(c.C))
	}
	if c.Progress != nil {
		opts = append(opts, model.WithProgress(c.Progress))
	}
	return model.NewLogisticRegression(opts...)
}

func (c TrainConfig) meta() bundle.Meta {
	return bundle.Meta{
		Target:      c.Target,
		CatFeatures: c.CatFeatures,
		NumFeatures: c.NumFeatures,
		TestSize:    c.TestSize,
		RandomState: c.RandomState,
	}
}
