// Package config resolves churnml settings from an optional YAML file,
// environment overrides and defaults, in increasing order of precedence:
// defaults, file, environment. Command-line flags are applied by the caller.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// Environment variables read by Load.
const (
	EnvConfigPath = "CHURN_CONFIG"
	EnvModelPath  = "CHURN_MODEL_PATH"
	EnvAddr       = "CHURN_ADDR"
	EnvTargets    = "CHURN_TARGETS"
	EnvTestSize   = "CHURN_TEST_SIZE"
	EnvSeed       = "CHURN_RANDOM_STATE"
)

// Defaults.
const (
	DefaultConfigPath   = "churnml.yaml"
	DefaultModelPath    = "models/model.json"
	DefaultAddr         = ":8000"
	DefaultTestSize     = 0.2
	DefaultRandomState  = 42
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 30 * time.Second
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	ModelPath string `yaml:"model_path"`
	Addr      string `yaml:"addr"`

	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`

	Train Train `yaml:"train"`

	// Path is the file the config was read from, empty when none was found.
	Path string `yaml:"-"`
}

// Train holds training defaults.
type Train struct {
	TestSize    float64  `yaml:"test_size"`
	RandomState *int64   `yaml:"random_state"` // nil keeps DefaultRandomState; 0 is a valid seed
	MaxIter     int      `yaml:"max_iter"`
	C           float64  `yaml:"c"`
	Targets     []string `yaml:"targets"`
}

// Seed returns the configured random state.
func (t Train) Seed() int64 {
	if t.RandomState == nil {
		return DefaultRandomState
	}
	return *t.RandomState
}

// ReadTimeout returns the serving read timeout.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the serving write timeout.
func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// Load resolves the configuration. path names the YAML file; when empty,
// CHURN_CONFIG and then DefaultConfigPath are tried. A missing file at the
// default location is not an error; an explicitly named one is.
func Load(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvConfigPath); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultConfigPath
		}
	}
	contents, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(contents, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "config: parse %s", path)
		}
		cfg.Path = path
		klog.V(1).Infof("loaded config from %s", path)
	case explicit || !errors.Is(err, os.ErrNotExist):
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}

	envOverride(&cfg.ModelPath, EnvModelPath)
	envOverride(&cfg.Addr, EnvAddr)
	if targets := os.Getenv(EnvTargets); targets != "" {
		cfg.Train.Targets = nil
		for _, t := range strings.Split(targets, ",") {
			if t = strings.TrimSpace(t); t != "" {
				cfg.Train.Targets = append(cfg.Train.Targets, t)
			}
		}
	}
	if err := envOverrideFloat(&cfg.Train.TestSize, EnvTestSize); err != nil {
		return Config{}, err
	}
	if val := os.Getenv(EnvSeed); val != "" {
		seed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return Config{}, errors.Wrapf(ErrInvalid, "%s %q: %v", EnvSeed, val, err)
		}
		cfg.Train.RandomState = &seed
	}

	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.ModelPath == "" {
		c.ModelPath = DefaultModelPath
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ReadTimeoutSeconds == 0 {
		c.ReadTimeoutSeconds = int(DefaultReadTimeout / time.Second)
	}
	if c.WriteTimeoutSeconds == 0 {
		c.WriteTimeoutSeconds = int(DefaultWriteTimeout / time.Second)
	}
	if c.Train.TestSize == 0 {
		c.Train.TestSize = DefaultTestSize
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Train.TestSize <= 0 || c.Train.TestSize >= 1 {
		return errors.Wrapf(ErrInvalid, "train.test_size must be in (0, 1), got %g", c.Train.TestSize)
	}
	if c.Train.MaxIter < 0 {
		return errors.Wrapf(ErrInvalid, "train.max_iter must be >= 0, got %d", c.Train.MaxIter)
	}
	if c.Train.C < 0 {
		return errors.Wrapf(ErrInvalid, "train.c must be >= 0, got %g", c.Train.C)
	}
	if c.ReadTimeoutSeconds < 0 || c.WriteTimeoutSeconds < 0 {
		return errors.Wrap(ErrInvalid, "timeouts must be >= 0")
	}
	return nil
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideFloat(field *float64, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return errors.Wrapf(ErrInvalid, "%s %q: %v", envKey, val, err)
	}
	*field = parsed
	return nil
}
