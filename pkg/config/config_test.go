package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfigPath, EnvModelPath, EnvAddr, EnvTargets, EnvTestSize, EnvSeed} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "churnml.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, DefaultModelPath, cfg.ModelPath)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultTestSize, cfg.Train.TestSize)
	assert.Equal(t, int64(DefaultRandomState), cfg.Train.Seed())
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout())
	assert.Equal(t, DefaultWriteTimeout, cfg.WriteTimeout())
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
model_path: /srv/models/churn.json
addr: ":9000"
write_timeout_seconds: 5
train:
  test_size: 0.3
  random_state: 0
  max_iter: 200
  c: 0.5
  targets: [Exited]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "/srv/models/churn.json", cfg.ModelPath)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout())
	assert.Equal(t, 0.3, cfg.Train.TestSize)
	assert.Equal(t, int64(0), cfg.Train.Seed())
	assert.Equal(t, 200, cfg.Train.MaxIter)
	assert.Equal(t, 0.5, cfg.Train.C)
	assert.Equal(t, []string{"Exited"}, cfg.Train.Targets)

	t.Setenv(EnvModelPath, "/tmp/env.json")
	t.Setenv(EnvAddr, ":7000")
	t.Setenv(EnvTargets, "Churn, churned ,")
	t.Setenv(EnvTestSize, "0.4")
	t.Setenv(EnvSeed, "7")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.json", cfg.ModelPath)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, []string{"Churn", "churned"}, cfg.Train.Targets)
	assert.Equal(t, 0.4, cfg.Train.TestSize)
	assert.Equal(t, int64(7), cfg.Train.Seed())
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "addr: \":8123\"\n")
	t.Setenv(EnvConfigPath, path)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8123", cfg.Addr)

	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "absent.yaml"))
	_, err = Load("")
	assert.Error(t, err, "an explicitly named file must exist")
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "train: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "train:\n  test_size: 1.5\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	t.Setenv(EnvSeed, "forty-two")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalid)

	t.Setenv(EnvSeed, "")
	t.Setenv(EnvTestSize, "abc")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalid)
}
