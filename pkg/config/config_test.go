package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bridgectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
bridgectl:
  backend: mock
  mode: manual
  timeLimit: 2s
  maxWeight: 64
  silent: true
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Backend:   MockBackend,
		Mode:      "manual",
		TimeLimit: 2 * time.Second,
		MaxWeight: 64,
		Silent:    true,
	}, config)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "bridgectl:\n  metrics: true\n")
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, SatBackend, config.Backend)
	assert.Equal(t, "automatic", config.Mode)
	assert.Zero(t, config.TimeLimit)
	assert.True(t, config.Metrics)
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.yaml"), []byte("bridgectl: {}\n"), 0o644))
	t.Setenv("BRIDGECTL_CONFIG_DIR", dir)
	_, err := LoadConfig("$BRIDGECTL_CONFIG_DIR/c.yaml")
	require.NoError(t, err)
}

func TestLoadConfigErrors(t *testing.T) {
	for name, content := range map[string]string{
		"unknown backend": "bridgectl:\n  backend: glpk\n",
		"unknown mode":    "bridgectl:\n  mode: eager\n",
		"negative limit":  "bridgectl:\n  timeLimit: -1s\n",
		"negative weight": "bridgectl:\n  maxWeight: -3\n",
		"unknown field":   "bridgectl:\n  solver: gini\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(err))
}
