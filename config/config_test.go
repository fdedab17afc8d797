package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/hashring/hashring"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: debug
  json: true
ring:
  replicas: 160
  hasher: murmur3
  nodes:
    - cache-a
    - cache-b
metrics:
  addr: ":9100"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Logger.JSON)
	assert.Equal(t, 160, cfg.Ring.Replicas)
	assert.Equal(t, "murmur3", cfg.Ring.Hasher)
	assert.Equal(t, []string{"cache-a", "cache-b"}, cfg.Ring.Nodes)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)

	// untouched sections keep their defaults
	assert.Equal(t, Default().Demo, cfg.Demo)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed yaml", body: "ring: [unclosed"},
		{name: "unknown hasher", body: "ring:\n  hasher: sha256\n"},
		{name: "negative replicas", body: "ring:\n  replicas: -1\n"},
		{name: "unknown level", body: "logger:\n  level: verbose\n"},
		{name: "blank node", body: "ring:\n  nodes: [\"a\", \" \"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Ring.Nodes = nil
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Ring.Hasher = "md5"
	assert.ErrorIs(t, cfg.Validate(), hashring.ErrUnknownHasher)

	cfg = Default()
	cfg.Demo.Keys = -1
	assert.Error(t, cfg.Validate())
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"Warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		cfg := Config{Logger: LoggerConfig{Level: in}}
		got, err := cfg.SlogLevel()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestRingNodes(t *testing.T) {
	cfg := Default()
	cfg.Ring.Nodes = []string{" cache-a ", "cache-b"}
	assert.Equal(t, []hashring.Node{"cache-a", "cache-b"}, cfg.RingNodes())
}
