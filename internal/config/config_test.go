package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDefaults(t *testing.T) {
	cfg, err := Setup("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "standard", cfg.Rules)
	assert.Equal(t, 4096, cfg.CacheSize)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bgtree.yaml")
	data := "host: 0.0.0.0\nport: 9090\nrules: race\nlog_level: debug\nqueue_timeout: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Setup(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "race", cfg.Rules)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.Equal(t, 2*time.Second, cfg.QueueTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
}

func TestSetupEnvOverride(t *testing.T) {
	t.Setenv("BGTREE_PORT", "7070")
	t.Setenv("BGTREE_MAX_BATCHES", "3")

	cfg, err := Setup("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, 3, cfg.MaxBatches)
	assert.Equal(t, 100, cfg.MaxBuilds)
}

func TestSetupErrors(t *testing.T) {
	_, err := Setup(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("BGTREE_LOG_LEVEL", "chatty")
	_, err = Setup("")
	assert.Error(t, err)
}
