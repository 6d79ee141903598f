package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 10000, cfg.MaxBatchSize)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("FRAUD_WORKERS", "8")
	t.Setenv("FRAUD_LOG_LEVEL", "debug")
	t.Setenv("FRAUD_REQUEST_TIMEOUT", "5s")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "http_addr: \":7070\"\nmax_batch_size: 50\nsigning_key: from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, 50, cfg.MaxBatchSize)
	assert.Equal(t, "from-file", cfg.SigningKey)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("FRAUD_WORKERS", "0")

	_, err := Load("")

	assert.True(t, errors.Is(err, ErrInvalidConfig), "expected ErrInvalidConfig, got %v", err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}
