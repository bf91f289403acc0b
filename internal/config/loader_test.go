package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := NewLoader(filepath.Join(t.TempDir(), "does-not-exist.yaml")).Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Store.DBFileName, cfg.Store.DBFileName)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fastsearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  workers: 4\n"), 0o644))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Scan.Workers)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fastsearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  workers: 4\n"), 0o644))

	t.Setenv("FASTSEARCH_SCAN_WORKERS", "7")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Scan.Workers)
}

func TestDefaultDataDir_HonorsOverride(t *testing.T) {
	cfg := Default()
	cfg.Store.DataDir = "/tmp/fastsearch-test-override"
	dir, err := DefaultDataDir(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/fastsearch-test-override", dir)
}
