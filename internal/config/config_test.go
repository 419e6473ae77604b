package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "WARN", cfg.LogLevel)
	assert.Equal(t, ":8501", cfg.HTTPAddr)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "https://github.com", cfg.ReleaseBaseURL)
	assert.NotEmpty(t, cfg.Bundle)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GLUCOGUARD_BUNDLE", "/srv/models/bundle.json")
	t.Setenv("GLUCOGUARD_LOG_LEVEL", "debug")
	t.Setenv("GLUCOGUARD_ENV", "production")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "/srv/models/bundle.json", cfg.Bundle)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glucoguard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":9000\"\nrelease_owner: acme\n"), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "acme", cfg.ReleaseOwner)
	assert.Equal(t, "models", cfg.ReleaseRepo)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefaultBundlePath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "glucoguard", "model_diabetes_brfss.json"), DefaultBundlePath())
}
