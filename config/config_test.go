package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://api.tryteddy.com/f1dev/admin/", cfg.APIBase)
	assert.Equal(t, time.Minute, cfg.StaleTime)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.Logging.Path)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"api_base":"https://staging.tryteddy.com/admin/","stale_time":0,"logging":{"level":"debug"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.tryteddy.com/admin/", cfg.APIBase)
	assert.Equal(t, time.Duration(0), cfg.StaleTime)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched fields keep their defaults
	assert.Equal(t, "https://app.tryteddy.com/", cfg.FrontBase)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_base":"https://from-file/"}`), 0600))
	t.Setenv("TEDDY_API_BASE", "https://from-env/")
	t.Setenv("TEDDY_STALE_TIME", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env/", cfg.APIBase)
	assert.Equal(t, 30*time.Second, cfg.StaleTime)
}

func TestMissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
