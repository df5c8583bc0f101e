package config

import (
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

	assert.Equal(t, 8480, cfg.Server.Port)
	assert.Equal(t, "./data/cinedex.db", cfg.Storage.Path)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/original", cfg.TMDB.ImageBaseURL)
	assert.Equal(t, 100, cfg.Catalog.MaxPages)
	assert.Equal(t, 50, cfg.Notifications.HistoryLimit)
	assert.Equal(t, 5*time.Second, cfg.Notifications.ToastDuration)
	assert.Equal(t, 10*time.Millisecond, cfg.Notifications.EnterDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Notifications.ExitDelay)
}

func TestLoad_ConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9999
tmdb:
  api_key: from-file
catalog:
  max_pages: 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.TMDB.APIKey)
	assert.Equal(t, 20, cfg.Catalog.MaxPages)
	// Untouched values keep defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tmdb:\n  api_key: from-file\n"), 0644))

	t.Setenv("CINEDEX_TMDB_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.TMDB.APIKey)
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8480}
	assert.Equal(t, "127.0.0.1:8480", cfg.Address())
}
