package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "SONGS_PATH", "OUTPUT_PATH", "INDEX_PATH", "WORKER_COUNT",
		"CATALOG_ENDPOINT", "CATALOG_REGION", "CATALOG_TABLE", "WATCH_INTERVAL", "WATCH_SETTLE"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert := assert.New(t)
	assert.Equal("8080", cfg.Port)
	assert.Equal("./out/songs", cfg.OutputPath)
	assert.Equal("./out/index", cfg.IndexPath)
	assert.NotEqual(cfg.OutputPath, cfg.IndexPath)
	assert.Equal(4, cfg.WorkerCount)
	assert.Equal("tabdex-metadata", cfg.CatalogTable)
	assert.Equal(2*time.Second, cfg.WatchInterval)
	assert.False(cfg.CatalogEnabled())
	assert.Error(cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SONGS_PATH", "/songs")
	t.Setenv("WORKER_COUNT", "9")
	t.Setenv("WATCH_INTERVAL", "1m")
	t.Setenv("CATALOG_ENDPOINT", "http://localhost:8000")
	cfg := Load()

	assert := assert.New(t)
	assert.Equal("/songs", cfg.SongsPath)
	assert.Equal(9, cfg.WorkerCount)
	assert.Equal(time.Minute, cfg.WatchInterval)
	assert.True(cfg.CatalogEnabled())
	assert.NoError(cfg.Validate())
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("WATCH_INTERVAL", "soon")
	cfg := Load()
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 2*time.Second, cfg.WatchInterval)
}
