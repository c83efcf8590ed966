package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jsphweid/tabdex/constants"
)

type Config struct {
	Port string

	// Directories
	SongsPath  string
	OutputPath string
	IndexPath  string

	// Worker pool
	WorkerCount int

	// Metadata catalog (DynamoDB)
	CatalogEndpoint string
	CatalogRegion   string
	CatalogTable    string

	// Watch mode
	WatchInterval time.Duration
	WatchSettle   time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		SongsPath:  os.Getenv("SONGS_PATH"),
		OutputPath: envOr("OUTPUT_PATH", "./out/songs"),
		IndexPath:  envOr("INDEX_PATH", "./out/index"),

		WorkerCount: envInt("WORKER_COUNT", 4),

		CatalogEndpoint: os.Getenv("CATALOG_ENDPOINT"),
		CatalogRegion:   envOr("CATALOG_REGION", "localhost"),
		CatalogTable:    envOr("CATALOG_TABLE", constants.MetadataTable),

		WatchInterval: envDuration("WATCH_INTERVAL", 2*time.Second),
		WatchSettle:   envDuration("WATCH_SETTLE", 500*time.Millisecond),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = 2 * time.Second
	}
	if cfg.WatchSettle <= 0 {
		cfg.WatchSettle = 500 * time.Millisecond
	}

	return cfg
}

// Validate checks what every batch command needs.
func (c Config) Validate() error {
	if c.SongsPath == "" {
		return fmt.Errorf("SONGS_PATH is required")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("OUTPUT_PATH is required")
	}
	return nil
}

// CatalogEnabled reports whether a metadata catalog is configured.
func (c Config) CatalogEnabled() bool {
	return c.CatalogEndpoint != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
