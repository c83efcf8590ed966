package cmd

import (
	"log/slog"
	"os"

	"github.com/jsphweid/tabdex/config"
	"github.com/jsphweid/tabdex/db"
	"github.com/spf13/cobra"
)

var (
	cfg     = config.Load()
	logger  = slog.New(slog.NewTextHandler(os.Stderr, nil))
	logJSON bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tabdex",
	Short: "Transcodes and indexes tablature scores",
	Long: `tabdex flattens MusicXML tablature scores into songs made of measures
and beats, names the chords it finds, exports MIDI and serves a chord index.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(logJSON, verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")
	rootCmd.PersistentFlags().StringVar(&cfg.SongsPath, "songs", cfg.SongsPath, "directory of scores (SONGS_PATH)")
	rootCmd.PersistentFlags().StringVar(&cfg.IndexPath, "index", cfg.IndexPath, "directory for the chord index (INDEX_PATH)")
	rootCmd.PersistentFlags().IntVar(&cfg.WorkerCount, "workers", cfg.WorkerCount, "number of workers (WORKER_COUNT)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log per-document progress")
}

func newLogger(json, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if json {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openCatalog returns nil when no catalog endpoint is configured.
func openCatalog() (*db.Catalog, error) {
	if !cfg.CatalogEnabled() {
		return nil, nil
	}
	return db.New(cfg.CatalogEndpoint, cfg.CatalogRegion, cfg.CatalogTable)
}

// SetConfig replaces the configuration loaded from the environment.
func SetConfig(c config.Config) {
	cfg = c
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
