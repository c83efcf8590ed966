package cmd

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/tabdex/score"
	"github.com/spf13/cobra"
)

func init() {
	watchCmd.Flags().StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "directory for parsed songs (OUTPUT_PATH)")
	watchCmd.Flags().DurationVar(&cfg.WatchInterval, "interval", cfg.WatchInterval, "how often to scan the songs dir (WATCH_INTERVAL)")
	watchCmd.Flags().DurationVar(&cfg.WatchSettle, "settle", cfg.WatchSettle, "quiet period before re-parsing (WATCH_SETTLE)")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-parses the songs dir whenever it changes",
	Long: `Scans the songs dir every interval and re-runs parse once the
changes have settled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		watch(ctx)
		return nil
	},
}

type snapshot map[string]time.Time

func scanSongs(dir string) snapshot {
	res := make(snapshot)
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !score.IsSupported(path) {
			return nil
		}
		if info, err := d.Info(); err == nil {
			res[path] = info.ModTime()
		}
		return nil
	})
	return res
}

func (s snapshot) differs(other snapshot) bool {
	if len(s) != len(other) {
		return true
	}
	for path, mod := range s {
		if o, ok := other[path]; !ok || !o.Equal(mod) {
			return true
		}
	}
	return false
}

func watch(ctx context.Context) {
	var mu sync.Mutex
	reparse := func() {
		mu.Lock()
		defer mu.Unlock()
		summary, err := Parse(ctx, 0)
		if err != nil {
			logger.Error("parse failed", "error", err)
			return
		}
		logger.Info("parsed", "run_id", summary.RunID, "transcoded", summary.Transcoded, "failed", summary.Failed)
	}
	debounced := debounce.New(cfg.WatchSettle)

	last := scanSongs(cfg.SongsPath)
	reparse()

	ticker := time.NewTicker(cfg.WatchInterval)
	defer ticker.Stop()
	logger.Info("watching", "dir", cfg.SongsPath, "interval", cfg.WatchInterval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := scanSongs(cfg.SongsPath)
			if current.differs(last) {
				last = current
				debounced(reparse)
			}
		}
	}
}
