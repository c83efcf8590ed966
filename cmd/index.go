package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsphweid/tabdex/constants"
	"github.com/jsphweid/tabdex/pipeline"
	"github.com/jsphweid/tabdex/store"
	"github.com/jsphweid/tabdex/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index [maxNum]",
	Short: "Creates the chord index",
	Long:  `Transcodes every score in the songs dir and indexes its chord labels.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxNum, err := maxNumArg(args)
		if err != nil {
			return err
		}
		return Index(maxNum)
	},
}

func indexDBPath() string {
	return filepath.Join(cfg.IndexPath, constants.IndexDBFile)
}

func fileNumMapPath() string {
	return filepath.Join(cfg.IndexPath, constants.FileNumMapFile)
}

// resetIndexFiles removes a previous index. Anything else in the index
// dir is left alone.
func resetIndexFiles() error {
	if err := util.EnsureDir(cfg.IndexPath); err != nil {
		return err
	}
	for _, path := range []string{indexDBPath(), fileNumMapPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %v: %w", path, err)
		}
	}
	return nil
}

// Index rebuilds the chord index from scratch.
func Index(maxNum int) error {
	if cfg.SongsPath == "" {
		return fmt.Errorf("SONGS_PATH is required")
	}
	if err := resetIndexFiles(); err != nil {
		return err
	}

	s, err := store.New(indexDBPath())
	if err != nil {
		return err
	}
	defer s.Close()

	sink := pipeline.MultiSink{pipeline.IndexSink{Store: s}}
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	if catalog != nil {
		sink = append(sink, pipeline.CatalogSink{Catalog: catalog})
	}

	src := pipeline.DirSource{Dir: cfg.SongsPath, Max: maxNum}
	summary, err := pipeline.Run(context.Background(), src, sink, cfg.WorkerCount, logger)
	if err != nil {
		return err
	}
	if err := util.CreateBinary(fileNumMapPath(), summary.FileNums); err != nil {
		return err
	}

	fmt.Printf("Indexed %v of %v scores\n", summary.Transcoded, len(summary.FileNums))
	return nil
}
