package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/jsphweid/tabdex/pipeline"
	"github.com/jsphweid/tabdex/util"
	"github.com/spf13/cobra"
)

var withMidi bool

func init() {
	parseCmd.Flags().StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "directory for parsed songs (OUTPUT_PATH)")
	parseCmd.Flags().BoolVar(&withMidi, "midi", false, "also export a .mid next to every parsed song")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse [maxNum]",
	Short: "Transcodes every score in the songs dir",
	Long: `Transcodes every score in the songs dir into <basename>.json in the
output dir. The output dir is recreated on every run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxNum, err := maxNumArg(args)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		summary, err := Parse(ctx, maxNum)
		if err != nil {
			return err
		}
		fmt.Printf("Transcoded %v of %v scores (%v failed, %v faults)\n",
			summary.Transcoded, len(summary.FileNums), summary.Failed, summary.Faults)
		return nil
	},
}

func maxNumArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("maxNum must be a non-negative number, got %q", args[0])
	}
	return n, nil
}

// Parse runs the transcoding pipeline over the songs dir.
func Parse(ctx context.Context, maxNum int) (pipeline.Summary, error) {
	if err := cfg.Validate(); err != nil {
		return pipeline.Summary{}, err
	}
	util.RecreateOutputDir(cfg.OutputPath)

	sink := pipeline.MultiSink{pipeline.DirSink{Dir: cfg.OutputPath}}
	if withMidi {
		sink = append(sink, pipeline.MidiSink{Dir: cfg.OutputPath})
	}
	catalog, err := openCatalog()
	if err != nil {
		return pipeline.Summary{}, err
	}
	if catalog != nil {
		sink = append(sink, pipeline.CatalogSink{Catalog: catalog})
	}

	src := pipeline.DirSource{Dir: cfg.SongsPath, Max: maxNum}
	return pipeline.Run(ctx, src, sink, cfg.WorkerCount, logger)
}
