package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jsphweid/tabdex/midi"
	"github.com/jsphweid/tabdex/score"
	"github.com/jsphweid/tabdex/transcode"
	"github.com/spf13/cobra"
)

var verifyExport bool

func init() {
	exportCmd.Flags().BoolVar(&verifyExport, "verify", true, "read the written file back and check its tracks")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <score> [out.mid]",
	Short: "Exports one score as MIDI",
	Long:  `Transcodes one score and writes it as a format 1 MIDI file.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".mid"
		if len(args) == 2 {
			out = args[1]
		}
		return export(args[0], out)
	},
}

func export(path string, out string) error {
	doc, err := score.ReadScoreFile(path)
	if err != nil {
		return err
	}
	song, faults, err := transcode.TranscodeSong(doc)
	if err != nil {
		return err
	}
	transcode.LogFaults(logger, path, faults)

	if err := midi.WriteMidiFile(out, song, transcode.Divisions(doc)); err != nil {
		return err
	}
	if verifyExport {
		if err := midi.Verify(out); err != nil {
			return err
		}
	}
	fmt.Printf("Wrote %v (%v measures)\n", out, len(song.Measures))
	return nil
}
