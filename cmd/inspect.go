package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/score"
	"github.com/jsphweid/tabdex/transcode"
	"github.com/spf13/cobra"
)

var inspectRaw bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectRaw, "json", false, "print the transcoded song as JSON")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <score>",
	Short: "Inspects one score",
	Long:  `Transcodes one score and prints its measures, beats and faults.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	doc, err := score.ReadScoreFile(path)
	if err != nil {
		return err
	}
	song, faults, err := transcode.TranscodeSong(doc)
	if err != nil {
		return err
	}

	if inspectRaw {
		data, err := transcode.Encode(song)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	fmt.Printf("title: %v\n", song.Title)
	fmt.Printf("artist: %v\n", song.Artist)
	fmt.Printf("instrument: %v\n", song.Instrument)
	fmt.Printf("divisions: %v\n", transcode.Divisions(doc))
	for i, m := range song.Measures {
		fmt.Printf("measure %v: %v %v/%v beatsInMeasure=%v\n",
			i, bpmString(m.BPM), m.TimeSignatureNumerator, m.TimeSignatureDenominator, m.BeatsInMeasure)
		for j, b := range m.Beats {
			fmt.Printf("  beat %v: %v\n", j, describeBeat(b))
		}
	}
	for _, f := range faults {
		fmt.Printf("fault: %v measure=%v note=%v %v\n", f.Kind, f.Measure, f.Note, f.Detail)
	}
	return nil
}

func bpmString(bpm *int) string {
	if bpm == nil {
		return "bpm=?"
	}
	return fmt.Sprintf("bpm=%v", *bpm)
}

func describeBeat(b model.Beat) string {
	if b.IsRest {
		return "rest"
	}
	var frets []string
	for _, n := range b.Notes {
		if n.String == nil || n.Fret == nil {
			frets = append(frets, "?")
			continue
		}
		frets = append(frets, fmt.Sprintf("%v:%v", *n.String, *n.Fret))
	}
	desc := strings.Join(frets, " ")
	if b.ChordName != "" {
		desc += " [" + b.ChordName + "]"
	}
	if b.IsTie {
		desc += " tie"
	}
	return desc
}
