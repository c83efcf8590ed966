package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsphweid/tabdex/bucket"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/store"
	"github.com/jsphweid/tabdex/transcode"
	"github.com/jsphweid/tabdex/util"
	"github.com/spf13/cobra"
)

var reportTop int

func init() {
	reportCmd.Flags().IntVar(&reportTop, "top", 10, "number of chord labels to list")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Summarises the parsed songs in the output dir and the chord index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return report()
	},
}

type songsReport struct {
	numFiles     int64
	numUnread    int64
	measures     []int64
	numBeats     int64
	numRests     int64
	numChords    int64
	numUntempoed int64
	labelCounts  map[string]int
}

type indexReport struct {
	numSongs int
	top      []model.LabelCount
}

func analyzeSong(r *songsReport, song *model.Song) {
	r.measures = append(r.measures, int64(len(song.Measures)))
	for _, m := range song.Measures {
		if m.BPM == nil {
			r.numUntempoed += 1
		}
		for _, b := range m.Beats {
			r.numBeats += 1
			if b.IsRest {
				r.numRests += 1
			}
			if b.IsChord {
				r.numChords += 1
			}
		}
	}
	for label, occurrences := range bucket.Collect(0, song) {
		r.labelCounts[label] += len(occurrences)
	}
}

func analyzeSongs(dir string) (songsReport, error) {
	report := songsReport{labelCounts: make(map[string]int)}

	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		report.numFiles += 1
		data, err := os.ReadFile(path)
		if err != nil {
			report.numUnread += 1
			return nil
		}
		song, err := transcode.Decode(data)
		if err != nil {
			report.numUnread += 1
			return nil
		}
		analyzeSong(&report, song)
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return report, fmt.Errorf("could not read dir: %w", err)
	}
	return report, nil
}

func topLabels(counts map[string]int, n int) []model.LabelCount {
	labels := util.GetKeys(counts)
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	var res []model.LabelCount
	for _, l := range labels[:util.Min(n, len(labels))] {
		res = append(res, model.LabelCount{Label: l, Count: counts[l]})
	}
	return res
}

func analyzeIndex(top int) (indexReport, bool) {
	var report indexReport
	if _, err := os.Stat(indexDBPath()); err != nil {
		return report, false
	}
	s, err := store.New(indexDBPath())
	if err != nil {
		return report, false
	}
	defer s.Close()

	report.numSongs, _ = s.CountSongs()
	report.top, _ = s.LabelCounts(top)
	return report, true
}

func report() error {
	songs, err := analyzeSongs(cfg.OutputPath)
	if err != nil {
		return err
	}
	numMeasures := util.Sum(songs.measures)
	fmt.Printf("songs.numFiles: %v\n", songs.numFiles)
	fmt.Printf("songs.numUnread: %v\n", songs.numUnread)
	fmt.Printf("songs.numMeasures: %v\n", numMeasures)
	fmt.Printf("songs.numUntempoed: %v\n", songs.numUntempoed)
	fmt.Printf("songs.numBeats: %v\n", songs.numBeats)
	fmt.Printf("songs.numRests: %v\n", songs.numRests)
	fmt.Printf("songs.numChords: %v\n", songs.numChords)
	if songs.numFiles > songs.numUnread {
		fmt.Printf("songs.avgMeasures: %.1f\n", float64(numMeasures)/float64(songs.numFiles-songs.numUnread))
	}
	for _, lc := range topLabels(songs.labelCounts, reportTop) {
		fmt.Printf("songs.label %v: %v\n", lc.Label, lc.Count)
	}

	index, ok := analyzeIndex(reportTop)
	if !ok {
		fmt.Printf("index: none at %v\n", indexDBPath())
		return nil
	}
	fmt.Printf("index.numSongs: %v\n", index.numSongs)
	for _, lc := range index.top {
		fmt.Printf("index.label %v: %v\n", lc.Label, lc.Count)
	}
	return nil
}
