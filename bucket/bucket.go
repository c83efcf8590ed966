package bucket

import (
	"sort"

	"github.com/jsphweid/tabdex/chord"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/util"
)

type LabelToOccurrences = map[string][]model.ChordOccurrence

func isIndexable(b model.Beat) bool {
	if b.IsRest {
		return false
	}
	return b.ChordName != "" && b.ChordName != chord.NotAvailable
}

func makeOccurrence(fileNum uint32, measure, beat int, b model.Beat) model.ChordOccurrence {
	var notes []string
	var pitched []model.Note
	for _, n := range b.Notes {
		if n.Pitch != nil {
			notes = append(notes, chord.NoteToken(n))
			pitched = append(pitched, n)
		}
	}
	return model.ChordOccurrence{
		FileNum: fileNum,
		Label:   b.ChordName,
		Measure: uint32(measure),
		Beat:    uint32(beat),
		Notes:   notes,
		Voicing: chord.CreateChordKey(pitched),
	}
}

// Collect groups every labelled beat of a song by its chord label.
// Rests and beats without a usable label are left out.
func Collect(fileNum uint32, song *model.Song) LabelToOccurrences {
	res := make(LabelToOccurrences)
	for m, measure := range song.Measures {
		for b, beat := range measure.Beats {
			if !isIndexable(beat) {
				continue
			}
			res[beat.ChordName] = append(res[beat.ChordName], makeOccurrence(fileNum, m, b, beat))
		}
	}
	return res
}

// Labels returns the labels of a collection in lexical order.
func Labels(m LabelToOccurrences) []string {
	return util.GetSortedKeys(m)
}

// Flatten lists every occurrence ordered by label, then position.
func Flatten(m LabelToOccurrences) []model.ChordOccurrence {
	var res []model.ChordOccurrence
	for _, label := range Labels(m) {
		res = append(res, m[label]...)
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Label != res[j].Label {
			return res[i].Label < res[j].Label
		}
		if res[i].Measure != res[j].Measure {
			return res[i].Measure < res[j].Measure
		}
		return res[i].Beat < res[j].Beat
	})
	return res
}
