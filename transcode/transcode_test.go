package transcode

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/jsphweid/tabdex/model"
)

// helpers shared by the package tests

func intPtr(n int) *int { return &n }

func rawNote(step string, str, fret, duration int) model.RawNote {
	return model.RawNote{
		Duration: model.Text(itoa(duration)),
		Pitch:    &model.RawPitch{Step: model.Text(step), Octave: "3"},
		Notations: model.OneOrMany[model.Notations]{{
			Technical: &model.Technical{String: model.Text(itoa(str)), Fret: model.Text(itoa(fret))},
		}},
	}
}

func chordNote(step string, str, fret, duration int) model.RawNote {
	n := rawNote(step, str, fret, duration)
	n.Chord = true
	return n
}

func restNote(duration int) model.RawNote {
	return model.RawNote{Rest: true, Duration: model.Text(itoa(duration))}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func mustDocument(t *testing.T, src string) *model.Document {
	t.Helper()
	var doc model.Document
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return &doc
}

func stringsOf(notes []model.Note) []int {
	var res []int
	for _, n := range notes {
		if n.String == nil {
			res = append(res, -1)
			continue
		}
		res = append(res, *n.String)
	}
	return res
}
