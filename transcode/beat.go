package transcode

import (
	"fmt"

	"github.com/jsphweid/tabdex/chord"
	"github.com/jsphweid/tabdex/model"
)

// BuildBeats groups a measure's note events into beats. Fault measure
// indexes are left at zero for the caller to fill in.
func BuildBeats(notes []model.RawNote) ([]model.Beat, []Fault) {
	var faults []Fault
	beats := make([]model.Beat, 0, len(notes))
	// events[i][j] is the event index of beats[i].Notes[j]
	events := make([][]int, 0, len(notes))

	for i, raw := range notes {
		parsed, ok := NormalizeNote(raw)
		if !ok {
			faults = append(faults, Fault{
				Kind:   MissingNotation,
				Note:   i,
				Detail: "note has no string/fret notation",
			})
		}

		if raw.IsContinuation() && len(beats) > 0 {
			current := &beats[len(beats)-1]
			current.IsChord = true
			at := insertionPoint(current.Notes, parsed)
			current.Notes = insertAt(current.Notes, at, parsed)
			events[len(events)-1] = insertAt(events[len(events)-1], at, i)
			continue
		}

		beats = append(beats, model.Beat{
			IsRest: bool(raw.Rest),
			IsTie:  bool(raw.Tie),
			Notes:  []model.Note{parsed},
		})
		events = append(events, []int{i})
	}

	for i := range beats {
		beats[i].ChordName = chord.Name(beats[i])
		faults = append(faults, unclassifiedNotes(beats[i], events[i])...)
	}

	return beats, faults
}

// insertionPoint is the position before the first note on a higher
// string, so notes sharing a string keep their input order. Notes
// without a string sort after every known string.
func insertionPoint(notes []model.Note, n model.Note) int {
	for i, existing := range notes {
		if stringLess(n, existing) {
			return i
		}
	}
	return len(notes)
}

func insertAt[T any](s []T, index int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[index+1:], s[index:])
	s[index] = v
	return s
}

func stringLess(a, b model.Note) bool {
	if a.String == nil {
		return false
	}
	if b.String == nil {
		return true
	}
	return *a.String < *b.String
}

func unclassifiedNotes(b model.Beat, events []int) []Fault {
	if b.IsRest || len(b.Notes) < 2 {
		return nil
	}
	var faults []Fault
	for j, n := range b.Notes {
		if n.Pitch != nil && chord.NoteClass(n) == chord.Unclassified {
			faults = append(faults, Fault{
				Kind:   UnclassifiablePitch,
				Note:   events[j],
				Detail: fmt.Sprintf("unknown step %q in chord %q", n.Pitch.Step, b.ChordName),
			})
		}
	}
	return faults
}
