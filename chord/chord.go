package chord

import (
	"fmt"
	"strings"

	"github.com/jsphweid/tabdex/model"
)

// Unclassified is returned for notes that cannot take part in chord
// naming: rests, unpitched notes and unknown step letters.
const Unclassified = -1

const NotAvailable = "n/a"

var stepClasses = map[string]int{
	"C": 0,
	"D": 2,
	"E": 4,
	"F": 5,
	"G": 7,
	"A": 9,
	"B": 11,
}

var rootNames = [12]string{
	"C",
	"C#",
	"D",
	"Eb",
	"E",
	"F",
	"F#",
	"G",
	"G#",
	"A",
	"Bb",
	"B",
}

// PitchClass maps a step letter plus alteration to 0-11.
func PitchClass(step string, alter int) int {
	base, ok := stepClasses[step]
	if !ok {
		return Unclassified
	}
	return ((base+alter)%12 + 12) % 12
}

func NoteClass(n model.Note) int {
	if n.Pitch == nil {
		return Unclassified
	}
	var alter int
	if n.Pitch.Alter != nil {
		alter = *n.Pitch.Alter
	}
	return PitchClass(n.Pitch.Step, alter)
}

// RootName returns the display name for a pitch class.
func RootName(class int) string {
	return rootNames[((class%12)+12)%12]
}

// Name labels a beat.
//
// Chords go through a small interval heuristic, not real harmonic
// analysis: the first note pair a fourth or fifth apart (in note order)
// anchors the root, two notes make a power chord, four notes are
// always called a dominant seventh, and anything else is judged on one
// extra note only. Inversions, extensions and enharmonic spelling are
// not handled.
func Name(b model.Beat) string {
	if b.IsRest || len(b.Notes) == 0 {
		return ""
	}
	if len(b.Notes) == 1 {
		if b.Notes[0].Pitch == nil {
			return ""
		}
		return b.Notes[0].Pitch.Step
	}

	classes := make([]int, len(b.Notes))
	for i, n := range b.Notes {
		classes[i] = NoteClass(n)
	}

	first, second, found := findAnchor(classes)
	if !found {
		return NotAvailable
	}
	note1, note2 := classes[first], classes[second]

	var root int
	if note2-note1 == 5 {
		root = note1
	} else {
		root = (note1 + 5) % 12
	}
	base := RootName(root)

	switch len(b.Notes) {
	case 2:
		return base + "power"
	case 4:
		return base + "7"
	}

	third := -1
	for i, class := range classes {
		if i != first && i != second && class != Unclassified {
			third = i
			break
		}
	}
	if third < 0 {
		return NotAvailable
	}
	note3 := classes[third]

	// the major and minor tests are directional: a gap of 4
	// reads as major one way round and minor the other
	if note2-note3 == 3 || note2-note3 == 8 || note3-note2 == 4 {
		return base
	}
	if note2-note3 == 4 || note2-note3 == 9 || note3-note2 == 3 {
		return base + "m"
	}

	switch note3 - note1 {
	case 2:
		return RootName(note3) + "sus4"
	case 7:
		return RootName(note1) + "sus4"
	case 10:
		return RootName(note2) + "sus4"
	}
	return NotAvailable
}

// findAnchor returns the first pair (outer ascending, inner ascending)
// whose pitch classes are 5 or 7 semitones apart.
func findAnchor(classes []int) (int, int, bool) {
	for k := 0; k < len(classes); k++ {
		if classes[k] == Unclassified {
			continue
		}
		for j := k + 1; j < len(classes); j++ {
			if classes[j] == Unclassified {
				continue
			}
			diff := classes[j] - classes[k]
			if diff < 0 {
				diff = -diff
			}
			if diff == 5 || diff == 7 {
				return k, j, true
			}
		}
	}
	return 0, 0, false
}

// NoteToken renders a pitched note as step, accidental and octave,
// e.g. "Eb3". Rests and unpitched notes render as "x".
func NoteToken(n model.Note) string {
	if n.Pitch == nil {
		return "x"
	}
	var sb strings.Builder
	sb.WriteString(n.Pitch.Step)
	if n.Pitch.Alter != nil {
		switch alter := *n.Pitch.Alter; {
		case alter > 0:
			sb.WriteString(strings.Repeat("#", alter))
		case alter < 0:
			sb.WriteString(strings.Repeat("b", -alter))
		}
	}
	if n.Pitch.Octave != nil {
		sb.WriteString(fmt.Sprintf("%d", *n.Pitch.Octave))
	}
	return sb.String()
}

// CreateChordKey joins note tokens into a stable lookup key.
func CreateChordKey(notes []model.Note) string {
	tokens := make([]string, 0, len(notes))
	for _, n := range notes {
		tokens = append(tokens, NoteToken(n))
	}
	return strings.Join(tokens, "-")
}
