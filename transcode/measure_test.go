package transcode

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/jsphweid/tabdex/model"
	"github.com/stretchr/testify/assert"
)

func measureWithTempo(bpm string, notes ...model.RawNote) model.RawMeasure {
	m := model.RawMeasure{Notes: notes}
	if bpm != "" {
		m.Directions = model.OneOrMany[model.Direction]{{Sound: &model.Sound{Tempo: model.Text(bpm)}}}
	}
	return m
}

func withTime(m model.RawMeasure, beats, beatType string) model.RawMeasure {
	m.Attributes = append(m.Attributes, model.Attributes{Time: &model.Time{Beats: model.Text(beats), BeatType: model.Text(beatType)}})
	return m
}

func TestBeatsInMeasureSkipsContinuations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		name := fmt.Sprintf("round %v", round)
		t.Run(name, func(t *testing.T) {
			var notes []model.RawNote
			var want int
			for i := 0; i < 1+rng.Intn(12); i++ {
				duration := 1 + rng.Intn(16)
				switch kind := rng.Intn(3); {
				case kind == 0 && i > 0:
					notes = append(notes, chordNote("C", 1+rng.Intn(6), 0, duration))
				case kind == 1:
					notes = append(notes, restNote(duration))
					want += duration
				default:
					notes = append(notes, rawNote("E", 1+rng.Intn(6), 0, duration))
					want += duration
				}
			}
			m, _, _ := TranscodeMeasure(measureWithTempo("100", notes...), 0, NewCarry())
			assert.Equal(t, want, m.BeatsInMeasure)

			for _, b := range m.Beats {
				assertOrderedByString(t, b.Notes)
			}
		})
	}
}

func assertOrderedByString(t *testing.T, notes []model.Note) {
	t.Helper()
	for i := 1; i < len(notes); i++ {
		prev, curr := notes[i-1].String, notes[i].String
		if curr == nil {
			continue
		}
		if prev == nil || *prev > *curr {
			t.Errorf("notes out of string order: %v", stringsOf(notes))
		}
	}
}

func TestTempoCarriesForward(t *testing.T) {
	measures := []model.RawMeasure{
		measureWithTempo("120", rawNote("E", 1, 0, 4)),
		measureWithTempo("", rawNote("E", 1, 0, 4)),
		measureWithTempo("90", rawNote("E", 1, 0, 4)),
		measureWithTempo("", rawNote("E", 1, 0, 4)),
	}
	carry := NewCarry()
	var got []int
	for i, raw := range measures {
		var m model.Measure
		m, carry, _ = TranscodeMeasure(raw, i, carry)
		got = append(got, *m.BPM)
	}
	assert.Equal(t, []int{120, 120, 90, 90}, got)
}

func TestTempoTruncatesDecimals(t *testing.T) {
	m, carry, _ := TranscodeMeasure(measureWithTempo("96.5", restNote(4)), 0, NewCarry())
	assert.Equal(t, intPtr(96), m.BPM)
	assert.Equal(t, intPtr(96), carry.Tempo)
}

func TestMissingTempoOnFirstMeasure(t *testing.T) {
	assert := assert.New(t)
	m, carry, faults := TranscodeMeasure(measureWithTempo("", restNote(4)), 0, NewCarry())
	assert.Nil(m.BPM)
	assert.Nil(carry.Tempo)
	assert.Len(faults, 1)
	assert.Equal(MissingTempo, faults[0].Kind)
	assert.Equal(0, faults[0].Measure)

	// later measures inherit the unknown tempo without a second fault
	m, _, faults = TranscodeMeasure(measureWithTempo("", restNote(4)), 1, carry)
	assert.Nil(m.BPM)
	assert.Empty(faults)
}

func TestTimeSignatureCarriesForward(t *testing.T) {
	assert := assert.New(t)
	measures := []model.RawMeasure{
		measureWithTempo("120", restNote(4)),
		withTime(measureWithTempo("", restNote(3)), "3", "4"),
		measureWithTempo("", restNote(3)),
		withTime(measureWithTempo("", restNote(6)), "6", "8"),
		measureWithTempo("", restNote(6)),
	}
	carry := NewCarry()
	var got [][2]int
	for i, raw := range measures {
		var m model.Measure
		m, carry, _ = TranscodeMeasure(raw, i, carry)
		got = append(got, [2]int{m.TimeSignatureNumerator, m.TimeSignatureDenominator})
	}
	assert.Equal([][2]int{{4, 4}, {3, 4}, {3, 4}, {6, 8}, {6, 8}}, got)
}

func TestTimeSignaturePartsAreIndependent(t *testing.T) {
	m, carry, _ := TranscodeMeasure(withTime(measureWithTempo("120", restNote(4)), "2", ""), 0, NewCarry())
	assert.Equal(t, 2, m.TimeSignatureNumerator)
	assert.Equal(t, 4, m.TimeSignatureDenominator)

	m, _, _ = TranscodeMeasure(withTime(measureWithTempo("", restNote(4)), "", "2"), 1, carry)
	assert.Equal(t, 2, m.TimeSignatureNumerator)
	assert.Equal(t, 2, m.TimeSignatureDenominator)
}

func TestMeasureFaultsCarryMeasureIndex(t *testing.T) {
	bad := rawNote("C", 0, 0, 4)
	bad.Notations = nil
	_, _, faults := TranscodeMeasure(measureWithTempo("", bad), 3, NewCarry())
	assert.Len(t, faults, 1)
	assert.Equal(t, MissingNotation, faults[0].Kind)
	assert.Equal(t, 3, faults[0].Measure)
}

func TestEmptyMeasure(t *testing.T) {
	m, _, _ := TranscodeMeasure(measureWithTempo("120"), 0, NewCarry())
	assert.Equal(t, 0, m.BeatsInMeasure)
	assert.NotNil(t, m.Beats)
	assert.Empty(t, m.Beats)
}
