package transcode

import (
	"testing"

	"github.com/jsphweid/tabdex/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildBeatsSingleEvent(t *testing.T) {
	assert := assert.New(t)
	beats, faults := BuildBeats([]model.RawNote{rawNote("A", 5, 0, 4)})
	assert.Empty(faults)
	assert.Len(beats, 1)
	assert.False(beats[0].IsChord)
	assert.Equal("A", beats[0].ChordName)
	assert.Len(beats[0].Notes, 1)
}

func TestBuildBeatsMergesIntoMostRecentBeat(t *testing.T) {
	assert := assert.New(t)
	notes := []model.RawNote{
		rawNote("E", 1, 0, 2),
		rawNote("G", 4, 5, 2),
		chordNote("C", 5, 3, 2),
	}
	beats, _ := BuildBeats(notes)

	assert.Len(beats, 2)
	assert.False(beats[0].IsChord)
	assert.Len(beats[0].Notes, 1)
	assert.True(beats[1].IsChord)
	assert.Equal([]int{4, 5}, stringsOf(beats[1].Notes))
	assert.Equal("Cpower", beats[1].ChordName)
}

func TestBuildBeatsOrdersByString(t *testing.T) {
	notes := []model.RawNote{
		rawNote("C", 5, 3, 4),
		chordNote("E", 4, 2, 4),
		chordNote("G", 3, 0, 4),
		chordNote("C", 2, 1, 4),
		chordNote("E", 1, 0, 4),
	}
	beats, _ := BuildBeats(notes)
	assert.Len(t, beats, 1)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, stringsOf(beats[0].Notes))
}

func TestBuildBeatsSameStringKeepsInputOrder(t *testing.T) {
	notes := []model.RawNote{
		rawNote("C", 3, 5, 4),
		chordNote("D", 3, 7, 4),
		chordNote("E", 2, 5, 4),
		chordNote("F", 3, 10, 4),
	}
	beats, _ := BuildBeats(notes)
	var steps []string
	for _, n := range beats[0].Notes {
		steps = append(steps, n.Pitch.Step)
	}
	assert.Equal(t, []string{"E", "C", "D", "F"}, steps)
}

func TestBuildBeatsUnknownStringSortsLast(t *testing.T) {
	missing := chordNote("G", 0, 0, 4)
	missing.Notations = nil
	notes := []model.RawNote{
		rawNote("C", 5, 3, 4),
		missing,
		chordNote("E", 4, 2, 4),
	}
	beats, faults := BuildBeats(notes)
	assert.Equal(t, []int{4, 5, -1}, stringsOf(beats[0].Notes))
	assert.Len(t, faults, 1)
	assert.Equal(t, MissingNotation, faults[0].Kind)
	assert.Equal(t, 1, faults[0].Note)
}

func TestBuildBeatsRestNeverMerges(t *testing.T) {
	assert := assert.New(t)
	rest := restNote(2)
	rest.Chord = true
	notes := []model.RawNote{
		rawNote("G", 4, 5, 2),
		chordNote("C", 5, 3, 2),
		rest,
	}
	beats, _ := BuildBeats(notes)
	assert.Len(beats, 2)
	assert.Len(beats[0].Notes, 2)
	assert.True(beats[1].IsRest)
	assert.False(beats[1].IsChord)
	assert.Equal("", beats[1].ChordName)
}

func TestBuildBeatsLeadingContinuationOpensBeat(t *testing.T) {
	beats, _ := BuildBeats([]model.RawNote{chordNote("D", 4, 0, 4)})
	assert.Len(t, beats, 1)
	assert.False(t, beats[0].IsChord)
}

func TestBuildBeatsTieAndRestFlags(t *testing.T) {
	assert := assert.New(t)
	tied := rawNote("A", 3, 2, 4)
	tied.Tie = true
	beats, _ := BuildBeats([]model.RawNote{tied, restNote(4)})
	assert.True(beats[0].IsTie)
	assert.False(beats[0].IsRest)
	assert.True(beats[1].IsRest)
	assert.Nil(beats[1].Notes[0].Pitch)
}

func TestBuildBeatsReportsUnclassifiablePitch(t *testing.T) {
	notes := []model.RawNote{
		rawNote("H", 3, 2, 4),
		chordNote("E", 4, 2, 4),
	}
	beats, faults := BuildBeats(notes)
	assert.Equal(t, "n/a", beats[0].ChordName)
	assert.Len(t, faults, 1)
	assert.Equal(t, UnclassifiablePitch, faults[0].Kind)
	assert.Equal(t, 0, faults[0].Note)
}

func TestBuildBeatsUnclassifiablePitchKeepsEventIndex(t *testing.T) {
	// the unknown step lands first in the beat after sorting by string
	notes := []model.RawNote{
		rawNote("C", 2, 1, 4),
		chordNote("E", 5, 2, 4),
		chordNote("H", 1, 0, 4),
	}
	beats, faults := BuildBeats(notes)
	assert.Equal(t, "H", beats[0].Notes[0].Pitch.Step)
	assert.Len(t, faults, 1)
	assert.Equal(t, UnclassifiablePitch, faults[0].Kind)
	assert.Equal(t, 2, faults[0].Note)
}
