package transcode

import "github.com/jsphweid/tabdex/model"

const (
	DefaultNumerator   = 4
	DefaultDenominator = 4
)

// Carry is the state one measure hands to the next. Each song starts
// from NewCarry.
type Carry struct {
	Tempo       *int
	Numerator   int
	Denominator int
}

func NewCarry() Carry {
	return Carry{Numerator: DefaultNumerator, Denominator: DefaultDenominator}
}

// TranscodeMeasure builds one measure and the carry for the next.
func TranscodeMeasure(raw model.RawMeasure, index int, carry Carry) (model.Measure, Carry, []Fault) {
	var faults []Fault

	m := model.Measure{
		BeatsInMeasure: BeatsInMeasure(raw.Notes),
	}

	if bpm, ok := raw.Tempo(); ok {
		carry.Tempo = &bpm
		m.BPM = &bpm
	} else if index == 0 {
		faults = append(faults, Fault{
			Kind:    MissingTempo,
			Measure: index,
			Note:    -1,
			Detail:  "no BPM for song",
		})
	} else if carry.Tempo != nil {
		bpm := *carry.Tempo
		m.BPM = &bpm
	}

	if beats, ok := raw.TimeBeats(); ok {
		carry.Numerator = beats
	}
	if beatType, ok := raw.TimeBeatType(); ok {
		carry.Denominator = beatType
	}
	m.TimeSignatureNumerator = carry.Numerator
	m.TimeSignatureDenominator = carry.Denominator

	beats, beatFaults := BuildBeats(raw.Notes)
	for _, f := range beatFaults {
		f.Measure = index
		faults = append(faults, f)
	}
	m.Beats = beats

	return m, carry, faults
}

// BeatsInMeasure sums the durations of every event that opens a beat.
// Chord continuations share an onset and add nothing.
func BeatsInMeasure(notes []model.RawNote) int {
	var total int
	for i, n := range notes {
		if n.IsContinuation() && i > 0 {
			continue
		}
		duration, _ := n.Duration.Int()
		total += duration
	}
	return total
}
