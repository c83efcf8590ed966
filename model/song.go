package model

// Song is the flattened form of one score.
type Song struct {
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Instrument string    `json:"instrument"`
	Measures   []Measure `json:"measures"`
}

// Measure carries its tempo and time signature explicitly, even when
// the score only declared them in an earlier measure.
type Measure struct {
	BPM                      *int   `json:"bpm"`
	BeatsInMeasure           int    `json:"beatsInMeasure"`
	TimeSignatureNumerator   int    `json:"timeSignatureNumerator"`
	TimeSignatureDenominator int    `json:"timeSignatureDenominator"`
	Beats                    []Beat `json:"beats"`
}

// Beat is one rhythmic onset. Notes are ordered by ascending string.
type Beat struct {
	IsRest    bool   `json:"isRest"`
	IsChord   bool   `json:"isChord"`
	ChordName string `json:"chordName"`
	IsTie     bool   `json:"isTie"`
	Notes     []Note `json:"notes"`
}

type Note struct {
	Duration int    `json:"duration"`
	Fret     *int   `json:"fret"`
	String   *int   `json:"string"`
	Pitch    *Pitch `json:"pitch,omitempty"`
}

type Pitch struct {
	Step   string `json:"step"`
	Octave *int   `json:"octave,omitempty"`
	Alter  *int   `json:"alter,omitempty"`
}
