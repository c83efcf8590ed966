package model

// ChordOccurrence locates one labelled beat inside an indexed song.
type ChordOccurrence struct {
	FileNum uint32
	Label   string
	Measure uint32
	Beat    uint32

	// Notes is the beat's pitched notes as "step[alter]octave" tokens,
	// in beat order.
	Notes []string
	// Voicing is Notes joined into one lookup key, e.g. "D3-A3-D4".
	Voicing string
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type FileNumToScorePath = map[uint32]string
