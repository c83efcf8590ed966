package model

// SongMetadata is the catalog entry kept per transcoded document.
type SongMetadata struct {
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Instrument string   `json:"instrument"`
	Measures   int      `json:"measures"`
	Faults     int      `json:"faults"`
	Chords     []string `json:"chords,omitempty"`
}
