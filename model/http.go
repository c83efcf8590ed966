package model

type SearchResult struct {
	FileId       uint32        `json:"file_id"`
	Filename     string        `json:"filename"`
	Measure      uint32        `json:"measure"`
	Beat         uint32        `json:"beat"`
	Notes        []string      `json:"notes"`
	Voicing      string        `json:"voicing"`
	SongMetadata *SongMetadata `json:"metadata"`
}

type SearchResponse struct {
	Chord      string         `json:"chord"`
	Voicing    string         `json:"voicing,omitempty"`
	Start      int            `json:"start"`
	NumMatches int            `json:"num_matches"`
	Results    []SearchResult `json:"results"`
}

type FaultBody struct {
	Kind    string `json:"kind"`
	Measure int    `json:"measure"`
	Note    int    `json:"note"`
	Detail  string `json:"detail"`
}

type TranscodeResponse struct {
	Song   *Song       `json:"song"`
	Faults []FaultBody `json:"faults"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
