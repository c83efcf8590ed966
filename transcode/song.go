package transcode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jsphweid/tabdex/model"
)

// DefaultDivisions is the MusicXML default when no measure declares
// attributes/divisions.
const DefaultDivisions = 1

// TranscodeSong folds the first part's measures in document order.
// Carried state starts fresh on every call, so songs can be transcoded
// concurrently.
func TranscodeSong(doc *model.Document) (*model.Song, []Fault, error) {
	if doc == nil {
		return nil, nil, fmt.Errorf("%w: empty document", ErrMalformedDocument)
	}
	part, ok := doc.FirstPart()
	if !ok {
		return nil, nil, fmt.Errorf("%w: no part", ErrMalformedDocument)
	}
	if len(part.Measures) == 0 {
		return nil, nil, fmt.Errorf("%w: part %q has no measures", ErrMalformedDocument, part.ID)
	}

	song := &model.Song{
		Title:      doc.Title(),
		Artist:     doc.Artist(),
		Instrument: doc.Instrument(),
		Measures:   make([]model.Measure, 0, len(part.Measures)),
	}

	var faults []Fault
	carry := NewCarry()
	for i, raw := range part.Measures {
		var measure model.Measure
		var measureFaults []Fault
		measure, carry, measureFaults = TranscodeMeasure(raw, i, carry)
		song.Measures = append(song.Measures, measure)
		faults = append(faults, measureFaults...)
	}

	return song, faults, nil
}

// Divisions returns the first declared ticks-per-quarter of the song's part.
func Divisions(doc *model.Document) int {
	part, ok := doc.FirstPart()
	if !ok {
		return DefaultDivisions
	}
	for _, m := range part.Measures {
		if d, ok := m.Divisions(); ok && d > 0 {
			return d
		}
	}
	return DefaultDivisions
}

// Encode renders a song as tab-indented JSON with a trailing newline.
func Encode(song *model.Song) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	if err := enc.Encode(song); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a song previously written by Encode.
func Decode(data []byte) (*model.Song, error) {
	var song model.Song
	if err := json.Unmarshal(data, &song); err != nil {
		return nil, fmt.Errorf("decode song: %w", err)
	}
	return &song, nil
}
