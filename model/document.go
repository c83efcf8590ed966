package model

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"math"
	"strconv"
	"strings"
)

// OneOrMany decodes a node that the source may hold either as a single
// object or as a list of objects. It is always a list once decoded.
type OneOrMany[T any] []T

func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*o = many
		return nil
	}
	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*o = OneOrMany[T]{one}
	return nil
}

// First returns the first element, if any.
func (o OneOrMany[T]) First() (T, bool) {
	var zero T
	if len(o) == 0 {
		return zero, false
	}
	return o[0], true
}

// Text is a scalar leaf. Converters disagree on whether numbers are
// quoted, so both JSON strings and numbers are accepted.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[', 'n':
		// objects, lists and null carry no scalar value
	default:
		*t = Text(trimmed)
	}
	return nil
}

// Present reports whether the leaf holds anything at all.
func (t Text) Present() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Int parses the leaf the way the score converters expect: decimals
// are truncated toward zero ("96.5" is 96). Values beyond the 32-bit
// range do not parse.
func (t Text) Int() (int, bool) {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// IntPtr is Int with absence expressed as nil.
func (t Text) IntPtr() *int {
	n, ok := t.Int()
	if !ok {
		return nil
	}
	return &n
}

// Marker records that a node exists, whatever it holds.
type Marker bool

func (m *Marker) UnmarshalJSON([]byte) error {
	*m = true
	return nil
}

func (m *Marker) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	*m = true
	return d.Skip()
}

// Document is one partwise score.
type Document struct {
	MovementTitle  Text            `json:"movement-title" xml:"movement-title"`
	Work           *Work           `json:"work" xml:"work"`
	Identification *Identification `json:"identification" xml:"identification"`
	PartList       *PartList       `json:"part-list" xml:"part-list"`
	Parts          OneOrMany[Part] `json:"part" xml:"part"`
}

type Work struct {
	Title Text `json:"work-title" xml:"work-title"`
}

type Identification struct {
	Rights OneOrMany[Text] `json:"rights" xml:"rights"`
}

type PartList struct {
	ScoreParts OneOrMany[ScorePart] `json:"score-part" xml:"score-part"`
	PartName   Text                 `json:"part-name" xml:"part-name"`
}

type ScorePart struct {
	ID       Text `json:"id" xml:"id,attr"`
	PartName Text `json:"part-name" xml:"part-name"`
}

type Part struct {
	ID       Text                  `json:"id" xml:"id,attr"`
	Measures OneOrMany[RawMeasure] `json:"measure" xml:"measure"`
}

type RawMeasure struct {
	Number     Text                  `json:"number" xml:"number,attr"`
	Attributes OneOrMany[Attributes] `json:"attributes" xml:"attributes"`
	Directions OneOrMany[Direction]  `json:"direction" xml:"direction"`
	Notes      OneOrMany[RawNote]    `json:"note" xml:"note"`
}

type Attributes struct {
	Divisions Text  `json:"divisions" xml:"divisions"`
	Time      *Time `json:"time" xml:"time"`
}

type Time struct {
	Beats    Text `json:"beats" xml:"beats"`
	BeatType Text `json:"beat-type" xml:"beat-type"`
}

type Direction struct {
	Sound *Sound `json:"sound" xml:"sound"`
}

type Sound struct {
	Tempo Text `json:"tempo" xml:"tempo,attr"`
}

type RawNote struct {
	Chord     Marker               `json:"chord" xml:"chord"`
	Rest      Marker               `json:"rest" xml:"rest"`
	Tie       Marker               `json:"tie" xml:"tie"`
	Duration  Text                 `json:"duration" xml:"duration"`
	Pitch     *RawPitch            `json:"pitch" xml:"pitch"`
	Notations OneOrMany[Notations] `json:"notations" xml:"notations"`
}

type RawPitch struct {
	Step   Text `json:"step" xml:"step"`
	Alter  Text `json:"alter" xml:"alter"`
	Octave Text `json:"octave" xml:"octave"`
}

// Notations holds string/fret either under technical or directly.
type Notations struct {
	Technical *Technical `json:"technical" xml:"technical"`
	String    Text       `json:"string" xml:"string"`
	Fret      Text       `json:"fret" xml:"fret"`
}

type Technical struct {
	String Text `json:"string" xml:"string"`
	Fret   Text `json:"fret" xml:"fret"`
}

// FirstPart returns the part whose measures make up the song.
func (d *Document) FirstPart() (Part, bool) {
	return d.Parts.First()
}

// Title is movement-title, falling back to work/work-title.
func (d *Document) Title() string {
	if d.MovementTitle.Present() {
		return string(d.MovementTitle)
	}
	if d.Work != nil {
		return string(d.Work.Title)
	}
	return ""
}

// Artist is the first identification/rights entry.
func (d *Document) Artist() string {
	if d.Identification == nil {
		return ""
	}
	rights, _ := d.Identification.Rights.First()
	return string(rights)
}

// Instrument is the first score-part's part-name, falling back to a
// part-name held directly by the part-list.
func (d *Document) Instrument() string {
	if d.PartList == nil {
		return ""
	}
	if sp, ok := d.PartList.ScoreParts.First(); ok && sp.PartName.Present() {
		return string(sp.PartName)
	}
	return string(d.PartList.PartName)
}

// Tempo returns the first direction/sound/tempo declared in the measure.
func (m RawMeasure) Tempo() (int, bool) {
	for _, dir := range m.Directions {
		if dir.Sound == nil || !dir.Sound.Tempo.Present() {
			continue
		}
		if bpm, ok := dir.Sound.Tempo.Int(); ok {
			return bpm, true
		}
	}
	return 0, false
}

// TimeBeats returns attributes/time/beats when declared.
func (m RawMeasure) TimeBeats() (int, bool) {
	for _, attrs := range m.Attributes {
		if attrs.Time != nil && attrs.Time.Beats.Present() {
			return attrs.Time.Beats.Int()
		}
	}
	return 0, false
}

// TimeBeatType returns attributes/time/beat-type when declared.
func (m RawMeasure) TimeBeatType() (int, bool) {
	for _, attrs := range m.Attributes {
		if attrs.Time != nil && attrs.Time.BeatType.Present() {
			return attrs.Time.BeatType.Int()
		}
	}
	return 0, false
}

// Divisions returns attributes/divisions when declared.
func (m RawMeasure) Divisions() (int, bool) {
	for _, attrs := range m.Attributes {
		if attrs.Divisions.Present() {
			return attrs.Divisions.Int()
		}
	}
	return 0, false
}

// IsContinuation reports whether the note shares the onset of the
// note before it. Rests never continue a chord.
func (n RawNote) IsContinuation() bool {
	return bool(n.Chord) && !bool(n.Rest)
}

// Technical resolves string/fret: the first notations entry holding a
// technical node wins, otherwise the first entry's own fields are used.
func (n RawNote) Technical() (Technical, bool) {
	for _, notations := range n.Notations {
		if notations.Technical != nil {
			return *notations.Technical, true
		}
	}
	first, ok := n.Notations.First()
	if !ok || (!first.String.Present() && !first.Fret.Present()) {
		return Technical{}, false
	}
	return Technical{String: first.String, Fret: first.Fret}, true
}
