package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jsphweid/tabdex/chord"
	"github.com/jsphweid/tabdex/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	channel  = 0
	velocity = 100

	// General MIDI programs
	programSteelGuitar      = 25
	programElectricGuitar   = 27
	programOverdrivenGuitar = 29
	programDistortionGuitar = 30
	programFingeredBass     = 33
)

// event is a message at an absolute tick.
type event struct {
	tick    uint32
	order   int
	message smf.Message
}

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = &blank, fmt.Errorf("error parsing midi file... %v", r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("error reading midi file... %w", err)
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("error parsing midi file... %w", err)
	}

	return res, nil
}

// Key returns the MIDI key for a pitched note. Unpitched notes, unknown
// steps and notes without an octave have no key.
func Key(n model.Note) (uint8, bool) {
	if n.Pitch == nil || n.Pitch.Octave == nil {
		return 0, false
	}
	class := chord.PitchClass(n.Pitch.Step, 0)
	if class == chord.Unclassified {
		return 0, false
	}
	key := (*n.Pitch.Octave+1)*12 + class
	if n.Pitch.Alter != nil {
		key += *n.Pitch.Alter
	}
	if key < 0 || key > 127 {
		return 0, false
	}
	return uint8(key), true
}

// Program picks a General MIDI program from the part name.
func Program(instrument string) uint8 {
	name := strings.ToLower(instrument)
	switch {
	case strings.Contains(name, "bass"):
		return programFingeredBass
	case strings.Contains(name, "distortion"):
		return programDistortionGuitar
	case strings.Contains(name, "overdrive"):
		return programOverdrivenGuitar
	case strings.Contains(name, "electric"):
		return programElectricGuitar
	default:
		return programSteelGuitar
	}
}

// Export renders a song as a format 1 SMF: a conductor track with tempo
// and time signature changes, and one note track. Durations are in
// divisions, so divisions becomes the ticks-per-quarter resolution.
// Ties are not joined; every note sounds for its own duration.
func Export(song *model.Song, divisions int) *smf.SMF {
	if divisions <= 0 {
		divisions = 1
	}
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(divisions)

	var conductor, notes []event
	var tick uint32
	var lastBPM int
	var lastNum, lastDenom int

	for _, m := range song.Measures {
		if m.BPM != nil && *m.BPM > 0 && *m.BPM != lastBPM {
			conductor = append(conductor, event{tick: tick, message: smf.Message(smf.MetaTempo(float64(*m.BPM)))})
			lastBPM = *m.BPM
		}
		if m.TimeSignatureNumerator != lastNum || m.TimeSignatureDenominator != lastDenom {
			conductor = append(conductor, event{
				tick:    tick,
				message: smf.Message(smf.MetaTimeSig(uint8(m.TimeSignatureNumerator), uint8(m.TimeSignatureDenominator), 24, 8)),
			})
			lastNum, lastDenom = m.TimeSignatureNumerator, m.TimeSignatureDenominator
		}

		for _, b := range m.Beats {
			length := beatLength(b)
			if !b.IsRest {
				for _, n := range b.Notes {
					key, ok := Key(n)
					if !ok || n.Duration <= 0 {
						continue
					}
					notes = append(notes,
						event{tick: tick, order: 1, message: smf.Message(midi.NoteOn(channel, key, velocity))},
						event{tick: tick + uint32(n.Duration), order: 0, message: smf.Message(midi.NoteOff(channel, key))},
					)
				}
			}
			tick += uint32(length)
		}
	}

	conductorTrack := smf.Track{}
	conductorTrack.Add(0, smf.MetaTrackSequenceName("Tempo"))
	if lastBPM == 0 {
		conductorTrack.Add(0, smf.MetaTempo(120))
	}
	s.Add(closeTrack(conductorTrack, conductor))

	noteTrack := smf.Track{}
	name := song.Instrument
	if name == "" {
		name = song.Title
	}
	noteTrack.Add(0, smf.MetaTrackSequenceName(name))
	noteTrack.Add(0, midi.ProgramChange(channel, Program(song.Instrument)))
	s.Add(closeTrack(noteTrack, notes))

	return s
}

// Verify reads back an exported file and checks it holds the conductor
// and note tracks.
func Verify(path string) error {
	parsed, err := ReadMidiFile(path)
	if err != nil {
		return err
	}
	if len(parsed.Tracks) != 2 {
		return fmt.Errorf("%v: expected 2 tracks, found %v", path, len(parsed.Tracks))
	}
	return nil
}

func WriteMidiFile(path string, song *model.Song, divisions int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create midi file: %w", err)
	}
	defer f.Close()
	return Write(f, song, divisions)
}

func Write(w io.Writer, song *model.Song, divisions int) error {
	if _, err := Export(song, divisions).WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}

// beatLength is the longest note of the beat; chord notes share an onset.
func beatLength(b model.Beat) int {
	var length int
	for _, n := range b.Notes {
		if n.Duration > length {
			length = n.Duration
		}
	}
	return length
}

// closeTrack appends events in tick order (note-offs before note-ons on
// the same tick) with relative deltas, then ends the track.
func closeTrack(track smf.Track, events []event) smf.Track {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].order < events[j].order
	})

	var last uint32
	for _, e := range events {
		track.Add(e.tick-last, e.message)
		last = e.tick
	}
	track.Close(0)
	return track
}
