package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jsphweid/tabdex/midi"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/store"
	"github.com/jsphweid/tabdex/transcode"
	"github.com/stretchr/testify/assert"
)

const songsDir = "../testdata/songs"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

type memCatalog struct {
	mu    sync.Mutex
	items map[string]model.SongMetadata
}

func (c *memCatalog) PutSongMetadata(filename string, m model.SongMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[filename] = m
	return nil
}

func TestRunDirectory(t *testing.T) {
	assert := assert.New(t)
	out := t.TempDir()

	s, err := store.New(filepath.Join(t.TempDir(), "chords.db"))
	assert.NoError(err)
	defer s.Close()
	catalog := &memCatalog{items: map[string]model.SongMetadata{}}

	sink := MultiSink{DirSink{Dir: out}, MidiSink{Dir: out}, IndexSink{Store: s}, CatalogSink{Catalog: catalog}}
	summary, err := Run(context.Background(), DirSource{Dir: songsDir}, sink, 3, quietLogger())
	assert.NoError(err)

	assert.NotEmpty(summary.RunID)
	assert.Len(summary.FileNums, 3)
	assert.Equal(2, summary.Transcoded)
	assert.Equal(1, summary.Failed)
	assert.False(summary.Interrupted)

	var failed Result
	for _, r := range summary.Results {
		if r.Err != nil {
			failed = r
		}
	}
	assert.Equal("broken.json", filepath.Base(failed.Name))
	assert.ErrorIs(failed.Err, transcode.ErrMalformedDocument)

	data, err := os.ReadFile(filepath.Join(out, "power-riff.json"))
	assert.NoError(err)
	song, err := transcode.Decode(data)
	assert.NoError(err)
	assert.Equal("Power Riff", song.Title)

	_, err = midi.ReadMidiFile(filepath.Join(out, "open-chords.mid"))
	assert.NoError(err)
	_, err = os.Stat(filepath.Join(out, "broken.json"))
	assert.True(os.IsNotExist(err))

	found, err := s.FindChord("F#power", "", 10, 0)
	assert.NoError(err)
	assert.Len(found, 1)
	assert.Equal(uint32(2), found[0].FileNum)

	meta := catalog.items["power-riff.musicxml"]
	assert.Equal("The Riffers", meta.Artist)
	assert.Equal(2, meta.Measures)
	assert.Contains(meta.Chords, "Cm")
}

func TestRunIsDeterministic(t *testing.T) {
	assert := assert.New(t)
	first, second := t.TempDir(), t.TempDir()

	_, err := Run(context.Background(), DirSource{Dir: songsDir}, DirSink{Dir: first}, 1, quietLogger())
	assert.NoError(err)
	_, err = Run(context.Background(), DirSource{Dir: songsDir}, DirSink{Dir: second}, 4, quietLogger())
	assert.NoError(err)

	for _, name := range []string{"power-riff.json", "open-chords.json"} {
		a, err := os.ReadFile(filepath.Join(first, name))
		assert.NoError(err)
		b, err := os.ReadFile(filepath.Join(second, name))
		assert.NoError(err)
		assert.Equal(a, b)
	}
}

const restScore = `{"part": {"measure": {"direction": {"sound": {"tempo": 90}}, "note": {"rest": null, "duration": 1}}}}`

func TestRunKeepsSameBaseNamesApart(t *testing.T) {
	assert := assert.New(t)
	out := t.TempDir()
	src := MemorySource{
		"a/riff.json":   []byte(restScore),
		"b/riff.json":   []byte(restScore),
		"riff.musicxml": []byte(`<score-partwise><part id="P1"><measure number="1"><note><rest/><duration>2</duration></note></measure></part></score-partwise>`),
	}

	s, err := store.New(filepath.Join(t.TempDir(), "chords.db"))
	assert.NoError(err)
	defer s.Close()
	catalog := &memCatalog{items: map[string]model.SongMetadata{}}

	sink := MultiSink{DirSink{Dir: out}, MidiSink{Dir: out}, IndexSink{Store: s}, CatalogSink{Catalog: catalog}}
	summary, err := Run(context.Background(), src, sink, 3, quietLogger())
	assert.NoError(err)
	assert.Equal(3, summary.Transcoded)
	assert.Equal(0, summary.Failed)

	for _, name := range []string{"a/riff.json", "b/riff.json", "riff.json", "a/riff.mid", "b/riff.mid", "riff.mid"} {
		_, err := os.Stat(filepath.Join(out, filepath.FromSlash(name)))
		assert.NoError(err, name)
	}
	assert.Len(catalog.items, 3)
	assert.Contains(catalog.items, "a/riff.json")

	songs, err := s.CountSongs()
	assert.NoError(err)
	assert.Equal(3, songs)
	name, err := s.SongName(1)
	assert.NoError(err)
	assert.Equal("b/riff.json", name)
}

func TestRunFailsLaterDuplicateOutput(t *testing.T) {
	assert := assert.New(t)
	out := t.TempDir()
	src := MemorySource{
		"riff.json": []byte(restScore),
		"riff.xml":  []byte(`<score-partwise><part id="P1"><measure number="1"><note><rest/><duration>2</duration></note></measure></part></score-partwise>`),
	}

	summary, err := Run(context.Background(), src, DirSink{Dir: out}, 2, quietLogger())
	assert.NoError(err)
	assert.Equal(1, summary.Transcoded)
	assert.Equal(1, summary.Failed)
	assert.NoError(summary.Results[0].Err)
	assert.ErrorIs(summary.Results[1].Err, ErrDuplicateOutput)
	assert.Equal("riff.xml", summary.Results[1].Name)

	data, err := os.ReadFile(filepath.Join(out, "riff.json"))
	assert.NoError(err)
	song, err := transcode.Decode(data)
	assert.NoError(err)
	assert.Equal(90, *song.Measures[0].BPM)
}

func TestDirSourceRel(t *testing.T) {
	src := DirSource{Dir: "songs"}
	assert.Equal(t, "live/riff.json", src.Rel(filepath.Join("songs", "live", "riff.json")))
	assert.Equal(t, "riff.json", MemorySource{}.Rel("../riff.json"))
}

func TestRunSinkFailureIsPerDocument(t *testing.T) {
	src := MemorySource{
		"a.json": []byte(`{"part": {"measure": {"direction": {"sound": {"tempo": 90}}, "note": {"rest": null, "duration": 1}}}}`),
		"b.json": []byte(`{"part": {"measure": {"direction": {"sound": {"tempo": 90}}, "note": {"rest": null, "duration": 2}}}}`),
	}
	boom := errors.New("boom")
	sink := SinkFunc(func(_ context.Context, rec Record) error {
		if rec.Name == "a.json" {
			return boom
		}
		return nil
	})

	summary, err := Run(context.Background(), src, sink, 2, quietLogger())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Transcoded)
	assert.Equal(t, 1, summary.Failed)
	assert.ErrorIs(t, summary.Results[0].Err, boom)
	assert.NoError(t, summary.Results[1].Err)
}

func TestRunCountsFaults(t *testing.T) {
	src := MemorySource{
		"no-tempo.json": []byte(`{"part": {"measure": {"note": {"rest": null, "duration": 1}}}}`),
	}
	summary, err := Run(context.Background(), src, SinkFunc(func(context.Context, Record) error { return nil }), 1, quietLogger())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Faults)
	assert.Equal(t, 1, summary.Results[0].Faults)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var mu sync.Mutex
	written := 0
	sink := SinkFunc(func(context.Context, Record) error {
		mu.Lock()
		written++
		mu.Unlock()
		return nil
	})
	summary, err := Run(ctx, DirSource{Dir: songsDir}, sink, 2, quietLogger())
	assert.NoError(t, err)
	assert.Equal(t, len(summary.Results), summary.Transcoded+summary.Failed)
	assert.LessOrEqual(t, written, len(summary.FileNums))
}

func TestRunMissingDir(t *testing.T) {
	_, err := Run(context.Background(), DirSource{Dir: "../testdata/nope"}, MultiSink{}, 1, quietLogger())
	assert.Error(t, err)
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	one, two := errors.New("one"), errors.New("two")
	calls := 0
	sink := MultiSink{
		SinkFunc(func(context.Context, Record) error { calls++; return one }),
		SinkFunc(func(context.Context, Record) error { calls++; return nil }),
		SinkFunc(func(context.Context, Record) error { calls++; return two }),
	}
	err := sink.Write(context.Background(), Record{})
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, one)
	assert.ErrorIs(t, err, two)
}
