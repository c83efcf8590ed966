package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsphweid/tabdex/bucket"
	"github.com/jsphweid/tabdex/file"
	"github.com/jsphweid/tabdex/midi"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/store"
	"github.com/jsphweid/tabdex/transcode"
	"github.com/jsphweid/tabdex/util"
)

// Sink receives every successfully transcoded document. Write is called
// from several workers at once.
type Sink interface {
	Write(ctx context.Context, rec Record) error
}

type SinkFunc func(ctx context.Context, rec Record) error

func (f SinkFunc) Write(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// DirSink writes each song into Dir under its relative name with a
// .json extension.
type DirSink struct {
	Dir string
}

func (s DirSink) Write(_ context.Context, rec Record) error {
	data, err := transcode.Encode(rec.Song)
	if err != nil {
		return err
	}
	path := filepath.Join(s.Dir, filepath.FromSlash(file.OutputName(rec.Rel)))
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0666); err != nil {
		return fmt.Errorf("write %v: %w", path, err)
	}
	return nil
}

// MidiSink exports each song as <basename>.mid into Dir.
type MidiSink struct {
	Dir string
}

func (s MidiSink) Write(_ context.Context, rec Record) error {
	path := filepath.Join(s.Dir, filepath.FromSlash(file.MidiName(rec.Rel)))
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return midi.WriteMidiFile(path, rec.Song, rec.Divisions)
}

// IndexSink puts each song's labelled beats into the chord index.
type IndexSink struct {
	Store *store.Store
}

func (s IndexSink) Write(_ context.Context, rec Record) error {
	return s.Store.PutSong(rec.FileNum, rec.Rel, rec.Song)
}

type MetadataWriter interface {
	PutSongMetadata(filename string, m model.SongMetadata) error
}

// CatalogSink records song metadata in the catalog.
type CatalogSink struct {
	Catalog MetadataWriter
}

func (s CatalogSink) Write(_ context.Context, rec Record) error {
	return s.Catalog.PutSongMetadata(rec.Rel, Metadata(rec))
}

// Metadata summarises a record for the catalog.
func Metadata(rec Record) model.SongMetadata {
	return model.SongMetadata{
		Title:      rec.Song.Title,
		Artist:     rec.Song.Artist,
		Instrument: rec.Song.Instrument,
		Measures:   len(rec.Song.Measures),
		Faults:     len(rec.Faults),
		Chords:     bucket.Labels(bucket.Collect(rec.FileNum, rec.Song)),
	}
}

// MultiSink writes to every sink, even after one fails.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
