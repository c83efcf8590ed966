package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/score"
	"github.com/jsphweid/tabdex/transcode"
)

// ErrDuplicateOutput fails a document whose output name is already
// taken by an earlier document of the same run.
var ErrDuplicateOutput = errors.New("duplicate output name")

// Record is one transcoded document on its way to the sinks. Name is
// where it was read from; Rel is the name outputs are written under.
type Record struct {
	FileNum   uint32
	Name      string
	Rel       string
	Song      *model.Song
	Faults    []transcode.Fault
	Divisions int
}

// Result is the outcome of one document.
type Result struct {
	FileNum uint32
	Name    string
	Faults  int
	Err     error
}

// Transcode decodes and transcodes a single document.
func Transcode(fileNum uint32, name string, data []byte) (Record, error) {
	doc, err := score.Read(name, data)
	if err != nil {
		return Record{}, err
	}
	song, faults, err := transcode.TranscodeSong(doc)
	if err != nil {
		return Record{}, err
	}
	return Record{
		FileNum:   fileNum,
		Name:      name,
		Rel:       name,
		Song:      song,
		Faults:    faults,
		Divisions: transcode.Divisions(doc),
	}, nil
}

type job struct {
	fileNum uint32
	name    string
	rel     string
	// conflict names the earlier document holding the same output name
	conflict string
}

// Worker processes a single document job.
type Worker struct {
	src  Source
	sink Sink
	log  *slog.Logger
}

func NewWorker(src Source, sink Sink, log *slog.Logger) *Worker {
	return &Worker{src: src, sink: sink, log: log}
}

func (w *Worker) Process(ctx context.Context, j job) Result {
	log := w.log.With("document", j.name, "file_num", j.fileNum)
	res := Result{FileNum: j.fileNum, Name: j.name}

	if j.conflict != "" {
		res.Err = fmt.Errorf("%w: %v and %v both write %v", ErrDuplicateOutput, j.conflict, j.name, j.rel)
		log.Error("skipped", "error", res.Err)
		return res
	}

	data, err := w.src.Read(j.name)
	if err != nil {
		log.Error("read failed", "error", err)
		res.Err = err
		return res
	}

	rec, err := Transcode(j.fileNum, j.name, data)
	if err != nil {
		log.Error("transcode failed", "error", err)
		res.Err = err
		return res
	}
	rec.Rel = j.rel
	res.Faults = len(rec.Faults)
	transcode.LogFaults(w.log, j.name, rec.Faults)

	if err := w.sink.Write(ctx, rec); err != nil {
		log.Error("sink failed", "error", err)
		res.Err = fmt.Errorf("sink: %w", err)
		return res
	}

	log.Debug("transcoded", "measures", len(rec.Song.Measures), "faults", res.Faults)
	return res
}
