package transcode

import (
	"errors"
	"log/slog"
)

// ErrMalformedDocument means the score lacks the structure needed to
// transcode it at all. It only ever fails the one document.
var ErrMalformedDocument = errors.New("malformed document")

type FaultKind string

const (
	MissingTempo        FaultKind = "missing_tempo"
	MissingNotation     FaultKind = "missing_notation"
	UnclassifiablePitch FaultKind = "unclassifiable_pitch"
)

// Fault is a recoverable data-quality problem. The song is still
// produced, with the affected fields left null or labelled "n/a".
type Fault struct {
	Kind    FaultKind
	Measure int
	// Note is the index of the note event within its measure, or -1
	// when the fault concerns the whole measure.
	Note   int
	Detail string
}

// LogFaults reports each fault once, tagged with the document and measure.
func LogFaults(log *slog.Logger, document string, faults []Fault) {
	for _, f := range faults {
		attrs := []any{"document", document, "measure", f.Measure, "kind", string(f.Kind)}
		if f.Note >= 0 {
			attrs = append(attrs, "note", f.Note)
		}
		log.Warn(f.Detail, attrs...)
	}
}
