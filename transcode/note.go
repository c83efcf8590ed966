package transcode

import "github.com/jsphweid/tabdex/model"

// NormalizeNote converts one raw note event. The bool is false when a
// pitched note carries no string/fret notation; those fields stay nil.
func NormalizeNote(raw model.RawNote) (model.Note, bool) {
	duration, _ := raw.Duration.Int()
	if raw.Rest {
		return model.Note{Duration: duration}, true
	}

	n := model.Note{Duration: duration}
	tech, ok := raw.Technical()
	if ok {
		n.String = tech.String.IntPtr()
		n.Fret = tech.Fret.IntPtr()
	}

	if raw.Pitch != nil {
		n.Pitch = &model.Pitch{
			Step:   string(raw.Pitch.Step),
			Octave: raw.Pitch.Octave.IntPtr(),
			Alter:  raw.Pitch.Alter.IntPtr(),
		}
	}

	return n, n.String != nil && n.Fret != nil
}
