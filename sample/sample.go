package sample

import (
	"fmt"

	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/util"
)

// MaxBeats caps how long an excerpt can run.
const MaxBeats = 16

// Create cuts an excerpt starting at the given measure, keeping beats
// until maxBeats have been taken. Measures keep their resolved tempo and
// time signature, so the excerpt plays back on its own.
func Create(song *model.Song, measure int, maxBeats int) (*model.Song, error) {
	if measure < 0 || measure >= len(song.Measures) {
		return nil, fmt.Errorf("measure %v out of range (song has %v)", measure, len(song.Measures))
	}
	maxBeats = util.Min(maxBeats, MaxBeats)
	if maxBeats <= 0 {
		maxBeats = MaxBeats
	}

	res := &model.Song{
		Title:      song.Title,
		Artist:     song.Artist,
		Instrument: song.Instrument,
	}

	var taken int
	for _, m := range song.Measures[measure:] {
		if taken >= maxBeats {
			break
		}
		excerpt := m
		if remaining := maxBeats - taken; len(m.Beats) > remaining {
			excerpt.Beats = append([]model.Beat(nil), m.Beats[:remaining]...)
			excerpt.BeatsInMeasure = 0
			for _, b := range excerpt.Beats {
				excerpt.BeatsInMeasure += longest(b)
			}
		}
		taken += len(excerpt.Beats)
		res.Measures = append(res.Measures, excerpt)
	}

	return res, nil
}

func longest(b model.Beat) int {
	var length int
	for _, n := range b.Notes {
		if n.Duration > length {
			length = n.Duration
		}
	}
	return length
}
