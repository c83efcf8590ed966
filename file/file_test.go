package file

import (
	"testing"

	"github.com/jsphweid/tabdex/model"
	"github.com/stretchr/testify/assert"
)

func TestCreateFileNumMap(t *testing.T) {
	paths := []string{"songs/b.json", "songs/a.musicxml", "songs/c.xml"}
	res := CreateFileNumMap(paths)
	assert.Equal(t, model.FileNumToScorePath{
		0: "songs/a.musicxml",
		1: "songs/b.json",
		2: "songs/c.xml",
	}, res)
	assert.Equal(t, "songs/b.json", paths[0])
}

func TestRelName(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("riff.json", RelName("songs", "songs/riff.json"))
	assert.Equal("a/riff.json", RelName("songs", "songs/a/riff.json"))
	assert.Equal("riff.json", RelName("songs", "elsewhere/riff.json"))
	assert.Equal("riff.json", RelName("songs/", "./songs/riff.json"))
}

func TestCleanName(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("a/riff.json", CleanName("a/riff.json"))
	assert.Equal("riff.json", CleanName("../../riff.json"))
	assert.Equal("etc/riff.json", CleanName("/etc/riff.json"))
}

func TestOutputNames(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("riff.json", OutputName("riff.musicxml"))
	assert.Equal("riff.json", OutputName("riff.json"))
	assert.Equal("a/riff.json", OutputName("a/riff.json"))
	assert.Equal("b/riff.json", OutputName("b/riff.xml"))
	assert.Equal("live/my.song.mid", MidiName("live/my.song.xml"))
}
