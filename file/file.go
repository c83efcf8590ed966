package file

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsphweid/tabdex/model"
)

// CreateFileNumMap numbers score paths in lexical order so the same
// songs directory always yields the same numbering.
func CreateFileNumMap(paths []string) model.FileNumToScorePath {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	res := make(model.FileNumToScorePath)
	for i, v := range sorted {
		res[uint32(i)] = v
	}
	return res
}

// RelName is a slash-separated name for path relative to root. It never
// climbs above root; paths outside root fall back to their base name.
func RelName(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(p)
	}
	return CleanName(filepath.ToSlash(rel))
}

// CleanName normalises a slash-separated name and drops any leading
// "/" or "../" so it always stays inside an output dir.
func CleanName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
}

func replaceExt(name, ext string) string {
	name = CleanName(name)
	return strings.TrimSuffix(name, path.Ext(name)) + ext
}

// OutputName is the parsed-song name for a relative score name,
// keeping its subdirectories: "live/riff.musicxml" is "live/riff.json".
func OutputName(name string) string {
	return replaceExt(name, ".json")
}

// MidiName is the exported MIDI name for a relative score name.
func MidiName(name string) string {
	return replaceExt(name, ".mid")
}
