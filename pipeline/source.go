package pipeline

import (
	"fmt"
	"os"

	"github.com/jsphweid/tabdex/file"
	"github.com/jsphweid/tabdex/util"
)

// Source lists and reads score documents. Rel gives the name outputs
// are written under; it keeps subdirectories so documents sharing a
// base name stay apart.
type Source interface {
	Names() ([]string, error)
	Read(name string) ([]byte, error)
	Rel(name string) string
}

// DirSource reads every supported score under Dir. Max of 0 means no limit.
type DirSource struct {
	Dir string
	Max int
}

func (s DirSource) Names() ([]string, error) {
	return util.GatherAllScorePaths(s.Dir, s.Max)
}

func (s DirSource) Rel(name string) string {
	return file.RelName(s.Dir, name)
}

func (s DirSource) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %v: %w", name, err)
	}
	return data, nil
}

// MemorySource serves documents held in memory, keyed by filename.
type MemorySource map[string][]byte

func (s MemorySource) Names() ([]string, error) {
	return util.GetSortedKeys(s), nil
}

func (s MemorySource) Rel(name string) string {
	return file.CleanName(name)
}

func (s MemorySource) Read(name string) ([]byte, error) {
	data, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("no document %v", name)
	}
	return data, nil
}
