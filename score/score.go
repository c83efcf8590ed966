package score

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/tabdex/model"
	"golang.org/x/net/html/charset"
)

// SupportedExtensions lists the score encodings this tool reads.
var SupportedExtensions = map[string]bool{
	".json":     true,
	".xml":      true,
	".musicxml": true,
}

func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Read decodes a score, picking the decoder from the file extension.
func Read(filename string, data []byte) (*model.Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return decodeJSON(data)
	case ".xml", ".musicxml":
		return decodeXML(data)
	default:
		return nil, fmt.Errorf("unsupported score extension: %q", ext)
	}
}

func ReadScoreFile(path string) (*model.Document, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading score file: %w", err)
	}
	doc, err := Read(filepath.Base(path), dat)
	if err != nil {
		return nil, fmt.Errorf("error parsing score file %v: %w", path, err)
	}
	return doc, nil
}

// some converters keep the root element as the single top-level key
type wrappedDocument struct {
	ScorePartwise *model.Document `json:"score-partwise"`
}

func decodeJSON(data []byte) (*model.Document, error) {
	var wrapped wrappedDocument
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.ScorePartwise != nil {
		return wrapped.ScorePartwise, nil
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func decodeXML(data []byte) (*model.Document, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel
	// MusicXML files reference DTDs with entities the decoder cannot resolve
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity

	var doc model.Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
