package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"pipedeck/internal/fileutil"
	"pipedeck/internal/textutil"
)

// FileExtension is appended to every interchange file name.
const FileExtension = ".gstpipe"

// DefaultImportName names raw-text imports whose file name yields no stem.
const DefaultImportName = "Imported Pipeline"

// Interchange is the two-field single-entry file format.
type Interchange struct {
	Name     string `json:"name"`
	Pipeline string `json:"pipeline"`
}

// FileName returns the interchange file name for an entry name.
func FileName(name string) string {
	return textutil.SanitizeFileStem(name) + FileExtension
}

// MarshalInterchange renders an entry as indented interchange JSON.
func MarshalInterchange(e Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Interchange{Name: e.Name, Pipeline: e.Text}); err != nil {
		return nil, fmt.Errorf("encode interchange: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ParseInterchange reads either interchange JSON or raw pipeline text.
// Content starting with '{' must be a JSON object with name and pipeline
// (or text) strings. Content starting with '[' is a whole-catalog snapshot
// and is refused. Anything else is raw text: its lines are joined with
// spaces and the entry is named after the file.
func ParseInterchange(filename string, data []byte) (name, text string, err error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	switch {
	case bytes.HasPrefix(trimmed, []byte("{")):
		return parseInterchangeJSON(filename, trimmed)
	case bytes.HasPrefix(trimmed, []byte("[")):
		return "", "", fmt.Errorf("%w: looks like a catalog snapshot; use import instead", ErrInvalidInterchange)
	}

	text = textutil.JoinLines(string(trimmed))
	if text == "" {
		return "", "", ErrEmptyPipeline
	}
	return nameFromFile(filename), text, nil
}

func parseInterchangeJSON(filename string, data []byte) (string, string, error) {
	var doc struct {
		Name     *string `json:"name"`
		Pipeline *string `json:"pipeline"`
		Text     *string `json:"text"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidInterchange, err)
	}
	if doc.Name == nil {
		return "", "", fmt.Errorf("%w: missing name", ErrInvalidInterchange)
	}
	pipeline := doc.Pipeline
	if pipeline == nil {
		pipeline = doc.Text
	}
	if pipeline == nil {
		return "", "", fmt.Errorf("%w: missing pipeline", ErrInvalidInterchange)
	}

	text := strings.TrimSpace(*pipeline)
	if text == "" {
		return "", "", ErrEmptyPipeline
	}
	name := strings.TrimSpace(*doc.Name)
	if name == "" {
		name = nameFromFile(filename)
	}
	return name, text, nil
}

// nameFromFile strips the directory and everything from the last
// ".gstpipe" onward.
func nameFromFile(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	if idx := strings.LastIndex(base, FileExtension); idx >= 0 {
		base = base[:idx]
	}
	base = strings.TrimSpace(base)
	if base == "" {
		return DefaultImportName
	}
	return base
}

// Share writes the raw pipeline text of e to dir/<sanitized name>.gstpipe
// and returns the written path.
func Share(fsys afero.Fs, dir string, e Entry) (string, error) {
	path := filepath.Join(dir, FileName(e.Name))
	if err := fileutil.WriteFileAtomic(fsys, path, []byte(e.Text), 0o644); err != nil {
		return "", fmt.Errorf("share pipeline: %w", err)
	}
	return path, nil
}
