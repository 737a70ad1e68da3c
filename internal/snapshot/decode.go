// Package snapshot loads flat file maps from documents and directories.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/codetree/internal/hierarchy"
)

// Format is the encoding of a file map document.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// InputError wraps a failure to read or decode an input source.
type InputError struct {
	Source string
	Err    error
}

func (e *InputError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid input: %v", e.Err)
	}
	return fmt.Sprintf("invalid input %s: %v", e.Source, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatAuto, "":
		return FormatAuto, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid input format %q (expected auto|json|yaml)", s)
	}
}

// FormatForPath guesses the format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// Decode reads a JSON object or YAML mapping of path to content.
// FormatAuto treats input starting with "{" as JSON and anything else as YAML.
func Decode(r io.Reader, format Format) (*hierarchy.FileMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &InputError{Err: err}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &hierarchy.FileMap{}, nil
	}
	if format == FormatAuto || format == "" {
		format = FormatYAML
		if trimmed[0] == '{' {
			format = FormatJSON
		}
	}

	files := &hierarchy.FileMap{}
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(trimmed, files); err != nil {
			return nil, &InputError{Err: fmt.Errorf("parsing JSON: %w", err)}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(trimmed, files); err != nil {
			return nil, &InputError{Err: fmt.Errorf("parsing YAML: %w", err)}
		}
	default:
		return nil, &InputError{Err: fmt.Errorf("unsupported format %q", format)}
	}
	return files, nil
}

// LoadFile decodes the document at path, or stdin when path is "-".
func LoadFile(path string, stdin io.Reader, format Format) (*hierarchy.FileMap, error) {
	source := strings.TrimSpace(path)
	if source == "" {
		return nil, &InputError{Err: fmt.Errorf("empty input source")}
	}

	var r io.Reader
	if source == "-" {
		r = stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, &InputError{Source: source, Err: err}
		}
		defer f.Close()
		r = f
		if format == FormatAuto || format == "" {
			format = FormatForPath(source)
		}
	}

	files, err := Decode(r, format)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			inputErr.Source = source
		}
		return nil, err
	}
	return files, nil
}
