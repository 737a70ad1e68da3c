package hierarchy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is a single path/content pair of a FileMap.
type Entry struct {
	Path    string `json:"path" yaml:"path"`
	Content string `json:"content" yaml:"content"`
}

// FileMap is an ordered mapping of slash-separated file paths to file contents.
// Iteration follows insertion order; re-setting a path keeps its position.
// The zero value is an empty map ready to use.
type FileMap struct {
	paths []string
	files map[string]string
}

// NewFileMap creates a FileMap from entries, in order.
func NewFileMap(entries ...Entry) *FileMap {
	m := &FileMap{}
	for _, e := range entries {
		m.Set(e.Path, e.Content)
	}
	return m
}

// Set stores content at path.
func (m *FileMap) Set(path, content string) {
	if m.files == nil {
		m.files = make(map[string]string)
	}
	if _, ok := m.files[path]; !ok {
		m.paths = append(m.paths, path)
	}
	m.files[path] = content
}

// Get returns the content stored at path.
func (m *FileMap) Get(path string) (string, bool) {
	if m == nil {
		return "", false
	}
	content, ok := m.files[path]
	return content, ok
}

// Has reports whether path is a key of the map.
func (m *FileMap) Has(path string) bool {
	_, ok := m.Get(path)
	return ok
}

// Len returns the number of entries.
func (m *FileMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.paths)
}

// Paths returns the keys in insertion order.
func (m *FileMap) Paths() []string {
	if m.Len() == 0 {
		return nil
	}
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}

// Entries returns the path/content pairs in insertion order.
func (m *FileMap) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, 0, len(m.paths))
	for _, p := range m.paths {
		out = append(out, Entry{Path: p, Content: m.files[p]})
	}
	return out
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *FileMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, e.Path); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, e.Content); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON decodes a JSON object of strings, keeping key order.
func (m *FileMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("file map must be a JSON object")
	}

	out := FileMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding %q: %w", key, err)
		}
		var content string
		if err := json.Unmarshal(raw, &content); err != nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("value for %q must be a string", key)
		}
		out.Set(key, content)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}

// MarshalYAML encodes the map as a YAML mapping in insertion order.
// Multi-line contents use literal block style.
func (m *FileMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m.Entries() {
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Content}
		if strings.Contains(e.Content, "\n") {
			value.Style = yaml.LiteralStyle
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Path},
			value,
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping of scalars, keeping key order.
// Unquoted numbers and booleans keep their literal text.
func (m *FileMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = value.Content[0]
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: file map must be a YAML mapping", value.Line)
	}

	out := FileMap{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode || val.Tag == "!!null" {
			return fmt.Errorf("line %d: value for %q must be a string", val.Line, key.Value)
		}
		out.Set(key.Value, val.Value)
	}

	*m = out
	return nil
}
