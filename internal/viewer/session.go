// Package viewer models the selection state of a multi-file code viewer:
// which file is active, which folders are collapsed, and what the tab strip
// and folder list show.
package viewer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/salmonumbrella/codetree/internal/hierarchy"
	"github.com/salmonumbrella/codetree/internal/langmode"
)

// DefaultFile is preferred as the initial selection when present.
const DefaultFile = "src/index.js"

// ErrNoSelection is returned by View when there is nothing to show.
var ErrNoSelection = errors.New("no file selected")

// NotFoundError reports a path that is not a file or folder of the tree.
type NotFoundError struct {
	Path string
	Kind hierarchy.Kind
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Path)
}

// Options configure a Session.
type Options struct {
	// Strict rejects inputs that use a path as both a file and a folder.
	Strict bool
	// DefaultFile overrides DefaultFile for the initial selection.
	DefaultFile string
}

// Session is the state behind one viewer instance.
type Session struct {
	Files  *hierarchy.FileMap
	Tree   hierarchy.Directory
	Active string

	collapsed map[string]bool
}

// SavedState is the part of a Session worth persisting between runs.
type SavedState struct {
	Active    string   `json:"active,omitempty"`
	Collapsed []string `json:"collapsed,omitempty"`
}

// Tab is one entry of the tab strip.
type Tab struct {
	Path     string        `json:"path"`
	Name     string        `json:"name"`
	Language string        `json:"language,omitempty"`
	Icon     langmode.Icon `json:"icon"`
	Active   bool          `json:"active"`
}

// View is the content displayed for the active file.
type View struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
	Content  string `json:"content"`
}

// DefaultSelection picks preferred when files has it, else the first key.
func DefaultSelection(files *hierarchy.FileMap, preferred string) string {
	if preferred == "" {
		preferred = DefaultFile
	}
	if files.Has(preferred) {
		return preferred
	}
	if paths := files.Paths(); len(paths) > 0 {
		return paths[0]
	}
	return ""
}

// NewSession builds the tree for files and selects the default file.
func NewSession(files *hierarchy.FileMap, opts Options) (*Session, error) {
	if files == nil {
		files = &hierarchy.FileMap{}
	}

	var tree hierarchy.Directory
	if opts.Strict {
		t, err := hierarchy.BuildStrict(files)
		if err != nil {
			return nil, err
		}
		tree = t
	} else {
		tree = hierarchy.Build(files)
	}

	s := &Session{
		Files:     files,
		Tree:      tree,
		collapsed: make(map[string]bool),
	}
	if initial := DefaultSelection(files, opts.DefaultFile); initial != "" && s.isFile(initial) {
		s.Active = initial
	} else {
		// the first key may have been replaced by a folder
		for _, path := range files.Paths() {
			if s.isFile(path) {
				s.Active = path
				break
			}
		}
	}
	return s, nil
}

func (s *Session) isFile(path string) bool {
	node, ok := hierarchy.Lookup(s.Tree, path)
	return ok && hierarchy.KindOf(node) == hierarchy.KindFile
}

func (s *Session) isDir(path string) bool {
	node, ok := hierarchy.Lookup(s.Tree, path)
	return ok && hierarchy.KindOf(node) == hierarchy.KindDir
}

// Select makes path the active file.
func (s *Session) Select(path string) error {
	if !s.isFile(path) {
		return &NotFoundError{Path: path, Kind: hierarchy.KindFile}
	}
	s.Active = path
	return nil
}

// Toggle flips the collapsed flag of a folder and returns the new value.
func (s *Session) Toggle(dir string) (bool, error) {
	dir = strings.TrimSuffix(dir, hierarchy.Separator)
	if !s.isDir(dir) {
		return false, &NotFoundError{Path: dir, Kind: hierarchy.KindDir}
	}
	s.collapsed[dir] = !s.collapsed[dir]
	if !s.collapsed[dir] {
		delete(s.collapsed, dir)
		return false, nil
	}
	return true, nil
}

// IsCollapsed reports whether dir is collapsed.
func (s *Session) IsCollapsed(dir string) bool {
	return s.collapsed[dir]
}

// Collapsed returns the collapsed folders, sorted.
func (s *Session) Collapsed() []string {
	out := make([]string, 0, len(s.collapsed))
	for dir := range s.collapsed {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}

// State captures the persistable part of the session.
func (s *Session) State() SavedState {
	return SavedState{Active: s.Active, Collapsed: s.Collapsed()}
}

// Restore applies a saved state, dropping entries that no longer exist.
func (s *Session) Restore(st SavedState) {
	if st.Active != "" && s.isFile(st.Active) {
		s.Active = st.Active
	}
	for _, dir := range st.Collapsed {
		if s.isDir(dir) {
			s.collapsed[dir] = true
		}
	}
}

// Tabs returns one tab per file of the tree, in input order. Input keys
// replaced by a folder have no tab.
func (s *Session) Tabs() []Tab {
	live := hierarchy.Flatten(s.Tree)
	tabs := make([]Tab, 0, live.Len())
	for _, path := range s.Files.Paths() {
		if !live.Has(path) {
			continue
		}
		lang, _ := langmode.LanguageMode(path)
		tabs = append(tabs, Tab{
			Path:     path,
			Name:     langmode.BaseName(path),
			Language: lang,
			Icon:     langmode.IconFor(path),
			Active:   path == s.Active,
		})
	}
	return tabs
}

// View returns the active file's content.
func (s *Session) View() (View, error) {
	if s.Active == "" {
		return View{}, ErrNoSelection
	}
	node, ok := hierarchy.Lookup(s.Tree, s.Active)
	leaf, isLeaf := node.(hierarchy.Leaf)
	if !ok || !isLeaf {
		return View{}, &NotFoundError{Path: s.Active, Kind: hierarchy.KindFile}
	}
	lang, _ := langmode.LanguageMode(s.Active)
	return View{
		Path:     s.Active,
		Name:     langmode.BaseName(s.Active),
		Language: lang,
		Content:  string(leaf),
	}, nil
}
