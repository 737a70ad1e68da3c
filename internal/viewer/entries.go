package viewer

import (
	"strings"

	"github.com/salmonumbrella/codetree/internal/hierarchy"
	"github.com/salmonumbrella/codetree/internal/langmode"
)

// Entry is one visible row of the folder list.
type Entry struct {
	Depth     int           `json:"depth"`
	Name      string        `json:"name"`
	Path      string        `json:"path"`
	Dir       bool          `json:"dir"`
	Collapsed bool          `json:"collapsed,omitempty"`
	Active    bool          `json:"active,omitempty"`
	Language  string        `json:"language,omitempty"`
	Icon      langmode.Icon `json:"icon,omitempty"`
	// Last marks the final child of its parent, for tree connectors.
	Last bool `json:"-"`
}

// Entries lists the visible rows of the tree. Children of collapsed folders
// are omitted.
func (s *Session) Entries() []Entry {
	var out []Entry
	_ = hierarchy.Walk(s.Tree, func(path string, node hierarchy.Node) error {
		e := Entry{
			Depth: strings.Count(path, hierarchy.Separator),
			Name:  langmode.BaseName(path),
			Path:  path,
		}
		if hierarchy.KindOf(node) == hierarchy.KindDir {
			e.Dir = true
			e.Collapsed = s.collapsed[path]
			out = append(out, e)
			if e.Collapsed {
				return hierarchy.SkipDir
			}
			return nil
		}
		e.Active = path == s.Active
		e.Language, _ = langmode.LanguageMode(path)
		e.Icon = langmode.IconFor(path)
		out = append(out, e)
		return nil
	})
	markLast(out)
	return out
}

// markLast flags each entry that has no later sibling.
func markLast(entries []Entry) {
	for i := range entries {
		entries[i].Last = true
		for j := i + 1; j < len(entries); j++ {
			if entries[j].Depth < entries[i].Depth {
				break
			}
			if entries[j].Depth == entries[i].Depth {
				entries[i].Last = false
				break
			}
		}
	}
}
