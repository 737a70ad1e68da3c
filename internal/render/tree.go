// Package render draws file trees and file contents for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/salmonumbrella/codetree/internal/viewer"
)

// TreeOptions control Tree output.
type TreeOptions struct {
	// Root is printed as the first line when set.
	Root string
	// Plain disables colors and styles.
	Plain bool
	// Icons prefixes file names with their icon glyph.
	Icons bool
	// Theme is "dark" (default) or "light".
	Theme string
}

type palette struct {
	dir, active, connector, root lipgloss.Style
}

func newPalette(w io.Writer, opts TreeOptions) palette {
	if opts.Plain {
		plain := lipgloss.NewStyle()
		return palette{dir: plain, active: plain, connector: plain, root: plain}
	}
	r := lipgloss.NewRenderer(w)
	dirColor, activeColor := lipgloss.Color("63"), lipgloss.Color("205")
	if opts.Theme == "light" {
		dirColor, activeColor = lipgloss.Color("25"), lipgloss.Color("161")
	}
	return palette{
		dir:       r.NewStyle().Bold(true).Foreground(dirColor),
		active:    r.NewStyle().Bold(true).Underline(true).Foreground(activeColor),
		connector: r.NewStyle().Faint(true),
		root:      r.NewStyle().Bold(true),
	}
}

// Tree writes entries as an indented tree with ├── └── │ connectors.
// Folders end in "/" and carry ▾ (open) or ▸ (collapsed); the active file
// is marked with "*" in plain mode and highlighted otherwise.
func Tree(w io.Writer, entries []viewer.Entry, opts TreeOptions) error {
	p := newPalette(w, opts)

	if opts.Root != "" {
		if _, err := fmt.Fprintln(w, p.root.Render(opts.Root)); err != nil {
			return err
		}
	}

	var lastAt []bool
	for _, e := range entries {
		var prefix strings.Builder
		for depth := 0; depth < e.Depth && depth < len(lastAt); depth++ {
			if lastAt[depth] {
				prefix.WriteString("    ")
			} else {
				prefix.WriteString("│   ")
			}
		}
		connector := "├── "
		if e.Last {
			connector = "└── "
		}

		if len(lastAt) <= e.Depth {
			lastAt = append(lastAt, make([]bool, e.Depth+1-len(lastAt))...)
		}
		lastAt[e.Depth] = e.Last

		if _, err := fmt.Fprintln(w, p.connector.Render(prefix.String()+connector)+label(e, p, opts)); err != nil {
			return err
		}
	}
	return nil
}

func label(e viewer.Entry, p palette, opts TreeOptions) string {
	if e.Dir {
		marker := "▾ "
		if e.Collapsed {
			marker = "▸ "
		}
		return marker + p.dir.Render(e.Name+"/")
	}

	name := e.Name
	if opts.Icons {
		name = e.Icon.Glyph() + " " + name
	}
	if e.Active {
		if opts.Plain {
			return name + " *"
		}
		return p.active.Render(name)
	}
	return name
}
