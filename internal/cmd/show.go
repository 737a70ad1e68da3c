package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/codetree/internal/output"
	"github.com/salmonumbrella/codetree/internal/render"
	"github.com/salmonumbrella/codetree/internal/viewer"
)

var (
	showPlain   bool
	showRender  bool
	showTabs    bool
	showNoState bool
)

var showCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print a file of the input",
	Long: `Print one file of the input with syntax highlighting.

Without a path, show prints the file shown last time for this input, or
the default selection: src/index.js (default_file in config) when present,
otherwise the first file of the input.`,
	Example: `  codetree show src/App.jsx
  codetree show --render README.md
  codetree show -i files.json -o json --query .language`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, src, err := openSession(cmd)
		if err != nil {
			return err
		}
		if !showNoState {
			restoreState(src, session)
		}
		if len(args) == 1 {
			if err := session.Select(strings.TrimPrefix(args[0], "./")); err != nil {
				return err
			}
			if !showNoState {
				saveState(src, session)
			}
		}

		view, err := session.View()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		result := viewResult{View: view}
		if showTabs {
			result.tabs = session.Tabs()
		}
		result.opts = render.SourceOptions{
			Plain:    showPlain || !isTerminalFunc(out),
			Markdown: showRender,
			Theme:    currentConfig().Theme,
			Width:    terminalWidth(out),
		}
		return printResult(cmd.Context(), result)
	},
}

func init() {
	showCmd.Flags().BoolVar(&showPlain, "plain", false, "Print content without highlighting")
	showCmd.Flags().BoolVar(&showRender, "render", false, "Render markdown files")
	showCmd.Flags().BoolVar(&showTabs, "tabs", false, "Print the tab strip above the content")
	showCmd.Flags().BoolVar(&showNoState, "no-state", false, "Do not read or save viewer state")
	rootCmd.AddCommand(showCmd)
}

// viewResult prints as highlighted source in text mode and as the view otherwise.
type viewResult struct {
	viewer.View `yaml:",inline"`

	tabs []viewer.Tab
	opts render.SourceOptions
}

func (r viewResult) Text(w io.Writer) error {
	if len(r.tabs) > 0 {
		if _, err := fmt.Fprintln(w, tabStrip(r.tabs)); err != nil {
			return err
		}
	}
	return render.Source(w, r.View, r.opts)
}

func (r viewResult) Table() output.Table {
	t := output.Table{Headers: []string{"PATH", "LANGUAGE", "LINES", "SIZE"}}
	t.Append(r.Path, r.Language, fmt.Sprint(countLines(r.Content)), fmt.Sprint(len(r.Content)))
	return t
}

func tabStrip(tabs []viewer.Tab) string {
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := tab.Icon.Glyph() + " " + tab.Name
		if tab.Active {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " | ")
}

// terminalWidth returns the width of w when it is a terminal, else 0.
func terminalWidth(w io.Writer) int {
	fd, ok := w.(interface{ Fd() uintptr })
	if !ok || !isTerminalFunc(w) {
		return 0
	}
	width, _, err := term.GetSize(int(fd.Fd()))
	if err != nil {
		return 0
	}
	return width
}
