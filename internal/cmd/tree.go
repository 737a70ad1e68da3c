package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/codetree/internal/hierarchy"
	"github.com/salmonumbrella/codetree/internal/output"
	"github.com/salmonumbrella/codetree/internal/render"
	"github.com/salmonumbrella/codetree/internal/viewer"
)

var (
	treeCollapse []string
	treeExpand   []string
	treeIcons    bool
	treePlain    bool
	treeNoState  bool
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the folder tree of the input",
	Long: `Build the folder tree of the input file map and print it.

Text output draws the tree with the active file highlighted. Structured
output (json, yaml) emits the nested tree itself: folders are objects and
files are their contents.

Collapsed folders are remembered per input; use --collapse and --expand
to change them.`,
	Example: `  codetree tree --dir .
  codetree tree -i files.json --collapse src/components
  cat files.yaml | codetree tree -o json --query '.src | keys'`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func init() {
	treeCmd.Flags().StringSliceVar(&treeCollapse, "collapse", nil, "Collapse folders (repeatable)")
	treeCmd.Flags().StringSliceVar(&treeExpand, "expand", nil, "Expand folders (repeatable)")
	treeCmd.Flags().BoolVar(&treeIcons, "icons", false, "Show file icons")
	treeCmd.Flags().BoolVar(&treePlain, "plain", false, "Disable colors")
	treeCmd.Flags().BoolVar(&treeNoState, "no-state", false, "Do not read or save viewer state")
	rootCmd.AddCommand(treeCmd)
}

// treeResult prints as a drawn tree, a row table, or the nested tree value.
type treeResult struct {
	session *viewer.Session
	opts    render.TreeOptions
}

func (r treeResult) Text(w io.Writer) error {
	if err := render.Tree(w, r.session.Entries(), r.opts); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s, %s\n",
		plural(hierarchy.CountDirs(r.session.Tree), "directory", "directories"),
		plural(hierarchy.CountLeaves(r.session.Tree), "file", "files"))
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}

func (r treeResult) Table() output.Table {
	t := output.Table{Headers: []string{"DEPTH", "PATH", "TYPE", "LANGUAGE"}}
	for _, e := range r.session.Entries() {
		kind := "file"
		if e.Dir {
			kind = "dir"
		}
		t.Append(strconv.Itoa(e.Depth), e.Path, kind, e.Language)
	}
	return t
}

func (r treeResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.session.Tree)
}

func (r treeResult) MarshalYAML() (interface{}, error) {
	return r.session.Tree, nil
}

func runTree(cmd *cobra.Command, args []string) error {
	session, src, err := openSession(cmd)
	if err != nil {
		return err
	}

	if !treeNoState {
		restoreState(src, session)
	}
	changed, err := applyFolderFlags(session, treeCollapse, treeExpand)
	if err != nil {
		return err
	}
	if changed && !treeNoState {
		saveState(src, session)
	}

	out := cmd.OutOrStdout()
	return printResult(cmd.Context(), treeResult{
		session: session,
		opts: render.TreeOptions{
			Root:  src.Label(),
			Plain: treePlain || !isTerminalFunc(out),
			Icons: treeIcons,
			Theme: currentConfig().Theme,
		},
	})
}

// applyFolderFlags collapses and expands the named folders.
func applyFolderFlags(session *viewer.Session, collapse, expand []string) (bool, error) {
	changed := false
	set := func(dirs []string, want bool) error {
		for _, dir := range dirs {
			dir = strings.TrimSuffix(strings.TrimSpace(dir), "/")
			if session.IsCollapsed(dir) == want {
				continue
			}
			if _, err := session.Toggle(dir); err != nil {
				return err
			}
			changed = true
		}
		return nil
	}
	if err := set(collapse, true); err != nil {
		return false, err
	}
	if err := set(expand, false); err != nil {
		return false, err
	}
	return changed, nil
}
