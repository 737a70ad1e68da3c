package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/codetree/internal/langmode"
	"github.com/salmonumbrella/codetree/internal/output"
)

var filesCmd = &cobra.Command{
	Use:     "files",
	Aliases: []string{"ls", "tabs"},
	Short:   "List the files of the input in input order",
	Long: `List every file of the input in the order the input gives them, the
way a tab strip shows them. The active file is marked.`,
	Example: `  codetree files --dir .
  codetree files -i files.json -o json --result-sort-by lines --result-desc
  codetree files -o table --result-limit 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, src, err := openSession(cmd)
		if err != nil {
			return err
		}
		restoreState(src, session)

		tabs := session.Tabs()
		rows := make(fileList, 0, len(tabs))
		for _, tab := range tabs {
			content, _ := session.Files.Get(tab.Path)
			rows = append(rows, fileRow{
				Path:     tab.Path,
				Name:     tab.Name,
				Language: tab.Language,
				Icon:     tab.Icon,
				Active:   tab.Active,
				Size:     len(content),
				Lines:    countLines(content),
			})
		}
		return printResult(cmd.Context(), rows)
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

type fileRow struct {
	Path     string        `json:"path"`
	Name     string        `json:"name"`
	Language string        `json:"language,omitempty"`
	Icon     langmode.Icon `json:"icon"`
	Active   bool          `json:"active"`
	Size     int           `json:"size"`
	Lines    int           `json:"lines"`
}

type fileList []fileRow

func (l fileList) Text(w io.Writer) error {
	for _, f := range l {
		marker := " "
		if f.Active {
			marker = "*"
		}
		lang := f.Language
		if lang == "" {
			lang = "-"
		}
		if _, err := fmt.Fprintf(w, "%s %s  (%s, %d lines)\n", marker, f.Path, lang, f.Lines); err != nil {
			return err
		}
	}
	return nil
}

func (l fileList) Table() output.Table {
	t := output.Table{Headers: []string{"PATH", "LANGUAGE", "LINES", "SIZE", "ACTIVE"}}
	for _, f := range l {
		active := ""
		if f.Active {
			active = "*"
		}
		t.Append(f.Path, f.Language, fmt.Sprint(f.Lines), fmt.Sprint(f.Size), active)
	}
	return t
}

// countLines counts lines the way editors do: a trailing newline does not
// start a new line, and empty content has none.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
