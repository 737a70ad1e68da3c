package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/codetree/internal/langmode"
	"github.com/salmonumbrella/codetree/internal/output"
)

var langList bool

var langCmd = &cobra.Command{
	Use:   "lang <path>...",
	Short: "Print the editor language mode of paths",
	Long: `Print the editor language mode for each path, chosen by the
case-insensitive file extension. Paths with no known extension have no mode.

These commands work on the paths given and never read input.`,
	Example: `  codetree lang src/App.jsx styles/main.CSS
  codetree lang --list -o table`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if langList {
			return printResult(cmd.Context(), modeList(langmode.Modes()))
		}
		if len(args) == 0 {
			return fmt.Errorf("requires at least 1 path (or --list)")
		}

		rows := make(pathList, 0, len(args))
		for _, path := range args {
			lang, _ := langmode.LanguageMode(path)
			rows = append(rows, pathInfo{
				Path:      path,
				Name:      langmode.BaseName(path),
				Extension: langmode.Extension(path),
				Language:  lang,
				Icon:      langmode.IconFor(path),
			})
		}
		return printResult(cmd.Context(), langRows{rows})
	},
}

var basenameCmd = &cobra.Command{
	Use:   "basename <path>...",
	Short: "Print the final segment of paths",
	Example: `  codetree basename src/components/App.jsx
  codetree basename a/b/ -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := make(pathList, 0, len(args))
		for _, path := range args {
			rows = append(rows, pathInfo{Path: path, Name: langmode.BaseName(path)})
		}
		return printResult(cmd.Context(), baseRows{rows})
	},
}

func init() {
	langCmd.Flags().BoolVar(&langList, "list", false, "Print the extension table")
	rootCmd.AddCommand(langCmd)
	rootCmd.AddCommand(basenameCmd)
}

type pathInfo struct {
	Path      string        `json:"path"`
	Name      string        `json:"name"`
	Extension string        `json:"extension,omitempty"`
	Language  string        `json:"language,omitempty"`
	Icon      langmode.Icon `json:"icon,omitempty"`
}

type pathList []pathInfo

// langRows prints one language per line in text mode.
type langRows struct {
	Results pathList `json:"results"`
}

func (r langRows) Text(w io.Writer) error {
	for _, p := range r.Results {
		lang := p.Language
		if lang == "" {
			lang = "-"
		}
		if _, err := fmt.Fprintln(w, lang); err != nil {
			return err
		}
	}
	return nil
}

func (r langRows) Table() output.Table {
	t := output.Table{Headers: []string{"PATH", "EXTENSION", "LANGUAGE", "ICON"}}
	for _, p := range r.Results {
		t.Append(p.Path, p.Extension, p.Language, string(p.Icon))
	}
	return t
}

// baseRows prints one base name per line in text mode.
type baseRows struct {
	Results pathList `json:"results"`
}

func (r baseRows) Text(w io.Writer) error {
	for _, p := range r.Results {
		if _, err := fmt.Fprintln(w, p.Name); err != nil {
			return err
		}
	}
	return nil
}

func (r baseRows) Table() output.Table {
	t := output.Table{Headers: []string{"PATH", "NAME"}}
	for _, p := range r.Results {
		t.Append(p.Path, p.Name)
	}
	return t
}

type modeList []langmode.Mode

func (l modeList) Text(w io.Writer) error {
	for _, m := range l {
		if _, err := fmt.Fprintf(w, ".%s\t%s\n", m.Extension, m.Language); err != nil {
			return err
		}
	}
	return nil
}
