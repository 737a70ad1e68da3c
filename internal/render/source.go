package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"

	"github.com/salmonumbrella/codetree/internal/viewer"
)

// SourceOptions control Source output.
type SourceOptions struct {
	// Plain writes the content unchanged.
	Plain bool
	// Markdown renders markdown files through glamour instead of highlighting them.
	Markdown bool
	// Theme is "dark" (default) or "light".
	Theme string
	// Width wraps rendered markdown; 0 uses glamour's default.
	Width int
}

// Editor language ids whose chroma lexer has a different name.
var chromaLexers = map[string]string{
	"typescriptreact": "tsx",
	"javascriptreact": "react",
	"shell":           "bash",
	"batch":           "batchfile",
	"csharp":          "c#",
	"fsharp":          "fsharp",
	"coffeescript":    "coffeescript",
	"vb":              "vb.net",
}

func lexerFor(v viewer.View) chroma.Lexer {
	var lexer chroma.Lexer
	if v.Language != "" {
		name := v.Language
		if alias, ok := chromaLexers[name]; ok {
			name = alias
		}
		lexer = lexers.Get(name)
	}
	if lexer == nil {
		lexer = lexers.Match(v.Name)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// Source writes the content of v, highlighted for its language.
func Source(w io.Writer, v viewer.View, opts SourceOptions) error {
	content := v.Content
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if opts.Plain {
		_, err := io.WriteString(w, content)
		return err
	}

	if opts.Markdown && v.Language == "markdown" {
		return markdown(w, content, opts)
	}

	style := styles.Get("monokai")
	if opts.Theme == "light" {
		style = styles.Get("github")
	}
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexerFor(v).Tokenise(nil, content)
	if err != nil {
		return fmt.Errorf("highlighting %s: %w", v.Path, err)
	}
	return formatter.Format(w, style, iterator)
}

func markdown(w io.Writer, content string, opts SourceOptions) error {
	styleName := "dark"
	if opts.Theme == "light" {
		styleName = "light"
	}
	renderOpts := []glamour.TermRendererOption{glamour.WithStandardStyle(styleName)}
	if opts.Width > 0 {
		renderOpts = append(renderOpts, glamour.WithWordWrap(opts.Width))
	}

	r, err := glamour.NewTermRenderer(renderOpts...)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
