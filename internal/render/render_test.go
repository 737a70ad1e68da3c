package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/salmonumbrella/codetree/internal/hierarchy"
	"github.com/salmonumbrella/codetree/internal/viewer"
)

func session(t *testing.T) *viewer.Session {
	t.Helper()
	s, err := viewer.NewSession(hierarchy.NewFileMap(
		hierarchy.Entry{Path: "src/index.js", Content: "index"},
		hierarchy.Entry{Path: "src/lib/util.js", Content: "util"},
		hierarchy.Entry{Path: "src/App.jsx", Content: "app"},
		hierarchy.Entry{Path: "README.md", Content: "# Title"},
	), viewer.Options{})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestTreePlain(t *testing.T) {
	s := session(t)
	var buf bytes.Buffer
	if err := Tree(&buf, s.Entries(), TreeOptions{Root: "project", Plain: true}); err != nil {
		t.Fatalf("Tree: %v", err)
	}

	want := strings.Join([]string{
		"project",
		"├── ▾ src/",
		"│   ├── ▾ lib/",
		"│   │   └── util.js",
		"│   ├── App.jsx",
		"│   └── index.js *",
		"└── README.md",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTreeCollapsedWithIcons(t *testing.T) {
	s := session(t)
	if _, err := s.Toggle("src/lib"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	var buf bytes.Buffer
	if err := Tree(&buf, s.Entries(), TreeOptions{Plain: true, Icons: true}); err != nil {
		t.Fatalf("Tree: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "▸ lib/") {
		t.Fatalf("expected collapsed marker:\n%s", out)
	}
	if strings.Contains(out, "util.js") {
		t.Fatalf("collapsed folder children rendered:\n%s", out)
	}
	if !strings.Contains(out, "⚛ App.jsx") || !strings.Contains(out, "JS index.js *") {
		t.Fatalf("expected icon glyphs:\n%s", out)
	}
}

func TestTreeStyledToBufferHasNames(t *testing.T) {
	s := session(t)
	var buf bytes.Buffer
	if err := Tree(&buf, s.Entries(), TreeOptions{Theme: "light"}); err != nil {
		t.Fatalf("Tree: %v", err)
	}
	for _, name := range []string{"src/", "util.js", "README.md"} {
		if !strings.Contains(buf.String(), name) {
			t.Fatalf("missing %q in:\n%s", name, buf.String())
		}
	}
}

func TestSourcePlain(t *testing.T) {
	var buf bytes.Buffer
	err := Source(&buf, viewer.View{Path: "a.js", Name: "a.js", Language: "javascript", Content: "let a = 1"}, SourceOptions{Plain: true})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if buf.String() != "let a = 1\n" {
		t.Fatalf("unexpected plain output %q", buf.String())
	}
}

func TestSourceHighlighted(t *testing.T) {
	var buf bytes.Buffer
	v := viewer.View{Path: "main.go", Name: "main.go", Language: "go", Content: "package main\n\nfunc main() {}\n"}
	if err := Source(&buf, v, SourceOptions{}); err != nil {
		t.Fatalf("Source: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected ANSI escapes in %q", out)
	}
	if !strings.Contains(out, "func") || !strings.Contains(out, "main") {
		t.Fatalf("expected code tokens in %q", out)
	}
}

func TestSourceUnknownLanguageFallsBack(t *testing.T) {
	var buf bytes.Buffer
	v := viewer.View{Path: "NOTES", Name: "NOTES", Content: "just text"}
	if err := Source(&buf, v, SourceOptions{}); err != nil {
		t.Fatalf("Source: %v", err)
	}
	if !strings.Contains(buf.String(), "just text") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestSourceMarkdown(t *testing.T) {
	var buf bytes.Buffer
	v := viewer.View{Path: "README.md", Name: "README.md", Language: "markdown", Content: "# Title\n\nSome *text*."}
	if err := Source(&buf, v, SourceOptions{Markdown: true, Width: 60}); err != nil {
		t.Fatalf("Source: %v", err)
	}
	if !strings.Contains(buf.String(), "Title") {
		t.Fatalf("expected rendered heading in %q", buf.String())
	}
}
