// Package langmode maps file paths to base names, editor language modes and icons.
package langmode

import (
	"sort"
	"strings"
)

// Mode is one row of the extension table.
type Mode struct {
	Extension string `json:"extension" yaml:"extension"`
	Language  string `json:"language" yaml:"language"`
}

// Languages with rich tooling come first, then basic colorization only.
var languages = map[string]string{
	"ts":   "typescript",
	"tsx":  "typescriptreact",
	"js":   "javascript",
	"jsx":  "javascriptreact",
	"css":  "css",
	"less": "less",
	"scss": "scss",
	"json": "json",
	"html": "html",

	"xml":    "xml",
	"php":    "php",
	"cs":     "csharp",
	"cpp":    "cpp",
	"razor":  "razor",
	"md":     "markdown",
	"diff":   "diff",
	"java":   "java",
	"vb":     "vb",
	"coffee": "coffeescript",
	"hbs":    "handlebars",
	"bat":    "batch",
	"pug":    "pug",
	"fs":     "fsharp",
	"lua":    "lua",
	"ps1":    "powershell",
	"py":     "python",
	"rb":     "ruby",
	"sass":   "sass",
	"r":      "r",
	"m":      "objective-c",
	"go":     "go",
	"yaml":   "yaml",
	"yml":    "yaml",
	"sh":     "shell",
}

// BaseName returns the part of path after the last "/".
func BaseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Extension returns the lowercased text after the last "." of the base name,
// or "" when the base name has no ".".
func Extension(path string) string {
	name := BaseName(path)
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// LanguageMode returns the editor language for path.
// ok is false when the extension is missing or not in the table.
func LanguageMode(path string) (language string, ok bool) {
	ext := Extension(path)
	if ext == "" {
		return "", false
	}
	language, ok = languages[ext]
	return language, ok
}

// Modes returns the extension table sorted by extension.
func Modes() []Mode {
	out := make([]Mode, 0, len(languages))
	for ext, lang := range languages {
		out = append(out, Mode{Extension: ext, Language: lang})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Extension < out[j].Extension })
	return out
}
