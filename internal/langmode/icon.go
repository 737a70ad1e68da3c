package langmode

// Icon identifies the logo shown next to a file name.
type Icon string

const (
	IconDefault    Icon = "default"
	IconJavaScript Icon = "javascript"
	IconCSS        Icon = "css"
	IconReact      Icon = "react"
	IconJSON       Icon = "json"
	IconHTML       Icon = "html"
)

var icons = map[string]Icon{
	"js":   IconJavaScript,
	"css":  IconCSS,
	"tsx":  IconReact,
	"jsx":  IconReact,
	"json": IconJSON,
	"html": IconHTML,
}

var glyphs = map[Icon]string{
	IconDefault:    "©",
	IconJavaScript: "JS",
	IconCSS:        "#",
	IconReact:      "⚛",
	IconJSON:       "{}",
	IconHTML:       "<>",
}

// IconFor returns the icon for a file name or path. Names without a known
// extension get IconDefault.
func IconFor(name string) Icon {
	if icon, ok := icons[Extension(name)]; ok {
		return icon
	}
	return IconDefault
}

// Glyph is a short terminal representation of the icon.
func (i Icon) Glyph() string {
	if g, ok := glyphs[i]; ok {
		return g
	}
	return glyphs[IconDefault]
}
