package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the name of DisasmDark in the chroma registry.
const DefaultStyle = "disasm-dark"

// DisasmDark is the listing style used unless a theme is configured.
var DisasmDark = styles.Register(chroma.MustNewStyle(DefaultStyle, chroma.StyleEntries{
	chroma.Text:           "#FFFFFF",
	chroma.Background:     "bg:#1e1e1e",
	chroma.Comment:        "#6A6A6A", // tooltips
	chroma.CommentPreproc: "#4F4F4F", // address column

	chroma.Keyword:      "#FFFFFF",
	chroma.Name:         "#7C9C9D",
	chroma.NameVariable: "#7C9C9D",
	chroma.NameBuiltin:  "#8A8A8A", // unresolved placeholder

	chroma.LiteralNumber:    "#FF5F87",
	chroma.LiteralNumberHex: "#FF5F87",

	chroma.NameLabel:   "#FFD700",
	chroma.Punctuation: "#FFFFFF",

	chroma.String: "#EACD53",
}))
