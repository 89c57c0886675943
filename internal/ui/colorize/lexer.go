package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"udondis/internal/disasm"
)

// Udon lexes the text listings printed by udondis: address columns,
// mnemonics, "name:" labels, quoted extern signatures and "; 0x..." tooltips.
var Udon = lexers.Register(chroma.MustNewLexer(
	&chroma.Config{
		Name:      "Udon",
		Aliases:   []string{"udon", "uasm"},
		Filenames: []string{"*.uasm"},
		MimeTypes: []string{"text/x-udon-assembly"},
	},
	udonRules,
))

func mnemonics() []string {
	ops := disasm.OpCodes()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	return names
}

func udonRules() chroma.Rules {
	return chroma.Rules{
		"root": {
			{`;[^\n]*`, chroma.Comment, nil},
			{`^0x[0-9A-Fa-f]{8}`, chroma.CommentPreproc, nil},
			{`[^\s,;"]+:(?=\s|$)`, chroma.NameLabel, nil},
			{`"[^"\n]*"`, chroma.LiteralString, nil},
			{chroma.Words(`\b`, `\b`, mnemonics()...), chroma.Keyword, nil},
			{`0x[0-9A-Fa-f]+`, chroma.LiteralNumberHex, nil},
			{`\[[^\]\n]*\]`, chroma.NameBuiltin, nil},
			{`,`, chroma.Punctuation, nil},
			{`\s+`, chroma.TextWhitespace, nil},
			{`[^\s,;"]+`, chroma.NameVariable, nil},
		},
	}
}
