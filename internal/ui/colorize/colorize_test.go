package colorize

import (
	"regexp"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

const listing = `_start:
0x00000000  PUSH, counter       ; 0x00000010
0x00000008  EXTERN, "SystemInt32.__op_Addition__SystemInt32_SystemInt32__SystemInt32"
0x00000010  JUMP_IF_FALSE, 0x00000028
0x00000018  PUSH, [Unknown]     ; 0x00000099
0x00000020  NOP
`

func TestLexerRegistered(t *testing.T) {
	for _, name := range []string{"udon", "uasm", "Udon"} {
		if lexers.Get(name) == nil {
			t.Errorf("lexer %q not registered", name)
		}
	}
}

func TestTokens(t *testing.T) {
	tokens, err := chroma.Tokenise(Udon, nil, listing)
	if err != nil {
		t.Fatalf("Tokenise failed: %v", err)
	}

	want := map[string]chroma.TokenType{
		"_start:":       chroma.NameLabel,
		"0x00000000":    chroma.CommentPreproc,
		"PUSH":          chroma.Keyword,
		"JUMP_IF_FALSE": chroma.Keyword,
		"counter":       chroma.NameVariable,
		"; 0x00000010":  chroma.Comment,
		"[Unknown]":     chroma.NameBuiltin,
		",":             chroma.Punctuation,
		"0x00000028":    chroma.LiteralNumberHex,
		`"SystemInt32.__op_Addition__SystemInt32_SystemInt32__SystemInt32"`: chroma.LiteralString,
	}
	seen := make(map[string]bool)
	for _, tok := range tokens {
		if tok.Type == chroma.Error {
			t.Errorf("error token %q", tok.Value)
		}
		if typ, ok := want[tok.Value]; ok {
			seen[tok.Value] = true
			if tok.Type != typ {
				t.Errorf("token %q: type %v, want %v", tok.Value, tok.Type, typ)
			}
		}
	}
	for v := range want {
		if !seen[v] {
			t.Errorf("token %q not produced", v)
		}
	}
}

func TestColorizePreservesText(t *testing.T) {
	t.Setenv("UDONDIS_NO_COLOR", "")

	for _, theme := range []string{"", DefaultStyle, "monokai", "no-such-theme"} {
		out, err := Colorize(listing, theme)
		if err != nil {
			t.Fatalf("Colorize(%q) failed: %v", theme, err)
		}
		if out == listing {
			t.Errorf("Colorize(%q) added no escapes", theme)
		}
		if got := ansi.ReplaceAllString(out, ""); got != listing {
			t.Errorf("Colorize(%q) changed the text:\n%s", theme, got)
		}
	}
}

func TestColorizeDisabled(t *testing.T) {
	t.Setenv("UDONDIS_NO_COLOR", "1")

	out, err := Colorize(listing, "")
	if err != nil {
		t.Fatalf("Colorize failed: %v", err)
	}
	if out != listing {
		t.Errorf("expected uncoloured output, got %q", out)
	}
}
