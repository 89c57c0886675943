// Package colorize highlights udondis listings for the terminal with chroma.
package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
)

// Enabled reports whether colour output is allowed by the environment.
func Enabled() bool {
	return os.Getenv("UDONDIS_NO_COLOR") == ""
}

// getStyle returns the named style, falling back to DisasmDark and then
// chroma's own fallback.
func getStyle(theme string) *chroma.Style {
	for _, name := range []string{theme, DefaultStyle, "dracula"} {
		if style, ok := styles.Registry[name]; ok {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter, ok := formatters.Registry[name]; ok {
			return formatter
		}
	}
	return formatters.Fallback
}

// Colorize highlights a text listing using the chroma style theme. The
// input is returned unchanged when colours are disabled.
func Colorize(code, theme string) (string, error) {
	if !Enabled() {
		return code, nil
	}

	iterator, err := Udon.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getStyle(theme), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// Themes lists the registered chroma style names.
func Themes() []string {
	return styles.Names()
}
