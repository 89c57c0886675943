package disasm

import "fmt"

// Unknown replaces names that are missing from a symbol table.
const Unknown = "[Unknown]"

// FormatAddr renders an address as 0x followed by eight uppercase hex digits.
func FormatAddr(addr uint32) string {
	return fmt.Sprintf("0x%08X", addr)
}

// Options tunes rendering. The zero value renders like the inspector does.
type Options struct {
	// Unknown overrides the placeholder for unresolved symbols.
	Unknown string
}

func (o Options) unknown() string {
	if o.Unknown == "" {
		return Unknown
	}
	return o.Unknown
}
