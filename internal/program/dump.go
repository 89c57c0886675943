package program

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ErrInvalidBytecode is returned when a dump's bytecode is not hex text.
var ErrInvalidBytecode = errors.New("invalid bytecode")

// Dump is the serialized form of a Program shared by every dump format.
type Dump struct {
	ByteCode    string     `json:"bytecode" toml:"bytecode" yaml:"bytecode" jsonschema:"title=Bytecode,description=Hex encoded bytecode; whitespace between digits is ignored"`
	EntryPoints []Symbol   `json:"entry_points,omitempty" toml:"entry_points,omitempty" yaml:"entry_points,omitempty" jsonschema:"title=Entry Points,description=Exported method start addresses"`
	Symbols     []Symbol   `json:"symbols,omitempty" toml:"symbols,omitempty" yaml:"symbols,omitempty" jsonschema:"title=Symbols,description=Names of heap variables and constants"`
	Heap        []HeapSlot `json:"heap,omitempty" toml:"heap,omitempty" yaml:"heap,omitempty" jsonschema:"title=Heap,description=Initial heap values"`
}

// HeapSlot is one serialized heap value.
type HeapSlot struct {
	Address uint32 `json:"address" toml:"address" yaml:"address"`
	Type    string `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty" jsonschema:"description=Declared type name, e.g. System.String"`
	Value   any    `json:"value,omitempty" toml:"value,omitempty" yaml:"value,omitempty"`
}

// Dump serializes p. Symbols and heap slots are sorted by address so the
// output is stable.
func (p *Program) Dump() *Dump {
	d := &Dump{
		ByteCode:    EncodeByteCode(p.ByteCode),
		EntryPoints: p.EntryPoints.Symbols(),
		Symbols:     p.Symbols.Symbols(),
	}
	for _, obj := range p.Heap.DumpHeapObjects() {
		d.Heap = append(d.Heap, HeapSlot{Address: obj.Addr, Type: obj.Type, Value: obj.Value})
	}
	sort.Slice(d.Heap, func(i, j int) bool {
		return d.Heap[i].Address < d.Heap[j].Address
	})
	return d
}

// FromDump builds a Program from its serialized form.
func FromDump(d *Dump) (*Program, error) {
	code, err := DecodeByteCode(d.ByteCode)
	if err != nil {
		return nil, err
	}
	p := New()
	p.ByteCode = code
	for _, sym := range d.EntryPoints {
		p.EntryPoints.Add(sym.Name, sym.Address)
	}
	for _, sym := range d.Symbols {
		p.Symbols.Add(sym.Name, sym.Address)
	}
	for _, slot := range d.Heap {
		p.Heap.Set(slot.Address, slot.Type, slot.Value)
	}
	return p, nil
}

// EncodeByteCode renders code as uppercase hex, one space between words.
func EncodeByteCode(code []byte) string {
	var sb strings.Builder
	for i := 0; i < len(code); i += 4 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		end := min(i+4, len(code))
		sb.WriteString(strings.ToUpper(hex.EncodeToString(code[i:end])))
	}
	return sb.String()
}

// DecodeByteCode parses hex text, ignoring whitespace and an optional 0x
// prefix. The byte count is not checked against the instruction width; the
// disassembler reports truncated code.
func DecodeByteCode(text string) ([]byte, error) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "0x")
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	code, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBytecode, err)
	}
	return code, nil
}
