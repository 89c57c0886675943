// Package disasm decodes Udon VM bytecode into an instruction listing and
// lists the variables held on a program's heap.
package disasm

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EntryPoints resolves method names by exact start address.
type EntryPoints interface {
	TryGetSymbolFromAddress(addr uint32) (string, bool)
}

// Symbols names the variables and constants of a program.
// GetSymbolFromAddress is only called after HasSymbolForAddress returned true.
type Symbols interface {
	HasSymbolForAddress(addr uint32) bool
	GetSymbolFromAddress(addr uint32) string
}

// Heap gives access to the values stored at heap addresses.
type Heap interface {
	// DumpHeapObjects returns every populated address, in no particular order.
	DumpHeapObjects() []HeapObject
	// HeapValueText returns the value stored at addr as text.
	HeapValueText(addr uint32) (string, bool)
}

// HeapObject is one populated heap slot.
type HeapObject struct {
	Addr  uint32
	Value any
	Type  string // declared type name
}

// Inst is a decoded instruction.
type Inst struct {
	Addr       uint32 // address of the opcode
	Op         OpCode
	Operand    uint32
	HasOperand bool
	Text       string // mnemonic and rendered operand
	Tooltip    string // raw operand address for resolved symbols
	Label      string // entry point starting at Addr, if any
}

func (i Inst) String() string {
	return i.Text
}

// Listing is the disassembly of a whole bytecode buffer, in address order.
type Listing struct {
	Insts []Inst
}

// Len returns the number of instructions.
func (l *Listing) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Insts)
}

// Columns splits the listing into an address column and a text column of
// equal length. Entry points get a "name:" row with an empty address.
func (l *Listing) Columns() (addrs, texts []string) {
	if l == nil {
		return nil, nil
	}
	for _, inst := range l.Insts {
		if inst.Label != "" {
			addrs = append(addrs, "")
			texts = append(texts, inst.Label+":")
		}
		addrs = append(addrs, FormatAddr(inst.Addr))
		texts = append(texts, inst.Text)
	}
	return addrs, texts
}

// Disassemble decodes code from address 0 to its end. Any decode failure
// aborts the pass and no listing is returned.
func Disassemble(code []byte, entries EntryPoints, syms Symbols, heap Heap) (*Listing, error) {
	return Options{}.Disassemble(code, entries, syms, heap)
}

// Disassemble is the package-level Disassemble with o applied.
func (o Options) Disassemble(code []byte, entries EntryPoints, syms Symbols, heap Heap) (*Listing, error) {
	if uint64(len(code)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes exceed the 32-bit address space", ErrMalformedProgram, len(code))
	}

	d := &decoder{
		code:    code,
		entries: entries,
		syms:    syms,
		heap:    heap,
		unknown: o.unknown(),
	}

	var insts []Inst
	for pc := 0; pc < len(code); {
		inst, err := d.decode(pc)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
		pc += inst.Op.Size()
	}
	return &Listing{Insts: insts}, nil
}

type decoder struct {
	code    []byte
	entries EntryPoints
	syms    Symbols
	heap    Heap
	unknown string
}

type renderFunc func(d *decoder, inst *Inst) error

var renderers = [...]renderFunc{
	operandNone:   renderBare,
	operandSymbol: renderSymbol,
	operandExtern: renderExtern,
	operandOffset: renderOffset,
}

// Every operand kind needs a renderer.
var (
	_ [int(operandKindCount) - len(renderers)]struct{}
	_ [len(renderers) - int(operandKindCount)]struct{}
)

func (d *decoder) word(pc int) (uint32, bool) {
	if pc+WordSize > len(d.code) {
		return 0, false
	}
	return binary.BigEndian.Uint32(d.code[pc:]), true
}

func (d *decoder) decode(pc int) (Inst, error) {
	addr := uint32(pc)
	w, ok := d.word(pc)
	if !ok {
		return Inst{}, &DecodeError{
			Addr:   addr,
			Err:    ErrMalformedProgram,
			Detail: fmt.Sprintf("truncated opcode (%d trailing bytes)", len(d.code)-pc),
		}
	}

	op := OpCode(w)
	if !op.Valid() {
		return Inst{}, &DecodeError{
			Addr:   addr,
			Op:     op,
			Err:    ErrMalformedProgram,
			Detail: fmt.Sprintf("unknown opcode 0x%08X", w),
		}
	}

	inst := Inst{Addr: addr, Op: op}
	if d.entries != nil {
		if name, ok := d.entries.TryGetSymbolFromAddress(addr); ok {
			inst.Label = name
		}
	}

	if op.HasOperand() {
		operand, ok := d.word(pc + WordSize)
		if !ok {
			return Inst{}, &DecodeError{
				Addr:   addr,
				Op:     op,
				Err:    ErrMalformedProgram,
				Detail: fmt.Sprintf("%s operand truncated (%d of %d bytes)", op, len(d.code)-pc-WordSize, WordSize),
			}
		}
		inst.Operand, inst.HasOperand = operand, true
	}

	if err := renderers[opTable[op].operand](d, &inst); err != nil {
		return Inst{}, err
	}
	return inst, nil
}

func (d *decoder) symbol(addr uint32) string {
	if d.syms != nil && d.syms.HasSymbolForAddress(addr) {
		return d.syms.GetSymbolFromAddress(addr)
	}
	return d.unknown
}

func renderBare(d *decoder, inst *Inst) error {
	inst.Text = inst.Op.String()
	return nil
}

func renderSymbol(d *decoder, inst *Inst) error {
	inst.Text = inst.Op.String() + ", " + d.symbol(inst.Operand)
	inst.Tooltip = FormatAddr(inst.Operand)
	return nil
}

func renderExtern(d *decoder, inst *Inst) error {
	var (
		sig string
		ok  bool
	)
	if d.heap != nil {
		sig, ok = d.heap.HeapValueText(inst.Operand)
	}
	if !ok {
		return &DecodeError{
			Addr:   inst.Addr,
			Op:     inst.Op,
			Err:    ErrMissingHeapValue,
			Detail: fmt.Sprintf("no heap value at %s", FormatAddr(inst.Operand)),
		}
	}
	inst.Text = inst.Op.String() + `, "` + sig + `"`
	return nil
}

func renderOffset(d *decoder, inst *Inst) error {
	inst.Text = inst.Op.String() + ", " + FormatAddr(inst.Operand)
	return nil
}
