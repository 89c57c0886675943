// Package program holds a Udon program in memory: bytecode, entry points,
// symbols and heap, and loads it from serialized program dumps.
package program

import (
	"fmt"
	"sort"

	"udondis/internal/disasm"
)

// Program is a loaded Udon program.
type Program struct {
	Path        string
	ByteCode    []byte
	EntryPoints *SymbolTable
	Symbols     *SymbolTable
	Heap        *Heap
}

// New returns an empty program with allocated tables.
func New() *Program {
	return &Program{
		EntryPoints: NewSymbolTable(),
		Symbols:     NewSymbolTable(),
		Heap:        NewHeap(),
	}
}

// Disassemble decodes the program's bytecode against its own tables.
func (p *Program) Disassemble(opts disasm.Options) (*disasm.Listing, error) {
	return opts.Disassemble(p.ByteCode, p.EntryPoints, p.Symbols, p.Heap)
}

// Variables lists the program's heap sorted by address.
func (p *Program) Variables(opts disasm.Options) []disasm.Variable {
	return opts.Variables(p.Heap, p.Symbols)
}

// Symbol is a named address.
type Symbol struct {
	Name    string `json:"name" toml:"name" yaml:"name"`
	Address uint32 `json:"address" toml:"address" yaml:"address"`
}

// SymbolTable maps addresses to names. A nil table is empty.
type SymbolTable struct {
	byAddr map[uint32]string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byAddr: make(map[uint32]string)}
}

// Add names addr. A later Add at the same address replaces the name.
func (t *SymbolTable) Add(name string, addr uint32) {
	if t.byAddr == nil {
		t.byAddr = make(map[uint32]string)
	}
	t.byAddr[addr] = name
}

func (t *SymbolTable) HasSymbolForAddress(addr uint32) bool {
	if t == nil {
		return false
	}
	_, ok := t.byAddr[addr]
	return ok
}

func (t *SymbolTable) GetSymbolFromAddress(addr uint32) string {
	if t == nil {
		return ""
	}
	return t.byAddr[addr]
}

func (t *SymbolTable) TryGetSymbolFromAddress(addr uint32) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.byAddr[addr]
	return name, ok
}

// Len returns the number of named addresses.
func (t *SymbolTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byAddr)
}

// Symbols returns the table sorted by address.
func (t *SymbolTable) Symbols() []Symbol {
	if t == nil {
		return nil
	}
	syms := make([]Symbol, 0, len(t.byAddr))
	for addr, name := range t.byAddr {
		syms = append(syms, Symbol{Name: name, Address: addr})
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i].Address < syms[j].Address
	})
	return syms
}

// Heap stores typed values by address. A nil heap is empty.
type Heap struct {
	slots map[uint32]disasm.HeapObject
}

func NewHeap() *Heap {
	return &Heap{slots: make(map[uint32]disasm.HeapObject)}
}

// Set stores value with its declared type at addr.
func (h *Heap) Set(addr uint32, typ string, value any) {
	if h.slots == nil {
		h.slots = make(map[uint32]disasm.HeapObject)
	}
	h.slots[addr] = disasm.HeapObject{Addr: addr, Value: value, Type: typ}
}

// GetHeapVariable returns the value stored at addr.
func (h *Heap) GetHeapVariable(addr uint32) (any, bool) {
	if h == nil {
		return nil, false
	}
	obj, ok := h.slots[addr]
	return obj.Value, ok
}

// HeapValueText formats the value at addr. Strings are returned as is.
func (h *Heap) HeapValueText(addr uint32) (string, bool) {
	v, ok := h.GetHeapVariable(addr)
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	if v == nil {
		return "null", true
	}
	return fmt.Sprint(v), true
}

// DumpHeapObjects returns every slot. The order is unspecified.
func (h *Heap) DumpHeapObjects() []disasm.HeapObject {
	if h == nil {
		return nil
	}
	objs := make([]disasm.HeapObject, 0, len(h.slots))
	for _, obj := range h.slots {
		objs = append(objs, obj)
	}
	return objs
}

// Len returns the number of populated slots.
func (h *Heap) Len() int {
	if h == nil {
		return 0
	}
	return len(h.slots)
}
