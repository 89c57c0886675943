package disasm

import "sort"

// Variable is one row of the heap listing.
type Variable struct {
	Addr  uint32
	Name  string // symbol name, or the unknown placeholder
	Known bool   // whether Name came from the symbol table
	Type  string
	Value any
}

// Variables lists every heap slot sorted by address, named through syms.
func Variables(heap Heap, syms Symbols) []Variable {
	return Options{}.Variables(heap, syms)
}

// Variables is the package-level Variables with o applied.
func (o Options) Variables(heap Heap, syms Symbols) []Variable {
	if heap == nil {
		return nil
	}
	objs := heap.DumpHeapObjects()
	// Stable so duplicate addresses keep the heap's order.
	sort.SliceStable(objs, func(i, j int) bool {
		return objs[i].Addr < objs[j].Addr
	})

	vars := make([]Variable, 0, len(objs))
	for _, obj := range objs {
		v := Variable{
			Addr:  obj.Addr,
			Name:  o.unknown(),
			Type:  obj.Type,
			Value: obj.Value,
		}
		if syms != nil && syms.HasSymbolForAddress(obj.Addr) {
			v.Name = syms.GetSymbolFromAddress(obj.Addr)
			v.Known = true
		}
		vars = append(vars, v)
	}
	return vars
}

// Columns returns the formatted addresses and names of vars, index-aligned.
func Columns(vars []Variable) (addrs, names []string) {
	addrs = make([]string, len(vars))
	names = make([]string, len(vars))
	for i, v := range vars {
		addrs[i] = FormatAddr(v.Addr)
		names[i] = v.Name
	}
	return addrs, names
}
