package memplan

import (
	"fmt"
	"sort"
	"strings"
)

// Exported symbol names.
const (
	SymTextStart          = "TEXT_START"
	SymTextSize           = "TEXT_SIZE"
	SymTextEnd            = "TEXT_END"
	SymStackStart         = "STACK_START"
	SymStackSize          = "STACK_SIZE"
	SymStackEnd           = "STACK_END"
	SymStackTop           = "STACK_TOP"
	SymStackPrivilegedTop = "STACK_PRIVILEGED_TOP"
	SymDataLoadStart      = "DATA_LOAD_START"
	SymDataStart          = "DATA_START"
	SymDataSize           = "DATA_SIZE"
	SymBssStart           = "BSS_START"
	SymBssSize            = "BSS_SIZE"
	SymBssEnd             = "BSS_END"
	SymHeapStart          = "HEAP_START"
	SymHeapEnd            = "HEAP_END"
	SymHeapSize           = "HEAP_SIZE"

	SymStackPrivilegedSize = "STACK_PRIVILEGED_SIZE"
	SymFastDataLoadStart   = "FAST_DATA_LOAD_START"
	SymFastDataStart       = "FAST_DATA_START"
	SymFastDataSize        = "FAST_DATA_SIZE"
	SymFastDataEnd         = "FAST_DATA_END"
)

// symbolOrder is the canonical order of a symbol table.
var symbolOrder = []string{
	SymTextStart, SymTextSize, SymTextEnd,
	SymStackStart, SymStackSize, SymStackEnd, SymStackTop, SymStackPrivilegedTop,
	SymDataLoadStart, SymDataStart, SymDataSize,
	SymBssStart, SymBssSize, SymBssEnd,
	SymHeapStart, SymHeapEnd, SymHeapSize,
	SymStackPrivilegedSize,
	SymFastDataLoadStart, SymFastDataStart, SymFastDataSize, SymFastDataEnd,
}

// Symbol is a named address or size.
type Symbol struct {
	Name  string
	Value uint64
}

func (s Symbol) String() string {
	return fmt.Sprintf("%s = %#x", s.Name, s.Value)
}

// SymbolTable maps symbol names to addresses or sizes.
type SymbolTable map[string]uint64

// Symbols returns the table in canonical order. Names outside the known set
// follow in lexical order.
func (t SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, 0, len(t))
	known := make(map[string]bool, len(symbolOrder))
	for _, name := range symbolOrder {
		known[name] = true
		if v, ok := t[name]; ok {
			out = append(out, Symbol{Name: name, Value: v})
		}
	}
	var extra []string
	for name := range t {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, Symbol{Name: name, Value: t[name]})
	}
	return out
}

func (t SymbolTable) String() string {
	var b strings.Builder
	for _, s := range t.Symbols() {
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// ExportSymbols derives the symbol table of a plan. When the derived heap is
// empty the complete table is returned together with a heap_region_empty
// error; callers decide whether that is fatal.
func ExportSymbols(p *MemoryPlan) (SymbolTable, error) {
	text, ok := p.Region(p.Placement.Text)
	if !ok {
		return nil, missingRegion(p.Placement.Text)
	}
	stack, ok := p.Region(RegionStack)
	if !ok {
		return nil, missingRegion(RegionStack)
	}
	s := p.Sections
	t := SymbolTable{}

	t[SymTextStart] = text.Origin
	t[SymTextSize] = uint64(s.Text)
	t[SymTextEnd] = text.Origin + uint64(s.Text)

	// Fast data is loaded from right behind text.
	loadCursor := t[SymTextEnd]
	t[SymFastDataLoadStart] = loadCursor
	t[SymFastDataStart] = loadCursor
	t[SymFastDataSize] = uint64(s.FastData)
	if fast, ok := p.Region(p.Placement.FastData); ok {
		t[SymFastDataStart] = fast.Origin
		loadCursor += uint64(s.FastData)
	}
	t[SymFastDataEnd] = t[SymFastDataStart] + uint64(s.FastData)

	run, ok := p.Region(p.Placement.DataRun)
	if !ok {
		return nil, missingRegion(p.Placement.DataRun)
	}
	switch {
	case p.Placement.DataLoad == p.Placement.Text && p.Placement.DataRun == p.Placement.Text:
		t[SymDataLoadStart] = loadCursor
		t[SymDataStart] = loadCursor
	case p.Placement.DataLoad == p.Placement.Text:
		t[SymDataLoadStart] = loadCursor
		t[SymDataStart] = run.Origin
	default:
		t[SymDataLoadStart] = run.Origin
		t[SymDataStart] = run.Origin
	}
	t[SymDataSize] = uint64(s.Data)

	t[SymBssStart] = t[SymDataStart] + uint64(s.Data)
	t[SymBssSize] = uint64(s.Bss)
	t[SymBssEnd] = t[SymBssStart] + uint64(s.Bss)

	t[SymStackStart] = stack.Origin
	t[SymStackSize] = stack.Length
	t[SymStackEnd] = stack.End()
	t[SymStackTop] = stack.End()
	t[SymStackPrivilegedSize] = uint64(p.Hardware.PrivilegedStackSize)
	t[SymStackPrivilegedTop] = stack.End() - uint64(p.Hardware.PrivilegedStackSize)

	t[SymHeapStart] = t[SymBssEnd]
	t[SymHeapEnd] = t[SymStackStart]
	if t[SymHeapEnd] <= t[SymHeapStart] {
		t[SymHeapSize] = 0
		return t, heapRegionEmpty(t[SymHeapStart], t[SymHeapEnd])
	}
	t[SymHeapSize] = t[SymHeapEnd] - t[SymHeapStart]
	return t, nil
}

func missingRegion(name string) *Error {
	return &Error{
		Stage:  StageSymbols,
		Kind:   KindInvalidData,
		Param:  name,
		Detail: fmt.Sprintf("plan has no region %q", name),
	}
}
