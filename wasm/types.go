package wasm

// Module represents a parsed WebAssembly module
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // Type indices for declared functions
	Tables   []TableType
	Memories []MemoryType
	Globals  []Global
	Exports  []Export
	Start    *uint32
	Elements []Element
	// Code is nil when the module has no code section and empty when the
	// section is present without bodies.
	Code []FuncBody
	Data []DataSegment

	// DataCount holds the count from the DataCount section (ID 12).
	DataCount *uint32

	CustomSections []CustomSection

	// Names is the materialised "name" custom section, set by ParseNames.
	// While non-nil it replaces any raw "name" entry in CustomSections.
	Names *NameSection
}

// FuncType represents a WebAssembly function signature with parameter and result types.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// ValType represents a WebAssembly value type.
type ValType byte

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExtern:
		return "externref"
	default:
		return "unknown"
	}
}

// String renders the signature as "(i32, i64) -> (i32)".
func (ft FuncType) String() string {
	return valTypeList(ft.Params) + " -> " + valTypeList(ft.Results)
}

func valTypeList(types []ValType) string {
	s := "("
	for i, t := range types {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s + ")"
}

// Import represents an imported function, table, memory or global.
type Import struct {
	Desc   ImportDesc
	Module string
	Name   string
}

// ImportDesc describes an imported item.
// Kind uses KindFunc, KindTable, KindMemory or KindGlobal.
type ImportDesc struct {
	Table   *TableType
	Memory  *MemoryType
	Global  *GlobalType
	TypeIdx uint32
	Kind    byte
}

// TableType describes a table with element type and size limits.
type TableType struct {
	Limits   Limits
	ElemType ValType
}

// MemoryType describes a linear memory with size limits.
type MemoryType struct {
	Limits Limits
}

// Limits describes size constraints for tables and memories.
type Limits struct {
	Max      *uint64
	Min      uint64
	Shared   bool
	Memory64 bool
}

// GlobalType describes a global variable's type and mutability.
type GlobalType struct {
	ValType ValType
	Mutable bool
}

// Global represents a global variable with type and initialization.
type Global struct {
	Type GlobalType
	Init []byte // Raw init expression bytes including end
}

// Export describes an exported item.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// Element represents an element segment.
// Flags determine the format:
//   - 0: active, tableIdx=0, offset expr, vec(funcidx)
//   - 1: passive, elemkind, vec(funcidx)
//   - 2: active, tableIdx, offset expr, elemkind, vec(funcidx)
//   - 3: declarative, elemkind, vec(funcidx)
//   - 4: active, tableIdx=0, offset expr, vec(expr)
//   - 5: passive, reftype, vec(expr)
//   - 6: active, tableIdx, offset expr, reftype, vec(expr)
//   - 7: declarative, reftype, vec(expr)
type Element struct {
	Offset   []byte
	FuncIdxs []uint32
	Exprs    [][]byte
	Flags    uint32
	TableIdx uint32
	ElemKind byte
	Type     ValType
}

// Active reports whether the segment is copied into a table at instantiation.
func (e *Element) Active() bool {
	return e.Flags&0x01 == 0
}

// Declarative reports whether the segment only forward-declares references.
func (e *Element) Declarative() bool {
	return e.Flags&0x03 == 0x03
}

// UsesExprs reports whether entries are init expressions rather than function indices.
func (e *Element) UsesExprs() bool {
	return e.Flags&0x04 != 0
}

// FuncBody represents a function's local declarations and bytecode.
type FuncBody struct {
	Locals []LocalEntry
	Code   []byte // Raw code bytes including end opcode
}

// LocalEntry represents a group of local variables with the same type.
type LocalEntry struct {
	Count   uint32
	ValType ValType
}

// DataSegment represents a data segment.
// Flags determine the format:
//   - 0: active, memIdx=0, offset expr, vec(byte)
//   - 1: passive, vec(byte)
//   - 2: active, memIdx, offset expr, vec(byte)
type DataSegment struct {
	Offset []byte
	Init   []byte
	Flags  uint32
	MemIdx uint32
}

// CustomSection holds a named custom section's data.
type CustomSection struct {
	Name string
	Data []byte
}

// NumImportedFuncs returns the number of imported functions
func (m *Module) NumImportedFuncs() int {
	return m.numImported(KindFunc)
}

// NumImportedMemories returns the number of imported memories
func (m *Module) NumImportedMemories() int {
	return m.numImported(KindMemory)
}

// NumImportedTables returns the number of imported tables
func (m *Module) NumImportedTables() int {
	return m.numImported(KindTable)
}

func (m *Module) numImported(kind byte) int {
	count := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind == kind {
			count++
		}
	}
	return count
}

// NumFuncs returns the size of the function index space.
func (m *Module) NumFuncs() int {
	return m.NumImportedFuncs() + len(m.Funcs)
}

// FuncTypeIdx returns the type index of a function in the function index space.
func (m *Module) FuncTypeIdx(funcIdx uint32) (uint32, bool) {
	numImported := uint32(m.NumImportedFuncs())
	if funcIdx < numImported {
		for _, imp := range m.Imports {
			if imp.Desc.Kind != KindFunc {
				continue
			}
			if funcIdx == 0 {
				return imp.Desc.TypeIdx, true
			}
			funcIdx--
		}
	}
	local := funcIdx - numImported
	if int(local) >= len(m.Funcs) {
		return 0, false
	}
	return m.Funcs[local], true
}

// GetFuncType returns the type of a function by its index
func (m *Module) GetFuncType(funcIdx uint32) *FuncType {
	typeIdx, ok := m.FuncTypeIdx(funcIdx)
	if !ok || int(typeIdx) >= len(m.Types) {
		return nil
	}
	return &m.Types[typeIdx]
}

// AddType adds a function type and returns its index, reusing existing if equal
func (m *Module) AddType(ft FuncType) uint32 {
	for i, t := range m.Types {
		if FuncTypesEqual(t, ft) {
			return uint32(i)
		}
	}
	idx := uint32(len(m.Types))
	m.Types = append(m.Types, ft)
	return idx
}

// FuncTypesEqual reports whether two signatures are identical.
func FuncTypesEqual(a, b FuncType) bool {
	if len(a.Params) != len(b.Params) || len(a.Results) != len(b.Results) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	for i := range a.Results {
		if a.Results[i] != b.Results[i] {
			return false
		}
	}
	return true
}

// ExportByName returns the first export with the given name.
func (m *Module) ExportByName(name string) (*Export, bool) {
	for i := range m.Exports {
		if m.Exports[i].Name == name {
			return &m.Exports[i], true
		}
	}
	return nil, false
}

// CustomSection returns the first custom section with the given name.
func (m *Module) CustomSection(name string) (*CustomSection, bool) {
	for i := range m.CustomSections {
		if m.CustomSections[i].Name == name {
			return &m.CustomSections[i], true
		}
	}
	return nil, false
}

// RemoveCustomSections drops every custom section with the given name and
// reports how many were removed.
func (m *Module) RemoveCustomSections(name string) int {
	kept := m.CustomSections[:0]
	removed := 0
	for _, cs := range m.CustomSections {
		if cs.Name == name {
			removed++
			continue
		}
		kept = append(kept, cs)
	}
	m.CustomSections = kept
	return removed
}
