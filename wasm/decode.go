package wasm

import (
	"errors"
	"fmt"
	"io"

	"github.com/ewasm/wasm-chisel/wasm/internal/binary"
)

// Parsing errors returned by ParseModule.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
)

// ParseModule parses a WebAssembly binary module
func ParseModule(data []byte) (*Module, error) {
	r := binary.NewReader(data)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != Version {
		return nil, ErrInvalidVersion
	}

	m := &Module{}
	var lastSectionOrder int

	for r.Len() > 0 {
		sectionID, err := r.ReadByte()
		if err != nil {
			return nil, r.WrapError("section header", err)
		}

		// Custom sections can appear anywhere
		if sectionID != SectionCustom {
			order := sectionOrder(sectionID)
			if order == 0 {
				return nil, fmt.Errorf("unknown section ID: 0x%02x", sectionID)
			}
			if order <= lastSectionOrder {
				return nil, fmt.Errorf("section %d appears out of order", sectionID)
			}
			lastSectionOrder = order
		}

		sectionSize, err := r.ReadU32()
		if err != nil {
			return nil, r.WrapError("section size", err)
		}
		sr, err := r.Sub(int(sectionSize))
		if err != nil {
			return nil, r.WrapError("section data", err)
		}

		parse, name := sectionParser(sectionID)
		if err := parse(sr, m); err != nil {
			return nil, fmt.Errorf("%s section: %w", name, err)
		}
		if sectionID != SectionCustom && sr.Len() != 0 {
			return nil, fmt.Errorf("%s section: %d trailing bytes", name, sr.Len())
		}
	}

	if len(m.Funcs) != len(m.Code) {
		return nil, fmt.Errorf("function and code section have inconsistent lengths (%d, %d)", len(m.Funcs), len(m.Code))
	}

	return m, nil
}

func sectionParser(id byte) (func(*binary.Reader, *Module) error, string) {
	switch id {
	case SectionCustom:
		return parseCustomSection, "custom"
	case SectionType:
		return parseTypeSection, "type"
	case SectionImport:
		return parseImportSection, "import"
	case SectionFunction:
		return parseFunctionSection, "function"
	case SectionTable:
		return parseTableSection, "table"
	case SectionMemory:
		return parseMemorySection, "memory"
	case SectionGlobal:
		return parseGlobalSection, "global"
	case SectionExport:
		return parseExportSection, "export"
	case SectionStart:
		return parseStartSection, "start"
	case SectionElement:
		return parseElementSection, "element"
	case SectionDataCount:
		return parseDataCountSection, "data count"
	case SectionCode:
		return parseCodeSection, "code"
	default:
		return parseDataSection, "data"
	}
}

// sectionOrder returns the canonical ordering for a section ID, or 0 for
// unknown sections. DataCount sits between Element and Code.
func sectionOrder(id byte) int {
	switch id {
	case SectionType, SectionImport, SectionFunction, SectionTable,
		SectionMemory, SectionGlobal, SectionExport, SectionStart, SectionElement:
		return int(id)
	case SectionDataCount:
		return 10
	case SectionCode:
		return 11
	case SectionData:
		return 12
	default:
		return 0
	}
}

func parseCustomSection(r *binary.Reader, m *Module) error {
	name, err := r.ReadName()
	if err != nil {
		return err
	}
	rest, err := r.ReadRemaining()
	if err != nil {
		return err
	}
	m.CustomSections = append(m.CustomSections, CustomSection{Name: name, Data: rest})
	return nil
}

func parseTypeSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Types = make([]FuncType, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		form, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("read type form at index %d: %w", i, err)
		}
		if form != FuncTypeByte {
			return fmt.Errorf("unsupported type form 0x%02x", form)
		}
		params, err := readValTypes(r)
		if err != nil {
			return err
		}
		results, err := readValTypes(r)
		if err != nil {
			return err
		}
		m.Types = append(m.Types, FuncType{Params: params, Results: results})
	}
	return nil
}

func readValTypes(r *binary.Reader) ([]ValType, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if int(count) > r.Len() {
		return nil, io.ErrUnexpectedEOF
	}
	types := make([]ValType, count)
	for i := range types {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if !isValType(b) {
			return nil, fmt.Errorf("invalid value type 0x%02x", b)
		}
		types[i] = ValType(b)
	}
	return types, nil
}

func isValType(b byte) bool {
	switch ValType(b) {
	case ValI32, ValI64, ValF32, ValF64, ValV128, ValFuncRef, ValExtern:
		return true
	}
	return false
}

func parseImportSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Imports = make([]Import, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		module, err := r.ReadName()
		if err != nil {
			return err
		}
		name, err := r.ReadName()
		if err != nil {
			return err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}

		imp := Import{Module: module, Name: name, Desc: ImportDesc{Kind: kind}}

		switch kind {
		case KindFunc:
			imp.Desc.TypeIdx, err = r.ReadU32()
			if err != nil {
				return err
			}
		case KindTable:
			table, err := readTableType(r)
			if err != nil {
				return err
			}
			imp.Desc.Table = &table
		case KindMemory:
			memory, err := readMemoryType(r)
			if err != nil {
				return err
			}
			imp.Desc.Memory = &memory
		case KindGlobal:
			global, err := readGlobalType(r)
			if err != nil {
				return err
			}
			imp.Desc.Global = &global
		default:
			return fmt.Errorf("unknown import kind: %d", kind)
		}

		m.Imports = append(m.Imports, imp)
	}
	return nil
}

func parseFunctionSection(r *binary.Reader, m *Module) error {
	var err error
	m.Funcs, err = readU32Vec(r)
	return err
}

func readU32Vec(r *binary.Reader) ([]uint32, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if int(count) > r.Len() {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]uint32, count)
	for i := range out {
		out[i], err = r.ReadU32()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parseTableSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		t, err := readTableType(r)
		if err != nil {
			return err
		}
		m.Tables = append(m.Tables, t)
	}
	return nil
}

func parseMemorySection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		mem, err := readMemoryType(r)
		if err != nil {
			return err
		}
		m.Memories = append(m.Memories, mem)
	}
	return nil
}

func parseGlobalSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		globalType, err := readGlobalType(r)
		if err != nil {
			return err
		}
		init, err := readInitExpr(r)
		if err != nil {
			return err
		}
		m.Globals = append(m.Globals, Global{Type: globalType, Init: init})
	}
	return nil
}

func parseExportSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadName()
		if err != nil {
			return err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}
		if kind > KindGlobal {
			return fmt.Errorf("invalid export kind: 0x%02x", kind)
		}
		idx, err := r.ReadU32()
		if err != nil {
			return err
		}
		m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Idx: idx})
	}
	return nil
}

func parseStartSection(r *binary.Reader, m *Module) error {
	idx, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Start = &idx
	return nil
}

func parseElementSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		flags, err := r.ReadU32()
		if err != nil {
			return err
		}
		if flags > 7 {
			return fmt.Errorf("invalid element segment flags: %d", flags)
		}

		elem := Element{Flags: flags}
		hasTableIdx := flags&0x02 != 0 && flags&0x01 == 0

		if hasTableIdx {
			elem.TableIdx, err = r.ReadU32()
			if err != nil {
				return err
			}
		}

		if elem.Active() {
			elem.Offset, err = readInitExpr(r)
			if err != nil {
				return err
			}
		}

		// Flags 1, 2, 3: elemkind follows; flags 5, 6, 7: reftype follows
		if flags&0x03 != 0 {
			b, err := r.ReadByte()
			if err != nil {
				return err
			}
			if elem.UsesExprs() {
				elem.Type = ValType(b)
			} else {
				elem.ElemKind = b
			}
		}

		if elem.UsesExprs() {
			vecCount, err := r.ReadU32()
			if err != nil {
				return err
			}
			for j := uint32(0); j < vecCount; j++ {
				expr, err := readInitExpr(r)
				if err != nil {
					return err
				}
				elem.Exprs = append(elem.Exprs, expr)
			}
		} else {
			elem.FuncIdxs, err = readU32Vec(r)
			if err != nil {
				return err
			}
		}

		m.Elements = append(m.Elements, elem)
	}
	return nil
}

func parseCodeSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Code = []FuncBody{}
	for i := uint32(0); i < count; i++ {
		bodySize, err := r.ReadU32()
		if err != nil {
			return err
		}
		br, err := r.Sub(int(bodySize))
		if err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}

		localCount, err := br.ReadU32()
		if err != nil {
			return err
		}
		var locals []LocalEntry
		for j := uint32(0); j < localCount; j++ {
			n, err := br.ReadU32()
			if err != nil {
				return err
			}
			t, err := br.ReadByte()
			if err != nil {
				return err
			}
			if !isValType(t) {
				return fmt.Errorf("body %d: invalid local type 0x%02x", i, t)
			}
			locals = append(locals, LocalEntry{Count: n, ValType: ValType(t)})
		}

		code, err := br.ReadRemaining()
		if err != nil {
			return err
		}
		if len(code) == 0 || code[len(code)-1] != OpEnd {
			return fmt.Errorf("body %d: missing end opcode", i)
		}

		m.Code = append(m.Code, FuncBody{Locals: locals, Code: code})
	}
	return nil
}

func parseDataSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		flags, err := r.ReadU32()
		if err != nil {
			return err
		}
		if flags > 2 {
			return fmt.Errorf("invalid data segment flags: %d", flags)
		}

		seg := DataSegment{Flags: flags}

		if flags == 2 {
			seg.MemIdx, err = r.ReadU32()
			if err != nil {
				return err
			}
		}

		if flags != 1 {
			seg.Offset, err = readInitExpr(r)
			if err != nil {
				return err
			}
		}

		initLen, err := r.ReadU32()
		if err != nil {
			return err
		}
		seg.Init, err = r.ReadBytes(int(initLen))
		if err != nil {
			return err
		}

		m.Data = append(m.Data, seg)
	}
	return nil
}

func parseDataCountSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.DataCount = &count
	return nil
}

func readLimits(r *binary.Reader) (Limits, error) {
	flags, err := r.ReadByte()
	if err != nil {
		return Limits{}, err
	}
	if flags > LimitsHasMax|LimitsShared|LimitsMemory64 {
		return Limits{}, fmt.Errorf("invalid limits flags 0x%02x", flags)
	}

	l := Limits{
		Shared:   flags&LimitsShared != 0,
		Memory64: flags&LimitsMemory64 != 0,
	}

	read := func() (uint64, error) {
		if l.Memory64 {
			return r.ReadU64()
		}
		v, err := r.ReadU32()
		return uint64(v), err
	}

	l.Min, err = read()
	if err != nil {
		return Limits{}, err
	}
	if flags&LimitsHasMax != 0 {
		maxVal, err := read()
		if err != nil {
			return Limits{}, err
		}
		if l.Min > maxVal {
			return Limits{}, fmt.Errorf("limits min (%d) exceeds max (%d)", l.Min, maxVal)
		}
		l.Max = &maxVal
	}

	return l, nil
}

func readTableType(r *binary.Reader) (TableType, error) {
	elemType, err := r.ReadByte()
	if err != nil {
		return TableType{}, err
	}
	if ValType(elemType) != ValFuncRef && ValType(elemType) != ValExtern {
		return TableType{}, fmt.Errorf("unsupported table element type 0x%02x", elemType)
	}
	limits, err := readLimits(r)
	if err != nil {
		return TableType{}, err
	}
	return TableType{ElemType: ValType(elemType), Limits: limits}, nil
}

func readMemoryType(r *binary.Reader) (MemoryType, error) {
	limits, err := readLimits(r)
	if err != nil {
		return MemoryType{}, err
	}
	return MemoryType{Limits: limits}, nil
}

func readGlobalType(r *binary.Reader) (GlobalType, error) {
	valType, err := r.ReadByte()
	if err != nil {
		return GlobalType{}, err
	}
	if !isValType(valType) {
		return GlobalType{}, fmt.Errorf("invalid global type 0x%02x", valType)
	}
	mut, err := r.ReadByte()
	if err != nil {
		return GlobalType{}, err
	}
	if mut > 1 {
		return GlobalType{}, fmt.Errorf("invalid global mutability 0x%02x", mut)
	}
	return GlobalType{ValType: ValType(valType), Mutable: mut == 1}, nil
}

// readInitExpr returns the raw bytes of a constant expression, end included.
func readInitExpr(r *binary.Reader) ([]byte, error) {
	start := r.Position()
	for {
		op, err := r.ReadByte()
		if err != nil {
			return nil, io.ErrUnexpectedEOF
		}
		if op == OpEnd {
			return r.Since(start), nil
		}
		if err := skipInitExprImmediate(r, op); err != nil {
			return nil, err
		}
	}
}

func skipInitExprImmediate(r *binary.Reader, op byte) error {
	var err error
	switch op {
	case OpI32Const, OpI64Const, OpRefNull:
		_, err = r.ReadS64()
	case OpGlobalGet, OpRefFunc:
		_, err = r.ReadU32()
	case OpF32Const:
		_, err = r.ReadBytes(4)
	case OpF64Const:
		_, err = r.ReadBytes(8)
	// extended-const arithmetic
	case OpI32Add, OpI32Sub, OpI32Mul, OpI64Add, OpI64Sub, OpI64Mul:
	case OpPrefixSIMD:
		var sub uint32
		sub, err = r.ReadU32()
		if err == nil && sub != SimdV128Const {
			return fmt.Errorf("invalid constant SIMD instruction 0x%02x", sub)
		}
		if err == nil {
			_, err = r.ReadBytes(16)
		}
	default:
		return fmt.Errorf("invalid constant instruction 0x%02x", op)
	}
	return err
}
