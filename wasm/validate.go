package wasm

import "fmt"

// Memory page limits
const (
	MemoryMaxPages32 uint64 = 65536
	MemoryMaxPages64 uint64 = 281474976710656
)

// Validate checks that every index in the module refers to something that
// exists: types, functions, tables, memories and globals, including the
// function and type references inside code bodies. It does not type-check
// instruction sequences.
func (m *Module) Validate() error {
	checks := []func() error{
		m.validateTypeIndices,
		m.validateFunctionIndices,
		m.validateTableIndices,
		m.validateMemoryIndices,
		m.validateGlobalIndices,
		m.validateExports,
		m.validateStart,
		m.validateCounts,
		m.validateMemoryLimits,
		m.validateCodeReferences,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) validateTypeIndices() error {
	numTypes := uint32(len(m.Types))
	for i, typeIdx := range m.Funcs {
		if typeIdx >= numTypes {
			return fmt.Errorf("function %d references invalid type index %d", i, typeIdx)
		}
	}
	for i, imp := range m.Imports {
		if imp.Desc.Kind == KindFunc && imp.Desc.TypeIdx >= numTypes {
			return fmt.Errorf("import %d (%s.%s) references invalid type index %d", i, imp.Module, imp.Name, imp.Desc.TypeIdx)
		}
	}
	return nil
}

func (m *Module) validateFunctionIndices() error {
	numFuncs := uint32(m.NumFuncs())

	if m.Start != nil && *m.Start >= numFuncs {
		return fmt.Errorf("start function index %d exceeds function count %d", *m.Start, numFuncs)
	}
	for i, elem := range m.Elements {
		for j, funcIdx := range elem.FuncIdxs {
			if funcIdx >= numFuncs {
				return fmt.Errorf("element %d, entry %d references invalid function index %d", i, j, funcIdx)
			}
		}
		for j, expr := range elem.Exprs {
			if idx, ok := InitExprFuncRef(expr); ok && idx >= numFuncs {
				return fmt.Errorf("element %d, entry %d references invalid function index %d", i, j, idx)
			}
		}
	}
	for i, exp := range m.Exports {
		if exp.Kind == KindFunc && exp.Idx >= numFuncs {
			return fmt.Errorf("export %d (%s) references invalid function index %d", i, exp.Name, exp.Idx)
		}
	}
	return nil
}

func (m *Module) validateTableIndices() error {
	numTables := uint32(m.NumImportedTables() + len(m.Tables))
	for i, elem := range m.Elements {
		if elem.Active() && elem.TableIdx >= numTables {
			return fmt.Errorf("element %d references invalid table index %d", i, elem.TableIdx)
		}
	}
	for i, exp := range m.Exports {
		if exp.Kind == KindTable && exp.Idx >= numTables {
			return fmt.Errorf("export %d (%s) references invalid table index %d", i, exp.Name, exp.Idx)
		}
	}
	return nil
}

func (m *Module) validateMemoryIndices() error {
	numMemories := uint32(m.NumImportedMemories() + len(m.Memories))
	for i, data := range m.Data {
		if data.Flags != 1 && data.MemIdx >= numMemories {
			return fmt.Errorf("data segment %d references invalid memory index %d", i, data.MemIdx)
		}
	}
	for i, exp := range m.Exports {
		if exp.Kind == KindMemory && exp.Idx >= numMemories {
			return fmt.Errorf("export %d (%s) references invalid memory index %d", i, exp.Name, exp.Idx)
		}
	}
	return nil
}

func (m *Module) validateGlobalIndices() error {
	numGlobals := uint32(m.numImported(KindGlobal) + len(m.Globals))
	for i, exp := range m.Exports {
		if exp.Kind == KindGlobal && exp.Idx >= numGlobals {
			return fmt.Errorf("export %d (%s) references invalid global index %d", i, exp.Name, exp.Idx)
		}
	}
	return nil
}

func (m *Module) validateExports() error {
	seen := make(map[string]bool, len(m.Exports))
	for i, exp := range m.Exports {
		if seen[exp.Name] {
			return fmt.Errorf("duplicate export name %q at index %d", exp.Name, i)
		}
		seen[exp.Name] = true
	}
	return nil
}

func (m *Module) validateStart() error {
	if m.Start == nil {
		return nil
	}
	funcType := m.GetFuncType(*m.Start)
	if funcType == nil {
		return fmt.Errorf("start function %d has no type", *m.Start)
	}
	if len(funcType.Params) != 0 || len(funcType.Results) != 0 {
		return fmt.Errorf("start function must have signature () -> (), got %s", funcType)
	}
	return nil
}

func (m *Module) validateCounts() error {
	if m.DataCount != nil && *m.DataCount != uint32(len(m.Data)) {
		return fmt.Errorf("data count section declares %d segments, but data section has %d",
			*m.DataCount, len(m.Data))
	}
	if len(m.Code) != len(m.Funcs) {
		return fmt.Errorf("code section has %d entries but function section has %d",
			len(m.Code), len(m.Funcs))
	}
	return nil
}

func (m *Module) validateMemoryLimits() error {
	for i, imp := range m.Imports {
		if imp.Desc.Kind == KindMemory && imp.Desc.Memory != nil {
			if err := validateMemoryType(imp.Desc.Memory, fmt.Sprintf("imported memory %d", i)); err != nil {
				return err
			}
		}
	}
	for i := range m.Memories {
		if err := validateMemoryType(&m.Memories[i], fmt.Sprintf("memory %d", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateMemoryType(mem *MemoryType, what string) error {
	maxPages := MemoryMaxPages32
	if mem.Limits.Memory64 {
		maxPages = MemoryMaxPages64
	}
	if mem.Limits.Shared && mem.Limits.Max == nil {
		return fmt.Errorf("%s: shared memory must have maximum limit", what)
	}
	if mem.Limits.Min > maxPages {
		return fmt.Errorf("%s: min pages %d exceeds maximum %d", what, mem.Limits.Min, maxPages)
	}
	if mem.Limits.Max != nil && *mem.Limits.Max > maxPages {
		return fmt.Errorf("%s: max pages %d exceeds maximum %d", what, *mem.Limits.Max, maxPages)
	}
	return nil
}

func (m *Module) validateCodeReferences() error {
	numFuncs := uint32(m.NumFuncs())
	numTypes := uint32(len(m.Types))
	for i, body := range m.Code {
		instrs, err := DecodeInstructions(body.Code)
		if err != nil {
			return fmt.Errorf("function body %d: %w", i, err)
		}
		for _, ins := range instrs {
			if idx, ok := ins.FuncRef(); ok && idx >= numFuncs {
				return fmt.Errorf("function body %d references invalid function index %d", i, idx)
			}
			if idx, ok := ins.TypeRef(); ok && idx >= numTypes {
				return fmt.Errorf("function body %d references invalid type index %d", i, idx)
			}
		}
	}
	return nil
}

// InitExprFuncRef returns the function index of a "ref.func idx; end" expression.
func InitExprFuncRef(expr []byte) (uint32, bool) {
	instrs, err := DecodeInstructions(expr)
	if err != nil {
		return 0, false
	}
	for _, ins := range instrs {
		if ins.Opcode == OpRefFunc {
			return ins.FuncRef()
		}
	}
	return 0, false
}

// ParseModuleValidate parses and validates a WebAssembly module.
func ParseModuleValidate(data []byte) (*Module, error) {
	m, err := ParseModule(data)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
