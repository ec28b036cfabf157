package passes

import (
	"fmt"

	"github.com/ewasm/wasm-chisel/wasm"
)

// rewriteBodies decodes every function body, passes each instruction through
// fn and re-encodes only the bodies in which fn reported a change.
func rewriteBodies(m *wasm.Module, fn func(wasm.Instruction) (wasm.Instruction, bool)) error {
	numImported := m.NumImportedFuncs()
	for i := range m.Code {
		instrs, err := wasm.DecodeInstructions(m.Code[i].Code)
		if err != nil {
			return fmt.Errorf("decode func %d: %w", numImported+i, err)
		}
		changed := false
		for j, ins := range instrs {
			if out, ok := fn(ins); ok {
				instrs[j] = out
				changed = true
			}
		}
		if changed {
			m.Code[i].Code = wasm.EncodeInstructions(instrs)
		}
	}
	return nil
}

// rewriteExprFuncRef rewrites the ref.func of a constant expression.
// Expressions without one are returned as is.
func rewriteExprFuncRef(expr []byte, remap func(uint32) uint32) []byte {
	instrs, err := wasm.DecodeInstructions(expr)
	if err != nil {
		return expr
	}
	changed := false
	for i, ins := range instrs {
		if idx, ok := ins.FuncRef(); ok && remap(idx) != idx {
			instrs[i] = ins.WithFuncRef(remap(idx))
			changed = true
		}
	}
	if !changed {
		return expr
	}
	return wasm.EncodeInstructions(instrs)
}

// compactTypes drops function types that nothing references and, with
// dedup, merges structurally identical ones. All type references are
// renumbered. It reports whether the type section changed.
func compactTypes(m *wasm.Module, dedup bool) (bool, error) {
	used := make([]bool, len(m.Types))
	mark := func(idx uint32) {
		if int(idx) < len(used) {
			used[idx] = true
		}
	}
	for _, imp := range m.Imports {
		if imp.Desc.Kind == wasm.KindFunc {
			mark(imp.Desc.TypeIdx)
		}
	}
	for _, idx := range m.Funcs {
		mark(idx)
	}
	numImported := m.NumImportedFuncs()
	for i, body := range m.Code {
		instrs, err := wasm.DecodeInstructions(body.Code)
		if err != nil {
			return false, fmt.Errorf("decode func %d: %w", numImported+i, err)
		}
		for _, ins := range instrs {
			if idx, ok := ins.TypeRef(); ok {
				mark(idx)
			}
		}
	}

	remap := make([]uint32, len(m.Types))
	types := make([]wasm.FuncType, 0, len(m.Types))
	for i, ft := range m.Types {
		if !used[i] {
			continue
		}
		if dedup {
			if j := indexOfType(types, ft); j >= 0 {
				remap[i] = uint32(j)
				continue
			}
		}
		remap[i] = uint32(len(types))
		types = append(types, ft)
	}
	if len(types) == len(m.Types) {
		return false, nil
	}

	renumber := func(idx uint32) uint32 {
		if int(idx) < len(remap) {
			return remap[idx]
		}
		return idx
	}
	m.Types = types
	for i := range m.Imports {
		if m.Imports[i].Desc.Kind == wasm.KindFunc {
			m.Imports[i].Desc.TypeIdx = renumber(m.Imports[i].Desc.TypeIdx)
		}
	}
	for i, idx := range m.Funcs {
		m.Funcs[i] = renumber(idx)
	}
	err := rewriteBodies(m, func(ins wasm.Instruction) (wasm.Instruction, bool) {
		idx, ok := ins.TypeRef()
		if !ok || renumber(idx) == idx {
			return ins, false
		}
		return ins.WithTypeRef(renumber(idx)), true
	})
	return true, err
}

func indexOfType(types []wasm.FuncType, ft wasm.FuncType) int {
	for i := range types {
		if wasm.FuncTypesEqual(types[i], ft) {
			return i
		}
	}
	return -1
}
