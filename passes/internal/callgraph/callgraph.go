// Package callgraph computes function reachability for dead code elimination.
package callgraph

import (
	"fmt"

	"github.com/ewasm/wasm-chisel/wasm"
)

// CallGraph maps each defined function index to the functions it may
// transfer control to or take a reference of.
type CallGraph map[uint32][]uint32

// Build analyses every function body of m.
//
// Direct calls, tail calls and ref.func produce edges. A body that touches
// a table in any way gets an edge to every function listed in an element
// segment, since any of them may be called indirectly.
func Build(m *wasm.Module) (CallGraph, error) {
	cg := make(CallGraph)
	numImported := uint32(m.NumImportedFuncs())
	var tableTargets []uint32
	tableTargetsDone := false

	for i, body := range m.Code {
		callerIdx := numImported + uint32(i)
		instrs, err := wasm.DecodeInstructions(body.Code)
		if err != nil {
			return nil, fmt.Errorf("decode func %d: %w", callerIdx, err)
		}

		usesTable := false
		for _, instr := range instrs {
			if idx, ok := instr.FuncRef(); ok {
				cg[callerIdx] = appendUnique(cg[callerIdx], idx)
			}
			if instr.UsesTable() {
				usesTable = true
			}
		}
		if usesTable {
			if !tableTargetsDone {
				tableTargets = ElementFuncs(m, func(*wasm.Element) bool { return true })
				tableTargetsDone = true
			}
			for _, idx := range tableTargets {
				cg[callerIdx] = appendUnique(cg[callerIdx], idx)
			}
		}
	}

	return cg, nil
}

// ElementFuncs returns the functions referenced by the element segments
// accepted by keep, in first-seen order without duplicates.
func ElementFuncs(m *wasm.Module, keep func(*wasm.Element) bool) []uint32 {
	var out []uint32
	for i := range m.Elements {
		elem := &m.Elements[i]
		if !keep(elem) {
			continue
		}
		for _, idx := range elem.FuncIdxs {
			out = appendUnique(out, idx)
		}
		for _, expr := range elem.Exprs {
			if idx, ok := wasm.InitExprFuncRef(expr); ok {
				out = appendUnique(out, idx)
			}
		}
	}
	return out
}

// Roots returns the functions that are live regardless of the call graph:
// exported functions, the start function, functions placed in imported or
// exported tables, and functions referenced from global initialisers.
func Roots(m *wasm.Module) []uint32 {
	var roots []uint32
	for _, exp := range m.Exports {
		if exp.Kind == wasm.KindFunc {
			roots = appendUnique(roots, exp.Idx)
		}
	}
	if m.Start != nil {
		roots = appendUnique(roots, *m.Start)
	}

	external := make(map[uint32]bool)
	for i := 0; i < m.NumImportedTables(); i++ {
		external[uint32(i)] = true
	}
	for _, exp := range m.Exports {
		if exp.Kind == wasm.KindTable {
			external[exp.Idx] = true
		}
	}
	if len(external) > 0 {
		for _, idx := range ElementFuncs(m, func(e *wasm.Element) bool {
			return e.Active() && external[e.TableIdx]
		}) {
			roots = appendUnique(roots, idx)
		}
	}

	for _, g := range m.Globals {
		if idx, ok := wasm.InitExprFuncRef(g.Init); ok {
			roots = appendUnique(roots, idx)
		}
	}
	return roots
}

// Reachable marks every function reachable from roots, breadth first.
func (cg CallGraph) Reachable(roots []uint32, numFuncs int) *BitSet {
	live := NewBitSet(numFuncs)
	queue := make([]uint32, 0, len(roots))
	for _, r := range roots {
		if live.Set(r) {
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		fn := queue[0]
		queue = queue[1:]
		for _, callee := range cg[fn] {
			if live.Set(callee) {
				queue = append(queue, callee)
			}
		}
	}
	return live
}

func appendUnique(slice []uint32, val uint32) []uint32 {
	for _, v := range slice {
		if v == val {
			return slice
		}
	}
	return append(slice, val)
}
