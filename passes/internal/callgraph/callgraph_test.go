package callgraph

import (
	"slices"
	"testing"

	"github.com/ewasm/wasm-chisel/wasm"
)

func body(instrs ...wasm.Instruction) wasm.FuncBody {
	return wasm.FuncBody{Code: wasm.EncodeInstructions(append(instrs, wasm.Instruction{Opcode: wasm.OpEnd}))}
}

func call(idx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: wasm.OpCall, Imm: wasm.CallImm{FuncIdx: idx}}
}

func TestBuildEmpty(t *testing.T) {
	cg, err := Build(&wasm.Module{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(cg) != 0 {
		t.Errorf("Build(empty) = %d entries, want 0", len(cg))
	}
}

func TestBuildEdges(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Imports: []wasm.Import{
			{Module: "env", Name: "imported", Desc: wasm.ImportDesc{Kind: wasm.KindFunc}},
		},
		Funcs: []uint32{0, 0, 0, 0},
		Code: []wasm.FuncBody{
			body(call(0), call(2), call(0)),
			body(wasm.Instruction{Opcode: wasm.OpReturnCall, Imm: wasm.CallImm{FuncIdx: 3}}),
			body(wasm.Instruction{Opcode: wasm.OpRefFunc, Imm: wasm.RefFuncImm{FuncIdx: 4}}, wasm.Instruction{Opcode: wasm.OpDrop}),
			body(),
		},
	}
	cg, err := Build(m)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := cg[1]; !slices.Equal(got, []uint32{0, 2}) {
		t.Errorf("func 1 callees = %v, want [0 2]", got)
	}
	if got := cg[2]; !slices.Equal(got, []uint32{3}) {
		t.Errorf("func 2 callees = %v, want [3]", got)
	}
	if got := cg[3]; !slices.Equal(got, []uint32{4}) {
		t.Errorf("func 3 callees = %v, want [4]", got)
	}
	if _, ok := cg[4]; ok {
		t.Error("func 4 should have no edges")
	}
}

func TestBuildTableEdges(t *testing.T) {
	m := &wasm.Module{
		Types:  []wasm.FuncType{{}},
		Funcs:  []uint32{0, 0, 0, 0},
		Tables: []wasm.TableType{{ElemType: wasm.ValFuncRef, Limits: wasm.Limits{Min: 2}}},
		Elements: []wasm.Element{
			{Offset: []byte{wasm.OpI32Const, 0, wasm.OpEnd}, FuncIdxs: []uint32{2}},
			{Flags: 5, Type: wasm.ValFuncRef, Exprs: [][]byte{{wasm.OpRefFunc, 3, wasm.OpEnd}, {wasm.OpRefNull, 0x70, wasm.OpEnd}}},
		},
		Code: []wasm.FuncBody{
			body(
				wasm.Instruction{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{}},
				wasm.Instruction{Opcode: wasm.OpCallIndirect, Imm: wasm.CallIndirectImm{}},
			),
			body(),
			body(),
			body(),
		},
	}
	cg, err := Build(m)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := cg[0]; !slices.Equal(got, []uint32{2, 3}) {
		t.Errorf("func 0 callees = %v, want [2 3]", got)
	}
	if got := cg[1]; len(got) != 0 {
		t.Errorf("func 1 callees = %v, want none", got)
	}
}

func TestBuildDecodeError(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Funcs: []uint32{0},
		Code:  []wasm.FuncBody{{Code: []byte{0x27, wasm.OpEnd}}},
	}
	if _, err := Build(m); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRoots(t *testing.T) {
	start := uint32(2)
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Imports: []wasm.Import{
			{Module: "env", Name: "t", Desc: wasm.ImportDesc{Kind: wasm.KindTable, Table: &wasm.TableType{ElemType: wasm.ValFuncRef}}},
		},
		Funcs:  []uint32{0, 0, 0, 0, 0, 0},
		Tables: []wasm.TableType{{ElemType: wasm.ValFuncRef}},
		Exports: []wasm.Export{
			{Name: "main", Kind: wasm.KindFunc, Idx: 1},
		},
		Start: &start,
		Elements: []wasm.Element{
			{Offset: []byte{wasm.OpI32Const, 0, wasm.OpEnd}, FuncIdxs: []uint32{3}},
			{Flags: 2, TableIdx: 1, Offset: []byte{wasm.OpI32Const, 0, wasm.OpEnd}, FuncIdxs: []uint32{4}},
		},
		Globals: []wasm.Global{
			{Type: wasm.GlobalType{ValType: wasm.ValFuncRef}, Init: []byte{wasm.OpRefFunc, 5, wasm.OpEnd}},
		},
	}
	roots := Roots(m)
	slices.Sort(roots)
	if !slices.Equal(roots, []uint32{1, 2, 3, 5}) {
		t.Fatalf("Roots = %v, want [1 2 3 5]", roots)
	}

	m.Exports = append(m.Exports, wasm.Export{Name: "tbl", Kind: wasm.KindTable, Idx: 1})
	roots = Roots(m)
	slices.Sort(roots)
	if !slices.Equal(roots, []uint32{1, 2, 3, 4, 5}) {
		t.Fatalf("Roots with exported table = %v, want [1 2 3 4 5]", roots)
	}
}

func TestReachable(t *testing.T) {
	cg := CallGraph{
		0: {1},
		1: {2, 0},
		3: {4},
	}
	live := cg.Reachable([]uint32{0}, 5)
	if got := live.ToSlice(); !slices.Equal(got, []uint32{0, 1, 2}) {
		t.Fatalf("Reachable = %v, want [0 1 2]", got)
	}
	if live.Count() != 3 {
		t.Errorf("Count = %d, want 3", live.Count())
	}
}

func TestBitSet(t *testing.T) {
	b := NewBitSet(10)
	if !b.Set(3) || b.Set(3) {
		t.Fatal("Set should report first insertion only")
	}
	b.Set(200)
	if !b.Has(200) || b.Has(199) || b.Has(10000) {
		t.Fatal("Has after grow")
	}
	if got := b.ToSlice(); !slices.Equal(got, []uint32{3, 200}) {
		t.Fatalf("ToSlice = %v", got)
	}
}
