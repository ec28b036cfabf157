package wasm_test

import (
	"strings"
	"testing"

	"github.com/ewasm/wasm-chisel/wasm"
)

func TestValidateValid(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{
			{Params: []wasm.ValType{wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}},
			{},
		},
		Funcs:    []uint32{0, 1},
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		Exports: []wasm.Export{
			{Name: "add", Kind: wasm.KindFunc, Idx: 0},
			{Name: "memory", Kind: wasm.KindMemory, Idx: 0},
		},
		Code: []wasm.FuncBody{
			{Code: []byte{wasm.OpLocalGet, 0x00, wasm.OpEnd}},
			{Code: []byte{wasm.OpI32Const, 0x01, wasm.OpCall, 0x00, wasm.OpDrop, wasm.OpEnd}},
		},
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("valid module failed validation: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	base := func() *wasm.Module {
		return &wasm.Module{
			Types:  []wasm.FuncType{{}},
			Funcs:  []uint32{0},
			Code:   []wasm.FuncBody{{Code: []byte{wasm.OpEnd}}},
			Tables: []wasm.TableType{{ElemType: wasm.ValFuncRef, Limits: wasm.Limits{Min: 1}}},
		}
	}

	tests := []struct {
		mutate func(m *wasm.Module)
		name   string
		substr string
	}{
		{
			name:   "function type index",
			mutate: func(m *wasm.Module) { m.Funcs[0] = 5 },
			substr: "invalid type index",
		},
		{
			name: "import type index",
			mutate: func(m *wasm.Module) {
				m.Imports = []wasm.Import{{Module: "env", Name: "f", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 3}}}
			},
			substr: "invalid type index",
		},
		{
			name:   "export function",
			mutate: func(m *wasm.Module) { m.Exports = []wasm.Export{{Name: "f", Kind: wasm.KindFunc, Idx: 4}} },
			substr: "invalid function index",
		},
		{
			name:   "export memory",
			mutate: func(m *wasm.Module) { m.Exports = []wasm.Export{{Name: "memory", Kind: wasm.KindMemory, Idx: 0}} },
			substr: "invalid memory index",
		},
		{
			name:   "export global",
			mutate: func(m *wasm.Module) { m.Exports = []wasm.Export{{Name: "g", Kind: wasm.KindGlobal, Idx: 0}} },
			substr: "invalid global index",
		},
		{
			name: "duplicate export",
			mutate: func(m *wasm.Module) {
				m.Exports = []wasm.Export{{Name: "x", Kind: wasm.KindFunc}, {Name: "x", Kind: wasm.KindTable}}
			},
			substr: "duplicate export name",
		},
		{
			name:   "start index",
			mutate: func(m *wasm.Module) { m.Start = u32(1) },
			substr: "start function index",
		},
		{
			name: "start signature",
			mutate: func(m *wasm.Module) {
				m.Types[0].Params = []wasm.ValType{wasm.ValI32}
				m.Start = u32(0)
			},
			substr: "signature",
		},
		{
			name: "element function",
			mutate: func(m *wasm.Module) {
				m.Elements = []wasm.Element{{Offset: []byte{wasm.OpI32Const, 0, wasm.OpEnd}, FuncIdxs: []uint32{0, 1}}}
			},
			substr: "invalid function index",
		},
		{
			name: "element expression",
			mutate: func(m *wasm.Module) {
				m.Elements = []wasm.Element{{Flags: 5, Type: wasm.ValFuncRef, Exprs: [][]byte{{wasm.OpRefFunc, 0x02, wasm.OpEnd}}}}
			},
			substr: "invalid function index",
		},
		{
			name: "element table",
			mutate: func(m *wasm.Module) {
				m.Elements = []wasm.Element{{Flags: 2, TableIdx: 1, Offset: []byte{wasm.OpI32Const, 0, wasm.OpEnd}}}
			},
			substr: "invalid table index",
		},
		{
			name: "data memory",
			mutate: func(m *wasm.Module) {
				m.Data = []wasm.DataSegment{{Offset: []byte{wasm.OpI32Const, 0, wasm.OpEnd}}}
			},
			substr: "invalid memory index",
		},
		{
			name: "data count",
			mutate: func(m *wasm.Module) {
				m.DataCount = u32(1)
			},
			substr: "data count",
		},
		{
			name:   "code count",
			mutate: func(m *wasm.Module) { m.Code = nil },
			substr: "code section",
		},
		{
			name:   "memory too large",
			mutate: func(m *wasm.Module) { m.Memories = []wasm.MemoryType{{Limits: wasm.Limits{Min: 65537}}} },
			substr: "exceeds maximum",
		},
		{
			name:   "shared without max",
			mutate: func(m *wasm.Module) { m.Memories = []wasm.MemoryType{{Limits: wasm.Limits{Min: 1, Shared: true}}} },
			substr: "shared memory",
		},
		{
			name:   "call target",
			mutate: func(m *wasm.Module) { m.Code[0].Code = []byte{wasm.OpCall, 0x01, wasm.OpEnd} },
			substr: "invalid function index",
		},
		{
			name:   "call_indirect type",
			mutate: func(m *wasm.Module) { m.Code[0].Code = []byte{wasm.OpI32Const, 0, wasm.OpCallIndirect, 0x01, 0x00, wasm.OpEnd} },
			substr: "invalid type index",
		},
		{
			name:   "undecodable body",
			mutate: func(m *wasm.Module) { m.Code[0].Code = []byte{0x27, wasm.OpEnd} },
			substr: "function body 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			if err := m.Validate(); err != nil {
				t.Fatalf("base module invalid: %v", err)
			}
			tt.mutate(m)
			err := m.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Fatalf("error %q does not contain %q", err, tt.substr)
			}
		})
	}
}

func TestParseModuleValidate(t *testing.T) {
	m := &wasm.Module{
		Types:   []wasm.FuncType{{}},
		Funcs:   []uint32{0},
		Code:    []wasm.FuncBody{{Code: []byte{wasm.OpEnd}}},
		Exports: []wasm.Export{{Name: "main", Kind: wasm.KindFunc, Idx: 0}},
	}
	if _, err := wasm.ParseModuleValidate(m.Encode()); err != nil {
		t.Fatalf("ParseModuleValidate: %v", err)
	}

	m.Exports[0].Idx = 7
	if _, err := wasm.ParseModuleValidate(m.Encode()); err == nil {
		t.Fatal("expected validation error")
	}
}
