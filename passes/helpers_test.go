package passes_test

import (
	"testing"

	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/passes"
	"github.com/ewasm/wasm-chisel/wasm"
)

func op(b byte) wasm.Instruction { return wasm.Instruction{Opcode: b} }

func i32(v int32) wasm.Instruction {
	return wasm.Instruction{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{Value: v}}
}

func call(idx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: wasm.OpCall, Imm: wasm.CallImm{FuncIdx: idx}}
}

func callIndirect(typeIdx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: wasm.OpCallIndirect, Imm: wasm.CallIndirectImm{TypeIdx: typeIdx}}
}

func refFunc(idx uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: wasm.OpRefFunc, Imm: wasm.RefFuncImm{FuncIdx: idx}}
}

func misc(sub uint32, operands ...uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: wasm.OpPrefixMisc, Imm: wasm.MiscImm{SubOpcode: sub, Operands: operands}}
}

func simd(sub uint32) wasm.Instruction {
	return wasm.Instruction{Opcode: wasm.OpPrefixSIMD, Imm: wasm.SIMDImm{SubOpcode: sub}}
}

// body encodes instrs followed by end.
func body(instrs ...wasm.Instruction) wasm.FuncBody {
	return wasm.FuncBody{Code: wasm.EncodeInstructions(append(instrs, op(wasm.OpEnd)))}
}

// funcModule returns a module whose functions all have type () -> ().
func funcModule(bodies ...wasm.FuncBody) *wasm.Module {
	m := &wasm.Module{Types: []wasm.FuncType{{}}}
	for _, b := range bodies {
		m.Funcs = append(m.Funcs, 0)
		m.Code = append(m.Code, b)
	}
	return m
}

func build(t *testing.T, name string, cfg pass.Config) pass.Pass {
	t.Helper()
	p, err := passes.Default().Build(name, cfg)
	if err != nil {
		t.Fatalf("Build(%s, %v): %v", name, cfg, err)
	}
	return p
}

func validator(t *testing.T, name string, cfg pass.Config) pass.Validator {
	t.Helper()
	v, ok := build(t, name, cfg).(pass.Validator)
	if !ok {
		t.Fatalf("%s is not a validator", name)
	}
	return v
}

func translator(t *testing.T, name string, cfg pass.Config) pass.Translator {
	t.Helper()
	tr, ok := build(t, name, cfg).(pass.Translator)
	if !ok {
		t.Fatalf("%s is not a translator", name)
	}
	return tr
}

func mustValidate(t *testing.T, v pass.Validator, m *wasm.Module) bool {
	t.Helper()
	ok, err := v.Validate(m)
	if err != nil {
		t.Fatalf("%s: %v", v.Name(), err)
	}
	return ok
}

func mustTranslate(t *testing.T, tr pass.Translator, m *wasm.Module) pass.Result {
	t.Helper()
	res, err := tr.Translate(m)
	if err != nil {
		t.Fatalf("%s: %v", tr.Name(), err)
	}
	return res
}

func funcImport(module, name string, typeIdx uint32) wasm.Import {
	return wasm.Import{Module: module, Name: name, Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: typeIdx}}
}
