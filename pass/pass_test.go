package pass_test

import (
	stderrors "errors"
	"testing"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/wasm"
)

type fakeTranslator struct {
	fn func(m *wasm.Module) (pass.Result, error)
}

func (fakeTranslator) Name() string    { return "fake" }
func (fakeTranslator) Kind() pass.Kind { return pass.KindTranslator }
func (f fakeTranslator) Translate(m *wasm.Module) (pass.Result, error) {
	return f.fn(m)
}

func validModule() *wasm.Module {
	return &wasm.Module{
		Types:   []wasm.FuncType{{}},
		Funcs:   []uint32{0},
		Code:    []wasm.FuncBody{{Code: []byte{wasm.OpEnd}}},
		Exports: []wasm.Export{{Name: "main", Kind: wasm.KindFunc, Idx: 0}},
	}
}

func TestApplyUnchanged(t *testing.T) {
	m := validModule()
	out, status, err := pass.Apply(fakeTranslator{fn: func(*wasm.Module) (pass.Result, error) {
		return pass.Unchanged(), nil
	}}, m)
	if err != nil || status != pass.StatusNotTranslated || out != m {
		t.Fatalf("Apply = %p, %v, %v", out, status, err)
	}
}

func TestApplyMutated(t *testing.T) {
	m := validModule()
	out, status, err := pass.Apply(fakeTranslator{fn: func(m *wasm.Module) (pass.Result, error) {
		m.Exports[0].Name = "renamed"
		return pass.Mutated(), nil
	}}, m)
	if err != nil || status != pass.StatusTranslated {
		t.Fatalf("Apply = %v, %v", status, err)
	}
	if out != m || m.Exports[0].Name != "renamed" {
		t.Fatalf("mutation not kept: %+v", out.Exports)
	}
}

func TestApplyReplaced(t *testing.T) {
	m := validModule()
	replacement := &wasm.Module{}
	out, status, err := pass.Apply(fakeTranslator{fn: func(*wasm.Module) (pass.Result, error) {
		return pass.Replace(replacement), nil
	}}, m)
	if err != nil || status != pass.StatusTranslated || out != replacement {
		t.Fatalf("Apply = %p, %v, %v", out, status, err)
	}
}

func TestApplyFailureRollsBack(t *testing.T) {
	m := validModule()
	cause := stderrors.New("boom")
	out, status, err := pass.Apply(fakeTranslator{fn: func(m *wasm.Module) (pass.Result, error) {
		m.Exports = nil
		return pass.Result{}, cause
	}}, m)
	if status != pass.StatusFailed {
		t.Fatalf("status = %v", status)
	}
	if !errors.IsKind(err, errors.KindTranslationFailed) || !stderrors.Is(err, cause) {
		t.Fatalf("err = %v", err)
	}
	if out != m || len(m.Exports) != 1 {
		t.Fatal("module not restored")
	}
}

func TestApplyRejectsInvalidResult(t *testing.T) {
	m := validModule()
	_, status, err := pass.Apply(fakeTranslator{fn: func(m *wasm.Module) (pass.Result, error) {
		m.Exports[0].Idx = 9
		return pass.Mutated(), nil
	}}, m)
	if status != pass.StatusFailed || !errors.IsKind(err, errors.KindTranslationFailed) {
		t.Fatalf("Apply = %v, %v", status, err)
	}
	if m.Exports[0].Idx != 0 {
		t.Fatal("module not restored")
	}
}

func TestApplyNilReplacement(t *testing.T) {
	m := validModule()
	_, status, err := pass.Apply(fakeTranslator{fn: func(*wasm.Module) (pass.Result, error) {
		return pass.Replace(nil), nil
	}}, m)
	if status != pass.StatusFailed || err == nil {
		t.Fatalf("Apply = %v, %v", status, err)
	}
}

func TestStatusOK(t *testing.T) {
	tests := []struct {
		status pass.Status
		want   bool
	}{
		{pass.StatusValidatedTrue, true},
		{pass.StatusValidatedFalse, false},
		{pass.StatusTranslated, true},
		{pass.StatusNotTranslated, true},
		{pass.StatusFailed, false},
	}
	for _, tt := range tests {
		if got := tt.status.OK(); got != tt.want {
			t.Errorf("%v.OK() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestKindCapabilities(t *testing.T) {
	if !pass.KindBoth.Validates() || !pass.KindBoth.Translates() {
		t.Error("Both should validate and translate")
	}
	if pass.KindValidator.Translates() || pass.KindTranslator.Validates() {
		t.Error("single kinds should not cross over")
	}
}

func TestMutatedIf(t *testing.T) {
	if pass.MutatedIf(false).Changed() {
		t.Error("MutatedIf(false) should be unchanged")
	}
	if pass.MutatedIf(true).Kind != pass.ResultMutated {
		t.Error("MutatedIf(true) should be mutated")
	}
}

func TestConfig(t *testing.T) {
	cfg := pass.Config{"preset": " ewasm ", "require_all": "true", "index": "3", "bad": "x"}

	if p, ok := cfg.Preset(); !ok || p != "ewasm" {
		t.Errorf("Preset = %q, %v", p, ok)
	}
	if b, err := cfg.Bool("p", "require_all", false); err != nil || !b {
		t.Errorf("Bool = %v, %v", b, err)
	}
	if b, err := cfg.Bool("p", "missing", true); err != nil || !b {
		t.Errorf("Bool default = %v, %v", b, err)
	}
	if _, err := cfg.Bool("p", "bad", false); !errors.IsKind(err, errors.KindUnsupportedConfiguration) {
		t.Errorf("Bool bad = %v", err)
	}
	if n, ok, err := cfg.Uint32("p", "index"); err != nil || !ok || n != 3 {
		t.Errorf("Uint32 = %d, %v, %v", n, ok, err)
	}
	if _, _, err := cfg.Uint32("p", "bad"); err == nil {
		t.Error("Uint32 bad should fail")
	}
	if err := cfg.CheckKeys("p", "preset", "require_all", "index"); err == nil {
		t.Error("CheckKeys should reject \"bad\"")
	}
	if err := cfg.CheckKeys("p", "preset", "require_all", "index", "bad"); err != nil {
		t.Errorf("CheckKeys = %v", err)
	}
	if _, err := (pass.Config{}).RequirePreset("p"); !errors.IsKind(err, errors.KindUnsupportedConfiguration) {
		t.Errorf("RequirePreset = %v", err)
	}
}
