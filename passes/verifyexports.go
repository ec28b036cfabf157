package passes

import (
	"go.uber.org/zap"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/wasm"
)

// VerifyExportsName is the registry name of VerifyExports.
const VerifyExportsName = "verifyexports"

// ExportType describes one required export. Sig is set only for functions.
type ExportType struct {
	Sig  *wasm.FuncType
	Name string
	Kind byte
}

// exportPresets maps presets to the entry points a runtime calls.
var exportPresets = map[string][]ExportType{
	PresetEwasm: {
		{Name: "main", Kind: wasm.KindFunc, Sig: &wasm.FuncType{}},
		{Name: "memory", Kind: wasm.KindMemory},
	},
	PresetPwasm: {
		{Name: "call", Kind: wasm.KindFunc, Sig: &wasm.FuncType{}},
	},
}

// VerifyExports checks that a module exports exactly its runtime interface.
type VerifyExports struct {
	entries       []ExportType
	allowUnlisted bool
}

// NewVerifyExports builds the validator for preset "ewasm" or "pwasm".
func NewVerifyExports(preset string) (*VerifyExports, error) {
	entries, ok := exportPresets[preset]
	if !ok {
		return nil, errors.UnknownPreset(VerifyExportsName, preset)
	}
	return &VerifyExports{entries: entries}, nil
}

func verifyExportsFromConfig(cfg pass.Config) (pass.Pass, error) {
	if err := cfg.CheckKeys(VerifyExportsName, pass.PresetKey, "allow_unlisted"); err != nil {
		return nil, err
	}
	preset, err := cfg.RequirePreset(VerifyExportsName)
	if err != nil {
		return nil, err
	}
	v, err := NewVerifyExports(preset)
	if err != nil {
		return nil, err
	}
	if v.allowUnlisted, err = cfg.Bool(VerifyExportsName, "allow_unlisted", false); err != nil {
		return nil, err
	}
	return v, nil
}

func (*VerifyExports) Name() string    { return VerifyExportsName }
func (*VerifyExports) Kind() pass.Kind { return pass.KindValidator }

// Validate requires every preset entry to be exported with the right kind
// and signature, and rejects other exports unless allowed.
func (v *VerifyExports) Validate(m *wasm.Module) (bool, error) {
	for _, want := range v.entries {
		exp, ok := m.ExportByName(want.Name)
		if !ok || exp.Kind != want.Kind {
			Logger().Debug("required export missing", zap.String("export", want.Name))
			return false, nil
		}
		if want.Sig != nil {
			sig := m.GetFuncType(exp.Idx)
			if sig == nil || !wasm.FuncTypesEqual(*sig, *want.Sig) {
				Logger().Debug("export signature mismatch", zap.String("export", want.Name))
				return false, nil
			}
		}
	}

	if !v.allowUnlisted {
		for _, exp := range m.Exports {
			if !v.listed(exp.Name) {
				Logger().Debug("unlisted export", zap.String("export", exp.Name))
				return false, nil
			}
		}
	}
	return true, nil
}

func (v *VerifyExports) listed(name string) bool {
	for _, e := range v.entries {
		if e.Name == name {
			return true
		}
	}
	return false
}
