package passes

import (
	"fmt"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/wasm"
)

// Registry names of the start function passes.
const (
	TrimStartFuncName = "trimstartfunc"
	RemapStartName    = "remapstart"
)

const mainExport = "main"

// TrimStartFunc removes the start section.
type TrimStartFunc struct{}

// NewTrimStartFunc builds the translator. Only preset "ewasm" is known.
func NewTrimStartFunc(preset string) (*TrimStartFunc, error) {
	if preset != PresetEwasm {
		return nil, errors.UnknownPreset(TrimStartFuncName, preset)
	}
	return &TrimStartFunc{}, nil
}

func trimStartFuncFromConfig(cfg pass.Config) (pass.Pass, error) {
	if err := cfg.CheckKeys(TrimStartFuncName, pass.PresetKey); err != nil {
		return nil, err
	}
	preset, err := cfg.RequirePreset(TrimStartFuncName)
	if err != nil {
		return nil, err
	}
	return NewTrimStartFunc(preset)
}

func (*TrimStartFunc) Name() string    { return TrimStartFuncName }
func (*TrimStartFunc) Kind() pass.Kind { return pass.KindTranslator }

func (*TrimStartFunc) Translate(m *wasm.Module) (pass.Result, error) {
	if m.Start == nil {
		return pass.Unchanged(), nil
	}
	m.Start = nil
	return pass.Mutated(), nil
}

// RemapStart either exports the start function as "main" or points the start
// section at an explicit function.
type RemapStart struct {
	index   uint32
	toIndex bool
}

// NewRemapStart builds the "ewasm" flavour, which turns the start function
// into the main export.
func NewRemapStart(preset string) (*RemapStart, error) {
	if preset != PresetEwasm {
		return nil, errors.UnknownPreset(RemapStartName, preset)
	}
	return &RemapStart{}, nil
}

// NewRemapStartIndex sets the start function to index.
func NewRemapStartIndex(index uint32) *RemapStart {
	return &RemapStart{index: index, toIndex: true}
}

func remapStartFromConfig(cfg pass.Config) (pass.Pass, error) {
	if err := cfg.CheckKeys(RemapStartName, pass.PresetKey, "index"); err != nil {
		return nil, err
	}
	preset, hasPreset := cfg.Preset()
	index, hasIndex, err := cfg.Uint32(RemapStartName, "index")
	if err != nil {
		return nil, err
	}
	switch {
	case hasPreset && hasIndex:
		return nil, errors.UnsupportedConfiguration(RemapStartName, "preset and index are mutually exclusive")
	case hasIndex:
		return NewRemapStartIndex(index), nil
	case hasPreset:
		return NewRemapStart(preset)
	}
	return nil, errors.UnsupportedConfiguration(RemapStartName, "a preset or an index is required")
}

func (*RemapStart) Name() string    { return RemapStartName }
func (*RemapStart) Kind() pass.Kind { return pass.KindTranslator }

func (r *RemapStart) Translate(m *wasm.Module) (pass.Result, error) {
	if r.toIndex {
		if n := uint32(m.NumFuncs()); r.index >= n {
			return pass.Unchanged(), errors.TranslationFailed(RemapStartName,
				fmt.Errorf("function index %d out of range (%d functions)", r.index, n))
		}
		if m.Start != nil && *m.Start == r.index {
			return pass.Unchanged(), nil
		}
		idx := r.index
		m.Start = &idx
		return pass.Mutated(), nil
	}

	if m.Start == nil {
		return pass.Unchanged(), nil
	}
	exports := make([]wasm.Export, 0, len(m.Exports)+1)
	for _, exp := range m.Exports {
		if exp.Name != mainExport {
			exports = append(exports, exp)
		}
	}
	m.Exports = append(exports, wasm.Export{Name: mainExport, Kind: wasm.KindFunc, Idx: *m.Start})
	m.Start = nil
	return pass.Mutated(), nil
}
