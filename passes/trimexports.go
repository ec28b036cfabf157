package passes

import (
	"slices"

	"go.uber.org/zap"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/wasm"
)

// TrimExportsName is the registry name of TrimExports.
const TrimExportsName = "trimexports"

// TrimExports removes every export outside a runtime interface.
type TrimExports struct {
	keep []string
}

// NewTrimExports builds the translator for preset "ewasm" or "pwasm".
func NewTrimExports(preset string) (*TrimExports, error) {
	entries, ok := exportPresets[preset]
	if !ok {
		return nil, errors.UnknownPreset(TrimExportsName, preset)
	}
	t := &TrimExports{}
	for _, e := range entries {
		t.keep = append(t.keep, e.Name)
	}
	return t, nil
}

func trimExportsFromConfig(cfg pass.Config) (pass.Pass, error) {
	if err := cfg.CheckKeys(TrimExportsName, pass.PresetKey); err != nil {
		return nil, err
	}
	preset, err := cfg.RequirePreset(TrimExportsName)
	if err != nil {
		return nil, err
	}
	return NewTrimExports(preset)
}

func (*TrimExports) Name() string    { return TrimExportsName }
func (*TrimExports) Kind() pass.Kind { return pass.KindTranslator }

func (t *TrimExports) Translate(m *wasm.Module) (pass.Result, error) {
	kept := make([]wasm.Export, 0, len(m.Exports))
	for _, exp := range m.Exports {
		if slices.Contains(t.keep, exp.Name) {
			kept = append(kept, exp)
			continue
		}
		Logger().Debug("trimming export", zap.String("export", exp.Name))
	}
	if len(kept) == len(m.Exports) {
		return pass.Unchanged(), nil
	}
	m.Exports = kept
	return pass.Mutated(), nil
}
