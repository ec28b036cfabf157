package passes

import (
	"go.uber.org/zap"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/wasm"
)

// RepackName is the registry name of Repack.
const RepackName = "repack"

// Repack prunes unreferenced function types and merges duplicates.
type Repack struct{}

// NewRepack returns the repack translator.
func NewRepack() *Repack { return &Repack{} }

func repackFromConfig(cfg pass.Config) (pass.Pass, error) {
	if err := cfg.CheckKeys(RepackName, pass.PresetKey); err != nil {
		return nil, err
	}
	return NewRepack(), nil
}

func (*Repack) Name() string    { return RepackName }
func (*Repack) Kind() pass.Kind { return pass.KindTranslator }

func (*Repack) Translate(m *wasm.Module) (pass.Result, error) {
	out := m.Clone()
	before := len(out.Types)
	changed, err := compactTypes(out, true)
	if err != nil {
		return pass.Unchanged(), errors.TranslationFailed(RepackName, err)
	}
	if !changed {
		return pass.Unchanged(), nil
	}
	Logger().Debug("repacked types", zap.Int("before", before), zap.Int("after", len(out.Types)))
	*m = *out
	return pass.Mutated(), nil
}
