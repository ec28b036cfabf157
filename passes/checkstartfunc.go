package passes

import (
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/wasm"
)

// CheckStartFuncName is the registry name of CheckStartFunc.
const CheckStartFuncName = "checkstartfunc"

// CheckStartFunc checks the presence of a start function against an
// expectation.
type CheckStartFunc struct {
	want bool
}

// NewCheckStartFunc returns a validator that passes when the module has a
// start function exactly when want is true.
func NewCheckStartFunc(want bool) *CheckStartFunc {
	return &CheckStartFunc{want: want}
}

func checkStartFuncFromConfig(cfg pass.Config) (pass.Pass, error) {
	if err := cfg.CheckKeys(CheckStartFuncName, pass.PresetKey, "startfunc"); err != nil {
		return nil, err
	}
	want, err := cfg.Bool(CheckStartFuncName, "startfunc", false)
	if err != nil {
		return nil, err
	}
	return NewCheckStartFunc(want), nil
}

func (*CheckStartFunc) Name() string    { return CheckStartFuncName }
func (*CheckStartFunc) Kind() pass.Kind { return pass.KindValidator }

func (c *CheckStartFunc) Validate(m *wasm.Module) (bool, error) {
	return (m.Start != nil) == c.want, nil
}
