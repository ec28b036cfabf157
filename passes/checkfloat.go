package passes

import (
	"go.uber.org/zap"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/wasm"
)

// CheckFloatName is the registry name of CheckFloat.
const CheckFloatName = "checkfloat"

// CheckFloat rejects modules that use floating point instructions.
type CheckFloat struct{}

// NewCheckFloat returns the checkfloat validator.
func NewCheckFloat() *CheckFloat { return &CheckFloat{} }

func checkFloatFromConfig(cfg pass.Config) (pass.Pass, error) {
	if err := cfg.CheckKeys(CheckFloatName, pass.PresetKey); err != nil {
		return nil, err
	}
	return NewCheckFloat(), nil
}

func (*CheckFloat) Name() string    { return CheckFloatName }
func (*CheckFloat) Kind() pass.Kind { return pass.KindValidator }

// Validate returns false on the first floating point instruction. A module
// without a code section is a not_found error.
func (c *CheckFloat) Validate(m *wasm.Module) (bool, error) {
	if m.Code == nil {
		return false, errors.NotFound(errors.PhaseValidate, "code section")
	}
	numImported := uint32(m.NumImportedFuncs())
	for i, body := range m.Code {
		instrs, err := wasm.DecodeInstructions(body.Code)
		if err != nil {
			return false, errors.New(errors.PhaseValidate, errors.KindInvalidData).
				Pass(CheckFloatName).
				Value(numImported + uint32(i)).
				Detail("decode function %d", numImported+uint32(i)).
				Cause(err).
				Build()
		}
		for _, ins := range instrs {
			if isFloatInstruction(ins) {
				Logger().Debug("floating point instruction found",
					zap.Uint32("func", numImported+uint32(i)),
					zap.Uint8("opcode", ins.Opcode))
				return false, nil
			}
		}
	}
	return true, nil
}

func isFloatInstruction(ins wasm.Instruction) bool {
	op := ins.Opcode
	switch {
	case op == wasm.OpF32Const, op == wasm.OpF64Const,
		op == wasm.OpF32Load, op == wasm.OpF64Load,
		op == wasm.OpF32Store, op == wasm.OpF64Store:
		return true
	case op >= wasm.OpF32Eq && op <= wasm.OpF64Ge:
		return true
	case op >= wasm.OpF32Abs && op <= wasm.OpF64Copysign:
		return true
	case op >= wasm.OpI32TruncF32S && op <= wasm.OpI32TruncF64U:
		return true
	case op >= wasm.OpI64TruncF32S && op <= wasm.OpF64ReinterpretI64:
		return true
	case op == wasm.OpPrefixMisc:
		return ins.Imm.(wasm.MiscImm).SubOpcode <= wasm.MiscI64TruncSatF64U
	case op == wasm.OpPrefixSIMD:
		return isFloatSIMD(ins.Imm.(wasm.SIMDImm).SubOpcode)
	}
	return false
}

func isFloatSIMD(sub uint32) bool {
	switch {
	case sub == wasm.SimdF32x4Splat, sub == wasm.SimdF64x2Splat:
		return true
	case sub >= wasm.SimdF32x4ExtractLane && sub <= wasm.SimdF64x2ReplaceLane:
		return true
	case sub >= wasm.SimdF32x4Eq && sub <= wasm.SimdF64x2Ge:
		return true
	case sub == wasm.SimdF32x4DemoteF64x2, sub == wasm.SimdF64x2PromoteF32x4:
		return true
	case sub >= wasm.SimdF32x4Ceil && sub <= wasm.SimdF32x4Nearest:
		return true
	case sub == wasm.SimdF64x2Ceil, sub == wasm.SimdF64x2Floor,
		sub == wasm.SimdF64x2Trunc, sub == wasm.SimdF64x2Nearest:
		return true
	case sub >= wasm.SimdF32x4Abs && sub <= wasm.SimdF64x2ConvertLowU:
		return true
	case sub >= wasm.SimdRelaxedTruncF32x4S && sub <= wasm.SimdRelaxedNmaddF64x2:
		return true
	case sub >= wasm.SimdRelaxedMinF32x4 && sub <= wasm.SimdRelaxedMaxF64x2:
		return true
	}
	return false
}
