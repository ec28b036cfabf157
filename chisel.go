package chisel

import (
	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pipeline"
	"github.com/ewasm/wasm-chisel/wasm"
)

// Transform decodes binary, runs steps with the built-in passes and returns
// the encoded result. The returned bytes equal the input when no step
// changed the module.
func Transform(binary []byte, steps ...pipeline.Step) ([]byte, pipeline.Report, error) {
	m, err := wasm.ParseModule(binary)
	if err != nil {
		return nil, pipeline.Report{}, errors.ParseFailed("module", err)
	}
	if err := m.ParseNames(); err != nil {
		return nil, pipeline.Report{}, errors.ParseFailed("name section", err)
	}
	original := m.Clone()

	out, report := pipeline.Execute(m, steps, nil)
	if original.Equal(out) {
		return binary, report, nil
	}
	return out.Encode(), report, nil
}
