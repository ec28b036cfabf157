package passes

import (
	"go.uber.org/zap"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/passes/internal/callgraph"
	"github.com/ewasm/wasm-chisel/wasm"
)

// SnipName is the registry name of Snip.
const SnipName = "snip"

// Snip removes defined functions that cannot be reached from any root and
// renumbers every remaining function reference. Run it after passes that
// trim exports or the start function.
type Snip struct{}

// NewSnip returns the snip translator.
func NewSnip() *Snip { return &Snip{} }

func snipFromConfig(cfg pass.Config) (pass.Pass, error) {
	if err := cfg.CheckKeys(SnipName, pass.PresetKey); err != nil {
		return nil, err
	}
	return NewSnip(), nil
}

func (*Snip) Name() string    { return SnipName }
func (*Snip) Kind() pass.Kind { return pass.KindTranslator }

func (*Snip) Translate(m *wasm.Module) (pass.Result, error) {
	cg, err := callgraph.Build(m)
	if err != nil {
		return pass.Unchanged(), errors.TranslationFailed(SnipName, err)
	}
	numImported := m.NumImportedFuncs()
	numFuncs := m.NumFuncs()
	live := cg.Reachable(callgraph.Roots(m), numFuncs)
	for i := 0; i < numImported; i++ {
		live.Set(uint32(i))
	}

	removed := numFuncs - live.Count()
	if removed <= 0 {
		return pass.Unchanged(), nil
	}

	remap := make(map[uint32]uint32, live.Count())
	for newIdx, oldIdx := range live.ToSlice() {
		remap[oldIdx] = uint32(newIdx)
	}
	lookup := func(idx uint32) (uint32, bool) {
		n, ok := remap[idx]
		return n, ok
	}
	must := func(idx uint32) uint32 {
		if n, ok := remap[idx]; ok {
			return n
		}
		return idx
	}

	out := m.Clone()
	funcs := out.Funcs[:0]
	code := out.Code[:0]
	for i := range m.Funcs {
		if !live.Has(uint32(numImported + i)) {
			continue
		}
		funcs = append(funcs, out.Funcs[i])
		code = append(code, out.Code[i])
	}
	out.Funcs, out.Code = funcs, code

	for i := range out.Exports {
		if out.Exports[i].Kind == wasm.KindFunc {
			out.Exports[i].Idx = must(out.Exports[i].Idx)
		}
	}
	if out.Start != nil {
		start := must(*out.Start)
		out.Start = &start
	}
	for i := range out.Elements {
		snipElement(&out.Elements[i], lookup)
	}
	for i := range out.Globals {
		out.Globals[i].Init = rewriteExprFuncRef(out.Globals[i].Init, must)
	}

	err = rewriteBodies(out, func(ins wasm.Instruction) (wasm.Instruction, bool) {
		idx, ok := ins.FuncRef()
		if !ok || must(idx) == idx {
			return ins, false
		}
		return ins.WithFuncRef(must(idx)), true
	})
	if err != nil {
		return pass.Unchanged(), errors.TranslationFailed(SnipName, err)
	}

	if err := out.ParseNames(); err != nil {
		return pass.Unchanged(), errors.TranslationFailed(SnipName, err)
	}
	if out.Names != nil {
		out.Names.RemapFunctions(lookup)
	}
	if _, err := compactTypes(out, false); err != nil {
		return pass.Unchanged(), errors.TranslationFailed(SnipName, err)
	}

	Logger().Debug("snipped unreachable functions",
		zap.Int("removed", removed), zap.Int("remaining", len(out.Funcs)))
	*m = *out
	return pass.Mutated(), nil
}

// snipElement drops entries that point at removed functions and renumbers
// the rest. Entries that are not function references are kept.
func snipElement(elem *wasm.Element, lookup func(uint32) (uint32, bool)) {
	if elem.FuncIdxs != nil {
		kept := elem.FuncIdxs[:0]
		for _, idx := range elem.FuncIdxs {
			if n, ok := lookup(idx); ok {
				kept = append(kept, n)
			}
		}
		elem.FuncIdxs = kept
	}
	if elem.Exprs != nil {
		kept := elem.Exprs[:0]
		for _, expr := range elem.Exprs {
			idx, ok := wasm.InitExprFuncRef(expr)
			if !ok {
				kept = append(kept, expr)
				continue
			}
			if _, live := lookup(idx); !live {
				continue
			}
			kept = append(kept, rewriteExprFuncRef(expr, func(i uint32) uint32 {
				n, _ := lookup(i)
				return n
			}))
		}
		elem.Exprs = kept
	}
}
