package pass

import "github.com/ewasm/wasm-chisel/wasm"

// ResultKind distinguishes the three translation outcomes.
type ResultKind uint8

const (
	ResultUnchanged ResultKind = iota
	ResultMutated
	ResultReplaced
)

func (k ResultKind) String() string {
	switch k {
	case ResultUnchanged:
		return "unchanged"
	case ResultMutated:
		return "mutated"
	case ResultReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Result is what a Translator reports back.
type Result struct {
	Module *wasm.Module // set only for ResultReplaced
	Kind   ResultKind
}

// Unchanged reports that the translator had nothing to do.
func Unchanged() Result { return Result{Kind: ResultUnchanged} }

// Mutated reports that the module was rewritten in place.
func Mutated() Result { return Result{Kind: ResultMutated} }

// MutatedIf returns Mutated when changed is true and Unchanged otherwise.
func MutatedIf(changed bool) Result {
	if changed {
		return Mutated()
	}
	return Unchanged()
}

// Replace reports that m supersedes the input module.
func Replace(m *wasm.Module) Result { return Result{Kind: ResultReplaced, Module: m} }

// Changed reports whether the result altered the module.
func (r Result) Changed() bool { return r.Kind != ResultUnchanged }
