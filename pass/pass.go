package pass

import (
	"github.com/ewasm/wasm-chisel/wasm"
)

// Kind is the capability a pass advertises.
type Kind uint8

const (
	KindValidator Kind = iota + 1
	KindTranslator
	KindBoth
)

func (k Kind) String() string {
	switch k {
	case KindValidator:
		return "validator"
	case KindTranslator:
		return "translator"
	case KindBoth:
		return "validator+translator"
	default:
		return "unknown"
	}
}

// Validates reports whether passes of this kind implement Validator.
func (k Kind) Validates() bool { return k == KindValidator || k == KindBoth }

// Translates reports whether passes of this kind implement Translator.
func (k Kind) Translates() bool { return k == KindTranslator || k == KindBoth }

// Pass is the common surface of validators and translators.
type Pass interface {
	Name() string
	Kind() Kind
}

// Validator checks a module against a policy. It must not mutate the module.
// It returns a not_found error only when a structural prerequisite is absent.
type Validator interface {
	Pass
	Validate(m *wasm.Module) (bool, error)
}

// Translator rewrites a module. On error the module must be left untouched.
type Translator interface {
	Pass
	Translate(m *wasm.Module) (Result, error)
}

// Constructor builds a pass from its configuration.
type Constructor func(cfg Config) (Pass, error)
