package pass

import (
	stderrors "errors"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/wasm"
)

var errNilReplacement = stderrors.New("translator returned a nil replacement module")

// Apply runs t on m and returns the module the caller should continue with.
//
// On ResultReplaced the returned module is the replacement. On failure the
// original module is returned untouched together with a translation_failed
// error. A rewrite that turns a structurally valid module into an invalid
// one is treated as a failure and rolled back.
func Apply(t Translator, m *wasm.Module) (*wasm.Module, Status, error) {
	valid := m.Validate() == nil
	snapshot := m.Clone()
	restore := func() { *m = *snapshot }

	res, err := t.Translate(m)
	if err != nil {
		restore()
		return m, StatusFailed, asTranslationFailed(t.Name(), err)
	}

	out := m
	switch res.Kind {
	case ResultUnchanged:
		return m, StatusNotTranslated, nil
	case ResultReplaced:
		if res.Module == nil {
			restore()
			return m, StatusFailed, errors.TranslationFailed(t.Name(), errNilReplacement)
		}
		out = res.Module
	}

	if valid {
		if err := out.Validate(); err != nil {
			restore()
			return m, StatusFailed, errors.TranslationFailed(t.Name(), err)
		}
	}
	return out, StatusTranslated, nil
}

func asTranslationFailed(name string, err error) error {
	if errors.IsKind(err, errors.KindTranslationFailed) {
		return err
	}
	return errors.TranslationFailed(name, err)
}
