package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseTranslate,
				Kind:   KindTranslationFailed,
				Path:   []string{"env", "foo"},
				Pass:   "remapimports",
				Detail: "import not present",
			},
			contains: []string{"[translate]", "translation_failed", "env.foo", "pass remapimports", "import not present"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindInvalidData,
			},
			contains: []string{"[decode]", "invalid_data"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhasePipeline,
				Kind:   KindIO,
				Detail: "read",
				Cause:  errors.New("permission denied"),
			},
			contains: []string{"[pipeline]", "io", "read", "caused by", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseConfig,
		Kind:  KindUnsupportedConfiguration,
		Pass:  "deployer",
	}

	if !err.Is(&Error{Phase: PhaseConfig, Kind: KindUnsupportedConfiguration}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindUnsupportedConfiguration}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseConfig, Kind: KindNotFound}) {
		t.Error("Is should not match different kind")
	}
	if !err.Is(&Error{Kind: KindUnsupportedConfiguration}) {
		t.Error("Is should match kind when target phase is empty")
	}
}

func TestIsKind(t *testing.T) {
	inner := NotFound(PhaseValidate, "code section")
	wrapped := fmt.Errorf("checkfloat: %w", inner)

	if !IsKind(wrapped, KindNotFound) {
		t.Error("IsKind should find kind through fmt wrapping")
	}
	if IsKind(wrapped, KindTranslationFailed) {
		t.Error("IsKind should not match other kinds")
	}
	if IsKind(errors.New("plain"), KindNotFound) {
		t.Error("IsKind should be false for plain errors")
	}

	chained := TranslationFailed("snip", inner)
	if !IsKind(chained, KindNotFound) {
		t.Error("IsKind should find kind in cause chain")
	}
	if KindOf(chained) != KindTranslationFailed {
		t.Errorf("KindOf = %v, want %v", KindOf(chained), KindTranslationFailed)
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("KindOf should be empty for plain errors")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseTranslate, KindTranslationFailed).
		Path("env", "foo").
		Pass("remapimports").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "import", "nothing").
		Build()

	if err.Phase != PhaseTranslate {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseTranslate)
	}
	if err.Kind != KindTranslationFailed {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTranslationFailed)
	}
	if len(err.Path) != 2 || err.Path[0] != "env" || err.Path[1] != "foo" {
		t.Errorf("Path = %v, want [env foo]", err.Path)
	}
	if err.Pass != "remapimports" {
		t.Errorf("Pass = %v, want 'remapimports'", err.Pass)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected import, got nothing" {
		t.Errorf("Detail = %v, want 'expected import, got nothing'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseValidate, "code section")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if err.Detail != "code section not found" {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("UnknownPreset", func(t *testing.T) {
		err := UnknownPreset("trimexports", "wasi")
		if err.Kind != KindUnsupportedConfiguration {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupportedConfiguration)
		}
		if err.Pass != "trimexports" || !strings.Contains(err.Detail, "wasi") {
			t.Errorf("Pass=%v Detail=%v", err.Pass, err.Detail)
		}
	})

	t.Run("TranslationFailed", func(t *testing.T) {
		cause := errors.New("boom")
		err := TranslationFailed("snip", cause)
		if err.Phase != PhaseTranslate || err.Kind != KindTranslationFailed {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
		if !errors.Is(err, cause) {
			t.Error("cause should be reachable")
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseTranslate, "in-place deployment")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseTranslate, []string{"start"}, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("IO", func(t *testing.T) {
		err := IO("read", "a.wasm", errors.New("missing"))
		if err.Kind != KindIO || err.Path[0] != "a.wasm" {
			t.Errorf("Kind=%v Path=%v", err.Kind, err.Path)
		}
	})

	t.Run("ParseFailed", func(t *testing.T) {
		err := ParseFailed("module", errors.New("bad magic"))
		if err.Phase != PhaseDecode || err.Kind != KindInvalidData {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
	})
}
