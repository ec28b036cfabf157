package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode    Phase = "decode"    // binary to module
	PhaseEncode    Phase = "encode"    // module to binary
	PhaseConfig    Phase = "config"    // ruleset and pass configuration
	PhaseValidate  Phase = "validate"  // validator passes
	PhaseTranslate Phase = "translate" // translator passes
	PhasePipeline  Phase = "pipeline"  // orchestration and file handling
	PhaseVerify    Phase = "verify"    // output verification
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound                 Kind = "not_found"
	KindUnsupported              Kind = "unsupported"
	KindUnsupportedConfiguration Kind = "unsupported_configuration"
	KindTranslationFailed        Kind = "translation_failed"
	KindInvalidData              Kind = "invalid_data"
	KindInvalidInput             Kind = "invalid_input"
	KindOutOfBounds              Kind = "out_of_bounds"
	KindIO                       Kind = "io"
)

// Error is the structured error type used across chisel
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Pass   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Pass != "" {
		b.WriteString(": pass ")
		b.WriteString(e.Pass)
	}

	if e.Detail != "" {
		if e.Pass != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target with an empty Phase matches any phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase == "" {
			return e.Kind == t.Kind
		}
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return stderrors.Is(err, &Error{Kind: kind})
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Pass sets the pass name
func (b *Builder) Pass(name string) *Builder {
	b.err.Pass = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotFound reports a missing structural prerequisite, such as a module without a code section.
func NotFound(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s not found", what),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// UnsupportedConfiguration reports a pass that cannot be built from the given preset or config.
func UnsupportedConfiguration(pass, detail string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindUnsupportedConfiguration,
		Pass:   pass,
		Detail: detail,
	}
}

// UnknownPreset is the UnsupportedConfiguration error for a preset outside a pass's catalog.
func UnknownPreset(pass, preset string) *Error {
	return UnsupportedConfiguration(pass, fmt.Sprintf("unknown preset %q", preset))
}

// TranslationFailed wraps a translator failure.
func TranslationFailed(pass string, cause error) *Error {
	return &Error{
		Phase:  PhaseTranslate,
		Kind:   KindTranslationFailed,
		Pass:   pass,
		Detail: "module translation failed",
		Cause:  cause,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a decoding error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// IO creates a file access error
func IO(op, path string, cause error) *Error {
	return &Error{
		Phase:  PhasePipeline,
		Kind:   KindIO,
		Path:   []string{path},
		Detail: op,
		Cause:  cause,
	}
}
