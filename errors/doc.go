// Package errors provides structured error types for chisel.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the pass name, a location path and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseTranslate, errors.KindTranslationFailed).
//		Pass("remapimports").
//		Path("env", "foo").
//		Detail("import not present").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownPreset("trimexports", "wasi")
//	err := errors.NotFound(errors.PhaseValidate, "code section")
//
// Kind checks ignore the phase:
//
//	if errors.IsKind(err, errors.KindUnsupportedConfiguration) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
