// Package pipeline runs configured passes over WebAssembly modules.
//
// Execute applies an ordered list of steps to one module and records one
// Outcome per step. A Report is successful when every validator answered
// true and no step failed; translators that had nothing to do count as
// success.
//
// Runner drives whole rulesets: it reads the target file, decodes it, runs
// the steps and writes the result back only when the module changed.
//
//	runner := pipeline.NewRunner(afero.NewOsFs())
//	reports, failures, err := runner.RunAll(ctx, doc)
package pipeline
