// Package chisel inspects and rewrites WebAssembly modules through a
// pipeline of named passes.
//
// Validators answer a yes/no policy question about a module (does it use
// floating point, does it import only what the host provides). Translators
// rewrite it (trim exports, remove unreachable code, wrap it in a deployer).
//
// # Architecture Overview
//
//	chisel/            Byte-level facade over the pipeline
//	├── wasm/          Binary codec, instruction codec, name section
//	├── errors/        Structured error types
//	├── pass/          Validator and translator capabilities, Apply
//	├── imports/       Host import catalogs (ewasm, eth2, debug, bignum, wasi)
//	├── passes/        The built-in passes and their registry
//	├── pipeline/      Step execution and the file-based ruleset runner
//	├── config/        Ruleset document loader
//	└── cmd/chisel/    Command line interface
//
// # Quick Start
//
// Run passes over a module held in memory:
//
//	out, report, err := chisel.Transform(binary,
//		pipeline.Step{Name: "verifyimports", Config: pass.Config{"preset": "ewasm"}},
//		pipeline.Step{Name: "trimexports", Config: pass.Config{"preset": "ewasm"}},
//		pipeline.Step{Name: "snip"},
//	)
//	if err != nil {
//		return err
//	}
//	if !report.OK() {
//		// inspect report.Failures()
//	}
//
// Run a ruleset document against files:
//
//	doc, err := config.Load(afero.NewOsFs(), "chisel.yml")
//	reports, failures, err := pipeline.NewRunner(afero.NewOsFs()).RunAll(ctx, doc)
//
// # Error Handling
//
// Errors are *errors.Error values carrying a phase and a kind:
//
//	if errors.IsKind(err, errors.KindUnsupportedConfiguration) {
//		// a pass could not be built from its configuration
//	}
package chisel
