// Package pass defines the capability model shared by every chisel pass.
//
// A pass is either a Validator, which answers a yes/no policy question about
// a module without changing it, or a Translator, which rewrites it. Passes of
// kind Both implement both interfaces; the pipeline validates first and
// translates only when validation succeeds.
//
// # Translation results
//
// Translate returns a tri-state Result:
//
//	pass.Unchanged()        // nothing to do
//	pass.Mutated()          // the module was rewritten in place
//	pass.Replace(newModule) // the caller must swap its module reference
//
// A translator that fails leaves its input untouched. Apply enforces this
// and additionally rejects rewrites that break index validity of a module
// that was valid before.
//
// # Construction
//
// Every pass can be built from a Config, a flat string map. The "preset" key
// selects one of the pass's fixed presets; other keys are pass specific.
// Construction failures are reported as unsupported_configuration errors.
package pass
