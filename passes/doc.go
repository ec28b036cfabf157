// Package passes contains the chisel pass catalog.
//
// Validators:
//
//	checkfloat      reject floating point instructions
//	verifyimports   check imports against a host interface catalog
//	verifyexports   check the exported entry points
//	checkstartfunc  check for the presence of a start function
//
// Translators:
//
//	dropnames       remove the debug name section
//	dropsection     remove a custom section by name or position
//	remapimports    move env.<ns>_<field> imports to their host namespace
//	trimexports     remove exports outside the preset's interface
//	trimstartfunc   remove the start function
//	remapstart      export the start function as main, or re-point it
//	deployer        wrap the module in a deployment bootstrap
//	repack          deduplicate and prune function types
//	snip            remove functions unreachable from the module's roots
//
// Passes are built by name through a Registry:
//
//	reg := passes.Default()
//	p, err := reg.Build("verifyimports", pass.Config{"preset": "ewasm"})
//
// Translators that rewrite in place work on a clone and commit only on
// success.
package passes
