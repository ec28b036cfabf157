// Package wasm provides WebAssembly binary format parsing and encoding.
//
// The decoder keeps enough structure for module-level rewriting: types,
// imports, functions, tables, memories, globals, exports, the start function,
// element and data segments and custom sections. Function bodies and
// constant expressions are kept as raw bytes and decoded into instructions
// on demand with DecodeInstructions.
//
// Encode always writes sections in canonical order, so two modules are
// considered equal when their encodings are identical (see Module.Equal).
//
// # Parsing
//
//	data, _ := os.ReadFile("module.wasm")
//	module, err := wasm.ParseModule(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Parse with index validation:
//
//	module, err := wasm.ParseModuleValidate(data)
//
// # Names
//
// The "name" custom section is kept raw until ParseNames is called. After
// that, Module.Names is authoritative and is re-encoded in place of the raw
// section, which lets passes that renumber functions keep debug names
// consistent.
//
// # Instructions
//
//	instrs, err := wasm.DecodeInstructions(module.Code[0].Code)
//	for _, ins := range instrs {
//	    if idx, ok := ins.FuncRef(); ok {
//	        fmt.Println("references function", idx)
//	    }
//	}
//	module.Code[0].Code = wasm.EncodeInstructions(instrs)
package wasm
