// Command chisel runs validator and translator passes over WebAssembly
// modules as described by a ruleset document.
package main

import (
	"context"
	"os"

	"github.com/spf13/afero"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}
