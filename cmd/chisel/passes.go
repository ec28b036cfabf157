package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ewasm/wasm-chisel/internal/report"
	"github.com/ewasm/wasm-chisel/passes"
)

func newPassesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "passes",
		Short: "List the available passes and their presets",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			r := report.NewRenderer(c.color())
			_, err := fmt.Fprint(c.stdout, r.Passes(passes.Default().Descriptors()))
			return err
		},
	}
}
