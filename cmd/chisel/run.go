package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ewasm/wasm-chisel/config"
	"github.com/ewasm/wasm-chisel/internal/report"
	"github.com/ewasm/wasm-chisel/internal/verify"
	"github.com/ewasm/wasm-chisel/pipeline"
)

func newRunCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every ruleset in the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd)
		},
	}
	flags := cmd.Flags()
	flags.StringP(keyConfig, "c", config.DefaultPath, "ruleset configuration file")
	flags.Bool(keyVerify, false, "compile rewritten modules before writing them")
	flags.Bool(keyDryRun, false, "run passes without writing any output")
	c.bind(flags)
	return cmd
}

func (c *cli) run(cmd *cobra.Command) error {
	path := c.configPath()
	doc, err := config.Load(c.fs, path)
	if err != nil {
		return &ExitError{Code: exitFatal, Err: err}
	}

	opts := []pipeline.Option{pipeline.WithDryRun(c.v.GetBool(keyDryRun))}
	if c.v.GetBool(keyVerify) {
		opts = append(opts, pipeline.WithVerifier(verify.New(nil)))
	}
	runner := pipeline.NewRunner(c.fs, opts...)

	reports, failures, runErr := runner.RunAll(cmd.Context(), doc)

	r := report.NewRenderer(c.color())
	if err := r.Render(c.stdout, reports, failures); err != nil {
		return &ExitError{Code: exitFatal, Err: err}
	}
	if runErr != nil {
		return &ExitError{Code: exitFatal, Err: runErr}
	}
	if failures > 0 {
		return &ExitError{Code: failuresCode(failures)}
	}
	return nil
}

func (c *cli) color() bool {
	if c.v.GetBool(keyNoColor) {
		return false
	}
	f, ok := c.stdout.(*os.File)
	return ok && report.IsTerminal(f)
}
