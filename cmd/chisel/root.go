package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ewasm/wasm-chisel/config"
	"github.com/ewasm/wasm-chisel/passes"
	"github.com/ewasm/wasm-chisel/pipeline"
)

// Version is the release version (set via -ldflags).
var Version = "dev"

const envPrefix = "chisel"

// Setting keys shared by flags, environment variables and viper lookups.
const (
	keyConfig   = "config"
	keyLogLevel = "log-level"
	keyNoColor  = "no-color"
	keyVerify   = "verify"
	keyDryRun   = "dry-run"
)

// cli holds the state shared by all subcommands of one invocation.
type cli struct {
	fs     afero.Fs
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

func newRootCmd(fs afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{fs: fs, v: viper.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:     "chisel",
		Short:   "Validate and transform WebAssembly modules",
		Version: Version,
		Long: `chisel runs validator and translator passes over WebAssembly modules.

Rulesets are read from a YAML document (chisel.yml by default):

  contract:
    file: "contract.wasm"
    output: "contract.opt.wasm"
    verifyimports:
      preset: "ewasm"
    trimexports:
      preset: "ewasm"
    snip:

The exit status is the number of failing rulesets, or 255 on a fatal error.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setupLogging()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.String(keyLogLevel, "warn", "log level (debug, info, warn, error)")
	flags.Bool(keyNoColor, false, "disable colored output")
	c.bind(flags)
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(newRunCmd(c), newPassesCmd(c))
	return root
}

// bind registers flags with viper so each setting can also come from a
// CHISEL_ environment variable.
func (c *cli) bind(flags *pflag.FlagSet) {
	if err := c.v.BindPFlags(flags); err != nil {
		panic(err)
	}
}

func (c *cli) setupLogging() error {
	level, err := zap.ParseAtomicLevel(c.v.GetString(keyLogLevel))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.v.GetString(keyLogLevel), err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	c.logger = logger
	passes.SetLogger(logger)
	pipeline.SetLogger(logger.Named("pipeline"))
	return nil
}

// execute runs the command line and returns the process exit status.
func execute(ctx context.Context, args []string, fs afero.Fs, stdout, stderr io.Writer) int {
	root := newRootCmd(fs, stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "chisel: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "chisel: %v\n", err)
	return exitFatal
}

func (c *cli) configPath() string {
	if p := c.v.GetString(keyConfig); p != "" {
		return p
	}
	return config.DefaultPath
}
