// Package verify checks output modules by compiling them with wazero.
package verify

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
)

// Config holds compiler settings.
type Config struct {
	// MemoryLimitPages caps declared memories. Zero keeps the wazero default.
	MemoryLimitPages uint32
	EnableThreads    bool
}

// Verifier compiles modules without instantiating them, so imports need not
// be satisfied.
type Verifier struct {
	cfg wazero.RuntimeConfig
}

// New returns a verifier. A nil cfg uses the defaults.
func New(cfg *Config) *Verifier {
	runtimeCfg := wazero.NewRuntimeConfigInterpreter()
	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.EnableThreads {
			runtimeCfg = runtimeCfg.WithCoreFeatures(api.CoreFeaturesV2 | experimental.CoreFeaturesThreads)
		}
	}
	return &Verifier{cfg: runtimeCfg}
}

// Verify reports an error when wazero rejects binary.
func (v *Verifier) Verify(ctx context.Context, binary []byte) error {
	rt := wazero.NewRuntimeWithConfig(ctx, v.cfg)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, binary)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	return compiled.Close(ctx)
}
