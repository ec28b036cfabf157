package pipeline

import (
	"context"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ewasm/wasm-chisel/config"
	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/passes"
	"github.com/ewasm/wasm-chisel/wasm"
)

// VerifyStepName labels the outcome of output verification.
const VerifyStepName = "verify"

// Verifier checks an encoded module before it is written.
type Verifier interface {
	Verify(ctx context.Context, binary []byte) error
}

// RulesetReport is the result of running one ruleset.
type RulesetReport struct {
	Name    string
	Path    string // file written, if any
	Report  Report
	Written bool
}

// OK reports whether every step of the ruleset succeeded.
func (r RulesetReport) OK() bool { return r.Report.OK() }

// Runner executes rulesets against files.
type Runner struct {
	fs       afero.Fs
	registry *passes.Registry
	verifier Verifier
	dryRun   bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithRegistry sets the pass registry. The default registry holds every
// built-in pass.
func WithRegistry(reg *passes.Registry) Option {
	return func(r *Runner) { r.registry = reg }
}

// WithVerifier checks every module before it is written.
func WithVerifier(v Verifier) Option {
	return func(r *Runner) { r.verifier = v }
}

// WithDryRun runs the passes without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) { r.dryRun = dryRun }
}

// NewRunner returns a runner reading and writing through fs.
func NewRunner(fs afero.Fs, opts ...Option) *Runner {
	r := &Runner{fs: fs}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = passes.Default()
	}
	return r
}

// Run executes one ruleset. A returned error is fatal: the target could not
// be read, decoded or written. Pass failures are reported, not returned.
func (r *Runner) Run(ctx context.Context, rs config.Ruleset) (RulesetReport, error) {
	res := RulesetReport{Name: rs.Name}
	log := Logger().With(zap.String("ruleset", rs.Name))

	data, err := afero.ReadFile(r.fs, rs.File)
	if err != nil {
		return res, errors.IO("read module", rs.File, err)
	}
	m, err := wasm.ParseModule(data)
	if err != nil {
		return res, errors.ParseFailed(rs.File, err)
	}
	if err := m.ParseNames(); err != nil {
		return res, errors.ParseFailed(rs.File, err)
	}
	original := m.Clone()

	steps := make([]Step, 0, len(rs.Passes))
	for _, p := range rs.Passes {
		steps = append(steps, Step{Name: p.Name, Config: p.Config})
	}
	m, res.Report = Execute(m, steps, r.registry)

	if original.Equal(m) {
		log.Debug("module unchanged", zap.String("file", rs.File))
		return res, nil
	}

	out := m.Encode()
	if r.verifier != nil {
		if err := r.verifier.Verify(ctx, out); err != nil {
			log.Warn("output verification failed", zap.Error(err))
			res.Report.Outcomes = append(res.Report.Outcomes, Outcome{
				Pass:   VerifyStepName,
				Status: pass.StatusFailed,
				Err:    errors.Wrap(errors.PhaseVerify, errors.KindInvalidData, err, "output module rejected"),
			})
			return res, nil
		}
	}

	path := rs.OutputPath()
	if r.dryRun {
		log.Info("dry run, not writing", zap.String("file", path), zap.Int("size", len(out)))
		return res, nil
	}
	if err := afero.WriteFile(r.fs, path, out, 0o644); err != nil {
		return res, errors.IO("write module", path, err)
	}
	log.Info("module written", zap.String("file", path), zap.Int("size", len(out)))
	res.Path, res.Written = path, true
	return res, nil
}

// RunAll runs every ruleset of doc in order. It returns the reports so far,
// the number of rulesets that failed and the first fatal error, which stops
// the run.
func (r *Runner) RunAll(ctx context.Context, doc *config.Document) ([]RulesetReport, int, error) {
	var (
		reports  []RulesetReport
		failures int
	)
	for _, rs := range doc.Rulesets {
		if err := ctx.Err(); err != nil {
			return reports, failures, err
		}
		res, err := r.Run(ctx, rs)
		if err != nil {
			return reports, failures, err
		}
		if !res.OK() {
			failures++
		}
		reports = append(reports, res)
	}
	return reports, failures, nil
}
