package pipeline

import (
	"go.uber.org/zap"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/passes"
	"github.com/ewasm/wasm-chisel/wasm"
)

// Step names a pass and its configuration.
type Step struct {
	Config pass.Config
	Name   string
}

// Outcome records what one step did.
type Outcome struct {
	Err    error
	Pass   string
	Kind   pass.Kind
	Status pass.Status
}

// OK reports whether the outcome counts as success.
func (o Outcome) OK() bool { return o.Status.OK() }

// Report collects the outcomes of a step list in order.
type Report struct {
	Outcomes []Outcome
}

// OK is the logical AND of every outcome. An empty report is successful.
func (r Report) OK() bool {
	for _, o := range r.Outcomes {
		if !o.OK() {
			return false
		}
	}
	return true
}

// Failures returns the outcomes that did not succeed.
func (r Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Translated reports whether any step rewrote the module.
func (r Report) Translated() bool {
	for _, o := range r.Outcomes {
		if o.Status == pass.StatusTranslated {
			return true
		}
	}
	return false
}

// Execute runs steps over m in order and returns the resulting module, which
// differs from m when a translator replaced it. Steps whose pass cannot be
// built fail without stopping the steps after them.
func Execute(m *wasm.Module, steps []Step, reg *passes.Registry) (*wasm.Module, Report) {
	if reg == nil {
		reg = passes.Default()
	}
	var report Report
	for _, step := range steps {
		var out Outcome
		m, out = executeStep(m, step, reg)
		Logger().Debug("pass executed",
			zap.String("pass", out.Pass),
			zap.Stringer("kind", out.Kind),
			zap.Stringer("status", out.Status),
			zap.Error(out.Err))
		report.Outcomes = append(report.Outcomes, out)
	}
	return m, report
}

func executeStep(m *wasm.Module, step Step, reg *passes.Registry) (*wasm.Module, Outcome) {
	out := Outcome{Pass: step.Name}
	if d, ok := reg.Lookup(step.Name); ok {
		out.Kind = d.Kind
	}

	p, err := reg.Build(step.Name, step.Config)
	if err != nil {
		out.Status, out.Err = pass.StatusFailed, err
		return m, out
	}
	out.Kind = p.Kind()

	if p.Kind().Validates() {
		v, ok := p.(pass.Validator)
		if !ok {
			out.Status, out.Err = pass.StatusFailed, missingCapability(p, "validator")
			return m, out
		}
		valid, err := v.Validate(m)
		switch {
		case err != nil:
			out.Status, out.Err = pass.StatusFailed, err
			return m, out
		case !valid:
			out.Status = pass.StatusValidatedFalse
			return m, out
		}
		out.Status = pass.StatusValidatedTrue
	}

	if p.Kind().Translates() {
		t, ok := p.(pass.Translator)
		if !ok {
			out.Status, out.Err = pass.StatusFailed, missingCapability(p, "translator")
			return m, out
		}
		m, out.Status, out.Err = pass.Apply(t, m)
	}
	return m, out
}

func missingCapability(p pass.Pass, what string) error {
	return errors.New(errors.PhasePipeline, errors.KindUnsupported).
		Pass(p.Name()).
		Detail("pass of kind %s does not implement %s", p.Kind(), what).
		Build()
}
