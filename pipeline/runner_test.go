package pipeline_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewasm/wasm-chisel/config"
	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/pipeline"
	"github.com/ewasm/wasm-chisel/wasm"
)

func writeModule(t *testing.T, fs afero.Fs, path string, m *wasm.Module) []byte {
	t.Helper()
	data := m.Encode()
	require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
	return data
}

func readModule(t *testing.T, fs afero.Fs, path string) *wasm.Module {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	m, err := wasm.ParseModule(data)
	require.NoError(t, err)
	return m
}

func ruleset(file, output string, steps ...config.PassEntry) config.Ruleset {
	return config.Ruleset{Name: "test", File: file, Output: output, Passes: steps}
}

func entry(name string, cfg pass.Config) config.PassEntry {
	return config.PassEntry{Name: name, Config: cfg}
}

type verifierFunc func([]byte) error

func (f verifierFunc) Verify(_ context.Context, b []byte) error { return f(b) }

func TestRunWritesBackWhenChanged(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeModule(t, fs, "c.wasm", contract())

	res, err := pipeline.NewRunner(fs).Run(context.Background(), ruleset("c.wasm", "",
		entry("trimexports", pass.Config{"preset": "ewasm"}),
		entry("checkstartfunc", pass.Config{"startfunc": "true"}),
	))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.True(t, res.Written)
	assert.Equal(t, "c.wasm", res.Path)

	m := readModule(t, fs, "c.wasm")
	assert.Len(t, m.Exports, 2)
}

func TestRunFailingRulesetStillWritesChanges(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeModule(t, fs, "c.wasm", contract())

	res, err := pipeline.NewRunner(fs).Run(context.Background(), ruleset("c.wasm", "out.wasm",
		entry("trimstartfunc", pass.Config{"preset": "ewasm"}),
		entry("checkstartfunc", pass.Config{"startfunc": "true"}),
	))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.True(t, res.Written)
	assert.Nil(t, readModule(t, fs, "out.wasm").Start)
	assert.NotNil(t, readModule(t, fs, "c.wasm").Start)
}

func TestRunUnchangedDoesNotWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := contract()
	m.Exports = m.Exports[:2]
	m.Imports[0].Module = "env"
	writeModule(t, fs, "c.wasm", m)

	res, err := pipeline.NewRunner(fs).Run(context.Background(), ruleset("c.wasm", "out.wasm",
		entry("verifyimports", pass.Config{"preset": "ewasm"}),
		entry("trimexports", pass.Config{"preset": "ewasm"}),
	))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.False(t, res.Written)

	exists, err := afero.Exists(fs, "out.wasm")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunKeepsNames(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := contract()
	ns := &wasm.NameSection{FunctionNames: wasm.NameMap{{Index: 1, Name: "main"}, {Index: 2, Name: "init"}}}
	m.CustomSections = []wasm.CustomSection{{Name: wasm.NameSectionName, Data: ns.Encode()}}
	writeModule(t, fs, "c.wasm", m)

	_, err := pipeline.NewRunner(fs).Run(context.Background(), ruleset("c.wasm", "",
		entry("trimexports", pass.Config{"preset": "ewasm"}),
	))
	require.NoError(t, err)

	out := readModule(t, fs, "c.wasm")
	require.NoError(t, out.ParseNames())
	name, ok := out.FunctionName(2)
	assert.True(t, ok)
	assert.Equal(t, "init", name)
}

func TestRunDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	before := writeModule(t, fs, "c.wasm", contract())

	res, err := pipeline.NewRunner(fs, pipeline.WithDryRun(true)).Run(context.Background(), ruleset("c.wasm", "",
		entry("trimexports", pass.Config{"preset": "ewasm"}),
	))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.False(t, res.Written)

	after, err := afero.ReadFile(fs, "c.wasm")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunVerifierRejects(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeModule(t, fs, "c.wasm", contract())

	reject := verifierFunc(func([]byte) error { return stderrors.New("nope") })
	res, err := pipeline.NewRunner(fs, pipeline.WithVerifier(reject)).Run(context.Background(), ruleset("c.wasm", "out.wasm",
		entry("trimexports", pass.Config{"preset": "ewasm"}),
	))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.False(t, res.Written)

	last := res.Report.Outcomes[len(res.Report.Outcomes)-1]
	assert.Equal(t, pipeline.VerifyStepName, last.Pass)
	assert.True(t, errors.IsKind(last.Err, errors.KindInvalidData))
}

func TestRunFatalErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.wasm", []byte("not wasm"), 0o644))
	runner := pipeline.NewRunner(fs)

	_, err := runner.Run(context.Background(), ruleset("missing.wasm", ""))
	assert.True(t, errors.IsKind(err, errors.KindIO))

	_, err = runner.Run(context.Background(), ruleset("bad.wasm", ""))
	assert.True(t, errors.IsKind(err, errors.KindInvalidData))
}

func TestRunAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeModule(t, fs, "a.wasm", contract())
	writeModule(t, fs, "b.wasm", contract())

	doc := &config.Document{Rulesets: []config.Ruleset{
		{Name: "ok", File: "a.wasm", Passes: []config.PassEntry{entry("checkstartfunc", pass.Config{"startfunc": "true"})}},
		{Name: "fails", File: "b.wasm", Passes: []config.PassEntry{entry("checkstartfunc", nil)}},
		{Name: "also fails", File: "b.wasm", Passes: []config.PassEntry{entry("nosuchpass", nil)}},
	}}
	reports, failures, err := pipeline.NewRunner(fs).RunAll(context.Background(), doc)
	require.NoError(t, err)
	assert.Len(t, reports, 3)
	assert.Equal(t, 2, failures)

	doc.Rulesets = append(doc.Rulesets[:1], config.Ruleset{Name: "fatal", File: "missing.wasm"}, doc.Rulesets[1])
	reports, failures, err = pipeline.NewRunner(fs).RunAll(context.Background(), doc)
	require.Error(t, err)
	assert.Len(t, reports, 1)
	assert.Equal(t, 0, failures)
}
