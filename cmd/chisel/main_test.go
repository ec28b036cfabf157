package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewasm/wasm-chisel/wasm"
)

func contract() []byte {
	end := []byte{wasm.OpEnd}
	m := &wasm.Module{
		Types:    []wasm.FuncType{{}},
		Funcs:    []uint32{0, 0},
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		Exports: []wasm.Export{
			{Name: "main", Kind: wasm.KindFunc, Idx: 0},
			{Name: "memory", Kind: wasm.KindMemory, Idx: 0},
			{Name: "extra", Kind: wasm.KindFunc, Idx: 1},
		},
		Code: []wasm.FuncBody{{Code: end}, {Code: end}},
	}
	return m.Encode()
}

func invoke(t *testing.T, fs afero.Fs, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--log-level", "error"}, args...)
	code := execute(context.Background(), args, fs, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "contract.wasm", contract(), 0o644))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func TestRunSucceeds(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"chisel.yml": `
contract:
  file: contract.wasm
  output: out.wasm
  trimexports:
    preset: ewasm
  checkstartfunc:
    startfunc: false
`,
	})

	code, out, errOut := invoke(t, fs, "run")
	assert.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Ruleset contract:")
	assert.Contains(t, out, "trimexports: Translated")
	assert.Contains(t, out, "checkstartfunc: OK")
	assert.Contains(t, out, "Writing to file: out.wasm")
	assert.Contains(t, out, "1 ruleset(s) passed")

	data, err := afero.ReadFile(fs, "out.wasm")
	require.NoError(t, err)
	m, err := wasm.ParseModule(data)
	require.NoError(t, err)
	assert.Len(t, m.Exports, 2)
}

func TestRunExitCodeCountsFailures(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"rules.yml": `
first:
  file: contract.wasm
  checkstartfunc:
    startfunc: true
second:
  file: contract.wasm
  checkfloat:
third:
  file: contract.wasm
  verifyexports:
    preset: pwasm
`,
	})

	code, out, _ := invoke(t, fs, "run", "-c", "rules.yml")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "2 of 3 ruleset(s) failed")
	assert.Contains(t, out, "checkstartfunc: Malformed")
}

func TestRunConfigFromEnvironment(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"env.yml": "contract:\n  file: contract.wasm\n  checkfloat:\n",
	})
	t.Setenv("CHISEL_CONFIG", "env.yml")

	code, out, _ := invoke(t, fs, "run")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "checkfloat: OK")
}

func TestRunDryRunDoesNotWrite(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"chisel.yml": "contract:\n  file: contract.wasm\n  output: out.wasm\n  trimexports:\n    preset: ewasm\n",
	})

	code, out, _ := invoke(t, fs, "run", "--dry-run")
	assert.Equal(t, 0, code)
	assert.NotContains(t, out, "Writing to file")

	exists, err := afero.Exists(fs, "out.wasm")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunFatalErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		args  []string
	}{
		{name: "missing config", args: []string{"run"}},
		{name: "bad yaml", files: map[string]string{"chisel.yml": "- a\n- b\n"}, args: []string{"run"}},
		{name: "missing module", files: map[string]string{"chisel.yml": "x:\n  file: nope.wasm\n"}, args: []string{"run"}},
		{name: "bad log level", files: map[string]string{"chisel.yml": ""}, args: []string{"--log-level", "loud", "run"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := writeFiles(t, tt.files)
			var stdout, stderr bytes.Buffer
			code := execute(context.Background(), tt.args, fs, &stdout, &stderr)
			assert.Equal(t, exitFatal, code)
			assert.Contains(t, stderr.String(), "chisel:")
		})
	}
}

func TestPassesListing(t *testing.T) {
	code, out, _ := invoke(t, afero.NewMemMapFs(), "passes", "--no-color")
	assert.Equal(t, 0, code)
	for _, name := range []string{"checkfloat", "verifyimports", "snip", "deployer"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "ewasm")
}

func TestFailuresCode(t *testing.T) {
	assert.Equal(t, 0, failuresCode(0))
	assert.Equal(t, 3, failuresCode(3))
	assert.Equal(t, maxFailuresCode, failuresCode(1000))
}
