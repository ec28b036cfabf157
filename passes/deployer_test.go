package passes_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/passes"
	"github.com/ewasm/wasm-chisel/wasm"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestDeployerPages(t *testing.T) {
	tests := []struct {
		n    int
		want uint64
	}{
		{0, 1},
		{1, 1},
		{65535, 1},
		{65536, 2},
		{632232, 10},
	}
	for _, tt := range tests {
		if got := passes.DeployerPages(tt.n); got != tt.want {
			t.Errorf("DeployerPages(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestMemoryDeployerEncoding(t *testing.T) {
	want := mustHex(t, "0061736d01000000"+
		"0109026002"+"7f7f00"+"600000"+
		"021301"+"08657468657265756d"+"0666696e697368"+"0000"+
		"03020101"+
		"0503010001"+
		"071102"+"046d61696e"+"0001"+"066d656d6f7279"+"0200"+
		"0a0a0108004100410010000b"+
		"0b0601004100"+"0b00")
	got := passes.MemoryDeployer(nil).Encode()
	if !bytes.Equal(got, want) {
		t.Fatalf("encoding mismatch\n got %x\nwant %x", got, want)
	}
}

func TestMemoryDeployerPayload(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 632232)
	m := passes.MemoryDeployer(payload)
	if m.Memories[0].Limits.Min != 10 {
		t.Fatalf("pages = %d, want 10", m.Memories[0].Limits.Min)
	}
	if !bytes.Equal(m.Data[0].Init, payload) {
		t.Fatal("data segment does not hold the payload")
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestCustomSectionDeployerEncoding(t *testing.T) {
	bootstrap := passes.CustomSectionDeployer(nil)
	bootstrap.CustomSections = nil
	prefix := bootstrap.Encode()

	tests := []struct {
		name    string
		payload []byte
		suffix  string
	}{
		{"empty", nil, "000d086465706c6f79657200000000"},
		{"bytes", mustHex(t, "80ff007faa550011"), "0015086465706c6f79657280ff007faa55001108000000"},
		{"empty module", (&wasm.Module{}).Encode(), "0015086465706c6f7965720061736d0100000008000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := passes.CustomSectionDeployer(tt.payload).Encode()
			want := append(append([]byte(nil), prefix...), mustHex(t, tt.suffix)...)
			if !bytes.Equal(got, want) {
				t.Fatalf("encoding mismatch\n got %x\nwant %x", got, want)
			}
		})
	}
}

func TestCustomSectionDeployerPages(t *testing.T) {
	for n, want := range map[int]uint64{0: 1, 632232: 10} {
		m := passes.CustomSectionDeployer(make([]byte, n))
		if m.Memories[0].Limits.Min != want {
			t.Errorf("payload %d: pages = %d, want %d", n, m.Memories[0].Limits.Min, want)
		}
		cs, ok := m.CustomSection(passes.DeployerSection)
		if !ok || len(cs.Data) != n+4 {
			t.Errorf("payload %d: deployer section missing or sized wrong", n)
		}
	}
}

func TestDeployerTranslateReplaces(t *testing.T) {
	for _, preset := range []string{"memory", "customsection"} {
		t.Run(preset, func(t *testing.T) {
			m := exportModule()
			payload := m.Encode()
			res := mustTranslate(t, translator(t, "deployer", pass.Config{"preset": preset}), m)
			if res.Kind != pass.ResultReplaced || res.Module == nil {
				t.Fatalf("Translate = %v", res.Kind)
			}
			if !bytes.Equal(runDeployer(t, res.Module.Encode()), payload) {
				t.Fatal("deployer did not return the original module")
			}
		})
	}
}

// runDeployer instantiates code against a minimal ethereum host and returns
// what its main function passed to finish.
func runDeployer(t *testing.T, code []byte) []byte {
	t.Helper()
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	var out []byte
	_, err := r.NewHostModuleBuilder("ethereum").
		NewFunctionBuilder().
		WithFunc(func() uint32 { return uint32(len(code)) }).
		Export("getCodeSize").
		NewFunctionBuilder().
		WithFunc(func(_ context.Context, mod api.Module, resultOffset, codeOffset, length uint32) {
			if !mod.Memory().Write(resultOffset, code[codeOffset:codeOffset+length]) {
				t.Error("codeCopy out of bounds")
			}
		}).
		Export("codeCopy").
		NewFunctionBuilder().
		WithFunc(func(_ context.Context, mod api.Module, ptr, size uint32) {
			b, ok := mod.Memory().Read(ptr, size)
			if !ok {
				t.Error("finish out of bounds")
			}
			out = append([]byte(nil), b...)
		}).
		Export("finish").
		Instantiate(ctx)
	if err != nil {
		t.Fatal(err)
	}

	mod, err := r.Instantiate(ctx, code)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mod.ExportedFunction("main").Call(ctx); err != nil {
		t.Fatal(err)
	}
	return out
}
