package passes

import (
	"bytes"
	"testing"

	"github.com/ewasm/wasm-chisel/wasm"
)

func TestDeployerBootstrapRoundTrip(t *testing.T) {
	m, err := wasm.ParseModule(deployerBootstrap)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Encode(); !bytes.Equal(got, deployerBootstrap) {
		t.Fatalf("bootstrap does not round-trip\n got %x\nwant %x", got, deployerBootstrap)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestCustomSectionDeployerNeedsMemory(t *testing.T) {
	saved := deployerBootstrap
	defer func() { deployerBootstrap = saved }()

	m, err := wasm.ParseModule(saved)
	if err != nil {
		t.Fatal(err)
	}
	m.Memories = nil
	m.Exports = m.Exports[1:]
	deployerBootstrap = m.Encode()

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a bootstrap without memory")
		}
	}()
	CustomSectionDeployer(nil)
}
