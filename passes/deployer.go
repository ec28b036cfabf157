package passes

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/wasm"
)

// DeployerName is the registry name of Deployer.
const DeployerName = "deployer"

// DeployerSection is the custom section that carries the payload of a
// customsection deployer.
const DeployerSection = "deployer"

const (
	ethereumNamespace = "ethereum"
	memoryExport      = "memory"
	pageSize          = 65536
)

// deployerBootstrap is the precompiled customsection deployer. Its main
// function copies the running code into memory, reads the trailing u32
// payload length and finishes with the payload that precedes it.
//
//	(import "ethereum" "getCodeSize" (func (result i32)))
//	(import "ethereum" "codeCopy" (func (param i32 i32 i32)))
//	(import "ethereum" "finish" (func (param i32 i32)))
//	(memory 1)
//	(export "memory" (memory 0))
//	(export "main" (func 3))
var deployerBootstrap = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, 0x01, 0x13, 0x04, 0x60,
	0x00, 0x01, 0x7f, 0x60, 0x03, 0x7f, 0x7f, 0x7f, 0x00, 0x60, 0x02, 0x7f,
	0x7f, 0x00, 0x60, 0x00, 0x00, 0x02, 0x3e, 0x03, 0x08, 0x65, 0x74, 0x68,
	0x65, 0x72, 0x65, 0x75, 0x6d, 0x0b, 0x67, 0x65, 0x74, 0x43, 0x6f, 0x64,
	0x65, 0x53, 0x69, 0x7a, 0x65, 0x00, 0x00, 0x08, 0x65, 0x74, 0x68, 0x65,
	0x72, 0x65, 0x75, 0x6d, 0x08, 0x63, 0x6f, 0x64, 0x65, 0x43, 0x6f, 0x70,
	0x79, 0x00, 0x01, 0x08, 0x65, 0x74, 0x68, 0x65, 0x72, 0x65, 0x75, 0x6d,
	0x06, 0x66, 0x69, 0x6e, 0x69, 0x73, 0x68, 0x00, 0x02, 0x03, 0x02, 0x01,
	0x03, 0x05, 0x03, 0x01, 0x00, 0x01, 0x07, 0x11, 0x02, 0x06, 0x6d, 0x65,
	0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00, 0x04, 0x6d, 0x61, 0x69, 0x6e, 0x00,
	0x03, 0x0a, 0x2c, 0x01, 0x2a, 0x01, 0x03, 0x7f, 0x10, 0x00, 0x21, 0x00,
	0x41, 0x00, 0x41, 0x00, 0x20, 0x00, 0x10, 0x01, 0x20, 0x00, 0x41, 0x04,
	0x6b, 0x28, 0x02, 0x00, 0x21, 0x02, 0x20, 0x00, 0x41, 0x04, 0x6b, 0x20,
	0x02, 0x6b, 0x21, 0x01, 0x20, 0x01, 0x20, 0x02, 0x10, 0x02, 0x0b,
}

// DeployerMode selects how the payload is embedded.
type DeployerMode int

const (
	// DeployerMemory places the payload in a data segment.
	DeployerMemory DeployerMode = iota + 1
	// DeployerCustomSection appends the payload as a custom section of a
	// fixed bootstrap module.
	DeployerCustomSection
)

func (d DeployerMode) String() string {
	switch d {
	case DeployerMemory:
		return PresetMemory
	case DeployerCustomSection:
		return PresetCustomSection
	}
	return fmt.Sprintf("DeployerMode(%d)", int(d))
}

// Deployer wraps a module into a deployer module whose main function returns
// the original module's bytes to the host.
type Deployer struct {
	mode DeployerMode
}

// NewDeployer builds the translator for preset "memory" or "customsection".
func NewDeployer(preset string) (*Deployer, error) {
	switch preset {
	case PresetMemory:
		return &Deployer{mode: DeployerMemory}, nil
	case PresetCustomSection:
		return &Deployer{mode: DeployerCustomSection}, nil
	}
	return nil, errors.UnknownPreset(DeployerName, preset)
}

func deployerFromConfig(cfg pass.Config) (pass.Pass, error) {
	if err := cfg.CheckKeys(DeployerName, pass.PresetKey); err != nil {
		return nil, err
	}
	preset, err := cfg.RequirePreset(DeployerName)
	if err != nil {
		return nil, err
	}
	return NewDeployer(preset)
}

func (*Deployer) Name() string    { return DeployerName }
func (*Deployer) Kind() pass.Kind { return pass.KindTranslator }

// Mode returns the embedding mode.
func (d *Deployer) Mode() DeployerMode { return d.mode }

// Translate always replaces the module.
func (d *Deployer) Translate(m *wasm.Module) (pass.Result, error) {
	payload := m.Encode()
	Logger().Debug("building deployer",
		zap.Stringer("mode", d.mode),
		zap.Int("payload", len(payload)),
		zap.Uint64("pages", DeployerPages(len(payload))))

	if d.mode == DeployerMemory {
		return pass.Replace(MemoryDeployer(payload)), nil
	}
	return pass.Replace(CustomSectionDeployer(payload)), nil
}

// DeployerPages is the initial memory size, in 64 KiB pages, that holds a
// payload of n bytes.
func DeployerPages(n int) uint64 {
	return uint64(n)/pageSize + 1
}

// CustomSectionDeployer returns the bootstrap module carrying payload in its
// deployer custom section.
func CustomSectionDeployer(payload []byte) *wasm.Module {
	out, err := wasm.ParseModule(deployerBootstrap)
	if err != nil {
		panic(fmt.Sprintf("deployer bootstrap: %v", err))
	}
	if len(out.Memories) == 0 {
		panic("deployer bootstrap has no memory section")
	}
	out.Memories[0].Limits.Min = DeployerPages(len(payload))

	data := make([]byte, 0, len(payload)+4)
	data = append(data, payload...)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(payload)))
	out.CustomSections = append(out.CustomSections, wasm.CustomSection{Name: DeployerSection, Data: data})
	return out
}

// MemoryDeployer returns a module that finishes with payload from a data
// segment at address 0.
func MemoryDeployer(payload []byte) *wasm.Module {
	finish := wasm.FuncType{Params: []wasm.ValType{wasm.ValI32, wasm.ValI32}}
	body := wasm.EncodeInstructions([]wasm.Instruction{
		{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{Value: 0}},
		{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{Value: int32(len(payload))}},
		{Opcode: wasm.OpCall, Imm: wasm.CallImm{FuncIdx: 0}},
		{Opcode: wasm.OpEnd},
	})
	offset := wasm.EncodeInstructions([]wasm.Instruction{
		{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{Value: 0}},
		{Opcode: wasm.OpEnd},
	})

	return &wasm.Module{
		Types: []wasm.FuncType{finish, {}},
		Imports: []wasm.Import{{
			Module: ethereumNamespace,
			Name:   "finish",
			Desc:   wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 0},
		}},
		Funcs:    []uint32{1},
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: DeployerPages(len(payload))}}},
		Exports: []wasm.Export{
			{Name: mainExport, Kind: wasm.KindFunc, Idx: 1},
			{Name: memoryExport, Kind: wasm.KindMemory, Idx: 0},
		},
		Code: []wasm.FuncBody{{Code: body}},
		Data: []wasm.DataSegment{{Offset: offset, Init: payload}},
	}
}
