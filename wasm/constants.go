package wasm

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	Version uint32 = 0x01
)

// Section IDs define the binary identifiers for each module section.
const (
	SectionCustom    byte = 0
	SectionType      byte = 1
	SectionImport    byte = 2
	SectionFunction  byte = 3
	SectionTable     byte = 4
	SectionMemory    byte = 5
	SectionGlobal    byte = 6
	SectionExport    byte = 7
	SectionStart     byte = 8
	SectionElement   byte = 9
	SectionCode      byte = 10
	SectionData      byte = 11
	SectionDataCount byte = 12
)

// Import/Export descriptor kinds.
const (
	KindFunc   byte = 0
	KindTable  byte = 1
	KindMemory byte = 2
	KindGlobal byte = 3
)

// KindName returns the text-format keyword for an import/export kind.
func KindName(kind byte) string {
	switch kind {
	case KindFunc:
		return "func"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Value type encodings.
const (
	ValI32     ValType = 0x7F
	ValI64     ValType = 0x7E
	ValF32     ValType = 0x7D
	ValF64     ValType = 0x7C
	ValV128    ValType = 0x7B
	ValFuncRef ValType = 0x70
	ValExtern  ValType = 0x6F
)

// Block type constants (s33 encoding of the single-byte forms).
const (
	BlockTypeVoid int32 = -64 // 0x40
	BlockTypeI32  int32 = -1  // 0x7F
	BlockTypeI64  int32 = -2  // 0x7E
	BlockTypeF32  int32 = -3  // 0x7D
	BlockTypeF64  int32 = -4  // 0x7C
	BlockTypeV128 int32 = -5  // 0x7B
)

// FuncTypeByte introduces a function type in the type section.
const FuncTypeByte byte = 0x60

// Limits flags
const (
	LimitsHasMax   byte = 0x01
	LimitsShared   byte = 0x02
	LimitsMemory64 byte = 0x04
)

// PageSize is the size of one linear memory page in bytes.
const PageSize = 65536

// Control flow opcodes
const (
	OpUnreachable        byte = 0x00
	OpNop                byte = 0x01
	OpBlock              byte = 0x02
	OpLoop               byte = 0x03
	OpIf                 byte = 0x04
	OpElse               byte = 0x05
	OpEnd                byte = 0x0B
	OpBr                 byte = 0x0C
	OpBrIf               byte = 0x0D
	OpBrTable            byte = 0x0E
	OpReturn             byte = 0x0F
	OpCall               byte = 0x10
	OpCallIndirect       byte = 0x11
	OpReturnCall         byte = 0x12
	OpReturnCallIndirect byte = 0x13
)

// Parametric and variable opcodes
const (
	OpDrop       byte = 0x1A
	OpSelect     byte = 0x1B
	OpSelectType byte = 0x1C
	OpLocalGet   byte = 0x20
	OpLocalSet   byte = 0x21
	OpLocalTee   byte = 0x22
	OpGlobalGet  byte = 0x23
	OpGlobalSet  byte = 0x24
	OpTableGet   byte = 0x25
	OpTableSet   byte = 0x26
)

// Memory opcodes. Every opcode in [OpI32Load, OpI64Store32] takes a memarg.
const (
	OpI32Load    byte = 0x28
	OpI64Load    byte = 0x29
	OpF32Load    byte = 0x2A
	OpF64Load    byte = 0x2B
	OpF32Store   byte = 0x38
	OpF64Store   byte = 0x39
	OpI64Store32 byte = 0x3E
	OpMemorySize byte = 0x3F
	OpMemoryGrow byte = 0x40
)

// Constant opcodes
const (
	OpI32Const byte = 0x41
	OpI64Const byte = 0x42
	OpF32Const byte = 0x43
	OpF64Const byte = 0x44
)

// Numeric opcode ranges. Every opcode in [OpI32Eqz, OpI64Extend32S] has no immediate.
const (
	OpI32Eqz byte = 0x45
	OpI32Add byte = 0x6A
	OpI32Sub byte = 0x6B
	OpI32Mul byte = 0x6C
	OpI32And byte = 0x71
	OpI32Or  byte = 0x72
	OpI32Xor byte = 0x73
	OpI64Add byte = 0x7C
	OpI64Sub byte = 0x7D
	OpI64Mul byte = 0x7E
	OpI64And byte = 0x83
	OpI64Or  byte = 0x84
	OpI64Xor byte = 0x85

	OpF32Eq       byte = 0x5B
	OpF64Ge       byte = 0x66
	OpF32Abs      byte = 0x8B
	OpF32Add      byte = 0x92
	OpF64Add      byte = 0xA0
	OpF64Copysign byte = 0xA6

	OpI32WrapI64        byte = 0xA7
	OpI32TruncF32S      byte = 0xA8
	OpI32TruncF64U      byte = 0xAB
	OpI64ExtendI32S     byte = 0xAC
	OpI64ExtendI32U     byte = 0xAD
	OpI64TruncF32S      byte = 0xAE
	OpF64ReinterpretI64 byte = 0xBF

	OpI64Extend32S byte = 0xC4
)

// Reference type opcodes
const (
	OpRefNull   byte = 0xD0
	OpRefIsNull byte = 0xD1
	OpRefFunc   byte = 0xD2
)

// Multi-byte opcode prefixes, followed by a LEB128 sub-opcode.
const (
	OpPrefixMisc   byte = 0xFC
	OpPrefixSIMD   byte = 0xFD
	OpPrefixAtomic byte = 0xFE
)

// Misc opcodes (0xFC prefix)
const (
	MiscI32TruncSatF32S uint32 = 0x00
	MiscI64TruncSatF64U uint32 = 0x07
	MiscMemoryInit      uint32 = 0x08
	MiscDataDrop        uint32 = 0x09
	MiscMemoryCopy      uint32 = 0x0A
	MiscMemoryFill      uint32 = 0x0B
	MiscTableInit       uint32 = 0x0C
	MiscElemDrop        uint32 = 0x0D
	MiscTableCopy       uint32 = 0x0E
	MiscTableGrow       uint32 = 0x0F
	MiscTableSize       uint32 = 0x10
	MiscTableFill       uint32 = 0x11
)

// SIMD opcodes (0xFD prefix) that carry immediates, plus the float lanes.
const (
	SimdV128Load64Splat   uint32 = 0x0A
	SimdV128Store         uint32 = 0x0B
	SimdV128Const         uint32 = 0x0C
	SimdI8x16Shuffle      uint32 = 0x0D
	SimdF32x4Splat        uint32 = 0x13
	SimdF64x2Splat        uint32 = 0x14
	SimdI8x16ExtractLaneS uint32 = 0x15
	SimdF32x4ExtractLane  uint32 = 0x1F
	SimdF64x2ReplaceLane  uint32 = 0x22
	SimdF32x4Eq           uint32 = 0x41
	SimdF64x2Ge           uint32 = 0x4C
	SimdV128Load8Lane     uint32 = 0x54
	SimdV128Store64Lane   uint32 = 0x5B
	SimdV128Load32Zero    uint32 = 0x5C
	SimdV128Load64Zero    uint32 = 0x5D
	SimdF32x4DemoteF64x2  uint32 = 0x5E
	SimdF64x2PromoteF32x4 uint32 = 0x5F
	SimdF32x4Ceil         uint32 = 0x67
	SimdF32x4Nearest      uint32 = 0x6A
	SimdF64x2Ceil         uint32 = 0x74
	SimdF64x2Floor        uint32 = 0x75
	SimdF64x2Trunc        uint32 = 0x7A
	SimdF64x2Nearest      uint32 = 0x94
	SimdF32x4Abs          uint32 = 0xE0
	SimdI32x4TruncSatF32S uint32 = 0xF8
	SimdF64x2ConvertLowU  uint32 = 0xFF

	SimdRelaxedSwizzle     uint32 = 0x100
	SimdRelaxedTruncF32x4S uint32 = 0x101
	SimdRelaxedMaddF32x4   uint32 = 0x105
	SimdRelaxedNmaddF64x2  uint32 = 0x108
	SimdRelaxedMinF32x4    uint32 = 0x10D
	SimdRelaxedMaxF64x2    uint32 = 0x110
	SimdRelaxedDotAdd      uint32 = 0x113
)

// AtomicFence is the only 0xFE instruction without a memarg.
const AtomicFence uint32 = 0x03
