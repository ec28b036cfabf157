package wasm

import (
	"bytes"
	"fmt"
)

// Instruction represents a decoded WebAssembly instruction
type Instruction struct {
	Imm    interface{}
	Opcode byte
}

// BlockImm holds the block type for block, loop and if.
type BlockImm struct {
	Type int32 // -64=void, -1=i32, -2=i64, -3=f32, -4=f64, -5=v128, >=0=type index
}

// BranchImm holds the label index for br and br_if instructions.
type BranchImm struct {
	LabelIdx uint32
}

// BrTableImm holds the label table for br_table instruction.
type BrTableImm struct {
	Labels  []uint32
	Default uint32
}

// CallImm holds the function index for call and return_call.
type CallImm struct {
	FuncIdx uint32
}

// CallIndirectImm holds type and table indices for call_indirect and return_call_indirect.
type CallIndirectImm struct {
	TypeIdx  uint32
	TableIdx uint32
}

// LocalImm holds the local index for local.get, local.set, local.tee.
type LocalImm struct {
	LocalIdx uint32
}

// GlobalImm holds the global index for global.get and global.set.
type GlobalImm struct {
	GlobalIdx uint32
}

// MemoryImm holds memory access parameters for load and store instructions.
type MemoryImm struct {
	Offset uint64
	Align  uint32
	MemIdx uint32
}

// MemoryIdxImm holds memory index for memory.size, memory.grow
type MemoryIdxImm struct {
	MemIdx uint32
}

// I32Imm holds the constant value for i32.const instruction.
type I32Imm struct {
	Value int32
}

// I64Imm holds the constant value for i64.const instruction.
type I64Imm struct {
	Value int64
}

// F32Imm holds the raw bits of an f32.const immediate.
type F32Imm struct {
	Bits uint32
}

// F64Imm holds the raw bits of an f64.const immediate.
type F64Imm struct {
	Bits uint64
}

// MiscImm holds the sub-opcode and immediates for 0xFC prefix instructions
type MiscImm struct {
	Operands  []uint32
	SubOpcode uint32
}

// TableImm holds table index for table.get/table.set
type TableImm struct {
	TableIdx uint32
}

// RefNullImm holds the heap type for ref.null
type RefNullImm struct {
	HeapType int64
}

// RefFuncImm holds the function index for ref.func
type RefFuncImm struct {
	FuncIdx uint32
}

// SelectTypeImm holds value types for typed select
type SelectTypeImm struct {
	Types []ValType
}

// SIMDImm holds SIMD instruction immediates
type SIMDImm struct {
	MemArg    *MemoryImm
	LaneIdx   *byte
	V128Bytes []byte
	SubOpcode uint32
}

// AtomicImm holds atomic instruction immediates
type AtomicImm struct {
	MemArg    *MemoryImm
	SubOpcode uint32
}

// FuncRef returns the function index referenced by call, return_call or ref.func.
func (i Instruction) FuncRef() (uint32, bool) {
	switch imm := i.Imm.(type) {
	case CallImm:
		return imm.FuncIdx, true
	case RefFuncImm:
		return imm.FuncIdx, true
	}
	return 0, false
}

// WithFuncRef returns a copy of i with its function reference replaced.
func (i Instruction) WithFuncRef(idx uint32) Instruction {
	switch i.Imm.(type) {
	case CallImm:
		i.Imm = CallImm{FuncIdx: idx}
	case RefFuncImm:
		i.Imm = RefFuncImm{FuncIdx: idx}
	}
	return i
}

// UsesTable reports whether the instruction reads or writes a table,
// which makes every element-segment function potentially reachable.
func (i Instruction) UsesTable() bool {
	switch i.Opcode {
	case OpCallIndirect, OpReturnCallIndirect, OpTableGet, OpTableSet:
		return true
	case OpPrefixMisc:
		sub := i.Imm.(MiscImm).SubOpcode
		return sub >= MiscTableInit && sub <= MiscTableFill
	}
	return false
}

// TypeRef returns the type index used by call_indirect or a typed block.
func (i Instruction) TypeRef() (uint32, bool) {
	switch imm := i.Imm.(type) {
	case CallIndirectImm:
		return imm.TypeIdx, true
	case BlockImm:
		if imm.Type >= 0 {
			return uint32(imm.Type), true
		}
	}
	return 0, false
}

// WithTypeRef returns a copy of i with its type index replaced.
func (i Instruction) WithTypeRef(idx uint32) Instruction {
	switch imm := i.Imm.(type) {
	case CallIndirectImm:
		imm.TypeIdx = idx
		i.Imm = imm
	case BlockImm:
		if imm.Type >= 0 {
			i.Imm = BlockImm{Type: int32(idx)}
		}
	}
	return i
}

func hasNoImmediate(op byte) bool {
	switch op {
	case OpUnreachable, OpNop, OpElse, OpEnd, OpReturn, OpDrop, OpSelect, OpRefIsNull:
		return true
	}
	return op >= OpI32Eqz && op <= OpI64Extend32S
}

// DecodeInstructions decodes a sequence of instructions from raw bytes
func DecodeInstructions(code []byte) ([]Instruction, error) {
	r := bytes.NewReader(code)
	instrs := make([]Instruction, 0, len(code)/2)

	for r.Len() > 0 {
		offset := len(code) - r.Len()
		op, _ := r.ReadByte()
		instr, err := decodeInstruction(r, op)
		if err != nil {
			return nil, fmt.Errorf("instruction 0x%02x at offset %d: %w", op, offset, err)
		}
		instrs = append(instrs, instr)
	}

	return instrs, nil
}

func decodeInstruction(r *bytes.Reader, op byte) (Instruction, error) {
	instr := Instruction{Opcode: op}
	var err error

	switch {
	case hasNoImmediate(op):
		return instr, nil

	case op == OpBlock || op == OpLoop || op == OpIf:
		var bt int64
		bt, err = ReadLEB128s64(r)
		instr.Imm = BlockImm{Type: int32(bt)}

	case op == OpBr || op == OpBrIf:
		var idx uint32
		idx, err = ReadLEB128u(r)
		instr.Imm = BranchImm{LabelIdx: idx}

	case op == OpBrTable:
		instr.Imm, err = decodeBrTable(r)

	case op == OpCall || op == OpReturnCall:
		var idx uint32
		idx, err = ReadLEB128u(r)
		instr.Imm = CallImm{FuncIdx: idx}

	case op == OpCallIndirect || op == OpReturnCallIndirect:
		var typeIdx, tableIdx uint32
		if typeIdx, err = ReadLEB128u(r); err == nil {
			tableIdx, err = ReadLEB128u(r)
		}
		instr.Imm = CallIndirectImm{TypeIdx: typeIdx, TableIdx: tableIdx}

	case op == OpSelectType:
		var count uint32
		if count, err = ReadLEB128u(r); err != nil {
			break
		}
		types := make([]ValType, 0, min(int(count), r.Len()))
		for j := uint32(0); j < count && err == nil; j++ {
			var b byte
			if b, err = r.ReadByte(); err == nil {
				types = append(types, ValType(b))
			}
		}
		instr.Imm = SelectTypeImm{Types: types}

	case op >= OpLocalGet && op <= OpLocalTee:
		var idx uint32
		idx, err = ReadLEB128u(r)
		instr.Imm = LocalImm{LocalIdx: idx}

	case op == OpGlobalGet || op == OpGlobalSet:
		var idx uint32
		idx, err = ReadLEB128u(r)
		instr.Imm = GlobalImm{GlobalIdx: idx}

	case op == OpTableGet || op == OpTableSet:
		var idx uint32
		idx, err = ReadLEB128u(r)
		instr.Imm = TableImm{TableIdx: idx}

	case op >= OpI32Load && op <= OpI64Store32:
		instr.Imm, err = readMemArg(r)

	case op == OpMemorySize || op == OpMemoryGrow:
		var idx uint32
		idx, err = ReadLEB128u(r)
		instr.Imm = MemoryIdxImm{MemIdx: idx}

	case op == OpI32Const:
		var v int32
		v, err = ReadLEB128s(r)
		instr.Imm = I32Imm{Value: v}

	case op == OpI64Const:
		var v int64
		v, err = ReadLEB128s64(r)
		instr.Imm = I64Imm{Value: v}

	case op == OpF32Const:
		var bits uint32
		bits, err = readFloat32Bits(r)
		instr.Imm = F32Imm{Bits: bits}

	case op == OpF64Const:
		var bits uint64
		bits, err = readFloat64Bits(r)
		instr.Imm = F64Imm{Bits: bits}

	case op == OpRefNull:
		var ht int64
		ht, err = ReadLEB128s64(r)
		instr.Imm = RefNullImm{HeapType: ht}

	case op == OpRefFunc:
		var idx uint32
		idx, err = ReadLEB128u(r)
		instr.Imm = RefFuncImm{FuncIdx: idx}

	case op == OpPrefixMisc:
		instr.Imm, err = decodeMiscImmediate(r)

	case op == OpPrefixSIMD:
		instr.Imm, err = decodeSIMDImmediate(r)

	case op == OpPrefixAtomic:
		instr.Imm, err = decodeAtomicImmediate(r)

	default:
		return instr, fmt.Errorf("unknown opcode: 0x%02x", op)
	}

	return instr, err
}

func decodeBrTable(r *bytes.Reader) (BrTableImm, error) {
	count, err := ReadLEB128u(r)
	if err != nil {
		return BrTableImm{}, err
	}
	labels := make([]uint32, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		l, err := ReadLEB128u(r)
		if err != nil {
			return BrTableImm{}, err
		}
		labels = append(labels, l)
	}
	def, err := ReadLEB128u(r)
	if err != nil {
		return BrTableImm{}, err
	}
	return BrTableImm{Labels: labels, Default: def}, nil
}

// miscOperandCount returns the number of u32 immediates of a 0xFC instruction.
func miscOperandCount(sub uint32) (int, bool) {
	switch {
	case sub <= MiscI64TruncSatF64U:
		return 0, true
	case sub == MiscMemoryInit, sub == MiscMemoryCopy, sub == MiscTableInit, sub == MiscTableCopy:
		return 2, true
	case sub <= MiscTableFill:
		return 1, true
	}
	return 0, false
}

func decodeMiscImmediate(r *bytes.Reader) (MiscImm, error) {
	sub, err := ReadLEB128u(r)
	if err != nil {
		return MiscImm{}, err
	}
	n, ok := miscOperandCount(sub)
	if !ok {
		return MiscImm{}, fmt.Errorf("unknown 0xFC sub-opcode: 0x%02x", sub)
	}
	imm := MiscImm{SubOpcode: sub}
	for i := 0; i < n; i++ {
		v, err := ReadLEB128u(r)
		if err != nil {
			return MiscImm{}, err
		}
		imm.Operands = append(imm.Operands, v)
	}
	return imm, nil
}

func decodeSIMDImmediate(r *bytes.Reader) (SIMDImm, error) {
	sub, err := ReadLEB128u(r)
	if err != nil {
		return SIMDImm{}, err
	}
	imm := SIMDImm{SubOpcode: sub}

	needsMemArg := sub <= SimdV128Store ||
		(sub >= SimdV128Load8Lane && sub <= SimdV128Load64Zero)
	needsLane := (sub >= SimdI8x16ExtractLaneS && sub <= SimdF64x2ReplaceLane) ||
		(sub >= SimdV128Load8Lane && sub <= SimdV128Store64Lane)

	if needsMemArg {
		memArg, err := readMemArg(r)
		if err != nil {
			return SIMDImm{}, err
		}
		imm.MemArg = &memArg
	}
	if sub == SimdV128Const || sub == SimdI8x16Shuffle {
		imm.V128Bytes, err = readFixed(r, 16)
		if err != nil {
			return SIMDImm{}, err
		}
	}
	if needsLane {
		b, err := r.ReadByte()
		if err != nil {
			return SIMDImm{}, err
		}
		imm.LaneIdx = &b
	}
	return imm, nil
}

func decodeAtomicImmediate(r *bytes.Reader) (AtomicImm, error) {
	sub, err := ReadLEB128u(r)
	if err != nil {
		return AtomicImm{}, err
	}
	imm := AtomicImm{SubOpcode: sub}
	if sub == AtomicFence {
		if _, err := r.ReadByte(); err != nil {
			return AtomicImm{}, err
		}
		return imm, nil
	}
	memArg, err := readMemArg(r)
	if err != nil {
		return AtomicImm{}, err
	}
	imm.MemArg = &memArg
	return imm, nil
}

// EncodeInstructionTo writes a single instruction to the provided buffer.
func EncodeInstructionTo(buf *bytes.Buffer, instr *Instruction) {
	buf.WriteByte(instr.Opcode)

	switch imm := instr.Imm.(type) {
	case nil:
	case BlockImm:
		WriteLEB128s(buf, imm.Type)
	case BranchImm:
		WriteLEB128u(buf, imm.LabelIdx)
	case BrTableImm:
		WriteLEB128u(buf, uint32(len(imm.Labels)))
		for _, l := range imm.Labels {
			WriteLEB128u(buf, l)
		}
		WriteLEB128u(buf, imm.Default)
	case CallImm:
		WriteLEB128u(buf, imm.FuncIdx)
	case CallIndirectImm:
		WriteLEB128u(buf, imm.TypeIdx)
		WriteLEB128u(buf, imm.TableIdx)
	case SelectTypeImm:
		WriteLEB128u(buf, uint32(len(imm.Types)))
		for _, t := range imm.Types {
			buf.WriteByte(byte(t))
		}
	case LocalImm:
		WriteLEB128u(buf, imm.LocalIdx)
	case GlobalImm:
		WriteLEB128u(buf, imm.GlobalIdx)
	case TableImm:
		WriteLEB128u(buf, imm.TableIdx)
	case MemoryImm:
		writeMemArg(buf, imm)
	case MemoryIdxImm:
		WriteLEB128u(buf, imm.MemIdx)
	case I32Imm:
		WriteLEB128s(buf, imm.Value)
	case I64Imm:
		WriteLEB128s64(buf, imm.Value)
	case F32Imm:
		buf.Write([]byte{byte(imm.Bits), byte(imm.Bits >> 8), byte(imm.Bits >> 16), byte(imm.Bits >> 24)})
	case F64Imm:
		for s := 0; s < 64; s += 8 {
			buf.WriteByte(byte(imm.Bits >> s))
		}
	case RefNullImm:
		WriteLEB128s64(buf, imm.HeapType)
	case RefFuncImm:
		WriteLEB128u(buf, imm.FuncIdx)
	case MiscImm:
		WriteLEB128u(buf, imm.SubOpcode)
		for _, op := range imm.Operands {
			WriteLEB128u(buf, op)
		}
	case SIMDImm:
		WriteLEB128u(buf, imm.SubOpcode)
		if imm.MemArg != nil {
			writeMemArg(buf, *imm.MemArg)
		}
		buf.Write(imm.V128Bytes)
		if imm.LaneIdx != nil {
			buf.WriteByte(*imm.LaneIdx)
		}
	case AtomicImm:
		WriteLEB128u(buf, imm.SubOpcode)
		if imm.SubOpcode == AtomicFence {
			buf.WriteByte(0)
		} else if imm.MemArg != nil {
			writeMemArg(buf, *imm.MemArg)
		}
	}
}

// EncodeInstructions encodes instructions to bytes
func EncodeInstructions(instrs []Instruction) []byte {
	var buf bytes.Buffer
	buf.Grow(len(instrs) * 3)
	for i := range instrs {
		EncodeInstructionTo(&buf, &instrs[i])
	}
	return buf.Bytes()
}

// Multi-memory memarg bit flag
const memArgMultiMemBit = 0x40

// readMemArg reads a memarg. If bit 6 of align is set, a memory index follows.
func readMemArg(r *bytes.Reader) (MemoryImm, error) {
	alignRaw, err := ReadLEB128u(r)
	if err != nil {
		return MemoryImm{}, err
	}

	var memIdx uint32
	if alignRaw&memArgMultiMemBit != 0 {
		memIdx, err = ReadLEB128u(r)
		if err != nil {
			return MemoryImm{}, err
		}
	}

	offset, err := ReadLEB128u64(r)
	if err != nil {
		return MemoryImm{}, err
	}

	return MemoryImm{
		Align:  alignRaw &^ memArgMultiMemBit,
		Offset: offset,
		MemIdx: memIdx,
	}, nil
}

func writeMemArg(buf *bytes.Buffer, imm MemoryImm) {
	alignRaw := imm.Align
	if imm.MemIdx != 0 {
		alignRaw |= memArgMultiMemBit
	}
	WriteLEB128u(buf, alignRaw)
	if imm.MemIdx != 0 {
		WriteLEB128u(buf, imm.MemIdx)
	}
	WriteLEB128u64(buf, imm.Offset)
}
