package wasm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// ErrOverflow is returned when a LEB128 value exceeds the maximum bit width.
var ErrOverflow = errors.New("leb128: overflow")

func readLEB(r io.ByteReader, maxBits uint, signed bool) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		if shift >= maxBits {
			return 0, ErrOverflow
		}
		result |= uint64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if signed && shift < 64 && b&0x40 != 0 {
				result |= ^uint64(0) << shift
			}
			return result, nil
		}
	}
}

// ReadLEB128u reads an unsigned LEB128 value
func ReadLEB128u(r io.ByteReader) (uint32, error) {
	v, err := readLEB(r, 32, false)
	if err == nil && v > 0xffffffff {
		return 0, ErrOverflow
	}
	return uint32(v), err
}

// ReadLEB128u64 reads an unsigned 64-bit LEB128 value
func ReadLEB128u64(r io.ByteReader) (uint64, error) {
	return readLEB(r, 64, false)
}

// ReadLEB128s reads a signed LEB128 value (32-bit)
func ReadLEB128s(r io.ByteReader) (int32, error) {
	v, err := readLEB(r, 32, true)
	return int32(v), err
}

// ReadLEB128s64 reads a signed 64-bit LEB128 value
func ReadLEB128s64(r io.ByteReader) (int64, error) {
	v, err := readLEB(r, 64, true)
	return int64(v), err
}

// WriteLEB128u writes an unsigned LEB128 value
func WriteLEB128u(w *bytes.Buffer, v uint32) {
	WriteLEB128u64(w, uint64(v))
}

// WriteLEB128u64 writes an unsigned 64-bit LEB128 value
func WriteLEB128u64(w *bytes.Buffer, v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// WriteLEB128s writes a signed LEB128 value
func WriteLEB128s(w *bytes.Buffer, v int32) {
	WriteLEB128s64(w, int64(v))
}

// WriteLEB128s64 writes a signed 64-bit LEB128 value
func WriteLEB128s64(w *bytes.Buffer, v int64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		done := (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0)
		if !done {
			b |= 0x80
		}
		w.WriteByte(b)
		if done {
			return
		}
	}
}

// EncodeLEB128u encodes an unsigned 32-bit LEB128 value to bytes.
func EncodeLEB128u(v uint32) []byte {
	var buf bytes.Buffer
	WriteLEB128u(&buf, v)
	return buf.Bytes()
}

// EncodeLEB128s encodes a signed 32-bit LEB128 value to bytes.
func EncodeLEB128s(v int32) []byte {
	var buf bytes.Buffer
	WriteLEB128s(&buf, v)
	return buf.Bytes()
}

func readFixed(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	return buf, nil
}

// readFloat32Bits reads the raw little-endian bits of an f32 immediate.
func readFloat32Bits(r io.Reader) (uint32, error) {
	buf, err := readFixed(r, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// readFloat64Bits reads the raw little-endian bits of an f64 immediate.
func readFloat64Bits(r io.Reader) (uint64, error) {
	buf, err := readFixed(r, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}
