// Package reconio implements the byte-level primitives (C1), the lazy
// subrecord iterator (C2), and the record data accessor with transparent
// decompression (C4). Every reader function takes an explicit Endian
// parameter; endianness is never encoded in a type, because a single image
// may contain records of both endiannesses (spec.md §9).
package reconio

import (
	"encoding/binary"
	"math"

	"github.com/vaultrecon/semrecon/model/reccore"
)

func order(e reccore.Endian) binary.ByteOrder {
	if e == reccore.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// U16 reads a uint16 at off in the given endianness. Panics if the slice is
// too short; callers are expected to bounds-check first (every call site in
// this module is guarded by a length check derived from a subrecord's
// declared size).
func U16(b []byte, off int, e reccore.Endian) uint16 {
	return order(e).Uint16(b[off:])
}

// U32 reads a uint32 at off in the given endianness.
func U32(b []byte, off int, e reccore.Endian) uint32 {
	return order(e).Uint32(b[off:])
}

// I16 reads an int16 at off in the given endianness.
func I16(b []byte, off int, e reccore.Endian) int16 {
	return int16(U16(b, off, e))
}

// I32 reads an int32 at off in the given endianness.
func I32(b []byte, off int, e reccore.Endian) int32 {
	return int32(U32(b, off, e))
}

// I64 reads an int64 at off in the given endianness.
func I64(b []byte, off int, e reccore.Endian) int64 {
	return int64(order(e).Uint64(b[off:]))
}

// F32 reads an IEEE-754 float32 at off in the given endianness.
func F32(b []byte, off int, e reccore.Endian) float32 {
	return math.Float32frombits(U32(b, off, e))
}

// F64 reads an IEEE-754 float64 at off in the given endianness.
func F64(b []byte, off int, e reccore.Endian) float64 {
	return math.Float64frombits(order(e).Uint64(b[off:]))
}

// FormID reads a form-id field at off in the given endianness.
func FormID(b []byte, off int, e reccore.Endian) reccore.FormID {
	return reccore.FormID(U32(b, off, e))
}

// CString scans data forward to the first zero byte (or the end of the
// slice) and decodes the bytes before it as a string. An empty slice
// yields the empty string; an unterminated slice yields the whole slice.
func CString(data []byte) string {
	for i, c := range data {
		if c == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}

// ReadTag reads the four raw tag bytes at off. Tag bytes are never
// endian-swapped.
func ReadTag(b []byte, off int) reccore.Tag {
	var t reccore.Tag
	copy(t[:], b[off:off+4])
	return t
}
