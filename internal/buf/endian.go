// Package buf contains small endian-safe decoding helpers shared by the
// lower-level codec packages. The on-disk SSTable format is big-endian
// throughout, so the helpers here default to that byte order; short buffers
// return zero rather than panicking, matching callers that have already
// bounds-checked via Slice/Has.
package buf

import "encoding/binary"

// U16BE reads a big-endian uint16 from b. Returns 0 when b is too short.
func U16BE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// U32BE reads a big-endian uint32 from b. Returns 0 when b is too short.
func U32BE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// U64BE reads a big-endian uint64 from b. Returns 0 when b is too short.
func U64BE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// I32BE reads a big-endian int32 from b. Returns 0 when b is too short.
func I32BE(b []byte) int32 {
	if len(b) < 4 {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

// I64BE reads a big-endian int64 from b. Returns 0 when b is too short.
func I64BE(b []byte) int64 {
	if len(b) < 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

// PutU16BE writes v into b as big-endian. b must have length >= 2.
func PutU16BE(b []byte, v uint16) {
	binary.BigEndian.PutUint16(b, v)
}

// PutU32BE writes v into b as big-endian. b must have length >= 4.
func PutU32BE(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}

// PutU64BE writes v into b as big-endian. b must have length >= 8.
func PutU64BE(b []byte, v uint64) {
	binary.BigEndian.PutUint64(b, v)
}
