// Package vint implements the variable-length signed integer encoding used
// throughout the on-disk SSTable format: a zig-zag mapping of int64 to
// uint64 followed by a unary-prefixed big-endian magnitude, 1 to 9 bytes
// long. Encoding is always canonical (minimal length); decoding accepts
// non-canonical input unless DecodeStrict is used.
package vint

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/joshuapare/sstreader/internal/buf"
)

var (
	// ErrTruncated indicates the input ended before the declared length was read.
	ErrTruncated = errors.New("vint: truncated input")
	// ErrOverlong indicates the first byte declared a length greater than 9 bytes.
	ErrOverlong = errors.New("vint: declared length exceeds 9 bytes")
	// ErrNonCanonical indicates a shorter encoding would have represented the
	// same value; only returned by DecodeStrict.
	ErrNonCanonical = errors.New("vint: non-canonical encoding")
)

// MaxLen is the longest an encoded VInt can be.
const MaxLen = 9

// Len reports the canonical encoded length, in bytes, of v.
func Len(v int64) int {
	return minimalLen(zigzagEncode(v))
}

// Encode returns the canonical (minimal-length) encoding of v.
func Encode(v int64) []byte {
	u := zigzagEncode(v)
	n := minimalLen(u)
	out := make([]byte, n)
	encodeInto(out, u, n)
	return out
}

// AppendEncode appends the canonical encoding of v to dst and returns the
// extended slice, avoiding an intermediate allocation for callers building
// up a larger buffer.
func AppendEncode(dst []byte, v int64) []byte {
	u := zigzagEncode(v)
	n := minimalLen(u)
	start := len(dst)
	dst = append(dst, make([]byte, n)...)
	encodeInto(dst[start:], u, n)
	return dst
}

// Decode reads one VInt from b, returning the value and the remaining
// bytes. Non-canonical input is accepted (the reader must tolerate
// previously-written data); use DecodeStrict to reject it.
func Decode(b []byte) (int64, []byte, error) {
	return decode(b, false)
}

// DecodeStrict behaves like Decode but rejects non-canonical encodings.
func DecodeStrict(b []byte) (int64, []byte, error) {
	return decode(b, true)
}

func decode(b []byte, strict bool) (int64, []byte, error) {
	if len(b) == 0 {
		return 0, nil, ErrTruncated
	}
	first := b[0]
	extra := bits.LeadingZeros8(^first)
	n := extra + 1
	if n > MaxLen {
		return 0, nil, fmt.Errorf("%w: declared %d bytes", ErrOverlong, n)
	}
	if len(b) < n {
		return 0, nil, ErrTruncated
	}

	var u uint64
	if n == MaxLen {
		u = buf.U64BE(b[1:9])
	} else {
		high := first & byte(0xFF>>uint(n))
		u = uint64(high)
		for i := 0; i < n-1; i++ {
			u = (u << 8) | uint64(b[1+i])
		}
	}

	if strict {
		if want := minimalLen(u); want != n {
			return 0, nil, fmt.Errorf("%w: value fits in %d bytes, encoded in %d", ErrNonCanonical, want, n)
		}
	}

	return zigzagDecode(u), b[n:], nil
}

func zigzagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func zigzagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// minimalLen returns the smallest N in [1,9] such that u fits in N's
// magnitude capacity (7*N bits for N<9, 64 bits for N==9).
func minimalLen(u uint64) int {
	for n := 1; n < MaxLen; n++ {
		if u>>uint(7*n) == 0 {
			return n
		}
	}
	return MaxLen
}

// encodeInto writes the n-byte canonical encoding of u into out, which must
// have length exactly n.
func encodeInto(out []byte, u uint64, n int) {
	if n == MaxLen {
		out[0] = 0xFF
		for i := 0; i < 8; i++ {
			out[1+i] = byte(u >> uint(8*(7-i)))
		}
		return
	}
	extra := n - 1
	prefix := byte((0xFF << uint(9-n)) & 0xFF)
	high := byte(u >> uint(8*extra))
	out[0] = prefix | high
	for i := 0; i < extra; i++ {
		shift := uint(8 * (extra - 1 - i))
		out[1+i] = byte(u >> shift)
	}
}
