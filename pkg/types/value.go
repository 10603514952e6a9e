package types

import (
	"fmt"
	"math"
	"time"
)

// Kind enumerates the variants of the typed value sum type (spec.md §3).
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindTinyInt  // 8-bit signed
	KindSmallInt // 16-bit signed
	KindInt      // 32-bit signed
	KindBigInt   // 64-bit signed
	KindFloat    // 32-bit IEEE-754
	KindDouble   // 64-bit IEEE-754
	KindVarint   // arbitrary precision, stored as VInt-encoded magnitude
	KindDecimal  // scale + unscaled varint
	KindText     // UTF-8
	KindBlob     // raw bytes
	KindUUID     // 16 bytes
	KindTimestamp
	KindDuration // months, days, nanoseconds
	KindList
	KindSet
	KindMap
	KindTuple
	KindUDT
	KindTombstone // deletion marker
)

// DeletionKind distinguishes the scope of a tombstone (spec.md §3).
type DeletionKind uint8

const (
	DeletionRow DeletionKind = iota
	DeletionCell
	DeletionRange
	DeletionComplexColumn
)

// Tombstone carries the metadata of a deletion marker.
type Tombstone struct {
	Kind         DeletionKind
	DeletionTime int64 // microseconds since epoch
	HasTTL       bool
	TTL          int32 // seconds; only meaningful if the deleted cell had one
}

// UDTField is one named field of a user-defined type value.
type UDTField struct {
	Name  string
	Value Value
}

// Value is the typed value sum type. Exactly one of the fields below is
// meaningful for a given Kind; accessors on Value do not check Kind, so
// callers are expected to switch on Kind first (see Kind's doc comment for
// the variant list).
type Value struct {
	Kind Kind

	Bool     bool
	Int64    int64 // backs TinyInt/SmallInt/Int/BigInt/Timestamp/Varint (all sign-extended)
	Float32  float32
	Float64  float64
	Bytes    []byte // backs Text (UTF-8 bytes), Blob, UUID (16 bytes)
	Scale    int64  // Decimal scale
	Unscaled int64  // Decimal unscaled magnitude
	Months   int32  // Duration
	Days     int32  // Duration
	Nanos    int64  // Duration

	Elems     []Value    // List/Set/Tuple elements
	MapKeys   []Value    // Map keys, index-aligned with MapVals
	MapVals   []Value    // Map values
	UDTName   string     // UDT type name
	UDTFields []UDTField // UDT fields, in declared order

	Tomb Tombstone
}

// Null returns the NULL value.
func Null() Value { return Value{Kind: KindNull} }

// IsNull reports whether v is the NULL variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsTombstone reports whether v is a deletion marker.
func (v Value) IsTombstone() bool { return v.Kind == KindTombstone }

// Text constructs a UTF-8 text value.
func Text(s string) Value { return Value{Kind: KindText, Bytes: []byte(s)} }

// TextString returns the decoded string for a Text value.
func (v Value) TextString() string { return string(v.Bytes) }

// Blob constructs a blob value.
func Blob(b []byte) Value { return Value{Kind: KindBlob, Bytes: b} }

// Bigint constructs a 64-bit signed integer value.
func Bigint(i int64) Value { return Value{Kind: KindBigInt, Int64: i} }

// Timestamp constructs a microsecond-resolution timestamp value.
func Timestamp(t time.Time) Value {
	return Value{Kind: KindTimestamp, Int64: t.UnixMicro()}
}

// Time returns the time.Time represented by a Timestamp value.
func (v Value) Time() time.Time { return time.UnixMicro(v.Int64) }

// UUID constructs a UUID value from 16 raw bytes.
func UUID(b [16]byte) Value { return Value{Kind: KindUUID, Bytes: b[:]} }

// Boolean constructs a boolean value.
func Boolean(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// TinyInt constructs an 8-bit signed integer value.
func TinyInt(i int8) Value { return Value{Kind: KindTinyInt, Int64: int64(i)} }

// SmallInt constructs a 16-bit signed integer value.
func SmallInt(i int16) Value { return Value{Kind: KindSmallInt, Int64: int64(i)} }

// Int constructs a 32-bit signed integer value.
func Int(i int32) Value { return Value{Kind: KindInt, Int64: int64(i)} }

// Varint constructs a varint value (the grammar represents it as a single VInt).
func Varint(i int64) Value { return Value{Kind: KindVarint, Int64: i} }

// Decimal constructs a decimal value from its scale and unscaled magnitude.
func Decimal(scale, unscaled int64) Value {
	return Value{Kind: KindDecimal, Scale: scale, Unscaled: unscaled}
}

// Float constructs a 32-bit float value.
func Float(f float32) Value { return Value{Kind: KindFloat, Float32: f} }

// Double constructs a 64-bit float value.
func Double(f float64) Value { return Value{Kind: KindDouble, Float64: f} }

// Duration constructs a duration value (months, days, nanoseconds).
func Duration(months, days int32, nanos int64) Value {
	return Value{Kind: KindDuration, Months: months, Days: days, Nanos: nanos}
}

// List constructs a list value from its elements.
func List(elems []Value) Value { return Value{Kind: KindList, Elems: elems} }

// Set constructs a set value from its elements.
func Set(elems []Value) Value { return Value{Kind: KindSet, Elems: elems} }

// Tuple constructs a tuple value from its fields.
func Tuple(elems []Value) Value { return Value{Kind: KindTuple, Elems: elems} }

// Map constructs a map value from index-aligned key/value slices.
func Map(keys, vals []Value) Value { return Value{Kind: KindMap, MapKeys: keys, MapVals: vals} }

// UDTValue constructs a user-defined-type value.
func UDTValue(name string, fields []UDTField) Value {
	return Value{Kind: KindUDT, UDTName: name, UDTFields: fields}
}

// RowTombstone constructs a row-level deletion marker.
func RowTombstone(deletionTime int64) Value {
	return Value{Kind: KindTombstone, Tomb: Tombstone{Kind: DeletionRow, DeletionTime: deletionTime}}
}

// Equal reports deep equality between two values. Set equality is
// order-independent (elements matched one-to-one with Equal); List/Tuple/Map
// equality preserves order, matching spec.md §8's round-trip laws.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBoolean:
		return v.Bool == o.Bool
	case KindTinyInt, KindSmallInt, KindInt, KindBigInt, KindTimestamp, KindVarint:
		return v.Int64 == o.Int64
	case KindFloat:
		return sameFloat32Bits(v.Float32, o.Float32)
	case KindDouble:
		return sameFloat64Bits(v.Float64, o.Float64)
	case KindDecimal:
		return v.Scale == o.Scale && v.Unscaled == o.Unscaled
	case KindText, KindBlob, KindUUID:
		return bytesEqual(v.Bytes, o.Bytes)
	case KindDuration:
		return v.Months == o.Months && v.Days == o.Days && v.Nanos == o.Nanos
	case KindList, KindTuple:
		return equalOrdered(v.Elems, o.Elems)
	case KindSet:
		return equalAsSet(v.Elems, o.Elems)
	case KindMap:
		return equalMap(v, o)
	case KindUDT:
		return equalUDT(v, o)
	case KindTombstone:
		return v.Tomb == o.Tomb
	default:
		return false
	}
}

// equalMap compares maps key-by-key in order. Map entries are always
// written in sorted-key order on disk, so order-preserving comparison is
// sufficient and avoids an O(n^2) unordered match.
func equalMap(a, b Value) bool {
	if len(a.MapKeys) != len(b.MapKeys) || len(a.MapVals) != len(b.MapVals) {
		return false
	}
	return equalOrdered(a.MapKeys, b.MapKeys) && equalOrdered(a.MapVals, b.MapVals)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalOrdered(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalAsSet(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, av := range a {
		found := false
		for j, bv := range b {
			if used[j] {
				continue
			}
			if av.Equal(bv) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func equalUDT(v, o Value) bool {
	if v.UDTName != o.UDTName || len(v.UDTFields) != len(o.UDTFields) {
		return false
	}
	for i := range v.UDTFields {
		if v.UDTFields[i].Name != o.UDTFields[i].Name {
			return false
		}
		if !v.UDTFields[i].Value.Equal(o.UDTFields[i].Value) {
			return false
		}
	}
	return true
}

func sameFloat32Bits(a, b float32) bool {
	return math.Float32bits(a) == math.Float32bits(b)
}

func sameFloat64Bits(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

func (v Value) String() string {
	return fmt.Sprintf("Value{Kind=%d}", v.Kind)
}
