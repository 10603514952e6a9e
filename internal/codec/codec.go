// Package codec implements the typed value grammar (spec.md §4.2): encoding
// and decoding of primitives, collections, tuples, and user-defined types
// over the VInt and raw-byte wire forms, plus the per-cell metadata wrapper
// consumed by the tombstone merger.
package codec

import (
	"math"
	"unicode/utf8"

	"github.com/joshuapare/sstreader/internal/buf"
	"github.com/joshuapare/sstreader/internal/format"
	"github.com/joshuapare/sstreader/internal/vint"
	"github.com/joshuapare/sstreader/pkg/types"
)

// Options configures the leniency of value decoding.
type Options struct {
	// StrictMode disables the permissive UUID-to-blob coercion and rejects
	// unknown type tags outright instead of decoding them as blob.
	StrictMode   bool
	MaxDepth     int
	MaxValueSize int
}

// DefaultOptions returns the non-strict defaults used when a reader Config
// does not override them.
func DefaultOptions() Options {
	return Options{
		StrictMode:   false,
		MaxDepth:     types.MaxNestingDepth,
		MaxValueSize: types.MaxValueSize,
	}
}

// Encode serializes v as a tagged value: one type-tag byte followed by its
// body. Collections recurse; tombstone markers are not tagged values and
// must go through EncodeCell instead.
func Encode(v types.Value) ([]byte, error) {
	tag, err := tagFor(v)
	if err != nil {
		return nil, err
	}
	out := []byte{byte(tag)}
	return encodeBody(out, tag, v)
}

// Decode reads one tagged value from b (tag byte followed by body) and
// returns the value and the remaining bytes.
func Decode(b []byte, opts Options) (types.Value, []byte, error) {
	return decodeTagged(b, opts, 0)
}

func decodeTagged(b []byte, opts Options, depth int) (types.Value, []byte, error) {
	if len(b) == 0 {
		return types.Value{}, nil, types.ErrTruncated
	}
	tag := format.TypeTag(b[0])
	return decodeBody(tag, b[1:], opts, depth)
}

func tagFor(v types.Value) (format.TypeTag, error) {
	switch v.Kind {
	case types.KindText:
		return format.TagVarchar, nil
	case types.KindBoolean:
		return format.TagBoolean, nil
	case types.KindDecimal:
		return format.TagDecimal, nil
	case types.KindDouble:
		return format.TagDouble, nil
	case types.KindFloat:
		return format.TagFloat, nil
	case types.KindInt:
		return format.TagInt, nil
	case types.KindTimestamp:
		return format.TagTimestamp, nil
	case types.KindUUID:
		return format.TagUUID, nil
	case types.KindVarint:
		return format.TagVarint, nil
	case types.KindBigInt:
		return format.TagBigint, nil
	case types.KindSmallInt:
		return format.TagSmallint, nil
	case types.KindTinyInt:
		return format.TagTinyint, nil
	case types.KindBlob:
		return format.TagBlob, nil
	case types.KindList:
		return format.TagList, nil
	case types.KindSet:
		return format.TagSet, nil
	case types.KindMap:
		return format.TagMap, nil
	case types.KindTuple:
		return format.TagTuple, nil
	case types.KindUDT:
		return format.TagUDT, nil
	case types.KindDuration:
		return format.TagDuration, nil
	default:
		return 0, types.NewError(types.ErrKindUnknownType, "no wire tag for value kind %d", v.Kind)
	}
}

func encodeBody(out []byte, tag format.TypeTag, v types.Value) ([]byte, error) {
	switch tag {
	case format.TagAscii, format.TagVarchar, format.TagBlob:
		out = vint.AppendEncode(out, int64(len(v.Bytes)))
		out = append(out, v.Bytes...)
		return out, nil
	case format.TagBoolean:
		if v.Bool {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
		return out, nil
	case format.TagDecimal:
		out = vint.AppendEncode(out, v.Scale)
		out = vint.AppendEncode(out, v.Unscaled)
		return out, nil
	case format.TagDouble:
		return appendF64(out, v.Float64), nil
	case format.TagFloat:
		return appendF32(out, v.Float32), nil
	case format.TagInt:
		return appendI32(out, int32(v.Int64)), nil
	case format.TagTimestamp:
		return appendI64(out, v.Int64), nil
	case format.TagUUID:
		return append(out, v.Bytes...), nil
	case format.TagVarint:
		return vint.AppendEncode(out, v.Int64), nil
	case format.TagBigint:
		return appendI64(out, v.Int64), nil
	case format.TagSmallint:
		return append(out, byte(v.Int64>>8), byte(v.Int64)), nil
	case format.TagTinyint:
		return append(out, byte(v.Int64)), nil
	case format.TagDuration:
		// Wire shape not stated in the distilled primitive-tag table;
		// follows the original parser's triple-VInt encoding of
		// (months: i32, days: i32, nanoseconds: i64).
		out = vint.AppendEncode(out, int64(v.Months))
		out = vint.AppendEncode(out, int64(v.Days))
		out = vint.AppendEncode(out, v.Nanos)
		return out, nil
	case format.TagList, format.TagSet:
		out = vint.AppendEncode(out, int64(len(v.Elems)))
		for _, e := range v.Elems {
			enc, err := Encode(e)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	case format.TagTuple:
		out = vint.AppendEncode(out, int64(len(v.Elems)))
		for _, e := range v.Elems {
			enc, err := Encode(e)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	case format.TagMap:
		out = vint.AppendEncode(out, int64(len(v.MapKeys)))
		for i := range v.MapKeys {
			kEnc, err := Encode(v.MapKeys[i])
			if err != nil {
				return nil, err
			}
			vEnc, err := Encode(v.MapVals[i])
			if err != nil {
				return nil, err
			}
			out = append(out, kEnc...)
			out = append(out, vEnc...)
		}
		return out, nil
	case format.TagUDT:
		out = vint.AppendEncode(out, int64(len(v.UDTName)))
		out = append(out, v.UDTName...)
		out = vint.AppendEncode(out, int64(len(v.UDTFields)))
		for _, f := range v.UDTFields {
			out = vint.AppendEncode(out, int64(len(f.Name)))
			out = append(out, f.Name...)
			enc, err := Encode(f.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	default:
		return nil, types.NewError(types.ErrKindUnknownType, "unsupported tag 0x%02X", byte(tag))
	}
}

func decodeBody(tag format.TypeTag, b []byte, opts Options, depth int) (types.Value, []byte, error) {
	if depth > opts.MaxDepth {
		return types.Value{}, nil, types.NewError(types.ErrKindInvalidValue, "nesting depth exceeds %d", opts.MaxDepth)
	}
	switch tag {
	case format.TagAscii, format.TagVarchar:
		return decodeText(tag, b, opts)
	case format.TagBlob:
		return decodeBlob(b, opts)
	case format.TagBoolean:
		if len(b) < 1 {
			return types.Value{}, nil, types.ErrTruncated
		}
		return types.Boolean(b[0] != 0), b[1:], nil
	case format.TagDecimal:
		scale, rest, err := vint.Decode(b)
		if err != nil {
			return types.Value{}, nil, wrapTruncated(err)
		}
		unscaled, rest2, err := vint.Decode(rest)
		if err != nil {
			return types.Value{}, nil, wrapTruncated(err)
		}
		return types.Decimal(scale, unscaled), rest2, nil
	case format.TagDouble:
		if len(b) < 8 {
			return types.Value{}, nil, types.ErrTruncated
		}
		return types.Double(bitsToFloat64(buf.U64BE(b))), b[8:], nil
	case format.TagFloat:
		if len(b) < 4 {
			return types.Value{}, nil, types.ErrTruncated
		}
		return types.Float(bitsToFloat32(buf.U32BE(b))), b[4:], nil
	case format.TagInt:
		if len(b) < 4 {
			return types.Value{}, nil, types.ErrTruncated
		}
		return types.Int(buf.I32BE(b)), b[4:], nil
	case format.TagTimestamp:
		if len(b) < 8 {
			return types.Value{}, nil, types.ErrTruncated
		}
		return types.Value{Kind: types.KindTimestamp, Int64: buf.I64BE(b)}, b[8:], nil
	case format.TagUUID:
		return decodeUUID(b, opts)
	case format.TagVarint:
		v, rest, err := vint.Decode(b)
		if err != nil {
			return types.Value{}, nil, wrapTruncated(err)
		}
		return types.Varint(v), rest, nil
	case format.TagBigint:
		if len(b) < 8 {
			return types.Value{}, nil, types.ErrTruncated
		}
		return types.Bigint(buf.I64BE(b)), b[8:], nil
	case format.TagSmallint:
		if len(b) < 2 {
			return types.Value{}, nil, types.ErrTruncated
		}
		return types.SmallInt(int16(buf.U16BE(b))), b[2:], nil
	case format.TagTinyint:
		if len(b) < 1 {
			return types.Value{}, nil, types.ErrTruncated
		}
		return types.TinyInt(int8(b[0])), b[1:], nil
	case format.TagDuration:
		months, rest, err := vint.Decode(b)
		if err != nil {
			return types.Value{}, nil, wrapTruncated(err)
		}
		days, rest2, err := vint.Decode(rest)
		if err != nil {
			return types.Value{}, nil, wrapTruncated(err)
		}
		nanos, rest3, err := vint.Decode(rest2)
		if err != nil {
			return types.Value{}, nil, wrapTruncated(err)
		}
		return types.Duration(int32(months), int32(days), nanos), rest3, nil
	case format.TagList, format.TagSet:
		return decodeElemSequence(tag, b, opts, depth)
	case format.TagTuple:
		return decodeTuple(b, opts, depth)
	case format.TagMap:
		return decodeMap(b, opts, depth)
	case format.TagUDT:
		return decodeUDT(b, opts, depth)
	default:
		if opts.StrictMode {
			return types.Value{}, nil, types.NewError(types.ErrKindUnknownType, "unknown type tag 0x%02X", byte(tag))
		}
		return decodeBlob(b, opts)
	}
}

func decodeText(tag format.TypeTag, b []byte, opts Options) (types.Value, []byte, error) {
	n, rest, err := vint.Decode(b)
	if err != nil {
		return types.Value{}, nil, wrapTruncated(err)
	}
	if n < 0 || n > int64(opts.MaxValueSize) {
		return types.Value{}, nil, types.NewError(types.ErrKindInvalidValue, "text length %d out of bounds", n)
	}
	if int64(len(rest)) < n {
		return types.Value{}, nil, types.ErrTruncated
	}
	raw := rest[:n]
	if tag == format.TagAscii {
		for _, c := range raw {
			if c > 0x7F {
				return types.Value{}, nil, types.NewError(types.ErrKindInvalidUTF8, "ascii value contains byte 0x%02X", c)
			}
		}
	} else if !utf8.Valid(raw) {
		return types.Value{}, nil, types.NewError(types.ErrKindInvalidUTF8, "varchar value is not valid UTF-8")
	}
	return types.Text(string(raw)), rest[n:], nil
}

func decodeBlob(b []byte, opts Options) (types.Value, []byte, error) {
	n, rest, err := vint.Decode(b)
	if err != nil {
		return types.Value{}, nil, wrapTruncated(err)
	}
	if n < 0 || n > int64(opts.MaxValueSize) {
		return types.Value{}, nil, types.NewError(types.ErrKindInvalidValue, "blob length %d out of bounds", n)
	}
	if int64(len(rest)) < n {
		return types.Value{}, nil, types.ErrTruncated
	}
	return types.Blob(append([]byte(nil), rest[:n]...)), rest[n:], nil
}

func decodeUUID(b []byte, opts Options) (types.Value, []byte, error) {
	if len(b) < 16 {
		return types.Value{}, nil, types.ErrTruncated
	}
	raw := b[:16]
	if !validUUID(raw) {
		if opts.StrictMode {
			return types.Value{}, nil, types.NewError(types.ErrKindInvalidValue, "invalid UUID version/variant bits")
		}
		return types.Blob(append([]byte(nil), raw...)), b[16:], nil
	}
	return types.Value{Kind: types.KindUUID, Bytes: append([]byte(nil), raw...)}, b[16:], nil
}

func decodeElemSequence(tag format.TypeTag, b []byte, opts Options, depth int) (types.Value, []byte, error) {
	count, rest, err := vint.Decode(b)
	if err != nil {
		return types.Value{}, nil, wrapTruncated(err)
	}
	if count < 0 {
		return types.Value{}, nil, types.NewError(types.ErrKindInvalidValue, "negative element count %d", count)
	}
	elems := make([]types.Value, 0, count)
	for i := int64(0); i < count; i++ {
		e, tail, err := decodeTagged(rest, opts, depth+1)
		if err != nil {
			return types.Value{}, nil, err
		}
		elems = append(elems, e)
		rest = tail
	}
	kind := types.KindList
	if tag == format.TagSet {
		kind = types.KindSet
	}
	return types.Value{Kind: kind, Elems: elems}, rest, nil
}

func decodeTuple(b []byte, opts Options, depth int) (types.Value, []byte, error) {
	count, rest, err := vint.Decode(b)
	if err != nil {
		return types.Value{}, nil, wrapTruncated(err)
	}
	if count < 0 {
		return types.Value{}, nil, types.NewError(types.ErrKindInvalidValue, "negative tuple field count %d", count)
	}
	elems := make([]types.Value, 0, count)
	for i := int64(0); i < count; i++ {
		e, tail, err := decodeTagged(rest, opts, depth+1)
		if err != nil {
			return types.Value{}, nil, err
		}
		elems = append(elems, e)
		rest = tail
	}
	return types.Tuple(elems), rest, nil
}

func decodeMap(b []byte, opts Options, depth int) (types.Value, []byte, error) {
	count, rest, err := vint.Decode(b)
	if err != nil {
		return types.Value{}, nil, wrapTruncated(err)
	}
	if count < 0 {
		return types.Value{}, nil, types.NewError(types.ErrKindInvalidValue, "negative map entry count %d", count)
	}
	keys := make([]types.Value, 0, count)
	vals := make([]types.Value, 0, count)
	for i := int64(0); i < count; i++ {
		k, tail, err := decodeTagged(rest, opts, depth+1)
		if err != nil {
			return types.Value{}, nil, err
		}
		v, tail2, err := decodeTagged(tail, opts, depth+1)
		if err != nil {
			return types.Value{}, nil, err
		}
		keys = append(keys, k)
		vals = append(vals, v)
		rest = tail2
	}
	return types.Map(keys, vals), rest, nil
}

func decodeUDT(b []byte, opts Options, depth int) (types.Value, []byte, error) {
	nameLen, rest, err := vint.Decode(b)
	if err != nil {
		return types.Value{}, nil, wrapTruncated(err)
	}
	if nameLen < 0 || int64(len(rest)) < nameLen {
		return types.Value{}, nil, types.ErrTruncated
	}
	name := string(rest[:nameLen])
	rest = rest[nameLen:]

	count, rest2, err := vint.Decode(rest)
	if err != nil {
		return types.Value{}, nil, wrapTruncated(err)
	}
	if count < 0 {
		return types.Value{}, nil, types.NewError(types.ErrKindInvalidValue, "negative UDT field count %d", count)
	}
	rest = rest2
	fields := make([]types.UDTField, 0, count)
	for i := int64(0); i < count; i++ {
		fNameLen, tail, err := vint.Decode(rest)
		if err != nil {
			return types.Value{}, nil, wrapTruncated(err)
		}
		if fNameLen < 0 || int64(len(tail)) < fNameLen {
			return types.Value{}, nil, types.ErrTruncated
		}
		fName := string(tail[:fNameLen])
		tail = tail[fNameLen:]
		if len(tail) < 1 {
			return types.Value{}, nil, types.ErrTruncated
		}
		fTag := format.TypeTag(tail[0])
		fVal, tail2, err := decodeBody(fTag, tail[1:], opts, depth+1)
		if err != nil {
			return types.Value{}, nil, err
		}
		fields = append(fields, types.UDTField{Name: fName, Value: fVal})
		rest = tail2
	}
	return types.UDTValue(name, fields), rest, nil
}

func wrapTruncated(err error) error {
	return types.ErrTruncated.WithCause(err)
}

func appendI32(out []byte, v int32) []byte {
	return append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendI64(out []byte, v int64) []byte {
	return append(out,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendF32(out []byte, f float32) []byte {
	return appendI32(out, int32(math.Float32bits(f)))
}

func appendF64(out []byte, f float64) []byte {
	return appendI64(out, int64(math.Float64bits(f)))
}

func bitsToFloat32(u uint32) float32 { return math.Float32frombits(u) }
func bitsToFloat64(u uint64) float64 { return math.Float64frombits(u) }
