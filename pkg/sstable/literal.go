package sstable

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/joshuapare/sstreader/pkg/schema"
	"github.com/joshuapare/sstreader/pkg/types"
)

// literalToValue converts one WHERE-predicate literal (as the DDL parser's
// lexer leaves it: unquoted and unescaped) into a typed Value per the
// column's CQL type, so the planner can build row-key components from a
// SELECT's equality and range predicates (spec.md §4.10). Only primitive
// key-column types are supported; a partition or clustering key typed as a
// collection, tuple, or UDT is rejected — CQL itself never allows those as
// key columns (spec.md §3 key-column invariants), so this is not a scope
// reduction, just an explicit check.
func literalToValue(lit string, typ schema.CQLType) (types.Value, error) {
	if typ.Kind != schema.KindPrimitive {
		return types.Value{}, types.NewError(types.ErrKindInvalidValue,
			"key literal %q: type %s cannot appear in a key column", lit, typ.String())
	}
	switch typ.Primitive {
	case schema.PrimitiveBoolean:
		b, err := strconv.ParseBool(lit)
		if err != nil {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "invalid boolean literal %q", lit)
		}
		return types.Boolean(b), nil
	case schema.PrimitiveTinyint:
		n, err := strconv.ParseInt(lit, 10, 8)
		if err != nil {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "invalid tinyint literal %q", lit)
		}
		return types.TinyInt(int8(n)), nil
	case schema.PrimitiveSmallint:
		n, err := strconv.ParseInt(lit, 10, 16)
		if err != nil {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "invalid smallint literal %q", lit)
		}
		return types.SmallInt(int16(n)), nil
	case schema.PrimitiveInt:
		n, err := strconv.ParseInt(lit, 10, 32)
		if err != nil {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "invalid int literal %q", lit)
		}
		return types.Int(int32(n)), nil
	case schema.PrimitiveBigint, schema.PrimitiveVarint, schema.PrimitiveCounter:
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "invalid integer literal %q", lit)
		}
		if typ.Primitive == schema.PrimitiveVarint {
			return types.Varint(n), nil
		}
		return types.Bigint(n), nil
	case schema.PrimitiveFloat:
		f, err := strconv.ParseFloat(lit, 32)
		if err != nil {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "invalid float literal %q", lit)
		}
		return types.Float(float32(f)), nil
	case schema.PrimitiveDouble:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "invalid double literal %q", lit)
		}
		return types.Double(f), nil
	case schema.PrimitiveText, schema.PrimitiveAscii, schema.PrimitiveVarchar, schema.PrimitiveInet:
		return types.Text(lit), nil
	case schema.PrimitiveBlob:
		return types.Blob([]byte(lit)), nil
	case schema.PrimitiveUUID, schema.PrimitiveTimeUUID:
		b, err := parseUUIDLiteral(lit)
		if err != nil {
			return types.Value{}, err
		}
		return types.UUID(b), nil
	case schema.PrimitiveTimestamp, schema.PrimitiveDate, schema.PrimitiveTime:
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue,
				"invalid %s literal %q: expected microseconds since epoch", typ.Primitive, lit)
		}
		return types.Value{Kind: types.KindTimestamp, Int64: n}, nil
	default:
		return types.Value{}, types.NewError(types.ErrKindUnknownType,
			"key literal %q: unsupported primitive type %s", lit, typ.Primitive)
	}
}

// parseUUIDLiteral accepts the canonical dashed form or a bare 32-hex-digit
// string; both are in common use in CQL literals and cqlsh output.
func parseUUIDLiteral(lit string) ([16]byte, error) {
	hexDigits := strings.ReplaceAll(lit, "-", "")
	var out [16]byte
	if len(hexDigits) != 32 {
		return out, types.NewError(types.ErrKindInvalidValue, "invalid uuid literal %q", lit)
	}
	for i := 0; i < 16; i++ {
		b, err := strconv.ParseUint(hexDigits[i*2:i*2+2], 16, 8)
		if err != nil {
			return out, types.NewError(types.ErrKindInvalidValue, "invalid uuid literal %q", lit)
		}
		out[i] = byte(b)
	}
	return out, nil
}

// EncodePartitionKey builds the row key for a literal partition-key tuple
// (one literal per entry in tbl.PartitionKeys, in that order), the same
// conversion FromSelect applies to an equality WHERE clause — exposed
// directly for callers (the CLI's `get` subcommand) that already have the
// literal values and just need the on-disk key, without going through a
// parsed SELECT statement.
func EncodePartitionKey(tbl schema.TableSchema, literals []string) (types.RowKey, error) {
	if len(literals) != len(tbl.PartitionKeys) {
		return nil, types.NewError(types.ErrKindInvalidValue,
			"table %s.%s has %d partition key column(s), got %d literal(s)",
			tbl.Keyspace, tbl.Table, len(tbl.PartitionKeys), len(literals))
	}
	components := make([][]byte, 0, len(literals))
	for i, pk := range tbl.PartitionKeys {
		col, ok := tbl.Column(pk)
		if !ok {
			return nil, types.NewError(types.ErrKindSchemaValidation,
				"partition key %q is not a declared column", pk)
		}
		v, err := literalToValue(literals[i], col.Type)
		if err != nil {
			return nil, err
		}
		b, err := keyComponentBytes(v)
		if err != nil {
			return nil, err
		}
		components = append(components, b)
	}
	return types.EncodeCompositeKey(components)
}

// DecodePartitionKey reverses EncodePartitionKey: given a row key already
// known to belong to tbl, it splits the composite framing and decodes each
// component back into a typed Value per the corresponding partition-key
// column's CQL type, so the executor can project partition-key columns
// (spec.md §4.10's projection applies to every selected column, not just
// the non-key ones `Execute`'s packed-row model stores directly).
func DecodePartitionKey(tbl schema.TableSchema, key types.RowKey) (map[string]types.Value, error) {
	components, err := key.CompositeComponents()
	if err != nil {
		return nil, err
	}
	if len(components) != len(tbl.PartitionKeys) {
		return nil, types.NewError(types.ErrKindInvalidValue,
			"row key has %d component(s), table %s.%s declares %d partition key column(s)",
			len(components), tbl.Keyspace, tbl.Table, len(tbl.PartitionKeys))
	}
	out := make(map[string]types.Value, len(components))
	for i, pk := range tbl.PartitionKeys {
		col, ok := tbl.Column(pk)
		if !ok {
			return nil, types.NewError(types.ErrKindSchemaValidation,
				"partition key %q is not a declared column", pk)
		}
		v, err := decodeKeyComponent(components[i], col.Type)
		if err != nil {
			return nil, err
		}
		out[pk] = v
	}
	return out, nil
}

// decodeKeyComponent is keyComponentBytes's inverse for every primitive
// kind it supports.
func decodeKeyComponent(b []byte, typ schema.CQLType) (types.Value, error) {
	if typ.Kind != schema.KindPrimitive {
		return types.Value{}, types.NewError(types.ErrKindInvalidValue,
			"key component: type %s cannot appear in a key column", typ.String())
	}
	switch typ.Primitive {
	case schema.PrimitiveBoolean:
		if len(b) != 1 {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "boolean key component must be 1 byte")
		}
		return types.Boolean(b[0] != 0), nil
	case schema.PrimitiveTinyint:
		if len(b) != 1 {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "tinyint key component must be 1 byte")
		}
		return types.TinyInt(int8(b[0])), nil
	case schema.PrimitiveSmallint:
		if len(b) != 2 {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "smallint key component must be 2 bytes")
		}
		return types.SmallInt(int16(binary.BigEndian.Uint16(b))), nil
	case schema.PrimitiveInt:
		if len(b) != 4 {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "int key component must be 4 bytes")
		}
		return types.Int(int32(binary.BigEndian.Uint32(b))), nil
	case schema.PrimitiveBigint, schema.PrimitiveVarint, schema.PrimitiveCounter:
		if len(b) != 8 {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "bigint key component must be 8 bytes")
		}
		n := int64(binary.BigEndian.Uint64(b))
		if typ.Primitive == schema.PrimitiveVarint {
			return types.Varint(n), nil
		}
		return types.Bigint(n), nil
	case schema.PrimitiveFloat:
		if len(b) != 4 {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "float key component must be 4 bytes")
		}
		return types.Float(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case schema.PrimitiveDouble:
		if len(b) != 8 {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "double key component must be 8 bytes")
		}
		return types.Double(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
	case schema.PrimitiveText, schema.PrimitiveAscii, schema.PrimitiveVarchar, schema.PrimitiveInet:
		return types.Text(string(b)), nil
	case schema.PrimitiveBlob:
		return types.Blob(b), nil
	case schema.PrimitiveUUID, schema.PrimitiveTimeUUID:
		if len(b) != 16 {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "uuid key component must be 16 bytes")
		}
		var u [16]byte
		copy(u[:], b)
		return types.UUID(u), nil
	case schema.PrimitiveTimestamp, schema.PrimitiveDate, schema.PrimitiveTime:
		if len(b) != 8 {
			return types.Value{}, types.NewError(types.ErrKindInvalidValue, "timestamp key component must be 8 bytes")
		}
		return types.Value{Kind: types.KindTimestamp, Int64: int64(binary.BigEndian.Uint64(b))}, nil
	default:
		return types.Value{}, types.NewError(types.ErrKindUnknownType,
			"key component: unsupported primitive type %s", typ.Primitive)
	}
}

// keyComponentBytes renders v in the fixed-width, sign-preserving
// big-endian form used elsewhere in the on-disk value codec (internal/codec
// encodes ints the same way) so that byte-lexicographic order on the
// component matches numeric order for same-width types. This mirrors the
// codec's own wire encoding rather than inventing a second one; it does not
// reproduce Cassandra's token-aware comparator for cross-sign ordering,
// which is out of scope for a row-key component used only to drive this
// reader's own index (see DESIGN.md for the full tradeoff).
func keyComponentBytes(v types.Value) ([]byte, error) {
	switch v.Kind {
	case types.KindBoolean:
		if v.Bool {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case types.KindTinyInt:
		return []byte{byte(v.Int64)}, nil
	case types.KindSmallInt:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(v.Int64))
		return b, nil
	case types.KindInt:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(v.Int64))
		return b, nil
	case types.KindBigInt, types.KindVarint, types.KindTimestamp:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, uint64(v.Int64))
		return b, nil
	case types.KindFloat:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, math.Float32bits(v.Float32))
		return b, nil
	case types.KindDouble:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, math.Float64bits(v.Float64))
		return b, nil
	case types.KindText, types.KindBlob, types.KindUUID:
		return v.Bytes, nil
	default:
		return nil, types.NewError(types.ErrKindInvalidValue,
			"value of kind %d cannot be used as a key component", v.Kind)
	}
}
