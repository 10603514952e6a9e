// Package schema holds the CQL type grammar and table schema model
// (spec.md §4.8): a recursive type tree, a TableSchema aggregating
// partition/clustering keys and columns, and the invariants from spec.md
// §3 that every constructed schema must satisfy.
package schema

import (
	"strings"

	"github.com/joshuapare/sstreader/pkg/types"
)

// Primitive names the CQL scalar types spec.md §4.8 enumerates.
type Primitive int

const (
	PrimitiveBoolean Primitive = iota
	PrimitiveTinyint
	PrimitiveSmallint
	PrimitiveInt
	PrimitiveBigint
	PrimitiveVarint
	PrimitiveDecimal
	PrimitiveFloat
	PrimitiveDouble
	PrimitiveText
	PrimitiveAscii
	PrimitiveVarchar
	PrimitiveBlob
	PrimitiveTimestamp
	PrimitiveDate
	PrimitiveTime
	PrimitiveUUID
	PrimitiveTimeUUID
	PrimitiveInet
	PrimitiveDuration
	PrimitiveCounter
)

var primitiveNames = map[Primitive]string{
	PrimitiveBoolean:   "boolean",
	PrimitiveTinyint:   "tinyint",
	PrimitiveSmallint:  "smallint",
	PrimitiveInt:       "int",
	PrimitiveBigint:    "bigint",
	PrimitiveVarint:    "varint",
	PrimitiveDecimal:   "decimal",
	PrimitiveFloat:     "float",
	PrimitiveDouble:    "double",
	PrimitiveText:      "text",
	PrimitiveAscii:     "ascii",
	PrimitiveVarchar:   "varchar",
	PrimitiveBlob:      "blob",
	PrimitiveTimestamp: "timestamp",
	PrimitiveDate:      "date",
	PrimitiveTime:      "time",
	PrimitiveUUID:      "uuid",
	PrimitiveTimeUUID:  "timeuuid",
	PrimitiveInet:      "inet",
	PrimitiveDuration:  "duration",
	PrimitiveCounter:   "counter",
}

var namesToPrimitive = func() map[string]Primitive {
	m := make(map[string]Primitive, len(primitiveNames))
	for p, n := range primitiveNames {
		m[n] = p
	}
	return m
}()

func (p Primitive) String() string {
	if n, ok := primitiveNames[p]; ok {
		return n
	}
	return "unknown"
}

// LookupPrimitive resolves a lowercase CQL primitive name.
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := namesToPrimitive[strings.ToLower(name)]
	return p, ok
}

// Kind discriminates a CQLType's shape.
type Kind int

const (
	KindPrimitive Kind = iota
	KindList
	KindSet
	KindMap
	KindTuple
	KindUDT
	KindFrozen
	KindCustom
)

// CQLType is the recursive CQL type tree (spec.md §4.8): a primitive,
// list<T>, set<T>, map<K,V>, tuple<T...>, udt<name>, frozen<T>, or a
// custom(name) escape hatch for types this model does not otherwise know.
type CQLType struct {
	Kind      Kind
	Primitive Primitive // valid iff Kind == KindPrimitive
	Elem      *CQLType  // list/set/frozen element type
	MapKey    *CQLType  // map key type
	MapValue  *CQLType  // map value type
	Tuple     []CQLType // tuple field types
	UDTName   string    // udt<name> or custom(name)
}

// NewPrimitive constructs a primitive CQLType.
func NewPrimitive(p Primitive) CQLType { return CQLType{Kind: KindPrimitive, Primitive: p} }

// NewList constructs list<elem>.
func NewList(elem CQLType) CQLType { return CQLType{Kind: KindList, Elem: &elem} }

// NewSet constructs set<elem>.
func NewSet(elem CQLType) CQLType { return CQLType{Kind: KindSet, Elem: &elem} }

// NewMap constructs map<key, value>.
func NewMap(key, value CQLType) CQLType {
	return CQLType{Kind: KindMap, MapKey: &key, MapValue: &value}
}

// NewTuple constructs tuple<fields...>.
func NewTuple(fields ...CQLType) CQLType { return CQLType{Kind: KindTuple, Tuple: fields} }

// NewUDT constructs udt<name>, a reference to a user-defined type by name.
func NewUDT(name string) CQLType { return CQLType{Kind: KindUDT, UDTName: name} }

// NewCustom constructs custom(name), an escape hatch for an unrecognized
// type string the parser should carry through rather than reject.
func NewCustom(name string) CQLType { return CQLType{Kind: KindCustom, UDTName: name} }

// NewFrozen wraps inner in frozen<>. Returns an error if inner is a
// primitive, since frozen<> may only wrap a collection, tuple, or UDT
// (spec.md §3).
func NewFrozen(inner CQLType) (CQLType, error) {
	if inner.Kind == KindPrimitive {
		return CQLType{}, types.NewError(types.ErrKindSchemaValidation,
			"frozen<> cannot wrap primitive type %q", inner.Primitive)
	}
	return CQLType{Kind: KindFrozen, Elem: &inner}, nil
}

// Equal reports structural equality between two CQL types.
func (t CQLType) Equal(o CQLType) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive == o.Primitive
	case KindList, KindSet, KindFrozen:
		return t.Elem.Equal(*o.Elem)
	case KindMap:
		return t.MapKey.Equal(*o.MapKey) && t.MapValue.Equal(*o.MapValue)
	case KindTuple:
		if len(t.Tuple) != len(o.Tuple) {
			return false
		}
		for i := range t.Tuple {
			if !t.Tuple[i].Equal(o.Tuple[i]) {
				return false
			}
		}
		return true
	case KindUDT, KindCustom:
		return t.UDTName == o.UDTName
	default:
		return false
	}
}

// String renders the on-disk type-string form, e.g. "list<text>",
// "map<text, bigint>", "frozen<tuple<uuid, timestamp>>" (spec.md §4.8).
func (t CQLType) String() string {
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive.String()
	case KindList:
		return "list<" + t.Elem.String() + ">"
	case KindSet:
		return "set<" + t.Elem.String() + ">"
	case KindMap:
		return "map<" + t.MapKey.String() + ", " + t.MapValue.String() + ">"
	case KindTuple:
		parts := make([]string, len(t.Tuple))
		for i, f := range t.Tuple {
			parts[i] = f.String()
		}
		return "tuple<" + strings.Join(parts, ", ") + ">"
	case KindUDT:
		return t.UDTName
	case KindFrozen:
		return "frozen<" + t.Elem.String() + ">"
	case KindCustom:
		return "custom(" + t.UDTName + ")"
	default:
		return "unknown"
	}
}
