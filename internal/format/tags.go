package format

// TypeTag is the one-byte prefix identifying a stored value's type
// (spec.md §4.2).
type TypeTag byte

const (
	TagAscii TypeTag = 0x01
	// TagBlob is not enumerated in the distilled primitive-tag table but is
	// present in the real Cassandra native-protocol codec this format
	// descends from; supplemented here so KindBlob values (including the
	// UUID-validation fallback, spec.md §4.2) have a concrete wire tag.
	TagBlob      TypeTag = 0x03
	TagBigint    TypeTag = 0x02
	TagDecimal   TypeTag = 0x06
	TagDouble    TypeTag = 0x07
	TagFloat     TypeTag = 0x08
	TagInt       TypeTag = 0x09
	TagTimestamp TypeTag = 0x0B
	TagUUID      TypeTag = 0x0C
	TagVarchar   TypeTag = 0x0D
	TagVarint    TypeTag = 0x0E
	TagBoolean   TypeTag = 0x04
	TagSmallint  TypeTag = 0x13
	TagTinyint   TypeTag = 0x14
	TagDuration  TypeTag = 0x15
	TagList      TypeTag = 0x20
	TagMap       TypeTag = 0x21
	TagSet       TypeTag = 0x22
	TagUDT       TypeTag = 0x30
	TagTuple     TypeTag = 0x31
)

// Cell metadata flag bits within the cell wrapper's leading flags byte
// (spec.md §4.2).
const (
	CellFlagTimestamp byte = 1 << 7
	CellFlagTTL       byte = 1 << 6
	CellFlagDeletion  byte = 1 << 5
)

func (t TypeTag) String() string {
	switch t {
	case TagAscii:
		return "ascii"
	case TagBlob:
		return "blob"
	case TagBigint:
		return "bigint"
	case TagDecimal:
		return "decimal"
	case TagDouble:
		return "double"
	case TagFloat:
		return "float"
	case TagInt:
		return "int"
	case TagTimestamp:
		return "timestamp"
	case TagUUID:
		return "uuid"
	case TagVarchar:
		return "varchar"
	case TagVarint:
		return "varint"
	case TagBoolean:
		return "boolean"
	case TagSmallint:
		return "smallint"
	case TagTinyint:
		return "tinyint"
	case TagDuration:
		return "duration"
	case TagList:
		return "list"
	case TagMap:
		return "map"
	case TagSet:
		return "set"
	case TagUDT:
		return "udt"
	case TagTuple:
		return "tuple"
	default:
		return "unknown"
	}
}
