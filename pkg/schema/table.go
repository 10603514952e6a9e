package schema

import (
	"github.com/joshuapare/sstreader/pkg/types"
)

// ClusteringOrder is the sort direction of one clustering-key column.
type ClusteringOrder int

const (
	OrderAsc ClusteringOrder = iota
	OrderDesc
)

func (o ClusteringOrder) String() string {
	if o == OrderDesc {
		return "DESC"
	}
	return "ASC"
}

// Column describes one table column: its name, CQL type, and whether it
// may hold null (spec.md §3).
type Column struct {
	Name     string
	Type     CQLType
	Nullable bool
	Static   bool
}

// ClusteringKey names one clustering-key column and its sort direction.
type ClusteringKey struct {
	Name  string
	Order ClusteringOrder
}

// TableSchema aggregates ordered partition keys, ordered clustering keys
// with direction, and the full column list (spec.md §3/§4.8).
type TableSchema struct {
	Keyspace       string
	Table          string
	PartitionKeys  []string
	ClusteringKeys []ClusteringKey
	Columns        []Column
}

// Column looks up a column by name, returning false if absent.
func (t TableSchema) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Validate enforces the invariants spec.md §3 requires of a table schema:
// partition-key list is non-empty; every key column appears in columns;
// column names are unique; no clustering key without a partition key
// (vacuously true once partition keys are required non-empty, but checked
// explicitly so the error is specific); frozen<> may only wrap a
// collection, tuple, or UDT (enforced at construction by NewFrozen, but
// re-checked here in case a CQLType was built without going through it).
func (t TableSchema) Validate() error {
	if len(t.PartitionKeys) == 0 {
		return types.NewError(types.ErrKindSchemaValidation,
			"table %s.%s: partition key list must not be empty", t.Keyspace, t.Table)
	}
	if len(t.ClusteringKeys) > 0 && len(t.PartitionKeys) == 0 {
		return types.NewError(types.ErrKindSchemaValidation,
			"table %s.%s: clustering keys require a partition key", t.Keyspace, t.Table)
	}

	seen := map[string]bool{}
	for _, c := range t.Columns {
		if seen[c.Name] {
			return types.NewError(types.ErrKindSchemaValidation,
				"table %s.%s: duplicate column name %q", t.Keyspace, t.Table, c.Name)
		}
		seen[c.Name] = true
		if err := validateFrozenUsage(c.Type); err != nil {
			return types.NewError(types.ErrKindSchemaValidation,
				"table %s.%s: column %q: %v", t.Keyspace, t.Table, c.Name, err)
		}
	}

	for _, pk := range t.PartitionKeys {
		if !seen[pk] {
			return types.NewError(types.ErrKindSchemaValidation,
				"table %s.%s: partition key %q is not a declared column", t.Keyspace, t.Table, pk)
		}
	}
	for _, ck := range t.ClusteringKeys {
		if !seen[ck.Name] {
			return types.NewError(types.ErrKindSchemaValidation,
				"table %s.%s: clustering key %q is not a declared column", t.Keyspace, t.Table, ck.Name)
		}
	}
	return nil
}

// validateFrozenUsage recursively checks that every frozen<> node in t
// wraps a collection, tuple, or UDT, not a bare primitive.
func validateFrozenUsage(t CQLType) error {
	switch t.Kind {
	case KindFrozen:
		if t.Elem.Kind == KindPrimitive {
			return types.NewError(types.ErrKindSchemaValidation,
				"frozen<> cannot wrap primitive type %q", t.Elem.Primitive)
		}
		return validateFrozenUsage(*t.Elem)
	case KindList, KindSet:
		return validateFrozenUsage(*t.Elem)
	case KindMap:
		if err := validateFrozenUsage(*t.MapKey); err != nil {
			return err
		}
		return validateFrozenUsage(*t.MapValue)
	case KindTuple:
		for _, f := range t.Tuple {
			if err := validateFrozenUsage(f); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
