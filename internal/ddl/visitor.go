package ddl

import (
	"github.com/joshuapare/sstreader/pkg/schema"
	"github.com/joshuapare/sstreader/pkg/types"
)

// SchemaBuilder turns a parsed CREATE TABLE into a schema.TableSchema,
// resolving each column's CQL type (already parsed into schema.CQLType by
// the type parser embedded in parser.parseType; spec.md §4.9: "resolving
// each column's CQL type string via the type parser").
type SchemaBuilder struct{}

// Build converts one CreateTableStmt into a TableSchema. It does not call
// Validate; callers run Validator separately so strictness is a choice at
// the call site, not baked into construction.
func (SchemaBuilder) Build(stmt *CreateTableStmt) schema.TableSchema {
	cols := make([]schema.Column, 0, len(stmt.Columns))
	for _, c := range stmt.Columns {
		cols = append(cols, schema.Column{
			Name:     c.Name,
			Type:     c.Type,
			Static:   c.Static,
			Nullable: !c.PrimaryKeyAlone && !isKeyColumn(c.Name, stmt),
		})
	}
	return schema.TableSchema{
		Keyspace:       stmt.Keyspace,
		Table:          stmt.Table,
		PartitionKeys:  append([]string(nil), stmt.PartitionKeys...),
		ClusteringKeys: append([]schema.ClusteringKey(nil), stmt.ClusteringKeys...),
		Columns:        cols,
	}
}

func isKeyColumn(name string, stmt *CreateTableStmt) bool {
	for _, pk := range stmt.PartitionKeys {
		if pk == name {
			return true
		}
	}
	for _, ck := range stmt.ClusteringKeys {
		if ck.Name == name {
			return true
		}
	}
	return false
}

// ValidationMode controls how Validator treats unresolved references.
type ValidationMode int

const (
	// Strict reports missing table/UDT references as errors.
	Strict ValidationMode = iota
	// Lenient ignores references it cannot resolve (spec.md §4.9).
	Lenient
)

// Validator enforces CREATE TABLE invariants beyond what schema.Validate
// already checks (non-empty partition key, key columns present, no
// duplicates): UDT references must resolve within a registry passed at
// validation time, except in Lenient mode.
type Validator struct {
	Mode ValidationMode
	// KnownUDTs is the set of user-defined type names already registered
	// (e.g. by prior CREATE TYPE statements in the same script).
	KnownUDTs map[string]bool
}

// Validate runs schema.TableSchema.Validate and, in Strict mode, also
// checks every UDT reference against KnownUDTs.
func (v Validator) Validate(stmt *CreateTableStmt, built schema.TableSchema) error {
	if err := built.Validate(); err != nil {
		return err
	}
	if v.Mode == Lenient {
		return nil
	}
	for _, c := range stmt.Columns {
		if err := v.checkUDTReferences(c.Type); err != nil {
			return types.NewError(types.ErrKindSchemaValidation,
				"table %s.%s: column %q: %v", stmt.Keyspace, stmt.Table, c.Name, err)
		}
	}
	return nil
}

func (v Validator) checkUDTReferences(t schema.CQLType) error {
	switch t.Kind {
	case schema.KindUDT:
		if !v.KnownUDTs[t.UDTName] {
			return types.NewError(types.ErrKindSchemaValidation, "unresolved user-defined type %q", t.UDTName)
		}
		return nil
	case schema.KindFrozen, schema.KindList, schema.KindSet:
		return v.checkUDTReferences(*t.Elem)
	case schema.KindMap:
		if err := v.checkUDTReferences(*t.MapKey); err != nil {
			return err
		}
		return v.checkUDTReferences(*t.MapValue)
	case schema.KindTuple:
		for _, f := range t.Tuple {
			if err := v.checkUDTReferences(f); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// TypeCollector walks a CreateTableStmt and returns every distinct CQL
// type referenced by its columns, useful for dependency analysis (e.g.
// discovering which UDTs a table needs before it can be validated).
type TypeCollector struct{}

func (TypeCollector) Collect(stmt *CreateTableStmt) []schema.CQLType {
	var out []schema.CQLType
	seen := map[string]bool{}
	var walk func(t schema.CQLType)
	walk = func(t schema.CQLType) {
		key := t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, t)
		switch t.Kind {
		case schema.KindFrozen, schema.KindList, schema.KindSet:
			walk(*t.Elem)
		case schema.KindMap:
			walk(*t.MapKey)
			walk(*t.MapValue)
		case schema.KindTuple:
			for _, f := range t.Tuple {
				walk(f)
			}
		}
	}
	for _, c := range stmt.Columns {
		walk(c.Type)
	}
	return out
}

// IdentifierCollector returns every identifier a statement names: column
// names, the table name, and partition/clustering key names, useful for
// rename-impact analysis.
type IdentifierCollector struct{}

func (IdentifierCollector) Collect(stmt *CreateTableStmt) []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	add(stmt.Table)
	for _, c := range stmt.Columns {
		add(c.Name)
	}
	for _, pk := range stmt.PartitionKeys {
		add(pk)
	}
	for _, ck := range stmt.ClusteringKeys {
		add(ck.Name)
	}
	return out
}
