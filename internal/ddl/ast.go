package ddl

import (
	"github.com/joshuapare/sstreader/pkg/schema"
)

// Statement is any parsed CQL statement. The core only needs to build a
// TableSchema from CREATE TABLE and execute SELECT; the rest are parsed to
// statement boundaries for completeness (spec.md §4.9: "DML is accepted
// for completeness but only SELECT is executed").
type Statement interface {
	statementNode()
}

// ColumnDef is one column of a CREATE TABLE body.
type ColumnDef struct {
	Name            string
	Type            schema.CQLType
	Static          bool
	PrimaryKeyAlone bool // column-level PRIMARY KEY clause on this column
}

// PrimaryKeyClause is the parsed PRIMARY KEY(...) clause, already split
// into partition and clustering components per spec.md §4.9's three
// parse rules.
type PrimaryKeyClause struct {
	PartitionKeys  []string
	ClusteringKeys []string
}

// CreateTableStmt is a parsed CREATE TABLE statement.
type CreateTableStmt struct {
	Keyspace       string
	Table          string
	IfNotExists    bool
	Columns        []ColumnDef
	PartitionKeys  []string
	ClusteringKeys []schema.ClusteringKey // direction resolved from WITH CLUSTERING ORDER BY, default ASC
}

func (*CreateTableStmt) statementNode() {}

// DropTableStmt is a parsed DROP TABLE statement.
type DropTableStmt struct {
	Keyspace string
	Table    string
	IfExists bool
}

func (*DropTableStmt) statementNode() {}

// CreateIndexStmt is a parsed CREATE INDEX statement.
type CreateIndexStmt struct {
	Name        string // may be empty (anonymous index)
	Keyspace    string
	Table       string
	Column      string
	IfNotExists bool
}

func (*CreateIndexStmt) statementNode() {}

// AlterTableStmt captures enough of ALTER TABLE to round-trip the
// statement kind and target; full column-operation parsing is out of
// scope for a read-only reader.
type AlterTableStmt struct {
	Keyspace string
	Table    string
	Action   string // raw text of the action clause (ADD/DROP/RENAME/WITH ...)
}

func (*AlterTableStmt) statementNode() {}

// CreateTypeStmt is a parsed CREATE TYPE (user-defined type) statement.
type CreateTypeStmt struct {
	Keyspace    string
	Name        string
	IfNotExists bool
	Fields      []ColumnDef
}

func (*CreateTypeStmt) statementNode() {}

// DropTypeStmt is a parsed DROP TYPE statement.
type DropTypeStmt struct {
	Keyspace string
	Name     string
	IfExists bool
}

func (*DropTypeStmt) statementNode() {}

// UseStmt selects the active keyspace.
type UseStmt struct {
	Keyspace string
}

func (*UseStmt) statementNode() {}

// TruncateStmt empties a table.
type TruncateStmt struct {
	Keyspace string
	Table    string
}

func (*TruncateStmt) statementNode() {}

// BatchStmt wraps a sequence of DML statements; the core never executes
// these, so only the member statements are retained.
type BatchStmt struct {
	Statements []Statement
}

func (*BatchStmt) statementNode() {}

// InsertStmt, UpdateStmt, DeleteStmt are parsed for completeness
// (spec.md §4.9) but never executed by the planner.
type InsertStmt struct {
	Keyspace string
	Table    string
	Columns  []string
}

func (*InsertStmt) statementNode() {}

type UpdateStmt struct {
	Keyspace string
	Table    string
	Where    []Predicate
}

func (*UpdateStmt) statementNode() {}

type DeleteStmt struct {
	Keyspace string
	Table    string
	Where    []Predicate
}

func (*DeleteStmt) statementNode() {}

// Predicate is one WHERE-clause comparison, e.g. `id = ?` or `ts >= 100`.
// Only conjunctions of simple comparisons are supported (spec.md §4.10's
// planner operates over equality/range constraints per column).
type Predicate struct {
	Column string
	Op     CompareOp
	Value  string // literal text, or "?" for a bind placeholder
}

// CompareOp is the comparison operator of one WHERE predicate.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpLt
	OpLe
	OpGt
	OpGe
	OpNe
)

// SelectStmt is a parsed SELECT statement, the only DML the executor runs.
type SelectStmt struct {
	Keyspace       string
	Table          string
	Columns        []string // empty means "*"
	Where          []Predicate
	AllowFiltering bool
	Limit          int
	HasLimit       bool
}

func (*SelectStmt) statementNode() {}
