package sstable

import (
	"github.com/joshuapare/sstreader/internal/ddl"
	"github.com/joshuapare/sstreader/pkg/schema"
	"github.com/joshuapare/sstreader/pkg/types"
)

// ParseDDL parses a single CREATE TABLE statement and returns its schema,
// validated in lenient mode (spec.md §6 "Schema::parse_ddl"). Use
// ParseDDLStrict to additionally reject unresolvable UDT references.
func ParseDDL(text string) (schema.TableSchema, error) {
	return parseDDL(text, ddl.Validator{Mode: ddl.Lenient})
}

// ParseDDLStrict parses a CREATE TABLE statement and validates it against
// knownUDTs, rejecting any column whose type references an undeclared
// user-defined type.
func ParseDDLStrict(text string, knownUDTs map[string]bool) (schema.TableSchema, error) {
	return parseDDL(text, ddl.Validator{Mode: ddl.Strict, KnownUDTs: knownUDTs})
}

func parseDDL(text string, v ddl.Validator) (schema.TableSchema, error) {
	stmt, err := ddl.Parse(text)
	if err != nil {
		return schema.TableSchema{}, err
	}
	ct, ok := stmt.(*ddl.CreateTableStmt)
	if !ok {
		return schema.TableSchema{}, types.NewError(types.ErrKindParse,
			"parse_ddl: statement is not a CREATE TABLE")
	}
	built := ddl.SchemaBuilder{}.Build(ct)
	if err := v.Validate(ct, built); err != nil {
		return schema.TableSchema{}, err
	}
	return built, nil
}
