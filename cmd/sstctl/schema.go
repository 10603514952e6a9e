package main

import (
	"fmt"
	"os"

	"github.com/joshuapare/sstreader/pkg/schema"
	"github.com/joshuapare/sstreader/pkg/sstable"
)

// loadSchema reads and parses the CREATE TABLE DDL file at path, validating
// in lenient mode since the CLI has no registry of other tables' UDTs to
// check references against.
func loadSchema(path string) (schema.TableSchema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return schema.TableSchema{}, fmt.Errorf("read schema %s: %w", path, err)
	}
	tbl, err := sstable.ParseDDL(string(raw))
	if err != nil {
		return schema.TableSchema{}, fmt.Errorf("parse schema %s: %w", path, err)
	}
	return tbl, nil
}
