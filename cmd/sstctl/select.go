package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/sstreader/internal/ddl"
	"github.com/joshuapare/sstreader/pkg/sstable"
	"github.com/joshuapare/sstreader/pkg/types"
)

var selectSchemaPath string

func init() {
	cmd := &cobra.Command{
		Use:   "select <table-dir> <select-statement>",
		Short: "Plan and execute a SELECT against a table directory",
		Long: `select parses a SELECT statement, plans it against --schema (point
lookup when every partition-key column has an equality predicate, a
range scan otherwise), executes it across every live generation in
table-dir, and prints the resulting rows.

Example:
  sstctl select --schema users.cql ./ks/users-abc123 "SELECT name FROM users WHERE id = 42"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&selectSchemaPath, "schema", "", "path to a CREATE TABLE DDL file (required)")
	cmd.MarkFlagRequired("schema")
	rootCmd.AddCommand(cmd)
}

func runSelect(dir, query string) error {
	tbl, err := loadSchema(selectSchemaPath)
	if err != nil {
		return err
	}

	stmt, err := ddl.Parse(query)
	if err != nil {
		return fmt.Errorf("parse select: %w", err)
	}
	sel, ok := stmt.(*ddl.SelectStmt)
	if !ok {
		return fmt.Errorf("statement is not a SELECT")
	}

	plan, err := sstable.FromSelect(sel, tbl)
	if err != nil {
		return fmt.Errorf("plan select: %w", err)
	}

	cfg := sstable.DefaultConfig()
	cfg.Logger = newLogger()
	r, err := sstable.OpenReader(dir, cfg)
	if err != nil {
		return fmt.Errorf("open %s: %w", dir, err)
	}
	defer r.Close()

	rows, err := sstable.Execute(context.Background(), plan, tbl, r)
	if err != nil {
		return fmt.Errorf("execute: %w", err)
	}

	for _, row := range rows {
		printRow(row)
	}
	return nil
}

func printRow(row sstable.Row) {
	parts := make([]string, 0, len(row.Columns))
	for _, name := range row.Columns {
		v, ok := row.Get(name)
		if !ok {
			parts = append(parts, name+"=NULL")
			continue
		}
		parts = append(parts, name+"="+formatValue(v))
	}
	fmt.Println(strings.Join(parts, " "))
}

func formatValue(v types.Value) string {
	switch v.Kind {
	case types.KindText:
		return v.TextString()
	case types.KindBlob, types.KindUUID:
		return hex.EncodeToString(v.Bytes)
	default:
		return fmt.Sprintf("%+v", v)
	}
}
