package schema

import (
	"github.com/google/btree"
)

// columnIndexEntry maps a column name to its position in a TableSchema's
// Columns slice.
type columnIndexEntry struct {
	name string
	pos  int
}

func lessColumnIndexEntry(a, b columnIndexEntry) bool { return a.name < b.name }

// buildColumnIndex returns an ordered, name-keyed index over columns.
// Grounded on the same google/btree dependency the block reader uses for
// its offset index (SPEC_FULL.md §4); building this fresh per call keeps
// TableSchema a plain value type safe to copy, at the cost of an O(n log n)
// rebuild whenever ordered access is needed — acceptable since schemas are
// built once at startup and read many times thereafter (spec.md §3
// "Lifecycle").
func buildColumnIndex(columns []Column) *btree.BTreeG[columnIndexEntry] {
	tree := btree.NewG(32, lessColumnIndexEntry)
	for i, c := range columns {
		tree.ReplaceOrInsert(columnIndexEntry{name: c.Name, pos: i})
	}
	return tree
}

// ColumnsSortedByName returns the table's columns in ascending name order,
// useful for deterministic diagnostics and DDL re-emission.
func (t TableSchema) ColumnsSortedByName() []Column {
	tree := buildColumnIndex(t.Columns)
	out := make([]Column, 0, tree.Len())
	tree.Ascend(func(e columnIndexEntry) bool {
		out = append(out, t.Columns[e.pos])
		return true
	})
	return out
}
