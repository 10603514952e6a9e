package sstable

import (
	"bytes"
	"context"
	"sort"

	"github.com/joshuapare/sstreader/internal/ddl"
	"github.com/joshuapare/sstreader/pkg/schema"
	"github.com/joshuapare/sstreader/pkg/types"
)

// Row is one projected result row: column name to decoded value, in the
// order Plan.Columns requested (or schema column order for `SELECT *`).
type Row struct {
	Key     types.RowKey
	Columns []string
	Values  map[string]types.Value
}

// Get looks up one column's value, returning false if the row has no value
// for it or the value is NULL. Values holds every column of the row, not
// only the projected ones; Columns lists the projection.
func (r Row) Get(name string) (types.Value, bool) {
	v, ok := r.Values[name]
	if !ok || v.IsNull() {
		return types.Value{}, false
	}
	return v, true
}

// Execute runs plan against reader and returns the matching rows, with
// client-side clustering-predicate filtering, column projection, and
// clustering-order sort applied (spec.md §4.10, §6 "Executor::execute").
//
// The underlying store keeps exactly one merged Value per partition key
// (internal/merge resolves every generation down to a single winner), so a
// row's non-partition columns are carried as a single packed value: a UDT
// value whose fields are the non-partition columns by name when there is
// more than one, or that column's value directly when there is exactly
// one. unpackRow reverses this for the executor; see DESIGN.md for the
// tradeoff this simplification makes against Cassandra's real wide-row
// clustering storage.
func Execute(ctx context.Context, plan Plan, tbl schema.TableSchema, r *Reader) ([]Row, error) {
	var candidates []ScanEntry

	switch plan.Kind {
	case PlanPointLookup:
		v, ok, err := r.Get(ctx, plan.Key)
		if err != nil {
			return nil, err
		}
		if ok {
			candidates = append(candidates, ScanEntry{Key: plan.Key, Value: v})
		}
	case PlanRangeScan:
		entries, err := r.Scan(ctx, plan.Start, plan.End, 0)
		if err != nil {
			return nil, err
		}
		candidates = entries
	}

	nonPartition := nonPartitionColumns(tbl)

	var rows []Row
	for _, c := range candidates {
		cols, err := unpackRow(c.Value, nonPartition)
		if err != nil {
			return nil, err
		}
		partKeyCols, err := DecodePartitionKey(tbl, c.Key)
		if err != nil {
			return nil, err
		}
		for name, v := range partKeyCols {
			cols[name] = v
		}
		if !matchesResidual(plan.Residual, tbl, cols) {
			continue
		}
		rows = append(rows, Row{
			Key:     c.Key,
			Columns: projectedNames(plan.Columns, tbl),
			Values:  cols,
		})
	}

	sortRows(rows, plan.ClusteringKeys)

	if plan.HasLimit && plan.Limit >= 0 && len(rows) > plan.Limit {
		rows = rows[:plan.Limit]
	}
	return rows, nil
}

// nonPartitionColumns returns every column of tbl that is not a partition
// key, in declared order; this is the field set a row's packed Value
// unpacks into.
func nonPartitionColumns(tbl schema.TableSchema) []schema.Column {
	isPK := map[string]bool{}
	for _, pk := range tbl.PartitionKeys {
		isPK[pk] = true
	}
	var out []schema.Column
	for _, c := range tbl.Columns {
		if !isPK[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

// unpackRow spreads a stored Value into a name-keyed column map. A UDT
// value is spread field by field; any other value is assigned to the sole
// non-partition column (a schema with zero or more than one non-partition
// column but a non-UDT stored value indicates mismatched data, which is
// reported as an error rather than silently dropped).
func unpackRow(v types.Value, nonPartition []schema.Column) (map[string]types.Value, error) {
	out := make(map[string]types.Value, len(nonPartition))
	if v.Kind == types.KindUDT {
		byName := make(map[string]types.Value, len(v.UDTFields))
		for _, f := range v.UDTFields {
			byName[f.Name] = f.Value
		}
		for _, c := range nonPartition {
			if fv, ok := byName[c.Name]; ok {
				out[c.Name] = fv
			} else {
				out[c.Name] = types.Null()
			}
		}
		return out, nil
	}
	if len(nonPartition) != 1 {
		return nil, types.NewError(types.ErrKindInvalidValue,
			"row value is not a UDT but table has %d non-partition columns", len(nonPartition))
	}
	out[nonPartition[0].Name] = v
	return out, nil
}

// projectedNames resolves Plan.Columns ("" means SELECT *) to concrete
// column names in schema order.
func projectedNames(requested []string, tbl schema.TableSchema) []string {
	if len(requested) == 0 {
		names := make([]string, len(tbl.Columns))
		for i, c := range tbl.Columns {
			names[i] = c.Name
		}
		return names
	}
	return requested
}

// matchesResidual evaluates every predicate the planner could not fold
// into a key lookup against cols, the row's unpacked columns including its
// decoded partition-key columns. A partition-key predicate that FromSelect
// could not fold into the plan's key (a range comparison, for example) is
// evaluated here like any other.
func matchesResidual(preds []ddl.Predicate, tbl schema.TableSchema, cols map[string]types.Value) bool {
	for _, p := range preds {
		col, ok := tbl.Column(p.Column)
		if !ok {
			return false
		}
		actual, ok := cols[p.Column]
		if !ok {
			return false
		}
		want, err := literalToValue(p.Value, col.Type)
		if err != nil {
			return false
		}
		if !compareOK(actual, want, p.Op) {
			return false
		}
	}
	return true
}

func compareOK(actual, want types.Value, op ddl.CompareOp) bool {
	c, ok := compareValues(actual, want)
	if !ok {
		return false
	}
	switch op {
	case ddl.OpEq:
		return c == 0
	case ddl.OpNe:
		return c != 0
	case ddl.OpLt:
		return c < 0
	case ddl.OpLe:
		return c <= 0
	case ddl.OpGt:
		return c > 0
	case ddl.OpGe:
		return c >= 0
	default:
		return false
	}
}

// compareValues orders two values of the same kind, returning ok=false for
// kinds with no natural total order (collections, UDTs, tombstones) — a
// predicate against one of those always fails to match rather than
// panicking.
func compareValues(a, b types.Value) (int, bool) {
	if a.Kind != b.Kind {
		return 0, false
	}
	switch a.Kind {
	case types.KindBoolean:
		return boolCompare(a.Bool, b.Bool), true
	case types.KindTinyInt, types.KindSmallInt, types.KindInt, types.KindBigInt,
		types.KindTimestamp, types.KindVarint:
		return int64Compare(a.Int64, b.Int64), true
	case types.KindFloat:
		return float64Compare(float64(a.Float32), float64(b.Float32)), true
	case types.KindDouble:
		return float64Compare(a.Float64, b.Float64), true
	case types.KindText, types.KindBlob, types.KindUUID:
		return bytes.Compare(a.Bytes, b.Bytes), true
	default:
		return 0, false
	}
}

func boolCompare(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func int64Compare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func float64Compare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// sortRows orders rows by clustering-key columns per their declared
// direction, breaking ties on the raw row key so ordering stays
// deterministic when clustering columns are absent or equal.
func sortRows(rows []Row, clusteringKeys []schema.ClusteringKey) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, ck := range clusteringKeys {
			vi, iok := rows[i].Values[ck.Name]
			vj, jok := rows[j].Values[ck.Name]
			if !iok || !jok {
				continue
			}
			c, ok := compareValues(vi, vj)
			if !ok || c == 0 {
				continue
			}
			if ck.Order == schema.OrderDesc {
				return c > 0
			}
			return c < 0
		}
		return bytes.Compare(rows[i].Key, rows[j].Key) < 0
	})
}
