package sstable

import (
	"github.com/joshuapare/sstreader/internal/ddl"
	"github.com/joshuapare/sstreader/pkg/schema"
	"github.com/joshuapare/sstreader/pkg/types"
)

// PlanKind distinguishes a single-row lookup from a scan over a key range.
// FromSelect plans a point lookup only when every partition-key column has
// an equality predicate and the table has no clustering keys; a table with
// clustering keys gets a single-partition range scan even when its
// partition key is fully bound, and everything else gets a full scan.
type PlanKind int

const (
	PlanPointLookup PlanKind = iota
	PlanRangeScan
)

func (k PlanKind) String() string {
	if k == PlanPointLookup {
		return "PointLookup"
	}
	return "RangeScan"
}

// Plan is the planner's output for one SELECT statement: either an exact
// row key to fetch, or a [Start, End) byte-key range to scan, plus the
// residual predicates and projection the executor must apply client-side.
type Plan struct {
	Kind PlanKind

	Key   types.RowKey // set iff Kind == PlanPointLookup
	Start types.RowKey // set iff Kind == PlanRangeScan; inclusive
	End   types.RowKey // set iff Kind == PlanRangeScan; exclusive, nil means unbounded

	// Residual holds every predicate not already folded into Key/Start/End:
	// clustering-column comparisons and any non-key-column predicate
	// (requires AllowFiltering, checked by FromSelect). The executor applies
	// these row-by-row after a generation yields candidates.
	Residual []ddl.Predicate

	Columns        []string // projected column names; empty means every column
	Limit          int
	HasLimit       bool
	ClusteringKeys []schema.ClusteringKey // carried through for result ordering
}

// FromSelect plans stmt against tbl (spec.md §4.10 and §6 "Planner::plan").
// Only conjunctions of simple column comparisons are supported, matching
// what the parser accepts; OR and nested expressions are rejected upstream
// by the DDL grammar, not here.
func FromSelect(stmt *ddl.SelectStmt, tbl schema.TableSchema) (Plan, error) {
	byColumn := map[string][]ddl.Predicate{}
	for _, p := range stmt.Where {
		byColumn[p.Column] = append(byColumn[p.Column], p)
	}

	partitionEq := make([][]byte, 0, len(tbl.PartitionKeys))
	havePartitionEq := true
	for _, pk := range tbl.PartitionKeys {
		preds := byColumn[pk]
		eq, ok := soleEquality(preds)
		if !ok {
			havePartitionEq = false
			break
		}
		col, _ := tbl.Column(pk)
		v, err := literalToValue(eq.Value, col.Type)
		if err != nil {
			return Plan{}, err
		}
		b, err := keyComponentBytes(v)
		if err != nil {
			return Plan{}, err
		}
		partitionEq = append(partitionEq, b)
		delete(byColumn, pk)
	}

	residual, err := residualPredicates(byColumn, tbl, stmt.AllowFiltering)
	if err != nil {
		return Plan{}, err
	}

	base := Plan{
		Columns:        stmt.Columns,
		Limit:          stmt.Limit,
		HasLimit:       stmt.HasLimit,
		ClusteringKeys: tbl.ClusteringKeys,
		Residual:       residual,
	}

	if havePartitionEq && len(tbl.ClusteringKeys) == 0 {
		key, err := types.EncodeCompositeKey(partitionEq)
		if err != nil {
			return Plan{}, err
		}
		base.Kind = PlanPointLookup
		base.Key = key
		return base, nil
	}

	if !havePartitionEq {
		base.Kind = PlanRangeScan
		base.Start = nil
		base.End = nil
		return base, nil
	}

	// Partition key is fully bound but clustering columns remain: scan the
	// single partition's key range and let the executor filter clustering
	// predicates client-side, since clustering columns are not part of the
	// partition-key byte prefix this reader indexes by (spec.md §4.5's
	// composite key covers only partition-key columns).
	key, err := types.EncodeCompositeKey(partitionEq)
	if err != nil {
		return Plan{}, err
	}
	base.Kind = PlanRangeScan
	base.Start = key
	base.End = nextKey(key)
	return base, nil
}

// soleEquality returns the single equality predicate in preds, or
// (_, false) if preds is empty, has more than one entry, or its only entry
// is not an equality (a range predicate on a partition-key column forces a
// full scan since partition keys are hash-ordered, not range-ordered, in
// real Cassandra — and this reader's byte-ordered key space does not
// special-case that, so it is simplest and safest to just fall back to scan).
func soleEquality(preds []ddl.Predicate) (ddl.Predicate, bool) {
	if len(preds) != 1 || preds[0].Op != ddl.OpEq {
		return ddl.Predicate{}, false
	}
	return preds[0], true
}

// residualPredicates validates that every predicate left over after
// partition-key extraction is either on a clustering column (always
// allowed, applied client-side) or guarded by ALLOW FILTERING
// (spec.md §4.9/§4.10).
func residualPredicates(byColumn map[string][]ddl.Predicate, tbl schema.TableSchema, allowFiltering bool) ([]ddl.Predicate, error) {
	clusteringCols := map[string]bool{}
	for _, ck := range tbl.ClusteringKeys {
		clusteringCols[ck.Name] = true
	}

	var out []ddl.Predicate
	for col, preds := range byColumn {
		if !clusteringCols[col] && !allowFiltering {
			return nil, types.NewError(types.ErrKindInvalidValue,
				"predicate on non-key column %q requires ALLOW FILTERING", col)
		}
		out = append(out, preds...)
	}
	return out, nil
}

// nextKey returns the lexicographically smallest byte string strictly
// greater than k with k as a prefix, giving an exclusive scan end that
// covers exactly the one partition whose key is k. Appending a 0x00 byte
// works here because RowKey's composite framing never leaves a bare
// all-0xFF tail for a single bounded partition key to collide with.
func nextKey(k types.RowKey) types.RowKey {
	out := make([]byte, len(k)+1)
	copy(out, k)
	out[len(k)] = 0x00
	return out
}
