package sstable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sstreader/internal/ddl"
	"github.com/joshuapare/sstreader/pkg/schema"
	"github.com/joshuapare/sstreader/pkg/types"
)

func simpleTable() schema.TableSchema {
	return schema.TableSchema{
		Keyspace:      "ks",
		Table:         "users",
		PartitionKeys: []string{"id"},
		Columns: []schema.Column{
			{Name: "id", Type: schema.NewPrimitive(schema.PrimitiveInt)},
			{Name: "name", Type: schema.NewPrimitive(schema.PrimitiveText)},
		},
	}
}

func clusteredTable() schema.TableSchema {
	return schema.TableSchema{
		Keyspace:      "ks",
		Table:         "events",
		PartitionKeys: []string{"id"},
		ClusteringKeys: []schema.ClusteringKey{
			{Name: "ts", Order: schema.OrderDesc},
		},
		Columns: []schema.Column{
			{Name: "id", Type: schema.NewPrimitive(schema.PrimitiveInt)},
			{Name: "ts", Type: schema.NewPrimitive(schema.PrimitiveBigint)},
			{Name: "payload", Type: schema.NewPrimitive(schema.PrimitiveText)},
		},
	}
}

func TestFromSelectPointLookup(t *testing.T) {
	stmt := &ddl.SelectStmt{
		Where: []ddl.Predicate{{Column: "id", Op: ddl.OpEq, Value: "7"}},
	}
	plan, err := FromSelect(stmt, simpleTable())
	require.NoError(t, err)
	require.Equal(t, PlanPointLookup, plan.Kind)
	require.NotEmpty(t, plan.Key)
}

func TestFromSelectFullScanWithoutPartitionEquality(t *testing.T) {
	stmt := &ddl.SelectStmt{}
	plan, err := FromSelect(stmt, simpleTable())
	require.NoError(t, err)
	require.Equal(t, PlanRangeScan, plan.Kind)
	require.Nil(t, plan.Start)
	require.Nil(t, plan.End)
}

func TestFromSelectSinglePartitionScanWithClusteringKeys(t *testing.T) {
	stmt := &ddl.SelectStmt{
		Where: []ddl.Predicate{
			{Column: "id", Op: ddl.OpEq, Value: "1"},
			{Column: "ts", Op: ddl.OpGt, Value: "100"},
		},
	}
	plan, err := FromSelect(stmt, clusteredTable())
	require.NoError(t, err)
	require.Equal(t, PlanRangeScan, plan.Kind)
	require.NotNil(t, plan.Start)
	require.NotNil(t, plan.End)
	require.Len(t, plan.Residual, 1)
	require.Equal(t, "ts", plan.Residual[0].Column)
}

func TestFromSelectNonKeyPredicateRequiresAllowFiltering(t *testing.T) {
	stmt := &ddl.SelectStmt{
		Where: []ddl.Predicate{
			{Column: "id", Op: ddl.OpEq, Value: "1"},
			{Column: "name", Op: ddl.OpEq, Value: "alice"},
		},
	}
	_, err := FromSelect(stmt, simpleTable())
	require.Error(t, err)

	stmt.AllowFiltering = true
	plan, err := FromSelect(stmt, simpleTable())
	require.NoError(t, err)
	require.Len(t, plan.Residual, 1)
}

func TestFromSelectRangePredicateOnPartitionKeyFallsBackToScan(t *testing.T) {
	stmt := &ddl.SelectStmt{
		Where: []ddl.Predicate{{Column: "id", Op: ddl.OpGt, Value: "1"}},
		AllowFiltering: true,
	}
	plan, err := FromSelect(stmt, simpleTable())
	require.NoError(t, err)
	require.Equal(t, PlanRangeScan, plan.Kind)
}

func TestNextKeyIsGreaterThanInput(t *testing.T) {
	k := types.RowKey([]byte{0x00, 0x01, 42})
	nk := nextKey(k)
	require.Equal(t, 1, nk.Compare(k))
}
