package sstable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sstreader/internal/ddl"
	"github.com/joshuapare/sstreader/pkg/schema"
	"github.com/joshuapare/sstreader/pkg/types"
)

func TestUnpackRowSingleNonPartitionColumn(t *testing.T) {
	cols := nonPartitionColumns(simpleTable())
	out, err := unpackRow(types.Text("alice"), cols)
	require.NoError(t, err)
	require.True(t, types.Text("alice").Equal(out["name"]))
}

func TestUnpackRowUDTMultipleColumns(t *testing.T) {
	cols := nonPartitionColumns(clusteredTable())
	udt := types.UDTValue("row", []types.UDTField{
		{Name: "ts", Value: types.Bigint(500)},
		{Name: "payload", Value: types.Text("hi")},
	})
	out, err := unpackRow(udt, cols)
	require.NoError(t, err)
	require.True(t, types.Bigint(500).Equal(out["ts"]))
	require.True(t, types.Text("hi").Equal(out["payload"]))
}

func TestUnpackRowMismatchedShapeErrors(t *testing.T) {
	cols := nonPartitionColumns(clusteredTable())
	_, err := unpackRow(types.Text("not-a-udt"), cols)
	require.Error(t, err)
}

func TestMatchesResidualEquality(t *testing.T) {
	tbl := clusteredTable()
	preds := []ddl.Predicate{{Column: "payload", Op: ddl.OpEq, Value: "hi"}}
	cols := map[string]types.Value{"payload": types.Text("hi")}
	require.True(t, matchesResidual(preds, tbl, cols))

	cols["payload"] = types.Text("bye")
	require.False(t, matchesResidual(preds, tbl, cols))
}

func TestMatchesResidualRange(t *testing.T) {
	tbl := clusteredTable()
	preds := []ddl.Predicate{{Column: "ts", Op: ddl.OpGe, Value: "100"}}
	require.True(t, matchesResidual(preds, tbl, map[string]types.Value{"ts": types.Bigint(100)}))
	require.False(t, matchesResidual(preds, tbl, map[string]types.Value{"ts": types.Bigint(50)}))
}

func TestSortRowsRespectsDescClusteringOrder(t *testing.T) {
	rows := []Row{
		{Key: types.RowKey("a"), Values: map[string]types.Value{"ts": types.Bigint(100)}},
		{Key: types.RowKey("b"), Values: map[string]types.Value{"ts": types.Bigint(300)}},
		{Key: types.RowKey("c"), Values: map[string]types.Value{"ts": types.Bigint(200)}},
	}
	sortRows(rows, []schema.ClusteringKey{{Name: "ts", Order: schema.OrderDesc}})
	require.Equal(t, int64(300), rows[0].Values["ts"].Int64)
	require.Equal(t, int64(200), rows[1].Values["ts"].Int64)
	require.Equal(t, int64(100), rows[2].Values["ts"].Int64)
}

func TestSortRowsAscendingClusteringOrder(t *testing.T) {
	rows := []Row{
		{Key: types.RowKey("a"), Values: map[string]types.Value{"ts": types.Bigint(300)}},
		{Key: types.RowKey("b"), Values: map[string]types.Value{"ts": types.Bigint(100)}},
	}
	sortRows(rows, []schema.ClusteringKey{{Name: "ts", Order: schema.OrderAsc}})
	require.Equal(t, int64(100), rows[0].Values["ts"].Int64)
	require.Equal(t, int64(300), rows[1].Values["ts"].Int64)
}

func TestCompareValuesMismatchedKindsNotOrdered(t *testing.T) {
	_, ok := compareValues(types.Int(1), types.Text("1"))
	require.False(t, ok)
}

func TestRowGetReturnsFalseForNull(t *testing.T) {
	r := Row{Values: map[string]types.Value{"name": types.Null()}}
	_, ok := r.Get("name")
	require.False(t, ok)
}
