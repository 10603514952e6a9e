package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleSchema() TableSchema {
	return TableSchema{
		Keyspace:      "ks",
		Table:         "events",
		PartitionKeys: []string{"id"},
		ClusteringKeys: []ClusteringKey{
			{Name: "ts", Order: OrderDesc},
		},
		Columns: []Column{
			{Name: "id", Type: NewPrimitive(PrimitiveUUID)},
			{Name: "ts", Type: NewPrimitive(PrimitiveTimestamp)},
			{Name: "payload", Type: NewPrimitive(PrimitiveBlob), Nullable: true},
		},
	}
}

func TestValidateAcceptsWellFormedSchema(t *testing.T) {
	require.NoError(t, sampleSchema().Validate())
}

func TestValidateRejectsEmptyPartitionKeys(t *testing.T) {
	s := sampleSchema()
	s.PartitionKeys = nil
	require.Error(t, s.Validate())
}

func TestValidateRejectsDuplicateColumnNames(t *testing.T) {
	s := sampleSchema()
	s.Columns = append(s.Columns, Column{Name: "id", Type: NewPrimitive(PrimitiveInt)})
	require.Error(t, s.Validate())
}

func TestValidateRejectsKeyNotInColumns(t *testing.T) {
	s := sampleSchema()
	s.PartitionKeys = []string{"missing"}
	require.Error(t, s.Validate())

	s2 := sampleSchema()
	s2.ClusteringKeys = []ClusteringKey{{Name: "missing"}}
	require.Error(t, s2.Validate())
}

func TestValidateRejectsFrozenWrappingPrimitive(t *testing.T) {
	s := sampleSchema()
	s.Columns[2].Type = CQLType{Kind: KindFrozen, Elem: &CQLType{Kind: KindPrimitive, Primitive: PrimitiveInt}}
	require.Error(t, s.Validate())
}

func TestValidateAcceptsFrozenNestedInsideCollection(t *testing.T) {
	s := sampleSchema()
	frozenTuple, err := NewFrozen(NewTuple(NewPrimitive(PrimitiveUUID), NewPrimitive(PrimitiveTimestamp)))
	require.NoError(t, err)
	s.Columns[2].Type = NewList(frozenTuple)
	require.NoError(t, s.Validate())
}

func TestColumnLookup(t *testing.T) {
	s := sampleSchema()
	c, ok := s.Column("ts")
	require.True(t, ok)
	require.Equal(t, PrimitiveTimestamp, c.Type.Primitive)

	_, ok = s.Column("nope")
	require.False(t, ok)
}

func TestColumnsSortedByName(t *testing.T) {
	s := sampleSchema()
	sorted := s.ColumnsSortedByName()
	require.Len(t, sorted, 3)
	require.Equal(t, "id", sorted[0].Name)
	require.Equal(t, "payload", sorted[1].Name)
	require.Equal(t, "ts", sorted[2].Name)
}
