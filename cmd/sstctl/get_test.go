package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sstreader/pkg/types"
)

func TestResolveKeyWithoutSchemaUsesLiteralBytes(t *testing.T) {
	getSchemaPath = ""
	key, err := resolveKey("alice")
	require.NoError(t, err)
	require.Equal(t, types.RowKey("alice"), key)
}

func TestPrintNamedColumnRejectsNonUDTValue(t *testing.T) {
	v := types.Value{Kind: types.KindBigInt, Int64: 7}
	err := printNamedColumn(v, "anything")
	require.Error(t, err)
}

func TestPrintNamedColumnFindsUDTField(t *testing.T) {
	v := types.Value{
		Kind: types.KindUDT,
		UDTFields: []types.UDTField{
			{Name: "age", Value: types.Value{Kind: types.KindInt, Int64: 30}},
		},
	}
	require.NoError(t, printNamedColumn(v, "age"))
}

func TestPrintNamedColumnReportsMissingField(t *testing.T) {
	v := types.Value{Kind: types.KindUDT}
	err := printNamedColumn(v, "missing")
	require.Error(t, err)
}
