package sstable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sstreader/pkg/schema"
	"github.com/joshuapare/sstreader/pkg/types"
)

func TestLiteralToValueInt(t *testing.T) {
	v, err := literalToValue("42", schema.NewPrimitive(schema.PrimitiveInt))
	require.NoError(t, err)
	require.True(t, types.Int(42).Equal(v))
}

func TestLiteralToValueBigint(t *testing.T) {
	v, err := literalToValue("-9000000000", schema.NewPrimitive(schema.PrimitiveBigint))
	require.NoError(t, err)
	require.True(t, types.Bigint(-9000000000).Equal(v))
}

func TestLiteralToValueText(t *testing.T) {
	v, err := literalToValue("hello", schema.NewPrimitive(schema.PrimitiveText))
	require.NoError(t, err)
	require.True(t, types.Text("hello").Equal(v))
}

func TestLiteralToValueUUIDDashed(t *testing.T) {
	v, err := literalToValue("550e8400-e29b-41d4-a716-446655440000", schema.NewPrimitive(schema.PrimitiveUUID))
	require.NoError(t, err)
	require.Equal(t, types.KindUUID, v.Kind)
	require.Len(t, v.Bytes, 16)
}

func TestLiteralToValueUUIDBare(t *testing.T) {
	dashed, err := literalToValue("550e8400-e29b-41d4-a716-446655440000", schema.NewPrimitive(schema.PrimitiveUUID))
	require.NoError(t, err)
	bare, err := literalToValue("550e8400e29b41d4a716446655440000", schema.NewPrimitive(schema.PrimitiveUUID))
	require.NoError(t, err)
	require.True(t, dashed.Equal(bare))
}

func TestLiteralToValueInvalidInt(t *testing.T) {
	_, err := literalToValue("not-a-number", schema.NewPrimitive(schema.PrimitiveInt))
	require.Error(t, err)
}

func TestLiteralToValueRejectsCollectionKeyType(t *testing.T) {
	_, err := literalToValue("1", schema.NewList(schema.NewPrimitive(schema.PrimitiveInt)))
	require.Error(t, err)
}

func TestKeyComponentBytesIntIsFixedWidth(t *testing.T) {
	neg, err := keyComponentBytes(types.Int(-1))
	require.NoError(t, err)
	pos, err := keyComponentBytes(types.Int(1))
	require.NoError(t, err)
	// Fixed-width big-endian two's complement does not sort unsigned-lexically
	// across the sign boundary; this only needs to be internally consistent
	// for same-signed comparisons, which the test below exercises instead.
	require.Len(t, neg, 4)
	require.Len(t, pos, 4)
}

func TestKeyComponentBytesOrdersSameSignedInts(t *testing.T) {
	a, err := keyComponentBytes(types.Int(5))
	require.NoError(t, err)
	b, err := keyComponentBytes(types.Int(10))
	require.NoError(t, err)
	require.Less(t, string(a), string(b))
}

func TestKeyComponentBytesText(t *testing.T) {
	b, err := keyComponentBytes(types.Text("abc"))
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), b)
}
