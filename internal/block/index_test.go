package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sstreader/pkg/types"
)

func TestIndexLookup(t *testing.T) {
	idx := NewIndex()
	idx.Put(types.RowKey("a"), 0)
	idx.Put(types.RowKey("b"), 100)
	idx.Put(types.RowKey("c"), 200)

	off, ok := idx.Lookup(types.RowKey("b"))
	require.True(t, ok)
	require.EqualValues(t, 100, off)

	_, ok = idx.Lookup(types.RowKey("z"))
	require.False(t, ok)
}

func TestIndexFirstPutWins(t *testing.T) {
	idx := NewIndex()
	idx.Put(types.RowKey("a"), 10)
	idx.Put(types.RowKey("a"), 20)

	off, ok := idx.Lookup(types.RowKey("a"))
	require.True(t, ok)
	require.EqualValues(t, 10, off)
}

func TestIndexRangeBounds(t *testing.T) {
	idx := NewIndex()
	idx.Put(types.RowKey("a"), 0)
	idx.Put(types.RowKey("b"), 1)
	idx.Put(types.RowKey("c"), 2)
	idx.Put(types.RowKey("d"), 3)

	require.Len(t, idx.Range(nil, nil), 4)
	require.Len(t, idx.Range(types.RowKey("b"), types.RowKey("d")), 2)
	require.Len(t, idx.Range(nil, types.RowKey("b")), 1)
	require.Len(t, idx.Range(types.RowKey("c"), nil), 2)
}

func TestIndexLen(t *testing.T) {
	idx := NewIndex()
	require.Equal(t, 0, idx.Len())
	idx.Put(types.RowKey("a"), 0)
	idx.Put(types.RowKey("b"), 1)
	require.Equal(t, 2, idx.Len())
}
