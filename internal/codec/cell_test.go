package codec

import (
	"testing"

	"github.com/joshuapare/sstreader/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestCellRoundTripLiveValue(t *testing.T) {
	cell := types.Cell{
		Meta: types.CellMeta{WriteTime: 100, HasTTL: true, TTL: 60},
		Value: types.Text("v"),
	}
	enc := EncodeCell(cell)
	got, tail, err := DecodeCell(enc, DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, tail)
	require.Equal(t, cell.Meta.WriteTime, got.Meta.WriteTime)
	require.True(t, got.Meta.HasTTL)
	require.Equal(t, int32(60), got.Meta.TTL)
	require.True(t, cell.Value.Equal(got.Value))
}

func TestCellRoundTripNoTimestampNoTTL(t *testing.T) {
	cell := types.Cell{Value: types.Int(7)}
	enc := EncodeCell(cell)
	got, _, err := DecodeCell(enc, DefaultOptions())
	require.NoError(t, err)
	require.False(t, got.Meta.HasTTL)
	require.True(t, cell.Value.Equal(got.Value))
}

func TestCellRoundTripDeletionMarker(t *testing.T) {
	cell := types.Cell{
		Meta: types.CellMeta{Deleted: true},
		Value: types.Value{
			Kind: types.KindTombstone,
			Tomb: types.Tombstone{Kind: types.DeletionCell, DeletionTime: 12345},
		},
	}
	enc := EncodeCell(cell)
	got, tail, err := DecodeCell(enc, DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, tail)
	require.True(t, got.Meta.Deleted)
	require.Equal(t, types.KindTombstone, got.Value.Kind)
	require.Equal(t, types.DeletionCell, got.Value.Tomb.Kind)
	require.Equal(t, int64(12345), got.Value.Tomb.DeletionTime)
}

func TestCellAllFourFlagCombinations(t *testing.T) {
	base := types.Cell{Value: types.Text("x")}
	variants := []types.CellMeta{
		{},
		{WriteTime: 5},
		{HasTTL: true, TTL: 30},
		{WriteTime: 5, HasTTL: true, TTL: 30},
	}
	for _, meta := range variants {
		c := base
		c.Meta = meta
		enc := EncodeCell(c)
		got, tail, err := DecodeCell(enc, DefaultOptions())
		require.NoError(t, err)
		require.Empty(t, tail)
		require.Equal(t, meta.WriteTime, got.Meta.WriteTime)
		require.Equal(t, meta.HasTTL, got.Meta.HasTTL)
		require.Equal(t, meta.TTL, got.Meta.TTL)
	}
}

func TestDecodeCellTruncated(t *testing.T) {
	_, _, err := DecodeCell(nil, DefaultOptions())
	require.Error(t, err)
}
