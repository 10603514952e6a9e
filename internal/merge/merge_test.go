package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sstreader/pkg/types"
)

func liveEntry(text string, writeTime int64, gen types.Generation) Entry {
	return Entry{Value: types.Text(text), WriteTime: writeTime, Generation: gen}
}

func TestMergeSingleGenerationLiveCell(t *testing.T) {
	entries := []Entry{liveEntry("v", 100, 1)}
	got, ok := Merge(entries, 100)
	require.True(t, ok)
	require.True(t, types.Text("v").Equal(got))
}

func TestMergeTwoGenerationsNewerWins(t *testing.T) {
	entries := []Entry{
		liveEntry("old", 100, 1),
		liveEntry("new", 200, 2),
	}
	got, ok := Merge(entries, 200)
	require.True(t, ok)
	require.True(t, types.Text("new").Equal(got))
}

func TestMergeTombstoneShadowsOlderWrite(t *testing.T) {
	entries := []Entry{
		liveEntry("v", 100, 1),
		{Value: types.RowTombstone(150), WriteTime: 150, Generation: 2},
	}
	_, ok := Merge(entries, 150)
	require.False(t, ok)
}

func TestMergeTombstoneDoesNotShadowNewerWrite(t *testing.T) {
	entries := []Entry{
		{Value: types.RowTombstone(150), WriteTime: 150, Generation: 1},
		liveEntry("v", 200, 2),
	}
	got, ok := Merge(entries, 200)
	require.True(t, ok)
	require.True(t, types.Text("v").Equal(got))
}

func TestMergeTTLExpiry(t *testing.T) {
	entries := []Entry{
		{Value: types.Text("v"), WriteTime: 1_000_000, Generation: 1, HasTTL: true, TTL: 1},
	}
	_, ok := Merge(entries, 3_000_000)
	require.False(t, ok)
}

func TestMergeTTLNotYetExpired(t *testing.T) {
	entries := []Entry{
		{Value: types.Text("v"), WriteTime: 1_000_000, Generation: 1, HasTTL: true, TTL: 5},
	}
	got, ok := Merge(entries, 3_000_000)
	require.True(t, ok)
	require.True(t, types.Text("v").Equal(got))
}

func TestMergeEmptyReturnsNothing(t *testing.T) {
	_, ok := Merge(nil, 0)
	require.False(t, ok)
}

func TestMergeAllTombstonesReturnsNothing(t *testing.T) {
	entries := []Entry{
		{Value: types.RowTombstone(100), WriteTime: 100, Generation: 1},
		{Value: types.RowTombstone(200), WriteTime: 200, Generation: 2},
	}
	_, ok := Merge(entries, 200)
	require.False(t, ok)
}

// Merger monotonicity (spec.md §8): adding a generation with a strictly
// higher (write_time, generation) for the same key never changes the
// winner to an older value.
func TestMergeMonotonicity(t *testing.T) {
	base := []Entry{liveEntry("old", 100, 1)}
	got, ok := Merge(base, 100)
	require.True(t, ok)
	require.True(t, types.Text("old").Equal(got))

	withNewer := append(base, liveEntry("newer", 300, 2))
	got, ok = Merge(withNewer, 300)
	require.True(t, ok)
	require.True(t, types.Text("newer").Equal(got))
}

// Merger tombstone dominance (spec.md §8): if the highest-priority entry
// is a row tombstone with deletion time d, no value with write_time <= d
// survives.
func TestMergeTombstoneDominance(t *testing.T) {
	entries := []Entry{
		liveEntry("at-boundary", 150, 1),
		liveEntry("before", 120, 1),
		{Value: types.RowTombstone(150), WriteTime: 150, Generation: 2},
	}
	_, ok := Merge(entries, 150)
	require.False(t, ok)
}

func TestMergeTieBrokenByHigherGeneration(t *testing.T) {
	entries := []Entry{
		liveEntry("from-gen-1", 100, 1),
		liveEntry("from-gen-3", 100, 3),
		liveEntry("from-gen-2", 100, 2),
	}
	got, ok := Merge(entries, 100)
	require.True(t, ok)
	require.True(t, types.Text("from-gen-3").Equal(got))
}

func TestFromCellTranslatesDeletedFlagToRowTombstone(t *testing.T) {
	cell := types.Cell{
		Meta: types.CellMeta{
			WriteTime:      100,
			Deleted:        true,
			LocalDeletion:  42,
			HasLocalDelete: true,
		},
	}
	e := FromCell(cell, 7)
	require.True(t, e.Value.IsTombstone())
	require.Equal(t, int64(42_000_000), e.Value.Tomb.DeletionTime)
	require.Equal(t, types.Generation(7), e.Generation)
}

func TestFromCellTranslatesLiveCell(t *testing.T) {
	cell := types.Cell{
		Meta:  types.CellMeta{WriteTime: 100, HasTTL: true, TTL: 30},
		Value: types.Text("v"),
	}
	e := FromCell(cell, 3)
	require.False(t, e.Value.IsTombstone())
	require.True(t, e.HasTTL)
	require.Equal(t, int32(30), e.TTL)
}
