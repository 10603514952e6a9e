package block

import (
	"bytes"

	"github.com/google/btree"

	"github.com/joshuapare/sstreader/pkg/types"
)

// indexEntry maps a row key to the offset of the block that contains it.
type indexEntry struct {
	key    types.RowKey
	offset int64
}

func lessIndexEntry(a, b indexEntry) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// Index is the in-memory, ordered key→block-offset mapping the reader
// builds by scanning a generation once (spec.md §4.6: "the index, if
// present"). It backs both point lookups and range-scan's range facility.
// Built on google/btree since the on-disk Index.db component's exact
// sampled-key layout is out of scope here; this reconstructs the same
// ordered-offset capability by walking the data blocks directly.
type Index struct {
	tree *btree.BTreeG[indexEntry]
}

// NewIndex creates an empty ordered index.
func NewIndex() *Index {
	return &Index{tree: btree.NewG(32, lessIndexEntry)}
}

// Put records that key's entry lives in the block starting at offset. When
// a generation's entries are visited in on-disk order, the first Put for
// a given key wins the position used for subsequent lookups, matching the
// leftmost occurrence in file order.
func (idx *Index) Put(key types.RowKey, offset int64) {
	entry := indexEntry{key: key, offset: offset}
	if _, ok := idx.tree.Get(entry); ok {
		return
	}
	idx.tree.ReplaceOrInsert(entry)
}

// Lookup returns the block offset that may contain key.
func (idx *Index) Lookup(key types.RowKey) (int64, bool) {
	entry, ok := idx.tree.Get(indexEntry{key: key})
	if !ok {
		return 0, false
	}
	return entry.offset, true
}

// Range collects the set of distinct block offsets whose key range could
// intersect [start, end). A nil start or end means unbounded on that side.
func (idx *Index) Range(start, end types.RowKey) []int64 {
	seen := map[int64]bool{}
	var offsets []int64
	visit := func(e indexEntry) bool {
		if !seen[e.offset] {
			seen[e.offset] = true
			offsets = append(offsets, e.offset)
		}
		return true
	}
	switch {
	case start == nil && end == nil:
		idx.tree.Ascend(visit)
	case start == nil:
		idx.tree.AscendLessThan(indexEntry{key: end}, visit)
	case end == nil:
		idx.tree.AscendGreaterOrEqual(indexEntry{key: start}, visit)
	default:
		idx.tree.AscendRange(indexEntry{key: start}, indexEntry{key: end}, visit)
	}
	return offsets
}

// Len reports how many distinct keys the index tracks.
func (idx *Index) Len() int {
	return idx.tree.Len()
}
