package block

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// caches bundles the two bounded LRU caches a reader owns: block metadata
// (offset → BlockMeta) and decompressed block payloads with their parsed
// entries (offset → decodedBlock), per spec.md §4.6.
type caches struct {
	meta *lru.Cache[int64, BlockMeta]
	data *lru.Cache[int64, decodedBlock]
}

func newCaches(capacity int) (*caches, error) {
	if capacity <= 0 {
		capacity = 1
	}
	meta, err := lru.New[int64, BlockMeta](capacity)
	if err != nil {
		return nil, err
	}
	data, err := lru.New[int64, decodedBlock](capacity)
	if err != nil {
		return nil, err
	}
	return &caches{meta: meta, data: data}, nil
}

func (c *caches) purge() {
	c.meta.Purge()
	c.data.Purge()
}
