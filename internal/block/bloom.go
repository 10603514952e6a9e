package block

import (
	"math"

	"github.com/cespare/xxhash/v2"
)

// Bloom is a fixed-size bloom filter over row keys, used by Reader.Get to
// short-circuit a negative lookup before consulting the index or falling
// back to a sequential scan (spec.md §4.6). It uses double hashing over two
// xxhash digests of the key (Kirsch-Mitzenmacher) rather than k independent
// hash functions, which is the standard construction for xxhash-backed filters.
type Bloom struct {
	bits []uint64
	k    int
}

// NewBloom allocates a filter sized for expectedEntries at the given false
// positive rate.
func NewBloom(expectedEntries int, falsePositiveRate float64) *Bloom {
	if expectedEntries <= 0 {
		expectedEntries = 1
	}
	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		falsePositiveRate = 0.01
	}
	m := optimalBits(expectedEntries, falsePositiveRate)
	k := optimalHashes(expectedEntries, m)
	words := (m + 63) / 64
	if words == 0 {
		words = 1
	}
	return &Bloom{bits: make([]uint64, words), k: k}
}

func optimalBits(n int, p float64) int {
	m := float64(-n) * math.Log(p) / (math.Ln2 * math.Ln2)
	if m < 64 {
		m = 64
	}
	return int(m)
}

func optimalHashes(n, m int) int {
	if n == 0 {
		return 1
	}
	k := int(float64(m) / float64(n) * math.Ln2)
	if k < 1 {
		k = 1
	}
	if k > 16 {
		k = 16
	}
	return k
}

func (b *Bloom) hashes(key []byte) (uint64, uint64) {
	h1 := xxhash.Sum64(key)
	h2 := xxhash.Sum64(append(append([]byte(nil), key...), 0xFF))
	return h1, h2
}

// Add inserts key into the filter.
func (b *Bloom) Add(key []byte) {
	h1, h2 := b.hashes(key)
	m := uint64(len(b.bits) * 64)
	for i := 0; i < b.k; i++ {
		idx := (h1 + uint64(i)*h2) % m
		b.bits[idx/64] |= 1 << (idx % 64)
	}
}

// MayContain reports whether key might be present (false positives
// possible, false negatives impossible).
func (b *Bloom) MayContain(key []byte) bool {
	h1, h2 := b.hashes(key)
	m := uint64(len(b.bits) * 64)
	for i := 0; i < b.k; i++ {
		idx := (h1 + uint64(i)*h2) % m
		if b.bits[idx/64]&(1<<(idx%64)) == 0 {
			return false
		}
	}
	return true
}
