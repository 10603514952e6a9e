package block

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/joshuapare/sstreader/internal/codec"
	"github.com/joshuapare/sstreader/internal/format"
	"github.com/joshuapare/sstreader/pkg/types"
)

// Config tunes a Reader's behavior; it mirrors the `Config` record spec.md
// §8 requires the public API to expose, restricted to the knobs this
// package itself consumes.
type Config struct {
	ReadBufferSize    int
	BlockCacheEntries int
	ValidateChecksums bool
	UseBloomFilter    bool
	PrefetchSize      int
	StrictMode        bool
}

// DefaultConfig returns the defaults named in spec.md §8.
func DefaultConfig() Config {
	return Config{
		ReadBufferSize:    types.DefaultReadBufferSize,
		BlockCacheEntries: types.DefaultBlockCacheEntries,
		ValidateChecksums: true,
		UseBloomFilter:    true,
		PrefetchSize:      types.DefaultPrefetchSize,
		StrictMode:        false,
	}
}

// Reader streams, validates, and caches the blocks of one generation's
// data file, exposing get/scan/all_entries as described in spec.md §4.6.
// Concurrent operations serialize on mu for the minimum span (seek+read);
// the index and bloom filter, once built, are read without synchronization.
type Reader struct {
	mu          sync.Mutex
	file        *os.File
	fileSize    int64
	startOffset int64 // byte offset of the first block, past any file header
	header      format.Header
	variant     format.Variant
	cfg         Config
	caches      *caches
	logger      *slog.Logger

	indexOnce sync.Once
	indexErr  error
	index     *Index
	bloom     *Bloom
}

// Open opens the data file at path for reading. header and variant are
// produced by format.ParseHeaderAt / format.DetectVariant ahead of time;
// startOffset is the byte position in the file where block framing
// begins (immediately after the parsed header).
func Open(path string, header format.Header, variant format.Variant, startOffset int64, cfg Config, logger *slog.Logger) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.ErrIO.WithPath(path, 0).WithCause(err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, types.ErrIO.WithPath(path, 0).WithCause(err)
	}
	c, err := newCaches(cfg.BlockCacheEntries)
	if err != nil {
		f.Close()
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		file:        f,
		fileSize:    info.Size(),
		startOffset: startOffset,
		header:      header,
		variant:     variant,
		cfg:         cfg,
		caches:      c,
		logger:      logger,
	}, nil
}

// Close releases the file handle and drops both caches.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caches.purge()
	return r.file.Close()
}

func (r *Reader) codecOptions() codec.Options {
	return codec.Options{
		StrictMode:   r.cfg.StrictMode,
		MaxDepth:     types.MaxNestingDepth,
		MaxValueSize: types.MaxValueSize,
	}
}

// blockAt decodes the block starting at offset, consulting and populating
// both caches.
func (r *Reader) blockAt(ctx context.Context, offset int64) (BlockMeta, decodedBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if meta, ok := r.caches.meta.Get(offset); ok {
		if data, ok := r.caches.data.Get(offset); ok {
			return meta, data, nil
		}
	}

	meta, data, _, err := readAndDecode(ctx, r.file, offset, r.fileSize, r.variant,
		r.header.Compression.Algorithm, r.cfg.ReadBufferSize, r.cfg.ValidateChecksums, r.codecOptions(), r.logger)
	if err != nil {
		return BlockMeta{}, decodedBlock{}, err
	}
	r.caches.meta.Add(offset, meta)
	r.caches.data.Add(offset, data)
	return meta, data, nil
}

// ensureIndexed walks the whole file once, populating the index and bloom
// filter used by Get/Scan. Sequential fallback is always available even if
// this fails, so a failure here is recorded but not fatal to the reader.
func (r *Reader) ensureIndexed(ctx context.Context) {
	r.indexOnce.Do(func() {
		idx := NewIndex()
		var bloom *Bloom
		if r.cfg.UseBloomFilter {
			bloom = NewBloom(estimateEntryCount(r.fileSize), 0.01)
		}

		offset := r.startOffset
		for offset < r.fileSize {
			meta, data, err := r.blockAt(ctx, offset)
			if err != nil {
				r.indexErr = err
				return
			}
			for _, e := range data.entries {
				idx.Put(e.Key, meta.Offset)
				if bloom != nil {
					bloom.Add(e.Key)
				}
			}
			if meta.NextOffset <= offset {
				break
			}
			offset = meta.NextOffset
			if ctx.Err() != nil {
				r.indexErr = types.ErrCancelled.WithCause(ctx.Err())
				return
			}
		}
		r.index = idx
		r.bloom = bloom
	})
}

func estimateEntryCount(fileSize int64) int {
	const assumedEntrySize = 64
	n := int(fileSize / assumedEntrySize)
	if n < 16 {
		n = 16
	}
	return n
}

// Get looks up key, consulting the bloom filter then the index then
// falling back to a sequential scan, per spec.md §4.6.
func (r *Reader) Get(ctx context.Context, key types.RowKey) (types.Cell, bool, error) {
	r.ensureIndexed(ctx)

	if r.bloom != nil && !r.bloom.MayContain(key) {
		return types.Cell{}, false, nil
	}

	if r.index != nil {
		if offset, ok := r.index.Lookup(key); ok {
			_, data, err := r.blockAt(ctx, offset)
			if err != nil {
				return types.Cell{}, false, err
			}
			for _, e := range data.entries {
				if e.Key.Equal(key) {
					return e.Cell, true, nil
				}
			}
			return types.Cell{}, false, nil
		}
		if r.indexErr == nil {
			// Index built successfully and key absent: no need to scan.
			return types.Cell{}, false, nil
		}
	}

	return r.sequentialGet(ctx, key)
}

func (r *Reader) sequentialGet(ctx context.Context, key types.RowKey) (types.Cell, bool, error) {
	offset := r.startOffset
	for offset < r.fileSize {
		meta, data, err := r.blockAt(ctx, offset)
		if err != nil {
			return types.Cell{}, false, err
		}
		for _, e := range data.entries {
			if e.Key.Equal(key) {
				return e.Cell, true, nil
			}
		}
		if meta.NextOffset <= offset {
			break
		}
		offset = meta.NextOffset
		if ctx.Err() != nil {
			return types.Cell{}, false, types.ErrCancelled.WithCause(ctx.Err())
		}
	}
	return types.Cell{}, false, nil
}

// Scan returns entries with keys in [start, end), honoring limit (0 means
// unbounded), preferring the index's range facility when available.
func (r *Reader) Scan(ctx context.Context, start, end types.RowKey, limit int) ([]Entry, error) {
	r.ensureIndexed(ctx)

	var offsets []int64
	if r.index != nil {
		offsets = r.index.Range(start, end)
	} else {
		offsets = r.allOffsets(ctx)
	}

	var out []Entry
	for _, off := range offsets {
		_, data, err := r.blockAt(ctx, off)
		if err != nil {
			return nil, err
		}
		for _, e := range data.entries {
			if start != nil && e.Key.Compare(start) < 0 {
				continue
			}
			if end != nil && e.Key.Compare(end) >= 0 {
				continue
			}
			out = append(out, e)
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}
		if ctx.Err() != nil {
			return nil, types.ErrCancelled.WithCause(ctx.Err())
		}
	}
	return out, nil
}

// AllEntries returns every entry in the file in on-disk order.
func (r *Reader) AllEntries(ctx context.Context) ([]Entry, error) {
	var out []Entry
	offset := r.startOffset
	for offset < r.fileSize {
		meta, data, err := r.blockAt(ctx, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, data.entries...)
		if meta.NextOffset <= offset {
			break
		}
		offset = meta.NextOffset
		if ctx.Err() != nil {
			return nil, types.ErrCancelled.WithCause(ctx.Err())
		}
	}
	return out, nil
}

func (r *Reader) allOffsets(ctx context.Context) []int64 {
	var offsets []int64
	offset := r.startOffset
	for offset < r.fileSize {
		meta, _, err := r.blockAt(ctx, offset)
		if err != nil {
			return offsets
		}
		offsets = append(offsets, meta.Offset)
		if meta.NextOffset <= offset {
			break
		}
		offset = meta.NextOffset
	}
	return offsets
}
