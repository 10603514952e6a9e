package sstable

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/joshuapare/sstreader/internal/block"
	"github.com/joshuapare/sstreader/internal/directory"
	"github.com/joshuapare/sstreader/internal/format"
	"github.com/joshuapare/sstreader/internal/merge"
	"github.com/joshuapare/sstreader/internal/mmap"
	"github.com/joshuapare/sstreader/pkg/types"
)

func wallClockMicros() int64 { return time.Now().UnixMicro() }

// headerProbeWindow is the initial number of bytes read (or mapped) to
// parse a generation's header before block framing begins. Doubled until
// the header fits or the whole file has been consumed.
const headerProbeWindow = 64 << 10 // 64 KiB

// generation pairs one data-file block.Reader with the header it was
// opened against and the generation number used to break merge ties.
type generation struct {
	number types.Generation
	header format.Header
	blocks *block.Reader
}

// Reader opens every generation of one table directory and serves get/scan
// across them, resolving tombstones and TTLs via internal/merge
// (spec.md §4.6, §4.7, §6 "open_reader").
type Reader struct {
	dir         string
	generations []generation // ordered newest-generation-first
	cfg         Config
}

// OpenReader discovers and opens every generation of the table directory at
// path (spec.md §6's `open_reader(path, config) → Reader`).
func OpenReader(path string, cfg Config) (*Reader, error) {
	summary, err := directory.Scan(path)
	if err != nil {
		return nil, err
	}

	r := &Reader{dir: path, cfg: cfg}
	for _, g := range summary.Generations {
		dataFile, ok := g.Files[directory.ComponentData]
		if !ok || !dataFile.Accessible {
			continue // required component missing; directory scan already reported it
		}
		gen, err := openGeneration(dataFile.Path, g.Number, cfg)
		if err != nil {
			return nil, err
		}
		r.generations = append(r.generations, gen)
	}
	// Newest generation first so a tie on (write_time, generation) in the
	// merge engine resolves deterministically without re-sorting per call.
	sort.Slice(r.generations, func(i, j int) bool {
		return r.generations[i].number > r.generations[j].number
	})
	return r, nil
}

func openGeneration(path string, number types.Generation, cfg Config) (generation, error) {
	info, err := os.Stat(path)
	if err != nil {
		return generation{}, types.ErrIO.WithPath(path, 0).WithCause(err)
	}

	window := int64(headerProbeWindow)
	var header format.Header
	var consumed int
	for {
		if window > info.Size() {
			window = info.Size()
		}
		buf, release, err := readHeaderWindow(path, window, cfg.UseMmap)
		if err != nil {
			return generation{}, err
		}
		header, consumed, err = format.ParseHeaderAt(path, buf)
		release()
		if err == nil {
			break
		}
		if !isTruncated(err) || window >= info.Size() {
			return generation{}, err
		}
		window *= 2
	}

	br, err := block.Open(path, header, header.Variant, int64(consumed), cfg.blockConfig(), cfg.logger())
	if err != nil {
		return generation{}, err
	}
	return generation{number: number, header: header, blocks: br}, nil
}

func readHeaderWindow(path string, n int64, useMmap bool) ([]byte, func() error, error) {
	if useMmap {
		return mmap.Map(path, n)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, types.ErrIO.WithPath(path, 0).WithCause(err)
	}
	defer f.Close()
	buf := make([]byte, n)
	read, err := f.ReadAt(buf, 0)
	if err != nil && read == 0 {
		return nil, nil, types.ErrIO.WithPath(path, 0).WithCause(err)
	}
	return buf[:read], func() error { return nil }, nil
}

func isTruncated(err error) bool {
	te, ok := err.(*types.Error)
	return ok && te.Kind == types.ErrKindTruncated
}

// Close releases every generation's file handle and caches.
func (r *Reader) Close() error {
	var firstErr error
	for _, g := range r.generations {
		if err := g.blocks.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Get resolves key across every generation, applying tombstone and TTL
// rules, and returns the winning value (spec.md §6 "Reader::get").
func (r *Reader) Get(ctx context.Context, key types.RowKey) (types.Value, bool, error) {
	var entries []merge.Entry
	for _, g := range r.generations {
		cell, ok, err := g.blocks.Get(ctx, key)
		if err != nil {
			return types.Value{}, false, err
		}
		if !ok {
			continue
		}
		entries = append(entries, merge.FromCell(cell, g.number))
	}
	return merge.Merge(entries, r.cfg.now())
}

// Scan returns every surviving (key, value) pair with keys in [start, end)
// across all generations, merged and sorted by key ascending, honoring
// limit (0 means unbounded). Clustering-order presentation is the
// executor's responsibility; Scan itself only guarantees byte-key order
// (spec.md §4.6/§4.10).
func (r *Reader) Scan(ctx context.Context, start, end types.RowKey, limit int) ([]ScanEntry, error) {
	byKey := map[string][]merge.Entry{}
	var order []string
	for _, g := range r.generations {
		rows, err := g.blocks.Scan(ctx, start, end, 0)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			k := string(row.Key)
			if _, seen := byKey[k]; !seen {
				order = append(order, k)
			}
			byKey[k] = append(byKey[k], merge.FromCell(row.Cell, g.number))
		}
		if ctx.Err() != nil {
			return nil, types.ErrCancelled.WithCause(ctx.Err())
		}
	}
	sort.Strings(order)

	var out []ScanEntry
	now := r.cfg.now()
	for _, k := range order {
		v, ok := merge.Merge(byKey[k], now)
		if !ok {
			continue
		}
		out = append(out, ScanEntry{Key: types.RowKey(k), Value: v})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// ScanEntry is one merged (key, value) pair returned by Scan.
type ScanEntry struct {
	Key   types.RowKey
	Value types.Value
}

func (r *Reader) String() string {
	return fmt.Sprintf("sstable.Reader{dir=%s, generations=%d}", r.dir, len(r.generations))
}
