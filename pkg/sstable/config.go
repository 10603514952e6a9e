// Package sstable is the public library surface: it opens a table
// directory's generations, runs point lookups and range scans across them
// with tombstone/TTL resolution, parses CREATE TABLE DDL into a schema, and
// plans/executes SELECT statements against that schema (spec.md §6,
// SPEC_FULL.md §5.10).
package sstable

import (
	"log/slog"

	"github.com/joshuapare/sstreader/internal/block"
	"github.com/joshuapare/sstreader/pkg/types"
)

// Config is the configuration record spec.md §6 requires the core library
// to accept: its seven fields, plus the Logger and Clock fields below.
type Config struct {
	ReadBufferSize    int  // bytes, default 64 KiB
	UseMmap           bool // default false
	BlockCacheEntries int  // default 1000
	ValidateChecksums bool // default true
	UseBloomFilter    bool // default true
	PrefetchSize      int  // bytes, default 128 KiB
	StrictMode        bool // default false

	// Logger receives structured recoverable-error logging (checksum
	// fallback, decompression fallback); defaults to slog.Default().
	Logger *slog.Logger

	// Clock returns the current time as microseconds since epoch, used by
	// the merge engine's TTL check. Defaults to the wall clock; tests
	// substitute a fixed value to make TTL expiry deterministic.
	Clock func() int64
}

// DefaultConfig returns the defaults spec.md §6 names.
func DefaultConfig() Config {
	return Config{
		ReadBufferSize:    types.DefaultReadBufferSize,
		UseMmap:           false,
		BlockCacheEntries: types.DefaultBlockCacheEntries,
		ValidateChecksums: true,
		UseBloomFilter:    true,
		PrefetchSize:      types.DefaultPrefetchSize,
		StrictMode:        false,
	}
}

func (c Config) blockConfig() block.Config {
	return block.Config{
		ReadBufferSize:    c.ReadBufferSize,
		BlockCacheEntries: c.BlockCacheEntries,
		ValidateChecksums: c.ValidateChecksums,
		UseBloomFilter:    c.UseBloomFilter,
		PrefetchSize:      c.PrefetchSize,
		StrictMode:        c.StrictMode,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) now() int64 {
	if c.Clock != nil {
		return c.Clock()
	}
	return wallClockMicros()
}
