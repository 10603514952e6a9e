package sstable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.False(t, cfg.UseMmap)
	require.True(t, cfg.ValidateChecksums)
	require.True(t, cfg.UseBloomFilter)
	require.False(t, cfg.StrictMode)
	require.Greater(t, cfg.ReadBufferSize, 0)
	require.Greater(t, cfg.BlockCacheEntries, 0)
	require.Greater(t, cfg.PrefetchSize, 0)
}

func TestConfigNowUsesInjectedClock(t *testing.T) {
	cfg := Config{Clock: func() int64 { return 42 }}
	require.Equal(t, int64(42), cfg.now())
}

func TestConfigNowFallsBackToWallClock(t *testing.T) {
	cfg := Config{}
	require.Greater(t, cfg.now(), int64(0))
}

func TestConfigLoggerDefaultsWhenNil(t *testing.T) {
	cfg := Config{}
	require.NotNil(t, cfg.logger())
}
