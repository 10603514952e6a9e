package format

// Block-frame header sizes per variant (spec.md §4.6). The legacy and BTI
// frames precede every compressed chunk; the new-big frame treats the
// remainder of the data file as a single chunk with no per-block header.
const (
	LegacyFrameHeaderSize = 8  // compressed_size u32 BE, checksum u32 BE
	BTIFrameHeaderSize    = 12 // compressed_size u32 BE, reserved 4 bytes, checksum u32 BE
)

// NewBigHeaderSize is the hard-coded header size budgeted for the "nb"
// format's single framed chunk. The upstream implementation this was
// ported from computes this as a fixed constant rather than deriving it
// from the compression-info chunk size; treated here as a tunable rather
// than a derived quantity per spec.md §9.
const NewBigHeaderSize = 2048 // 2 KiB

// MaxBlockSize and friends live in pkg/types/limits.go since the value
// codec needs the same caps; internal/block/frame.go reads
// types.MaxBlockSize directly.
