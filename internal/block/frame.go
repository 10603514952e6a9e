// Package block implements the C6 block reader: it frames, checksums,
// decompresses, and caches the data blocks that sit between the on-disk
// byte stream and the value codec (spec.md §4.6).
package block

import (
	"context"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/joshuapare/sstreader/internal/buf"
	"github.com/joshuapare/sstreader/internal/format"
	"github.com/joshuapare/sstreader/pkg/types"
)

// rawFrame is one physical block as read off disk: the still-compressed
// payload and the checksum the header claimed for it.
type rawFrame struct {
	compressed       []byte
	storedChecksum   uint32
	frameHeaderBytes int64 // bytes consumed by the per-block header, 0 for new-big
}

// readFrame reads one block starting at offset, dispatching on the
// variant's framing scheme (spec.md §4.6). fileSize bounds the legacy/BTI
// declared-length reads and gives the new-big variant its implicit extent.
func readFrame(ctx context.Context, r io.ReaderAt, offset, fileSize int64, variant format.Variant, bufferSize int) (rawFrame, int64, error) {
	switch variant.Frame() {
	case format.FrameLegacy:
		return readHeaderedFrame(ctx, r, offset, fileSize, format.LegacyFrameHeaderSize, bufferSize)
	case format.FrameBTI:
		return readHeaderedFrame(ctx, r, offset, fileSize, format.BTIFrameHeaderSize, bufferSize)
	default:
		return readNewBigFrame(ctx, r, offset, fileSize, bufferSize)
	}
}

func readHeaderedFrame(ctx context.Context, r io.ReaderAt, offset, fileSize int64, headerSize, bufferSize int) (rawFrame, int64, error) {
	if offset >= fileSize {
		return rawFrame{}, offset, io.EOF
	}
	hdr := make([]byte, headerSize)
	if err := readFullyAt(ctx, r, hdr, offset, bufferSize); err != nil {
		return rawFrame{}, offset, types.ErrTruncated.WithCause(fmt.Errorf("block header at offset %d: %w", offset, err))
	}

	compressedSize := int64(buf.U32BE(hdr[0:4]))
	if compressedSize > int64(types.MaxBlockSize) {
		return rawFrame{}, offset, types.ErrBlockTooLarge.WithCause(
			fmt.Errorf("declared %d bytes exceeds cap %d", compressedSize, types.MaxBlockSize))
	}
	var checksum uint32
	switch headerSize {
	case format.LegacyFrameHeaderSize:
		checksum = buf.U32BE(hdr[4:8])
	case format.BTIFrameHeaderSize:
		checksum = buf.U32BE(hdr[8:12])
	}

	payloadOffset := offset + int64(headerSize)
	if compressedSize == 0 {
		return rawFrame{compressed: nil, storedChecksum: checksum, frameHeaderBytes: int64(headerSize)}, payloadOffset, nil
	}
	if payloadOffset+compressedSize > fileSize {
		return rawFrame{}, offset, types.ErrTruncated.WithCause(
			fmt.Errorf("block at offset %d declares %d bytes, file has %d remaining", offset, compressedSize, fileSize-payloadOffset))
	}

	payload := make([]byte, compressedSize)
	if err := readFullyAt(ctx, r, payload, payloadOffset, bufferSize); err != nil {
		return rawFrame{}, offset, err
	}
	return rawFrame{compressed: payload, storedChecksum: checksum, frameHeaderBytes: int64(headerSize)}, payloadOffset + compressedSize, nil
}

// readNewBigFrame treats the remainder of the file after the fixed
// new-big header as a single block with no per-block checksum of its own;
// validation for this variant relies on the digest component instead.
func readNewBigFrame(ctx context.Context, r io.ReaderAt, offset, fileSize int64, bufferSize int) (rawFrame, int64, error) {
	if offset >= fileSize {
		return rawFrame{}, offset, io.EOF
	}
	size := fileSize - offset
	payload := make([]byte, size)
	if err := readFullyAt(ctx, r, payload, offset, bufferSize); err != nil {
		return rawFrame{}, offset, err
	}
	return rawFrame{compressed: payload, storedChecksum: 0}, fileSize, nil
}

// readFullyAt reads len(dst) bytes starting at offset in bufferSize-sized
// chunks, checking ctx for cancellation every StreamYieldInterval bytes so
// a large block read yields cooperatively (spec.md §4.6). Each chunk read is
// attempted up to RetryAttempts times, retrying only transient errors
// (EINTR/EAGAIN, see isTransient) with a linear backoff
// (RetryBackoffUnitMillis × attempt).
func readFullyAt(ctx context.Context, r io.ReaderAt, dst []byte, offset int64, bufferSize int) error {
	if bufferSize <= 0 {
		bufferSize = types.DefaultReadBufferSize
	}
	var sinceYield int
	for done := 0; done < len(dst); {
		chunk := bufferSize
		if remaining := len(dst) - done; chunk > remaining {
			chunk = remaining
		}
		if err := readChunkWithRetry(r, dst[done:done+chunk], offset+int64(done)); err != nil {
			return err
		}
		done += chunk
		sinceYield += chunk
		if sinceYield >= types.StreamYieldInterval {
			sinceYield = 0
			if err := ctx.Err(); err != nil {
				return types.ErrCancelled.WithCause(err)
			}
		}
	}
	return nil
}

func readChunkWithRetry(r io.ReaderAt, dst []byte, offset int64) error {
	var lastErr error
	for attempt := 1; attempt <= types.RetryAttempts; attempt++ {
		n, err := r.ReadAt(dst, offset)
		if err == nil && n == len(dst) {
			return nil
		}
		if err == io.EOF && n == len(dst) {
			return nil
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
		sleepBackoff(attempt)
	}
	return types.ErrIO.WithCause(fmt.Errorf("read at offset %d: %w", offset, lastErr))
}

// verifyChecksum computes the CRC-32 (IEEE) of compressed and compares it
// against stored. A zero stored checksum disables validation (spec.md
// §4.6); CRC-32 is the algorithm the on-disk format specifies, so this
// uses the standard library's hash/crc32 rather than a third-party hash
// (the pack's xxhash is reserved for the bloom filter's own hash family,
// which has no on-disk compatibility requirement).
func verifyChecksum(compressed []byte, stored uint32) error {
	if stored == 0 {
		return nil
	}
	computed := crc32.ChecksumIEEE(compressed)
	if computed != stored {
		return types.ErrChecksumMismatch.WithCause(
			fmt.Errorf("stored 0x%08X, computed 0x%08X", stored, computed))
	}
	return nil
}
