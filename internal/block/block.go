package block

import (
	"context"
	"io"
	"log/slog"

	"github.com/joshuapare/sstreader/internal/codec"
	"github.com/joshuapare/sstreader/internal/compress"
	"github.com/joshuapare/sstreader/internal/format"
)

// BlockMeta is the cheap-to-keep-around descriptor cached by offset; the
// decompressed and parsed payload lives in the data cache separately so a
// metadata-only lookup (e.g. index construction) need not hold decoded
// bytes in memory.
type BlockMeta struct {
	Offset         int64
	NextOffset     int64 // offset of the following block, or fileSize at EOF
	CompressedSize int64
	Checksum       uint32
}

// decodedBlock is what the data cache stores: the decompressed body and
// its lazily-parsed entries.
type decodedBlock struct {
	body    []byte
	entries []Entry
}

// readAndDecode reads the block at offset, verifies its checksum,
// decompresses it (falling back to treating it as uncompressed on
// decompression failure, per spec.md §4.4), and parses its entries.
// Zero-length blocks are valid and decode to an empty entry set.
func readAndDecode(ctx context.Context, r io.ReaderAt, offset, fileSize int64, variant format.Variant, algorithm string, bufferSize int, validateChecksums bool, opts codec.Options, logger *slog.Logger) (BlockMeta, decodedBlock, int64, error) {
	frame, nextOffset, err := readFrame(ctx, r, offset, fileSize, variant, bufferSize)
	if err != nil {
		return BlockMeta{}, decodedBlock{}, offset, err
	}

	meta := BlockMeta{
		Offset:         offset,
		NextOffset:     nextOffset,
		CompressedSize: int64(len(frame.compressed)),
		Checksum:       frame.storedChecksum,
	}

	if len(frame.compressed) == 0 {
		return meta, decodedBlock{}, nextOffset, nil
	}

	if validateChecksums {
		if err := verifyChecksum(frame.compressed, frame.storedChecksum); err != nil {
			return BlockMeta{}, decodedBlock{}, offset, err
		}
	}

	body, err := compress.Decompress(algorithm, frame.compressed)
	if err != nil {
		if logger != nil {
			logger.Warn("block decompression failed, retrying as uncompressed",
				"offset", offset, "algorithm", algorithm, "error", err)
		}
		body = frame.compressed
	}

	entries, err := DecodeEntries(body, opts)
	if err != nil {
		return BlockMeta{}, decodedBlock{}, offset, err
	}

	return meta, decodedBlock{body: body, entries: entries}, nextOffset, nil
}
