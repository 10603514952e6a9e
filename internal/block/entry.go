package block

import (
	"fmt"

	"github.com/joshuapare/sstreader/internal/codec"
	"github.com/joshuapare/sstreader/internal/vint"
	"github.com/joshuapare/sstreader/pkg/types"
)

// Entry is one decoded (row key, cell) pair within a block.
type Entry struct {
	Key  types.RowKey
	Cell types.Cell
}

// EncodeEntries serializes entries as a sequence of
// VInt(key length) + key bytes + VInt(cell length) + cell bytes, the wire
// layout a decompressed block body holds (spec.md §4.6 describes the
// block as an opaque byte range; this is the entry framing within it).
func EncodeEntries(entries []Entry) []byte {
	var out []byte
	for _, e := range entries {
		out = vint.AppendEncode(out, int64(len(e.Key)))
		out = append(out, e.Key...)
		cellBytes := codec.EncodeCell(e.Cell)
		out = vint.AppendEncode(out, int64(len(cellBytes)))
		out = append(out, cellBytes...)
	}
	return out
}

// DecodeEntries parses a decompressed block body into its entries.
func DecodeEntries(body []byte, opts codec.Options) ([]Entry, error) {
	var entries []Entry
	rest := body
	for len(rest) > 0 {
		keyLen, tail, err := vint.Decode(rest)
		if err != nil {
			return nil, types.ErrTruncated.WithCause(fmt.Errorf("entry key length: %w", err))
		}
		if keyLen < 0 || int64(len(tail)) < keyLen {
			return nil, types.ErrTruncated.WithCause(fmt.Errorf("entry key: need %d bytes, have %d", keyLen, len(tail)))
		}
		key := types.RowKey(tail[:keyLen])
		tail = tail[keyLen:]

		cellLen, tail2, err := vint.Decode(tail)
		if err != nil {
			return nil, types.ErrTruncated.WithCause(fmt.Errorf("entry cell length: %w", err))
		}
		if cellLen < 0 || int64(len(tail2)) < cellLen {
			return nil, types.ErrTruncated.WithCause(fmt.Errorf("entry cell: need %d bytes, have %d", cellLen, len(tail2)))
		}
		cellBytes := tail2[:cellLen]
		cell, cellTail, err := codec.DecodeCell(cellBytes, opts)
		if err != nil {
			return nil, err
		}
		if len(cellTail) != 0 {
			return nil, types.ErrCorruptHeader.WithCause(fmt.Errorf("entry cell left %d trailing bytes", len(cellTail)))
		}
		entries = append(entries, Entry{Key: key, Cell: cell})
		rest = tail2[cellLen:]
	}
	return entries, nil
}
