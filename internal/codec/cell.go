package codec

import (
	"github.com/joshuapare/sstreader/internal/buf"
	"github.com/joshuapare/sstreader/internal/format"
	"github.com/joshuapare/sstreader/internal/vint"
	"github.com/joshuapare/sstreader/pkg/types"
)

// EncodeCell serializes a Cell as a flags byte followed by the optional
// timestamp, TTL, and deletion-marker fields the flags select, then the
// value itself (omitted when the deletion flag is set), per spec.md §4.2.
func EncodeCell(cell types.Cell) []byte {
	var flags byte
	if cell.Meta.WriteTime != 0 {
		flags |= format.CellFlagTimestamp
	}
	if cell.Meta.HasTTL {
		flags |= format.CellFlagTTL
	}
	if cell.Meta.Deleted {
		flags |= format.CellFlagDeletion
	}

	out := []byte{flags}
	if flags&format.CellFlagTimestamp != 0 {
		out = appendI64(out, cell.Meta.WriteTime)
	}
	if flags&format.CellFlagTTL != 0 {
		out = appendI32(out, cell.Meta.TTL)
	}
	if flags&format.CellFlagDeletion != 0 {
		out = vint.AppendEncode(out, cell.Value.Tomb.DeletionTime)
		out = append(out, byte(cell.Value.Tomb.Kind))
		return out
	}
	enc, err := Encode(cell.Value)
	if err != nil {
		// A cell holding a value that cannot be tagged is a programmer
		// error on the write path, not a recoverable decode failure; the
		// reader never constructs such a cell itself.
		panic(err)
	}
	return append(out, enc...)
}

// DecodeCell reads one cell wrapper from b and returns the cell plus the
// remaining bytes.
func DecodeCell(b []byte, opts Options) (types.Cell, []byte, error) {
	if len(b) < 1 {
		return types.Cell{}, nil, types.ErrTruncated
	}
	flags := b[0]
	rest := b[1:]

	var meta types.CellMeta
	if flags&format.CellFlagTimestamp != 0 {
		if len(rest) < 8 {
			return types.Cell{}, nil, types.ErrTruncated
		}
		meta.WriteTime = buf.I64BE(rest)
		rest = rest[8:]
	}
	if flags&format.CellFlagTTL != 0 {
		if len(rest) < 4 {
			return types.Cell{}, nil, types.ErrTruncated
		}
		meta.HasTTL = true
		meta.TTL = buf.I32BE(rest)
		rest = rest[4:]
	}
	if flags&format.CellFlagDeletion != 0 {
		deletionTime, tail, err := vint.Decode(rest)
		if err != nil {
			return types.Cell{}, nil, wrapTruncated(err)
		}
		if len(tail) < 1 {
			return types.Cell{}, nil, types.ErrTruncated
		}
		kind := types.DeletionKind(tail[0])
		meta.Deleted = true
		v := types.Value{
			Kind: types.KindTombstone,
			Tomb: types.Tombstone{Kind: kind, DeletionTime: deletionTime, HasTTL: meta.HasTTL, TTL: meta.TTL},
		}
		return types.Cell{Meta: meta, Value: v}, tail[1:], nil
	}

	val, tail, err := Decode(rest, opts)
	if err != nil {
		return types.Cell{}, nil, err
	}
	return types.Cell{Meta: meta, Value: val}, tail, nil
}
