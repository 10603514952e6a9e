// Package merge implements the tombstone/TTL merge engine (spec.md §4.7):
// given every surviving generation's view of one row key, it resolves the
// single value (or nothing) a point lookup or range scan should return.
package merge

import (
	"github.com/joshuapare/sstreader/pkg/types"
)

// Entry is one generation's contribution for a single row key: either a
// live value or a tombstone marker, with the write time and generation
// number the merge algorithm orders by.
type Entry struct {
	Value      types.Value
	WriteTime  int64 // microseconds since epoch
	Generation types.Generation
	HasTTL     bool
	TTL        int32 // seconds
}

// FromCell builds an Entry from a decoded cell and the generation it came
// from, translating the cell's flags into the tombstone-or-live Value
// shape Merge expects. A deleted cell that already carries a tombstone
// Value (as codec.DecodeCell produces) keeps it; a deleted cell without
// one becomes a row tombstone at its LocalDeletion time.
func FromCell(cell types.Cell, gen types.Generation) Entry {
	e := Entry{
		WriteTime:  cell.Meta.WriteTime,
		Generation: gen,
		HasTTL:     cell.Meta.HasTTL,
		TTL:        cell.Meta.TTL,
	}
	if cell.Meta.Deleted && cell.Value.IsTombstone() {
		e.Value = cell.Value
	} else if cell.Meta.Deleted {
		e.Value = types.RowTombstone(int64(cell.Meta.LocalDeletion) * 1_000_000)
	} else {
		e.Value = cell.Value
	}
	return e
}

// Merge resolves entries (every surviving generation's contribution for
// one row key) to the value a reader should return, or false if the row
// is absent or fully shadowed. now is microseconds since epoch, the same
// unit as WriteTime, used for TTL expiry (spec.md §4.7 step 2).
//
// A single-generation input only needs the TTL check (the fast path
// spec.md §4.7 names explicitly); anything else runs the full four-step
// algorithm: find the dominant row-level deletion marker, discard
// shadowed or TTL-expired non-tombstone entries, then pick the greatest
// surviving (write_time, generation).
func Merge(entries []Entry, now int64) (types.Value, bool) {
	if len(entries) == 0 {
		return types.Value{}, false
	}
	if len(entries) == 1 {
		e := entries[0]
		if e.Value.IsTombstone() {
			return types.Value{}, false
		}
		if ttlExpired(e, now) {
			return types.Value{}, false
		}
		return e.Value, true
	}

	deletionMarker, haveDeletion, deletionGen := dominantDeletion(entries)

	var best Entry
	haveBest := false
	for _, e := range entries {
		if e.Value.IsTombstone() {
			continue
		}
		if haveDeletion && shadowedByDeletion(e.WriteTime, e.Generation, deletionMarker, deletionGen) {
			continue
		}
		if ttlExpired(e, now) {
			continue
		}
		if !haveBest || beats(e, best) {
			best = e
			haveBest = true
		}
	}
	if !haveBest {
		return types.Value{}, false
	}
	return best.Value, true
}

// dominantDeletion scans entries for tombstone markers (row, range,
// complex-column, or cell-level — all narrow the candidate set the same
// way per spec.md §4.7: "Range and complex-column tombstones narrow the
// candidate set... using the same deletion-time comparison") and returns
// the one with the greatest (deletion_time, generation).
func dominantDeletion(entries []Entry) (deletionTime int64, found bool, gen types.Generation) {
	for _, e := range entries {
		if !e.Value.IsTombstone() {
			continue
		}
		dt := e.Value.Tomb.DeletionTime
		if !found || dt > deletionTime || (dt == deletionTime && e.Generation > gen) {
			deletionTime, gen, found = dt, e.Generation, true
		}
	}
	return
}

// shadowedByDeletion reports whether a write at (writeTime, gen) is
// hidden by a deletion marker at (deletionTime, deletionGen): the write
// is shadowed if it happened at or before the deletion, whatever the
// generations (spec.md §4.7: "write_time ≤ row_deletion_marker").
func shadowedByDeletion(writeTime int64, gen types.Generation, deletionTime int64, deletionGen types.Generation) bool {
	return writeTime <= deletionTime
}

// beats reports whether a has a greater (write_time, generation) than b,
// the winner-selection tiebreak spec.md §4.7 specifies ("newer SSTable
// wins").
func beats(a, b Entry) bool {
	if a.WriteTime != b.WriteTime {
		return a.WriteTime > b.WriteTime
	}
	return a.Generation > b.Generation
}

func ttlExpired(e Entry, now int64) bool {
	if !e.HasTTL {
		return false
	}
	return now > e.WriteTime+int64(e.TTL)*1_000_000
}
