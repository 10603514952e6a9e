package format

import (
	"fmt"
	"math"

	"github.com/joshuapare/sstreader/internal/buf"
	"github.com/joshuapare/sstreader/internal/vint"
	"github.com/joshuapare/sstreader/pkg/types"
)

// CompressionInfo is the header's compression sub-record: the algorithm
// name as written (NONE/LZ4/SNAPPY/DEFLATE), the chunk size used when
// splitting the data file, and algorithm-specific string parameters.
type CompressionInfo struct {
	Algorithm string
	ChunkSize int64
	Params    map[string]string
}

// Statistics is the header's statistics sub-record (spec.md §4.3).
type Statistics struct {
	RowCount         int64
	MinTimestamp     int64
	MaxTimestamp     int64
	MaxDeletionTime  int64
	CompressionRatio float64
	RowSizeHistogram []int64
}

// ColumnInfo describes one column as recorded in the header's column-info
// list, ahead of any schema parsed from DDL.
type ColumnInfo struct {
	Name         string
	TypeString   string
	IsPrimary    bool
	HasKeyPos    bool
	KeyPosition  int64
	IsStatic     bool
	IsClustering bool
}

// Header is the fully parsed SSTable header.
type Header struct {
	Variant     Variant
	Version     uint16
	TableUUID   [16]byte
	Keyspace    string
	Table       string
	Generation  types.Generation
	Compression CompressionInfo
	Stats       Statistics
	Columns     []ColumnInfo
	// Unknown carries trailing header properties the parser did not
	// recognize, preserved verbatim rather than discarded (spec.md §4.3).
	Unknown map[string]string
}

// cursor is a minimal bounds-checked reader over the header bytes. Every
// read advances the slice; a short read returns Truncated rather than
// panicking, matching the rest of the codec's defensive posture.
type cursor struct {
	b    []byte
	path string
}

func (c *cursor) need(n int) error {
	if len(c.b) < n {
		return types.ErrTruncated.WithPath(c.path, 0).WithCause(fmt.Errorf("need %d bytes, have %d", n, len(c.b)))
	}
	return nil
}

func (c *cursor) take(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	out := c.b[:n]
	c.b = c.b[n:]
	return out, nil
}

func (c *cursor) vint() (int64, error) {
	v, rest, err := vint.Decode(c.b)
	if err != nil {
		return 0, types.ErrCorruptHeader.WithPath(c.path, 0).WithCause(err)
	}
	c.b = rest
	return v, nil
}

func (c *cursor) vintString() (string, error) {
	n, err := c.vint()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", types.ErrCorruptHeader.WithPath(c.path, 0).WithCause(fmt.Errorf("negative string length %d", n))
	}
	raw, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *cursor) u32() (uint32, error) {
	raw, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return buf.U32BE(raw), nil
}

func (c *cursor) u16() (uint16, error) {
	raw, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return buf.U16BE(raw), nil
}

func (c *cursor) i64() (int64, error) {
	raw, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return buf.I64BE(raw), nil
}

func (c *cursor) f64() (float64, error) {
	raw, err := c.i64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(raw)), nil
}

func (c *cursor) bool8() (bool, error) {
	raw, err := c.take(1)
	if err != nil {
		return false, err
	}
	return raw[0] != 0, nil
}

// ParseHeader validates the magic number, detects the format variant, and
// decodes the remainder of the header (table id, names, generation,
// compression info, statistics, column list) per spec.md §4.3.
func ParseHeader(path string, b []byte) (Header, error) {
	h, _, err := ParseHeaderAt(path, b)
	return h, err
}

// ParseHeaderAt behaves like ParseHeader but also returns the number of
// leading bytes the header consumed, letting a caller locate where block
// framing begins immediately after it in the same file (pkg/sstable uses
// this to open a block.Reader directly against a generation's Data.db).
func ParseHeaderAt(path string, b []byte) (Header, int, error) {
	variant, err := DetectVariant(b)
	if err != nil {
		return Header{}, 0, err
	}
	c := &cursor{b: b, path: path}
	total := len(b)
	if _, err := c.take(4); err != nil { // magic, already validated above
		return Header{}, 0, err
	}
	version, err := c.u16()
	if err != nil {
		return Header{}, 0, err
	}

	var h Header
	h.Variant = variant
	h.Version = version

	uuidBytes, err := c.take(16)
	if err != nil {
		return Header{}, 0, err
	}
	copy(h.TableUUID[:], uuidBytes)

	if h.Keyspace, err = c.vintString(); err != nil {
		return Header{}, 0, err
	}
	if h.Table, err = c.vintString(); err != nil {
		return Header{}, 0, err
	}
	gen, err := c.vint()
	if err != nil {
		return Header{}, 0, err
	}
	h.Generation = types.Generation(gen)

	if h.Compression, err = parseCompressionInfo(c); err != nil {
		return Header{}, 0, err
	}
	if h.Stats, err = parseStatistics(c); err != nil {
		return Header{}, 0, err
	}
	if h.Columns, err = parseColumns(c); err != nil {
		return Header{}, 0, err
	}
	if h.Unknown, err = parseStringMap(c); err != nil {
		return Header{}, 0, err
	}
	return h, total - len(c.b), nil
}

func parseCompressionInfo(c *cursor) (CompressionInfo, error) {
	var ci CompressionInfo
	var err error
	if ci.Algorithm, err = c.vintString(); err != nil {
		return ci, err
	}
	if ci.ChunkSize, err = c.vint(); err != nil {
		return ci, err
	}
	if ci.Params, err = parseStringMap(c); err != nil {
		return ci, err
	}
	return ci, nil
}

func parseStatistics(c *cursor) (Statistics, error) {
	var s Statistics
	var err error
	if s.RowCount, err = c.vint(); err != nil {
		return s, err
	}
	if s.MinTimestamp, err = c.i64(); err != nil {
		return s, err
	}
	if s.MaxTimestamp, err = c.i64(); err != nil {
		return s, err
	}
	if s.MaxDeletionTime, err = c.i64(); err != nil {
		return s, err
	}
	if s.CompressionRatio, err = c.f64(); err != nil {
		return s, err
	}
	n, err := c.vint()
	if err != nil {
		return s, err
	}
	if n < 0 || n > types.MaxValueSize {
		return s, types.ErrCorruptHeader.WithCause(fmt.Errorf("implausible histogram bucket count %d", n))
	}
	s.RowSizeHistogram = make([]int64, n)
	for i := range s.RowSizeHistogram {
		if s.RowSizeHistogram[i], err = c.vint(); err != nil {
			return s, err
		}
	}
	return s, nil
}

func parseColumns(c *cursor) ([]ColumnInfo, error) {
	n, err := c.vint()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, types.ErrCorruptHeader.WithCause(fmt.Errorf("negative column count %d", n))
	}
	cols := make([]ColumnInfo, n)
	for i := range cols {
		col := &cols[i]
		if col.Name, err = c.vintString(); err != nil {
			return nil, err
		}
		if col.TypeString, err = c.vintString(); err != nil {
			return nil, err
		}
		if col.IsPrimary, err = c.bool8(); err != nil {
			return nil, err
		}
		if col.HasKeyPos, err = c.bool8(); err != nil {
			return nil, err
		}
		if col.HasKeyPos {
			if col.KeyPosition, err = c.vint(); err != nil {
				return nil, err
			}
		}
		if col.IsStatic, err = c.bool8(); err != nil {
			return nil, err
		}
		if col.IsClustering, err = c.bool8(); err != nil {
			return nil, err
		}
	}
	return cols, nil
}

// parseStringMap decodes a VInt count followed by that many (key, value)
// string pairs, used both for compression parameters and the trailing
// unknown-property bag (spec.md §4.3: "unknown trailing properties are
// preserved as a string→string map").
func parseStringMap(c *cursor) (map[string]string, error) {
	n, err := c.vint()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, types.ErrCorruptHeader.WithCause(fmt.Errorf("negative map size %d", n))
	}
	m := make(map[string]string, n)
	for i := int64(0); i < n; i++ {
		k, err := c.vintString()
		if err != nil {
			return nil, err
		}
		v, err := c.vintString()
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}
