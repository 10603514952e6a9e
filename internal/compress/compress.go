// Package compress implements the block decompression dispatch described in
// spec.md §4.4: a pure function from (algorithm, compressed bytes) to
// decompressed bytes, covering the four algorithms the header can name.
package compress

import (
	"bytes"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/pierrec/lz4/v4"

	"github.com/joshuapare/sstreader/pkg/types"
)

// Algorithm names as they appear in the header's compression-info
// sub-record (spec.md §4.3).
const (
	AlgorithmNone    = "NONE"
	AlgorithmLZ4     = "LZ4"
	AlgorithmSnappy  = "SNAPPY"
	AlgorithmDeflate = "DEFLATE"
)

// Decompress expands compressed according to algorithm. An empty or "NONE"
// algorithm name returns the input unchanged. On failure it returns
// DecompressionFailed; callers implementing the fallback described in
// spec.md §4.4 should retry the block as uncompressed rather than treat
// this as fatal.
func Decompress(algorithm string, compressed []byte) ([]byte, error) {
	switch algorithm {
	case "", AlgorithmNone:
		return compressed, nil
	case AlgorithmLZ4:
		return decompressLZ4(compressed)
	case AlgorithmSnappy:
		return decompressSnappy(compressed)
	case AlgorithmDeflate:
		return decompressDeflate(compressed)
	default:
		return nil, types.NewError(types.ErrKindDecompressionFailed, "unknown compression algorithm %q", algorithm)
	}
}

func decompressLZ4(compressed []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(compressed))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, types.ErrDecompressionFail.WithCause(err)
	}
	return out, nil
}

func decompressSnappy(compressed []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, types.ErrDecompressionFail.WithCause(err)
	}
	return out, nil
}

func decompressDeflate(compressed []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, types.ErrDecompressionFail.WithCause(err)
	}
	return out, nil
}
