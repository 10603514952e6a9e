package compress

import (
	"bytes"
	"testing"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

func TestDecompressNone(t *testing.T) {
	data := []byte("uncompressed payload")
	out, err := Decompress(AlgorithmNone, data)
	require.NoError(t, err)
	require.Equal(t, data, out)

	out, err = Decompress("", data)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestDecompressSnappy(t *testing.T) {
	data := []byte("hello hello hello snappy snappy")
	compressed := snappy.Encode(nil, data)
	out, err := Decompress(AlgorithmSnappy, compressed)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestDecompressDeflate(t *testing.T) {
	data := []byte("hello hello hello deflate deflate")
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, err := Decompress(AlgorithmDeflate, buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestDecompressLZ4(t *testing.T) {
	data := []byte("hello hello hello lz4 lz4 lz4 lz4")
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, err := Decompress(AlgorithmLZ4, buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestDecompressUnknownAlgorithm(t *testing.T) {
	_, err := Decompress("ZSTD_UNSUPPORTED", []byte("x"))
	require.Error(t, err)
}

func TestDecompressCorruptBlockFails(t *testing.T) {
	_, err := Decompress(AlgorithmSnappy, []byte{0xFF, 0xFF, 0xFF})
	require.Error(t, err)
}
