//go:build !unix

package mmap

import (
	"os"

	"github.com/joshuapare/sstreader/pkg/types"
)

// Map falls back to a buffered read of the first n bytes on platforms
// without a POSIX mmap syscall (spec.md's use_mmap knob degrades gracefully
// rather than failing outright).
func Map(path string, n int64) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, types.ErrIO.WithPath(path, 0).WithCause(err)
	}
	defer f.Close()

	if n <= 0 {
		info, err := f.Stat()
		if err != nil {
			return nil, nil, types.ErrIO.WithPath(path, 0).WithCause(err)
		}
		n = info.Size()
	}
	buf := make([]byte, n)
	read, err := f.ReadAt(buf, 0)
	if err != nil && read == 0 {
		return nil, nil, types.ErrIO.WithPath(path, 0).WithCause(err)
	}
	return buf[:read], func() error { return nil }, nil
}
