//go:build unix

// Package mmap memory-maps a generation's data file for the header-prefetch
// path pkg/sstable takes when Config.UseMmap is set (spec.md §6's
// `use_mmap` knob), mirroring the teacher's hive/dirty build-tag split
// between POSIX and fallback I/O.
package mmap

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/sstreader/pkg/types"
)

// Map maps the first n bytes of the file at path read-only and returns the
// mapped view plus a function that unmaps it. n is typically a small
// header-sized prefetch window, not the whole file — the block reader owns
// the file handle used for the rest of the generation's reads.
func Map(path string, n int64) ([]byte, func() error, error) {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, nil, types.ErrIO.WithPath(path, 0).WithCause(err)
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, nil, types.ErrIO.WithPath(path, 0).WithCause(err)
	}
	size := st.Size
	if n <= 0 || n > size {
		n = size
	}
	if n == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	if n > int64(^uint(0)>>1) {
		return nil, nil, types.ErrIO.WithPath(path, 0).WithCause(fmt.Errorf("mmap window %d too large", n))
	}

	data, err := unix.Mmap(fd, 0, int(n), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, types.ErrIO.WithPath(path, 0).WithCause(err)
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		data = nil
		return err
	}
	return data, cleanup, nil
}
