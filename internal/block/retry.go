package block

import (
	"errors"
	"io"
	"syscall"
	"time"

	"github.com/joshuapare/sstreader/pkg/types"
)

// isTransient reports whether err is the kind of I/O error worth retrying:
// interrupted syscalls and resource-temporarily-unavailable, not EOF or
// permission failures.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, io.EOF) {
		return false
	}
	return errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN)
}

// sleepBackoff pauses for RetryBackoffUnitMillis × attempt, the linear
// backoff spec.md §4.6 calls for.
func sleepBackoff(attempt int) {
	time.Sleep(time.Duration(attempt*types.RetryBackoffUnitMillis) * time.Millisecond)
}
