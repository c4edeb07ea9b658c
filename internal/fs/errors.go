package fs

import (
	"errors"
	"syscall"
)

// isTransient reports errors worth retrying: the file may be briefly busy
// or locked by another process.
func isTransient(err error) bool {
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETIMEDOUT)
}
