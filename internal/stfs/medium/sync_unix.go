//go:build !windows

package medium

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Sync flushes the file to stable storage, holding an advisory exclusive
// lock for the duration of the call so no other process observes a
// partially flushed medium.
func (f *File) Sync() error {
	if err := unix.Flock(int(f.f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return errors.Wrap(err, "medium: flock")
	}
	defer unix.Flock(int(f.f.Fd()), unix.LOCK_UN)
	return f.f.Sync()
}
