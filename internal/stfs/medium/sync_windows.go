//go:build windows

package medium

import "github.com/pkg/errors"

// Sync flushes the file to stable storage. Windows file locking semantics
// differ enough from flock that we skip the advisory lock here rather than
// fake it; this is a best-effort durability flush only on this platform.
func (f *File) Sync() error {
	if err := f.f.Sync(); err != nil {
		return errors.Wrap(err, "medium: sync")
	}
	return nil
}
