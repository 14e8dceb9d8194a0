// Package lock enforces single-instance execution. Two copies of the
// daemon would fight over the same player's mute state.
package lock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Handle is a held single-instance lock.
type Handle struct {
	fl *flock.Flock
}

// Acquire takes the lock at path without blocking. ok is false when
// another instance already holds it.
func Acquire(path string) (h *Handle, ok bool, err error) {
	fl := flock.New(path)
	ok, err = fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("acquire instance lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return &Handle{fl: fl}, true, nil
}

// Release drops the lock.
func (h *Handle) Release() error {
	return h.fl.Unlock()
}

// Path returns the lock file location.
func (h *Handle) Path() string {
	return h.fl.Path()
}

// DefaultPath places the lock file under the user cache directory,
// falling back to the system temp directory.
func DefaultPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "adsilencer.lock")
	}
	return filepath.Join(os.TempDir(), "adsilencer.lock")
}
