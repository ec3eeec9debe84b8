package util

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// RunLock is an advisory, process-wide lock on a directory being compressed.
// The lock file lives in the OS temp dir, never inside the tree itself.
type RunLock struct {
	flock *flock.Flock
	path  string
}

// LockPath returns the lock file used for root. Roots that resolve to the
// same directory through symlinks share a lock.
func LockPath(root string) string {
	return filepath.Join(os.TempDir(), "precompress-"+GetStringHash(resolveRoot(root))[:16]+".lock")
}

// AcquireRunLock takes the lock for root without blocking.
// It returns ErrLocked if another process holds it.
func AcquireRunLock(root string) (*RunLock, error) {
	path := LockPath(root)
	fl := flock.New(path)
	acquired, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to try lock on %s: %w", path, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, path)
	}
	return &RunLock{flock: fl, path: path}, nil
}

// Release unlocks. The lock file is left in place; removing it would race
// with a process that already opened it.
func (l *RunLock) Release() error {
	if l == nil {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
