package shared

import (
	"fmt"

	"github.com/gofrs/flock"
)

// FileLock guards a file against concurrent runs through an adjacent "<path>.lock" file.
type FileLock struct {
	lock *flock.Flock
}

// NewFileLock creates a lock for path. The lock is not held until [FileLock.TryLock] succeeds.
func NewFileLock(path string) *FileLock {
	return &FileLock{lock: flock.New(path + ".lock")}
}

// TryLock acquires the lock without blocking. Returns [ErrStateLocked] if another process holds it.
func (l *FileLock) TryLock() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.lock.Path(), err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrStateLocked, l.lock.Path())
	}
	return nil
}

// Unlock releases the lock. It is a no-op when the lock is not held.
func (l *FileLock) Unlock() error {
	if !l.lock.Locked() {
		return nil
	}
	return l.lock.Unlock()
}

// Path returns the path of the lock file.
func (l *FileLock) Path() string {
	return l.lock.Path()
}
