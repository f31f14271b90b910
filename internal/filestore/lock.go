package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 25 * time.Millisecond

// LockPath returns the path of the advisory lock file guarding the store.
func (s *Store) LockPath() string {
	return s.path + ".lock"
}

// Lock takes an exclusive advisory lock on <path>.lock, retrying until ctx
// is done.
func (s *Store) Lock(ctx context.Context) (func() error, error) {
	lockPath := s.LockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	fl := flock.New(lockPath)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", filepath.Base(lockPath), err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: not acquired", filepath.Base(lockPath))
	}
	return fl.Unlock, nil
}
