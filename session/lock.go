package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/zhubert/stowaway/paths"
)

// lockRetryDelay is how often a blocked Acquire re-attempts the flock while
// its context allows.
const lockRetryDelay = 100 * time.Millisecond

// lockWait bounds how long Acquire waits for a concurrent command to finish
// before giving up.
const lockWait = 5 * time.Second

// Lock is an exclusive advisory lock covering every command that touches one
// host file. Lock files always live in the central locks directory, even for
// sessions stored locally, so two processes agree on the lock regardless of
// where the sidecar sits.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the lock for hostPath, retrying briefly if another process
// holds it. The caller must Release the returned lock.
func Acquire(ctx context.Context, hostPath string) (*Lock, error) {
	dir, err := paths.LocksDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve locks directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create locks directory: %w", err)
	}

	fl := flock.New(filepath.Join(dir, Key(hostPath)+".lock"))

	waitCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	locked, err := fl.TryLockContext(waitCtx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("failed to acquire lock for %s: %w", hostPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("another command is already operating on %s", hostPath)
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock. Safe to call on a nil lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}

// Path returns the lock file location, mainly for logging.
func (l *Lock) Path() string {
	if l == nil || l.fl == nil {
		return ""
	}
	return l.fl.Path()
}
