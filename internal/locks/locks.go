package locks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// DestinationMutex provides file-based mutual exclusion between processes
// materializing into the same destination directory.
// The lock is automatically released if the holding process dies.
//
// See:
//   - Linux: https://linux.die.net/man/2/flock
//   - Windows: https://docs.microsoft.com/en-us/windows/win32/api/fileapi/nf-fileapi-lockfileex
type DestinationMutex struct {
	Opts
	mu *flock.Flock
}

type Opts struct {
	// Dir holds the lock files. Defaults to os.TempDir().
	Dir string
}

// LockName returns the lock file name used for the given absolute
// destination path. The lock lives outside the destination so that wiping
// and renaming the destination never touches it.
func LockName(destination string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(destination)))
	return "mergerepo-" + hex.EncodeToString(sum[:8]) + ".lock"
}

func ForDestination(destination string, o Opts) *DestinationMutex {
	if o.Dir == "" {
		o.Dir = os.TempDir()
	}
	mu := flock.New(filepath.Join(o.Dir, LockName(destination)))

	return &DestinationMutex{Opts: o, mu: mu}
}

func (m *DestinationMutex) Path() string {
	return m.mu.Path()
}

type TryLockResult struct {
	Attempt int
	Error   error
	Success bool
}

func (m *DestinationMutex) TryLock(ctx context.Context, retryDelay time.Duration) <-chan TryLockResult {
	ch := make(chan TryLockResult)
	go func() {
		defer close(ch)
		for attempt := 0; ; attempt++ {
			ok, err := m.mu.TryLock()
			if err != nil {
				ch <- TryLockResult{Attempt: attempt, Error: fmt.Errorf("failed to acquire lock (pid %d): %w", os.Getpid(), err)}
				return
			}
			if ok {
				ch <- TryLockResult{Attempt: attempt, Success: true}
				return
			}

			select {
			case <-ctx.Done():
				ch <- TryLockResult{Attempt: attempt, Error: ctx.Err()}
				return
			case <-time.After(retryDelay):
				select {
				case ch <- TryLockResult{Attempt: attempt, Success: false}:
				case <-ctx.Done():
					ch <- TryLockResult{Attempt: attempt, Error: ctx.Err()}
					return
				}
			}
		}
	}()
	return ch
}

// Acquire blocks until the lock is held or timeout elapses.
func (m *DestinationMutex) Acquire(ctx context.Context, timeout, retryDelay time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for result := range m.TryLock(ctx, retryDelay) {
		if result.Error != nil {
			return fmt.Errorf("destination is locked by another merge (%s): %w", m.Path(), result.Error)
		}
		if result.Success {
			return nil
		}
	}

	return fmt.Errorf("destination is locked by another merge (%s)", m.Path())
}

func (m *DestinationMutex) Unlock() error {
	return m.mu.Unlock()
}
