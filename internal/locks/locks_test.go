package locks

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockName(t *testing.T) {
	a := LockName("/work/merged")
	b := LockName("/work/merged/")
	c := LockName("/work/other")

	assert.Equal(t, a, b, "trailing separators should not change the lock")
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^mergerepo-[0-9a-f]{16}\.lock$`, a)
}

func TestDestinationMutex_TryLock(t *testing.T) {
	opts := Opts{Dir: t.TempDir()}
	mutex := ForDestination("/work/merged", opts)
	defer func() { _ = mutex.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	result := <-mutex.TryLock(ctx, 50*time.Millisecond)

	assert.True(t, result.Success, "Should successfully acquire the lock")
	assert.Nil(t, result.Error, "Should not return an error")
	assert.Equal(t, 0, result.Attempt, "Should succeed on the first attempt")
	assert.Equal(t, filepath.Join(opts.Dir, LockName("/work/merged")), mutex.Path())
}

func TestDestinationMutex_Contention(t *testing.T) {
	opts := Opts{Dir: t.TempDir()}
	mutex1 := ForDestination("/work/merged", opts)
	mutex2 := ForDestination("/work/merged", opts)
	defer func() {
		_ = mutex1.Unlock()
		_ = mutex2.Unlock()
	}()

	require.NoError(t, mutex1.Acquire(context.Background(), time.Second, 10*time.Millisecond))

	// The second holder times out while the first one keeps the lock
	err := mutex2.Acquire(context.Background(), 150*time.Millisecond, 20*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked by another merge")

	require.NoError(t, mutex1.Unlock())
	assert.NoError(t, mutex2.Acquire(context.Background(), time.Second, 10*time.Millisecond))
}

func TestDestinationMutex_DifferentDestinations(t *testing.T) {
	opts := Opts{Dir: t.TempDir()}
	mutex1 := ForDestination("/work/a", opts)
	mutex2 := ForDestination("/work/b", opts)
	defer func() {
		_ = mutex1.Unlock()
		_ = mutex2.Unlock()
	}()

	require.NoError(t, mutex1.Acquire(context.Background(), time.Second, 10*time.Millisecond))
	assert.NoError(t, mutex2.Acquire(context.Background(), time.Second, 10*time.Millisecond))
}

func TestDestinationMutex_CancelledContext(t *testing.T) {
	opts := Opts{Dir: t.TempDir()}
	holder := ForDestination("/work/merged", opts)
	waiter := ForDestination("/work/merged", opts)
	defer func() {
		_ = holder.Unlock()
		_ = waiter.Unlock()
	}()

	require.NoError(t, holder.Acquire(context.Background(), time.Second, 10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, waiter.Acquire(ctx, time.Second, 10*time.Millisecond), context.Canceled)
}
