// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress-io/inkpress/internal/users/auth"
)

// fakeClock is a manually advanced time source for deterministic window tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

/*
TestMemoryThrottle_LocksAfterMaxAttempts verifies the failure threshold:
four failures leave the identifier unlocked, the fifth locks it.
*/
func TestMemoryThrottle_LocksAfterMaxAttempts(t *testing.T) {
	clock := newFakeClock()
	throttle := auth.NewMemoryThrottleWith(5, 15*time.Minute, clock.Now)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, throttle.RecordFailure(ctx, "alice@example.com"))

		locked, _, err := throttle.IsLocked(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.False(t, locked, "should stay unlocked after %d failures", i+1)
	}

	require.NoError(t, throttle.RecordFailure(ctx, "alice@example.com"))

	locked, retryAfter, err := throttle.IsLocked(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, 900, retryAfter, "remaining window should be the full 15 minutes")
}

/*
TestMemoryThrottle_WindowFromLastFailure verifies the window restarts at the
most recent failure, not the first.
*/
func TestMemoryThrottle_WindowFromLastFailure(t *testing.T) {
	clock := newFakeClock()
	throttle := auth.NewMemoryThrottleWith(5, 15*time.Minute, clock.Now)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, throttle.RecordFailure(ctx, "bob@example.com"))
	}

	// Fifth failure ten minutes later: window measured from here.
	clock.Advance(10 * time.Minute)
	require.NoError(t, throttle.RecordFailure(ctx, "bob@example.com"))

	clock.Advance(14 * time.Minute)
	locked, retryAfter, err := throttle.IsLocked(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, locked, "still inside the window measured from the last failure")
	assert.Equal(t, 60, retryAfter)
}

/*
TestMemoryThrottle_LazyExpiry verifies that once the window elapses the lock
clears on the next read and the attempt record is gone.
*/
func TestMemoryThrottle_LazyExpiry(t *testing.T) {
	clock := newFakeClock()
	throttle := auth.NewMemoryThrottleWith(5, 15*time.Minute, clock.Now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, throttle.RecordFailure(ctx, "carol@example.com"))
	}

	locked, _, err := throttle.IsLocked(ctx, "carol@example.com")
	require.NoError(t, err)
	require.True(t, locked)

	// One second past the window: unlocked, record cleared.
	clock.Advance(15*time.Minute + time.Second)
	locked, retryAfter, err := throttle.IsLocked(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.False(t, locked)
	assert.Zero(t, retryAfter)

	// The cleared record means a fresh cycle: four new failures stay unlocked.
	for i := 0; i < 4; i++ {
		require.NoError(t, throttle.RecordFailure(ctx, "carol@example.com"))
	}
	locked, _, err = throttle.IsLocked(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.False(t, locked, "expired lock must not carry old failures into the new cycle")
}

/*
TestMemoryThrottle_Reset verifies a successful login clears the counter.
*/
func TestMemoryThrottle_Reset(t *testing.T) {
	clock := newFakeClock()
	throttle := auth.NewMemoryThrottleWith(5, 15*time.Minute, clock.Now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, throttle.RecordFailure(ctx, "dave@example.com"))
	}

	require.NoError(t, throttle.Reset(ctx, "dave@example.com"))

	locked, _, err := throttle.IsLocked(ctx, "dave@example.com")
	require.NoError(t, err)
	assert.False(t, locked)
}

/*
TestMemoryThrottle_IdentifiersAreIndependent verifies one locked email does
not affect another.
*/
func TestMemoryThrottle_IdentifiersAreIndependent(t *testing.T) {
	clock := newFakeClock()
	throttle := auth.NewMemoryThrottleWith(5, 15*time.Minute, clock.Now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, throttle.RecordFailure(ctx, "eve@example.com"))
	}

	locked, _, err := throttle.IsLocked(ctx, "eve@example.com")
	require.NoError(t, err)
	assert.True(t, locked)

	locked, _, err = throttle.IsLocked(ctx, "frank@example.com")
	require.NoError(t, err)
	assert.False(t, locked)
}

/*
TestMemoryThrottle_ConcurrentFailures verifies the counter survives parallel
writers for the same identifier.
*/
func TestMemoryThrottle_ConcurrentFailures(t *testing.T) {
	throttle := auth.NewMemoryThrottle()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = throttle.RecordFailure(ctx, "grace@example.com")
		}()
	}
	wg.Wait()

	locked, _, err := throttle.IsLocked(ctx, "grace@example.com")
	require.NoError(t, err)
	assert.True(t, locked, "20 parallel failures are far past the threshold")
}
