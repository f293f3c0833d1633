// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package auth

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"github.com/inkpress-io/inkpress/internal/platform/constants"
)

// # Login Throttling

// LoginThrottle tracks failed login attempts per identifier (email) and
// enforces a lockout window.
//
// # State Machine
//
// Each identifier moves through Clear → Warming (1..MAX-1 failures) →
// Locked (≥ MAX failures within the window) → Clear. The window is measured
// from the most recent failure, not the first, and expiry is lazy: a locked
// record whose window has elapsed is cleared on the next read, so no
// background sweeper is required.
//
// # Centralized State
//
// Attempt counters are keyed by identifier in shared storage, never in the
// caller's own session. A per-browser counter would be trivially bypassed by
// clearing cookies; the guarantee here holds across sessions and clients.
type LoginThrottle interface {

	/*
		RecordFailure increments the identifier's failure count and stamps
		the current time.

		Parameters:
		  - context: context.Context
		  - identifier: string (normalized email)

		Returns:
		  - error: Storage failures
	*/
	RecordFailure(context context.Context, identifier string) error

	/*
		IsLocked reports whether the identifier is currently locked out.

		Description: Returns the remaining wait in seconds when locked. If the
		lockout window has elapsed since the last failure, the record is
		cleared as a side effect (lazy expiry).

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - bool: True when the identifier is locked
		  - int: Seconds until the lock expires (0 when unlocked)
		  - error: Storage failures
	*/
	IsLocked(context context.Context, identifier string) (bool, int, error)

	/*
		Reset clears the identifier's failure count and timestamp.
		Called on every successful authentication.

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - error: Storage failures
	*/
	Reset(context context.Context, identifier string) error
}

// # In-Memory Implementation

// attemptRecord holds the failure state for one identifier.
type attemptRecord struct {
	count       int
	lastFailure time.Time
}

// throttleShard is one lock-striped partition of the attempt map.
type throttleShard struct {
	mu      sync.Mutex
	records map[string]*attemptRecord
}

// shardCount is the number of lock stripes. Identifiers hash onto shards so
// concurrent logins for different emails rarely contend, while two parallel
// attempts for the same email always serialize on the same shard mutex.
const shardCount = 64

// MemoryThrottle is the single-node [LoginThrottle] backed by a lock-striped
// in-memory map.
//
// # Concurrency
//
// The check-and-update on a record happens entirely under its shard mutex,
// so racing attempts for one identifier cannot exceed the threshold.
type MemoryThrottle struct {
	shards      [shardCount]*throttleShard
	maxAttempts int
	window      time.Duration

	// now is injectable for deterministic window tests.
	now func() time.Time
}

// NewMemoryThrottle creates an in-memory throttle with platform defaults
// (5 attempts, 15-minute window).
func NewMemoryThrottle() *MemoryThrottle {
	return NewMemoryThrottleWith(constants.MaxLoginAttempts, constants.LockoutWindow, time.Now)
}

// NewMemoryThrottleWith creates an in-memory throttle with explicit limits
// and clock. Used by tests to simulate window expiry without sleeping.
func NewMemoryThrottleWith(maxAttempts int, window time.Duration, now func() time.Time) *MemoryThrottle {
	throttle := &MemoryThrottle{
		maxAttempts: maxAttempts,
		window:      window,
		now:         now,
	}

	for i := range throttle.shards {
		throttle.shards[i] = &throttleShard{records: make(map[string]*attemptRecord)}
	}

	return throttle
}

// RecordFailure increments the identifier's count and stamps the current time.
func (throttle *MemoryThrottle) RecordFailure(_ context.Context, identifier string) error {
	shard := throttle.shard(identifier)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	record, found := shard.records[identifier]
	if !found {
		record = &attemptRecord{}
		shard.records[identifier] = record
	}

	record.count++
	record.lastFailure = throttle.now()

	return nil
}

// IsLocked reports lock state, clearing expired records as a side effect.
func (throttle *MemoryThrottle) IsLocked(_ context.Context, identifier string) (bool, int, error) {
	shard := throttle.shard(identifier)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	record, found := shard.records[identifier]
	if !found || record.count < throttle.maxAttempts {
		return false, 0, nil
	}

	elapsed := throttle.now().Sub(record.lastFailure)
	if elapsed >= throttle.window {
		// Lazy expiry: the window has passed, so the identifier starts a
		// fresh attempt cycle.
		delete(shard.records, identifier)
		return false, 0, nil
	}

	remaining := int(math.Ceil((throttle.window - elapsed).Seconds()))
	return true, remaining, nil
}

// Reset clears the identifier's record.
func (throttle *MemoryThrottle) Reset(_ context.Context, identifier string) error {
	shard := throttle.shard(identifier)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	delete(shard.records, identifier)
	return nil
}

// shard maps an identifier onto its lock stripe.
func (throttle *MemoryThrottle) shard(identifier string) *throttleShard {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(identifier))
	return throttle.shards[hasher.Sum32()%shardCount]
}
