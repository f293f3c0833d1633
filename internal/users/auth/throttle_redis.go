// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkpress-io/inkpress/internal/platform/constants"
)

// RedisThrottle is the multi-node [LoginThrottle] backed by Redis counters.
//
// # Semantics
//
// Each failure INCRs the identifier's counter and refreshes its TTL to the
// full lockout window, so the window is always measured from the most recent
// failure. Expiry is handled by Redis itself, which is the distributed
// equivalent of the in-memory lazy clear. INCR+EXPIRE run in a single
// pipeline, and INCR is atomic server-side, so racing attempts for one
// identifier cannot exceed the threshold.
type RedisThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewRedisThrottle creates a Redis-backed throttle with platform defaults.
func NewRedisThrottle(client *redis.Client) *RedisThrottle {
	return &RedisThrottle{
		client:      client,
		maxAttempts: constants.MaxLoginAttempts,
		window:      constants.LockoutWindow,
	}
}

// RecordFailure increments the identifier's counter and refreshes the window.
func (throttle *RedisThrottle) RecordFailure(context context.Context, identifier string) error {
	key := throttle.key(identifier)

	// INCR and EXPIRE together so the window always restarts at the last failure.
	pipeline := throttle.client.TxPipeline()
	pipeline.Incr(context, key)
	pipeline.Expire(context, key, throttle.window)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_throttle_record_failure_failed: %w", err)
	}

	return nil
}

// IsLocked reports lock state. Expired records have already been evicted by
// Redis TTL, so absence means Clear.
func (throttle *RedisThrottle) IsLocked(context context.Context, identifier string) (bool, int, error) {
	key := throttle.key(identifier)

	raw, err := throttle.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("redis_throttle_is_locked_failed: %w", err)
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		// Corrupt counter: clear it and treat the identifier as fresh.
		_ = throttle.client.Del(context, key).Err()
		return false, 0, nil
	}

	if count < throttle.maxAttempts {
		return false, 0, nil
	}

	remaining, err := throttle.client.TTL(context, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis_throttle_ttl_failed: %w", err)
	}

	// TTL < 0 means the key has no expiry or vanished between calls.
	if remaining < 0 {
		_ = throttle.client.Del(context, key).Err()
		return false, 0, nil
	}

	return true, int(remaining.Seconds()), nil
}

// Reset clears the identifier's counter.
func (throttle *RedisThrottle) Reset(context context.Context, identifier string) error {
	if err := throttle.client.Del(context, throttle.key(identifier)).Err(); err != nil {
		return fmt.Errorf("redis_throttle_reset_failed: %w", err)
	}
	return nil
}

// key builds the namespaced Redis key for an identifier.
func (throttle *RedisThrottle) key(identifier string) string {
	return constants.RedisPrefixLoginAttempts + identifier
}
