package database

import (
	"context"
	"time"
)

// KV is the minimal key-value contract the service relies on. It is
// implemented by the redis package for production and by the memory
// package for tests and single-process setups.
type KV interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX stores value under key only if the key is absent and
	// reports whether the write happened.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Incr atomically increments the integer stored under key,
	// creating it at 1, and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)

	// Expire sets the remaining ttl of an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Del removes key. Removing an absent key is not an error.
	Del(ctx context.Context, key string) error

	// Keys returns all keys matching a glob-style pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)
}
