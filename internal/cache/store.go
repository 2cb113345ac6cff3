package cache

import (
	"context"
	"time"
)

// Store represents a shared cache interface used across the application.
// Implementations are safe for concurrent use and treat expired keys as absent.
type Store interface {
	// Get returns the value for a key and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value with the supplied time-to-live.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes one or more keys, ignoring missing keys.
	Delete(ctx context.Context, keys ...string) error
	// IncrementWithTTL increments a counter key, establishing the TTL window
	// on first increment, and returns the count with the remaining TTL.
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
