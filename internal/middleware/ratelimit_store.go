package middleware

import (
	"context"
	"time"

	"github.com/shopstack/catalogd/internal/cache"
)

// RateStore coordinates rate limiting counters for a specific key.
type RateStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int, ttl time.Duration, err error)
}

type cacheRateStore struct {
	store cache.Store
}

// NewCacheRateStore adapts any cache.Store (Redis, database, or memory) into
// a RateStore. Returns nil when the store is nil so callers can disable
// limiting with a single check.
func NewCacheRateStore(store cache.Store) RateStore {
	if store == nil {
		return nil
	}
	return &cacheRateStore{store: store}
}

func (s *cacheRateStore) Increment(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	if window <= 0 {
		window = time.Minute
	}
	count, ttl, err := s.store.IncrementWithTTL(ctx, key, window)
	return int(count), ttl, err
}
