package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store backed by a map with a janitor
// goroutine reaping expired entries. It suits tests and single-instance
// deployments where neither Redis nor the database fallback is wanted.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	tick    *time.Ticker
	done    chan struct{}
	clock   func() time.Time
}

type memoryEntry struct {
	value     []byte
	count     int64
	expiresAt time.Time
}

// NewMemoryStore constructs an in-memory store and starts its janitor.
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		entries: make(map[string]memoryEntry),
		tick:    time.NewTicker(time.Minute),
		done:    make(chan struct{}),
		clock:   time.Now,
	}

	go store.janitor()
	return store
}

// Close stops the janitor goroutine.
func (s *MemoryStore) Close() error {
	s.tick.Stop()
	close(s.done)
	return nil
}

func (s *MemoryStore) janitor() {
	for {
		select {
		case <-s.done:
			return
		case <-s.tick.C:
			now := s.clock()
			s.mu.Lock()
			for key, entry := range s.entries {
				if entry.expired(now) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Get retrieves a value by key, respecting expiry.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || entry.expired(s.clock()) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores a value with the supplied time-to-live.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	expiry := time.Time{}
	if ttl > 0 {
		expiry = s.clock().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{value: value, expiresAt: expiry}
	return nil
}

// Delete removes keys, ignoring missing ones.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// IncrementWithTTL increments a counter key within a fixed window.
func (s *MemoryStore) IncrementWithTTL(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if window <= 0 {
		window = time.Minute
	}

	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || entry.expired(now) {
		entry = memoryEntry{expiresAt: now.Add(window)}
	}
	entry.count++

	s.entries[key] = entry
	return entry.count, entry.expiresAt.Sub(now), nil
}

// Ping always succeeds for the in-process store.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
