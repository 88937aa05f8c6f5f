package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store counts requests per client key inside non-overlapping fixed windows.
// Incr returns the number of requests seen in the current window, including
// the one being counted.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type memoryWindow struct {
	start time.Time
	count int64
}

// MemoryStore is the single place in the service where concurrent requests
// mutate shared state; all access goes through the mutex.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
}

// StartCleanup launches the background sweep that drops windows whose last
// reset is older than maxAge. Close stops the sweep.
func (s *MemoryStore) StartCleanup(interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.Cleanup(maxAge)
			}
		}
	}()
}

func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= window {
		w = &memoryWindow{start: now}
		s.windows[key] = w
	}

	w.count++
	return w.count, nil
}

// Cleanup drops windows whose last reset is older than maxAge.
func (s *MemoryStore) Cleanup(maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, w := range s.windows {
		if now.Sub(w.start) > maxAge {
			delete(s.windows, key)
		}
	}
}

// RedisStore implements the fixed window with INCR + EXPIRE so multiple
// service instances share one counter per client key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := s.prefix + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("rate limit incr failed: %w", err)
	}

	// First hit in a window owns setting the expiry; the key then dies with
	// the window, resetting the counter implicitly.
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return count, fmt.Errorf("rate limit expire failed: %w", err)
		}
	}

	return count, nil
}
