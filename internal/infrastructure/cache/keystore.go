package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyStore remembers client-supplied request keys for a while so that a
// retried write is recognised instead of applied twice.
type KeyStore interface {
	// Claim records key for ttl. It returns false when the key is already held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release forgets key so the request can be retried.
	Release(ctx context.Context, key string) error
	Close() error
}

// DefaultKeyPrefix namespaces request keys in a shared Redis
const DefaultKeyPrefix = "backoffice:request:"

// NewKeyStore returns a Redis store when client is set and an in-memory
// store otherwise.
func NewKeyStore(client *redis.Client, prefix string) KeyStore {
	if client == nil {
		return NewMemoryKeyStore()
	}
	return NewRedisKeyStore(client, prefix)
}

// RedisKeyStore shares request keys across instances. Claims use SETNX.
type RedisKeyStore struct {
	client *redis.Client
	prefix string
}

// NewRedisKeyStore creates a store whose keys live under prefix
func NewRedisKeyStore(client *redis.Client, prefix string) *RedisKeyStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisKeyStore{client: client, prefix: prefix}
}

// Claim implements KeyStore
func (s *RedisKeyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim request key: %w", err)
	}
	return ok, nil
}

// Release implements KeyStore
func (s *RedisKeyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("release request key: %w", err)
	}
	return nil
}

// Close is a no-op; the client belongs to the caller.
func (s *RedisKeyStore) Close() error { return nil }

// MemoryKeyStore keeps request keys in process memory for single-instance
// deployments and tests. A janitor drops expired keys every few minutes.
type MemoryKeyStore struct {
	mu        sync.Mutex
	keys      map[string]time.Time
	now       func() time.Time
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryKeyStore creates a store and starts its janitor.
// Call Close to stop the janitor.
func NewMemoryKeyStore() *MemoryKeyStore {
	s := &MemoryKeyStore{
		keys: make(map[string]time.Time),
		now:  time.Now,
		stop: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.janitor(5 * time.Minute)
	return s
}

// Claim implements KeyStore. An expired key can be claimed again.
func (s *MemoryKeyStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiresAt, ok := s.keys[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	s.keys[key] = now.Add(ttl)
	return true, nil
}

// Release implements KeyStore
func (s *MemoryKeyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
	return nil
}

// Close stops the janitor. Safe to call more than once.
func (s *MemoryKeyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
	return nil
}

// Len returns the number of keys held, expired ones included
func (s *MemoryKeyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

func (s *MemoryKeyStore) janitor(every time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryKeyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, expiresAt := range s.keys {
		if !now.Before(expiresAt) {
			delete(s.keys, key)
		}
	}
}
