package cache

import (
	"context"
	"sync"
	"time"

	"github.com/outfit/partner-api/internal/domain/shared"
)

// heldLock represents a held key with its owner token and expiration
type heldLock struct {
	token     string
	expiresAt time.Time
}

// InMemoryKeyedMutex implements KeyedMutex using an in-memory map.
// This is suitable for single-instance deployments and testing. It mirrors the
// Redis implementation's semantics: holds expire after their TTL and release
// is token-checked, so an expired holder cannot release a re-acquired key.
type InMemoryKeyedMutex struct {
	mu     sync.Mutex
	locks  map[string]heldLock
	config shared.LockConfig
}

// InMemoryKeyedMutexOption is a functional option for configuring the mutex
type InMemoryKeyedMutexOption func(*InMemoryKeyedMutex)

// WithInMemoryMutexConfig sets the lock configuration
func WithInMemoryMutexConfig(config shared.LockConfig) InMemoryKeyedMutexOption {
	return func(m *InMemoryKeyedMutex) {
		m.config = config
	}
}

// NewInMemoryKeyedMutex creates a new in-memory keyed mutex
func NewInMemoryKeyedMutex(opts ...InMemoryKeyedMutexOption) *InMemoryKeyedMutex {
	mutex := &InMemoryKeyedMutex{
		locks:  make(map[string]heldLock),
		config: shared.DefaultLockConfig(),
	}

	for _, opt := range opts {
		opt(mutex)
	}

	return mutex
}

// Acquire blocks until the key is held or the context is done
func (m *InMemoryKeyedMutex) Acquire(ctx context.Context, key string, ttl time.Duration) (shared.UnlockFunc, error) {
	if ttl == 0 {
		ttl = m.config.TTL
	}

	token, err := randomLockToken()
	if err != nil {
		return nil, err
	}

	for {
		if m.tryAcquire(key, token, ttl) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.config.RetryInterval):
		}
	}

	var once sync.Once
	unlock := func(ctx context.Context) error {
		once.Do(func() {
			m.release(key, token)
		})
		return nil
	}
	return unlock, nil
}

// tryAcquire takes the key if it is free or its current hold has expired
func (m *InMemoryKeyedMutex) tryAcquire(key, token string, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if held, exists := m.locks[key]; exists && time.Now().Before(held.expiresAt) {
		return false
	}

	m.locks[key] = heldLock{
		token:     token,
		expiresAt: time.Now().Add(ttl),
	}
	return true
}

// release deletes the key only if the token still matches
func (m *InMemoryKeyedMutex) release(key, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if held, exists := m.locks[key]; exists && held.token == token {
		delete(m.locks, key)
	}
}

// Close releases resources. The in-memory mutex has no background work.
func (m *InMemoryKeyedMutex) Close() error {
	return nil
}

// Size returns the number of held keys (for testing/monitoring)
func (m *InMemoryKeyedMutex) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// Ensure InMemoryKeyedMutex implements KeyedMutex
var _ shared.KeyedMutex = (*InMemoryKeyedMutex)(nil)
