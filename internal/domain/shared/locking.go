package shared

import (
	"context"
	"time"
)

// UnlockFunc releases a previously acquired keyed lock.
type UnlockFunc func(ctx context.Context) error

// KeyedMutex serializes operations on a per-key basis. First-time link
// attempts for the same partner identifier must acquire the key before
// touching the link store so that only one writer proceeds at a time.
type KeyedMutex interface {
	// Acquire blocks until the key is held, the context is done, or the
	// attempt times out. The returned UnlockFunc must be called to release
	// the key; ttl bounds how long a crashed holder can keep it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)

	// Close releases resources held by the mutex implementation
	Close() error
}

// LockConfig holds configuration for keyed locking
type LockConfig struct {
	// TTL is how long an acquired key is held at most before it expires.
	// Default: 10 seconds
	TTL time.Duration

	// RetryInterval is how long an acquirer waits between attempts when the
	// key is already held. Default: 25 milliseconds
	RetryInterval time.Duration
}

// DefaultLockConfig returns the default keyed lock configuration
func DefaultLockConfig() LockConfig {
	return LockConfig{
		TTL:           10 * time.Second,
		RetryInterval: 25 * time.Millisecond,
	}
}
