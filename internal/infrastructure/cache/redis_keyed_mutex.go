package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes a lock key only when the stored token matches, so a
// holder whose lock expired cannot release a lock re-acquired by someone else.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisKeyedMutex implements KeyedMutex using Redis SET NX PX.
// This is suitable for distributed deployments where multiple instances
// must serialize first-time link writes for the same partner identifier.
type RedisKeyedMutex struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	keyPrefix  string
	config     shared.LockConfig
	logger     *zap.Logger
}

// RedisKeyedMutexOption is a functional option for configuring the mutex
type RedisKeyedMutexOption func(*RedisKeyedMutex)

// WithMutexConfig sets the lock configuration
func WithMutexConfig(config shared.LockConfig) RedisKeyedMutexOption {
	return func(m *RedisKeyedMutex) {
		m.config = config
	}
}

// WithMutexLogger sets the logger for the mutex
func WithMutexLogger(logger *zap.Logger) RedisKeyedMutexOption {
	return func(m *RedisKeyedMutex) {
		m.logger = logger
	}
}

// NewRedisKeyedMutex creates a new Redis-based keyed mutex
func NewRedisKeyedMutex(cfg RedisConfig, opts ...RedisKeyedMutexOption) (*RedisKeyedMutex, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	mutex := &RedisKeyedMutex{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		keyPrefix:  "linking:mutex:",
		config:     shared.DefaultLockConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(mutex)
	}

	return mutex, nil
}

// NewRedisKeyedMutexWithClient creates a mutex with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisKeyedMutexWithClient(client *redis.Client, opts ...RedisKeyedMutexOption) *RedisKeyedMutex {
	mutex := &RedisKeyedMutex{
		client:     client,
		ownsClient: false, // Client is shared, don't close it
		keyPrefix:  "linking:mutex:",
		config:     shared.DefaultLockConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(mutex)
	}

	return mutex
}

// Acquire blocks until the key is held or the context is done.
// Each acquisition stores a random token; release is a no-op for any other
// token, which keeps an expired holder from deleting its successor's lock.
func (m *RedisKeyedMutex) Acquire(ctx context.Context, key string, ttl time.Duration) (shared.UnlockFunc, error) {
	if ttl == 0 {
		ttl = m.config.TTL
	}

	lockKey := m.keyPrefix + key
	token, err := randomLockToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate lock token: %w", err)
	}

	for {
		acquired, err := m.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if acquired {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.config.RetryInterval):
		}
	}

	m.logger.Debug("Acquired keyed lock",
		zap.String("key", key),
		zap.Duration("ttl", ttl))

	var once sync.Once
	unlock := func(ctx context.Context) error {
		var releaseErr error
		once.Do(func() {
			releaseErr = m.release(ctx, key, lockKey, token)
		})
		return releaseErr
	}
	return unlock, nil
}

// release deletes the lock key if the token still matches
func (m *RedisKeyedMutex) release(ctx context.Context, key, lockKey, token string) error {
	released, err := releaseScript.Run(ctx, m.client, []string{lockKey}, token).Int()
	if err != nil {
		m.logger.Error("Failed to release keyed lock",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to release lock: %w", err)
	}

	if released == 0 {
		// Lock expired and may have been re-acquired by another holder
		m.logger.Warn("Keyed lock expired before release", zap.String("key", key))
		return nil
	}

	m.logger.Debug("Released keyed lock", zap.String("key", key))
	return nil
}

// Close closes the Redis client if this mutex owns it
func (m *RedisKeyedMutex) Close() error {
	if m.ownsClient {
		return m.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (m *RedisKeyedMutex) GetClient() *redis.Client {
	return m.client
}

func randomLockToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Ensure RedisKeyedMutex implements KeyedMutex
var _ shared.KeyedMutex = (*RedisKeyedMutex)(nil)
