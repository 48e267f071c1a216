package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/outfit/partner-api/internal/domain/partner"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	defaultScanBatchSize = 100

	credentialKeyPattern = "partner_credential:*"
)

// RedisCredentialCache implements CredentialCache using Redis
type RedisCredentialCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	config     partner.CredentialCacheConfig
	logger     *zap.Logger
}

// RedisCredentialCacheOption is a functional option for configuring the cache
type RedisCredentialCacheOption func(*RedisCredentialCache)

// WithCacheConfig sets the cache configuration
func WithCacheConfig(config partner.CredentialCacheConfig) RedisCredentialCacheOption {
	return func(c *RedisCredentialCache) {
		c.config = config
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisCredentialCacheOption {
	return func(c *RedisCredentialCache) {
		c.logger = logger
	}
}

// NewRedisCredentialCache creates a new Redis-based credential cache
func NewRedisCredentialCache(cfg RedisConfig, opts ...RedisCredentialCacheOption) (*RedisCredentialCache, error) {
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

	cache := &RedisCredentialCache{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		config:     partner.DefaultCredentialCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisCredentialCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisCredentialCacheWithClient(client *redis.Client, opts ...RedisCredentialCacheOption) *RedisCredentialCache {
	cache := &RedisCredentialCache{
		client:     client,
		ownsClient: false, // Client is shared, don't close it
		config:     partner.DefaultCredentialCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// credentialCacheKey generates the cache key for an API key prefix
func (c *RedisCredentialCache) credentialCacheKey(prefix string) string {
	return fmt.Sprintf("partner_credential:%s", prefix)
}

// Get retrieves a verified credential from cache
func (c *RedisCredentialCache) Get(ctx context.Context, prefix string) (*partner.VerifiedCredential, error) {
	cacheKey := c.credentialCacheKey(prefix)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		// Cache miss
		c.logger.Debug("Cache miss for partner credential", zap.String("prefix", prefix))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get partner credential from cache",
			zap.String("prefix", prefix),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get credential from cache: %w", err)
	}

	var cred partner.VerifiedCredential
	if err := json.Unmarshal(data, &cred); err != nil {
		c.logger.Error("Failed to unmarshal partner credential",
			zap.String("prefix", prefix),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	c.logger.Debug("Cache hit for partner credential", zap.String("prefix", prefix))
	return &cred, nil
}

// Set stores a verified credential in cache
func (c *RedisCredentialCache) Set(ctx context.Context, prefix string, cred *partner.VerifiedCredential, ttl time.Duration) error {
	if cred == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.CredentialTTL
	}

	cacheKey := c.credentialCacheKey(prefix)

	data, err := json.Marshal(cred)
	if err != nil {
		c.logger.Error("Failed to marshal partner credential",
			zap.String("prefix", prefix),
			zap.Error(err))
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set partner credential in cache",
			zap.String("prefix", prefix),
			zap.Error(err))
		return fmt.Errorf("failed to set credential in cache: %w", err)
	}

	c.logger.Debug("Cached partner credential",
		zap.String("prefix", prefix),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes a credential from cache
func (c *RedisCredentialCache) Delete(ctx context.Context, prefix string) error {
	cacheKey := c.credentialCacheKey(prefix)

	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Error("Failed to delete partner credential from cache",
			zap.String("prefix", prefix),
			zap.Error(err))
		return fmt.Errorf("failed to delete credential from cache: %w", err)
	}

	c.logger.Debug("Deleted partner credential from cache", zap.String("prefix", prefix))
	return nil
}

// InvalidateAll removes all cached credentials
func (c *RedisCredentialCache) InvalidateAll(ctx context.Context) error {
	// Use SCAN to find all credential keys to avoid blocking Redis with KEYS command
	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, credentialKeyPattern, defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Error("Failed to scan credential keys", zap.Error(err))
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("Failed to delete credential keys", zap.Error(err))
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Info("Invalidated all partner credential cache",
		zap.Int64("deleted_count", deletedCount))
	return nil
}

// Close releases any resources held by the cache
func (c *RedisCredentialCache) Close() error {
	// Only close client if we own it
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisCredentialCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisCredentialCache implements CredentialCache
var _ partner.CredentialCache = (*RedisCredentialCache)(nil)
