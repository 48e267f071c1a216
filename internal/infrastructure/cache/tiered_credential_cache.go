package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/outfit/partner-api/internal/domain/partner"
	"go.uber.org/zap"
)

// TieredCredentialCache implements a two-tier caching strategy
// L1: Local in-memory cache (fast, but local to instance)
// L2: Redis cache (slower, but shared across instances)
// This follows a read-through, write-around pattern with Pub/Sub invalidation
type TieredCredentialCache struct {
	l1Cache     *InMemoryCredentialCache
	l2Cache     *RedisCredentialCache
	invalidator *RedisCredentialInvalidator
	config      partner.CredentialCacheConfig
	logger      *zap.Logger

	// Stats for monitoring
	l1Hits   int64
	l1Misses int64
	l2Hits   int64
	l2Misses int64
}

// TieredCredentialCacheOption is a functional option for configuring the cache
type TieredCredentialCacheOption func(*TieredCredentialCache)

// WithTieredConfig sets the cache configuration
func WithTieredConfig(config partner.CredentialCacheConfig) TieredCredentialCacheOption {
	return func(c *TieredCredentialCache) {
		c.config = config
	}
}

// WithTieredLogger sets the logger for the cache
func WithTieredLogger(logger *zap.Logger) TieredCredentialCacheOption {
	return func(c *TieredCredentialCache) {
		c.logger = logger
	}
}

// NewTieredCredentialCache creates a new tiered credential cache
func NewTieredCredentialCache(
	l1Cache *InMemoryCredentialCache,
	l2Cache *RedisCredentialCache,
	invalidator *RedisCredentialInvalidator,
	opts ...TieredCredentialCacheOption,
) *TieredCredentialCache {
	cache := &TieredCredentialCache{
		l1Cache:     l1Cache,
		l2Cache:     l2Cache,
		invalidator: invalidator,
		config:      partner.DefaultCredentialCacheConfig(),
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// StartInvalidationSubscription starts listening for cache invalidation messages
// This should be called after creating the cache, typically in a goroutine
func (c *TieredCredentialCache) StartInvalidationSubscription(ctx context.Context) error {
	if c.invalidator == nil {
		return nil
	}

	return c.invalidator.Subscribe(ctx, func(msg partner.CredentialUpdateMessage) {
		c.handleInvalidationMessage(msg)
	})
}

// handleInvalidationMessage processes cache invalidation messages
func (c *TieredCredentialCache) handleInvalidationMessage(msg partner.CredentialUpdateMessage) {
	ctx := context.Background()

	switch msg.Action {
	case partner.CredentialUpdateActionEvicted:
		// Invalidate L1 cache for the prefix
		if err := c.l1Cache.Delete(ctx, msg.Prefix); err != nil {
			c.logger.Error("Failed to invalidate L1 cache for credential",
				zap.String("prefix", msg.Prefix),
				zap.Error(err))
		}
		c.logger.Debug("Invalidated L1 cache for credential",
			zap.String("prefix", msg.Prefix))

	case partner.CredentialUpdateActionInvalidateAll:
		// Invalidate all L1 cache
		if err := c.l1Cache.InvalidateAll(ctx); err != nil {
			c.logger.Error("Failed to invalidate all L1 cache", zap.Error(err))
		}
		c.logger.Info("Invalidated all L1 cache")
	}
}

// Get retrieves a verified credential from cache (L1 -> L2)
func (c *TieredCredentialCache) Get(ctx context.Context, prefix string) (*partner.VerifiedCredential, error) {
	// Try L1 first
	cred, err := c.l1Cache.Get(ctx, prefix)
	if err != nil {
		c.logger.Warn("L1 cache error", zap.String("prefix", prefix), zap.Error(err))
	}
	if cred != nil {
		atomic.AddInt64(&c.l1Hits, 1)
		return cred, nil
	}
	atomic.AddInt64(&c.l1Misses, 1)

	// Try L2
	cred, err = c.l2Cache.Get(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if cred != nil {
		atomic.AddInt64(&c.l2Hits, 1)
		// Populate L1 cache
		if err := c.l1Cache.Set(ctx, prefix, cred, c.config.L1TTL); err != nil {
			c.logger.Warn("Failed to populate L1 cache", zap.String("prefix", prefix), zap.Error(err))
		}
		return cred, nil
	}
	atomic.AddInt64(&c.l2Misses, 1)

	return nil, nil
}

// Set stores a verified credential in cache (L2 plus local L1)
func (c *TieredCredentialCache) Set(ctx context.Context, prefix string, cred *partner.VerifiedCredential, ttl time.Duration) error {
	// Set in L2
	if err := c.l2Cache.Set(ctx, prefix, cred, ttl); err != nil {
		return err
	}

	// Also set in L1 for immediate local access
	if err := c.l1Cache.Set(ctx, prefix, cred, c.config.L1TTL); err != nil {
		c.logger.Warn("Failed to set L1 cache", zap.String("prefix", prefix), zap.Error(err))
	}

	return nil
}

// Delete removes a credential from cache (both L1 and L2)
func (c *TieredCredentialCache) Delete(ctx context.Context, prefix string) error {
	// Delete from L2
	if err := c.l2Cache.Delete(ctx, prefix); err != nil {
		return err
	}

	// Delete from L1
	if err := c.l1Cache.Delete(ctx, prefix); err != nil {
		c.logger.Warn("Failed to delete from L1 cache", zap.String("prefix", prefix), zap.Error(err))
	}

	// Publish invalidation for other instances
	if c.invalidator != nil {
		if err := c.invalidator.PublishEviction(ctx, prefix); err != nil {
			c.logger.Warn("Failed to publish credential eviction", zap.String("prefix", prefix), zap.Error(err))
		}
	}

	return nil
}

// InvalidateAll removes all cached credentials
func (c *TieredCredentialCache) InvalidateAll(ctx context.Context) error {
	// Invalidate L2
	if err := c.l2Cache.InvalidateAll(ctx); err != nil {
		return err
	}

	// Invalidate L1
	if err := c.l1Cache.InvalidateAll(ctx); err != nil {
		c.logger.Warn("Failed to invalidate L1 cache", zap.Error(err))
	}

	// Publish invalidation for other instances
	if c.invalidator != nil {
		if err := c.invalidator.PublishInvalidateAll(ctx); err != nil {
			c.logger.Warn("Failed to publish invalidate all", zap.Error(err))
		}
	}

	return nil
}

// Close releases any resources held by the cache
func (c *TieredCredentialCache) Close() error {
	var lastErr error

	if c.invalidator != nil {
		if err := c.invalidator.Close(); err != nil {
			lastErr = err
		}
	}

	if err := c.l2Cache.Close(); err != nil {
		lastErr = err
	}

	if err := c.l1Cache.Close(); err != nil {
		lastErr = err
	}

	return lastErr
}

// TieredCredentialCache interface implementation

// GetL1 directly accesses the L1 (local) cache
func (c *TieredCredentialCache) GetL1(ctx context.Context, prefix string) (*partner.VerifiedCredential, error) {
	return c.l1Cache.Get(ctx, prefix)
}

// SetL1 directly sets a value in the L1 (local) cache
func (c *TieredCredentialCache) SetL1(ctx context.Context, prefix string, cred *partner.VerifiedCredential, ttl time.Duration) error {
	return c.l1Cache.Set(ctx, prefix, cred, ttl)
}

// InvalidateL1 removes an entry from the L1 (local) cache only
func (c *TieredCredentialCache) InvalidateL1(ctx context.Context, prefix string) error {
	return c.l1Cache.Delete(ctx, prefix)
}

// GetCacheStats returns statistics about cache hits and misses
func (c *TieredCredentialCache) GetCacheStats(ctx context.Context) partner.CredentialCacheStats {
	l1Hits := atomic.LoadInt64(&c.l1Hits)
	l1Misses := atomic.LoadInt64(&c.l1Misses)
	l2Hits := atomic.LoadInt64(&c.l2Hits)
	l2Misses := atomic.LoadInt64(&c.l2Misses)

	totalHits := l1Hits + l2Hits
	totalMisses := l2Misses // Only count final misses

	var hitRatio float64
	totalRequests := totalHits + totalMisses
	if totalRequests > 0 {
		hitRatio = float64(totalHits) / float64(totalRequests)
	}

	return partner.CredentialCacheStats{
		L1Hits:       l1Hits,
		L1Misses:     l1Misses,
		L2Hits:       l2Hits,
		L2Misses:     l2Misses,
		TotalHits:    totalHits,
		TotalMisses:  totalMisses,
		HitRatio:     hitRatio,
		CacheEntries: int64(c.l1Cache.Count()),
	}
}

// ResetStats resets the cache statistics
func (c *TieredCredentialCache) ResetStats() {
	atomic.StoreInt64(&c.l1Hits, 0)
	atomic.StoreInt64(&c.l1Misses, 0)
	atomic.StoreInt64(&c.l2Hits, 0)
	atomic.StoreInt64(&c.l2Misses, 0)
	c.l1Cache.ResetStats()
}

// Ensure TieredCredentialCache implements both CredentialCache and TieredCredentialCache
var _ partner.CredentialCache = (*TieredCredentialCache)(nil)
var _ partner.TieredCredentialCache = (*TieredCredentialCache)(nil)
