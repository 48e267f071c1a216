package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/outfit/partner-api/internal/domain/partner"
	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemoryCredentialCache implements CredentialCache using in-memory storage
// This is designed to be used as L1 cache in front of Redis
type InMemoryCredentialCache struct {
	credentials sync.Map // map[string]*cacheEntry[partner.VerifiedCredential]
	config      partner.CredentialCacheConfig
	logger      *zap.Logger
	stopCh      chan struct{} // Channel to stop the cleanup goroutine
	stopped     int32         // Atomic flag to track if cache is stopped

	// Stats for monitoring
	hits   int64
	misses int64
}

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     *T
	expiresAt time.Time
}

// isExpired checks if the cache entry has expired
func (e *cacheEntry[T]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryCredentialCacheOption is a functional option for configuring the cache
type InMemoryCredentialCacheOption func(*InMemoryCredentialCache)

// WithInMemoryConfig sets the cache configuration
func WithInMemoryConfig(config partner.CredentialCacheConfig) InMemoryCredentialCacheOption {
	return func(c *InMemoryCredentialCache) {
		c.config = config
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryCredentialCacheOption {
	return func(c *InMemoryCredentialCache) {
		c.logger = logger
	}
}

// NewInMemoryCredentialCache creates a new in-memory credential cache
func NewInMemoryCredentialCache(opts ...InMemoryCredentialCacheOption) *InMemoryCredentialCache {
	cache := &InMemoryCredentialCache{
		config: partner.DefaultCredentialCacheConfig(),
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	// Start background cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

// credentialCacheKey generates the cache key for an API key prefix
func (c *InMemoryCredentialCache) credentialCacheKey(prefix string) string {
	return "credential:" + prefix
}

// Get retrieves a verified credential from cache
func (c *InMemoryCredentialCache) Get(ctx context.Context, prefix string) (*partner.VerifiedCredential, error) {
	cacheKey := c.credentialCacheKey(prefix)

	if value, ok := c.credentials.Load(cacheKey); ok {
		entry := value.(*cacheEntry[partner.VerifiedCredential])
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("L1 cache hit for partner credential", zap.String("prefix", prefix))
			return entry.value, nil
		}
		// Expired, remove from cache
		c.credentials.Delete(cacheKey)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("L1 cache miss for partner credential", zap.String("prefix", prefix))
	return nil, nil
}

// Set stores a verified credential in cache
func (c *InMemoryCredentialCache) Set(ctx context.Context, prefix string, cred *partner.VerifiedCredential, ttl time.Duration) error {
	if cred == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.L1TTL
	}

	cacheKey := c.credentialCacheKey(prefix)
	entry := &cacheEntry[partner.VerifiedCredential]{
		value:     cred,
		expiresAt: time.Now().Add(ttl),
	}

	c.credentials.Store(cacheKey, entry)
	c.logger.Debug("Cached partner credential in L1",
		zap.String("prefix", prefix),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes a credential from cache
func (c *InMemoryCredentialCache) Delete(ctx context.Context, prefix string) error {
	cacheKey := c.credentialCacheKey(prefix)
	c.credentials.Delete(cacheKey)
	c.logger.Debug("Deleted partner credential from L1 cache", zap.String("prefix", prefix))
	return nil
}

// InvalidateAll removes all cached credentials
func (c *InMemoryCredentialCache) InvalidateAll(ctx context.Context) error {
	// Clear all entries
	c.credentials.Range(func(key, _ any) bool {
		c.credentials.Delete(key)
		return true
	})

	c.logger.Info("Invalidated all L1 partner credential cache")
	return nil
}

// Close releases any resources held by the cache
func (c *InMemoryCredentialCache) Close() error {
	// Only close once
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryCredentialCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// ResetStats resets the cache statistics
func (c *InMemoryCredentialCache) ResetStats() {
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}

// Count returns the number of entries in the cache
func (c *InMemoryCredentialCache) Count() int {
	count := 0
	c.credentials.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// cleanupExpired periodically removes expired entries from the cache
func (c *InMemoryCredentialCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("Panic in cache cleanup",
							zap.Any("panic", r))
					}
				}()
				c.doCleanup()
			}()
		}
	}
}

// doCleanup removes expired entries from the cache
func (c *InMemoryCredentialCache) doCleanup() {
	var removed int

	c.credentials.Range(func(key, value any) bool {
		entry := value.(*cacheEntry[partner.VerifiedCredential])
		if entry.isExpired() {
			c.credentials.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		c.logger.Debug("Cleaned up expired L1 cache entries",
			zap.Int("removed", removed))
	}
}

// Ensure InMemoryCredentialCache implements CredentialCache
var _ partner.CredentialCache = (*InMemoryCredentialCache)(nil)
