package partner

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// VerifiedCredential is the cached projection of a partner whose API key has
// already passed a bcrypt check. It stores a SHA-256 digest of the raw key so
// subsequent requests can be authenticated without re-running bcrypt; neither
// the raw key nor its bcrypt hash is ever cached.
type VerifiedCredential struct {
	PartnerID   uuid.UUID     `json:"partner_id"`
	PartnerName string        `json:"partner_name"`
	Status      PartnerStatus `json:"status"`
	KeyDigest   string        `json:"key_digest"`
	VerifiedAt  time.Time     `json:"verified_at"`
}

// NewVerifiedCredential builds the cacheable projection for a partner and the
// raw key that just verified against its bcrypt hash.
func NewVerifiedCredential(p *Partner, rawKey string) *VerifiedCredential {
	return &VerifiedCredential{
		PartnerID:   p.ID,
		PartnerName: p.Name,
		Status:      p.Status,
		KeyDigest:   DigestAPIKey(rawKey),
		VerifiedAt:  time.Now(),
	}
}

// MatchesKey reports whether the raw key is the one this credential was
// verified for. Comparison is constant-time over the digests.
func (c *VerifiedCredential) MatchesKey(rawKey string) bool {
	digest := DigestAPIKey(rawKey)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(c.KeyDigest)) == 1
}

// DigestAPIKey returns the hex SHA-256 digest of a raw API key. The digest is
// safe to store in caches; it cannot be reversed into the key.
func DigestAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

// CredentialCache defines the interface for caching verified partner
// credentials. Implementations should keep API key authentication off the
// bcrypt path for repeat callers.
//
// The cache operates as part of a multi-tier strategy:
// - L1: Local in-memory cache for ultra-fast access
// - L2: Redis cache for distributed consistency
// - L3: Database (bcrypt verification) as the source of truth
//
// Cache keys are the partner's API key prefix:
// - partner_credential:{prefix}
type CredentialCache interface {
	// Get retrieves a verified credential by API key prefix.
	// Returns nil, nil if the prefix is not in cache (cache miss).
	// Returns nil, error if there was an error accessing the cache.
	Get(ctx context.Context, prefix string) (*VerifiedCredential, error)

	// Set stores a verified credential with the specified TTL.
	// If ttl is 0, implementation should use a default TTL.
	Set(ctx context.Context, prefix string, cred *VerifiedCredential, ttl time.Duration) error

	// Delete removes a credential from cache by API key prefix.
	Delete(ctx context.Context, prefix string) error

	// InvalidateAll removes all cached credentials.
	// This is typically used for emergency cache clear.
	InvalidateAll(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// CredentialUpdateAction represents the type of cache update notification
type CredentialUpdateAction string

const (
	// CredentialUpdateActionEvicted indicates a prefix was evicted after a
	// key rotation or partner status change
	CredentialUpdateActionEvicted CredentialUpdateAction = "evicted"
	// CredentialUpdateActionInvalidateAll indicates all cache should be cleared
	CredentialUpdateActionInvalidateAll CredentialUpdateAction = "invalidate_all"
)

// CredentialUpdateMessage represents a cache invalidation message
// sent via Pub/Sub to notify other instances of credential changes.
type CredentialUpdateMessage struct {
	Action    CredentialUpdateAction `json:"action"`
	Prefix    string                 `json:"prefix,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// CredentialInvalidator provides cache invalidation functionality.
// It allows publishing credential eviction notifications to other instances
// and subscribing to receive notifications from other instances.
type CredentialInvalidator interface {
	// Publish sends a cache update notification to all subscribers.
	Publish(ctx context.Context, msg CredentialUpdateMessage) error

	// Subscribe starts listening for cache update notifications.
	// The callback function is invoked for each received message.
	// This method should be called in a goroutine as it blocks.
	Subscribe(ctx context.Context, callback func(msg CredentialUpdateMessage)) error

	// Close releases any resources held by the invalidator.
	Close() error
}

// TieredCredentialCache combines multiple cache layers.
// It follows a read-through, write-around pattern:
// - Reads: Check L1 -> Check L2 -> bcrypt verification
// - Writes: Write to L2, invalidate L1 via Pub/Sub
type TieredCredentialCache interface {
	CredentialCache

	// GetL1 directly accesses the L1 (local) cache, bypassing L2.
	GetL1(ctx context.Context, prefix string) (*VerifiedCredential, error)

	// SetL1 directly sets a value in the L1 (local) cache.
	// This is typically called when receiving Pub/Sub notifications.
	SetL1(ctx context.Context, prefix string, cred *VerifiedCredential, ttl time.Duration) error

	// InvalidateL1 removes an entry from the L1 (local) cache only.
	InvalidateL1(ctx context.Context, prefix string) error

	// GetCacheStats returns statistics about cache hits and misses.
	GetCacheStats(ctx context.Context) CredentialCacheStats
}

// CredentialCacheStats holds cache performance statistics
type CredentialCacheStats struct {
	L1Hits       int64   `json:"l1_hits"`
	L1Misses     int64   `json:"l1_misses"`
	L2Hits       int64   `json:"l2_hits"`
	L2Misses     int64   `json:"l2_misses"`
	TotalHits    int64   `json:"total_hits"`
	TotalMisses  int64   `json:"total_misses"`
	HitRatio     float64 `json:"hit_ratio"`
	CacheEntries int64   `json:"cache_entries"`
}

// CredentialCacheConfig holds configuration for the credential cache
type CredentialCacheConfig struct {
	// CredentialTTL is the time-to-live for cached credentials (default: 5m)
	CredentialTTL time.Duration
	// L1TTL is the time-to-live for L1 (local) cache (default: 10s)
	L1TTL time.Duration
	// L1MaxSize is the maximum number of entries in L1 cache (default: 10000)
	L1MaxSize int
	// PubSubChannel is the Redis Pub/Sub channel name (default: "partner_credential:updates")
	PubSubChannel string
}

// DefaultCredentialCacheConfig returns the default cache configuration
func DefaultCredentialCacheConfig() CredentialCacheConfig {
	return CredentialCacheConfig{
		CredentialTTL: 5 * time.Minute,
		L1TTL:         10 * time.Second,
		L1MaxSize:     10000,
		PubSubChannel: "partner_credential:updates",
	}
}
