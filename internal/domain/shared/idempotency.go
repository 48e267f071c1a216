package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed operation IDs to prevent duplicate processing
type IdempotencyStore interface {
	// MarkProcessed marks an operation as processed with a TTL
	// Returns true if the operation was newly marked, false if it was already processed
	MarkProcessed(ctx context.Context, operationID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if an operation has already been processed
	IsProcessed(ctx context.Context, operationID string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is the time-to-live for processed operation IDs
	// After this duration, the same operation ID can be processed again
	// Default: 24 hours
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	// Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
