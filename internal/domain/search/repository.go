package search

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SearchSessionRepository defines the interface for search session persistence
type SearchSessionRepository interface {
	// FindByID finds a search session by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SearchSession, error)

	// Save creates or updates a search session
	Save(ctx context.Context, session *SearchSession) error

	// ExpireBefore marks active sessions whose deadline passed before cutoff
	// as expired, returning how many rows changed. Used by the expiry sweep.
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// CountActive counts sessions that have not expired yet
	CountActive(ctx context.Context) (int64, error)
}
