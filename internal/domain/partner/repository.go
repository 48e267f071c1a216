package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/shared"
)

// PartnerRepository defines the interface for partner persistence
type PartnerRepository interface {
	// FindByID finds a partner by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)

	// FindByAPIKeyPrefix finds a partner by the lookup prefix of its API key
	FindByAPIKeyPrefix(ctx context.Context, prefix string) (*Partner, error)

	// FindAll finds all partners matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Partner, error)

	// Count counts partners matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByName checks if a partner with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// Save creates or updates a partner
	Save(ctx context.Context, p *Partner) error

	// SaveWithLock saves a partner with optimistic locking (version check)
	// Returns error if the version has changed (concurrent modification)
	SaveWithLock(ctx context.Context, p *Partner) error
}
