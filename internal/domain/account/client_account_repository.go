package account

import (
	"context"

	"github.com/google/uuid"
)

// ClientAccountRepository defines the interface for client account persistence
type ClientAccountRepository interface {
	// FindByID finds a client account by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ClientAccount, error)

	// FindActiveByAgent returns the active client roster of an agent. This is
	// the candidate pool the confidence scorer evaluates during verification.
	FindActiveByAgent(ctx context.Context, agentAccountID uuid.UUID) ([]ClientAccount, error)

	// Save creates or updates a client account
	Save(ctx context.Context, client *ClientAccount) error

	// SaveWithLock saves a client account with optimistic locking (version check)
	// Returns error if the version has changed (concurrent modification)
	SaveWithLock(ctx context.Context, client *ClientAccount) error
}
