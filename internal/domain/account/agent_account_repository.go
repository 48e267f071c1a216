package account

import (
	"context"

	"github.com/google/uuid"
)

// AgentAccountRepository defines the interface for agent account persistence
type AgentAccountRepository interface {
	// FindByID finds an agent account by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*AgentAccount, error)

	// FindByEmail finds an agent account by its canonical email
	FindByEmail(ctx context.Context, email string) (*AgentAccount, error)

	// ExistsByEmail checks if an agent account with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates an agent account
	Save(ctx context.Context, agent *AgentAccount) error

	// SaveWithLock saves an agent account with optimistic locking (version check)
	// Returns error if the version has changed (concurrent modification)
	SaveWithLock(ctx context.Context, agent *AgentAccount) error
}
