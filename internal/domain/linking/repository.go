package linking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AgentLinkRepository defines the interface for agent link persistence
type AgentLinkRepository interface {
	// FindByID finds an agent link by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*AgentLink, error)

	// FindByPartnerAgentID finds the link for a partner's agent identifier
	FindByPartnerAgentID(ctx context.Context, partnerID uuid.UUID, partnerAgentID string) (*AgentLink, error)

	// FindByAgentAccountID finds all links pointing at an internal agent account
	FindByAgentAccountID(ctx context.Context, agentAccountID uuid.UUID) ([]AgentLink, error)

	// CreateIfAbsent inserts the link unless one already exists for the same
	// (partner_id, partner_agent_id). On conflict the stored link is returned
	// and created is false, so a losing concurrent writer observes the winner.
	CreateIfAbsent(ctx context.Context, link *AgentLink) (stored *AgentLink, created bool, err error)
}

// ClientLinkRepository defines the interface for client link persistence
type ClientLinkRepository interface {
	// FindByID finds a client link by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ClientLink, error)

	// FindByPartnerClientID finds the link for a partner's client identifier
	FindByPartnerClientID(ctx context.Context, partnerID uuid.UUID, partnerClientID string) (*ClientLink, error)

	// CreateIfAbsent inserts the link unless one already exists for the same
	// (partner_id, partner_client_id). On conflict the stored link is returned
	// and created is false, so a losing concurrent writer observes the winner.
	CreateIfAbsent(ctx context.Context, link *ClientLink) (stored *ClientLink, created bool, err error)

	// SaveWithLock saves a client link with optimistic locking (version check)
	// Returns error if the version has changed (concurrent modification)
	SaveWithLock(ctx context.Context, link *ClientLink) error

	// FindExpiredPending finds pending links whose deadline passed before
	// cutoff, up to limit rows. Used by the expiry sweep.
	FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]ClientLink, error)

	// CountPending counts links currently awaiting disambiguation
	CountPending(ctx context.Context) (int64, error)
}
