package linking

import (
	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeAgentLink = "AgentLink"

// Event type constants
const (
	EventTypeAgentLinked = "AgentLinked"
)

// AgentLinkedEvent is published when a partner agent is linked to an internal
// agent account
type AgentLinkedEvent struct {
	shared.BaseDomainEvent
	LinkID         uuid.UUID `json:"link_id"`
	PartnerID      uuid.UUID `json:"partner_id"`
	PartnerAgentID string    `json:"partner_agent_id"`
	AgentAccountID uuid.UUID `json:"agent_account_id"`
	AccountCreated bool      `json:"account_created"`
}

// NewAgentLinkedEvent creates a new AgentLinkedEvent
func NewAgentLinkedEvent(link *AgentLink) *AgentLinkedEvent {
	return &AgentLinkedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgentLinked, AggregateTypeAgentLink, link.ID),
		LinkID:          link.ID,
		PartnerID:       link.PartnerID,
		PartnerAgentID:  link.PartnerAgentID,
		AgentAccountID:  link.AgentAccountID,
		AccountCreated:  link.AccountCreated,
	}
}
