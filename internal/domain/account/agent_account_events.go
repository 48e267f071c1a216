package account

import (
	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeAgentAccount = "AgentAccount"

// Event type constants
const (
	EventTypeAgentAccountCreated = "AgentAccountCreated"
)

// AgentAccountCreatedEvent is published when a new agent account is created
type AgentAccountCreatedEvent struct {
	shared.BaseDomainEvent
	AgentAccountID uuid.UUID `json:"agent_account_id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
}

// NewAgentAccountCreatedEvent creates a new AgentAccountCreatedEvent
func NewAgentAccountCreatedEvent(agent *AgentAccount) *AgentAccountCreatedEvent {
	return &AgentAccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgentAccountCreated, AggregateTypeAgentAccount, agent.ID),
		AgentAccountID:  agent.ID,
		Email:           agent.Email,
		FullName:        agent.FullName(),
	}
}
