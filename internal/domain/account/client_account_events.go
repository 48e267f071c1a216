package account

import (
	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeClientAccount = "ClientAccount"

// Event type constants
const (
	EventTypeClientAccountCreated = "ClientAccountCreated"
)

// ClientAccountCreatedEvent is published when a new client account is created
type ClientAccountCreatedEvent struct {
	shared.BaseDomainEvent
	ClientAccountID uuid.UUID `json:"client_account_id"`
	AgentAccountID  uuid.UUID `json:"agent_account_id"`
	FullName        string    `json:"full_name"`
}

// NewClientAccountCreatedEvent creates a new ClientAccountCreatedEvent
func NewClientAccountCreatedEvent(client *ClientAccount) *ClientAccountCreatedEvent {
	return &ClientAccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientAccountCreated, AggregateTypeClientAccount, client.ID),
		ClientAccountID: client.ID,
		AgentAccountID:  client.AgentAccountID,
		FullName:        client.FullName(),
	}
}
