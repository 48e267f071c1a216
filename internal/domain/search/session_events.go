package search

import (
	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSearchSession = "SearchSession"

// Event type constants
const (
	EventTypeSearchSessionCreated = "SearchSessionCreated"
)

// SearchSessionCreatedEvent is published when a search session is created
type SearchSessionCreatedEvent struct {
	shared.BaseDomainEvent
	SessionID       uuid.UUID `json:"session_id"`
	PartnerID       uuid.UUID `json:"partner_id"`
	AgentAccountID  uuid.UUID `json:"agent_account_id"`
	ClientAccountID uuid.UUID `json:"client_account_id"`
	FreeText        bool      `json:"free_text"`
}

// NewSearchSessionCreatedEvent creates a new SearchSessionCreatedEvent
func NewSearchSessionCreatedEvent(session *SearchSession) *SearchSessionCreatedEvent {
	return &SearchSessionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSearchSessionCreated, AggregateTypeSearchSession, session.ID),
		SessionID:       session.ID,
		PartnerID:       session.PartnerID,
		AgentAccountID:  session.AgentAccountID,
		ClientAccountID: session.ClientAccountID,
		FreeText:        session.Criteria == nil,
	}
}
