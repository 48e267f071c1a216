package linking

import (
	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeClientLink = "ClientLink"

// Event type constants
const (
	EventTypeClientLinkPending = "ClientLinkPending"
	EventTypeClientLinked      = "ClientLinked"
	EventTypeClientLinkExpired = "ClientLinkExpired"
)

// ClientLinkPendingEvent is published when a client link enters (or re-enters)
// the pending disambiguation state
type ClientLinkPendingEvent struct {
	shared.BaseDomainEvent
	LinkID          uuid.UUID `json:"link_id"`
	PartnerID       uuid.UUID `json:"partner_id"`
	PartnerClientID string    `json:"partner_client_id"`
	AgentLinkID     uuid.UUID `json:"agent_link_id"`
}

// NewClientLinkPendingEvent creates a new ClientLinkPendingEvent
func NewClientLinkPendingEvent(link *ClientLink) *ClientLinkPendingEvent {
	return &ClientLinkPendingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientLinkPending, AggregateTypeClientLink, link.ID),
		LinkID:          link.ID,
		PartnerID:       link.PartnerID,
		PartnerClientID: link.PartnerClientID,
		AgentLinkID:     link.AgentLinkID,
	}
}

// ClientLinkedEvent is published when a client link reaches the linked status
type ClientLinkedEvent struct {
	shared.BaseDomainEvent
	LinkID          uuid.UUID  `json:"link_id"`
	PartnerID       uuid.UUID  `json:"partner_id"`
	PartnerClientID string     `json:"partner_client_id"`
	ClientAccountID uuid.UUID  `json:"client_account_id"`
	Confidence      float64    `json:"confidence"`
	Method          LinkMethod `json:"method"`
}

// NewClientLinkedEvent creates a new ClientLinkedEvent
func NewClientLinkedEvent(link *ClientLink) *ClientLinkedEvent {
	var accountID uuid.UUID
	if link.ClientAccountID != nil {
		accountID = *link.ClientAccountID
	}
	return &ClientLinkedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientLinked, AggregateTypeClientLink, link.ID),
		LinkID:          link.ID,
		PartnerID:       link.PartnerID,
		PartnerClientID: link.PartnerClientID,
		ClientAccountID: accountID,
		Confidence:      link.Confidence,
		Method:          link.Method,
	}
}

// ClientLinkExpiredEvent is published when a pending client link expires
// without being resolved
type ClientLinkExpiredEvent struct {
	shared.BaseDomainEvent
	LinkID          uuid.UUID `json:"link_id"`
	PartnerID       uuid.UUID `json:"partner_id"`
	PartnerClientID string    `json:"partner_client_id"`
}

// NewClientLinkExpiredEvent creates a new ClientLinkExpiredEvent
func NewClientLinkExpiredEvent(link *ClientLink) *ClientLinkExpiredEvent {
	return &ClientLinkExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientLinkExpired, AggregateTypeClientLink, link.ID),
		LinkID:          link.ID,
		PartnerID:       link.PartnerID,
		PartnerClientID: link.PartnerClientID,
	}
}
