package partner

import (
	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePartner = "Partner"

// Event type constants
const (
	EventTypePartnerCreated       = "PartnerCreated"
	EventTypePartnerAPIKeyRotated = "PartnerAPIKeyRotated"
	EventTypePartnerStatusChanged = "PartnerStatusChanged"
)

// PartnerCreatedEvent is published when a new partner is provisioned
type PartnerCreatedEvent struct {
	shared.BaseDomainEvent
	PartnerID uuid.UUID `json:"partner_id"`
	Name      string    `json:"name"`
}

// NewPartnerCreatedEvent creates a new PartnerCreatedEvent
func NewPartnerCreatedEvent(p *Partner) *PartnerCreatedEvent {
	return &PartnerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerCreated, AggregateTypePartner, p.ID),
		PartnerID:       p.ID,
		Name:            p.Name,
	}
}

// PartnerAPIKeyRotatedEvent is published when a partner's API key is rotated.
// The event carries only lookup prefixes, never key material. The old prefix
// lets credential caches evict the superseded key immediately.
type PartnerAPIKeyRotatedEvent struct {
	shared.BaseDomainEvent
	PartnerID       uuid.UUID `json:"partner_id"`
	APIKeyPrefix    string    `json:"api_key_prefix"`
	OldAPIKeyPrefix string    `json:"old_api_key_prefix"`
}

// NewPartnerAPIKeyRotatedEvent creates a new PartnerAPIKeyRotatedEvent
func NewPartnerAPIKeyRotatedEvent(p *Partner, oldPrefix string) *PartnerAPIKeyRotatedEvent {
	return &PartnerAPIKeyRotatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerAPIKeyRotated, AggregateTypePartner, p.ID),
		PartnerID:       p.ID,
		APIKeyPrefix:    p.APIKeyPrefix,
		OldAPIKeyPrefix: oldPrefix,
	}
}

// PartnerStatusChangedEvent is published when a partner is suspended or
// reactivated
type PartnerStatusChangedEvent struct {
	shared.BaseDomainEvent
	PartnerID    uuid.UUID     `json:"partner_id"`
	APIKeyPrefix string        `json:"api_key_prefix"`
	OldStatus    PartnerStatus `json:"old_status"`
	NewStatus    PartnerStatus `json:"new_status"`
}

// NewPartnerStatusChangedEvent creates a new PartnerStatusChangedEvent
func NewPartnerStatusChangedEvent(p *Partner, oldStatus, newStatus PartnerStatus) *PartnerStatusChangedEvent {
	return &PartnerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerStatusChanged, AggregateTypePartner, p.ID),
		PartnerID:       p.ID,
		APIKeyPrefix:    p.APIKeyPrefix,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
