package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot adds optimistic-lock versioning and domain event
// collection on top of Entity.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot is embedded by aggregate roots. Collected events are
// published after the aggregate is saved, then cleared.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// PartnerAggregateRoot extends BaseAggregateRoot for aggregates that are
// scoped to a single integrating partner. Links and search sessions always
// belong to exactly one partner.
type PartnerAggregateRoot struct {
	BaseAggregateRoot
	PartnerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func NewPartnerAggregateRoot(partnerID uuid.UUID) PartnerAggregateRoot {
	return PartnerAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		PartnerID:         partnerID,
	}
}

func (p *PartnerAggregateRoot) GetPartnerID() uuid.UUID { return p.PartnerID }
