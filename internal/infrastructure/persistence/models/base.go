package models

import (
	"time"

	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// PartnerAggregateModel provides common persistence fields for partner-scoped
// aggregate roots. It extends AggregateModel with the owning partner ID.
type PartnerAggregateModel struct {
	AggregateModel
	PartnerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainPartnerAggregateRoot populates PartnerAggregateModel from domain PartnerAggregateRoot
func (m *PartnerAggregateModel) FromDomainPartnerAggregateRoot(p shared.PartnerAggregateRoot) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.PartnerID = p.PartnerID
}

// PopulatePartnerAggregateRoot populates a domain PartnerAggregateRoot from persistence model
func (m *PartnerAggregateModel) PopulatePartnerAggregateRoot(p *shared.PartnerAggregateRoot) {
	p.BaseAggregateRoot.BaseEntity.ID = m.ID
	p.BaseAggregateRoot.BaseEntity.CreatedAt = m.CreatedAt
	p.BaseAggregateRoot.BaseEntity.UpdatedAt = m.UpdatedAt
	p.BaseAggregateRoot.Version = m.Version
	p.PartnerID = m.PartnerID
}
