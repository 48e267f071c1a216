package persistence

import (
	"context"
	"errors"

	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAgentLinkRepository implements AgentLinkRepository using GORM
type GormAgentLinkRepository struct {
	db *gorm.DB
}

// NewGormAgentLinkRepository creates a new GormAgentLinkRepository
func NewGormAgentLinkRepository(db *gorm.DB) *GormAgentLinkRepository {
	return &GormAgentLinkRepository{db: db}
}

// FindByID finds an agent link by its ID
func (r *GormAgentLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*linking.AgentLink, error) {
	var link linking.AgentLink
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// FindByPartnerAgentID finds the link for a partner's agent identifier
func (r *GormAgentLinkRepository) FindByPartnerAgentID(ctx context.Context, partnerID uuid.UUID, partnerAgentID string) (*linking.AgentLink, error) {
	var link linking.AgentLink
	if err := r.db.WithContext(ctx).
		Where("partner_id = ? AND partner_agent_id = ?", partnerID, partnerAgentID).
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// FindByAgentAccountID finds all links pointing at an internal agent account
func (r *GormAgentLinkRepository) FindByAgentAccountID(ctx context.Context, agentAccountID uuid.UUID) ([]linking.AgentLink, error) {
	var links []linking.AgentLink
	if err := r.db.WithContext(ctx).
		Where("agent_account_id = ?", agentAccountID).
		Order("created_at DESC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// CreateIfAbsent inserts the link unless one exists for the same
// (partner_id, partner_agent_id). On conflict the stored row wins.
func (r *GormAgentLinkRepository) CreateIfAbsent(ctx context.Context, link *linking.AgentLink) (*linking.AgentLink, bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "partner_id"}, {Name: "partner_agent_id"}},
			DoNothing: true,
		}).
		Create(link)
	if result.Error != nil {
		return nil, false, result.Error
	}

	// No rows inserted means a concurrent writer won; hand back its row
	if result.RowsAffected == 0 {
		stored, err := r.FindByPartnerAgentID(ctx, link.PartnerID, link.PartnerAgentID)
		if err != nil {
			return nil, false, err
		}
		return stored, false, nil
	}

	return link, true, nil
}

// Ensure GormAgentLinkRepository implements AgentLinkRepository
var _ linking.AgentLinkRepository = (*GormAgentLinkRepository)(nil)
