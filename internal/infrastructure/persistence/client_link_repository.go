package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormClientLinkRepository implements ClientLinkRepository using GORM
type GormClientLinkRepository struct {
	db *gorm.DB
}

// NewGormClientLinkRepository creates a new GormClientLinkRepository
func NewGormClientLinkRepository(db *gorm.DB) *GormClientLinkRepository {
	return &GormClientLinkRepository{db: db}
}

// FindByID finds a client link by its ID
func (r *GormClientLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*linking.ClientLink, error) {
	var link linking.ClientLink
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// FindByPartnerClientID finds the link for a partner's client identifier
func (r *GormClientLinkRepository) FindByPartnerClientID(ctx context.Context, partnerID uuid.UUID, partnerClientID string) (*linking.ClientLink, error) {
	var link linking.ClientLink
	if err := r.db.WithContext(ctx).
		Where("partner_id = ? AND partner_client_id = ?", partnerID, partnerClientID).
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// CreateIfAbsent inserts the link unless one exists for the same
// (partner_id, partner_client_id). On conflict the stored row wins.
func (r *GormClientLinkRepository) CreateIfAbsent(ctx context.Context, link *linking.ClientLink) (*linking.ClientLink, bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "partner_id"}, {Name: "partner_client_id"}},
			DoNothing: true,
		}).
		Create(link)
	if result.Error != nil {
		return nil, false, result.Error
	}

	// No rows inserted means a concurrent writer won; hand back its row
	if result.RowsAffected == 0 {
		stored, err := r.FindByPartnerClientID(ctx, link.PartnerID, link.PartnerClientID)
		if err != nil {
			return nil, false, err
		}
		return stored, false, nil
	}

	return link, true, nil
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormClientLinkRepository) SaveWithLock(ctx context.Context, link *linking.ClientLink) error {
	result := r.db.WithContext(ctx).
		Model(link).
		Where("id = ? AND version = ?", link.ID, link.Version-1).
		Updates(map[string]interface{}{
			"agent_link_id":      link.AgentLinkID,
			"client_account_id":  link.ClientAccountID,
			"status":             link.Status,
			"confidence":         link.Confidence,
			"method":             link.Method,
			"profile_first_name": link.ProfileFirstName,
			"profile_last_name":  link.ProfileLastName,
			"profile_email":      link.ProfileEmail,
			"linked_at":          link.LinkedAt,
			"expires_at":         link.ExpiresAt,
			"version":            link.Version,
			"updated_at":         link.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Client link was modified by another transaction")
	}
	return nil
}

// FindExpiredPending finds pending links whose deadline passed before cutoff,
// oldest first, up to limit rows
func (r *GormClientLinkRepository) FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]linking.ClientLink, error) {
	var links []linking.ClientLink
	if err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", linking.LinkStatusPending, cutoff).
		Order("expires_at ASC").
		Limit(limit).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// CountPending counts links currently awaiting disambiguation
func (r *GormClientLinkRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&linking.ClientLink{}).
		Where("status = ?", linking.LinkStatusPending).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormClientLinkRepository implements ClientLinkRepository
var _ linking.ClientLinkRepository = (*GormClientLinkRepository)(nil)
