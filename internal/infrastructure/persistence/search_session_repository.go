package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/outfit/partner-api/internal/domain/search"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/outfit/partner-api/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSearchSessionRepository implements SearchSessionRepository using GORM
type GormSearchSessionRepository struct {
	db *gorm.DB
}

// NewGormSearchSessionRepository creates a new GormSearchSessionRepository
func NewGormSearchSessionRepository(db *gorm.DB) *GormSearchSessionRepository {
	return &GormSearchSessionRepository{db: db}
}

// FindByID finds a search session by its ID
func (r *GormSearchSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*search.SearchSession, error) {
	var model models.SearchSessionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a search session
func (r *GormSearchSessionRepository) Save(ctx context.Context, session *search.SearchSession) error {
	model := models.SearchSessionModelFromDomain(session)
	return r.db.WithContext(ctx).Save(model).Error
}

// ExpireBefore marks active sessions whose deadline passed before cutoff as
// expired, returning how many rows changed
func (r *GormSearchSessionRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SearchSessionModel{}).
		Where("status = ? AND expires_at < ?", search.SessionStatusActive, cutoff).
		Updates(map[string]interface{}{
			"status":     search.SessionStatusExpired,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountActive counts sessions that have not expired yet
func (r *GormSearchSessionRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SearchSessionModel{}).
		Where("status = ?", search.SessionStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormSearchSessionRepository implements SearchSessionRepository
var _ search.SearchSessionRepository = (*GormSearchSessionRepository)(nil)
