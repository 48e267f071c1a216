package persistence

import (
	"context"
	"errors"

	"github.com/outfit/partner-api/internal/domain/account"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientAccountRepository implements ClientAccountRepository using GORM
type GormClientAccountRepository struct {
	db *gorm.DB
}

// NewGormClientAccountRepository creates a new GormClientAccountRepository
func NewGormClientAccountRepository(db *gorm.DB) *GormClientAccountRepository {
	return &GormClientAccountRepository{db: db}
}

// FindByID finds a client account by its ID
func (r *GormClientAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.ClientAccount, error) {
	var client account.ClientAccount
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindActiveByAgent returns the active client roster of an agent, newest first
func (r *GormClientAccountRepository) FindActiveByAgent(ctx context.Context, agentAccountID uuid.UUID) ([]account.ClientAccount, error) {
	var clients []account.ClientAccount
	if err := r.db.WithContext(ctx).
		Where("agent_account_id = ? AND status = ?", agentAccountID, account.ClientAccountStatusActive).
		Order("created_at DESC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Save creates or updates a client account
func (r *GormClientAccountRepository) Save(ctx context.Context, client *account.ClientAccount) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormClientAccountRepository) SaveWithLock(ctx context.Context, client *account.ClientAccount) error {
	result := r.db.WithContext(ctx).
		Model(client).
		Where("id = ? AND version = ?", client.ID, client.Version-1).
		Updates(map[string]interface{}{
			"first_name":     client.FirstName,
			"last_name":      client.LastName,
			"email":          client.Email,
			"last_search_at": client.LastSearchAt,
			"status":         client.Status,
			"version":        client.Version,
			"updated_at":     client.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Client account was modified by another transaction")
	}
	return nil
}

// Ensure GormClientAccountRepository implements ClientAccountRepository
var _ account.ClientAccountRepository = (*GormClientAccountRepository)(nil)
