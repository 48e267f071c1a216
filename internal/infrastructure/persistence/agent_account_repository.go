package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/outfit/partner-api/internal/domain/account"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAgentAccountRepository implements AgentAccountRepository using GORM
type GormAgentAccountRepository struct {
	db *gorm.DB
}

// NewGormAgentAccountRepository creates a new GormAgentAccountRepository
func NewGormAgentAccountRepository(db *gorm.DB) *GormAgentAccountRepository {
	return &GormAgentAccountRepository{db: db}
}

// FindByID finds an agent account by its ID
func (r *GormAgentAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.AgentAccount, error) {
	var agent account.AgentAccount
	if err := r.db.WithContext(ctx).First(&agent, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &agent, nil
}

// FindByEmail finds an agent account by its canonical email
func (r *GormAgentAccountRepository) FindByEmail(ctx context.Context, email string) (*account.AgentAccount, error) {
	var agent account.AgentAccount
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &agent, nil
}

// ExistsByEmail checks if an agent account with the given email exists
func (r *GormAgentAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&account.AgentAccount{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an agent account
func (r *GormAgentAccountRepository) Save(ctx context.Context, agent *account.AgentAccount) error {
	return r.db.WithContext(ctx).Save(agent).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormAgentAccountRepository) SaveWithLock(ctx context.Context, agent *account.AgentAccount) error {
	result := r.db.WithContext(ctx).
		Model(agent).
		Where("id = ? AND version = ?", agent.ID, agent.Version-1).
		Updates(map[string]interface{}{
			"email":      agent.Email,
			"first_name": agent.FirstName,
			"last_name":  agent.LastName,
			"status":     agent.Status,
			"version":    agent.Version,
			"updated_at": agent.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Agent account was modified by another transaction")
	}
	return nil
}

// Ensure GormAgentAccountRepository implements AgentAccountRepository
var _ account.AgentAccountRepository = (*GormAgentAccountRepository)(nil)
