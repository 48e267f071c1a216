package account

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/matching"
	"github.com/outfit/partner-api/internal/domain/shared"
)

// ClientAccountStatus represents the status of a client account
type ClientAccountStatus string

const (
	ClientAccountStatusActive   ClientAccountStatus = "active"
	ClientAccountStatusArchived ClientAccountStatus = "archived"
)

// ClientAccount is the internal Outfit account of a traveler managed by an
// agent. It is the record a partner client identifier ultimately resolves
// to; its profile fields feed the confidence scorer during disambiguation.
type ClientAccount struct {
	shared.BaseAggregateRoot
	AgentAccountID uuid.UUID           `gorm:"type:uuid;not null;index"`
	FirstName      string              `gorm:"type:varchar(100);not null"`
	LastName       string              `gorm:"type:varchar(100);not null"`
	Email          string              `gorm:"type:varchar(200);index"`
	LastSearchAt   *time.Time          `gorm:"index"`
	Status         ClientAccountStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (ClientAccount) TableName() string {
	return "client_accounts"
}

// NewClientAccount creates a new client account under the given agent.
// Email is optional; when present it is stored in canonical lowercase form.
func NewClientAccount(agentAccountID uuid.UUID, firstName, lastName, email string) (*ClientAccount, error) {
	if agentAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Agent account ID is required")
	}
	if err := validatePersonName(firstName, "First name"); err != nil {
		return nil, err
	}
	if err := validatePersonName(lastName, "Last name"); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if err := validateAccountEmail(email); err != nil {
			return nil, err
		}
	}

	client := &ClientAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AgentAccountID:    agentAccountID,
		FirstName:         firstName,
		LastName:          lastName,
		Email:             email,
		Status:            ClientAccountStatusActive,
	}

	client.AddDomainEvent(NewClientAccountCreatedEvent(client))

	return client, nil
}

// FullName returns the client's display name
func (c *ClientAccount) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// RecordSearch stamps the client's most recent search activity. Recency
// feeds the confidence scorer on later verify calls.
func (c *ClientAccount) RecordSearch(at time.Time) {
	c.LastSearchAt = &at
	c.Touch()
	c.IncrementVersion()
}

// MatchRecord converts the account profile into the scorer's record form
func (c *ClientAccount) MatchRecord() matching.Record {
	return matching.Record{
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		LastSearchAt: c.LastSearchAt,
	}
}

// IsActive returns true if the client account is active
func (c *ClientAccount) IsActive() bool {
	return c.Status == ClientAccountStatusActive
}

// Archive marks the client account as archived. Archived clients are
// excluded from candidate pools.
func (c *ClientAccount) Archive() error {
	if c.Status == ClientAccountStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Client account is already archived")
	}

	c.Status = ClientAccountStatusArchived
	c.Touch()
	c.IncrementVersion()

	return nil
}
