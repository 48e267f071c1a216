package account

import (
	"regexp"
	"strings"

	"github.com/outfit/partner-api/internal/domain/shared"
)

// AgentAccountStatus represents the status of an agent account
type AgentAccountStatus string

const (
	AgentAccountStatusActive    AgentAccountStatus = "active"
	AgentAccountStatusSuspended AgentAccountStatus = "suspended"
)

// AgentAccount is the internal Outfit account of a travel agent. Agents are
// created either directly on the platform or through partner linking; in
// both cases the email is the canonical identifier.
type AgentAccount struct {
	shared.BaseAggregateRoot
	Email     string             `gorm:"type:varchar(200);not null;uniqueIndex"`
	FirstName string             `gorm:"type:varchar(100);not null"`
	LastName  string             `gorm:"type:varchar(100);not null"`
	Status    AgentAccountStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (AgentAccount) TableName() string {
	return "agent_accounts"
}

// NewAgentAccount creates a new agent account with required fields
func NewAgentAccount(email, firstName, lastName string) (*AgentAccount, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateAccountEmail(email); err != nil {
		return nil, err
	}
	if err := validatePersonName(firstName, "First name"); err != nil {
		return nil, err
	}
	if err := validatePersonName(lastName, "Last name"); err != nil {
		return nil, err
	}

	agent := &AgentAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FirstName:         firstName,
		LastName:          lastName,
		Status:            AgentAccountStatusActive,
	}

	agent.AddDomainEvent(NewAgentAccountCreatedEvent(agent))

	return agent, nil
}

// FullName returns the agent's display name
func (a *AgentAccount) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// IsActive reports whether the account can be used for searches and linking
func (a *AgentAccount) IsActive() bool {
	return a.Status == AgentAccountStatusActive
}

// Suspend suspends the agent account
func (a *AgentAccount) Suspend() error {
	if a.Status == AgentAccountStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Agent account is already suspended")
	}

	a.Status = AgentAccountStatusSuspended
	a.Touch()
	a.IncrementVersion()

	return nil
}

// Activate reactivates a suspended agent account
func (a *AgentAccount) Activate() error {
	if a.Status == AgentAccountStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Agent account is already active")
	}

	a.Status = AgentAccountStatusActive
	a.Touch()
	a.IncrementVersion()

	return nil
}

// Validation functions

func validateAccountEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePersonName(name, field string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", field+" cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", field+" cannot exceed 100 characters")
	}
	return nil
}
