package linking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/shared"
)

// AgentLink maps a partner's opaque agent identifier to an internal Outfit
// agent account. The pair (partner_id, partner_agent_id) is unique and the
// link is immutable once created: unlinking or relinking an agent is an
// out-of-band support operation, never an API one.
type AgentLink struct {
	shared.PartnerAggregateRoot
	PartnerAgentID string    `gorm:"type:varchar(100);not null;index"`
	AgentAccountID uuid.UUID `gorm:"type:uuid;not null;index"`
	AccountCreated bool      `gorm:"not null;default:false"`
	LinkedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AgentLink) TableName() string {
	return "partner_agent_links"
}

// NewAgentLink creates a link between a partner agent identifier and an
// internal agent account. accountCreated records whether the account was
// created as part of linking or matched to a pre-existing one.
func NewAgentLink(partnerID uuid.UUID, partnerAgentID string, agentAccountID uuid.UUID, accountCreated bool) (*AgentLink, error) {
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if err := validatePartnerKey(partnerAgentID, "Partner agent ID"); err != nil {
		return nil, err
	}
	if agentAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Agent account ID cannot be empty")
	}

	link := &AgentLink{
		PartnerAggregateRoot: shared.NewPartnerAggregateRoot(partnerID),
		PartnerAgentID:       strings.TrimSpace(partnerAgentID),
		AgentAccountID:       agentAccountID,
		AccountCreated:       accountCreated,
		LinkedAt:             time.Now(),
	}

	link.AddDomainEvent(NewAgentLinkedEvent(link))

	return link, nil
}

// Validation functions

func validatePartnerKey(key, field string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return shared.NewDomainError("INVALID_PARTNER_KEY", field+" cannot be empty")
	}
	if len(key) > 100 {
		return shared.NewDomainError("INVALID_PARTNER_KEY", field+" cannot exceed 100 characters")
	}
	return nil
}
