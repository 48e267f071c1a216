package linking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/matching"
	"github.com/outfit/partner-api/internal/domain/shared"
)

// LinkStatus represents the lifecycle status of a client link
type LinkStatus string

const (
	LinkStatusPending LinkStatus = "pending"
	LinkStatusLinked  LinkStatus = "linked"
	LinkStatusExpired LinkStatus = "expired"
)

// IsValid checks if the status is a valid LinkStatus
func (s LinkStatus) IsValid() bool {
	switch s {
	case LinkStatusPending, LinkStatusLinked, LinkStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of LinkStatus
func (s LinkStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s LinkStatus) CanTransitionTo(target LinkStatus) bool {
	switch s {
	case LinkStatusPending:
		return target == LinkStatusLinked || target == LinkStatusExpired
	case LinkStatusExpired:
		return target == LinkStatusPending || target == LinkStatusLinked
	case LinkStatusLinked:
		return false // Terminal state
	}
	return false
}

// LinkMethod records how a client link reached the linked status
type LinkMethod string

const (
	// LinkMethodAuto means the confidence scorer linked the client without
	// partner intervention.
	LinkMethodAuto LinkMethod = "auto"
	// LinkMethodManual means the partner picked a candidate during
	// disambiguation.
	LinkMethodManual LinkMethod = "manual"
	// LinkMethodCreated means a fresh client account was created for the link.
	LinkMethodCreated LinkMethod = "created"
)

// IsValid checks if the method is a valid LinkMethod
func (m LinkMethod) IsValid() bool {
	switch m {
	case LinkMethodAuto, LinkMethodManual, LinkMethodCreated:
		return true
	}
	return false
}

// String returns the string representation of LinkMethod
func (m LinkMethod) String() string {
	return string(m)
}

// ClientProfile is the client info a partner submitted during verification.
// It is snapshotted on the link so a later resolve call can create an account
// or score a manual pick without the partner resending the info.
type ClientProfile struct {
	FirstName string
	LastName  string
	Email     string
}

// MatchProfile converts the snapshot into the scorer's input form
func (p ClientProfile) MatchProfile() matching.Profile {
	return matching.Profile{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
	}
}

// ClientLink maps a partner's opaque client identifier to an internal Outfit
// client account. The pair (partner_id, partner_client_id) is unique. A link
// starts either directly in linked status (auto-link or account creation) or
// in pending status while the partner disambiguates; pending links expire if
// never resolved. Once linked, account and confidence never change.
type ClientLink struct {
	shared.PartnerAggregateRoot
	PartnerClientID  string     `gorm:"type:varchar(100);not null;index"`
	AgentLinkID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClientAccountID  *uuid.UUID `gorm:"type:uuid;index"`
	Status           LinkStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Confidence       float64    `gorm:"not null;default:0"`
	Method           LinkMethod `gorm:"type:varchar(20)"`
	ProfileFirstName string     `gorm:"type:varchar(100)"`
	ProfileLastName  string     `gorm:"type:varchar(100)"`
	ProfileEmail     string     `gorm:"type:varchar(200)"`
	LinkedAt         *time.Time
	ExpiresAt        *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (ClientLink) TableName() string {
	return "partner_client_links"
}

// NewPendingClientLink creates a client link awaiting disambiguation. The
// candidate list itself is never persisted; it is recomputed on every verify
// call. ttl bounds how long the partner has to resolve.
func NewPendingClientLink(partnerID, agentLinkID uuid.UUID, partnerClientID string, profile ClientProfile, ttl time.Duration) (*ClientLink, error) {
	link, err := newClientLink(partnerID, agentLinkID, partnerClientID, profile)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, shared.NewDomainError("INVALID_TTL", "Pending link TTL must be positive")
	}

	expiresAt := time.Now().Add(ttl)
	link.Status = LinkStatusPending
	link.ExpiresAt = &expiresAt

	link.AddDomainEvent(NewClientLinkPendingEvent(link))

	return link, nil
}

// NewLinkedClientLink creates a client link that is linked from the start,
// either because the scorer auto-linked an existing account or because a new
// account was created for the client.
func NewLinkedClientLink(partnerID, agentLinkID uuid.UUID, partnerClientID string, profile ClientProfile, clientAccountID uuid.UUID, confidence float64, method LinkMethod) (*ClientLink, error) {
	link, err := newClientLink(partnerID, agentLinkID, partnerClientID, profile)
	if err != nil {
		return nil, err
	}
	if clientAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Client account ID cannot be empty")
	}
	if err := validateConfidence(confidence); err != nil {
		return nil, err
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown link method %q", method))
	}

	now := time.Now()
	link.Status = LinkStatusLinked
	link.ClientAccountID = &clientAccountID
	link.Confidence = confidence
	link.Method = method
	link.LinkedAt = &now

	link.AddDomainEvent(NewClientLinkedEvent(link))

	return link, nil
}

func newClientLink(partnerID, agentLinkID uuid.UUID, partnerClientID string, profile ClientProfile) (*ClientLink, error) {
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if agentLinkID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT_LINK", "Agent link ID cannot be empty")
	}
	if err := validatePartnerKey(partnerClientID, "Partner client ID"); err != nil {
		return nil, err
	}
	profile, err := normalizeClientProfile(profile)
	if err != nil {
		return nil, err
	}

	return &ClientLink{
		PartnerAggregateRoot: shared.NewPartnerAggregateRoot(partnerID),
		AgentLinkID:          agentLinkID,
		PartnerClientID:      strings.TrimSpace(partnerClientID),
		ProfileFirstName:     profile.FirstName,
		ProfileLastName:      profile.LastName,
		ProfileEmail:         profile.Email,
	}, nil
}

// Profile returns the snapshotted client info
func (l *ClientLink) Profile() ClientProfile {
	return ClientProfile{
		FirstName: l.ProfileFirstName,
		LastName:  l.ProfileLastName,
		Email:     l.ProfileEmail,
	}
}

// Finalize transitions the link to linked status, binding it to a client
// account. Allowed from pending or expired; a linked link never changes.
func (l *ClientLink) Finalize(clientAccountID uuid.UUID, confidence float64, method LinkMethod) error {
	if !l.Status.CanTransitionTo(LinkStatusLinked) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot link client in %s status", l.Status))
	}
	if clientAccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Client account ID cannot be empty")
	}
	if err := validateConfidence(confidence); err != nil {
		return err
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown link method %q", method))
	}

	now := time.Now()
	l.Status = LinkStatusLinked
	l.ClientAccountID = &clientAccountID
	l.Confidence = confidence
	l.Method = method
	l.LinkedAt = &now
	l.ExpiresAt = nil
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewClientLinkedEvent(l))

	return nil
}

// Reopen puts an expired link back into pending with a fresh deadline and
// profile snapshot, or refreshes a live pending link when the partner
// re-verifies with possibly corrected info.
func (l *ClientLink) Reopen(profile ClientProfile, ttl time.Duration) error {
	if l.Status == LinkStatusLinked {
		return shared.NewDomainError("INVALID_STATE", "Cannot reopen a linked client")
	}
	if ttl <= 0 {
		return shared.NewDomainError("INVALID_TTL", "Pending link TTL must be positive")
	}
	profile, err := normalizeClientProfile(profile)
	if err != nil {
		return err
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	l.Status = LinkStatusPending
	l.ProfileFirstName = profile.FirstName
	l.ProfileLastName = profile.LastName
	l.ProfileEmail = profile.Email
	l.ExpiresAt = &expiresAt
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewClientLinkPendingEvent(l))

	return nil
}

// Expire marks a pending link whose deadline passed. Called by the sweep job.
func (l *ClientLink) Expire() error {
	if !l.Status.CanTransitionTo(LinkStatusExpired) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot expire client link in %s status", l.Status))
	}

	now := time.Now()
	l.Status = LinkStatusExpired
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewClientLinkExpiredEvent(l))

	return nil
}

// IsLinked returns true if the link is bound to a client account
func (l *ClientLink) IsLinked() bool {
	return l.Status == LinkStatusLinked
}

// IsPending returns true if the link awaits disambiguation
func (l *ClientLink) IsPending() bool {
	return l.Status == LinkStatusPending
}

// IsExpired reports whether the link is expired or is a pending link whose
// deadline has passed but has not been swept yet.
func (l *ClientLink) IsExpired(now time.Time) bool {
	if l.Status == LinkStatusExpired {
		return true
	}
	return l.Status == LinkStatusPending && l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// Validation functions

func validateConfidence(confidence float64) error {
	if confidence < 0 || confidence > 1 {
		return shared.NewDomainError("INVALID_CONFIDENCE", "Confidence must be between 0 and 1")
	}
	return nil
}

func normalizeClientProfile(p ClientProfile) (ClientProfile, error) {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))

	if p.FirstName == "" || p.LastName == "" {
		return ClientProfile{}, shared.NewDomainError("INVALID_PROFILE", "Client first and last name are required")
	}
	if len(p.FirstName) > 100 || len(p.LastName) > 100 {
		return ClientProfile{}, shared.NewDomainError("INVALID_PROFILE", "Client names cannot exceed 100 characters")
	}
	if p.Email != "" {
		if len(p.Email) > 200 {
			return ClientProfile{}, shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
		}
		emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
		if !emailRegex.MatchString(p.Email) {
			return ClientProfile{}, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	return p, nil
}
