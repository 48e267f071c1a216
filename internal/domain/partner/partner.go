package partner

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/outfit/partner-api/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// PartnerStatus represents the status of a partner
type PartnerStatus string

const (
	PartnerStatusActive    PartnerStatus = "active"
	PartnerStatusSuspended PartnerStatus = "suspended"
)

// IsValid checks if the status is a valid PartnerStatus
func (s PartnerStatus) IsValid() bool {
	switch s {
	case PartnerStatusActive, PartnerStatusSuspended:
		return true
	}
	return false
}

// String returns the string representation of PartnerStatus
func (s PartnerStatus) String() string {
	return string(s)
}

// Hash cost for bcrypt
const bcryptCost = 12

// API keys look like ok_<prefix>_<secret>. Only the prefix and a bcrypt hash
// of the secret are stored; the raw key is shown exactly once at creation or
// rotation.
const (
	apiKeyScheme    = "ok"
	apiKeyPrefixLen = 8  // hex chars, used for lookup
	apiKeySecretLen = 32 // hex chars, bcrypt-hashed
)

// Partner is an integrating agency platform. Each partner authenticates with
// a single rotatable API key and owns a namespace of opaque agent and client
// identifiers.
type Partner struct {
	shared.BaseAggregateRoot
	Name         string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	ContactEmail string        `gorm:"type:varchar(200)"`
	APIKeyPrefix string        `gorm:"type:varchar(16);not null;uniqueIndex"`
	APIKeyHash   string        `gorm:"type:varchar(100);not null"`
	Status       PartnerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	KeyRotatedAt *time.Time
}

// TableName returns the table name for GORM
func (Partner) TableName() string {
	return "partners"
}

// NewPartner creates a partner and its initial API key. The raw key is
// returned alongside the aggregate and is never recoverable afterwards.
func NewPartner(name, contactEmail string) (*Partner, string, error) {
	name = strings.TrimSpace(name)
	if err := validatePartnerName(name); err != nil {
		return nil, "", err
	}
	if contactEmail != "" {
		contactEmail = strings.ToLower(strings.TrimSpace(contactEmail))
		if err := validateContactEmail(contactEmail); err != nil {
			return nil, "", err
		}
	}

	prefix, secret, rawKey, err := generateAPIKey()
	if err != nil {
		return nil, "", shared.NewDomainError("KEY_GENERATION_ERROR", "Failed to generate API key")
	}
	hash, err := hashSecret(secret)
	if err != nil {
		return nil, "", shared.NewDomainError("KEY_HASH_ERROR", "Failed to hash API key")
	}

	p := &Partner{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ContactEmail:      contactEmail,
		APIKeyPrefix:      prefix,
		APIKeyHash:        hash,
		Status:            PartnerStatusActive,
	}

	p.AddDomainEvent(NewPartnerCreatedEvent(p))

	return p, rawKey, nil
}

// VerifySecret verifies the secret part of an API key against the stored hash
func (p *Partner) VerifySecret(secret string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.APIKeyHash), []byte(secret))
	return err == nil
}

// RotateAPIKey replaces the partner's API key and returns the new raw key.
// The previous key stops verifying immediately.
func (p *Partner) RotateAPIKey() (string, error) {
	prefix, secret, rawKey, err := generateAPIKey()
	if err != nil {
		return "", shared.NewDomainError("KEY_GENERATION_ERROR", "Failed to generate API key")
	}
	hash, err := hashSecret(secret)
	if err != nil {
		return "", shared.NewDomainError("KEY_HASH_ERROR", "Failed to hash API key")
	}

	now := time.Now()
	oldPrefix := p.APIKeyPrefix
	p.APIKeyPrefix = prefix
	p.APIKeyHash = hash
	p.KeyRotatedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPartnerAPIKeyRotatedEvent(p, oldPrefix))

	return rawKey, nil
}

// Suspend suspends the partner; its API key stops authenticating
func (p *Partner) Suspend() error {
	if p.Status == PartnerStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Partner is already suspended")
	}

	p.Status = PartnerStatusSuspended
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewPartnerStatusChangedEvent(p, PartnerStatusActive, PartnerStatusSuspended))

	return nil
}

// Activate reactivates a suspended partner
func (p *Partner) Activate() error {
	if p.Status == PartnerStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Partner is already active")
	}

	p.Status = PartnerStatusActive
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewPartnerStatusChangedEvent(p, PartnerStatusSuspended, PartnerStatusActive))

	return nil
}

// IsActive returns true if the partner may call the API
func (p *Partner) IsActive() bool {
	return p.Status == PartnerStatusActive
}

// ParseAPIKey splits a raw API key into its prefix and secret parts.
// Malformed keys fail without touching storage.
func ParseAPIKey(raw string) (prefix, secret string, err error) {
	parts := strings.Split(strings.TrimSpace(raw), "_")
	if len(parts) != 3 || parts[0] != apiKeyScheme {
		return "", "", shared.NewDomainError("INVALID_API_KEY", "Malformed API key")
	}
	if len(parts[1]) != apiKeyPrefixLen || len(parts[2]) != apiKeySecretLen {
		return "", "", shared.NewDomainError("INVALID_API_KEY", "Malformed API key")
	}
	return parts[1], parts[2], nil
}

// Validation functions

func validatePartnerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Partner name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Partner name cannot exceed 200 characters")
	}
	return nil
}

func validateContactEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func generateAPIKey() (prefix, secret, raw string, err error) {
	prefix, err = randomHex(apiKeyPrefixLen / 2)
	if err != nil {
		return "", "", "", err
	}
	secret, err = randomHex(apiKeySecretLen / 2)
	if err != nil {
		return "", "", "", err
	}
	raw = fmt.Sprintf("%s_%s_%s", apiKeyScheme, prefix, secret)
	return prefix, secret, raw, nil
}

func randomHex(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
