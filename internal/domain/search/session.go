package search

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/shared"
)

// SessionStatus represents the status of a search session
type SessionStatus string

const (
	SessionStatusActive  SessionStatus = "active"
	SessionStatusExpired SessionStatus = "expired"
)

// IsValid checks if the status is a valid SessionStatus
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusActive, SessionStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// SearchSession is the persisted record behind a deeplink. The deeplink URL
// encodes the session ID; the session pins the resolved agent and client
// accounts plus the search the partner submitted.
type SearchSession struct {
	shared.PartnerAggregateRoot
	AgentAccountID  uuid.UUID
	ClientAccountID uuid.UUID
	Query           string
	Criteria        *Criteria
	TravelerInfo    TravelerInfo
	DeeplinkURL     string
	Status          SessionStatus
	ExpiresAt       time.Time
}

// NewSearchSession creates a search session for a resolved agent/client pair.
// At least one of query or criteria must be present. ttl bounds how long the
// deeplink stays redeemable.
func NewSearchSession(partnerID, agentAccountID, clientAccountID uuid.UUID, query string, criteria *Criteria, travelers TravelerInfo, ttl time.Duration) (*SearchSession, error) {
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if agentAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Agent account ID cannot be empty")
	}
	if clientAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Client account ID cannot be empty")
	}

	query = strings.TrimSpace(query)
	if query == "" && criteria == nil {
		return nil, shared.NewDomainError("INVALID_SEARCH", "Search requires a query or structured criteria")
	}
	if len(query) > 500 {
		return nil, shared.NewDomainError("INVALID_SEARCH", "Query cannot exceed 500 characters")
	}
	if ttl <= 0 {
		return nil, shared.NewDomainError("INVALID_TTL", "Session TTL must be positive")
	}
	if travelers == (TravelerInfo{}) {
		travelers = DefaultTravelerInfo()
	}

	session := &SearchSession{
		PartnerAggregateRoot: shared.NewPartnerAggregateRoot(partnerID),
		AgentAccountID:       agentAccountID,
		ClientAccountID:      clientAccountID,
		Query:                query,
		Criteria:             criteria,
		TravelerInfo:         travelers,
		Status:               SessionStatusActive,
		ExpiresAt:            time.Now().Add(ttl),
	}

	session.AddDomainEvent(NewSearchSessionCreatedEvent(session))

	return session, nil
}

// AttachDeeplink records the signed URL built for this session. The URL is
// set exactly once, before the session is first persisted.
func (s *SearchSession) AttachDeeplink(url string) error {
	if s.DeeplinkURL != "" {
		return shared.NewDomainError("INVALID_STATE", "Deeplink already attached to session")
	}
	if strings.TrimSpace(url) == "" {
		return shared.NewDomainError("INVALID_DEEPLINK", "Deeplink URL cannot be empty")
	}

	s.DeeplinkURL = url
	s.Touch()

	return nil
}

// IsActive returns true if the session has not been expired
func (s *SearchSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// IsExpired reports whether the session is expired or past its deadline but
// not yet swept.
func (s *SearchSession) IsExpired(now time.Time) bool {
	if s.Status == SessionStatusExpired {
		return true
	}
	return now.After(s.ExpiresAt)
}
