package linking

import (
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/linking"
)

// Actions reported in linked responses
const (
	ActionExisting   = "existing"
	ActionCreated    = "created"
	ActionAutoLinked = "auto_linked"
)

// StatusDisambiguationRequired marks a verify response that needs a
// follow-up resolve-customer call
const StatusDisambiguationRequired = "disambiguation_required"

// =============================================================================
// Agent linking DTOs
// =============================================================================

// CreateAgentRequest represents a request to link a partner agent
type CreateAgentRequest struct {
	PartnerAgentID string `json:"partner_agent_id" binding:"required,min=1,max=100" example:"agent-42"`
	Email          string `json:"email" binding:"required,email,max=200" example:"maria@travelco.example"`
	FirstName      string `json:"first_name" binding:"required,min=1,max=100" example:"Maria"`
	LastName       string `json:"last_name" binding:"required,min=1,max=100" example:"Gonzalez"`
}

// CreateAgentResponse represents the result of linking a partner agent
type CreateAgentResponse struct {
	PartnerAgentID  string    `json:"partner_agent_id"`
	Linked          bool      `json:"linked"`
	ExistingAccount bool      `json:"existing_account"`
	OutfitAgentID   uuid.UUID `json:"outfit_agent_id"`
}

// =============================================================================
// Client verification DTOs
// =============================================================================

// ClientInfo is the client profile a partner submits for verification
type ClientInfo struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100" example:"John"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100" example:"Smith"`
	Email     string `json:"email" binding:"omitempty,email,max=200" example:"john.smith@example.com"`
	BioBlurb  string `json:"bio_blurb" binding:"max=2000"`
}

// Profile converts the submitted info into the snapshot stored on the link.
// The bio blurb is free text for the agent's benefit and never scored.
func (ci ClientInfo) Profile() linking.ClientProfile {
	return linking.ClientProfile{
		FirstName: ci.FirstName,
		LastName:  ci.LastName,
		Email:     ci.Email,
	}
}

// VerifyCustomerRequest represents a request to verify a partner client
type VerifyCustomerRequest struct {
	PartnerAgentID  string     `json:"partner_agent_id" binding:"required,min=1,max=100" example:"agent-42"`
	PartnerClientID string     `json:"partner_client_id" binding:"required,min=1,max=100" example:"client-1001"`
	ClientInfo      ClientInfo `json:"client_info" binding:"required"`
}

// CandidateResponse is one possible match surfaced during disambiguation
type CandidateResponse struct {
	OutfitUserID    uuid.UUID  `json:"outfit_user_id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email,omitempty"`
	LastSearchAt    *time.Time `json:"last_search_at,omitempty"`
	MatchConfidence float64    `json:"match_confidence"`
}

// LinkResultResponse is the verify/resolve result. Either the client is
// linked (action says how) or disambiguation is required and candidates
// carry the choices.
type LinkResultResponse struct {
	Linked       bool                `json:"linked"`
	Action       string              `json:"action,omitempty"`
	OutfitUserID *uuid.UUID          `json:"outfit_user_id,omitempty"`
	Confidence   *float64            `json:"confidence,omitempty"`
	Status       string              `json:"status,omitempty"`
	Candidates   []CandidateResponse `json:"candidates,omitempty"`
}

// ResolveCustomerRequest represents a request to finalize a pending client
// link. Action "link" picks the candidate named by outfit_user_id; action
// "create" makes a fresh account from the profile submitted at verify time.
type ResolveCustomerRequest struct {
	PartnerClientID string     `json:"partner_client_id" binding:"required,min=1,max=100" example:"client-1001"`
	Action          string     `json:"action" binding:"required,oneof=link create" example:"link"`
	OutfitUserID    *uuid.UUID `json:"outfit_user_id,omitempty"`
}

// =============================================================================
// Response builders
// =============================================================================

func linkedResult(action string, accountID uuid.UUID, confidence float64) *LinkResultResponse {
	return &LinkResultResponse{
		Linked:       true,
		Action:       action,
		OutfitUserID: &accountID,
		Confidence:   &confidence,
	}
}

func disambiguationResult(candidates []linking.ClientCandidate) *LinkResultResponse {
	out := make([]CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, CandidateResponse{
			OutfitUserID:    c.ClientAccountID,
			FirstName:       c.FirstName,
			LastName:        c.LastName,
			Email:           c.Email,
			LastSearchAt:    c.LastSearchAt,
			MatchConfidence: c.MatchConfidence,
		})
	}
	return &LinkResultResponse{
		Linked:     false,
		Status:     StatusDisambiguationRequired,
		Candidates: out,
	}
}

// replayResult rebuilds the linked response for an already-linked client so
// repeated verify/resolve calls return the original outcome.
func replayResult(link *linking.ClientLink) *LinkResultResponse {
	return linkedResult(linkedAction(link.Method, link.Confidence), *link.ClientAccountID, link.Confidence)
}

// linkedAction names how a link came to be. Scores below 1.0 that cleared the
// auto-link threshold report auto_linked; exact matches and manual picks
// report existing.
func linkedAction(method linking.LinkMethod, confidence float64) string {
	switch method {
	case linking.LinkMethodCreated:
		return ActionCreated
	case linking.LinkMethodAuto:
		// Exact matches score exactly 1.0, but the comparison carries a
		// tolerance so a confidence that round-trips through storage
		// still reports existing.
		if confidence < 1.0-1e-9 {
			return ActionAutoLinked
		}
		return ActionExisting
	default:
		return ActionExisting
	}
}
