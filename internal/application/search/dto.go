package search

import (
	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/search"
	"github.com/outfit/partner-api/internal/domain/shared/valueobject"
)

// SearchRequest is the request to run a hotel search on behalf of a client
type SearchRequest struct {
	PartnerAgentID  string               `json:"partner_agent_id" binding:"required,max=100" example:"agent-42"`
	PartnerClientID string               `json:"partner_client_id" binding:"required,max=100" example:"client-1001"`
	Search          SearchInput          `json:"search" binding:"required"`
	TravelerInfo    *TravelerInfoRequest `json:"traveler_info,omitempty"`
}

// SearchInput carries either a free-text query or structured criteria. At
// least one must be present; when both are given the criteria take effect
// and the query rides along as context for the search engine.
type SearchInput struct {
	Query    string           `json:"query,omitempty" binding:"omitempty,max=500" example:"romantic boutique hotel near the Eiffel Tower"`
	Criteria *CriteriaRequest `json:"criteria,omitempty"`
}

// CriteriaRequest is a structured hotel search. Dates use the YYYY-MM-DD form.
type CriteriaRequest struct {
	Destination    string             `json:"destination" binding:"required,max=200" example:"Paris"`
	CheckIn        string             `json:"check_in" binding:"required" example:"2026-09-20"`
	CheckOut       string             `json:"check_out" binding:"required" example:"2026-09-24"`
	Rooms          int                `json:"rooms,omitempty" binding:"omitempty,min=1,max=8" example:"1"`
	MaxNightlyRate *valueobject.Money `json:"max_nightly_rate,omitempty"`
}

// TravelerInfoRequest describes who is traveling. Optional; defaults to one adult.
type TravelerInfoRequest struct {
	Adults   int `json:"adults" binding:"required,min=1,max=8" example:"2"`
	Children int `json:"children,omitempty" binding:"omitempty,min=0,max=8" example:"0"`
}

// SearchResponse returns the signed deeplink plus a result preview
type SearchResponse struct {
	DeeplinkURL     string               `json:"deeplink_url"`
	SearchSessionID uuid.UUID            `json:"search_session_id"`
	SearchResults   []search.HotelResult `json:"search_results"`
}
