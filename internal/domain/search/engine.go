package search

import (
	"context"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/shared/valueobject"
)

// EngineRequest is the search handed to the engine. Free-text queries are
// passed through untouched; structured criteria are forwarded as-is.
type EngineRequest struct {
	SessionID uuid.UUID
	Query     string
	Criteria  *Criteria
	Travelers TravelerInfo
}

// HotelResult is one hotel offer returned by the engine
type HotelResult struct {
	HotelID      string            `json:"hotel_id"`
	Name         string            `json:"name"`
	City         string            `json:"city"`
	NightlyRate  valueobject.Money `json:"nightly_rate"`
	Rating       float64           `json:"rating"`
	ThumbnailURL string            `json:"thumbnail_url,omitempty"`
}

// Engine is the port to the hotel search service. Matching and ranking live
// behind it; this system only forwards the search and relays results.
type Engine interface {
	// Search runs the search and returns ranked hotel offers
	Search(ctx context.Context, req EngineRequest) ([]HotelResult, error)
}
