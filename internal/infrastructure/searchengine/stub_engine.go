package searchengine

import (
	"context"

	"go.uber.org/zap"

	"github.com/outfit/partner-api/internal/domain/search"
	"github.com/outfit/partner-api/internal/domain/shared/valueobject"
)

// defaultMaxResults caps engine responses when configuration leaves it unset
const defaultMaxResults = 20

// stubInventory is the canned offer list served by the stub engine
var stubInventory = []search.HotelResult{
	{HotelID: "HTL-1001", Name: "Harborview Grand", City: "Lisbon", NightlyRate: valueobject.NewMoneyUSDFromFloat(219), Rating: 4.6, ThumbnailURL: "https://static.outfit.test/hotels/HTL-1001.jpg"},
	{HotelID: "HTL-1002", Name: "The Juniper House", City: "Amsterdam", NightlyRate: valueobject.NewMoneyUSDFromFloat(164), Rating: 4.4, ThumbnailURL: "https://static.outfit.test/hotels/HTL-1002.jpg"},
	{HotelID: "HTL-1003", Name: "Midtown Court Hotel", City: "New York", NightlyRate: valueobject.NewMoneyUSDFromFloat(342), Rating: 4.2, ThumbnailURL: "https://static.outfit.test/hotels/HTL-1003.jpg"},
	{HotelID: "HTL-1004", Name: "Quayside Inn", City: "Sydney", NightlyRate: valueobject.NewMoneyUSDFromFloat(128), Rating: 3.9},
	{HotelID: "HTL-1005", Name: "Alpine Meadow Lodge", City: "Innsbruck", NightlyRate: valueobject.NewMoneyUSDFromFloat(187), Rating: 4.7, ThumbnailURL: "https://static.outfit.test/hotels/HTL-1005.jpg"},
	{HotelID: "HTL-1006", Name: "Hotel Verano", City: "Barcelona", NightlyRate: valueobject.NewMoneyUSDFromFloat(96), Rating: 4.1, ThumbnailURL: "https://static.outfit.test/hotels/HTL-1006.jpg"},
	{HotelID: "HTL-1007", Name: "The Wren Boutique", City: "London", NightlyRate: valueobject.NewMoneyUSDFromFloat(255), Rating: 4.8, ThumbnailURL: "https://static.outfit.test/hotels/HTL-1007.jpg"},
	{HotelID: "HTL-1008", Name: "Lakeside Terrace", City: "Zurich", NightlyRate: valueobject.NewMoneyUSDFromFloat(410), Rating: 4.5},
}

// StubEngine serves canned hotel inventory. It stands in for the hotel search
// service in development and test environments.
type StubEngine struct {
	maxResults int
	logger     *zap.Logger
}

// NewStubEngine creates a stub search engine
func NewStubEngine(maxResults int, logger *zap.Logger) *StubEngine {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &StubEngine{
		maxResults: maxResults,
		logger:     logger,
	}
}

// Search returns canned offers. Structured searches relocate the inventory to
// the requested destination and honor the nightly-rate budget; free-text
// searches return the inventory as-is.
func (e *StubEngine) Search(ctx context.Context, req search.EngineRequest) ([]search.HotelResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]search.HotelResult, 0, e.maxResults)
	for _, hotel := range stubInventory {
		if len(results) == e.maxResults {
			break
		}
		if req.Criteria != nil {
			if budget := req.Criteria.MaxNightlyRate; budget != nil {
				// A budget in another currency cannot be compared; the offer
				// passes through
				within, err := hotel.NightlyRate.LessThanOrEqual(*budget)
				if err == nil && !within {
					continue
				}
			}
			if req.Criteria.Destination != "" {
				hotel.City = req.Criteria.Destination
			}
		}
		results = append(results, hotel)
	}

	e.logger.Debug("Stub search engine served canned inventory",
		zap.String("session_id", req.SessionID.String()),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Ensure StubEngine implements the Engine interface
var _ search.Engine = (*StubEngine)(nil)
