package searchengine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/outfit/partner-api/internal/domain/search"
	"github.com/outfit/partner-api/internal/infrastructure/config"
)

// Engine modes selectable in configuration
const (
	ModeStub = "stub"
	ModeHTTP = "http"
)

// NewEngine creates the search engine named by the configured mode. An empty
// mode selects the stub.
func NewEngine(cfg config.SearchEngineConfig, logger *zap.Logger) (search.Engine, error) {
	switch cfg.Mode {
	case ModeHTTP:
		return NewHTTPEngine(HTTPEngineConfig{
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.Timeout,
			MaxResults: cfg.MaxResults,
		}, logger)
	case ModeStub, "":
		return NewStubEngine(cfg.MaxResults, logger), nil
	default:
		return nil, fmt.Errorf("unknown search engine mode: %q", cfg.Mode)
	}
}
