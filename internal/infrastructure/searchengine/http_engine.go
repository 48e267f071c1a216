package searchengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/outfit/partner-api/internal/domain/search"
)

// maxResponseSize is the maximum allowed response size from the search service (4MB)
const maxResponseSize = 4 * 1024 * 1024

// searchPath is the search endpoint on the upstream service
const searchPath = "/internal/v1/search"

var (
	// ErrEngineUnavailable indicates the search service could not be reached
	ErrEngineUnavailable = errors.New("search service unavailable")

	// ErrEngineRequestFailed indicates the search service rejected the request
	ErrEngineRequestFailed = errors.New("search service request failed")

	// ErrEngineInvalidResponse indicates the search service response could not be parsed
	ErrEngineInvalidResponse = errors.New("search service returned an invalid response")

	// ErrEngineMissingBaseURL indicates the HTTP engine was configured without an upstream URL
	ErrEngineMissingBaseURL = errors.New("search engine base URL is required")
)

// HTTPEngineConfig holds configuration for the HTTP search engine client
type HTTPEngineConfig struct {
	// BaseURL is the upstream search service base URL
	BaseURL string
	// Timeout is the per-request timeout
	Timeout time.Duration
	// MaxResults caps how many offers are relayed to partners
	MaxResults int
}

// Validate validates the configuration and fills defaults
func (c *HTTPEngineConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrEngineMissingBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxResults <= 0 {
		c.MaxResults = defaultMaxResults
	}
	return nil
}

// engineSearchRequest is the JSON body sent to the search service
type engineSearchRequest struct {
	SessionID  string              `json:"session_id"`
	Query      string              `json:"query,omitempty"`
	Criteria   *search.Criteria    `json:"criteria,omitempty"`
	Travelers  search.TravelerInfo `json:"travelers"`
	MaxResults int                 `json:"max_results"`
}

// engineSearchResponse is the JSON body returned by the search service
type engineSearchResponse struct {
	Results []search.HotelResult `json:"results"`
}

// HTTPEngine forwards searches to the hotel search service over HTTP
type HTTPEngine struct {
	config     HTTPEngineConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPEngine creates an HTTP search engine client
func NewHTTPEngine(config HTTPEngineConfig, logger *zap.Logger) (*HTTPEngine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &HTTPEngine{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// Search forwards the search and relays the ranked offers
func (e *HTTPEngine) Search(ctx context.Context, req search.EngineRequest) ([]search.HotelResult, error) {
	payload := engineSearchRequest{
		SessionID:  req.SessionID.String(),
		Query:      req.Query,
		Criteria:   req.Criteria,
		Travelers:  req.Travelers,
		MaxResults: e.config.MaxResults,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("searchengine: failed to encode request: %w", err)
	}

	url := strings.TrimRight(e.config.BaseURL, "/") + searchPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("searchengine: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("searchengine: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		e.logger.Warn("Search service returned an error status",
			zap.Int("status", resp.StatusCode),
			zap.String("session_id", payload.SessionID),
		)
		return nil, fmt.Errorf("%w: HTTP %d", ErrEngineRequestFailed, resp.StatusCode)
	}

	var decoded engineSearchResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineInvalidResponse, err)
	}

	results := decoded.Results
	if len(results) > e.config.MaxResults {
		results = results[:e.config.MaxResults]
	}

	return results, nil
}

// Ensure HTTPEngine implements the Engine interface
var _ search.Engine = (*HTTPEngine)(nil)
