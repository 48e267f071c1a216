package handler

import "github.com/outfit/partner-api/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Status string         `json:"status" example:"success"`
	Data   T              `json:"data,omitempty"`
	Error  *dto.ErrorInfo `json:"error,omitempty"`
	Meta   *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Status string         `json:"status" example:"error"`
	Error  *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse represents a simple success API response for OpenAPI documentation
// @Description Simple success response without data
type SuccessResponse struct {
	Status string `json:"status" example:"success"`
}

// CountData represents count data in response
// @Description Count data
type CountData struct {
	Count int64 `json:"count"`
}

// SchedulerStatusData represents expiration scheduler status data
// @Description Expiration scheduler status information
type SchedulerStatusData struct {
	Enabled bool     `json:"enabled"`
	Jobs    []string `json:"jobs"`
}
