package dto

import "net/http"

// Error code constants organized by category. Codes are returned verbatim in
// the error envelope, so they are part of the partner-facing contract.

// Authentication error codes
const (
	// ErrCodeInvalidAPIKey is used when the partner API key is missing, malformed, or revoked
	ErrCodeInvalidAPIKey = "INVALID_API_KEY"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "FORBIDDEN"
)

// Identity linking error codes
const (
	// ErrCodeAgentNotLinked is used when the partner agent has no Outfit account link
	ErrCodeAgentNotLinked = "AGENT_NOT_LINKED"
	// ErrCodeClientNotLinked is used when the partner client has no Outfit account link
	ErrCodeClientNotLinked = "CLIENT_NOT_LINKED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "INVALID_STATE"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for request validation errors
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeInvalidDates is used when check-in/check-out dates are unusable
	ErrCodeInvalidDates = "INVALID_DATES"
	// ErrCodeInvalidDestination is used when the destination is empty or too long
	ErrCodeInvalidDestination = "INVALID_DESTINATION"
	// ErrCodeInvalidRooms is used when the room count is out of range
	ErrCodeInvalidRooms = "INVALID_ROOMS"
	// ErrCodeInvalidBudget is used when the nightly budget is not a valid amount
	ErrCodeInvalidBudget = "INVALID_BUDGET"
	// ErrCodeInvalidTravelers is used when traveler counts are out of range
	ErrCodeInvalidTravelers = "INVALID_TRAVELERS"
	// ErrCodeInvalidSearch is used when a search request has neither query nor criteria
	ErrCodeInvalidSearch = "INVALID_SEARCH"
	// ErrCodeInvalidEmail is used when an email address fails validation
	ErrCodeInvalidEmail = "INVALID_EMAIL"
	// ErrCodeInvalidName is used when a person or partner name fails validation
	ErrCodeInvalidName = "INVALID_NAME"
	// ErrCodeInvalidAccount is used when account fields fail validation
	ErrCodeInvalidAccount = "INVALID_ACCOUNT"
	// ErrCodeInvalidProfile is used when a client profile fails validation
	ErrCodeInvalidProfile = "INVALID_PROFILE"
	// ErrCodeInvalidMethod is used when a link method is not recognized
	ErrCodeInvalidMethod = "INVALID_METHOD"
	// ErrCodeInvalidConfidence is used when a match confidence is out of range
	ErrCodeInvalidConfidence = "INVALID_CONFIDENCE"
	// ErrCodeInvalidAgentLink is used when a client link references a bad agent link
	ErrCodeInvalidAgentLink = "INVALID_AGENT_LINK"
	// ErrCodeInvalidPartner is used when partner fields fail validation
	ErrCodeInvalidPartner = "INVALID_PARTNER"
	// ErrCodeInvalidPartnerKey is used when an API key fails structural validation
	ErrCodeInvalidPartnerKey = "INVALID_PARTNER_KEY"
	// ErrCodeInvalidDeeplink is used when deeplink construction fails
	ErrCodeInvalidDeeplink = "INVALID_DEEPLINK"
	// ErrCodeInvalidTTL is used when a pending-link TTL is not positive
	ErrCodeInvalidTTL = "INVALID_TTL"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when the partner exceeds its request quota
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodeRequestTooLarge is used when the request body exceeds the size limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// Internal error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeKeyHash is used when API key hashing fails
	ErrCodeKeyHash = "KEY_HASH_ERROR"
	// ErrCodeKeyGeneration is used when API key generation fails
	ErrCodeKeyGeneration = "KEY_GENERATION_ERROR"
)

// Follow-up actions attached to linking errors
const (
	// ActionCreateAgent tells the partner to call the create-agent endpoint
	ActionCreateAgent = "create_agent"
	// ActionVerifyCustomer tells the partner to call the verify-customer endpoint
	ActionVerifyCustomer = "verify_customer"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Auth errors
	ErrCodeInvalidAPIKey: http.StatusUnauthorized,
	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeForbidden:     http.StatusForbidden,

	// Linking errors -> 409 Conflict
	ErrCodeAgentNotLinked:  http.StatusConflict,
	ErrCodeClientNotLinked: http.StatusConflict,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeInvalidDates:       http.StatusBadRequest,
	ErrCodeInvalidDestination: http.StatusBadRequest,
	ErrCodeInvalidRooms:       http.StatusBadRequest,
	ErrCodeInvalidBudget:      http.StatusBadRequest,
	ErrCodeInvalidTravelers:   http.StatusBadRequest,
	ErrCodeInvalidSearch:      http.StatusBadRequest,
	ErrCodeInvalidEmail:       http.StatusBadRequest,
	ErrCodeInvalidName:        http.StatusBadRequest,
	ErrCodeInvalidAccount:     http.StatusBadRequest,
	ErrCodeInvalidProfile:     http.StatusBadRequest,
	ErrCodeInvalidMethod:      http.StatusBadRequest,
	ErrCodeInvalidConfidence:  http.StatusBadRequest,
	ErrCodeInvalidAgentLink:   http.StatusBadRequest,
	ErrCodeInvalidPartner:     http.StatusBadRequest,
	ErrCodeInvalidPartnerKey:  http.StatusBadRequest,
	ErrCodeInvalidDeeplink:    http.StatusBadRequest,
	ErrCodeInvalidTTL:         http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Internal errors -> 500 Internal Server Error
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeKeyHash:       http.StatusInternalServerError,
	ErrCodeKeyGeneration: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorCodeAction maps linking error codes to the follow-up action a partner
// should take to clear the error
var ErrorCodeAction = map[string]string{
	ErrCodeAgentNotLinked:  ActionCreateAgent,
	ErrCodeClientNotLinked: ActionVerifyCustomer,
}

// ActionRequiredFor returns the follow-up action for an error code
// Returns an empty string when no action applies
func ActionRequiredFor(code string) string {
	return ErrorCodeAction[code]
}
