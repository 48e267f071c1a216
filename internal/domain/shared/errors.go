package shared

// DomainError is an error with a stable machine-readable code. Handlers
// map the code onto an HTTP status and echo it to API callers.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel errors shared across the domain packages.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrAgentNotLinked      = NewDomainError("AGENT_NOT_LINKED", "Agent is not linked to an Outfit account")
	ErrClientNotLinked     = NewDomainError("CLIENT_NOT_LINKED", "Client is not linked to an Outfit account")
	ErrInvalidDates        = NewDomainError("INVALID_DATES", "Search dates are invalid")
)
