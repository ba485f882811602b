package domain

import "fmt"

// Error codes returned in the API envelope.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeRateLimited         = "RATE_LIMITED"
	CodeNotFound            = "NOT_FOUND"
	CodeSessionExpired      = "SESSION_EXPIRED"
	CodePrerequisiteMissing = "PREREQUISITE_MISSING"
	CodeMissingArtifacts    = "MISSING_ARTIFACTS"
	CodeParse               = "PARSE_ERROR"
	CodeGatewayTimeout      = "GATEWAY_TIMEOUT"
	CodeInternal            = "INTERNAL_ERROR"
)

// Error carries a machine-readable code alongside a human-readable message.
// Services return these; handlers map the code to an HTTP status.
type Error struct {
	Code    string
	Message string
	Details any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a domain error
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorWithDetails creates a domain error with field-level details
func NewErrorWithDetails(code, message string, details any) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

// ErrNotFound builds a NOT_FOUND error for a named resource
func ErrNotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found"}
}
