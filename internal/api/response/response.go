// Package response implements the uniform API envelope. Every JSON
// endpoint replies {ok: true, data} or {ok: false, error}; streamed
// endpoints bypass the envelope entirely.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/decisionloom/decisionloom/internal/domain"
)

// Envelope is the wire shape of every non-streamed response
type Envelope struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// ErrorBody carries the machine-readable error
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON sends a success envelope
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{OK: true, Data: data})
}

// OK sends a 200 success envelope
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created sends a 201 success envelope
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// Fail sends an error envelope with an explicit status and code
func Fail(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{OK: false, Error: &ErrorBody{Code: code, Message: message, Details: details}})
}

// ValidationError sends a 400 VALIDATION_ERROR envelope
func ValidationError(w http.ResponseWriter, message string, details any) {
	Fail(w, http.StatusBadRequest, domain.CodeValidation, message, details)
}

// Error maps a service error onto the envelope. Domain errors keep their
// code; anything else becomes INTERNAL_ERROR.
func Error(w http.ResponseWriter, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		Fail(w, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, domainErr.Details)
		return
	}
	Fail(w, http.StatusInternalServerError, domain.CodeInternal, "Internal server error", nil)
}

func statusForCode(code string) int {
	switch code {
	case domain.CodeValidation, domain.CodePrerequisiteMissing, domain.CodeMissingArtifacts:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeSessionExpired:
		return http.StatusGone
	case domain.CodeRateLimited:
		return http.StatusTooManyRequests
	case domain.CodeParse:
		return http.StatusBadGateway
	case domain.CodeGatewayTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
