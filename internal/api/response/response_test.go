package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decisionloom/decisionloom/internal/domain"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestOK_WrapsDataInEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]bool{"saved": true})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decodeEnvelope(t, rec)
	assert.True(t, env.OK)
	assert.Nil(t, env.Error)
	assert.Equal(t, map[string]any{"saved": true}, env.Data)
}

func TestError_MapsDomainCodesToStatuses(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{domain.CodeValidation, http.StatusBadRequest},
		{domain.CodePrerequisiteMissing, http.StatusBadRequest},
		{domain.CodeMissingArtifacts, http.StatusBadRequest},
		{domain.CodeNotFound, http.StatusNotFound},
		{domain.CodeSessionExpired, http.StatusGone},
		{domain.CodeRateLimited, http.StatusTooManyRequests},
		{domain.CodeParse, http.StatusBadGateway},
		{domain.CodeGatewayTimeout, http.StatusGatewayTimeout},
		{domain.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, domain.NewError(tt.code, "boom"))

			assert.Equal(t, tt.status, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.OK)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, "boom", env.Error.Message)
		})
	}
}

func TestError_WrappedDomainErrorKeepsCode(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := errors.Join(errors.New("outer"), domain.ErrNotFound("session"))
	Error(rec, wrapped)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, domain.CodeNotFound, env.Error.Code)
}

func TestError_UnknownErrorBecomesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, domain.CodeInternal, env.Error.Code)
	// Raw error text must not leak to the client.
	assert.Equal(t, "Internal server error", env.Error.Message)
}

func TestValidationError_CarriesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, "Invalid request body", map[string]string{"SessionID": "field is required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, domain.CodeValidation, env.Error.Code)
	assert.Equal(t, map[string]any{"SessionID": "field is required"}, env.Error.Details)
}
