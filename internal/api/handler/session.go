package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/decisionloom/decisionloom/internal/api/response"
	"github.com/decisionloom/decisionloom/internal/service"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create starts a new session. The body is optional.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateSessionInput
	if r.Body != nil {
		// An empty or absent body means an untitled session.
		_ = json.NewDecoder(r.Body).Decode(&input)
	}

	session, err := h.sessionService.Create(r.Context(), input)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, map[string]any{
		"sessionId": session.ID,
		"expiresAt": session.ExpiresAt.Format(time.RFC3339),
	})
}

// Get fetches a session with its sections, summaries and artifacts
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.ValidationError(w, "Invalid session ID", nil)
		return
	}

	detail, err := h.sessionService.Get(r.Context(), sessionID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, detail)
}

// SaveSection upserts one section's answers
func (h *SessionHandler) SaveSection(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.ValidationError(w, "Invalid session ID", nil)
		return
	}

	var input service.SaveSectionInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	if err := h.sessionService.SaveSection(r.Context(), sessionID, input); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]bool{"saved": true})
}
