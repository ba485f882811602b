package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/decisionloom/decisionloom/internal/api/response"
	"github.com/decisionloom/decisionloom/internal/domain"
	"github.com/decisionloom/decisionloom/internal/service"
)

// SuggestHandler handles section suggestion and summary endpoints
type SuggestHandler struct {
	generationService *service.GenerationService
}

// NewSuggestHandler creates a new suggest handler
func NewSuggestHandler(generationService *service.GenerationService) *SuggestHandler {
	return &SuggestHandler{generationService: generationService}
}

// Suggest offers 3-5 suggestions for a section's current text
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SessionID   uuid.UUID         `json:"sessionId" validate:"required"`
		Key         domain.SectionKey `json:"key" validate:"required"`
		CurrentText string            `json:"currentText"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	suggestions, err := h.generationService.Suggest(r.Context(), input.SessionID, input.Key, input.CurrentText,
		callContext(r, "suggest", input.SessionID.String()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]any{"suggestions": suggestions})
}

// Summarize condenses one section's saved answers into a stored summary
func (h *SuggestHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SessionID uuid.UUID         `json:"sessionId" validate:"required"`
		Key       domain.SectionKey `json:"key" validate:"required"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	summary, err := h.generationService.Summarize(r.Context(), input.SessionID, input.Key,
		callContext(r, "summarize", input.SessionID.String()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]any{"summary": summary})
}
