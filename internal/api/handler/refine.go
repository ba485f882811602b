package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/decisionloom/decisionloom/internal/api/response"
	"github.com/decisionloom/decisionloom/internal/domain"
	"github.com/decisionloom/decisionloom/internal/service"
)

// RefineHandler handles the streamed artifact refinement chat
type RefineHandler struct {
	generationService *service.GenerationService
}

// NewRefineHandler creates a new refine handler
func NewRefineHandler(generationService *service.GenerationService) *RefineHandler {
	return &RefineHandler{generationService: generationService}
}

// Refine streams one chat turn about an artifact
func (h *RefineHandler) Refine(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SessionID    uuid.UUID           `json:"sessionId" validate:"required"`
		Message      string              `json:"message" validate:"required"`
		ArtifactType domain.ArtifactType `json:"artifactType" validate:"required,oneof=PRD TECH_SPEC"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	stream, err := h.generationService.Refine(r.Context(), input.SessionID, input.ArtifactType, input.Message,
		callContext(r, "refine", input.SessionID.String()))
	if err != nil {
		response.Error(w, err)
		return
	}

	writeStream(w, r, stream)
}
