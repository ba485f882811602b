package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/decisionloom/decisionloom/internal/api/response"
	"github.com/decisionloom/decisionloom/internal/service"
)

// GenerateHandler handles the document generation endpoints
type GenerateHandler struct {
	generationService *service.GenerationService
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(generationService *service.GenerationService) *GenerateHandler {
	return &GenerateHandler{generationService: generationService}
}

// Prefill drafts initial answers for every section from a description
func (h *GenerateHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Description string `json:"description" validate:"required,min=10"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	answers, err := h.generationService.Prefill(r.Context(), input.Description, callContext(r, "generate/prefill", ""))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]any{"answers": answers})
}

// IdeaExplorer converges brainstorming answers into three app ideas
func (h *GenerateHandler) IdeaExplorer(w http.ResponseWriter, r *http.Request) {
	var input struct {
		QuestionSetID string                      `json:"questionSetId" validate:"required"`
		Questions     []service.IdeaQuestionInput `json:"questions" validate:"required,dive"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	ideas, err := h.generationService.ExploreIdeas(r.Context(), input.QuestionSetID, input.Questions, callContext(r, "generate/idea-explorer", ""))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]any{"ideas": ideas})
}

type sessionRequest struct {
	SessionID uuid.UUID `json:"sessionId" validate:"required"`
}

// PRD generates the PRD in one buffered response
func (h *GenerateHandler) PRD(w http.ResponseWriter, r *http.Request) {
	var input sessionRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	artifact, err := h.generationService.GeneratePRD(r.Context(), input.SessionID, callContext(r, "generate/prd", input.SessionID.String()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]any{"artifact": artifact})
}

// PRDStream generates the PRD as a raw chunked text stream
func (h *GenerateHandler) PRDStream(w http.ResponseWriter, r *http.Request) {
	var input sessionRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	stream, err := h.generationService.GeneratePRDStream(r.Context(), input.SessionID, callContext(r, "generate/prd/stream", input.SessionID.String()))
	if err != nil {
		response.Error(w, err)
		return
	}

	writeStream(w, r, stream)
}

// TechSpec generates the tech spec in one buffered response
func (h *GenerateHandler) TechSpec(w http.ResponseWriter, r *http.Request) {
	var input sessionRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	artifact, err := h.generationService.GenerateTechSpec(r.Context(), input.SessionID, callContext(r, "generate/tech-spec", input.SessionID.String()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]any{"artifact": artifact})
}

// TechSpecStream generates the tech spec as a raw chunked text stream
func (h *GenerateHandler) TechSpecStream(w http.ResponseWriter, r *http.Request) {
	var input sessionRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	stream, err := h.generationService.GenerateTechSpecStream(r.Context(), input.SessionID, callContext(r, "generate/tech-spec/stream", input.SessionID.String()))
	if err != nil {
		response.Error(w, err)
		return
	}

	writeStream(w, r, stream)
}

// Reflection pressure-tests the finished document pair
func (h *GenerateHandler) Reflection(w http.ResponseWriter, r *http.Request) {
	var input sessionRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	content, err := h.generationService.GenerateReflection(r.Context(), input.SessionID, callContext(r, "generate/reflection", input.SessionID.String()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{"content": content})
}
