package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/decisionloom/decisionloom/internal/api/response"
	"github.com/decisionloom/decisionloom/internal/domain"
	"github.com/decisionloom/decisionloom/internal/service"
)

// WalkthroughHandler handles the architecture walkthrough endpoints
type WalkthroughHandler struct {
	walkthroughService *service.WalkthroughService
}

// NewWalkthroughHandler creates a new walkthrough handler
func NewWalkthroughHandler(walkthroughService *service.WalkthroughService) *WalkthroughHandler {
	return &WalkthroughHandler{walkthroughService: walkthroughService}
}

// Start creates or resumes the walkthrough for a session
func (h *WalkthroughHandler) Start(w http.ResponseWriter, r *http.Request) {
	var input sessionRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	detail, err := h.walkthroughService.Start(r.Context(), input.SessionID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, detail)
}

// Get loads the walkthrough aggregate by session ID query parameter
func (h *WalkthroughHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.URL.Query().Get("sessionId"))
	if err != nil {
		response.ValidationError(w, "Invalid sessionId", nil)
		return
	}

	detail, err := h.walkthroughService.Get(r.Context(), sessionID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, detail)
}

// Prefill extracts driver answers and an agentic profile from the PRD
func (h *WalkthroughHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	var input sessionRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	prefill, err := h.walkthroughService.PrefillDrivers(r.Context(), input.SessionID,
		callContext(r, "tech-walkthrough/prefill", input.SessionID.String()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, prefill)
}

// SaveDrivers upserts a batch of driver answers
func (h *WalkthroughHandler) SaveDrivers(w http.ResponseWriter, r *http.Request) {
	var input struct {
		WalkthroughID uuid.UUID             `json:"walkthroughId" validate:"required"`
		Drivers       []service.DriverInput `json:"drivers" validate:"required,dive"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	saved, err := h.walkthroughService.SaveDrivers(r.Context(), input.WalkthroughID, input.Drivers)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]int{"saved": saved})
}

// SaveAgenticProfile upserts the walkthrough's agentic profile
func (h *WalkthroughHandler) SaveAgenticProfile(w http.ResponseWriter, r *http.Request) {
	var input struct {
		WalkthroughID uuid.UUID `json:"walkthroughId" validate:"required"`
		service.AgenticProfileInput
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	profile, err := h.walkthroughService.SaveAgenticProfile(r.Context(), input.WalkthroughID, input.AgenticProfileInput)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]any{"agenticProfile": profile})
}

// ProposeDecisions replaces the decision set with a fresh model proposal
func (h *WalkthroughHandler) ProposeDecisions(w http.ResponseWriter, r *http.Request) {
	var input struct {
		WalkthroughID uuid.UUID `json:"walkthroughId" validate:"required"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	decisions, err := h.walkthroughService.ProposeDecisions(r.Context(), input.WalkthroughID,
		callContext(r, "tech-walkthrough/decisions/propose", ""))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]any{"decisions": decisions})
}

// UpdateDecision applies a partial edit to one decision
func (h *WalkthroughHandler) UpdateDecision(w http.ResponseWriter, r *http.Request) {
	var input struct {
		DecisionID uuid.UUID             `json:"decisionId" validate:"required"`
		Update     domain.DecisionUpdate `json:"update"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	if err := h.walkthroughService.UpdateDecision(r.Context(), input.DecisionID, input.Update); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]bool{"updated": true})
}

// GenerateSpec writes the tech spec artifact and completes the walkthrough
func (h *WalkthroughHandler) GenerateSpec(w http.ResponseWriter, r *http.Request) {
	var input struct {
		WalkthroughID uuid.UUID `json:"walkthroughId" validate:"required"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	artifact, err := h.walkthroughService.GenerateSpec(r.Context(), input.WalkthroughID,
		callContext(r, "tech-walkthrough/generate-spec", ""))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]any{"spec": artifact.ContentMd, "artifact": artifact})
}

// GenerateDiagram produces a Mermaid architecture diagram
func (h *WalkthroughHandler) GenerateDiagram(w http.ResponseWriter, r *http.Request) {
	var input struct {
		WalkthroughID uuid.UUID `json:"walkthroughId" validate:"required"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	diagram, err := h.walkthroughService.GenerateDiagram(r.Context(), input.WalkthroughID,
		callContext(r, "tech-walkthrough/generate-diagram", ""))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{"diagram": diagram})
}

// SuggestDriver offers alternative answers for one driver question
func (h *WalkthroughHandler) SuggestDriver(w http.ResponseWriter, r *http.Request) {
	var input struct {
		WalkthroughID uuid.UUID `json:"walkthroughId" validate:"required"`
		QuestionKey   string    `json:"questionKey" validate:"required"`
		CurrentAnswer string    `json:"currentAnswer"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	suggestions, err := h.walkthroughService.SuggestDriver(r.Context(), input.WalkthroughID, input.QuestionKey, input.CurrentAnswer,
		callContext(r, "tech-walkthrough/suggest", ""))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]any{"suggestions": suggestions})
}
