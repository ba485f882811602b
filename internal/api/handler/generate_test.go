package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decisionloom/decisionloom/internal/config"
	"github.com/decisionloom/decisionloom/internal/domain"
	"github.com/decisionloom/decisionloom/internal/repository/redis"
	"github.com/decisionloom/decisionloom/internal/service"
)

// generateTestHandler builds a handler whose service layer is never
// reached; these tests only exercise the decode/validate path.
func generateTestHandler() (*GenerateHandler, *RefineHandler) {
	repo := newFakeSessionRepo()
	sessionSvc := service.NewSessionService(repo, redis.NewSessionCache(nil))
	generationSvc := service.NewGenerationService(nil, config.ModelConfig{}, sessionSvc, repo, nil)
	return NewGenerateHandler(generationSvc), NewRefineHandler(generationSvc)
}

func TestPrefill_RequiresDescription(t *testing.T) {
	h, _ := generateTestHandler()

	rec := doJSON(t, http.HandlerFunc(h.Prefill), http.MethodPost, "/generate/prefill", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	details := env.Error.Details.(map[string]any)
	assert.Equal(t, "field is required", details["Description"])
}

func TestPrefill_RejectsShortDescription(t *testing.T) {
	h, _ := generateTestHandler()

	rec := doJSON(t, http.HandlerFunc(h.Prefill), http.MethodPost, "/generate/prefill", `{"description":"tiny"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	details := env.Error.Details.(map[string]any)
	assert.Equal(t, "must be at least 10 characters", details["Description"])
}

func TestPRD_RequiresSessionID(t *testing.T) {
	h, _ := generateTestHandler()

	rec := doJSON(t, http.HandlerFunc(h.PRD), http.MethodPost, "/generate/prd", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	details := env.Error.Details.(map[string]any)
	assert.Equal(t, "field is required", details["SessionID"])
}

func TestRefine_RejectsUnknownArtifactType(t *testing.T) {
	_, h := generateTestHandler()

	body := `{"sessionId":"` + uuid.NewString() + `","message":"tighten it","artifactType":"DIAGRAM"}`
	rec := doJSON(t, http.HandlerFunc(h.Refine), http.MethodPost, "/refine", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, domain.CodeValidation, env.Error.Code)
	details := env.Error.Details.(map[string]any)
	assert.Equal(t, "must be one of PRD TECH_SPEC", details["ArtifactType"])
}

func TestRefine_RequiresMessage(t *testing.T) {
	_, h := generateTestHandler()

	body := `{"sessionId":"` + uuid.NewString() + `","artifactType":"PRD"}`
	rec := doJSON(t, http.HandlerFunc(h.Refine), http.MethodPost, "/refine", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	details := env.Error.Details.(map[string]any)
	assert.Equal(t, "field is required", details["Message"])
}
