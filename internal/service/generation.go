package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/decisionloom/decisionloom/internal/config"
	"github.com/decisionloom/decisionloom/internal/domain"
	"github.com/decisionloom/decisionloom/internal/llm"
	"github.com/decisionloom/decisionloom/internal/llm/prompt"
)

// Token budgets per stage family. Generation stages get room for full
// documents; the helper stages stay small.
const (
	maxTokensSuggest    = 1000
	maxTokensSummarize  = 1000
	maxTokensPrefill    = 4000
	maxTokensIdeas      = 2000
	maxTokensPRD        = 8000
	maxTokensTechSpec   = 16000
	maxTokensReflection = 6000
	maxTokensRefine     = 4000
)

// ideaCount is the fixed size of an idea-explorer response
const ideaCount = 3

// GenerationService orchestrates every model-backed operation on the
// session aggregate: prefill, suggestions, summaries, document
// generation and chat refinement.
type GenerationService struct {
	client       llm.Client
	models       config.ModelConfig
	sessionSvc   *SessionService
	sessionRepo  domain.SessionRepository
	artifactRepo domain.ArtifactRepository
}

// NewGenerationService creates a new generation service
func NewGenerationService(
	client llm.Client,
	models config.ModelConfig,
	sessionSvc *SessionService,
	sessionRepo domain.SessionRepository,
	artifactRepo domain.ArtifactRepository,
) *GenerationService {
	return &GenerationService{
		client:       client,
		models:       models,
		sessionSvc:   sessionSvc,
		sessionRepo:  sessionRepo,
		artifactRepo: artifactRepo,
	}
}

// Suggestion is one reviewable idea offered for a section
type Suggestion struct {
	ID   uuid.UUID `json:"id"`
	Type string    `json:"type"`
	Text string    `json:"text"`
}

// Prefill drafts initial answers for every section from a product description
func (s *GenerationService) Prefill(ctx context.Context, description string, callCtx llm.CallContext) (map[domain.SectionKey][]domain.QAItem, error) {
	p := prompt.Prefill(description)
	raw, err := s.client.Complete(ctx, llm.Request{
		Model:        s.models.Generate,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensPrefill,
		Context:      callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to prefill answers")
	}

	var payload struct {
		Answers map[domain.SectionKey]struct {
			QA []domain.QAItem `json:"qa"`
		} `json:"answers"`
	}
	if err := json.Unmarshal([]byte(llm.Extract(raw, llm.JSONObject)), &payload); err != nil {
		log.Error().Err(err).Str("content", truncate(raw, 500)).Msg("failed to parse prefill response")
		return nil, domain.NewError(domain.CodeParse, "Model returned unparseable prefill output")
	}

	answers := make(map[domain.SectionKey][]domain.QAItem, len(payload.Answers))
	for key, entry := range payload.Answers {
		if domain.ValidSectionKey(key) {
			answers[key] = entry.QA
		}
	}
	return answers, nil
}

// Suggest offers 3-5 suggestions for a section's current text. A response
// that cannot be parsed as a suggestion array degrades to one example
// suggestion carrying the raw text.
func (s *GenerationService) Suggest(ctx context.Context, sessionID uuid.UUID, key domain.SectionKey, currentText string, callCtx llm.CallContext) ([]Suggestion, error) {
	if !domain.ValidSectionKey(key) {
		return nil, domain.NewError(domain.CodeValidation, "Unknown section key")
	}

	if _, err := s.sessionSvc.liveSession(ctx, sessionID); err != nil {
		return nil, err
	}
	summaries, err := s.sessionRepo.ListSectionSummaries(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	p := prompt.Suggest(key, currentText, summaries)
	raw, err := s.client.Complete(ctx, llm.Request{
		Model:        s.models.Suggest,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensSuggest,
		Context:      callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to generate suggestions")
	}

	var parsed []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(llm.Extract(raw, llm.JSONArray)), &parsed); err != nil {
		return []Suggestion{{ID: uuid.New(), Type: "example", Text: strings.TrimSpace(raw)}}, nil
	}

	suggestions := make([]Suggestion, 0, len(parsed))
	for _, item := range parsed {
		suggestions = append(suggestions, Suggestion{ID: uuid.New(), Type: item.Type, Text: item.Text})
	}
	return suggestions, nil
}

// IdeaQuestionInput is one answered brainstorming prompt
type IdeaQuestionInput struct {
	Label    string `json:"label" validate:"required"`
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"`
}

// IdeaSuggestion is one concrete app idea from the explorer
type IdeaSuggestion struct {
	Title              string `json:"title"`
	OneLiner           string `json:"oneLiner"`
	DescriptionToPaste string `json:"descriptionToPaste"`
}

// ExploreIdeas converges brainstorming answers into exactly three
// concrete app ideas. A response without three ideas is a parse failure.
func (s *GenerationService) ExploreIdeas(ctx context.Context, questionSetID string, questions []IdeaQuestionInput, callCtx llm.CallContext) ([]IdeaSuggestion, error) {
	promptQuestions := make([]prompt.IdeaQuestion, len(questions))
	for i, q := range questions {
		promptQuestions[i] = prompt.IdeaQuestion{Label: q.Label, Question: q.Question, Answer: q.Answer}
	}

	p := prompt.ExploreIdeas(questionSetID, promptQuestions)
	raw, err := s.client.Complete(ctx, llm.Request{
		Model:        s.models.Suggest,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensIdeas,
		Context:      callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to generate ideas")
	}

	var ideas []IdeaSuggestion
	if err := json.Unmarshal([]byte(llm.Extract(raw, llm.JSONArray)), &ideas); err != nil || len(ideas) != ideaCount {
		log.Error().Err(err).Str("content", truncate(raw, 500)).Msg("failed to parse idea suggestions")
		return nil, domain.NewError(domain.CodeParse, "Failed to parse ideas. Try again?")
	}
	return ideas, nil
}

// Summarize condenses one section's saved answers and persists the summary
func (s *GenerationService) Summarize(ctx context.Context, sessionID uuid.UUID, key domain.SectionKey, callCtx llm.CallContext) (*domain.SectionSummary, error) {
	if !domain.ValidSectionKey(key) {
		return nil, domain.NewError(domain.CodeValidation, "Unknown section key")
	}

	if _, err := s.sessionSvc.liveSession(ctx, sessionID); err != nil {
		return nil, err
	}

	answer, err := s.sessionRepo.GetSectionAnswer(ctx, sessionID, key)
	if err != nil {
		return nil, err
	}

	p := prompt.Summarize(key, answer.QA, answer.Notes)
	text, err := s.client.Complete(ctx, llm.Request{
		Model:        s.models.Summarize,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensSummarize,
		Context:      callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to summarize section")
	}

	summary := &domain.SectionSummary{
		SessionID: sessionID,
		Key:       key,
		Summary:   strings.TrimSpace(text),
		UpdatedAt: time.Now(),
	}
	if err := s.sessionRepo.UpsertSectionSummary(ctx, summary); err != nil {
		return nil, err
	}
	s.invalidate(ctx, sessionID)
	return summary, nil
}

// GeneratePRD produces the PRD in one buffered call and stores it
func (s *GenerationService) GeneratePRD(ctx context.Context, sessionID uuid.UUID, callCtx llm.CallContext) (*domain.Artifact, error) {
	detail, err := s.sessionSvc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	p := prompt.GeneratePRD(detail.Session.Title, detail.Sections, detail.Summaries, detail.Session.ProductDescription)
	content, err := s.client.Complete(ctx, llm.Request{
		Model:        s.models.Generate,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensPRD,
		Context:      callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to generate PRD")
	}

	return s.saveArtifact(ctx, sessionID, domain.ArtifactPRD, "Product Requirements Document", content)
}

// GeneratePRDStream streams the PRD and stores the concatenated document
// once the stream finishes cleanly.
func (s *GenerationService) GeneratePRDStream(ctx context.Context, sessionID uuid.UUID, callCtx llm.CallContext) (<-chan llm.StreamChunk, error) {
	detail, err := s.sessionSvc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	p := prompt.GeneratePRD(detail.Session.Title, detail.Sections, detail.Summaries, detail.Session.ProductDescription)
	inner, err := s.client.CompleteStream(ctx, llm.Request{
		Model:        s.models.Generate,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensPRD,
		Context:      callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to generate PRD")
	}

	return s.persistOnFinish(ctx, inner, sessionID, domain.ArtifactPRD, "Product Requirements Document"), nil
}

// GenerateTechSpec produces the tech spec in one buffered call. The PRD
// must exist before any model tokens are spent.
func (s *GenerationService) GenerateTechSpec(ctx context.Context, sessionID uuid.UUID, callCtx llm.CallContext) (*domain.Artifact, error) {
	detail, prd, err := s.techSpecInputs(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	p := prompt.GenerateTechSpec(detail.Session.Title, prd.ContentMd, detail.Summaries)
	content, err := s.client.Complete(ctx, llm.Request{
		Model:        s.models.Generate,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensTechSpec,
		Context:      callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to generate tech spec")
	}

	return s.saveArtifact(ctx, sessionID, domain.ArtifactTechSpec, "Technical Specification", content)
}

// GenerateTechSpecStream is GenerateTechSpec over the streaming transport
func (s *GenerationService) GenerateTechSpecStream(ctx context.Context, sessionID uuid.UUID, callCtx llm.CallContext) (<-chan llm.StreamChunk, error) {
	detail, prd, err := s.techSpecInputs(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	p := prompt.GenerateTechSpec(detail.Session.Title, prd.ContentMd, detail.Summaries)
	inner, err := s.client.CompleteStream(ctx, llm.Request{
		Model:        s.models.Generate,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensTechSpec,
		Context:      callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to generate tech spec")
	}

	return s.persistOnFinish(ctx, inner, sessionID, domain.ArtifactTechSpec, "Technical Specification"), nil
}

func (s *GenerationService) techSpecInputs(ctx context.Context, sessionID uuid.UUID) (*domain.SessionDetail, *domain.Artifact, error) {
	detail, err := s.sessionSvc.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	prd, err := s.artifactRepo.Get(ctx, sessionID, domain.ArtifactPRD)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, domain.NewError(domain.CodePrerequisiteMissing, "Generate a PRD before the tech spec")
		}
		return nil, nil, err
	}
	return detail, prd, nil
}

// GenerateReflection pressure-tests the finished document pair
func (s *GenerationService) GenerateReflection(ctx context.Context, sessionID uuid.UUID, callCtx llm.CallContext) (string, error) {
	detail, err := s.sessionSvc.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	var prd, techSpec *domain.Artifact
	for i := range detail.Artifacts {
		switch detail.Artifacts[i].Type {
		case domain.ArtifactPRD:
			prd = &detail.Artifacts[i]
		case domain.ArtifactTechSpec:
			techSpec = &detail.Artifacts[i]
		}
	}
	if prd == nil || techSpec == nil {
		return "", domain.NewError(domain.CodeMissingArtifacts, "Both PRD and Tech Spec must be generated first")
	}

	p := prompt.Reflection(detail.Session.Title, detail.Session.ProductDescription, prd.ContentMd, techSpec.ContentMd)
	content, err := s.client.Complete(ctx, llm.Request{
		Model:        s.models.Reflect,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensReflection,
		Context:      callCtx,
	})
	if err != nil {
		return "", upstreamError(err, "Failed to generate reflections")
	}
	return strings.TrimSpace(content), nil
}

// Refine streams a chat turn about an artifact. When the response carries
// the artifact-update marker, the replacement document is stored after
// the stream completes.
func (s *GenerationService) Refine(ctx context.Context, sessionID uuid.UUID, artifactType domain.ArtifactType, message string, callCtx llm.CallContext) (<-chan llm.StreamChunk, error) {
	if !domain.ValidArtifactType(artifactType) {
		return nil, domain.NewError(domain.CodeValidation, "Unknown artifact type")
	}

	if _, err := s.sessionSvc.liveSession(ctx, sessionID); err != nil {
		return nil, err
	}

	artifact, err := s.artifactRepo.Get(ctx, sessionID, artifactType)
	if err != nil {
		return nil, err
	}

	inner, err := s.client.CompleteChatStream(ctx, llm.ChatRequest{
		Model: s.models.Refine,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: prompt.RefineSystem(artifactType, artifact.ContentMd)},
			{Role: llm.RoleUser, Content: message},
		},
		MaxTokens: maxTokensRefine,
		Context:   callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to refine document")
	}

	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		var full strings.Builder
		for chunk := range inner {
			if chunk.Err != nil {
				out <- chunk
				return
			}
			full.WriteString(chunk.Text)
			out <- chunk
		}

		if _, updated, found := strings.Cut(full.String(), prompt.ArtifactUpdateMarker); found {
			s.persistAfterStream(ctx, sessionID, artifactType, artifact.Title, strings.TrimSpace(updated))
		}
	}()
	return out, nil
}

// persistOnFinish forwards the stream while accumulating text, then
// upserts the artifact if the stream ended without an error chunk.
func (s *GenerationService) persistOnFinish(ctx context.Context, inner <-chan llm.StreamChunk, sessionID uuid.UUID, artifactType domain.ArtifactType, title string) <-chan llm.StreamChunk {
	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		var full strings.Builder
		for chunk := range inner {
			if chunk.Err != nil {
				out <- chunk
				return
			}
			full.WriteString(chunk.Text)
			out <- chunk
		}

		s.persistAfterStream(ctx, sessionID, artifactType, title, full.String())
	}()
	return out
}

// persistAfterStream stores a streamed document once its stream has
// drained. A cancelled request context means the upstream stream was cut
// short, so the partial text is discarded rather than upserted over a
// complete document. A clean finish saves under a fresh deadline because
// the request context may already be done.
func (s *GenerationService) persistAfterStream(ctx context.Context, sessionID uuid.UUID, artifactType domain.ArtifactType, title, content string) {
	if ctx.Err() != nil {
		log.Warn().
			Str("session_id", sessionID.String()).
			Str("artifact_type", string(artifactType)).
			Msg("stream cut short; artifact not stored")
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if _, err := s.saveArtifact(saveCtx, sessionID, artifactType, title, content); err != nil {
		log.Error().Err(err).
			Str("session_id", sessionID.String()).
			Str("artifact_type", string(artifactType)).
			Msg("failed to store streamed artifact")
	}
}

func (s *GenerationService) saveArtifact(ctx context.Context, sessionID uuid.UUID, artifactType domain.ArtifactType, title, content string) (*domain.Artifact, error) {
	now := time.Now()
	artifact := &domain.Artifact{
		ID:        domain.ArtifactID(sessionID, artifactType),
		SessionID: sessionID,
		Type:      artifactType,
		Title:     title,
		ContentMd: content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.artifactRepo.Upsert(ctx, artifact); err != nil {
		return nil, err
	}
	s.invalidate(ctx, sessionID)
	return artifact, nil
}

func (s *GenerationService) invalidate(ctx context.Context, sessionID uuid.UUID) {
	if err := s.sessionSvc.cache.Invalidate(ctx, sessionID); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate session cache")
	}
}

// upstreamError maps a completion failure to the API error taxonomy
func upstreamError(err error, message string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewError(domain.CodeGatewayTimeout, "Upstream model timed out")
	}
	log.Error().Err(err).Msg("completion request failed")
	return domain.NewError(domain.CodeInternal, message)
}

func isNotFound(err error) bool {
	var domainErr *domain.Error
	return errors.As(err, &domainErr) && domainErr.Code == domain.CodeNotFound
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
