package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/decisionloom/decisionloom/internal/config"
	"github.com/decisionloom/decisionloom/internal/content"
	"github.com/decisionloom/decisionloom/internal/domain"
	"github.com/decisionloom/decisionloom/internal/llm"
	"github.com/decisionloom/decisionloom/internal/llm/prompt"
)

const (
	maxTokensDecisions     = 8000
	maxTokensSpec          = 16000
	maxTokensDiagram       = 2000
	maxTokensDriverSuggest = 1000
	maxTokensDriverPrefill = 2000
)

// WalkthroughService orchestrates the architecture walkthrough: drivers,
// the agentic profile, proposed decisions and the final spec and diagram.
type WalkthroughService struct {
	client          llm.Client
	models          config.ModelConfig
	sessionRepo     domain.SessionRepository
	walkthroughRepo domain.WalkthroughRepository
	artifactRepo    domain.ArtifactRepository
	generationSvc   *GenerationService
}

// NewWalkthroughService creates a new walkthrough service
func NewWalkthroughService(
	client llm.Client,
	models config.ModelConfig,
	sessionRepo domain.SessionRepository,
	walkthroughRepo domain.WalkthroughRepository,
	artifactRepo domain.ArtifactRepository,
	generationSvc *GenerationService,
) *WalkthroughService {
	return &WalkthroughService{
		client:          client,
		models:          models,
		sessionRepo:     sessionRepo,
		walkthroughRepo: walkthroughRepo,
		artifactRepo:    artifactRepo,
		generationSvc:   generationSvc,
	}
}

// Start returns the walkthrough for a session, creating it on first use.
// A missing session is recreated and an expired one gets a fresh expiry,
// so a client holding an old session ID can always resume here.
func (s *WalkthroughService) Start(ctx context.Context, sessionID uuid.UUID) (*domain.WalkthroughDetail, error) {
	now := time.Now()
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		restored := &domain.Session{
			ID:        sessionID,
			Title:     "Restored Session",
			ExpiresAt: now.Add(sessionTTL),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.sessionRepo.Create(ctx, restored); err != nil {
			return nil, err
		}
		log.Info().Str("session_id", sessionID.String()).Msg("session restored")
	} else if session.Expired() {
		session.ExpiresAt = now.Add(sessionTTL)
		session.UpdatedAt = now
		if err := s.sessionRepo.Update(ctx, session); err != nil {
			return nil, err
		}
		log.Info().Str("session_id", sessionID.String()).Msg("session expiry extended")
	}

	if _, err := s.walkthroughRepo.GetOrCreate(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.walkthroughRepo.GetBySession(ctx, sessionID)
}

// Get loads the walkthrough aggregate for a session
func (s *WalkthroughService) Get(ctx context.Context, sessionID uuid.UUID) (*domain.WalkthroughDetail, error) {
	return s.walkthroughRepo.GetBySession(ctx, sessionID)
}

// DriverInput is one driver answer in a batch save
type DriverInput struct {
	QuestionKey string `json:"questionKey" validate:"required"`
	Answer      string `json:"answer"`
}

// SaveDrivers upserts a batch of driver answers and returns the count saved.
// Answers are independent; a batch is not transactional.
func (s *WalkthroughService) SaveDrivers(ctx context.Context, walkthroughID uuid.UUID, drivers []DriverInput) (int, error) {
	for _, d := range drivers {
		if _, ok := content.GetDriverQuestion(d.QuestionKey); !ok {
			return 0, domain.NewError(domain.CodeValidation, "Unknown driver question key: "+d.QuestionKey)
		}
	}

	if _, err := s.walkthroughRepo.Get(ctx, walkthroughID); err != nil {
		return 0, err
	}

	now := time.Now()
	for _, d := range drivers {
		answer := &domain.DriverAnswer{
			WalkthroughID: walkthroughID,
			QuestionKey:   d.QuestionKey,
			Answer:        d.Answer,
			UpdatedAt:     now,
		}
		if err := s.walkthroughRepo.UpsertDriverAnswer(ctx, answer); err != nil {
			return 0, err
		}
	}
	return len(drivers), nil
}

// AgenticProfileInput carries the full replacement profile
type AgenticProfileInput struct {
	AgenticMode           domain.AgenticMode `json:"agenticMode" validate:"required,oneof=none assistive semi_autonomous autonomous"`
	OrchestrationShape    string             `json:"orchestrationShape"`
	ToolCapabilities      []string           `json:"toolCapabilities"`
	MemoryRequirements    string             `json:"memoryRequirements"`
	HumanApprovalRequired []string           `json:"humanApprovalRequired"`
	GuardrailsNotes       string             `json:"guardrailsNotes"`
}

// SaveAgenticProfile upserts the walkthrough's singleton agentic profile
func (s *WalkthroughService) SaveAgenticProfile(ctx context.Context, walkthroughID uuid.UUID, input AgenticProfileInput) (*domain.AgenticProfile, error) {
	if _, err := s.walkthroughRepo.Get(ctx, walkthroughID); err != nil {
		return nil, err
	}

	profile := &domain.AgenticProfile{
		WalkthroughID:         walkthroughID,
		AgenticMode:           input.AgenticMode,
		OrchestrationShape:    input.OrchestrationShape,
		ToolCapabilities:      input.ToolCapabilities,
		MemoryRequirements:    input.MemoryRequirements,
		HumanApprovalRequired: input.HumanApprovalRequired,
		GuardrailsNotes:       input.GuardrailsNotes,
		UpdatedAt:             time.Now(),
	}
	if profile.ToolCapabilities == nil {
		profile.ToolCapabilities = []string{}
	}
	if profile.HumanApprovalRequired == nil {
		profile.HumanApprovalRequired = []string{}
	}

	if err := s.walkthroughRepo.UpsertAgenticProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// DriverPrefill carries extracted driver answers and, when the PRD
// suggests one, a proposed agentic profile.
type DriverPrefill struct {
	Answers        map[string]string    `json:"answers"`
	AgenticProfile *AgenticProfileInput `json:"agenticProfile,omitempty"`
}

// PrefillDrivers extracts driver answers and an agentic profile from the
// session's PRD. Nothing is persisted; the client reviews the proposal
// and saves through the drivers and agentic-profile endpoints.
func (s *WalkthroughService) PrefillDrivers(ctx context.Context, sessionID uuid.UUID, callCtx llm.CallContext) (*DriverPrefill, error) {
	prd, err := s.artifactRepo.Get(ctx, sessionID, domain.ArtifactPRD)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewError(domain.CodePrerequisiteMissing, "Generate a PRD before the walkthrough stages")
		}
		return nil, err
	}

	p := prompt.WalkthroughPrefill(prd.ContentMd)
	raw, err := s.client.Complete(ctx, llm.Request{
		Model:        s.models.Suggest,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensDriverPrefill,
		Context:      callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to prefill answers")
	}

	var payload struct {
		Drivers        map[string]string    `json:"drivers"`
		AgenticProfile *AgenticProfileInput `json:"agenticProfile"`
	}
	if err := json.Unmarshal([]byte(llm.Extract(raw, llm.JSONObject)), &payload); err != nil {
		log.Error().Err(err).Str("content", truncate(raw, 500)).Msg("failed to parse driver prefill response")
		return nil, domain.NewError(domain.CodeParse, "Model returned unparseable prefill output")
	}

	answers := make(map[string]string, len(payload.Drivers))
	for key, answer := range payload.Drivers {
		if _, ok := content.GetDriverQuestion(key); ok {
			answers[key] = answer
		}
	}

	profile := payload.AgenticProfile
	if profile != nil {
		switch profile.AgenticMode {
		case domain.AgenticNone, domain.AgenticAssistive, domain.AgenticSemiAutonomous, domain.AgenticAutonomous:
		default:
			profile = nil
		}
	}

	return &DriverPrefill{Answers: answers, AgenticProfile: profile}, nil
}

// ProposeDecisions asks the model for 5-7 decisions and replaces the
// stored set wholesale. Previous decision IDs become invalid.
func (s *WalkthroughService) ProposeDecisions(ctx context.Context, walkthroughID uuid.UUID, callCtx llm.CallContext) ([]domain.ArchitectureDecision, error) {
	walkthrough, prd, drivers, err := s.proposalInputs(ctx, walkthroughID)
	if err != nil {
		return nil, err
	}

	profile, err := s.walkthroughRepo.GetAgenticProfile(ctx, walkthroughID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	p := prompt.ProposeDecisions(prd.ContentMd, drivers, profile)
	raw, err := s.client.Complete(ctx, llm.Request{
		Model:        s.models.Generate,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensDecisions,
		Context:      callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to propose decisions")
	}

	var proposed []struct {
		Title                  string   `json:"title"`
		Area                   string   `json:"area"`
		ChosenOption           string   `json:"chosenOption"`
		Alternatives           []string `json:"alternatives"`
		Tradeoffs              string   `json:"tradeoffs"`
		UserVisibleConsequence string   `json:"userVisibleConsequence"`
		MVPImpact              string   `json:"mvpImpact"`
		OpenQuestions          string   `json:"openQuestions"`
	}
	if err := json.Unmarshal([]byte(llm.Extract(raw, llm.JSONArray)), &proposed); err != nil {
		log.Error().Err(err).Str("content", truncate(raw, 500)).Msg("failed to parse proposed decisions")
		return nil, domain.NewError(domain.CodeInternal, "Failed to propose decisions")
	}

	decisions := make([]domain.ArchitectureDecision, 0, len(proposed))
	for _, d := range proposed {
		decisions = append(decisions, domain.ArchitectureDecision{
			Title:                  d.Title,
			Area:                   d.Area,
			ChosenOption:           d.ChosenOption,
			Alternatives:           d.Alternatives,
			Tradeoffs:              d.Tradeoffs,
			UserVisibleConsequence: d.UserVisibleConsequence,
			MVPImpact:              d.MVPImpact,
			OpenQuestions:          d.OpenQuestions,
			Status:                 domain.DecisionTentative,
		})
	}

	created, err := s.walkthroughRepo.ReplaceDecisions(ctx, walkthrough.ID, decisions)
	if err != nil {
		return nil, err
	}
	log.Info().Int("count", len(created)).Str("walkthrough_id", walkthrough.ID.String()).Msg("decisions proposed")
	return created, nil
}

// UpdateDecision applies a partial edit to one decision
func (s *WalkthroughService) UpdateDecision(ctx context.Context, decisionID uuid.UUID, update domain.DecisionUpdate) error {
	if update.Status != nil {
		switch *update.Status {
		case domain.DecisionTentative, domain.DecisionApproved:
		default:
			return domain.NewError(domain.CodeValidation, "Unknown decision status")
		}
	}
	return s.walkthroughRepo.UpdateDecision(ctx, decisionID, update)
}

// GenerateSpec turns the decisions into the tech spec artifact and marks
// the walkthrough completed.
func (s *WalkthroughService) GenerateSpec(ctx context.Context, walkthroughID uuid.UUID, callCtx llm.CallContext) (*domain.Artifact, error) {
	walkthrough, prd, drivers, err := s.proposalInputs(ctx, walkthroughID)
	if err != nil {
		return nil, err
	}

	decisions, err := s.walkthroughRepo.ListDecisions(ctx, walkthroughID)
	if err != nil {
		return nil, err
	}

	p := prompt.WalkthroughSpec(prd.ContentMd, drivers, decisions)
	content, err := s.client.Complete(ctx, llm.Request{
		Model:        s.models.Generate,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensSpec,
		Context:      callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to generate spec")
	}

	artifact, err := s.generationSvc.saveArtifact(ctx, walkthrough.SessionID, domain.ArtifactTechSpec, "Technical Specification", content)
	if err != nil {
		return nil, err
	}

	if err := s.walkthroughRepo.UpdateStatus(ctx, walkthroughID, domain.WalkthroughCompleted); err != nil {
		return nil, err
	}
	return artifact, nil
}

// GenerateDiagram produces a Mermaid architecture diagram. The diagram is
// a side output and is not persisted.
func (s *WalkthroughService) GenerateDiagram(ctx context.Context, walkthroughID uuid.UUID, callCtx llm.CallContext) (string, error) {
	_, prd, drivers, err := s.proposalInputs(ctx, walkthroughID)
	if err != nil {
		return "", err
	}

	decisions, err := s.walkthroughRepo.ListDecisions(ctx, walkthroughID)
	if err != nil {
		return "", err
	}

	p := prompt.Diagram(prd.ContentMd, drivers, decisions)
	raw, err := s.client.Complete(ctx, llm.Request{
		Model:        s.models.Suggest,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensDiagram,
		Context:      callCtx,
	})
	if err != nil {
		return "", upstreamError(err, "Failed to generate diagram")
	}
	return llm.Extract(raw, llm.Mermaid), nil
}

// SuggestDriver offers 2-3 alternative answers for one driver question.
// An unparseable response degrades to a single raw-text suggestion.
func (s *WalkthroughService) SuggestDriver(ctx context.Context, walkthroughID uuid.UUID, questionKey, currentAnswer string, callCtx llm.CallContext) ([]string, error) {
	_, prd, _, err := s.proposalInputs(ctx, walkthroughID)
	if err != nil {
		return nil, err
	}

	p := prompt.DriverSuggest(prd.ContentMd, questionKey, currentAnswer)
	raw, err := s.client.Complete(ctx, llm.Request{
		Model:        s.models.Suggest,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokensDriverSuggest,
		Context:      callCtx,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to get suggestions")
	}

	var suggestions []string
	if err := json.Unmarshal([]byte(llm.Extract(raw, llm.JSONArray)), &suggestions); err != nil {
		return []string{strings.TrimSpace(raw)}, nil
	}
	return suggestions, nil
}

// proposalInputs loads the walkthrough with the PRD and driver answers
// every model-backed walkthrough stage needs.
func (s *WalkthroughService) proposalInputs(ctx context.Context, walkthroughID uuid.UUID) (*domain.TechWalkthrough, *domain.Artifact, []domain.DriverAnswer, error) {
	walkthrough, err := s.walkthroughRepo.Get(ctx, walkthroughID)
	if err != nil {
		return nil, nil, nil, err
	}

	prd, err := s.artifactRepo.Get(ctx, walkthrough.SessionID, domain.ArtifactPRD)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, nil, domain.NewError(domain.CodePrerequisiteMissing, "Generate a PRD before the walkthrough stages")
		}
		return nil, nil, nil, err
	}

	drivers, err := s.walkthroughRepo.ListDriverAnswers(ctx, walkthroughID)
	if err != nil {
		return nil, nil, nil, err
	}
	return walkthrough, prd, drivers, nil
}
