package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/decisionloom/decisionloom/internal/config"
	"github.com/decisionloom/decisionloom/internal/domain"
	"github.com/decisionloom/decisionloom/internal/llm"
)

var testModels = config.ModelConfig{
	Suggest:   "test/suggest",
	Summarize: "test/summarize",
	Generate:  "test/generate",
	Refine:    "test/refine",
	Reflect:   "test/reflect",
}

type generationFixture struct {
	client       *MockClient
	sessionRepo  *MockSessionRepository
	artifactRepo *MockArtifactRepository
	svc          *GenerationService
}

func newGenerationFixture() *generationFixture {
	client := new(MockClient)
	sessionRepo := new(MockSessionRepository)
	artifactRepo := new(MockArtifactRepository)
	sessionSvc := newSessionService(sessionRepo)
	return &generationFixture{
		client:       client,
		sessionRepo:  sessionRepo,
		artifactRepo: artifactRepo,
		svc:          NewGenerationService(client, testModels, sessionSvc, sessionRepo, artifactRepo),
	}
}

func detailFixture(sessionID uuid.UUID, artifacts ...domain.Artifact) *domain.SessionDetail {
	return &domain.SessionDetail{
		Session:   liveSessionFixture(sessionID),
		Sections:  []domain.SectionAnswer{},
		Summaries: []domain.SectionSummary{},
		Artifacts: artifacts,
	}
}

func artifactFixture(sessionID uuid.UUID, t domain.ArtifactType, content string) domain.Artifact {
	now := time.Now()
	return domain.Artifact{
		ID:        domain.ArtifactID(sessionID, t),
		SessionID: sessionID,
		Type:      t,
		Title:     string(t),
		ContentMd: content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// drain consumes a stream to completion and returns the concatenated text
func drain(t *testing.T, ch <-chan llm.StreamChunk) string {
	t.Helper()
	var full string
	for chunk := range ch {
		require.NoError(t, chunk.Err)
		full += chunk.Text
	}
	return full
}

func TestGenerateTechSpec_RequiresPRDBeforeModelCall(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	f.sessionRepo.On("GetDetail", mock.Anything, sessionID).Return(detailFixture(sessionID), nil)
	f.artifactRepo.On("Get", mock.Anything, sessionID, domain.ArtifactPRD).
		Return(nil, domain.ErrNotFound("artifact"))

	_, err := f.svc.GenerateTechSpec(context.Background(), sessionID, llm.CallContext{})

	assert.Equal(t, domain.CodePrerequisiteMissing, errCode(t, err))
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGenerateReflection_RequiresBothArtifacts(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	onlyPRD := detailFixture(sessionID, artifactFixture(sessionID, domain.ArtifactPRD, "prd"))
	f.sessionRepo.On("GetDetail", mock.Anything, sessionID).Return(onlyPRD, nil)

	_, err := f.svc.GenerateReflection(context.Background(), sessionID, llm.CallContext{})

	assert.Equal(t, domain.CodeMissingArtifacts, errCode(t, err))
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGenerateReflection_TrimsContent(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	detail := detailFixture(sessionID,
		artifactFixture(sessionID, domain.ArtifactPRD, "prd"),
		artifactFixture(sessionID, domain.ArtifactTechSpec, "spec"),
	)
	f.sessionRepo.On("GetDetail", mock.Anything, sessionID).Return(detail, nil)
	f.client.On("Complete", mock.Anything, mock.Anything).Return("\n## Pressure Tests\nbody\n", nil)

	content, err := f.svc.GenerateReflection(context.Background(), sessionID, llm.CallContext{})

	require.NoError(t, err)
	assert.Equal(t, "## Pressure Tests\nbody", content)
}

func TestSummarize_PersistsTrimmedSummary(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	f.sessionRepo.On("Get", mock.Anything, sessionID).Return(liveSessionFixture(sessionID), nil)
	f.sessionRepo.On("GetSectionAnswer", mock.Anything, sessionID, domain.SectionRisks).
		Return(&domain.SectionAnswer{
			SessionID: sessionID,
			Key:       domain.SectionRisks,
			QA:        []domain.QAItem{{Question: "q", Answer: "a"}},
		}, nil)
	f.client.On("Complete", mock.Anything, mock.Anything).Return("  The risks are X.  \n", nil)
	f.sessionRepo.On("UpsertSectionSummary", mock.Anything, mock.MatchedBy(func(s *domain.SectionSummary) bool {
		return s.SessionID == sessionID && s.Key == domain.SectionRisks && s.Summary == "The risks are X."
	})).Return(nil)

	summary, err := f.svc.Summarize(context.Background(), sessionID, domain.SectionRisks, llm.CallContext{})

	require.NoError(t, err)
	assert.Equal(t, "The risks are X.", summary.Summary)
	f.sessionRepo.AssertExpectations(t)
}

func TestSummarize_MissingAnswersPropagateNotFound(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	f.sessionRepo.On("Get", mock.Anything, sessionID).Return(liveSessionFixture(sessionID), nil)
	f.sessionRepo.On("GetSectionAnswer", mock.Anything, sessionID, domain.SectionFlow).
		Return(nil, domain.ErrNotFound("section answer"))

	_, err := f.svc.Summarize(context.Background(), sessionID, domain.SectionFlow, llm.CallContext{})

	assert.Equal(t, domain.CodeNotFound, errCode(t, err))
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestSuggest_ParsesSuggestionArray(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	f.sessionRepo.On("Get", mock.Anything, sessionID).Return(liveSessionFixture(sessionID), nil)
	f.sessionRepo.On("ListSectionSummaries", mock.Anything, sessionID).
		Return([]domain.SectionSummary{}, nil)
	f.client.On("Complete", mock.Anything, mock.Anything).
		Return("```json\n[{\"type\":\"risk\",\"text\":\"watch latency\"},{\"type\":\"question\",\"text\":\"who pays?\"}]\n```", nil)

	suggestions, err := f.svc.Suggest(context.Background(), sessionID, domain.SectionRisks, "text", llm.CallContext{})

	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "risk", suggestions[0].Type)
	assert.Equal(t, "watch latency", suggestions[0].Text)
	assert.NotEqual(t, uuid.Nil, suggestions[0].ID)
}

func TestSuggest_UnparseableResponseDegradesToExample(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	f.sessionRepo.On("Get", mock.Anything, sessionID).Return(liveSessionFixture(sessionID), nil)
	f.sessionRepo.On("ListSectionSummaries", mock.Anything, sessionID).
		Return([]domain.SectionSummary{}, nil)
	f.client.On("Complete", mock.Anything, mock.Anything).
		Return("  Consider adding a waitlist.  ", nil)

	suggestions, err := f.svc.Suggest(context.Background(), sessionID, domain.SectionWins, "text", llm.CallContext{})

	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "example", suggestions[0].Type)
	assert.Equal(t, "Consider adding a waitlist.", suggestions[0].Text)
}

func TestSuggest_RejectsUnknownSection(t *testing.T) {
	f := newGenerationFixture()

	_, err := f.svc.Suggest(context.Background(), uuid.New(), "BUDGET", "text", llm.CallContext{})

	assert.Equal(t, domain.CodeValidation, errCode(t, err))
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestPrefill_FiltersUnknownSectionKeys(t *testing.T) {
	f := newGenerationFixture()
	raw := `{"answers":{"CONTEXT":{"qa":[{"questionId":"ctx-1","question":"q","answer":"a"}]},"BUDGET":{"qa":[{"question":"x","answer":"y"}]}}}`
	f.client.On("Complete", mock.Anything, mock.Anything).Return(raw, nil)

	answers, err := f.svc.Prefill(context.Background(), "a product that does things", llm.CallContext{})

	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "a", answers[domain.SectionContext][0].Answer)
}

func TestPrefill_UnparseableResponseIsParseError(t *testing.T) {
	f := newGenerationFixture()
	f.client.On("Complete", mock.Anything, mock.Anything).Return("sorry, I can't do that", nil)

	_, err := f.svc.Prefill(context.Background(), "a product that does things", llm.CallContext{})

	assert.Equal(t, domain.CodeParse, errCode(t, err))
}

func TestGeneratePRD_StoresArtifactUnderCompositeID(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	f.sessionRepo.On("GetDetail", mock.Anything, sessionID).Return(detailFixture(sessionID), nil)
	f.client.On("Complete", mock.Anything, mock.Anything).Return("# PRD\nbody", nil)
	f.artifactRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(a *domain.Artifact) bool {
		return a.ID == domain.ArtifactID(sessionID, domain.ArtifactPRD) &&
			a.Type == domain.ArtifactPRD &&
			a.ContentMd == "# PRD\nbody"
	})).Return(nil)

	artifact, err := f.svc.GeneratePRD(context.Background(), sessionID, llm.CallContext{})

	require.NoError(t, err)
	assert.Equal(t, "Product Requirements Document", artifact.Title)
	f.artifactRepo.AssertExpectations(t)
}

func TestGeneratePRDStream_PersistsConcatenatedDocument(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	f.sessionRepo.On("GetDetail", mock.Anything, sessionID).Return(detailFixture(sessionID), nil)
	f.client.On("CompleteStream", mock.Anything, mock.Anything).
		Return(chunkStream("# PRD", "\n\n## Problem", "\nbody"), nil)
	f.artifactRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(a *domain.Artifact) bool {
		return a.ContentMd == "# PRD\n\n## Problem\nbody"
	})).Return(nil)

	out, err := f.svc.GeneratePRDStream(context.Background(), sessionID, llm.CallContext{})
	require.NoError(t, err)

	full := drain(t, out)
	assert.Equal(t, "# PRD\n\n## Problem\nbody", full)
	f.artifactRepo.AssertExpectations(t)
}

func TestGeneratePRDStream_ClientDisconnectDiscardsPartial(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	f.sessionRepo.On("GetDetail", mock.Anything, sessionID).Return(detailFixture(sessionID), nil)
	f.client.On("CompleteStream", mock.Anything, mock.Anything).
		Return(chunkStream("# PRD\n\n## Prob"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	out, err := f.svc.GeneratePRDStream(ctx, sessionID, llm.CallContext{})
	require.NoError(t, err)

	cancel()
	drain(t, out)
	f.artifactRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestGeneratePRDStream_ErrorChunkSkipsPersistence(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	f.sessionRepo.On("GetDetail", mock.Anything, sessionID).Return(detailFixture(sessionID), nil)

	inner := make(chan llm.StreamChunk, 2)
	inner <- llm.StreamChunk{Text: "partial"}
	inner <- llm.StreamChunk{Err: context.Canceled}
	close(inner)
	f.client.On("CompleteStream", mock.Anything, mock.Anything).
		Return((<-chan llm.StreamChunk)(inner), nil)

	out, err := f.svc.GeneratePRDStream(context.Background(), sessionID, llm.CallContext{})
	require.NoError(t, err)

	var sawErr bool
	for chunk := range out {
		if chunk.Err != nil {
			sawErr = true
		}
	}
	assert.True(t, sawErr)
	f.artifactRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRefine_PersistsContentAfterUpdateMarker(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	f.sessionRepo.On("Get", mock.Anything, sessionID).Return(liveSessionFixture(sessionID), nil)
	prd := artifactFixture(sessionID, domain.ArtifactPRD, "old doc")
	f.artifactRepo.On("Get", mock.Anything, sessionID, domain.ArtifactPRD).Return(&prd, nil)
	f.client.On("CompleteChatStream", mock.Anything, mock.Anything).
		Return(chunkStream("Tightened the scope.\n---ARTIFACT_UPDATE---\n# PRD v2\nbody"), nil)
	f.artifactRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(a *domain.Artifact) bool {
		return a.ContentMd == "# PRD v2\nbody" && a.Type == domain.ArtifactPRD
	})).Return(nil)

	out, err := f.svc.Refine(context.Background(), sessionID, domain.ArtifactPRD, "make it tighter", llm.CallContext{})
	require.NoError(t, err)

	drain(t, out)
	f.artifactRepo.AssertExpectations(t)
}

func TestRefine_NoMarkerLeavesArtifactAlone(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	f.sessionRepo.On("Get", mock.Anything, sessionID).Return(liveSessionFixture(sessionID), nil)
	prd := artifactFixture(sessionID, domain.ArtifactPRD, "old doc")
	f.artifactRepo.On("Get", mock.Anything, sessionID, domain.ArtifactPRD).Return(&prd, nil)
	f.client.On("CompleteChatStream", mock.Anything, mock.Anything).
		Return(chunkStream("The scope section already covers that."), nil)

	out, err := f.svc.Refine(context.Background(), sessionID, domain.ArtifactPRD, "what about scope?", llm.CallContext{})
	require.NoError(t, err)

	drain(t, out)
	f.artifactRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRefine_ClientDisconnectDiscardsPartial(t *testing.T) {
	f := newGenerationFixture()
	sessionID := uuid.New()
	f.sessionRepo.On("Get", mock.Anything, sessionID).Return(liveSessionFixture(sessionID), nil)
	prd := artifactFixture(sessionID, domain.ArtifactPRD, "old doc")
	f.artifactRepo.On("Get", mock.Anything, sessionID, domain.ArtifactPRD).Return(&prd, nil)
	f.client.On("CompleteChatStream", mock.Anything, mock.Anything).
		Return(chunkStream("Done.\n---ARTIFACT_UPDATE---\n# PRD v2\ntrunc"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	out, err := f.svc.Refine(ctx, sessionID, domain.ArtifactPRD, "tighten", llm.CallContext{})
	require.NoError(t, err)

	cancel()
	drain(t, out)
	f.artifactRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestExploreIdeas_ParsesThreeIdeas(t *testing.T) {
	f := newGenerationFixture()
	raw := "```json\n[" +
		`{"title":"Plate Pilot","oneLiner":"meal plans from your pantry","descriptionToPaste":"d1"},` +
		`{"title":"Queue Zero","oneLiner":"inbox triage for teams","descriptionToPaste":"d2"},` +
		`{"title":"Trail Mix","oneLiner":"playlists for hikes","descriptionToPaste":"d3"}]` +
		"\n```"
	f.client.On("Complete", mock.Anything, mock.Anything).Return(raw, nil)

	ideas, err := f.svc.ExploreIdeas(context.Background(), "classic", []IdeaQuestionInput{
		{Label: "Magic Wand", Question: "What would you automate?", Answer: "meal planning"},
	}, llm.CallContext{})

	require.NoError(t, err)
	require.Len(t, ideas, 3)
	assert.Equal(t, "Plate Pilot", ideas[0].Title)
	assert.Equal(t, "d3", ideas[2].DescriptionToPaste)
}

func TestExploreIdeas_WrongCountIsParseError(t *testing.T) {
	f := newGenerationFixture()
	f.client.On("Complete", mock.Anything, mock.Anything).
		Return(`[{"title":"Only One","oneLiner":"o","descriptionToPaste":"d"}]`, nil)

	_, err := f.svc.ExploreIdeas(context.Background(), "classic", nil, llm.CallContext{})

	assert.Equal(t, domain.CodeParse, errCode(t, err))
}

func TestRefine_RejectsUnknownArtifactType(t *testing.T) {
	f := newGenerationFixture()

	_, err := f.svc.Refine(context.Background(), uuid.New(), "DIAGRAM", "msg", llm.CallContext{})

	assert.Equal(t, domain.CodeValidation, errCode(t, err))
}

func TestUpstreamError_MapsDeadlineToGatewayTimeout(t *testing.T) {
	err := upstreamError(context.DeadlineExceeded, "Failed to generate PRD")
	assert.Equal(t, domain.CodeGatewayTimeout, errCode(t, err))

	err = upstreamError(assert.AnError, "Failed to generate PRD")
	assert.Equal(t, domain.CodeInternal, errCode(t, err))
}
