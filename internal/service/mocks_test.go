package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/decisionloom/decisionloom/internal/domain"
	"github.com/decisionloom/decisionloom/internal/llm"
)

// MockClient mocks the llm.Client interface
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockClient) CompleteStream(ctx context.Context, req llm.Request) (<-chan llm.StreamChunk, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan llm.StreamChunk), args.Error(1)
}

func (m *MockClient) CompleteChatStream(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan llm.StreamChunk), args.Error(1)
}

// chunkStream builds a finished stream carrying the given fragments
func chunkStream(fragments ...string) <-chan llm.StreamChunk {
	ch := make(chan llm.StreamChunk, len(fragments))
	for _, f := range fragments {
		ch <- llm.StreamChunk{Text: f}
	}
	close(ch)
	return ch
}

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) GetDetail(ctx context.Context, id uuid.UUID) (*domain.SessionDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionDetail), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) UpsertSectionAnswer(ctx context.Context, answer *domain.SectionAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockSessionRepository) GetSectionAnswer(ctx context.Context, sessionID uuid.UUID, key domain.SectionKey) (*domain.SectionAnswer, error) {
	args := m.Called(ctx, sessionID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SectionAnswer), args.Error(1)
}

func (m *MockSessionRepository) ListSectionAnswers(ctx context.Context, sessionID uuid.UUID) ([]domain.SectionAnswer, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.SectionAnswer), args.Error(1)
}

func (m *MockSessionRepository) UpsertSectionSummary(ctx context.Context, summary *domain.SectionSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockSessionRepository) ListSectionSummaries(ctx context.Context, sessionID uuid.UUID) ([]domain.SectionSummary, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.SectionSummary), args.Error(1)
}

// MockArtifactRepository mocks the ArtifactRepository interface
type MockArtifactRepository struct {
	mock.Mock
}

func (m *MockArtifactRepository) Upsert(ctx context.Context, artifact *domain.Artifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockArtifactRepository) Get(ctx context.Context, sessionID uuid.UUID, artifactType domain.ArtifactType) (*domain.Artifact, error) {
	args := m.Called(ctx, sessionID, artifactType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Artifact, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.Artifact), args.Error(1)
}

// MockWalkthroughRepository mocks the WalkthroughRepository interface
type MockWalkthroughRepository struct {
	mock.Mock
}

func (m *MockWalkthroughRepository) GetOrCreate(ctx context.Context, sessionID uuid.UUID) (*domain.TechWalkthrough, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TechWalkthrough), args.Error(1)
}

func (m *MockWalkthroughRepository) Get(ctx context.Context, id uuid.UUID) (*domain.TechWalkthrough, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TechWalkthrough), args.Error(1)
}

func (m *MockWalkthroughRepository) GetBySession(ctx context.Context, sessionID uuid.UUID) (*domain.WalkthroughDetail, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalkthroughDetail), args.Error(1)
}

func (m *MockWalkthroughRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WalkthroughStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockWalkthroughRepository) UpsertDriverAnswer(ctx context.Context, answer *domain.DriverAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockWalkthroughRepository) ListDriverAnswers(ctx context.Context, walkthroughID uuid.UUID) ([]domain.DriverAnswer, error) {
	args := m.Called(ctx, walkthroughID)
	return args.Get(0).([]domain.DriverAnswer), args.Error(1)
}

func (m *MockWalkthroughRepository) ReplaceDecisions(ctx context.Context, walkthroughID uuid.UUID, decisions []domain.ArchitectureDecision) ([]domain.ArchitectureDecision, error) {
	args := m.Called(ctx, walkthroughID, decisions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ArchitectureDecision), args.Error(1)
}

func (m *MockWalkthroughRepository) ListDecisions(ctx context.Context, walkthroughID uuid.UUID) ([]domain.ArchitectureDecision, error) {
	args := m.Called(ctx, walkthroughID)
	return args.Get(0).([]domain.ArchitectureDecision), args.Error(1)
}

func (m *MockWalkthroughRepository) UpdateDecision(ctx context.Context, decisionID uuid.UUID, update domain.DecisionUpdate) error {
	args := m.Called(ctx, decisionID, update)
	return args.Error(0)
}

func (m *MockWalkthroughRepository) UpsertAgenticProfile(ctx context.Context, profile *domain.AgenticProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockWalkthroughRepository) GetAgenticProfile(ctx context.Context, walkthroughID uuid.UUID) (*domain.AgenticProfile, error) {
	args := m.Called(ctx, walkthroughID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgenticProfile), args.Error(1)
}
