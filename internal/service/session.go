package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/decisionloom/decisionloom/internal/domain"
	"github.com/decisionloom/decisionloom/internal/repository/redis"
)

// sessionTTL is the advisory lifetime of a session. Expiry is checked at
// read time; nothing is deleted when it passes.
const sessionTTL = 7 * 24 * time.Hour

// SessionService handles session lifecycle and section persistence
type SessionService struct {
	sessionRepo domain.SessionRepository
	cache       *redis.SessionCache
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo domain.SessionRepository, cache *redis.SessionCache) *SessionService {
	return &SessionService{sessionRepo: sessionRepo, cache: cache}
}

// CreateSessionInput carries the optional fields for a new session
type CreateSessionInput struct {
	Title              string              `json:"title"`
	ProductDescription string              `json:"productDescription"`
	Scope              domain.ProjectScope `json:"scope"`
}

// Create starts a new session with a 7-day expiry
func (s *SessionService) Create(ctx context.Context, input CreateSessionInput) (*domain.Session, error) {
	now := time.Now()
	session := &domain.Session{
		ID:                 uuid.New(),
		Title:              input.Title,
		ProductDescription: input.ProductDescription,
		Scope:              input.Scope,
		ExpiresAt:          now.Add(sessionTTL),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	log.Info().Str("session_id", session.ID.String()).Msg("session created")
	return session, nil
}

// Get fetches the full session aggregate, rejecting expired sessions
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*domain.SessionDetail, error) {
	if cached, err := s.cache.Get(ctx, id); err == nil && cached != nil {
		if cached.Session.Expired() {
			return nil, domain.NewError(domain.CodeSessionExpired, "Session has expired")
		}
		return cached, nil
	}

	detail, err := s.sessionRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail.Session.Expired() {
		return nil, domain.NewError(domain.CodeSessionExpired, "Session has expired")
	}

	if err := s.cache.Set(ctx, detail); err != nil {
		log.Warn().Err(err).Msg("failed to cache session detail")
	}
	return detail, nil
}

// liveSession loads a session and rejects missing or expired ones
func (s *SessionService) liveSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	session, err := s.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Expired() {
		return nil, domain.NewError(domain.CodeSessionExpired, "Session has expired")
	}
	return session, nil
}

// SaveSectionInput carries one section's replacement answers
type SaveSectionInput struct {
	Key   domain.SectionKey `json:"key"`
	QA    []domain.QAItem   `json:"qa"`
	Notes string            `json:"notes"`
}

// SaveSection upserts one section's answers for a live session
func (s *SessionService) SaveSection(ctx context.Context, sessionID uuid.UUID, input SaveSectionInput) error {
	if !domain.ValidSectionKey(input.Key) {
		return domain.NewError(domain.CodeValidation, "Unknown section key")
	}

	if _, err := s.liveSession(ctx, sessionID); err != nil {
		return err
	}

	answer := &domain.SectionAnswer{
		SessionID: sessionID,
		Key:       input.Key,
		QA:        input.QA,
		Notes:     input.Notes,
		UpdatedAt: time.Now(),
	}
	if err := s.sessionRepo.UpsertSectionAnswer(ctx, answer); err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx, sessionID); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate session cache")
	}
	return nil
}
