package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/decisionloom/decisionloom/internal/domain"
)

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (id, title, product_description, scope, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.Title,
		session.ProductDescription,
		session.Scope,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	query := `
		SELECT id, title, product_description, scope, expires_at, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`
	var s domain.Session
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Title,
		&s.ProductDescription,
		&s.Scope,
		&s.ExpiresAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound("session")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) GetDetail(ctx context.Context, id uuid.UUID) (*domain.SessionDetail, error) {
	session, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sections, err := r.ListSectionAnswers(ctx, id)
	if err != nil {
		return nil, err
	}

	summaries, err := r.ListSectionSummaries(ctx, id)
	if err != nil {
		return nil, err
	}

	artifacts, err := listArtifacts(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}

	return &domain.SessionDetail{
		Session:   session,
		Sections:  sections,
		Summaries: summaries,
		Artifacts: artifacts,
	}, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.Session) error {
	query := `
		UPDATE sessions
		SET title = $1, product_description = $2, scope = $3, expires_at = $4, updated_at = $5
		WHERE id = $6
	`
	_, err := r.pool.Exec(ctx, query,
		session.Title,
		session.ProductDescription,
		session.Scope,
		session.ExpiresAt,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

func (r *SessionRepository) UpsertSectionAnswer(ctx context.Context, answer *domain.SectionAnswer) error {
	qa, err := json.Marshal(answer.QA)
	if err != nil {
		return fmt.Errorf("failed to marshal section answers: %w", err)
	}

	query := `
		INSERT INTO section_answers (session_id, key, qa, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, key)
		DO UPDATE SET qa = EXCLUDED.qa, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query, answer.SessionID, answer.Key, qa, answer.Notes, answer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert section answer: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetSectionAnswer(ctx context.Context, sessionID uuid.UUID, key domain.SectionKey) (*domain.SectionAnswer, error) {
	query := `
		SELECT session_id, key, qa, notes, updated_at
		FROM section_answers
		WHERE session_id = $1 AND key = $2
	`
	var (
		a  domain.SectionAnswer
		qa []byte
	)
	err := r.pool.QueryRow(ctx, query, sessionID, key).Scan(&a.SessionID, &a.Key, &qa, &a.Notes, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound("section answer")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get section answer: %w", err)
	}
	if err := json.Unmarshal(qa, &a.QA); err != nil {
		return nil, fmt.Errorf("failed to unmarshal section answers: %w", err)
	}
	return &a, nil
}

func (r *SessionRepository) ListSectionAnswers(ctx context.Context, sessionID uuid.UUID) ([]domain.SectionAnswer, error) {
	query := `
		SELECT session_id, key, qa, notes, updated_at
		FROM section_answers
		WHERE session_id = $1
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list section answers: %w", err)
	}
	defer rows.Close()

	var answers []domain.SectionAnswer
	for rows.Next() {
		var (
			a  domain.SectionAnswer
			qa []byte
		)
		if err := rows.Scan(&a.SessionID, &a.Key, &qa, &a.Notes, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan section answer: %w", err)
		}
		if err := json.Unmarshal(qa, &a.QA); err != nil {
			return nil, fmt.Errorf("failed to unmarshal section answers: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, nil
}

func (r *SessionRepository) UpsertSectionSummary(ctx context.Context, summary *domain.SectionSummary) error {
	query := `
		INSERT INTO section_summaries (session_id, key, summary, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, key)
		DO UPDATE SET summary = EXCLUDED.summary, updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query, summary.SessionID, summary.Key, summary.Summary, summary.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert section summary: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListSectionSummaries(ctx context.Context, sessionID uuid.UUID) ([]domain.SectionSummary, error) {
	query := `
		SELECT session_id, key, summary, updated_at
		FROM section_summaries
		WHERE session_id = $1
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list section summaries: %w", err)
	}
	defer rows.Close()

	var summaries []domain.SectionSummary
	for rows.Next() {
		var s domain.SectionSummary
		if err := rows.Scan(&s.SessionID, &s.Key, &s.Summary, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan section summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
