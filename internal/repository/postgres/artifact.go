package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/decisionloom/decisionloom/internal/domain"
)

// ArtifactRepository implements domain.ArtifactRepository
type ArtifactRepository struct {
	pool *pgxpool.Pool
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(pool *pgxpool.Pool) *ArtifactRepository {
	return &ArtifactRepository{pool: pool}
}

func (r *ArtifactRepository) Upsert(ctx context.Context, artifact *domain.Artifact) error {
	query := `
		INSERT INTO artifacts (id, session_id, type, title, content_md, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET title = EXCLUDED.title, content_md = EXCLUDED.content_md, updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		artifact.ID,
		artifact.SessionID,
		artifact.Type,
		artifact.Title,
		artifact.ContentMd,
		artifact.CreatedAt,
		artifact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert artifact: %w", err)
	}
	return nil
}

func (r *ArtifactRepository) Get(ctx context.Context, sessionID uuid.UUID, artifactType domain.ArtifactType) (*domain.Artifact, error) {
	query := `
		SELECT id, session_id, type, title, content_md, created_at, updated_at
		FROM artifacts
		WHERE session_id = $1 AND type = $2
	`
	var a domain.Artifact
	err := r.pool.QueryRow(ctx, query, sessionID, artifactType).Scan(
		&a.ID,
		&a.SessionID,
		&a.Type,
		&a.Title,
		&a.ContentMd,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound(string(artifactType))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	return &a, nil
}

func (r *ArtifactRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Artifact, error) {
	return listArtifacts(ctx, r.pool, sessionID)
}

// listArtifacts is shared with SessionRepository.GetDetail
func listArtifacts(ctx context.Context, pool *pgxpool.Pool, sessionID uuid.UUID) ([]domain.Artifact, error) {
	query := `
		SELECT id, session_id, type, title, content_md, created_at, updated_at
		FROM artifacts
		WHERE session_id = $1
		ORDER BY type
	`
	rows, err := pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []domain.Artifact
	for rows.Next() {
		var a domain.Artifact
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Type, &a.Title, &a.ContentMd, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}
