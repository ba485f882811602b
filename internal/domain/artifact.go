package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ArtifactType identifies a generated document type
type ArtifactType string

const (
	ArtifactPRD      ArtifactType = "PRD"
	ArtifactTechSpec ArtifactType = "TECH_SPEC"
)

// ValidArtifactType reports whether t is a known artifact type
func ValidArtifactType(t ArtifactType) bool {
	return t == ArtifactPRD || t == ArtifactTechSpec
}

// Artifact is a generated Markdown document tied 1:1 to a (session, type)
type Artifact struct {
	// ID is the deterministic composite key "<sessionID>-<type>",
	// which guarantees exactly one artifact per type per session.
	ID        string       `json:"id"`
	SessionID uuid.UUID    `json:"session_id"`
	Type      ArtifactType `json:"type"`
	Title     string       `json:"title"`
	ContentMd string       `json:"contentMd"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ArtifactID builds the composite artifact key for a session and type
func ArtifactID(sessionID uuid.UUID, t ArtifactType) string {
	return fmt.Sprintf("%s-%s", sessionID, t)
}

// ArtifactRepository defines artifact storage
type ArtifactRepository interface {
	// Upsert overwrites the artifact for (session, type); regeneration is idempotent.
	Upsert(ctx context.Context, artifact *Artifact) error
	Get(ctx context.Context, sessionID uuid.UUID, artifactType ArtifactType) (*Artifact, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]Artifact, error)
}
