package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SectionKey identifies one of the eight fixed specification sections
type SectionKey string

const (
	SectionContext    SectionKey = "CONTEXT"
	SectionOutcome    SectionKey = "OUTCOME"
	SectionRisks      SectionKey = "RISKS"
	SectionExperience SectionKey = "EXPERIENCE"
	SectionFlow       SectionKey = "FLOW"
	SectionLimits     SectionKey = "LIMITS"
	SectionOperations SectionKey = "OPERATIONS"
	SectionWins       SectionKey = "WINS"
)

// SectionKeys lists every section in canonical order
var SectionKeys = []SectionKey{
	SectionContext,
	SectionOutcome,
	SectionRisks,
	SectionExperience,
	SectionFlow,
	SectionLimits,
	SectionOperations,
	SectionWins,
}

// ValidSectionKey reports whether k is one of the eight fixed sections
func ValidSectionKey(k SectionKey) bool {
	for _, key := range SectionKeys {
		if key == k {
			return true
		}
	}
	return false
}

// ProjectScope is the declared ambition level of the session
type ProjectScope string

const (
	ScopePersonal   ProjectScope = "personal"
	ScopeMVP        ProjectScope = "mvp"
	ScopeProduction ProjectScope = "production"
)

// Session is the root aggregate for one user's specification effort
type Session struct {
	ID                 uuid.UUID    `json:"id"`
	Title              string       `json:"title"`
	ProductDescription string       `json:"product_description,omitempty"`
	Scope              ProjectScope `json:"scope,omitempty"`
	ExpiresAt          time.Time    `json:"expires_at"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// Expired reports whether the session's advisory expiry has passed
func (s *Session) Expired() bool {
	return s.ExpiresAt.Before(time.Now())
}

// QAItem is one question/answer pair within a section
type QAItem struct {
	QuestionID string `json:"questionId"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// SectionAnswer holds the answers for one section, keyed by (session, key)
type SectionAnswer struct {
	SessionID uuid.UUID  `json:"session_id"`
	Key       SectionKey `json:"key"`
	QA        []QAItem   `json:"qa"`
	Notes     string     `json:"notes,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SectionSummary is a short AI-generated synopsis of one section's answers
type SectionSummary struct {
	SessionID uuid.UUID  `json:"session_id"`
	Key       SectionKey `json:"key"`
	Summary   string     `json:"summary"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SessionDetail is a session fetched together with its child collections
type SessionDetail struct {
	Session   *Session         `json:"session"`
	Sections  []SectionAnswer  `json:"sections"`
	Summaries []SectionSummary `json:"summaries"`
	Artifacts []Artifact       `json:"artifacts"`
}

// SessionRepository defines session aggregate storage
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	// GetDetail fetches the session with sections, summaries and artifacts in one call.
	GetDetail(ctx context.Context, id uuid.UUID) (*SessionDetail, error)
	Update(ctx context.Context, session *Session) error
	UpsertSectionAnswer(ctx context.Context, answer *SectionAnswer) error
	GetSectionAnswer(ctx context.Context, sessionID uuid.UUID, key SectionKey) (*SectionAnswer, error)
	ListSectionAnswers(ctx context.Context, sessionID uuid.UUID) ([]SectionAnswer, error)
	UpsertSectionSummary(ctx context.Context, summary *SectionSummary) error
	ListSectionSummaries(ctx context.Context, sessionID uuid.UUID) ([]SectionSummary, error)
}
