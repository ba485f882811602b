package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WalkthroughStatus tracks progress through the architecture walkthrough
type WalkthroughStatus string

const (
	WalkthroughInProgress WalkthroughStatus = "in_progress"
	WalkthroughCompleted  WalkthroughStatus = "completed"
)

// TechWalkthrough is the per-session architecture-elicitation aggregate
type TechWalkthrough struct {
	ID        uuid.UUID         `json:"id"`
	SessionID uuid.UUID         `json:"session_id"`
	Status    WalkthroughStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// DriverAnswer is the answer to one of the eight fixed architecture-driver questions
type DriverAnswer struct {
	WalkthroughID uuid.UUID `json:"walkthrough_id"`
	QuestionKey   string    `json:"questionKey"`
	Answer        string    `json:"answer"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DecisionStatus marks whether a proposed decision has been reviewed
type DecisionStatus string

const (
	DecisionTentative DecisionStatus = "tentative"
	DecisionApproved  DecisionStatus = "approved"
)

// ArchitectureDecision is one load-bearing decision proposed by the model.
// Identifiers are regenerated on every propose call; callers must not cache them.
type ArchitectureDecision struct {
	ID                     uuid.UUID      `json:"id"`
	WalkthroughID          uuid.UUID      `json:"walkthrough_id"`
	Title                  string         `json:"title"`
	Area                   string         `json:"area"`
	ChosenOption           string         `json:"chosenOption"`
	Alternatives           []string       `json:"alternatives"`
	Tradeoffs              string         `json:"tradeoffs"`
	UserVisibleConsequence string         `json:"userVisibleConsequence"`
	MVPImpact              string         `json:"mvpImpact"`
	OpenQuestions          string         `json:"openQuestions"`
	Status                 DecisionStatus `json:"status"`
	SortOrder              int            `json:"sort_order"`
}

// DecisionUpdate carries partial edits to a single decision
type DecisionUpdate struct {
	Title                  *string         `json:"title,omitempty"`
	Area                   *string         `json:"area,omitempty"`
	ChosenOption           *string         `json:"chosenOption,omitempty"`
	Alternatives           *[]string       `json:"alternatives,omitempty"`
	Tradeoffs              *string         `json:"tradeoffs,omitempty"`
	UserVisibleConsequence *string         `json:"userVisibleConsequence,omitempty"`
	MVPImpact              *string         `json:"mvpImpact,omitempty"`
	OpenQuestions          *string         `json:"openQuestions,omitempty"`
	Status                 *DecisionStatus `json:"status,omitempty"`
}

// AgenticMode describes how autonomous the planned system's agents are
type AgenticMode string

const (
	AgenticNone           AgenticMode = "none"
	AgenticAssistive      AgenticMode = "assistive"
	AgenticSemiAutonomous AgenticMode = "semi_autonomous"
	AgenticAutonomous     AgenticMode = "autonomous"
)

// AgenticProfile captures the agentic shape of the planned system, at most one per walkthrough
type AgenticProfile struct {
	WalkthroughID         uuid.UUID   `json:"walkthrough_id"`
	AgenticMode           AgenticMode `json:"agenticMode"`
	OrchestrationShape    string      `json:"orchestrationShape,omitempty"`
	ToolCapabilities      []string    `json:"toolCapabilities"`
	MemoryRequirements    string      `json:"memoryRequirements,omitempty"`
	HumanApprovalRequired []string    `json:"humanApprovalRequired"`
	GuardrailsNotes       string      `json:"guardrailsNotes,omitempty"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// IsAgentic reports whether the profile opts the walkthrough into the
// agentic decision areas. The boundary is literal: any mode other than "none".
func (p *AgenticProfile) IsAgentic() bool {
	return p != nil && p.AgenticMode != AgenticNone
}

// WalkthroughDetail is a walkthrough fetched with its child collections
type WalkthroughDetail struct {
	Walkthrough *TechWalkthrough       `json:"walkthrough"`
	Drivers     []DriverAnswer         `json:"drivers"`
	Decisions   []ArchitectureDecision `json:"decisions"`
	Profile     *AgenticProfile        `json:"agenticProfile,omitempty"`
}

// WalkthroughRepository defines walkthrough aggregate storage
type WalkthroughRepository interface {
	// GetOrCreate returns the walkthrough for a session, creating it lazily on first access.
	GetOrCreate(ctx context.Context, sessionID uuid.UUID) (*TechWalkthrough, error)
	Get(ctx context.Context, id uuid.UUID) (*TechWalkthrough, error)
	GetBySession(ctx context.Context, sessionID uuid.UUID) (*WalkthroughDetail, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status WalkthroughStatus) error
	UpsertDriverAnswer(ctx context.Context, answer *DriverAnswer) error
	ListDriverAnswers(ctx context.Context, walkthroughID uuid.UUID) ([]DriverAnswer, error)
	// ReplaceDecisions deletes every decision for the walkthrough and inserts
	// the given list in order. It is not a merge; decision IDs change.
	ReplaceDecisions(ctx context.Context, walkthroughID uuid.UUID, decisions []ArchitectureDecision) ([]ArchitectureDecision, error)
	ListDecisions(ctx context.Context, walkthroughID uuid.UUID) ([]ArchitectureDecision, error)
	UpdateDecision(ctx context.Context, decisionID uuid.UUID, update DecisionUpdate) error
	UpsertAgenticProfile(ctx context.Context, profile *AgenticProfile) error
	GetAgenticProfile(ctx context.Context, walkthroughID uuid.UUID) (*AgenticProfile, error)
}
