package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/decisionloom/decisionloom/internal/domain"
)

// WalkthroughRepository implements domain.WalkthroughRepository
type WalkthroughRepository struct {
	pool *pgxpool.Pool
}

// NewWalkthroughRepository creates a new walkthrough repository
func NewWalkthroughRepository(pool *pgxpool.Pool) *WalkthroughRepository {
	return &WalkthroughRepository{pool: pool}
}

func (r *WalkthroughRepository) GetOrCreate(ctx context.Context, sessionID uuid.UUID) (*domain.TechWalkthrough, error) {
	w, err := r.getBySessionID(ctx, sessionID)
	if err == nil {
		return w, nil
	}
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) || domainErr.Code != domain.CodeNotFound {
		return nil, err
	}

	now := time.Now()
	created := &domain.TechWalkthrough{
		ID:        uuid.New(),
		SessionID: sessionID,
		Status:    domain.WalkthroughInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
	query := `
		INSERT INTO tech_walkthroughs (id, session_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, created.ID, created.SessionID, created.Status, created.CreatedAt, created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create walkthrough: %w", err)
	}

	// Re-read in case a concurrent request won the insert race.
	return r.getBySessionID(ctx, sessionID)
}

func (r *WalkthroughRepository) Get(ctx context.Context, id uuid.UUID) (*domain.TechWalkthrough, error) {
	query := `
		SELECT id, session_id, status, created_at, updated_at
		FROM tech_walkthroughs
		WHERE id = $1
	`
	var w domain.TechWalkthrough
	err := r.pool.QueryRow(ctx, query, id).Scan(&w.ID, &w.SessionID, &w.Status, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound("walkthrough")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get walkthrough: %w", err)
	}
	return &w, nil
}

func (r *WalkthroughRepository) getBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.TechWalkthrough, error) {
	query := `
		SELECT id, session_id, status, created_at, updated_at
		FROM tech_walkthroughs
		WHERE session_id = $1
	`
	var w domain.TechWalkthrough
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(&w.ID, &w.SessionID, &w.Status, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound("walkthrough")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get walkthrough: %w", err)
	}
	return &w, nil
}

func (r *WalkthroughRepository) GetBySession(ctx context.Context, sessionID uuid.UUID) (*domain.WalkthroughDetail, error) {
	w, err := r.getBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	drivers, err := r.ListDriverAnswers(ctx, w.ID)
	if err != nil {
		return nil, err
	}

	decisions, err := r.ListDecisions(ctx, w.ID)
	if err != nil {
		return nil, err
	}

	profile, err := r.GetAgenticProfile(ctx, w.ID)
	if err != nil {
		var domainErr *domain.Error
		if !errors.As(err, &domainErr) || domainErr.Code != domain.CodeNotFound {
			return nil, err
		}
		profile = nil
	}

	return &domain.WalkthroughDetail{
		Walkthrough: w,
		Drivers:     drivers,
		Decisions:   decisions,
		Profile:     profile,
	}, nil
}

func (r *WalkthroughRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WalkthroughStatus) error {
	query := `UPDATE tech_walkthroughs SET status = $1, updated_at = $2 WHERE id = $3`
	tag, err := r.pool.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update walkthrough status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("walkthrough")
	}
	return nil
}

func (r *WalkthroughRepository) UpsertDriverAnswer(ctx context.Context, answer *domain.DriverAnswer) error {
	query := `
		INSERT INTO driver_answers (walkthrough_id, question_key, answer, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (walkthrough_id, question_key)
		DO UPDATE SET answer = EXCLUDED.answer, updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query, answer.WalkthroughID, answer.QuestionKey, answer.Answer, answer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert driver answer: %w", err)
	}
	return nil
}

func (r *WalkthroughRepository) ListDriverAnswers(ctx context.Context, walkthroughID uuid.UUID) ([]domain.DriverAnswer, error) {
	query := `
		SELECT walkthrough_id, question_key, answer, updated_at
		FROM driver_answers
		WHERE walkthrough_id = $1
	`
	rows, err := r.pool.Query(ctx, query, walkthroughID)
	if err != nil {
		return nil, fmt.Errorf("failed to list driver answers: %w", err)
	}
	defer rows.Close()

	var answers []domain.DriverAnswer
	for rows.Next() {
		var a domain.DriverAnswer
		if err := rows.Scan(&a.WalkthroughID, &a.QuestionKey, &a.Answer, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan driver answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, nil
}

func (r *WalkthroughRepository) ReplaceDecisions(ctx context.Context, walkthroughID uuid.UUID, decisions []domain.ArchitectureDecision) ([]domain.ArchitectureDecision, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM architecture_decisions WHERE walkthrough_id = $1`, walkthroughID); err != nil {
		return nil, fmt.Errorf("failed to clear decisions: %w", err)
	}

	query := `
		INSERT INTO architecture_decisions
			(id, walkthrough_id, title, area, chosen_option, alternatives, tradeoffs,
			 user_visible_consequence, mvp_impact, open_questions, status, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	created := make([]domain.ArchitectureDecision, 0, len(decisions))
	for i, d := range decisions {
		d.ID = uuid.New()
		d.WalkthroughID = walkthroughID
		d.SortOrder = i
		if d.Status == "" {
			d.Status = domain.DecisionTentative
		}
		if d.Alternatives == nil {
			d.Alternatives = []string{}
		}

		alternatives, err := json.Marshal(d.Alternatives)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal alternatives: %w", err)
		}

		if _, err := tx.Exec(ctx, query,
			d.ID, d.WalkthroughID, d.Title, d.Area, d.ChosenOption, alternatives,
			d.Tradeoffs, d.UserVisibleConsequence, d.MVPImpact, d.OpenQuestions,
			d.Status, d.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to insert decision: %w", err)
		}
		created = append(created, d)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit decisions: %w", err)
	}
	return created, nil
}

func (r *WalkthroughRepository) ListDecisions(ctx context.Context, walkthroughID uuid.UUID) ([]domain.ArchitectureDecision, error) {
	query := `
		SELECT id, walkthrough_id, title, area, chosen_option, alternatives, tradeoffs,
		       user_visible_consequence, mvp_impact, open_questions, status, sort_order
		FROM architecture_decisions
		WHERE walkthrough_id = $1
		ORDER BY sort_order
	`
	rows, err := r.pool.Query(ctx, query, walkthroughID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []domain.ArchitectureDecision
	for rows.Next() {
		var (
			d            domain.ArchitectureDecision
			alternatives []byte
		)
		if err := rows.Scan(
			&d.ID, &d.WalkthroughID, &d.Title, &d.Area, &d.ChosenOption, &alternatives,
			&d.Tradeoffs, &d.UserVisibleConsequence, &d.MVPImpact, &d.OpenQuestions,
			&d.Status, &d.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		if err := json.Unmarshal(alternatives, &d.Alternatives); err != nil {
			return nil, fmt.Errorf("failed to unmarshal alternatives: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, nil
}

func (r *WalkthroughRepository) UpdateDecision(ctx context.Context, decisionID uuid.UUID, update domain.DecisionUpdate) error {
	query := `
		UPDATE architecture_decisions SET
			title = COALESCE($1, title),
			area = COALESCE($2, area),
			chosen_option = COALESCE($3, chosen_option),
			alternatives = COALESCE($4, alternatives),
			tradeoffs = COALESCE($5, tradeoffs),
			user_visible_consequence = COALESCE($6, user_visible_consequence),
			mvp_impact = COALESCE($7, mvp_impact),
			open_questions = COALESCE($8, open_questions),
			status = COALESCE($9, status)
		WHERE id = $10
	`
	var alternatives []byte
	if update.Alternatives != nil {
		b, err := json.Marshal(*update.Alternatives)
		if err != nil {
			return fmt.Errorf("failed to marshal alternatives: %w", err)
		}
		alternatives = b
	}

	tag, err := r.pool.Exec(ctx, query,
		update.Title, update.Area, update.ChosenOption, alternatives,
		update.Tradeoffs, update.UserVisibleConsequence, update.MVPImpact,
		update.OpenQuestions, update.Status, decisionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("decision")
	}
	return nil
}

func (r *WalkthroughRepository) UpsertAgenticProfile(ctx context.Context, profile *domain.AgenticProfile) error {
	tools, err := json.Marshal(profile.ToolCapabilities)
	if err != nil {
		return fmt.Errorf("failed to marshal tool capabilities: %w", err)
	}
	approvals, err := json.Marshal(profile.HumanApprovalRequired)
	if err != nil {
		return fmt.Errorf("failed to marshal approval list: %w", err)
	}

	query := `
		INSERT INTO agentic_profiles
			(walkthrough_id, agentic_mode, orchestration_shape, tool_capabilities,
			 memory_requirements, human_approval_required, guardrails_notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (walkthrough_id)
		DO UPDATE SET
			agentic_mode = EXCLUDED.agentic_mode,
			orchestration_shape = EXCLUDED.orchestration_shape,
			tool_capabilities = EXCLUDED.tool_capabilities,
			memory_requirements = EXCLUDED.memory_requirements,
			human_approval_required = EXCLUDED.human_approval_required,
			guardrails_notes = EXCLUDED.guardrails_notes,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query,
		profile.WalkthroughID, profile.AgenticMode, profile.OrchestrationShape, tools,
		profile.MemoryRequirements, approvals, profile.GuardrailsNotes, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert agentic profile: %w", err)
	}
	return nil
}

func (r *WalkthroughRepository) GetAgenticProfile(ctx context.Context, walkthroughID uuid.UUID) (*domain.AgenticProfile, error) {
	query := `
		SELECT walkthrough_id, agentic_mode, orchestration_shape, tool_capabilities,
		       memory_requirements, human_approval_required, guardrails_notes, updated_at
		FROM agentic_profiles
		WHERE walkthrough_id = $1
	`
	var (
		p         domain.AgenticProfile
		tools     []byte
		approvals []byte
	)
	err := r.pool.QueryRow(ctx, query, walkthroughID).Scan(
		&p.WalkthroughID, &p.AgenticMode, &p.OrchestrationShape, &tools,
		&p.MemoryRequirements, &approvals, &p.GuardrailsNotes, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound("agentic profile")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agentic profile: %w", err)
	}
	if err := json.Unmarshal(tools, &p.ToolCapabilities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool capabilities: %w", err)
	}
	if err := json.Unmarshal(approvals, &p.HumanApprovalRequired); err != nil {
		return nil, fmt.Errorf("failed to unmarshal approval list: %w", err)
	}
	return &p, nil
}
