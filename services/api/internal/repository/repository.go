// Package repository provides database access for the API service.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ibondarenko1/hipaa-saas/pkg/database"
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Repository provides database operations.
type Repository struct {
	db *database.DB
}

// New creates a new repository.
func New(db *database.DB) *Repository {
	return &Repository{db: db}
}

// =============================================================================
// Assessments
// =============================================================================

// CreateAssessmentParams contains parameters for creating an assessment.
type CreateAssessmentParams struct {
	TenantID            uuid.UUID
	FrameworkID         uuid.UUID
	ControlsetVersionID uuid.UUID
	RulesetVersionID    uuid.UUID
	Name                string
}

// CreateAssessment creates a draft assessment bound to the given catalog versions.
func (r *Repository) CreateAssessment(ctx context.Context, params CreateAssessmentParams) (*models.Assessment, error) {
	var a models.Assessment
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO assessments (id, tenant_id, framework_id, controlset_version_id,
		                         ruleset_version_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, tenant_id, framework_id, controlset_version_id, ruleset_version_id,
		          name, status, submitted_at, completed_at, created_at, updated_at
	`, uuid.New(), params.TenantID, params.FrameworkID, params.ControlsetVersionID,
		params.RulesetVersionID, params.Name, models.AssessmentStatusDraft).Scan(
		&a.ID, &a.TenantID, &a.FrameworkID, &a.ControlsetVersionID, &a.RulesetVersionID,
		&a.Name, &a.Status, &a.SubmittedAt, &a.CompletedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}
	return &a, nil
}

// GetAssessment retrieves an assessment scoped to a tenant.
func (r *Repository) GetAssessment(ctx context.Context, tenantID, id uuid.UUID) (*models.Assessment, error) {
	var a models.Assessment
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, tenant_id, framework_id, controlset_version_id, ruleset_version_id,
		       name, status, submitted_at, completed_at, created_at, updated_at
		FROM assessments
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID).Scan(
		&a.ID, &a.TenantID, &a.FrameworkID, &a.ControlsetVersionID, &a.RulesetVersionID,
		&a.Name, &a.Status, &a.SubmittedAt, &a.CompletedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return &a, nil
}

// ListAssessments retrieves all assessments for a tenant, newest first.
func (r *Repository) ListAssessments(ctx context.Context, tenantID uuid.UUID) ([]models.Assessment, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, tenant_id, framework_id, controlset_version_id, ruleset_version_id,
		       name, status, submitted_at, completed_at, created_at, updated_at
		FROM assessments
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var assessments []models.Assessment
	for rows.Next() {
		var a models.Assessment
		err := rows.Scan(
			&a.ID, &a.TenantID, &a.FrameworkID, &a.ControlsetVersionID, &a.RulesetVersionID,
			&a.Name, &a.Status, &a.SubmittedAt, &a.CompletedAt, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

// SetAssessmentStatus transitions an assessment and stamps the matching
// timestamp column for submitted and completed states.
func (r *Repository) SetAssessmentStatus(ctx context.Context, tenantID, id uuid.UUID, status models.AssessmentStatus) error {
	var query string
	switch status {
	case models.AssessmentStatusSubmitted:
		query = `UPDATE assessments SET status = $3, submitted_at = now(), updated_at = now()
		         WHERE id = $1 AND tenant_id = $2`
	case models.AssessmentStatusCompleted:
		query = `UPDATE assessments SET status = $3, completed_at = now(), updated_at = now()
		         WHERE id = $1 AND tenant_id = $2`
	default:
		query = `UPDATE assessments SET status = $3, updated_at = now()
		         WHERE id = $1 AND tenant_id = $2`
	}

	tag, err := r.db.Pool.Exec(ctx, query, id, tenantID, status)
	if err != nil {
		return fmt.Errorf("failed to update assessment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// Answers
// =============================================================================

// UpsertAnswer creates or replaces the answer for a question in an assessment.
func (r *Repository) UpsertAnswer(ctx context.Context, assessmentID, questionID uuid.UUID, value models.AnswerValue) (*models.Answer, error) {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answer value: %w", err)
	}

	var a models.Answer
	var raw []byte
	err = r.db.Pool.QueryRow(ctx, `
		INSERT INTO answers (id, assessment_id, question_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (assessment_id, question_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		RETURNING id, assessment_id, question_id, value, created_at, updated_at
	`, uuid.New(), assessmentID, questionID, valueJSON).Scan(
		&a.ID, &a.AssessmentID, &a.QuestionID, &raw, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert answer: %w", err)
	}
	if err := json.Unmarshal(raw, &a.Value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answer value: %w", err)
	}
	return &a, nil
}

// CountAnswers returns the number of answers recorded for an assessment.
func (r *Repository) CountAnswers(ctx context.Context, assessmentID uuid.UUID) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM answers WHERE assessment_id = $1
	`, assessmentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count answers: %w", err)
	}
	return count, nil
}

// ListAnswers retrieves all answers for an assessment.
func (r *Repository) ListAnswers(ctx context.Context, assessmentID uuid.UUID) ([]models.Answer, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, assessment_id, question_id, value, created_at, updated_at
		FROM answers
		WHERE assessment_id = $1
	`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		var a models.Answer
		var raw []byte
		if err := rows.Scan(&a.ID, &a.AssessmentID, &a.QuestionID, &raw, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		if err := json.Unmarshal(raw, &a.Value); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answer value: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// =============================================================================
// Evidence
// =============================================================================

// CreateEvidenceLinkParams contains parameters for attaching evidence.
type CreateEvidenceLinkParams struct {
	AssessmentID   uuid.UUID
	EvidenceFileID uuid.UUID
	ControlID      *uuid.UUID
	QuestionID     *uuid.UUID
}

// CreateEvidenceLink attaches an evidence file to a control or question.
func (r *Repository) CreateEvidenceLink(ctx context.Context, params CreateEvidenceLinkParams) (*models.EvidenceLink, error) {
	var l models.EvidenceLink
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO evidence_links (id, assessment_id, evidence_file_id, control_id, question_id, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id, assessment_id, evidence_file_id, control_id, question_id, created_at
	`, uuid.New(), params.AssessmentID, params.EvidenceFileID, params.ControlID, params.QuestionID).Scan(
		&l.ID, &l.AssessmentID, &l.EvidenceFileID, &l.ControlID, &l.QuestionID, &l.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create evidence link: %w", err)
	}
	return &l, nil
}

// ListEvidenceLinks retrieves all evidence links for an assessment.
func (r *Repository) ListEvidenceLinks(ctx context.Context, assessmentID uuid.UUID) ([]models.EvidenceLink, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, assessment_id, evidence_file_id, control_id, question_id, created_at
		FROM evidence_links
		WHERE assessment_id = $1
		ORDER BY created_at
	`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence links: %w", err)
	}
	defer rows.Close()

	var links []models.EvidenceLink
	for rows.Next() {
		var l models.EvidenceLink
		if err := rows.Scan(&l.ID, &l.AssessmentID, &l.EvidenceFileID, &l.ControlID, &l.QuestionID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evidence link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// =============================================================================
// Engine runs
// =============================================================================

// CreateEngineRun records a new run in the running state.
func (r *Repository) CreateEngineRun(ctx context.Context, tenantID, assessmentID uuid.UUID) (*models.EngineRun, error) {
	var run models.EngineRun
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO engine_runs (id, tenant_id, assessment_id, status, started_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, tenant_id, assessment_id, status, started_at
	`, uuid.New(), tenantID, assessmentID, models.RunStatusRunning).Scan(
		&run.ID, &run.TenantID, &run.AssessmentID, &run.Status, &run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine run: %w", err)
	}
	return &run, nil
}

// FailEngineRun marks a run as failed with its error message.
func (r *Repository) FailEngineRun(ctx context.Context, runID uuid.UUID, runErr error) error {
	msg := runErr.Error()
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE engine_runs SET status = $2, error = $3, finished_at = now()
		WHERE id = $1
	`, runID, models.RunStatusFailed, msg)
	if err != nil {
		return fmt.Errorf("failed to mark engine run failed: %w", err)
	}
	return nil
}

// GetLatestEngineRun retrieves the most recent run for an assessment.
func (r *Repository) GetLatestEngineRun(ctx context.Context, tenantID, assessmentID uuid.UUID) (*models.EngineRun, error) {
	var run models.EngineRun
	var stats []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, tenant_id, assessment_id, status, stats, error, started_at, finished_at
		FROM engine_runs
		WHERE tenant_id = $1 AND assessment_id = $2
		ORDER BY started_at DESC
		LIMIT 1
	`, tenantID, assessmentID).Scan(
		&run.ID, &run.TenantID, &run.AssessmentID, &run.Status, &stats,
		&run.Error, &run.StartedAt, &run.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest engine run: %w", err)
	}
	if len(stats) > 0 {
		run.Stats = &models.RunStats{}
		if err := json.Unmarshal(stats, run.Stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run stats: %w", err)
		}
	}
	return &run, nil
}
