package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ibondarenko1/hipaa-saas/pkg/models"
)

// GetFrameworkByCode retrieves a framework by its code, e.g. "HIPAA".
func (r *Repository) GetFrameworkByCode(ctx context.Context, code string) (*models.Framework, error) {
	var f models.Framework
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, code, name, created_at FROM frameworks WHERE code = $1
	`, code).Scan(&f.ID, &f.Code, &f.Name, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get framework: %w", err)
	}
	return &f, nil
}

// GetActiveControlsetVersion retrieves the active controlset version for a framework.
func (r *Repository) GetActiveControlsetVersion(ctx context.Context, frameworkID uuid.UUID) (*models.ControlsetVersion, error) {
	var v models.ControlsetVersion
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, framework_id, version, is_active, published_at, notes, created_at
		FROM controlset_versions
		WHERE framework_id = $1 AND is_active = true
	`, frameworkID).Scan(&v.ID, &v.FrameworkID, &v.Version, &v.IsActive, &v.PublishedAt, &v.Notes, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active controlset version: %w", err)
	}
	return &v, nil
}

// GetActiveRulesetVersion retrieves the active ruleset version for a framework.
func (r *Repository) GetActiveRulesetVersion(ctx context.Context, frameworkID uuid.UUID) (*models.RulesetVersion, error) {
	var v models.RulesetVersion
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, framework_id, version, is_active, published_at, notes, created_at
		FROM ruleset_versions
		WHERE framework_id = $1 AND is_active = true
	`, frameworkID).Scan(&v.ID, &v.FrameworkID, &v.Version, &v.IsActive, &v.PublishedAt, &v.Notes, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active ruleset version: %w", err)
	}
	return &v, nil
}

// ListQuestions retrieves the active questionnaire for a framework ordered by
// question code.
func (r *Repository) ListQuestions(ctx context.Context, frameworkID uuid.UUID) ([]models.Question, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, framework_id, control_id, question_code, text, answer_type, is_active, created_at
		FROM questions
		WHERE framework_id = $1 AND is_active = true
		ORDER BY question_code
	`, frameworkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		err := rows.Scan(&q.ID, &q.FrameworkID, &q.ControlID, &q.QuestionCode, &q.Text, &q.AnswerType, &q.IsActive, &q.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetQuestion retrieves a single question by ID.
func (r *Repository) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	var q models.Question
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, framework_id, control_id, question_code, text, answer_type, is_active, created_at
		FROM questions WHERE id = $1
	`, id).Scan(&q.ID, &q.FrameworkID, &q.ControlID, &q.QuestionCode, &q.Text, &q.AnswerType, &q.IsActive, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &q, nil
}

// GetControlByCode retrieves a control within a controlset version by code.
func (r *Repository) GetControlByCode(ctx context.Context, controlsetVersionID uuid.UUID, code string) (*models.Control, error) {
	var c models.Control
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, framework_id, controlset_version_id, control_code, title,
		       description, category, severity, na_eligible, created_at
		FROM controls
		WHERE controlset_version_id = $1 AND control_code = $2
	`, controlsetVersionID, code).Scan(
		&c.ID, &c.FrameworkID, &c.ControlsetVersionID, &c.ControlCode, &c.Title,
		&c.Description, &c.Category, &c.Severity, &c.NAEligible, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get control: %w", err)
	}
	return &c, nil
}
