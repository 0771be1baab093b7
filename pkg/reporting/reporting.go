// Package reporting provides read-only result queries for report generation.
// It reads the engine's output tables and never writes them; the run
// orchestrator owns all writes.
package reporting

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ibondarenko1/hipaa-saas/pkg/models"
)

// Service provides result listing queries over database/sql.
type Service struct {
	db *sql.DB
}

// NewService creates a new reporting service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// ControlResultRow is a control result joined with its control's identity.
type ControlResultRow struct {
	models.ControlResult
	ControlCode string `json:"control_code"`
	Title       string `json:"title"`
	Category    string `json:"category"`
}

// ListControlResults returns the results for an assessment ordered by control
// code. An empty status lists all results.
func (s *Service) ListControlResults(ctx context.Context, assessmentID uuid.UUID, status models.ResultStatus) ([]ControlResultRow, error) {
	query := `
		SELECT cr.id, cr.assessment_id, cr.control_id, cr.status, cr.severity,
		       cr.rationale, cr.calculated_at,
		       c.control_code, c.title, c.category
		FROM control_results cr
		JOIN controls c ON c.id = cr.control_id
		WHERE cr.assessment_id = $1
	`
	args := []any{assessmentID}

	if status != "" {
		query += " AND cr.status = $2"
		args = append(args, status)
	}

	query += " ORDER BY c.control_code"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list control results: %w", err)
	}
	defer rows.Close()

	var results []ControlResultRow
	for rows.Next() {
		var r ControlResultRow
		err := rows.Scan(
			&r.ID, &r.AssessmentID, &r.ControlID, &r.Status, &r.Severity,
			&r.Rationale, &r.CalculatedAt,
			&r.ControlCode, &r.Title, &r.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan control result: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// ListGaps returns the gaps for an assessment ordered by severity then code.
func (s *Service) ListGaps(ctx context.Context, assessmentID uuid.UUID) ([]models.Gap, error) {
	query := `
		SELECT g.id, g.assessment_id, g.control_id, g.status_source, g.severity,
		       g.description, g.recommended_remediation, g.created_at
		FROM gaps g
		JOIN controls c ON c.id = g.control_id
		WHERE g.assessment_id = $1
		ORDER BY
			CASE g.severity
				WHEN 'Critical' THEN 0
				WHEN 'High' THEN 1
				WHEN 'Medium' THEN 2
				ELSE 3
			END,
			c.control_code
	`

	rows, err := s.db.QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gaps: %w", err)
	}
	defer rows.Close()

	var gaps []models.Gap
	for rows.Next() {
		var g models.Gap
		err := rows.Scan(
			&g.ID, &g.AssessmentID, &g.ControlID, &g.StatusSource, &g.Severity,
			&g.Description, &g.RecommendedRemediation, &g.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gap: %w", err)
		}
		gaps = append(gaps, g)
	}

	return gaps, rows.Err()
}

// ListRisks returns the risks for an assessment, most severe first.
func (s *Service) ListRisks(ctx context.Context, assessmentID uuid.UUID) ([]models.Risk, error) {
	query := `
		SELECT id, assessment_id, gap_id, severity, description, created_at
		FROM risks
		WHERE assessment_id = $1
		ORDER BY
			CASE severity
				WHEN 'Critical' THEN 0
				WHEN 'High' THEN 1
				WHEN 'Medium' THEN 2
				ELSE 3
			END,
			created_at
	`

	rows, err := s.db.QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list risks: %w", err)
	}
	defer rows.Close()

	var risks []models.Risk
	for rows.Next() {
		var r models.Risk
		err := rows.Scan(&r.ID, &r.AssessmentID, &r.GapID, &r.Severity, &r.Description, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan risk: %w", err)
		}
		risks = append(risks, r)
	}

	return risks, rows.Err()
}

// ListRemediationActions returns the remediation plan, most urgent first.
func (s *Service) ListRemediationActions(ctx context.Context, assessmentID uuid.UUID) ([]models.RemediationAction, error) {
	query := `
		SELECT id, assessment_id, gap_id, priority, effort, remediation_type,
		       description, dependency, template_reference, created_at
		FROM remediation_actions
		WHERE assessment_id = $1
		ORDER BY
			CASE priority
				WHEN 'Critical' THEN 0
				WHEN 'High' THEN 1
				WHEN 'Medium' THEN 2
				ELSE 3
			END,
			created_at
	`

	rows, err := s.db.QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list remediation actions: %w", err)
	}
	defer rows.Close()

	var actions []models.RemediationAction
	for rows.Next() {
		var a models.RemediationAction
		var dependency, templateRef sql.NullString

		err := rows.Scan(
			&a.ID, &a.AssessmentID, &a.GapID, &a.Priority, &a.Effort, &a.RemediationType,
			&a.Description, &dependency, &templateRef, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan remediation action: %w", err)
		}

		if dependency.Valid {
			a.Dependency = &dependency.String
		}
		if templateRef.Valid {
			a.TemplateReference = &templateRef.String
		}

		actions = append(actions, a)
	}

	return actions, rows.Err()
}

// StatusSummary aggregates verdict counts for an assessment.
type StatusSummary struct {
	Pass    int `json:"pass"`
	Partial int `json:"partial"`
	Fail    int `json:"fail"`
	Unknown int `json:"unknown"`
	Total   int `json:"total"`
}

// Summary returns the verdict counts for an assessment.
func (s *Service) Summary(ctx context.Context, assessmentID uuid.UUID) (*StatusSummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'Pass'),
			COUNT(*) FILTER (WHERE status = 'Partial'),
			COUNT(*) FILTER (WHERE status = 'Fail'),
			COUNT(*) FILTER (WHERE status = 'Unknown'),
			COUNT(*)
		FROM control_results
		WHERE assessment_id = $1
	`

	var summary StatusSummary
	err := s.db.QueryRowContext(ctx, query, assessmentID).Scan(
		&summary.Pass, &summary.Partial, &summary.Fail, &summary.Unknown, &summary.Total,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize results: %w", err)
	}

	return &summary, nil
}
