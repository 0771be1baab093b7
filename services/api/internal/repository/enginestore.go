package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ibondarenko1/hipaa-saas/pkg/database"
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/engine"
)

// TxStore implements engine.Store against a single transaction, so an engine
// run replaces its outputs atomically.
type TxStore struct {
	tx       pgx.Tx
	tenantID uuid.UUID
}

// NewTxStore creates an engine store bound to a transaction.
func NewTxStore(tx pgx.Tx, tenantID uuid.UUID) *TxStore {
	return &TxStore{tx: tx, tenantID: tenantID}
}

// RunEngineTx executes fn against a transactional engine store on a
// tenant-scoped connection. On success the run row is marked completed with
// its stats in the same transaction, so a completed run always has its
// outputs and vice versa.
func (r *Repository) RunEngineTx(ctx context.Context, runID, tenantID uuid.UUID, fn func(store engine.Store) (*models.RunStats, error)) (*models.RunStats, error) {
	var stats *models.RunStats

	err := r.db.WithTenantContext(ctx, tenantID, func(tc *database.TenantConn) error {
		return tc.WithTx(ctx, func(tx pgx.Tx) error {
			store := NewTxStore(tx, tenantID)

			var err error
			stats, err = fn(store)
			if err != nil {
				return err
			}

			statsJSON, err := json.Marshal(stats)
			if err != nil {
				return fmt.Errorf("failed to marshal run stats: %w", err)
			}

			_, err = tx.Exec(ctx, `
				UPDATE engine_runs SET status = $2, stats = $3, finished_at = now()
				WHERE id = $1
			`, runID, models.RunStatusCompleted, statsJSON)
			if err != nil {
				return fmt.Errorf("failed to complete engine run: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// DeleteOutputs removes all prior engine outputs for an assessment. Children
// go first so foreign keys hold without cascades.
func (s *TxStore) DeleteOutputs(ctx context.Context, assessmentID uuid.UUID) error {
	for _, table := range []string{"remediation_actions", "risks", "gaps", "control_results"} {
		query := fmt.Sprintf("DELETE FROM %s WHERE assessment_id = $1", table)
		if _, err := s.tx.Exec(ctx, query, assessmentID); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	return nil
}

// ListControls retrieves all controls in a controlset version ordered by code.
func (s *TxStore) ListControls(ctx context.Context, controlsetVersionID uuid.UUID) ([]models.Control, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT id, framework_id, controlset_version_id, control_code, title,
		       description, category, severity, na_eligible, created_at
		FROM controls
		WHERE controlset_version_id = $1
		ORDER BY control_code
	`, controlsetVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list controls: %w", err)
	}
	defer rows.Close()

	var controls []models.Control
	for rows.Next() {
		var c models.Control
		err := rows.Scan(
			&c.ID, &c.FrameworkID, &c.ControlsetVersionID, &c.ControlCode, &c.Title,
			&c.Description, &c.Category, &c.Severity, &c.NAEligible, &c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan control: %w", err)
		}
		controls = append(controls, c)
	}
	return controls, rows.Err()
}

// ListRulesByControl retrieves all rules in a ruleset version keyed by control.
// Pattern strings that fail to parse keep their raw form for the evaluator's
// unknown-pattern rationale.
func (s *TxStore) ListRulesByControl(ctx context.Context, rulesetVersionID uuid.UUID) (map[uuid.UUID]*models.Rule, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT id, ruleset_version_id, control_id, pattern, logic, created_at
		FROM rules
		WHERE ruleset_version_id = $1
	`, rulesetVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	rules := make(map[uuid.UUID]*models.Rule)
	for rows.Next() {
		var rule models.Rule
		var pattern string
		var logic []byte
		if err := rows.Scan(&rule.ID, &rule.RulesetVersionID, &rule.ControlID, &pattern, &logic, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}

		rule.RawPattern = pattern
		if parsed, ok := models.ParsePattern(pattern); ok {
			rule.Pattern = parsed
		}

		if len(logic) > 0 {
			rule.Logic = &models.RuleLogic{}
			if err := json.Unmarshal(logic, rule.Logic); err != nil {
				return nil, fmt.Errorf("failed to unmarshal rule logic: %w", err)
			}
		}

		rules[rule.ControlID] = &rule
	}
	return rules, rows.Err()
}

// ListAnswersByControl retrieves answers keyed by the control their question
// belongs to. One question per control in v1.
func (s *TxStore) ListAnswersByControl(ctx context.Context, assessmentID uuid.UUID) (map[uuid.UUID]models.AnswerValue, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT q.control_id, a.value
		FROM answers a
		JOIN questions q ON q.id = a.question_id
		WHERE a.assessment_id = $1
	`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	answers := make(map[uuid.UUID]models.AnswerValue)
	for rows.Next() {
		var controlID uuid.UUID
		var raw []byte
		if err := rows.Scan(&controlID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}

		var value models.AnswerValue
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answer value: %w", err)
		}
		answers[controlID] = value
	}
	return answers, rows.Err()
}

// ListEvidenceControlIDs returns the set of controls with at least one
// evidence link in this assessment.
func (s *TxStore) ListEvidenceControlIDs(ctx context.Context, assessmentID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT DISTINCT control_id
		FROM evidence_links
		WHERE assessment_id = $1 AND control_id IS NOT NULL
	`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence controls: %w", err)
	}
	defer rows.Close()

	evidence := make(map[uuid.UUID]bool)
	for rows.Next() {
		var controlID uuid.UUID
		if err := rows.Scan(&controlID); err != nil {
			return nil, fmt.Errorf("failed to scan evidence control: %w", err)
		}
		evidence[controlID] = true
	}
	return evidence, rows.Err()
}

// InsertControlResult writes one control verdict.
func (s *TxStore) InsertControlResult(ctx context.Context, result *models.ControlResult) error {
	_, err := s.tx.Exec(ctx, `
		INSERT INTO control_results (id, tenant_id, assessment_id, control_id,
		                             status, severity, rationale, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, result.ID, s.tenantID, result.AssessmentID, result.ControlID,
		result.Status, result.Severity, result.Rationale, result.CalculatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert control result: %w", err)
	}
	return nil
}

// InsertGap writes one gap.
func (s *TxStore) InsertGap(ctx context.Context, gap *models.Gap) error {
	_, err := s.tx.Exec(ctx, `
		INSERT INTO gaps (id, tenant_id, assessment_id, control_id, status_source,
		                  severity, description, recommended_remediation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, gap.ID, s.tenantID, gap.AssessmentID, gap.ControlID, gap.StatusSource,
		gap.Severity, gap.Description, gap.RecommendedRemediation, gap.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert gap: %w", err)
	}
	return nil
}

// InsertRisk writes one risk.
func (s *TxStore) InsertRisk(ctx context.Context, risk *models.Risk) error {
	_, err := s.tx.Exec(ctx, `
		INSERT INTO risks (id, tenant_id, assessment_id, gap_id, severity, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, risk.ID, s.tenantID, risk.AssessmentID, risk.GapID, risk.Severity, risk.Description, risk.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert risk: %w", err)
	}
	return nil
}

// InsertRemediationAction writes one remediation action.
func (s *TxStore) InsertRemediationAction(ctx context.Context, action *models.RemediationAction) error {
	_, err := s.tx.Exec(ctx, `
		INSERT INTO remediation_actions (id, tenant_id, assessment_id, gap_id, priority,
		                                 effort, remediation_type, description, dependency,
		                                 template_reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, action.ID, s.tenantID, action.AssessmentID, action.GapID, action.Priority,
		action.Effort, action.RemediationType, action.Description, action.Dependency,
		action.TemplateReference, action.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert remediation action: %w", err)
	}
	return nil
}
