package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ibondarenko1/hipaa-saas/pkg/hipaa"
)

// InstallCatalog installs the built-in HIPAA catalog: framework, controlset
// and ruleset versions, controls, questions, and rules. Idempotent, so it runs
// on every startup; existing rows are updated in place.
func (r *Repository) InstallCatalog(ctx context.Context) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var frameworkID uuid.UUID
		err := tx.QueryRow(ctx, `
			INSERT INTO frameworks (id, code, name, created_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, uuid.New(), hipaa.FrameworkCode, hipaa.FrameworkName).Scan(&frameworkID)
		if err != nil {
			return fmt.Errorf("failed to seed framework: %w", err)
		}

		var controlsetVersionID uuid.UUID
		err = tx.QueryRow(ctx, `
			INSERT INTO controlset_versions (id, framework_id, version, is_active, published_at, notes, created_at)
			VALUES ($1, $2, $3, true, now(), '', now())
			ON CONFLICT (framework_id, version) DO UPDATE SET is_active = true
			RETURNING id
		`, uuid.New(), frameworkID, hipaa.ControlsetVersion).Scan(&controlsetVersionID)
		if err != nil {
			return fmt.Errorf("failed to seed controlset version: %w", err)
		}

		var rulesetVersionID uuid.UUID
		err = tx.QueryRow(ctx, `
			INSERT INTO ruleset_versions (id, framework_id, version, is_active, published_at, notes, created_at)
			VALUES ($1, $2, $3, true, now(), '', now())
			ON CONFLICT (framework_id, version) DO UPDATE SET is_active = true
			RETURNING id
		`, uuid.New(), frameworkID, hipaa.RulesetVersion).Scan(&rulesetVersionID)
		if err != nil {
			return fmt.Errorf("failed to seed ruleset version: %w", err)
		}

		controlIDs := make(map[string]uuid.UUID, len(hipaa.Controls()))
		for _, c := range hipaa.Controls() {
			var id uuid.UUID
			err := tx.QueryRow(ctx, `
				INSERT INTO controls (id, framework_id, controlset_version_id, control_code,
				                      title, description, category, severity, na_eligible, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
				ON CONFLICT (controlset_version_id, control_code) DO UPDATE SET
					title = EXCLUDED.title,
					description = EXCLUDED.description,
					category = EXCLUDED.category,
					severity = EXCLUDED.severity,
					na_eligible = EXCLUDED.na_eligible
				RETURNING id
			`, uuid.New(), frameworkID, controlsetVersionID, c.Code,
				c.Title, c.Group, c.Category, c.Severity, c.NAEligible).Scan(&id)
			if err != nil {
				return fmt.Errorf("failed to seed control %s: %w", c.Code, err)
			}
			controlIDs[c.Code] = id
		}

		for _, q := range hipaa.Questions() {
			controlID, ok := controlIDs[q.ControlCode]
			if !ok {
				return fmt.Errorf("question %s references unknown control %s", q.Code, q.ControlCode)
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO questions (id, framework_id, control_id, question_code, text, answer_type, is_active, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, true, now())
				ON CONFLICT (framework_id, question_code) DO UPDATE SET
					control_id = EXCLUDED.control_id,
					text = EXCLUDED.text,
					answer_type = EXCLUDED.answer_type,
					is_active = true
			`, uuid.New(), frameworkID, controlID, q.Code, q.Text, q.AnswerType)
			if err != nil {
				return fmt.Errorf("failed to seed question %s: %w", q.Code, err)
			}
		}

		for _, rule := range hipaa.Rules() {
			controlID, ok := controlIDs[rule.ControlCode]
			if !ok {
				return fmt.Errorf("rule references unknown control %s", rule.ControlCode)
			}

			var logicJSON []byte
			if rule.Logic != nil {
				logicJSON, err = json.Marshal(rule.Logic)
				if err != nil {
					return fmt.Errorf("failed to marshal rule logic for %s: %w", rule.ControlCode, err)
				}
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO rules (id, ruleset_version_id, control_id, pattern, logic, created_at)
				VALUES ($1, $2, $3, $4, $5, now())
				ON CONFLICT (ruleset_version_id, control_id) DO UPDATE SET
					pattern = EXCLUDED.pattern,
					logic = EXCLUDED.logic
			`, uuid.New(), rulesetVersionID, controlID, rule.Pattern.String(), logicJSON)
			if err != nil {
				return fmt.Errorf("failed to seed rule for %s: %w", rule.ControlCode, err)
			}
		}

		return nil
	})
}
