package engine

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
)

// ErrMissingBindings is returned when an assessment has no controlset or
// ruleset version bound. Checked before any output is touched.
var ErrMissingBindings = errors.New("assessment has no controlset or ruleset version bound")

// Store is the persistence surface the runner needs. All methods are expected
// to run inside one transaction so a re-run replaces outputs atomically.
type Store interface {
	DeleteOutputs(ctx context.Context, assessmentID uuid.UUID) error
	ListControls(ctx context.Context, controlsetVersionID uuid.UUID) ([]models.Control, error)
	ListRulesByControl(ctx context.Context, rulesetVersionID uuid.UUID) (map[uuid.UUID]*models.Rule, error)
	ListAnswersByControl(ctx context.Context, assessmentID uuid.UUID) (map[uuid.UUID]models.AnswerValue, error)
	ListEvidenceControlIDs(ctx context.Context, assessmentID uuid.UUID) (map[uuid.UUID]bool, error)
	InsertControlResult(ctx context.Context, result *models.ControlResult) error
	InsertGap(ctx context.Context, gap *models.Gap) error
	InsertRisk(ctx context.Context, risk *models.Risk) error
	InsertRemediationAction(ctx context.Context, action *models.RemediationAction) error
}

// Runner executes the engine for one assessment at a time.
type Runner struct {
	store Store
	eval  *Evaluator
	log   *logger.Logger
}

// NewRunner creates an engine runner.
func NewRunner(store Store, log *logger.Logger) *Runner {
	return &Runner{
		store: store,
		eval:  NewEvaluator(),
		log:   log.WithComponent("engine"),
	}
}

// Run evaluates every control in the assessment's controlset and replaces all
// prior outputs. Every control gets exactly one result; every non-Pass result
// gets one gap, one risk, and at least one remediation action.
func (r *Runner) Run(ctx context.Context, assessment *models.Assessment) (*models.RunStats, error) {
	if assessment.ControlsetVersionID == nil || assessment.RulesetVersionID == nil {
		return nil, ErrMissingBindings
	}

	start := time.Now()
	now := start.UTC()

	r.log.Info("engine run started",
		"assessment_id", assessment.ID,
		"tenant_id", assessment.TenantID,
	)

	if err := r.store.DeleteOutputs(ctx, assessment.ID); err != nil {
		return nil, err
	}

	controls, err := r.store.ListControls(ctx, *assessment.ControlsetVersionID)
	if err != nil {
		return nil, err
	}
	sort.Slice(controls, func(i, j int) bool {
		return controls[i].ControlCode < controls[j].ControlCode
	})

	rules, err := r.store.ListRulesByControl(ctx, *assessment.RulesetVersionID)
	if err != nil {
		return nil, err
	}

	answers, err := r.store.ListAnswersByControl(ctx, assessment.ID)
	if err != nil {
		return nil, err
	}

	evidence, err := r.store.ListEvidenceControlIDs(ctx, assessment.ID)
	if err != nil {
		return nil, err
	}

	stats := &models.RunStats{TotalControls: len(controls)}

	for _, control := range controls {
		rule := rules[control.ID]

		var answer *models.AnswerValue
		if v, ok := answers[control.ID]; ok {
			answer = &v
		}

		verdict := r.eval.Evaluate(control, rule, answer, evidence[control.ID])

		switch verdict.Status {
		case models.StatusPass:
			stats.Pass++
		case models.StatusPartial:
			stats.Partial++
		case models.StatusFail:
			stats.Fail++
		default:
			stats.Unknown++
		}

		result := &models.ControlResult{
			ID:           uuid.New(),
			AssessmentID: assessment.ID,
			ControlID:    control.ID,
			Status:       verdict.Status,
			Severity:     control.Severity,
			Rationale:    verdict.Rationale,
			CalculatedAt: now,
		}
		if err := r.store.InsertControlResult(ctx, result); err != nil {
			return nil, err
		}

		if verdict.Status == models.StatusPass {
			continue
		}

		templateID, template := TemplateForControl(control.ControlCode)

		gap := &models.Gap{
			ID:                     uuid.New(),
			AssessmentID:           assessment.ID,
			ControlID:              control.ID,
			StatusSource:           verdict.Status,
			Severity:               control.Severity,
			Description:            GapDescription(control, verdict.Status, answer),
			RecommendedRemediation: template.Description,
			CreatedAt:              now,
		}
		if err := r.store.InsertGap(ctx, gap); err != nil {
			return nil, err
		}
		stats.Gaps++

		risk := &models.Risk{
			ID:           uuid.New(),
			AssessmentID: assessment.ID,
			GapID:        gap.ID,
			Severity:     control.Severity,
			Description:  RiskDescription(control, verdict.Status),
			CreatedAt:    now,
		}
		if err := r.store.InsertRisk(ctx, risk); err != nil {
			return nil, err
		}
		stats.Risks++

		effort := template.Effort
		if effort == "" {
			effort = models.EffortForSeverity(control.Severity)
		}
		remediationType := template.Type
		if remediationType == "" {
			remediationType = models.RemediationProcess
		}

		action := &models.RemediationAction{
			ID:                uuid.New(),
			AssessmentID:      assessment.ID,
			GapID:             gap.ID,
			Priority:          models.PriorityForSeverity(control.Severity),
			Effort:            effort,
			RemediationType:   remediationType,
			Description:       template.Description,
			TemplateReference: &templateID,
			CreatedAt:         now,
		}
		if err := r.store.InsertRemediationAction(ctx, action); err != nil {
			return nil, err
		}
		stats.Remediations++
	}

	if len(controls) == 0 {
		stats.Errors = append(stats.Errors, "No controls found in controlset_version - engine may have no data.")
	}

	r.log.Info("engine run completed",
		"assessment_id", assessment.ID,
		"total_controls", stats.TotalControls,
		"pass", stats.Pass,
		"partial", stats.Partial,
		"fail", stats.Fail,
		"unknown", stats.Unknown,
		"gaps", stats.Gaps,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return stats, nil
}
