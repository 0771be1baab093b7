package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ibondarenko1/hipaa-saas/pkg/audit"
	"github.com/ibondarenko1/hipaa-saas/pkg/events"
	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
	"github.com/ibondarenko1/hipaa-saas/pkg/telemetry"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/engine"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/repository"
)

// EngineService runs the compliance mapping engine for submitted assessments.
type EngineService struct {
	assessments AssessmentRepository
	runs        EngineRepository
	audit       *audit.Logger
	publisher   *events.Publisher
	log         *logger.Logger
}

// NewEngineService creates a new EngineService.
func NewEngineService(assessments AssessmentRepository, runs EngineRepository, auditLog *audit.Logger, publisher *events.Publisher, log *logger.Logger) *EngineService {
	return &EngineService{
		assessments: assessments,
		runs:        runs,
		audit:       auditLog,
		publisher:   publisher,
		log:         log.WithComponent("engine-service"),
	}
}

// Run executes the engine for an assessment. Preconditions: the assessment
// exists for this tenant, is in the submitted state, carries catalog bindings,
// and has at least one answer. On success the assessment moves to completed.
func (s *EngineService) Run(ctx context.Context, tenantID, assessmentID uuid.UUID) (*models.EngineRun, error) {
	ctx, span := telemetry.EngineRunSpan(ctx, assessmentID.String())
	defer span.End()

	assessment, err := s.assessments.GetAssessment(ctx, tenantID, assessmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}

	if assessment.Status != models.AssessmentStatusSubmitted {
		return nil, ErrNotSubmitted
	}
	if assessment.ControlsetVersionID == nil || assessment.RulesetVersionID == nil {
		return nil, ErrMissingBindings
	}

	count, err := s.assessments.CountAnswers(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("count answers: %w", err)
	}
	if count == 0 {
		return nil, ErrNoAnswers
	}

	run, err := s.runs.CreateEngineRun(ctx, tenantID, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("create engine run: %w", err)
	}

	s.audit.LogSystemAction(ctx, tenantID, audit.ActionEngineRunStart,
		"engine_run", run.ID.String(), audit.StatusSuccess, nil)

	stats, err := s.runs.RunEngineTx(ctx, run.ID, tenantID, func(store engine.Store) (*models.RunStats, error) {
		runner := engine.NewRunner(store, s.log)
		return runner.Run(ctx, assessment)
	})
	if err != nil {
		span.SetError(err)
		if failErr := s.runs.FailEngineRun(ctx, run.ID, err); failErr != nil {
			s.log.Error("failed to record engine run failure", "error", failErr, "run_id", run.ID)
		}
		s.audit.LogSystemAction(ctx, tenantID, audit.ActionEngineRunFail,
			"engine_run", run.ID.String(), audit.StatusFailure, map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("engine run: %w", err)
	}

	if err := s.assessments.SetAssessmentStatus(ctx, tenantID, assessmentID, models.AssessmentStatusCompleted); err != nil {
		return nil, fmt.Errorf("complete assessment: %w", err)
	}

	s.audit.LogSystemAction(ctx, tenantID, audit.ActionEngineRunComplete,
		"engine_run", run.ID.String(), audit.StatusSuccess, map[string]any{
			"pass":    stats.Pass,
			"partial": stats.Partial,
			"fail":    stats.Fail,
			"unknown": stats.Unknown,
			"gaps":    stats.Gaps,
		})

	if err := s.publisher.PublishEngineRunCompleted(ctx, events.EngineRunCompletedEvent{
		TenantID:     tenantID,
		AssessmentID: assessmentID,
		RunID:        run.ID,
		Stats:        *stats,
		FinishedAt:   time.Now().UTC(),
	}); err != nil {
		s.log.Warn("failed to publish engine.run.completed", "error", err, "run_id", run.ID)
	}

	span.SetOK()

	return s.LatestRun(ctx, tenantID, assessmentID)
}

// LatestRun retrieves the most recent engine run for an assessment.
func (s *EngineService) LatestRun(ctx context.Context, tenantID, assessmentID uuid.UUID) (*models.EngineRun, error) {
	run, err := s.runs.GetLatestEngineRun(ctx, tenantID, assessmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest engine run: %w", err)
	}
	return run, nil
}
