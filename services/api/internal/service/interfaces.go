// Package service provides business logic for the API.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ibondarenko1/hipaa-saas/pkg/models"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/engine"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/repository"
)

// Service-level errors. Handlers map these to HTTP status codes.
var (
	// ErrNotFound indicates the requested resource does not exist for this tenant.
	ErrNotFound = errors.New("not found")
	// ErrNotEditable indicates the assessment no longer accepts answer changes.
	ErrNotEditable = errors.New("assessment is not editable")
	// ErrNotSubmitted indicates the engine was invoked on an assessment that is
	// not in the submitted state.
	ErrNotSubmitted = errors.New("assessment is not in submitted state")
	// ErrNoAnswers indicates the assessment has no answers to evaluate.
	ErrNoAnswers = errors.New("assessment has no answers")
	// ErrMissingBindings indicates the assessment lacks controlset or ruleset bindings.
	ErrMissingBindings = errors.New("assessment has no controlset or ruleset version bound")
)

// =============================================================================
// Repository Interfaces - For dependency injection and testing
// =============================================================================

// AssessmentRepository defines the interface for assessment data access.
type AssessmentRepository interface {
	CreateAssessment(ctx context.Context, params repository.CreateAssessmentParams) (*models.Assessment, error)
	GetAssessment(ctx context.Context, tenantID, id uuid.UUID) (*models.Assessment, error)
	ListAssessments(ctx context.Context, tenantID uuid.UUID) ([]models.Assessment, error)
	SetAssessmentStatus(ctx context.Context, tenantID, id uuid.UUID, status models.AssessmentStatus) error
	UpsertAnswer(ctx context.Context, assessmentID, questionID uuid.UUID, value models.AnswerValue) (*models.Answer, error)
	ListAnswers(ctx context.Context, assessmentID uuid.UUID) ([]models.Answer, error)
	CountAnswers(ctx context.Context, assessmentID uuid.UUID) (int, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error)
	CreateEvidenceLink(ctx context.Context, params repository.CreateEvidenceLinkParams) (*models.EvidenceLink, error)
	ListEvidenceLinks(ctx context.Context, assessmentID uuid.UUID) ([]models.EvidenceLink, error)
}

// CatalogRepository defines the interface for framework catalog access.
type CatalogRepository interface {
	GetFrameworkByCode(ctx context.Context, code string) (*models.Framework, error)
	GetActiveControlsetVersion(ctx context.Context, frameworkID uuid.UUID) (*models.ControlsetVersion, error)
	GetActiveRulesetVersion(ctx context.Context, frameworkID uuid.UUID) (*models.RulesetVersion, error)
	ListQuestions(ctx context.Context, frameworkID uuid.UUID) ([]models.Question, error)
}

// EngineRepository defines the interface for engine run persistence.
type EngineRepository interface {
	CreateEngineRun(ctx context.Context, tenantID, assessmentID uuid.UUID) (*models.EngineRun, error)
	FailEngineRun(ctx context.Context, runID uuid.UUID, runErr error) error
	GetLatestEngineRun(ctx context.Context, tenantID, assessmentID uuid.UUID) (*models.EngineRun, error)
	RunEngineTx(ctx context.Context, runID, tenantID uuid.UUID, fn func(store engine.Store) (*models.RunStats, error)) (*models.RunStats, error)
}
