package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ibondarenko1/hipaa-saas/pkg/audit"
	"github.com/ibondarenko1/hipaa-saas/pkg/events"
	"github.com/ibondarenko1/hipaa-saas/pkg/hipaa"
	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/repository"
)

// AssessmentService handles assessment lifecycle and answer collection.
type AssessmentService struct {
	repo      AssessmentRepository
	catalog   CatalogRepository
	audit     *audit.Logger
	publisher *events.Publisher
	log       *logger.Logger
}

// NewAssessmentService creates a new AssessmentService.
func NewAssessmentService(repo AssessmentRepository, catalog CatalogRepository, auditLog *audit.Logger, publisher *events.Publisher, log *logger.Logger) *AssessmentService {
	return &AssessmentService{
		repo:      repo,
		catalog:   catalog,
		audit:     auditLog,
		publisher: publisher,
		log:       log.WithComponent("assessment-service"),
	}
}

// CreateInput contains input for creating an assessment.
type CreateInput struct {
	TenantID uuid.UUID
	UserID   string
	Name     string
}

// Create opens a new draft assessment bound to the active HIPAA catalog
// versions. Bindings are fixed at creation so engine re-runs stay reproducible.
func (s *AssessmentService) Create(ctx context.Context, input CreateInput) (*models.Assessment, error) {
	framework, err := s.catalog.GetFrameworkByCode(ctx, hipaa.FrameworkCode)
	if err != nil {
		return nil, fmt.Errorf("get framework: %w", err)
	}

	controlset, err := s.catalog.GetActiveControlsetVersion(ctx, framework.ID)
	if err != nil {
		return nil, fmt.Errorf("get active controlset version: %w", err)
	}

	ruleset, err := s.catalog.GetActiveRulesetVersion(ctx, framework.ID)
	if err != nil {
		return nil, fmt.Errorf("get active ruleset version: %w", err)
	}

	assessment, err := s.repo.CreateAssessment(ctx, repository.CreateAssessmentParams{
		TenantID:            input.TenantID,
		FrameworkID:         framework.ID,
		ControlsetVersionID: controlset.ID,
		RulesetVersionID:    ruleset.ID,
		Name:                input.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	s.audit.LogUserAction(ctx, input.TenantID, input.UserID,
		audit.ActionAssessmentCreate, "assessment", assessment.ID.String(), audit.StatusSuccess)

	return assessment, nil
}

// Get retrieves an assessment scoped to a tenant.
func (s *AssessmentService) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.Assessment, error) {
	assessment, err := s.repo.GetAssessment(ctx, tenantID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	return assessment, nil
}

// List retrieves all assessments for a tenant.
func (s *AssessmentService) List(ctx context.Context, tenantID uuid.UUID) ([]models.Assessment, error) {
	assessments, err := s.repo.ListAssessments(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return assessments, nil
}

// ListQuestions returns the active questionnaire for an assessment's framework.
func (s *AssessmentService) ListQuestions(ctx context.Context, tenantID, assessmentID uuid.UUID) ([]models.Question, error) {
	assessment, err := s.Get(ctx, tenantID, assessmentID)
	if err != nil {
		return nil, err
	}

	questions, err := s.catalog.ListQuestions(ctx, assessment.FrameworkID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// Submit locks an assessment for evaluation. Requires at least one answer.
func (s *AssessmentService) Submit(ctx context.Context, tenantID, id uuid.UUID, userID string) (*models.Assessment, error) {
	assessment, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if !assessment.Status.Editable() {
		return nil, ErrNotEditable
	}

	count, err := s.repo.CountAnswers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count answers: %w", err)
	}
	if count == 0 {
		return nil, ErrNoAnswers
	}

	if err := s.repo.SetAssessmentStatus(ctx, tenantID, id, models.AssessmentStatusSubmitted); err != nil {
		return nil, fmt.Errorf("submit assessment: %w", err)
	}

	s.audit.LogUserAction(ctx, tenantID, userID,
		audit.ActionAssessmentSubmit, "assessment", id.String(), audit.StatusSuccess)

	if err := s.publisher.PublishAssessmentSubmitted(ctx, events.AssessmentSubmittedEvent{
		TenantID:     tenantID,
		AssessmentID: id,
		SubmittedAt:  time.Now().UTC(),
	}); err != nil {
		// Event delivery is best-effort; the submit itself already happened.
		s.log.Warn("failed to publish assessment.submitted", "error", err, "assessment_id", id)
	}

	return s.Get(ctx, tenantID, id)
}

// Reopen returns a submitted assessment to the editable state so answers can
// be corrected before an engine run.
func (s *AssessmentService) Reopen(ctx context.Context, tenantID, id uuid.UUID, userID string) (*models.Assessment, error) {
	assessment, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if assessment.Status != models.AssessmentStatusSubmitted {
		return nil, ErrNotEditable
	}

	if err := s.repo.SetAssessmentStatus(ctx, tenantID, id, models.AssessmentStatusInProgress); err != nil {
		return nil, fmt.Errorf("reopen assessment: %w", err)
	}

	s.audit.LogUserAction(ctx, tenantID, userID,
		audit.ActionAssessmentReopen, "assessment", id.String(), audit.StatusSuccess)

	return s.Get(ctx, tenantID, id)
}

// UpsertAnswerInput contains input for answering a question.
type UpsertAnswerInput struct {
	TenantID     uuid.UUID
	AssessmentID uuid.UUID
	QuestionID   uuid.UUID
	UserID       string
	Value        models.AnswerValue
}

// UpsertAnswer records or replaces the answer to one question. Allowed only
// while the assessment is editable.
func (s *AssessmentService) UpsertAnswer(ctx context.Context, input UpsertAnswerInput) (*models.Answer, error) {
	assessment, err := s.Get(ctx, input.TenantID, input.AssessmentID)
	if err != nil {
		return nil, err
	}

	if !assessment.Status.Editable() {
		return nil, ErrNotEditable
	}

	if _, err := s.repo.GetQuestion(ctx, input.QuestionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	answer, err := s.repo.UpsertAnswer(ctx, input.AssessmentID, input.QuestionID, input.Value)
	if err != nil {
		return nil, fmt.Errorf("upsert answer: %w", err)
	}

	s.audit.LogUserAction(ctx, input.TenantID, input.UserID,
		audit.ActionAnswerUpsert, "answer", answer.ID.String(), audit.StatusSuccess)

	return answer, nil
}

// ListAnswers retrieves all answers for an assessment.
func (s *AssessmentService) ListAnswers(ctx context.Context, tenantID, assessmentID uuid.UUID) ([]models.Answer, error) {
	if _, err := s.Get(ctx, tenantID, assessmentID); err != nil {
		return nil, err
	}

	answers, err := s.repo.ListAnswers(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answers, nil
}

// AttachEvidenceInput contains input for linking evidence.
type AttachEvidenceInput struct {
	TenantID       uuid.UUID
	AssessmentID   uuid.UUID
	EvidenceFileID uuid.UUID
	ControlID      *uuid.UUID
	QuestionID     *uuid.UUID
	UserID         string
}

// AttachEvidence links an uploaded evidence file to a control or question.
func (s *AssessmentService) AttachEvidence(ctx context.Context, input AttachEvidenceInput) (*models.EvidenceLink, error) {
	assessment, err := s.Get(ctx, input.TenantID, input.AssessmentID)
	if err != nil {
		return nil, err
	}

	if !assessment.Status.Editable() {
		return nil, ErrNotEditable
	}

	link, err := s.repo.CreateEvidenceLink(ctx, repository.CreateEvidenceLinkParams{
		AssessmentID:   input.AssessmentID,
		EvidenceFileID: input.EvidenceFileID,
		ControlID:      input.ControlID,
		QuestionID:     input.QuestionID,
	})
	if err != nil {
		return nil, fmt.Errorf("create evidence link: %w", err)
	}

	s.audit.LogUserAction(ctx, input.TenantID, input.UserID,
		audit.ActionEvidenceLink, "evidence_link", link.ID.String(), audit.StatusSuccess)

	return link, nil
}

// ListEvidence retrieves all evidence links for an assessment.
func (s *AssessmentService) ListEvidence(ctx context.Context, tenantID, assessmentID uuid.UUID) ([]models.EvidenceLink, error) {
	if _, err := s.Get(ctx, tenantID, assessmentID); err != nil {
		return nil, err
	}

	links, err := s.repo.ListEvidenceLinks(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list evidence links: %w", err)
	}
	return links, nil
}
