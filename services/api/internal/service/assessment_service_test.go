package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/repository"
)

type fakeAssessmentRepo struct {
	assessments map[uuid.UUID]*models.Assessment
	questions   map[uuid.UUID]*models.Question
	answers     map[uuid.UUID]models.Answer
	answerCount int
	links       []models.EvidenceLink
	statusSet   []models.AssessmentStatus
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{
		assessments: make(map[uuid.UUID]*models.Assessment),
		questions:   make(map[uuid.UUID]*models.Question),
		answers:     make(map[uuid.UUID]models.Answer),
	}
}

func (f *fakeAssessmentRepo) CreateAssessment(_ context.Context, params repository.CreateAssessmentParams) (*models.Assessment, error) {
	a := &models.Assessment{
		ID:                  uuid.New(),
		TenantID:            params.TenantID,
		FrameworkID:         params.FrameworkID,
		ControlsetVersionID: &params.ControlsetVersionID,
		RulesetVersionID:    &params.RulesetVersionID,
		Name:                params.Name,
		Status:              models.AssessmentStatusDraft,
	}
	f.assessments[a.ID] = a
	return a, nil
}

func (f *fakeAssessmentRepo) GetAssessment(_ context.Context, tenantID, id uuid.UUID) (*models.Assessment, error) {
	a, ok := f.assessments[id]
	if !ok || a.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAssessmentRepo) ListAssessments(_ context.Context, tenantID uuid.UUID) ([]models.Assessment, error) {
	var out []models.Assessment
	for _, a := range f.assessments {
		if a.TenantID == tenantID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) SetAssessmentStatus(_ context.Context, tenantID, id uuid.UUID, status models.AssessmentStatus) error {
	a, ok := f.assessments[id]
	if !ok || a.TenantID != tenantID {
		return repository.ErrNotFound
	}
	a.Status = status
	f.statusSet = append(f.statusSet, status)
	return nil
}

func (f *fakeAssessmentRepo) UpsertAnswer(_ context.Context, assessmentID, questionID uuid.UUID, value models.AnswerValue) (*models.Answer, error) {
	a := models.Answer{ID: uuid.New(), AssessmentID: assessmentID, QuestionID: questionID, Value: value}
	f.answers[questionID] = a
	return &a, nil
}

func (f *fakeAssessmentRepo) ListAnswers(_ context.Context, _ uuid.UUID) ([]models.Answer, error) {
	var out []models.Answer
	for _, a := range f.answers {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssessmentRepo) CountAnswers(_ context.Context, _ uuid.UUID) (int, error) {
	if f.answerCount > 0 {
		return f.answerCount, nil
	}
	return len(f.answers), nil
}

func (f *fakeAssessmentRepo) GetQuestion(_ context.Context, id uuid.UUID) (*models.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return q, nil
}

func (f *fakeAssessmentRepo) CreateEvidenceLink(_ context.Context, params repository.CreateEvidenceLinkParams) (*models.EvidenceLink, error) {
	l := models.EvidenceLink{
		ID:             uuid.New(),
		AssessmentID:   params.AssessmentID,
		EvidenceFileID: params.EvidenceFileID,
		ControlID:      params.ControlID,
		QuestionID:     params.QuestionID,
	}
	f.links = append(f.links, l)
	return &l, nil
}

func (f *fakeAssessmentRepo) ListEvidenceLinks(_ context.Context, _ uuid.UUID) ([]models.EvidenceLink, error) {
	return f.links, nil
}

type fakeCatalogRepo struct {
	framework  models.Framework
	controlset models.ControlsetVersion
	ruleset    models.RulesetVersion
	questions  []models.Question
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	fid := uuid.New()
	return &fakeCatalogRepo{
		framework:  models.Framework{ID: fid, Code: "HIPAA"},
		controlset: models.ControlsetVersion{ID: uuid.New(), FrameworkID: fid, Version: "v1.0", IsActive: true},
		ruleset:    models.RulesetVersion{ID: uuid.New(), FrameworkID: fid, Version: "v1.0", IsActive: true},
	}
}

func (f *fakeCatalogRepo) GetFrameworkByCode(_ context.Context, _ string) (*models.Framework, error) {
	return &f.framework, nil
}

func (f *fakeCatalogRepo) GetActiveControlsetVersion(_ context.Context, _ uuid.UUID) (*models.ControlsetVersion, error) {
	return &f.controlset, nil
}

func (f *fakeCatalogRepo) GetActiveRulesetVersion(_ context.Context, _ uuid.UUID) (*models.RulesetVersion, error) {
	return &f.ruleset, nil
}

func (f *fakeCatalogRepo) ListQuestions(_ context.Context, _ uuid.UUID) ([]models.Question, error) {
	return f.questions, nil
}

func newAssessmentService(repo *fakeAssessmentRepo, catalog *fakeCatalogRepo) *AssessmentService {
	return NewAssessmentService(repo, catalog, nil, nil, logger.New("error", "text"))
}

func TestCreateBindsActiveVersions(t *testing.T) {
	repo := newFakeAssessmentRepo()
	catalog := newFakeCatalogRepo()
	svc := newAssessmentService(repo, catalog)

	tenantID := uuid.New()
	a, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, UserID: "u1", Name: "Q3 audit"})
	require.NoError(t, err)

	assert.Equal(t, models.AssessmentStatusDraft, a.Status)
	require.NotNil(t, a.ControlsetVersionID)
	require.NotNil(t, a.RulesetVersionID)
	assert.Equal(t, catalog.controlset.ID, *a.ControlsetVersionID)
	assert.Equal(t, catalog.ruleset.ID, *a.RulesetVersionID)
}

func TestSubmitRequiresAnswers(t *testing.T) {
	repo := newFakeAssessmentRepo()
	svc := newAssessmentService(repo, newFakeCatalogRepo())

	tenantID := uuid.New()
	a, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, Name: "empty"})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), tenantID, a.ID, "u1")
	assert.ErrorIs(t, err, ErrNoAnswers)
}

func TestSubmitTransitionsToSubmitted(t *testing.T) {
	repo := newFakeAssessmentRepo()
	svc := newAssessmentService(repo, newFakeCatalogRepo())

	tenantID := uuid.New()
	a, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, Name: "audit"})
	require.NoError(t, err)

	repo.answerCount = 5

	submitted, err := svc.Submit(context.Background(), tenantID, a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.AssessmentStatusSubmitted, submitted.Status)

	// Second submit is rejected.
	_, err = svc.Submit(context.Background(), tenantID, a.ID, "u1")
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestReopenRequiresSubmitted(t *testing.T) {
	repo := newFakeAssessmentRepo()
	svc := newAssessmentService(repo, newFakeCatalogRepo())

	tenantID := uuid.New()
	a, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, Name: "audit"})
	require.NoError(t, err)

	_, err = svc.Reopen(context.Background(), tenantID, a.ID, "u1")
	assert.ErrorIs(t, err, ErrNotEditable)

	repo.answerCount = 1
	_, err = svc.Submit(context.Background(), tenantID, a.ID, "u1")
	require.NoError(t, err)

	reopened, err := svc.Reopen(context.Background(), tenantID, a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.AssessmentStatusInProgress, reopened.Status)
}

func TestUpsertAnswerRejectedAfterSubmit(t *testing.T) {
	repo := newFakeAssessmentRepo()
	svc := newAssessmentService(repo, newFakeCatalogRepo())

	tenantID := uuid.New()
	a, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, Name: "audit"})
	require.NoError(t, err)

	q := &models.Question{ID: uuid.New(), QuestionCode: "Q-A1-01"}
	repo.questions[q.ID] = q

	_, err = svc.UpsertAnswer(context.Background(), UpsertAnswerInput{
		TenantID: tenantID, AssessmentID: a.ID, QuestionID: q.ID,
		Value: models.AnswerValue{Choice: "Yes"},
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), tenantID, a.ID, "u1")
	require.NoError(t, err)

	_, err = svc.UpsertAnswer(context.Background(), UpsertAnswerInput{
		TenantID: tenantID, AssessmentID: a.ID, QuestionID: q.ID,
		Value: models.AnswerValue{Choice: "No"},
	})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestUpsertAnswerUnknownQuestion(t *testing.T) {
	repo := newFakeAssessmentRepo()
	svc := newAssessmentService(repo, newFakeCatalogRepo())

	tenantID := uuid.New()
	a, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, Name: "audit"})
	require.NoError(t, err)

	_, err = svc.UpsertAnswer(context.Background(), UpsertAnswerInput{
		TenantID: tenantID, AssessmentID: a.ID, QuestionID: uuid.New(),
		Value: models.AnswerValue{Choice: "Yes"},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetEnforcesTenantScope(t *testing.T) {
	repo := newFakeAssessmentRepo()
	svc := newAssessmentService(repo, newFakeCatalogRepo())

	tenantID := uuid.New()
	a, err := svc.Create(context.Background(), CreateInput{TenantID: tenantID, Name: "audit"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New(), a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
