package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/engine"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/repository"
)

type memEngineStore struct {
	controls []models.Control
	rules    map[uuid.UUID]*models.Rule
	answers  map[uuid.UUID]models.AnswerValue

	results []models.ControlResult
	gaps    []models.Gap
}

func (m *memEngineStore) DeleteOutputs(context.Context, uuid.UUID) error { return nil }

func (m *memEngineStore) ListControls(context.Context, uuid.UUID) ([]models.Control, error) {
	return m.controls, nil
}

func (m *memEngineStore) ListRulesByControl(context.Context, uuid.UUID) (map[uuid.UUID]*models.Rule, error) {
	return m.rules, nil
}

func (m *memEngineStore) ListAnswersByControl(context.Context, uuid.UUID) (map[uuid.UUID]models.AnswerValue, error) {
	return m.answers, nil
}

func (m *memEngineStore) ListEvidenceControlIDs(context.Context, uuid.UUID) (map[uuid.UUID]bool, error) {
	return nil, nil
}

func (m *memEngineStore) InsertControlResult(_ context.Context, r *models.ControlResult) error {
	m.results = append(m.results, *r)
	return nil
}

func (m *memEngineStore) InsertGap(_ context.Context, g *models.Gap) error {
	m.gaps = append(m.gaps, *g)
	return nil
}

func (m *memEngineStore) InsertRisk(context.Context, *models.Risk) error { return nil }

func (m *memEngineStore) InsertRemediationAction(context.Context, *models.RemediationAction) error {
	return nil
}

type fakeEngineRepo struct {
	store  *memEngineStore
	runs   map[uuid.UUID]*models.EngineRun
	latest *models.EngineRun
	failed bool
}

func newFakeEngineRepo(store *memEngineStore) *fakeEngineRepo {
	return &fakeEngineRepo{store: store, runs: make(map[uuid.UUID]*models.EngineRun)}
}

func (f *fakeEngineRepo) CreateEngineRun(_ context.Context, tenantID, assessmentID uuid.UUID) (*models.EngineRun, error) {
	run := &models.EngineRun{
		ID:           uuid.New(),
		TenantID:     tenantID,
		AssessmentID: assessmentID,
		Status:       models.RunStatusRunning,
	}
	f.runs[run.ID] = run
	f.latest = run
	return run, nil
}

func (f *fakeEngineRepo) FailEngineRun(_ context.Context, runID uuid.UUID, runErr error) error {
	f.failed = true
	if run, ok := f.runs[runID]; ok {
		run.Status = models.RunStatusFailed
		msg := runErr.Error()
		run.Error = &msg
	}
	return nil
}

func (f *fakeEngineRepo) GetLatestEngineRun(_ context.Context, _, _ uuid.UUID) (*models.EngineRun, error) {
	if f.latest == nil {
		return nil, repository.ErrNotFound
	}
	return f.latest, nil
}

func (f *fakeEngineRepo) RunEngineTx(_ context.Context, runID, _ uuid.UUID, fn func(store engine.Store) (*models.RunStats, error)) (*models.RunStats, error) {
	stats, err := fn(f.store)
	if err != nil {
		return nil, err
	}
	if run, ok := f.runs[runID]; ok {
		run.Status = models.RunStatusCompleted
		run.Stats = stats
	}
	return stats, nil
}

func submittedAssessment(repo *fakeAssessmentRepo, tenantID uuid.UUID) *models.Assessment {
	csID := uuid.New()
	rsID := uuid.New()
	a := &models.Assessment{
		ID:                  uuid.New(),
		TenantID:            tenantID,
		FrameworkID:         uuid.New(),
		ControlsetVersionID: &csID,
		RulesetVersionID:    &rsID,
		Status:              models.AssessmentStatusSubmitted,
	}
	repo.assessments[a.ID] = a
	return a
}

func TestEngineRunHappyPath(t *testing.T) {
	tenantID := uuid.New()
	assessRepo := newFakeAssessmentRepo()
	a := submittedAssessment(assessRepo, tenantID)
	assessRepo.answerCount = 2

	control := models.Control{ID: uuid.New(), ControlCode: "A1-01", Severity: models.SeverityCritical}
	store := &memEngineStore{
		controls: []models.Control{control},
		rules:    map[uuid.UUID]*models.Rule{control.ID: {Pattern: models.PatternBinaryFail}},
		answers:  map[uuid.UUID]models.AnswerValue{control.ID: {Choice: "No"}},
	}
	engineRepo := newFakeEngineRepo(store)

	svc := NewEngineService(assessRepo, engineRepo, nil, nil, logger.New("error", "text"))

	run, err := svc.Run(context.Background(), tenantID, a.ID)
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusCompleted, run.Status)
	require.NotNil(t, run.Stats)
	assert.Equal(t, 1, run.Stats.Fail)
	assert.Equal(t, 1, run.Stats.Gaps)
	assert.Len(t, store.results, 1)

	// Assessment is marked completed after a successful run.
	updated, err := assessRepo.GetAssessment(context.Background(), tenantID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssessmentStatusCompleted, updated.Status)
}

func TestEngineRunRequiresSubmitted(t *testing.T) {
	tenantID := uuid.New()
	assessRepo := newFakeAssessmentRepo()
	a := submittedAssessment(assessRepo, tenantID)
	assessRepo.assessments[a.ID].Status = models.AssessmentStatusDraft

	svc := NewEngineService(assessRepo, newFakeEngineRepo(&memEngineStore{}), nil, nil, logger.New("error", "text"))

	_, err := svc.Run(context.Background(), tenantID, a.ID)
	assert.ErrorIs(t, err, ErrNotSubmitted)
}

func TestEngineRunRejectsCompleted(t *testing.T) {
	tenantID := uuid.New()
	assessRepo := newFakeAssessmentRepo()
	a := submittedAssessment(assessRepo, tenantID)
	assessRepo.assessments[a.ID].Status = models.AssessmentStatusCompleted

	svc := NewEngineService(assessRepo, newFakeEngineRepo(&memEngineStore{}), nil, nil, logger.New("error", "text"))

	_, err := svc.Run(context.Background(), tenantID, a.ID)
	assert.ErrorIs(t, err, ErrNotSubmitted)
}

func TestEngineRunRequiresBindings(t *testing.T) {
	tenantID := uuid.New()
	assessRepo := newFakeAssessmentRepo()
	a := submittedAssessment(assessRepo, tenantID)
	assessRepo.assessments[a.ID].RulesetVersionID = nil

	svc := NewEngineService(assessRepo, newFakeEngineRepo(&memEngineStore{}), nil, nil, logger.New("error", "text"))

	_, err := svc.Run(context.Background(), tenantID, a.ID)
	assert.ErrorIs(t, err, ErrMissingBindings)
}

func TestEngineRunRequiresAnswers(t *testing.T) {
	tenantID := uuid.New()
	assessRepo := newFakeAssessmentRepo()
	a := submittedAssessment(assessRepo, tenantID)

	svc := NewEngineService(assessRepo, newFakeEngineRepo(&memEngineStore{}), nil, nil, logger.New("error", "text"))

	_, err := svc.Run(context.Background(), tenantID, a.ID)
	assert.ErrorIs(t, err, ErrNoAnswers)
}

func TestEngineRunUnknownAssessment(t *testing.T) {
	svc := NewEngineService(newFakeAssessmentRepo(), newFakeEngineRepo(&memEngineStore{}), nil, nil, logger.New("error", "text"))

	_, err := svc.Run(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestRunNotFound(t *testing.T) {
	svc := NewEngineService(newFakeAssessmentRepo(), newFakeEngineRepo(&memEngineStore{}), nil, nil, logger.New("error", "text"))

	_, err := svc.LatestRun(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
