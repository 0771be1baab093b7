package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
	"github.com/ibondarenko1/hipaa-saas/pkg/reporting"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/repository"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/service"
)

func newEngineRouter(t *testing.T, repo *fakeRepo, tenantID uuid.UUID) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.New("error", "text")
	assessments := service.NewAssessmentService(repo, repo, nil, nil, log)
	h := NewEngineHandler(nil, assessments, reporting.NewService(db), log)

	r := chi.NewRouter()
	r.Use(withTenant(tenantID))
	r.Get("/assessments/{assessmentID}/results", h.Results)
	r.Get("/assessments/{assessmentID}/summary", h.Summary)
	return r, mock
}

func seedAssessment(t *testing.T, repo *fakeRepo, tenantID uuid.UUID) *models.Assessment {
	t.Helper()

	a, err := repo.CreateAssessment(context.Background(), repository.CreateAssessmentParams{
		TenantID: tenantID, FrameworkID: uuid.New(),
		ControlsetVersionID: uuid.New(), RulesetVersionID: uuid.New(),
		Name: "audit",
	})
	require.NoError(t, err)
	return a
}

func TestResults(t *testing.T) {
	repo := newFakeRepo()
	tenantID := uuid.New()
	router, mock := newEngineRouter(t, repo, tenantID)
	a := seedAssessment(t, repo, tenantID)

	rows := sqlmock.NewRows([]string{
		"id", "assessment_id", "control_id", "status", "severity",
		"rationale", "calculated_at", "control_code", "title", "category",
	}).AddRow(
		uuid.New(), a.ID, uuid.New(), "Fail", "Critical",
		"Control is not implemented.", time.Now(), "A1-01", "Security Risk Analysis", "Administrative",
	)
	mock.ExpectQuery("FROM control_results").WithArgs(a.ID).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/assessments/"+a.ID.String()+"/results", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var results []reporting.ControlResultRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&results))
	require.Len(t, results, 1)
	assert.Equal(t, "A1-01", results[0].ControlCode)
	assert.Equal(t, models.StatusFail, results[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultsRejectsInvalidStatusFilter(t *testing.T) {
	repo := newFakeRepo()
	tenantID := uuid.New()
	router, _ := newEngineRouter(t, repo, tenantID)
	a := seedAssessment(t, repo, tenantID)

	req := httptest.NewRequest(http.MethodGet, "/assessments/"+a.ID.String()+"/results?status=bogus", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResultsUnknownAssessment(t *testing.T) {
	router, _ := newEngineRouter(t, newFakeRepo(), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/assessments/"+uuid.NewString()+"/results", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummary(t *testing.T) {
	repo := newFakeRepo()
	tenantID := uuid.New()
	router, mock := newEngineRouter(t, repo, tenantID)
	a := seedAssessment(t, repo, tenantID)

	rows := sqlmock.NewRows([]string{"pass", "partial", "fail", "unknown", "total"}).
		AddRow(30, 5, 3, 2, 40)
	mock.ExpectQuery("FROM control_results").WithArgs(a.ID).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/assessments/"+a.ID.String()+"/summary", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary reporting.StatusSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, 30, summary.Pass)
	assert.Equal(t, 40, summary.Total)
	require.NoError(t, mock.ExpectationsWereMet())
}
