package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
	"github.com/ibondarenko1/hipaa-saas/pkg/reporting"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/middleware"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/service"
)

// EngineHandler handles engine runs and their reported outputs.
type EngineHandler struct {
	engine      *service.EngineService
	assessments *service.AssessmentService
	reports     *reporting.Service
	log         *logger.Logger
}

// NewEngineHandler creates a new EngineHandler.
func NewEngineHandler(engine *service.EngineService, assessments *service.AssessmentService, reports *reporting.Service, log *logger.Logger) *EngineHandler {
	return &EngineHandler{
		engine:      engine,
		assessments: assessments,
		reports:     reports,
		log:         log.WithComponent("engine-handler"),
	}
}

// Run evaluates a submitted assessment and returns the completed run.
func (h *EngineHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathUUID(r, "assessmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	run, err := h.engine.Run(ctx, middleware.GetTenantID(ctx), id)
	if err != nil {
		middleware.RecordEngineRun("failed")
		writeServiceError(w, h.log, err)
		return
	}

	middleware.RecordEngineRun("completed")
	writeJSON(w, http.StatusOK, run)
}

// LatestRun returns the most recent engine run for an assessment.
func (h *EngineHandler) LatestRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathUUID(r, "assessmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	run, err := h.engine.LatestRun(ctx, middleware.GetTenantID(ctx), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// scopedAssessmentID verifies the assessment belongs to the caller's tenant
// before any report query runs against it.
func (h *EngineHandler) scopedAssessmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := pathUUID(r, "assessmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return uuid.Nil, false
	}

	if _, err := h.assessments.Get(r.Context(), middleware.GetTenantID(r.Context()), id); err != nil {
		writeServiceError(w, h.log, err)
		return uuid.Nil, false
	}

	return id, true
}

// Results returns per-control verdicts, optionally filtered by status.
func (h *EngineHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, ok := h.scopedAssessmentID(w, r)
	if !ok {
		return
	}

	status := models.ResultStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.StatusPass, models.StatusPartial, models.StatusFail, models.StatusUnknown:
	default:
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	results, err := h.reports.ListControlResults(r.Context(), id, status)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// Gaps returns the compliance gaps found by the latest run.
func (h *EngineHandler) Gaps(w http.ResponseWriter, r *http.Request) {
	id, ok := h.scopedAssessmentID(w, r)
	if !ok {
		return
	}

	gaps, err := h.reports.ListGaps(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, gaps)
}

// Risks returns the risk register entries for an assessment.
func (h *EngineHandler) Risks(w http.ResponseWriter, r *http.Request) {
	id, ok := h.scopedAssessmentID(w, r)
	if !ok {
		return
	}

	risks, err := h.reports.ListRisks(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, risks)
}

// Remediations returns the remediation plan for an assessment.
func (h *EngineHandler) Remediations(w http.ResponseWriter, r *http.Request) {
	id, ok := h.scopedAssessmentID(w, r)
	if !ok {
		return
	}

	actions, err := h.reports.ListRemediationActions(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, actions)
}

// Summary returns the verdict counts for an assessment.
func (h *EngineHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.scopedAssessmentID(w, r)
	if !ok {
		return
	}

	summary, err := h.reports.Summary(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
