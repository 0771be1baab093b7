package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/middleware"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/service"
)

// AssessmentHandler handles assessment lifecycle requests.
type AssessmentHandler struct {
	svc *service.AssessmentService
	log *logger.Logger
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(svc *service.AssessmentService, log *logger.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		svc: svc,
		log: log.WithComponent("assessment-handler"),
	}
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

func requestUserID(r *http.Request) string {
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		return claims.Subject
	}
	return ""
}

// CreateRequest is the body for creating an assessment.
type CreateRequest struct {
	Name string `json:"name"`
}

// Create opens a new draft assessment.
func (h *AssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetTenantID(ctx)

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	assessment, err := h.svc.Create(ctx, service.CreateInput{
		TenantID: tenantID,
		UserID:   requestUserID(r),
		Name:     strings.TrimSpace(req.Name),
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, assessment)
}

// List returns all assessments for the tenant, newest first.
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assessments, err := h.svc.List(ctx, middleware.GetTenantID(ctx))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, assessments)
}

// Get returns a single assessment.
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathUUID(r, "assessmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	assessment, err := h.svc.Get(ctx, middleware.GetTenantID(ctx), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

// Submit locks the assessment for evaluation.
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathUUID(r, "assessmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	assessment, err := h.svc.Submit(ctx, middleware.GetTenantID(ctx), id, requestUserID(r))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

// Reopen returns a submitted assessment to the editable state.
func (h *AssessmentHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathUUID(r, "assessmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	assessment, err := h.svc.Reopen(ctx, middleware.GetTenantID(ctx), id, requestUserID(r))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

// Questions returns the active questionnaire for the assessment's framework.
func (h *AssessmentHandler) Questions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathUUID(r, "assessmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	questions, err := h.svc.ListQuestions(ctx, middleware.GetTenantID(ctx), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

// UpsertAnswer records or replaces the answer to one question.
func (h *AssessmentHandler) UpsertAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assessmentID, ok := pathUUID(r, "assessmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}
	questionID, ok := pathUUID(r, "questionID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	var value models.AnswerValue
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.svc.UpsertAnswer(ctx, service.UpsertAnswerInput{
		TenantID:     middleware.GetTenantID(ctx),
		AssessmentID: assessmentID,
		QuestionID:   questionID,
		UserID:       requestUserID(r),
		Value:        value,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// ListAnswers returns all answers for an assessment.
func (h *AssessmentHandler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathUUID(r, "assessmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	answers, err := h.svc.ListAnswers(ctx, middleware.GetTenantID(ctx), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, answers)
}

// AttachEvidenceRequest is the body for linking evidence to an assessment.
type AttachEvidenceRequest struct {
	EvidenceFileID uuid.UUID  `json:"evidence_file_id"`
	ControlID      *uuid.UUID `json:"control_id,omitempty"`
	QuestionID     *uuid.UUID `json:"question_id,omitempty"`
}

// AttachEvidence links an uploaded evidence file to a control or question.
func (h *AssessmentHandler) AttachEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathUUID(r, "assessmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	var req AttachEvidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EvidenceFileID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "evidence_file_id is required")
		return
	}

	link, err := h.svc.AttachEvidence(ctx, service.AttachEvidenceInput{
		TenantID:       middleware.GetTenantID(ctx),
		AssessmentID:   id,
		EvidenceFileID: req.EvidenceFileID,
		ControlID:      req.ControlID,
		QuestionID:     req.QuestionID,
		UserID:         requestUserID(r),
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, link)
}

// ListEvidence returns all evidence links for an assessment.
func (h *AssessmentHandler) ListEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathUUID(r, "assessmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	links, err := h.svc.ListEvidence(ctx, middleware.GetTenantID(ctx), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, links)
}
