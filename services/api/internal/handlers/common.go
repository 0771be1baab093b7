// Package handlers provides HTTP request handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/service"
)

// ErrorResponse is the JSON body for all error replies.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps service sentinel errors to HTTP statuses. Anything
// unmapped is logged and returned as a 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrNotEditable):
		writeError(w, http.StatusConflict, "assessment is not editable")
	case errors.Is(err, service.ErrNotSubmitted):
		writeError(w, http.StatusConflict, "assessment has not been submitted")
	case errors.Is(err, service.ErrNoAnswers):
		writeError(w, http.StatusUnprocessableEntity, "assessment has no answers")
	case errors.Is(err, service.ErrMissingBindings):
		writeError(w, http.StatusUnprocessableEntity, "assessment has no controlset or ruleset version bound")
	default:
		log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
