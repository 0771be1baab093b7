package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/service"
)

func TestWriteServiceErrorMapping(t *testing.T) {
	log := logger.New("error", "text")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"not editable", service.ErrNotEditable, http.StatusConflict},
		{"not submitted", service.ErrNotSubmitted, http.StatusConflict},
		{"no answers", service.ErrNoAnswers, http.StatusUnprocessableEntity},
		{"missing bindings", service.ErrMissingBindings, http.StatusUnprocessableEntity},
		{"wrapped not found", fmt.Errorf("get assessment: %w", service.ErrNotFound), http.StatusNotFound},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, log, tt.err)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
