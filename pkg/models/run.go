package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the lifecycle state of an engine run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunStats aggregates the outcome of one engine run.
type RunStats struct {
	Pass          int      `json:"pass"`
	Partial       int      `json:"partial"`
	Fail          int      `json:"fail"`
	Unknown       int      `json:"unknown"`
	TotalControls int      `json:"total_controls"`
	Gaps          int      `json:"gaps"`
	Risks         int      `json:"risks"`
	Remediations  int      `json:"remediations"`
	Errors        []string `json:"errors"`
}

// EngineRun is the persisted record of one engine invocation. The completed
// state and its stats are written in the same transaction as the run's
// outputs, so run status survives process restarts.
type EngineRun struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TenantID     uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	AssessmentID uuid.UUID  `json:"assessment_id" db:"assessment_id"`
	Status       RunStatus  `json:"status" db:"status"`
	Stats        *RunStats  `json:"stats,omitempty" db:"stats"`
	Error        *string    `json:"error,omitempty" db:"error"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty" db:"finished_at"`
}
