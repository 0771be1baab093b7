package models

import (
	"time"

	"github.com/google/uuid"
)

// AssessmentStatus represents the lifecycle state of an assessment.
type AssessmentStatus string

const (
	AssessmentStatusDraft      AssessmentStatus = "draft"
	AssessmentStatusInProgress AssessmentStatus = "in_progress"
	AssessmentStatusSubmitted  AssessmentStatus = "submitted"
	AssessmentStatusCompleted  AssessmentStatus = "completed"
)

// Editable reports whether answers may still be changed in this state.
func (s AssessmentStatus) Editable() bool {
	return s == AssessmentStatusDraft || s == AssessmentStatusInProgress
}

// Assessment is one questionnaire instance for a tenant. The controlset and
// ruleset bindings are fixed at creation so re-runs stay reproducible.
type Assessment struct {
	ID                  uuid.UUID        `json:"id" db:"id"`
	TenantID            uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	FrameworkID         uuid.UUID        `json:"framework_id" db:"framework_id"`
	ControlsetVersionID *uuid.UUID       `json:"controlset_version_id,omitempty" db:"controlset_version_id"`
	RulesetVersionID    *uuid.UUID       `json:"ruleset_version_id,omitempty" db:"ruleset_version_id"`
	Name                string           `json:"name" db:"name"`
	Status              AssessmentStatus `json:"status" db:"status"`
	SubmittedAt         *time.Time       `json:"submitted_at,omitempty" db:"submitted_at"`
	CompletedAt         *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at" db:"updated_at"`
}

// AnswerValue is the small variant a question can be answered with.
// Choice strings are case-sensitive: Yes, No, Partial, Unknown, N/A.
type AnswerValue struct {
	Choice string `json:"choice,omitempty"`
	Date   string `json:"date,omitempty"`
	Text   string `json:"text,omitempty"`
}

// Answer choice literals recognized by the engine.
const (
	ChoiceYes           = "Yes"
	ChoiceNo            = "No"
	ChoicePartial       = "Partial"
	ChoiceUnknown       = "Unknown"
	ChoiceNotApplicable = "N/A"
)

// Answer is one response per (assessment, question), mutable only while the
// assessment is editable.
type Answer struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	AssessmentID uuid.UUID   `json:"assessment_id" db:"assessment_id"`
	QuestionID   uuid.UUID   `json:"question_id" db:"question_id"`
	Value        AnswerValue `json:"value" db:"value"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// EvidenceFile is an uploaded document owned by a tenant.
type EvidenceFile struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TenantID     uuid.UUID `json:"tenant_id" db:"tenant_id"`
	AssessmentID uuid.UUID `json:"assessment_id" db:"assessment_id"`
	FileName     string    `json:"file_name" db:"file_name"`
	ContentType  string    `json:"content_type" db:"content_type"`
	SizeBytes    int64     `json:"size_bytes" db:"size_bytes"`
	StorageKey   string    `json:"storage_key" db:"storage_key"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// EvidenceLink associates an evidence file with a control or question within
// an assessment. The engine only cares about per-control existence.
type EvidenceLink struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	AssessmentID   uuid.UUID  `json:"assessment_id" db:"assessment_id"`
	EvidenceFileID uuid.UUID  `json:"evidence_file_id" db:"evidence_file_id"`
	ControlID      *uuid.UUID `json:"control_id,omitempty" db:"control_id"`
	QuestionID     *uuid.UUID `json:"question_id,omitempty" db:"question_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
