package models

import (
	"time"

	"github.com/google/uuid"
)

// ResultStatus represents the verdict for a single control.
type ResultStatus string

const (
	StatusPass    ResultStatus = "Pass"
	StatusPartial ResultStatus = "Partial"
	StatusFail    ResultStatus = "Fail"
	StatusUnknown ResultStatus = "Unknown"
)

// ControlResult is the per-control verdict for an assessment run. Unique per
// (assessment, control); severity is a snapshot of the control's severity at
// evaluation time.
type ControlResult struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	AssessmentID uuid.UUID    `json:"assessment_id" db:"assessment_id"`
	ControlID    uuid.UUID    `json:"control_id" db:"control_id"`
	Status       ResultStatus `json:"status" db:"status"`
	Severity     Severity     `json:"severity" db:"severity"`
	Rationale    string       `json:"rationale" db:"rationale"`
	CalculatedAt time.Time    `json:"calculated_at" db:"calculated_at"`
}

// Gap records the shortfall behind every non-passing control result.
type Gap struct {
	ID                     uuid.UUID    `json:"id" db:"id"`
	AssessmentID           uuid.UUID    `json:"assessment_id" db:"assessment_id"`
	ControlID              uuid.UUID    `json:"control_id" db:"control_id"`
	StatusSource           ResultStatus `json:"status_source" db:"status_source"`
	Severity               Severity     `json:"severity" db:"severity"`
	Description            string       `json:"description" db:"description"`
	RecommendedRemediation string       `json:"recommended_remediation" db:"recommended_remediation"`
	CreatedAt              time.Time    `json:"created_at" db:"created_at"`
}

// Risk restates a gap in organizational risk language, exactly one per gap.
type Risk struct {
	ID           uuid.UUID `json:"id" db:"id"`
	AssessmentID uuid.UUID `json:"assessment_id" db:"assessment_id"`
	GapID        uuid.UUID `json:"gap_id" db:"gap_id"`
	Severity     Severity  `json:"severity" db:"severity"`
	Description  string    `json:"description" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RemediationPriority represents the urgency of a remediation action.
type RemediationPriority string

const (
	PriorityCritical RemediationPriority = "Critical"
	PriorityHigh     RemediationPriority = "High"
	PriorityMedium   RemediationPriority = "Medium"
	PriorityLow      RemediationPriority = "Low"
)

// Effort represents the estimated size of a remediation action.
type Effort string

const (
	EffortSmall  Effort = "S"
	EffortMedium Effort = "M"
	EffortLarge  Effort = "L"
)

// RemediationType classifies the kind of work a remediation requires.
type RemediationType string

const (
	RemediationPolicy    RemediationType = "Policy"
	RemediationTechnical RemediationType = "Technical"
	RemediationProcess   RemediationType = "Process"
)

// RemediationAction is a concrete suggested fix for a gap, at least one per gap.
type RemediationAction struct {
	ID                uuid.UUID           `json:"id" db:"id"`
	AssessmentID      uuid.UUID           `json:"assessment_id" db:"assessment_id"`
	GapID             uuid.UUID           `json:"gap_id" db:"gap_id"`
	Priority          RemediationPriority `json:"priority" db:"priority"`
	Effort            Effort              `json:"effort" db:"effort"`
	RemediationType   RemediationType     `json:"remediation_type" db:"remediation_type"`
	Description       string              `json:"description" db:"description"`
	Dependency        *string             `json:"dependency,omitempty" db:"dependency"`
	TemplateReference *string             `json:"template_reference,omitempty" db:"template_reference"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
}

// PriorityForSeverity maps a control severity to a remediation priority 1:1.
func PriorityForSeverity(s Severity) RemediationPriority {
	switch s {
	case SeverityCritical:
		return PriorityCritical
	case SeverityHigh:
		return PriorityHigh
	case SeverityMedium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// EffortForSeverity maps a control severity to a default effort, used when a
// remediation template does not specify one.
func EffortForSeverity(s Severity) Effort {
	switch s {
	case SeverityCritical:
		return EffortLarge
	case SeverityHigh:
		return EffortMedium
	default:
		return EffortSmall
	}
}
