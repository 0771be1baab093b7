// Package models provides domain models for the HIPAA compliance platform.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Framework represents a compliance framework (e.g. HIPAA Security Rule).
type Framework struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ControlsetVersion is an immutable, versioned snapshot of a framework's controls.
// Exactly one version per framework is active at a time.
type ControlsetVersion struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	FrameworkID uuid.UUID  `json:"framework_id" db:"framework_id"`
	Version     string     `json:"version" db:"version"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	PublishedAt *time.Time `json:"published_at,omitempty" db:"published_at"`
	Notes       string     `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// RulesetVersion is an immutable, versioned snapshot of evaluation rules.
// Versioned independently of the controlset it evaluates.
type RulesetVersion struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	FrameworkID uuid.UUID  `json:"framework_id" db:"framework_id"`
	Version     string     `json:"version" db:"version"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	PublishedAt *time.Time `json:"published_at,omitempty" db:"published_at"`
	Notes       string     `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Severity represents the severity assigned to a control.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// ControlCategory represents the HIPAA safeguard category of a control.
type ControlCategory string

const (
	CategoryAdministrative ControlCategory = "Administrative"
	CategoryPhysical       ControlCategory = "Physical"
	CategoryTechnical      ControlCategory = "Technical"
	CategoryVendor         ControlCategory = "Vendor"
)

// Control is a single assessable HIPAA requirement within a controlset version.
type Control struct {
	ID                  uuid.UUID       `json:"id" db:"id"`
	FrameworkID         uuid.UUID       `json:"framework_id" db:"framework_id"`
	ControlsetVersionID uuid.UUID       `json:"controlset_version_id" db:"controlset_version_id"`
	ControlCode         string          `json:"control_code" db:"control_code"`
	Title               string          `json:"title" db:"title"`
	Description         string          `json:"description,omitempty" db:"description"`
	Category            ControlCategory `json:"category" db:"category"`
	Severity            Severity        `json:"severity" db:"severity"`
	NAEligible          bool            `json:"na_eligible" db:"na_eligible"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
}

// RuleLogic carries optional pattern-specific parameters.
type RuleLogic struct {
	MaxAgeDays   *int     `json:"max_age_days,omitempty"`
	RequiredTags []string `json:"required_tags,omitempty"`
}

// Rule binds an evaluation pattern to a control within a ruleset version.
// At most one rule exists per (ruleset version, control).
type Rule struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	RulesetVersionID uuid.UUID  `json:"ruleset_version_id" db:"ruleset_version_id"`
	ControlID        uuid.UUID  `json:"control_id" db:"control_id"`
	Pattern          Pattern    `json:"pattern" db:"pattern"`
	// RawPattern preserves the stored pattern string when it does not parse
	// to a known Pattern; the evaluator reports it in the rationale.
	RawPattern string     `json:"-" db:"-"`
	Logic      *RuleLogic `json:"logic,omitempty" db:"logic"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// AnswerType enumerates the choice sets a question offers.
type AnswerType string

const (
	AnswerTypeYesNo        AnswerType = "yes_no"
	AnswerTypeYesNoUnknown AnswerType = "yes_no_unknown"
	AnswerTypeYesNoPartial AnswerType = "yes_no_partial"
)

// Question is the questionnaire item feeding a control. One active question
// per control in v1.
type Question struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	FrameworkID  uuid.UUID  `json:"framework_id" db:"framework_id"`
	ControlID    uuid.UUID  `json:"control_id" db:"control_id"`
	QuestionCode string     `json:"question_code" db:"question_code"`
	Text         string     `json:"text" db:"text"`
	AnswerType   AnswerType `json:"answer_type" db:"answer_type"`
	Options      []string   `json:"options,omitempty" db:"options"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
