// Package engine implements the deterministic compliance mapping engine.
// It evaluates every control in an assessment's controlset against the bound
// ruleset and the tenant's answers, then derives gaps, risks, and remediation
// actions from the non-passing results.
package engine

import (
	"fmt"
	"time"

	"github.com/ibondarenko1/hipaa-saas/pkg/models"
)

const defaultMaxAgeDays = 365

// Verdict is the outcome of evaluating a single control.
type Verdict struct {
	Status    models.ResultStatus
	Rationale string
}

// Evaluator applies rule patterns to answers. It is pure: no I/O, no state
// beyond the clock, so the same inputs always produce the same verdict.
type Evaluator struct {
	now func() time.Time
}

// NewEvaluator creates an evaluator using the real clock.
func NewEvaluator() *Evaluator {
	return &Evaluator{now: time.Now}
}

// Evaluate dispatches on the rule's pattern and returns the verdict for one
// control. A nil rule yields Unknown; a nil answer means the question was
// never answered.
func (e *Evaluator) Evaluate(control models.Control, rule *models.Rule, answer *models.AnswerValue, hasEvidence bool) Verdict {
	if rule == nil {
		return Verdict{models.StatusUnknown, "No rule pattern defined for this control."}
	}

	// N/A is resolved before pattern dispatch so na_eligible applies uniformly.
	if answer != nil && answer.Choice == models.ChoiceNotApplicable {
		return evaluateNotApplicable(control)
	}

	switch rule.Pattern {
	case models.PatternBinaryFail, models.PatternCompound:
		// Compound rules evaluate as binary in v1.
		return evaluateBinary(answer)
	case models.PatternPartial:
		return evaluatePartial(answer)
	case models.PatternDate:
		return e.evaluateDate(answer, rule.Logic)
	case models.PatternEvidenceDependent:
		return evaluateEvidenceDependent(answer, hasEvidence)
	case models.PatternNAValid:
		return evaluateNAValid(answer)
	default:
		return Verdict{models.StatusUnknown, fmt.Sprintf("Unknown pattern: %q.", rule.RawPattern)}
	}
}

func evaluateBinary(answer *models.AnswerValue) Verdict {
	if answer == nil {
		return Verdict{models.StatusUnknown, "No answer provided."}
	}
	switch answer.Choice {
	case models.ChoiceYes:
		return Verdict{models.StatusPass, "Control is in place."}
	case models.ChoiceNo:
		return Verdict{models.StatusFail, "Control is not implemented."}
	default:
		return Verdict{models.StatusUnknown, fmt.Sprintf("Unrecognized answer: %q.", answer.Choice)}
	}
}

func evaluatePartial(answer *models.AnswerValue) Verdict {
	if answer == nil {
		return Verdict{models.StatusUnknown, "No answer provided."}
	}
	switch answer.Choice {
	case models.ChoiceYes:
		return Verdict{models.StatusPass, "Control is fully implemented."}
	case models.ChoicePartial:
		return Verdict{models.StatusPartial, "Control is partially implemented."}
	case models.ChoiceNo:
		return Verdict{models.StatusFail, "Control is not implemented."}
	default:
		return Verdict{models.StatusUnknown, fmt.Sprintf("Unrecognized answer: %q.", answer.Choice)}
	}
}

func (e *Evaluator) evaluateDate(answer *models.AnswerValue, logic *models.RuleLogic) Verdict {
	if answer == nil {
		return Verdict{models.StatusUnknown, "No answer provided."}
	}
	switch answer.Choice {
	case models.ChoiceNo:
		return Verdict{models.StatusFail, "Control has not been performed."}
	case models.ChoiceUnknown:
		return Verdict{models.StatusUnknown, "Status unknown - review required."}
	}

	if answer.Date == "" {
		return Verdict{models.StatusPartial, "Answered Yes but no date provided to verify recency."}
	}

	lastDate, err := time.Parse("2006-01-02", answer.Date)
	if err != nil {
		return Verdict{models.StatusUnknown, fmt.Sprintf("Invalid date format: %q.", answer.Date)}
	}

	maxAgeDays := defaultMaxAgeDays
	if logic != nil && logic.MaxAgeDays != nil {
		maxAgeDays = *logic.MaxAgeDays
	}

	ageDays := int(e.now().UTC().Sub(lastDate).Hours() / 24)
	if ageDays <= maxAgeDays {
		return Verdict{models.StatusPass, fmt.Sprintf("Performed %d days ago (within %d-day requirement).", ageDays, maxAgeDays)}
	}
	return Verdict{models.StatusFail, fmt.Sprintf("Last performed %d days ago - exceeds %d-day requirement.", ageDays, maxAgeDays)}
}

func evaluateEvidenceDependent(answer *models.AnswerValue, hasEvidence bool) Verdict {
	if answer == nil {
		return Verdict{models.StatusUnknown, "No answer provided."}
	}
	switch answer.Choice {
	case models.ChoiceNo:
		return Verdict{models.StatusFail, "Control is not implemented."}
	case models.ChoiceYes:
		if hasEvidence {
			return Verdict{models.StatusPass, "Control is in place with supporting evidence."}
		}
		return Verdict{models.StatusPartial, "Answered Yes but no supporting evidence uploaded."}
	case models.ChoicePartial:
		return Verdict{models.StatusPartial, "Control is partially implemented."}
	default:
		return Verdict{models.StatusUnknown, fmt.Sprintf("Unrecognized answer: %q.", answer.Choice)}
	}
}

func evaluateNAValid(answer *models.AnswerValue) Verdict {
	if answer == nil {
		return Verdict{models.StatusUnknown, "No answer provided."}
	}
	switch answer.Choice {
	case models.ChoiceYes:
		return Verdict{models.StatusPass, "Control is in place."}
	case models.ChoiceNo:
		return Verdict{models.StatusFail, "Control is not implemented."}
	case models.ChoicePartial:
		return Verdict{models.StatusPartial, "Control is partially implemented."}
	default:
		return Verdict{models.StatusUnknown, fmt.Sprintf("Unrecognized answer: %q.", answer.Choice)}
	}
}

func evaluateNotApplicable(control models.Control) Verdict {
	if control.NAEligible {
		return Verdict{models.StatusPass, "Control marked as Not Applicable."}
	}
	return Verdict{models.StatusFail, "N/A is not allowed for this control."}
}

// GapDescription builds the gap text for a non-passing verdict.
func GapDescription(control models.Control, status models.ResultStatus, answer *models.AnswerValue) string {
	choice := "not answered"
	if answer != nil && answer.Choice != "" {
		choice = answer.Choice
	}

	switch status {
	case models.StatusFail:
		return fmt.Sprintf(
			"%s - HIPAA gap identified. Control '%s' evaluated as Fail (answer: %s). Immediate remediation required.",
			control.Title, control.ControlCode, choice,
		)
	case models.StatusPartial:
		return fmt.Sprintf(
			"%s - partial compliance. Control '%s' is not fully implemented (answer: %s). Improvement required.",
			control.Title, control.ControlCode, choice,
		)
	case models.StatusUnknown:
		if answer == nil || answer.Choice == "" {
			choice = "missing"
		}
		return fmt.Sprintf(
			"%s - compliance status unknown. Control '%s' requires investigation (answer: %s). Documentation needed.",
			control.Title, control.ControlCode, choice,
		)
	default:
		return fmt.Sprintf("%s - gap detected (status: %s).", control.Title, status)
	}
}

// RiskDescription restates a gap in organizational risk language.
func RiskDescription(control models.Control, status models.ResultStatus) string {
	switch status {
	case models.StatusFail:
		return fmt.Sprintf(
			"Risk: %s is not implemented. This creates a %s-severity HIPAA compliance risk under category '%s'.",
			control.Title, control.Severity, control.Category,
		)
	case models.StatusPartial:
		return fmt.Sprintf(
			"Risk: %s is only partially implemented. Partial coverage creates a residual %s-severity risk.",
			control.Title, control.Severity,
		)
	default:
		return fmt.Sprintf(
			"Risk: Compliance status of '%s' is unknown. Unverified controls represent an unquantified %s-severity risk.",
			control.Title, control.Severity,
		)
	}
}
