package hipaa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibondarenko1/hipaa-saas/pkg/models"
)

func TestControlsComplete(t *testing.T) {
	controls := Controls()
	require.Len(t, controls, 40, "controlset v1.0 must contain 40 controls")

	seen := make(map[string]bool)
	for _, c := range controls {
		assert.NotEmpty(t, c.Code, "control code must not be empty")
		assert.NotEmpty(t, c.Title, "control %s must have a title", c.Code)
		assert.NotEmpty(t, c.Group, "control %s must have a group", c.Code)
		assert.False(t, seen[c.Code], "duplicate control code %s", c.Code)
		seen[c.Code] = true

		switch c.Category {
		case models.CategoryAdministrative, models.CategoryPhysical,
			models.CategoryTechnical, models.CategoryVendor:
		default:
			t.Errorf("control %s has invalid category %q", c.Code, c.Category)
		}

		switch c.Severity {
		case models.SeverityLow, models.SeverityMedium,
			models.SeverityHigh, models.SeverityCritical:
		default:
			t.Errorf("control %s has invalid severity %q", c.Code, c.Severity)
		}
	}
}

func TestEveryControlHasQuestion(t *testing.T) {
	controls := make(map[string]bool)
	for _, c := range Controls() {
		controls[c.Code] = true
	}

	covered := make(map[string]bool)
	for _, q := range Questions() {
		assert.NotEmpty(t, q.Text, "question %s must have text", q.Code)
		assert.True(t, controls[q.ControlCode],
			"question %s references unknown control %s", q.Code, q.ControlCode)
		covered[q.ControlCode] = true
	}

	for code := range controls {
		assert.True(t, covered[code], "control %s has no question", code)
	}
}

func TestEveryControlHasRule(t *testing.T) {
	controls := make(map[string]bool)
	for _, c := range Controls() {
		controls[c.Code] = true
	}

	seen := make(map[string]bool)
	for _, r := range Rules() {
		assert.True(t, controls[r.ControlCode],
			"rule references unknown control %s", r.ControlCode)
		assert.False(t, seen[r.ControlCode], "duplicate rule for control %s", r.ControlCode)
		seen[r.ControlCode] = true

		assert.NotEqual(t, models.PatternUnknown, r.Pattern,
			"rule for %s must name a known pattern", r.ControlCode)

		if r.Pattern == models.PatternDate {
			require.NotNil(t, r.Logic, "date rule for %s needs logic", r.ControlCode)
			require.NotNil(t, r.Logic.MaxAgeDays, "date rule for %s needs max_age_days", r.ControlCode)
			assert.Positive(t, *r.Logic.MaxAgeDays)
		}
		if r.Pattern == models.PatternEvidenceDependent {
			require.NotNil(t, r.Logic, "evidence rule for %s needs logic", r.ControlCode)
			assert.NotEmpty(t, r.Logic.RequiredTags)
		}
	}

	assert.Len(t, seen, len(controls), "every control must have exactly one rule")
}

func TestQuestionCodesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, q := range Questions() {
		assert.False(t, seen[q.Code], "duplicate question code %s", q.Code)
		seen[q.Code] = true
	}
}
