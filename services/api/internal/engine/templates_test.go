package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibondarenko1/hipaa-saas/pkg/hipaa"
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
)

func TestEveryCatalogControlHasTemplate(t *testing.T) {
	for _, c := range hipaa.Controls() {
		id, ok := controlTemplates[c.Code]
		require.True(t, ok, "control %s has no remediation template", c.Code)

		_, found := remediationTemplates[id]
		assert.True(t, found, "control %s references missing template %s", c.Code, id)
	}
}

func TestTemplatesAreWellFormed(t *testing.T) {
	validTypes := map[models.RemediationType]bool{
		models.RemediationPolicy:    true,
		models.RemediationTechnical: true,
		models.RemediationProcess:   true,
	}
	validEfforts := map[models.Effort]bool{
		models.EffortSmall:  true,
		models.EffortMedium: true,
		models.EffortLarge:  true,
	}

	for id, tmpl := range remediationTemplates {
		assert.NotEmpty(t, tmpl.Description, "template %s has empty description", id)
		assert.True(t, validTypes[tmpl.Type], "template %s has invalid type %q", id, tmpl.Type)
		assert.True(t, validEfforts[tmpl.Effort], "template %s has invalid effort %q", id, tmpl.Effort)
	}
}

func TestTemplateForControlFallback(t *testing.T) {
	id, tmpl := TemplateForControl("Z9-99")
	assert.Equal(t, TemplateClarifyUnknown, id)
	assert.NotEmpty(t, tmpl.Description)
}

func TestTemplateForControlMapped(t *testing.T) {
	id, tmpl := TemplateForControl("A1-01")
	assert.Equal(t, "TMPL_RISK_ANALYSIS", id)
	assert.Equal(t, models.EffortLarge, tmpl.Effort)
	assert.Equal(t, models.RemediationProcess, tmpl.Type)
}

func TestTemplateLookup(t *testing.T) {
	tmpl, ok := Template(TemplateProvideEvidence)
	require.True(t, ok)
	assert.Contains(t, tmpl.Description, "evidence")

	_, ok = Template("TMPL_NOPE")
	assert.False(t, ok)
}
