package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityForSeverity(t *testing.T) {
	tests := []struct {
		severity Severity
		want     RemediationPriority
	}{
		{SeverityCritical, PriorityCritical},
		{SeverityHigh, PriorityHigh},
		{SeverityMedium, PriorityMedium},
		{SeverityLow, PriorityLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityForSeverity(tt.severity))
		})
	}
}

func TestEffortForSeverity(t *testing.T) {
	tests := []struct {
		severity Severity
		want     Effort
	}{
		{SeverityCritical, EffortLarge},
		{SeverityHigh, EffortMedium},
		{SeverityMedium, EffortSmall},
		{SeverityLow, EffortSmall},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.want, EffortForSeverity(tt.severity))
		})
	}
}

func TestAssessmentStatusEditable(t *testing.T) {
	assert.True(t, AssessmentStatusDraft.Editable())
	assert.True(t, AssessmentStatusInProgress.Editable())
	assert.False(t, AssessmentStatusSubmitted.Editable())
	assert.False(t, AssessmentStatusCompleted.Editable())
}

func TestParsePattern(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Pattern
		wantOK  bool
	}{
		{"binary fail", "PATTERN_1_BINARY_FAIL", PatternBinaryFail, true},
		{"partial", "PATTERN_2_PARTIAL", PatternPartial, true},
		{"date", "PATTERN_3_DATE", PatternDate, true},
		{"evidence", "PATTERN_4_EVIDENCE_DEPENDENT", PatternEvidenceDependent, true},
		{"na valid", "PATTERN_5_NA_VALID", PatternNAValid, true},
		{"compound", "PATTERN_6_COMPOUND", PatternCompound, true},
		{"garbage", "PATTERN_9_NOPE", PatternUnknown, false},
		{"empty", "", PatternUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePattern(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatternJSONRoundTrip(t *testing.T) {
	for _, p := range []Pattern{
		PatternBinaryFail,
		PatternPartial,
		PatternNAValid,
		PatternEvidenceDependent,
		PatternDate,
		PatternCompound,
	} {
		data, err := json.Marshal(p)
		require.NoError(t, err)

		var got Pattern
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, p, got)
	}
}

func TestPatternUnmarshalRejectsUnknown(t *testing.T) {
	var p Pattern
	err := json.Unmarshal([]byte(`"PATTERN_X"`), &p)
	assert.Error(t, err)
}
