package models

import (
	"encoding/json"
	"fmt"
)

// Pattern is the closed set of evaluation strategies a rule can select.
// The zero value is PatternUnknown so that an unparsed pattern never
// masquerades as a real one.
type Pattern int

const (
	// PatternUnknown marks a stored pattern string that did not parse.
	PatternUnknown Pattern = iota
	// PatternBinaryFail maps Yes to Pass and No to Fail.
	PatternBinaryFail
	// PatternPartial additionally accepts Partial as a Partial verdict.
	PatternPartial
	// PatternNAValid allows N/A answers, gated by the control's na_eligible flag.
	PatternNAValid
	// PatternEvidenceDependent requires at least one evidence link for a full Pass.
	PatternEvidenceDependent
	// PatternDate requires a recent-enough date alongside an affirmative answer.
	PatternDate
	// PatternCompound is reserved for multi-question logic; evaluates as
	// PatternBinaryFail in v1.
	PatternCompound
)

var patternNames = map[Pattern]string{
	PatternBinaryFail:        "PATTERN_1_BINARY_FAIL",
	PatternPartial:           "PATTERN_2_PARTIAL",
	PatternNAValid:           "PATTERN_5_NA_VALID",
	PatternEvidenceDependent: "PATTERN_4_EVIDENCE_DEPENDENT",
	PatternDate:              "PATTERN_3_DATE",
	PatternCompound:          "PATTERN_6_COMPOUND",
}

var patternValues = func() map[string]Pattern {
	m := make(map[string]Pattern, len(patternNames))
	for p, name := range patternNames {
		m[name] = p
	}
	// Legacy names still present in older ruleset exports.
	m["PATTERN_6_TIME_BOUND"] = PatternDate
	m["PATTERN_7_COMPOUND"] = PatternCompound
	return m
}()

// String returns the stable wire name of the pattern.
func (p Pattern) String() string {
	if name, ok := patternNames[p]; ok {
		return name
	}
	return "PATTERN_UNKNOWN"
}

// ParsePattern maps a stored pattern string to its Pattern. The second
// return value reports whether the string named a known pattern.
func ParsePattern(s string) (Pattern, bool) {
	p, ok := patternValues[s]
	return p, ok
}

// MarshalJSON encodes the pattern as its wire name.
func (p Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a pattern from its wire name.
func (p *Pattern) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParsePattern(s)
	if !ok {
		return fmt.Errorf("unknown rule pattern %q", s)
	}
	*p = parsed
	return nil
}
