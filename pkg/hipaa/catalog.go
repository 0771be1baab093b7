// Package hipaa provides the built-in HIPAA Security Rule control catalog:
// the v1.0 controlset, its questionnaire, and the v1.0 rule assignments.
// The catalog is data, validated for completeness by tests, and installed
// into the database by the repository's seeding routine.
package hipaa

import (
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
)

const (
	// FrameworkCode identifies the HIPAA framework.
	FrameworkCode = "HIPAA"
	// FrameworkName is the display name of the framework.
	FrameworkName = "HIPAA Security Rule (45 CFR 164)"
	// ControlsetVersion is the version string of the built-in controlset.
	ControlsetVersion = "v1.0"
	// RulesetVersion is the version string of the built-in ruleset.
	RulesetVersion = "v1.0"
)

// SeedControl describes one catalog control before it is assigned an ID.
type SeedControl struct {
	Code        string
	Title       string
	Group       string
	Category    models.ControlCategory
	Severity    models.Severity
	NAEligible  bool
}

// SeedQuestion describes one questionnaire item keyed by control code.
type SeedQuestion struct {
	Code        string
	ControlCode string
	Text        string
	AnswerType  models.AnswerType
}

// SeedRule assigns an evaluation pattern to a control code.
type SeedRule struct {
	ControlCode string
	Pattern     models.Pattern
	Logic       *models.RuleLogic
}

func intPtr(v int) *int { return &v }

// Controls returns the 40 controls of the HIPAA Security Rule controlset v1.0.
func Controls() []SeedControl {
	return []SeedControl{
		// Category A: Administrative Safeguards
		{Code: "A1-01", Title: "Formal Risk Analysis exists", Group: "A1 Risk Analysis & Management", Category: models.CategoryAdministrative, Severity: models.SeverityCritical},
		{Code: "A1-02", Title: "Risk Management Plan defined and maintained", Group: "A1 Risk Analysis & Management", Category: models.CategoryAdministrative, Severity: models.SeverityHigh},
		{Code: "A2-03", Title: "Assigned Security Officer (HIPAA Security Officer)", Group: "A2 Security Governance", Category: models.CategoryAdministrative, Severity: models.SeverityHigh},
		{Code: "A2-04", Title: "Defined security policies & procedures", Group: "A2 Security Governance", Category: models.CategoryAdministrative, Severity: models.SeverityHigh},
		{Code: "A2-05", Title: "Policy review & update process (periodic)", Group: "A2 Security Governance", Category: models.CategoryAdministrative, Severity: models.SeverityMedium},
		{Code: "A3-06", Title: "Workforce authorization process (hire / role change)", Group: "A3 Workforce Security", Category: models.CategoryAdministrative, Severity: models.SeverityHigh},
		{Code: "A3-07", Title: "Access termination process (offboarding)", Group: "A3 Workforce Security", Category: models.CategoryAdministrative, Severity: models.SeverityCritical},
		{Code: "A4-08", Title: "Role-based access to ePHI systems", Group: "A4 Information Access Management", Category: models.CategoryAdministrative, Severity: models.SeverityCritical},
		{Code: "A4-09", Title: "Least privilege enforced", Group: "A4 Information Access Management", Category: models.CategoryAdministrative, Severity: models.SeverityHigh},
		{Code: "A5-10", Title: "HIPAA security awareness training provided", Group: "A5 Security Awareness & Training", Category: models.CategoryAdministrative, Severity: models.SeverityMedium},
		{Code: "A5-11", Title: "Training records maintained", Group: "A5 Security Awareness & Training", Category: models.CategoryAdministrative, Severity: models.SeverityLow},
		{Code: "A6-12", Title: "Incident Response Plan documented", Group: "A6 Incident Response & Breach Readiness", Category: models.CategoryAdministrative, Severity: models.SeverityHigh},
		{Code: "A6-13", Title: "Breach notification process defined", Group: "A6 Incident Response & Breach Readiness", Category: models.CategoryAdministrative, Severity: models.SeverityHigh},
		{Code: "A6-14", Title: "Incident logging & tracking process", Group: "A6 Incident Response & Breach Readiness", Category: models.CategoryAdministrative, Severity: models.SeverityMedium},
		{Code: "A7-15", Title: "Data backup plan for ePHI", Group: "A7 Contingency Planning", Category: models.CategoryAdministrative, Severity: models.SeverityHigh},
		{Code: "A7-16", Title: "Disaster recovery plan", Group: "A7 Contingency Planning", Category: models.CategoryAdministrative, Severity: models.SeverityMedium},
		{Code: "A7-17", Title: "Emergency mode operations defined", Group: "A7 Contingency Planning", Category: models.CategoryAdministrative, Severity: models.SeverityMedium, NAEligible: true},
		// Category B: Physical Safeguards
		{Code: "B1-18", Title: "Physical access to systems hosting ePHI restricted", Group: "B1 Facility Access Controls", Category: models.CategoryPhysical, Severity: models.SeverityHigh},
		{Code: "B1-19", Title: "Visitor access control (clinic / server areas)", Group: "B1 Facility Access Controls", Category: models.CategoryPhysical, Severity: models.SeverityMedium, NAEligible: true},
		{Code: "B2-20", Title: "Workstation use policy defined", Group: "B2 Workstation Security", Category: models.CategoryPhysical, Severity: models.SeverityMedium},
		{Code: "B2-21", Title: "Screen lock / inactivity timeout enforced", Group: "B2 Workstation Security", Category: models.CategoryPhysical, Severity: models.SeverityHigh},
		{Code: "B3-22", Title: "Device inventory for systems accessing ePHI", Group: "B3 Device & Media Controls", Category: models.CategoryPhysical, Severity: models.SeverityHigh},
		{Code: "B3-23", Title: "Device disposal / reuse process", Group: "B3 Device & Media Controls", Category: models.CategoryPhysical, Severity: models.SeverityMedium},
		{Code: "B3-24", Title: "Lost/stolen device response process", Group: "B3 Device & Media Controls", Category: models.CategoryPhysical, Severity: models.SeverityHigh},
		// Category C: Technical Safeguards
		{Code: "C1-25", Title: "Unique user identification", Group: "C1 Access Control", Category: models.CategoryTechnical, Severity: models.SeverityCritical},
		{Code: "C1-26", Title: "Multi-Factor Authentication for ePHI access", Group: "C1 Access Control", Category: models.CategoryTechnical, Severity: models.SeverityHigh},
		{Code: "C1-27", Title: "Emergency access procedure defined", Group: "C1 Access Control", Category: models.CategoryTechnical, Severity: models.SeverityMedium},
		{Code: "C2-28", Title: "Audit logs enabled on ePHI systems", Group: "C2 Audit Controls", Category: models.CategoryTechnical, Severity: models.SeverityHigh},
		{Code: "C2-29", Title: "Log retention policy defined", Group: "C2 Audit Controls", Category: models.CategoryTechnical, Severity: models.SeverityMedium},
		{Code: "C2-30", Title: "Periodic log review process", Group: "C2 Audit Controls", Category: models.CategoryTechnical, Severity: models.SeverityMedium},
		{Code: "C3-31", Title: "Mechanisms to protect ePHI from improper alteration", Group: "C3 Integrity Controls", Category: models.CategoryTechnical, Severity: models.SeverityHigh},
		{Code: "C3-32", Title: "Malware protection deployed", Group: "C3 Integrity Controls", Category: models.CategoryTechnical, Severity: models.SeverityHigh},
		{Code: "C4-33", Title: "Encryption in transit for ePHI", Group: "C4 Transmission Security", Category: models.CategoryTechnical, Severity: models.SeverityCritical},
		{Code: "C4-34", Title: "Secure remote access (VPN / secure portals)", Group: "C4 Transmission Security", Category: models.CategoryTechnical, Severity: models.SeverityHigh, NAEligible: true},
		{Code: "C5-35", Title: "Password policy enforced", Group: "C5 Authentication", Category: models.CategoryTechnical, Severity: models.SeverityHigh},
		{Code: "C5-36", Title: "Account lockout / brute force protection", Group: "C5 Authentication", Category: models.CategoryTechnical, Severity: models.SeverityMedium},
		// Category D: Vendor & Third-Party Management
		{Code: "D1-37", Title: "Business Associate inventory maintained", Group: "D1 Business Associates", Category: models.CategoryVendor, Severity: models.SeverityHigh},
		{Code: "D1-38", Title: "BAAs signed with all applicable vendors", Group: "D1 Business Associates", Category: models.CategoryVendor, Severity: models.SeverityCritical},
		{Code: "D2-39", Title: "Vendor security due diligence performed", Group: "D2 Vendor Security Oversight", Category: models.CategoryVendor, Severity: models.SeverityMedium},
		{Code: "D2-40", Title: "Vendor access reviewed periodically", Group: "D2 Vendor Security Oversight", Category: models.CategoryVendor, Severity: models.SeverityMedium},
	}
}

// Questions returns the questionnaire, one active question per control.
func Questions() []SeedQuestion {
	return []SeedQuestion{
		{Code: "A1-Q1", ControlCode: "A1-01", Text: "Has a formal HIPAA Security Risk Analysis been conducted within the last 12 months?", AnswerType: models.AnswerTypeYesNoUnknown},
		{Code: "A1-Q2", ControlCode: "A1-02", Text: "Is there a documented plan to address identified security risks?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A2-Q1", ControlCode: "A2-03", Text: "Is a HIPAA Security Officer formally assigned?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A2-Q2", ControlCode: "A2-04", Text: "Are HIPAA security policies and procedures formally documented?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A2-Q3", ControlCode: "A2-05", Text: "Are security policies reviewed and updated periodically (at least annually)?", AnswerType: models.AnswerTypeYesNoUnknown},
		{Code: "A3-Q1", ControlCode: "A3-06", Text: "Is access to systems with ePHI approved based on job role?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A3-Q2", ControlCode: "A3-07", Text: "Is user access revoked immediately upon termination or role change?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A4-Q1", ControlCode: "A4-08", Text: "Is access to ePHI restricted based on job roles?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A4-Q2", ControlCode: "A4-09", Text: "Are users granted only the minimum access required for their role?", AnswerType: models.AnswerTypeYesNoPartial},
		{Code: "A5-Q1", ControlCode: "A5-10", Text: "Do workforce members receive HIPAA security training?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A5-Q2", ControlCode: "A5-11", Text: "Are training completion records documented and retained?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A6-Q1", ControlCode: "A6-12", Text: "Is there a documented security incident response plan?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A6-Q2", ControlCode: "A6-13", Text: "Is there a documented process for HIPAA breach notification?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A6-Q3", ControlCode: "A6-14", Text: "Are security incidents logged and tracked?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A7-Q1", ControlCode: "A7-15", Text: "Is ePHI data regularly backed up?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A7-Q2", ControlCode: "A7-16", Text: "Is there a documented disaster recovery plan for ePHI systems?", AnswerType: models.AnswerTypeYesNo},
		{Code: "A7-Q3", ControlCode: "A7-17", Text: "Are procedures defined to maintain operations during emergencies?", AnswerType: models.AnswerTypeYesNoUnknown},
		{Code: "B1-Q1", ControlCode: "B1-18", Text: "Is physical access to systems hosting ePHI restricted to authorized personnel?", AnswerType: models.AnswerTypeYesNo},
		{Code: "B1-Q2", ControlCode: "B1-19", Text: "Are visitors logged or supervised in areas with ePHI systems?", AnswerType: models.AnswerTypeYesNoPartial},
		{Code: "B2-Q1", ControlCode: "B2-20", Text: "Is there a workstation use/security policy?", AnswerType: models.AnswerTypeYesNo},
		{Code: "B2-Q2", ControlCode: "B2-21", Text: "Are workstations configured to lock after a period of inactivity?", AnswerType: models.AnswerTypeYesNo},
		{Code: "B3-Q1", ControlCode: "B3-22", Text: "Is there an inventory of devices that access ePHI?", AnswerType: models.AnswerTypeYesNo},
		{Code: "B3-Q2", ControlCode: "B3-23", Text: "Is there a process for securely disposing or reusing devices that contained ePHI?", AnswerType: models.AnswerTypeYesNo},
		{Code: "B3-Q3", ControlCode: "B3-24", Text: "Is there a documented response process for lost or stolen devices?", AnswerType: models.AnswerTypeYesNo},
		{Code: "C1-Q1", ControlCode: "C1-25", Text: "Does every user have a unique identifier (no shared accounts) for ePHI systems?", AnswerType: models.AnswerTypeYesNo},
		{Code: "C1-Q2", ControlCode: "C1-26", Text: "Is Multi-Factor Authentication (MFA) required to access systems with ePHI?", AnswerType: models.AnswerTypeYesNoPartial},
		{Code: "C1-Q3", ControlCode: "C1-27", Text: "Is there a documented emergency access procedure for ePHI systems?", AnswerType: models.AnswerTypeYesNo},
		{Code: "C2-Q1", ControlCode: "C2-28", Text: "Are audit logs enabled on systems that store or process ePHI?", AnswerType: models.AnswerTypeYesNo},
		{Code: "C2-Q2", ControlCode: "C2-29", Text: "Is there a defined log retention policy?", AnswerType: models.AnswerTypeYesNo},
		{Code: "C2-Q3", ControlCode: "C2-30", Text: "Are audit logs reviewed periodically?", AnswerType: models.AnswerTypeYesNoUnknown},
		{Code: "C3-Q1", ControlCode: "C3-31", Text: "Are controls in place to prevent unauthorized alteration or deletion of ePHI?", AnswerType: models.AnswerTypeYesNoPartial},
		{Code: "C3-Q2", ControlCode: "C3-32", Text: "Is anti-malware/endpoint protection deployed on systems accessing ePHI?", AnswerType: models.AnswerTypeYesNo},
		{Code: "C4-Q1", ControlCode: "C4-33", Text: "Is ePHI encrypted in transit (e.g., TLS for email, web portals, APIs)?", AnswerType: models.AnswerTypeYesNo},
		{Code: "C4-Q2", ControlCode: "C4-34", Text: "Is secure remote access (VPN or equivalent) used when accessing ePHI remotely?", AnswerType: models.AnswerTypeYesNoPartial},
		{Code: "C5-Q1", ControlCode: "C5-35", Text: "Is a password policy enforced on all systems with ePHI access?", AnswerType: models.AnswerTypeYesNo},
		{Code: "C5-Q2", ControlCode: "C5-36", Text: "Is account lockout or brute-force protection enabled?", AnswerType: models.AnswerTypeYesNo},
		{Code: "D1-Q1", ControlCode: "D1-37", Text: "Is there an inventory of Business Associates who handle ePHI?", AnswerType: models.AnswerTypeYesNo},
		{Code: "D1-Q2", ControlCode: "D1-38", Text: "Are signed Business Associate Agreements (BAAs) in place with all applicable vendors?", AnswerType: models.AnswerTypeYesNoPartial},
		{Code: "D2-Q1", ControlCode: "D2-39", Text: "Is vendor security reviewed before granting access to ePHI?", AnswerType: models.AnswerTypeYesNoUnknown},
		{Code: "D2-Q2", ControlCode: "D2-40", Text: "Is vendor access to ePHI reviewed and confirmed periodically?", AnswerType: models.AnswerTypeYesNoUnknown},
	}
}

// Rules returns the pattern assignment for every control in ruleset v1.0.
func Rules() []SeedRule {
	return []SeedRule{
		{ControlCode: "A1-01", Pattern: models.PatternDate, Logic: &models.RuleLogic{MaxAgeDays: intPtr(365)}},
		{ControlCode: "A1-02", Pattern: models.PatternBinaryFail},
		{ControlCode: "A2-03", Pattern: models.PatternBinaryFail},
		{ControlCode: "A2-04", Pattern: models.PatternBinaryFail},
		{ControlCode: "A2-05", Pattern: models.PatternBinaryFail},
		{ControlCode: "A3-06", Pattern: models.PatternBinaryFail},
		{ControlCode: "A3-07", Pattern: models.PatternBinaryFail},
		{ControlCode: "A4-08", Pattern: models.PatternBinaryFail},
		{ControlCode: "A4-09", Pattern: models.PatternPartial},
		{ControlCode: "A5-10", Pattern: models.PatternBinaryFail},
		{ControlCode: "A5-11", Pattern: models.PatternBinaryFail},
		{ControlCode: "A6-12", Pattern: models.PatternBinaryFail},
		{ControlCode: "A6-13", Pattern: models.PatternBinaryFail},
		{ControlCode: "A6-14", Pattern: models.PatternBinaryFail},
		{ControlCode: "A7-15", Pattern: models.PatternBinaryFail},
		{ControlCode: "A7-16", Pattern: models.PatternBinaryFail},
		{ControlCode: "A7-17", Pattern: models.PatternBinaryFail},
		{ControlCode: "B1-18", Pattern: models.PatternBinaryFail},
		{ControlCode: "B1-19", Pattern: models.PatternPartial},
		{ControlCode: "B2-20", Pattern: models.PatternBinaryFail},
		{ControlCode: "B2-21", Pattern: models.PatternBinaryFail},
		{ControlCode: "B3-22", Pattern: models.PatternEvidenceDependent, Logic: &models.RuleLogic{RequiredTags: []string{"inventory"}}},
		{ControlCode: "B3-23", Pattern: models.PatternBinaryFail},
		{ControlCode: "B3-24", Pattern: models.PatternBinaryFail},
		{ControlCode: "C1-25", Pattern: models.PatternBinaryFail},
		{ControlCode: "C1-26", Pattern: models.PatternPartial},
		{ControlCode: "C1-27", Pattern: models.PatternBinaryFail},
		{ControlCode: "C2-28", Pattern: models.PatternBinaryFail},
		{ControlCode: "C2-29", Pattern: models.PatternBinaryFail},
		{ControlCode: "C2-30", Pattern: models.PatternBinaryFail},
		{ControlCode: "C3-31", Pattern: models.PatternPartial},
		{ControlCode: "C3-32", Pattern: models.PatternBinaryFail},
		{ControlCode: "C4-33", Pattern: models.PatternBinaryFail},
		{ControlCode: "C4-34", Pattern: models.PatternPartial},
		{ControlCode: "C5-35", Pattern: models.PatternEvidenceDependent, Logic: &models.RuleLogic{RequiredTags: []string{"policy"}}},
		{ControlCode: "C5-36", Pattern: models.PatternBinaryFail},
		{ControlCode: "D1-37", Pattern: models.PatternEvidenceDependent, Logic: &models.RuleLogic{RequiredTags: []string{"vendor", "baa"}}},
		{ControlCode: "D1-38", Pattern: models.PatternPartial},
		{ControlCode: "D2-39", Pattern: models.PatternBinaryFail},
		{ControlCode: "D2-40", Pattern: models.PatternBinaryFail},
	}
}
