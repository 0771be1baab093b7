package engine

import "github.com/ibondarenko1/hipaa-saas/pkg/models"

// Template IDs. Every gap resolves to exactly one template; controls without
// a catalog entry fall back to TemplateClarifyUnknown.
const (
	TemplateClarifyUnknown  = "TMPL_CLARIFY_UNKNOWN"
	TemplateProvideEvidence = "TMPL_PROVIDE_EVIDENCE"
)

// RemediationTemplate is a canned remediation suggestion.
type RemediationTemplate struct {
	Description string
	Type        models.RemediationType
	Effort      models.Effort
}

// remediationTemplates is the static template catalog. Embedded in the engine
// in v1; a later phase can move it to the database.
var remediationTemplates = map[string]RemediationTemplate{
	"TMPL_RISK_ANALYSIS": {
		Description: "Conduct a formal HIPAA Security Risk Analysis. Document all ePHI assets, threats, vulnerabilities, and controls. Update annually or after significant changes.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortLarge,
	},
	"TMPL_RISK_MGMT_PLAN": {
		Description: "Develop and document a Risk Management Plan that tracks identified risks and assigns remediation owners and timelines.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortMedium,
	},
	"TMPL_SECURITY_OFFICER": {
		Description: "Formally designate a HIPAA Security Officer. Document the assignment in writing and communicate responsibilities to the workforce.",
		Type:        models.RemediationPolicy,
		Effort:      models.EffortSmall,
	},
	"TMPL_POLICIES": {
		Description: "Develop and formalize HIPAA security policies and procedures covering all required safeguards. Store in a version-controlled repository.",
		Type:        models.RemediationPolicy,
		Effort:      models.EffortLarge,
	},
	"TMPL_POLICY_REVIEW": {
		Description: "Establish an annual policy review cycle. Assign an owner and calendar reminders for each policy document.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortSmall,
	},
	"TMPL_WORKFORCE_AUTH": {
		Description: "Implement a formal access request and approval workflow for all new hires and role changes. Tie to HR onboarding process.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortMedium,
	},
	"TMPL_OFFBOARDING": {
		Description: "Implement same-day access termination on employee exit. Create a checklist: disable accounts, revoke VPN, collect devices. Test quarterly.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortMedium,
	},
	"TMPL_RBAC": {
		Description: "Implement Role-Based Access Control for all systems containing ePHI. Define roles and map to minimum necessary access.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortLarge,
	},
	"TMPL_LEAST_PRIV": {
		Description: "Review and reduce user privileges to the minimum required. Conduct quarterly access reviews. Remove excessive permissions.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortMedium,
	},
	"TMPL_TRAINING": {
		Description: "Implement annual HIPAA security awareness training for all workforce members. Use an LMS to track completion.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortMedium,
	},
	"TMPL_TRAINING_RECORDS": {
		Description: "Maintain training completion records for at least 6 years. Export from LMS and store in a compliance folder.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortSmall,
	},
	"TMPL_IRP": {
		Description: "Document a formal Incident Response Plan covering detection, containment, eradication, recovery, and post-incident review.",
		Type:        models.RemediationPolicy,
		Effort:      models.EffortMedium,
	},
	"TMPL_BREACH_NOTIF": {
		Description: "Establish a HIPAA breach notification procedure with defined timelines (60-day OCR notification, individual notification). Assign responsible parties.",
		Type:        models.RemediationPolicy,
		Effort:      models.EffortMedium,
	},
	"TMPL_INCIDENT_LOG": {
		Description: "Create an incident log/register. Assign an incident coordinator. Track all security events, even minor ones.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortSmall,
	},
	"TMPL_BACKUP": {
		Description: "Implement automated encrypted backups of all ePHI. Test restore quarterly. Store backups offsite or in a separate cloud region.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortMedium,
	},
	"TMPL_DR": {
		Description: "Develop a Disaster Recovery Plan covering RTO/RPO targets, recovery procedures, and contact lists. Test annually.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortLarge,
	},
	"TMPL_EMERGENCY_MODE": {
		Description: "Define emergency mode operating procedures for maintaining access to ePHI during system outages.",
		Type:        models.RemediationPolicy,
		Effort:      models.EffortMedium,
	},
	"TMPL_PHYSICAL_ACCESS": {
		Description: "Restrict physical access to server rooms and workstations with ePHI using key cards, locks, or equivalent. Log access.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortMedium,
	},
	"TMPL_VISITOR_CTRL": {
		Description: "Implement visitor sign-in log for areas with ePHI systems. Require escort for non-authorized visitors.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortSmall,
	},
	"TMPL_WORKSTATION_POLICY": {
		Description: "Document a workstation use policy covering acceptable use, screen lock requirements, and prohibited activities.",
		Type:        models.RemediationPolicy,
		Effort:      models.EffortSmall,
	},
	"TMPL_SCREEN_LOCK": {
		Description: "Configure all workstations with ePHI access to auto-lock after 10 minutes of inactivity. Enforce via GPO or MDM.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortSmall,
	},
	"TMPL_DEVICE_INVENTORY": {
		Description: "Create and maintain a device inventory listing all devices that access ePHI. Include device type, owner, OS, and encryption status.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortMedium,
	},
	"TMPL_DEVICE_DISPOSAL": {
		Description: "Document a device disposal procedure requiring data wiping (NIST 800-88 or equivalent) before retirement or reuse.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortSmall,
	},
	"TMPL_DEVICE_LOST": {
		Description: "Create a lost/stolen device response procedure: remote wipe capability, incident report, OCR notification assessment.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortSmall,
	},
	"TMPL_UNIQUE_IDS": {
		Description: "Eliminate shared accounts on all ePHI systems. Assign unique user IDs to each workforce member. Audit immediately.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortMedium,
	},
	"TMPL_MFA": {
		Description: "Enable Multi-Factor Authentication on all systems accessing ePHI. Prioritize: EHR, email, remote access, cloud storage.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortMedium,
	},
	"TMPL_EMERGENCY_ACCESS": {
		Description: "Define an emergency access procedure for ePHI systems when primary authentication is unavailable. Document break-glass credentials securely.",
		Type:        models.RemediationPolicy,
		Effort:      models.EffortSmall,
	},
	"TMPL_AUDIT_LOGS": {
		Description: "Enable audit logging on all systems processing or storing ePHI. Capture login, access, modification, and deletion events.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortMedium,
	},
	"TMPL_LOG_RETENTION": {
		Description: "Define and implement a log retention policy (minimum 6 years per HIPAA). Configure log archiving to a WORM-compliant storage.",
		Type:        models.RemediationPolicy,
		Effort:      models.EffortSmall,
	},
	"TMPL_LOG_REVIEW": {
		Description: "Establish a monthly audit log review process. Assign a reviewer. Document anomalies and follow-up actions.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortMedium,
	},
	"TMPL_INTEGRITY": {
		Description: "Implement controls to prevent unauthorized alteration of ePHI: file integrity monitoring, access controls, and database audit trails.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortMedium,
	},
	"TMPL_MALWARE": {
		Description: "Deploy endpoint protection (AV/EDR) on all devices accessing ePHI. Enable real-time scanning and automatic updates.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortSmall,
	},
	"TMPL_ENCRYPTION_TRANSIT": {
		Description: "Enforce TLS 1.2+ for all ePHI transmitted over networks. Disable unencrypted protocols (HTTP, FTP, Telnet). Include email encryption for ePHI.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortMedium,
	},
	"TMPL_VPN": {
		Description: "Implement VPN or equivalent secure remote access for all workforce members accessing ePHI remotely. Enforce MFA on VPN.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortMedium,
	},
	"TMPL_PASSWORD_POLICY": {
		Description: "Enforce a password policy: minimum 12 characters, complexity requirements, no reuse of last 12 passwords. Enforce via GPO or IdP.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortSmall,
	},
	"TMPL_ACCOUNT_LOCKOUT": {
		Description: "Configure account lockout after 5 failed login attempts. Set lockout duration to 30 minutes or require admin unlock.",
		Type:        models.RemediationTechnical,
		Effort:      models.EffortSmall,
	},
	"TMPL_BA_INVENTORY": {
		Description: "Create a Business Associate inventory listing all vendors with access to ePHI. Include contact, services, and BAA status.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortMedium,
	},
	"TMPL_BAA": {
		Description: "Execute signed Business Associate Agreements with all applicable vendors before granting ePHI access. Review annually.",
		Type:        models.RemediationPolicy,
		Effort:      models.EffortMedium,
	},
	"TMPL_VENDOR_DD": {
		Description: "Implement vendor security due diligence: security questionnaire, SOC 2 review, or equivalent before onboarding vendors with ePHI access.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortMedium,
	},
	"TMPL_VENDOR_REVIEW": {
		Description: "Conduct annual vendor access reviews. Confirm ePHI access is still necessary. Revoke access for inactive vendors.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortSmall,
	},
	TemplateClarifyUnknown: {
		Description: "Investigate and document the current state of this control. Assign an owner to determine compliance status within 30 days.",
		Type:        models.RemediationProcess,
		Effort:      models.EffortSmall,
	},
	TemplateProvideEvidence: {
		Description: "Gather and upload supporting evidence for this control (policy document, screenshot, vendor certificate, or training record).",
		Type:        models.RemediationProcess,
		Effort:      models.EffortSmall,
	},
}

// controlTemplates maps control codes to their remediation template.
var controlTemplates = map[string]string{
	"A1-01": "TMPL_RISK_ANALYSIS",
	"A1-02": "TMPL_RISK_MGMT_PLAN",
	"A2-03": "TMPL_SECURITY_OFFICER",
	"A2-04": "TMPL_POLICIES",
	"A2-05": "TMPL_POLICY_REVIEW",
	"A3-06": "TMPL_WORKFORCE_AUTH",
	"A3-07": "TMPL_OFFBOARDING",
	"A4-08": "TMPL_RBAC",
	"A4-09": "TMPL_LEAST_PRIV",
	"A5-10": "TMPL_TRAINING",
	"A5-11": "TMPL_TRAINING_RECORDS",
	"A6-12": "TMPL_IRP",
	"A6-13": "TMPL_BREACH_NOTIF",
	"A6-14": "TMPL_INCIDENT_LOG",
	"A7-15": "TMPL_BACKUP",
	"A7-16": "TMPL_DR",
	"A7-17": "TMPL_EMERGENCY_MODE",
	"B1-18": "TMPL_PHYSICAL_ACCESS",
	"B1-19": "TMPL_VISITOR_CTRL",
	"B2-20": "TMPL_WORKSTATION_POLICY",
	"B2-21": "TMPL_SCREEN_LOCK",
	"B3-22": "TMPL_DEVICE_INVENTORY",
	"B3-23": "TMPL_DEVICE_DISPOSAL",
	"B3-24": "TMPL_DEVICE_LOST",
	"C1-25": "TMPL_UNIQUE_IDS",
	"C1-26": "TMPL_MFA",
	"C1-27": "TMPL_EMERGENCY_ACCESS",
	"C2-28": "TMPL_AUDIT_LOGS",
	"C2-29": "TMPL_LOG_RETENTION",
	"C2-30": "TMPL_LOG_REVIEW",
	"C3-31": "TMPL_INTEGRITY",
	"C3-32": "TMPL_MALWARE",
	"C4-33": "TMPL_ENCRYPTION_TRANSIT",
	"C4-34": "TMPL_VPN",
	"C5-35": "TMPL_PASSWORD_POLICY",
	"C5-36": "TMPL_ACCOUNT_LOCKOUT",
	"D1-37": "TMPL_BA_INVENTORY",
	"D1-38": "TMPL_BAA",
	"D2-39": "TMPL_VENDOR_DD",
	"D2-40": "TMPL_VENDOR_REVIEW",
}

// TemplateForControl resolves the remediation template for a control code.
// Unmapped codes get the clarify-unknown fallback so every gap still produces
// a remediation action.
func TemplateForControl(controlCode string) (string, RemediationTemplate) {
	id, ok := controlTemplates[controlCode]
	if !ok {
		id = TemplateClarifyUnknown
	}
	return id, remediationTemplates[id]
}

// Template looks up a template by ID.
func Template(id string) (RemediationTemplate, bool) {
	t, ok := remediationTemplates[id]
	return t, ok
}
