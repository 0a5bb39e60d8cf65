package docs

// Documentation types the analyzer can require
const (
	DocTypeBasicInfo            = "basic-info"
	DocTypeTechnicalSpecs       = "technical-specs"
	DocTypeSecurityProcedures   = "security-procedures"
	DocTypeAccessControls       = "access-controls"
	DocTypeDataClassification   = "data-classification"
	DocTypeBackupProcedures     = "backup-procedures"
	DocTypeDisasterRecovery     = "disaster-recovery"
	DocTypeMonitoringSetup      = "monitoring-setup"
	DocTypeRunbooks             = "runbooks"
	DocTypeEscalationProcedures = "escalation-procedures"
	DocTypeCapacityPlanning     = "capacity-planning"
)

// Template describes what a complete document of one type must contain.
// RequiredElements drive completeness scoring; MandatorySections drive
// template-compliance checks.
type Template struct {
	RequiredElements  []string
	MandatorySections []string
}

// TemplateSet is the explicit per-type template table, constructed once and
// passed by reference into the analyzer.
type TemplateSet struct {
	templates map[string]Template
}

// Lookup returns the template for a documentation type.
func (ts *TemplateSet) Lookup(docType string) (Template, bool) {
	t, ok := ts.templates[docType]
	return t, ok
}

// DefaultTemplateSet returns the standard documentation templates. Types
// without a template fall back to the default completeness score.
func DefaultTemplateSet() *TemplateSet {
	return &TemplateSet{templates: map[string]Template{
		DocTypeBasicInfo: {
			RequiredElements:  []string{"purpose", "owner", "environment", "classification"},
			MandatorySections: []string{"Overview", "Ownership"},
		},
		DocTypeTechnicalSpecs: {
			RequiredElements:  []string{"storage", "version", "capacity", "connection"},
			MandatorySections: []string{"Architecture", "Configuration"},
		},
		DocTypeSecurityProcedures: {
			RequiredElements:  []string{"encryption", "access", "audit", "incident"},
			MandatorySections: []string{"Controls", "Incident Response"},
		},
		DocTypeBackupProcedures: {
			RequiredElements:  []string{"schedule", "retention", "restore", "verification"},
			MandatorySections: []string{"Backup Schedule", "Restore Procedure"},
		},
		DocTypeDisasterRecovery: {
			RequiredElements:  []string{"rto", "rpo", "failover", "contacts"},
			MandatorySections: []string{"Recovery Objectives", "Failover Steps"},
		},
		DocTypeRunbooks: {
			RequiredElements:  []string{"startup", "shutdown", "health check", "troubleshooting"},
			MandatorySections: []string{"Operations", "Troubleshooting"},
		},
	}}
}
