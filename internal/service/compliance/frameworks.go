package compliance

import (
	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/gap"
)

// Clause is one named requirement of a framework, evaluated against asset
// attributes.
type Clause struct {
	ID             string
	Description    string
	Severity       gap.Severity
	Recommendation string
	Met            func(a *asset.Asset) bool
}

// frameworkSpec binds a framework to its applicability rule and clause set.
type frameworkSpec struct {
	applies func(a *asset.Asset) bool
	clauses []Clause
}

// frameworkSpecs defines the fixed clause sets. Encryption and access
// failures rate HIGH; retention and rights-process gaps rate MEDIUM.
func frameworkSpecs() map[gap.Framework]frameworkSpec {
	return map[gap.Framework]frameworkSpec{
		gap.FrameworkGDPR: {
			applies: func(a *asset.Asset) bool { return a.HandlesPersonalData() },
			clauses: []Clause{
				{
					ID:             "security-of-processing",
					Description:    "personal data must be protected by encryption at rest",
					Severity:       gap.SeverityHigh,
					Recommendation: "enable encryption at rest for this asset",
					Met:            func(a *asset.Asset) bool { return a.EncryptionEnabled },
				},
				{
					ID:             "impact-assessment-on-file",
					Description:    "a data protection impact assessment must be on file",
					Severity:       gap.SeverityMedium,
					Recommendation: "complete and record a data protection impact assessment",
					Met:            func(a *asset.Asset) bool { return a.ImpactAssessmentOnFile },
				},
				{
					ID:             "subject-rights-implemented",
					Description:    "data subject access and erasure rights must be implemented",
					Severity:       gap.SeverityMedium,
					Recommendation: "implement subject access and erasure workflows for this asset",
					Met:            func(a *asset.Asset) bool { return a.SubjectRightsImplemented },
				},
				{
					ID:             "retention-policy-set",
					Description:    "a retention policy must be set for personal data",
					Severity:       gap.SeverityMedium,
					Recommendation: "define and attach a retention policy",
					Met:            func(a *asset.Asset) bool { return a.RetentionPolicySet },
				},
			},
		},
		gap.FrameworkSOC2: {
			applies: func(a *asset.Asset) bool { return a.IsProduction() },
			clauses: []Clause{
				{
					ID:             "logical-access-controls",
					Description:    "production assets must enforce logical access controls",
					Severity:       gap.SeverityHigh,
					Recommendation: "enable access controls on this asset",
					Met:            func(a *asset.Asset) bool { return a.AccessControlEnabled },
				},
				{
					ID:             "backup-recovery",
					Description:    "production assets must have backup and recovery configured",
					Severity:       gap.SeverityMedium,
					Recommendation: "configure scheduled backups with tested recovery",
					Met:            func(a *asset.Asset) bool { return a.BackupEnabled },
				},
				{
					ID:             "monitoring",
					Description:    "production assets must be monitored",
					Severity:       gap.SeverityMedium,
					Recommendation: "enable monitoring and alerting for this asset",
					Met:            func(a *asset.Asset) bool { return a.MonitoringEnabled },
				},
			},
		},
		gap.FrameworkISO27001: {
			applies: func(a *asset.Asset) bool { return a.IsCriticalTier() },
			clauses: []Clause{
				{
					ID:             "data-at-rest-protection",
					Description:    "critical assets must protect data at rest",
					Severity:       gap.SeverityHigh,
					Recommendation: "enable encryption at rest for this asset",
					Met:            func(a *asset.Asset) bool { return a.EncryptionEnabled },
				},
				{
					ID:             "access-control",
					Description:    "critical assets must restrict access to authorized identities",
					Severity:       gap.SeverityHigh,
					Recommendation: "enable access controls on this asset",
					Met:            func(a *asset.Asset) bool { return a.AccessControlEnabled },
				},
				{
					ID:             "incident-response-plan",
					Description:    "critical assets must have an incident response plan",
					Severity:       gap.SeverityMedium,
					Recommendation: "write and register an incident response plan",
					Met:            func(a *asset.Asset) bool { return a.IncidentResponsePlan },
				},
			},
		},
	}
}
