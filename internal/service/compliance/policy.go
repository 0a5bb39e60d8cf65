package compliance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/gap"
)

// PolicyRule is one org-specific expectation about an asset attribute.
type PolicyRule struct {
	Name     string       `json:"name"`
	Field    string       `json:"field"`
	Expected bool         `json:"expected"`
	Impact   gap.Severity `json:"impact"`
}

// SecurityPolicy is a named set of org rules layered over the regulatory
// frameworks.
type SecurityPolicy struct {
	Name  string       `json:"name"`
	Rules []PolicyRule `json:"rules"`
}

// DefaultPolicies returns the baseline org security policies.
func DefaultPolicies() []SecurityPolicy {
	return []SecurityPolicy{
		{
			Name: "storage-security-baseline",
			Rules: []PolicyRule{
				{Name: "encryption-required", Field: "encryption_enabled", Expected: true, Impact: gap.SeverityHigh},
				{Name: "access-control-required", Field: "access_control_enabled", Expected: true, Impact: gap.SeverityHigh},
				{Name: "backup-required", Field: "backup_enabled", Expected: true, Impact: gap.SeverityMedium},
			},
		},
		{
			Name: "operational-readiness",
			Rules: []PolicyRule{
				{Name: "monitoring-required", Field: "monitoring_enabled", Expected: true, Impact: gap.SeverityMedium},
				{Name: "owner-assigned", Field: "owner_assigned", Expected: true, Impact: gap.SeverityMedium},
				{Name: "incident-plan-required", Field: "incident_response_plan", Expected: true, Impact: gap.SeverityLow},
			},
		},
	}
}

// actualValue derives the asset-side value for a policy rule field.
func actualValue(a *asset.Asset, field string) (bool, bool) {
	switch field {
	case "encryption_enabled":
		return a.EncryptionEnabled, true
	case "access_control_enabled":
		return a.AccessControlEnabled, true
	case "backup_enabled":
		return a.BackupEnabled, true
	case "monitoring_enabled":
		return a.MonitoringEnabled, true
	case "retention_policy_set":
		return a.RetentionPolicySet, true
	case "incident_response_plan":
		return a.IncidentResponsePlan, true
	case "owner_assigned":
		return a.HasOwner(), true
	default:
		return false, false
	}
}

// evaluatePolicy checks one policy against an asset. A violated policy
// yields one gap whose severity is the maximum impact among violated rules.
func evaluatePolicy(a *asset.Asset, policy SecurityPolicy) *gap.PolicyGap {
	var violated []string
	maxImpact := gap.SeverityLow

	for _, rule := range policy.Rules {
		actual, known := actualValue(a, rule.Field)
		if !known {
			continue
		}
		if actual != rule.Expected {
			violated = append(violated, rule.Name)
			if rule.Impact > maxImpact {
				maxImpact = rule.Impact
			}
		}
	}

	if len(violated) == 0 {
		return nil
	}

	return &gap.PolicyGap{
		Common: gap.Base{
			ID:       uuid.New(),
			AssetID:  a.ID,
			Kind:     gap.KindPolicy,
			Severity: maxImpact,
			Description: fmt.Sprintf("policy %q violated: %s",
				policy.Name, strings.Join(violated, ", ")),
			Recommendations: []string{
				fmt.Sprintf("bring the asset into line with the %q policy", policy.Name),
			},
			DetectedAt: time.Now(),
		},
		PolicyName:    policy.Name,
		ViolatedRules: violated,
	}
}
