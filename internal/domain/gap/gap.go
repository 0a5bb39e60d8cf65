package gap

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the variant of a detected gap.
type Kind int

const (
	KindOrphanedAsset Kind = iota
	KindDocumentation
	KindCompliance
	KindPolicy
	KindSchemaDocumentation
)

func (k Kind) String() string {
	switch k {
	case KindOrphanedAsset:
		return "orphaned_asset"
	case KindDocumentation:
		return "documentation"
	case KindCompliance:
		return "compliance"
	case KindPolicy:
		return "policy"
	case KindSchemaDocumentation:
		return "schema_documentation"
	default:
		return "unknown"
	}
}

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Base carries the fields common to every gap variant. Detectors return
// concrete variants; downstream code that does not care about the variant
// works through Base alone.
type Base struct {
	ID              uuid.UUID      `json:"id"`
	AssetID         uuid.UUID      `json:"asset_id"`
	Kind            Kind           `json:"kind"`
	Severity        Severity       `json:"severity"`
	Description     string         `json:"description"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Priority        *PriorityScore `json:"priority,omitempty"`
	DetectedAt      time.Time      `json:"detected_at"`
}

// Gap is the closed set of gap variants. Only types in this package
// implement it.
type Gap interface {
	Base() *Base
	isGap()
}

// OrphanReason names which orphan check fired.
type OrphanReason int

const (
	OrphanMissingDocumentation OrphanReason = iota
	OrphanUnclearOwnership
	OrphanUnreferencedAsset
	OrphanUnusedAsset
)

func (r OrphanReason) String() string {
	switch r {
	case OrphanMissingDocumentation:
		return "missing_documentation"
	case OrphanUnclearOwnership:
		return "unclear_ownership"
	case OrphanUnreferencedAsset:
		return "unreferenced_asset"
	case OrphanUnusedAsset:
		return "unused_asset"
	default:
		return "unknown"
	}
}

// OrphanedAssetGap flags an asset lacking documentation, ownership, code
// references, or recent usage.
type OrphanedAssetGap struct {
	Common Base         `json:"common"`
	Reason OrphanReason `json:"reason"`

	// Unused-asset details
	DaysSinceLastActivity int `json:"days_since_last_activity,omitempty"`
	ConnectionCount       int `json:"connection_count,omitempty"`
}

func (g *OrphanedAssetGap) Base() *Base { return &g.Common }
func (g *OrphanedAssetGap) isGap()      {}

// DocumentationGap flags missing or deficient documentation for an asset.
type DocumentationGap struct {
	Common            Base       `json:"common"`
	DocType           string     `json:"doc_type"`
	LastUpdated       *time.Time `json:"last_updated,omitempty"`
	CompletenessScore float64    `json:"completeness_score"`
}

func (g *DocumentationGap) Base() *Base { return &g.Common }
func (g *DocumentationGap) isGap()      {}

// Framework is a named regulatory or internal rule set.
type Framework string

const (
	FrameworkGDPR      Framework = "gdpr"
	FrameworkSOC2      Framework = "soc2"
	FrameworkISO27001  Framework = "iso27001"
	FrameworkOrgPolicy Framework = "org-policy"
)

// KnownFrameworks lists every framework the compliance checker understands.
func KnownFrameworks() []Framework {
	return []Framework{FrameworkGDPR, FrameworkSOC2, FrameworkISO27001, FrameworkOrgPolicy}
}

// ComplianceGap flags one unmet clause of an applicable framework.
type ComplianceGap struct {
	Common    Base      `json:"common"`
	Framework Framework `json:"framework"`
	Clause    string    `json:"clause"`
}

func (g *ComplianceGap) Base() *Base { return &g.Common }
func (g *ComplianceGap) isGap()      {}

// PolicyGap flags disagreement with one or more org security policy rules.
type PolicyGap struct {
	Common        Base     `json:"common"`
	PolicyName    string   `json:"policy_name"`
	ViolatedRules []string `json:"violated_rules"`
}

func (g *PolicyGap) Base() *Base { return &g.Common }
func (g *PolicyGap) isGap()      {}

// SchemaDocumentationGap flags undocumented schema objects within an asset.
type SchemaDocumentationGap struct {
	Common Base   `json:"common"`
	Table  string `json:"table"`
	Column string `json:"column,omitempty"`
}

func (g *SchemaDocumentationGap) Base() *Base { return &g.Common }
func (g *SchemaDocumentationGap) isGap()      {}

// PriorityLevel is the named remediation ordering bucket.
type PriorityLevel int

const (
	PriorityLow PriorityLevel = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (l PriorityLevel) String() string {
	switch l {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// PriorityScore ranks a gap for remediation.
type PriorityScore struct {
	Score int           `json:"score"` // 0-100
	Level PriorityLevel `json:"level"`
}
