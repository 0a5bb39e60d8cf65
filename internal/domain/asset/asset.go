package asset

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Asset represents one monitored storage resource tracked by the inventory.
type Asset struct {
	ID               uuid.UUID      `json:"id"`
	Identifier       string         `json:"identifier"`
	Name             string         `json:"name"`
	StorageKind      StorageKind    `json:"storage_kind"`
	Location         string         `json:"location"`
	Classification   Classification `json:"classification"`
	Criticality      Criticality    `json:"criticality"`
	Environment      Environment    `json:"environment"`
	OwnerTeam        string         `json:"owner_team"`
	TechnicalContact string         `json:"technical_contact"`

	// Security posture
	EncryptionEnabled    bool `json:"encryption_enabled"`
	AccessControlEnabled bool `json:"access_control_enabled"`
	BackupEnabled        bool `json:"backup_enabled"`
	MonitoringEnabled    bool `json:"monitoring_enabled"`

	// Regulatory posture
	Purpose                  string `json:"purpose"`
	RetentionPolicySet       bool   `json:"retention_policy_set"`
	ImpactAssessmentOnFile   bool   `json:"impact_assessment_on_file"`
	SubjectRightsImplemented bool   `json:"subject_rights_implemented"`
	IncidentResponsePlan     bool   `json:"incident_response_plan"`

	// Discovery lineage
	DiscoveryConfidence int        `json:"discovery_confidence"` // 0-100
	LastDiscoveredAt    *time.Time `json:"last_discovered_at,omitempty"`

	Active    bool              `json:"active"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type StorageKind int

const (
	StorageKindUnknown StorageKind = iota
	StorageKindDatabase
	StorageKindObjectStore
	StorageKindFileShare
	StorageKindDataWarehouse
	StorageKindCache
	StorageKindMessageQueue
)

func (k StorageKind) String() string {
	switch k {
	case StorageKindDatabase:
		return "database"
	case StorageKindObjectStore:
		return "object_store"
	case StorageKindFileShare:
		return "file_share"
	case StorageKindDataWarehouse:
		return "data_warehouse"
	case StorageKindCache:
		return "cache"
	case StorageKindMessageQueue:
		return "message_queue"
	default:
		return "unknown"
	}
}

type Classification int

const (
	ClassificationPublic Classification = iota
	ClassificationInternal
	ClassificationConfidential
	ClassificationRestricted
)

func (c Classification) String() string {
	switch c {
	case ClassificationPublic:
		return "public"
	case ClassificationInternal:
		return "internal"
	case ClassificationConfidential:
		return "confidential"
	case ClassificationRestricted:
		return "restricted"
	default:
		return "unknown"
	}
}

type Criticality int

const (
	CriticalityLow Criticality = iota
	CriticalityMedium
	CriticalityHigh
	CriticalityCritical
)

func (c Criticality) String() string {
	switch c {
	case CriticalityLow:
		return "low"
	case CriticalityMedium:
		return "medium"
	case CriticalityHigh:
		return "high"
	case CriticalityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

type Environment int

const (
	EnvironmentDevelopment Environment = iota
	EnvironmentStaging
	EnvironmentProduction
)

func (e Environment) String() string {
	switch e {
	case EnvironmentDevelopment:
		return "development"
	case EnvironmentStaging:
		return "staging"
	case EnvironmentProduction:
		return "production"
	default:
		return "unknown"
	}
}

// IsProduction reports whether the asset serves production traffic.
func (a *Asset) IsProduction() bool {
	return a.Environment == EnvironmentProduction
}

// IsCriticalTier reports whether the asset sits in the critical operational tier.
func (a *Asset) IsCriticalTier() bool {
	return a.Criticality == CriticalityCritical
}

// IsHighRisk reports whether any finding against this asset warrants escalation:
// production assets and high/critical criticality tiers.
func (a *Asset) IsHighRisk() bool {
	return a.IsProduction() || a.Criticality >= CriticalityHigh
}

// IsSecuritySensitive reports whether the asset's classification demands the
// security documentation set.
func (a *Asset) IsSecuritySensitive() bool {
	return a.Classification >= ClassificationConfidential
}

// HandlesPersonalData reports whether the classification or stated purpose
// indicates the asset stores personal data.
func (a *Asset) HandlesPersonalData() bool {
	if a.Classification >= ClassificationConfidential {
		return true
	}
	purpose := strings.ToLower(a.Purpose)
	for _, marker := range []string{"personal", "customer", "pii", "user data", "subject"} {
		if strings.Contains(purpose, marker) {
			return true
		}
	}
	return false
}

// HasOwner reports whether both ownership fields are populated.
func (a *Asset) HasOwner() bool {
	return a.OwnerTeam != "" && a.TechnicalContact != ""
}

// Filters narrows inventory listings by environment and criticality subsets.
// Nil or empty slices match everything.
type Filters struct {
	Environments  []Environment `json:"environments,omitempty"`
	Criticalities []Criticality `json:"criticalities,omitempty"`
}

// Match reports whether the asset passes the filter.
func (f *Filters) Match(a *Asset) bool {
	if f == nil {
		return true
	}
	if len(f.Environments) > 0 && !containsEnv(f.Environments, a.Environment) {
		return false
	}
	if len(f.Criticalities) > 0 && !containsCrit(f.Criticalities, a.Criticality) {
		return false
	}
	return true
}

func containsEnv(envs []Environment, e Environment) bool {
	for _, v := range envs {
		if v == e {
			return true
		}
	}
	return false
}

func containsCrit(crits []Criticality, c Criticality) bool {
	for _, v := range crits {
		if v == c {
			return true
		}
	}
	return false
}
