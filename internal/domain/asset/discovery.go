package asset

import (
	"time"

	"github.com/google/uuid"
)

// DiscoveredAsset is a storage resource reported by an external scanner,
// not yet merged into the inventory.
type DiscoveredAsset struct {
	Identifier          string            `json:"identifier"`
	Name                string            `json:"name"`
	StorageKind         StorageKind       `json:"storage_kind"`
	Location            string            `json:"location"`
	Classification      Classification    `json:"classification"`
	Criticality         Criticality       `json:"criticality"`
	Environment         Environment       `json:"environment"`
	DiscoveryConfidence int               `json:"discovery_confidence"` // 0-100
	DiscoveredAt        time.Time         `json:"discovered_at"`
	Source              string            `json:"source"`
	Metadata            map[string]string `json:"metadata,omitempty"`
}

// DiscoveryReport is one batch of scanner output submitted for ingestion.
type DiscoveryReport struct {
	ID        uuid.UUID         `json:"id"`
	Source    string            `json:"source"`
	ScannedAt time.Time         `json:"scanned_at"`
	Assets    []DiscoveredAsset `json:"assets"`
}

// ImportResult aggregates the outcome of ingesting one discovery report.
type ImportResult struct {
	ReportID      uuid.UUID `json:"report_id"`
	Created       int       `json:"created"`
	Updated       int       `json:"updated"`
	Skipped       int       `json:"skipped"`
	ManualReview  int       `json:"manual_review"`
	ErrorCount    int       `json:"error_count"`
	ErrorMessages []string  `json:"error_messages,omitempty"`
	CompletedAt   time.Time `json:"completed_at"`
}

// ConflictKind distinguishes how a conflict candidate was matched.
type ConflictKind int

const (
	ConflictExactIdentifier ConflictKind = iota
	ConflictSimilarAttributes
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictExactIdentifier:
		return "exact_identifier"
	case ConflictSimilarAttributes:
		return "similar_attributes"
	default:
		return "unknown"
	}
}

// ConflictCandidate is an existing inventory asset that may represent the
// same real resource as a newly discovered one.
type ConflictCandidate struct {
	Existing   *Asset       `json:"existing"`
	Kind       ConflictKind `json:"kind"`
	Confidence float64      `json:"confidence"` // 0.0-1.0
}

// ResolutionAction is the decided handling for a detected conflict.
type ResolutionAction int

const (
	ActionMerge ResolutionAction = iota
	ActionManualReview
	ActionCreateSeparate
)

func (a ResolutionAction) String() string {
	switch a {
	case ActionMerge:
		return "merge"
	case ActionManualReview:
		return "manual_review"
	case ActionCreateSeparate:
		return "create_separate"
	default:
		return "unknown"
	}
}

// ConflictResolution records the decision taken for one conflict candidate.
type ConflictResolution struct {
	Action        ResolutionAction `json:"action"`
	Automatic     bool             `json:"automatic"`
	Justification string           `json:"justification"`
}
