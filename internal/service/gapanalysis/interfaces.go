package gapanalysis

import (
	"context"
	"time"

	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/errors"
	"github.com/datagovern/governance-backend/internal/domain/gap"
)

// AssetInventory is the slice of the inventory collaborator the orchestrator
// depends on. Asset CRUD lives with the ingestion service.
type AssetInventory interface {
	ListAssets(ctx context.Context, filters *asset.Filters) ([]*asset.Asset, error)
}

// OrphanDetector flags assets lacking documentation, ownership, code
// references, or recent usage.
type OrphanDetector interface {
	DetectAsset(ctx context.Context, a *asset.Asset) ([]gap.Gap, error)
}

// DocumentationAnalyzer derives the required documentation set per asset and
// scores existing documents.
type DocumentationAnalyzer interface {
	AnalyzeAsset(ctx context.Context, a *asset.Asset) ([]gap.Gap, error)
}

// ComplianceChecker evaluates framework applicability and conformance plus
// org security policy.
type ComplianceChecker interface {
	AssessAsset(ctx context.Context, a *asset.Asset, frameworks []gap.Framework) ([]gap.Gap, error)
}

// Detectors bundles the detector families available to the orchestrator.
// Nil entries are treated as disabled.
type Detectors struct {
	Orphaned      OrphanDetector
	Documentation DocumentationAnalyzer
	Compliance    ComplianceChecker
}

// AnalysisConfig enumerates one run's options.
type AnalysisConfig struct {
	IncludeOrphanedDetection     bool            `json:"include_orphaned_detection"`
	IncludeDocumentationAnalysis bool            `json:"include_documentation_analysis"`
	IncludeComplianceAssessment  bool            `json:"include_compliance_assessment"`
	ComplianceFrameworks         []gap.Framework `json:"compliance_frameworks"`

	MaxExecutionTime time.Duration `json:"max_execution_time"`
	MaxMemoryMB      int           `json:"max_memory_mb"`
	MaxConcurrency   int           `json:"max_concurrency"`
	BatchSize        int           `json:"batch_size"`

	AssetFilters       *asset.Filters `json:"asset_filters,omitempty"`
	RealTimeMonitoring bool           `json:"real_time_monitoring"`
}

// DefaultAnalysisConfig returns the standard run options.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		IncludeOrphanedDetection:     true,
		IncludeDocumentationAnalysis: true,
		IncludeComplianceAssessment:  true,
		ComplianceFrameworks:         gap.KnownFrameworks(),
		MaxExecutionTime:             180 * time.Second,
		MaxMemoryMB:                  256,
		MaxConcurrency:               10,
		BatchSize:                    50,
	}
}

// Validate rejects malformed run options before any work starts.
func (c *AnalysisConfig) Validate() error {
	if c.MaxExecutionTime <= 0 {
		return errors.ErrNonPositiveTimeout
	}
	if c.MaxMemoryMB <= 0 {
		return errors.NewValidationError("NON_POSITIVE_MEMORY", "memory ceiling must be positive")
	}
	if c.MaxConcurrency <= 0 {
		return errors.NewValidationError("NON_POSITIVE_CONCURRENCY", "concurrency window must be positive")
	}
	if c.BatchSize <= 0 {
		return errors.NewValidationError("NON_POSITIVE_BATCH", "batch size must be positive")
	}
	known := gap.KnownFrameworks()
	for _, fw := range c.ComplianceFrameworks {
		if !containsFramework(known, fw) {
			return errors.NewValidationError("UNKNOWN_FRAMEWORK",
				"unknown compliance framework: "+string(fw))
		}
	}
	return nil
}

func containsFramework(frameworks []gap.Framework, fw gap.Framework) bool {
	for _, f := range frameworks {
		if f == fw {
			return true
		}
	}
	return false
}
