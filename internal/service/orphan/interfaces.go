package orphan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/datagovern/governance-backend/internal/domain/asset"
)

// DocumentationStore is the slice of the documentation collaborator this
// detector needs: existence checks for the core documentation types.
type DocumentationStore interface {
	// Find returns the document for the asset and type, or a not-found error.
	Find(ctx context.Context, assetID uuid.UUID, docType string) (*asset.Document, error)
}

// UsageMonitor serves per-asset activity statistics over a trailing window.
type UsageMonitor interface {
	UsageMetrics(ctx context.Context, assetID uuid.UUID, windowDays int) (*asset.UsageMetrics, error)
}

// CodeSearcher finds references to a pattern in source code. A substring
// scanner and a syntax-tree indexer both satisfy this contract.
type CodeSearcher interface {
	FindReferences(ctx context.Context, pattern string) ([]asset.Reference, error)
}

// Config tunes the orphan checks.
type Config struct {
	UnusedWindowDays       int           `json:"unused_window_days"`
	MinConnectionCount     int           `json:"min_connection_count"`
	CriticalInactivityDays int           `json:"critical_inactivity_days"`
	ReferenceCacheTTL      time.Duration `json:"reference_cache_ttl"`
}

// DefaultConfig returns the standard orphan detection thresholds.
func DefaultConfig() Config {
	return Config{
		UnusedWindowDays:       90,
		MinConnectionCount:     5,
		CriticalInactivityDays: 180,
		ReferenceCacheTTL:      15 * time.Minute,
	}
}
