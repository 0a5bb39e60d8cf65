package ingestion

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/errors"
	"github.com/datagovern/governance-backend/internal/metrics"
)

// Inventory is the slice of the inventory collaborator the ingestion
// pipeline depends on.
type Inventory interface {
	ListAssets(ctx context.Context, filters *asset.Filters) ([]*asset.Asset, error)
	FindByIdentifier(ctx context.Context, identifier string) (*asset.Asset, error)
	Create(ctx context.Context, draft *asset.Asset) error
	UpdateFromDiscovery(ctx context.Context, existing *asset.Asset, discovered *asset.DiscoveredAsset) error
}

// Config tunes conflict detection and resolution.
type Config struct {
	SimilarityThreshold float64 `json:"similarity_threshold"`
	AutoMergeConfidence float64 `json:"auto_merge_confidence"`

	// ConfidenceImprovement is the discovery-confidence delta that, on its
	// own, justifies overwriting an existing record on re-discovery.
	ConfidenceImprovement int `json:"confidence_improvement"`
}

// DefaultConfig returns the standard ingestion settings.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:   0.85,
		AutoMergeConfidence:   0.9,
		ConfidenceImprovement: 10,
	}
}

// Attribute weights for the similarity score. They sum to 1.0, so each
// additional matching attribute adds a fixed amount and never lowers the
// score.
var similarityWeights = []struct {
	name   string
	weight float64
	match  func(existing *asset.Asset, d *asset.DiscoveredAsset) bool
}{
	{"name", 0.30, func(e *asset.Asset, d *asset.DiscoveredAsset) bool { return e.Name != "" && e.Name == d.Name }},
	{"location", 0.25, func(e *asset.Asset, d *asset.DiscoveredAsset) bool { return e.Location != "" && e.Location == d.Location }},
	{"storage_kind", 0.15, func(e *asset.Asset, d *asset.DiscoveredAsset) bool { return e.StorageKind == d.StorageKind }},
	{"classification", 0.10, func(e *asset.Asset, d *asset.DiscoveredAsset) bool { return e.Classification == d.Classification }},
	{"criticality", 0.10, func(e *asset.Asset, d *asset.DiscoveredAsset) bool { return e.Criticality == d.Criticality }},
	{"environment", 0.10, func(e *asset.Asset, d *asset.DiscoveredAsset) bool { return e.Environment == d.Environment }},
}

// Service deduplicates newly discovered assets against inventory and drives
// the discovery-report import pipeline.
type Service struct {
	logger    *zap.Logger
	inventory Inventory
	cfg       Config
}

// NewService creates the ingestion service.
func NewService(logger *zap.Logger, inventory Inventory, cfg Config) *Service {
	return &Service{
		logger:    logger,
		inventory: inventory,
		cfg:       cfg,
	}
}

// DetectConflicts finds existing assets that may represent the same real
// resource as the candidate. An exact identifier match is always attempted;
// the attribute similarity search runs independently, never short-circuited
// by it. All candidates are returned in descending confidence order.
func (s *Service) DetectConflicts(ctx context.Context, candidate *asset.DiscoveredAsset) ([]*asset.ConflictCandidate, error) {
	var out []*asset.ConflictCandidate

	exact, err := s.inventory.FindByIdentifier(ctx, candidate.Identifier)
	if err != nil && !errors.IsNotFound(err) {
		return nil, errors.NewExternalError("inventory", "identifier lookup failed").WithCause(err)
	}
	if exact != nil {
		out = append(out, &asset.ConflictCandidate{
			Existing:   exact,
			Kind:       asset.ConflictExactIdentifier,
			Confidence: 1.0,
		})
	}

	existing, err := s.inventory.ListAssets(ctx, nil)
	if err != nil {
		return nil, errors.NewExternalError("inventory", "listing assets").WithCause(err)
	}

	for _, e := range existing {
		if exact != nil && e.ID == exact.ID {
			continue
		}
		score := SimilarityScore(e, candidate)
		if score >= s.cfg.SimilarityThreshold {
			out = append(out, &asset.ConflictCandidate{
				Existing:   e,
				Kind:       asset.ConflictSimilarAttributes,
				Confidence: score,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})

	return out, nil
}

// SimilarityScore compares an existing asset with a discovered one; each
// matching attribute adds a fixed weight to a 0-1 score.
func SimilarityScore(existing *asset.Asset, candidate *asset.DiscoveredAsset) float64 {
	score := 0.0
	for _, w := range similarityWeights {
		if w.match(existing, candidate) {
			score += w.weight
		}
	}
	return score
}

// Resolve decides the handling for one conflict. Exact identifier matches at
// high confidence merge automatically; attribute similarity is weaker
// evidence and always routes to manual review.
func (s *Service) Resolve(conflict *asset.ConflictCandidate, candidate *asset.DiscoveredAsset) *asset.ConflictResolution {
	switch {
	case conflict.Kind == asset.ConflictExactIdentifier && conflict.Confidence >= s.cfg.AutoMergeConfidence:
		return &asset.ConflictResolution{
			Action:    asset.ActionMerge,
			Automatic: true,
			Justification: fmt.Sprintf("identifier %q matches existing asset exactly",
				candidate.Identifier),
		}
	case conflict.Kind == asset.ConflictSimilarAttributes && conflict.Confidence >= s.cfg.AutoMergeConfidence:
		return &asset.ConflictResolution{
			Action:    asset.ActionManualReview,
			Automatic: false,
			Justification: fmt.Sprintf("attributes match existing asset %q at %.2f confidence; similarity alone is not merged automatically",
				conflict.Existing.Name, conflict.Confidence),
		}
	default:
		return &asset.ConflictResolution{
			Action:    asset.ActionCreateSeparate,
			Automatic: true,
			Justification: fmt.Sprintf("confidence %.2f below the auto-merge bar; treated as a distinct asset",
				conflict.Confidence),
		}
	}
}

// ProcessDiscoveryReport ingests one scanner report: each discovered asset
// is conflict-checked, resolved, and created or merged into inventory.
// Per-item failures are recorded and do not abort the import.
func (s *Service) ProcessDiscoveryReport(ctx context.Context, report *asset.DiscoveryReport) (*asset.ImportResult, error) {
	if report == nil {
		return nil, errors.NewValidationError("INVALID_REPORT", "discovery report cannot be nil")
	}

	s.logger.Info("processing discovery report",
		zap.String("report_id", report.ID.String()),
		zap.String("source", report.Source),
		zap.Int("assets", len(report.Assets)),
	)

	result := &asset.ImportResult{ReportID: report.ID}

	for i := range report.Assets {
		d := &report.Assets[i]
		if err := s.importOne(ctx, d, result); err != nil {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("asset %s: %v", d.Identifier, err))
			metrics.RecordImport("error")
		}
	}

	result.CompletedAt = time.Now()

	s.logger.Info("discovery report processed",
		zap.String("report_id", report.ID.String()),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("manual_review", result.ManualReview),
		zap.Int("errors", result.ErrorCount),
	)

	return result, nil
}

func (s *Service) importOne(ctx context.Context, d *asset.DiscoveredAsset, result *asset.ImportResult) error {
	conflicts, err := s.DetectConflicts(ctx, d)
	if err != nil {
		return err
	}

	if len(conflicts) == 0 {
		if err := s.inventory.Create(ctx, draftFromDiscovery(d)); err != nil {
			return errors.Wrap(err, "creating asset")
		}
		result.Created++
		metrics.RecordImport("created")
		return nil
	}

	resolution := s.Resolve(conflicts[0], d)
	switch resolution.Action {
	case asset.ActionMerge:
		existing := conflicts[0].Existing
		if !s.shouldOverwrite(existing, d) {
			result.Skipped++
			metrics.RecordImport("skipped")
			return nil
		}
		if err := s.inventory.UpdateFromDiscovery(ctx, existing, d); err != nil {
			return errors.Wrap(err, "updating asset from discovery")
		}
		result.Updated++
		metrics.RecordImport("updated")

	case asset.ActionManualReview:
		result.ManualReview++
		metrics.RecordImport("manual_review")
		s.logger.Warn("conflict routed to manual review",
			zap.String("identifier", d.Identifier),
			zap.String("existing", conflicts[0].Existing.Identifier),
			zap.Float64("confidence", conflicts[0].Confidence),
		)

	case asset.ActionCreateSeparate:
		if err := s.inventory.Create(ctx, draftFromDiscovery(d)); err != nil {
			return errors.Wrap(err, "creating asset")
		}
		result.Created++
		metrics.RecordImport("created")
	}

	return nil
}

// shouldOverwrite applies the re-discovery overwrite rules: a newer
// discovery and a significant confidence improvement are independent,
// either-sufficient triggers.
func (s *Service) shouldOverwrite(existing *asset.Asset, d *asset.DiscoveredAsset) bool {
	if existing.LastDiscoveredAt == nil || d.DiscoveredAt.After(*existing.LastDiscoveredAt) {
		return true
	}
	return d.DiscoveryConfidence >= existing.DiscoveryConfidence+s.cfg.ConfidenceImprovement
}

func draftFromDiscovery(d *asset.DiscoveredAsset) *asset.Asset {
	discoveredAt := d.DiscoveredAt
	return &asset.Asset{
		Identifier:          d.Identifier,
		Name:                d.Name,
		StorageKind:         d.StorageKind,
		Location:            d.Location,
		Classification:      d.Classification,
		Criticality:         d.Criticality,
		Environment:         d.Environment,
		DiscoveryConfidence: d.DiscoveryConfidence,
		LastDiscoveredAt:    &discoveredAt,
		Active:              true,
		Metadata:            d.Metadata,
	}
}
