package gapanalysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/errors"
	"github.com/datagovern/governance-backend/internal/domain/gap"
	"github.com/datagovern/governance-backend/internal/metrics"
)

// Service orchestrates one gap analysis run: it loads the inventory once,
// fans out per-asset, per-detector work under a bounded concurrency window,
// merges and deduplicates findings, and prioritizes the result.
type Service struct {
	logger      *zap.Logger
	inventory   AssetInventory
	detectors   Detectors
	prioritizer *Prioritizer
	tracer      trace.Tracer
}

// NewService creates the gap analysis orchestrator.
func NewService(logger *zap.Logger, inventory AssetInventory, detectors Detectors) *Service {
	return &Service{
		logger:      logger,
		inventory:   inventory,
		detectors:   detectors,
		prioritizer: NewPrioritizer(),
		tracer:      otel.Tracer("gapanalysis"),
	}
}

// detectorTask is one enabled detector family bound to a run.
type detectorTask struct {
	family string
	run    func(ctx context.Context, a *asset.Asset) ([]gap.Gap, error)
}

// Analyze runs one full gap analysis under the given configuration.
// Per-asset failures and collaborator outages are collected as error strings
// on the result; only configuration errors fail the call itself.
func (s *Service) Analyze(ctx context.Context, cfg AnalysisConfig) (*gap.AnalysisResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	analysisID := uuid.New()
	startedAt := time.Now()
	deadline := startedAt.Add(cfg.MaxExecutionTime)

	ctx, span := s.tracer.Start(ctx, "gapanalysis.Analyze",
		trace.WithAttributes(attribute.String("analysis_id", analysisID.String())))
	defer span.End()

	s.logger.Info("starting gap analysis",
		zap.String("analysis_id", analysisID.String()),
		zap.Duration("max_execution_time", cfg.MaxExecutionTime),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
	)

	assets, err := s.inventory.ListAssets(ctx, cfg.AssetFilters)
	if err != nil {
		metrics.RecordCollaboratorError("inventory")
		return nil, errors.NewExternalError("inventory", "listing assets").WithCause(err)
	}

	tasks := s.enabledDetectors(cfg)

	var (
		mu        sync.Mutex
		collected []gap.Gap
		errs      []string
		completed = make(map[uuid.UUID]int, len(assets))
	)
	sem := make(chan struct{}, cfg.MaxConcurrency)
	truncated := false
	cancelled := false

	for batchStart := 0; batchStart < len(assets) && !truncated; batchStart += cfg.BatchSize {
		batchEnd := batchStart + cfg.BatchSize
		if batchEnd > len(assets) {
			batchEnd = len(assets)
		}

		var wg sync.WaitGroup
	batch:
		for _, a := range assets[batchStart:batchEnd] {
			for _, task := range tasks {
				// Deadline and cancellation stop new dispatch only;
				// in-flight branches run to completion.
				if ctx.Err() != nil {
					truncated = true
					cancelled = true
					break batch
				}
				if time.Now().After(deadline) {
					truncated = true
					break batch
				}

				wg.Add(1)
				go func(task detectorTask, a *asset.Asset) {
					defer wg.Done()
					defer func() {
						if r := recover(); r != nil {
							mu.Lock()
							errs = append(errs, fmt.Sprintf("%s: asset %s: panic: %v", task.family, a.Identifier, r))
							completed[a.ID]++
							mu.Unlock()
						}
					}()

					sem <- struct{}{}
					defer func() { <-sem }()

					found, err := task.run(ctx, a)

					mu.Lock()
					defer mu.Unlock()
					completed[a.ID]++
					// Findings gathered before a partial failure still count.
					collected = append(collected, found...)
					if err != nil {
						errs = append(errs, fmt.Sprintf("%s: asset %s: %v", task.family, a.Identifier, err))
					}
				}(task, a)
			}
		}
		wg.Wait()

		if truncated {
			break
		}

		metrics.RecordBatch()
		if cfg.RealTimeMonitoring {
			s.logger.Info("batch complete",
				zap.String("analysis_id", analysisID.String()),
				zap.Int("assets_processed", batchEnd),
				zap.Int("assets_total", len(assets)),
			)
		} else {
			s.logger.Debug("batch complete",
				zap.Int("assets_processed", batchEnd),
				zap.Int("assets_total", len(assets)),
			)
		}
	}

	if truncated {
		reason := "timeout"
		msg := fmt.Sprintf("analysis timeout: execution budget of %s exhausted, remaining dispatch truncated", cfg.MaxExecutionTime)
		if cancelled {
			reason = "cancelled"
			msg = "analysis cancelled: caller context ended, remaining dispatch truncated"
		}
		errs = append(errs, errors.NewDegradedError(reason, msg).Error())
	}

	merged := dedupeGaps(collected)
	errs = dedupeStrings(errs)

	assetsByID := make(map[uuid.UUID]*asset.Asset, len(assets))
	for _, a := range assets {
		assetsByID[a.ID] = a
	}
	for _, g := range merged {
		score := s.prioritizer.Score(g, assetsByID[g.Base().AssetID])
		g.Base().Priority = &score
		metrics.RecordGap(g.Base().Kind.String(), g.Base().Severity.String())
	}

	analyzed := 0
	for _, n := range completed {
		if n == len(tasks) {
			analyzed++
		}
	}

	result := gap.NewAnalysisResult(analysisID, startedAt, analyzed, merged, errs, truncated)
	metrics.RecordRun(result.ExecutionTime, truncated)

	s.logger.Info("gap analysis complete",
		zap.String("analysis_id", analysisID.String()),
		zap.Int("assets_analyzed", result.AssetsAnalyzed),
		zap.Int("total_gaps", result.TotalGaps),
		zap.Int("errors", len(result.Errors)),
		zap.Bool("truncated", result.Truncated),
		zap.Duration("execution_time", result.ExecutionTime),
	)

	return result, nil
}

// enabledDetectors binds the configured detector families to this run.
func (s *Service) enabledDetectors(cfg AnalysisConfig) []detectorTask {
	var tasks []detectorTask

	if cfg.IncludeOrphanedDetection && s.detectors.Orphaned != nil {
		tasks = append(tasks, detectorTask{
			family: "orphaned",
			run:    s.detectors.Orphaned.DetectAsset,
		})
	}
	if cfg.IncludeDocumentationAnalysis && s.detectors.Documentation != nil {
		tasks = append(tasks, detectorTask{
			family: "documentation",
			run:    s.detectors.Documentation.AnalyzeAsset,
		})
	}
	if cfg.IncludeComplianceAssessment && s.detectors.Compliance != nil {
		frameworks := cfg.ComplianceFrameworks
		tasks = append(tasks, detectorTask{
			family: "compliance",
			run: func(ctx context.Context, a *asset.Asset) ([]gap.Gap, error) {
				return s.detectors.Compliance.AssessAsset(ctx, a, frameworks)
			},
		})
	}

	return tasks
}

type gapKey struct {
	assetID     uuid.UUID
	kind        gap.Kind
	description string
}

// dedupeGaps drops findings sharing (asset id, kind, description) so two
// detectors never double-report the same condition. First occurrence wins.
func dedupeGaps(gaps []gap.Gap) []gap.Gap {
	seen := make(map[gapKey]struct{}, len(gaps))
	out := gaps[:0]
	for _, g := range gaps {
		b := g.Base()
		key := gapKey{assetID: b.AssetID, kind: b.Kind, description: b.Description}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, g)
	}
	return out
}

// dedupeStrings collapses repeated error strings, so one collaborator outage
// is summarized by a single entry.
func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
