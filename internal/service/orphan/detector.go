package orphan

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/errors"
	"github.com/datagovern/governance-backend/internal/domain/gap"
	"github.com/datagovern/governance-backend/internal/infrastructure/cache"
	"github.com/datagovern/governance-backend/internal/metrics"
)

// coreDocTypes are the documentation types whose absence, across the board,
// marks an asset as undocumented.
var coreDocTypes = []string{"basic-info", "technical-specs"}

// Detector flags orphaned assets: missing documentation, unclear ownership,
// no code references, or no recent usage.
type Detector struct {
	logger   *zap.Logger
	docs     DocumentationStore
	usage    UsageMonitor
	search   CodeSearcher
	refCache cache.Store
	limiter  *rate.Limiter
	cfg      Config

	// Collaborator outage flags; once set, the dependent check degrades to
	// "no findings" for the rest of the run.
	docsDown   atomic.Bool
	usageDown  atomic.Bool
	searchDown atomic.Bool
}

// NewDetector creates the orphaned resource detector. The cache store holds
// code-reference hit counts for the configured TTL so repeated analyses of
// the same asset within a window skip the search.
func NewDetector(logger *zap.Logger, docs DocumentationStore, usage UsageMonitor, search CodeSearcher, refCache cache.Store, cfg Config) *Detector {
	return &Detector{
		logger:   logger,
		docs:     docs,
		usage:    usage,
		search:   search,
		refCache: refCache,
		limiter:  rate.NewLimiter(rate.Limit(20), 20),
		cfg:      cfg,
	}
}

// Detect runs all orphan checks over the asset list. Findings gathered
// before any failure are still returned.
func (d *Detector) Detect(ctx context.Context, assets []*asset.Asset) ([]gap.Gap, error) {
	var out []gap.Gap
	var failures []error
	for _, a := range assets {
		found, err := d.DetectAsset(ctx, a)
		out = append(out, found...)
		if err != nil {
			failures = append(failures, err)
		}
	}
	return out, errors.Join(failures...)
}

// DetectAsset runs the four independent orphan checks against one asset.
// A collaborator outage fails only its own check; the remaining checks still
// run and their findings are returned alongside the error.
func (d *Detector) DetectAsset(ctx context.Context, a *asset.Asset) ([]gap.Gap, error) {
	var out []gap.Gap
	var failures []error

	if g, err := d.checkDocumentation(ctx, a); err != nil {
		failures = append(failures, err)
	} else if g != nil {
		out = append(out, g)
	}

	if g := d.checkOwnership(a); g != nil {
		out = append(out, g)
	}

	if g, err := d.checkReferences(ctx, a); err != nil {
		failures = append(failures, err)
	} else if g != nil {
		out = append(out, g)
	}

	if g, err := d.checkUsage(ctx, a); err != nil {
		failures = append(failures, err)
	} else if g != nil {
		out = append(out, g)
	}

	return out, errors.Join(failures...)
}

// checkDocumentation flags assets with no documentation object at all.
func (d *Detector) checkDocumentation(ctx context.Context, a *asset.Asset) (gap.Gap, error) {
	if d.docsDown.Load() {
		return nil, nil
	}

	for _, docType := range coreDocTypes {
		doc, err := d.docs.Find(ctx, a.ID, docType)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			d.docsDown.Store(true)
			metrics.RecordCollaboratorError("documentation")
			return nil, errors.NewExternalError("documentation", "documentation lookups unavailable").WithCause(err)
		}
		if doc != nil {
			return nil, nil
		}
	}

	g := d.newGap(a, gap.OrphanMissingDocumentation,
		fmt.Sprintf("no documentation exists for asset %q", a.Name),
		gap.SeverityMedium,
		[]string{
			"create basic-info documentation describing the asset's purpose and contents",
			"record technical specifications for the storage resource",
		})
	return g, nil
}

// checkOwnership flags assets whose owning team or technical contact is absent.
func (d *Detector) checkOwnership(a *asset.Asset) gap.Gap {
	if a.HasOwner() {
		return nil
	}

	var missing []string
	if a.OwnerTeam == "" {
		missing = append(missing, "owning team")
	}
	if a.TechnicalContact == "" {
		missing = append(missing, "technical contact")
	}

	return d.newGap(a, gap.OrphanUnclearOwnership,
		fmt.Sprintf("unclear ownership: %s not assigned", strings.Join(missing, " and ")),
		gap.SeverityMedium,
		[]string{
			"assign an owning team responsible for the asset's lifecycle",
			"record a technical contact for operational questions",
		})
}

// checkReferences flags production assets with zero code references. Hit
// counts are cached per asset for the configured TTL.
func (d *Detector) checkReferences(ctx context.Context, a *asset.Asset) (gap.Gap, error) {
	if !a.IsProduction() || d.searchDown.Load() {
		return nil, nil
	}

	hits, err := d.referenceHits(ctx, a)
	if err != nil {
		return nil, err
	}
	if hits > 0 {
		return nil, nil
	}

	g := d.newGap(a, gap.OrphanUnreferencedAsset,
		fmt.Sprintf("no code references found for production asset %q", a.Name),
		gap.SeverityMedium,
		[]string{
			"confirm the asset is still consumed by an application",
			"schedule deactivation if the asset is no longer referenced",
		})
	return g, nil
}

func (d *Detector) referenceHits(ctx context.Context, a *asset.Asset) (int, error) {
	cacheKey := "refs:" + a.ID.String()
	if cached, err := d.refCache.Get(ctx, cacheKey); err == nil {
		if hits, convErr := strconv.Atoi(cached); convErr == nil {
			return hits, nil
		}
	}

	total := 0
	for _, pattern := range searchPatterns(a) {
		if err := d.limiter.Wait(ctx); err != nil {
			return 0, err
		}
		refs, err := d.search.FindReferences(ctx, pattern)
		if err != nil {
			d.searchDown.Store(true)
			metrics.RecordCollaboratorError("code_search")
			return 0, errors.NewExternalError("code_search", "reference search failed").WithCause(err)
		}
		total += len(refs)
	}

	if err := d.refCache.Set(ctx, cacheKey, strconv.Itoa(total), d.cfg.ReferenceCacheTTL); err != nil {
		d.logger.Warn("reference cache write failed",
			zap.String("asset_id", a.ID.String()),
			zap.Error(err))
	}

	return total, nil
}

// searchPatterns builds the patterns searched for one asset: its name, the
// components of its connection string, and its file path when the location
// looks like one.
func searchPatterns(a *asset.Asset) []string {
	patterns := []string{a.Name}

	if a.Location != "" {
		if strings.HasPrefix(a.Location, "/") {
			patterns = append(patterns, a.Location)
		} else {
			for _, part := range strings.FieldsFunc(a.Location, func(r rune) bool {
				return r == '/' || r == ':' || r == '@' || r == '?'
			}) {
				if len(part) >= 4 && part != a.Name {
					patterns = append(patterns, part)
				}
			}
		}
	}

	return patterns
}

// checkUsage flags assets with no meaningful activity over the trailing
// window. Critical-tier assets need zero connections and a longer silence
// before they are flagged; seasonal assets are exempt.
func (d *Detector) checkUsage(ctx context.Context, a *asset.Asset) (gap.Gap, error) {
	if d.usageDown.Load() {
		return nil, nil
	}

	m, err := d.usage.UsageMetrics(ctx, a.ID, d.cfg.UnusedWindowDays)
	if err != nil {
		d.usageDown.Store(true)
		metrics.RecordCollaboratorError("usage_monitoring")
		return nil, errors.NewExternalError("usage_monitoring", "usage metrics unavailable").WithCause(err)
	}

	if m.SeasonalPattern {
		return nil, nil
	}

	unused := false
	if a.IsCriticalTier() {
		unused = m.ConnectionCount == 0 && m.DaysSinceLastActivity > d.cfg.CriticalInactivityDays
	} else {
		unused = m.ConnectionCount < d.cfg.MinConnectionCount && m.DaysSinceLastActivity > d.cfg.UnusedWindowDays
	}
	if !unused {
		return nil, nil
	}

	// Severity scales with inactivity length before the high-risk escalation.
	severity := gap.SeverityLow
	if m.DaysSinceLastActivity > 2*d.cfg.UnusedWindowDays {
		severity = gap.SeverityMedium
	}

	g := d.newGap(a, gap.OrphanUnusedAsset,
		fmt.Sprintf("asset %q unused: %d connections in %d days, last activity %d days ago",
			a.Name, m.ConnectionCount, d.cfg.UnusedWindowDays, m.DaysSinceLastActivity),
		severity,
		[]string{
			"verify with the owning team whether the asset is still needed",
			"archive and deactivate the asset if usage has permanently stopped",
		})

	g.DaysSinceLastActivity = m.DaysSinceLastActivity
	g.ConnectionCount = m.ConnectionCount
	return g, nil
}

// newGap builds one orphan gap, escalating severity to HIGH for production
// assets and high or critical criticality tiers.
func (d *Detector) newGap(a *asset.Asset, reason gap.OrphanReason, description string, severity gap.Severity, recommendations []string) *gap.OrphanedAssetGap {
	if a.IsHighRisk() && severity < gap.SeverityHigh {
		severity = gap.SeverityHigh
	}

	return &gap.OrphanedAssetGap{
		Common: gap.Base{
			ID:              uuid.New(),
			AssetID:         a.ID,
			Kind:            gap.KindOrphanedAsset,
			Severity:        severity,
			Description:     description,
			Recommendations: recommendations,
			DetectedAt:      time.Now(),
		},
		Reason: reason,
	}
}
