package docs

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/errors"
	"github.com/datagovern/governance-backend/internal/domain/gap"
	"github.com/datagovern/governance-backend/internal/metrics"
)

// DocumentationStore is the slice of the documentation collaborator the
// analyzer needs.
type DocumentationStore interface {
	Find(ctx context.Context, assetID uuid.UUID, docType string) (*asset.Document, error)
}

// Config tunes documentation scoring.
type Config struct {
	FreshnessCriticalDays   int     `json:"freshness_critical_days"`
	FreshnessProductionDays int     `json:"freshness_production_days"`
	FreshnessDefaultDays    int     `json:"freshness_default_days"`
	CompletenessHighBar     float64 `json:"completeness_high_bar"`
	DefaultCompleteness     float64 `json:"default_completeness"`
}

// DefaultConfig returns the standard documentation thresholds.
func DefaultConfig() Config {
	return Config{
		FreshnessCriticalDays:   60,
		FreshnessProductionDays: 90,
		FreshnessDefaultDays:    120,
		CompletenessHighBar:     0.7,
		DefaultCompleteness:     0.8,
	}
}

// Analyzer derives the required documentation set per asset and scores
// existing documents for freshness, completeness, technical accuracy, and
// template compliance.
type Analyzer struct {
	logger    *zap.Logger
	docs      DocumentationStore
	templates *TemplateSet
	cfg       Config

	docsDown atomic.Bool
}

// NewAnalyzer creates the documentation gap analyzer.
func NewAnalyzer(logger *zap.Logger, docs DocumentationStore, templates *TemplateSet, cfg Config) *Analyzer {
	return &Analyzer{
		logger:    logger,
		docs:      docs,
		templates: templates,
		cfg:       cfg,
	}
}

// Analyze scores documentation for every asset in the list.
func (an *Analyzer) Analyze(ctx context.Context, assets []*asset.Asset) ([]gap.Gap, error) {
	var out []gap.Gap
	for _, a := range assets {
		found, err := an.AnalyzeAsset(ctx, a)
		if err != nil {
			return out, err
		}
		out = append(out, found...)
	}
	return out, nil
}

// AnalyzeAsset checks one asset's documentation against its derived
// requirements.
func (an *Analyzer) AnalyzeAsset(ctx context.Context, a *asset.Asset) ([]gap.Gap, error) {
	if an.docsDown.Load() {
		return nil, nil
	}

	var out []gap.Gap
	for _, docType := range RequiredDocTypes(a) {
		doc, err := an.docs.Find(ctx, a.ID, docType)
		if err != nil && !errors.IsNotFound(err) {
			an.docsDown.Store(true)
			metrics.RecordCollaboratorError("documentation")
			return out, errors.NewExternalError("documentation", "documentation lookups unavailable").WithCause(err)
		}

		if doc == nil {
			out = append(out, an.missingDocGap(a, docType))
			continue
		}

		out = append(out, an.scoreDocument(a, docType, doc)...)
	}

	return out, nil
}

// RequiredDocTypes derives the documentation set an asset must carry.
// Every asset needs the core set; classification, environment, and
// criticality each add their own.
func RequiredDocTypes(a *asset.Asset) []string {
	required := []string{DocTypeBasicInfo, DocTypeTechnicalSpecs}

	if a.IsSecuritySensitive() {
		required = append(required,
			DocTypeSecurityProcedures,
			DocTypeAccessControls,
			DocTypeDataClassification,
		)
	}
	if a.IsProduction() {
		required = append(required,
			DocTypeBackupProcedures,
			DocTypeDisasterRecovery,
			DocTypeMonitoringSetup,
		)
	}
	if a.IsCriticalTier() {
		required = append(required,
			DocTypeRunbooks,
			DocTypeEscalationProcedures,
			DocTypeCapacityPlanning,
		)
	}

	return required
}

func (an *Analyzer) missingDocGap(a *asset.Asset, docType string) gap.Gap {
	severity := gap.SeverityMedium
	if a.IsCriticalTier() || a.IsProduction() || a.IsSecuritySensitive() {
		severity = gap.SeverityHigh
	}

	return &gap.DocumentationGap{
		Common: gap.Base{
			ID:       uuid.New(),
			AssetID:  a.ID,
			Kind:     gap.KindDocumentation,
			Severity: severity,
			Description: fmt.Sprintf("missing required documentation: %s for asset %q",
				docType, a.Name),
			Recommendations: []string{
				fmt.Sprintf("author the %s document for this asset", docType),
			},
			DetectedAt: time.Now(),
		},
		DocType:           docType,
		CompletenessScore: 0,
	}
}

// scoreDocument evaluates one existing document on the four independent
// axes; each axis can emit its own outdated-documentation gap.
func (an *Analyzer) scoreDocument(a *asset.Asset, docType string, doc *asset.Document) []gap.Gap {
	var out []gap.Gap
	now := time.Now()

	// Freshness: age against the asset tier's threshold.
	threshold := an.freshnessThresholdDays(a)
	ageDays := int(doc.Age(now).Hours() / 24)
	if ageDays > threshold {
		out = append(out, an.outdatedGap(a, docType, doc, gap.SeverityMedium,
			fmt.Sprintf("outdated documentation: %s last updated %d days ago, threshold %d days",
				docType, ageDays, threshold),
			fmt.Sprintf("review and refresh the %s document", docType)))
	}

	// Completeness: required template elements present in the body.
	completeness := an.completenessScore(docType, doc)
	if completeness < an.cfg.CompletenessHighBar {
		g := an.outdatedGap(a, docType, doc, gap.SeverityHigh,
			fmt.Sprintf("incomplete documentation: %s covers %.0f%% of required elements",
				docType, completeness*100),
			fmt.Sprintf("fill in the missing required elements of the %s document", docType))
		g.(*gap.DocumentationGap).CompletenessScore = completeness
		out = append(out, g)
	}

	// Technical accuracy: the document must mention the asset as it exists.
	if missing := an.accuracyMisses(a, doc); len(missing) > 0 {
		out = append(out, an.outdatedGap(a, docType, doc, gap.SeverityMedium,
			fmt.Sprintf("inaccurate documentation: %s does not mention %s",
				docType, strings.Join(missing, ", ")),
			fmt.Sprintf("update the %s document to reflect the asset's current name, storage kind, and environment", docType)))
	}

	// Template compliance: every mandated section present.
	if missing := an.missingSections(docType, doc); len(missing) > 0 {
		out = append(out, an.outdatedGap(a, docType, doc, gap.SeverityMedium,
			fmt.Sprintf("non-compliant documentation: %s missing mandated sections: %s",
				docType, strings.Join(missing, ", ")),
			fmt.Sprintf("add the mandated sections to the %s document", docType)))
	}

	return out
}

func (an *Analyzer) freshnessThresholdDays(a *asset.Asset) int {
	switch {
	case a.IsCriticalTier():
		return an.cfg.FreshnessCriticalDays
	case a.IsProduction():
		return an.cfg.FreshnessProductionDays
	default:
		return an.cfg.FreshnessDefaultDays
	}
}

// completenessScore is present-required-elements over total-required, by
// case-insensitive substring presence. A precomputed score from the
// documentation system wins; with no template the default applies.
func (an *Analyzer) completenessScore(docType string, doc *asset.Document) float64 {
	if doc.CompletenessScore != nil {
		return *doc.CompletenessScore
	}

	tmpl, ok := an.templates.Lookup(docType)
	if !ok || len(tmpl.RequiredElements) == 0 {
		return an.cfg.DefaultCompleteness
	}

	body := strings.ToLower(doc.Body)
	present := 0
	for _, element := range tmpl.RequiredElements {
		if strings.Contains(body, strings.ToLower(element)) {
			present++
		}
	}
	return float64(present) / float64(len(tmpl.RequiredElements))
}

func (an *Analyzer) accuracyMisses(a *asset.Asset, doc *asset.Document) []string {
	body := strings.ToLower(doc.Body)

	var missing []string
	if a.Name != "" && !strings.Contains(body, strings.ToLower(a.Name)) {
		missing = append(missing, "the asset's name")
	}
	if !strings.Contains(body, strings.ReplaceAll(a.StorageKind.String(), "_", " ")) &&
		!strings.Contains(body, a.StorageKind.String()) {
		missing = append(missing, "its storage kind")
	}
	if !strings.Contains(body, a.Environment.String()) {
		missing = append(missing, "its environment")
	}
	return missing
}

func (an *Analyzer) missingSections(docType string, doc *asset.Document) []string {
	tmpl, ok := an.templates.Lookup(docType)
	if !ok {
		return nil
	}

	body := strings.ToLower(doc.Body)
	var missing []string
	for _, section := range tmpl.MandatorySections {
		if !strings.Contains(body, strings.ToLower(section)) {
			missing = append(missing, section)
		}
	}
	return missing
}

func (an *Analyzer) outdatedGap(a *asset.Asset, docType string, doc *asset.Document, severity gap.Severity, description, recommendation string) gap.Gap {
	lastUpdated := doc.LastUpdated
	return &gap.DocumentationGap{
		Common: gap.Base{
			ID:              uuid.New(),
			AssetID:         a.ID,
			Kind:            gap.KindDocumentation,
			Severity:        severity,
			Description:     description,
			Recommendations: []string{recommendation},
			DetectedAt:      time.Now(),
		},
		DocType:           docType,
		LastUpdated:       &lastUpdated,
		CompletenessScore: an.completenessScore(docType, doc),
	}
}
