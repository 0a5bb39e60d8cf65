package gap

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisResult is the single report produced by one gap analysis run.
type AnalysisResult struct {
	AnalysisID     uuid.UUID      `json:"analysis_id"`
	StartedAt      time.Time      `json:"started_at"`
	ExecutionTime  time.Duration  `json:"execution_time"`
	AssetsAnalyzed int            `json:"assets_analyzed"`
	TotalGaps      int            `json:"total_gaps"`
	GapsByKind     map[string]int `json:"gaps_by_kind"`
	GapsBySeverity map[string]int `json:"gaps_by_severity"`
	Gaps           []Gap          `json:"gaps"`

	// Errors holds non-fatal per-asset and collaborator error strings.
	Errors []string `json:"errors,omitempty"`

	// Truncated marks a run cut short by budget exhaustion.
	Truncated bool `json:"truncated"`
}

// NewAnalysisResult builds a result from the final merged gap list,
// establishing the grouped-count invariants.
func NewAnalysisResult(analysisID uuid.UUID, startedAt time.Time, assetsAnalyzed int, gaps []Gap, errs []string, truncated bool) *AnalysisResult {
	r := &AnalysisResult{
		AnalysisID:     analysisID,
		StartedAt:      startedAt,
		ExecutionTime:  time.Since(startedAt),
		AssetsAnalyzed: assetsAnalyzed,
		TotalGaps:      len(gaps),
		GapsByKind:     make(map[string]int),
		GapsBySeverity: make(map[string]int),
		Gaps:           gaps,
		Errors:         errs,
		Truncated:      truncated,
	}
	for _, g := range gaps {
		b := g.Base()
		r.GapsByKind[b.Kind.String()]++
		r.GapsBySeverity[b.Severity.String()]++
	}
	return r
}

// Consistent verifies the grouped-count invariants: counts by kind and by
// severity both sum to TotalGaps, which equals the list length.
func (r *AnalysisResult) Consistent() bool {
	if r.TotalGaps != len(r.Gaps) {
		return false
	}
	var byKind, bySev int
	for _, n := range r.GapsByKind {
		byKind += n
	}
	for _, n := range r.GapsBySeverity {
		bySev += n
	}
	return byKind == r.TotalGaps && bySev == r.TotalGaps
}
