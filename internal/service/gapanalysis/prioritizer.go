package gapanalysis

import (
	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/gap"
)

// Prioritizer assigns a ranked remediation score to every raw finding,
// combining gap severity, asset criticality, and environment.
type Prioritizer struct{}

// NewPrioritizer creates a gap prioritizer.
func NewPrioritizer() *Prioritizer {
	return &Prioritizer{}
}

// Score computes the ordinal priority for one gap against its asset.
// Each factor contributes a fixed weight, so the score degrades
// monotonically as any factor drops.
func (p *Prioritizer) Score(g gap.Gap, a *asset.Asset) gap.PriorityScore {
	score := severityWeight(g.Base().Severity)
	if a != nil {
		score += criticalityWeight(a.Criticality)
		score += environmentWeight(a.Environment)
	}

	return gap.PriorityScore{
		Score: score,
		Level: levelFor(score),
	}
}

func severityWeight(s gap.Severity) int {
	switch s {
	case gap.SeverityCritical:
		return 55
	case gap.SeverityHigh:
		return 40
	case gap.SeverityMedium:
		return 25
	default:
		return 10
	}
}

func criticalityWeight(c asset.Criticality) int {
	switch c {
	case asset.CriticalityCritical:
		return 25
	case asset.CriticalityHigh:
		return 15
	case asset.CriticalityMedium:
		return 5
	default:
		return 0
	}
}

func environmentWeight(e asset.Environment) int {
	switch e {
	case asset.EnvironmentProduction:
		return 20
	case asset.EnvironmentStaging:
		return 5
	default:
		return 0
	}
}

// levelFor maps a score to its named level. A HIGH-severity gap on a
// critical-tier production asset lands exactly on the critical boundary.
func levelFor(score int) gap.PriorityLevel {
	switch {
	case score >= 85:
		return gap.PriorityCritical
	case score >= 60:
		return gap.PriorityHigh
	case score >= 35:
		return gap.PriorityMedium
	default:
		return gap.PriorityLow
	}
}
