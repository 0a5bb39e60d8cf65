package gap

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finding(kind Kind, severity Severity) Gap {
	base := Base{
		ID:         uuid.New(),
		AssetID:    uuid.New(),
		Kind:       kind,
		Severity:   severity,
		DetectedAt: time.Now(),
	}
	switch kind {
	case KindCompliance:
		return &ComplianceGap{Common: base, Framework: FrameworkGDPR, Clause: "security-of-processing"}
	case KindPolicy:
		return &PolicyGap{Common: base, PolicyName: "storage-security-baseline"}
	case KindDocumentation:
		return &DocumentationGap{Common: base, DocType: "basic-info"}
	default:
		return &OrphanedAssetGap{Common: base, Reason: OrphanUnclearOwnership}
	}
}

func TestNewAnalysisResult(t *testing.T) {
	gaps := []Gap{
		finding(KindOrphanedAsset, SeverityHigh),
		finding(KindOrphanedAsset, SeverityMedium),
		finding(KindCompliance, SeverityHigh),
		finding(KindPolicy, SeverityLow),
		finding(KindDocumentation, SeverityMedium),
	}
	started := time.Now().Add(-time.Second)

	r := NewAnalysisResult(uuid.New(), started, 7, gaps, []string{"documentation: lookups unavailable"}, false)

	assert.Equal(t, 5, r.TotalGaps)
	assert.Equal(t, 7, r.AssetsAnalyzed)
	assert.Equal(t, 2, r.GapsByKind[KindOrphanedAsset.String()])
	assert.Equal(t, 1, r.GapsByKind[KindCompliance.String()])
	assert.Equal(t, 1, r.GapsByKind[KindPolicy.String()])
	assert.Equal(t, 1, r.GapsByKind[KindDocumentation.String()])
	assert.Equal(t, 2, r.GapsBySeverity[SeverityHigh.String()])
	assert.Equal(t, 2, r.GapsBySeverity[SeverityMedium.String()])
	assert.Equal(t, 1, r.GapsBySeverity[SeverityLow.String()])
	assert.GreaterOrEqual(t, r.ExecutionTime, time.Second)
	assert.False(t, r.Truncated)
	assert.True(t, r.Consistent())
}

func TestAnalysisResult_Consistent(t *testing.T) {
	r := NewAnalysisResult(uuid.New(), time.Now(), 1, []Gap{finding(KindOrphanedAsset, SeverityLow)}, nil, true)
	require.True(t, r.Consistent())

	// Any tampering with the grouped counts must be detectable.
	r.GapsBySeverity[SeverityCritical.String()]++
	assert.False(t, r.Consistent())

	r = NewAnalysisResult(uuid.New(), time.Now(), 0, nil, nil, false)
	assert.True(t, r.Consistent())
	assert.Zero(t, r.TotalGaps)
}
