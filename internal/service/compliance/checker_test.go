package compliance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/errors"
	"github.com/datagovern/governance-backend/internal/domain/gap"
	"github.com/datagovern/governance-backend/internal/testutil/fixtures"
)

func TestChecker_Assess_GDPR(t *testing.T) {
	ctx := context.Background()
	c := NewChecker(zap.NewNop(), nil)

	t.Run("unencrypted personal data fails security of processing", func(t *testing.T) {
		a := fixtures.NewAssetBuilder().
			WithClassification(asset.ClassificationConfidential).
			WithSecurityPosture(false, true, true, true).
			Build()

		found, err := c.Assess(ctx, a, gap.FrameworkGDPR)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "security-of-processing", found[0].Clause)
		assert.Equal(t, gap.SeverityHigh, found[0].Common.Severity)
		assert.Equal(t, gap.FrameworkGDPR, found[0].Framework)
	})

	t.Run("purpose wording alone triggers applicability", func(t *testing.T) {
		a := fixtures.NewAssetBuilder().
			WithClassification(asset.ClassificationInternal).
			WithPurpose("customer order history").
			WithRegulatoryPosture(false, true, true, true).
			Build()

		found, err := c.Assess(ctx, a, gap.FrameworkGDPR)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "retention-policy-set", found[0].Clause)
		assert.Equal(t, gap.SeverityMedium, found[0].Common.Severity)
	})

	t.Run("inapplicable to internal non-personal assets", func(t *testing.T) {
		a := fixtures.NewAssetBuilder().
			WithClassification(asset.ClassificationInternal).
			WithSecurityPosture(false, false, false, false).
			Build()

		found, err := c.Assess(ctx, a, gap.FrameworkGDPR)
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestChecker_Assess_SOC2AppliesToProductionOnly(t *testing.T) {
	ctx := context.Background()
	c := NewChecker(zap.NewNop(), nil)

	unmonitored := fixtures.NewAssetBuilder().
		WithSecurityPosture(true, true, false, false).
		Build()

	found, err := c.Assess(ctx, unmonitored, gap.FrameworkSOC2)
	require.NoError(t, err)
	require.Len(t, found, 2)
	clauses := []string{found[0].Clause, found[1].Clause}
	assert.Contains(t, clauses, "backup-recovery")
	assert.Contains(t, clauses, "monitoring")

	staging := fixtures.NewAssetBuilder().
		WithEnvironment(asset.EnvironmentStaging).
		WithSecurityPosture(false, false, false, false).
		Build()

	found, err = c.Assess(ctx, staging, gap.FrameworkSOC2)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestChecker_Assess_ISO27001AppliesToCriticalTierOnly(t *testing.T) {
	ctx := context.Background()
	c := NewChecker(zap.NewNop(), nil)

	critical := fixtures.NewAssetBuilder().
		WithCriticality(asset.CriticalityCritical).
		WithSecurityPosture(false, false, true, true).
		Build()

	found, err := c.Assess(ctx, critical, gap.FrameworkISO27001)
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, g := range found {
		assert.Equal(t, gap.SeverityHigh, g.Common.Severity)
	}

	high := fixtures.NewAssetBuilder().
		WithCriticality(asset.CriticalityHigh).
		WithSecurityPosture(false, false, false, false).
		Build()

	found, err = c.Assess(ctx, high, gap.FrameworkISO27001)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestChecker_Assess_RejectsUnknownAndPolicyFrameworks(t *testing.T) {
	ctx := context.Background()
	c := NewChecker(zap.NewNop(), nil)
	a := fixtures.NewAssetBuilder().Build()

	_, err := c.Assess(ctx, a, gap.Framework("hipaa"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = c.Assess(ctx, a, gap.FrameworkOrgPolicy)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestChecker_CheckPolicies(t *testing.T) {
	c := NewChecker(zap.NewNop(), nil)

	t.Run("violated policy reports the max impact among its rules", func(t *testing.T) {
		a := fixtures.NewAssetBuilder().
			WithSecurityPosture(false, true, false, true).
			Build()

		found := c.CheckPolicies(a)
		require.Len(t, found, 1)
		assert.Equal(t, "storage-security-baseline", found[0].PolicyName)
		assert.Equal(t, gap.SeverityHigh, found[0].Common.Severity)
		assert.ElementsMatch(t, []string{"encryption-required", "backup-required"}, found[0].ViolatedRules)
	})

	t.Run("medium-impact-only violations stay medium", func(t *testing.T) {
		a := fixtures.NewAssetBuilder().
			WithSecurityPosture(true, true, false, true).
			Build()

		found := c.CheckPolicies(a)
		require.Len(t, found, 1)
		assert.Equal(t, gap.SeverityMedium, found[0].Common.Severity)
		assert.Equal(t, []string{"backup-required"}, found[0].ViolatedRules)
	})

	t.Run("missing owner violates operational readiness", func(t *testing.T) {
		a := fixtures.NewAssetBuilder().
			WithOwner("", "").
			Build()

		found := c.CheckPolicies(a)
		require.Len(t, found, 1)
		assert.Equal(t, "operational-readiness", found[0].PolicyName)
		assert.Equal(t, []string{"owner-assigned"}, found[0].ViolatedRules)
	})

	t.Run("compliant asset passes every policy", func(t *testing.T) {
		assert.Empty(t, c.CheckPolicies(fixtures.NewAssetBuilder().Build()))
	})
}

func TestChecker_AssessAsset(t *testing.T) {
	ctx := context.Background()
	c := NewChecker(zap.NewNop(), nil)

	t.Run("ungoverned critical production asset fails across frameworks", func(t *testing.T) {
		a := fixtures.NewAssetBuilder().
			WithClassification(asset.ClassificationRestricted).
			WithCriticality(asset.CriticalityCritical).
			WithOwner("", "").
			WithSecurityPosture(false, true, true, true).
			Build()

		found, err := c.AssessAsset(ctx, a, gap.KnownFrameworks())
		require.NoError(t, err)

		var frameworks []gap.Framework
		var policies []string
		highs := 0
		for _, g := range found {
			if g.Base().Severity == gap.SeverityHigh {
				highs++
			}
			switch v := g.(type) {
			case *gap.ComplianceGap:
				frameworks = append(frameworks, v.Framework)
			case *gap.PolicyGap:
				policies = append(policies, v.PolicyName)
			}
		}
		assert.Contains(t, frameworks, gap.FrameworkGDPR)
		assert.Contains(t, frameworks, gap.FrameworkISO27001)
		assert.Contains(t, policies, "storage-security-baseline")
		assert.Contains(t, policies, "operational-readiness")
		assert.GreaterOrEqual(t, highs, 3)
	})

	t.Run("fully governed asset yields nothing", func(t *testing.T) {
		found, err := c.AssessAsset(ctx, fixtures.NewAssetBuilder().Build(), gap.KnownFrameworks())
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("requested subset skips the rest", func(t *testing.T) {
		a := fixtures.NewAssetBuilder().
			WithClassification(asset.ClassificationRestricted).
			WithSecurityPosture(false, false, false, false).
			Build()

		found, err := c.AssessAsset(ctx, a, []gap.Framework{gap.FrameworkSOC2})
		require.NoError(t, err)
		for _, g := range found {
			cg, ok := g.(*gap.ComplianceGap)
			require.True(t, ok)
			assert.Equal(t, gap.FrameworkSOC2, cg.Framework)
		}
	})
}
