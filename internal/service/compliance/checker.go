package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/errors"
	"github.com/datagovern/governance-backend/internal/domain/gap"
)

// Checker evaluates framework applicability and conformance for assets,
// plus org security policy.
type Checker struct {
	logger   *zap.Logger
	specs    map[gap.Framework]frameworkSpec
	policies []SecurityPolicy
}

// NewChecker creates the compliance gap checker with the given org policies.
// Nil policies means the default baseline.
func NewChecker(logger *zap.Logger, policies []SecurityPolicy) *Checker {
	if policies == nil {
		policies = DefaultPolicies()
	}
	return &Checker{
		logger:   logger,
		specs:    frameworkSpecs(),
		policies: policies,
	}
}

// Assess evaluates one framework against one asset. Inapplicable frameworks
// yield no gaps.
func (c *Checker) Assess(ctx context.Context, a *asset.Asset, framework gap.Framework) ([]*gap.ComplianceGap, error) {
	if framework == gap.FrameworkOrgPolicy {
		return nil, errors.NewValidationError("NOT_A_CLAUSE_FRAMEWORK",
			"org policy is assessed through CheckPolicies")
	}

	spec, ok := c.specs[framework]
	if !ok {
		return nil, errors.NewValidationError("UNKNOWN_FRAMEWORK",
			"unknown compliance framework: "+string(framework))
	}

	if !spec.applies(a) {
		return nil, nil
	}

	var out []*gap.ComplianceGap
	for _, clause := range spec.clauses {
		if clause.Met(a) {
			continue
		}
		out = append(out, &gap.ComplianceGap{
			Common: gap.Base{
				ID:       uuid.New(),
				AssetID:  a.ID,
				Kind:     gap.KindCompliance,
				Severity: clause.Severity,
				Description: fmt.Sprintf("%s %s: %s",
					framework, clause.ID, clause.Description),
				Recommendations: []string{clause.Recommendation},
				DetectedAt:      time.Now(),
			},
			Framework: framework,
			Clause:    clause.ID,
		})
	}

	return out, nil
}

// CheckPolicies evaluates every org security policy against one asset.
func (c *Checker) CheckPolicies(a *asset.Asset) []*gap.PolicyGap {
	var out []*gap.PolicyGap
	for _, policy := range c.policies {
		if g := evaluatePolicy(a, policy); g != nil {
			out = append(out, g)
		}
	}
	return out
}

// AssessAsset runs every requested framework plus, when requested, the org
// policy layer against one asset. This is the orchestrator-facing entry.
func (c *Checker) AssessAsset(ctx context.Context, a *asset.Asset, frameworks []gap.Framework) ([]gap.Gap, error) {
	var out []gap.Gap

	for _, fw := range frameworks {
		if fw == gap.FrameworkOrgPolicy {
			for _, g := range c.CheckPolicies(a) {
				out = append(out, g)
			}
			continue
		}

		found, err := c.Assess(ctx, a, fw)
		if err != nil {
			return out, err
		}
		for _, g := range found {
			out = append(out, g)
		}
	}

	return out, nil
}
