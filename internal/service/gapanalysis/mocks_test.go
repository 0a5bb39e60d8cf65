package gapanalysis

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/gap"
)

// AssetInventory mock for tests
type MockAssetInventory struct {
	mock.Mock
}

func (m *MockAssetInventory) ListAssets(ctx context.Context, filters *asset.Filters) ([]*asset.Asset, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*asset.Asset), args.Error(1)
}

// detectorFunc adapts a bare function to every detector contract, so tests
// can script per-asset behavior inline.
type detectorFunc func(ctx context.Context, a *asset.Asset) ([]gap.Gap, error)

func (f detectorFunc) DetectAsset(ctx context.Context, a *asset.Asset) ([]gap.Gap, error) {
	return f(ctx, a)
}

func (f detectorFunc) AnalyzeAsset(ctx context.Context, a *asset.Asset) ([]gap.Gap, error) {
	return f(ctx, a)
}

func (f detectorFunc) AssessAsset(ctx context.Context, a *asset.Asset, _ []gap.Framework) ([]gap.Gap, error) {
	return f(ctx, a)
}
