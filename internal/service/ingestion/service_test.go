package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/errors"
	"github.com/datagovern/governance-backend/internal/testutil/fixtures"
)

type MockInventory struct {
	mock.Mock
}

func (m *MockInventory) ListAssets(ctx context.Context, filters *asset.Filters) ([]*asset.Asset, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*asset.Asset), args.Error(1)
}

func (m *MockInventory) FindByIdentifier(ctx context.Context, identifier string) (*asset.Asset, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockInventory) Create(ctx context.Context, draft *asset.Asset) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockInventory) UpdateFromDiscovery(ctx context.Context, existing *asset.Asset, discovered *asset.DiscoveredAsset) error {
	args := m.Called(ctx, existing, discovered)
	return args.Error(0)
}

// discoveredFrom mirrors an existing asset as scanner output.
func discoveredFrom(a *asset.Asset) *asset.DiscoveredAsset {
	return &asset.DiscoveredAsset{
		Identifier:          a.Identifier,
		Name:                a.Name,
		StorageKind:         a.StorageKind,
		Location:            a.Location,
		Classification:      a.Classification,
		Criticality:         a.Criticality,
		Environment:         a.Environment,
		DiscoveryConfidence: a.DiscoveryConfidence,
		DiscoveredAt:        time.Now(),
		Source:              "network-scanner",
	}
}

func newTestService(inventory Inventory) *Service {
	return NewService(zap.NewNop(), inventory, DefaultConfig())
}

func TestService_DetectConflicts(t *testing.T) {
	ctx := context.Background()

	t.Run("exact identifier match ranks first", func(t *testing.T) {
		existing := fixtures.NewAssetBuilder().Build()
		candidate := discoveredFrom(existing)

		inventory := new(MockInventory)
		inventory.On("FindByIdentifier", mock.Anything, existing.Identifier).Return(existing, nil)
		inventory.On("ListAssets", mock.Anything, mock.Anything).Return([]*asset.Asset{existing}, nil)

		conflicts, err := newTestService(inventory).DetectConflicts(ctx, candidate)
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, asset.ConflictExactIdentifier, conflicts[0].Kind)
		assert.Equal(t, 1.0, conflicts[0].Confidence)
	})

	t.Run("similar attributes under a different identifier", func(t *testing.T) {
		existing := fixtures.NewAssetBuilder().Build()
		candidate := discoveredFrom(existing)
		candidate.Identifier = "pg://orders-replica-scan"

		inventory := new(MockInventory)
		inventory.On("FindByIdentifier", mock.Anything, candidate.Identifier).Return(nil, errors.ErrAssetNotFound)
		inventory.On("ListAssets", mock.Anything, mock.Anything).Return([]*asset.Asset{existing}, nil)

		conflicts, err := newTestService(inventory).DetectConflicts(ctx, candidate)
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, asset.ConflictSimilarAttributes, conflicts[0].Kind)
		assert.InDelta(t, 1.0, conflicts[0].Confidence, 1e-9)
	})

	t.Run("both matches sorted by confidence", func(t *testing.T) {
		exact := fixtures.NewAssetBuilder().Build()
		lookalike := fixtures.NewAssetBuilder().
			WithIdentifier("pg://orders-replica").
			Build()
		candidate := discoveredFrom(exact)

		inventory := new(MockInventory)
		inventory.On("FindByIdentifier", mock.Anything, exact.Identifier).Return(exact, nil)
		inventory.On("ListAssets", mock.Anything, mock.Anything).Return([]*asset.Asset{exact, lookalike}, nil)

		conflicts, err := newTestService(inventory).DetectConflicts(ctx, candidate)
		require.NoError(t, err)
		require.Len(t, conflicts, 2)
		assert.Equal(t, asset.ConflictExactIdentifier, conflicts[0].Kind)
		assert.Equal(t, asset.ConflictSimilarAttributes, conflicts[1].Kind)
		assert.GreaterOrEqual(t, conflicts[0].Confidence, conflicts[1].Confidence)
	})

	t.Run("dissimilar assets are not conflicts", func(t *testing.T) {
		existing := fixtures.NewAssetBuilder().Build()
		candidate := &asset.DiscoveredAsset{
			Identifier:   "s3://audit-archive",
			Name:         "audit-archive",
			StorageKind:  asset.StorageKindObjectStore,
			Location:     "s3://audit-archive",
			Environment:  asset.EnvironmentProduction,
			DiscoveredAt: time.Now(),
		}

		inventory := new(MockInventory)
		inventory.On("FindByIdentifier", mock.Anything, candidate.Identifier).Return(nil, errors.ErrAssetNotFound)
		inventory.On("ListAssets", mock.Anything, mock.Anything).Return([]*asset.Asset{existing}, nil)

		conflicts, err := newTestService(inventory).DetectConflicts(ctx, candidate)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})
}

func TestSimilarityScore(t *testing.T) {
	base := fixtures.NewAssetBuilder().Build()

	t.Run("all attributes matching scores one", func(t *testing.T) {
		assert.InDelta(t, 1.0, SimilarityScore(base, discoveredFrom(base)), 1e-9)
	})

	t.Run("additional matches never lower the score", func(t *testing.T) {
		d := &asset.DiscoveredAsset{Identifier: "other"}
		prev := SimilarityScore(base, d)

		d.StorageKind = base.StorageKind
		d.Classification = base.Classification
		d.Criticality = base.Criticality
		d.Environment = base.Environment
		for _, step := range []func(){
			func() { d.Name = base.Name },
			func() { d.Location = base.Location },
		} {
			step()
			next := SimilarityScore(base, d)
			assert.GreaterOrEqual(t, next, prev)
			prev = next
		}
	})

	t.Run("name and location dominate", func(t *testing.T) {
		d := &asset.DiscoveredAsset{
			Identifier: "other",
			Name:       base.Name,
			Location:   base.Location,
			// Different kind, classification, criticality, environment.
			StorageKind:    asset.StorageKindObjectStore,
			Classification: asset.ClassificationRestricted,
			Criticality:    asset.CriticalityCritical,
			Environment:    asset.EnvironmentStaging,
		}
		assert.InDelta(t, 0.55, SimilarityScore(base, d), 1e-9)
	})

	t.Run("empty names never match", func(t *testing.T) {
		anon := fixtures.NewAssetBuilder().WithName("").WithLocation("").Build()
		d := &asset.DiscoveredAsset{
			Identifier:     "other",
			StorageKind:    anon.StorageKind,
			Classification: anon.Classification,
			Criticality:    anon.Criticality,
			Environment:    anon.Environment,
		}
		// Only the enum attributes can contribute.
		assert.InDelta(t, 0.45, SimilarityScore(anon, d), 1e-9)
	})
}

func TestService_Resolve(t *testing.T) {
	svc := newTestService(new(MockInventory))
	existing := fixtures.NewAssetBuilder().Build()

	tests := []struct {
		name              string
		conflict          *asset.ConflictCandidate
		expectedAction    asset.ResolutionAction
		expectedAutomatic bool
	}{
		{
			name: "exact identifier at full confidence merges automatically",
			conflict: &asset.ConflictCandidate{
				Existing:   existing,
				Kind:       asset.ConflictExactIdentifier,
				Confidence: 1.0,
			},
			expectedAction:    asset.ActionMerge,
			expectedAutomatic: true,
		},
		{
			name: "high-confidence similarity goes to manual review",
			conflict: &asset.ConflictCandidate{
				Existing:   existing,
				Kind:       asset.ConflictSimilarAttributes,
				Confidence: 0.95,
			},
			expectedAction:    asset.ActionManualReview,
			expectedAutomatic: false,
		},
		{
			name: "low-confidence similarity creates a separate asset",
			conflict: &asset.ConflictCandidate{
				Existing:   existing,
				Kind:       asset.ConflictSimilarAttributes,
				Confidence: 0.85,
			},
			expectedAction:    asset.ActionCreateSeparate,
			expectedAutomatic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolution := svc.Resolve(tt.conflict, discoveredFrom(existing))
			assert.Equal(t, tt.expectedAction, resolution.Action)
			assert.Equal(t, tt.expectedAutomatic, resolution.Automatic)
			assert.NotEmpty(t, resolution.Justification)
		})
	}
}

func TestService_ShouldOverwrite(t *testing.T) {
	svc := newTestService(new(MockInventory))
	now := time.Now()
	older := now.AddDate(0, 0, -7)

	tests := []struct {
		name             string
		lastDiscoveredAt *time.Time
		existingConf     int
		discoveredAt     time.Time
		discoveredConf   int
		expected         bool
	}{
		{
			name:           "never discovered before",
			existingConf:   90,
			discoveredAt:   now,
			discoveredConf: 50,
			expected:       true,
		},
		{
			name:             "newer discovery wins regardless of confidence",
			lastDiscoveredAt: &older,
			existingConf:     90,
			discoveredAt:     now,
			discoveredConf:   50,
			expected:         true,
		},
		{
			name:             "older discovery with a big confidence improvement wins",
			lastDiscoveredAt: &now,
			existingConf:     60,
			discoveredAt:     older,
			discoveredConf:   75,
			expected:         true,
		},
		{
			name:             "older discovery with a marginal improvement is skipped",
			lastDiscoveredAt: &now,
			existingConf:     60,
			discoveredAt:     older,
			discoveredConf:   65,
			expected:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := fixtures.NewAssetBuilder().
				WithDiscoveryConfidence(tt.existingConf).
				Build()
			existing.LastDiscoveredAt = tt.lastDiscoveredAt

			d := discoveredFrom(existing)
			d.DiscoveredAt = tt.discoveredAt
			d.DiscoveryConfidence = tt.discoveredConf

			assert.Equal(t, tt.expected, svc.shouldOverwrite(existing, d))
		})
	}
}

func TestService_ProcessDiscoveryReport(t *testing.T) {
	ctx := context.Background()

	t.Run("nil report is rejected", func(t *testing.T) {
		result, err := newTestService(new(MockInventory)).ProcessDiscoveryReport(ctx, nil)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	})

	t.Run("mixed report produces per-disposition counts", func(t *testing.T) {
		known := fixtures.NewAssetBuilder().Build()
		lookalike := fixtures.NewAssetBuilder().
			WithIdentifier("pg://payments-primary").
			WithName("payments-primary").
			WithLocation("db.internal:5432/payments").
			Build()

		rediscovered := *discoveredFrom(known)

		similar := *discoveredFrom(lookalike)
		similar.Identifier = "pg://payments-replica-scan"

		fresh := asset.DiscoveredAsset{
			Identifier:   "s3://raw-events",
			Name:         "raw-events",
			StorageKind:  asset.StorageKindObjectStore,
			Location:     "s3://raw-events",
			Environment:  asset.EnvironmentStaging,
			DiscoveredAt: time.Now(),
		}

		inventory := new(MockInventory)
		inventory.On("FindByIdentifier", mock.Anything, rediscovered.Identifier).Return(known, nil)
		inventory.On("FindByIdentifier", mock.Anything, similar.Identifier).Return(nil, errors.ErrAssetNotFound)
		inventory.On("FindByIdentifier", mock.Anything, fresh.Identifier).Return(nil, errors.ErrAssetNotFound)
		inventory.On("ListAssets", mock.Anything, mock.Anything).Return([]*asset.Asset{known, lookalike}, nil)
		inventory.On("UpdateFromDiscovery", mock.Anything, known, &rediscovered).Return(nil)
		inventory.On("Create", mock.Anything, mock.Anything).Return(nil)

		report := &asset.DiscoveryReport{
			ID:        uuid.New(),
			Source:    "network-scanner",
			ScannedAt: time.Now(),
			Assets:    []asset.DiscoveredAsset{rediscovered, similar, fresh},
		}

		result, err := newTestService(inventory).ProcessDiscoveryReport(ctx, report)
		require.NoError(t, err)
		assert.Equal(t, report.ID, result.ReportID)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 1, result.ManualReview)
		assert.Equal(t, 1, result.Created)
		assert.Zero(t, result.Skipped)
		assert.Zero(t, result.ErrorCount)
		assert.False(t, result.CompletedAt.IsZero())

		inventory.AssertCalled(t, "UpdateFromDiscovery", mock.Anything, known, &rediscovered)
		inventory.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("stale rediscovery is skipped", func(t *testing.T) {
		now := time.Now()
		known := fixtures.NewAssetBuilder().WithDiscoveryConfidence(90).Build()
		known.LastDiscoveredAt = &now

		stale := *discoveredFrom(known)
		stale.DiscoveredAt = now.AddDate(0, 0, -3)
		stale.DiscoveryConfidence = 90

		inventory := new(MockInventory)
		inventory.On("FindByIdentifier", mock.Anything, stale.Identifier).Return(known, nil)
		inventory.On("ListAssets", mock.Anything, mock.Anything).Return([]*asset.Asset{known}, nil)

		report := &asset.DiscoveryReport{
			ID:     uuid.New(),
			Source: "network-scanner",
			Assets: []asset.DiscoveredAsset{stale},
		}

		result, err := newTestService(inventory).ProcessDiscoveryReport(ctx, report)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Zero(t, result.Updated)
		inventory.AssertNotCalled(t, "UpdateFromDiscovery")
	})

	t.Run("per-item failures do not abort the import", func(t *testing.T) {
		fresh := asset.DiscoveredAsset{
			Identifier:   "s3://raw-events",
			Name:         "raw-events",
			StorageKind:  asset.StorageKindObjectStore,
			Location:     "s3://raw-events",
			DiscoveredAt: time.Now(),
		}
		broken := asset.DiscoveredAsset{
			Identifier:   "s3://bad-input",
			Name:         "bad-input",
			StorageKind:  asset.StorageKindObjectStore,
			Location:     "s3://bad-input",
			DiscoveredAt: time.Now(),
		}

		inventory := new(MockInventory)
		inventory.On("FindByIdentifier", mock.Anything, mock.Anything).Return(nil, errors.ErrAssetNotFound)
		inventory.On("ListAssets", mock.Anything, mock.Anything).Return([]*asset.Asset{}, nil)
		inventory.On("Create", mock.Anything, mock.MatchedBy(func(a *asset.Asset) bool {
			return a.Identifier == broken.Identifier
		})).Return(assert.AnError)
		inventory.On("Create", mock.Anything, mock.MatchedBy(func(a *asset.Asset) bool {
			return a.Identifier == fresh.Identifier
		})).Return(nil)

		report := &asset.DiscoveryReport{
			ID:     uuid.New(),
			Source: "network-scanner",
			Assets: []asset.DiscoveredAsset{broken, fresh},
		}

		result, err := newTestService(inventory).ProcessDiscoveryReport(ctx, report)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.ErrorCount)
		require.Len(t, result.ErrorMessages, 1)
		assert.Contains(t, result.ErrorMessages[0], broken.Identifier)
	})
}
