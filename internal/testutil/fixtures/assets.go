package fixtures

import (
	"time"

	"github.com/google/uuid"

	"github.com/datagovern/governance-backend/internal/domain/asset"
)

// AssetBuilder builds test Asset entities
type AssetBuilder struct {
	a asset.Asset
}

// NewAssetBuilder creates a builder with a fully governed production
// database asset as the baseline.
func NewAssetBuilder() *AssetBuilder {
	now := time.Now()
	return &AssetBuilder{a: asset.Asset{
		ID:                       uuid.New(),
		Identifier:               "pg://orders-primary",
		Name:                     "orders-primary",
		StorageKind:              asset.StorageKindDatabase,
		Location:                 "db.internal:5432/orders",
		Classification:           asset.ClassificationInternal,
		Criticality:              asset.CriticalityMedium,
		Environment:              asset.EnvironmentProduction,
		OwnerTeam:                "commerce-platform",
		TechnicalContact:         "dba@example.com",
		EncryptionEnabled:        true,
		AccessControlEnabled:     true,
		BackupEnabled:            true,
		MonitoringEnabled:        true,
		RetentionPolicySet:       true,
		ImpactAssessmentOnFile:   true,
		SubjectRightsImplemented: true,
		IncidentResponsePlan:     true,
		DiscoveryConfidence:      90,
		Active:                   true,
		CreatedAt:                now,
		UpdatedAt:                now,
	}}
}

func (b *AssetBuilder) WithID(id uuid.UUID) *AssetBuilder {
	b.a.ID = id
	return b
}

func (b *AssetBuilder) WithIdentifier(identifier string) *AssetBuilder {
	b.a.Identifier = identifier
	return b
}

func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.a.Name = name
	return b
}

func (b *AssetBuilder) WithStorageKind(kind asset.StorageKind) *AssetBuilder {
	b.a.StorageKind = kind
	return b
}

func (b *AssetBuilder) WithLocation(location string) *AssetBuilder {
	b.a.Location = location
	return b
}

func (b *AssetBuilder) WithClassification(c asset.Classification) *AssetBuilder {
	b.a.Classification = c
	return b
}

func (b *AssetBuilder) WithCriticality(c asset.Criticality) *AssetBuilder {
	b.a.Criticality = c
	return b
}

func (b *AssetBuilder) WithEnvironment(e asset.Environment) *AssetBuilder {
	b.a.Environment = e
	return b
}

func (b *AssetBuilder) WithOwner(team, contact string) *AssetBuilder {
	b.a.OwnerTeam = team
	b.a.TechnicalContact = contact
	return b
}

func (b *AssetBuilder) WithPurpose(purpose string) *AssetBuilder {
	b.a.Purpose = purpose
	return b
}

// WithSecurityPosture sets the flag quartet checked by the compliance
// frameworks and org policies.
func (b *AssetBuilder) WithSecurityPosture(encryption, accessControl, backup, monitoring bool) *AssetBuilder {
	b.a.EncryptionEnabled = encryption
	b.a.AccessControlEnabled = accessControl
	b.a.BackupEnabled = backup
	b.a.MonitoringEnabled = monitoring
	return b
}

// WithRegulatoryPosture sets the GDPR-facing attributes.
func (b *AssetBuilder) WithRegulatoryPosture(retention, impactAssessment, subjectRights, incidentPlan bool) *AssetBuilder {
	b.a.RetentionPolicySet = retention
	b.a.ImpactAssessmentOnFile = impactAssessment
	b.a.SubjectRightsImplemented = subjectRights
	b.a.IncidentResponsePlan = incidentPlan
	return b
}

func (b *AssetBuilder) WithDiscoveryConfidence(confidence int) *AssetBuilder {
	b.a.DiscoveryConfidence = confidence
	return b
}

func (b *AssetBuilder) Build() *asset.Asset {
	copied := b.a
	return &copied
}

// GovernanceScenarioAssets returns the five-asset review scenario:
// an unencrypted ownerless critical production asset, a long-unused dev
// asset, a fully governed staging asset, an asset missing only
// documentation, and a near-duplicate of the first under a different
// identifier.
func GovernanceScenarioAssets() []*asset.Asset {
	first := NewAssetBuilder().
		WithIdentifier("pg://payments-primary").
		WithName("payments-primary").
		WithLocation("db.internal:5432/payments").
		WithClassification(asset.ClassificationRestricted).
		WithCriticality(asset.CriticalityCritical).
		WithEnvironment(asset.EnvironmentProduction).
		WithOwner("", "").
		WithSecurityPosture(false, true, true, true).
		Build()

	unused := NewAssetBuilder().
		WithIdentifier("mysql://legacy-reports").
		WithName("legacy-reports").
		WithLocation("db-legacy.internal:3306/reports").
		WithCriticality(asset.CriticalityLow).
		WithEnvironment(asset.EnvironmentDevelopment).
		Build()

	compliant := NewAssetBuilder().
		WithIdentifier("pg://catalog-staging").
		WithName("catalog-staging").
		WithLocation("db-staging.internal:5432/catalog").
		WithEnvironment(asset.EnvironmentStaging).
		Build()

	undocumented := NewAssetBuilder().
		WithIdentifier("s3://raw-events").
		WithName("raw-events").
		WithStorageKind(asset.StorageKindObjectStore).
		WithLocation("s3://raw-events").
		WithEnvironment(asset.EnvironmentStaging).
		Build()

	duplicate := NewAssetBuilder().
		WithIdentifier("pg://payments-replica-scan").
		WithName("payments-primary").
		WithLocation("db.internal:5432/payments").
		WithClassification(asset.ClassificationRestricted).
		WithCriticality(asset.CriticalityCritical).
		WithEnvironment(asset.EnvironmentProduction).
		Build()

	return []*asset.Asset{first, unused, compliant, undocumented, duplicate}
}
