package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/errors"
)

// AssetRepository implements the inventory contracts over PostgreSQL.
// Assets are soft-deactivated, never hard-deleted.
type AssetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository creates an inventory repository on the given pool.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

const assetColumns = `
	id, identifier, name, storage_kind, location, classification,
	criticality, environment, owner_team, technical_contact,
	encryption_enabled, access_control_enabled, backup_enabled, monitoring_enabled,
	purpose, retention_policy_set, impact_assessment_on_file,
	subject_rights_implemented, incident_response_plan,
	discovery_confidence, last_discovered_at,
	active, created_at, updated_at, metadata`

// ListAssets returns active assets matching the filters.
func (r *AssetRepository) ListAssets(ctx context.Context, filters *asset.Filters) ([]*asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE active = true`
	args := []interface{}{}

	if filters != nil && len(filters.Environments) > 0 {
		envs := make([]int, len(filters.Environments))
		for i, e := range filters.Environments {
			envs[i] = int(e)
		}
		args = append(args, envs)
		query += fmt.Sprintf(" AND environment = ANY($%d)", len(args))
	}
	if filters != nil && len(filters.Criticalities) > 0 {
		crits := make([]int, len(filters.Criticalities))
		for i, c := range filters.Criticalities {
			crits[i] = int(c)
		}
		args = append(args, crits)
		query += fmt.Sprintf(" AND criticality = ANY($%d)", len(args))
	}
	query += " ORDER BY created_at"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	var out []*asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// FindByIdentifier returns the asset with the given unique identifier.
func (r *AssetRepository) FindByIdentifier(ctx context.Context, identifier string) (*asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE identifier = $1 AND active = true`

	rows, err := r.pool.Query(ctx, query, identifier)
	if err != nil {
		return nil, fmt.Errorf("finding asset by identifier: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("finding asset by identifier: %w", err)
		}
		return nil, errors.ErrAssetNotFound
	}
	return scanAsset(rows)
}

// Create inserts a new asset record.
func (r *AssetRepository) Create(ctx context.Context, draft *asset.Asset) error {
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	now := time.Now()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24, $25)`

	_, err := r.pool.Exec(ctx, query,
		draft.ID, draft.Identifier, draft.Name, int(draft.StorageKind), draft.Location,
		int(draft.Classification), int(draft.Criticality), int(draft.Environment),
		draft.OwnerTeam, draft.TechnicalContact,
		draft.EncryptionEnabled, draft.AccessControlEnabled, draft.BackupEnabled, draft.MonitoringEnabled,
		draft.Purpose, draft.RetentionPolicySet, draft.ImpactAssessmentOnFile,
		draft.SubjectRightsImplemented, draft.IncidentResponsePlan,
		draft.DiscoveryConfidence, draft.LastDiscoveredAt,
		draft.Active, draft.CreatedAt, draft.UpdatedAt, draft.Metadata,
	)
	if err != nil {
		return fmt.Errorf("creating asset: %w", err)
	}
	return nil
}

// UpdateFromDiscovery overwrites the discovery-owned attributes of an
// existing record with the re-discovered values.
func (r *AssetRepository) UpdateFromDiscovery(ctx context.Context, existing *asset.Asset, discovered *asset.DiscoveredAsset) error {
	query := `
		UPDATE assets SET
			name = $2, storage_kind = $3, location = $4, classification = $5,
			criticality = $6, environment = $7,
			discovery_confidence = $8, last_discovered_at = $9, updated_at = $10
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		existing.ID, discovered.Name, int(discovered.StorageKind), discovered.Location,
		int(discovered.Classification), int(discovered.Criticality), int(discovered.Environment),
		discovered.DiscoveryConfidence, discovered.DiscoveredAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("updating asset from discovery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.ErrAssetNotFound
	}
	return nil
}

// Deactivate soft-deletes an asset.
func (r *AssetRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE assets SET active = false, updated_at = $2 WHERE id = $1`,
		id, time.Now())
	if err != nil {
		return fmt.Errorf("deactivating asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.ErrAssetNotFound
	}
	return nil
}

func scanAsset(rows pgx.Rows) (*asset.Asset, error) {
	var (
		a                             asset.Asset
		kind, class, criticality, env int
		lastDiscovered                *time.Time
	)

	err := rows.Scan(
		&a.ID, &a.Identifier, &a.Name, &kind, &a.Location, &class,
		&criticality, &env, &a.OwnerTeam, &a.TechnicalContact,
		&a.EncryptionEnabled, &a.AccessControlEnabled, &a.BackupEnabled, &a.MonitoringEnabled,
		&a.Purpose, &a.RetentionPolicySet, &a.ImpactAssessmentOnFile,
		&a.SubjectRightsImplemented, &a.IncidentResponsePlan,
		&a.DiscoveryConfidence, &lastDiscovered,
		&a.Active, &a.CreatedAt, &a.UpdatedAt, &a.Metadata,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning asset: %w", err)
	}

	a.StorageKind = asset.StorageKind(kind)
	a.Classification = asset.Classification(class)
	a.Criticality = asset.Criticality(criticality)
	a.Environment = asset.Environment(env)
	a.LastDiscoveredAt = lastDiscovered
	return &a, nil
}
