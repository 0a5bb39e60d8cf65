package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datagovern/governance-backend/internal/domain/asset"
	"github.com/datagovern/governance-backend/internal/domain/errors"
)

// DocumentRepository serves documentation records synced from the external
// documentation system into PostgreSQL.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// Find returns the document for the asset and documentation type.
func (r *DocumentRepository) Find(ctx context.Context, assetID uuid.UUID, docType string) (*asset.Document, error) {
	query := `
		SELECT asset_id, doc_type, body, last_updated, completeness_score
		FROM asset_documents
		WHERE asset_id = $1 AND doc_type = $2`

	rows, err := r.pool.Query(ctx, query, assetID, docType)
	if err != nil {
		return nil, fmt.Errorf("finding document: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("finding document: %w", err)
		}
		return nil, errors.ErrDocumentNotFound
	}

	var d asset.Document
	if err := rows.Scan(&d.AssetID, &d.DocType, &d.Body, &d.LastUpdated, &d.CompletenessScore); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &d, nil
}
