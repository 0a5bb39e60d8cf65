package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datagovern/governance-backend/internal/domain/asset"
)

// UsageRepository aggregates per-asset activity events synced from the usage
// monitoring system into PostgreSQL.
type UsageRepository struct {
	pool *pgxpool.Pool
}

func NewUsageRepository(pool *pgxpool.Pool) *UsageRepository {
	return &UsageRepository{pool: pool}
}

// UsageMetrics computes activity statistics. Connection counts and activity
// scores aggregate over the trailing window; the last-activity timestamp is
// taken over the full event history, so an asset dormant longer than the
// window reports its true silence rather than the window length.
func (r *UsageRepository) UsageMetrics(ctx context.Context, assetID uuid.UUID, windowDays int) (*asset.UsageMetrics, error) {
	windowQuery := `
		SELECT
			COALESCE(SUM(connection_count), 0),
			COALESCE(AVG(activity_score), 0),
			BOOL_OR(seasonal)
		FROM asset_usage_events
		WHERE asset_id = $1 AND observed_at >= $2`

	windowStart := time.Now().AddDate(0, 0, -windowDays)

	var (
		connections int
		score       float64
		seasonal    *bool
	)
	err := r.pool.QueryRow(ctx, windowQuery, assetID, windowStart).
		Scan(&connections, &score, &seasonal)
	if err != nil {
		return nil, fmt.Errorf("aggregating usage events: %w", err)
	}

	historyQuery := `
		SELECT a.created_at, MAX(e.observed_at)
		FROM assets a
		LEFT JOIN asset_usage_events e ON e.asset_id = a.id
		WHERE a.id = $1
		GROUP BY a.created_at`

	var (
		createdAt    time.Time
		lastActivity *time.Time
	)
	err = r.pool.QueryRow(ctx, historyQuery, assetID).Scan(&createdAt, &lastActivity)
	if err != nil {
		return nil, fmt.Errorf("resolving last activity: %w", err)
	}

	return &asset.UsageMetrics{
		AssetID:               assetID.String(),
		WindowDays:            windowDays,
		ConnectionCount:       connections,
		LastActivityDate:      lastActivity,
		ActivityScore:         score,
		SeasonalPattern:       seasonal != nil && *seasonal,
		DaysSinceLastActivity: daysSinceActivity(lastActivity, createdAt),
	}, nil
}

// daysSinceActivity measures silence from the most recent event, or from the
// asset's creation when no event was ever recorded.
func daysSinceActivity(lastActivity *time.Time, createdAt time.Time) int {
	since := createdAt
	if lastActivity != nil {
		since = *lastActivity
	}
	return int(time.Since(since).Hours() / 24)
}
