package asset

import "time"

// UsageMetrics is per-asset activity over a trailing window, served by the
// external usage-monitoring collaborator.
type UsageMetrics struct {
	AssetID               string     `json:"asset_id"`
	WindowDays            int        `json:"window_days"`
	ConnectionCount       int        `json:"connection_count"`
	LastActivityDate      *time.Time `json:"last_activity_date,omitempty"`
	DaysSinceLastActivity int        `json:"days_since_last_activity"`
	ActivityScore         float64    `json:"activity_score"`
	SeasonalPattern       bool       `json:"seasonal_pattern"`
}

// Reference is one hit returned by a code-reference search.
type Reference struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet,omitempty"`
}
