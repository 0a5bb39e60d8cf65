package asset

import "time"

// Document is one documentation object keyed by asset and documentation type,
// served by the external documentation collaborator.
type Document struct {
	AssetID     string    `json:"asset_id"`
	DocType     string    `json:"doc_type"`
	Body        string    `json:"body"`
	LastUpdated time.Time `json:"last_updated"`

	// CompletenessScore is an optional precomputed score from the
	// documentation system; nil means not provided.
	CompletenessScore *float64 `json:"completeness_score,omitempty"`
}

// Age returns how long ago the document was last updated.
func (d *Document) Age(now time.Time) time.Duration {
	return now.Sub(d.LastUpdated)
}
