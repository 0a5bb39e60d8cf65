package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric definitions for the governance analysis pipeline

var (
	analysisRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "govern",
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total number of gap analysis runs",
		},
		[]string{"outcome"},
	)

	analysisRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "govern",
			Subsystem: "analysis",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of gap analysis runs",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7m
		},
	)

	gapsFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "govern",
			Subsystem: "analysis",
			Name:      "gaps_found_total",
			Help:      "Total gaps found, by gap kind and severity",
		},
		[]string{"kind", "severity"},
	)

	batchesCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "govern",
			Subsystem: "analysis",
			Name:      "batches_completed_total",
			Help:      "Asset batches fully analyzed",
		},
	)

	collaboratorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "govern",
			Subsystem: "analysis",
			Name:      "collaborator_errors_total",
			Help:      "Errors returned by external collaborators",
		},
		[]string{"collaborator"},
	)

	importedAssets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "govern",
			Subsystem: "ingestion",
			Name:      "imported_assets_total",
			Help:      "Discovered assets processed by the ingestion pipeline",
		},
		[]string{"disposition"},
	)
)

// RecordRun records one completed analysis run.
func RecordRun(duration time.Duration, truncated bool) {
	outcome := "completed"
	if truncated {
		outcome = "truncated"
	}
	analysisRunsTotal.WithLabelValues(outcome).Inc()
	analysisRunDuration.Observe(duration.Seconds())
}

// RecordGap counts one detected gap.
func RecordGap(kind, severity string) {
	gapsFound.WithLabelValues(kind, severity).Inc()
}

// RecordBatch marks a batch checkpoint.
func RecordBatch() {
	batchesCompleted.Inc()
}

// RecordCollaboratorError counts a collaborator failure.
func RecordCollaboratorError(collaborator string) {
	collaboratorErrors.WithLabelValues(collaborator).Inc()
}

// RecordImport counts one ingested asset by disposition
// (created, updated, skipped, manual_review, error).
func RecordImport(disposition string) {
	importedAssets.WithLabelValues(disposition).Inc()
}
