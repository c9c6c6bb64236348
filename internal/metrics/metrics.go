// Package metrics exposes prometheus collectors for sync activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRuns counts completed sync cycles by outcome status.
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "regsync",
		Name:      "sync_runs_total",
		Help:      "Completed sync cycles by status.",
	}, []string{"status"})

	// RowsUpserted counts records written to the registry across all cycles.
	RowsUpserted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "regsync",
		Name:      "rows_upserted_total",
		Help:      "Business records upserted into the registry.",
	})

	// RowsSkipped counts source rows dropped for a missing identifier.
	RowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "regsync",
		Name:      "rows_skipped_total",
		Help:      "Source rows skipped because the identifier was blank.",
	})

	// SyncDuration observes wall-clock duration of sync cycles.
	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "regsync",
		Name:      "sync_duration_seconds",
		Help:      "Wall-clock duration of sync cycles.",
		Buckets:   prometheus.DefBuckets,
	})
)
