package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colormatch_match_requests_total",
			Help: "Total number of color match requests by outcome",
		},
		[]string{"outcome"},
	)

	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "colormatch_match_duration_seconds",
			Help:    "Duration of a color match including the catalog load",
			Buckets: prometheus.DefBuckets,
		},
	)

	CatalogFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colormatch_catalog_fetches_total",
			Help: "Catalog retrievals by source kind and outcome",
		},
		[]string{"source", "outcome"},
	)

	CatalogRowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "colormatch_catalog_rows_skipped_total",
			Help: "Catalog rows rejected during parsing",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "colormatch_sessions_active",
			Help: "Number of in-memory match sessions",
		},
	)
)
