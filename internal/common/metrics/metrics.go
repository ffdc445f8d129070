package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collegefinder_cache_lookups_total",
			Help: "Cache lookups by record variant and result (hit, miss, invalid)",
		},
		[]string{"variant", "result"},
	)

	EnrichmentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collegefinder_enrichment_requests_total",
			Help: "Model enrichment calls by record variant and outcome",
		},
		[]string{"variant", "outcome"},
	)

	EnrichmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collegefinder_enrichment_duration_seconds",
			Help:    "Duration of model enrichment calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 90},
		},
		[]string{"variant"},
	)

	BatchRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collegefinder_batch_rows_total",
			Help: "Batch rows processed by final status",
		},
		[]string{"status"},
	)

	BatchRowsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "collegefinder_batch_rows_active",
			Help: "Rows currently being enriched",
		},
	)
)
