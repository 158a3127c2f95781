// Package telemetry defines the prometheus metrics exported by the recommender.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationsTotal counts queries by the path that produced the result
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recommender",
			Name:      "recommendations_total",
			Help:      "Recommendation queries answered, by match path",
		},
		[]string{"match"},
	)

	// RecommendationDuration observes time spent in the ranking pipeline
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recommender",
			Name:      "recommendation_duration_seconds",
			Help:      "Time spent answering a recommendation query",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	// ReloadsTotal counts snapshot builds by outcome
	ReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recommender",
			Name:      "snapshot_reloads_total",
			Help:      "Catalog snapshot builds, by outcome",
		},
		[]string{"outcome"},
	)

	// ReloadDuration observes how long a full snapshot build takes
	ReloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recommender",
			Name:      "snapshot_build_duration_seconds",
			Help:      "Time spent loading, vectorizing and computing similarity for a catalog",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	// CatalogRecords reports the size of the published snapshot
	CatalogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "recommender",
			Name:      "catalog_records",
			Help:      "Records in the currently published catalog snapshot",
		},
	)
)
