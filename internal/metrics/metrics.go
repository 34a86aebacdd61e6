// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog loading
	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_load_duration_seconds",
			Help:    "Duration of dataset fetch, parse and index build",
			Buckets: prometheus.DefBuckets,
		},
	)

	CatalogLoadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_load_failures_total",
			Help: "Total number of dataset loads that failed",
		},
	)

	CatalogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_records",
			Help: "Number of product records in the loaded catalog",
		},
	)

	CatalogSkippedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_skipped_rows_total",
			Help: "Total number of malformed CSV rows skipped during loads",
		},
	)

	// Search
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_search_duration_seconds",
			Help:    "Duration of fuzzy catalog searches",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_search_requests_total",
			Help: "Total number of searches by outcome",
		},
		[]string{"outcome"}, // "match", "empty"
	)

	// Cache
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of search cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of search cache misses",
		},
	)

	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordSearch records the duration and outcome of one search
func RecordSearch(duration time.Duration, results int) {
	SearchDuration.Observe(duration.Seconds())
	outcome := "match"
	if results == 0 {
		outcome = "empty"
	}
	SearchRequests.WithLabelValues(outcome).Inc()
}

// RecordLoad records a finished catalog load
func RecordLoad(duration time.Duration, records, skipped int, err error) {
	CatalogLoadDuration.Observe(duration.Seconds())
	if err != nil {
		CatalogLoadFailures.Inc()
		return
	}
	CatalogRecords.Set(float64(records))
	CatalogSkippedRows.Add(float64(skipped))
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
