// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashboard_search",
		Name:      "searches_total",
		Help:      "Total number of searches by source (inline, dataset, cli)",
	}, []string{"source"})
	searchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dashboard_search",
		Name:      "search_duration_seconds",
		Help:      "Histogram of search durations in seconds by source",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms up to ~4s
	}, []string{"source"})
	recordsScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dashboard_search",
		Name:      "records_scanned_total",
		Help:      "Total number of records scored",
	})
	recordsMatched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dashboard_search",
		Name:      "records_matched_total",
		Help:      "Total number of records kept by searches",
	})
	emptySearches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashboard_search",
		Name:      "empty_searches_total",
		Help:      "Total number of non-blank searches that matched nothing",
	}, []string{"source"})

	datasetsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dashboard_search",
		Name:      "datasets_loaded",
		Help:      "Current number of datasets held in memory",
	})
	datasetReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashboard_search",
		Name:      "dataset_reloads_total",
		Help:      "Total number of dataset loads by outcome",
	}, []string{"outcome"})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(searches, searchDuration, recordsScanned, recordsMatched, emptySearches,
			datasetsGauge, datasetReloads)
	})
}

// ObserveSearch records one finished search
func ObserveSearch(source string, scanned, matched int, d time.Duration) {
	searches.WithLabelValues(source).Inc()
	searchDuration.WithLabelValues(source).Observe(d.Seconds())
	recordsScanned.Add(float64(scanned))
	recordsMatched.Add(float64(matched))
	if matched == 0 && scanned > 0 {
		emptySearches.WithLabelValues(source).Inc()
	}
}

// SetDatasets reports how many datasets are in memory
func SetDatasets(n int) { datasetsGauge.Set(float64(n)) }

// IncDatasetReload counts a dataset file load by outcome
func IncDatasetReload(ok bool) {
	if ok {
		datasetReloads.WithLabelValues("success").Inc()
		return
	}
	datasetReloads.WithLabelValues("failure").Inc()
}
