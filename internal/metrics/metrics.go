// Package metrics exposes Prometheus instrumentation for the resolution
// pipeline. Init must be called once at startup; the Record helpers are
// no-ops before that, so library code can call them unconditionally.
package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"menupix/internal/store"
)

var cachedImagesDesc = prometheus.NewDesc(
	"menupix_cached_images",
	"Number of image URLs currently held by the cache store",
	nil,
	nil,
)

var (
	initOnce sync.Once

	resolutions *prometheus.CounterVec
	searchCalls *prometheus.CounterVec
	writeErrors prometheus.Counter
)

// CacheSizeCollector reads the cache entry count from the store on each
// scrape. Only registered for backends that can count their entries.
type CacheSizeCollector struct {
	counter store.Counter
}

// Describe sends the metric descriptor to the channel.
func (c *CacheSizeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cachedImagesDesc
}

// Collect queries the store for its entry count and emits it as a gauge.
func (c *CacheSizeCollector) Collect(ch chan<- prometheus.Metric) {
	n, err := c.counter.Count(context.Background())
	if err != nil {
		slog.Error("failed to collect cache size metric", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(cachedImagesDesc, prometheus.GaugeValue, float64(n))
}

// Init registers all collectors. Must be called once at startup.
func Init(st store.Store) {
	initOnce.Do(func() {
		resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menupix_resolutions_total",
			Help: "Total keyword resolutions by outcome",
		}, []string{"outcome"})
		searchCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menupix_search_requests_total",
			Help: "Total external image search calls by outcome",
		}, []string{"outcome"})
		writeErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "menupix_cache_write_errors_total",
			Help: "Total failed cache writes after a successful search",
		})

		prometheus.MustRegister(resolutions, searchCalls, writeErrors)

		if counter, ok := st.(store.Counter); ok {
			prometheus.MustRegister(&CacheSizeCollector{counter: counter})
		}
	})
}

// RecordResolution counts one resolution attempt by outcome.
func RecordResolution(outcome string) {
	if resolutions != nil {
		resolutions.WithLabelValues(outcome).Inc()
	}
}

// RecordSearch counts one external search call by outcome.
func RecordSearch(outcome string) {
	if searchCalls != nil {
		searchCalls.WithLabelValues(outcome).Inc()
	}
}

// RecordCacheWriteError counts one swallowed cache-write failure.
func RecordCacheWriteError() {
	if writeErrors != nil {
		writeErrors.Inc()
	}
}
