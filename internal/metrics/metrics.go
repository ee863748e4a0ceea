// Package metrics exposes Prometheus collectors for birdseye runs and the
// preview server.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream request outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeHTTPError      = "http_error"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
)

// Site generation statuses.
const (
	GenerationSucceeded = "succeeded"
	GenerationFailed    = "failed"
)

// Enrichment kinds that may miss without failing a run.
const (
	EnrichmentLocation = "location"
	EnrichmentPhoto    = "photo"
)

var (
	upstreamRequestsTotal      *prometheus.CounterVec
	upstreamRequestDuration    *prometheus.HistogramVec
	enrichmentMissesTotal      *prometheus.CounterVec
	siteGenerationsTotal       *prometheus.CounterVec
	speciesRendered            prometheus.Gauge
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		upstreamRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "birdseye_upstream_requests_total",
				Help: "Total number of upstream API requests, labeled by service, operation and outcome.",
			},
			[]string{"service", "op", "outcome"},
		)

		upstreamRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "birdseye_upstream_request_duration_seconds",
				Help:    "Histogram of upstream API latencies, labeled by service and operation.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"service", "op"},
		)

		enrichmentMissesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "birdseye_enrichment_misses_total",
				Help: "Total number of best-effort lookups that produced no value, labeled by kind.",
			},
			[]string{"kind"},
		)

		siteGenerationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "birdseye_site_generations_total",
				Help: "Total number of site generation runs, labeled by status.",
			},
			[]string{"status"},
		)

		speciesRendered = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "birdseye_species_rendered",
				Help: "Number of species cards in the most recently generated page.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveUpstream records one upstream API call.
func ObserveUpstream(service, op, outcome string, duration time.Duration) {
	Init()
	upstreamRequestsTotal.WithLabelValues(service, op, outcome).Inc()
	upstreamRequestDuration.WithLabelValues(service, op).Observe(duration.Seconds())
}

// ObserveEnrichmentMiss counts a best-effort lookup that came back empty.
func ObserveEnrichmentMiss(kind string) {
	Init()
	enrichmentMissesTotal.WithLabelValues(kind).Inc()
}

// ObserveGeneration records the outcome of a pipeline run and the rendered species count.
func ObserveGeneration(status string, species int) {
	Init()
	siteGenerationsTotal.WithLabelValues(status).Inc()
	if species >= 0 {
		speciesRendered.Set(float64(species))
	}
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// WriteTextfile dumps the default registry in the node-exporter textfile format.
func WriteTextfile(path string) error {
	Init()
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
