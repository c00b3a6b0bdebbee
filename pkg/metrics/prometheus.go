// Package metrics provides Prometheus metrics for the leaderboard
// write-behind engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric the service exposes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// View cache
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	coalescedWaits  prometheus.Counter
	upstreamFetches prometheus.Counter

	// Write path
	scoreUpdates      prometheus.Counter
	scoreUpdateErrors prometheus.Counter

	// Change-log consumer
	streamBatches         prometheus.Counter
	streamEntries         prometheus.Counter
	streamEntriesMalformed prometheus.Counter
	streamEntriesAcked    prometheus.Counter
	streamPendingRecovered prometheus.Counter
	workerErrors          prometheus.Counter
	persistLatency        prometheus.Histogram

	// Rehydration
	rehydratedPlayers prometheus.Gauge
	rankingSize       prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry so /metrics carries only this service's series.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "leaderboard",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Top-K view cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Top-K view cache misses",
	})

	m.coalescedWaits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_coalesced_waits_total",
		Help:      "Cache misses that waited on another caller's fetch instead of querying upstream",
	})

	m.upstreamFetches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_upstream_fetches_total",
		Help:      "Range queries issued to the ranking store on cache misses",
	})

	m.scoreUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_updates_total",
		Help:      "Accepted score updates (ranking store and change log committed together)",
	})

	m.scoreUpdateErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_update_errors_total",
		Help:      "Score updates rejected because the live tier failed",
	})

	m.streamBatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_batches_total",
		Help:      "Change-log batches processed by the consumer worker",
	})

	m.streamEntries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_entries_total",
		Help:      "Change-log entries delivered to the consumer worker",
	})

	m.streamEntriesMalformed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_entries_malformed_total",
		Help:      "Change-log entries that failed to decode and were left unacknowledged",
	})

	m.streamEntriesAcked = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_entries_acked_total",
		Help:      "Change-log entries acknowledged after successful persistence",
	})

	m.streamPendingRecovered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_pending_recovered_total",
		Help:      "Previously delivered entries replayed during crash recovery",
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Consumer worker loop errors that triggered a backoff",
	})

	m.persistLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_latency_milliseconds",
		Help:      "Latency of bulk writes to the system-of-record",
		Buckets:   m.histogramBuckets,
	})

	m.rehydratedPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rehydrated_players",
		Help:      "Players loaded into the ranking store by the last rehydration run",
	})

	m.rankingSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_size",
		Help:      "Cardinality of the ranking store sorted set",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers delegating to the global manager.

func RecordCacheHit()         { globalManager.cacheHits.Inc() }
func RecordCacheMiss()        { globalManager.cacheMisses.Inc() }
func RecordCoalescedWait()    { globalManager.coalescedWaits.Inc() }
func RecordUpstreamFetch()    { globalManager.upstreamFetches.Inc() }
func RecordScoreUpdate()      { globalManager.scoreUpdates.Inc() }
func RecordScoreUpdateError() { globalManager.scoreUpdateErrors.Inc() }

func RecordStreamBatch(entries int) {
	globalManager.streamBatches.Inc()
	globalManager.streamEntries.Add(float64(entries))
}

func RecordStreamEntryMalformed() { globalManager.streamEntriesMalformed.Inc() }

func RecordStreamEntriesAcked(n int) {
	globalManager.streamEntriesAcked.Add(float64(n))
}

func RecordPendingRecovered(n int) {
	globalManager.streamPendingRecovered.Add(float64(n))
}

func RecordWorkerError() { globalManager.workerErrors.Inc() }

func RecordPersistLatency(latencyMs float64) {
	globalManager.persistLatency.Observe(latencyMs)
}

func UpdateRehydratedPlayers(n int) {
	globalManager.rehydratedPlayers.Set(float64(n))
}

func UpdateRankingSize(n int64) {
	globalManager.rankingSize.Set(float64(n))
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the registry backing the /metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
