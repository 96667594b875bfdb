// Package metrics provides Prometheus metrics for the crickdash services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every metric family exported by the dashboard and the reply
// service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Conversation exchanges
	exchangesStarted   prometheus.Counter
	exchangesSucceeded prometheus.Counter
	exchangesFallback  *prometheus.CounterVec
	exchangesDiscarded prometheus.Counter
	exchangesRejected  *prometheus.CounterVec
	replyLatency       prometheus.Histogram
	transcriptTurns    prometheus.Gauge
	sessionResets      prometheus.Counter
	duplicateMessages  prometheus.Counter

	// Comparison and selection
	comparisonComputations *prometheus.CounterVec
	selectionChanges       prometheus.Counter
	comparisonRejections   prometheus.Counter

	// Catalog
	catalogPlayers prometheus.Gauge
	catalogReloads *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueUtilization  prometheus.Gauge
	queueEnqueued     prometheus.Counter
	queueDequeued     prometheus.Counter
	queueEnqueueError prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Upstream language model (reply service)
	upstreamLatency prometheus.Histogram
	upstreamErrors  *prometheus.CounterVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByType      *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record*/Update* helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out of /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its families.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crickdash",
		subsystem:        "dashboard",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every family
	m.exchangesStarted = m.counter("exchanges_started_total", "Reply exchanges dispatched")
	m.exchangesSucceeded = m.counter("exchanges_succeeded_total", "Reply exchanges merged with a service reply")
	m.exchangesFallback = m.counterVec("exchanges_fallback_total", "Reply exchanges resolved with the fallback message", "reason")
	m.exchangesDiscarded = m.counter("exchanges_discarded_total", "Late replies dropped because their session was reset")
	m.exchangesRejected = m.counterVec("exchanges_rejected_total", "Submissions rejected before dispatch", "reason")
	m.replyLatency = m.histogram("reply_latency_milliseconds", "Reply service round trip in milliseconds", m.histogramBuckets)
	m.transcriptTurns = m.gauge("transcript_turns", "Turns in the active conversation transcript")
	m.sessionResets = m.counter("session_resets_total", "Conversation sessions reset by a player switch")
	m.duplicateMessages = m.counter("duplicate_messages_total", "Chat submissions ignored as duplicates")

	m.comparisonComputations = m.counterVec("comparison_computations_total", "Comparison row computations by mode", "mode")
	m.selectionChanges = m.counter("selection_changes_total", "Baseline player selections")
	m.comparisonRejections = m.counter("comparison_rejections_total", "Comparison selections rejected as self-comparisons")

	m.catalogPlayers = m.gauge("catalog_players", "Players in the active catalog snapshot")
	m.catalogReloads = m.counterVec("catalog_reloads_total", "Catalog reload attempts by result", "result")

	m.httpRequests = promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.queueSize = m.gauge("queue_size", "Exchanges waiting in the dispatch queue")
	m.queueCapacity = m.gauge("queue_capacity", "Dispatch queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Dispatch queue utilization (size / capacity)")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Exchanges enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Exchanges dequeued")
	m.queueEnqueueError = m.counter("queue_enqueue_errors_total", "Exchanges refused by the dispatch queue")

	m.workerCount = m.gauge("worker_count", "Dispatch workers running")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Time a worker spends on one exchange", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Exchanges a worker could not resolve")

	m.upstreamLatency = m.histogram("upstream_latency_milliseconds", "Language model round trip in milliseconds", m.histogramBuckets)
	m.upstreamErrors = m.counterVec("upstream_errors_total", "Language model failures by kind", "kind")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")
	m.errorsByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Conversation exchange metrics.

// RecordExchangeStarted counts a dispatched exchange.
func RecordExchangeStarted() { globalManager.exchangesStarted.Inc() }

// RecordExchangeSucceeded counts an exchange merged with a real reply.
func RecordExchangeSucceeded() { globalManager.exchangesSucceeded.Inc() }

// RecordExchangeFallback counts an exchange resolved with the fallback turn.
func RecordExchangeFallback(reason string) {
	globalManager.exchangesFallback.WithLabelValues(reason).Inc()
}

// RecordExchangeDiscarded counts a reply dropped for a stale session epoch.
func RecordExchangeDiscarded() { globalManager.exchangesDiscarded.Inc() }

// RecordExchangeRejected counts a submission refused before dispatch.
func RecordExchangeRejected(reason string) {
	globalManager.exchangesRejected.WithLabelValues(reason).Inc()
}

// RecordReplyLatency records the reply round trip in milliseconds.
func RecordReplyLatency(ms float64) { globalManager.replyLatency.Observe(ms) }

// UpdateTranscriptTurns sets the active transcript length.
func UpdateTranscriptTurns(n int) { globalManager.transcriptTurns.Set(float64(n)) }

// RecordSessionReset counts a session reset.
func RecordSessionReset() { globalManager.sessionResets.Inc() }

// RecordDuplicateMessage counts a chat submission dropped as a duplicate.
func RecordDuplicateMessage() { globalManager.duplicateMessages.Inc() }

// Comparison and selection metrics.

// RecordComparison counts a comparison computation ("head_to_head" or "top_n").
func RecordComparison(mode string) {
	globalManager.comparisonComputations.WithLabelValues(mode).Inc()
}

// RecordSelectionChange counts a baseline selection.
func RecordSelectionChange() { globalManager.selectionChanges.Inc() }

// RecordComparisonRejected counts a rejected self-comparison.
func RecordComparisonRejected() { globalManager.comparisonRejections.Inc() }

// Catalog metrics.

// UpdateCatalogPlayers sets the active catalog size.
func UpdateCatalogPlayers(n int) { globalManager.catalogPlayers.Set(float64(n)) }

// RecordCatalogReload counts a reload attempt ("ok" or "error").
func RecordCatalogReload(result string) {
	globalManager.catalogReloads.WithLabelValues(result).Inc()
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Queue metrics.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(u float64) { globalManager.queueUtilization.Set(u) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() { globalManager.queueEnqueueError.Inc() }

// Worker metrics.

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// RecordWorkerProcessingLatency records the time spent on one exchange.
func RecordWorkerProcessingLatency(ms float64) { globalManager.workerProcessingLatency.Observe(ms) }

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// Upstream metrics.

// RecordUpstreamLatency records a language model round trip in milliseconds.
func RecordUpstreamLatency(ms float64) { globalManager.upstreamLatency.Observe(ms) }

// RecordUpstreamError counts a language model failure.
func RecordUpstreamError(kind string) { globalManager.upstreamErrors.WithLabelValues(kind).Inc() }

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method and type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets heap bytes allocated.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(n int) { globalManager.systemGoroutineCount.Set(float64(n)) }

// RecordSystemGCPauseTime records the average GC pause in milliseconds.
func RecordSystemGCPauseTime(ms float64) { globalManager.systemGCPauseTime.Observe(ms) }

// GetRegistry returns the custom registry served at /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
