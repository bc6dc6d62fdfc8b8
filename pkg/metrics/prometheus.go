// Package metrics provides Prometheus metrics for the LaunchCircle directory service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the directory service.
type Manager struct {
	namespace    string
	subsystem    string
	enabled      bool
	customLabels map[string]string
	registry     prometheus.Registerer

	// Core business metrics
	searchRequests  *prometheus.CounterVec
	searchLatency   *prometheus.HistogramVec
	searchMatches   *prometheus.HistogramVec
	invalidFilters  prometheus.Counter
	profileMerges   prometheus.Counter
	updateConflicts prometheus.Counter
	entitiesCreated *prometheus.CounterVec
	entitiesTotal   *prometheus.GaugeVec
	exportsRendered *prometheus.CounterVec

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Repository metrics
	repositoryLatency *prometheus.HistogramVec

	// Event pipeline metrics
	eventsEmitted      *prometheus.CounterVec
	eventsDuplicate    prometheus.Counter
	eventsPublished    *prometheus.CounterVec
	eventPublishErrors prometheus.Counter

	// Queue metrics
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerMessagesPerSecond prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init rebuilds the global collectors on a fresh registry with opts applied.
// Call it once at startup, before any handler reads GetRegistry.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts[:len(opts):len(opts)], WithPrometheusRegistry(registry))...)
	customRegistry = registry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    "launchcircle",
		subsystem:    "directory",
		enabled:      true,
		customLabels: make(map[string]string),
		registry:     prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	if !m.enabled {
		// Metrics still need valid collectors; keep them off every registry.
		auto = promauto.With(nil)
	}

	// Core business metrics
	m.searchRequests = auto.NewCounterVec(
		m.counterOpts("search_requests_total", "Total number of filter evaluations by collection"),
		[]string{"collection"},
	)
	m.searchLatency = auto.NewHistogramVec(
		m.histogramOpts("search_latency_milliseconds", "Latency of resolving and matching a filter against a collection", prometheus.DefBuckets),
		[]string{"collection"},
	)
	m.searchMatches = auto.NewHistogramVec(
		m.histogramOpts("search_matches", "Number of records matched per search", []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000}),
		[]string{"collection"},
	)
	m.invalidFilters = auto.NewCounter(m.counterOpts("invalid_filters_total", "Filters that could not be decoded and degraded to an empty result"))
	m.profileMerges = auto.NewCounter(m.counterOpts("profile_merges_total", "Total number of sparse profile updates applied"))
	m.updateConflicts = auto.NewCounter(m.counterOpts("update_conflicts_total", "Total number of version conflicts seen while updating profiles"))
	m.entitiesCreated = auto.NewCounterVec(
		m.counterOpts("entities_created_total", "Total number of created entities by kind"),
		[]string{"kind"},
	)
	m.entitiesTotal = auto.NewGaugeVec(
		m.gaugeOpts("entities", "Current number of stored entities by kind"),
		[]string{"kind"},
	)
	m.exportsRendered = auto.NewCounterVec(
		m.counterOpts("exports_total", "Total number of XLSX exports rendered by collection"),
		[]string{"collection"},
	)

	// HTTP performance metrics
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", prometheus.DefBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	// Repository metrics
	m.repositoryLatency = auto.NewHistogramVec(
		m.histogramOpts("repository_latency_milliseconds", "Repository operation latency in milliseconds", prometheus.DefBuckets),
		[]string{"driver", "operation"},
	)

	// Event pipeline metrics
	m.eventsEmitted = auto.NewCounterVec(
		m.counterOpts("events_emitted_total", "Total number of domain events accepted into the queue"),
		[]string{"type"},
	)
	m.eventsDuplicate = auto.NewCounter(m.counterOpts("events_duplicate_total", "Total number of duplicate domain events dropped"))
	m.eventsPublished = auto.NewCounterVec(
		m.counterOpts("events_published_total", "Total number of domain events handed to the publisher"),
		[]string{"type"},
	)
	m.eventPublishErrors = auto.NewCounter(m.counterOpts("event_publish_errors_total", "Total number of failed event publications"))

	// Queue metrics
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the event queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum capacity of the event queue"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (size / capacity)"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of enqueue operations"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of dequeue operations"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Total number of enqueue failures"))
	m.queueProcessingLatency = auto.NewHistogram(m.histogramOpts("queue_processing_latency_milliseconds", "Enqueue latency in milliseconds", prometheus.DefBuckets))

	// Worker metrics
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Number of running publisher workers"))
	m.workerMessagesPerSecond = auto.NewGauge(m.gaugeOpts("worker_messages_per_second", "Average events published per second"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Event publication latency in milliseconds", prometheus.DefBuckets))
	m.workerErrorRate = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of worker errors"))

	// Error metrics
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that ended in an error", prometheus.DefBuckets),
		[]string{"component", "error_type"},
	)

	// System metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Business metrics.

// RecordSearch records one filter evaluation against a collection.
func RecordSearch(collection string, latencyMs float64, matched int) {
	globalManager.searchRequests.WithLabelValues(collection).Inc()
	globalManager.searchLatency.WithLabelValues(collection).Observe(latencyMs)
	globalManager.searchMatches.WithLabelValues(collection).Observe(float64(matched))
}

// RecordInvalidFilter increments the degraded-filter counter.
func RecordInvalidFilter() {
	globalManager.invalidFilters.Inc()
}

// RecordProfileMerge increments the applied-update counter.
func RecordProfileMerge() {
	globalManager.profileMerges.Inc()
}

// RecordUpdateConflict increments the version-conflict counter.
func RecordUpdateConflict() {
	globalManager.updateConflicts.Inc()
}

// RecordEntityCreated increments the created counter for kind.
func RecordEntityCreated(kind string) {
	globalManager.entitiesCreated.WithLabelValues(kind).Inc()
}

// UpdateEntityCount sets the stored entity gauge for kind.
func UpdateEntityCount(kind string, count int) {
	globalManager.entitiesTotal.WithLabelValues(kind).Set(float64(count))
}

// RecordExport increments the export counter for a collection.
func RecordExport(collection string) {
	globalManager.exportsRendered.WithLabelValues(collection).Inc()
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Repository metrics.

// RecordRepositoryLatency records a store operation latency.
func RecordRepositoryLatency(driver, operation string, latencyMs float64) {
	globalManager.repositoryLatency.WithLabelValues(driver, operation).Observe(latencyMs)
}

// Event pipeline metrics.

// RecordEventEmitted increments the emitted counter for an event type.
func RecordEventEmitted(eventType string) {
	globalManager.eventsEmitted.WithLabelValues(eventType).Inc()
}

// RecordEventDuplicate increments the duplicate events counter.
func RecordEventDuplicate() {
	globalManager.eventsDuplicate.Inc()
}

// RecordEventPublished increments the published counter for an event type.
func RecordEventPublished(eventType string) {
	globalManager.eventsPublished.WithLabelValues(eventType).Inc()
}

// RecordEventPublishError increments the publish error counter.
func RecordEventPublishError() {
	globalManager.eventPublishErrors.Inc()
}

// Queue metrics.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records queue processing latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Worker metrics.

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerMessagesPerSecond sets the average messages processed per second.
func UpdateWorkerMessagesPerSecond(rate float64) {
	globalManager.workerMessagesPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System metrics.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
