// Package metrics provides Prometheus metrics for the scouting operations service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Scheduling
	schedulesGenerated      prometheus.Counter
	matchesScheduled        prometheus.Counter
	subjectiveSubstitutions prometheus.Counter
	subjectiveConflicts     prometheus.Counter
	scheduleLatency         prometheus.Histogram

	// Picklists
	picklistMutations      *prometheus.CounterVec
	picklistMutationErrors *prometheus.CounterVec
	picklistMutationTime   prometheus.Histogram
	duplicateRequests      prometheus.Counter
	groupsLoaded           prometheus.Gauge
	groupsStored           prometheus.Gauge

	// Persistence queue and workers
	persistQueueSize     prometheus.Gauge
	persistQueueCapacity prometheus.Gauge
	persistEnqueued      prometheus.Counter
	persistEnqueueErrors *prometheus.CounterVec
	persistWritten       prometheus.Counter
	persistErrors        prometheus.Counter
	persistLatency       prometheus.Histogram
	persistWorkers       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scoutops",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
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

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.schedulesGenerated = m.counter("schedules_generated_total", "Total number of scouting schedules generated")
	m.matchesScheduled = m.counter("matches_scheduled_total", "Total number of match assignments produced")
	m.subjectiveSubstitutions = m.counter("subjective_substitutions_total", "Subjective picks replaced because the scouter was already tracking a robot")
	m.subjectiveConflicts = m.counter("subjective_conflicts_total", "Matches where every subjective candidate was already tracking a robot")
	m.scheduleLatency = m.histogram("schedule_latency_milliseconds", "Schedule generation latency in milliseconds")

	m.picklistMutations = m.counterVec("picklist_mutations_total", "Applied picklist mutations by operation", "op")
	m.picklistMutationErrors = m.counterVec("picklist_mutation_errors_total", "Rejected picklist mutations by operation and kind", "op", "kind")
	m.picklistMutationTime = m.histogram("picklist_mutation_latency_milliseconds", "Picklist mutation latency in milliseconds, lock wait included")
	m.duplicateRequests = m.counter("duplicate_requests_total", "Mutation requests skipped because their request id was already applied")
	m.groupsLoaded = m.gauge("picklist_groups_loaded", "Picklist groups currently held in memory")
	m.groupsStored = m.gauge("picklist_groups_stored", "Picklist groups held by the store")

	m.persistQueueSize = m.gauge("persist_queue_size", "Persist jobs waiting in the queue")
	m.persistQueueCapacity = m.gauge("persist_queue_capacity", "Maximum persist queue capacity")
	m.persistEnqueued = m.counter("persist_enqueued_total", "Persist jobs accepted by the queue")
	m.persistEnqueueErrors = m.counterVec("persist_enqueue_errors_total", "Persist jobs rejected by the queue", "reason")
	m.persistWritten = m.counter("persist_written_total", "Picklist snapshots written to the store")
	m.persistErrors = m.counter("persist_errors_total", "Picklist snapshots the store failed to write")
	m.persistLatency = m.histogram("persist_latency_milliseconds", "Store write latency in milliseconds")
	m.persistWorkers = m.gauge("persist_workers", "Number of persist workers")

	auto := promauto.With(m.registry)
	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.httpErrors = m.counterVec("http_errors_total", "HTTP error responses by endpoint and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds")
}

// RecordSchedule records one generated schedule.
func RecordSchedule(matches, substitutions, conflicts int, latencyMs float64) {
	globalManager.schedulesGenerated.Inc()
	globalManager.matchesScheduled.Add(float64(matches))
	globalManager.subjectiveSubstitutions.Add(float64(substitutions))
	globalManager.subjectiveConflicts.Add(float64(conflicts))
	globalManager.scheduleLatency.Observe(latencyMs)
}

// RecordPicklistMutation records an applied mutation.
func RecordPicklistMutation(op string, latencyMs float64) {
	globalManager.picklistMutations.WithLabelValues(op).Inc()
	globalManager.picklistMutationTime.Observe(latencyMs)
}

// RecordPicklistMutationError records a rejected mutation.
func RecordPicklistMutationError(op, kind string) {
	globalManager.picklistMutationErrors.WithLabelValues(op, kind).Inc()
}

// RecordDuplicateRequest increments the duplicate request counter.
func RecordDuplicateRequest() {
	globalManager.duplicateRequests.Inc()
}

// UpdateGroupsLoaded sets the number of groups in memory.
func UpdateGroupsLoaded(count int) {
	globalManager.groupsLoaded.Set(float64(count))
}

// UpdateGroupsStored sets the number of groups in the store.
func UpdateGroupsStored(count int) {
	globalManager.groupsStored.Set(float64(count))
}

// UpdatePersistQueueSize sets the persist queue depth.
func UpdatePersistQueueSize(size int) {
	globalManager.persistQueueSize.Set(float64(size))
}

// UpdatePersistQueueCapacity sets the persist queue capacity.
func UpdatePersistQueueCapacity(capacity int) {
	globalManager.persistQueueCapacity.Set(float64(capacity))
}

// RecordPersistEnqueue increments the accepted job counter.
func RecordPersistEnqueue() {
	globalManager.persistEnqueued.Inc()
}

// RecordPersistEnqueueError records a rejected job.
func RecordPersistEnqueueError(reason string) {
	globalManager.persistEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordPersistWrite records a store write and its latency.
func RecordPersistWrite(latencyMs float64, err error) {
	globalManager.persistLatency.Observe(latencyMs)
	if err != nil {
		globalManager.persistErrors.Inc()
		return
	}
	globalManager.persistWritten.Inc()
}

// UpdatePersistWorkers sets the persist worker count.
func UpdatePersistWorkers(count int) {
	globalManager.persistWorkers.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
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

// GetRegistry returns the registry backing the package-level recorders.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
