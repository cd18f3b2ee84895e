package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsSnapshot is a small summary served next to the health check.
type MetricsSnapshot struct {
	Students                 int       `json:"students"`
	Lessons                  int       `json:"lessons"`
	CommandsTotal            uint64    `json:"commandsTotal"`
	CommandFailures          uint64    `json:"commandFailures"`
	SaveFailures             uint64    `json:"saveFailures"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	ViewSubscribers          int64     `json:"viewSubscribers"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}

// MetricsService encapsulates Prometheus instrumentation. Every method is
// safe on a nil receiver so metrics can be switched off.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	commandTotal    *prometheus.CounterVec
	persistenceTime *prometheus.HistogramVec
	collectionSize  *prometheus.GaugeVec
	viewSubscribers prometheus.Gauge
	eventsPublished *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	commandCount         uint64
	commandFailureCount  uint64
	saveFailureCount     uint64
	studentCount         int64
	lessonCount          int64
	subscriberCount      int64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	commandDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tutoraid_command_duration_seconds",
		Help:    "Duration of model commands including the save that follows them",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})

	commandTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutoraid_commands_total",
		Help: "Commands executed by outcome code",
	}, []string{"command", "outcome"})

	persistenceTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tutoraid_persistence_duration_seconds",
		Help:    "Duration of loads and saves of the stored data",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	collectionSize := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tutoraid_collection_size",
		Help: "Number of records per collection",
	}, []string{"collection"})

	viewSubscribers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tutoraid_view_subscribers",
		Help: "Live view stream subscribers",
	})

	eventsPublished := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutoraid_view_events_published_total",
		Help: "View change events handed to external publishers",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, commandDuration, commandTotal, persistenceTime,
		collectionSize, viewSubscribers, eventsPublished, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		commandDuration: commandDuration,
		commandTotal:    commandTotal,
		persistenceTime: persistenceTime,
		collectionSize:  collectionSize,
		viewSubscribers: viewSubscribers,
		eventsPublished: eventsPublished,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveCommand records one command. outcome is "ok" or an error code.
func (m *MetricsService) ObserveCommand(command, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.commandDuration.WithLabelValues(command).Observe(duration.Seconds())
	m.commandTotal.WithLabelValues(command, outcome).Inc()
	atomic.AddUint64(&m.commandCount, 1)
	if outcome != "ok" {
		atomic.AddUint64(&m.commandFailureCount, 1)
	}
}

// ObservePersistence records a load or save of the stored data.
func (m *MetricsService) ObservePersistence(operation string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !success {
		outcome = "failed"
		if operation == "save" {
			atomic.AddUint64(&m.saveFailureCount, 1)
		}
	}
	m.persistenceTime.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

// SetCollectionSizes publishes the current store sizes.
func (m *MetricsService) SetCollectionSizes(students, lessons int) {
	if m == nil {
		return
	}
	m.collectionSize.WithLabelValues("students").Set(float64(students))
	m.collectionSize.WithLabelValues("lessons").Set(float64(lessons))
	atomic.StoreInt64(&m.studentCount, int64(students))
	atomic.StoreInt64(&m.lessonCount, int64(lessons))
}

// AddViewSubscribers adjusts the live subscriber gauge by delta.
func (m *MetricsService) AddViewSubscribers(delta int) {
	if m == nil {
		return
	}
	m.viewSubscribers.Add(float64(delta))
	atomic.AddInt64(&m.subscriberCount, int64(delta))
}

// RecordEventPublish counts a hand-off to an external publisher.
func (m *MetricsService) RecordEventPublish(success bool) {
	if m == nil {
		return
	}
	if success {
		m.eventsPublished.WithLabelValues("ok").Inc()
		return
	}
	m.eventsPublished.WithLabelValues("failed").Inc()
}

// Snapshot returns aggregated metrics.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		Students:                 int(atomic.LoadInt64(&m.studentCount)),
		Lessons:                  int(atomic.LoadInt64(&m.lessonCount)),
		CommandsTotal:            atomic.LoadUint64(&m.commandCount),
		CommandFailures:          atomic.LoadUint64(&m.commandFailureCount),
		SaveFailures:             atomic.LoadUint64(&m.saveFailureCount),
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		ViewSubscribers:          atomic.LoadInt64(&m.subscriberCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
