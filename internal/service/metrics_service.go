package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/dlservice-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the portal.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	stagedLookups   *prometheus.CounterVec
	stagingLatency  prometheus.Observer
	payments        *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	stagedLookupCount    uint64
	stagedMissCount      uint64
	paymentCount         uint64
}

// NewMetricsService registers core Prometheus collectors.
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

	stagedLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pending_transaction_lookups_total",
		Help: "Lookups of staged workflow steps by result",
	}, []string{"workflow", "result"})

	stagingLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pending_transaction_latency_seconds",
		Help:    "Latency of pending transaction store operations",
		Buckets: prometheus.DefBuckets,
	})

	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_total",
		Help: "Fulfilled simulated payments by license type",
	}, []string{"license_type"})

	eventsPublished := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "license_events_total",
		Help: "License lifecycle events by type and delivery result",
	}, []string{"type", "result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, stagedLookups, stagingLatency, payments, eventsPublished, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		stagedLookups:   stagedLookups,
		stagingLatency:  stagingLatency,
		payments:        payments,
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

// RecordStagedLookup counts a pending transaction lookup as hit or miss.
func (m *MetricsService) RecordStagedLookup(workflow models.Workflow, hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.stagingLatency.Observe(duration.Seconds())
	result := "hit"
	if !hit {
		result = "miss"
		atomic.AddUint64(&m.stagedMissCount, 1)
	}
	atomic.AddUint64(&m.stagedLookupCount, 1)
	m.stagedLookups.WithLabelValues(string(workflow), result).Inc()
}

// ObserveStagingWrite tracks the duration of pending transaction writes.
func (m *MetricsService) ObserveStagingWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.stagingLatency.Observe(duration.Seconds())
}

// RecordPayment counts a fulfilled payment.
func (m *MetricsService) RecordPayment(workflow models.Workflow) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(string(workflow)).Inc()
	atomic.AddUint64(&m.paymentCount, 1)
}

// RecordEvent counts a license event delivery outcome.
func (m *MetricsService) RecordEvent(eventType, result string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(eventType, result).Inc()
}

// Snapshot returns aggregated counters for the readiness endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		StagedLookups:            atomic.LoadUint64(&m.stagedLookupCount),
		StagedMisses:             atomic.LoadUint64(&m.stagedMissCount),
		PaymentsTotal:            atomic.LoadUint64(&m.paymentCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
