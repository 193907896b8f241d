package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	loginsTotal     *prometheus.CounterVec
	artifactsTotal  *prometheus.CounterVec
	recordCount     *prometheus.GaugeVec
}

// NewMetricsService registers the collectors.
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

	loginsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eduerp_logins_total",
		Help: "Total demo logins by role",
	}, []string{"role"})

	artifactsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eduerp_artifacts_total",
		Help: "Backup and report jobs by kind and outcome",
	}, []string{"kind", "status"})

	recordCount := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "eduerp_records",
		Help: "Current record count per collection",
	}, []string{"collection"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, loginsTotal, artifactsTotal, recordCount, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		loginsTotal:     loginsTotal,
		artifactsTotal:  artifactsTotal,
		recordCount:     recordCount,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordLogin counts a demo login.
func (m *MetricsService) RecordLogin(role string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(role).Inc()
}

// RecordArtifact counts a finished backup or report job.
func (m *MetricsService) RecordArtifact(kind, status string) {
	if m == nil {
		return
	}
	m.artifactsTotal.WithLabelValues(kind, status).Inc()
}

// SetRecordCount publishes a collection's current size.
func (m *MetricsService) SetRecordCount(collection string, n int) {
	if m == nil {
		return
	}
	m.recordCount.WithLabelValues(collection).Set(float64(n))
}
