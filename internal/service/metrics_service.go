package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// scheduling pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	batchAccepted   prometheus.Counter
	batchRejected   *prometheus.CounterVec
	importRows      prometheus.Counter
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

	batchAccepted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_batches_accepted_total",
		Help: "Schedule batches committed successfully",
	})

	batchRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_batches_rejected_total",
		Help: "Schedule batches rejected, labelled by reason",
	}, []string{"reason"})

	importRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "curriculum_import_rows_total",
		Help: "Curriculum plan rows ingested",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, batchAccepted, batchRejected, importRows, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		batchAccepted:   batchAccepted,
		batchRejected:   batchRejected,
		importRows:      importRows,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ScheduleAccepted counts a committed batch.
func (m *MetricsService) ScheduleAccepted() {
	if m == nil {
		return
	}
	m.batchAccepted.Inc()
}

// ScheduleRejected counts a rejected batch by reason.
func (m *MetricsService) ScheduleRejected(reason string) {
	if m == nil {
		return
	}
	m.batchRejected.WithLabelValues(reason).Inc()
}

// ObserveImportRows counts ingested curriculum rows.
func (m *MetricsService) ObserveImportRows(rows int) {
	if m == nil || rows <= 0 {
		return
	}
	m.importRows.Add(float64(rows))
}
