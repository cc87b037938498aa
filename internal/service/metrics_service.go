package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	eventsCreated   prometheus.Counter
	eventsFailed    prometheus.Counter
	syncDuration    *prometheus.HistogramVec
	tokenRefreshes  *prometheus.CounterVec
	notifications   *prometheus.CounterVec
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

	eventsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "calendar_events_created_total",
		Help: "Calendar events created from schedule entries",
	})

	eventsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "calendar_events_failed_total",
		Help: "Schedule entries that could not be written to the calendar",
	})

	syncDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "calendar_sync_duration_seconds",
		Help:    "Wall time of a full calendar sync",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"outcome"})

	tokenRefreshes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oauth_token_refresh_total",
		Help: "Refreshed access tokens detected after calendar calls",
	}, []string{"outcome"})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_dispatched_total",
		Help: "Notification jobs by channel and outcome",
	}, []string{"channel", "outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, eventsCreated, eventsFailed, syncDuration, tokenRefreshes, notifications, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		eventsCreated:   eventsCreated,
		eventsFailed:    eventsFailed,
		syncDuration:    syncDuration,
		tokenRefreshes:  tokenRefreshes,
		notifications:   notifications,
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

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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

// ObserveSync records the per-entry outcome counts and duration of a sync run.
func (m *MetricsService) ObserveSync(created, failed int, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.eventsCreated.Add(float64(created))
	m.eventsFailed.Add(float64(failed))
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.syncDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordTokenRefresh counts refreshed token sets and whether they were persisted.
func (m *MetricsService) RecordTokenRefresh(persisted bool) {
	if m == nil {
		return
	}
	outcome := "persisted"
	if !persisted {
		outcome = "error"
	}
	m.tokenRefreshes.WithLabelValues(outcome).Inc()
}

// RecordNotification counts a finished notification job.
func (m *MetricsService) RecordNotification(channel string, err error) {
	if m == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.notifications.WithLabelValues(channel, outcome).Inc()
}
