package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

const namespace = "roomfinder"

// Metrics holds every collector the service exports. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	events         *prometheus.CounterVec
	eventLatency   *prometheus.HistogramVec
	guardFailures  *prometheus.CounterVec
	bookings       prometheus.Counter
	messengerCalls *prometheus.CounterVec
	messengerLat   *prometheus.HistogramVec

	storeOps       *prometheus.CounterVec
	storeLatency   *prometheus.HistogramVec
	storeConflicts *prometheus.CounterVec
	storeRetries   *prometheus.CounterVec

	dbStats *prometheus.GaugeVec
}

// NewMetrics registers all collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	latency := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}
	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help: "HTTP request latency by method, route and status.", Buckets: latency,
		}, []string{"method", "route", "status"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "inflight_requests",
			Help: "HTTP requests being served.",
		}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bot", Name: "events_total",
			Help: "Webhook events by event kind, action and result.",
		}, []string{"event_kind", "action", "result"}),
		eventLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "bot", Name: "event_duration_seconds",
			Help: "Time to handle one webhook event, by action.", Buckets: latency,
		}, []string{"action"}),
		guardFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bot", Name: "booking_guard_failures_total",
			Help: "Confirmations rejected as stale or without a pending offer.",
		}, []string{"code"}),
		bookings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bot", Name: "bookings_created_total",
			Help: "Room bookings recorded.",
		}),
		messengerCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "messenger", Name: "calls_total",
			Help: "Graph API calls by endpoint and result.",
		}, []string{"endpoint", "result"}),
		messengerLat: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "messenger", Name: "call_duration_seconds",
			Help: "Graph API call latency by endpoint.", Buckets: latency,
		}, []string{"endpoint"}),
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "store", Name: "operations_total",
			Help: "Aggregate writes by operation and status.",
		}, []string{"op", "status"}),
		storeLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "store", Name: "operation_duration_seconds",
			Help: "Aggregate write latency by operation.", Buckets: latency,
		}, []string{"op"}),
		storeConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "store", Name: "conflicts_total",
			Help: "Aggregate writes that lost a conflict.",
		}, []string{"op"}),
		storeRetries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "store", Name: "retries_total",
			Help: "Aggregate writes that failed with a retryable error.",
		}, []string{"op"}),
		dbStats: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "db", Name: "pool",
			Help: "database/sql pool statistics.",
		}, []string{"stat"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry to tests and sidecar exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveEvent(eventKind, action, result string, took time.Duration) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(orUnknown(eventKind), orUnknown(action), orUnknown(result)).Inc()
	m.eventLatency.WithLabelValues(orUnknown(action)).Observe(took.Seconds())
}

func (m *Metrics) IncGuardFailure(code string) {
	if m == nil {
		return
	}
	m.guardFailures.WithLabelValues(orUnknown(code)).Inc()
}

func (m *Metrics) IncBookingCreated() {
	if m == nil {
		return
	}
	m.bookings.Inc()
}

func (m *Metrics) ObserveMessengerCall(endpoint string, ok bool, took time.Duration) {
	if m == nil {
		return
	}
	endpoint = orUnknown(endpoint)
	m.messengerCalls.WithLabelValues(endpoint, resultLabel(ok)).Inc()
	m.messengerLat.WithLabelValues(endpoint).Observe(took.Seconds())
}

func (m *Metrics) ObserveStoreOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	op = orUnknown(op)
	m.storeOps.WithLabelValues(op, orUnknown(status)).Inc()
	m.storeLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func (m *Metrics) IncStoreConflict(op string) {
	if m == nil {
		return
	}
	m.storeConflicts.WithLabelValues(orUnknown(op)).Inc()
}

func (m *Metrics) IncStoreRetry(op string) {
	if m == nil {
		return
	}
	m.storeRetries.WithLabelValues(orUnknown(op)).Inc()
}

// StartDBCollector samples the connection pool until ctx ends.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.dbStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.dbStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.dbStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.dbStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
			}
		}
	}()
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func orUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}

// StatusLabel renders an HTTP status for the route metrics.
func StatusLabel(code int) string {
	if code <= 0 {
		return "0"
	}
	return strconv.Itoa(code)
}
