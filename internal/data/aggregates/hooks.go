package aggregates

import (
	"strings"
	"time"
)

// Hooks captures write-path observability events.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

// StoreMetrics is the metrics surface the hooks report to.
type StoreMetrics interface {
	ObserveStoreOperation(op, status string, dur time.Duration)
	IncStoreConflict(op string)
	IncStoreRetry(op string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

type metricsHooks struct {
	metrics StoreMetrics
}

// NewMetricsHooks creates hooks backed by metrics; nil yields no-op hooks.
func NewMetricsHooks(metrics StoreMetrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &metricsHooks{metrics: metrics}
}

func (h *metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveStoreOperation(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h *metricsHooks) IncConflict(name string) {
	h.metrics.IncStoreConflict(strings.TrimSpace(name))
}

func (h *metricsHooks) IncRetry(name string) {
	h.metrics.IncStoreRetry(strings.TrimSpace(name))
}
