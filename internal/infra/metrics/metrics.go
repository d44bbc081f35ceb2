// Package metrics exposes Prometheus instrumentation for the store and
// the synchronization layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tradelink/internal/store"
)

const prefix = "tradelink"

// Metrics holds every collector, registered on its own registry so tests
// never trip the default-registry duplicate check.
type Metrics struct {
	registry *prometheus.Registry

	actionsTotal      *prometheus.CounterVec
	actionsNotFound   prometheus.Counter
	remoteWritesTotal *prometheus.CounterVec
	syncEventsTotal   *prometheus.CounterVec
	probesTotal       *prometheus.CounterVec
}

// New builds the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		actionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_actions_total",
				Help: "Total number of dispatched actions",
			},
			[]string{"action"},
		),
		actionsNotFound: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_actions_not_found_total",
				Help: "Total number of actions targeting a missing record",
			},
		),
		remoteWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_remote_writes_total",
				Help: "Total number of remote write attempts by outcome",
			},
			[]string{"action", "status"},
		),
		syncEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_sync_events_total",
				Help: "Total number of change events received per table",
			},
			[]string{"table", "action"},
		),
		probesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_gateway_probes_total",
				Help: "Total number of gateway liveness probes by result",
			},
			[]string{"result"},
		),
	}
}

// Registry returns the registry backing the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ActionDispatched implements store.Recorder.
func (m *Metrics) ActionDispatched(action string, notFound bool) {
	m.actionsTotal.WithLabelValues(action).Inc()
	if notFound {
		m.actionsNotFound.Inc()
	}
}

// RemoteWrite implements store.Recorder.
func (m *Metrics) RemoteWrite(action string, status store.WriteStatus) {
	m.remoteWritesTotal.WithLabelValues(action, string(status)).Inc()
}

// SyncEvent implements syncer.Recorder.
func (m *Metrics) SyncEvent(table string, action string) {
	m.syncEventsTotal.WithLabelValues(table, action).Inc()
}

// ProbeResult implements syncer.Recorder.
func (m *Metrics) ProbeResult(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	m.probesTotal.WithLabelValues(result).Inc()
}
