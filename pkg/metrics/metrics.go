// Package metrics exposes Prometheus instrumentation for the driver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counters
	CommandCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rosdriver_commands_total",
		Help: "The total number of API commands issued, by device and status",
	}, []string{"device", "status"})

	OperationErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rosdriver_operation_errors_total",
		Help: "The total number of driver operation failures, by device and error kind",
	}, []string{"device", "kind"})

	NormalizationDropCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rosdriver_normalization_dropped_records_total",
		Help: "The total number of device records rejected during normalization",
	}, []string{"device", "schema"})

	// Gauges
	ConnectedSessions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rosdriver_sessions_connected",
		Help: "The number of currently authenticated API sessions, by device",
	}, []string{"device"})
)

// Status constants
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// IncCommand increments the command counter.
func IncCommand(device, status string) {
	CommandCount.WithLabelValues(device, status).Inc()
}

// IncOperationError increments the operation error counter.
func IncOperationError(device, kind string) {
	OperationErrorCount.WithLabelValues(device, kind).Inc()
}

// IncNormalizationDrop increments the rejected record counter.
func IncNormalizationDrop(device, schema string) {
	NormalizationDropCount.WithLabelValues(device, schema).Inc()
}

// SessionOpened records a newly authenticated session.
func SessionOpened(device string) {
	ConnectedSessions.WithLabelValues(device).Inc()
}

// SessionClosed records a torn-down session.
func SessionClosed(device string) {
	ConnectedSessions.WithLabelValues(device).Dec()
}
