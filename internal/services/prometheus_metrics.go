package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	syncRunsTotal          *prometheus.CounterVec
	syncDuration           prometheus.Histogram
	syncRecordsProcessed   prometheus.Gauge
	customersStored        prometheus.Gauge
	upstreamRequestsTotal  *prometheus.CounterVec
	upstreamRequestLatency prometheus.Histogram
	circuitBreakerState    *prometheus.GaugeVec
}

// NewPrometheusMetrics registers the sync collectors with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		syncRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_sync_runs_total",
				Help: "Total number of customer synchronization runs",
			},
			[]string{"status", "stage"},
		),
		syncDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "customer_sync_duration_seconds",
				Help:    "Customer synchronization run duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
		),
		syncRecordsProcessed: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "customer_sync_last_records_processed",
				Help: "Records processed by the last successful synchronization run",
			},
		),
		customersStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "customer_sync_customers_stored",
				Help: "Customers held in local storage after the last successful synchronization run",
			},
		),
		upstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_upstream_requests_total",
				Help: "Total number of upstream page requests",
			},
			[]string{"status"},
		),
		upstreamRequestLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "customer_upstream_request_duration_milliseconds",
				Help:    "Upstream page request duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	status := tags["status"]

	switch name {
	case "sync_run":
		if status != "" {
			m.syncRunsTotal.WithLabelValues(status, tags["stage"]).Inc()
		}
	case "upstream_request":
		if status != "" {
			m.upstreamRequestsTotal.WithLabelValues(status).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "sync_run":
		m.syncDuration.Observe(duration.Seconds())
	case "upstream_request":
		m.upstreamRequestLatency.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "sync_records_processed":
		m.syncRecordsProcessed.Set(value)
	case "customers_stored":
		m.customersStored.Set(value)
	case "circuit_breaker_state":
		if service := tags["service"]; service != "" {
			m.circuitBreakerState.WithLabelValues(service).Set(value)
		}
	}
}
