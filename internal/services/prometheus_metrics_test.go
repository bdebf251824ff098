package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics_SyncRunCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(reg).(*PrometheusMetrics)

	metrics.IncrementCounter("sync_run", map[string]string{"status": "succeeded"})
	metrics.IncrementCounter("sync_run", map[string]string{"status": "failed", "stage": "fetch"})
	metrics.IncrementCounter("sync_run", map[string]string{"status": "failed", "stage": "fetch"})
	metrics.IncrementCounter("sync_run", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.syncRunsTotal.WithLabelValues("succeeded", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.syncRunsTotal.WithLabelValues("failed", "fetch")))
}

func TestPrometheusMetrics_Gauges(t *testing.T) {
	metrics := NewPrometheusMetrics(prometheus.NewRegistry()).(*PrometheusMetrics)

	metrics.RecordGauge("sync_records_processed", 25, nil)
	metrics.RecordGauge("customers_stored", 40, nil)
	metrics.RecordGauge("circuit_breaker_state", float64(StateOpen), map[string]string{"service": "customer_upstream"})

	assert.Equal(t, 25.0, testutil.ToFloat64(metrics.syncRecordsProcessed))
	assert.Equal(t, 40.0, testutil.ToFloat64(metrics.customersStored))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.circuitBreakerState.WithLabelValues("customer_upstream")))
}

func TestPrometheusMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(reg)

	metrics.IncrementCounter("upstream_request", map[string]string{"status": "success"})
	metrics.RecordProcessingTime("upstream_request", 15*time.Millisecond)
	metrics.RecordProcessingTime("sync_run", time.Second)

	count, err := testutil.GatherAndCount(reg, "customer_upstream_requests_total", "customer_sync_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}
