package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// DatastoreMetrics contains Prometheus metrics for catalog persistence
type DatastoreMetrics struct {
	registry *prometheus.Registry

	dbOperationsTotal      *prometheus.CounterVec
	dbOperationDuration    *prometheus.HistogramVec
	dbOperationErrorsTotal *prometheus.CounterVec
	dbRowsTotal            *prometheus.CounterVec

	collectors []prometheus.Collector
}

// NewDatastoreMetrics creates and registers new datastore metrics
func NewDatastoreMetrics(registry *prometheus.Registry) (*DatastoreMetrics, error) {
	m := &DatastoreMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *DatastoreMetrics) initMetrics() {
	m.dbOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparcd_datastore_operations_total",
			Help: "Total number of datastore operations",
		},
		[]string{"operation", "status"}, // operation: save_catalog, load_catalog, migrate
	)

	m.dbOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sparcd_datastore_operation_duration_seconds",
			Help:    "Time taken for datastore operations",
			Buckets: prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount12), // 10ms to ~40s
		},
		[]string{"operation"},
	)

	m.dbOperationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparcd_datastore_operation_errors_total",
			Help: "Total number of datastore operation errors",
		},
		[]string{"operation", "error_type"},
	)

	m.dbRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparcd_datastore_rows_total",
			Help: "Rows written or read per table",
		},
		[]string{"operation", "table"},
	)

	m.collectors = []prometheus.Collector{
		m.dbOperationsTotal,
		m.dbOperationDuration,
		m.dbOperationErrorsTotal,
		m.dbRowsTotal,
	}
}

// Describe implements the Collector interface
func (m *DatastoreMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors {
		c.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *DatastoreMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors {
		c.Collect(ch)
	}
}

// RecordOperation records a datastore operation with its duration in seconds
func (m *DatastoreMetrics) RecordOperation(operation, status string, duration float64) {
	m.dbOperationsTotal.WithLabelValues(operation, status).Inc()
	m.dbOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordOperationError records a failed datastore operation
func (m *DatastoreMetrics) RecordOperationError(operation string, err error) {
	m.dbOperationErrorsTotal.WithLabelValues(operation, classifyDBError(err)).Inc()
}

// RecordRows records rows moved for a table
func (m *DatastoreMetrics) RecordRows(operation, table string, rows int) {
	m.dbRowsTotal.WithLabelValues(operation, table).Add(float64(rows))
}

// classifyDBError maps a driver error to a small label set
func classifyDBError(err error) string {
	if err == nil {
		return "none"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "locked") || strings.Contains(msg, "busy"):
		return "locked"
	case strings.Contains(msg, "constraint") || strings.Contains(msg, "duplicate"):
		return "constraint"
	case strings.Contains(msg, "connection") || strings.Contains(msg, "dial"):
		return "connection"
	case strings.Contains(msg, "context canceled") || strings.Contains(msg, "deadline"):
		return "canceled"
	default:
		return "other"
	}
}
