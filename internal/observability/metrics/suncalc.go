package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SunCalcMetrics contains Prometheus metrics for sun event calculation
type SunCalcMetrics struct {
	registry *prometheus.Registry

	operationsTotal *prometheus.CounterVec
	cacheHitsTotal  prometheus.Counter
	cacheMissTotal  prometheus.Counter
	dielTotal       *prometheus.CounterVec
}

// NewSunCalcMetrics creates and registers new suncalc metrics
func NewSunCalcMetrics(registry *prometheus.Registry) (*SunCalcMetrics, error) {
	m := &SunCalcMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SunCalcMetrics) initMetrics() {
	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparcd_suncalc_operations_total",
			Help: "Total number of sun calculation operations",
		},
		[]string{"operation", "status"}, // operation: sun_events, classify
	)

	m.cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sparcd_suncalc_cache_hits_total",
		Help: "Total number of sun event cache hits",
	})

	m.cacheMissTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sparcd_suncalc_cache_misses_total",
		Help: "Total number of sun event cache misses",
	})

	m.dielTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparcd_suncalc_diel_classifications_total",
			Help: "Images classified by diel period",
		},
		[]string{"period"},
	)
}

// Describe implements the Collector interface
func (m *SunCalcMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.operationsTotal.Describe(ch)
	m.cacheHitsTotal.Describe(ch)
	m.cacheMissTotal.Describe(ch)
	m.dielTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *SunCalcMetrics) Collect(ch chan<- prometheus.Metric) {
	m.operationsTotal.Collect(ch)
	m.cacheHitsTotal.Collect(ch)
	m.cacheMissTotal.Collect(ch)
	m.dielTotal.Collect(ch)
}

// RecordOperation records a sun calculation operation
func (m *SunCalcMetrics) RecordOperation(operation, status string) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordCacheHit records a cache hit
func (m *SunCalcMetrics) RecordCacheHit() {
	m.cacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func (m *SunCalcMetrics) RecordCacheMiss() {
	m.cacheMissTotal.Inc()
}

// RecordDielPeriod records one classified image
func (m *SunCalcMetrics) RecordDielPeriod(period string) {
	m.dielTotal.WithLabelValues(period).Inc()
}
