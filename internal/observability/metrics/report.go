package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ReportMetrics contains Prometheus metrics for analysis and report generation
type ReportMetrics struct {
	registry *prometheus.Registry

	sectionsTotal         *prometheus.CounterVec
	sectionDuration       *prometheus.HistogramVec
	sectionBytes          *prometheus.CounterVec
	contextBuildDuration  prometheus.Histogram
	reportsTotal          *prometheus.CounterVec
	imagesAnalyzed        prometheus.Gauge
	lunarEventsEnumerated *prometheus.GaugeVec
}

// NewReportMetrics creates and registers report metrics
func NewReportMetrics(registry *prometheus.Registry) (*ReportMetrics, error) {
	m := &ReportMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ReportMetrics) initMetrics() {
	m.sectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparcd_report_sections_total",
			Help: "Total number of report sections produced",
		},
		[]string{"section", "status"}, // status: success, error, skipped
	)

	m.sectionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sparcd_report_section_duration_seconds",
			Help:    "Time taken to produce one report section",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount12), // 1ms to ~4s
		},
		[]string{"section"},
	)

	m.sectionBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparcd_report_section_bytes_total",
			Help: "Bytes of report text produced per section",
		},
		[]string{"section"},
	)

	m.contextBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sparcd_analysis_context_build_seconds",
		Help:    "Time taken to build an analysis context",
		Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount10),
	})

	m.reportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparcd_reports_total",
			Help: "Total number of full reports generated",
		},
		[]string{"status"},
	)

	m.imagesAnalyzed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sparcd_images_analyzed",
		Help: "Number of images in the most recent analysis context",
	})

	m.lunarEventsEnumerated = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sparcd_lunar_events",
			Help: "Lunar events enumerated for the most recent analysis context",
		},
		[]string{"phase"}, // phase: full, new
	)
}

// Describe implements the Collector interface
func (m *ReportMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.sectionsTotal.Describe(ch)
	m.sectionDuration.Describe(ch)
	m.sectionBytes.Describe(ch)
	m.contextBuildDuration.Describe(ch)
	m.reportsTotal.Describe(ch)
	m.imagesAnalyzed.Describe(ch)
	m.lunarEventsEnumerated.Describe(ch)
}

// Collect implements the Collector interface
func (m *ReportMetrics) Collect(ch chan<- prometheus.Metric) {
	m.sectionsTotal.Collect(ch)
	m.sectionDuration.Collect(ch)
	m.sectionBytes.Collect(ch)
	m.contextBuildDuration.Collect(ch)
	m.reportsTotal.Collect(ch)
	m.imagesAnalyzed.Collect(ch)
	m.lunarEventsEnumerated.Collect(ch)
}

// RecordSection records one produced section with its duration in seconds and output size
func (m *ReportMetrics) RecordSection(section, status string, duration float64, bytes int) {
	m.sectionsTotal.WithLabelValues(section, status).Inc()
	m.sectionDuration.WithLabelValues(section).Observe(duration)
	if bytes > 0 {
		m.sectionBytes.WithLabelValues(section).Add(float64(bytes))
	}
}

// RecordReport records a finished report
func (m *ReportMetrics) RecordReport(status string) {
	m.reportsTotal.WithLabelValues(status).Inc()
}

// RecordContextBuild records analysis context construction
func (m *ReportMetrics) RecordContextBuild(duration float64, images, fullMoons, newMoons int) {
	m.contextBuildDuration.Observe(duration)
	m.imagesAnalyzed.Set(float64(images))
	m.lunarEventsEnumerated.WithLabelValues("full").Set(float64(fullMoons))
	m.lunarEventsEnumerated.WithLabelValues("new").Set(float64(newMoons))
}
