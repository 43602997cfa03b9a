package observability

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chris-Schnaufer/sparcd-old/internal/observability/metrics"
)

func findFamily(t *testing.T, families []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

// TestNewMetricsConcurrency verifies that each call gets its own registry
func TestNewMetricsConcurrency(t *testing.T) {
	t.Parallel()

	const numGoroutines = 20

	var wg sync.WaitGroup
	for range numGoroutines {
		wg.Go(func() {
			m, err := NewMetrics()
			if !assert.NoError(t, err) {
				return
			}
			assert.NotNil(t, m.Report)
			assert.NotNil(t, m.SunCalc)
			assert.NotNil(t, m.Datastore)
			m.Report.RecordReport(metrics.StatusSuccess)
		})
	}
	wg.Wait()
}

func TestReportMetricsRecorded(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)

	m.Report.RecordSection("distance", metrics.StatusSuccess, 0.002, 512)
	m.Report.RecordSection("distance", metrics.StatusSuccess, 0.003, 256)
	m.Report.RecordSection("lunar", metrics.StatusError, 0.001, 0)
	m.Report.RecordContextBuild(0.01, 1200, 12, 13)

	families, err := m.Gather()
	require.NoError(t, err)

	sections := findFamily(t, families, "sparcd_report_sections_total")
	counts := map[string]float64{}
	for _, metric := range sections.GetMetric() {
		key := labelValue(metric, "section") + "/" + labelValue(metric, "status")
		counts[key] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"distance/success": 2, "lunar/error": 1}, counts)

	bytes := findFamily(t, families, "sparcd_report_section_bytes_total")
	require.Len(t, bytes.GetMetric(), 1)
	assert.InDelta(t, 768, bytes.GetMetric()[0].GetCounter().GetValue(), 0)

	images := findFamily(t, families, "sparcd_images_analyzed")
	assert.InDelta(t, 1200, images.GetMetric()[0].GetGauge().GetValue(), 0)

	hist := findFamily(t, families, "sparcd_report_section_duration_seconds")
	var samples uint64
	for _, metric := range hist.GetMetric() {
		samples += metric.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), samples)
}

func TestDatastoreErrorClassification(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)

	m.Datastore.RecordOperationError(metrics.OpSaveCatalog, assert.AnError)
	m.Datastore.RecordOperationError(metrics.OpSaveCatalog, context.DeadlineExceeded)

	families, err := m.Gather()
	require.NoError(t, err)

	errs := findFamily(t, families, "sparcd_datastore_operation_errors_total")
	types := map[string]bool{}
	for _, metric := range errs.GetMetric() {
		types[labelValue(metric, "error_type")] = true
	}
	assert.True(t, types["other"])
	assert.True(t, types["canceled"])
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)
	m.SunCalc.RecordCacheHit()

	require.NoError(t, m.WriteTextfile(""))

	path := filepath.Join(t.TempDir(), "sparcd.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sparcd_suncalc_cache_hits_total 1")
}
