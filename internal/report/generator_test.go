package report

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chris-Schnaufer/sparcd-old/internal/analysis"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/observability/metrics"
)

// stubSection returns fixed text after an optional delay.
type stubSection struct {
	name  string
	text  string
	delay time.Duration
	err   error
	calls *atomic.Int32
}

func (s stubSection) Name() string { return s.name }

func (s stubSection) Produce(*analysis.Context, []*model.ImageRecord) (string, error) {
	if s.calls != nil {
		s.calls.Add(1)
	}
	time.Sleep(s.delay)
	return s.text, s.err
}

func TestGenerateKeepsSectionOrder(t *testing.T) {
	t.Parallel()

	sections := []Section{
		stubSection{name: "slow", text: "A\n", delay: 30 * time.Millisecond},
		stubSection{name: "medium", text: "B\n", delay: 10 * time.Millisecond},
		stubSection{name: "fast", text: "C\n"},
	}
	g := NewGenerator(sections, WithParallelism(3), WithLogger(logger.NewNopLogger()))

	rep, err := g.Generate(t.Context(), newContext(nil), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, "A\nB\nC\n", rep.Text())

	got := make([]string, len(rep.Results))
	for i, r := range rep.Results {
		got[i] = r.Name
	}
	if diff := cmp.Diff([]string{"slow", "medium", "fast"}, got); diff != "" {
		t.Errorf("section order mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	n, err := rep.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, "A\nB\nC\n", buf.String())
}

func TestGenerateSectionError(t *testing.T) {
	t.Parallel()

	boom := errors.NewStd("boom")
	sections := []Section{
		stubSection{name: "ok", text: "fine\n"},
		stubSection{name: "broken", err: boom},
	}
	g := NewGenerator(sections, WithParallelism(1), WithLogger(logger.NewNopLogger()))

	rep, err := g.Generate(t.Context(), newContext(nil), nil)
	require.Error(t, err)
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, boom)
	assert.True(t, errors.IsCategory(err, errors.CategoryReport))

	var enhanced *errors.EnhancedError
	require.ErrorAs(t, err, &enhanced)
	assert.Equal(t, "broken", enhanced.GetContext()["section"])
}

func TestGenerateCanceledContextSkipsSections(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	sections := []Section{
		stubSection{name: "a", text: "a", calls: &calls},
		stubSection{name: "b", text: "b", calls: &calls},
	}
	g := NewGenerator(sections, WithLogger(logger.NewNopLogger()))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := g.Generate(ctx, newContext(nil), nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
}

func TestGenerateRecordsMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := metrics.NewReportMetrics(registry)
	require.NoError(t, err)

	images := sampleImages()
	sections, err := Select(All(DefaultOptions()), []string{"summary", "location-distance"})
	require.NoError(t, err)

	g := NewGenerator(sections, WithMetrics(m), WithLogger(logger.NewNopLogger()))
	rep, err := g.Generate(t.Context(), newContext(images), images)
	require.NoError(t, err)
	require.Len(t, rep.Results, 2)

	families, err := registry.Gather()
	require.NoError(t, err)

	found := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				found[f.GetName()] += c.GetValue()
			}
		}
	}
	assert.InDelta(t, 2, found["sparcd_report_sections_total"], 0)
	assert.InDelta(t, 1, found["sparcd_reports_total"], 0)
	assert.Greater(t, found["sparcd_report_section_bytes_total"], 0.0)
}

func TestParallelismFloor(t *testing.T) {
	t.Parallel()

	g := NewGenerator(nil, WithParallelism(0))
	assert.Equal(t, 1, g.parallelism)

	rep, err := g.Generate(t.Context(), newContext(nil), nil)
	require.NoError(t, err)
	assert.Empty(t, rep.Text())
}
