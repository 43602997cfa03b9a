package suncalc

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chris-Schnaufer/sparcd-old/internal/observability/metrics"
)

const (
	tucsonLat = 32.2217
	tucsonLng = -110.9265
)

// Tucson does not observe daylight saving time.
var tucson = time.FixedZone("MST", -7*3600)

func TestSunEventOrder(t *testing.T) {
	t.Parallel()

	sc := NewSunCalcIn(tucsonLat, tucsonLng, tucson)
	for _, date := range []time.Time{
		time.Date(2024, time.March, 20, 0, 0, 0, 0, tucson),
		time.Date(2024, time.June, 21, 0, 0, 0, 0, tucson),
		time.Date(2024, time.December, 21, 0, 0, 0, 0, tucson),
	} {
		times, err := sc.GetSunEventTimes(date)
		require.NoError(t, err)
		assert.True(t, times.CivilDawn.Before(times.Sunrise), "dawn before sunrise on %s", date)
		assert.True(t, times.Sunrise.Before(times.Sunset), "sunrise before sunset on %s", date)
		assert.True(t, times.Sunset.Before(times.CivilDusk), "sunset before dusk on %s", date)
		assert.Equal(t, tucson, times.Sunrise.Location())
	}
}

func TestSunriseNearKnownTime(t *testing.T) {
	t.Parallel()

	sc := NewSunCalcIn(tucsonLat, tucsonLng, tucson)

	// June solstice: sunrise about 05:19, sunset about 19:33 local
	sunrise, err := sc.GetSunriseTime(time.Date(2024, time.June, 21, 12, 0, 0, 0, tucson))
	require.NoError(t, err)
	want := time.Date(2024, time.June, 21, 5, 19, 0, 0, tucson)
	assert.InDelta(t, 0, sunrise.Sub(want).Minutes(), 10)

	sunset, err := sc.GetSunsetTime(time.Date(2024, time.June, 21, 12, 0, 0, 0, tucson))
	require.NoError(t, err)
	want = time.Date(2024, time.June, 21, 19, 33, 0, 0, tucson)
	assert.InDelta(t, 0, sunset.Sub(want).Minutes(), 10)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	sc := NewSunCalcIn(tucsonLat, tucsonLng, tucson)
	at := func(h, m int) time.Time { return time.Date(2024, time.June, 21, h, m, 0, 0, tucson) }

	tests := []struct {
		name string
		at   time.Time
		want DielPeriod
	}{
		{"midnight", at(0, 30), Night},
		{"before dawn", at(3, 0), Night},
		{"morning twilight", at(5, 5), Twilight},
		{"noon", at(12, 0), Day},
		{"evening twilight", at(19, 45), Twilight},
		{"late evening", at(22, 0), Night},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := sc.Classify(tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "%s classified as %s", tt.at, got)
		})
	}
}

func TestCacheReusesDays(t *testing.T) {
	t.Parallel()

	sc := NewSunCalcIn(tucsonLat, tucsonLng, tucson)
	day := time.Date(2024, time.May, 1, 0, 0, 0, 0, tucson)

	first, err := sc.GetSunEventTimes(day)
	require.NoError(t, err)
	again, err := sc.GetSunEventTimes(day.Add(6 * time.Hour))
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Equal(t, 1, sc.CachedDays())
}

func TestDielPeriodString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "day", Day.String())
	assert.Equal(t, "twilight", Twilight.String())
	assert.Equal(t, "night", Night.String())
}

func TestMetricsRecorded(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := metrics.NewSunCalcMetrics(registry)
	require.NoError(t, err)

	sc := NewSunCalcIn(tucsonLat, tucsonLng, tucson)
	sc.SetMetrics(m)

	noon := time.Date(2024, time.March, 10, 12, 0, 0, 0, tucson)
	period, err := sc.Classify(noon)
	require.NoError(t, err)
	assert.Equal(t, Day, period)

	_, err = sc.GetSunEventTimes(noon)
	require.NoError(t, err)

	families, err := registry.Gather()
	require.NoError(t, err)

	totals := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			totals[f.GetName()] += metric.GetCounter().GetValue()
		}
	}
	// Classify solves the day before and stops at the day itself
	assert.InDelta(t, 2, totals["sparcd_suncalc_cache_misses_total"], 0)
	assert.InDelta(t, 1, totals["sparcd_suncalc_cache_hits_total"], 0)
	assert.InDelta(t, 1, totals["sparcd_suncalc_diel_classifications_total"], 0)
}
