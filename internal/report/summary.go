package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Chris-Schnaufer/sparcd-old/internal/analysis"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/observability/metrics"
	"github.com/Chris-Schnaufer/sparcd-old/internal/query"
	"github.com/Chris-Schnaufer/sparcd-old/internal/suncalc"
)

const summaryTimeLayout = "2006-01-02 15:04"

// Summary prints the size and span of the data set.
type Summary struct{}

func (Summary) Name() string { return "summary" }

func (Summary) Produce(ac *analysis.Context, images []*model.ImageRecord) (string, error) {
	var b strings.Builder
	b.WriteString("SUMMARY\n")
	fmt.Fprintf(&b, "  Images             %s\n", humanize.Comma(int64(ac.ImageCount())))

	if first, last, ok := ac.DateRange(); ok {
		fmt.Fprintf(&b, "  First image        %s\n", first.Format(summaryTimeLayout))
		fmt.Fprintf(&b, "  Last image         %s\n", last.Format(summaryTimeLayout))
	}
	fmt.Fprintf(&b, "  Species            %d\n", len(ac.Species()))
	fmt.Fprintf(&b, "  Locations          %d\n", len(ac.Locations()))
	if years := ac.Years(); len(years) > 0 {
		fmt.Fprintf(&b, "  Years              %d to %d\n", years[0], years[len(years)-1])
	}
	fmt.Fprintf(&b, "  Event interval     %d minutes\n", int(ac.EventInterval()/time.Minute))
	if len(images) != ac.ImageCount() {
		fmt.Fprintf(&b, "  Images selected    %s\n", humanize.Comma(int64(len(images))))
	}

	if ac.HasUnlocatedImages() {
		unlocated := len(query.New().LocationOnly(nil).Query(ac.ImagesByDate()))
		fmt.Fprintf(&b, "WARNING: %s images have no location and are left out of location statistics\n",
			humanize.Comma(int64(unlocated)))
	}
	b.WriteString("\n")

	return b.String(), nil
}

// withinWindow reports whether t lies within window of any of the sorted events.
func withinWindow(t time.Time, events []time.Time, window time.Duration) bool {
	i, _ := slices.BinarySearchFunc(events, t, func(e, target time.Time) int {
		return e.Compare(target)
	})
	for _, k := range []int{i - 1, i} {
		if k < 0 || k >= len(events) {
			continue
		}
		if d := t.Sub(events[k]).Abs(); d <= window {
			return true
		}
	}
	return false
}

// LunarActivity counts each species' independent pictures near full moons against those
// near new moons.
type LunarActivity struct {
	Window time.Duration
}

func (LunarActivity) Name() string { return "lunar-activity" }

func (l LunarActivity) Produce(ac *analysis.Context, _ []*model.ImageRecord) (string, error) {
	fullMoons, newMoons := ac.FullMoons(), ac.NewMoons()

	var b strings.Builder
	b.WriteString("LUNAR ACTIVITY\n")
	fmt.Fprintf(&b, "  Independent pictures within %g days of a full or new moon\n", l.Window.Hours()/24)
	fmt.Fprintf(&b, "  Full moons %d, new moons %d\n", len(fullMoons), len(newMoons))
	b.WriteString("Species                      Full moon   New moon  Difference\n")

	sorted := ac.ImagesByDate()
	for _, species := range ac.Species() {
		full, dark := 0, 0
		for _, event := range ac.EventStarts(query.New().SpeciesOnly(species).Query(sorted)) {
			if withinWindow(event.DateTaken, fullMoons, l.Window) {
				full++
			}
			if withinWindow(event.DateTaken, newMoons, l.Window) {
				dark++
			}
		}
		fmt.Fprintf(&b, "%-28s %9d %10d %11.3f\n", species.Name, full, dark,
			analysis.Ratio(float64(full-dark), float64(full+dark)))
	}
	b.WriteString("\n")

	return b.String(), nil
}

// DielActivity splits each species' activity into day, twilight and night using the sun
// position at the camera. Images without a location are skipped.
type DielActivity struct {
	Timezone *time.Location
	Metrics  *metrics.SunCalcMetrics
}

func (DielActivity) Name() string { return "diel-activity" }

func (d DielActivity) Produce(ac *analysis.Context, _ []*model.ImageRecord) (string, error) {
	calcs := make(map[*model.Location]*suncalc.SunCalc)
	calcFor := func(loc *model.Location) *suncalc.SunCalc {
		sc, ok := calcs[loc]
		if !ok {
			sc = suncalc.NewSunCalcIn(loc.Latitude, loc.Longitude, d.Timezone)
			if d.Metrics != nil {
				sc.SetMetrics(d.Metrics)
			}
			calcs[loc] = sc
		}
		return sc
	}

	var b strings.Builder
	b.WriteString("DIEL ACTIVITY\n")
	b.WriteString("  Activity in one-hour segments by sun position at the camera location\n")
	fmt.Fprintf(&b, "%-28s %8s %7s %8s %7s %8s %7s\n", "Species", "Day", "Freq", "Twilight", "Freq", "Night", "Freq")

	sorted := query.New().Where(func(img *model.ImageRecord) bool {
		return img.LocationTaken != nil
	}).Query(ac.ImagesByDate())

	unsolved := 0
	for _, species := range ac.Species() {
		var counts [3]int
		total := 0
		for _, img := range ac.ActivityStarts(query.New().SpeciesOnly(species).Query(sorted)) {
			period, err := calcFor(img.LocationTaken).Classify(img.DateTaken)
			if err != nil {
				unsolved++
				continue
			}
			counts[period]++
			total++
		}

		fmt.Fprintf(&b, "%-28s", species.Name)
		for _, p := range []suncalc.DielPeriod{suncalc.Day, suncalc.Twilight, suncalc.Night} {
			fmt.Fprintf(&b, " %8d %7.3f", counts[p], analysis.Ratio(float64(counts[p]), float64(total)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if unsolved > 0 {
		GetLogger().Warn("sun events unavailable for some activity buckets",
			logger.Int("buckets", unsolved))
	}

	return b.String(), nil
}
