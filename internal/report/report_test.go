package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/geo"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
)

func TestSectionNamesAreUnique(t *testing.T) {
	t.Parallel()

	names := Names(All(DefaultOptions()))
	seen := make(map[string]bool)
	for _, name := range names {
		assert.False(t, seen[name], "duplicate section %s", name)
		seen[name] = true
	}
	assert.Len(t, names, 15)
}

func TestSelect(t *testing.T) {
	t.Parallel()

	all := All(DefaultOptions())

	t.Run("empty selects all", func(t *testing.T) {
		t.Parallel()
		got, err := Select(all, nil)
		require.NoError(t, err)
		assert.Len(t, got, len(all))
	})

	t.Run("keeps report order", func(t *testing.T) {
		t.Parallel()
		got, err := Select(all, []string{"location-distance", " Summary "})
		require.NoError(t, err)
		assert.Equal(t, []string{"summary", "location-distance"}, Names(got))
	})

	t.Run("unknown name suggests closest", func(t *testing.T) {
		t.Parallel()
		_, err := Select(all, []string{"lunar-activty"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"lunar-activity"`)
		assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
	})
}

func TestEverySectionIsTotal(t *testing.T) {
	t.Parallel()

	inputs := map[string][]*model.ImageRecord{
		"empty":  nil,
		"sample": sampleImages(),
		"unlocated": {
			img(at(2024, time.May, 1, 3, 0), nil, see(coyote, 1)),
			img(at(2024, time.May, 2, 3, 0), ridge),
		},
	}

	for name, images := range inputs {
		ac := newContext(images)
		for _, section := range All(DefaultOptions()) {
			t.Run(name+"/"+section.Name(), func(t *testing.T) {
				t.Parallel()
				text, err := section.Produce(ac, images)
				require.NoError(t, err)
				assert.NotEmpty(t, text)
				assert.True(t, strings.HasSuffix(text, "\n"))
				assert.NotContains(t, text, "NaN")
			})
		}
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	images := []*model.ImageRecord{
		img(at(2023, time.December, 30, 1, 0), ridge, see(coyote, 1)),
		img(at(2024, time.January, 2, 4, 0), nil, see(deer, 1)),
	}
	text, err := Summary{}.Produce(newContext(images), images)
	require.NoError(t, err)

	assert.Contains(t, text, "  Images             2\n")
	assert.Contains(t, text, "  First image        2023-12-30 01:00\n")
	assert.Contains(t, text, "  Years              2023 to 2024\n")
	assert.Contains(t, text, "WARNING: 1 images have no location")
}

func TestLocationDistanceLastTieWins(t *testing.T) {
	t.Parallel()

	images := []*model.ImageRecord{
		img(at(2024, time.March, 1, 1, 0), ridge, see(coyote, 1)),
		img(at(2024, time.March, 1, 2, 0), wash, see(coyote, 1)),
	}
	text, err := LocationDistance{}.Produce(newContext(images), images)
	require.NoError(t, err)

	d := geo.Between(ridge, wash)
	want := "DISTANCE (km) BETWEEN LOCATIONS\n" +
		fmt.Sprintf("Minimum distance = %7.3f Locations: %28s %28s\n", d, "Wash", "Ridge") +
		fmt.Sprintf("Maximum distance = %7.3f Locations: %28s %28s\n", d, "Wash", "Ridge") +
		fmt.Sprintf("Average distance = %7.3f\n\n", d) +
		"Locations                       " + fmt.Sprintf("%-28s%-28s", "Ridge", "Wash") + "\n" +
		fmt.Sprintf("%-32s%-28f%-28f\n", "Ridge", 0.0, d) +
		fmt.Sprintf("%-32s%-28f%-28f\n", "Wash", d, 0.0) +
		"\n"
	assert.Equal(t, want, text)
}

func TestLocationDistanceSingleLocation(t *testing.T) {
	t.Parallel()

	images := []*model.ImageRecord{img(at(2024, time.March, 1, 1, 0), ridge, see(coyote, 1))}
	text, err := LocationDistance{}.Produce(newContext(images), images)
	require.NoError(t, err)
	assert.NotContains(t, text, "Minimum distance")
}

func TestSpeciesPercentByLocation(t *testing.T) {
	t.Parallel()

	images := []*model.ImageRecord{
		img(at(2024, time.March, 1, 0, 0), ridge, see(coyote, 1)),
		img(at(2024, time.March, 1, 0, 30), ridge, see(coyote, 1)),
		img(at(2024, time.March, 1, 2, 0), ridge, see(coyote, 1)),
		img(at(2024, time.March, 1, 5, 0), ridge, see(deer, 1)),
	}
	text, err := SpeciesPercentByLocation{}.Produce(newContext(images), images)
	require.NoError(t, err)

	want := "FOR EACH LOCATION TOTAL NUMBER AND PERCENT OF EACH SPECIES\n" +
		"  Use independent picture\n" +
		"                          Ridge \n" +
		"Species                   Total Percent\n" +
		"Coyote                        2   66.67                   \n" +
		"Mule Deer                     1   33.33                   \n" +
		"Total pictures                3  100.00                   \n\n"
	assert.Equal(t, want, text)
}

func TestSpeciesByMonthByLocationByYear(t *testing.T) {
	t.Parallel()

	images := []*model.ImageRecord{
		img(at(2024, time.March, 1, 1, 0), ridge, see(coyote, 1)),
		img(at(2024, time.March, 3, 1, 0), ridge, see(coyote, 1)),
	}
	text, err := SpeciesByMonthByLocationByYear{}.Produce(newContext(images), images)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.GreaterOrEqual(t, len(lines), 8)
	assert.Equal(t, "2024", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "Ridge                         Jan    Feb    Mar"))
	assert.Equal(t, "Coyote                          0      0      2      0      0      0      0      0      0      0      0      0      2  ", lines[4])
	assert.Equal(t, "Total pictures                  0      0      2      0      0      0      0      0      0      0      0      0      2  ", lines[5])
	assert.Equal(t, "Total effort                    0      0      3      0      0      0      0      0      0      0      0      0      3  ", lines[6])
	assert.Equal(t, "Total/Total effort           0.00   0.00   0.67   0.00   0.00   0.00   0.00   0.00   0.00   0.00   0.00   0.00   0.67  ", lines[7])
}

func TestSpeciesByMonthByLocationHeadsWithYears(t *testing.T) {
	t.Parallel()

	images := []*model.ImageRecord{
		img(at(2022, time.March, 1, 1, 0), ridge, see(coyote, 1)),
		img(at(2024, time.March, 3, 1, 0), ridge, see(coyote, 1)),
	}
	text, err := SpeciesByMonthByLocation{}.Produce(newContext(images), images)
	require.NoError(t, err)
	assert.Contains(t, text, "  Use independent picture\nYears 2022 to 2024\nRidge")
}

func TestSpeciesOverlap(t *testing.T) {
	t.Parallel()

	images := []*model.ImageRecord{
		img(at(2024, time.March, 1, 1, 0), ridge, see(coyote, 1)),
		img(at(2024, time.March, 1, 2, 0), wash, see(coyote, 1), see(deer, 2)),
	}
	text, err := SpeciesOverlap{}.Produce(newContext(images), images)
	require.NoError(t, err)

	assert.Contains(t, text, "  Number of locations  2\n")
	assert.Contains(t, text, "Species                    recorded Coyote      Mule Deer   \n")
	assert.Contains(t, text, "Coyote                        2     2 ( 100.0)  1 (  50.0) \n")
	assert.Contains(t, text, "Mule Deer                     1     1 ( 100.0)  1 ( 100.0) \n")
}

func hourlyImages(s *model.Species, hour, n int) []*model.ImageRecord {
	images := make([]*model.ImageRecord, 0, n)
	for day := range n {
		images = append(images, img(at(2024, time.June, 1+day, hour, 0), ridge, see(s, 1)))
	}
	return images
}

func TestSpeciesPairMostSimilar(t *testing.T) {
	t.Parallel()

	var images []*model.ImageRecord
	images = append(images, hourlyImages(coyote, 2, 3)...)
	images = append(images, hourlyImages(deer, 2, 3)...)
	images = append(images, hourlyImages(javel, 12, 3)...)

	text, err := SpeciesPairMostSimilar{MinImages: 3}.Produce(newContext(images), images)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 2+1+hoursPerDay+2)
	assert.Equal(t, "  Consider those species with 3 or more pictures", lines[1])
	assert.Equal(t, fmt.Sprintf("Hour            %-28s %-28s", "Mule Deer", "Coyote"), lines[2])
	assert.Equal(t, "02:00-03:00     1.000                        1.000", lines[5])
	assert.Equal(t, "03:00-04:00     0.000                        0.000", lines[6])

	text, err = SpeciesPairMostSimilar{MinImages: 4}.Produce(newContext(images), images)
	require.NoError(t, err)
	assert.NotContains(t, text, "Hour")
}

func TestChiSquarePairedActivity(t *testing.T) {
	t.Parallel()

	var images []*model.ImageRecord
	images = append(images, hourlyImages(coyote, 2, 3)...)
	images = append(images, hourlyImages(deer, 2, 3)...)
	images = append(images, hourlyImages(javel, 12, 2)...)

	text, err := ChiSquarePairedActivity{MinImages: 3, Cutoff: 0.95}.Produce(newContext(images), images)
	require.NoError(t, err)

	assert.Contains(t, text, "  Consider only species with >= 3 pictures\n")
	assert.Contains(t, text, "                            Coyote   Javelina Mule Dee \n")
	assert.Contains(t, text, fmt.Sprintf("%-28s", "Coyote")+"   X     "+"         "+"   X     "+"\n")
	assert.Contains(t, text, fmt.Sprintf("%-28s", "Mule Deer")+"   X     "+"         "+"   X     "+"\n")
	assert.NotContains(t, text, fmt.Sprintf("%-28s", "Javelina"))
}

func TestSpeciesPairActivitySimilarityDiagonalIsZero(t *testing.T) {
	t.Parallel()

	images := sampleImages()
	text, err := SpeciesPairActivitySimilarity{}.Produce(newContext(images), images)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	// header, names, three species rows
	for i, row := range lines[2:5] {
		cells := strings.Fields(row[27:])
		require.Len(t, cells, 3)
		assert.Equal(t, "0.000", cells[i])
	}
}

func TestActivityPatterns(t *testing.T) {
	t.Parallel()

	images := []*model.ImageRecord{
		img(at(2024, time.March, 1, 6, 0), ridge, see(coyote, 1)),
		img(at(2024, time.March, 1, 6, 40), ridge, see(coyote, 1)),
		img(at(2024, time.April, 1, 7, 0), ridge, see(coyote, 1)),
	}
	text, err := ActivityPatterns{}.Produce(newContext(images), images)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	assert.Equal(t, fmt.Sprintf("%-28s (%6d/ %6d)", "Coyote", 2, 3), lines[2])
	assert.Equal(t, strings.TrimSuffix(activityMonthHeader, "\n"), lines[3])

	row6 := lines[5+6]
	assert.True(t, strings.HasPrefix(row6, "06:00-07:00        1      0.500     "))
	total := "Total         "
	for _, n := range []int{2, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0} {
		total += fmt.Sprintf("%6d    100.000", n)
	}
	assert.Equal(t, total, lines[5+hoursPerDay])
}

func TestSeasonalActivity(t *testing.T) {
	t.Parallel()

	images := []*model.ImageRecord{
		img(at(2024, time.March, 30, 1, 0), ridge, see(coyote, 1)),
		img(at(2024, time.April, 2, 1, 0), ridge, see(coyote, 1)),
		img(at(2024, time.July, 10, 1, 0), wash, see(coyote, 1)),
	}
	text, err := SeasonalActivity{}.Produce(newContext(images), images)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	ridgeRow := fmt.Sprintf("%-28s", "Ridge")
	for _, days := range []int{0, 0, 2, 2, 0, 0, 0, 0, 0, 0, 0, 0} {
		ridgeRow += fmt.Sprintf(" %2d    ", days)
	}
	assert.Equal(t, ridgeRow+"4", lines[2])
	assert.Equal(t, "Coyote", lines[4])
	assert.Equal(t, "Camera trap days    "+fmt.Sprintf("%7d               %7d               %7d               %7d               ", 0, 4, 1, 0), lines[6])
	assert.Equal(t, "Number of pictures  "+fmt.Sprintf("%7d               %7d               %7d               %7d               ", 0, 2, 1, 0), lines[7])
	assert.Equal(t, "Pictures/Effort        "+fmt.Sprintf("%5.4f                %5.4f                %5.4f                %5.4f                ", 0.0, 0.5, 1.0, 0.0), lines[8])
	assert.Equal(t, "Visitation proportion  "+fmt.Sprintf("%5.4f                %5.4f                %5.4f                %5.4f                ", 0.0, 1.0/3, 2.0/3, 0.0), lines[9])
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	set := func(keys ...string) map[string]struct{} {
		m := make(map[string]struct{})
		for _, k := range keys {
			m[k] = struct{}{}
		}
		return m
	}

	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{"both empty", set(), set(), 0},
		{"identical", set("a", "b"), set("a", "b"), 1},
		{"disjoint", set("a"), set("b"), 0},
		{"half", set("a", "b"), set("b", "c", "a", "d"), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-12)
		})
	}
}

func TestLocationCompositionSimilarity(t *testing.T) {
	t.Parallel()

	images := []*model.ImageRecord{
		img(at(2024, time.March, 1, 1, 0), ridge, see(coyote, 1), see(deer, 1)),
		img(at(2024, time.March, 1, 2, 0), wash, see(coyote, 1), see(deer, 1)),
		img(at(2024, time.March, 1, 3, 0), canyon, see(javel, 1)),
	}
	text, err := LocationCompositionSimilarity{TopN: 1}.Produce(newContext(images), images)
	require.NoError(t, err)

	similar := fmt.Sprintf("  %-28s %-28s %5.3f %4d %4d %5d\n", "Ridge", "Wash", 1.0, 2, 2, 2)
	different := fmt.Sprintf("  %-28s %-28s %5.3f %4d %4d %5d\n", "Canyon", "Ridge", 0.0, 1, 2, 0)
	assert.Contains(t, text, "  TOP 1 LOCATION PAIRS MOST SIMILAR IN SPECIES COMPOSITION\n")
	assert.Contains(t, text, similar)
	assert.Contains(t, text, different)
	assert.Less(t, strings.Index(text, similar), strings.Index(text, different))
}

func TestLocationFrequencySimilarity(t *testing.T) {
	t.Parallel()

	images := []*model.ImageRecord{
		img(at(2024, time.March, 1, 1, 0), ridge, see(coyote, 1)),
		img(at(2024, time.March, 1, 2, 0), wash, see(coyote, 1)),
		img(at(2024, time.March, 1, 3, 0), canyon, see(deer, 1)),
	}
	text, err := LocationFrequencySimilarity{TopN: 1}.Produce(newContext(images), images)
	require.NoError(t, err)

	assert.Contains(t, text, fmt.Sprintf("  %-28s %-28s %8.3f\n", "Ridge", "Wash", 0.0))
	assert.Contains(t, text, fmt.Sprintf("  %-28s %-28s %8.3f\n", "Canyon", "Ridge", 10*1.4142135623730951))
}

func TestWithinWindow(t *testing.T) {
	t.Parallel()

	events := []time.Time{at(2024, time.January, 10, 0, 0), at(2024, time.February, 10, 0, 0)}
	window := 2 * 24 * time.Hour

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"before first inside", at(2024, time.January, 8, 0, 0), true},
		{"before first outside", at(2024, time.January, 7, 23, 0), false},
		{"between", at(2024, time.January, 25, 0, 0), false},
		{"just before second", at(2024, time.February, 9, 0, 0), true},
		{"after last", at(2024, time.February, 12, 0, 0), true},
		{"no events", at(2024, time.February, 12, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev := events
			if tt.name == "no events" {
				ev = nil
			}
			assert.Equal(t, tt.want, withinWindow(tt.t, ev, window))
		})
	}
}

func TestLunarActivity(t *testing.T) {
	t.Parallel()

	// full moon 2024-01-25 17:54 UTC, new moon 2024-01-11 11:57 UTC
	images := []*model.ImageRecord{
		img(time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC), ridge, see(coyote, 1)),
		img(time.Date(2024, time.January, 11, 12, 0, 0, 0, time.UTC), ridge, see(coyote, 1)),
		img(time.Date(2024, time.January, 25, 18, 0, 0, 0, time.UTC), ridge, see(coyote, 1)),
		img(time.Date(2024, time.January, 27, 18, 0, 0, 0, time.UTC), ridge, see(coyote, 1)),
		img(time.Date(2024, time.February, 5, 12, 0, 0, 0, time.UTC), ridge, see(coyote, 1)),
	}
	text, err := LunarActivity{Window: 5 * 24 * time.Hour}.Produce(newContext(images), images)
	require.NoError(t, err)

	assert.Contains(t, text, "  Independent pictures within 5 days of a full or new moon\n")
	assert.Contains(t, text, "  Full moons 1, new moons 1\n")
	assert.Contains(t, text, fmt.Sprintf("%-28s %9d %10d %11.3f\n", "Coyote", 2, 1, 1.0/3))
}

func TestDielActivity(t *testing.T) {
	t.Parallel()

	images := []*model.ImageRecord{
		img(at(2024, time.March, 10, 2, 0), ridge, see(coyote, 1)),
		img(at(2024, time.March, 10, 12, 0), ridge, see(deer, 1)),
		img(at(2024, time.March, 11, 12, 0), nil, see(deer, 1)),
	}
	text, err := DielActivity{Timezone: mst}.Produce(newContext(images), images)
	require.NoError(t, err)

	assert.Contains(t, text, fmt.Sprintf("%-28s %8d %7.3f %8d %7.3f %8d %7.3f\n", "Coyote", 0, 0.0, 0, 0.0, 1, 1.0))
	assert.Contains(t, text, fmt.Sprintf("%-28s %8d %7.3f %8d %7.3f %8d %7.3f\n", "Mule Deer", 1, 1.0, 0, 0.0, 0, 0.0))
}
