package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Chris-Schnaufer/sparcd-old/internal/analysis"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/query"
)

const (
	activityMonthHeader = "                   All months         Jan              Feb              Mar              Apr              May              Jun              Jul              Aug              Sep              Oct              Nov              Dec\n"
	activityColumnLabel = " Number Frequency"
	blankActivityCell   = "                 "
)

// seasons are Northern Hemisphere meteorological seasons starting with winter.
var seasons = [4][]time.Month{
	{time.December, time.January, time.February},
	{time.March, time.April, time.May},
	{time.June, time.July, time.August},
	{time.September, time.October, time.November},
}

// hourlyActivityFrequency returns each hour's share of the activity of images.
func hourlyActivityFrequency(ac *analysis.Context, images []*model.ImageRecord) [hoursPerDay]float64 {
	var freq [hoursPerDay]float64
	total := float64(ac.Activity(images))
	for h, activity := range ac.HourlyActivity(images) {
		freq[h] = analysis.Ratio(float64(activity), total)
	}
	return freq
}

// hourlyImageFrequency returns each hour's share of the images.
func hourlyImageFrequency(images []*model.ImageRecord) [hoursPerDay]float64 {
	var counts, freq [hoursPerDay]float64
	for _, img := range images {
		counts[img.DateTaken.Hour()]++
	}
	for h := range hoursPerDay {
		freq[h] = analysis.Ratio(counts[h], float64(len(images)))
	}
	return freq
}

func sumSquaredDiff(a, b [hoursPerDay]float64) float64 {
	sum := 0.0
	for h := range hoursPerDay {
		d := a[h] - b[h]
		sum += d * d
	}
	return sum
}

// ActivityPatterns tabulates each species' activity per hour of day, for all months and
// for each month.
type ActivityPatterns struct{}

func (ActivityPatterns) Name() string { return "activity-patterns" }

func (ActivityPatterns) Produce(ac *analysis.Context, _ []*model.ImageRecord) (string, error) {
	var b strings.Builder
	b.WriteString("ACTIVITY PATTERNS\n")
	b.WriteString(" Activity in one-hour segments - Species (Number of pictures in one hour segments/Total number of pics)\n")

	sorted := ac.ImagesByDate()
	for _, species := range ac.Species() {
		withSpecies := query.New().SpeciesOnly(species).Query(sorted)

		// column 0 is all months, 1..12 are January..December
		var columnActivity, totals [analysis.MonthsPerYear + 1]int
		columnActivity[0] = ac.Activity(withSpecies)
		for m := range analysis.MonthsPerYear {
			columnActivity[m+1] = ac.Activity(query.New().MonthOnly(time.Month(m + 1)).Query(withSpecies))
		}

		var body strings.Builder
		body.WriteString(activityMonthHeader)
		body.WriteString("    Hour       ")
		body.WriteString(strings.Repeat(activityColumnLabel, analysis.MonthsPerYear+1))
		body.WriteString("\n")

		for h := range hoursPerDay {
			atHour := query.New().TimeFrame(h, h+1).Query(withSpecies)
			body.WriteString(hourLabel(h) + "   ")
			for col := range columnActivity {
				subset := atHour
				if col > 0 {
					subset = query.New().MonthOnly(time.Month(col)).Query(atHour)
				}
				activity := ac.Activity(subset)
				if activity != 0 {
					fmt.Fprintf(&body, "%6d %10.3f", activity, analysis.Ratio(float64(activity), float64(columnActivity[col])))
				} else {
					body.WriteString(blankActivityCell)
				}
				totals[col] += activity
			}
			body.WriteString("\n")
		}

		body.WriteString("Total         ")
		for _, total := range totals {
			fmt.Fprintf(&body, "%6d    100.000", total)
		}
		body.WriteString("\n")

		fmt.Fprintf(&b, "%-28s (%6d/ %6d)\n", species.Name, totals[0], len(withSpecies))
		b.WriteString(body.String())
		b.WriteString("\n")
	}

	return b.String(), nil
}

// SpeciesPairActivitySimilarity prints, for every ordered species pair, the summed squared
// difference of their hourly activity frequencies.
type SpeciesPairActivitySimilarity struct{}

func (SpeciesPairActivitySimilarity) Name() string { return "species-pair-similarity" }

func (SpeciesPairActivitySimilarity) Produce(ac *analysis.Context, _ []*model.ImageRecord) (string, error) {
	var b strings.Builder
	b.WriteString("SPECIES PAIRS ACTIVITY SIMILARITY (LOWER IS MORE SIMILAR)\n")

	species := ac.Species()
	speciesHeader(&b, species)

	sorted := ac.ImagesByDate()
	freq := make([][hoursPerDay]float64, len(species))
	for i, s := range species {
		freq[i] = hourlyActivityFrequency(ac, query.New().SpeciesOnly(s).Query(sorted))
	}

	for i, s := range species {
		fmt.Fprintf(&b, "%-27s", s.Name)
		for j := range species {
			fmt.Fprintf(&b, "%6.3f   ", sumSquaredDiff(freq[i], freq[j]))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String(), nil
}

// SpeciesPairMostSimilar finds the pair of distinct species, each with at least MinImages
// images, whose hourly image frequencies are closest.
type SpeciesPairMostSimilar struct {
	MinImages int
}

func (SpeciesPairMostSimilar) Name() string { return "species-pair-most-similar" }

func (s SpeciesPairMostSimilar) Produce(ac *analysis.Context, images []*model.ImageRecord) (string, error) {
	var b strings.Builder
	b.WriteString("SPECIES PAIR MOST SIMILAR IN ACTIVITY (FREQUENCY)\n")
	fmt.Fprintf(&b, "  Consider those species with %d or more pictures\n", s.MinImages)

	species := ac.Species()
	counts := make([]int, len(species))
	freq := make([][hoursPerDay]float64, len(species))
	for i, sp := range species {
		withSpecies := query.New().SpeciesOnly(sp).Query(images)
		counts[i] = len(withSpecies)
		freq[i] = hourlyImageFrequency(withSpecies)
	}

	lowest, lowestOther := -1, -1
	lowestDistance := math.MaxFloat64
	for i := range species {
		for j := range species {
			if i == j || counts[i] < s.MinImages || counts[j] < s.MinImages {
				continue
			}
			// ties go to the later pair
			if d := math.Sqrt(sumSquaredDiff(freq[i], freq[j])); lowestDistance >= d {
				lowestDistance = d
				lowest, lowestOther = i, j
			}
		}
	}

	if lowest >= 0 {
		fmt.Fprintf(&b, "Hour            %-28s %-28s\n", species[lowest].Name, species[lowestOther].Name)
		for h := range hoursPerDay {
			fmt.Fprintf(&b, "%s     %5.3f                        %5.3f\n", hourLabel(h), freq[lowest][h], freq[lowestOther][h])
		}
	}
	b.WriteString("\n")

	return b.String(), nil
}

// ChiSquarePairedActivity marks species pairs whose hourly image frequencies agree at the
// Cutoff level. Species with fewer than MinImages images get no row and no marks.
type ChiSquarePairedActivity struct {
	MinImages int
	Cutoff    float64
}

func (ChiSquarePairedActivity) Name() string { return "chi-square" }

func (c ChiSquarePairedActivity) Produce(ac *analysis.Context, images []*model.ImageRecord) (string, error) {
	var b strings.Builder
	b.WriteString("CHI-SQUARE ANALYSIS OF PAIRED ACTIVITY PATTERNS\n")
	fmt.Fprintf(&b, "  H0: Species A and B have similar activity patterns at %.0f%%\n", c.Cutoff*100)
	b.WriteString("  Significant = X, Not significant = Blank\n")
	fmt.Fprintf(&b, "  Consider only species with >= %d pictures\n", c.MinImages)

	species := ac.Species()
	speciesHeader(&b, species)

	counts := make([]int, len(species))
	freq := make([][hoursPerDay]float64, len(species))
	for i, sp := range species {
		withSpecies := query.New().SpeciesOnly(sp).Query(images)
		counts[i] = len(withSpecies)
		freq[i] = hourlyImageFrequency(withSpecies)
	}

	for i, sp := range species {
		if counts[i] < c.MinImages {
			continue
		}
		fmt.Fprintf(&b, "%-28s", sp.Name)
		for j := range species {
			chiSquare := 1 - sumSquaredDiff(freq[i], freq[j])
			if chiSquare >= c.Cutoff && counts[j] >= c.MinImages {
				b.WriteString("   X     ")
			} else {
				b.WriteString("         ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String(), nil
}

// SeasonalActivity prints camera effort per location and month, then each species'
// activity per season normalized by the season's effort.
type SeasonalActivity struct{}

func (SeasonalActivity) Name() string { return "seasonal-activity" }

func (SeasonalActivity) Produce(ac *analysis.Context, images []*model.ImageRecord) (string, error) {
	var b strings.Builder
	b.WriteString("ACTIVITY PATTERNS BY SEASON\n")
	b.WriteString("  Activity in one-hour segments by season\n")

	var monthlyTotals [analysis.MonthsPerYear]int
	for _, loc := range ac.Locations() {
		effort := ac.EffortFor(query.New().LocationOnly(loc).Query(images))
		fmt.Fprintf(&b, "%-28s", loc.Name)
		total := 0
		for m, days := range effort {
			fmt.Fprintf(&b, " %2d    ", days)
			total += days
			monthlyTotals[m] += days
		}
		fmt.Fprintf(&b, "%d\n", total)
	}

	var effortPerSeason [len(seasons)]int
	for i, months := range seasons {
		for _, m := range months {
			effortPerSeason[i] += monthlyTotals[m-1]
		}
	}

	sorted := ac.ImagesByDate()
	for _, species := range ac.Species() {
		withSpecies := query.New().SpeciesOnly(species).Query(sorted)

		var inSeason [len(seasons)][]*model.ImageRecord
		for i, months := range seasons {
			inSeason[i] = query.New().MonthOnly(months...).Query(withSpecies)
		}

		b.WriteString(species.Name + "\n")
		b.WriteString("                     Dec-Jan-Feb           Mar-Apr-May           Jun-Jul-Aug           Sep-Oct-Nov\n")

		b.WriteString("Camera trap days    ")
		for _, days := range effortPerSeason {
			fmt.Fprintf(&b, "%7d               ", days)
		}
		b.WriteString("\n")

		b.WriteString("Number of pictures  ")
		var activity [len(seasons)]int
		for i := range seasons {
			activity[i] = ac.Activity(inSeason[i])
			fmt.Fprintf(&b, "%7d               ", activity[i])
		}
		b.WriteString("\n")

		b.WriteString("Pictures/Effort        ")
		var ratios [len(seasons)]float64
		ratioTotal := 0.0
		for i := range seasons {
			ratios[i] = analysis.Ratio(float64(activity[i]), float64(effortPerSeason[i]))
			ratioTotal += ratios[i]
			fmt.Fprintf(&b, "%5.4f                ", ratios[i])
		}
		b.WriteString("\n")

		b.WriteString("Visitation proportion  ")
		for i := range seasons {
			fmt.Fprintf(&b, "%5.4f                ", analysis.Ratio(ratios[i], ratioTotal))
		}
		b.WriteString("\n")

		b.WriteString("           Hour        Number      Freq      Number      Freq      Number      Freq      Number      Freq\n")
		var hourlyTotals [len(seasons)]int
		var hourly [len(seasons)][hoursPerDay]int
		for i := range seasons {
			hourly[i] = ac.HourlyActivity(inSeason[i])
		}
		for h := range hoursPerDay {
			fmt.Fprintf(&b, "       %s    ", hourLabel(h))
			for i := range seasons {
				pics := hourly[i][h]
				hourlyTotals[i] += pics
				fmt.Fprintf(&b, "%5d        %5.3f    ", pics, analysis.Ratio(float64(pics), float64(activity[i])))
			}
			b.WriteString("\n")
		}

		b.WriteString("       Hourly pics  ")
		for _, total := range hourlyTotals {
			fmt.Fprintf(&b, "%7d               ", total)
		}
		b.WriteString("\n\n")
	}

	return b.String(), nil
}
