package report

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Chris-Schnaufer/sparcd-old/internal/analysis"
	"github.com/Chris-Schnaufer/sparcd-old/internal/geo"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/query"
)

// SpeciesPercentByLocation prints, per location, each species' independent pictures and
// their share of the location's independent pictures of any species.
type SpeciesPercentByLocation struct{}

func (SpeciesPercentByLocation) Name() string { return "species-percent-by-location" }

func (SpeciesPercentByLocation) Produce(ac *analysis.Context, _ []*model.ImageRecord) (string, error) {
	var b strings.Builder
	b.WriteString("FOR EACH LOCATION TOTAL NUMBER AND PERCENT OF EACH SPECIES\n")
	b.WriteString("  Use independent picture\n")

	locations := ac.Locations()
	sorted := ac.ImagesByDate()

	for _, loc := range locations {
		fmt.Fprintf(&b, "%31s ", loc.Name)
	}
	b.WriteString("\n")
	b.WriteString("Species")
	b.WriteString(strings.Repeat("                   Total Percent", len(locations)))
	b.WriteString("\n")

	locationTotals := make([]int, len(locations))
	for i, loc := range locations {
		locationTotals[i] = ac.Period(query.New().LocationOnly(loc).AnyValidSpecies().Query(sorted))
	}

	for _, species := range ac.Species() {
		fmt.Fprintf(&b, "%-26s", species.Name)
		for i, loc := range locations {
			period := ac.Period(query.New().LocationOnly(loc).SpeciesOnly(species).Query(sorted))
			fmt.Fprintf(&b, "%5d %7.2f                   ", period, analysis.Ratio(float64(period), float64(locationTotals[i]))*100)
		}
		b.WriteString("\n")
	}

	b.WriteString("Total pictures            ")
	for _, loc := range locations {
		fmt.Fprintf(&b, "%5d  100.00                   ", ac.Period(query.New().LocationOnly(loc).Query(sorted)))
	}
	b.WriteString("\n\n")

	return b.String(), nil
}

// writeMonthlyTable prints the month by species table of independent pictures for the
// images of one location, with the effort and pictures-per-effort rows.
func writeMonthlyTable(b *strings.Builder, ac *analysis.Context, loc *model.Location, atLocation []*model.ImageRecord) {
	fmt.Fprintf(b, "%-28s  Jan    Feb    Mar    Apr    May    Jun    Jul    Aug    Sep    Oct    Nov    Dec   Total\n", loc.Name)

	for _, species := range ac.Species() {
		withSpecies := query.New().SpeciesOnly(species).Query(atLocation)
		if len(withSpecies) == 0 {
			continue
		}
		fmt.Fprintf(b, "%-28s", species.Name)
		total := 0
		for m := range analysis.MonthsPerYear {
			period := ac.Period(query.New().MonthOnly(time.Month(m + 1)).Query(withSpecies))
			fmt.Fprintf(b, "%5d  ", period)
			total += period
		}
		fmt.Fprintf(b, "%5d  \n", total)
	}

	var periods [analysis.MonthsPerYear]int
	b.WriteString("Total pictures              ")
	totalPics := 0
	for m := range analysis.MonthsPerYear {
		periods[m] = ac.Period(query.New().MonthOnly(time.Month(m + 1)).Query(atLocation))
		fmt.Fprintf(b, "%5d  ", periods[m])
		totalPics += periods[m]
	}
	fmt.Fprintf(b, "%5d  \n", totalPics)

	effort := ac.EffortFor(atLocation)
	b.WriteString("Total effort                ")
	totalEffort := 0
	for _, days := range effort {
		fmt.Fprintf(b, "%5d  ", days)
		totalEffort += days
	}
	fmt.Fprintf(b, "%5d  \n", totalEffort)

	b.WriteString("Total/Total effort          ")
	for m := range analysis.MonthsPerYear {
		fmt.Fprintf(b, "%5.2f  ", analysis.Ratio(float64(periods[m]), float64(effort[m])))
	}
	fmt.Fprintf(b, "%5.2f  ", analysis.Ratio(float64(totalPics), float64(totalEffort)))
	b.WriteString("\n\n")
}

// SpeciesByMonthByLocationByYear prints one monthly table per year and location.
type SpeciesByMonthByLocationByYear struct{}

func (SpeciesByMonthByLocationByYear) Name() string { return "species-by-month-by-location-by-year" }

func (SpeciesByMonthByLocationByYear) Produce(ac *analysis.Context, _ []*model.ImageRecord) (string, error) {
	var b strings.Builder
	b.WriteString("FOR EACH LOCATION AND MONTH TOTAL NUMBER EACH SPECIES\n")
	b.WriteString("  Use independent picture\n")

	sorted := ac.ImagesByDate()
	for _, year := range ac.Years() {
		fmt.Fprintf(&b, "%d\n", year)
		for _, loc := range ac.Locations() {
			atLocation := query.New().YearOnly(year).LocationOnly(loc).Query(sorted)
			if len(atLocation) == 0 {
				continue
			}
			writeMonthlyTable(&b, ac, loc, atLocation)
		}
	}

	return b.String(), nil
}

// SpeciesByMonthByLocation prints one monthly table per location pooled over all years.
type SpeciesByMonthByLocation struct{}

func (SpeciesByMonthByLocation) Name() string { return "species-by-month-by-location" }

func (SpeciesByMonthByLocation) Produce(ac *analysis.Context, _ []*model.ImageRecord) (string, error) {
	var b strings.Builder
	b.WriteString("ALL LOCATIONS ALL SPECIES FOR EACH MONTH FOR ALL YEARS\n")
	b.WriteString("  Use independent picture\n")

	if years := ac.Years(); len(years) > 0 {
		fmt.Fprintf(&b, "Years %d to %d\n", years[0], years[len(years)-1])
	}

	sorted := ac.ImagesByDate()
	for _, loc := range ac.Locations() {
		atLocation := query.New().LocationOnly(loc).Query(sorted)
		if len(atLocation) == 0 {
			continue
		}
		writeMonthlyTable(&b, ac, loc, atLocation)
	}

	return b.String(), nil
}

// LocationDistance prints the closest and farthest location pairs, the mean pair distance
// and the full distance matrix.
type LocationDistance struct{}

func (LocationDistance) Name() string { return "location-distance" }

func (LocationDistance) Produce(ac *analysis.Context, _ []*model.ImageRecord) (string, error) {
	var b strings.Builder
	b.WriteString("DISTANCE (km) BETWEEN LOCATIONS\n")

	locations := ac.Locations()

	var minA, minB, maxA, maxB *model.Location
	minDistance, maxDistance := 0.0, 0.0
	for _, loc := range locations {
		for _, other := range locations {
			if loc == other {
				continue
			}
			d := geo.Between(loc, other)
			// ties go to the later pair, in both directions
			if d >= maxDistance {
				maxDistance, maxA, maxB = d, loc, other
			}
			if minA == nil || d <= minDistance {
				minDistance, minA, minB = d, loc, other
			}
		}
	}

	if minA != nil {
		pairs := geo.Pairs(locations)
		distances := make([]float64, len(pairs))
		for i, p := range pairs {
			distances[i] = p.Km
		}
		fmt.Fprintf(&b, "Minimum distance = %7.3f Locations: %28s %28s\n", minDistance, minA.Name, minB.Name)
		fmt.Fprintf(&b, "Maximum distance = %7.3f Locations: %28s %28s\n", maxDistance, maxA.Name, maxB.Name)
		fmt.Fprintf(&b, "Average distance = %7.3f\n\n", stat.Mean(distances, nil))
	}

	b.WriteString("Locations                       ")
	for _, loc := range locations {
		fmt.Fprintf(&b, "%-28s", loc.Name)
	}
	b.WriteString("\n")
	for _, loc := range locations {
		fmt.Fprintf(&b, "%-32s", loc.Name)
		for _, other := range locations {
			fmt.Fprintf(&b, "%-28f", geo.Between(loc, other))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String(), nil
}

// SpeciesOverlap prints, for each species pair, how many of the first species' locations
// also recorded the second and what percentage that is.
type SpeciesOverlap struct{}

func (SpeciesOverlap) Name() string { return "species-overlap" }

func (SpeciesOverlap) Produce(ac *analysis.Context, images []*model.ImageRecord) (string, error) {
	var b strings.Builder
	species := ac.Species()

	b.WriteString("SPECIES OVERLAP AT LOCATIONS\n")
	fmt.Fprintf(&b, "  Number of locations  %d\n", len(ac.Locations()))
	b.WriteString("                          Locations  Locations and percent of locations where both species were recorded\n")
	b.WriteString("Species                    recorded ")
	for _, s := range species {
		fmt.Fprintf(&b, "%-12s", s.Name)
	}
	b.WriteString("\n")

	locationSets := make([]map[*model.Location]struct{}, len(species))
	for i, s := range species {
		locationSets[i] = make(map[*model.Location]struct{})
		for _, loc := range ac.LocationsFor(query.New().SpeciesOnly(s).Query(images)) {
			locationSets[i][loc] = struct{}{}
		}
	}

	for i, s := range species {
		fmt.Fprintf(&b, "%-28s", s.Name)
		fmt.Fprintf(&b, "%3d    ", len(locationSets[i]))
		for j := range species {
			shared := intersectionSize(locationSets[i], locationSets[j])
			fmt.Fprintf(&b, "%2d (%6.1f) ", shared, analysis.Ratio(100*float64(shared), float64(len(locationSets[i]))))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String(), nil
}

func intersectionSize[K comparable](a, b map[K]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
