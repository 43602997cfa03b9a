package report

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Chris-Schnaufer/sparcd-old/internal/analysis"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/query"
)

// locationPair is a scored unordered pair of locations.
type locationPair struct {
	a, b  int
	score float64
}

// scorePairs scores every unordered location pair i < j in matrix order.
func scorePairs(n int, score func(i, j int) float64) []locationPair {
	pairs := make([]locationPair, 0, n*(n-1)/2)
	for i := range n {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, locationPair{a: i, b: j, score: score(i, j)})
		}
	}
	return pairs
}

// ranked returns at most n pairs ordered by score, ascending or descending. Equal scores
// keep matrix order.
func ranked(pairs []locationPair, n int, ascending bool) []locationPair {
	out := slices.Clone(pairs)
	slices.SortStableFunc(out, func(x, y locationPair) int {
		if ascending {
			return cmp.Compare(x.score, y.score)
		}
		return cmp.Compare(y.score, x.score)
	})
	return out[:min(max(n, 0), len(out))]
}

func locationHeader(b *strings.Builder, locations []*model.Location) {
	b.WriteString(strings.Repeat(" ", 28))
	for _, loc := range locations {
		fmt.Fprintf(b, "%-8s ", left(loc.Name, 8))
	}
	b.WriteString("\n")
}

// LocationFrequencySimilarity compares locations by the share of independent pictures each
// species takes at them. The distance of a pair is ten times the square root of the summed
// squared share differences; lower is more similar.
type LocationFrequencySimilarity struct {
	TopN int
}

func (LocationFrequencySimilarity) Name() string { return "location-frequency-similarity" }

func (s LocationFrequencySimilarity) Produce(ac *analysis.Context, _ []*model.ImageRecord) (string, error) {
	var b strings.Builder
	b.WriteString("LOCATION SPECIES FREQUENCY SIMILARITY (LOWER IS MORE SIMILAR)\n")
	b.WriteString("   One picture of each species per camera per PERIOD\n")
	b.WriteString("   Square root of sums of squared difference in frequency\n\n")

	locations := ac.Locations()
	species := ac.Species()
	sorted := ac.ImagesByDate()

	// freq[l][s] is species s's share of location l's independent pictures
	freq := make([][]float64, len(locations))
	for l, loc := range locations {
		atLocation := query.New().LocationOnly(loc).Query(sorted)
		total := float64(ac.Period(query.New().AnyValidSpecies().Query(atLocation)))
		freq[l] = make([]float64, len(species))
		for i, sp := range species {
			period := ac.Period(query.New().SpeciesOnly(sp).Query(atLocation))
			freq[l][i] = analysis.Ratio(float64(period), total)
		}
	}

	distance := func(i, j int) float64 {
		sum := 0.0
		for k := range species {
			d := freq[i][k] - freq[j][k]
			sum += d * d
		}
		return 10 * math.Sqrt(sum)
	}
	pairs := scorePairs(len(locations), distance)

	writeTop := func(title string, top []locationPair) {
		fmt.Fprintf(&b, "  TOP %d LOCATION PAIRS MOST %s IN SPECIES FREQUENCY\n", s.TopN, title)
		for _, p := range top {
			fmt.Fprintf(&b, "  %-28s %-28s %8.3f\n", locations[p.a].Name, locations[p.b].Name, p.score)
		}
		b.WriteString("\n")
	}
	writeTop("SIMILAR", ranked(pairs, s.TopN, true))
	writeTop("DIFFERENT", ranked(pairs, s.TopN, false))

	locationHeader(&b, locations)
	for i, loc := range locations {
		fmt.Fprintf(&b, "%-28s", loc.Name)
		for j := range locations {
			fmt.Fprintf(&b, "%8.3f ", distance(i, j))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String(), nil
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func Jaccard[K comparable](a, b map[K]struct{}) float64 {
	shared := intersectionSize(a, b)
	return analysis.Ratio(float64(shared), float64(len(a)+len(b)-shared))
}

// LocationCompositionSimilarity compares locations by which species were recorded at them
// using the Jaccard similarity index; higher is more similar.
type LocationCompositionSimilarity struct {
	TopN int
}

func (LocationCompositionSimilarity) Name() string { return "location-composition-similarity" }

func (s LocationCompositionSimilarity) Produce(ac *analysis.Context, images []*model.ImageRecord) (string, error) {
	var b strings.Builder
	b.WriteString("LOCATION-SPECIES COMPOSITION SIMILARITY (Jaccard Similarity Index)\n")
	b.WriteString("  Is species present at this location? yes=1, no=0\n")
	b.WriteString("  1.00 means locations are identical; 0.00 means locations have no species in common\n")
	b.WriteString("  Location, location, JSI, number of species at each location, and number of species in common\n\n")

	locations := ac.Locations()
	present := make([]map[*model.Species]struct{}, len(locations))
	for l, loc := range locations {
		present[l] = make(map[*model.Species]struct{})
		for _, sp := range ac.SpeciesFor(query.New().LocationOnly(loc).Query(images)) {
			present[l][sp] = struct{}{}
		}
	}

	jsi := func(i, j int) float64 { return Jaccard(present[i], present[j]) }
	pairs := scorePairs(len(locations), jsi)

	writeTop := func(title string, top []locationPair) {
		fmt.Fprintf(&b, "  TOP %d LOCATION PAIRS MOST %s IN SPECIES COMPOSITION\n", s.TopN, title)
		fmt.Fprintf(&b, "  %-28s %-28s %5s %4s %4s %5s\n", "Location", "Location", "JSI", "N1", "N2", "N1&N2")
		for _, p := range top {
			fmt.Fprintf(&b, "  %-28s %-28s %5.3f %4d %4d %5d\n",
				locations[p.a].Name, locations[p.b].Name, p.score,
				len(present[p.a]), len(present[p.b]), intersectionSize(present[p.a], present[p.b]))
		}
		b.WriteString("\n")
	}
	writeTop("SIMILAR", ranked(pairs, s.TopN, false))
	writeTop("DIFFERENT", ranked(pairs, s.TopN, true))

	locationHeader(&b, locations)
	for i, loc := range locations {
		fmt.Fprintf(&b, "%-28s", loc.Name)
		for j := range locations {
			fmt.Fprintf(&b, "%8.2f ", jsi(i, j))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String(), nil
}
