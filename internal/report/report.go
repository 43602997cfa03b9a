// Package report renders the fixed-width text sections of a camera-trap analysis report.
//
// Every Section is a pure function of an analysis.Context and an image list. Sections
// share no mutable state, so a Generator may run them concurrently and in any order; the
// text of each section is reproduced column for column so existing report consumers can
// keep parsing it.
package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/Chris-Schnaufer/sparcd-old/internal/analysis"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/observability/metrics"
)

const hoursPerDay = analysis.HoursPerDay

// Section produces one block of report text.
type Section interface {
	// Name is the stable identifier used to select the section.
	Name() string
	// Produce renders the section. images is the caller's (possibly filtered) image
	// list; sections that work on the whole data set use ac instead.
	Produce(ac *analysis.Context, images []*model.ImageRecord) (string, error)
}

// Options tunes the sections that have thresholds.
type Options struct {
	MinSpeciesImages int            // species below this image count are left out of pair tests
	ChiSquareCutoff  float64        // significance threshold for the paired-activity test
	TopN             int            // rows in the most/least similar location pair lists
	LunarWindow      time.Duration  // distance from a full or new moon that still counts
	Timezone         *time.Location // zone sun events are reported in
	SunCalcMetrics   *metrics.SunCalcMetrics
}

// DefaultOptions returns the thresholds the report has always used.
func DefaultOptions() Options {
	return Options{
		MinSpeciesImages: 25,
		ChiSquareCutoff:  0.95,
		TopN:             10,
		LunarWindow:      5 * 24 * time.Hour,
		Timezone:         time.Local,
	}
}

// All returns every section in report order.
func All(opts Options) []Section {
	return []Section{
		Summary{},
		ActivityPatterns{},
		SpeciesPairActivitySimilarity{},
		SpeciesPairMostSimilar{MinImages: opts.MinSpeciesImages},
		ChiSquarePairedActivity{MinImages: opts.MinSpeciesImages, Cutoff: opts.ChiSquareCutoff},
		SeasonalActivity{},
		LunarActivity{Window: opts.LunarWindow},
		DielActivity{Timezone: opts.Timezone, Metrics: opts.SunCalcMetrics},
		SpeciesPercentByLocation{},
		SpeciesByMonthByLocationByYear{},
		SpeciesByMonthByLocation{},
		LocationDistance{},
		SpeciesOverlap{},
		LocationFrequencySimilarity{TopN: opts.TopN},
		LocationCompositionSimilarity{TopN: opts.TopN},
	}
}

// Names returns the names of sections in order.
func Names(sections []Section) []string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name()
	}
	return names
}

// Select returns the sections of all named in names, keeping report order. An empty
// names selects everything. Unknown names fail with the closest known name suggested.
func Select(all []Section, names []string) ([]Section, error) {
	if len(names) == 0 {
		return all, nil
	}

	known := Names(all)
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if !slices.Contains(known, name) {
			return nil, errors.Newf("unknown report section %q, did you mean %q?", name, closest(name, known)).
				Component("report").
				Category(errors.CategoryValidation).
				Context("section", name).
				Build()
		}
		wanted[name] = true
	}

	selected := make([]Section, 0, len(wanted))
	for _, s := range all {
		if wanted[s.Name()] {
			selected = append(selected, s)
		}
	}
	return selected, nil
}

func closest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// left returns at most n runes of s.
func left(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// speciesHeader writes the 28 column indent followed by each species name cut to 8 runes.
func speciesHeader(b *strings.Builder, species []*model.Species) {
	b.WriteString(strings.Repeat(" ", 28))
	for _, s := range species {
		fmt.Fprintf(b, "%-8s ", left(s.Name, 8))
	}
	b.WriteString("\n")
}

func hourLabel(hour int) string {
	return fmt.Sprintf("%02d:00-%02d:00", hour, hour+1)
}
