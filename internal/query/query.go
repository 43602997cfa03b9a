// Package query builds conjunctive filters over image records.
//
// A Filter is a list of predicates joined by logical AND. Criteria may be added in any
// order; Query returns the matching records in their input order and never modifies the
// input slice.
//
//	deerAtNight := query.New().
//	    SpeciesOnly(deer).
//	    TimeFrame(0, 6).
//	    Query(images)
package query

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
)

// Predicate reports whether an image passes a criterion.
type Predicate func(img *model.ImageRecord) bool

// Filter is a conjunction of predicates. The zero value accepts every image.
type Filter struct {
	predicates []Predicate
}

// New returns an empty filter.
func New() *Filter {
	return &Filter{}
}

// Where adds an arbitrary predicate.
func (f *Filter) Where(p Predicate) *Filter {
	if p != nil {
		f.predicates = append(f.predicates, p)
	}
	return f
}

// SpeciesOnly keeps images with at least one observation of species.
func (f *Filter) SpeciesOnly(species *model.Species) *Filter {
	return f.Where(func(img *model.ImageRecord) bool {
		return img.HasSpecies(species)
	})
}

// AnyValidSpecies keeps images with at least one observation.
func (f *Filter) AnyValidSpecies() *Filter {
	return f.Where(func(img *model.ImageRecord) bool {
		return len(img.SpeciesPresent) > 0
	})
}

// LocationOnly keeps images taken at location. A nil location selects untagged images.
func (f *Filter) LocationOnly(location *model.Location) *Filter {
	return f.Where(func(img *model.ImageRecord) bool {
		return img.LocationTaken == location
	})
}

// MonthOnly keeps images whose calendar month is one of months.
func (f *Filter) MonthOnly(months ...time.Month) *Filter {
	var set [13]bool
	for _, m := range months {
		if m >= time.January && m <= time.December {
			set[m] = true
		}
	}
	return f.Where(func(img *model.ImageRecord) bool {
		return set[img.DateTaken.Month()]
	})
}

// YearOnly keeps images taken in year.
func (f *Filter) YearOnly(year int) *Filter {
	return f.Where(func(img *model.ImageRecord) bool {
		return img.DateTaken.Year() == year
	})
}

// TimeFrame keeps images whose hour of day lies in [startHour, endHour).
func (f *Filter) TimeFrame(startHour, endHour int) *Filter {
	return f.Where(func(img *model.ImageRecord) bool {
		h := img.DateTaken.Hour()
		return h >= startHour && h < endHour
	})
}

// DateRange keeps images taken within [from, to], both ends inclusive.
func (f *Filter) DateRange(from, to time.Time) *Filter {
	return f.Where(func(img *model.ImageRecord) bool {
		return !img.DateTaken.Before(from) && !img.DateTaken.After(to)
	})
}

// SpeciesNameContains keeps images with an observation whose common or scientific name
// contains text, ignoring case.
func (f *Filter) SpeciesNameContains(text string) *Filter {
	needle := cases.Fold().String(text)
	return f.Where(func(img *model.ImageRecord) bool {
		// a Caser carries state, so each evaluation gets its own
		fold := cases.Fold()
		for i := range img.SpeciesPresent {
			s := img.SpeciesPresent[i].Species
			if s == nil {
				continue
			}
			if strings.Contains(fold.String(s.Name), needle) ||
				strings.Contains(fold.String(s.ScientificName), needle) {
				return true
			}
		}
		return false
	})
}

// Len returns the number of criteria in the filter.
func (f *Filter) Len() int {
	return len(f.predicates)
}

// Matches reports whether img passes every criterion.
func (f *Filter) Matches(img *model.ImageRecord) bool {
	for _, p := range f.predicates {
		if !p(img) {
			return false
		}
	}
	return true
}

// Query returns the images passing every criterion, preserving input order.
func (f *Filter) Query(images []*model.ImageRecord) []*model.ImageRecord {
	out := make([]*model.ImageRecord, 0, len(images))
	for _, img := range images {
		if f.Matches(img) {
			out = append(out, img)
		}
	}
	return out
}
