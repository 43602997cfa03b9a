package app

import (
	"time"

	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/query"
)

// FilterOptions narrows the images a command works on. Zero values select everything.
type FilterOptions struct {
	Species      string
	Location     string
	NameContains string
	Year         int
	Months       []int
	From, To     time.Time
}

// Filter builds a query from opts, resolving names through reg. Unknown names fail with
// the closest registered name suggested.
func Filter(reg *model.Registry, opts FilterOptions) (*query.Filter, error) {
	f := query.New()

	if opts.Species != "" {
		s, ok := reg.LookupSpecies(opts.Species)
		if !ok {
			return nil, unknownName("species", opts.Species, reg.SuggestSpecies(opts.Species))
		}
		f.SpeciesOnly(s)
	}
	if opts.Location != "" {
		loc, ok := reg.LookupLocation(opts.Location)
		if !ok {
			return nil, unknownName("location", opts.Location, reg.SuggestLocation(opts.Location))
		}
		f.LocationOnly(loc)
	}
	if opts.NameContains != "" {
		f.SpeciesNameContains(opts.NameContains)
	}
	if opts.Year != 0 {
		f.YearOnly(opts.Year)
	}
	if len(opts.Months) > 0 {
		months := make([]time.Month, 0, len(opts.Months))
		for _, m := range opts.Months {
			if m < 1 || m > 12 {
				return nil, errors.Newf("month %d is outside 1-12", m).
					Component("app").
					Category(errors.CategoryValidation).
					Context("month", m).
					Build()
			}
			months = append(months, time.Month(m))
		}
		f.MonthOnly(months...)
	}
	if !opts.From.IsZero() || !opts.To.IsZero() {
		to := opts.To
		if to.IsZero() {
			to = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
		}
		if to.Before(opts.From) {
			return nil, errors.Newf("date range ends before it starts").
				Component("app").
				Category(errors.CategoryValidation).
				Context("from", opts.From.Format(time.DateOnly)).
				Context("to", to.Format(time.DateOnly)).
				Build()
		}
		f.DateRange(opts.From, to)
	}
	return f, nil
}

func unknownName(kind, name, suggestion string) error {
	b := errors.Newf("unknown %s %q", kind, name)
	if suggestion != "" {
		b = errors.Newf("unknown %s %q, did you mean %q?", kind, name, suggestion)
	}
	return b.Component("app").
		Category(errors.CategoryNotFound).
		Context(kind, name).
		Build()
}
