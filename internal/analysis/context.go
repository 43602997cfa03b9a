// Package analysis is the aggregation engine for camera-trap image sets.
//
// A Context is built once from a snapshot of the image catalog and an event interval. It
// precomputes the distinct locations, species and years, a date-sorted copy of the
// images and the full/new moon dates spanning the data, then answers the activity,
// period and abundance statistics that report sections are built from.
//
// A Context is immutable after construction and safe for concurrent readers. It never
// sorts or retains the slices passed to its statistic methods.
package analysis

import (
	"slices"
	"time"

	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/lunar"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
)

// DefaultEventInterval is the independence window used when callers have no preference.
const DefaultEventInterval = 60 * time.Minute

// Context holds the precomputed view of one image set.
type Context struct {
	eventInterval time.Duration
	lunarStep     time.Duration

	locations    []*model.Location
	species      []*model.Species
	years        []int
	hasUnlocated bool
	imagesByDate []*model.ImageRecord

	fullMoons []time.Time
	newMoons  []time.Time
}

type options struct {
	lunarStep time.Duration
	log       logger.Logger
}

// Option customizes NewContext.
type Option func(*options)

// WithLunarStep sets how far past a found lunar event the next search starts. Values
// that are not positive fall back to lunar.DefaultStep.
func WithLunarStep(step time.Duration) Option {
	return func(o *options) {
		o.lunarStep = step
	}
}

// WithLogger routes construction logging to log instead of the analysis module logger.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// NewContext builds a Context from images. eventIntervalMinutes below 1 makes every
// image an independent event. images is copied; later changes to the caller's slice
// are not seen.
func NewContext(images []*model.ImageRecord, eventIntervalMinutes int, opts ...Option) *Context {
	start := time.Now()

	o := options{lunarStep: lunar.DefaultStep}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lunarStep <= 0 {
		o.lunarStep = lunar.DefaultStep
	}
	if o.log == nil {
		o.log = GetLogger()
	}

	c := &Context{
		eventInterval: time.Duration(eventIntervalMinutes) * time.Minute,
		lunarStep:     o.lunarStep,
	}

	seenLocations := make(map[*model.Location]struct{})
	seenSpecies := make(map[*model.Species]struct{})
	seenYears := make(map[int]struct{})

	for _, img := range images {
		if img.LocationTaken == nil {
			c.hasUnlocated = true
		} else if _, ok := seenLocations[img.LocationTaken]; !ok {
			seenLocations[img.LocationTaken] = struct{}{}
			c.locations = append(c.locations, img.LocationTaken)
		}

		for i := range img.SpeciesPresent {
			s := img.SpeciesPresent[i].Species
			if _, ok := seenSpecies[s]; !ok {
				seenSpecies[s] = struct{}{}
				c.species = append(c.species, s)
			}
		}

		year := img.DateTaken.Year()
		if _, ok := seenYears[year]; !ok {
			seenYears[year] = struct{}{}
			c.years = append(c.years, year)
		}
	}

	model.SortLocationsByName(c.locations)
	model.SortSpeciesByName(c.species)
	slices.Sort(c.years)

	c.imagesByDate = model.Snapshot(images)
	slices.SortStableFunc(c.imagesByDate, func(a, b *model.ImageRecord) int {
		return a.DateTaken.Compare(b.DateTaken)
	})

	if n := len(c.imagesByDate); n > 0 {
		first := c.imagesByDate[0].DateTaken
		last := c.imagesByDate[n-1].DateTaken
		c.fullMoons = lunar.Enumerate(first, last, lunar.FullMoon, c.lunarStep)
		c.newMoons = lunar.Enumerate(first, last, lunar.NewMoon, c.lunarStep)
	}

	o.log.Debug("analysis context built",
		logger.Int("images", len(c.imagesByDate)),
		logger.Int("locations", len(c.locations)),
		logger.Int("species", len(c.species)),
		logger.Int("years", len(c.years)),
		logger.Int("full_moons", len(c.fullMoons)),
		logger.Int("new_moons", len(c.newMoons)),
		logger.Duration("event_interval", c.eventInterval),
		logger.Duration("elapsed", time.Since(start)))

	return c
}

// EventInterval returns the independence window.
func (c *Context) EventInterval() time.Duration { return c.eventInterval }

// LunarStep returns the re-anchoring step used for lunar enumeration.
func (c *Context) LunarStep() time.Duration { return c.lunarStep }

// Locations returns the distinct image locations sorted by name.
func (c *Context) Locations() []*model.Location { return slices.Clone(c.locations) }

// Species returns the distinct observed species sorted by name.
func (c *Context) Species() []*model.Species { return slices.Clone(c.species) }

// Years returns the distinct calendar years of the images in ascending order.
func (c *Context) Years() []int { return slices.Clone(c.years) }

// HasUnlocatedImages reports whether at least one image has no location.
func (c *Context) HasUnlocatedImages() bool { return c.hasUnlocated }

// ImagesByDate returns the images sorted by DateTaken. Equal timestamps keep their input
// order.
func (c *Context) ImagesByDate() []*model.ImageRecord { return slices.Clone(c.imagesByDate) }

// ImageCount is len(ImagesByDate()) without the copy.
func (c *Context) ImageCount() int { return len(c.imagesByDate) }

// FullMoons returns the full moons between the first and last image, ascending.
func (c *Context) FullMoons() []time.Time { return slices.Clone(c.fullMoons) }

// NewMoons returns the new moons between the first and last image, ascending.
func (c *Context) NewMoons() []time.Time { return slices.Clone(c.newMoons) }

// DateRange returns the first and last image timestamps. ok is false for an empty
// context.
func (c *Context) DateRange() (first, last time.Time, ok bool) {
	if len(c.imagesByDate) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return c.imagesByDate[0].DateTaken, c.imagesByDate[len(c.imagesByDate)-1].DateTaken, true
}

// LocationsFor returns the distinct non-nil locations of images sorted by name.
func (c *Context) LocationsFor(images []*model.ImageRecord) []*model.Location {
	seen := make(map[*model.Location]struct{})
	out := make([]*model.Location, 0)
	for _, img := range images {
		if img.LocationTaken == nil {
			continue
		}
		if _, ok := seen[img.LocationTaken]; ok {
			continue
		}
		seen[img.LocationTaken] = struct{}{}
		out = append(out, img.LocationTaken)
	}
	model.SortLocationsByName(out)
	return out
}

// SpeciesFor returns the distinct species observed in images sorted by name.
func (c *Context) SpeciesFor(images []*model.ImageRecord) []*model.Species {
	seen := make(map[*model.Species]struct{})
	out := make([]*model.Species, 0)
	for _, img := range images {
		for i := range img.SpeciesPresent {
			s := img.SpeciesPresent[i].Species
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	model.SortSpeciesByName(out)
	return out
}
