package analysis

import (
	"time"

	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
)

// activityBucket identifies one hour of one calendar day.
type activityBucket struct {
	hour, yearDay, year int
}

func bucketOf(t time.Time) activityBucket {
	return activityBucket{hour: t.Hour(), yearDay: t.YearDay(), year: t.Year()}
}

// Activity counts the runs of consecutive images that share an (hour, day of year, year)
// bucket, iterating images in the given order. Filter by species and location first to
// get a meaningful total.
func (c *Context) Activity(images []*model.ImageRecord) int {
	activity := 0
	var last activityBucket
	for i, img := range images {
		b := bucketOf(img.DateTaken)
		if i == 0 || b != last {
			activity++
			last = b
		}
	}
	return activity
}

// HoursPerDay is the number of hourly activity buckets.
const HoursPerDay = 24

// HourlyActivity returns, for each hour of the day, the Activity of the images taken in
// that hour.
func (c *Context) HourlyActivity(images []*model.ImageRecord) [HoursPerDay]int {
	var byHour [HoursPerDay][]*model.ImageRecord
	for _, img := range images {
		h := img.DateTaken.Hour()
		byHour[h] = append(byHour[h], img)
	}
	var activity [HoursPerDay]int
	for h := range HoursPerDay {
		activity[h] = c.Activity(byHour[h])
	}
	return activity
}

// ActivityStarts returns the images that open a new activity bucket, in input order.
// len(ActivityStarts(images)) == Activity(images).
func (c *Context) ActivityStarts(images []*model.ImageRecord) []*model.ImageRecord {
	var starts []*model.ImageRecord
	var last activityBucket
	for i, img := range images {
		b := bucketOf(img.DateTaken)
		if i == 0 || b != last {
			starts = append(starts, img)
			last = b
		}
	}
	return starts
}

// startsEvent reports whether an image taken at t opens a new independence window when
// the previous window opened at lastEvent.
func (c *Context) startsEvent(t, lastEvent time.Time, first bool) bool {
	if first || c.eventInterval <= 0 {
		return true
	}
	return t.Sub(lastEvent) >= c.eventInterval
}

// Period counts independence events: an image is a new event when at least the event
// interval has passed since the last counted event. The first image always counts.
// images should be sorted by date.
func (c *Context) Period(images []*model.ImageRecord) int {
	period := 0
	var lastEvent time.Time
	for i, img := range images {
		if c.startsEvent(img.DateTaken, lastEvent, i == 0) {
			period++
			lastEvent = img.DateTaken
		}
	}
	return period
}

// EventStarts returns the images that open each independence event Period counts.
func (c *Context) EventStarts(images []*model.ImageRecord) []*model.ImageRecord {
	var starts []*model.ImageRecord
	var lastEvent time.Time
	for i, img := range images {
		if c.startsEvent(img.DateTaken, lastEvent, i == 0) {
			starts = append(starts, img)
			lastEvent = img.DateTaken
		}
	}
	return starts
}

// Abundance sums, over the same independence windows Period counts, the largest
// observation count seen in each window. A nil species counts every species. images
// should be sorted by date.
func (c *Context) Abundance(images []*model.ImageRecord, species *model.Species) int {
	abundance := 0
	windowMax := 0
	var lastEvent time.Time
	for i, img := range images {
		if c.startsEvent(img.DateTaken, lastEvent, i == 0) {
			abundance += windowMax
			windowMax = 0
			lastEvent = img.DateTaken
		}
		windowMax = max(windowMax, img.MaxCount(species))
	}
	return abundance + windowMax
}

// FirstImage returns the earliest image. Ties go to the earlier position in images.
func (c *Context) FirstImage(images []*model.ImageRecord) (*model.ImageRecord, error) {
	if len(images) == 0 {
		return nil, errors.EmptyInput("analysis", "first_image")
	}
	first := images[0]
	for _, img := range images[1:] {
		if img.DateTaken.Before(first.DateTaken) {
			first = img
		}
	}
	return first, nil
}

// LastImage returns the latest image. Ties go to the earlier position in images.
func (c *Context) LastImage(images []*model.ImageRecord) (*model.ImageRecord, error) {
	if len(images) == 0 {
		return nil, errors.EmptyInput("analysis", "last_image")
	}
	last := images[0]
	for _, img := range images[1:] {
		if img.DateTaken.After(last.DateTaken) {
			last = img
		}
	}
	return last, nil
}
