package analysis

import (
	"time"

	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
)

// MonthsPerYear is the number of columns in a monthly effort row.
const MonthsPerYear = 12

// DaysInMonth returns the number of days in month of year, leap years included.
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthlyEffort returns camera-trap days per calendar month for a camera deployed from
// first to last. Index 0 is January.
//
// Only months and days of month are compared, not years: a deployment from November to
// February counts November and February only. Whole months in between use the month
// lengths of first's year.
func MonthlyEffort(first, last time.Time) [MonthsPerYear]int {
	var effort [MonthsPerYear]int

	firstMonth, lastMonth := first.Month(), last.Month()
	firstDay, lastDay := first.Day(), last.Day()

	for i := range MonthsPerYear {
		month := time.January + time.Month(i)
		switch {
		case firstMonth == lastMonth && firstMonth == month:
			effort[i] = lastDay - firstDay + 1
		case firstMonth == month:
			effort[i] = DaysInMonth(first.Year(), firstMonth) - firstDay + 1
		case lastMonth == month:
			effort[i] = lastDay
		case firstMonth < month && month < lastMonth:
			effort[i] = DaysInMonth(first.Year(), month)
		}
	}

	return effort
}

// EffortFor returns MonthlyEffort over the first and last image of images, or all zeros
// when images is empty.
func (c *Context) EffortFor(images []*model.ImageRecord) [MonthsPerYear]int {
	first, err := c.FirstImage(images)
	if err != nil {
		return [MonthsPerYear]int{}
	}
	last, err := c.LastImage(images)
	if err != nil {
		return [MonthsPerYear]int{}
	}
	return MonthlyEffort(first.DateTaken, last.DateTaken)
}

// Ratio divides n by d, returning 0 when d is 0.
func Ratio(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}
