// Package suncalc computes sun events for camera locations and classifies image
// timestamps into day, twilight and night.
package suncalc

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sj14/astral/pkg/astral"

	"github.com/Chris-Schnaufer/sparcd-old/internal/observability/metrics"
)

const dateKeyLayout = "2006-01-02"

// SunEventTimes holds the sun events of one calendar day.
type SunEventTimes struct {
	CivilDawn time.Time
	Sunrise   time.Time
	Sunset    time.Time
	CivilDusk time.Time
}

// DielPeriod is the part of the day an instant falls in.
type DielPeriod int

const (
	Night DielPeriod = iota
	Twilight
	Day
)

func (p DielPeriod) String() string {
	switch p {
	case Day:
		return "day"
	case Twilight:
		return "twilight"
	default:
		return "night"
	}
}

// SunCalc calculates and caches sun events for one observer.
type SunCalc struct {
	observer astral.Observer
	tz       *time.Location
	cache    *cache.Cache // date key -> SunEventTimes
	metrics  *metrics.SunCalcMetrics
}

// SetMetrics makes the calculator record cache and classification metrics.
func (sc *SunCalc) SetMetrics(m *metrics.SunCalcMetrics) {
	sc.metrics = m
}

// NewSunCalc creates a SunCalc for the given coordinates reporting times in the local
// timezone.
func NewSunCalc(latitude, longitude float64) *SunCalc {
	return NewSunCalcIn(latitude, longitude, time.Local)
}

// NewSunCalcIn creates a SunCalc reporting times in tz. A nil tz means UTC.
func NewSunCalcIn(latitude, longitude float64, tz *time.Location) *SunCalc {
	if tz == nil {
		tz = time.UTC
	}
	return &SunCalc{
		observer: astral.Observer{Latitude: latitude, Longitude: longitude},
		tz:       tz,
		// no janitor goroutine: entries never expire within a run
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// GetSunEventTimes returns the sun events for the calendar day of date.
func (sc *SunCalc) GetSunEventTimes(date time.Time) (SunEventTimes, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	key := day.Format(dateKeyLayout)

	if cached, found := sc.cache.Get(key); found {
		if times, ok := cached.(SunEventTimes); ok {
			if sc.metrics != nil {
				sc.metrics.RecordCacheHit()
			}
			return times, nil
		}
	}
	if sc.metrics != nil {
		sc.metrics.RecordCacheMiss()
	}

	times, err := sc.calculateSunEventTimes(day)
	if err != nil {
		if sc.metrics != nil {
			sc.metrics.RecordOperation(metrics.OpSunEvents, metrics.StatusError)
		}
		return SunEventTimes{}, err
	}
	if sc.metrics != nil {
		sc.metrics.RecordOperation(metrics.OpSunEvents, metrics.StatusSuccess)
	}

	sc.cache.Set(key, times, cache.DefaultExpiration)
	return times, nil
}

func (sc *SunCalc) calculateSunEventTimes(day time.Time) (SunEventTimes, error) {
	civilDawn, err := astral.Dawn(sc.observer, day, astral.DepressionCivil)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate civil dawn: %w", err)
	}
	sunrise, err := astral.Sunrise(sc.observer, day)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunrise: %w", err)
	}
	sunset, err := astral.Sunset(sc.observer, day)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunset: %w", err)
	}
	civilDusk, err := astral.Dusk(sc.observer, day, astral.DepressionCivil)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate civil dusk: %w", err)
	}

	// far from Greenwich the evening events can land on the previous UTC day
	if sunset.Before(sunrise) {
		sunset = sunset.Add(24 * time.Hour)
	}
	if civilDusk.Before(civilDawn) {
		civilDusk = civilDusk.Add(24 * time.Hour)
	}

	return SunEventTimes{
		CivilDawn: civilDawn.In(sc.tz),
		Sunrise:   sunrise.In(sc.tz),
		Sunset:    sunset.In(sc.tz),
		CivilDusk: civilDusk.In(sc.tz),
	}, nil
}

// GetSunriseTime returns the sunrise time for a given date
func (sc *SunCalc) GetSunriseTime(date time.Time) (time.Time, error) {
	times, err := sc.GetSunEventTimes(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get sun event times: %w", err)
	}
	return times.Sunrise, nil
}

// GetSunsetTime returns the sunset time for a given date
func (sc *SunCalc) GetSunsetTime(date time.Time) (time.Time, error) {
	times, err := sc.GetSunEventTimes(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get sun event times: %w", err)
	}
	return times.Sunset, nil
}

// Classify returns the diel period of t. The days either side of t's date are checked
// too, since its local date and the UTC date the events were solved for can differ.
func (sc *SunCalc) Classify(t time.Time) (DielPeriod, error) {
	period, err := sc.classify(t)
	if sc.metrics != nil {
		if err != nil {
			sc.metrics.RecordOperation(metrics.OpClassify, metrics.StatusError)
		} else {
			sc.metrics.RecordOperation(metrics.OpClassify, metrics.StatusSuccess)
			sc.metrics.RecordDielPeriod(period.String())
		}
	}
	return period, err
}

func (sc *SunCalc) classify(t time.Time) (DielPeriod, error) {
	period := Night
	var firstErr error
	solved := false

	for _, offset := range []int{-1, 0, 1} {
		times, err := sc.GetSunEventTimes(t.AddDate(0, 0, offset))
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		solved = true

		switch {
		case !t.Before(times.Sunrise) && !t.After(times.Sunset):
			return Day, nil
		case !t.Before(times.CivilDawn) && !t.After(times.CivilDusk):
			period = Twilight
		}
	}

	if !solved {
		return Night, firstErr
	}
	return period, nil
}

// CachedDays returns how many days of events are cached.
func (sc *SunCalc) CachedDays() int {
	return sc.cache.ItemCount()
}
