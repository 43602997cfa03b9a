// Package lunar computes Julian days, the moon's phase and the dates of new and full
// moons.
//
// Phase arithmetic follows the low-precision series and true-phase lunation formula from
// Meeus, Astronomical Algorithms (2nd ed.), chapters 7, 48 and 49. New and full moon
// times are accurate to a few minutes between 1900 and 2100, which is well inside the
// day-level resolution the reports use.
package lunar

import (
	"math"
	"time"
)

const (
	// NewMoon is the target phase, in degrees of elongation, of a new moon.
	NewMoon = 0.0
	// FullMoon is the target phase, in degrees of elongation, of a full moon.
	FullMoon = 180.0

	// SynodicMonth is the mean length of a lunation in days.
	SynodicMonth = 29.530588861

	// DefaultStep is how far past a found event the next search starts. It must stay
	// shorter than the shortest lunation (about 29.27 days) or events are skipped.
	DefaultStep = 20 * 24 * time.Hour

	// unixEpochJD is the Julian day of 1970-01-01T00:00:00Z.
	unixEpochJD = 2440587.5
	// j2000 is the Julian day of 2000-01-01T12:00:00 TT.
	j2000 = 2451545.0
	// lunationEpochJDE is the mean new moon of 2000-01-06 that anchors lunation 0.
	lunationEpochJDE = 2451550.09766

	secondsPerDay = 86400.0
	degToRad      = math.Pi / 180
)

// Phase is the moon's position in its cycle at an instant.
type Phase struct {
	// Elongation is the moon's angular distance east of the sun, 0 at new moon and 180
	// at full moon, normalised to [0, 360).
	Elongation float64
	// Illumination is the illuminated fraction of the disc in [0, 1].
	Illumination float64
}

// ToJulianDay converts t to a fractional Julian day on the proleptic Gregorian calendar.
func ToJulianDay(t time.Time) float64 {
	u := t.UTC()
	year := float64(u.Year())
	month := float64(u.Month())
	dayFraction := float64(u.Hour())/24 +
		float64(u.Minute())/1440 +
		(float64(u.Second())+float64(u.Nanosecond())/1e9)/secondsPerDay
	day := float64(u.Day()) + dayFraction

	if month <= 2 {
		year--
		month += 12
	}
	a := math.Floor(year / 100)
	b := 2 - a + math.Floor(a/4)

	return math.Floor(365.25*(year+4716)) + math.Floor(30.6001*(month+1)) + day + b - 1524.5
}

// JulianToTime converts a Julian day back to a UTC timestamp.
func JulianToTime(jd float64) time.Time {
	seconds := (jd - unixEpochJD) * secondsPerDay
	whole := math.Floor(seconds)
	nanos := math.Round((seconds - whole) * 1e9)
	return time.Unix(int64(whole), int64(nanos)).UTC()
}

// PhaseAngle returns the moon's phase at Julian day jd.
func PhaseAngle(jd float64) Phase {
	t := (jd - j2000) / 36525

	d := normalizeDegrees(297.8501921 + 445267.1114034*t)  // mean elongation
	m := normalizeDegrees(357.5291092 + 35999.0502909*t)   // sun's mean anomaly
	mp := normalizeDegrees(134.9633964 + 477198.8675055*t) // moon's mean anomaly

	elongation := d +
		6.289*sinDeg(mp) -
		2.100*sinDeg(m) +
		1.274*sinDeg(2*d-mp) +
		0.658*sinDeg(2*d) +
		0.214*sinDeg(2*mp) +
		0.110*sinDeg(d)
	elongation = normalizeDegrees(elongation)

	// phase angle i = 180 - elongation
	illumination := (1 + cosDeg(180-elongation)) / 2

	return Phase{Elongation: elongation, Illumination: illumination}
}

// SolveForTargetPhase returns the Julian day of the lunation at which the moon next
// reaches target degrees of elongation, starting from jd whose phase is p. Targets of
// NewMoon and FullMoon use the true-phase corrections; other targets return the mean
// phase time.
func SolveForTargetPhase(jd float64, p Phase, target float64) float64 {
	target = normalizeDegrees(target)

	delta := normalizeDegrees(target - p.Elongation)
	approx := jd + delta/360*SynodicMonth

	offset := target / 360
	k := math.Round((approx-lunationEpochJDE)/SynodicMonth-offset) + offset

	return lunationJDE(k, target)
}

// Enumerate lists every instant in [first, last] at which the moon reaches target,
// searching forward from first and restarting each search step past the previous event.
// A non-positive step falls back to DefaultStep. Results are in first's location.
func Enumerate(first, last time.Time, target float64, step time.Duration) []time.Time {
	if step <= 0 {
		step = DefaultStep
	}

	var events []time.Time
	anchor := first
	for anchor.Before(last) {
		jd := ToJulianDay(anchor)
		event := JulianToTime(SolveForTargetPhase(jd, PhaseAngle(jd), target))

		if !event.Before(first) && !event.After(last) {
			events = append(events, event.In(first.Location()))
		}

		next := event.Add(step)
		if !next.After(anchor) {
			next = anchor.Add(step)
		}
		anchor = next
	}
	return events
}

// lunationJDE evaluates the time of lunation k, where k is an integer for new moons and
// an integer plus one half for full moons.
func lunationJDE(k, target float64) float64 {
	t := k / 1236.85
	t2 := t * t
	t3 := t2 * t
	t4 := t3 * t

	jde := lunationEpochJDE + SynodicMonth*k +
		0.00015437*t2 - 0.000000150*t3 + 0.00000000073*t4

	e := 1 - 0.002516*t - 0.0000074*t2
	m := 2.5534 + 29.10535670*k - 0.0000014*t2 - 0.00000011*t3
	mp := 201.5643 + 385.81693528*k + 0.0107582*t2 + 0.00001238*t3 - 0.000000058*t4
	f := 160.7108 + 390.67050284*k - 0.0016118*t2 - 0.00000227*t3 + 0.000000011*t4
	omega := 124.7746 - 1.56375588*k + 0.0020672*t2 + 0.00000215*t3

	var c float64
	switch target {
	case NewMoon:
		c = -0.40720*sinDeg(mp) +
			0.17241*e*sinDeg(m) +
			0.01608*sinDeg(2*mp) +
			0.01039*sinDeg(2*f) +
			0.00739*e*sinDeg(mp-m) -
			0.00514*e*sinDeg(mp+m) +
			0.00208*e*e*sinDeg(2*m)
	case FullMoon:
		c = -0.40614*sinDeg(mp) +
			0.17302*e*sinDeg(m) +
			0.01614*sinDeg(2*mp) +
			0.01043*sinDeg(2*f) +
			0.00734*e*sinDeg(mp-m) -
			0.00515*e*sinDeg(mp+m) +
			0.00209*e*e*sinDeg(2*m)
	default:
		return jde
	}

	// terms shared by new and full moons
	c += -0.00111*sinDeg(mp-2*f) -
		0.00057*sinDeg(mp+2*f) +
		0.00056*e*sinDeg(2*mp+m) -
		0.00042*sinDeg(3*mp) +
		0.00042*e*sinDeg(m+2*f) +
		0.00038*e*sinDeg(m-2*f) -
		0.00024*e*sinDeg(2*mp-m) -
		0.00017*sinDeg(omega)

	return jde + c
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func sinDeg(d float64) float64 { return math.Sin(d * degToRad) }
func cosDeg(d float64) float64 { return math.Cos(d * degToRad) }
