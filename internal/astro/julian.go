// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// SiderealDay is the length of a sidereal day in solar days.
const SiderealDay = 1 / 1.00273790935

// JulianDate returns the Julian Day for a time (converted to UTC).
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// TimeFromJD returns the UTC time for a Julian Day.
func TimeFromJD(jd float64) time.Time {
	return julian.JDToTime(jd).UTC()
}

// DayStart returns the Julian Day of 0h UT on the calendar day that
// contains jd.
func DayStart(jd float64) float64 {
	return math.Floor(jd-0.5) + 0.5
}
