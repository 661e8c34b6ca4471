// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"
)

// EquatorialPosition is a direction on the celestial sphere.
type EquatorialPosition struct {
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)
}

// HorizontalPosition is a direction relative to an observer's horizon.
// It is only meaningful for the observer and instant it was computed for.
type HorizontalPosition struct {
	AzDeg  float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	AltDeg float64 // Altitude in degrees (0=horizon, 90=zenith)
}

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 // Latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
	Name   string  // Optional name for the site
}

// EquatorialToHorizontal converts apparent equatorial coordinates of date
// to horizontal coordinates for an observer at Julian Day jd (UT).
//
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Altitude: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(eq EquatorialPosition, obs Observer, jd float64) HorizontalPosition {
	// EqToHz takes longitude positive west and returns azimuth measured
	// westward from the south.
	A, h := coord.EqToHz(
		unit.RAFromDeg(eq.RAdeg),
		unit.AngleFromDeg(eq.DecDeg),
		unit.AngleFromDeg(obs.LatDeg),
		unit.AngleFromDeg(-obs.LonDeg),
		sidereal.Apparent(jd),
	)

	return HorizontalPosition{
		AzDeg:  normalizeAngle360(A.Deg() + 180),
		AltDeg: h.Deg(),
	}
}

// Altitude returns only the altitude part of EquatorialToHorizontal.
func Altitude(eq EquatorialPosition, obs Observer, jd float64) float64 {
	return EquatorialToHorizontal(eq, obs, jd).AltDeg
}

// LocalSiderealTime returns the apparent local sidereal time in degrees
// at Julian Day jd (UT) for an east-positive longitude.
func LocalSiderealTime(jd, lonDeg float64) float64 {
	gast := radToDeg(sidereal.Apparent(jd).Rad())
	return normalizeAngle360(gast + lonDeg)
}

// HourAngle returns the local hour angle of eq in degrees, normalized to
// (-180, 180]. Negative values are east of the meridian.
func HourAngle(eq EquatorialPosition, obs Observer, jd float64) float64 {
	h := normalizeAngle360(LocalSiderealTime(jd, obs.LonDeg) - eq.RAdeg)
	if h > 180 {
		h -= 360
	}
	return h
}

// SemiDiurnalArc returns the hour angle in degrees at which an object at
// declination decDeg crosses the altitude horizonDeg, and a classification:
// +1 if the object never goes below that altitude, -1 if it never reaches
// it, 0 otherwise (arc valid).
func SemiDiurnalArc(decDeg, latDeg, horizonDeg float64) (arcDeg float64, circumpolar int) {
	lat := degToRad(latDeg)
	dec := degToRad(decDeg)

	cosH := (math.Sin(degToRad(horizonDeg)) - math.Sin(lat)*math.Sin(dec)) /
		(math.Cos(lat) * math.Cos(dec))

	switch {
	case cosH < -1:
		return 180, 1
	case cosH > 1:
		return 0, -1
	}
	return radToDeg(math.Acos(cosH)), 0
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
