// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/solar"
)

// SunGeocentric returns the geometric geocentric position of the Sun in
// the ecliptic J2000 frame, in AU. Accuracy is about 0.01 degrees, which
// matches the low-precision solar theory it is built on.
func SunGeocentric(jd float64) RectangularPosition {
	T := base.J2000Century(jd)
	s, _ := solar.True(T)
	R := solar.Radius(T)

	// Reduce the true longitude from the equinox of date to J2000.
	lon := degToRad(s.Deg() - 0.01397*T*100)

	return RectangularPosition{
		Vec3:   Vec3{X: R * math.Cos(lon), Y: R * math.Sin(lon)},
		Origin: Geocentric,
		Basis:  EclipticJ2000,
	}
}

// EarthHeliocentric returns Earth's heliocentric ecliptic J2000 position.
func EarthHeliocentric(jd float64) RectangularPosition {
	sun := SunGeocentric(jd)
	return RectangularPosition{
		Vec3:   sun.Scale(-1),
		Origin: Heliocentric,
		Basis:  EclipticJ2000,
	}
}

// SunPosition returns the apparent equatorial coordinates of the Sun of date.
func SunPosition(jd float64) EquatorialPosition {
	ra, dec := solar.ApparentEquatorial(jd)
	return EquatorialPosition{
		RAdeg:  normalizeAngle360(ra.Deg()),
		DecDeg: dec.Deg(),
	}
}

// SunSeparation calculates the angular separation between the Sun and a
// target given in apparent coordinates of date. Returns degrees.
func SunSeparation(target EquatorialPosition, jd float64) float64 {
	sun := SunPosition(jd)
	return AngularSeparation(sun.RAdeg, sun.DecDeg, target.RAdeg, target.DecDeg)
}

// AngularSeparation calculates the angular separation between two points on the celestial sphere.
// All coordinates in degrees. Returns separation in degrees.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	ra1Rad := degToRad(ra1)
	dec1Rad := degToRad(dec1)
	ra2Rad := degToRad(ra2)
	dec2Rad := degToRad(dec2)

	// Haversine formula for angular separation
	dRA := ra2Rad - ra1Rad
	dDec := dec2Rad - dec1Rad

	a := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1Rad)*math.Cos(dec2Rad)*math.Sin(dRA/2)*math.Sin(dRA/2)

	// Clamp to avoid numerical errors with asin
	if a > 1 {
		a = 1
	}

	return radToDeg(2 * math.Asin(math.Sqrt(a)))
}

// SunSeparationTier categorizes sun separation for display.
type SunSeparationTier int

const (
	SunSepSafe    SunSeparationTier = iota // >= 20 degrees
	SunSepCaution                          // 10-20 degrees
	SunSepWarning                          // < 10 degrees
)

// GetSunSeparationTier returns the tier for a given separation angle.
func GetSunSeparationTier(sepDeg float64) SunSeparationTier {
	switch {
	case sepDeg < 10:
		return SunSepWarning
	case sepDeg < 20:
		return SunSepCaution
	default:
		return SunSepSafe
	}
}

// String returns the tier name.
func (t SunSeparationTier) String() string {
	switch t {
	case SunSepSafe:
		return "SAFE"
	case SunSepCaution:
		return "CAUTION"
	case SunSepWarning:
		return "WARNING"
	default:
		return "?"
	}
}
