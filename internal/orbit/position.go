package orbit

import (
	"math"

	"github.com/litescript/ls-orbits/internal/astro"
)

// heliocentric is implemented by both orbit types.
type heliocentric interface {
	HelioRect(jd float64) astro.RectangularPosition
}

// orbitToEcliptic rotates a point at true anomaly nu and radius r from the
// orbital plane to heliocentric ecliptic J2000 coordinates.
func orbitToEcliptic(nu, r, inc, w, node float64) astro.RectangularPosition {
	sinU, cosU := math.Sincos(degToRad(w + nu))
	sinO, cosO := math.Sincos(degToRad(node))
	sinI, cosI := math.Sincos(degToRad(inc))

	return astro.RectangularPosition{
		Vec3: astro.Vec3{
			X: r * (cosO*cosU - sinO*sinU*cosI),
			Y: r * (sinO*cosU + cosO*sinU*cosI),
			Z: r * sinU * sinI,
		},
		Origin: astro.Heliocentric,
		Basis:  astro.EclipticJ2000,
	}
}

// geoRect returns the geometric geocentric ecliptic J2000 position.
func geoRect(h heliocentric, jd float64) astro.RectangularPosition {
	return toGeocentric(h.HelioRect(jd), jd)
}

func toGeocentric(helio astro.RectangularPosition, jd float64) astro.RectangularPosition {
	sun := astro.SunGeocentric(jd)
	return astro.RectangularPosition{
		Vec3:   helio.Add(sun.Vec3),
		Origin: astro.Geocentric,
		Basis:  astro.EclipticJ2000,
	}
}

// equCoords returns astrometric J2000 RA/Dec corrected for light time:
// the body is taken where it was when the light left it.
func equCoords(h heliocentric, jd float64) astro.EquatorialPosition {
	tau := astro.LightTime(geoRect(h, jd).Distance())
	retarded := toGeocentric(h.HelioRect(jd-tau), jd)
	return astro.ToEquatorialPosition(retarded)
}

// apparentCoords returns RA/Dec of date for horizon work.
func apparentCoords(h heliocentric, jd float64) astro.EquatorialPosition {
	return astro.ApparentPlace(equCoords(h, jd), jd)
}

// phaseAngle returns the Sun-body-Earth angle in degrees.
func phaseAngle(h heliocentric, jd float64) float64 {
	r := h.HelioRect(jd).Distance()
	delta := geoRect(h, jd).Distance()
	R := astro.SunGeocentric(jd).Distance()
	return lawOfCosines(r, delta, R)
}

// elongation returns the Sun-Earth-body angle in degrees.
func elongation(h heliocentric, jd float64) float64 {
	r := h.HelioRect(jd).Distance()
	delta := geoRect(h, jd).Distance()
	R := astro.SunGeocentric(jd).Distance()
	return lawOfCosines(R, delta, r)
}

// lawOfCosines returns the angle between sides a and b opposite c.
func lawOfCosines(a, b, c float64) float64 {
	cos := (a*a + b*b - c*c) / (2 * a * b)
	return radToDeg(math.Acos(math.Max(-1, math.Min(1, cos))))
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
