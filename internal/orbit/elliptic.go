package orbit

import (
	"math"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/kepler"
)

// Orbital velocity constants, km/s (Meeus, ch. 38).
const (
	visVivaFactor   = 42.1219
	meanOrbitalVelo = 29.7847
)

// State solves Kepler's equation at jd.
func (el EllipticElements) State(jd float64) State {
	M := kepler.MeanAnomaly(el.MeanMotion(), jd-el.Perihelion)
	E, ok := kepler.SolveKepler(el.E, M)
	return State{
		MeanAnomaly:      M,
		EccentricAnomaly: E,
		TrueAnomaly:      kepler.TrueAnomaly(el.E, E),
		Radius:           kepler.RadiusVector(el.A, el.E, E),
		Converged:        ok,
	}
}

// HelioRect returns the heliocentric ecliptic J2000 position at jd.
func (el EllipticElements) HelioRect(jd float64) astro.RectangularPosition {
	s := el.State(jd)
	return orbitToEcliptic(s.TrueAnomaly, s.Radius, el.I, el.W, el.Node)
}

// GeoRect returns the geometric geocentric ecliptic J2000 position at jd.
func (el EllipticElements) GeoRect(jd float64) astro.RectangularPosition {
	return geoRect(el, jd)
}

// EquatorialCoords returns light-time corrected J2000 RA/Dec at jd.
func (el EllipticElements) EquatorialCoords(jd float64) astro.EquatorialPosition {
	return equCoords(el, jd)
}

// ApparentCoords returns RA/Dec referred to the true equator and equinox
// of date.
func (el EllipticElements) ApparentCoords(jd float64) astro.EquatorialPosition {
	return apparentCoords(el, jd)
}

// SolarDistance returns the distance from the Sun in AU.
func (el EllipticElements) SolarDistance(jd float64) float64 {
	return el.State(jd).Radius
}

// EarthDistance returns the geometric distance from Earth in AU.
func (el EllipticElements) EarthDistance(jd float64) float64 {
	return el.GeoRect(jd).Distance()
}

// PhaseAngle returns the Sun-body-Earth angle in degrees.
func (el EllipticElements) PhaseAngle(jd float64) float64 {
	return phaseAngle(el, jd)
}

// Elongation returns the Sun-Earth-body angle in degrees.
func (el EllipticElements) Elongation(jd float64) float64 {
	return elongation(el, jd)
}

// SemiMinorAxis returns b in AU.
func (el EllipticElements) SemiMinorAxis() float64 {
	return kepler.SemiMinorAxis(el.E, el.A)
}

// OrbitLength returns the circumference of the orbit in AU using
// Ramanujan's second approximation.
func (el EllipticElements) OrbitLength() float64 {
	a := el.A
	b := el.SemiMinorAxis()
	h := (a - b) * (a - b) / ((a + b) * (a + b))
	return math.Pi * (a + b) * (1 + 3*h/(10+math.Sqrt(4-3*h)))
}

// OrbitVelocity returns the speed relative to the Sun at jd in km/s.
func (el EllipticElements) OrbitVelocity(jd float64) float64 {
	r := el.SolarDistance(jd)
	return visVivaFactor * math.Sqrt(1/r-1/(2*el.A))
}

// PerihelionVelocity returns the speed at perihelion in km/s.
func (el EllipticElements) PerihelionVelocity() float64 {
	return meanOrbitalVelo / math.Sqrt(el.A) * math.Sqrt((1+el.E)/(1-el.E))
}

// AphelionVelocity returns the speed at aphelion in km/s.
func (el EllipticElements) AphelionVelocity() float64 {
	return meanOrbitalVelo / math.Sqrt(el.A) * math.Sqrt((1-el.E)/(1+el.E))
}
