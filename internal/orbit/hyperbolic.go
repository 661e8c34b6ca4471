package orbit

import (
	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/kepler"
)

// State solves Barker's equation (or the hyperbolic Kepler equation when
// the Barker series diverges) at jd. Mean and eccentric anomaly are left
// zero.
func (el HyperbolicElements) State(jd float64) State {
	nu, ok := kepler.HyperbolicTrueAnomaly(el.Q, el.E, jd-el.Perihelion)
	return State{
		TrueAnomaly: nu,
		Radius:      kepler.ConicRadius(el.Q, el.E, nu),
		Converged:   ok,
	}
}

// HelioRect returns the heliocentric ecliptic J2000 position at jd.
func (el HyperbolicElements) HelioRect(jd float64) astro.RectangularPosition {
	s := el.State(jd)
	return orbitToEcliptic(s.TrueAnomaly, s.Radius, el.I, el.W, el.Node)
}

// GeoRect returns the geometric geocentric ecliptic J2000 position at jd.
func (el HyperbolicElements) GeoRect(jd float64) astro.RectangularPosition {
	return geoRect(el, jd)
}

// EquatorialCoords returns light-time corrected J2000 RA/Dec at jd.
func (el HyperbolicElements) EquatorialCoords(jd float64) astro.EquatorialPosition {
	return equCoords(el, jd)
}

// ApparentCoords returns RA/Dec referred to the true equator and equinox
// of date.
func (el HyperbolicElements) ApparentCoords(jd float64) astro.EquatorialPosition {
	return apparentCoords(el, jd)
}

// SolarDistance returns the distance from the Sun in AU.
func (el HyperbolicElements) SolarDistance(jd float64) float64 {
	return el.State(jd).Radius
}

// EarthDistance returns the geometric distance from Earth in AU.
func (el HyperbolicElements) EarthDistance(jd float64) float64 {
	return el.GeoRect(jd).Distance()
}

// PhaseAngle returns the Sun-body-Earth angle in degrees.
func (el HyperbolicElements) PhaseAngle(jd float64) float64 {
	return phaseAngle(el, jd)
}

// Elongation returns the Sun-Earth-body angle in degrees.
func (el HyperbolicElements) Elongation(jd float64) float64 {
	return elongation(el, jd)
}
