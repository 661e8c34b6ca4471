// Package orbit computes positions of bodies on Keplerian elliptic and
// hyperbolic orbits and exposes their rise, transit and set times.
package orbit

import (
	"errors"
	"fmt"
	"math"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/kepler"
)

// ErrInvalidElements is returned by Validate for elements that cannot
// describe an orbit of the given type.
var ErrInvalidElements = errors.New("invalid orbital elements")

// EllipticElements describes a closed orbit. Angles are in degrees and
// referred to the ecliptic and equinox of J2000.
type EllipticElements struct {
	A          float64 // Semi-major axis, AU
	E          float64 // Eccentricity, 0 <= e < 1
	I          float64 // Inclination
	W          float64 // Argument of perihelion
	Node       float64 // Longitude of ascending node
	Perihelion float64 // Time of perihelion passage, JD
}

// NewEllipticFromMeanAnomaly builds elements from the mean anomaly M at
// epoch, as listed in most planetary and asteroid catalogs.
func NewEllipticFromMeanAnomaly(a, e, i, w, node, M, epoch float64) EllipticElements {
	return EllipticElements{
		A:          a,
		E:          e,
		I:          i,
		W:          w,
		Node:       node,
		Perihelion: kepler.LastPerihelion(epoch, M, kepler.MeanMotion(a)),
	}
}

// NewEllipticFromPerihelionDistance builds elements from the perihelion
// distance q and time of perihelion T, as listed for periodic comets.
func NewEllipticFromPerihelionDistance(q, e, i, w, node, T float64) EllipticElements {
	return EllipticElements{
		A:          kepler.SemiMajorAxis(e, q),
		E:          e,
		I:          i,
		W:          w,
		Node:       node,
		Perihelion: T,
	}
}

// MeanMotion returns the mean daily motion in degrees/day.
func (el EllipticElements) MeanMotion() float64 {
	return kepler.MeanMotion(el.A)
}

// PerihelionDistance returns q = a(1-e).
func (el EllipticElements) PerihelionDistance() float64 {
	return el.A * (1 - el.E)
}

// Period returns the orbital period in days.
func (el EllipticElements) Period() float64 {
	return 360 / el.MeanMotion()
}

// Validate reports whether the elements describe an ellipse.
func (el EllipticElements) Validate() error {
	switch {
	case !(el.A > 0) || math.IsInf(el.A, 0):
		return fmt.Errorf("%w: semi-major axis %v must be positive", ErrInvalidElements, el.A)
	case !(el.E >= 0 && el.E < 1):
		return fmt.Errorf("%w: eccentricity %v outside [0, 1)", ErrInvalidElements, el.E)
	case math.IsNaN(el.I) || math.IsNaN(el.W) || math.IsNaN(el.Node) || math.IsNaN(el.Perihelion):
		return fmt.Errorf("%w: NaN angle or epoch", ErrInvalidElements)
	}
	return nil
}

// HyperbolicElements describes an open (or parabolic) orbit. Angles are in
// degrees and referred to the ecliptic and equinox of J2000.
type HyperbolicElements struct {
	Q          float64 // Perihelion distance, AU
	E          float64 // Eccentricity, e >= 1
	I          float64 // Inclination
	W          float64 // Argument of perihelion
	Node       float64 // Longitude of ascending node
	Perihelion float64 // Time of perihelion passage, JD
}

// Validate reports whether the elements describe a parabola or hyperbola.
func (el HyperbolicElements) Validate() error {
	switch {
	case !(el.Q > 0) || math.IsInf(el.Q, 0):
		return fmt.Errorf("%w: perihelion distance %v must be positive", ErrInvalidElements, el.Q)
	case !(el.E >= 1) || math.IsInf(el.E, 0):
		return fmt.Errorf("%w: eccentricity %v must be at least 1", ErrInvalidElements, el.E)
	case math.IsNaN(el.I) || math.IsNaN(el.W) || math.IsNaN(el.Node) || math.IsNaN(el.Perihelion):
		return fmt.Errorf("%w: NaN angle or epoch", ErrInvalidElements)
	}
	return nil
}

// State is the in-orbit position at one instant.
type State struct {
	MeanAnomaly      float64 // degrees; zero for hyperbolic orbits
	EccentricAnomaly float64 // degrees; zero for hyperbolic orbits
	TrueAnomaly      float64 // degrees
	Radius           float64 // AU
	Converged        bool    // the equation solver met its tolerance
}

// Orbit is implemented by EllipticElements and HyperbolicElements.
type Orbit interface {
	State(jd float64) State
	HelioRect(jd float64) astro.RectangularPosition
	GeoRect(jd float64) astro.RectangularPosition
	EquatorialCoords(jd float64) astro.EquatorialPosition
	ApparentCoords(jd float64) astro.EquatorialPosition
	SolarDistance(jd float64) float64
	EarthDistance(jd float64) float64
	PhaseAngle(jd float64) float64
	Elongation(jd float64) float64
	Validate() error
}

var (
	_ Orbit = EllipticElements{}
	_ Orbit = HyperbolicElements{}
)
