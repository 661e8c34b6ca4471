// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/nutation"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Origin is the center of a rectangular frame.
type Origin int

const (
	Heliocentric Origin = iota
	Geocentric
)

func (o Origin) String() string {
	switch o {
	case Heliocentric:
		return "heliocentric"
	case Geocentric:
		return "geocentric"
	default:
		return "?"
	}
}

// Basis is the orientation of a rectangular frame.
type Basis int

const (
	EclipticJ2000 Basis = iota
	EquatorialJ2000
	EclipticOfDate
)

func (b Basis) String() string {
	switch b {
	case EclipticJ2000:
		return "ecliptic J2000"
	case EquatorialJ2000:
		return "equatorial J2000"
	case EclipticOfDate:
		return "ecliptic of date"
	default:
		return "?"
	}
}

// RectangularPosition is a position vector in AU tagged with its frame.
type RectangularPosition struct {
	Vec3
	Origin Origin
	Basis  Basis
}

// Distance returns the distance from the frame origin in AU.
func (p RectangularPosition) Distance() float64 {
	return p.Norm()
}

// obliquityJ2000 is the mean obliquity of the ecliptic at J2000.0.
var obliquityJ2000 = nutation.MeanObliquity(base.J2000)

// EclipticToEquatorial rotates an ecliptic J2000 vector to the equatorial
// J2000 frame. Positions already in another basis are returned unchanged.
func EclipticToEquatorial(p RectangularPosition) RectangularPosition {
	if p.Basis != EclipticJ2000 {
		return p
	}
	sinE, cosE := math.Sincos(obliquityJ2000.Rad())
	return RectangularPosition{
		Vec3: Vec3{
			X: p.X,
			Y: p.Y*cosE - p.Z*sinE,
			Z: p.Y*sinE + p.Z*cosE,
		},
		Origin: p.Origin,
		Basis:  EquatorialJ2000,
	}
}

// EquatorialToEcliptic rotates an equatorial J2000 vector to the ecliptic
// J2000 frame. Positions already in another basis are returned unchanged.
func EquatorialToEcliptic(p RectangularPosition) RectangularPosition {
	if p.Basis != EquatorialJ2000 {
		return p
	}
	sinE, cosE := math.Sincos(obliquityJ2000.Rad())
	return RectangularPosition{
		Vec3: Vec3{
			X: p.X,
			Y: p.Y*cosE + p.Z*sinE,
			Z: -p.Y*sinE + p.Z*cosE,
		},
		Origin: p.Origin,
		Basis:  EclipticJ2000,
	}
}

// ToEquatorialPosition returns the RA/Dec direction of a J2000 vector.
func ToEquatorialPosition(p RectangularPosition) EquatorialPosition {
	q := EclipticToEquatorial(p)
	r := q.Norm()
	if r == 0 {
		return EquatorialPosition{}
	}
	return EquatorialPosition{
		RAdeg:  normalizeAngle360(radToDeg(math.Atan2(q.Y, q.X))),
		DecDeg: radToDeg(math.Asin(q.Z / r)),
	}
}

// EclipticLatitude returns the ecliptic latitude in degrees for a vector.
func EclipticLatitude(v Vec3) float64 {
	r := v.Norm()
	if r == 0 {
		return 0
	}
	return radToDeg(math.Asin(v.Z / r))
}

// EclipticLongitude returns the ecliptic longitude in degrees for a vector.
func EclipticLongitude(v Vec3) float64 {
	return normalizeAngle360(radToDeg(math.Atan2(v.Y, v.X)))
}

// LightTime returns the one-way light time in days for a distance in AU.
func LightTime(au float64) float64 {
	return base.LightTime(au)
}
