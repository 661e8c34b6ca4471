// Package kepler solves Kepler's and Barker's equations for two-body orbits.
//
// Angular arguments and results are in degrees unless a function says
// otherwise. Distances are in AU and times in days.
package kepler

import "math"

const (
	// GaussK is the Gaussian gravitational constant (AU^1.5 / day).
	GaussK = 0.01720209895

	// meanMotionFactor is GaussK expressed in degrees, so that
	// n = meanMotionFactor / a^1.5 gives degrees per day.
	meanMotionFactor = 0.9856076686

	keplerTolerance = 1e-12
	keplerMaxIter   = 50
)

// SolveKepler solves E - e*sin(E) = M for the eccentric anomaly E using
// Newton-Raphson. M and E are in degrees, 0 <= e < 1.
//
// The mean anomaly is folded into [0, 180] where the equation is convex,
// and iterates are kept inside that interval, so the iteration cannot run
// away even for e close to 1. The best estimate is always returned;
// converged reports whether the step size dropped below tolerance.
func SolveKepler(e, M float64) (E float64, converged bool) {
	m := degToRad(normalize360(M))

	mirrored := false
	if m > math.Pi {
		m = 2*math.Pi - m
		mirrored = true
	}

	// Starting at pi keeps Newton on the convex side of the root when the
	// orbit is highly eccentric.
	x := m
	if e >= 0.8 {
		x = math.Pi
	}

	for i := 0; i < keplerMaxIter; i++ {
		delta := (x - e*math.Sin(x) - m) / (1 - e*math.Cos(x))
		x -= delta
		x = clamp(x, 0, math.Pi)
		if math.Abs(delta) < keplerTolerance {
			converged = true
			break
		}
	}

	if mirrored {
		x = 2*math.Pi - x
	}
	return radToDeg(x), converged
}

// MeanMotion returns the mean daily motion in degrees/day for an orbit
// with semi-major axis a (AU).
func MeanMotion(a float64) float64 {
	return meanMotionFactor / (a * math.Sqrt(a))
}

// MeanAnomaly returns the mean anomaly in degrees, normalized to [0, 360),
// after dt days at mean motion n (degrees/day).
func MeanAnomaly(n, dt float64) float64 {
	return normalize360(n * dt)
}

// TrueAnomaly returns the true anomaly in degrees [0, 360) for eccentric
// anomaly E (degrees).
func TrueAnomaly(e, E float64) float64 {
	half := degToRad(E) / 2
	nu := 2 * math.Atan2(math.Sqrt(1+e)*math.Sin(half), math.Sqrt(1-e)*math.Cos(half))
	return normalize360(radToDeg(nu))
}

// RadiusVector returns the heliocentric distance (AU) at eccentric anomaly E.
func RadiusVector(a, e, E float64) float64 {
	return a * (1 - e*math.Cos(degToRad(E)))
}

// SemiMajorAxis returns a from eccentricity and perihelion distance q.
func SemiMajorAxis(e, q float64) float64 {
	return q / (1 - e)
}

// SemiMinorAxis returns b = a*sqrt(1-e^2).
func SemiMinorAxis(e, a float64) float64 {
	return a * math.Sqrt(1-e*e)
}

// LastPerihelion returns the JD of the perihelion passage preceding epoch,
// given the mean anomaly M (degrees) at epoch and mean motion n.
func LastPerihelion(epoch, M, n float64) float64 {
	return epoch - normalize360(M)/n
}

func normalize360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
