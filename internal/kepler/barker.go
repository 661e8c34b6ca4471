package kepler

import "math"

const (
	barkerTolerance  = 1e-9
	barkerMaxTerms   = 50
	barkerMaxPasses  = 50
	barkerDivergence = 1e4

	hyperbolicTolerance = 1e-12
	hyperbolicMaxIter   = 100
)

// SolveBarker solves Barker's equation for near-parabolic motion and
// returns s = tan(nu/2).
//
// q1 = GaussK/(2q) * sqrt((1+e)/q), g = (1-e)/(1+e) and t is the time since
// perihelion in days. For g == 0 the closed-form parabolic solution is
// exact. Otherwise the parabolic value is refined with Landgraf's series
// (Meeus, ch. 35). The series diverges for strongly hyperbolic or strongly
// elliptic orbits; converged is false in that case and the closed-form
// parabolic estimate is returned.
func SolveBarker(q1, g, t float64) (s float64, converged bool) {
	q2 := q1 * t
	s = 2 / (3 * math.Abs(q2))
	s = 2 / math.Tan(2*math.Atan(math.Cbrt(math.Tan(math.Atan(s)/2))))
	if t < 0 {
		s = -s
	}
	if g == 0 {
		return s, true
	}
	parabolic := s

	for pass := 0; pass < barkerMaxPasses; pass++ {
		s0 := s
		y := s * s
		g1 := -y * s
		q3 := q2 + 2*g*s*y/3

		for z := 2; ; z++ {
			g1 = -g1 * g * y
			z1 := (float64(z) - float64(z+1)*g) / float64(2*z+1)
			f := z1 * g1
			q3 += f
			if z > barkerMaxTerms || math.Abs(f) > barkerDivergence {
				return parabolic, false
			}
			if math.Abs(f) <= barkerTolerance {
				break
			}
		}

		for i := 0; i < barkerMaxPasses; i++ {
			prev := s
			s = (2*s*s*s/3 + q3) / (s*s + 1)
			if math.Abs(s-prev) <= barkerTolerance {
				break
			}
		}

		if math.Abs(s-s0) <= barkerTolerance {
			return s, true
		}
	}
	return s, false
}

// SolveHyperbolicKepler solves e*sinh(H) - H = M for the hyperbolic
// anomaly H (e > 1). M and H are in radians; they are not angles.
func SolveHyperbolicKepler(e, M float64) (H float64, converged bool) {
	m := math.Abs(M)

	// From asinh(M/e) the first step lands right of the root and the
	// iteration then decreases monotonically.
	h := math.Asinh(m / e)
	for i := 0; i < hyperbolicMaxIter; i++ {
		delta := (e*math.Sinh(h) - h - m) / (e*math.Cosh(h) - 1)
		h -= delta
		if math.Abs(delta) < hyperbolicTolerance {
			converged = true
			break
		}
	}

	if M < 0 {
		h = -h
	}
	return h, converged
}

// BarkerParams returns the (q1, g) arguments of SolveBarker for perihelion
// distance q and eccentricity e.
func BarkerParams(q, e float64) (q1, g float64) {
	q1 = GaussK / (2 * q) * math.Sqrt((1+e)/q)
	g = (1 - e) / (1 + e)
	return q1, g
}

// HyperbolicTrueAnomaly returns the true anomaly in degrees, in the range
// (-180, 180), t days after perihelion for an orbit with perihelion
// distance q and eccentricity e (near-parabolic or hyperbolic).
//
// Barker's equation is tried first. When its series does not converge and
// the orbit is hyperbolic, the hyperbolic Kepler equation is solved
// instead. converged reports whether the solution that was used converged.
func HyperbolicTrueAnomaly(q, e, t float64) (nu float64, converged bool) {
	q1, g := BarkerParams(q, e)
	s, ok := SolveBarker(q1, g, t)
	if ok || e <= 1 {
		return radToDeg(2 * math.Atan(s)), ok
	}

	a := q / (e - 1)
	M := GaussK * t / (a * math.Sqrt(a))
	H, ok := SolveHyperbolicKepler(e, M)
	nu = 2 * math.Atan(math.Sqrt((e+1)/(e-1))*math.Tanh(H/2))
	return radToDeg(nu), ok
}

// HyperbolicRadiusVector returns the heliocentric distance (AU) t days
// after perihelion.
func HyperbolicRadiusVector(q, e, t float64) float64 {
	nu, _ := HyperbolicTrueAnomaly(q, e, t)
	return ConicRadius(q, e, nu)
}

// ConicRadius returns r = q(1+e)/(1+e*cos(nu)) for any conic.
func ConicRadius(q, e, nu float64) float64 {
	return q * (1 + e) / (1 + e*math.Cos(degToRad(nu)))
}
