// Package numeric provides the bracketed root finding, maximization and
// tabular interpolation used by the event search.
//
// Search functions take the objective as f(x, arg) so callers can pass
// their context explicitly instead of closing over it. The bracket must
// contain exactly one extremum or root; this is not validated, and a
// poorly chosen bracket yields a finite but meaningless result.
package numeric

import (
	"math"

	"github.com/soniakeys/meeus/v3/interp"
)

const (
	// MaxTolerance is the bracket width at which FindMax stops.
	MaxTolerance = 1e-7
	maxIterMax   = 200

	// ZeroTolerance is the Newton step size at which FindZero stops.
	ZeroTolerance = 1e-9
	zeroIterMax   = 100

	// derivativeStep is the half-width of the central difference.
	derivativeStep = 1e-5
)

var invPhi = (math.Sqrt(5) - 1) / 2

// FindMax returns the x in [from, to] that maximizes f(x, arg) using
// golden-section search.
func FindMax[A any](f func(x float64, arg A) float64, from, to float64, arg A) float64 {
	a, b := from, to
	if a > b {
		a, b = b, a
	}

	xl := b - (b-a)*invPhi
	xu := a + (b-a)*invPhi
	fl := f(xl, arg)
	fu := f(xu, arg)

	for i := 0; i < maxIterMax && b-a >= MaxTolerance; i++ {
		if fl > fu {
			b = xu
			xu, fu = xl, fl
			xl = b - (b-a)*invPhi
			fl = f(xl, arg)
		} else {
			a = xl
			xl, fl = xu, fu
			xu = a + (b-a)*invPhi
			fu = f(xu, arg)
		}
	}
	return (a + b) / 2
}

// FindZero returns an x near the single root of f(x, arg) in [from, to]
// using Newton's method with a central finite-difference derivative,
// starting from the bracket midpoint.
func FindZero[A any](f func(x float64, arg A) float64, from, to float64, arg A) float64 {
	x, _ := FindZeroConverged(f, from, to, arg)
	return x
}

// FindZeroConverged is FindZero that also reports whether the Newton step
// dropped below ZeroTolerance within the iteration limit.
func FindZeroConverged[A any](f func(x float64, arg A) float64, from, to float64, arg A) (float64, bool) {
	x := (from + to) / 2
	for i := 0; i < zeroIterMax; i++ {
		fx := f(x, arg)
		if fx == 0 {
			return x, true
		}
		d := (f(x+derivativeStep, arg) - f(x-derivativeStep, arg)) / (2 * derivativeStep)
		if d == 0 || math.IsNaN(d) {
			return x, false
		}
		dx := fx / d
		x -= dx
		if math.Abs(dx) < ZeroTolerance {
			return x, true
		}
	}
	return x, false
}

// Interpolate3 interpolates from three equally spaced tabular values.
// n is the interpolating factor measured from the central value y2, in
// units of the tabular interval.
func Interpolate3(n, y1, y2, y3 float64) float64 {
	d, err := interp.NewLen3(-1, 1, []float64{y1, y2, y3})
	if err != nil {
		return math.NaN()
	}
	return d.InterpolateN(n)
}

// Interpolate5 interpolates from five equally spaced tabular values with
// n measured from the central value y3.
func Interpolate5(n, y1, y2, y3, y4, y5 float64) float64 {
	d, err := interp.NewLen5(-2, 2, []float64{y1, y2, y3, y4, y5})
	if err != nil {
		return math.NaN()
	}
	return d.InterpolateN(n)
}
