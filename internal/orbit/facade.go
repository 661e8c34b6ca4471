package orbit

import (
	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/rst"
)

// EllipticRST returns rise, transit and set on the UT day containing jd
// for the geometric horizon.
func EllipticRST(jd float64, obs astro.Observer, el EllipticElements) rst.Result {
	return rst.RiseSetTransit(jd, obs, el)
}

// EllipticRSTHorizon is EllipticRST for an arbitrary horizon in degrees.
func EllipticRSTHorizon(jd float64, obs astro.Observer, el EllipticElements, horizon float64) rst.Result {
	return rst.RiseSetTransitHorizon(jd, obs, el, horizon)
}

// EllipticNextRST returns the next rise, transit and set after jd.
func EllipticNextRST(jd float64, obs astro.Observer, el EllipticElements) rst.Result {
	return rst.NextRiseSetTransit(jd, obs, el)
}

// EllipticNextRSTHorizon is EllipticNextRST for an arbitrary horizon.
func EllipticNextRSTHorizon(jd float64, obs astro.Observer, el EllipticElements, horizon float64) rst.Result {
	return rst.NextRiseSetTransitHorizon(jd, obs, el, horizon)
}

// EllipticNextRSTHorizonFuture searches up to dayLimit days ahead.
func EllipticNextRSTHorizonFuture(jd float64, obs astro.Observer, el EllipticElements, horizon float64, dayLimit int) rst.Result {
	return rst.NextRiseSetTransitHorizonFuture(jd, obs, el, horizon, dayLimit)
}

// HyperbolicRST returns rise, transit and set on the UT day containing jd
// for the geometric horizon.
func HyperbolicRST(jd float64, obs astro.Observer, el HyperbolicElements) rst.Result {
	return rst.RiseSetTransit(jd, obs, el)
}

// HyperbolicRSTHorizon is HyperbolicRST for an arbitrary horizon in degrees.
func HyperbolicRSTHorizon(jd float64, obs astro.Observer, el HyperbolicElements, horizon float64) rst.Result {
	return rst.RiseSetTransitHorizon(jd, obs, el, horizon)
}

// HyperbolicNextRST returns the next rise, transit and set after jd.
func HyperbolicNextRST(jd float64, obs astro.Observer, el HyperbolicElements) rst.Result {
	return rst.NextRiseSetTransit(jd, obs, el)
}

// HyperbolicNextRSTHorizon is HyperbolicNextRST for an arbitrary horizon.
func HyperbolicNextRSTHorizon(jd float64, obs astro.Observer, el HyperbolicElements, horizon float64) rst.Result {
	return rst.NextRiseSetTransitHorizon(jd, obs, el, horizon)
}

// HyperbolicNextRSTHorizonFuture searches up to dayLimit days ahead.
func HyperbolicNextRSTHorizonFuture(jd float64, obs astro.Observer, el HyperbolicElements, horizon float64, dayLimit int) rst.Result {
	return rst.NextRiseSetTransitHorizonFuture(jd, obs, el, horizon, dayLimit)
}
