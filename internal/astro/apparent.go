// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/precess"
	"github.com/soniakeys/unit"
)

// ApparentPlace precesses a J2000 direction to the mean equator of date
// and applies nutation in longitude and obliquity.
//
// Annual aberration (up to about 20 arcseconds) is not applied.
func ApparentPlace(eq EquatorialPosition, jd float64) EquatorialPosition {
	mean := precessToDate(eq, jd)

	eps0 := nutation.MeanObliquity(jd)
	dpsi, deps := nutation.Nutation(jd)

	lon, lat := coord.EqToEcl(mean.RA, mean.Dec, eps0.Sin(), eps0.Cos())
	lon += dpsi

	eps := eps0 + deps
	ra, dec := coord.EclToEq(lon, lat, eps.Sin(), eps.Cos())

	return EquatorialPosition{
		RAdeg:  normalizeAngle360(ra.Deg()),
		DecDeg: dec.Deg(),
	}
}

// ToEclipticOfDate re-expresses a geocentric or heliocentric J2000
// position against the mean ecliptic and equinox of date.
func ToEclipticOfDate(p RectangularPosition, jd float64) RectangularPosition {
	if p.Basis == EclipticOfDate {
		return p
	}
	r := p.Norm()
	mean := precessToDate(ToEquatorialPosition(p), jd)

	eps0 := nutation.MeanObliquity(jd)
	lon, lat := coord.EqToEcl(mean.RA, mean.Dec, eps0.Sin(), eps0.Cos())

	sinLon, cosLon := math.Sincos(lon.Rad())
	sinLat, cosLat := math.Sincos(lat.Rad())
	return RectangularPosition{
		Vec3:   Vec3{X: r * cosLat * cosLon, Y: r * cosLat * sinLon, Z: r * sinLat},
		Origin: p.Origin,
		Basis:  EclipticOfDate,
	}
}

func precessToDate(eq EquatorialPosition, jd float64) *coord.Equatorial {
	from := &coord.Equatorial{
		RA:  unit.RAFromDeg(eq.RAdeg),
		Dec: unit.AngleFromDeg(eq.DecDeg),
	}
	return precess.Position(from, &coord.Equatorial{},
		2000, base.JDEToJulianYear(jd), 0, 0)
}
