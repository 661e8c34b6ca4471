// Package rst finds rise, transit and set instants of a moving body for a
// ground observer.
//
// The search works one UT calendar day at a time. The transit is located
// as the altitude maximum near the closed-form meridian estimate, the day
// is classified as circumpolar, never-rising or normal, and rise and set
// are then found as zeros of (altitude - horizon) either side of transit.
// Every loop is bounded, so a query always terminates.
package rst

import (
	"math"
	"time"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/numeric"
)

// Body is anything with an apparent place of date at a given Julian Day.
type Body interface {
	ApparentCoords(jd float64) astro.EquatorialPosition
}

// BodyFunc adapts a plain function to Body.
type BodyFunc func(jd float64) astro.EquatorialPosition

// ApparentCoords calls f(jd).
func (f BodyFunc) ApparentCoords(jd float64) astro.EquatorialPosition {
	return f(jd)
}

// Status classifies the outcome of a query.
type Status int

const (
	Found               Status = iota // Body crosses the horizon
	AlwaysAboveHorizon                // Circumpolar for the whole window
	AlwaysBelowHorizon                // Never reaches the horizon
	NotFoundWithinLimit               // Day limit exhausted before all events were seen
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Found:
		return "FOUND"
	case AlwaysAboveHorizon:
		return "ALWAYS_ABOVE_HORIZON"
	case AlwaysBelowHorizon:
		return "ALWAYS_BELOW_HORIZON"
	case NotFoundWithinLimit:
		return "NOT_FOUND_WITHIN_LIMIT"
	default:
		return "?"
	}
}

// Event is an optional instant.
type Event struct {
	JD    float64
	Valid bool
}

// Time returns the event as UTC time, or the zero time if absent.
func (e Event) Time() time.Time {
	if !e.Valid {
		return time.Time{}
	}
	return astro.TimeFromJD(e.JD)
}

// Result holds the events of one query.
type Result struct {
	Rise    Event
	Transit Event
	Set     Event

	TransitAltitude float64 // Geometric altitude at transit, degrees
	Status          Status
}

// Horizon altitudes in degrees.
const (
	HorizonGeometric = 0.0
	HorizonStellar   = -0.5667 // Standard refraction
	HorizonSolar     = -0.8333 // Refraction plus solar semidiameter
)

const (
	// DefaultDayLimit is the number of days after the current one that a
	// next-occurrence query inspects.
	DefaultDayLimit = 1

	// MaxDayLimit caps the day-advance loop.
	MaxDayLimit = 3660

	// siderealRate is the Earth's rotation in degrees per solar day.
	siderealRate = 360.985647

	transitHalfWidth = 0.25
	maxReseek        = 2
	slopeStep        = 1e-3
)

// query is the per-call working state shared by the callbacks.
type query struct {
	body    Body
	obs     astro.Observer
	horizon float64
}

// relativeAltitude returns altitude minus the horizon at jd.
func relativeAltitude(jd float64, q *query) float64 {
	eq := q.body.ApparentCoords(jd)
	return astro.Altitude(eq, q.obs, jd) - q.horizon
}

func negRelativeAltitude(jd float64, q *query) float64 {
	return -relativeAltitude(jd, q)
}

// RiseSetTransit returns the events on the UT day containing jd for the
// geometric horizon.
func RiseSetTransit(jd float64, obs astro.Observer, body Body) Result {
	return RiseSetTransitHorizon(jd, obs, body, HorizonGeometric)
}

// RiseSetTransitHorizon returns the events on the UT day containing jd for
// an arbitrary horizon altitude in degrees.
//
// Events are reported only if they fall inside the day. Transit is also
// reported for AlwaysAboveHorizon; rise and set are absent for both
// circumpolar statuses.
func RiseSetTransitHorizon(jd float64, obs astro.Observer, body Body, horizon float64) Result {
	q := &query{body: body, obs: obs, horizon: horizon}
	return q.day(astro.DayStart(jd))
}

// window is the UT day [start, end) a search reports events in.
type window struct {
	start, end float64
}

func (w window) contains(jd float64) bool {
	return jd >= w.start && jd < w.end
}

// day runs the search for the day starting at start.
func (q *query) day(start float64) Result {
	w := window{start: start, end: start + 1}

	// Seed transit from the hour angle at the start of the window.
	eq0 := q.body.ApparentCoords(start)
	seed := start + normalize360(-astro.HourAngle(eq0, q.obs, start))/siderealRate

	transit := q.findTransit(seed)
	for i := 0; i < maxReseek && !w.contains(transit); i++ {
		if transit < w.start {
			seed += astro.SiderealDay
		} else {
			seed -= astro.SiderealDay
		}
		transit = q.findTransit(seed)
	}

	res := Result{
		Transit:         Event{JD: transit, Valid: w.contains(transit)},
		TransitAltitude: relativeAltitude(transit, q) + q.horizon,
	}

	if res.TransitAltitude < q.horizon {
		res.Status = AlwaysBelowHorizon
		res.Transit = Event{}
		return res
	}

	lower := numeric.FindMax(negRelativeAltitude, transit+transitHalfWidth, transit+1-transitHalfWidth, q)
	if relativeAltitude(lower, q) > 0 {
		res.Status = AlwaysAboveHorizon
		return res
	}

	// The closed-form arc can disagree with the numeric classification
	// right at the circumpolar boundary; keep the seeds inside the day.
	eqT := q.body.ApparentCoords(transit)
	arc, class := astro.SemiDiurnalArc(eqT.DecDeg, q.obs.LatDeg, q.horizon)
	switch class {
	case 1:
		arc = 179
	case -1:
		arc = 1
	}
	half := arc / siderealRate

	res.Status = Found
	res.Rise = q.findCrossing(transit-half, true, w)
	res.Set = q.findCrossing(transit+half, false, w)
	return res
}

// findTransit maximizes altitude around seed.
func (q *query) findTransit(seed float64) float64 {
	return numeric.FindMax(relativeAltitude, seed-transitHalfWidth, seed+transitHalfWidth, q)
}

// findCrossing locates the horizon crossing nearest seed and moves it by
// whole sidereal days until it lands in the window.
func (q *query) findCrossing(seed float64, rising bool, w window) Event {
	for i := 0; i <= maxReseek; i++ {
		jd, ok := q.crossing(seed, rising)
		switch {
		case !ok:
			return Event{}
		case w.contains(jd):
			return Event{JD: jd, Valid: true}
		case jd < w.start:
			seed = jd + astro.SiderealDay
		default:
			seed = jd - astro.SiderealDay
		}
	}
	return Event{}
}

// crossing runs Newton from seed and checks the root has the expected
// direction of motion.
func (q *query) crossing(seed float64, rising bool) (float64, bool) {
	jd, ok := numeric.FindZeroConverged(relativeAltitude, seed-transitHalfWidth, seed+transitHalfWidth, q)
	if !ok || math.Abs(jd-seed) > transitHalfWidth {
		return 0, false
	}
	slope := relativeAltitude(jd+slopeStep, q) - relativeAltitude(jd-slopeStep, q)
	if rising != (slope > 0) {
		return 0, false
	}
	return jd, true
}

func normalize360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
