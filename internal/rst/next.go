package rst

import "github.com/litescript/ls-orbits/internal/astro"

// NextRiseSetTransit returns the first rise, transit and set strictly after
// jd for the geometric horizon, looking at most DefaultDayLimit days ahead.
func NextRiseSetTransit(jd float64, obs astro.Observer, body Body) Result {
	return NextRiseSetTransitHorizonFuture(jd, obs, body, HorizonGeometric, DefaultDayLimit)
}

// NextRiseSetTransitHorizon is NextRiseSetTransit for an arbitrary horizon.
func NextRiseSetTransitHorizon(jd float64, obs astro.Observer, body Body, horizon float64) Result {
	return NextRiseSetTransitHorizonFuture(jd, obs, body, horizon, DefaultDayLimit)
}

// NextRiseSetTransitHorizonFuture returns the first rise, transit and set
// strictly after jd, advancing one UT day at a time through the day
// containing jd and dayLimit further days. dayLimit is clamped to
// [1, MaxDayLimit].
//
// With the default limit a circumpolar or never-rising first day is
// reported as such, with the next transit when the body stays up. With a
// longer limit the search keeps going, and NotFoundWithinLimit is returned
// if any of the three events is still missing when the limit runs out.
func NextRiseSetTransitHorizonFuture(jd float64, obs astro.Observer, body Body, horizon float64, dayLimit int) Result {
	dayLimit = min(max(dayLimit, 1), MaxDayLimit)
	q := &query{body: body, obs: obs, horizon: horizon}

	start := astro.DayStart(jd)
	first := q.day(start)

	var next Result
	take := func(r Result) {
		if !next.Rise.Valid && r.Rise.Valid && r.Rise.JD > jd {
			next.Rise = r.Rise
		}
		if !next.Transit.Valid && r.Transit.Valid && r.Transit.JD > jd {
			next.Transit = r.Transit
			next.TransitAltitude = r.TransitAltitude
		}
		if !next.Set.Valid && r.Set.Valid && r.Set.JD > jd {
			next.Set = r.Set
		}
	}
	complete := func() bool {
		return next.Rise.Valid && next.Transit.Valid && next.Set.Valid
	}

	take(first)
	if first.Status != Found && dayLimit == DefaultDayLimit {
		if first.Status == AlwaysAboveHorizon && !next.Transit.Valid {
			take(q.day(start + 1))
		}
		return Result{
			Transit:         next.Transit,
			TransitAltitude: next.TransitAltitude,
			Status:          first.Status,
		}
	}

	for day := 1; day <= dayLimit && !complete(); day++ {
		take(q.day(start + float64(day)))
	}

	if complete() {
		next.Status = Found
	} else {
		next.Status = NotFoundWithinLimit
	}
	return next
}
