package rst

import (
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-orbits/internal/astro"
)

var boston = astro.Observer{LatDeg: 42.3333, LonDeg: -71.0833, Name: "Boston"}

// fixedStar returns a body with constant apparent coordinates.
func fixedStar(ra, dec float64) Body {
	return BodyFunc(func(float64) astro.EquatorialPosition {
		return astro.EquatorialPosition{RAdeg: ra, DecDeg: dec}
	})
}

func altitudeAt(body Body, obs astro.Observer, jd float64) float64 {
	return astro.Altitude(body.ApparentCoords(jd), obs, jd)
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Found, "FOUND"},
		{AlwaysAboveHorizon, "ALWAYS_ABOVE_HORIZON"},
		{AlwaysBelowHorizon, "ALWAYS_BELOW_HORIZON"},
		{NotFoundWithinLimit, "NOT_FOUND_WITHIN_LIMIT"},
		{Status(42), "?"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestEventTime(t *testing.T) {
	if got := (Event{}).Time(); !got.IsZero() {
		t.Errorf("absent event Time() = %v, want zero", got)
	}

	ev := Event{JD: 2451545.0, Valid: true}
	want := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := ev.Time(); got.Sub(want).Abs() > time.Millisecond {
		t.Errorf("Time() = %v, want %v", got, want)
	}
}

func TestRiseSetTransitHorizon_FixedStar(t *testing.T) {
	jd := 2460000.5
	star := fixedStar(100, 20)

	tests := []struct {
		name    string
		horizon float64
	}{
		{"geometric", HorizonGeometric},
		{"stellar", HorizonStellar},
		{"solar", HorizonSolar},
		{"raised", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := RiseSetTransitHorizon(jd, boston, star, tt.horizon)
			if res.Status != Found {
				t.Fatalf("Status = %v, want FOUND", res.Status)
			}

			day := astro.DayStart(jd)
			for name, ev := range map[string]Event{"rise": res.Rise, "transit": res.Transit, "set": res.Set} {
				if !ev.Valid {
					t.Fatalf("%s missing", name)
				}
				if ev.JD < day || ev.JD >= day+1 {
					t.Errorf("%s %v outside day starting %v", name, ev.JD, day)
				}
			}

			// Rise and set are horizon crossings in the right direction.
			if alt := altitudeAt(star, boston, res.Rise.JD); math.Abs(alt-tt.horizon) > 1e-5 {
				t.Errorf("altitude at rise = %v, want %v", alt, tt.horizon)
			}
			if alt := altitudeAt(star, boston, res.Set.JD); math.Abs(alt-tt.horizon) > 1e-5 {
				t.Errorf("altitude at set = %v, want %v", alt, tt.horizon)
			}
			if altitudeAt(star, boston, res.Rise.JD+0.01) <= tt.horizon {
				t.Error("body not rising at rise")
			}
			if altitudeAt(star, boston, res.Set.JD+0.01) >= tt.horizon {
				t.Error("body not setting at set")
			}

			// A fixed star culminates on the meridian.
			ha := astro.HourAngle(star.ApparentCoords(res.Transit.JD), boston, res.Transit.JD)
			if math.Abs(ha) > 0.01 {
				t.Errorf("hour angle at transit = %v, want 0", ha)
			}
			if want := 90 - math.Abs(boston.LatDeg-20); math.Abs(res.TransitAltitude-want) > 1e-4 {
				t.Errorf("TransitAltitude = %v, want %v", res.TransitAltitude, want)
			}
		})
	}
}

func TestRiseSetTransit_HorizonWidensPass(t *testing.T) {
	jd := 2460000.5
	star := fixedStar(250, -10)

	low := RiseSetTransitHorizon(jd, boston, star, HorizonSolar)
	high := RiseSetTransitHorizon(jd, boston, star, 15)

	if low.Status != Found || high.Status != Found {
		t.Fatalf("statuses = %v, %v, want FOUND", low.Status, high.Status)
	}
	upLow := math.Mod(low.Set.JD-low.Rise.JD+1, 1)
	upHigh := math.Mod(high.Set.JD-high.Rise.JD+1, 1)
	if upLow <= upHigh {
		t.Errorf("time above %v° (%v d) not longer than above 15° (%v d)", HorizonSolar, upLow, upHigh)
	}
}

func TestRiseSetTransit_Circumpolar(t *testing.T) {
	tests := []struct {
		name        string
		dec         float64
		want        Status
		wantTransit bool
	}{
		{"near pole", 85, AlwaysAboveHorizon, true},
		{"just circumpolar", 49, AlwaysAboveHorizon, true},
		{"southern", -60, AlwaysBelowHorizon, false},
		{"just never rises", -49, AlwaysBelowHorizon, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := RiseSetTransit(2460000.5, boston, fixedStar(30, tt.dec))
			if res.Status != tt.want {
				t.Fatalf("Status = %v, want %v", res.Status, tt.want)
			}
			if res.Rise.Valid || res.Set.Valid {
				t.Errorf("unexpected rise/set: %+v", res)
			}
			if res.Transit.Valid != tt.wantTransit {
				t.Errorf("Transit.Valid = %v, want %v", res.Transit.Valid, tt.wantTransit)
			}
		})
	}
}

func TestRiseSetTransit_Equator(t *testing.T) {
	// At the equator every star is up for half a sidereal day.
	equator := astro.Observer{}
	res := RiseSetTransit(2460000.5, equator, fixedStar(0, 0))
	if res.Status != Found {
		t.Fatalf("Status = %v, want FOUND", res.Status)
	}
	up := math.Mod(res.Set.JD-res.Rise.JD+1, 1)
	if math.Abs(up-astro.SiderealDay/2) > 1e-5 {
		t.Errorf("time above horizon = %v d, want %v", up, astro.SiderealDay/2)
	}
}

func TestNextRiseSetTransit_FixedStar(t *testing.T) {
	star := fixedStar(100, 20)

	for _, jd := range []float64{2460000.5, 2460000.8, 2460001.1, 2460001.45} {
		res := NextRiseSetTransit(jd, boston, star)
		if res.Status != Found {
			t.Fatalf("jd=%v: Status = %v, want FOUND", jd, res.Status)
		}
		for name, ev := range map[string]Event{"rise": res.Rise, "transit": res.Transit, "set": res.Set} {
			if !ev.Valid || ev.JD <= jd || ev.JD > jd+2 {
				t.Errorf("jd=%v: next %s = %+v, want within (jd, jd+2]", jd, name, ev)
			}
		}
	}
}

func TestNextRiseSetTransit_FirstDayStatus(t *testing.T) {
	jd := 2460000.7

	up := NextRiseSetTransit(jd, boston, fixedStar(30, 85))
	if up.Status != AlwaysAboveHorizon {
		t.Fatalf("Status = %v, want ALWAYS_ABOVE_HORIZON", up.Status)
	}
	if !up.Transit.Valid || up.Transit.JD <= jd {
		t.Errorf("Transit = %+v, want a transit after %v", up.Transit, jd)
	}

	down := NextRiseSetTransitHorizon(jd, boston, fixedStar(30, -85), HorizonStellar)
	if down.Status != AlwaysBelowHorizon {
		t.Fatalf("Status = %v, want ALWAYS_BELOW_HORIZON", down.Status)
	}
	if down.Transit.Valid {
		t.Errorf("never-rising body has transit %+v", down.Transit)
	}
}

func TestNextRiseSetTransitHorizonFuture_Limits(t *testing.T) {
	jd := 2460000.7
	star := fixedStar(30, -85)

	tests := []struct {
		name     string
		dayLimit int
		want     Status
	}{
		{"zero clamps to default", 0, AlwaysBelowHorizon},
		{"negative clamps to default", -5, AlwaysBelowHorizon},
		{"default", DefaultDayLimit, AlwaysBelowHorizon},
		{"several days", 10, NotFoundWithinLimit},
		{"huge clamps to max", 1_000_000, NotFoundWithinLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NextRiseSetTransitHorizonFuture(jd, boston, star, HorizonGeometric, tt.dayLimit)
			if res.Status != tt.want {
				t.Errorf("Status = %v, want %v", res.Status, tt.want)
			}
		})
	}
}

// emerging returns a body whose declination climbs from -80° by 10°/day,
// so from Boston it first rises a few days after start.
func emerging(start float64) Body {
	return BodyFunc(func(jd float64) astro.EquatorialPosition {
		return astro.EquatorialPosition{RAdeg: 0, DecDeg: -80 + 10*(jd-start)}
	})
}

func TestNextRiseSetTransitHorizonFuture_LateRise(t *testing.T) {
	start := 2460000.5
	body := emerging(start)

	if res := NextRiseSetTransitHorizonFuture(start, boston, body, HorizonGeometric, 1); res.Status != AlwaysBelowHorizon {
		t.Errorf("one-day Status = %v, want ALWAYS_BELOW_HORIZON", res.Status)
	}

	res := NextRiseSetTransitHorizonFuture(start, boston, body, HorizonGeometric, 10)
	if res.Status != Found {
		t.Fatalf("ten-day Status = %v, want FOUND", res.Status)
	}
	// Dec must exceed -47.7° before the body can clear the horizon.
	if res.Rise.JD < start+3 {
		t.Errorf("rise at %v, before the body can clear the horizon", res.Rise.JD-start)
	}
	if alt := altitudeAt(body, boston, res.Rise.JD); math.Abs(alt) > 1e-4 {
		t.Errorf("altitude at rise = %v, want 0", alt)
	}
}
