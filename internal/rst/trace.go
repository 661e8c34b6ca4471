package rst

import (
	"math"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/numeric"
)

// AltitudeSample is a single altitude measurement at a Julian Day.
type AltitudeSample struct {
	JD       float64
	Altitude float64 // degrees above the geometric horizon
	Azimuth  float64 // degrees from north through east
}

// AltitudeTrace contains altitude samples over a time window.
type AltitudeTrace struct {
	Observer astro.Observer
	Samples  []AltitudeSample
	From     float64
	To       float64
}

// TraceWindow is the default span either side of the center for traces (days).
const TraceWindow = 0.5

// TraceStep is the default spacing between samples (days, 15 minutes).
const TraceStep = 15.0 / 1440

// maxTraceSamples bounds the work a single trace can request.
const maxTraceSamples = 10000

// ComputeTrace samples the body's horizontal position from from to to
// (inclusive) every step days. A non-positive step uses TraceStep; the
// number of samples is capped.
func ComputeTrace(body Body, obs astro.Observer, from, to, step float64) *AltitudeTrace {
	if step <= 0 {
		step = TraceStep
	}
	trace := &AltitudeTrace{Observer: obs, From: from, To: to}
	if to < from {
		return trace
	}

	n := int(math.Floor((to-from)/step)) + 1
	n = min(n, maxTraceSamples)
	trace.Samples = make([]AltitudeSample, 0, n)

	for i := 0; i < n; i++ {
		jd := from + float64(i)*step
		hz := astro.EquatorialToHorizontal(body.ApparentCoords(jd), obs, jd)
		trace.Samples = append(trace.Samples, AltitudeSample{
			JD:       jd,
			Altitude: hz.AltDeg,
			Azimuth:  hz.AzDeg,
		})
	}
	return trace
}

// ComputeTraceAround samples TraceWindow days either side of center.
func ComputeTraceAround(body Body, obs astro.Observer, center float64) *AltitudeTrace {
	return ComputeTrace(body, obs, center-TraceWindow, center+TraceWindow, TraceStep)
}

// Nearest returns the sample closest to jd, or nil if there are none.
func (t *AltitudeTrace) Nearest(jd float64) *AltitudeSample {
	var closest *AltitudeSample
	minDelta := math.Inf(1)

	for i := range t.Samples {
		delta := math.Abs(t.Samples[i].JD - jd)
		if delta < minDelta {
			minDelta = delta
			closest = &t.Samples[i]
		}
	}
	return closest
}

// AltitudeAt interpolates the altitude at jd from the samples around it.
// Samples must be equally spaced, as ComputeTrace makes them. Five-point
// interpolation is used away from the ends of the trace, three-point
// next to them. ok is false when jd lies outside the trace or there are
// fewer than three samples.
func (t *AltitudeTrace) AltitudeAt(jd float64) (alt float64, ok bool) {
	s := t.Samples
	if len(s) < 3 {
		return 0, false
	}
	first, last := s[0].JD, s[len(s)-1].JD
	if jd < first || jd > last {
		return 0, false
	}
	step := (last - first) / float64(len(s)-1)

	i := int(math.Round((jd - first) / step))
	i = min(max(i, 0), len(s)-1)
	if i >= 2 && i <= len(s)-3 {
		n := (jd - s[i].JD) / step
		return numeric.Interpolate5(n,
			s[i-2].Altitude, s[i-1].Altitude, s[i].Altitude, s[i+1].Altitude, s[i+2].Altitude), true
	}
	i = min(max(i, 1), len(s)-2)
	n := (jd - s[i].JD) / step
	return numeric.Interpolate3(n, s[i-1].Altitude, s[i].Altitude, s[i+1].Altitude), true
}

// Altitudes returns just the altitude values, in sample order.
func (t *AltitudeTrace) Altitudes() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Altitude
	}
	return out
}

// Peak returns the highest sample, or nil if there are none.
func (t *AltitudeTrace) Peak() *AltitudeSample {
	var peak *AltitudeSample
	for i := range t.Samples {
		if peak == nil || t.Samples[i].Altitude > peak.Altitude {
			peak = &t.Samples[i]
		}
	}
	return peak
}
