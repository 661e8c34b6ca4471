package rst

import (
	"math"
	"testing"
)

func TestComputeTrace(t *testing.T) {
	from := 2460000.5
	star := fixedStar(100, 20)

	trace := ComputeTrace(star, boston, from, from+1, 1.0/24)

	if trace.From != from || trace.To != from+1 {
		t.Errorf("window = [%v, %v]", trace.From, trace.To)
	}
	if trace.Observer != boston {
		t.Errorf("Observer = %+v, want %+v", trace.Observer, boston)
	}
	if len(trace.Samples) != 25 {
		t.Fatalf("sample count = %d, want 25", len(trace.Samples))
	}

	for i, s := range trace.Samples {
		if i > 0 && s.JD <= trace.Samples[i-1].JD {
			t.Errorf("samples not in order at index %d", i)
		}
		if s.Altitude < -90 || s.Altitude > 90 {
			t.Errorf("sample[%d] altitude = %v out of range", i, s.Altitude)
		}
		if s.Azimuth < 0 || s.Azimuth >= 360 {
			t.Errorf("sample[%d] azimuth = %v out of range", i, s.Azimuth)
		}
		if want := altitudeAt(star, boston, s.JD); math.Abs(s.Altitude-want) > 1e-9 {
			t.Errorf("sample[%d] altitude = %v, want %v", i, s.Altitude, want)
		}
	}

	alts := trace.Altitudes()
	if len(alts) != len(trace.Samples) || alts[3] != trace.Samples[3].Altitude {
		t.Error("Altitudes() does not mirror samples")
	}

	// Hourly sampling stays within a few degrees of the culmination.
	peak := trace.Peak()
	if want := 90 - math.Abs(boston.LatDeg-20); peak.Altitude > want+1e-6 || peak.Altitude < want-5 {
		t.Errorf("Peak().Altitude = %v, want just under %v", peak.Altitude, want)
	}
}

func TestComputeTrace_Defaults(t *testing.T) {
	star := fixedStar(0, 0)

	trace := ComputeTrace(star, boston, 2460000.5, 2460000.5+4.5*TraceStep, 0)
	if len(trace.Samples) != 5 {
		t.Errorf("default step sample count = %d, want 5", len(trace.Samples))
	}

	if tr := ComputeTrace(star, boston, 2, 1, TraceStep); len(tr.Samples) != 0 {
		t.Errorf("reversed window gave %d samples", len(tr.Samples))
	}

	if tr := ComputeTrace(star, boston, 0, 1e6, 1); len(tr.Samples) != maxTraceSamples {
		t.Errorf("capped sample count = %d, want %d", len(tr.Samples), maxTraceSamples)
	}

	around := ComputeTraceAround(star, boston, 2460000.5)
	if around.From != 2460000.5-TraceWindow || around.To != 2460000.5+TraceWindow {
		t.Errorf("ComputeTraceAround window = [%v, %v]", around.From, around.To)
	}
}

func TestAltitudeTrace_AltitudeAt(t *testing.T) {
	from := 2460000.5
	star := fixedStar(100, 20)
	trace := ComputeTrace(star, boston, from, from+1, TraceStep)

	// Between samples, at the ends of the trace, and on a sample.
	for _, frac := range []float64{0, 0.3, 0.5, 0.8, 7.25, 40.6, 94.5, 94.9, 95} {
		jd := from + frac*TraceStep
		got, ok := trace.AltitudeAt(jd)
		if !ok {
			t.Errorf("AltitudeAt(%v) not ok", jd)
			continue
		}
		if want := altitudeAt(star, boston, jd); math.Abs(got-want) > 0.01 {
			t.Errorf("AltitudeAt(+%v steps) = %v, want %v", frac, got, want)
		}
	}

	if got, _ := trace.AltitudeAt(trace.Samples[10].JD); got != trace.Samples[10].Altitude {
		t.Errorf("on a sample: got %v, want %v", got, trace.Samples[10].Altitude)
	}

	for _, jd := range []float64{from - 0.01, from + 1.01} {
		if _, ok := trace.AltitudeAt(jd); ok {
			t.Errorf("AltitudeAt(%v) outside the trace should not be ok", jd)
		}
	}

	short := &AltitudeTrace{Samples: trace.Samples[:2]}
	if _, ok := short.AltitudeAt(from); ok {
		t.Error("two samples should not be enough to interpolate")
	}

	// Three samples of a parabola are reproduced exactly.
	para := &AltitudeTrace{Samples: []AltitudeSample{
		{JD: 1, Altitude: 10},
		{JD: 2, Altitude: 30},
		{JD: 3, Altitude: 10},
	}}
	if got, ok := para.AltitudeAt(1.5); !ok || math.Abs(got-25) > 1e-12 {
		t.Errorf("parabola at 1.5 = %v, %v, want 25", got, ok)
	}
}

func TestAltitudeTrace_Nearest(t *testing.T) {
	trace := &AltitudeTrace{Samples: []AltitudeSample{
		{JD: 1, Altitude: 10},
		{JD: 2, Altitude: 30},
		{JD: 3, Altitude: 20},
	}}

	tests := []struct {
		jd   float64
		want float64
	}{
		{0, 1},
		{1.4, 1},
		{1.6, 2},
		{2.9, 3},
		{99, 3},
	}

	for _, tt := range tests {
		if got := trace.Nearest(tt.jd); got == nil || got.JD != tt.want {
			t.Errorf("Nearest(%v) = %+v, want JD %v", tt.jd, got, tt.want)
		}
	}

	if p := trace.Peak(); p.JD != 2 {
		t.Errorf("Peak() = %+v, want JD 2", p)
	}

	empty := &AltitudeTrace{}
	if empty.Nearest(1) != nil || empty.Peak() != nil {
		t.Error("empty trace should have no nearest or peak sample")
	}
}
