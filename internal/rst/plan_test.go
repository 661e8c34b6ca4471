package rst

import (
	"math"
	"testing"
)

func TestPassStatusString(t *testing.T) {
	tests := []struct {
		status PassStatus
		want   string
	}{
		{PassPast, "PAST"},
		{PassNow, "NOW"},
		{PassNext, "NEXT"},
		{PassFuture, "FUTURE"},
		{PassStatus(99), "?"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("PassStatus(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestComputePlan_FixedStar(t *testing.T) {
	from := 2460000.5
	now := from + 1.5
	plan := ComputePlan("TEST", fixedStar(100, 20), boston, HorizonStellar, from+0.3, 3, now)

	if plan == nil {
		t.Fatal("expected non-nil plan")
	}
	if plan.Name != "TEST" {
		t.Errorf("Name = %q, want %q", plan.Name, "TEST")
	}
	if plan.Start != from || plan.End != from+3 {
		t.Errorf("window = [%v, %v), want [%v, %v)", plan.Start, plan.End, from, from+3)
	}
	if len(plan.Days) != 3 {
		t.Fatalf("len(Days) = %d, want 3", len(plan.Days))
	}
	for i, d := range plan.Days {
		if d.Start != from+float64(i) {
			t.Errorf("Days[%d].Start = %v", i, d.Start)
		}
		if d.Result.Status != Found {
			t.Errorf("Days[%d].Status = %v, want FOUND", i, d.Result.Status)
		}
	}

	if len(plan.Passes) < 2 {
		t.Fatalf("expected at least two passes in three days, got %d", len(plan.Passes))
	}

	wantMax := 90 - math.Abs(boston.LatDeg-20)
	for i, p := range plan.Passes {
		if p.Set <= p.Rise {
			t.Errorf("pass %d: set %v not after rise %v", i, p.Set, p.Rise)
		}
		if i > 0 && p.Rise < plan.Passes[i-1].Set {
			t.Errorf("pass %d overlaps the previous pass", i)
		}
		if !p.Transit.Valid {
			continue
		}
		if p.Transit.JD <= p.Rise || p.Transit.JD >= p.Set {
			t.Errorf("pass %d: transit %v outside [%v, %v]", i, p.Transit.JD, p.Rise, p.Set)
		}
		if math.Abs(p.MaxAltitude-wantMax) > 1e-3 {
			t.Errorf("pass %d: MaxAltitude = %v, want %v", i, p.MaxAltitude, wantMax)
		}
		if p.SunSep <= 0 || p.SunSep > 180 {
			t.Errorf("pass %d: SunSep = %v", i, p.SunSep)
		}
	}

	next := plan.NextPass()
	if next == nil {
		t.Fatal("expected a next pass")
	}
	if next.Rise <= now {
		t.Errorf("next pass rises at %v, not after now %v", next.Rise, now)
	}
	if cur := plan.CurrentPass(); cur != nil && (now < cur.Rise || now > cur.Set) {
		t.Errorf("current pass [%v, %v] does not contain now %v", cur.Rise, cur.Set, now)
	}
}

func TestComputePlan_NoPasses(t *testing.T) {
	plan := ComputePlan("DEEP-SOUTH", fixedStar(0, -85), boston, HorizonGeometric, 2460000.5, 2, 2460000.5)

	if len(plan.Passes) != 0 {
		t.Errorf("expected no passes, got %d", len(plan.Passes))
	}
	for i, d := range plan.Days {
		if d.Result.Status != AlwaysBelowHorizon {
			t.Errorf("Days[%d].Status = %v, want ALWAYS_BELOW_HORIZON", i, d.Result.Status)
		}
	}
	if plan.NextPass() != nil || plan.CurrentPass() != nil {
		t.Error("expected nil current and next pass")
	}
}

func TestComputePlan_ClampsDays(t *testing.T) {
	tests := []struct {
		days int
		want int
	}{
		{0, 1},
		{-3, 1},
		{2, 2},
	}

	for _, tt := range tests {
		plan := ComputePlan("X", fixedStar(0, 85), boston, HorizonGeometric, 2460000.5, tt.days, 0)
		if len(plan.Days) != tt.want {
			t.Errorf("days=%d: len(Days) = %d, want %d", tt.days, len(plan.Days), tt.want)
		}
	}
}

func TestPairPasses(t *testing.T) {
	rises := []float64{3, 1}
	sets := []float64{0.5, 4, 2}
	transits := []Result{
		{Transit: Event{JD: 1.5, Valid: true}, TransitAltitude: 40},
		{Transit: Event{JD: 3.5, Valid: true}, TransitAltitude: 41},
	}

	passes := pairPasses(rises, sets, transits)
	if len(passes) != 2 {
		t.Fatalf("len(passes) = %d, want 2", len(passes))
	}

	want := []struct {
		rise, set, transit, maxAlt float64
	}{
		{1, 2, 1.5, 40},
		{3, 4, 3.5, 41},
	}
	for i, w := range want {
		p := passes[i]
		if p.Rise != w.rise || p.Set != w.set || p.Transit.JD != w.transit || p.MaxAltitude != w.maxAlt {
			t.Errorf("pass %d = %+v, want %+v", i, p, w)
		}
	}
}

func TestPairPasses_TrailingRise(t *testing.T) {
	// A rise with no set after it is dropped.
	passes := pairPasses([]float64{1, 5}, []float64{2}, nil)
	if len(passes) != 1 {
		t.Fatalf("len(passes) = %d, want 1", len(passes))
	}
	if passes[0].Transit.Valid {
		t.Error("pass without transit reported one")
	}
}

func TestClassifyPasses(t *testing.T) {
	passes := []Pass{
		{Rise: 0, Set: 1},
		{Rise: 2, Set: 3},
		{Rise: 4, Set: 5},
		{Rise: 6, Set: 7},
	}

	classifyPasses(passes, 2.5)

	want := []PassStatus{PassPast, PassNow, PassNext, PassFuture}
	for i, w := range want {
		if passes[i].Status != w {
			t.Errorf("pass %d status = %v, want %v", i, passes[i].Status, w)
		}
	}

	plan := &Plan{Passes: passes}
	if cur := plan.CurrentPass(); cur == nil || cur.Rise != 2 {
		t.Errorf("CurrentPass() = %+v, want rise 2", cur)
	}
	if next := plan.NextPass(); next == nil || next.Rise != 4 {
		t.Errorf("NextPass() = %+v, want rise 4", next)
	}
}
