package rst

import (
	"sort"

	"github.com/litescript/ls-orbits/internal/astro"
)

// PassStatus classifies a pass relative to current time.
type PassStatus int

const (
	PassPast   PassStatus = iota // Pass has ended
	PassNow                      // Currently in progress
	PassNext                     // Next upcoming pass
	PassFuture                   // Future pass (not next)
)

// String returns the status name.
func (s PassStatus) String() string {
	switch s {
	case PassPast:
		return "PAST"
	case PassNow:
		return "NOW"
	case PassNext:
		return "NEXT"
	case PassFuture:
		return "FUTURE"
	default:
		return "?"
	}
}

// Pass is one interval with the body above the horizon.
type Pass struct {
	Rise        float64
	Transit     Event // Absent if the culmination fell outside every searched day
	Set         float64
	MaxAltitude float64
	SunSep      float64 // Sun separation at culmination, degrees
	Status      PassStatus
}

// DayResult is the single-day search result for one UT day.
type DayResult struct {
	Start  float64 // JD of 0h UT
	Result Result
}

// Plan contains per-day results and the passes assembled from them.
type Plan struct {
	Name     string
	Observer astro.Observer
	Horizon  float64
	Start    float64
	End      float64
	Days     []DayResult
	Passes   []Pass
}

// MaxPlanDays caps the length of a plan.
const MaxPlanDays = 366

// ComputePlan searches days consecutive UT days starting with the day
// containing from, assembles rise/set pairs into passes and classifies
// them against now.
func ComputePlan(name string, body Body, obs astro.Observer, horizon, from float64, days int, now float64) *Plan {
	days = min(max(days, 1), MaxPlanDays)
	q := &query{body: body, obs: obs, horizon: horizon}

	start := astro.DayStart(from)
	plan := &Plan{
		Name:     name,
		Observer: obs,
		Horizon:  horizon,
		Start:    start,
		End:      start + float64(days),
	}

	var rises, sets []float64
	var transits []Result
	for d := 0; d < days; d++ {
		r := q.day(start + float64(d))
		plan.Days = append(plan.Days, DayResult{Start: start + float64(d), Result: r})

		if r.Rise.Valid {
			rises = append(rises, r.Rise.JD)
		}
		if r.Set.Valid {
			sets = append(sets, r.Set.JD)
		}
		if r.Transit.Valid {
			transits = append(transits, r)
		}
	}

	plan.Passes = pairPasses(rises, sets, transits)
	for i := range plan.Passes {
		p := &plan.Passes[i]
		if p.Transit.Valid {
			eq := body.ApparentCoords(p.Transit.JD)
			p.SunSep = astro.SunSeparation(eq, p.Transit.JD)
		}
	}
	classifyPasses(plan.Passes, now)
	return plan
}

// pairPasses matches each rise with the first set after it and attaches
// the transit in between.
func pairPasses(rises, sets []float64, transits []Result) []Pass {
	sort.Float64s(rises)
	sort.Float64s(sets)

	var passes []Pass
	j := 0
	for _, rise := range rises {
		for j < len(sets) && sets[j] <= rise {
			j++
		}
		if j == len(sets) {
			break
		}
		p := Pass{Rise: rise, Set: sets[j]}
		for _, t := range transits {
			if t.Transit.JD > rise && t.Transit.JD < p.Set {
				p.Transit = t.Transit
				p.MaxAltitude = t.TransitAltitude
				break
			}
		}
		passes = append(passes, p)
		j++
	}
	return passes
}

// classifyPasses assigns status to each pass based on current time.
func classifyPasses(passes []Pass, now float64) {
	foundNext := false

	for i := range passes {
		p := &passes[i]

		switch {
		case now > p.Set:
			p.Status = PassPast
		case now > p.Rise:
			p.Status = PassNow
		case !foundNext:
			p.Status = PassNext
			foundNext = true
		default:
			p.Status = PassFuture
		}
	}
}

// CurrentPass returns the pass currently in progress, or nil.
func (p *Plan) CurrentPass() *Pass {
	for i := range p.Passes {
		if p.Passes[i].Status == PassNow {
			return &p.Passes[i]
		}
	}
	return nil
}

// NextPass returns the next upcoming pass, or nil.
func (p *Plan) NextPass() *Pass {
	for i := range p.Passes {
		if p.Passes[i].Status == PassNext {
			return &p.Passes[i]
		}
	}
	return nil
}
