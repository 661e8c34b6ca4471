// Package report turns engine results into JSON documents and text tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/catalog"
	"github.com/litescript/ls-orbits/internal/rst"
)

// ObserverExport is a JSON-friendly observer.
type ObserverExport struct {
	Name string  `json:"name,omitempty"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

func exportObserver(obs astro.Observer) ObserverExport {
	return ObserverExport{Name: obs.Name, Lat: obs.LatDeg, Lon: obs.LonDeg}
}

// EventExport is an instant present in a result.
type EventExport struct {
	JD   float64   `json:"jd"`
	Time time.Time `json:"time"`
}

func exportEvent(ev rst.Event) *EventExport {
	if !ev.Valid {
		return nil
	}
	return &EventExport{JD: ev.JD, Time: ev.Time()}
}

// BodyExport lists one catalog entry.
type BodyExport struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ExportBodies lists the bodies of a catalog.
func ExportBodies(c *catalog.Catalog) []BodyExport {
	bodies := c.Bodies()
	out := make([]BodyExport, len(bodies))
	for i, b := range bodies {
		out[i] = BodyExport{Name: b.Name, Kind: string(b.Kind)}
	}
	return out
}

// PositionExport is the position of a body seen from an observer.
type PositionExport struct {
	Body          string         `json:"body"`
	Kind          string         `json:"kind"`
	Observer      ObserverExport `json:"observer"`
	JD            float64        `json:"jd"`
	Time          time.Time      `json:"time"`
	RA            float64        `json:"ra_deg"`  // apparent, of date
	Dec           float64        `json:"dec_deg"` // apparent, of date
	RAJ2000       float64        `json:"ra_j2000_deg"`
	DecJ2000      float64        `json:"dec_j2000_deg"`
	Altitude      float64        `json:"altitude_deg"`
	Azimuth       float64        `json:"azimuth_deg"`
	SolarDistance float64        `json:"solar_distance_au"`
	EarthDistance float64        `json:"earth_distance_au"`
	LightTime     float64        `json:"light_time_min"`
	Elongation    float64        `json:"elongation_deg"`
	PhaseAngle    float64        `json:"phase_angle_deg"`
	Converged     bool           `json:"converged"`
}

// ExportPosition evaluates body at jd for obs.
func ExportPosition(body catalog.Body, obs astro.Observer, jd float64) PositionExport {
	o := body.Orbit
	app := o.ApparentCoords(jd)
	j2000 := o.EquatorialCoords(jd)
	hz := astro.EquatorialToHorizontal(app, obs, jd)
	delta := o.EarthDistance(jd)

	return PositionExport{
		Body:          body.Name,
		Kind:          string(body.Kind),
		Observer:      exportObserver(obs),
		JD:            jd,
		Time:          astro.TimeFromJD(jd),
		RA:            app.RAdeg,
		Dec:           app.DecDeg,
		RAJ2000:       j2000.RAdeg,
		DecJ2000:      j2000.DecDeg,
		Altitude:      hz.AltDeg,
		Azimuth:       hz.AzDeg,
		SolarDistance: o.SolarDistance(jd),
		EarthDistance: delta,
		LightTime:     astro.LightTime(delta) * 1440,
		Elongation:    o.Elongation(jd),
		PhaseAngle:    o.PhaseAngle(jd),
		Converged:     o.State(jd).Converged,
	}
}

// RSTExport is the outcome of a rise/transit/set query.
type RSTExport struct {
	Body            string         `json:"body"`
	Observer        ObserverExport `json:"observer"`
	Horizon         float64        `json:"horizon_deg"`
	Query           float64        `json:"query_jd"`
	Status          string         `json:"status"`
	Rise            *EventExport   `json:"rise,omitempty"`
	Transit         *EventExport   `json:"transit,omitempty"`
	Set             *EventExport   `json:"set,omitempty"`
	TransitAltitude *float64       `json:"transit_altitude_deg,omitempty"`
}

// ExportRST converts a search result.
func ExportRST(name string, obs astro.Observer, horizon, jd float64, res rst.Result) RSTExport {
	out := RSTExport{
		Body:     name,
		Observer: exportObserver(obs),
		Horizon:  horizon,
		Query:    jd,
		Status:   res.Status.String(),
		Rise:     exportEvent(res.Rise),
		Transit:  exportEvent(res.Transit),
		Set:      exportEvent(res.Set),
	}
	if res.Transit.Valid {
		alt := res.TransitAltitude
		out.TransitAltitude = &alt
	}
	return out
}

// PassExport is one pass of a plan.
type PassExport struct {
	Rise        EventExport  `json:"rise"`
	Transit     *EventExport `json:"transit,omitempty"`
	Set         EventExport  `json:"set"`
	MaxAltitude float64      `json:"max_altitude_deg"`
	SunSep      float64      `json:"sun_separation_deg"`
	SunTier     string       `json:"sun_tier"`
	Status      string       `json:"status"`
}

// PlanExport is a multi-day plan.
type PlanExport struct {
	Body     string         `json:"body"`
	Observer ObserverExport `json:"observer"`
	Horizon  float64        `json:"horizon_deg"`
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
	Days     []RSTExport    `json:"days"`
	Passes   []PassExport   `json:"passes"`
}

// ExportPlan converts a plan.
func ExportPlan(p *rst.Plan) PlanExport {
	out := PlanExport{
		Body:     p.Name,
		Observer: exportObserver(p.Observer),
		Horizon:  p.Horizon,
		Start:    astro.TimeFromJD(p.Start),
		End:      astro.TimeFromJD(p.End),
	}
	for _, d := range p.Days {
		out.Days = append(out.Days, ExportRST(p.Name, p.Observer, p.Horizon, d.Start, d.Result))
	}
	for _, ps := range p.Passes {
		out.Passes = append(out.Passes, PassExport{
			Rise:        EventExport{JD: ps.Rise, Time: astro.TimeFromJD(ps.Rise)},
			Transit:     exportEvent(ps.Transit),
			Set:         EventExport{JD: ps.Set, Time: astro.TimeFromJD(ps.Set)},
			MaxAltitude: ps.MaxAltitude,
			SunSep:      ps.SunSep,
			SunTier:     sunTier(ps),
			Status:      ps.Status.String(),
		})
	}
	return out
}

func sunTier(p rst.Pass) string {
	if !p.Transit.Valid {
		return ""
	}
	return astro.GetSunSeparationTier(p.SunSep).String()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatEvent renders an optional instant as "2006-01-02 15:04:05" UTC.
func FormatEvent(ev *EventExport) string {
	if ev == nil {
		return "--"
	}
	return ev.Time.UTC().Format(time.DateTime)
}

// FormatRA renders right ascension in degrees as hours, minutes and seconds.
func FormatRA(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	total := math.Round(deg / 15 * 36000) // tenths of a second
	h := int(total / 36000)
	m := int(math.Mod(total, 36000) / 600)
	s := math.Mod(total, 600) / 10
	return fmt.Sprintf("%02dh%02dm%04.1fs", h%24, m, s)
}

// FormatDec renders declination in degrees as signed degrees, arcminutes
// and arcseconds.
func FormatDec(deg float64) string {
	sign := "+"
	if deg < 0 {
		sign = "-"
		deg = -deg
	}
	total := math.Round(deg * 3600)
	d := int(total / 3600)
	m := int(math.Mod(total, 3600) / 60)
	s := int(math.Mod(total, 60))
	return fmt.Sprintf("%s%02d°%02d'%02d\"", sign, d, m, s)
}

// FormatDistance returns a human-readable distance in AU.
func FormatDistance(au float64) string {
	switch {
	case au <= 0 || math.IsNaN(au):
		return "N/A"
	case au < 10:
		return fmt.Sprintf("%.3f AU", au)
	case au < 100:
		return fmt.Sprintf("%.2f AU", au)
	default:
		return fmt.Sprintf("%.1f AU", au)
	}
}

// WriteBodies writes the catalog listing.
func WriteBodies(w io.Writer, bodies []BodyExport) {
	fmt.Fprintf(w, "%-20s %-10s\n", "Body", "Kind")
	fmt.Fprintln(w, strings.Repeat("─", 31))
	for _, b := range bodies {
		fmt.Fprintf(w, "%-20s %-10s\n", truncateStr(b.Name, 20), b.Kind)
	}
	fmt.Fprintf(w, "\nTotal: %d bodies\n", len(bodies))
}

// WritePositionTable writes one line per position.
func WritePositionTable(w io.Writer, positions []PositionExport) {
	if len(positions) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	p0 := positions[0]
	fmt.Fprintf(w, "Positions @ %s from %s (%.4f, %.4f)\n",
		p0.Time.UTC().Format(time.RFC3339), p0.Observer.Name, p0.Observer.Lat, p0.Observer.Lon)
	fmt.Fprintln(w, strings.Repeat("─", 96))
	fmt.Fprintf(w, "%-14s %-13s %-12s %7s %7s %-10s %-10s %6s %6s\n",
		"Body", "RA", "Dec", "Alt", "Az", "r", "Delta", "Elong", "Phase")
	fmt.Fprintln(w, strings.Repeat("─", 96))

	for _, p := range positions {
		fmt.Fprintf(w, "%-14s %-13s %-12s %7.2f %7.2f %-10s %-10s %6.1f %6.1f\n",
			truncateStr(p.Body, 14),
			FormatRA(p.RA),
			FormatDec(p.Dec),
			p.Altitude,
			p.Azimuth,
			FormatDistance(p.SolarDistance),
			FormatDistance(p.EarthDistance),
			p.Elongation,
			p.PhaseAngle,
		)
	}
}

// WriteRSTTable writes one line per result.
func WriteRSTTable(w io.Writer, results []RSTExport) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}

	r0 := results[0]
	fmt.Fprintf(w, "Rise/Transit/Set from %s (%.4f, %.4f), horizon %.4f°\n",
		r0.Observer.Name, r0.Observer.Lat, r0.Observer.Lon, r0.Horizon)
	fmt.Fprintln(w, strings.Repeat("─", 96))
	fmt.Fprintf(w, "%-14s %-19s %-19s %-19s %6s  %s\n",
		"Body", "Rise (UTC)", "Transit (UTC)", "Set (UTC)", "Alt", "Status")
	fmt.Fprintln(w, strings.Repeat("─", 96))

	for _, r := range results {
		alt := "--"
		if r.TransitAltitude != nil {
			alt = fmt.Sprintf("%6.2f", *r.TransitAltitude)
		}
		fmt.Fprintf(w, "%-14s %-19s %-19s %-19s %6s  %s\n",
			truncateStr(r.Body, 14),
			FormatEvent(r.Rise),
			FormatEvent(r.Transit),
			FormatEvent(r.Set),
			alt,
			r.Status,
		)
	}
}

// WritePlanTable writes the passes of a plan.
func WritePlanTable(w io.Writer, p PlanExport) {
	fmt.Fprintf(w, "%s from %s, %s to %s\n", p.Body, p.Observer.Name,
		p.Start.UTC().Format(time.DateOnly), p.End.UTC().Format(time.DateOnly))
	fmt.Fprintln(w, strings.Repeat("─", 86))

	if len(p.Passes) == 0 {
		status := "no passes"
		if len(p.Days) > 0 {
			status = p.Days[0].Status
		}
		fmt.Fprintf(w, "No passes (%s)\n", status)
		return
	}

	fmt.Fprintf(w, "%-7s %-19s %-19s %-19s %6s %6s %s\n",
		"Status", "Rise (UTC)", "Transit (UTC)", "Set (UTC)", "MaxAlt", "SunSep", "Tier")
	fmt.Fprintln(w, strings.Repeat("─", 86))
	for _, ps := range p.Passes {
		fmt.Fprintf(w, "%-7s %-19s %-19s %-19s %6.2f %6.1f %s\n",
			ps.Status,
			FormatEvent(&ps.Rise),
			FormatEvent(ps.Transit),
			FormatEvent(&ps.Set),
			ps.MaxAltitude,
			ps.SunSep,
			ps.SunTier,
		)
	}
	fmt.Fprintf(w, "\nTotal: %d passes\n", len(p.Passes))
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
