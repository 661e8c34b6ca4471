package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/catalog"
	"github.com/litescript/ls-orbits/internal/report"
	"github.com/litescript/ls-orbits/internal/rst"
)

var greenwich = astro.Observer{LatDeg: 51.4769, LonDeg: 0, Name: "Greenwich"}

func testManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	return NewManager(catalog.Default(), greenwich, cfg)
}

func bodyAt(name string, alt float64) BodyState {
	return BodyState{Name: name, Position: report.PositionExport{Body: name, Altitude: alt}}
}

func TestNewManager(t *testing.T) {
	cfg := DefaultConfig()
	m := testManager(t, cfg)

	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.RefreshInterval() != cfg.RefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", m.RefreshInterval(), cfg.RefreshInterval)
	}
	if m.Horizon() != rst.HorizonStellar {
		t.Errorf("Horizon = %v, want %v", m.Horizon(), rst.HorizonStellar)
	}
	if m.Observer() != greenwich {
		t.Errorf("Observer = %+v, want %+v", m.Observer(), greenwich)
	}
	if m.HasData() {
		t.Error("HasData should be false initially")
	}
}

func TestManager_Update(t *testing.T) {
	m := testManager(t, DefaultConfig())
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	m.Update(now)

	if !m.HasData() {
		t.Error("HasData should be true after Update")
	}

	snap := m.Snapshot()
	if len(snap.Bodies) != m.Catalog().Len() {
		t.Fatalf("len(Bodies) = %d, want %d", len(snap.Bodies), m.Catalog().Len())
	}
	if snap.JD != astro.JulianDate(now) {
		t.Errorf("JD = %v, want %v", snap.JD, astro.JulianDate(now))
	}
	if !snap.LastUpdate.Equal(now) {
		t.Errorf("LastUpdate = %v, want %v", snap.LastUpdate, now)
	}
	if want := now.Add(m.RefreshInterval()); !snap.NextRefresh.Equal(want) {
		t.Errorf("NextRefresh = %v, want %v", snap.NextRefresh, want)
	}
	if snap.LastError != nil {
		t.Errorf("LastError = %v, want nil", snap.LastError)
	}

	for _, b := range snap.Bodies {
		if b.Position.Body != b.Name {
			t.Errorf("%s: position for %q", b.Name, b.Position.Body)
		}
		if b.SunSep < 0 || b.SunSep > 180 {
			t.Errorf("%s: SunSep = %v", b.Name, b.SunSep)
		}
		if b.SunTier != astro.GetSunSeparationTier(b.SunSep) {
			t.Errorf("%s: SunTier = %v for separation %v", b.Name, b.SunTier, b.SunSep)
		}
	}
}

func TestComputeBodies_MatchesEngine(t *testing.T) {
	cat := catalog.Default()
	body, err := cat.Get("Mars")
	if err != nil {
		t.Fatal(err)
	}
	jd := 2460390.0

	got := ComputeBodies([]catalog.Body{body}, greenwich, rst.HorizonGeometric, jd)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}

	want := body.RST(jd, greenwich, rst.HorizonGeometric)
	if got[0].RST != want {
		t.Errorf("RST = %+v, want %+v", got[0].RST, want)
	}
	if got[0].Kind != catalog.KindElliptic {
		t.Errorf("Kind = %q, want elliptic", got[0].Kind)
	}
}

func TestManager_DetectEvents(t *testing.T) {
	m := testManager(t, DefaultConfig())
	now := time.Now()

	steps := [][]BodyState{
		{bodyAt("A", -5), bodyAt("B", 10), bodyAt("C", 20)},
		{bodyAt("A", 2), bodyAt("B", -3), bodyAt("C", 25)},
		{bodyAt("A", 4), bodyAt("B", -6), bodyAt("C", 24)},
	}
	for i, bodies := range steps {
		m.detectEvents(bodies, now.Add(time.Duration(i)*time.Minute))
	}

	events := m.RecentEvents(10)
	want := []struct {
		typ  EventType
		body string
	}{
		{EventRise, "A"},
		{EventSet, "B"},
		{EventTransit, "C"},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, w := range want {
		if events[i].Type != w.typ || events[i].Body != w.body {
			t.Errorf("event %d = %s %s, want %s %s", i, events[i].Type, events[i].Body, w.typ, w.body)
		}
	}
	if events[2].Altitude != 25 {
		t.Errorf("transit altitude = %v, want the peak 25", events[2].Altitude)
	}
}

func TestManager_FirstUpdateHasNoEvents(t *testing.T) {
	m := testManager(t, DefaultConfig())
	m.detectEvents([]BodyState{bodyAt("A", 10), bodyAt("B", -10)}, time.Now())

	if events := m.RecentEvents(10); len(events) != 0 {
		t.Errorf("first update produced events: %+v", events)
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 3
	m := testManager(t, cfg)

	base := time.Now()
	for i := 0; i < 5; i++ {
		m.addEvent(Event{Type: EventRise, Timestamp: base.Add(time.Duration(i) * time.Second)})
	}

	events := m.Snapshot().Events
	if len(events) != 3 {
		t.Fatalf("len(Events) = %d, want 3", len(events))
	}
	for i := 1; i < len(events); i++ {
		if !events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Errorf("events not in chronological order at %d", i)
		}
	}
	if !events[0].Timestamp.Equal(base.Add(2 * time.Second)) {
		t.Errorf("oldest event = %v, want the third added", events[0].Timestamp)
	}

	if recent := m.RecentEvents(2); len(recent) != 2 || !recent[1].Timestamp.Equal(base.Add(4*time.Second)) {
		t.Errorf("RecentEvents(2) = %+v", recent)
	}
}

func TestManager_History(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHistoryLen = 5
	m := testManager(t, cfg)

	base := time.Now()
	for i := 0; i < 10; i++ {
		m.updateHistory([]BodyState{bodyAt("Mars", float64(i))}, base.Add(time.Duration(i)*time.Minute))
	}

	hist := m.GetBodyHistory("Mars")
	if hist == nil {
		t.Fatal("expected history for Mars")
	}
	if len(hist.Altitude) != 5 {
		t.Fatalf("len(Altitude) = %d, want 5", len(hist.Altitude))
	}
	if hist.Altitude[0].Value != 5 || hist.Altitude[4].Value != 9 {
		t.Errorf("history = %+v, want the last five values", hist.Altitude)
	}

	// The returned history is a copy.
	hist.Altitude[0].Value = 99
	if m.GetBodyHistory("Mars").Altitude[0].Value == 99 {
		t.Error("GetBodyHistory returned shared storage")
	}

	if m.GetBodyHistory("Pluto") != nil {
		t.Error("expected nil history for unknown body")
	}
}

func TestManager_NotifyReload(t *testing.T) {
	m := testManager(t, DefaultConfig())
	now := time.Now()

	m.NotifyReload(catalog.Reload{Path: "/tmp/bodies.toml", Bodies: 3}, now)
	snap := m.Snapshot()
	if snap.LastError != nil {
		t.Errorf("LastError = %v, want nil", snap.LastError)
	}

	errBroken := errors.New("broken")
	m.NotifyReload(catalog.Reload{Path: "/tmp/bodies.toml", Err: errBroken}, now)
	snap = m.Snapshot()
	if !errors.Is(snap.LastError, errBroken) {
		t.Errorf("LastError = %v, want %v", snap.LastError, errBroken)
	}

	if len(snap.Events) != 2 || snap.Events[1].Type != EventCatalogReload || snap.Events[1].Detail != "broken" {
		t.Errorf("events = %+v", snap.Events)
	}
}

func TestManager_SetObserver(t *testing.T) {
	m := testManager(t, DefaultConfig())
	m.Update(time.Now())

	canberra := astro.Observer{LatDeg: -35.4, LonDeg: 148.98, Name: "Canberra"}
	m.SetObserver(canberra)

	if m.Observer() != canberra {
		t.Errorf("Observer = %+v, want %+v", m.Observer(), canberra)
	}
	if m.GetBodyHistory("Mars") != nil {
		t.Error("history not cleared after observer change")
	}
}

func TestManager_SetRefreshInterval(t *testing.T) {
	m := testManager(t, DefaultConfig())
	m.SetRefreshInterval(time.Minute)

	if m.RefreshInterval() != time.Minute {
		t.Errorf("RefreshInterval = %v, want 1m", m.RefreshInterval())
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := testManager(t, DefaultConfig())
	base := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			m.Update(base.Add(time.Duration(i) * time.Hour))
		}(i)
		go func() {
			defer wg.Done()
			_ = m.Snapshot()
			_ = m.RecentEvents(5)
			_ = m.GetBodyHistory("Venus")
		}()
	}
	wg.Wait()

	if !m.HasData() {
		t.Error("HasData should be true after concurrent updates")
	}
}
