// Package state provides thread-safe state management for the live sky.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/catalog"
	"github.com/litescript/ls-orbits/internal/report"
	"github.com/litescript/ls-orbits/internal/rst"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventRise          EventType = "RISE"
	EventSet           EventType = "SET"
	EventTransit       EventType = "TRANSIT"
	EventCatalogReload EventType = "CATALOG_RELOAD"
)

// Event represents a change seen between two updates.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body,omitempty"`
	Altitude  float64   `json:"altitude_deg,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// BodyState is everything the interface shows for one body.
type BodyState struct {
	Name     string
	Kind     catalog.Kind
	Position report.PositionExport
	RST      rst.Result
	SunSep   float64 // Angular distance from the Sun, degrees
	SunTier  astro.SunSeparationTier
}

// Up reports whether the body is above the horizon used for events.
func (b BodyState) Up(horizon float64) bool {
	return b.Position.Altitude >= horizon
}

// BodyHistory tracks recent altitudes for a body.
type BodyHistory struct {
	Name     string
	Altitude []TimeSeries
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// track is the last altitude seen for a body.
type track struct {
	alt    float64
	rising bool
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	catalog  *catalog.Catalog
	observer astro.Observer
	horizon  float64

	// Current state
	bodies          []BodyState
	lastUpdate      time.Time
	lastJD          float64
	lastError       error
	computeDuration time.Duration

	// Previous altitudes for event detection
	prev map[string]track

	// History buffers
	history    map[string]*BodyHistory
	maxHistory int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	Horizon         float64
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Horizon:         rst.HorizonStellar,
		MaxHistoryLen:   120, // 10 minutes at the default refresh
		MaxEvents:       50,
		RefreshInterval: 5 * time.Second,
	}
}

// NewManager creates a state manager for the bodies of cat seen from obs.
func NewManager(cat *catalog.Catalog, obs astro.Observer, cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHistory := cfg.MaxHistoryLen
	if maxHistory <= 0 {
		maxHistory = 120
	}
	return &Manager{
		catalog:         cat,
		observer:        obs,
		horizon:         cfg.Horizon,
		maxHistory:      maxHistory,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		prev:            make(map[string]track),
		history:         make(map[string]*BodyHistory),
	}
}

// Update recomputes every body for now.
func (m *Manager) Update(now time.Time) {
	m.mu.RLock()
	obs, horizon := m.observer, m.horizon
	m.mu.RUnlock()

	start := time.Now()
	jd := astro.JulianDate(now)
	bodies := ComputeBodies(m.catalog.Bodies(), obs, horizon, jd)
	elapsed := time.Since(start)

	m.mu.Lock()
	defer m.mu.Unlock()

	if obs != m.observer || horizon != m.horizon {
		// Observer changed while computing; the next update picks it up.
		return
	}

	m.detectEvents(bodies, now)
	m.updateHistory(bodies, now)

	m.bodies = bodies
	m.lastUpdate = now
	m.lastJD = jd
	m.computeDuration = elapsed
}

// ComputeBodies evaluates bodies at jd.
func ComputeBodies(bodies []catalog.Body, obs astro.Observer, horizon, jd float64) []BodyState {
	out := make([]BodyState, len(bodies))
	for i, b := range bodies {
		app := b.ApparentCoords(jd)
		sep := astro.SunSeparation(app, jd)
		out[i] = BodyState{
			Name:     b.Name,
			Kind:     b.Kind,
			Position: report.ExportPosition(b, obs, jd),
			RST:      b.RST(jd, obs, horizon),
			SunSep:   sep,
			SunTier:  astro.GetSunSeparationTier(sep),
		}
	}
	return out
}

// detectEvents compares new altitudes with the previous update.
func (m *Manager) detectEvents(bodies []BodyState, now time.Time) {
	seen := make(map[string]track, len(bodies))
	for _, b := range bodies {
		alt := b.Position.Altitude
		cur := track{alt: alt}

		prev, ok := m.prev[b.Name]
		if ok {
			cur.rising = alt > prev.alt
			switch {
			case prev.alt < m.horizon && alt >= m.horizon:
				m.addEvent(Event{Type: EventRise, Timestamp: now, Body: b.Name, Altitude: alt})
			case prev.alt >= m.horizon && alt < m.horizon:
				m.addEvent(Event{Type: EventSet, Timestamp: now, Body: b.Name, Altitude: alt})
			case prev.rising && alt < prev.alt && prev.alt >= m.horizon:
				m.addEvent(Event{Type: EventTransit, Timestamp: now, Body: b.Name, Altitude: prev.alt})
			}
		}
		seen[b.Name] = cur
	}
	m.prev = seen
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

func (m *Manager) updateHistory(bodies []BodyState, now time.Time) {
	for _, b := range bodies {
		hist, ok := m.history[b.Name]
		if !ok {
			hist = &BodyHistory{
				Name:     b.Name,
				Altitude: make([]TimeSeries, 0, m.maxHistory),
			}
			m.history[b.Name] = hist
		}
		hist.Altitude = append(hist.Altitude, TimeSeries{Timestamp: now, Value: b.Position.Altitude})
		if len(hist.Altitude) > m.maxHistory {
			hist.Altitude = hist.Altitude[1:]
		}
	}
}

// NotifyReload records the outcome of a catalog reload.
func (m *Manager) NotifyReload(r catalog.Reload, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastError = r.Err
	e := Event{Type: EventCatalogReload, Timestamp: now, Detail: r.Path}
	if r.Err != nil {
		e.Detail = r.Err.Error()
	}
	m.addEvent(e)
}

// SetObserver moves the observer and forgets altitudes seen from the old one.
func (m *Manager) SetObserver(obs astro.Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = obs
	m.prev = make(map[string]track)
	m.history = make(map[string]*BodyHistory)
}

// Observer returns the current observer.
func (m *Manager) Observer() astro.Observer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.observer
}

// Horizon returns the horizon altitude in degrees.
func (m *Manager) Horizon() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.horizon
}

// Catalog returns the catalog the manager reads from.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Observer        astro.Observer
	Horizon         float64
	Bodies          []BodyState
	JD              float64
	LastUpdate      time.Time
	LastError       error
	ComputeDuration time.Duration
	NextRefresh     time.Time
	Events          []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bodies := make([]BodyState, len(m.bodies))
	copy(bodies, m.bodies)

	var next time.Time
	if !m.lastUpdate.IsZero() {
		next = m.lastUpdate.Add(m.refreshInterval)
	}

	return Snapshot{
		Observer:        m.observer,
		Horizon:         m.horizon,
		Bodies:          bodies,
		JD:              m.lastJD,
		LastUpdate:      m.lastUpdate,
		LastError:       m.lastError,
		ComputeDuration: m.computeDuration,
		NextRefresh:     next,
		Events:          m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// GetBodyHistory returns a copy of the altitude history for a body.
func (m *Manager) GetBodyHistory(name string) *BodyHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist, ok := m.history[name]
	if !ok {
		return nil
	}

	cp := &BodyHistory{
		Name:     hist.Name,
		Altitude: make([]TimeSeries, len(hist.Altitude)),
	}
	copy(cp.Altitude, hist.Altitude)
	return cp
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true once at least one update has completed.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.lastUpdate.IsZero()
}
