// Package catalog loads named bodies and their orbital elements from TOML.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/orbit"
	"github.com/litescript/ls-orbits/internal/rst"
)

//go:embed catalog.toml
var defaultCatalog []byte

// Kind is the orbit type of an entry.
type Kind string

const (
	KindElliptic   Kind = "elliptic"
	KindHyperbolic Kind = "hyperbolic"
)

var (
	// ErrUnknownBody is returned by Get for a name not in the catalog.
	ErrUnknownBody = errors.New("unknown body")

	// ErrInvalidEntry is returned for an entry that cannot be turned into
	// an orbit.
	ErrInvalidEntry = errors.New("invalid catalog entry")
)

// Entry is one [[body]] table.
type Entry struct {
	Name       string  `toml:"name"`
	Kind       Kind    `toml:"kind"`
	A          float64 `toml:"a,omitempty"`
	Q          float64 `toml:"q,omitempty"`
	E          float64 `toml:"e"`
	I          float64 `toml:"i"`
	W          float64 `toml:"w"`
	Node       float64 `toml:"node"`
	M          float64 `toml:"m,omitempty"`
	Epoch      float64 `toml:"epoch,omitempty"`
	Perihelion float64 `toml:"perihelion,omitempty"`
}

// File is the on-disk layout.
type File struct {
	Bodies []Entry `toml:"body"`
}

// Body is a named orbit.
type Body struct {
	Name  string
	Kind  Kind
	Orbit orbit.Orbit
}

// ApparentCoords returns the apparent place of date, so a Body can be
// handed straight to the rise/set search.
func (b Body) ApparentCoords(jd float64) astro.EquatorialPosition {
	return b.Orbit.ApparentCoords(jd)
}

// RST returns the body's events on the UT day containing jd.
func (b Body) RST(jd float64, obs astro.Observer, horizon float64) rst.Result {
	switch o := b.Orbit.(type) {
	case orbit.EllipticElements:
		return orbit.EllipticRSTHorizon(jd, obs, o, horizon)
	case orbit.HyperbolicElements:
		return orbit.HyperbolicRSTHorizon(jd, obs, o, horizon)
	}
	return rst.RiseSetTransitHorizon(jd, obs, b, horizon)
}

// NextRST returns the body's next events after jd, searching up to
// dayLimit days past the current one.
func (b Body) NextRST(jd float64, obs astro.Observer, horizon float64, dayLimit int) rst.Result {
	switch o := b.Orbit.(type) {
	case orbit.EllipticElements:
		return orbit.EllipticNextRSTHorizonFuture(jd, obs, o, horizon, dayLimit)
	case orbit.HyperbolicElements:
		return orbit.HyperbolicNextRSTHorizonFuture(jd, obs, o, horizon, dayLimit)
	}
	return rst.NextRiseSetTransitHorizonFuture(jd, obs, b, horizon, dayLimit)
}

// Body converts the entry into validated elements.
func (e Entry) Body() (Body, error) {
	if strings.TrimSpace(e.Name) == "" {
		return Body{}, fmt.Errorf("%w: missing name", ErrInvalidEntry)
	}

	var o orbit.Orbit
	switch Kind(strings.ToLower(string(e.Kind))) {
	case KindElliptic, "":
		switch {
		case e.A > 0:
			o = orbit.NewEllipticFromMeanAnomaly(e.A, e.E, e.I, e.W, e.Node, e.M, e.Epoch)
		case e.Q > 0 && e.E < 1:
			o = orbit.NewEllipticFromPerihelionDistance(e.Q, e.E, e.I, e.W, e.Node, e.Perihelion)
		default:
			return Body{}, fmt.Errorf("%w: %s: elliptic entry needs a or q", ErrInvalidEntry, e.Name)
		}
	case KindHyperbolic:
		o = orbit.HyperbolicElements{Q: e.Q, E: e.E, I: e.I, W: e.W, Node: e.Node, Perihelion: e.Perihelion}
	default:
		return Body{}, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidEntry, e.Name, e.Kind)
	}

	if err := o.Validate(); err != nil {
		return Body{}, fmt.Errorf("%s: %w", e.Name, err)
	}

	kind := KindElliptic
	if _, ok := o.(orbit.HyperbolicElements); ok {
		kind = KindHyperbolic
	}
	return Body{Name: e.Name, Kind: kind, Orbit: o}, nil
}

// Catalog is a concurrency-safe set of bodies keyed by case-folded name.
type Catalog struct {
	mu      sync.RWMutex
	entries []Entry
	bodies  map[string]Body
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Parse decodes TOML catalog data.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(f.Bodies)
}

// New builds a catalog from entries. Duplicate names are rejected.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{bodies: make(map[string]Body, len(entries))}
	for _, e := range entries {
		b, err := e.Body()
		if err != nil {
			return nil, err
		}
		k := key(e.Name)
		if _, dup := c.bodies[k]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidEntry, e.Name)
		}
		c.bodies[k] = b
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in catalog of major planets and sample comets.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Open loads path, or the built-in catalog when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Get returns the body with the given name, ignoring case.
func (c *Catalog) Get(name string) (Body, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bodies[key(name)]
	if !ok {
		return Body{}, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return b, nil
}

// Names returns body names in file order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Bodies returns all bodies in file order.
func (c *Catalog) Bodies() []Body {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Body, len(c.entries))
	for i, e := range c.entries {
		out[i] = c.bodies[key(e.Name)]
	}
	return out
}

// Len returns the number of bodies.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Replace swaps in the contents of other.
func (c *Catalog) Replace(other *Catalog) {
	other.mu.RLock()
	entries, bodies := other.entries, other.bodies
	other.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.bodies = bodies
}

// Entries returns a copy of the raw entries sorted by name.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	out := append([]Entry(nil), c.entries...)
	c.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return key(out[i].Name) < key(out[j].Name) })
	return out
}

// WriteTOML encodes the catalog in the on-disk layout.
func (c *Catalog) WriteTOML(w io.Writer) error {
	c.mu.RLock()
	f := File{Bodies: append([]Entry(nil), c.entries...)}
	c.mu.RUnlock()
	return toml.NewEncoder(w).Encode(f)
}
