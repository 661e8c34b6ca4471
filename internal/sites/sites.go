// Package sites provides named observing locations.
package sites

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/litescript/ls-orbits/internal/astro"
)

// ID identifies a named site.
type ID string

const (
	Goldstone ID = "goldstone" // Goldstone Deep Space Communications Complex
	Canberra  ID = "canberra"  // Canberra Deep Space Communication Complex
	Madrid    ID = "madrid"    // Madrid Deep Space Communications Complex
	Greenwich ID = "greenwich" // Royal Observatory
	Boston    ID = "boston"
)

// Info contains the location of a site.
type Info struct {
	ID        ID
	Name      string
	Latitude  float64 // degrees, north positive
	Longitude float64 // degrees, east positive
}

// Known maps site IDs to their location.
var Known = map[ID]Info{
	Goldstone: {ID: Goldstone, Name: "Goldstone", Latitude: 35.4267, Longitude: -116.8900},
	Canberra:  {ID: Canberra, Name: "Canberra", Latitude: -35.4014, Longitude: 148.9817},
	Madrid:    {ID: Madrid, Name: "Madrid", Latitude: 40.4314, Longitude: -4.2481},
	Greenwich: {ID: Greenwich, Name: "Greenwich", Latitude: 51.4769, Longitude: -0.0005},
	Boston:    {ID: Boston, Name: "Boston", Latitude: 42.3333, Longitude: -71.0833},
}

// ErrUnknownSite is returned for a site name that is not in Known.
var ErrUnknownSite = errors.New("unknown site")

// ErrInvalidLocation is returned for coordinates outside the valid range.
var ErrInvalidLocation = errors.New("invalid location")

// IDs returns the known site IDs in sorted order.
func IDs() []ID {
	ids := make([]ID, 0, len(Known))
	for id := range Known {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Observer returns the observer for a named site. Lookup is case-insensitive.
func Observer(name string) (astro.Observer, error) {
	info, ok := Known[ID(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return astro.Observer{}, fmt.Errorf("%w: %q", ErrUnknownSite, name)
	}
	return astro.Observer{
		LatDeg: info.Latitude,
		LonDeg: info.Longitude,
		Name:   info.Name,
	}, nil
}

// NewObserver validates coordinates and returns an observer for them.
func NewObserver(lat, lon float64, name string) (astro.Observer, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 360 {
		return astro.Observer{}, fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidLocation, lat, lon)
	}
	if lon > 180 {
		lon -= 360
	}
	return astro.Observer{LatDeg: lat, LonDeg: lon, Name: name}, nil
}

// Resolve returns the named site if name is non-empty, otherwise the
// observer at lat/lon.
func Resolve(name string, lat, lon float64) (astro.Observer, error) {
	if name != "" {
		return Observer(name)
	}
	return NewObserver(lat, lon, fmt.Sprintf("%.4f,%.4f", lat, lon))
}

// Parse accepts either a site name or "lat,lon" in degrees.
func Parse(s string) (astro.Observer, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Observer(s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return astro.Observer{}, fmt.Errorf("%w: latitude %q", ErrInvalidLocation, parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return astro.Observer{}, fmt.Errorf("%w: longitude %q", ErrInvalidLocation, parts[1])
	}
	return NewObserver(lat, lon, strings.TrimSpace(s))
}
