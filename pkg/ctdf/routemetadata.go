package ctdf

import (
	"golang.org/x/exp/slices"
)

type StopEntry struct {
	StopID string        `json:"stop_id" groups:"basic"`
	Seq    int           `json:"seq" groups:"basic"`
	Name   LocalisedName `json:"name" groups:"basic"`

	Latitude  string `json:"lat,omitempty" groups:"detailed"`
	Longitude string `json:"long,omitempty" groups:"detailed"`
}

type RouteDetails struct {
	Origin      StopEntry `json:"orig" groups:"basic"`
	Destination StopEntry `json:"dest" groups:"basic"`
}

type RouteDirection struct {
	Stops   []StopEntry  `json:"stops,omitempty" groups:"detailed"`
	Details RouteDetails `json:"details" groups:"basic"`
}

// Stop finds a stop on the direction by identifier
func (d *RouteDirection) Stop(stopID string) (StopEntry, bool) {
	for _, stop := range d.Stops {
		if stop.StopID == stopID {
			return stop, true
		}
	}
	return StopEntry{}, false
}

func (d *RouteDirection) SortStops() {
	slices.SortStableFunc(d.Stops, func(a, b StopEntry) int {
		return a.Seq - b.Seq
	})
}

// RouteMetadata is keyed by route code then by RouteKey.VariantKey
type RouteMetadata map[string]map[string]*RouteDirection

func (m RouteMetadata) Get(key RouteKey) (*RouteDirection, bool) {
	variants, exists := m[key.Route]
	if !exists {
		return nil, false
	}

	direction, exists := variants[key.VariantKey()]
	return direction, exists && direction != nil
}

// Ensure returns the direction for the key, creating it if needed
func (m RouteMetadata) Ensure(key RouteKey) *RouteDirection {
	variants, exists := m[key.Route]
	if !exists {
		variants = map[string]*RouteDirection{}
		m[key.Route] = variants
	}

	direction, exists := variants[key.VariantKey()]
	if !exists {
		direction = &RouteDirection{}
		variants[key.VariantKey()] = direction
	}
	return direction
}

func (m RouteMetadata) Delete(key RouteKey) {
	if variants, exists := m[key.Route]; exists {
		delete(variants, key.VariantKey())
	}
}

func (m RouteMetadata) Routes() []string {
	routes := make([]string, 0, len(m))
	for route := range m {
		routes = append(routes, route)
	}
	slices.Sort(routes)

	return routes
}

func (m RouteMetadata) Variants(route string) []string {
	variants := make([]string, 0, len(m[route]))
	for variant := range m[route] {
		variants = append(variants, variant)
	}
	slices.Sort(variants)

	return variants
}

type StopType string

const (
	StopTypeOrigin      StopType = "orig"
	StopTypeDestination StopType = "dest"
	StopTypeMid         StopType = "mid"
)

// StopType places the stop on the direction using the recorded origin and
// destination stop identifiers
func (d *RouteDirection) StopType(stopID string) StopType {
	switch stopID {
	case d.Details.Origin.StopID:
		return StopTypeOrigin
	case d.Details.Destination.StopID:
		return StopTypeDestination
	default:
		return StopTypeMid
	}
}
