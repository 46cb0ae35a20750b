package metadata

import (
	"github.com/travigo/etastation/pkg/ctdf"
)

type routeStop struct {
	Key  ctdf.RouteKey
	Stop ctdf.StopEntry
}

// assemble groups a feed ordered by route, direction and stop sequence into
// RouteMetadata. The first stop of a direction is its origin and the last
// stop seen before the key changes is its destination. With splitOnFirst a
// recurring sequence 1 also closes the running direction, for feeds that
// repeat a key back to back.
func assemble(stops []routeStop, splitOnFirst bool) ctdf.RouteMetadata {
	metadata := ctdf.RouteMetadata{}

	var previous routeStop
	started := false

	for _, current := range stops {
		if started && (current.Key != previous.Key || (splitOnFirst && current.Stop.Seq == 1)) {
			metadata.Ensure(previous.Key).Details.Destination = previous.Stop
		}

		routeDirection := metadata.Ensure(current.Key)
		if current.Stop.Seq == 1 {
			routeDirection.Details.Origin = current.Stop
		}
		routeDirection.Stops = append(routeDirection.Stops, current.Stop)

		previous = current
		started = true
	}

	if started {
		metadata.Ensure(previous.Key).Details.Destination = previous.Stop
	}

	for _, variants := range metadata {
		for _, routeDirection := range variants {
			routeDirection.SortStops()
		}
	}

	return metadata
}
