package transforms

import (
	"github.com/travigo/etastation/pkg/ctdf"
)

// foldCircularRoute turns a route the feed publishes as two halves into a
// single outbound loop. Inbound stops are appended after the outbound ones,
// stops already on the outbound half are skipped and the sequence is
// renumbered from 1.
func foldCircularRoute(operator ctdf.OperatorID, route string, metadata ctdf.RouteMetadata, data map[string]interface{}) {
	outboundKey := ctdf.NewRouteKey(operator, route, ctdf.DirectionOutbound, 0)
	inboundKey := ctdf.NewRouteKey(operator, route, ctdf.DirectionInbound, 0)

	inbound, hasInbound := metadata.Get(inboundKey)
	outbound, hasOutbound := metadata.Get(outboundKey)
	if !hasOutbound && !hasInbound {
		return
	}
	outbound = metadata.Ensure(outboundKey)

	if hasInbound {
		outbound.SortStops()
		inbound.SortStops()

		seen := map[string]bool{}
		for _, stop := range outbound.Stops {
			seen[stop.StopID] = true
		}

		for _, stop := range inbound.Stops {
			if seen[stop.StopID] {
				continue
			}
			seen[stop.StopID] = true
			outbound.Stops = append(outbound.Stops, stop)
		}

		if outbound.Details.Origin.StopID == "" {
			outbound.Details.Origin = inbound.Details.Origin
		}

		metadata.Delete(inboundKey)
	}

	for i := range outbound.Stops {
		outbound.Stops[i].Seq = i + 1
	}
	if len(outbound.Stops) > 0 && outbound.Details.Origin.StopID == outbound.Stops[0].StopID {
		outbound.Details.Origin.Seq = 1
	}

	destination := outbound.Details.Destination
	if name, ok := data["Destination"].(ctdf.LocalisedName); ok {
		destination.Name = name
	}
	if stopID, ok := data["DestinationStop"].(string); ok {
		destination.StopID = stopID
	}
	destination.Seq = 0
	if stop, found := outbound.Stop(destination.StopID); found {
		destination.Seq = stop.Seq
	}
	outbound.Details.Destination = destination
}
