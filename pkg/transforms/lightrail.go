package transforms

import (
	"github.com/travigo/etastation/pkg/ctdf"
)

var tinShuiWaiCircular = ctdf.LocalisedName{
	TC: "天水圍循環綫",
	EN: "TSW Circular",
}

// LightRail holds the corrections the light rail route feed is known to
// need. 705 and 706 run the Tin Shui Wai loop in opposite directions but the
// feed splits each into an outbound and inbound half.
func LightRail() Transforms {
	return Transforms{
		{
			Type: TypeCircularRoute,
			Match: map[string]string{
				"Operator": string(ctdf.OperatorMTRLRT),
				"Route":    "705",
			},
			Data: map[string]interface{}{
				"Destination":     tinShuiWaiCircular,
				"DestinationStop": "430",
			},
		},
		{
			Type: TypeCircularRoute,
			Match: map[string]string{
				"Operator": string(ctdf.OperatorMTRLRT),
				"Route":    "706",
			},
			Data: map[string]interface{}{
				"Destination":     tinShuiWaiCircular,
				"DestinationStop": "430",
			},
		},
	}
}
