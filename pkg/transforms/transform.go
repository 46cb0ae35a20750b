package transforms

import (
	"github.com/rs/zerolog"
	"github.com/travigo/etastation/pkg/ctdf"
)

const (
	TypeCircularRoute = "CircularRoute"
)

// TransformDefinition is a hand written correction to an upstream bulk feed.
// Match is checked against the operator and route code, Data carries the
// values the correction writes.
type TransformDefinition struct {
	Type  string
	Match map[string]string
	Data  map[string]interface{}
}

func (t *TransformDefinition) Matches(operator ctdf.OperatorID, route string) bool {
	for key, value := range t.Match {
		switch key {
		case "Operator":
			if value != string(operator) {
				return false
			}
		case "Route":
			if value != route {
				return false
			}
		default:
			return false
		}
	}

	return true
}

func (t *TransformDefinition) Transform(operator ctdf.OperatorID, metadata ctdf.RouteMetadata, logger zerolog.Logger) {
	for _, route := range metadata.Routes() {
		if !t.Matches(operator, route) {
			continue
		}

		switch t.Type {
		case TypeCircularRoute:
			foldCircularRoute(operator, route, metadata, t.Data)
		default:
			logger.Warn().Str("type", t.Type).Msg("Unknown transform type")
			continue
		}

		logger.Debug().Str("type", t.Type).Str("route", route).Msg("Applied transform")
	}
}

// Transforms is an ordered list of definitions applied one after another
type Transforms []*TransformDefinition

func (t Transforms) Apply(operator ctdf.OperatorID, metadata ctdf.RouteMetadata, logger zerolog.Logger) {
	for _, transformDef := range t {
		transformDef.Transform(operator, metadata, logger)
	}
}
