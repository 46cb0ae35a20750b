package metadata

import (
	"context"
	"fmt"
	"net/http"

	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/fetch"
	"github.com/travigo/etastation/pkg/transforms"
)

// LightRailThresholdDays is longer than the default as the stop platform
// data only changes when the network does
const LightRailThresholdDays = 90

const LightRailRoutesURL = "https://opendata.mtr.com.hk/data/light_rail_routes_and_stops.csv"

type lightRailRow struct {
	LineCode    string `csv:"Line Code"`
	Direction   string `csv:"Direction"`
	StopCode    string `csv:"Stop Code"`
	StopID      string `csv:"Stop ID"`
	ChineseName string `csv:"Chinese Name"`
	EnglishName string `csv:"English Name"`
	Sequence    string `csv:"Sequence"`
}

var lightRailDirections = map[string]ctdf.Direction{
	"1": ctdf.DirectionOutbound,
	"2": ctdf.DirectionInbound,
}

type LightRailStore struct {
	*bulkStore

	RoutesURL  string
	Transforms transforms.Transforms
}

func NewLightRailStore(options Options) *LightRailStore {
	store := &LightRailStore{
		RoutesURL:  LightRailRoutesURL,
		Transforms: transforms.LightRail(),
	}
	store.bulkStore = newBulkStore(ctdf.OperatorMTRLRT, LightRailThresholdDays, options, store.build)

	return store
}

func (s *LightRailStore) build(ctx context.Context) (ctdf.RouteMetadata, error) {
	body, err := s.options.Client.Fetch(ctx, fetch.Endpoint{
		Name:   "mtr_lrt/routes",
		Method: http.MethodGet,
		URL:    s.RoutesURL,
		Format: fetch.FormatText,
	})
	if err != nil {
		return nil, err
	}

	rows, err := decodeCSV[lightRailRow](body)
	if err != nil {
		return nil, fmt.Errorf("decode light rail routes: %w", err)
	}

	metadata, err := s.reshape(rows)
	if err != nil {
		return nil, err
	}

	s.Transforms.Apply(s.operator, metadata, s.logger)

	return metadata, nil
}

// reshape converts the feed rows. The feed runs in stop order so the row
// before a direction changes, or before sequence 1 starts again, is the
// destination of the direction that just ended.
func (s *LightRailStore) reshape(rows []lightRailRow) (ctdf.RouteMetadata, error) {
	stops := make([]routeStop, 0, len(rows))

	for _, row := range rows {
		direction, exists := lightRailDirections[row.Direction]
		if !exists {
			return nil, fmt.Errorf("light rail route %s has unknown direction %q", row.LineCode, row.Direction)
		}

		sequence, err := parseSequence(row.Sequence)
		if err != nil {
			return nil, fmt.Errorf("light rail route %s has bad sequence %q", row.LineCode, row.Sequence)
		}

		stops = append(stops, routeStop{
			Key: ctdf.NewRouteKey(s.operator, row.LineCode, direction, 0),
			Stop: ctdf.StopEntry{
				StopID: row.StopID,
				Seq:    sequence,
				Name: ctdf.LocalisedName{
					TC: row.ChineseName,
					EN: row.EnglishName,
				},
			},
		})
	}

	return assemble(stops, true), nil
}
