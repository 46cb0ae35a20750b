package metadata

import (
	"context"
	"fmt"
	"net/http"

	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/fetch"
)

const MTRBusStopsURL = "https://opendata.mtr.com.hk/data/mtr_bus_stops.csv"

type mtrBusRow struct {
	RouteID   string `csv:"ROUTE_ID"`
	Direction string `csv:"DIRECTION"`
	Sequence  string `csv:"STATION_SEQNO"`
	StationID string `csv:"STATION_ID"`
	Latitude  string `csv:"STATION_LATITUDE"`
	Longitude string `csv:"STATION_LONGITUDE"`
	NameChi   string `csv:"STATION_NAME_CHI"`
	NameEng   string `csv:"STATION_NAME_ENG"`
}

var mtrBusDirections = map[string]ctdf.Direction{
	"O": ctdf.DirectionOutbound,
	"I": ctdf.DirectionInbound,
}

type MTRBusStore struct {
	*bulkStore

	StopsURL string
}

func NewMTRBusStore(options Options) *MTRBusStore {
	store := &MTRBusStore{
		StopsURL: MTRBusStopsURL,
	}
	store.bulkStore = newBulkStore(ctdf.OperatorMTRBus, DefaultThresholdDays, options, store.build)

	return store
}

// StopType tells the arrivals adapter whether a stop is where the route
// starts, which decides between departure and arrival times
func (s *MTRBusStore) StopType(ctx context.Context, key ctdf.RouteKey, stopID string) ctdf.StopType {
	direction, exists := s.Direction(ctx, key)
	if !exists {
		return ctdf.StopTypeMid
	}
	return direction.StopType(stopID)
}

func (s *MTRBusStore) build(ctx context.Context) (ctdf.RouteMetadata, error) {
	body, err := s.options.Client.Fetch(ctx, fetch.Endpoint{
		Name:   "mtr_bus/stops",
		Method: http.MethodGet,
		URL:    s.StopsURL,
		Format: fetch.FormatText,
	})
	if err != nil {
		return nil, err
	}

	rows, err := decodeCSV[mtrBusRow](body)
	if err != nil {
		return nil, fmt.Errorf("decode mtr bus stops: %w", err)
	}

	return s.reshape(rows)
}

func (s *MTRBusStore) reshape(rows []mtrBusRow) (ctdf.RouteMetadata, error) {
	stops := make([]routeStop, 0, len(rows))

	for _, row := range rows {
		direction, exists := mtrBusDirections[row.Direction]
		if !exists {
			return nil, fmt.Errorf("mtr bus route %s has unknown direction %q", row.RouteID, row.Direction)
		}

		sequence, err := parseSequence(row.Sequence)
		if err != nil {
			return nil, fmt.Errorf("mtr bus route %s has bad sequence %q", row.RouteID, row.Sequence)
		}

		stops = append(stops, routeStop{
			Key: ctdf.NewRouteKey(s.operator, row.RouteID, direction, 0),
			Stop: ctdf.StopEntry{
				StopID: row.StationID,
				Seq:    sequence,
				Name: ctdf.LocalisedName{
					TC: row.NameChi,
					EN: row.NameEng,
				},
				Latitude:  row.Latitude,
				Longitude: row.Longitude,
			},
		})
	}

	return assemble(stops, false), nil
}
