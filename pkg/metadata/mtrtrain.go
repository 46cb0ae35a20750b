package metadata

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/fetch"
)

const MTRTrainLinesURL = "https://opendata.mtr.com.hk/data/mtr_lines_and_stations.csv"

type mtrTrainRow struct {
	LineCode    string `csv:"Line Code"`
	Direction   string `csv:"Direction"`
	StationCode string `csv:"Station Code"`
	StationID   string `csv:"Station ID"`
	ChineseName string `csv:"Chinese Name"`
	EnglishName string `csv:"English Name"`
	Sequence    string `csv:"Sequence"`
}

// parseTrainDirection maps UT / DT and spur variants such as LMC-DT
func parseTrainDirection(value string) (ctdf.Direction, error) {
	spur, track, found := strings.Cut(value, "-")
	if !found {
		track = spur
		spur = ""
	}

	var direction ctdf.Direction
	switch track {
	case "UT":
		direction = ctdf.DirectionOutbound
	case "DT":
		direction = ctdf.DirectionInbound
	default:
		return "", fmt.Errorf("unknown train direction %q", value)
	}

	if spur != "" {
		direction = ctdf.Direction(fmt.Sprintf("%s-%s", direction, spur))
	}

	return direction, nil
}

type MTRTrainStore struct {
	*bulkStore

	LinesURL string
}

func NewMTRTrainStore(options Options) *MTRTrainStore {
	store := &MTRTrainStore{
		LinesURL: MTRTrainLinesURL,
	}
	store.bulkStore = newBulkStore(ctdf.OperatorMTRTrain, DefaultThresholdDays, options, store.build)

	return store
}

// line and station codes are upper case in the feed
func normaliseMTRTrainKey(key ctdf.RouteKey) ctdf.RouteKey {
	key.Route = strings.ToUpper(key.Route)
	return key
}

func (s *MTRTrainStore) Direction(ctx context.Context, key ctdf.RouteKey) (*ctdf.RouteDirection, bool) {
	return s.bulkStore.Direction(ctx, normaliseMTRTrainKey(key))
}

func (s *MTRTrainStore) Origin(ctx context.Context, key ctdf.RouteKey, lang ctdf.Language) string {
	return s.bulkStore.Origin(ctx, normaliseMTRTrainKey(key), lang)
}

func (s *MTRTrainStore) Destination(ctx context.Context, key ctdf.RouteKey, lang ctdf.Language) string {
	return s.bulkStore.Destination(ctx, normaliseMTRTrainKey(key), lang)
}

func (s *MTRTrainStore) StopName(ctx context.Context, key ctdf.RouteKey, stop ctdf.StopRef, lang ctdf.Language) string {
	stop.StopID = strings.ToUpper(stop.StopID)
	return s.bulkStore.StopName(ctx, normaliseMTRTrainKey(key), stop, lang)
}

func (s *MTRTrainStore) Variants(ctx context.Context, route string) []Variant {
	return s.bulkStore.Variants(ctx, strings.ToUpper(route))
}

func (s *MTRTrainStore) Stops(ctx context.Context, key ctdf.RouteKey) []ctdf.StopEntry {
	return s.bulkStore.Stops(ctx, normaliseMTRTrainKey(key))
}

// StationName looks a station up by code on any line
func (s *MTRTrainStore) StationName(ctx context.Context, stationCode string, lang ctdf.Language) string {
	metadata := s.metadata(ctx)
	stationCode = strings.ToUpper(stationCode)

	for _, route := range metadata.Routes() {
		for _, variant := range metadata.Variants(route) {
			if stop, found := metadata[route][variant].Stop(stationCode); found {
				return nameOrFailed(stop.Name, lang)
			}
		}
	}

	return LookupFailed
}

func (s *MTRTrainStore) build(ctx context.Context) (ctdf.RouteMetadata, error) {
	body, err := s.options.Client.Fetch(ctx, fetch.Endpoint{
		Name:   "mtr_train/lines",
		Method: http.MethodGet,
		URL:    s.LinesURL,
		Format: fetch.FormatText,
	})
	if err != nil {
		return nil, err
	}

	rows, err := decodeCSV[mtrTrainRow](body)
	if err != nil {
		return nil, fmt.Errorf("decode mtr lines and stations: %w", err)
	}

	return s.reshape(rows)
}

func (s *MTRTrainStore) reshape(rows []mtrTrainRow) (ctdf.RouteMetadata, error) {
	stops := make([]routeStop, 0, len(rows))

	for _, row := range rows {
		// placeholder rows carry no line code
		if row.LineCode == "" || row.StationCode == "" {
			continue
		}

		direction, err := parseTrainDirection(row.Direction)
		if err != nil {
			return nil, fmt.Errorf("mtr line %s: %w", row.LineCode, err)
		}

		sequence, err := parseSequence(row.Sequence)
		if err != nil {
			return nil, fmt.Errorf("mtr line %s has bad sequence %q", row.LineCode, row.Sequence)
		}

		stops = append(stops, routeStop{
			Key: ctdf.NewRouteKey(s.operator, row.LineCode, direction, 0),
			Stop: ctdf.StopEntry{
				StopID: row.StationCode,
				Seq:    sequence,
				Name: ctdf.LocalisedName{
					TC: row.ChineseName,
					EN: row.EnglishName,
				},
			},
		})
	}

	if len(stops) == 0 {
		return nil, ErrEmptyFeed
	}

	return assemble(stops, false), nil
}
