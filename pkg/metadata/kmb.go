package metadata

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/fetch"
	"github.com/travigo/etastation/pkg/util"
)

const KMBBaseURL = "https://data.etabus.gov.hk/v1/transport/kmb"

type kmbRouteListResponse struct {
	Data []struct {
		Route       string          `json:"route"`
		Bound       string          `json:"bound"`
		ServiceType util.FlexString `json:"service_type"`
		OrigEN      string          `json:"orig_en"`
		OrigTC      string          `json:"orig_tc"`
		OrigSC      string          `json:"orig_sc"`
		DestEN      string          `json:"dest_en"`
		DestTC      string          `json:"dest_tc"`
		DestSC      string          `json:"dest_sc"`
	} `json:"data"`
}

type kmbRouteStopResponse struct {
	Data []struct {
		Route string       `json:"route"`
		Bound string       `json:"bound"`
		Seq   util.FlexInt `json:"seq"`
		Stop  string       `json:"stop"`
	} `json:"data"`
}

type kmbStopResponse struct {
	Data struct {
		Stop      string          `json:"stop"`
		NameEN    string          `json:"name_en"`
		NameTC    string          `json:"name_tc"`
		NameSC    string          `json:"name_sc"`
		Latitude  util.FlexString `json:"lat"`
		Longitude util.FlexString `json:"long"`
	} `json:"data"`
}

var kmbBounds = map[string]ctdf.Direction{
	"O": ctdf.DirectionOutbound,
	"I": ctdf.DirectionInbound,
}

// KMBStore holds the route list in the shared route file. Stops are not part
// of the bulk feed, each route variant gets its own stop cache file filled on
// first use.
type KMBStore struct {
	*bulkStore

	BaseURL string

	routeStopsMutex sync.Mutex
	routeStops      map[ctdf.RouteKey]*cacheFile[[]ctdf.StopEntry]
}

func NewKMBStore(options Options) *KMBStore {
	store := &KMBStore{
		BaseURL:    KMBBaseURL,
		routeStops: map[ctdf.RouteKey]*cacheFile[[]ctdf.StopEntry]{},
	}
	store.bulkStore = newBulkStore(ctdf.OperatorKMB, DefaultThresholdDays, options, store.build)

	return store
}

func (s *KMBStore) build(ctx context.Context) (ctdf.RouteMetadata, error) {
	body, err := s.options.Client.Fetch(ctx, fetch.Endpoint{
		Name:   "kmb/route",
		Method: http.MethodGet,
		URL:    s.BaseURL + "/route/",
	})
	if err != nil {
		return nil, err
	}

	var response kmbRouteListResponse
	if err := body.Decode(&response); err != nil {
		return nil, fmt.Errorf("decode kmb route list: %w", err)
	}

	if len(response.Data) == 0 {
		return nil, ErrEmptyFeed
	}

	metadata := ctdf.RouteMetadata{}

	for _, route := range response.Data {
		direction, exists := kmbBounds[route.Bound]
		if !exists {
			return nil, fmt.Errorf("kmb route %s has unknown bound %q", route.Route, route.Bound)
		}

		serviceType, err := strconv.Atoi(string(route.ServiceType))
		if err != nil {
			return nil, fmt.Errorf("kmb route %s has bad service type %q", route.Route, route.ServiceType)
		}

		key := ctdf.NewRouteKey(s.operator, route.Route, direction, serviceType)

		// the feed repeats some variants, the first one listed wins
		if _, exists := metadata.Get(key); exists {
			continue
		}

		metadata.Ensure(key).Details = ctdf.RouteDetails{
			Origin: ctdf.StopEntry{
				Name: ctdf.LocalisedName{TC: route.OrigTC, SC: route.OrigSC, EN: route.OrigEN},
			},
			Destination: ctdf.StopEntry{
				Name: ctdf.LocalisedName{TC: route.DestTC, SC: route.DestSC, EN: route.DestEN},
			},
		}
	}

	return metadata, nil
}

func (s *KMBStore) routeStopsFile(key ctdf.RouteKey) *cacheFile[[]ctdf.StopEntry] {
	key = normaliseKMBKey(key)

	s.routeStopsMutex.Lock()
	defer s.routeStopsMutex.Unlock()

	file, exists := s.routeStops[key]
	if !exists {
		path := filepath.Join(s.options.DataDir, string(ctdf.OperatorKMB), "route_stop",
			fmt.Sprintf("%s-%s-%d.json", key.Route, key.Direction, key.ServiceType))

		file = newCacheFile(path, DefaultThresholdDays, s.options, s.logger, func(ctx context.Context) ([]ctdf.StopEntry, error) {
			return s.fetchRouteStops(ctx, key)
		})
		s.routeStops[key] = file
	}

	return file
}

// CacheStops returns the ordered stops of a route variant, rebuilding the
// variants stop cache when it is missing or stale. A failed rebuild keeps the
// stale copy. Index i holds sequence i+1.
func (s *KMBStore) CacheStops(ctx context.Context, key ctdf.RouteKey) ([]ctdf.StopEntry, error) {
	stops, found := s.routeStopsFile(key).get(ctx)
	if !found {
		return nil, fmt.Errorf("no stops cached for %s", normaliseKMBKey(key))
	}

	return stops, nil
}

func (s *KMBStore) fetchRouteStops(ctx context.Context, key ctdf.RouteKey) ([]ctdf.StopEntry, error) {
	body, err := s.options.Client.Fetch(ctx, fetch.Endpoint{
		Name:   "kmb/route-stop",
		Method: http.MethodGet,
		URL:    s.BaseURL + "/route-stop/{route}/{direction}/{service_type}",
		Path: map[string]string{
			"route":        key.Route,
			"direction":    string(key.Direction),
			"service_type": strconv.Itoa(key.ServiceType),
		},
	})
	if err != nil {
		return nil, err
	}

	var response kmbRouteStopResponse
	if err := body.Decode(&response); err != nil {
		return nil, fmt.Errorf("decode kmb route stops: %w", err)
	}

	if len(response.Data) == 0 {
		return nil, ErrEmptyFeed
	}

	stops := make([]ctdf.StopEntry, 0, len(response.Data))
	for _, routeStop := range response.Data {
		stopBody, err := s.options.Client.Fetch(ctx, fetch.Endpoint{
			Name:   "kmb/stop",
			Method: http.MethodGet,
			URL:    s.BaseURL + "/stop/{stop_id}",
			Path:   map[string]string{"stop_id": routeStop.Stop},
		})
		if err != nil {
			return nil, err
		}

		var stop kmbStopResponse
		if err := stopBody.Decode(&stop); err != nil {
			return nil, fmt.Errorf("decode kmb stop %s: %w", routeStop.Stop, err)
		}

		stops = append(stops, ctdf.StopEntry{
			StopID: routeStop.Stop,
			Seq:    routeStop.Seq.Value,
			Name: ctdf.LocalisedName{
				TC: stop.Data.NameTC,
				SC: stop.Data.NameSC,
				EN: stop.Data.NameEN,
			},
			Latitude:  string(stop.Data.Latitude),
			Longitude: string(stop.Data.Longitude),
		})
	}

	route := &ctdf.RouteDirection{Stops: stops}
	route.SortStops()

	return route.Stops, nil
}

// StopName reads the variants own stop cache. KMB stops are referenced by
// their sequence number on the route.
func (s *KMBStore) StopName(ctx context.Context, key ctdf.RouteKey, stop ctdf.StopRef, lang ctdf.Language) string {
	stops, err := s.CacheStops(ctx, key)
	if err != nil {
		return LookupFailed
	}

	index := stop.Seq - 1
	if index < 0 || index >= len(stops) {
		return LookupFailed
	}

	return nameOrFailed(stops[index].Name, lang)
}

func (s *KMBStore) Stops(ctx context.Context, key ctdf.RouteKey) []ctdf.StopEntry {
	stops, err := s.CacheStops(ctx, key)
	if err != nil {
		return []ctdf.StopEntry{}
	}
	return stops
}

func (s *KMBStore) Variants(ctx context.Context, route string) []Variant {
	return s.bulkStore.Variants(ctx, strings.ToUpper(route))
}

func (s *KMBStore) Direction(ctx context.Context, key ctdf.RouteKey) (*ctdf.RouteDirection, bool) {
	return s.bulkStore.Direction(ctx, normaliseKMBKey(key))
}

func (s *KMBStore) Origin(ctx context.Context, key ctdf.RouteKey, lang ctdf.Language) string {
	return s.bulkStore.Origin(ctx, normaliseKMBKey(key), lang)
}

func (s *KMBStore) Destination(ctx context.Context, key ctdf.RouteKey, lang ctdf.Language) string {
	return s.bulkStore.Destination(ctx, normaliseKMBKey(key), lang)
}

// normaliseKMBKey upper cases the route code and defaults the service type,
// KMB has no route without one
func normaliseKMBKey(key ctdf.RouteKey) ctdf.RouteKey {
	serviceType := key.ServiceType
	if serviceType == 0 {
		serviceType = 1
	}
	return ctdf.NewRouteKey(key.Operator, strings.ToUpper(key.Route), key.Direction, serviceType)
}
