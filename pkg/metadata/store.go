package metadata

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/fetch"
)

// LookupFailed is returned by lookups instead of an error so a missing name
// never stops a row from rendering
const LookupFailed = "err"

const DefaultThresholdDays = 30

// rebuildBackoff stops a failing upstream from being hit on every lookup
const rebuildBackoff = 5 * time.Minute

// Store is the per operator cache of route and stop reference data
type Store interface {
	Operator() ctdf.OperatorID
	Threshold() int
	IsStale() bool
	Rebuild(ctx context.Context) (ctdf.RouteMetadata, error)

	StopName(ctx context.Context, key ctdf.RouteKey, stop ctdf.StopRef, lang ctdf.Language) string
	Origin(ctx context.Context, key ctdf.RouteKey, lang ctdf.Language) string
	Destination(ctx context.Context, key ctdf.RouteKey, lang ctdf.Language) string

	Direction(ctx context.Context, key ctdf.RouteKey) (*ctdf.RouteDirection, bool)
	Routes(ctx context.Context) []string
	Variants(ctx context.Context, route string) []Variant
	Stops(ctx context.Context, key ctdf.RouteKey) []ctdf.StopEntry
}

// Variant is one direction (and service type) of a route for listings
type Variant struct {
	Key         ctdf.RouteKey      `json:"key" groups:"basic"`
	Origin      ctdf.LocalisedName `json:"origin" groups:"basic"`
	Destination ctdf.LocalisedName `json:"destination" groups:"basic"`
}

type Options struct {
	DataDir string
	Client  *fetch.Client
	Logger  zerolog.Logger

	// ThresholdDays overrides the operators default when above zero
	ThresholdDays int

	Location *time.Location
	Now      func() time.Time
}

func (o Options) now() time.Time {
	location := o.Location
	if location == nil {
		location = time.Local
	}

	if o.Now != nil {
		return o.Now().In(location)
	}
	return time.Now().In(location)
}

func (o Options) threshold(fallback int) int {
	if o.ThresholdDays > 0 {
		return o.ThresholdDays
	}
	return fallback
}

// bulkStore is the read through cache shared by every operator. It owns the
// operators route file and rebuilds it wholesale from the bulk feed.
type bulkStore struct {
	operator ctdf.OperatorID
	options  Options
	logger   zerolog.Logger

	routes *cacheFile[ctdf.RouteMetadata]
}

func newBulkStore(operator ctdf.OperatorID, defaultThreshold int, options Options, build func(ctx context.Context) (ctdf.RouteMetadata, error)) *bulkStore {
	logger := options.Logger.With().Str("operator", string(operator)).Logger()

	return &bulkStore{
		operator: operator,
		options:  options,
		logger:   logger,
		routes: newCacheFile(
			filepath.Join(options.DataDir, string(operator), "route.json"),
			options.threshold(defaultThreshold),
			options,
			logger,
			build,
		),
	}
}

func (s *bulkStore) Operator() ctdf.OperatorID {
	return s.operator
}

func (s *bulkStore) Threshold() int {
	return s.routes.threshold
}

func (s *bulkStore) IsStale() bool {
	return s.routes.isStale()
}

func (s *bulkStore) Rebuild(ctx context.Context) (ctdf.RouteMetadata, error) {
	s.logger.Info().Msg("Rebuilding route metadata")

	metadata, err := s.routes.rebuild(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("routes", len(metadata)).Msg("Route metadata rebuilt")
	return metadata, nil
}

func (s *bulkStore) metadata(ctx context.Context) ctdf.RouteMetadata {
	metadata, _ := s.routes.get(ctx)
	return metadata
}

func (s *bulkStore) Direction(ctx context.Context, key ctdf.RouteKey) (*ctdf.RouteDirection, bool) {
	return s.metadata(ctx).Get(key)
}

func (s *bulkStore) Origin(ctx context.Context, key ctdf.RouteKey, lang ctdf.Language) string {
	direction, exists := s.Direction(ctx, key)
	if !exists {
		return LookupFailed
	}
	return nameOrFailed(direction.Details.Origin.Name, lang)
}

func (s *bulkStore) Destination(ctx context.Context, key ctdf.RouteKey, lang ctdf.Language) string {
	direction, exists := s.Direction(ctx, key)
	if !exists {
		return LookupFailed
	}
	return nameOrFailed(direction.Details.Destination.Name, lang)
}

func (s *bulkStore) StopName(ctx context.Context, key ctdf.RouteKey, stop ctdf.StopRef, lang ctdf.Language) string {
	direction, exists := s.Direction(ctx, key)
	if !exists {
		return LookupFailed
	}

	entry, exists := direction.Stop(stop.StopID)
	if !exists {
		return LookupFailed
	}
	return nameOrFailed(entry.Name, lang)
}

func (s *bulkStore) Routes(ctx context.Context) []string {
	return s.metadata(ctx).Routes()
}

func (s *bulkStore) Variants(ctx context.Context, route string) []Variant {
	metadata := s.metadata(ctx)

	variants := []Variant{}
	for _, variantKey := range metadata.Variants(route) {
		direction, serviceType := ctdf.ParseVariantKey(variantKey)
		routeDirection := metadata[route][variantKey]

		variants = append(variants, Variant{
			Key:         ctdf.NewRouteKey(s.operator, route, direction, serviceType),
			Origin:      routeDirection.Details.Origin.Name,
			Destination: routeDirection.Details.Destination.Name,
		})
	}

	return variants
}

func (s *bulkStore) Stops(ctx context.Context, key ctdf.RouteKey) []ctdf.StopEntry {
	direction, exists := s.Direction(ctx, key)
	if !exists {
		return []ctdf.StopEntry{}
	}
	return direction.Stops
}

func nameOrFailed(name ctdf.LocalisedName, lang ctdf.Language) string {
	if value := name.Get(lang); value != "" {
		return value
	}
	return LookupFailed
}
