package eta

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/fetch"
	"golang.org/x/exp/slices"
)

const ClockFormat = "15:04"

// Normalizer fetches live arrivals for one operator. FetchArrivals always
// returns a Result, it never returns an error or panics.
type Normalizer interface {
	Operator() ctdf.OperatorID
	FetchArrivals(ctx context.Context, key ctdf.RouteKey, stop ctdf.StopRef, lang ctdf.Language) ctdf.Result
}

type Options struct {
	Client   *fetch.Client
	Logger   zerolog.Logger
	Location *time.Location
	Now      func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now().In(o.location())
	}
	return time.Now().In(o.location())
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

type arrivalsFunc func(ctx context.Context, key ctdf.RouteKey, stop ctdf.StopRef, lang ctdf.Language) ([]ctdf.ArrivalRecord, error)

// resolve runs an adapter and folds whatever it does into a Result
func resolve(ctx context.Context, logger zerolog.Logger, fetchArrivals arrivalsFunc, key ctdf.RouteKey, stop ctdf.StopRef, lang ctdf.Language) (result ctdf.Result) {
	logger = logger.With().
		Str("operator", string(key.Operator)).
		Str("route", key.Route).
		Str("direction", string(key.Direction)).
		Str("stop", stop.StopID).
		Logger()

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error().Interface("panic", recovered).Msg("Arrivals adapter panicked")
			result = ctdf.NewFailureResult(ctdf.FailureReason{Kind: ctdf.FailureUnknown, Detail: fmt.Sprint(recovered)})
		}
	}()

	arrivals, err := fetchArrivals(ctx, key, stop, lang)
	if err == nil && len(arrivals) == 0 {
		err = ErrEmptyData
	}

	if err != nil {
		reason := Classify(err)

		if reason.Kind == ctdf.FailureUnknown {
			logger.Error().Err(err).Msg("Failed to fetch arrivals")
		} else {
			logger.Debug().Err(err).Str("failure", string(reason.Kind)).Msg("No arrivals")
		}

		return ctdf.NewFailureResult(reason)
	}

	logger.Debug().Int("arrivals", len(arrivals)).Msg("Fetched arrivals")

	sortArrivals(arrivals)
	return ctdf.NewArrivalsResult(arrivals)
}

// sortArrivals puts the soonest first. Text only entries are the imminent
// "arriving" and "departing" states so they lead.
func sortArrivals(arrivals []ctdf.ArrivalRecord) {
	slices.SortStableFunc(arrivals, func(a, b ctdf.ArrivalRecord) int {
		switch {
		case !a.IsNumeric() && !b.IsNumeric():
			return 0
		case !a.IsNumeric():
			return -1
		case !b.IsNumeric():
			return 1
		default:
			return a.Minutes - b.Minutes
		}
	})
}
