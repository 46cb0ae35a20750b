package eta

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/fetch"
	"github.com/travigo/etastation/pkg/util"
)

const MTRTrainScheduleURL = "https://rt.data.gov.hk/v1/transport/mtr/getSchedule.php"

type mtrTrainArrival struct {
	Seq      util.FlexInt    `json:"seq"`
	Dest     string          `json:"dest"`
	Platform util.FlexString `json:"plat"`
	Time     string          `json:"time"`
	TTNT     util.FlexInt    `json:"ttnt"`
	Valid    string          `json:"valid"`
}

type mtrTrainResponse struct {
	Status  util.FlexInt `json:"status"`
	Message string       `json:"message"`
	URL     string       `json:"url"`
	SysTime string       `json:"sys_time"`
	Data    map[string]struct {
		Up   []mtrTrainArrival `json:"UP"`
		Down []mtrTrainArrival `json:"DOWN"`
	} `json:"data"`
}

// StationLookup turns a station code into a display name and finds the
// terminus of a spur direction
type StationLookup interface {
	StationName(ctx context.Context, stationCode string, lang ctdf.Language) string
	Direction(ctx context.Context, key ctdf.RouteKey) (*ctdf.RouteDirection, bool)
}

type MTRTrain struct {
	options  Options
	stations StationLookup

	ScheduleURL string
}

func NewMTRTrain(options Options, stations StationLookup) *MTRTrain {
	return &MTRTrain{
		options:     options,
		stations:    stations,
		ScheduleURL: MTRTrainScheduleURL,
	}
}

func (m *MTRTrain) Operator() ctdf.OperatorID {
	return ctdf.OperatorMTRTrain
}

func (m *MTRTrain) FetchArrivals(ctx context.Context, key ctdf.RouteKey, stop ctdf.StopRef, lang ctdf.Language) ctdf.Result {
	return resolve(ctx, m.options.Logger, m.arrivals, key, stop, lang)
}

func (m *MTRTrain) arrivals(ctx context.Context, key ctdf.RouteKey, stop ctdf.StopRef, lang ctdf.Language) ([]ctdf.ArrivalRecord, error) {
	line := strings.ToUpper(key.Route)
	station := strings.ToUpper(stop.StopID)

	language := "EN"
	if lang.Chinese() {
		language = "TC"
	}

	body, err := m.options.Client.Fetch(ctx, fetch.Endpoint{
		Name:   "mtr_train/schedule",
		Method: http.MethodGet,
		URL:    m.ScheduleURL,
		Query: url.Values{
			"line": []string{line},
			"sta":  []string{station},
			"lang": []string{language},
		},
		Cacheable: true,
	})
	if err != nil {
		return nil, err
	}

	var response mtrTrainResponse
	if err := body.Decode(&response); err != nil {
		return nil, fmt.Errorf("decode mtr train schedule: %w", err)
	}

	if response.Status.Value == 0 {
		switch {
		case strings.Contains(strings.ToLower(response.Message), "suspended"):
			return nil, fmt.Errorf("%s: %w", response.Message, ErrStationClosed)
		case response.URL != "":
			return nil, fmt.Errorf("%s: %w", response.URL, ErrAbnormalService)
		default:
			return nil, &StatusError{Operator: ctdf.OperatorMTRTrain, Status: strconv.Itoa(response.Status.Value)}
		}
	}

	schedule, exists := response.Data[fmt.Sprintf("%s-%s", line, station)]
	if !exists {
		return nil, ErrEmptyData
	}

	trains := schedule.Up
	if key.Direction.Base() == ctdf.DirectionInbound {
		trains = schedule.Down
	}

	// spurs share a track with the main line, keep the trains running to
	// the spurs own terminus
	terminus := ""
	if key.Direction.Spur() != "" {
		if direction, found := m.stations.Direction(ctx, key); found {
			terminus = direction.Details.Destination.StopID
		}
	}

	now := m.options.now()

	arrivals := []ctdf.ArrivalRecord{}
	for _, train := range trains {
		if terminus != "" && train.Dest != terminus {
			continue
		}

		arrivalTime, err := time.ParseInLocation(scheduleTimeLayout, train.Time, m.options.location())
		if err != nil {
			return nil, fmt.Errorf("parse mtr train time %q: %w", train.Time, err)
		}

		arrivals = append(arrivals, ctdf.ArrivalRecord{
			Minutes:     util.MinutesUntil(now, arrivalTime),
			ClockTime:   arrivalTime.Format(ClockFormat),
			Destination: m.stations.StationName(ctx, train.Dest, lang),
		})
	}

	return arrivals, nil
}
