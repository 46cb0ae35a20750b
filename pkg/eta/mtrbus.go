package eta

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/fetch"
	"github.com/travigo/etastation/pkg/util"
)

const MTRBusScheduleURL = "https://rt.data.gov.hk/v1/transport/mtr/bus/getSchedule"

const (
	mtrBusStatusTimeLayout = "2006/01/02 15:04"
	mtrBusEndOfService     = "停止服務"
	mtrBusNoClock          = "--"
)

var mtrBusScheduledRemark = map[string]string{
	"zh": "原定班次",
	"en": "Scheduled Bus",
}

type mtrBusRequest struct {
	Language  string `json:"language"`
	RouteName string `json:"routeName"`
}

type mtrBusBus struct {
	ArrivalTimeInSecond   util.FlexInt  `json:"arrivalTimeInSecond"`
	ArrivalTimeText       string        `json:"arrivalTimeText"`
	DepartureTimeInSecond util.FlexInt  `json:"departureTimeInSecond"`
	DepartureTimeText     string        `json:"departureTimeText"`
	IsScheduled           util.FlexBool `json:"isScheduled"`
}

type mtrBusResponse struct {
	Status                 util.FlexInt `json:"status"`
	RouteStatusRemarkTitle string       `json:"routeStatusRemarkTitle"`
	RouteStatusTime        string       `json:"routeStatusTime"`
	BusStop                []struct {
		BusStopID util.FlexString `json:"busStopId"`
		Bus       []mtrBusBus     `json:"bus"`
	} `json:"busStop"`
}

// StopTypeLookup places a stop on its route
type StopTypeLookup interface {
	StopType(ctx context.Context, key ctdf.RouteKey, stopID string) ctdf.StopType
}

type MTRBus struct {
	options   Options
	stopTypes StopTypeLookup

	ScheduleURL string
}

func NewMTRBus(options Options, stopTypes StopTypeLookup) *MTRBus {
	return &MTRBus{
		options:     options,
		stopTypes:   stopTypes,
		ScheduleURL: MTRBusScheduleURL,
	}
}

func (m *MTRBus) Operator() ctdf.OperatorID {
	return ctdf.OperatorMTRBus
}

func (m *MTRBus) FetchArrivals(ctx context.Context, key ctdf.RouteKey, stop ctdf.StopRef, lang ctdf.Language) ctdf.Result {
	return resolve(ctx, m.options.Logger, m.arrivals, key, stop, lang)
}

func (m *MTRBus) arrivals(ctx context.Context, key ctdf.RouteKey, stop ctdf.StopRef, lang ctdf.Language) ([]ctdf.ArrivalRecord, error) {
	language := "en"
	if lang.Chinese() {
		language = "zh"
	}

	body, err := m.options.Client.Fetch(ctx, fetch.Endpoint{
		Name:   "mtr_bus/schedule",
		Method: http.MethodPost,
		URL:    m.ScheduleURL,
		Body: mtrBusRequest{
			Language:  language,
			RouteName: strings.ToUpper(key.Route),
		},
		Cacheable: true,
	})
	if err != nil {
		return nil, err
	}

	var response mtrBusResponse
	if err := body.Decode(&response); err != nil {
		return nil, fmt.Errorf("decode mtr bus schedule: %w", err)
	}

	if response.Status.Value == 0 {
		return nil, &StatusError{Operator: ctdf.OperatorMTRBus, Status: strconv.Itoa(response.Status.Value)}
	}
	if response.RouteStatusRemarkTitle == mtrBusEndOfService {
		return nil, &EndOfServiceError{Reason: response.RouteStatusRemarkTitle}
	}

	statusTime, statusTimeErr := time.ParseInLocation(mtrBusStatusTimeLayout, response.RouteStatusTime, m.options.location())

	// buses wait at the first stop so the departure time is the useful one there
	useDeparture := m.stopTypes.StopType(ctx, key, stop.StopID) == ctdf.StopTypeOrigin

	arrivals := []ctdf.ArrivalRecord{}
	for _, busStop := range response.BusStop {
		if string(busStop.BusStopID) != stop.StopID {
			continue
		}

		for _, bus := range busStop.Bus {
			timeText, timeInSecond := bus.ArrivalTimeText, bus.ArrivalTimeInSecond
			if useDeparture {
				timeText, timeInSecond = bus.DepartureTimeText, bus.DepartureTimeInSecond
			}

			token, _, _ := strings.Cut(strings.TrimSpace(timeText), " ")
			arrival, ok := ctdf.NewMinutesRecord(token)
			if !ok {
				continue
			}

			if timeInSecond.Valid && statusTimeErr == nil {
				arrival.ClockTime = statusTime.Add(time.Duration(timeInSecond.Value) * time.Second).Format(ClockFormat)
			} else {
				arrival.ClockTime = mtrBusNoClock
			}

			if bus.IsScheduled {
				arrival.Remark = mtrBusScheduledRemark[language]
			}

			arrivals = append(arrivals, arrival)
		}
		break
	}

	return arrivals, nil
}
