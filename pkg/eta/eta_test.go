package eta

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/fetch"
)

var hongKong = time.FixedZone("HKT", 8*3600)

func testOptions(now time.Time) Options {
	return Options{
		Client:   fetch.NewClient(fetch.WithTimeout(200 * time.Millisecond)),
		Logger:   zerolog.Nop(),
		Location: hongKong,
		Now:      func() time.Time { return now },
	}
}

func serve(t *testing.T, body string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

type fakeStore struct {
	destination string
	stopTypes   map[string]ctdf.StopType
	stations    map[string]string
	direction   *ctdf.RouteDirection
	panics      bool
}

func (f *fakeStore) Destination(ctx context.Context, key ctdf.RouteKey, lang ctdf.Language) string {
	if f.panics {
		panic("lookup exploded")
	}
	return f.destination
}

func (f *fakeStore) StopType(ctx context.Context, key ctdf.RouteKey, stopID string) ctdf.StopType {
	if stopType, exists := f.stopTypes[stopID]; exists {
		return stopType
	}
	return ctdf.StopTypeMid
}

func (f *fakeStore) StationName(ctx context.Context, stationCode string, lang ctdf.Language) string {
	if name, exists := f.stations[stationCode]; exists {
		return name
	}
	return "err"
}

func (f *fakeStore) Direction(ctx context.Context, key ctdf.RouteKey) (*ctdf.RouteDirection, bool) {
	return f.direction, f.direction != nil
}

func TestClassifyPrecedence(t *testing.T) {
	upstream := &fetch.UpstreamError{Endpoint: "eta", StatusCode: 500}
	network := &fetch.NetworkError{Endpoint: "eta", Err: errors.New("connection refused")}

	cases := []struct {
		err      error
		expected ctdf.FailureKind
	}{
		{upstream, ctdf.FailureUpstreamError},
		{&StatusError{Operator: ctdf.OperatorKMB, Status: "0"}, ctdf.FailureUpstreamError},
		{errors.Join(&EndOfServiceError{}, upstream), ctdf.FailureUpstreamError},
		{errors.Join(ErrStationClosed, &EndOfServiceError{Reason: "last train"}), ctdf.FailureEndOfService},
		{errors.Join(ErrAbnormalService, ErrStationClosed), ctdf.FailureStationClosed},
		{errors.Join(network, ErrAbnormalService), ctdf.FailureAbnormalService},
		{errors.Join(ErrEmptyData, network), ctdf.FailureNetworkError},
		{fmt.Errorf("filtering: %w", ErrEmptyData), ctdf.FailureNoData},
		{errors.New("something else"), ctdf.FailureUnknown},
	}

	for _, testCase := range cases {
		assert.Equal(t, testCase.expected, Classify(testCase.err).Kind, testCase.err.Error())
	}

	assert.Equal(t, "last train", Classify(&EndOfServiceError{Reason: "last train"}).Detail)
}

func TestKMBArrival(t *testing.T) {
	server := serve(t, `{"type":"ETA","data":[
		{"co":"KMB","route":"1A","dir":"O","service_type":1,"seq":1,"eta_seq":1,"eta":"2024-01-01T10:02:00+08:00","rmk_tc":"","rmk_sc":"","rmk_en":"","data_timestamp":"2024-01-01T09:58:00+08:00"},
		{"co":"KMB","route":"1A","dir":"O","service_type":1,"seq":2,"eta_seq":1,"eta":"2024-01-01T10:05:00+0800","rmk_tc":"","rmk_sc":"","rmk_en":"","data_timestamp":"2024-01-01T09:58:00+08:00"},
		{"co":"KMB","route":"1A","dir":"I","service_type":1,"seq":2,"eta_seq":1,"eta":"2024-01-01T10:09:00+08:00","rmk_tc":"","rmk_sc":"","rmk_en":"","data_timestamp":"2024-01-01T09:58:00+08:00"}
	]}`)

	kmb := NewKMB(testOptions(time.Date(2024, 1, 1, 10, 0, 0, 0, hongKong)))
	kmb.BaseURL = server.URL

	result := kmb.FetchArrivals(context.Background(),
		ctdf.NewRouteKey(ctdf.OperatorKMB, "1A", ctdf.DirectionOutbound, 1),
		ctdf.NewStopRef("2"),
		ctdf.LanguageTC,
	)

	require.False(t, result.Failed())
	require.Equal(t, 1, result.Count())
	assert.Equal(t, 5, result.Arrivals[0].Minutes)
	assert.Equal(t, "10:05", result.Arrivals[0].ClockTime)
	assert.Equal(t, "", result.Arrivals[0].Remark)
}

func TestKMBCapsAtThree(t *testing.T) {
	rows := ""
	for i := 1; i <= 5; i++ {
		if i > 1 {
			rows += ","
		}
		rows += fmt.Sprintf(`{"route":"N269","dir":"I","service_type":"1","seq":"4","eta_seq":%d,"eta":"2024-01-01T23:%02d:00+08:00","rmk_en":"Scheduled Bus"}`, i, i*10)
	}
	server := serve(t, `{"data":[`+rows+`]}`)

	kmb := NewKMB(testOptions(time.Date(2024, 1, 1, 23, 0, 0, 0, hongKong)))
	kmb.BaseURL = server.URL

	result := kmb.FetchArrivals(context.Background(),
		ctdf.NewRouteKey(ctdf.OperatorKMB, "n269", ctdf.DirectionInbound, 1),
		ctdf.NewStopRef("4"),
		ctdf.LanguageEN,
	)

	require.Equal(t, 3, result.Count())
	assert.Equal(t, []int{10, 20, 30}, []int{result.Arrivals[0].Minutes, result.Arrivals[1].Minutes, result.Arrivals[2].Minutes})
	assert.Equal(t, "Scheduled Bus", result.Arrivals[0].Remark)
}

func TestKMBFailures(t *testing.T) {
	key := ctdf.NewRouteKey(ctdf.OperatorKMB, "1A", ctdf.DirectionOutbound, 1)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, hongKong)

	cases := map[string]struct {
		body     string
		expected ctdf.FailureKind
	}{
		"end of service": {
			body:     `{"data":[{"route":"1A","dir":"O","seq":2,"eta":null,"rmk_tc":"最後班次已過"}]}`,
			expected: ctdf.FailureEndOfService,
		},
		"empty data": {
			body:     `{"data":[]}`,
			expected: ctdf.FailureUpstreamError,
		},
		"no matching stop": {
			body:     `{"data":[{"route":"1A","dir":"O","seq":9,"eta":"2024-01-01T10:05:00+08:00"}]}`,
			expected: ctdf.FailureNoData,
		},
		"bad timestamp": {
			body:     `{"data":[{"route":"1A","dir":"O","seq":2,"eta":"soon"}]}`,
			expected: ctdf.FailureUnknown,
		},
	}

	for name, testCase := range cases {
		t.Run(name, func(t *testing.T) {
			server := serve(t, testCase.body)

			kmb := NewKMB(testOptions(now))
			kmb.BaseURL = server.URL

			result := kmb.FetchArrivals(context.Background(), key, ctdf.NewStopRef("2"), ctdf.LanguageTC)
			require.True(t, result.Failed())
			assert.Equal(t, testCase.expected, result.Failure.Kind)
		})
	}

	server := serve(t, `{"data":[{"route":"1A","dir":"O","seq":2,"eta":null,"rmk_tc":"最後班次已過"}]}`)
	kmb := NewKMB(testOptions(now))
	kmb.BaseURL = server.URL
	result := kmb.FetchArrivals(context.Background(), key, ctdf.NewStopRef("2"), ctdf.LanguageTC)
	assert.Equal(t, "最後班次已過", result.Failure.Detail)
}

func TestLightRailArrivals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "430", r.URL.Query().Get("station_id"))

		w.Write([]byte(`{"status":1,"system_time":"2024-01-01 10:00:00","platform_list":[
			{"platform_id":1,"end_service_status":1,"route_list":[
				{"route_no":"705","dest_ch":"天水圍循環綫","dest_en":"TSW Circular","time_ch":"5 分鐘","time_en":"5 min"},
				{"route_no":"706","dest_ch":"天水圍循環綫","dest_en":"TSW Circular","time_ch":"2 分鐘","time_en":"2 min"}
			]},
			{"platform_id":2,"route_list":[
				{"route_no":"705","dest_ch":"天水圍循環綫","dest_en":"TSW Circular","time_ch":"即將抵達","time_en":"Arriving"},
				{"route_no":"705","dest_ch":"屯門碼頭","dest_en":"Tuen Mun Ferry Pier","time_ch":"3 分鐘","time_en":"3 min"}
			]}
		]}`))
	}))
	defer server.Close()

	lightRail := NewLightRail(testOptions(time.Date(2024, 1, 1, 10, 0, 0, 0, hongKong)), &fakeStore{destination: "天水圍循環綫"})
	lightRail.ScheduleURL = server.URL

	result := lightRail.FetchArrivals(context.Background(),
		ctdf.NewRouteKey(ctdf.OperatorMTRLRT, "705", ctdf.DirectionOutbound, 0),
		ctdf.NewStopRef("430"),
		ctdf.LanguageTC,
	)

	require.False(t, result.Failed())
	require.Equal(t, 2, result.Count())

	assert.Equal(t, "即將抵達", result.Arrivals[0].DisplayMinutes())
	assert.Equal(t, "----", result.Arrivals[0].ClockTime)

	assert.Equal(t, 5, result.Arrivals[1].Minutes)
	assert.Equal(t, "10:05", result.Arrivals[1].ClockTime)
}

func TestLightRailFailures(t *testing.T) {
	key := ctdf.NewRouteKey(ctdf.OperatorMTRLRT, "705", ctdf.DirectionOutbound, 0)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, hongKong)

	cases := map[string]struct {
		body     string
		expected ctdf.FailureKind
	}{
		"bad status": {
			body:     `{"status":0}`,
			expected: ctdf.FailureUpstreamError,
		},
		"platform out of service": {
			body:     `{"status":1,"system_time":"2024-01-01 01:00:00","platform_list":[{"platform_id":1,"end_service_status":0,"route_list":[]}]}`,
			expected: ctdf.FailureEndOfService,
		},
		"no matching destination": {
			body:     `{"status":1,"system_time":"2024-01-01 10:00:00","platform_list":[{"platform_id":1,"route_list":[{"route_no":"705","dest_en":"Somewhere","time_en":"3 min"}]}]}`,
			expected: ctdf.FailureNoData,
		},
	}

	for name, testCase := range cases {
		t.Run(name, func(t *testing.T) {
			server := serve(t, testCase.body)

			lightRail := NewLightRail(testOptions(now), &fakeStore{destination: "TSW Circular"})
			lightRail.ScheduleURL = server.URL

			result := lightRail.FetchArrivals(context.Background(), key, ctdf.NewStopRef("430"), ctdf.LanguageEN)
			require.True(t, result.Failed())
			assert.Equal(t, testCase.expected, result.Failure.Kind)
		})
	}
}

const mtrBusSchedule = `{"status":"1","routeStatusRemarkTitle":null,"routeStatusTime":"2024/01/01 10:00","busStop":[
	{"busStopId":"K12-U010","bus":[
		{"arrivalTimeInSecond":"60","arrivalTimeText":"1 分鐘","departureTimeInSecond":"240","departureTimeText":"4 分鐘","isScheduled":"0"},
		{"arrivalTimeInSecond":"720","arrivalTimeText":"12 分鐘","departureTimeInSecond":"900","departureTimeText":"15 分鐘","isScheduled":"1"}
	]},
	{"busStopId":"K12-U020","bus":[
		{"arrivalTimeInSecond":"","arrivalTimeText":"即將抵達","departureTimeInSecond":"","departureTimeText":"即將開出","isScheduled":"0"}
	]}
]}`

func TestMTRBusOriginUsesDeparture(t *testing.T) {
	var requested map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, decodeJSON(r, &requested))
		w.Write([]byte(mtrBusSchedule))
	}))
	defer server.Close()

	store := &fakeStore{stopTypes: map[string]ctdf.StopType{"K12-U010": ctdf.StopTypeOrigin}}
	mtrBus := NewMTRBus(testOptions(time.Date(2024, 1, 1, 10, 0, 0, 0, hongKong)), store)
	mtrBus.ScheduleURL = server.URL

	key := ctdf.NewRouteKey(ctdf.OperatorMTRBus, "k12", ctdf.DirectionOutbound, 0)
	result := mtrBus.FetchArrivals(context.Background(), key, ctdf.NewStopRef("K12-U010"), ctdf.LanguageTC)

	assert.Equal(t, "K12", requested["routeName"])
	assert.Equal(t, "zh", requested["language"])

	require.Equal(t, 2, result.Count())
	assert.Equal(t, 4, result.Arrivals[0].Minutes)
	assert.Equal(t, "10:04", result.Arrivals[0].ClockTime)
	assert.Equal(t, "", result.Arrivals[0].Remark)
	assert.Equal(t, 15, result.Arrivals[1].Minutes)
	assert.Equal(t, "10:15", result.Arrivals[1].ClockTime)
	assert.Equal(t, "原定班次", result.Arrivals[1].Remark)

	// the same stop treated as a midpoint reads the arrival fields
	mtrBus = NewMTRBus(testOptions(time.Date(2024, 1, 1, 10, 0, 0, 0, hongKong)), &fakeStore{})
	mtrBus.ScheduleURL = server.URL
	result = mtrBus.FetchArrivals(context.Background(), key, ctdf.NewStopRef("K12-U010"), ctdf.LanguageEN)

	require.Equal(t, 2, result.Count())
	assert.Equal(t, 1, result.Arrivals[0].Minutes)
	assert.Equal(t, "10:01", result.Arrivals[0].ClockTime)
	assert.Equal(t, "Scheduled Bus", result.Arrivals[1].Remark)

	result = mtrBus.FetchArrivals(context.Background(), key, ctdf.NewStopRef("K12-U020"), ctdf.LanguageTC)
	require.Equal(t, 1, result.Count())
	assert.Equal(t, "即將抵達", result.Arrivals[0].DisplayMinutes())
	assert.Equal(t, "--", result.Arrivals[0].ClockTime)
}

func TestMTRBusFailures(t *testing.T) {
	key := ctdf.NewRouteKey(ctdf.OperatorMTRBus, "K12", ctdf.DirectionOutbound, 0)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, hongKong)

	cases := map[string]struct {
		body     string
		expected ctdf.FailureKind
	}{
		"bad status":      {`{"status":"0"}`, ctdf.FailureUpstreamError},
		"end of service":  {`{"status":1,"routeStatusRemarkTitle":"停止服務","busStop":[]}`, ctdf.FailureEndOfService},
		"stop not listed": {`{"status":1,"routeStatusTime":"2024/01/01 10:00","busStop":[{"busStopId":"K12-U090","bus":[]}]}`, ctdf.FailureNoData},
	}

	for name, testCase := range cases {
		t.Run(name, func(t *testing.T) {
			server := serve(t, testCase.body)

			mtrBus := NewMTRBus(testOptions(now), &fakeStore{})
			mtrBus.ScheduleURL = server.URL

			result := mtrBus.FetchArrivals(context.Background(), key, ctdf.NewStopRef("K12-U010"), ctdf.LanguageTC)
			require.True(t, result.Failed())
			assert.Equal(t, testCase.expected, result.Failure.Kind)
		})
	}
}

func TestBlankMinutesAreSkipped(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, hongKong)

	t.Run("MTRBus", func(t *testing.T) {
		server := serve(t, `{"status":"1","routeStatusTime":"2024/01/01 10:00","busStop":[
			{"busStopId":"K12-U010","bus":[
				{"arrivalTimeInSecond":"","arrivalTimeText":"","departureTimeInSecond":"","departureTimeText":"","isScheduled":"0"},
				{"arrivalTimeInSecond":"480","arrivalTimeText":"8 分鐘","departureTimeInSecond":"540","departureTimeText":"9 分鐘","isScheduled":"0"}
			]},
			{"busStopId":"K12-U020","bus":[
				{"arrivalTimeInSecond":"","arrivalTimeText":" ","isScheduled":"0"}
			]}
		]}`)

		mtrBus := NewMTRBus(testOptions(now), &fakeStore{})
		mtrBus.ScheduleURL = server.URL
		key := ctdf.NewRouteKey(ctdf.OperatorMTRBus, "K12", ctdf.DirectionOutbound, 0)

		result := mtrBus.FetchArrivals(context.Background(), key, ctdf.NewStopRef("K12-U010"), ctdf.LanguageTC)
		require.Equal(t, 1, result.Count())
		assert.Equal(t, "8", result.Arrivals[0].DisplayMinutes())
		assert.Equal(t, "10:08", result.Arrivals[0].ClockTime)

		result = mtrBus.FetchArrivals(context.Background(), key, ctdf.NewStopRef("K12-U020"), ctdf.LanguageTC)
		require.True(t, result.Failed())
		assert.Equal(t, ctdf.FailureNoData, result.Failure.Kind)
	})

	t.Run("LightRail", func(t *testing.T) {
		server := serve(t, `{"status":1,"system_time":"2024-01-01 10:00:00","platform_list":[
			{"platform_id":1,"route_list":[
				{"route_no":"705","dest_en":"TSW Circular","time_en":""},
				{"route_no":"705","dest_en":"TSW Circular","time_en":"6 min"}
			]}
		]}`)

		lightRail := NewLightRail(testOptions(now), &fakeStore{destination: "TSW Circular"})
		lightRail.ScheduleURL = server.URL
		key := ctdf.NewRouteKey(ctdf.OperatorMTRLRT, "705", ctdf.DirectionOutbound, 0)

		result := lightRail.FetchArrivals(context.Background(), key, ctdf.NewStopRef("430"), ctdf.LanguageEN)
		require.Equal(t, 1, result.Count())
		assert.Equal(t, 6, result.Arrivals[0].Minutes)
		assert.Equal(t, "10:06", result.Arrivals[0].ClockTime)
	})

	t.Run("Record", func(t *testing.T) {
		_, ok := ctdf.NewMinutesRecord("")
		assert.False(t, ok)

		record, ok := ctdf.NewMinutesRecord("Arriving")
		require.True(t, ok)
		assert.False(t, record.IsNumeric())
		assert.Equal(t, "Arriving", record.DisplayMinutes())
	})
}

func TestMTRTrainArrivals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "EAL", r.URL.Query().Get("line"))
		assert.Equal(t, "ADM", r.URL.Query().Get("sta"))
		assert.Equal(t, "EN", r.URL.Query().Get("lang"))

		w.Write([]byte(`{"status":1,"message":"successful","sys_time":"2024-01-01 10:00:00","data":{"EAL-ADM":{
			"UP":[],
			"DOWN":[
				{"seq":"1","dest":"LOW","plat":"2","time":"2024-01-01 10:03:00","ttnt":"3","valid":"Y"},
				{"seq":"2","dest":"LMC","plat":"2","time":"2024-01-01 10:07:30","ttnt":"7","valid":"Y"},
				{"seq":"3","dest":"LOW","plat":"2","time":"2024-01-01 10:12:00","ttnt":"12","valid":"Y"},
				{"seq":"4","dest":"LMC","plat":"2","time":"2024-01-01 10:19:00","ttnt":"19","valid":"Y"}
			]}}}`))
	}))
	defer server.Close()

	store := &fakeStore{stations: map[string]string{"LOW": "Lo Wu", "LMC": "Lok Ma Chau"}}
	train := NewMTRTrain(testOptions(time.Date(2024, 1, 1, 10, 0, 0, 0, hongKong)), store)
	train.ScheduleURL = server.URL

	result := train.FetchArrivals(context.Background(),
		ctdf.NewRouteKey(ctdf.OperatorMTRTrain, "EAL", ctdf.DirectionInbound, 0),
		ctdf.NewStopRef("ADM"),
		ctdf.LanguageEN,
	)

	require.Equal(t, 3, result.Count())
	assert.Equal(t, 3, result.Arrivals[0].Minutes)
	assert.Equal(t, "10:03", result.Arrivals[0].ClockTime)
	assert.Equal(t, "Lo Wu", result.Arrivals[0].Destination)
	assert.Equal(t, 7, result.Arrivals[1].Minutes)
	assert.Equal(t, "Lok Ma Chau", result.Arrivals[1].Destination)

	spur := &fakeStore{
		stations:  store.stations,
		direction: &ctdf.RouteDirection{Details: ctdf.RouteDetails{Destination: ctdf.StopEntry{StopID: "LMC"}}},
	}
	train = NewMTRTrain(testOptions(time.Date(2024, 1, 1, 10, 0, 0, 0, hongKong)), spur)
	train.ScheduleURL = server.URL

	result = train.FetchArrivals(context.Background(),
		ctdf.NewRouteKey(ctdf.OperatorMTRTrain, "EAL", ctdf.Direction("inbound-LMC"), 0),
		ctdf.NewStopRef("ADM"),
		ctdf.LanguageEN,
	)
	require.Equal(t, 2, result.Count())
	assert.Equal(t, "10:19", result.Arrivals[1].ClockTime)

	result = train.FetchArrivals(context.Background(),
		ctdf.NewRouteKey(ctdf.OperatorMTRTrain, "EAL", ctdf.DirectionOutbound, 0),
		ctdf.NewStopRef("ADM"),
		ctdf.LanguageEN,
	)
	require.True(t, result.Failed())
	assert.Equal(t, ctdf.FailureNoData, result.Failure.Kind)
}

func TestMTRTrainFailures(t *testing.T) {
	key := ctdf.NewRouteKey(ctdf.OperatorMTRTrain, "TML", ctdf.DirectionOutbound, 0)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, hongKong)

	cases := map[string]struct {
		body     string
		expected ctdf.FailureKind
	}{
		"abnormal service": {`{"status":0,"message":"Special train service arrangements are now in place on this line.","url":"https://www.mtr.com.hk/alert/alert_title_wap.html"}`, ctdf.FailureAbnormalService},
		"station closed":   {`{"status":0,"message":"The train service at this station is suspended."}`, ctdf.FailureStationClosed},
		"bad status":       {`{"status":0,"message":"Error"}`, ctdf.FailureUpstreamError},
		"missing station":  {`{"status":1,"data":{}}`, ctdf.FailureNoData},
	}

	for name, testCase := range cases {
		t.Run(name, func(t *testing.T) {
			server := serve(t, testCase.body)

			train := NewMTRTrain(testOptions(now), &fakeStore{})
			train.ScheduleURL = server.URL

			result := train.FetchArrivals(context.Background(), key, ctdf.NewStopRef("TUM"), ctdf.LanguageTC)
			require.True(t, result.Failed())
			assert.Equal(t, testCase.expected, result.Failure.Kind)
		})
	}
}

// Whatever comes back, an adapter resolves to arrivals or a failure
func TestFetchArrivalsNeverEscapes(t *testing.T) {
	bodies := []string{"", "null", "[]", "{}", "<html>gateway</html>", `{"data":null}`, `{"status":"1","busStop":null}`, `{"status":1,"platform_list":[{}]}`, `{"status":1,"data":{"EAL-ADM":null}}`}
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, hongKong)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer slow.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	urls := []string{slow.URL, failing.URL}
	for _, body := range bodies {
		urls = append(urls, serve(t, body).URL)
	}

	store := &fakeStore{destination: "TSW Circular"}

	for _, serverURL := range urls {
		kmb := NewKMB(testOptions(now))
		kmb.BaseURL = serverURL
		lightRail := NewLightRail(testOptions(now), store)
		lightRail.ScheduleURL = serverURL
		mtrBus := NewMTRBus(testOptions(now), store)
		mtrBus.ScheduleURL = serverURL
		train := NewMTRTrain(testOptions(now), store)
		train.ScheduleURL = serverURL

		for _, normalizer := range []Normalizer{kmb, lightRail, mtrBus, train} {
			result := normalizer.FetchArrivals(context.Background(),
				ctdf.NewRouteKey(normalizer.Operator(), "EAL", ctdf.DirectionOutbound, 0),
				ctdf.NewStopRef("ADM"),
				ctdf.LanguageEN,
			)

			if result.Failed() {
				assert.Empty(t, result.Arrivals)
			} else {
				assert.True(t, result.Count() > 0 && result.Count() <= ctdf.MaxArrivals)
			}
		}
	}

	timedOut := NewKMB(testOptions(now))
	timedOut.BaseURL = slow.URL
	result := timedOut.FetchArrivals(context.Background(),
		ctdf.NewRouteKey(ctdf.OperatorKMB, "1A", ctdf.DirectionOutbound, 1), ctdf.NewStopRef("1"), ctdf.LanguageEN)
	assert.Equal(t, ctdf.FailureNetworkError, result.Failure.Kind)
}

func TestFetchArrivalsRecoversPanics(t *testing.T) {
	server := serve(t, `{"status":1,"system_time":"2024-01-01 10:00:00","platform_list":[]}`)

	lightRail := NewLightRail(testOptions(time.Now()), &fakeStore{panics: true})
	lightRail.ScheduleURL = server.URL

	result := lightRail.FetchArrivals(context.Background(),
		ctdf.NewRouteKey(ctdf.OperatorMTRLRT, "705", ctdf.DirectionOutbound, 0), ctdf.NewStopRef("430"), ctdf.LanguageTC)

	require.True(t, result.Failed())
	assert.Equal(t, ctdf.FailureUnknown, result.Failure.Kind)
}
