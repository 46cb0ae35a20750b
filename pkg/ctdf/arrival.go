package ctdf

import (
	"strconv"
	"strings"
)

// MaxArrivals is how many upcoming arrivals are kept per stop
const MaxArrivals = 3

type ArrivalRecord struct {
	// Minutes is only meaningful when MinutesText is empty
	Minutes int `json:"eta_mins" groups:"basic"`
	// MinutesText carries the operators own wording when there is no number
	// to show, such as "arriving" or "departing"
	MinutesText string `json:"eta_mins_text,omitempty" groups:"basic"`

	ClockTime   string `json:"eta_time" groups:"basic"`
	Remark      string `json:"remark" groups:"basic"`
	Destination string `json:"destination,omitempty" groups:"detailed"`
}

func (a ArrivalRecord) IsNumeric() bool {
	return a.MinutesText == ""
}

func (a ArrivalRecord) DisplayMinutes() string {
	if !a.IsNumeric() {
		return a.MinutesText
	}
	return strconv.Itoa(a.Minutes)
}

// NewMinutesRecord builds a record from an operator supplied minutes token,
// keeping it as text when it is not numeric. A blank token carries no arrival
// and gives false.
func NewMinutesRecord(token string) (ArrivalRecord, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return ArrivalRecord{}, false
	}

	if minutes, err := strconv.Atoi(token); err == nil {
		return ArrivalRecord{Minutes: minutes}, true
	}
	return ArrivalRecord{MinutesText: token}, true
}
