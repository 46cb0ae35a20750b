package eta

import (
	"errors"
	"fmt"

	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/fetch"
)

var (
	ErrStationClosed   = errors.New("station closed")
	ErrAbnormalService = errors.New("abnormal service")
	ErrEmptyData       = errors.New("no matching arrivals")
)

// StatusError is an upstream response that parsed but reported failure in its
// own status field
type StatusError struct {
	Operator ctdf.OperatorID
	Status   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned bad status %s", e.Operator, e.Status)
}

// EndOfServiceError is returned when the operator says there is no more
// service today. Reason carries any text the operator gave.
type EndOfServiceError struct {
	Reason string
}

func (e *EndOfServiceError) Error() string {
	if e.Reason == "" {
		return "end of service"
	}
	return "end of service: " + e.Reason
}

// Classify maps an adapter error to a failure reason. The checks run most
// specific first as a bad status from the upstream can look like several of
// the later cases at once.
func Classify(err error) ctdf.FailureReason {
	var upstreamError *fetch.UpstreamError
	var statusError *StatusError
	var endOfService *EndOfServiceError
	var networkError *fetch.NetworkError

	switch {
	case errors.As(err, &upstreamError):
		return ctdf.FailureReason{Kind: ctdf.FailureUpstreamError, Detail: upstreamError.Error()}
	case errors.As(err, &statusError):
		return ctdf.FailureReason{Kind: ctdf.FailureUpstreamError, Detail: statusError.Error()}
	case errors.As(err, &endOfService):
		return ctdf.FailureReason{Kind: ctdf.FailureEndOfService, Detail: endOfService.Reason}
	case errors.Is(err, ErrStationClosed):
		return ctdf.FailureReason{Kind: ctdf.FailureStationClosed, Detail: err.Error()}
	case errors.Is(err, ErrAbnormalService):
		return ctdf.FailureReason{Kind: ctdf.FailureAbnormalService, Detail: err.Error()}
	case errors.As(err, &networkError):
		return ctdf.FailureReason{Kind: ctdf.FailureNetworkError, Detail: networkError.Error()}
	case errors.Is(err, ErrEmptyData):
		return ctdf.FailureReason{Kind: ctdf.FailureNoData}
	default:
		return ctdf.FailureReason{Kind: ctdf.FailureUnknown, Detail: err.Error()}
	}
}
