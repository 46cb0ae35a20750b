package ctdf

// Result holds exactly one of a list of arrivals or a failure reason
type Result struct {
	Arrivals []ArrivalRecord `json:"arrivals,omitempty" groups:"basic"`
	Failure  *FailureReason  `json:"failure,omitempty" groups:"basic"`
}

// NewArrivalsResult keeps at most MaxArrivals records. An empty list is
// reported as NoData so a result is never empty and unfailed at once.
func NewArrivalsResult(arrivals []ArrivalRecord) Result {
	if len(arrivals) == 0 {
		return NewFailureResult(FailureReason{Kind: FailureNoData})
	}
	if len(arrivals) > MaxArrivals {
		arrivals = arrivals[:MaxArrivals]
	}
	return Result{Arrivals: arrivals}
}

func NewFailureResult(reason FailureReason) Result {
	return Result{Failure: &reason}
}

func (r Result) Failed() bool {
	return r.Failure != nil
}

func (r Result) Count() int {
	return len(r.Arrivals)
}
