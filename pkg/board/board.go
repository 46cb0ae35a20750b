package board

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/metadata"
	"github.com/travigo/etastation/pkg/operators"
	"github.com/travigo/etastation/pkg/util"
)

const (
	destinationLengthCJK   = 9
	destinationLengthLatin = 22
	stopNameLength         = 8
)

const (
	emptyMinutes = "---"
	emptyClock   = "--"
)

// Slot is one arrival column of a row as it is drawn on the panel
type Slot struct {
	Minutes string `json:"minutes" groups:"basic"`
	Clock   string `json:"clock" groups:"basic"`
	Remark  string `json:"remark" groups:"basic"`
}

type Row struct {
	Entry ctdf.BoardEntry `json:"entry" groups:"detailed"`

	Route       string `json:"route" groups:"basic"`
	Origin      string `json:"origin" groups:"detailed"`
	Destination string `json:"destination" groups:"basic"`
	StopName    string `json:"stop_name" groups:"basic"`

	Result ctdf.Result `json:"result" groups:"detailed"`
	Lines  []Slot      `json:"slots" groups:"basic"`
}

// Slots lays the result out over n columns. Missing arrivals are padded with
// placeholders and a failure takes the first column.
func (r *Row) Slots(n int) []Slot {
	slots := make([]Slot, n)
	for i := range slots {
		slots[i] = Slot{Minutes: emptyMinutes, Clock: emptyClock}
	}

	if n == 0 {
		return slots
	}

	if r.Result.Failed() {
		slots[0] = Slot{
			Minutes: r.Result.Failure.Message(r.Entry.Language()),
			Clock:   emptyClock,
		}
		return slots
	}

	for i, arrival := range r.Result.Arrivals {
		if i >= n {
			break
		}
		slots[i] = Slot{
			Minutes: arrival.DisplayMinutes(),
			Clock:   arrival.ClockTime,
			Remark:  arrival.Remark,
		}
	}

	return slots
}

type Board struct {
	registry *operators.Registry
	entries  []ctdf.BoardEntry
	slots    int
	logger   zerolog.Logger
}

func NewBoard(registry *operators.Registry, entries []ctdf.BoardEntry, slots int, logger zerolog.Logger) *Board {
	if slots < 1 || slots > ctdf.MaxArrivals {
		slots = ctdf.MaxArrivals
	}

	return &Board{
		registry: registry,
		entries:  entries,
		slots:    slots,
		logger:   logger,
	}
}

func (b *Board) Entries() []ctdf.BoardEntry {
	return b.entries
}

// Refresh resolves every configured entry one after the other. There is
// always one row per entry, in configuration order.
func (b *Board) Refresh(ctx context.Context) []Row {
	rows := make([]Row, 0, len(b.entries))

	for _, entry := range b.entries {
		rows = append(rows, b.Resolve(ctx, entry))
	}

	b.logger.Debug().Int("rows", len(rows)).Msg("Board refreshed")

	return rows
}

func (b *Board) Resolve(ctx context.Context, entry ctdf.BoardEntry) Row {
	key := entry.RouteKey()
	stop := entry.StopRef()
	lang := entry.Language()

	row := Row{
		Entry: entry,
		Route: entry.Route,
	}

	logger := b.logger.With().
		Str("operator", string(entry.Operator)).
		Str("route", entry.Route).
		Str("direction", string(entry.Direction)).
		Str("stop", entry.Stop).
		Logger()

	operator, err := b.registry.Lookup(entry.Operator)
	if err != nil {
		logger.Error().Err(err).Msg("Board entry has no registered operator")

		row.Origin = metadata.LookupFailed
		row.Destination = metadata.LookupFailed
		row.StopName = metadata.LookupFailed
		row.Result = ctdf.NewFailureResult(ctdf.FailureReason{Kind: ctdf.FailureUnknown, Detail: err.Error()})
		row.Lines = row.Slots(b.slots)
		return row
	}

	row.Origin = operator.Store.Origin(ctx, key, lang)
	row.Destination = util.TrimDisplayString(operator.Store.Destination(ctx, key, lang), destinationLengthCJK, destinationLengthLatin)
	row.StopName = util.TrimString(operator.Store.StopName(ctx, key, stop, lang), stopNameLength)

	row.Result = operator.Normalizer.FetchArrivals(ctx, key, stop, lang)
	row.Lines = row.Slots(b.slots)

	if row.Result.Failed() {
		logger.Debug().Str("failure", string(row.Result.Failure.Kind)).Msg("Board entry has no arrivals")
	}

	return row
}
