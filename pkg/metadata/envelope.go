package metadata

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/travigo/etastation/pkg/util"
)

const DateFormat = "20060102"

// Envelope is the on-disk wrapper of every cache file
type Envelope[T any] struct {
	LastUpdate string `json:"lastupdate"`
	Data       T      `json:"data"`
}

func NewEnvelope[T any](data T, today time.Time) *Envelope[T] {
	return &Envelope[T]{
		LastUpdate: today.Format(DateFormat),
		Data:       data,
	}
}

// IsStale reports whether the envelope can no longer be trusted. A missing
// envelope is stale, otherwise it is stale once more than thresholdDays
// calendar days have passed since its last update.
func IsStale[T any](envelope *Envelope[T], thresholdDays int, today time.Time) bool {
	if envelope == nil {
		return true
	}

	lastUpdate, err := time.Parse(DateFormat, envelope.LastUpdate)
	if err != nil {
		return true
	}

	return util.CalendarDaysBetween(lastUpdate, today) > thresholdDays
}

// ReadEnvelope loads a cache file. A file that does not exist is not an
// error, it returns a nil envelope.
func ReadEnvelope[T any](path string) (*Envelope[T], error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var envelope Envelope[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}

	return &envelope, nil
}

// WriteEnvelope replaces path with the envelope. The new content is written to
// a temporary file in the same directory and renamed over the old one so a
// failed write never leaves a partial cache behind.
func WriteEnvelope[T any](path string, envelope *Envelope[T]) error {
	raw, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return util.WriteFileAtomic(path, raw)
}
