package metadata

import (
	"encoding/csv"
	"errors"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/travigo/etastation/pkg/fetch"
	"github.com/travigo/etastation/pkg/util"
)

var ErrEmptyFeed = errors.New("bulk feed contained no rows")

// decodeCSV unmarshals a bulk CSV feed. Rows made up of nothing but
// separators and quotes are dropped before decoding.
func decodeCSV[T any](body *fetch.Body) ([]T, error) {
	lines := body.Lines()
	util.InPlaceFilter(&lines, func(line string) bool {
		return strings.Trim(line, ",\" \t") != ""
	})

	if len(lines) < 2 {
		return nil, ErrEmptyFeed
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows []T
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFeed
	}

	return rows, nil
}

// parseSequence reads sequence columns which may be written as "3" or "3.00"
func parseSequence(value string) (int, error) {
	whole, _, _ := strings.Cut(strings.TrimSpace(value), ".")
	return strconv.Atoi(whole)
}
