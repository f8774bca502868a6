package timedataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	ColumnTime  = "ds"
	ColumnValue = "y"
)

var (
	ErrMissingColumns = errors.New("csv must contain 'ds' (date) and 'y' (value) columns")
	ErrMalformedRow   = errors.New("malformed csv row")
)

// ReadCSV parses a ds,y upload into a TimeDataset sorted by time. Column order is free and
// additional columns are ignored. Empty values are treated as missing observations (NaN).
func ReadCSV(r io.Reader) (*TimeDataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoTrainingData
		}
		return nil, fmt.Errorf("unable to read csv header, %w", err)
	}

	tIdx, yIdx := -1, -1
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		switch col {
		case ColumnTime:
			tIdx = i
		case ColumnValue:
			yIdx = i
		}
	}
	if tIdx < 0 || yIdx < 0 {
		return nil, ErrMissingColumns
	}

	var t []time.Time
	var y []float64
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read csv, %w", err)
		}
		line, _ := reader.FieldPos(0)
		if tIdx >= len(record) || yIdx >= len(record) {
			return nil, fmt.Errorf("line %d has %d fields, %w", line, len(record), ErrMalformedRow)
		}

		ts, err := ParseTime(record[tIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d, %w, %w", line, err, ErrMalformedRow)
		}
		val := math.NaN()
		if raw := strings.TrimSpace(record[yIdx]); raw != "" {
			val, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, value %q, %w", line, raw, ErrMalformedRow)
			}
		}
		t = append(t, ts)
		y = append(y, val)
	}

	if len(t) == 0 {
		return nil, ErrNoTrainingData
	}
	return NewSortedDataset(t, y)
}
