package forecast

import (
	"bytes"
	"math"
	"strconv"
	"time"

	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/timedataset"
	"github.com/goccy/go-json"
)

var nullJSON = []byte("null")

// maxEpochMillis bounds numeric timestamps to ±100,000,000 days around the epoch. Larger values
// do not survive the conversion to an int64 millisecond count and are treated as invalid.
const maxEpochMillis = 8.64e15

// Timestamp is a time received from the forecasting service. The raw text is kept so it can be
// echoed back unchanged. A Timestamp that could not be parsed is invalid and never matches
// another Timestamp.
type Timestamp struct {
	Time time.Time
	Raw  string

	valid bool
}

// NewTimestamp wraps an already parsed time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, valid: true}
}

// ParseTimestamp parses s, returning an invalid Timestamp rather than an error when s is not
// a recognized time format.
func ParseTimestamp(s string) Timestamp {
	t, err := timedataset.ParseTime(s)
	if err != nil {
		return Timestamp{Raw: s}
	}
	return Timestamp{Time: t, Raw: s, valid: true}
}

// Valid reports whether the timestamp holds a parsed time
func (ts Timestamp) Valid() bool {
	return ts.valid
}

// instant is the canonical epoch representation used to compare timestamps. It is split into
// seconds and nanoseconds so times outside the int64 nanosecond range still compare exactly.
type instant struct {
	sec  int64
	nsec int
}

func (ts Timestamp) key() (instant, bool) {
	if !ts.Valid() {
		return instant{}, false
	}
	return instant{sec: ts.Time.Unix(), nsec: ts.Time.Nanosecond()}, true
}

// Equal reports whether both timestamps are valid and represent the same instant
func (ts Timestamp) Equal(other Timestamp) bool {
	a, ok := ts.key()
	if !ok {
		return false
	}
	b, ok := other.key()
	return ok && a == b
}

func (ts Timestamp) String() string {
	if ts.Raw != "" {
		return ts.Raw
	}
	if !ts.Valid() {
		return ""
	}
	return ts.Time.UTC().Format(time.RFC3339Nano)
}

// UnmarshalJSON accepts a time string, a number of epoch milliseconds or null. Anything else
// produces an invalid Timestamp.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*ts = Timestamp{}
	if len(data) == 0 || bytes.Equal(data, nullJSON) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*ts = ParseTimestamp(s)
		return nil
	}

	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		ts.Raw = string(data)
		return nil
	}
	*ts = Timestamp{Time: time.UnixMilli(int64(ms)).UTC(), Raw: string(data), valid: true}
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Raw == "" && !ts.Valid() {
		return nullJSON, nil
	}
	return json.Marshal(ts.String())
}

// Value is a number received from the forecasting service. Missing, null or non-numeric input
// decodes to NaN, and NaN or infinite values encode as null.
type Value float64

// NaN returns a Value holding NaN
func NaN() Value {
	return Value(math.NaN())
}

func (v Value) Float64() float64 {
	return float64(v)
}

// IsFinite reports whether the value is neither NaN nor infinite
func (v Value) IsFinite() bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*v = NaN()
	if len(data) == 0 || bytes.Equal(data, nullJSON) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	}
	f, err := strconv.ParseFloat(string(bytes.TrimSpace([]byte(raw))), 64)
	if err != nil {
		return nil
	}
	*v = Value(f)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.IsFinite() {
		return nullJSON, nil
	}
	return strconv.AppendFloat(nil, float64(v), 'f', -1, 64), nil
}
