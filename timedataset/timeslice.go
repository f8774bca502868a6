package timedataset

import (
	"math"
	"time"
)

const (
	// DateLayout is the calendar date format used for uploads and generated samples
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	if len(t) < 1 {
		return time.Time{}
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	if len(t) < 1 {
		return time.Time{}
	}
	return t[len(t)-1]
}

// EstimateFreq returns the most common gap between consecutive points. Ties resolve to the
// smallest gap.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	counts := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		counts[t[i].Sub(t[i-1])]++
	}

	var maxCnt int
	freq := time.Duration(math.MaxInt64)
	for delta, cnt := range counts {
		if cnt > maxCnt || (cnt == maxCnt && delta < freq) {
			maxCnt = cnt
			freq = delta
		}
	}
	return freq, nil
}

// Dates formats every point as a UTC calendar date
func (t TimeSlice) Dates() []string {
	return t.Format(DateLayout)
}

// Labels formats every point as a UTC date, adding the time of day when points are sampled
// more often than daily.
func (t TimeSlice) Labels() []string {
	layout := DateLayout
	if freq, err := t.EstimateFreq(); err == nil && freq < 24*time.Hour {
		layout = DateTimeLayout
	}
	return t.Format(layout)
}

func (t TimeSlice) Format(layout string) []string {
	res := make([]string, 0, len(t))
	for _, tPnt := range t {
		res = append(res, tPnt.UTC().Format(layout))
	}
	return res
}
