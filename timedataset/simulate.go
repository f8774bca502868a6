package timedataset

import (
	"errors"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	DefaultSyntheticPoints = 100
	DefaultSyntheticStart  = 15000.0

	SyntheticSeasonalAmp    = 50.0
	SyntheticSeasonalPeriod = 5.0 // days per radian of the seasonal sine
	SyntheticNoiseLow       = -45.0
	SyntheticNoiseHigh      = 55.0

	syntheticPrecision = 2
)

var ErrInvalidNumPoints = errors.New("number of points must be greater than 0")

// Float64Source supplies uniform values in [0, 1). *rand.Rand satisfies it.
type Float64Source interface {
	Float64() float64
}

// NewClockSource returns a PCG source seeded from the wall clock
func NewClockSource() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
}

// SyntheticRow is one generated observation with both fields already formatted for CSV output
type SyntheticRow struct {
	DS string
	Y  string
}

// GenerateDates returns n consecutive UTC calendar days, starting n days before the day
// returned by nowFunc.
func GenerateDates(n int, nowFunc func() time.Time) TimeSlice {
	now := nowFunc().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day()-n, 0, 0, 0, 0, time.UTC)

	t := make(TimeSlice, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.AddDate(0, 0, i))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// Round rounds every value in place to prec decimal places
func (s Series) Round(prec int) Series {
	for i := range s {
		s[i] = scalar.Round(s[i], prec)
	}
	return s
}

// GenerateSeasonalY produces amp*sin(i/period) indexed by position
func GenerateSeasonalY(n int, amp, period float64) Series {
	y := make(Series, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, amp*math.Sin(float64(i)/period))
	}
	return y
}

// GenerateUniformNoise draws n independent values uniformly from [low, high)
func GenerateUniformNoise(n int, rnd Float64Source, low, high float64) Series {
	y := make(Series, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, low+rnd.Float64()*(high-low))
	}
	return y
}

// GenerateRandomWalk builds a series starting at start where each subsequent point adds the
// step at the same index. The step at index 0 is ignored.
func GenerateRandomWalk(start float64, steps Series) Series {
	y := make(Series, len(steps))
	if len(steps) == 0 {
		return y
	}
	incr := make([]float64, len(steps))
	copy(incr, steps)
	incr[0] = start
	floats.CumSum(y, incr)
	return y
}

// GenerateSynthetic produces numPoints daily rows of a trending series with sinusoidal
// seasonality and bounded uniform noise. A nil rnd uses a fresh NewClockSource and a nil
// nowFunc uses time.Now.
func GenerateSynthetic(numPoints int, startValue float64, rnd Float64Source, nowFunc func() time.Time) ([]SyntheticRow, error) {
	if numPoints <= 0 {
		return nil, ErrInvalidNumPoints
	}
	if rnd == nil {
		rnd = NewClockSource()
	}
	if nowFunc == nil {
		nowFunc = time.Now
	}

	dates := GenerateDates(numPoints, nowFunc).Dates()

	// no noise is drawn for the first point since it is pinned to startValue
	steps := make(Series, 1, numPoints)
	steps = append(steps, GenerateUniformNoise(numPoints-1, rnd, SyntheticNoiseLow, SyntheticNoiseHigh)...)
	steps.Add(GenerateSeasonalY(numPoints, SyntheticSeasonalAmp, SyntheticSeasonalPeriod))

	values := GenerateRandomWalk(startValue, steps).Round(syntheticPrecision)

	rows := make([]SyntheticRow, 0, numPoints)
	for i := 0; i < numPoints; i++ {
		rows = append(rows, SyntheticRow{
			DS: dates[i],
			Y:  strconv.FormatFloat(values[i], 'f', syntheticPrecision, 64),
		})
	}
	return rows, nil
}

// SyntheticCSV serializes rows as a header-first, comma delimited ds,y document. Lines are
// joined by a newline with no trailing newline.
func SyntheticCSV(rows []SyntheticRow) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, "ds,y")
	for _, r := range rows {
		lines = append(lines, r.DS+","+r.Y)
	}
	return strings.Join(lines, "\n")
}
