package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	testData := map[string]struct {
		input    string
		expected time.Time
		err      error
	}{
		"date only": {
			input:    "2024-01-05",
			expected: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		"zoneless datetime": {
			input:    "2024-01-05T13:14:15",
			expected: time.Date(2024, 1, 5, 13, 14, 15, 0, time.UTC),
		},
		"zoneless datetime with millis": {
			input:    "2024-01-05T13:14:15.250",
			expected: time.Date(2024, 1, 5, 13, 14, 15, 250*int(time.Millisecond), time.UTC),
		},
		"space separated": {
			input:    " 2024-01-05 13:14:15 ",
			expected: time.Date(2024, 1, 5, 13, 14, 15, 0, time.UTC),
		},
		"rfc3339 with offset": {
			input:    "2024-01-05T13:14:15+02:00",
			expected: time.Date(2024, 1, 5, 11, 14, 15, 0, time.UTC),
		},
		"empty": {
			input: "   ",
			err:   ErrUnparseableTime,
		},
		"garbage": {
			input: "yesterday",
			err:   ErrUnparseableTime,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := ParseTime(td.input)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.True(t, td.expected.Equal(res), "expected %s, got %s", td.expected, res)
		})
	}
}

func TestNewUnivariateDataset(t *testing.T) {
	testData := map[string]struct {
		t        []time.Time
		y        []float64
		expected *TimeDataset
		err      error
	}{
		"no training data": {
			err: ErrNoTrainingData,
		},
		"length mismatch": {
			y:   []float64{1},
			err: ErrDatasetLenMismatch,
		},
		"non increasing time": {
			t: []time.Time{
				time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{1, 2},
			err: ErrNonMontonic,
		},
		"valid": {
			t: []time.Time{
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
			},
			y: []float64{1, 2},
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
				},
				Y: []float64{1, 2},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := NewUnivariateDataset(td.t, td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, ds)
		})
	}
}

func TestNewSortedDataset(t *testing.T) {
	testData := map[string]struct {
		t        []time.Time
		y        []float64
		expected *TimeDataset
		err      error
	}{
		"unsorted input": {
			t: []time.Time{
				time.Date(1970, 1, 3, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
			},
			y: []float64{3, 1, 2},
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
					time.Date(1970, 1, 3, 0, 0, 0, 0, time.UTC),
				},
				Y: []float64{1, 2, 3},
			},
		},
		"duplicate time": {
			t: []time.Time{
				time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{1, 2},
			err: ErrNonMontonic,
		},
		"length mismatch": {
			t:   []time.Time{time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)},
			err: ErrDatasetLenMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := NewSortedDataset(td.t, td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, ds)
		})
	}
}

func TestCopy(t *testing.T) {
	tSeries := []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	y := []float64{0, 1}
	ds, err := NewUnivariateDataset(tSeries, y)
	require.Nil(t, err)

	nextDs := ds.Copy()
	require.Equal(t, ds, nextDs)

	ds.Y[0] = 10
	require.NotEqual(t, nextDs, ds)
	assert.Equal(t, 2, nextDs.Len())

	var empty *TimeDataset
	assert.Equal(t, 0, empty.Len())
}
