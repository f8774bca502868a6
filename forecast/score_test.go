package forecast

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccuracyStats(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		expected  AccuracyStats
		err       error
	}{
		"length mismatch": {
			predicted: []float64{1},
			actual:    []float64{1, 2},
			err:       ErrResLenMismatch,
		},
		"perfect fit": {
			predicted: []float64{1, 2, 3},
			actual:    []float64{1, 2, 3},
			expected:  AccuracyStats{MAE: 0, RMSE: 0, MAPE: 0},
		},
		"errors with nans and zeros skipped": {
			predicted: []float64{9, 22, math.NaN(), 1},
			actual:    []float64{10, 20, 5, 0},
			// abs errors 1, 2, 1 -> MAE 4/3, squared 1, 4, 1 -> RMSE sqrt(2)
			// percent errors 10, 10 -> MAPE 10
			expected: AccuracyStats{MAE: 4.0 / 3.0, RMSE: math.Sqrt(2), MAPE: 10},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := NewAccuracyStats(td.predicted, td.actual)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDelta(t, td.expected.MAE, res.MAE, 1e-9)
			assert.InDelta(t, td.expected.RMSE, res.RMSE, 1e-9)
			assert.InDelta(t, td.expected.MAPE, res.MAPE, 1e-9)
		})
	}
}

func TestNewAccuracyStatsNothingToScore(t *testing.T) {
	res, err := NewAccuracyStats([]float64{math.NaN()}, []float64{1})
	require.Nil(t, err)
	assert.True(t, math.IsNaN(res.MAE))
	assert.True(t, math.IsNaN(res.RMSE))
	assert.True(t, math.IsNaN(res.MAPE))
}

func TestAccuracyStatsJSON(t *testing.T) {
	var stats AccuracyStats
	require.Nil(t, json.Unmarshal([]byte(`{"MAE": 1.5, "RMSE": "2", "MAPE": null}`), &stats))
	assert.Equal(t, 1.5, stats.MAE)
	assert.Equal(t, 2.0, stats.RMSE)
	assert.True(t, math.IsNaN(stats.MAPE))

	out, err := json.Marshal(stats)
	require.Nil(t, err)
	assert.JSONEq(t, `{"MAE": 1.5, "RMSE": 2, "MAPE": null}`, string(out))
}
