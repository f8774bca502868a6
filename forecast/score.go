package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/stat"
)

var ErrResLenMismatch = errors.New("predicted and actual have different lengths")

// AccuracyStats holds the forecast error statistics reported by the forecasting service. MAPE is
// a percentage.
type AccuracyStats struct {
	MAE  float64
	RMSE float64
	MAPE float64
}

type accuracyStatsJSON struct {
	MAE  Value `json:"MAE"`
	RMSE Value `json:"RMSE"`
	MAPE Value `json:"MAPE"`
}

func (s AccuracyStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(accuracyStatsJSON{
		MAE:  Value(s.MAE),
		RMSE: Value(s.RMSE),
		MAPE: Value(s.MAPE),
	})
}

// UnmarshalJSON decodes the stats leaving missing or non-numeric fields as NaN
func (s *AccuracyStats) UnmarshalJSON(data []byte) error {
	raw := accuracyStatsJSON{MAE: NaN(), RMSE: NaN(), MAPE: NaN()}
	if isJSONObject(data) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	*s = AccuracyStats{
		MAE:  float64(raw.MAE),
		RMSE: float64(raw.RMSE),
		MAPE: float64(raw.MAPE),
	}
	return nil
}

// NewAccuracyStats scores predicted values against actual observations. Pairs where either side
// is NaN are skipped and MAPE additionally skips zero actuals. Statistics with nothing to score
// are NaN.
func NewAccuracyStats(predicted, actual []float64) (AccuracyStats, error) {
	if len(predicted) != len(actual) {
		return AccuracyStats{}, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	absErr := make([]float64, 0, len(actual))
	sqErr := make([]float64, 0, len(actual))
	pctErr := make([]float64, 0, len(actual))
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		diff := actual[i] - predicted[i]
		absErr = append(absErr, math.Abs(diff))
		sqErr = append(sqErr, diff*diff)
		if actual[i] != 0 {
			pctErr = append(pctErr, math.Abs(diff/actual[i])*100.0)
		}
	}

	return AccuracyStats{
		MAE:  mean(absErr),
		RMSE: math.Sqrt(mean(sqErr)),
		MAPE: mean(pctErr),
	}, nil
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}
