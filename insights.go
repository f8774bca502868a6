package insights

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/event"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/forecast"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/summary"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/timedataset"
)

var ErrNoResults = errors.New("no forecast results")

// Build shapes a forecasting service response into a dashboard. Anomalies are aligned onto the
// forecast series and summarized. When the service did not score its fit, the forecast is scored
// against history instead. history may be nil.
func Build(res *forecast.Results, history *timedataset.TimeDataset, nowFunc func() time.Time) (*Dashboard, error) {
	if res == nil {
		return nil, ErrNoResults
	}
	if nowFunc == nil {
		nowFunc = time.Now
	}

	points := res.Align()

	stats, source, err := accuracyStats(res, history)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		GeneratedAt:     nowFunc().UTC(),
		Message:         res.Message,
		Parameters:      res.Parameters,
		Points:          points,
		InvalidPoints:   countInvalid(res.Data),
		Metrics:         summary.Summarize(stats),
		Stats:           stats,
		StatsSource:     source,
		Anomalies:       summary.AnomalyReport(points, holidays(points)),
		Insights:        nonNilStrings(res.Insights),
		Recommendations: nonNilStrings(res.Recommendations),
	}
	if history.Len() > 0 {
		d.History = history.Copy()
	}
	return d, nil
}

func accuracyStats(res *forecast.Results, history *timedataset.TimeDataset) (forecast.AccuracyStats, StatsSource, error) {
	if res.Metrics != nil {
		return *res.Metrics, StatsFromService, nil
	}

	nanStats := forecast.AccuracyStats{
		MAE:  math.NaN(),
		RMSE: math.NaN(),
		MAPE: math.NaN(),
	}
	if history.Len() == 0 {
		return nanStats, StatsUnavailable, nil
	}

	observed := make([]forecast.AnomalyRecord, 0, history.Len())
	for i, t := range history.T {
		observed = append(observed, forecast.NewAnomalyRecord(forecast.NewTimestamp(t), history.Y[i]))
	}

	var predicted, actual []float64
	for _, p := range forecast.Align(res.Data, observed) {
		y, ok := p.Anomaly()
		if !ok {
			continue
		}
		predicted = append(predicted, p.Yhat.Float64())
		actual = append(actual, y)
	}
	if len(actual) == 0 {
		return nanStats, StatsUnavailable, nil
	}

	stats, err := forecast.NewAccuracyStats(predicted, actual)
	if err != nil {
		return forecast.AccuracyStats{}, "", fmt.Errorf("unable to score forecast against history, %w", err)
	}
	return stats, StatsFromHistory, nil
}

// holidays returns the US holidays spanning the valid timestamps of points
func holidays(points []forecast.DisplayPoint) event.Events {
	t := make(timedataset.TimeSlice, 0, len(points))
	for _, p := range points {
		if p.DS.Valid() {
			t = append(t, p.DS.Time)
		}
	}
	if len(t) == 0 {
		return nil
	}
	sort.Slice(t, func(i, j int) bool {
		return t[i].Before(t[j])
	})

	// widen to whole days so a holiday observed on the first or last day is included
	start, end := t.StartTime(), t.EndTime()
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	return event.USHolidays(start, end)
}

// countInvalid counts forecast rows with an unparseable timestamp or a forecast outside its bounds
func countInvalid(points []forecast.ForecastPoint) int {
	var n int
	for _, p := range points {
		if err := p.Validate(); err != nil {
			n++
		}
	}
	return n
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
