package insights

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/forecast"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartValue(t *testing.T) {
	testData := map[string]struct {
		input    float64
		expected interface{}
	}{
		"finite":   {input: 1.5, expected: 1.5},
		"nan":      {input: math.NaN(), expected: "-"},
		"positive": {input: math.Inf(1), expected: "-"},
		"negative": {input: math.Inf(-1), expected: "-"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, chartValue(td.input))
		})
	}
}

func TestLineForecast(t *testing.T) {
	res := testResults()
	res.Data[1].Yhat = forecast.NaN()

	d, err := Build(res, nil, fixedNow)
	require.Nil(t, err)

	line := LineForecast(d)
	require.Len(t, line.MultiSeries, 4)
	assert.Equal(t, SeriesForecast, line.MultiSeries[0].Name)
	assert.Equal(t, SeriesUpper, line.MultiSeries[1].Name)
	assert.Equal(t, SeriesLower, line.MultiSeries[2].Name)
	assert.Equal(t, SeriesAnomaly, line.MultiSeries[3].Name)
}

func TestPlotDashboard(t *testing.T) {
	history := &timedataset.TimeDataset{
		T: []time.Time{day(-2), day(-1), day(0)},
		Y: []float64{90, math.NaN(), 100},
	}

	testData := map[string]struct {
		history     *timedataset.TimeDataset
		wantHistory bool
	}{
		"forecast only": {},
		"with history":  {history: history, wantHistory: true},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			d, err := Build(testResults(), td.history, fixedNow)
			require.Nil(t, err)

			var buf bytes.Buffer
			require.Nil(t, PlotDashboard(&buf, d))

			html := buf.String()
			assert.Contains(t, html, "Predictive Business Insights")
			assert.Contains(t, html, SeriesForecast)
			assert.Contains(t, html, SeriesAnomaly)
			if td.wantHistory {
				assert.Contains(t, html, "Uploaded History")
			} else {
				assert.NotContains(t, html, "Uploaded History")
			}
		})
	}

	assert.ErrorIs(t, PlotDashboard(&bytes.Buffer{}, nil), ErrNoResults)
}
