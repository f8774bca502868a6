package summary

import (
	"math"
	"testing"

	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/forecast"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	testData := map[string]struct {
		stats    forecast.AccuracyStats
		expected []DisplayMetric
	}{
		"healthy model": {
			stats: forecast.AccuracyStats{MAE: 10, RMSE: 12.3456, MAPE: 4.26},
			expected: []DisplayMetric{
				{Label: LabelConfidence, Value: "95.7%", Caption: CaptionOptimal, Severity: SeverityNormal},
				{Label: LabelErrorRate, Value: "4.3%", Caption: CaptionLowVariance, Severity: SeverityNormal},
				{Label: LabelDeviation, Value: "12.35", Caption: CaptionDeviationSize, Severity: SeverityNormal},
			},
		},
		"mape at threshold is high noise": {
			stats: forecast.AccuracyStats{MAE: 0, RMSE: 0, MAPE: 15},
			expected: []DisplayMetric{
				{Label: LabelConfidence, Value: "85.0%", Caption: CaptionReviewData, Severity: SeverityWarning},
				{Label: LabelErrorRate, Value: "15.0%", Caption: CaptionHighNoise, Severity: SeverityWarning},
				{Label: LabelDeviation, Value: "0.00", Caption: CaptionDeviationSize, Severity: SeverityNormal},
			},
		},
		"mape just under threshold": {
			stats: forecast.AccuracyStats{MAE: 0, RMSE: 0, MAPE: 14.99},
			expected: []DisplayMetric{
				{Label: LabelConfidence, Value: "85.0%", Caption: CaptionOptimal, Severity: SeverityNormal},
				{Label: LabelErrorRate, Value: "15.0%", Caption: CaptionLowVariance, Severity: SeverityNormal},
				{Label: LabelDeviation, Value: "0.00", Caption: CaptionDeviationSize, Severity: SeverityNormal},
			},
		},
		"confidence just above threshold": {
			stats: forecast.AccuracyStats{MAPE: 14.999999},
			expected: []DisplayMetric{
				{Label: LabelConfidence, Value: "85.0%", Caption: CaptionOptimal, Severity: SeverityNormal},
				{Label: LabelErrorRate, Value: "15.0%", Caption: CaptionLowVariance, Severity: SeverityNormal},
				{Label: LabelDeviation, Value: "0.00", Caption: CaptionDeviationSize, Severity: SeverityNormal},
			},
		},
		"confidence below threshold": {
			stats: forecast.AccuracyStats{RMSE: 1.004, MAPE: 15.1},
			expected: []DisplayMetric{
				{Label: LabelConfidence, Value: "84.9%", Caption: CaptionReviewData, Severity: SeverityWarning},
				{Label: LabelErrorRate, Value: "15.1%", Caption: CaptionHighNoise, Severity: SeverityWarning},
				{Label: LabelDeviation, Value: "1.00", Caption: CaptionDeviationSize, Severity: SeverityNormal},
			},
		},
		"nan and infinity pass through": {
			stats: forecast.AccuracyStats{MAE: math.NaN(), RMSE: math.Inf(1), MAPE: math.NaN()},
			expected: []DisplayMetric{
				{Label: LabelConfidence, Value: "NaN%", Caption: CaptionReviewData, Severity: SeverityWarning},
				{Label: LabelErrorRate, Value: "NaN%", Caption: CaptionHighNoise, Severity: SeverityWarning},
				{Label: LabelDeviation, Value: "+Inf", Caption: CaptionDeviationSize, Severity: SeverityNormal},
			},
		},
		"negative mape infinity": {
			stats: forecast.AccuracyStats{MAPE: math.Inf(-1)},
			expected: []DisplayMetric{
				{Label: LabelConfidence, Value: "+Inf%", Caption: CaptionOptimal, Severity: SeverityNormal},
				{Label: LabelErrorRate, Value: "-Inf%", Caption: CaptionLowVariance, Severity: SeverityNormal},
				{Label: LabelDeviation, Value: "0.00", Caption: CaptionDeviationSize, Severity: SeverityNormal},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := Summarize(td.stats)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	stats := forecast.AccuracyStats{MAE: 1, RMSE: 2, MAPE: 3}
	assert.Equal(t, Summarize(stats), Summarize(stats))
}

func TestDisplayMetricJSON(t *testing.T) {
	out, err := json.Marshal(Summarize(forecast.AccuracyStats{MAPE: 20, RMSE: 3}))
	require.Nil(t, err)
	assert.JSONEq(t, `[
		{"label": "Model Confidence", "value": "80.0%", "caption": "Review data for variance", "severity": "warning"},
		{"label": "Review Error (MAPE)", "value": "20.0%", "caption": "High noise", "severity": "warning"},
		{"label": "Root Mean Sq Error", "value": "3.00", "caption": "Average deviation magnitude", "severity": "normal"}
	]`, string(out))

	var decoded []DisplayMetric
	require.Nil(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, SeverityWarning, decoded[0].Severity)

	var sev Severity
	assert.NotNil(t, sev.UnmarshalText([]byte("critical")))
	assert.Equal(t, "Severity(7)", Severity(7).String())
}
