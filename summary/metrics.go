package summary

import (
	"fmt"
	"strconv"

	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/forecast"
)

const (
	// ConfidenceThreshold is the confidence percentage a model must exceed to be considered optimal
	ConfidenceThreshold = 85.0

	// MAPEThreshold is the error percentage below which the series is considered low variance
	MAPEThreshold = 15.0
)

const (
	LabelConfidence = "Model Confidence"
	LabelErrorRate  = "Review Error (MAPE)"
	LabelDeviation  = "Root Mean Sq Error"

	CaptionOptimal       = "Optimal model fit"
	CaptionReviewData    = "Review data for variance"
	CaptionLowVariance   = "Low variance"
	CaptionHighNoise     = "High noise"
	CaptionDeviationSize = "Average deviation magnitude"
)

// Severity flags whether a metric needs attention
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityNormal:
		return "normal"
	case SeverityWarning:
		return "warning"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal":
		*s = SeverityNormal
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// DisplayMetric is one summary card
type DisplayMetric struct {
	Label    string   `json:"label"`
	Value    string   `json:"value"`
	Caption  string   `json:"caption"`
	Severity Severity `json:"severity"`
}

// Summarize derives the confidence, error rate and deviation magnitude cards, in that order.
// NaN and infinite inputs are formatted as NaN, +Inf or -Inf and fail every threshold check.
func Summarize(stats forecast.AccuracyStats) []DisplayMetric {
	confidence := 100.0 - stats.MAPE

	confidenceMetric := DisplayMetric{
		Label:    LabelConfidence,
		Value:    formatFloat(confidence, 1) + "%",
		Caption:  CaptionReviewData,
		Severity: SeverityWarning,
	}
	if confidence > ConfidenceThreshold {
		confidenceMetric.Caption = CaptionOptimal
		confidenceMetric.Severity = SeverityNormal
	}

	errorMetric := DisplayMetric{
		Label:    LabelErrorRate,
		Value:    formatFloat(stats.MAPE, 1) + "%",
		Caption:  CaptionHighNoise,
		Severity: SeverityWarning,
	}
	if stats.MAPE < MAPEThreshold {
		errorMetric.Caption = CaptionLowVariance
		errorMetric.Severity = SeverityNormal
	}

	return []DisplayMetric{
		confidenceMetric,
		errorMetric,
		{
			Label:    LabelDeviation,
			Value:    formatFloat(stats.RMSE, 2),
			Caption:  CaptionDeviationSize,
			Severity: SeverityNormal,
		},
	}
}

func formatFloat(x float64, prec int) string {
	return strconv.FormatFloat(x, 'f', prec, 64)
}
