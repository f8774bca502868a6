package summary

import (
	"math"
	"sort"

	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/event"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/forecast"
	"github.com/montanaflynn/stats"
)

const (
	HighVariancePct   = 20.0
	MediumVariancePct = 10.0

	DefaultTopAnomalies = 10
)

// Level buckets an anomaly by how far it strays from the forecast
type Level string

const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// NewLevel buckets a variance percentage. NaN variance is Low.
func NewLevel(variancePct float64) Level {
	switch {
	case variancePct >= HighVariancePct:
		return LevelHigh
	case variancePct >= MediumVariancePct:
		return LevelMedium
	}
	return LevelLow
}

// AnomalyInsight describes one anomaly matched onto the forecast
type AnomalyInsight struct {
	DS          forecast.Timestamp `json:"ds"`
	Actual      forecast.Value     `json:"y"`
	Forecast    forecast.Value     `json:"yhat"`
	Deviation   forecast.Value     `json:"deviation"`
	VariancePct forecast.Value     `json:"variance_pct"`
	Level       Level              `json:"severity_level"`
	Holiday     string             `json:"holiday,omitempty"`
}

// AnomalyDigest summarizes every anomaly of a display series
type AnomalyDigest struct {
	Total           int              `json:"total"`
	Counts          map[Level]int    `json:"counts"`
	MeanVariancePct forecast.Value   `json:"mean_variance_pct"`
	MaxVariancePct  forecast.Value   `json:"max_variance_pct"`
	P90VariancePct  forecast.Value   `json:"p90_variance_pct"`
	Top             []AnomalyInsight `json:"top"`
}

// NewAnomalyInsight computes the deviation of an anomaly from the forecast at the same point.
// Variance is relative to the forecast and is NaN when the forecast is zero.
func NewAnomalyInsight(p forecast.DisplayPoint, holidays event.Events) (AnomalyInsight, bool) {
	y, ok := p.Anomaly()
	if !ok {
		return AnomalyInsight{}, false
	}
	yhat := p.Yhat.Float64()
	deviation := y - yhat

	variancePct := math.NaN()
	if yhat != 0 {
		variancePct = math.Abs(deviation) / math.Abs(yhat) * 100.0
	}

	insight := AnomalyInsight{
		DS:          p.DS,
		Actual:      forecast.Value(y),
		Forecast:    p.Yhat,
		Deviation:   forecast.Value(deviation),
		VariancePct: forecast.Value(variancePct),
		Level:       NewLevel(variancePct),
	}
	if p.DS.Valid() {
		if ev, found := holidays.Find(p.DS.Time); found {
			insight.Holiday = ev.DisplayName()
		}
	}
	return insight, true
}

// AnomalyReport collects the anomalies of points, counting them per level and keeping the
// DefaultTopAnomalies largest by absolute deviation.
func AnomalyReport(points []forecast.DisplayPoint, holidays event.Events) AnomalyDigest {
	digest := AnomalyDigest{
		Counts: map[Level]int{
			LevelHigh:   0,
			LevelMedium: 0,
			LevelLow:    0,
		},
		MeanVariancePct: forecast.NaN(),
		MaxVariancePct:  forecast.NaN(),
		P90VariancePct:  forecast.NaN(),
		Top:             []AnomalyInsight{},
	}

	var insights []AnomalyInsight
	var variances stats.Float64Data
	for _, p := range points {
		insight, ok := NewAnomalyInsight(p, holidays)
		if !ok {
			continue
		}
		insights = append(insights, insight)
		digest.Counts[insight.Level]++
		if insight.VariancePct.IsFinite() {
			variances = append(variances, insight.VariancePct.Float64())
		}
	}
	digest.Total = len(insights)

	if mean, err := stats.Mean(variances); err == nil {
		digest.MeanVariancePct = forecast.Value(mean)
	}
	if maxVar, err := stats.Max(variances); err == nil {
		digest.MaxVariancePct = forecast.Value(maxVar)
	}
	if p90, err := stats.Percentile(variances, 90); err == nil {
		digest.P90VariancePct = forecast.Value(p90)
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return absOrNegInf(insights[i].Deviation) > absOrNegInf(insights[j].Deviation)
	})
	if len(insights) > DefaultTopAnomalies {
		insights = insights[:DefaultTopAnomalies]
	}
	digest.Top = append(digest.Top, insights...)
	return digest
}

// absOrNegInf sorts NaN deviations after every real one
func absOrNegInf(v forecast.Value) float64 {
	f := v.Float64()
	if math.IsNaN(f) {
		return math.Inf(-1)
	}
	return math.Abs(f)
}
