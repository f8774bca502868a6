package insights

import (
	"time"

	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/forecast"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/summary"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/timedataset"
)

// StatsSource records where the accuracy statistics of a dashboard came from
type StatsSource string

const (
	StatsFromService StatsSource = "service"
	StatsFromHistory StatsSource = "history"
	StatsUnavailable StatsSource = "unavailable"
)

// Dashboard is everything needed to display one forecast
type Dashboard struct {
	GeneratedAt     time.Time                `json:"generated_at"`
	Message         string                   `json:"message"`
	Parameters      forecast.Parameters      `json:"parameters"`
	Points          []forecast.DisplayPoint  `json:"points"`
	InvalidPoints   int                      `json:"invalid_points"`
	Metrics         []summary.DisplayMetric  `json:"metrics"`
	Stats           forecast.AccuracyStats   `json:"stats"`
	StatsSource     StatsSource              `json:"stats_source"`
	Anomalies       summary.AnomalyDigest    `json:"anomalies"`
	Insights        []string                 `json:"insights"`
	Recommendations []string                 `json:"recommendations"`
	History         *timedataset.TimeDataset `json:"-"`
}
