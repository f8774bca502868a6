package forecast

import (
	"errors"
	"fmt"
)

const (
	MinHorizon     = 1
	MaxHorizon     = 365
	DefaultHorizon = 30
)

var (
	ErrInvalidHorizon         = errors.New("forecast horizon must be between 1 and 365 periods")
	ErrInvalidSeasonalityMode = errors.New("seasonality mode must be additive or multiplicative")
	ErrInvalidGrowth          = errors.New("growth must be linear or flat")
)

// SeasonalityMode controls how the forecasting model combines trend and seasonal components. It
// is forwarded to the service as-is.
type SeasonalityMode string

const (
	SeasonalityAdditive       SeasonalityMode = "additive"
	SeasonalityMultiplicative SeasonalityMode = "multiplicative"
)

func (m SeasonalityMode) Valid() bool {
	switch m {
	case SeasonalityAdditive, SeasonalityMultiplicative:
		return true
	}
	return false
}

// Growth selects the trend shape of the forecasting model
type Growth string

const (
	GrowthLinear Growth = "linear"
	GrowthFlat   Growth = "flat"
)

func (g Growth) Valid() bool {
	switch g {
	case GrowthLinear, GrowthFlat:
		return true
	}
	return false
}

// Parameters are the request options sent to the forecasting service
type Parameters struct {
	Days            int             `json:"days,omitempty"`
	SeasonalityMode SeasonalityMode `json:"seasonality_mode"`
	Growth          Growth          `json:"growth"`
}

func NewDefaultParameters() Parameters {
	return Parameters{
		Days:            DefaultHorizon,
		SeasonalityMode: SeasonalityAdditive,
		Growth:          GrowthLinear,
	}
}

func (p Parameters) Validate() error {
	if p.Days < MinHorizon || p.Days > MaxHorizon {
		return fmt.Errorf("got %d, %w", p.Days, ErrInvalidHorizon)
	}
	if !p.SeasonalityMode.Valid() {
		return fmt.Errorf("got %q, %w", p.SeasonalityMode, ErrInvalidSeasonalityMode)
	}
	if !p.Growth.Valid() {
		return fmt.Errorf("got %q, %w", p.Growth, ErrInvalidGrowth)
	}
	return nil
}

// Results is the forecasting service response. Metrics is nil when the service did not score
// its fit.
type Results struct {
	Message         string          `json:"message"`
	Parameters      Parameters      `json:"parameters"`
	Data            []ForecastPoint `json:"data"`
	Anomalies       []AnomalyRecord `json:"anomalies"`
	Metrics         *AccuracyStats  `json:"metrics"`
	Insights        []string        `json:"insights"`
	Recommendations []string        `json:"recommendations"`
}

// Align merges the anomalies of the response into its forecast series
func (r *Results) Align() []DisplayPoint {
	if r == nil {
		return []DisplayPoint{}
	}
	return Align(r.Data, r.Anomalies)
}
