package forecast

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrBoundsOrder      = errors.New("forecast is not within its confidence bounds")
	ErrNonFiniteValue   = errors.New("forecast value is missing or not finite")
)

// ForecastPoint is one period's point forecast along with its confidence bounds
type ForecastPoint struct {
	DS        Timestamp `json:"ds"`
	Yhat      Value     `json:"yhat"`
	YhatLower Value     `json:"yhat_lower"`
	YhatUpper Value     `json:"yhat_upper"`
}

// NewForecastPoint builds a point from parsed values
func NewForecastPoint(ds Timestamp, yhat, lower, upper float64) ForecastPoint {
	return ForecastPoint{
		DS:        ds,
		Yhat:      Value(yhat),
		YhatLower: Value(lower),
		YhatUpper: Value(upper),
	}
}

// Validate reports a malformed timestamp, a missing or non-finite number, or a forecast lying
// outside its bounds. Points that fail validation are still safe to align and render.
func (p ForecastPoint) Validate() error {
	if !p.DS.Valid() {
		return fmt.Errorf("%q, %w", p.DS.Raw, ErrInvalidTimestamp)
	}
	if !p.Yhat.IsFinite() || !p.YhatLower.IsFinite() || !p.YhatUpper.IsFinite() {
		return fmt.Errorf(
			"at %s lower=%v yhat=%v upper=%v, %w",
			p.DS, p.YhatLower, p.Yhat, p.YhatUpper, ErrNonFiniteValue,
		)
	}
	if p.YhatLower > p.Yhat || p.Yhat > p.YhatUpper {
		return fmt.Errorf(
			"at %s lower=%v yhat=%v upper=%v, %w",
			p.DS, p.YhatLower, p.Yhat, p.YhatUpper, ErrBoundsOrder,
		)
	}
	return nil
}

// UnmarshalJSON decodes a forecast row, leaving missing numbers as NaN. Rows that are not JSON
// objects decode to an invalid point instead of failing the whole series.
func (p *ForecastPoint) UnmarshalJSON(data []byte) error {
	type alias ForecastPoint
	a := alias{Yhat: NaN(), YhatLower: NaN(), YhatUpper: NaN()}
	if !isJSONObject(data) {
		*p = ForecastPoint(a)
		return nil
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = ForecastPoint(a)
	return nil
}

// AnomalyRecord is an observed value the forecasting service flagged as anomalous
type AnomalyRecord struct {
	DS Timestamp `json:"ds"`
	Y  Value     `json:"y"`
}

func NewAnomalyRecord(ds Timestamp, y float64) AnomalyRecord {
	return AnomalyRecord{DS: ds, Y: Value(y)}
}

func (a *AnomalyRecord) UnmarshalJSON(data []byte) error {
	type alias AnomalyRecord
	r := alias{Y: NaN()}
	if !isJSONObject(data) {
		*a = AnomalyRecord(r)
		return nil
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*a = AnomalyRecord(r)
	return nil
}

// DisplayPoint is a forecast point with the anomalous observation at the same instant, if any
type DisplayPoint struct {
	ForecastPoint
	AnomalyValue *Value `json:"anomalyValue"`
}

// Anomaly returns the anomalous value and whether one was matched
func (d DisplayPoint) Anomaly() (float64, bool) {
	if d.AnomalyValue == nil {
		return 0, false
	}
	return float64(*d.AnomalyValue), true
}

func (d *DisplayPoint) UnmarshalJSON(data []byte) error {
	if err := d.ForecastPoint.UnmarshalJSON(data); err != nil {
		return err
	}
	var overlay struct {
		AnomalyValue *Value `json:"anomalyValue"`
	}
	if isJSONObject(data) {
		if err := json.Unmarshal(data, &overlay); err != nil {
			return err
		}
	}
	d.AnomalyValue = overlay.AnomalyValue
	return nil
}

func isJSONObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}
