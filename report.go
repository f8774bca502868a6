package insights

import (
	"fmt"
	"io"

	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/forecast"
	"github.com/xuri/excelize/v2"
)

const (
	SheetForecast  = "Forecast"
	SheetMetrics   = "Metrics"
	SheetAnomalies = "Anomalies"

	defaultSheet = "Sheet1"
)

var (
	forecastHeader = []interface{}{"ds", "yhat", "yhat_lower", "yhat_upper", "anomaly"}
	metricsHeader  = []interface{}{"label", "value", "caption", "severity"}
	anomalyHeader  = []interface{}{"ds", "y", "yhat", "deviation", "variance_pct", "severity_level", "holiday"}
)

// WriteXLSX writes the dashboard as a spreadsheet with one sheet for the forecast series, the
// summary metrics and the anomaly digest.
func WriteXLSX(w io.Writer, d *Dashboard) error {
	if d == nil {
		return ErrNoResults
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, SheetForecast); err != nil {
		return fmt.Errorf("unable to name forecast sheet, %w", err)
	}
	for _, sheet := range []string{SheetMetrics, SheetAnomalies} {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("unable to create %s sheet, %w", sheet, err)
		}
	}

	forecastRows := make([][]interface{}, 0, len(d.Points)+1)
	forecastRows = append(forecastRows, forecastHeader)
	for _, p := range d.Points {
		var anomaly interface{}
		if y, ok := p.Anomaly(); ok {
			anomaly = cellValue(forecast.Value(y))
		}
		forecastRows = append(forecastRows, []interface{}{
			p.DS.String(),
			cellValue(p.Yhat),
			cellValue(p.YhatLower),
			cellValue(p.YhatUpper),
			anomaly,
		})
	}
	if err := writeRows(f, SheetForecast, forecastRows); err != nil {
		return err
	}

	metricsRows := make([][]interface{}, 0, len(d.Metrics)+5)
	metricsRows = append(metricsRows, metricsHeader)
	for _, m := range d.Metrics {
		metricsRows = append(metricsRows, []interface{}{m.Label, m.Value, m.Caption, m.Severity.String()})
	}
	metricsRows = append(metricsRows,
		[]interface{}{},
		[]interface{}{"MAE", cellValue(forecast.Value(d.Stats.MAE)), string(d.StatsSource)},
		[]interface{}{"RMSE", cellValue(forecast.Value(d.Stats.RMSE)), string(d.StatsSource)},
		[]interface{}{"MAPE", cellValue(forecast.Value(d.Stats.MAPE)), string(d.StatsSource)},
	)
	if err := writeRows(f, SheetMetrics, metricsRows); err != nil {
		return err
	}

	anomalyRows := make([][]interface{}, 0, len(d.Anomalies.Top)+1)
	anomalyRows = append(anomalyRows, anomalyHeader)
	for _, a := range d.Anomalies.Top {
		anomalyRows = append(anomalyRows, []interface{}{
			a.DS.String(),
			cellValue(a.Actual),
			cellValue(a.Forecast),
			cellValue(a.Deviation),
			cellValue(a.VariancePct),
			string(a.Level),
			a.Holiday,
		})
	}
	if err := writeRows(f, SheetAnomalies, anomalyRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("unable to write spreadsheet, %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("unable to address row %d of %s, %w", i+1, sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("unable to write row %d of %s, %w", i+1, sheet, err)
		}
	}
	return nil
}

// cellValue leaves non-finite values as empty cells
func cellValue(v forecast.Value) interface{} {
	if !v.IsFinite() {
		return nil
	}
	return v.Float64()
}
