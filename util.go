package insights

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/timedataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	SeriesForecast = "Forecast"
	SeriesUpper    = "Upper Bound"
	SeriesLower    = "Lower Bound"
	SeriesAnomaly  = "Anomaly"
	SeriesActual   = "Actual"

	// missingValue leaves a gap in an echarts series
	missingValue = "-"
)

func chartValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return missingValue
	}
	return v
}

// LineForecast generates an echart line chart of the forecast with its confidence bounds. Matched
// anomalies are overlaid as a scatter series on the same axis.
func LineForecast(d *Dashboard) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title:    "Forecast",
				Subtitle: metricsSubtitle(d),
			},
		),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Top: "bottom"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	x := make([]string, 0, len(d.Points))
	lineDataForecast := make([]opts.LineData, 0, len(d.Points))
	lineDataUpper := make([]opts.LineData, 0, len(d.Points))
	lineDataLower := make([]opts.LineData, 0, len(d.Points))
	scatterData := make([]opts.ScatterData, 0, len(d.Points))

	for _, p := range d.Points {
		x = append(x, p.DS.String())
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: chartValue(p.Yhat.Float64())})
		lineDataUpper = append(lineDataUpper, opts.LineData{Value: chartValue(p.YhatUpper.Float64())})
		lineDataLower = append(lineDataLower, opts.LineData{Value: chartValue(p.YhatLower.Float64())})

		anomaly := opts.ScatterData{Value: missingValue, Symbol: "circle", SymbolSize: 10}
		if y, ok := p.Anomaly(); ok {
			anomaly.Value = chartValue(y)
		}
		scatterData = append(scatterData, anomaly)
	}

	dashed := charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"})
	line.SetXAxis(x).
		AddSeries(SeriesForecast, lineDataForecast).
		AddSeries(SeriesUpper, lineDataUpper, dashed).
		AddSeries(SeriesLower, lineDataLower, dashed)

	scatter := charts.NewScatter()
	scatter.SetXAxis(x).AddSeries(SeriesAnomaly, scatterData)
	line.Overlap(scatter)
	return line
}

// LineHistory generates an echart line chart of the uploaded observations, skipping NaN values
func LineHistory(td *timedataset.TimeDataset) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Uploaded History",
			},
		),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	t := make(timedataset.TimeSlice, 0, td.Len())
	lineData := make([]opts.LineData, 0, td.Len())
	for i := 0; i < td.Len(); i++ {
		if math.IsNaN(td.Y[i]) {
			continue
		}
		t = append(t, td.T[i])
		lineData = append(lineData, opts.LineData{Value: td.Y[i]})
	}

	line.SetXAxis(t.Labels()).AddSeries(SeriesActual, lineData)
	return line
}

// PlotDashboard renders the dashboard charts as a single html page to w
func PlotDashboard(w io.Writer, d *Dashboard) error {
	if d == nil {
		return ErrNoResults
	}
	page := components.NewPage()
	page.PageTitle = "Predictive Business Insights"
	page.AddCharts(LineForecast(d))
	if d.History.Len() > 0 {
		page.AddCharts(LineHistory(d.History))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("unable to render dashboard, %w", err)
	}
	return nil
}

func metricsSubtitle(d *Dashboard) string {
	parts := make([]string, 0, len(d.Metrics)+1)
	for _, m := range d.Metrics {
		parts = append(parts, fmt.Sprintf("%s: %s", m.Label, m.Value))
	}
	parts = append(parts, fmt.Sprintf("Anomalies: %d", d.Anomalies.Total))
	return strings.Join(parts, " | ")
}
