package forecast

// Align overlays anomalies onto the forecast points sharing the exact same instant. Output keeps
// the order and length of points. Anomalies without a matching point are dropped, and when
// several anomalies share an instant the first one wins. Invalid timestamps never match.
//
// Matching is on the instant, not the calendar day: an anomaly at midnight does not match a
// forecast point at noon on the same date.
func Align(points []ForecastPoint, anomalies []AnomalyRecord) []DisplayPoint {
	byInstant := make(map[instant]Value, len(anomalies))
	for _, a := range anomalies {
		k, ok := a.DS.key()
		if !ok {
			continue
		}
		if _, exists := byInstant[k]; exists {
			continue
		}
		byInstant[k] = a.Y
	}

	res := make([]DisplayPoint, 0, len(points))
	for _, p := range points {
		dp := DisplayPoint{ForecastPoint: p}
		if k, ok := p.DS.key(); ok {
			if y, exists := byInstant[k]; exists {
				dp.AnomalyValue = &y
			}
		}
		res = append(res, dp)
	}
	return res
}
