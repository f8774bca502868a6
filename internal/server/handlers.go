package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	insights "github.com/Fahada-Code/Predictive-Business-Insights-Platform"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/client"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/forecast"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/timedataset"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const (
	SampleFilename = "nifty_sample_data.csv"
	ReportFilename = "forecast_report.xlsx"

	maxUploadSize = 32 << 20
)

var (
	ErrUnsupportedFile = errors.New("only CSV or TXT files are supported")
	ErrMissingFile     = errors.New("no file uploaded")
	ErrTooManyPoints   = errors.New("too many sample points requested")
)

var allowedExtensions = map[string]bool{
	".csv": true,
	".txt": true,
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("unable to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.log.WithError(err).WithField("request_id", RequestID(r.Context())).Debug("request error")
	s.writeJSON(w, status, errorResponse{Detail: err.Error()})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sample serves a synthetic dataset. A seed makes the download reproducible.
func (s *Server) sample(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	points := s.cfg.Sample.Points
	if v := q.Get("points"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid points %q", v))
			return
		}
		points = n
	}
	if points > s.cfg.Sample.MaxPoints {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("%d above limit of %d, %w", points, s.cfg.Sample.MaxPoints, ErrTooManyPoints))
		return
	}

	start := s.cfg.Sample.StartValue
	if v := q.Get("start"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid start %q", v))
			return
		}
		start = f
	}

	var rnd timedataset.Float64Source
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid seed %q", v))
			return
		}
		rnd = rand.New(rand.NewPCG(seed, seed))
	}

	rows, err := timedataset.GenerateSynthetic(points, start, rnd, s.nowFunc)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", SampleFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, timedataset.SyntheticCSV(rows))
}

func (s *Server) forecastJSON(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dashboard(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) forecastChart(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dashboard(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := insights.PlotDashboard(&buf, d); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) forecastReport(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dashboard(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := insights.WriteXLSX(&buf, d); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ReportFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// dashboard validates the upload and its parameters, requests the forecast and builds the
// dashboard. On failure the error response has already been written.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) (*insights.Dashboard, bool) {
	params, err := parseParameters(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile(client.FileField)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("%w, %v", ErrMissingFile, err))
		return nil, false
	}
	defer file.Close()

	if !allowedExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
		s.writeError(w, r, http.StatusBadRequest, ErrUnsupportedFile)
		return nil, false
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("unable to read upload, %w", err))
		return nil, false
	}

	history, err := timedataset.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return nil, false
	}

	res, err := s.forecaster.Forecast(r.Context(), header.Filename, bytes.NewReader(raw), params)
	if err != nil {
		s.log.WithError(err).WithField("request_id", RequestID(r.Context())).Error("forecast request failed")
		s.writeError(w, r, http.StatusBadGateway, err)
		return nil, false
	}

	d, err := insights.Build(res, history, s.nowFunc)
	if err != nil {
		s.writeError(w, r, http.StatusBadGateway, err)
		return nil, false
	}
	if d.InvalidPoints > 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": RequestID(r.Context()),
			"invalid":    d.InvalidPoints,
			"points":     len(d.Points),
		}).Warn("forecast contains invalid points")
	}
	return d, true
}

func parseParameters(r *http.Request) (forecast.Parameters, error) {
	q := r.URL.Query()
	params := forecast.NewDefaultParameters()
	if v := q.Get("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("invalid days %q, %w", v, forecast.ErrInvalidHorizon)
		}
		params.Days = days
	}
	if v := q.Get("seasonality_mode"); v != "" {
		params.SeasonalityMode = forecast.SeasonalityMode(v)
	}
	if v := q.Get("growth"); v != "" {
		params.Growth = forecast.Growth(v)
	}
	if err := params.Validate(); err != nil {
		return params, err
	}
	return params, nil
}
