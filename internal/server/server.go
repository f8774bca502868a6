package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/forecast"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/internal/config"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const (
	readTimeout     = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

// Forecaster requests a forecast for an uploaded dataset. *client.Client satisfies it.
type Forecaster interface {
	Forecast(ctx context.Context, filename string, r io.Reader, params forecast.Parameters) (*forecast.Results, error)
}

type Server struct {
	cfg        *config.Config
	log        *logrus.Logger
	forecaster Forecaster
	nowFunc    func() time.Time
}

func New(cfg *config.Config, log *logrus.Logger, forecaster Forecaster) *Server {
	return &Server{
		cfg:        cfg,
		log:        log,
		forecaster: forecaster,
		nowFunc:    time.Now,
	}
}

// Handler builds the router with request id, access logging and CORS middleware
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware(s.log))

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/sample.csv", s.sample).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/forecast", s.forecastJSON).Methods(http.MethodPost)
	api.HandleFunc("/forecast/chart", s.forecastChart).Methods(http.MethodPost)
	api.HandleFunc("/forecast/report.xlsx", s.forecastReport).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, "Content-Disposition"},
	})
	return c.Handler(r)
}

// Run serves until ctx is cancelled and then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.cfg.Server.Addr,
		Handler:     s.Handler(),
		ReadTimeout: readTimeout,
		// responses wait on the forecasting service
		WriteTimeout: s.cfg.Upstream.Timeout + readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Starting server on %s", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed, %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("unable to shut down server, %w", err)
	}
	return nil
}
