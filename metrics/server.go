package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"edition-builder/config"

	"github.com/labstack/echo/v4"
)

// Server exposes live counter snapshots over HTTP while a run is in
// progress. Purely observational; the pipeline never depends on it.
type Server struct {
	agg    *Aggregator
	cfg    config.MetricsConfig
	logger *slog.Logger
	echo   *echo.Echo
}

// NewServer creates the export server. It does nothing until Start.
func NewServer(agg *Aggregator, cfg config.MetricsConfig, logger *slog.Logger) *Server {
	return &Server{
		agg:    agg,
		cfg:    cfg,
		logger: logger,
	}
}

// Start launches the export endpoint in the background when enabled.
func (s *Server) Start() {
	if !s.cfg.Enabled {
		return
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET(s.cfg.Path, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"run_id":   s.agg.runID,
			"counters": s.agg.Snapshot(),
		})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "edition-builder"})
	})

	s.echo = e

	go func() {
		addr := fmt.Sprintf(":%d", s.cfg.Port)
		s.logger.Info("metrics export started", "addr", addr, "path", s.cfg.Path)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics export stopped", "error", err)
		}
	}()
}

// Shutdown stops the export endpoint, waiting briefly for in-flight
// requests to drain.
func (s *Server) Shutdown() {
	if s.echo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		s.logger.Warn("metrics export shutdown failed", "error", err)
	}
}
