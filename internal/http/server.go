// Package http provides the plantdoc HTTP API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/verdantlabs/plantdoc/internal/catalog"
	"github.com/verdantlabs/plantdoc/internal/engine"
	"github.com/verdantlabs/plantdoc/internal/history"
)

// Server provides HTTP endpoints over the diagnosis engine.
type Server struct {
	echo    *echo.Echo
	engine  *engine.Engine
	history *history.Logger
	logger  *zap.Logger
	config  *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host      string
	Port      int
	RateLimit float64 // requests per second, 0 disables limiting
	RateBurst int
}

// NewServer creates a new HTTP server. hist may be nil when interaction
// logging is disabled.
func NewServer(eng *engine.Engine, hist *history.Logger, logger *zap.Logger, cfg *Config) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8080,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metricsMiddleware())
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		e.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)))
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:    e,
		engine:  eng,
		history: hist,
		logger:  logger,
		config:  cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleIndex)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/diagnose", s.handleDiagnose)
	v1.GET("/plants", s.handlePlants)
	v1.POST("/plants", s.handleAddPlant)
	v1.GET("/stats", s.handleStats)
}

// DiagnoseRequest is the request body for POST /api/v1/diagnose.
type DiagnoseRequest struct {
	Text string `json:"text"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Plants int    `json:"plants"`
}

// PlantSummary is one entry in the GET /api/v1/plants response.
type PlantSummary struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Plants: len(s.engine.Plants()),
	})
}

// handleDiagnose runs a diagnosis cycle over the submitted text. Empty text
// is valid input and produces the fixed empty-input result.
func (s *Server) handleDiagnose(c echo.Context) error {
	var req DiagnoseRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid diagnose request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result := s.engine.Diagnose(c.Request().Context(), req.Text)
	s.history.Record(result)

	return c.JSON(http.StatusOK, result)
}

// handlePlants lists the catalog.
func (s *Server) handlePlants(c echo.Context) error {
	plants := s.engine.Plants()
	out := make([]PlantSummary, 0, len(plants))
	for _, p := range plants {
		out = append(out, PlantSummary{ID: p.ID, Name: p.Name, Aliases: p.Aliases})
	}
	return c.JSON(http.StatusOK, out)
}

// handleAddPlant appends a plant record to the catalog.
func (s *Server) handleAddPlant(c echo.Context) error {
	var p catalog.PlantRecord
	if err := c.Bind(&p); err != nil {
		s.logger.Warn("invalid add-plant request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.engine.AddPlant(c.Request().Context(), p); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusCreated, PlantSummary{ID: p.ID, Name: p.Name, Aliases: p.Aliases})
}

// handleStats returns aggregated interaction statistics.
func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.history.Stats()
	if err != nil {
		s.logger.Error("failed to read history stats", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read stats")
	}
	return c.JSON(http.StatusOK, stats)
}

// rateLimitMiddleware rejects requests over the configured rate with 429.
func rateLimitMiddleware(limiter *rate.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
