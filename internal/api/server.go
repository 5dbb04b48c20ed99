// Package api serves the tournament operations over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"coffee-tournament/internal/common/logger"
	"coffee-tournament/internal/common/observability"
	battle "coffee-tournament/internal/workers/tournament/battle-coffee-shops"
	discover "coffee-tournament/internal/workers/tournament/find-coffee-shops"
	locate "coffee-tournament/internal/workers/tournament/resolve-location"
	"coffee-tournament/pkg/registry"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the operation handlers and infrastructure the server routes to.
type Services struct {
	Locate   *locate.Handler
	Discover *discover.Handler
	Battle   *battle.Handler
	Judge    battle.Judge
	Registry *registry.OperationRegistry

	RateLimiter   *RateLimiter
	Observability *observability.Observability
	// Ready reports whether backing services are reachable. Nil means always ready.
	Ready  func(ctx context.Context) error
	Logger logger.Logger
}

type Server struct {
	echo     *echo.Echo
	services Services
	logger   logger.Logger
	started  time.Time
}

func NewServer(svc Services) *Server {
	if svc.Logger == nil {
		svc.Logger = logger.NewNoOpLogger()
	}
	if svc.Registry == nil {
		svc.Registry = registry.Default()
	}

	s := &Server{
		echo:     echo.New(),
		services: svc,
		logger:   svc.Logger.With(map[string]interface{}{"component": "api"}),
		started:  time.Now(),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleHTTPError

	s.echo.Use(s.observe)
	s.echo.Use(middleware.Recover())

	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/health", s.health)
	e.GET("/ready", s.ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/tools", s.tools)

	e.POST("/location", s.location)
	e.POST("/coffee-shops", s.coffeeShops)
	e.POST("/battle", s.battle, s.services.RateLimiter.Middleware())

	t := e.Group("/tournament")
	t.POST("", s.createTournament)
	t.POST("/select", s.selectShop)
	t.POST("/battle", s.battleSelection, s.services.RateLimiter.Middleware())
	t.POST("/commit", s.commitBattle)
	t.POST("/reset", s.resetTournament)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string, readTimeout, writeTimeout time.Duration) error {
	s.echo.Server.ReadTimeout = readTimeout
	s.echo.Server.WriteTimeout = writeTimeout
	s.logger.Info("http server listening", map[string]interface{}{"address": addr})

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// observe records every request through OpenTelemetry.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		s.services.Observability.RecordRequest(c.Request().Context(), route, c.Response().Status, time.Since(start))
		return nil
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) ready(c echo.Context) error {
	if s.services.Ready != nil {
		if err := s.services.Ready(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not ready",
				"error":  err.Error(),
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) tools(c echo.Context) error {
	return c.JSON(http.StatusOK, s.services.Registry)
}
