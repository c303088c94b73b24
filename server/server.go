// Package server exposes the routing pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/attache-ai/attache/ai"
	"github.com/attache-ai/attache/internal/profile"
	"github.com/attache-ai/attache/store"
)

const cacheCleanupInterval = time.Minute

// Server wires the routing service into an echo HTTP server.
type Server struct {
	echo    *echo.Echo
	profile *profile.Profile
	ai      *ai.Service
	store   *store.Store
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(ctx context.Context, profile *profile.Profile, aiService *ai.Service, storeInstance *store.Store) (*Server, error) {
	if aiService == nil {
		return nil, errors.New("ai service required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: shortuuid.New,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("HTTP request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		profile: profile,
		ai:      aiService,
		store:   storeInstance,
	}
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealthz)
	s.echo.GET("/metrics", echo.WrapHandler(s.ai.Metrics.Handler()))

	g := s.echo.Group("/api/v1/router")
	g.POST("/route", s.handleRoute)
	g.POST("/feedback", s.handleFeedback)
	g.GET("/agents", s.handleAgents)
	g.GET("/stats", s.handleStats)
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start runs the HTTP listener and the periodic cache cleanup until ctx is
// canceled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	// Warm up the LLM connection asynchronously; failures only cost the
	// first request some latency.
	go func() {
		warmupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		s.ai.Warmup(warmupCtx)
	}()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		addr := fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port)
		slog.Info("Server listening", "addr", addr, "mode", s.profile.Mode)
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		ticker := time.NewTicker(cacheCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if removed := s.ai.CleanupCache(); removed > 0 {
					slog.Debug("Decision cache cleanup", "removed", removed)
				}
			}
		}
	})

	return group.Wait()
}

// Shutdown gracefully stops the HTTP server and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down server", "error", err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}
	slog.Info("Server shut down")
}
