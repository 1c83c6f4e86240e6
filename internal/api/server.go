// Package api is the optional remote control surface. Handlers never touch
// the console model: commands are injected as application signals and the
// status comes from the last published snapshot.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alkime/scope/internal/config"
	"github.com/alkime/scope/internal/instrument"
	"github.com/alkime/scope/internal/tui/app"
	"github.com/alkime/scope/internal/tui/components/trigger"
	"github.com/alkime/scope/pkg/channels"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Sender injects messages into the running program. *tea.Program
// implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine
	sender Sender
	status *channels.Latest[app.Snapshot]
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger, sender Sender, status *channels.Latest[app.Snapshot]) *Server {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
		sender: sender,
		status: status,
	}

	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	//nolint:exhaustruct // defaults for the remaining timeouts
	srv := &http.Server{
		Addr:              s.config.APIListen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API listening", "addr", s.config.APIListen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}

	return nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/status", s.handleStatus)

		api.POST("/acquire/start", s.queue(func(*gin.Context) (app.Signal, error) {
			return app.AcquireStart{}, nil
		}))
		api.POST("/acquire/stop", s.queue(func(*gin.Context) (app.Signal, error) {
			return app.AcquireStop{}, nil
		}))

		api.POST("/trigger/level", s.queue(bindTriggerLevel))
		api.POST("/trigger/delay", s.queue(bindTriggerDelay))

		api.POST("/generator/:source/start", s.queue(func(c *gin.Context) (app.Signal, error) {
			src, err := instrument.ParseSource(c.Param("source"))
			return app.GeneratorStart{Source: src}, err
		}))
		api.POST("/generator/:source/stop", s.queue(func(c *gin.Context) (app.Signal, error) {
			src, err := instrument.ParseSource(c.Param("source"))
			return app.GeneratorStop{Source: src}, err
		}))
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "scope",
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	snap, ok := s.status.Load()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "console not ready"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// queue builds a handler that injects the signal bind returns. The answer
// is 202: the instrument command runs later, on the console's queue.
func (s *Server) queue(bind func(c *gin.Context) (app.Signal, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sig, err := bind(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		s.logger.Debug("api queued signal", "signal", sig.String())
		s.sender.Send(sig)

		c.JSON(http.StatusAccepted, gin.H{"queued": sig.String()})
	}
}

type triggerLevelRequest struct {
	Value *float32 `json:"value" binding:"required"`
}

type triggerDelayRequest struct {
	Value *uint16 `json:"value" binding:"required"`
}

func bindTriggerLevel(c *gin.Context) (app.Signal, error) {
	var req triggerLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("invalid body: %w", err)
	}

	v := *req.Value
	if v < trigger.LevelRange.Min || v > trigger.LevelRange.Max {
		return nil, fmt.Errorf("level %v outside [%v, %v]", v, trigger.LevelRange.Min, trigger.LevelRange.Max)
	}

	return app.TriggerLevel{Value: v}, nil
}

func bindTriggerDelay(c *gin.Context) (app.Signal, error) {
	var req triggerDelayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("invalid body: %w", err)
	}

	v := *req.Value
	if v > trigger.DelayRange.Max {
		return nil, fmt.Errorf("delay %d beyond %d", v, trigger.DelayRange.Max)
	}

	return app.TriggerDelay{Value: v}, nil
}
