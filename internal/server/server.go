// Package server is the notesum HTTP backend: transcript upload, LLM
// summarization and summary email delivery on an echo router.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jwulff/notesum/internal/api"
	"github.com/jwulff/notesum/internal/config"
	"github.com/jwulff/notesum/internal/mailer"
	"github.com/jwulff/notesum/internal/summarizer"
)

// Deps are the collaborators shared by all handlers.
type Deps struct {
	Config     config.ServerConfig
	Summarizer summarizer.Summarizer
	Mailer     mailer.Mailer
	Logger     *zap.Logger
	Metrics    *Metrics
}

// Server wraps the configured echo instance.
type Server struct {
	echo   *echo.Echo
	cfg    config.ServerConfig
	logger *zap.Logger
}

// New builds the router with middleware and routes. Nil Logger and Metrics
// are replaced with a no-op logger and a fresh registry.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	logger := deps.Logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			deps.Metrics.observeRequest(v.Method, c.Path(), v.Status)
			logger.Info("http.request",
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: deps.Config.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	if deps.Config.MaxUploadSize != "" {
		e.Use(middleware.BodyLimit(deps.Config.MaxUploadSize))
	}

	h := &handler{
		summarizer: deps.Summarizer,
		mailer:     deps.Mailer,
		logger:     logger,
		metrics:    deps.Metrics,
	}
	e.GET("/", h.root)
	e.GET("/health", h.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))
	e.POST(api.PathUploadTranscript, h.uploadTranscript)
	e.POST(api.PathSummarize, h.summarize)
	e.POST(api.PathSendEmail, h.sendEmail)

	return &Server{echo: e, cfg: deps.Config, logger: logger}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves on addr until ctx is cancelled, then shuts down within the
// configured timeout.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.start", zap.String("addr", addr))
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server.shutdown")
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server.stopped")
	return nil
}
