// Package server exposes the conversation service over a JSON REST API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tubetalk/tubetalk/internal/metrics"
	"github.com/tubetalk/tubetalk/internal/models"
	"github.com/tubetalk/tubetalk/internal/service"
)

// API is the slice of the service the HTTP layer needs.
type API interface {
	ProcessVideo(ctx context.Context, rawURL string) (service.ProcessResult, error)
	Chat(ctx context.Context, videoID, question string) (string, error)
	Summary(videoID string) (string, error)
	Stats() metrics.Snapshot
}

// Server wires the service into an echo instance with lifecycle management.
type Server struct {
	api    API
	echo   *echo.Echo
	logger *slog.Logger
}

// New creates the HTTP server and registers all routes.
func New(api API, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	s := &Server{api: api, echo: e, logger: logger}
	e.HTTPErrorHandler = s.errorHandler

	e.GET("/", s.root)
	e.GET("/healthz", s.healthz)
	e.GET("/stats", s.stats)
	e.POST("/process_video", s.processVideo)
	e.POST("/chat", s.chat)
	e.POST("/summarize_video", s.summarizeVideo)

	return s
}

// Echo returns the underlying echo instance, used by tests.
func (s *Server) Echo() *echo.Echo { return s.echo }

// Run starts the listener and blocks until ctx is cancelled, then drains
// in-flight requests before returning.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()
	s.logger.Info("http server listening", "addr", addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(shutdownCtx)
}

// errorHandler maps service errors onto status codes and renders every
// failure as the same JSON shape.
func (s *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := err.Error()

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		msg = fmt.Sprint(he.Message)
	case errors.Is(err, models.ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, models.ErrSummaryPending):
		code = http.StatusAccepted
	case errors.Is(err, models.ErrUpstream):
		code = http.StatusBadGateway
	}

	req := c.Request()
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", req.Method, "path", req.URL.Path, "status", code, "error", err)
	} else {
		s.logger.Info("request rejected", "method", req.Method, "path", req.URL.Path, "status", code, "error", err)
	}

	if c.Response().Committed {
		return
	}
	if code == http.StatusAccepted {
		// Pending summaries are not failures, answer with a status body.
		_ = c.JSON(code, map[string]string{"status": "pending"})
		return
	}
	_ = c.JSON(code, map[string]string{"error": msg})
}
