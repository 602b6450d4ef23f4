// Package preview serves a built site over HTTP for local viewing.
package preview

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ksyq12/sitec/internal/compiler"
	"github.com/ksyq12/sitec/internal/logger"
)

// DefaultAddr is the listen address used when none is given.
const DefaultAddr = ":8080"

const shutdownTimeout = 5 * time.Second

// Server serves the files of one output directory.
type Server struct {
	Echo *echo.Echo
	dir  string
}

// New creates a Server for dir. Directory requests are answered with
// their index.html.
func New(dir string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Status >= http.StatusInternalServerError {
				logger.Error("%s %s: status %d: %v", v.Method, v.URI, v.Status, v.Error)
				return nil
			}
			logger.Infow("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  dir,
		Index: compiler.IndexFile,
	}))

	return &Server{Echo: e, dir: dir}
}

// Serve listens on addr until ctx is cancelled, then shuts down.
func (s *Server) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("serving", "dir", s.dir, "addr", addr)
		errCh <- s.Echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
