// Package httpapi exposes the application services over HTTP using gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akoselev/eshop/internal/logging"
	"github.com/akoselev/eshop/internal/server/config"
	"github.com/gin-gonic/gin"
)

// Server runs the public HTTP endpoint and shuts it down when the context
// is cancelled.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger
}

func NewServer(cfg *config.Config, logger logging.Logger, sessions Sessions, catalog Catalog, reviews Reviews, files Files) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	refreshTTLSeconds := int(cfg.RefreshTokenValidityDuration / time.Second)
	SetupRoutes(router, sessions, catalog, reviews, files, refreshTTLSeconds)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.EndpointAddrHTTP,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to ten seconds.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(context.Background(), "http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
