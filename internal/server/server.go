package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mahaseva-integrations/trackapi/internal/config"
	"github.com/mahaseva-integrations/trackapi/internal/crypto"
	"github.com/mahaseva-integrations/trackapi/internal/server/handlers"
	"github.com/mahaseva-integrations/trackapi/internal/server/middleware"
	"github.com/mahaseva-integrations/trackapi/internal/track"
)

type Server struct {
	config   *config.ServerEnvironment
	logger   *slog.Logger
	router   *chi.Mux
	codec    *crypto.Codec
	handler  *track.Handler
	provider track.DataProvider
	pinger   handlers.Pinger
}

// NewServer assembles the router, envelope handler and middleware chain.
// pinger may be nil when the provider has no backing store.
func NewServer(
	cfg *config.ServerEnvironment,
	provider track.DataProvider,
	pinger handlers.Pinger,
	logger *slog.Logger,
) (*Server, error) {
	codec, err := crypto.NewCodec(cfg.EncryptionKey, cfg.EncryptionIV)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	handler, err := track.NewHandler(codec, provider, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize envelope handler: %w", err)
	}

	server := &Server{
		config:   cfg,
		logger:   logger,
		router:   chi.NewRouter(),
		codec:    codec,
		handler:  handler,
		provider: provider,
		pinger:   pinger,
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
	s.router.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
	s.router.Use(middleware.RequestSizeLimit(s.config.MaxRequestBytes))
}

func (s *Server) registerRoutes() {
	s.router.Get("/health/live", handlers.HandleHealth)
	s.router.Get("/health/ready", handlers.HandleReadiness(s.pinger))
	s.router.Get("/version", handlers.HandleVersion("department-server"))

	// the status-exchange path is configurable so departments can match
	// whatever path the portal was registered with
	s.router.Post("/"+s.config.APIEndpoint, handlers.HandleStatusExchange(s.handler))

	s.router.Get("/legacy/pushauth", handlers.HandlePushAuth(s.codec, s.config.ChecksumKey))
}

// Router exposes the assembled handler chain for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled, then drains connections
// within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}
