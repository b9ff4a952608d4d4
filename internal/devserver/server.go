package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fitmrp-client/internal/config"
	"fitmrp-client/internal/logger"
	"fitmrp-client/internal/middleware"

	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	store      *Store
}

// New builds a dev server from config, seeding the catalog when DevSeed is set.
// The rate limiter's sweeper stops when ctx is done.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	store := NewStore()
	if cfg.DevSeed {
		if err := Seed(store); err != nil {
			return nil, err
		}
	}

	issuer := middleware.NewTokenIssuer(cfg.JWTSecret, 24*time.Hour)
	handler := NewHandler(store, issuer)
	router := NewRouter(handler, middleware.NewRateLimiter(ctx, ""))

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.DevServerAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		store: store,
	}, nil
}

func (s *Server) Store() *Store { return s.store }

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := logger.L()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting dev API server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	log.Info("dev API server stopped")
	return nil
}
