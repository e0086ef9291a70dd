package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/avillada/escolar/internal/bootstrap"
	"github.com/avillada/escolar/internal/config"
	"github.com/avillada/escolar/internal/pkg/helpers"
)

// Server owns the HTTP listener and the connection pool for the school backend.
type Server struct {
	config *config.Config
	router *gin.Engine
	dbPool *pgxpool.Pool
	logger zerolog.Logger
	http   *http.Server
}

// NewServer wires configuration, database, migrations, seed data and the
// route table through the bootstrap package.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("error preparing database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("error wiring dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)
	mountUploads(router, cfg, lgr)

	return &Server{
		config: cfg,
		router: router,
		dbPool: dbPool,
		logger: lgr,
	}, nil
}

// mountUploads exposes the storage directory (person photos, attached
// documents) under /uploads.
func mountUploads(router *gin.Engine, cfg *config.Config, lgr zerolog.Logger) {
	storagePath := cfg.Server.StoragePath
	if _, err := os.Stat(storagePath); os.IsNotExist(err) {
		if err := os.MkdirAll(storagePath, os.ModePerm); err != nil {
			lgr.Error().Err(err).Str("path", storagePath).Msg("Could not create storage directory")
			return
		}
	}
	router.Static("/uploads", storagePath)
	lgr.Info().Str("path", storagePath).Msg("Serving uploads from storage directory")
}

// Run starts listening and blocks until a termination signal or a listener
// error, then shuts down in order.
func (s *Server) Run() error {
	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  helpers.ParseDuration(s.config.Server.ReadTimeout, 10*time.Second),
		WriteTimeout: helpers.ParseDuration(s.config.Server.WriteTimeout, 10*time.Second),
		IdleTimeout:  120 * time.Second,
	}

	listenErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Str("mode", s.config.Server.Mode).Msg("School backend listening")
		listenErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-listenErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Termination signal received, shutting down")
	}

	return s.Shutdown(context.Background())
}

// Shutdown drains in-flight requests and closes the pool. In-flight requests
// get the configured shutdown window before the listener is forced closed.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := helpers.ParseDuration(s.config.Server.ShutdownTimeout, 15*time.Second)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var drainErr error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server did not drain cleanly")
			drainErr = err
		}
	}

	if s.dbPool != nil {
		s.dbPool.Close()
	}

	s.logger.Info().Msg("Shutdown complete")
	if drainErr != nil {
		return fmt.Errorf("error draining server: %w", drainErr)
	}
	return nil
}
