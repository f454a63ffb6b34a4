// Package server wires configuration, storage, the auth engine and the HTTP API into a
// runnable notes-server and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goNotes "github.com/MrEthical07/goNotes"
	"github.com/MrEthical07/goNotes/internal/httpapi"
	"github.com/MrEthical07/goNotes/internal/server/config"
	"github.com/MrEthical07/goNotes/internal/store"
	exporter "github.com/MrEthical07/goNotes/metrics/export/prometheus"
	"github.com/MrEthical07/goNotes/notes"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger *slog.Logger

	db        *store.DB
	redis     redis.UniversalClient
	miniredis *miniredis.Miniredis
	engine    *goNotes.Engine
	server    *http.Server
}

// NewApp opens the database and redis, builds the engine and the router. On error every
// resource opened so far is released.
func NewApp(cfg *config.Config, logger *slog.Logger) (app *App, err error) {
	if cfg == nil {
		return nil, errors.New("server requires config")
	}
	if logger == nil {
		logger = slog.Default()
	}

	app = &App{config: cfg, logger: logger}
	defer func() {
		if err != nil {
			_ = app.Close()
			app = nil
		}
	}()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	app.db, err = store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	addr := cfg.RedisAddr
	if addr == "" {
		app.miniredis, err = miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("start miniredis: %w", err)
		}
		addr = app.miniredis.Addr()
		logger.Warn("REDIS_ADDR not set, using in-process miniredis", slog.String("addr", addr))
	}
	app.redis = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})

	var sink goNotes.AuditSink
	if cfg.Audit.Enabled {
		sink = goNotes.NewSlogSink(logger)
	}

	app.engine, err = goNotes.New().
		WithConfig(cfg.Engine()).
		WithRedis(app.redis).
		WithUserStore(app.db.Users()).
		WithAuditSink(sink).
		WithLogger(logger).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build auth engine: %w", err)
	}

	report := app.engine.SecurityReport()
	logger.Info("auth engine ready",
		slog.String("alg", report.SigningAlgorithm),
		slog.Duration("token_lifetime", report.TokenLifetime),
		slog.Int("kdf_iterations", report.Password.Iterations),
		slog.Int("kdf_max_concurrent", report.Password.MaxConcurrent),
		slog.Int("max_login_attempts", report.LoginThrottle.MaxAttempts),
		slog.Bool("ip_throttle", report.IPThrottle),
		slog.Bool("register_throttle", report.RegisterThrottle.Enabled),
		slog.Bool("audit", report.AuditEnabled),
	)

	metrics := exporter.NewCollector(app.engine).Handler(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router, err := httpapi.NewRouter(httpapi.Options{
		Auth:        app.engine,
		Notes:       notes.NewService(app.db.Notes()),
		Logger:      logger,
		Metrics:     metrics,
		Health:      app.health,
		ClientDir:   cfg.ClientDir,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return nil, err
	}

	app.server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// Handler returns the HTTP handler without starting a listener.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) health(ctx context.Context) error {
	if err := a.db.Ping(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := a.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts down within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.InfoContext(ctx, "http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Close releases the engine, redis and the database. It is safe after a failed NewApp.
func (a *App) Close() error {
	if a.engine != nil {
		a.engine.Close()
		if stats := a.engine.AuditStats(); stats != (goNotes.AuditStats{}) {
			a.logger.Info("audit dispatcher stopped",
				slog.Uint64("delivered", stats.Delivered),
				slog.Uint64("dropped", stats.Dropped),
				slog.Uint64("failed", stats.Failed),
			)
		}
	}

	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.miniredis != nil {
		a.miniredis.Close()
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
