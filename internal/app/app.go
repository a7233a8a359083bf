// Package app wires the hub, execution broker, and transport together.
package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/avdeev/codepair-server/internal/backplane"
	"github.com/avdeev/codepair-server/internal/broker"
	"github.com/avdeev/codepair-server/internal/config"
	"github.com/avdeev/codepair-server/internal/core"
	"github.com/avdeev/codepair-server/internal/sandbox"
	transporthttp "github.com/avdeev/codepair-server/internal/transport/http"
)

// App holds the long-lived service pieces.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	bp              backplane.Backplane
	log             *zerolog.Logger
}

// New constructs the application with provided configuration. A missing
// backplane degrades to single-instance operation, never to a startup error.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	var bp backplane.Backplane
	if cfg.RedisAddr != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		rbp, err := backplane.NewRedis(connectCtx, cfg.RedisAddr, logger)
		if err != nil {
			logger.Warn().Err(err).Str("redis_addr", cfg.RedisAddr).Msg("backplane unavailable, running single-instance")
		} else {
			logger.Info().Str("redis_addr", cfg.RedisAddr).Msg("relay backplane connected")
			bp = rbp
		}
	}

	hub := core.NewHub(logger, bp)

	policy := sandbox.DefaultPolicy()
	policy.Image = cfg.Sandbox.Image
	policy.Memory = cfg.Sandbox.Memory
	policy.Timeout = cfg.Sandbox.Timeout
	runner := sandbox.NewDockerRunner(policy, logger)

	execBroker := broker.New(runner, cfg.Sandbox.Language, cfg.Sandbox.Timeout, cfg.Sandbox.MaxConcurrent, logger)

	server := transporthttp.NewServer(hub, execBroker, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		bp:              bp,
		log:             logger,
	}
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup releases the backplane connection.
func (a *App) cleanup() {
	if a.bp != nil {
		if err := a.bp.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close backplane")
		} else {
			a.log.Info().Msg("backplane closed")
		}
	}
}
