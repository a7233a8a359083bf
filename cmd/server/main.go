package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/avdeev/codepair-server/internal/app"
	"github.com/avdeev/codepair-server/internal/config"
	"github.com/avdeev/codepair-server/internal/log"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	bootLogger := log.New("info")

	cfg, resolvedPath, err := config.Load(bootLogger, *configPath)
	if err != nil {
		stdlog.Fatalf("load config %s: %v", resolvedPath, err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger := log.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(&cfg, logger)

	logger.Info().Str("addr", cfg.Addr).Str("config", resolvedPath).Msg("starting codepair server")
	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
