package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TWRT/teamwork-tasks/internal/app"
	"github.com/TWRT/teamwork-tasks/internal/config"
	"github.com/TWRT/teamwork-tasks/internal/shell"
)

func main() {
	logger := app.NewDefaultLogger(os.Stderr)

	cfg, err := config.NewEnvReader(".env").Read()
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("failed to read config")
	}

	logger, err = app.NewLogger(logger, os.Stderr, cfg.Env)
	if err != nil {
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("failed to start task manager")
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("failed to close store")
		}
	}()

	sh := shell.New(os.Stdin, os.Stdout, a.Registry, a.Notifier, a.ConfigureEmail, logger)
	if err := sh.Run(ctx); err != nil {
		logger.Error().
			Err(err).
			Msg("shell stopped")
	}
}
