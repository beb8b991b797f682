package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DSACMS/challenge-runner/pkg/challenge"
	"github.com/DSACMS/challenge-runner/pkg/core"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := core.LoadEnv()

	cfg, err := core.NewConfigFromEnv()
	if err != nil {
		core.NewLogger(cfg).Error("Failed to load config", "err", err)
		return challenge.ExitFailure
	}

	otelService := setupOtel(ctx, &cfg)
	logger := core.NewLoggerWithOtel(cfg, otelService)
	defer otelService.Shutdown(context.Background(), logger)

	if envErr != nil {
		logger.Warn("Failed to load env files", "err", envErr)
	}

	return runChallenge(ctx, cfg, otelService, logger)
}

func setupOtel(ctx context.Context, cfg *core.Config) core.OtelService {
	if cfg.Otel.Disable {
		return core.NewNoopOtelService()
	}

	otelService, err := core.NewOtelService(ctx, cfg)
	if err != nil {
		core.NewLogger(*cfg).Warn("Failed to start otel, continuing without telemetry", "err", err)
		return core.NewNoopOtelService()
	}

	return otelService
}

func runChallenge(ctx context.Context, cfg core.Config, otelService core.OtelService, logger *slog.Logger) int {
	svc, err := challenge.New(&cfg.Challenge, challenge.Options{
		Logger:         logger,
		TracerProvider: otelService.TracerProvider(),
		MeterProvider:  otelService.MeterProvider(),
	})
	if err != nil {
		logger.Error("Failed to build challenge service", "err", err)
		return challenge.ExitFailure
	}

	identity := challenge.IdentityRequest{
		Name:  cfg.Challenge.Name,
		RegNo: cfg.Challenge.RegNo,
		Email: cfg.Challenge.Email,
	}

	runner := challenge.NewRunner(svc, identity, challenge.RunnerOptions{
		Logger:         logger,
		TracerProvider: otelService.TracerProvider(),
	})

	err = runner.Run(ctx)
	if err == nil {
		logger.Info("Challenge process completed, shutting down")
	}

	return challenge.ExitStatus(err)
}
