package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/medmart-backend/internal/notifications"
	"github.com/angelmondragon/medmart-backend/pkg/config"
	"github.com/angelmondragon/medmart-backend/pkg/instance"
	"github.com/angelmondragon/medmart-backend/pkg/logger"
	"github.com/angelmondragon/medmart-backend/pkg/metrics"
	"github.com/angelmondragon/medmart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID("worker-0"),
		"queue":    cfg.Notifier.Queue,
	})

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	mailer, err := notifications.NewMailer(cfg, logg)
	requireResource(ctx, logg, "mailer", err)

	server, err := notifications.NewServer(cfg, logg)
	requireResource(ctx, logg, "queue server", err)

	registry := metrics.NewRegistry()
	handler := notifications.NewHandler(mailer, logg, metrics.NewTaskMetrics(registry))

	svc, err := NewService(ServiceParams{
		Config:   cfg,
		Logger:   logg,
		Redis:    redisClient,
		Server:   server,
		Mux:      notifications.NewServeMux(handler),
		Registry: registry,
	})
	requireResource(ctx, logg, "worker service", err)

	if err := svc.Run(ctx); err != nil {
		logg.Error(ctx, "worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "worker shutting down gracefully")
}

func requireResource(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(ctx, "resource", name), "failed to initialize resource", err)
	os.Exit(1)
}
