package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/medmart-backend/pkg/config"
	"github.com/angelmondragon/medmart-backend/pkg/logger"
	"github.com/angelmondragon/medmart-backend/pkg/redis"
)

type ServiceParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    *redis.Client
	Server   *asynq.Server
	Mux      *asynq.ServeMux
	Registry *prometheus.Registry
}

// Service runs the notification consumer and exposes its metrics.
type Service struct {
	cfg      *config.Config
	logg     *logger.Logger
	redis    *redis.Client
	server   *asynq.Server
	mux      *asynq.ServeMux
	registry *prometheus.Registry
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Redis == nil {
		return nil, errors.New("redis client is required")
	}
	if params.Server == nil {
		return nil, errors.New("queue server is required")
	}
	if params.Mux == nil {
		return nil, errors.New("task mux is required")
	}

	return &Service{
		cfg:      params.Config,
		logg:     params.Logger,
		redis:    params.Redis,
		server:   params.Server,
		mux:      params.Mux,
		registry: params.Registry,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.redis.Ping(pingCtx); err != nil {
		s.logg.Error(ctx, "redis ping failed", err)
		return err
	}
	return nil
}

// Run consumes tasks until ctx is canceled, then drains in-flight tasks.
func (s *Service) Run(ctx context.Context) error {
	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	s.logg.Info(ctx, "worker.started")

	var metricsServer *http.Server
	if s.registry != nil && s.cfg.App.Port != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: ":" + s.cfg.App.Port, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logg.Error(ctx, "metrics server stopped unexpectedly", err)
			}
		}()
	}

	<-ctx.Done()
	s.logg.Info(ctx, "worker context canceled")

	s.server.Shutdown()
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	return nil
}
