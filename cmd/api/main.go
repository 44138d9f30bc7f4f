package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/medmart-backend/api/routes"
	"github.com/angelmondragon/medmart-backend/internal/bookings"
	"github.com/angelmondragon/medmart-backend/internal/cart"
	"github.com/angelmondragon/medmart-backend/internal/notifications"
	"github.com/angelmondragon/medmart-backend/internal/payments"
	product "github.com/angelmondragon/medmart-backend/internal/products"
	"github.com/angelmondragon/medmart-backend/internal/reports"
	"github.com/angelmondragon/medmart-backend/internal/settlement"
	"github.com/angelmondragon/medmart-backend/internal/users"
	"github.com/angelmondragon/medmart-backend/pkg/config"
	"github.com/angelmondragon/medmart-backend/pkg/db"
	"github.com/angelmondragon/medmart-backend/pkg/env"
	"github.com/angelmondragon/medmart-backend/pkg/logger"
	"github.com/angelmondragon/medmart-backend/pkg/metrics"
	"github.com/angelmondragon/medmart-backend/pkg/migrate"
	"github.com/angelmondragon/medmart-backend/pkg/redis"
	"github.com/angelmondragon/medmart-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "dev migrations", err)

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	dispatcher, err := notifications.NewQueueDispatcher(cfg)
	requireResource(ctx, logg, "notification queue", err)

	registry := metrics.NewRegistry()
	notifier := notifications.NewNotifier(dispatcher, logg, metrics.NewNotificationMetrics(registry), cfg.Notifier.EnqueueTimeout)

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := product.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	bookingRepo := bookings.NewRepository(dbClient.DB())

	userService, err := users.NewService(users.ServiceParams{
		Repo:     userRepo,
		Notifier: notifier,
		SiteName: cfg.App.SiteName,
	})
	requireResource(ctx, logg, "users service", err)

	productService, err := product.NewService(productRepo)
	requireResource(ctx, logg, "product service", err)

	cartService, err := cart.NewService(cart.ServiceParams{Repo: cartRepo, Products: productRepo})
	requireResource(ctx, logg, "cart service", err)

	bookingService, err := bookings.NewService(bookingRepo, userService)
	requireResource(ctx, logg, "bookings service", err)

	settlementService, err := settlement.NewService(settlement.ServiceParams{
		Tx:       dbClient,
		Cart:     cartRepo,
		Bookings: bookingRepo,
		Notifier: notifier,
		Logger:   logg,
		Metrics:  metrics.NewSettlementMetrics(registry),
	})
	requireResource(ctx, logg, "settlement service", err)

	reportService, err := reports.NewService(reports.ServiceParams{
		Users:    userRepo,
		Products: productRepo,
		Cart:     cartRepo,
		Bookings: bookingRepo,
	})
	requireResource(ctx, logg, "reports service", err)

	var paymentService payments.Service
	if strings.TrimSpace(cfg.Stripe.APIKey) != "" {
		stripeClient, err := stripe.NewClient(ctx, cfg.Stripe, logg)
		requireResource(ctx, logg, "stripe", err)
		paymentService, err = payments.NewService(payments.NewStripeIntentClient(stripeClient))
		requireResource(ctx, logg, "payments service", err)
	} else {
		logg.Warn(ctx, "stripe key not configured, payment intents disabled")
	}

	addr := ":" + env.Port(cfg.App.Port)
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			DB:          dbClient,
			Redis:       redisClient,
			Users:       userService,
			Products:    productService,
			Cart:        cartService,
			Payments:    paymentService,
			Settlement:  settlementService,
			Bookings:    bookingService,
			Reports:     reportService,
			Registry:    registry,
			HTTPMetrics: metrics.NewHTTPMetrics(registry),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logg.Info(serverCtx, "shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	notifier.Wait()

	closeErr := multierr.Combine(
		shutdownErr,
		dispatcher.Close(),
		redisClient.Close(),
		dbClient.Close(),
	)
	if closeErr != nil {
		logg.Error(serverCtx, "error releasing resources", closeErr)
		os.Exit(1)
	}
	logg.Info(serverCtx, "api server stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(ctx, "resource", name), "failed to initialize resource", err)
	os.Exit(1)
}
