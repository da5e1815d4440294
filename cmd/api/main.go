package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/happyshopdev/happyshop-backend/api/routes"
	"github.com/happyshopdev/happyshop-backend/internal/catalog"
	"github.com/happyshopdev/happyshop-backend/internal/customer"
	"github.com/happyshopdev/happyshop-backend/internal/notifications"
	"github.com/happyshopdev/happyshop-backend/internal/orders"
	"github.com/happyshopdev/happyshop-backend/pkg/config"
	"github.com/happyshopdev/happyshop-backend/pkg/db"
	"github.com/happyshopdev/happyshop-backend/pkg/env"
	"github.com/happyshopdev/happyshop-backend/pkg/logger"
	"github.com/happyshopdev/happyshop-backend/pkg/metrics"
	"github.com/happyshopdev/happyshop-backend/pkg/migrate"
	pkgredis "github.com/happyshopdev/happyshop-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, checkout idempotency disabled")
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	orderFactory, err := orders.NewFactory(orders.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create order factory", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	sessions, err := customer.NewRegistry(customer.Deps{
		Catalog:  catalogService,
		Orders:   orderFactory,
		Notifier: notificationsService,
		Logg:     logg,
		Metrics:  checkoutMetrics,
		Images:   cfg.Catalog,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session registry", err)
		os.Exit(1)
	}

	routerParams := routes.RouterParams{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Sessions:      sessions,
		Notifications: notificationsService,
		Metrics:       registry,
	}
	if redisClient != nil {
		routerParams.Redis = redisClient
		routerParams.Idempotency = redisClient
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(routerParams),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
