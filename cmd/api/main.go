package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JoaquiinAguilar/gaiacare-backend/api/controllers"
	"github.com/JoaquiinAguilar/gaiacare-backend/api/routes"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/cart"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/catalog"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/checkout"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/dashboard"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/notifications"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/orders"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/paymentconfig"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/users"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/config"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/logger"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/metrics"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/migrate"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	gormDB := dbClient.DB()

	notificationsService, err := notifications.NewService(notifications.NewSMTPSender(cfg.SMTP), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	usersService, err := users.NewService(users.NewRepository(gormDB), dbClient, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	catalogService, err := catalog.NewService(catalog.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cart.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(checkout.NewRepository(gormDB), dbClient, notificationsService, cfg.Checkout, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(orders.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	dashboardService, err := dashboard.NewService(dashboard.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}
	paymentConfigService, err := paymentconfig.NewService(paymentconfig.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment config service", err)
		os.Exit(1)
	}

	pingers := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	handler := routes.NewRouter(
		cfg,
		logg,
		httpMetrics,
		metricsHandler,
		redisClient,
		pingers,
		usersService,
		catalogService,
		cartService,
		checkoutService,
		ordersService,
		dashboardService,
		notificationsService,
		paymentConfigService,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
