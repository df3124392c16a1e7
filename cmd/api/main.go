package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/muadee/storefront-gateway/api/routes"
	"github.com/muadee/storefront-gateway/internal/backend"
	cartsvc "github.com/muadee/storefront-gateway/internal/cart"
	ordersvc "github.com/muadee/storefront-gateway/internal/orders"
	paymentsvc "github.com/muadee/storefront-gateway/internal/payment"
	reordersvc "github.com/muadee/storefront-gateway/internal/reorder"
	"github.com/muadee/storefront-gateway/pkg/auth"
	"github.com/muadee/storefront-gateway/pkg/config"
	"github.com/muadee/storefront-gateway/pkg/logger"
	"github.com/muadee/storefront-gateway/pkg/metrics"
	"github.com/muadee/storefront-gateway/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis)
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

	backendClient, err := backend.NewClient(cfg.Upstream, logg, metrics.NewUpstreamMetrics(registry))
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	debouncer := cartsvc.NewDebouncer(
		cfg.Cart.DebounceQuietPeriod,
		func(ctx context.Context, ac auth.Context, variantID int64, quantity int) error {
			_, err := backendClient.UpdateCartLine(ctx, ac, variantID, quantity)
			return err
		},
		logg,
		metrics.NewCartMetrics(registry),
	)

	cartService, err := cartsvc.NewService(
		cartsvc.NewRedisStore(redisClient, cfg.Cart.SessionTTL),
		backendClient,
		debouncer,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	defer cartService.Close()

	ordersService, err := ordersvc.NewService(backendClient, logg, cfg.Orders.MaxParallelPages)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	reorderService, err := reordersvc.NewService(backendClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reorder service", err)
		os.Exit(1)
	}

	paymentService, err := paymentsvc.NewService(backendClient, logg, metrics.NewPaymentMetrics(registry))
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront gateway")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisClient,
			backendClient,
			cartService,
			ordersService,
			reorderService,
			paymentService,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway stopped unexpectedly", err)
		os.Exit(1)
	}
}
