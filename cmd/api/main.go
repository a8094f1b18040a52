package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/hanbitlee/furnimarket-backend/api/routes"
	"github.com/hanbitlee/furnimarket-backend/internal/auth"
	"github.com/hanbitlee/furnimarket-backend/internal/cart"
	"github.com/hanbitlee/furnimarket-backend/internal/checkout"
	"github.com/hanbitlee/furnimarket-backend/internal/deliveries"
	"github.com/hanbitlee/furnimarket-backend/internal/orders"
	"github.com/hanbitlee/furnimarket-backend/internal/payments"
	"github.com/hanbitlee/furnimarket-backend/internal/payouts"
	"github.com/hanbitlee/furnimarket-backend/internal/products"
	"github.com/hanbitlee/furnimarket-backend/pkg/config"
	"github.com/hanbitlee/furnimarket-backend/pkg/db"
	"github.com/hanbitlee/furnimarket-backend/pkg/logger"
	"github.com/hanbitlee/furnimarket-backend/pkg/migrate"
	"github.com/hanbitlee/furnimarket-backend/pkg/outbox"
	"github.com/hanbitlee/furnimarket-backend/pkg/redis"
	pkgstripe "github.com/hanbitlee/furnimarket-backend/pkg/stripe"
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

	stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Payment, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	gateway, err := payments.NewStripeGateway(stripeClient, cfg.Payment, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway", err)
		os.Exit(1)
	}

	publisher := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	productRepo := products.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	deliveryRepo := deliveries.NewRepository(dbClient.DB())
	payoutRepo := payouts.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.NewRepository(dbClient.DB()), cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	productService, err := products.NewService(productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(dbClient, productRepo, orderRepo, cartRepo, gateway, publisher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orderRepo, dbClient, publisher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}
	payoutService, err := payouts.NewService(payoutRepo, dbClient, publisher, cfg.Payout.CommissionRate)
	if err != nil {
		logg.Error(context.Background(), "failed to create payout service", err)
		os.Exit(1)
	}
	deliveryService, err := deliveries.NewService(deliveryRepo, dbClient, publisher, payoutService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			authService,
			productService,
			cartService,
			checkoutService,
			orderService,
			deliveryService,
			payoutService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
