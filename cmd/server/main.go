package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/attire-shop/attire/internal"
	"github.com/attire-shop/attire/internal/auth"
	"github.com/attire-shop/attire/internal/billing"
	"github.com/attire-shop/attire/internal/bootstrap"
	"github.com/attire-shop/attire/internal/cart"
	"github.com/attire-shop/attire/internal/checkout"
	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/handler/storefront"
	"github.com/attire-shop/attire/internal/middleware"
	"github.com/attire-shop/attire/internal/postgres"
	"github.com/attire-shop/attire/internal/router"
	"github.com/attire-shop/attire/internal/routes"
	"github.com/attire-shop/attire/internal/session"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	productStore := postgres.NewProductStore(pool)
	reviewStore := postgres.NewReviewStore(pool)
	orderStore := postgres.NewOrderStore(pool)
	userStore := postgres.NewUserStore(pool)

	// Seed the catalog on first boot
	if err := bootstrap.SeedCatalog(ctx, pool, logger); err != nil {
		return fmt.Errorf("catalog seeding failed: %w", err)
	}

	// Cart persistence: Redis when configured, in-memory otherwise
	var cartRepo domain.CartRepository
	if cfg.RedisUrl != "" {
		opts, err := redis.ParseURL(cfg.RedisUrl)
		if err != nil {
			return fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		defer client.Close()
		cartRepo = cart.NewRedisRepository(client)
		logger.Info("Cart persistence: redis")
	} else {
		cartRepo = cart.NewMemoryRepository()
		logger.Warn("REDIS_URL not set, carts will not survive restarts")
	}

	// Session registry holds per-visitor cart, checkout and filter state
	sessions := session.NewRegistry(cartRepo, logger)

	// Auth service
	tokens, err := auth.NewTokenManager(cfg.SessionSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}
	authService := auth.NewService(userStore, tokens)

	// Billing provider: Stripe when configured, mock otherwise
	var billingProvider billing.Provider
	if cfg.Stripe.SecretKey != "" {
		billingProvider, err = billing.NewStripeProvider(cfg.Stripe.SecretKey)
		if err != nil {
			return fmt.Errorf("failed to initialize Stripe provider: %w", err)
		}
		logger.Info("Stripe billing provider initialized")
	} else {
		billingProvider = &billing.MockProvider{}
		logger.Warn("STRIPE_SECRET_KEY not set, using mock billing provider")
	}

	// Checkout orchestrator
	orchestrator := checkout.NewOrchestrator(billingProvider, orderStore, cfg.PaymentTimeout, logger)

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("attire")

	secure := cfg.Env == "prod"

	// Build route dependencies
	storefrontDeps := routes.StorefrontDeps{
		ProductHandler:  storefront.NewProductHandler(productStore, reviewStore, sessions, secure),
		FilterHandler:   storefront.NewFilterHandler(sessions, secure),
		CartHandler:     storefront.NewCartHandler(productStore, sessions, secure),
		CheckoutHandler: storefront.NewCheckoutHandler(orchestrator, sessions, secure),
		ReviewHandler:   storefront.NewReviewHandler(reviewStore),
		AuthHandler:     storefront.NewAuthHandler(authService, secure),
		OrderHandler:    storefront.NewOrderHandler(orderStore),
		MetricsHandler:  metrics.Handler(),
	}

	// Create router and register routes
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.WithSession(tokens),
		middleware.WithRequestLogger(logger),
	)

	routes.RegisterStorefrontRoutes(r, storefrontDeps)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
