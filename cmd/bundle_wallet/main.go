package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/adapters/bundleapi"
	"github.com/SscSPs/bundle_wallet_app/internal/adapters/events"
	"github.com/SscSPs/bundle_wallet_app/internal/adapters/paystack"
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/bundle_wallet_app/internal/core/services"
	"github.com/SscSPs/bundle_wallet_app/internal/handlers"
	"github.com/SscSPs/bundle_wallet_app/internal/middleware"
	"github.com/SscSPs/bundle_wallet_app/internal/platform/config"
	"github.com/SscSPs/bundle_wallet_app/internal/repositories/database/memory"
	"github.com/SscSPs/bundle_wallet_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/bundle_wallet_app/internal/utils"
	"github.com/SscSPs/bundle_wallet_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 30 * time.Second

// @title Bundle Wallet API
// @version 1.0
// @description Prepaid wallet and data bundle storefront for Ghanaian mobile networks.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	redisClient, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer database.CloseRedis(redisClient)

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaLedgerTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close ledger event publisher", slog.String("error", err.Error()))
		}
	}()
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set. Ledger events are disabled.")
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, services.Integrations{
		Gateway: paystack.NewClient(paystack.Config{
			BaseURL:   cfg.PaystackBaseURL,
			SecretKey: cfg.PaystackSecretKey,
		}),
		Deliverer: bundleapi.NewClient(bundleapi.Config{
			BaseURL: cfg.BundleAPIBaseURL,
			APIKey:  cfg.BundleAPIKey,
			Timeout: cfg.BundleAPITimeout,
		}),
		Publisher: publisher,
	})

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	limits, err := setupRateLimits(cfg, redisClient)
	if err != nil {
		return err
	}

	if err := handlers.RegisterValidators(); err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendBaseURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, limits)

	// Checkout delivers bundles inline, so there is no write timeout.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Info("Shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// setupRepositories picks the storage backend. The returned func releases it.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Info("Using in-memory storage")
		return memory.NewRepositoryProvider(), func() {}, nil
	}

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

func setupRateLimits(cfg *config.Config, redisClient *redis.Client) (handlers.RouteLimits, error) {
	loginStore, err := middleware.NewLimiterStore(redisClient, "bw_login")
	if err != nil {
		return handlers.RouteLimits{}, err
	}
	loginLimiter, err := middleware.NewLimiter(cfg.LoginRateLimit, loginStore)
	if err != nil {
		return handlers.RouteLimits{}, err
	}

	apiStore, err := middleware.NewLimiterStore(redisClient, "bw_api")
	if err != nil {
		return handlers.RouteLimits{}, err
	}
	apiLimiter, err := middleware.NewLimiter(cfg.APIRateLimit, apiStore)
	if err != nil {
		return handlers.RouteLimits{}, err
	}

	return handlers.RouteLimits{
		Login: middleware.RateLimit(loginLimiter),
		API:   middleware.RateLimit(apiLimiter),
	}, nil
}
