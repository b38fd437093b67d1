package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/profitscout/profitscout/internal"
	"github.com/profitscout/profitscout/internal/advisor"
	"github.com/profitscout/profitscout/internal/ai"
	"github.com/profitscout/profitscout/internal/ai/anthropic"
	"github.com/profitscout/profitscout/internal/ai/mock"
	"github.com/profitscout/profitscout/internal/billing"
	"github.com/profitscout/profitscout/internal/bundle"
	"github.com/profitscout/profitscout/internal/handler"
	"github.com/profitscout/profitscout/internal/metrics"
	"github.com/profitscout/profitscout/internal/middleware"
	"github.com/profitscout/profitscout/internal/repository"
	"github.com/profitscout/profitscout/internal/service"
	"github.com/profitscout/profitscout/internal/storage"
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

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Initialize bundle storage
	store, err := newStorage(cfg)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}
	logger.Info("Bundle storage ready", "provider", cfg.StorageProvider)

	// Initialize AI provider
	provider, err := newAIProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("AI provider initialization failed: %w", err)
	}
	logger.Info("AI provider ready", "provider", cfg.AIProvider)

	// Initialize billing (optional)
	var billingService billing.Service
	if cfg.BillingEnabled() {
		billingService = billing.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.StripePriceID)
		logger.Info("Billing ready")
	} else {
		logger.Warn("Billing is not configured; checkout is disabled")
	}

	// Initialize services
	userService := service.NewUserService(repo, logger)
	quotaService := service.NewQuotaService(repo, userService, logger)
	stockService := service.NewStockService(repo, logger)
	feedbackService := service.NewFeedbackService(repo, provider, logger)
	advisorService := advisor.New(provider, bundle.NewResolver(store, logger), logger)

	// Initialize middleware
	identityMw := middleware.NewIdentityMiddleware(logger)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	// Initialize handlers
	analysisHandler := handler.NewAnalysisHandler(advisorService, quotaService, stockService, logger)
	stockHandler := handler.NewStockHandler(stockService, logger)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, logger)
	billingHandler := handler.NewBillingHandler(billingService, userService, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL, logger)
	webhookHandler := handler.NewWebhookHandler(billingService, userService, logger)
	healthHandler := handler.NewHealthHandler(db, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Public routes: catalog, feedback, health, Stripe webhook (authenticated
	// by its signature, not by identity).
	stockHandler.RegisterRoutes(mux)
	feedbackHandler.RegisterRoutes(mux)
	webhookHandler.RegisterRoutes(mux)
	healthHandler.RegisterRoutes(mux)

	// Identity-gated routes
	requireIdentity := middleware.Stack(identityMw.RequireIdentity)
	mux.Handle("POST /api/recommendations", requireIdentity(http.HandlerFunc(analysisHandler.HandleRecommend)))
	mux.Handle("POST /api/followups", requireIdentity(http.HandlerFunc(analysisHandler.HandleFollowUp)))
	mux.Handle("POST /api/billing/checkout", requireIdentity(http.HandlerFunc(billingHandler.HandleCreateCheckout)))

	// Metrics endpoint (basic auth)
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// Outer middleware stack: request metrics, logging, identity extraction.
	root := middleware.Stack(
		metrics.Middleware,
		loggingMw.Handler,
		identityMw.WithIdentity,
	)(mux)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// newStorage builds the bundle store from configuration.
func newStorage(cfg *internal.Config) (storage.Storage, error) {
	switch cfg.StorageProvider {
	case storage.ProviderS3:
		return storage.NewS3Storage(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3BucketName,
		})
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
		})
	}
}

// newAIProvider builds the model client from configuration.
func newAIProvider(cfg *internal.Config, logger *slog.Logger) (ai.Provider, error) {
	switch cfg.AIProvider {
	case "anthropic":
		return anthropic.New(anthropic.Config{
			APIKey:         cfg.AnthropicAPIKey,
			Model:          cfg.AnthropicModel,
			RequestTimeout: cfg.AIRequestTimeout,
		}, logger)
	default:
		return mock.New(logger), nil
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
