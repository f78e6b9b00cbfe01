package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	storefrontserver "github.com/storefront/orders-inventory/server"

	catalogmemory "github.com/storefront/orders-inventory/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/storefront/orders-inventory/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/storefront/orders-inventory/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/storefront/orders-inventory/internal/domains/catalog/application"
	catalogports "github.com/storefront/orders-inventory/internal/domains/catalog/ports"

	ordersmemory "github.com/storefront/orders-inventory/internal/domains/orders/adapters/memory"
	ordersobs "github.com/storefront/orders-inventory/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/storefront/orders-inventory/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/storefront/orders-inventory/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/storefront/orders-inventory/internal/domains/orders/application"
	ordersports "github.com/storefront/orders-inventory/internal/domains/orders/ports"

	webhooksmemory "github.com/storefront/orders-inventory/internal/domains/webhooks/adapters/memory"
	webhooksobs "github.com/storefront/orders-inventory/internal/domains/webhooks/adapters/observability"
	webhookspostgres "github.com/storefront/orders-inventory/internal/domains/webhooks/adapters/persistence/postgres"
	webhooksapp "github.com/storefront/orders-inventory/internal/domains/webhooks/application"
	webhooksports "github.com/storefront/orders-inventory/internal/domains/webhooks/ports"

	platformmigrations "github.com/storefront/orders-inventory/internal/platform/migrations"
	platformobservability "github.com/storefront/orders-inventory/internal/platform/observability"
	platformpostgres "github.com/storefront/orders-inventory/internal/platform/postgres"
)

// Run boots the orders/inventory HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "orders-inventory-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := connectDatabase(ctx, cfg, logger)
	defer cleanupDB()
	catalogRepo, ordersRepo, ledger := buildRepositories(db, logger)

	catalogService := catalogobs.New(
		catalogapp.NewService(catalogRepo),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	ordersService := ordersobs.New(
		ordersapp.NewService(ordersRepo, catalogRepo),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	webhookService := webhooksobs.New(
		webhooksapp.NewProcessor([]byte(cfg.WebhookSecret), ledger, ordersService),
		webhooksobs.WithLogger(logger),
		webhooksobs.WithTracer(instruments.Tracer("internal.webhooks.application")),
		webhooksobs.WithMeter(instruments.Meter("internal.webhooks.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(ordersService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := storefrontserver.ApiHandleFunctions{
		ProductsAPI: storefrontserver.NewProductsAPI(catalogService),
		OrdersAPI:   storefrontserver.NewOrdersAPI(ordersService, orderWorkflows),
		WebhooksAPI: storefrontserver.NewWebhooksAPI(webhookService),
	}

	router := storefrontserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("orders/inventory API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("orders/inventory API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func connectDatabase(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := platformmigrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return nil, func() {}
	}
	logger.Info("repositories configured with postgres")
	return db, func() { _ = sqlDB.Close() }
}

func buildRepositories(db *gorm.DB, logger *slog.Logger) (catalogports.Repository, ordersports.Repository, webhooksports.EventLedger) {
	if db != nil {
		return catalogpostgres.NewRepository(db), orderspostgres.NewRepository(db), webhookspostgres.NewLedger(db)
	}
	catalogRepo := catalogmemory.NewRepository()
	return catalogRepo, ordersmemory.NewRepository(catalogRepo), webhooksmemory.NewLedger()
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
