package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/storefront/orders-inventory/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/storefront/orders-inventory/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/storefront/orders-inventory/internal/domains/catalog/ports"
	ordersmemory "github.com/storefront/orders-inventory/internal/domains/orders/adapters/memory"
	ordersobs "github.com/storefront/orders-inventory/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/storefront/orders-inventory/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/storefront/orders-inventory/internal/domains/orders/application"
	ordersports "github.com/storefront/orders-inventory/internal/domains/orders/ports"
	platformmigrations "github.com/storefront/orders-inventory/internal/platform/migrations"
	platformobservability "github.com/storefront/orders-inventory/internal/platform/observability"
	platformpostgres "github.com/storefront/orders-inventory/internal/platform/postgres"
	orderactivities "github.com/storefront/orders-inventory/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/storefront/orders-inventory/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "orders-inventory-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	catalogRepo, ordersRepo, cleanupRepos := buildRepositories(ctx, logger)
	defer cleanupRepos()
	ordersService := ordersobs.New(
		ordersapp.NewService(ordersRepo, catalogRepo),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	activities := orderactivities.NewActivities(ordersService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildRepositories(ctx context.Context, logger *slog.Logger) (catalogports.Repository, ordersports.Repository, func()) {
	dsn := os.Getenv("POSTGRES_DSN")
	if strings.TrimSpace(dsn) == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		catalogRepo := catalogmemory.NewRepository()
		return catalogRepo, ordersmemory.NewRepository(catalogRepo), func() {}
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		logger.Warn("worker failed to connect to postgres (falling back to memory)", slog.String("error", err.Error()))
		catalogRepo := catalogmemory.NewRepository()
		return catalogRepo, ordersmemory.NewRepository(catalogRepo), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("worker failed to unwrap postgres connection (falling back to memory)", slog.String("error", err.Error()))
		catalogRepo := catalogmemory.NewRepository()
		return catalogRepo, ordersmemory.NewRepository(catalogRepo), func() {}
	}
	if err := platformmigrations.Run(db); err != nil {
		logger.Warn("worker failed to run migrations (falling back to memory)", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		catalogRepo := catalogmemory.NewRepository()
		return catalogRepo, ordersmemory.NewRepository(catalogRepo), func() {}
	}
	logger.Info("worker repositories configured with postgres")
	return catalogpostgres.NewRepository(db), orderspostgres.NewRepository(db), func() { _ = sqlDB.Close() }
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
