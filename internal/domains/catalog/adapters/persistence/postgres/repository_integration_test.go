//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storefront/orders-inventory/internal/domains/catalog/domain"
	"github.com/storefront/orders-inventory/internal/domains/catalog/ports"
	"github.com/storefront/orders-inventory/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orders_inventory_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	product, err := domain.NewProduct("SKU-001", "Example Widget", 9.99, 100)
	require.NoError(t, err)

	saved, err := repo.Create(ctx, product)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-001", fetched.SKU)
	assert.EqualValues(t, 100, fetched.Stock)
}

func TestRepository_DuplicateSKU(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	first, err := domain.NewProduct("SKU-001", "Widget", 9.99, 1)
	require.NoError(t, err)
	_, err = repo.Create(ctx, first)
	require.NoError(t, err)

	second, err := domain.NewProduct("SKU-001", "Other", 1.99, 1)
	require.NoError(t, err)
	_, err = repo.Create(ctx, second)
	require.ErrorIs(t, err, ports.ErrDuplicateSKU)
}

func TestRepository_ListOrderAndCount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for _, sku := range []string{"SKU-1", "SKU-2", "SKU-3"} {
		product, err := domain.NewProduct(sku, sku, 1, 1)
		require.NoError(t, err)
		_, err = repo.Create(ctx, product)
		require.NoError(t, err)
	}

	items, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "SKU-1", items[0].SKU)
	assert.Equal(t, "SKU-2", items[1].SKU)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestRepository_ReserveStockGuarded(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	product, err := domain.NewProduct("SKU-001", "Widget", 9.99, 5)
	require.NoError(t, err)
	saved, err := repo.Create(ctx, product)
	require.NoError(t, err)

	require.NoError(t, repo.ReserveStock(ctx, saved.ID, 5))

	err = repo.ReserveStock(ctx, saved.ID, 1)
	require.ErrorIs(t, err, ports.ErrInsufficientStock)

	err = repo.ReserveStock(ctx, saved.ID+99, 1)
	require.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, repo.RestoreStock(ctx, saved.ID, 5))
	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, fetched.Stock)
}
