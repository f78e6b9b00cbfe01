//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storefront/orders-inventory/internal/platform/migrations"
)

func setupLedgerPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func TestLedger_RecordDetectsReplay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupLedgerPostgresContainer(t)
	defer cleanup()

	ledger := NewLedger(db)
	ctx := context.Background()

	inserted, err := ledger.Record(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = ledger.Record(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, inserted)

	inserted, err = ledger.Record(ctx, "evt-2")
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestLedger_ConcurrentRecordExactlyOneWinner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupLedgerPostgresContainer(t)
	defer cleanup()

	ledger := NewLedger(db)
	ctx := context.Background()

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := ledger.Record(ctx, "evt-contended")
			require.NoError(t, err)
			results <- inserted
		}()
	}
	wg.Wait()
	close(results)

	var winners int
	for inserted := range results {
		if inserted {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestLedger_PurgeOlderThan(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupLedgerPostgresContainer(t)
	defer cleanup()

	ledger := NewLedger(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		inserted, err := ledger.Record(ctx, fmt.Sprintf("evt-%d", i))
		require.NoError(t, err)
		require.True(t, inserted)
	}

	// Nothing is old enough yet.
	pruned, err := ledger.PurgeOlderThan(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 0, pruned)

	pruned, err = ledger.PurgeOlderThan(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 3, pruned)

	// Pruned ids lose replay protection.
	inserted, err := ledger.Record(ctx, "evt-0")
	require.NoError(t, err)
	assert.True(t, inserted)
}
