package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	webhookspostgres "github.com/storefront/orders-inventory/internal/domains/webhooks/adapters/persistence/postgres"
	platformpostgres "github.com/storefront/orders-inventory/internal/platform/postgres"
)

// defaultEventTTL keeps ledger entries well past any payment provider's
// redelivery window before replay protection lapses.
const defaultEventTTL = 30 * 24 * time.Hour

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge webhook ledger")
	}

	ledger := webhookspostgres.NewLedger(db)
	cutoff := time.Now().UTC().Add(-eventTTLFromEnv())
	pruned, err := ledger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge webhook ledger: %v", err)
	}
	log.Printf("webhook ledger purge completed, removed %d entries", pruned)
}

func eventTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("WEBHOOK_EVENT_TTL_HOURS"))
	if raw == "" {
		return defaultEventTTL
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return defaultEventTTL
	}
	return time.Duration(hours) * time.Hour
}
