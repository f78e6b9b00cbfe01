package memory

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/orders-inventory/internal/domains/webhooks/ports"
)

var _ ports.EventLedger = (*Ledger)(nil)

// Ledger is an in-memory event ledger for development and tests.
type Ledger struct {
	mu     sync.Mutex
	events map[string]time.Time
	now    func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{events: map[string]time.Time{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (l *Ledger) WithClock(now func() time.Time) {
	if now != nil {
		l.now = now
	}
}

func (l *Ledger) Record(_ context.Context, eventID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, seen := l.events[eventID]; seen {
		return false, nil
	}
	l.events[eventID] = l.now()
	return true, nil
}
