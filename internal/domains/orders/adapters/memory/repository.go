package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	catalogports "github.com/storefront/orders-inventory/internal/domains/catalog/ports"
	"github.com/storefront/orders-inventory/internal/domains/orders/domain"
	"github.com/storefront/orders-inventory/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Stock movements are
// delegated to the catalog's stock adjuster, whose guarded updates provide the
// same semantics as the relational adapter's conditional writes.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
	stock  catalogports.StockAdjuster
	now    func() time.Time
}

func NewRepository(stock catalogports.StockAdjuster) *Repository {
	return &Repository{
		orders: map[int64]*domain.Order{},
		stock:  stock,
		now:    time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := *order
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	if err := r.stock.ReserveStock(ctx, clone.ProductID, clone.Quantity); err != nil {
		return nil, translateStockErr(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// Caller-supplied ids are honored so fixtures can pin identifiers.
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	clone.Status = domain.StatusPending
	clone.CreatedAt = r.now()
	r.orders[clone.ID] = &clone
	saved := clone
	return &saved, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *Repository) Transition(ctx context.Context, id int64, from, to domain.Status, restock int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if order.Status != from {
		return nil, ports.ErrStaleStatus
	}
	if restock > 0 {
		// A product deleted after ordering leaves nothing to restore.
		if err := r.stock.RestoreStock(ctx, order.ProductID, restock); err != nil && !errors.Is(err, catalogports.ErrNotFound) {
			return nil, err
		}
	}
	order.Status = to
	clone := *order
	return &clone, nil
}

func (r *Repository) DeletePending(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	if order.Status != domain.StatusPending {
		return ports.ErrStaleStatus
	}
	delete(r.orders, id)
	return nil
}

func translateStockErr(err error) error {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return ports.ErrProductNotFound
	case errors.Is(err, catalogports.ErrInsufficientStock):
		return ports.ErrInsufficientStock
	default:
		return err
	}
}
