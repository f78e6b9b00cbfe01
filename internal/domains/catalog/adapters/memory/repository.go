package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/storefront/orders-inventory/internal/domains/catalog/domain"
	"github.com/storefront/orders-inventory/internal/domains/catalog/ports"
)

var (
	_ ports.Repository    = (*Repository)(nil)
	_ ports.StockAdjuster = (*Repository)(nil)
)

// Repository is an in-memory product persistence adapter for development and tests.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.skuTakenLocked(clone.SKU, 0) {
		return nil, ports.ErrDuplicateSKU
	}
	// Caller-supplied ids are honored so fixtures can pin identifiers.
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	clone.CreatedAt = r.now()
	clone.UpdatedAt = clone.CreatedAt
	r.products[clone.ID] = &clone
	saved := clone
	return &saved, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) List(_ context.Context, offset, limit int) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	list := make([]*domain.Product, 0, limit)
	for i := offset; i < len(ids) && len(list) < limit; i++ {
		clone := *r.products[ids[i]]
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

func (r *Repository) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[clone.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if r.skuTakenLocked(clone.SKU, clone.ID) {
		return nil, ports.ErrDuplicateSKU
	}
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = r.now()
	r.products[clone.ID] = &clone
	saved := clone
	return &saved, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// ReserveStock decrements stock only while stock >= quantity, under the same
// lock that guards all product mutations.
func (r *Repository) ReserveStock(_ context.Context, productID, quantity int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok {
		return ports.ErrNotFound
	}
	if product.Stock < quantity {
		return ports.ErrInsufficientStock
	}
	product.Stock -= quantity
	product.UpdatedAt = r.now()
	return nil
}

// RestoreStock returns previously reserved units to the product.
func (r *Repository) RestoreStock(_ context.Context, productID, quantity int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok {
		return ports.ErrNotFound
	}
	product.Stock += quantity
	product.UpdatedAt = r.now()
	return nil
}

func (r *Repository) skuTakenLocked(sku string, excludeID int64) bool {
	for id, p := range r.products {
		if id != excludeID && p.SKU == sku {
			return true
		}
	}
	return false
}
