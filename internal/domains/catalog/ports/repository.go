package ports

import (
	"context"
	"errors"

	"github.com/storefront/orders-inventory/internal/domains/catalog/domain"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrDuplicateSKU = errors.New("sku already exists")
	// ErrInsufficientStock signals a guarded stock reservation matched zero rows.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Repository persists products. List returns items in insertion (id) order.
type Repository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Product, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// StockAdjuster applies guarded stock mutations on behalf of the order engine.
// Reserve succeeds only while stock >= quantity; the conditional write is the
// concurrency primitive, never a read-modify-write in application memory.
type StockAdjuster interface {
	ReserveStock(ctx context.Context, productID, quantity int64) error
	RestoreStock(ctx context.Context, productID, quantity int64) error
}
