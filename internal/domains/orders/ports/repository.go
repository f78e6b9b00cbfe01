package ports

import (
	"context"
	"errors"

	"github.com/storefront/orders-inventory/internal/domains/orders/domain"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStaleStatus signals a guarded status write lost against a concurrent
	// transition; the stored status no longer matches the expected one.
	ErrStaleStatus = errors.New("order status changed concurrently")
)

// Repository persists orders. The compound operations execute inside a single
// transactional boundary: stock movement and order row changes either both
// happen or neither does.
type Repository interface {
	// Create decrements product stock with a guarded conditional update and
	// inserts the order as one atomic step. Zero affected stock rows yields
	// ErrProductNotFound or ErrInsufficientStock.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// Transition flips the status only while the stored status still equals
	// from, restoring restock units to the product in the same transaction.
	// restock of zero leaves stock untouched.
	Transition(ctx context.Context, id int64, from, to domain.Status, restock int64) (*domain.Order, error)
	// DeletePending removes the order only while it is still PENDING.
	DeletePending(ctx context.Context, id int64) error
}
