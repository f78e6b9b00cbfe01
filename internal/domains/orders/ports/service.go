package ports

import (
	"context"

	catalogdomain "github.com/storefront/orders-inventory/internal/domains/catalog/domain"
	"github.com/storefront/orders-inventory/internal/domains/orders/domain"
)

// PlaceOrderInput carries the fields required to place an order.
type PlaceOrderInput struct {
	ProductID int64
	Quantity  int64
}

// OrderDetail is an order with a denormalized product snapshot. Product is nil
// when the referenced product no longer exists.
type OrderDetail struct {
	Order   *domain.Order
	Product *catalogdomain.Product
}

// Service exposes order engine use cases to adapters.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*OrderDetail, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

// WorkflowOrchestrator routes order placement through durable execution when
// available, or inline otherwise.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
}
