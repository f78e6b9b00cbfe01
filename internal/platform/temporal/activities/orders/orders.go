package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/storefront/orders-inventory/internal/domains/orders/application"
	ordersdomain "github.com/storefront/orders-inventory/internal/domains/orders/domain"
	ordersports "github.com/storefront/orders-inventory/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName reserves stock and persists the order aggregate.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
)

// Application error types carried across the Temporal boundary so the
// orchestrator can translate business failures back into sentinel errors.
const (
	ErrTypeProductNotFound   = "ProductNotFound"
	ErrTypeInsufficientStock = "InsufficientStock"
	ErrTypeInvalidInput      = "InvalidOrderInput"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the order engine into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder creates a PENDING order with its atomic stock reservation.
// Business failures are marked non-retryable; retrying cannot conjure stock or
// a product into existence, only transient store errors are worth a retry.
func (a *Activities) PlaceOrder(ctx context.Context, input ordersports.PlaceOrderInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order placement activity not initialized", "productId", input.ProductID)
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "productId", input.ProductID, "quantity", input.Quantity)
	order, err := a.service.Place(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "productId", input.ProductID, "error", err)
		return nil, asActivityError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}

func asActivityError(err error) error {
	switch {
	case errors.Is(err, ordersports.ErrProductNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeProductNotFound, err)
	case errors.Is(err, ordersports.ErrInsufficientStock):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInsufficientStock, err)
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	default:
		return err
	}
}
