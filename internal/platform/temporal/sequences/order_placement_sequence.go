package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/storefront/orders-inventory/internal/domains/orders/domain"
	ordersports "github.com/storefront/orders-inventory/internal/domains/orders/ports"
	orderactivities "github.com/storefront/orders-inventory/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the ordered set of activities needed to
// place an order. Transient store failures retry with backoff; business
// failures surface immediately as non-retryable application errors.
func RunOrderPlacementSequence(ctx workflow.Context, input ordersports.PlaceOrderInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "productId", input.ProductID, "quantity", input.Quantity)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.PlaceOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "productId", input.ProductID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", order.ID)
	return &order, nil
}
