package storefrontserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	ordershttpmapper "github.com/storefront/orders-inventory/internal/domains/orders/adapters/http/mapper"
	ordersdomain "github.com/storefront/orders-inventory/internal/domains/orders/domain"
	ordersports "github.com/storefront/orders-inventory/internal/domains/orders/ports"
)

// OrdersAPI wires HTTP transport with the orders bounded context service and workflows.
type OrdersAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service.
func NewOrdersAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrdersAPI {
	return OrdersAPI{service: service, workflows: workflows}
}

// Post /orders
// Place an order, reserving stock atomically
func (api *OrdersAPI) PlaceOrder(c *gin.Context) {
	var payload ordershttpmapper.PlaceOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.placeOrder(c.Request.Context(), ordershttpmapper.ToPlaceInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/orders/%d", order.ID))
	c.JSON(http.StatusCreated, ordershttpmapper.FromDomain(order))
}

func (api *OrdersAPI) placeOrder(ctx context.Context, input ordersports.PlaceOrderInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.Place(ctx, input)
}

// Get /orders/:orderId
// Find order by ID, with a snapshot of its product
func (api *OrdersAPI) GetOrderById(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	detail, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDetail(detail))
}

// Put /orders/:orderId
// Transition the order status
func (api *OrdersAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload ordershttpmapper.StatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.UpdateStatus(c.Request.Context(), id, ordersdomain.Status(payload.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomain(updated))
}

// Delete /orders/:orderId
// Delete a pending order or cancel a paid one
func (api *OrdersAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
