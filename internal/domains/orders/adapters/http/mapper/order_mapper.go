package mapper

import (
	"time"

	catalogmapper "github.com/storefront/orders-inventory/internal/domains/catalog/adapters/http/mapper"
	ordersdomain "github.com/storefront/orders-inventory/internal/domains/orders/domain"
	ordersports "github.com/storefront/orders-inventory/internal/domains/orders/ports"
)

// Order is the transport-layer shape of an order.
type Order struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderDetail is an order with a snapshot of its product, when the product
// still exists.
type OrderDetail struct {
	Order
	Product *catalogmapper.Product `json:"product,omitempty"`
}

// PlaceOrder is the request body for creating an order.
type PlaceOrder struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// StatusUpdate is the request body for transitioning an order.
type StatusUpdate struct {
	Status string `json:"status"`
}

// ToPlaceInput converts the request body into the place use-case input.
func ToPlaceInput(payload PlaceOrder) ordersports.PlaceOrderInput {
	return ordersports.PlaceOrderInput{ProductID: payload.ProductID, Quantity: payload.Quantity}
}

// FromDomain converts a domain order to the transport representation.
func FromDomain(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	return Order{
		ID:        order.ID,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
}

// FromDetail converts an order detail to the transport representation.
func FromDetail(detail *ordersports.OrderDetail) OrderDetail {
	if detail == nil {
		return OrderDetail{}
	}
	result := OrderDetail{Order: FromDomain(detail.Order)}
	if detail.Product != nil {
		product := catalogmapper.FromDomain(detail.Product)
		result.Product = &product
	}
	return result
}
