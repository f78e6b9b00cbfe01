package ports

import (
	"context"

	"github.com/storefront/orders-inventory/internal/domains/catalog/domain"
)

// CreateProductInput carries the fields required to register a product.
type CreateProductInput struct {
	SKU   string
	Name  string
	Price float64
	Stock int64
}

// UpdateProductInput mutates a product. Nil fields are left untouched in
// partial mode; full mode requires every field to be present.
type UpdateProductInput struct {
	SKU   *string
	Name  *string
	Price *float64
	Stock *int64
}

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Items []*domain.Product
	Page  int
	Size  int
	Total int64
}

// Service exposes catalog use cases to adapters.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, page, size int) (*ProductPage, error)
	Update(ctx context.Context, id int64, input UpdateProductInput, partial bool) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}
