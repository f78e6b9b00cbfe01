package mapper

import (
	"time"

	catalogdomain "github.com/storefront/orders-inventory/internal/domains/catalog/domain"
	catalogports "github.com/storefront/orders-inventory/internal/domains/catalog/ports"
)

// Product is the transport-layer shape of a catalog product.
type Product struct {
	ID        int64     `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int64     `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MutationProduct is the request body for creating or updating a product.
// Pointer fields distinguish absent from zero in partial updates.
type MutationProduct struct {
	SKU   *string  `json:"sku"`
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
	Stock *int64   `json:"stock"`
}

// ProductPage is the paged listing response.
type ProductPage struct {
	Items []Product `json:"items"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Total int64     `json:"total"`
}

// ToCreateInput converts a mutation body into the create use-case input.
// Absent fields become zero values; the domain validation rejects them.
func ToCreateInput(payload MutationProduct) catalogports.CreateProductInput {
	input := catalogports.CreateProductInput{}
	if payload.SKU != nil {
		input.SKU = *payload.SKU
	}
	if payload.Name != nil {
		input.Name = *payload.Name
	}
	if payload.Price != nil {
		input.Price = *payload.Price
	}
	if payload.Stock != nil {
		input.Stock = *payload.Stock
	}
	return input
}

// ToUpdateInput converts a mutation body into the update use-case input.
func ToUpdateInput(payload MutationProduct) catalogports.UpdateProductInput {
	return catalogports.UpdateProductInput{
		SKU:   payload.SKU,
		Name:  payload.Name,
		Price: payload.Price,
		Stock: payload.Stock,
	}
}

// FromDomain converts a domain product to the transport representation.
func FromDomain(product *catalogdomain.Product) Product {
	if product == nil {
		return Product{}
	}
	return Product{
		ID:        product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Price:     product.Price,
		Stock:     product.Stock,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

// FromPage converts a listing page to the transport representation.
func FromPage(page *catalogports.ProductPage) ProductPage {
	if page == nil {
		return ProductPage{Items: []Product{}}
	}
	items := make([]Product, 0, len(page.Items))
	for _, product := range page.Items {
		items = append(items, FromDomain(product))
	}
	return ProductPage{Items: items, Page: page.Page, Size: page.Size, Total: page.Total}
}
