package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidSKU   = errors.New("sku must not be empty")
	ErrInvalidName  = errors.New("name must not be empty")
	ErrInvalidPrice = errors.New("price must be greater than zero")
	ErrInvalidStock = errors.New("stock must not be negative")
)

// Product models a sellable catalog item. Stock counts units available to order
// and must never go negative; the sku is unique across the catalog.
type Product struct {
	ID        int64
	SKU       string
	Name      string
	Price     float64
	Stock     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct validates and constructs a new Product aggregate.
func NewProduct(sku, name string, price float64, stock int64) (*Product, error) {
	product := &Product{
		SKU:   strings.TrimSpace(sku),
		Name:  strings.TrimSpace(name),
		Price: price,
		Stock: stock,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.SKU) == "" {
		return ErrInvalidSKU
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}
