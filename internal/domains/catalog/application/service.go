package application

import (
	"context"

	"github.com/storefront/orders-inventory/internal/domains/catalog/domain"
	"github.com/storefront/orders-inventory/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(input.SKU, input.Name, input.Price, input.Stock)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// List pages the catalog in insertion order. A page beyond the end yields an
// empty item slice, not an error.
func (s *Service) List(ctx context.Context, page, size int) (*ports.ProductPage, error) {
	if page < 1 || size < 1 {
		return nil, ErrInvalidPage
	}
	items, err := s.repo.List(ctx, (page-1)*size, size)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &ports.ProductPage{Items: items, Page: page, Size: size, Total: total}, nil
}

// Update replaces all fields when partial is false and requires each one; in
// partial mode only the supplied fields are touched.
func (s *Service) Update(ctx context.Context, id int64, input ports.UpdateProductInput, partial bool) (*domain.Product, error) {
	if !partial && (input.SKU == nil || input.Name == nil || input.Price == nil || input.Stock == nil) {
		return nil, ErrMissingFields
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *existing
	if input.SKU != nil {
		updated.SKU = *input.SKU
	}
	if input.Name != nil {
		updated.Name = *input.Name
	}
	if input.Price != nil {
		updated.Price = *input.Price
	}
	if input.Stock != nil {
		updated.Stock = *input.Stock
	}
	if err := updated.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Update(ctx, &updated)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
