package application

import (
	"context"
	"errors"
	"fmt"

	catalogports "github.com/storefront/orders-inventory/internal/domains/catalog/ports"
	"github.com/storefront/orders-inventory/internal/domains/orders/domain"
	"github.com/storefront/orders-inventory/internal/domains/orders/ports"
)

// Service orchestrates order engine use cases.
type Service struct {
	repo    ports.Repository
	catalog catalogports.Repository
}

func NewService(repo ports.Repository, catalog catalogports.Repository) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Place creates an order in PENDING state, reserving stock through the
// repository's guarded conditional update. Under concurrent placements the
// decrements apply as if serialized and the loser fails deterministically.
func (s *Service) Place(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	order, err := domain.NewOrder(input.ProductID, input.Quantity)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, order)
}

// Get loads an order together with a snapshot of its product. A deleted
// product leaves the snapshot nil rather than failing the lookup.
func (s *Service) Get(ctx context.Context, id int64) (*ports.OrderDetail, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &ports.OrderDetail{Order: order}
	product, err := s.catalog.GetByID(ctx, order.ProductID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return detail, nil
		}
		return nil, err
	}
	detail.Product = product
	return detail, nil
}

// UpdateStatus applies a transition from the allowed graph. Setting the
// current status again is an idempotent no-op. Canceling restores the order's
// quantity to product stock within the same transaction as the status write.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	if _, err := domain.ParseStatus(string(status)); err != nil {
		return nil, mapError(err)
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, order.Status, status)
	}
	var restock int64
	if status == domain.StatusCanceled {
		restock = order.Quantity
	}
	updated, err := s.repo.Transition(ctx, id, order.Status, status, restock)
	if err != nil {
		if errors.Is(err, ports.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, order.Status, status)
		}
		return nil, err
	}
	return updated, nil
}

// Delete applies the deletion policy: PENDING orders are removed outright
// without restoring stock, PAID orders are converted to CANCELED with a stock
// restore, terminal orders are rejected as not cancelable.
func (s *Service) Delete(ctx context.Context, id int64) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch order.Status {
	case domain.StatusPending:
		if err := s.repo.DeletePending(ctx, id); err != nil {
			if errors.Is(err, ports.ErrStaleStatus) {
				return domain.ErrNotCancelable
			}
			return err
		}
		return nil
	case domain.StatusPaid:
		if _, err := s.repo.Transition(ctx, id, domain.StatusPaid, domain.StatusCanceled, order.Quantity); err != nil {
			if errors.Is(err, ports.ErrStaleStatus) {
				return domain.ErrNotCancelable
			}
			return err
		}
		return nil
	default:
		return domain.ErrNotCancelable
	}
}

var _ ports.Service = (*Service)(nil)
