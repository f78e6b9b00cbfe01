package application

import (
	"errors"
	"fmt"

	"github.com/storefront/orders-inventory/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a catalog invariant.
	ErrInvalidInput = errors.New("invalid product input")
	// ErrInvalidPage signals pagination parameters outside page >= 1, size >= 1.
	ErrInvalidPage = errors.New("page and size must be >= 1")
	// ErrMissingFields signals a full update without every field supplied.
	ErrMissingFields = errors.New("full update requires sku, name, price and stock")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidSKU) ||
		errors.Is(err, domain.ErrInvalidName) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidStock) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
