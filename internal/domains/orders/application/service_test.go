package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/storefront/orders-inventory/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/storefront/orders-inventory/internal/domains/catalog/domain"
	ordersmemory "github.com/storefront/orders-inventory/internal/domains/orders/adapters/memory"
	"github.com/storefront/orders-inventory/internal/domains/orders/domain"
	"github.com/storefront/orders-inventory/internal/domains/orders/ports"
)

func newTestService(t *testing.T) (*Service, *catalogmemory.Repository) {
	t.Helper()
	catalog := catalogmemory.NewRepository()
	repo := ordersmemory.NewRepository(catalog)
	return NewService(repo, catalog), catalog
}

func seedProduct(t *testing.T, catalog *catalogmemory.Repository, stock int64) *catalogdomain.Product {
	t.Helper()
	product, err := catalogdomain.NewProduct("SKU-001", "Widget", 9.99, stock)
	require.NoError(t, err)
	saved, err := catalog.Create(context.Background(), product)
	require.NoError(t, err)
	return saved
}

func TestPlaceReservesStock(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)

	order, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, int64(5), order.Quantity)

	remaining, err := catalog.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining.Stock)
}

func TestPlaceFailsWhenStockExhausted(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)

	_, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)

	_, err = service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 1})
	assert.ErrorIs(t, err, ports.ErrInsufficientStock)

	remaining, err := catalog.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining.Stock)
}

func TestPlaceUnknownProduct(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: 404, Quantity: 1})
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestPlaceRejectsInvalidInput(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)

	_, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Place(context.Background(), ports.PlaceOrderInput{ProductID: 0, Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Concurrent placements against a single product must never oversell: with 10
// units and twenty 1-unit orders, exactly ten succeed and stock lands on zero.
func TestPlaceConcurrentNeverOversells(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 10)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 1})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, failed int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ports.ErrInsufficientStock)
		failed++
	}
	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 10, failed)

	remaining, err := catalog.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining.Stock)
}

func TestGetIncludesProductSnapshot(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)

	order, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	detail, err := service.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, detail.Order.ID)
	require.NotNil(t, detail.Product)
	assert.Equal(t, product.SKU, detail.Product.SKU)
}

func TestGetSurvivesDeletedProduct(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)

	order, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, catalog.Delete(context.Background(), product.ID))

	detail, err := service.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Product)
}

func TestGetNotFound(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdateStatusAllowedTransition(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)
	order, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	updated, err := service.UpdateStatus(context.Background(), order.ID, domain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)

	updated, err = service.UpdateStatus(context.Background(), order.ID, domain.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)
}

func TestUpdateStatusRejectsForbiddenTransition(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)
	order, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = service.UpdateStatus(context.Background(), order.ID, domain.StatusShipped)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = service.UpdateStatus(context.Background(), order.ID, domain.StatusPaid)
	require.NoError(t, err)
	_, err = service.UpdateStatus(context.Background(), order.ID, domain.StatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)
	order, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	updated, err := service.UpdateStatus(context.Background(), order.ID, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, updated.Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)
	order, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = service.UpdateStatus(context.Background(), order.ID, domain.Status("REFUNDED"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancelRestoresStockExactlyOnce(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)
	order, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	updated, err := service.UpdateStatus(context.Background(), order.ID, domain.StatusCanceled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, updated.Status)

	restored, err := catalog.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), restored.Stock)

	// CANCELED is terminal; a second cancel must not restore again.
	_, err = service.UpdateStatus(context.Background(), order.ID, domain.StatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	again, err := catalog.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), again.Stock)
}

func TestCancelPaidOrderRestoresStock(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)
	order, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 4})
	require.NoError(t, err)
	_, err = service.UpdateStatus(context.Background(), order.ID, domain.StatusPaid)
	require.NoError(t, err)

	_, err = service.UpdateStatus(context.Background(), order.ID, domain.StatusCanceled)
	require.NoError(t, err)

	restored, err := catalog.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), restored.Stock)
}

// Deleting a PENDING order removes the row but deliberately leaves the
// reserved stock unreturned, unlike cancellation which restores it. The
// asymmetry is intentional: see the delete policy on Service.Delete.
func TestDeletePendingKeepsStockReserved(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)
	order, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), order.ID))

	_, err = service.Get(context.Background(), order.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	remaining, err := catalog.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), remaining.Stock)
}

func TestDeletePaidOrderCancelsAndRestores(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)
	order, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = service.UpdateStatus(context.Background(), order.ID, domain.StatusPaid)
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), order.ID))

	detail, err := service.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, detail.Order.Status)

	restored, err := catalog.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), restored.Stock)
}

func TestDeleteShippedOrderRejected(t *testing.T) {
	service, catalog := newTestService(t)
	product := seedProduct(t, catalog, 5)
	order, err := service.Place(context.Background(), ports.PlaceOrderInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = service.UpdateStatus(context.Background(), order.ID, domain.StatusPaid)
	require.NoError(t, err)
	_, err = service.UpdateStatus(context.Background(), order.ID, domain.StatusShipped)
	require.NoError(t, err)

	err = service.Delete(context.Background(), order.ID)
	assert.ErrorIs(t, err, domain.ErrNotCancelable)
}

func TestDeleteNotFound(t *testing.T) {
	service, _ := newTestService(t)

	err := service.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
