package application

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/storefront/orders-inventory/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/storefront/orders-inventory/internal/domains/catalog/domain"
	ordersmemory "github.com/storefront/orders-inventory/internal/domains/orders/adapters/memory"
	ordersapp "github.com/storefront/orders-inventory/internal/domains/orders/application"
	ordersdomain "github.com/storefront/orders-inventory/internal/domains/orders/domain"
	ordersports "github.com/storefront/orders-inventory/internal/domains/orders/ports"
	webhooksmemory "github.com/storefront/orders-inventory/internal/domains/webhooks/adapters/memory"
	"github.com/storefront/orders-inventory/internal/domains/webhooks/ports"
)

var testSecret = []byte("test-webhook-secret")

type fixture struct {
	processor *Processor
	orders    ordersports.Service
	catalog   *catalogmemory.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog := catalogmemory.NewRepository()
	ordersRepo := ordersmemory.NewRepository(catalog)
	ordersService := ordersapp.NewService(ordersRepo, catalog)
	return &fixture{
		processor: NewProcessor(testSecret, webhooksmemory.NewLedger(), ordersService),
		orders:    ordersService,
		catalog:   catalog,
	}
}

func (f *fixture) placeOrder(t *testing.T) *ordersdomain.Order {
	t.Helper()
	product, err := catalogdomain.NewProduct("SKU-001", "Widget", 9.99, 10)
	require.NoError(t, err)
	saved, err := f.catalog.Create(context.Background(), product)
	require.NoError(t, err)
	order, err := f.orders.Place(context.Background(), ordersports.PlaceOrderInput{ProductID: saved.ID, Quantity: 2})
	require.NoError(t, err)
	return order
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, testSecret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func paymentBody(eventID string, orderID int64) []byte {
	return []byte(fmt.Sprintf(`{"event_id":%q,"type":"payment.succeeded","order_id":%d}`, eventID, orderID))
}

func TestProcessAppliesPayment(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t)
	body := paymentBody("evt-1", order.ID)

	outcome, err := f.processor.Process(context.Background(), body, sign(body))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeProcessed, outcome)

	detail, err := f.orders.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusPaid, detail.Order.Status)
}

func TestProcessReplayMutatesOnce(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t)
	body := paymentBody("evt-1", order.ID)

	outcome, err := f.processor.Process(context.Background(), body, sign(body))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeProcessed, outcome)

	outcome, err = f.processor.Process(context.Background(), body, sign(body))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeAlreadyProcessed, outcome)

	detail, err := f.orders.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusPaid, detail.Order.Status)
}

func TestProcessSecondEventOnPaidOrderIsNoOp(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t)

	body := paymentBody("evt-1", order.ID)
	_, err := f.processor.Process(context.Background(), body, sign(body))
	require.NoError(t, err)

	// Distinct event id, same order already PAID: the transition no-ops.
	body = paymentBody("evt-2", order.ID)
	outcome, err := f.processor.Process(context.Background(), body, sign(body))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeProcessed, outcome)

	detail, err := f.orders.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusPaid, detail.Order.Status)
}

func TestProcessRejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t)
	body := paymentBody("evt-1", order.ID)

	_, err := f.processor.Process(context.Background(), body, "")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = f.processor.Process(context.Background(), body, "not-hex")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	wrong := sign([]byte("different body"))
	_, err = f.processor.Process(context.Background(), body, wrong)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestProcessRejectsAlteredBody(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t)
	body := paymentBody("evt-1", order.ID)
	signature := sign(body)

	tampered := paymentBody("evt-1", order.ID+1)
	_, err := f.processor.Process(context.Background(), tampered, signature)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	detail, err := f.orders.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusPending, detail.Order.Status)
}

func TestProcessRejectsMalformedPayload(t *testing.T) {
	f := newFixture(t)

	body := []byte(`{not json`)
	_, err := f.processor.Process(context.Background(), body, sign(body))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	body = []byte(`{"type":"payment.succeeded","order_id":1}`)
	_, err = f.processor.Process(context.Background(), body, sign(body))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	body = []byte(`{"event_id":"evt-1","type":"payment.succeeded"}`)
	_, err = f.processor.Process(context.Background(), body, sign(body))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestProcessIgnoresUnhandledEventTypes(t *testing.T) {
	f := newFixture(t)

	body := []byte(`{"event_id":"evt-1","type":"payment.refunded","order_id":1}`)
	outcome, err := f.processor.Process(context.Background(), body, sign(body))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeIgnored, outcome)
}

// A delivery for a missing order fails, but its event id stays in the ledger:
// retrying the same delivery reports AlreadyProcessed instead of failing again.
func TestProcessUnknownOrderKeepsLedgerEntry(t *testing.T) {
	f := newFixture(t)

	body := paymentBody("evt-1", 404)
	_, err := f.processor.Process(context.Background(), body, sign(body))
	assert.ErrorIs(t, err, ErrOrderNotFound)

	outcome, err := f.processor.Process(context.Background(), body, sign(body))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeAlreadyProcessed, outcome)
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	f := newFixture(t)
	body := []byte(`{"event_id":"evt-1"}`)

	require.NoError(t, f.processor.VerifySignature(body, sign(body)))
	assert.ErrorIs(t, f.processor.VerifySignature(body, sign([]byte("other"))), ErrInvalidSignature)
}
