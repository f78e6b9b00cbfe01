package application

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	ordersdomain "github.com/storefront/orders-inventory/internal/domains/orders/domain"
	ordersports "github.com/storefront/orders-inventory/internal/domains/orders/ports"
	"github.com/storefront/orders-inventory/internal/domains/webhooks/ports"
)

// eventTypePaymentSucceeded is the only event type this processor applies.
const eventTypePaymentSucceeded = "payment.succeeded"

// paymentEvent is the wire shape of a payment provider delivery.
type paymentEvent struct {
	EventID string `json:"event_id"`
	Type    string `json:"type"`
	OrderID int64  `json:"order_id"`
}

// Processor verifies and applies payment webhooks. The shared secret is
// injected at construction; it never travels through request state.
type Processor struct {
	secret []byte
	ledger ports.EventLedger
	orders ordersports.Service
}

func NewProcessor(secret []byte, ledger ports.EventLedger, orders ordersports.Service) *Processor {
	return &Processor{secret: secret, ledger: ledger, orders: orders}
}

// VerifySignature checks the hex-encoded HMAC-SHA256 of the exact raw request
// bytes. The comparison is constant time.
func (p *Processor) VerifySignature(rawBody []byte, provided string) error {
	provided = strings.TrimSpace(provided)
	if provided == "" {
		return ErrInvalidSignature
	}
	decoded, err := hex.DecodeString(provided)
	if err != nil {
		return ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, p.secret)
	mac.Write(rawBody)
	if !hmac.Equal(decoded, mac.Sum(nil)) {
		return ErrInvalidSignature
	}
	return nil
}

// Process handles one delivery. The ledger insert happens before the order
// mutation: a delivery that later fails on a missing order stays recorded, so
// the provider retrying the same event id gets AlreadyProcessed rather than a
// second attempt at a mutation that can never succeed.
func (p *Processor) Process(ctx context.Context, rawBody []byte, signature string) (ports.Outcome, error) {
	if err := p.VerifySignature(rawBody, signature); err != nil {
		return "", err
	}

	var event paymentEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMalformedPayload, err.Error())
	}
	if strings.TrimSpace(event.EventID) == "" {
		return "", fmt.Errorf("%w: missing event_id", ErrMalformedPayload)
	}
	if event.Type != eventTypePaymentSucceeded {
		return ports.OutcomeIgnored, nil
	}
	if event.OrderID <= 0 {
		return "", fmt.Errorf("%w: missing order_id", ErrMalformedPayload)
	}

	inserted, err := p.ledger.Record(ctx, event.EventID)
	if err != nil {
		return "", err
	}
	if !inserted {
		return ports.OutcomeAlreadyProcessed, nil
	}

	if _, err := p.orders.UpdateStatus(ctx, event.OrderID, ordersdomain.StatusPaid); err != nil {
		if errors.Is(err, ordersports.ErrNotFound) {
			return "", fmt.Errorf("%w: order %d", ErrOrderNotFound, event.OrderID)
		}
		return "", err
	}
	return ports.OutcomeProcessed, nil
}

var _ ports.Service = (*Processor)(nil)
