package ports

import "context"

// Outcome classifies how a delivery was handled.
type Outcome string

const (
	// OutcomeProcessed means the event was recorded and applied.
	OutcomeProcessed Outcome = "processed"
	// OutcomeAlreadyProcessed means the event id was seen before; nothing was applied.
	OutcomeAlreadyProcessed Outcome = "already_processed"
	// OutcomeIgnored means the event type is not handled by this service.
	OutcomeIgnored Outcome = "ignored"
)

// Service processes signed payment webhook deliveries.
type Service interface {
	// Process verifies the signature over the exact raw body, guards against
	// replays through the event ledger, and applies the payment to the order.
	Process(ctx context.Context, rawBody []byte, signature string) (Outcome, error)
}
