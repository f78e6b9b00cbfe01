package ports

import "context"

// EventLedger is the append-only record of webhook event ids used for replay
// protection. Record must be atomic: under concurrent delivery of the same
// event id exactly one caller observes inserted == true.
type EventLedger interface {
	// Record appends the event id. It returns false when the id was already
	// present, without error.
	Record(ctx context.Context, eventID string) (inserted bool, err error)
}
