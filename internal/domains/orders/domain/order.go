package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusPaid     Status = "PAID"
	StatusShipped  Status = "SHIPPED"
	StatusCanceled Status = "CANCELED"
)

var (
	ErrInvalidProductID  = errors.New("product id must be greater than zero")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrNotCancelable marks orders whose status forbids delete/cancel,
	// distinct from not-found.
	ErrNotCancelable = errors.New("order cannot be deleted or canceled")
)

// transitions is the allowed status graph. SHIPPED and CANCELED are terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusPaid, StatusCanceled},
	StatusPaid:     {StatusShipped, StatusCanceled},
	StatusShipped:  {},
	StatusCanceled: {},
}

// ParseStatus converts the wire representation into a Status.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !isValidStatus(status) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// CanTransitionTo reports whether the graph allows moving to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist from s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func isValidStatus(status Status) bool {
	_, ok := transitions[status]
	return ok
}

// Order models a purchase of a quantity of one product. It holds a weak
// reference to the product by id.
type Order struct {
	ID        int64
	ProductID int64
	Quantity  int64
	Status    Status
	CreatedAt time.Time
}

// NewOrder validates and constructs a new Order in PENDING state.
func NewOrder(productID, quantity int64) (*Order, error) {
	order := &Order{
		ProductID: productID,
		Quantity:  quantity,
		Status:    StatusPending,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// Transition checks the status graph and applies the change. Canceling
// callers are responsible for restoring stock alongside the status write.
func (o *Order) Transition(target Status) error {
	if !isValidStatus(target) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}
	if !o.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, target)
	}
	o.Status = target
	return nil
}
