package application

import "errors"

var (
	// ErrInvalidSignature covers missing, malformed, and mismatching signatures alike.
	ErrInvalidSignature = errors.New("webhook signature is invalid")
	// ErrMalformedPayload signals a body that is not the expected payment event shape.
	ErrMalformedPayload = errors.New("webhook payload is malformed")
	// ErrOrderNotFound signals the event references an order that does not exist.
	ErrOrderNotFound = errors.New("webhook references unknown order")
)
