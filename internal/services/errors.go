package services

import "fmt"

// ErrorKind classifies checkout failures so handlers can pick the right
// user-facing response and status code.
type ErrorKind string

const (
	// ErrNetwork marks a remote endpoint being unreachable; retryable.
	ErrNetwork ErrorKind = "network"
	// ErrValidation marks a blocking user-facing problem (insufficient
	// stock, invalid shipping fields); nothing was committed.
	ErrValidation ErrorKind = "validation"
	// ErrPayment marks a gateway decline or timeout; checkout halted, cart
	// preserved.
	ErrPayment ErrorKind = "payment"
	// ErrPersistence marks a storage failure, including the critical case
	// of order creation failing after payment already succeeded.
	ErrPersistence ErrorKind = "persistence"
)

// CheckoutError is a classified failure from the checkout pipeline or the
// cart layer. Message is safe to show the customer; Err carries the cause.
type CheckoutError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// NewCheckoutError builds a classified checkout error.
func NewCheckoutError(kind ErrorKind, message string, err error) *CheckoutError {
	return &CheckoutError{Kind: kind, Message: message, Err: err}
}
