package cart

import (
	"errors"
	"fmt"

	"fitmrp-client/internal/order"
)

var (
	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")
	ErrProductRequired = errors.New("product id is required")

	// -- Resource State --
	ErrCartEmpty = errors.New("cart is empty")
	ErrBusy      = errors.New("another cart operation is in progress")

	ErrRefundAlreadyRequested = order.ErrRefundAlreadyRequested
)

// ValidationError is returned when an operation is rejected locally,
// before any remote call.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(op string, err error) error {
	return &ValidationError{Op: op, Err: err}
}
