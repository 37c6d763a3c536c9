package order

import "errors"

var (
	// -- Checkout --
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidCustomer       = errors.New("invalid customer info")
	ErrOrderSubmissionFailed = errors.New("order submission failed")

	// -- Resource State --
	ErrOrderNotFound           = errors.New("order not found")
	ErrDuplicateOrder          = errors.New("order already exists")
	ErrInvalidStatus           = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")

	// -- Authentication/Authorization --
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
