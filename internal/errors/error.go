package errors

import (
	"errors"
)

var (
	ErrEmptyAuth            = errors.New("missing authorization")
	ErrEmptySubject         = errors.New("missing subject")
	ErrTokenInvalid         = errors.New("invalid token")
	ErrEmptySession         = errors.New("missing session")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrTotalMismatch        = errors.New("order total does not match line items")
	ErrPriceMismatch        = errors.New("line item price does not match catalog")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderForbidden       = errors.New("order does not belong to user")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidCustomization = errors.New("invalid customization")
	ErrOrderRejected        = errors.New("order rejected by order service")
)
