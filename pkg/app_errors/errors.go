package apperrors

import "errors"

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrOrderNotFound      = errors.New("order not found")

	ErrEmptyOrder        = errors.New("order has no lines")
	ErrInvalidQuantity   = errors.New("invalid line quantity")
	ErrTicketNotInEvent  = errors.New("ticket type does not belong to event")
	ErrSaleNotOpen       = errors.New("ticket type is not on sale")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPersistenceFailed = errors.New("order persistence failed")

	ErrDiscountNotFound      = errors.New("discount code not found")
	ErrDiscountExpired       = errors.New("discount code expired")
	ErrDiscountWrongEvent    = errors.New("discount code not valid for event")
	ErrDiscountUsageExceeded = errors.New("discount code usage limit reached")

	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrPaymentRefMismatch = errors.New("payment reference mismatch")
	ErrInvalidSignature   = errors.New("invalid notification signature")
	ErrUnknownOrder       = errors.New("no order for payment reference")

	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)
