package service

import "errors"

// Errors surfaced by the order workflow services. Handlers map these to
// HTTP status codes; anything else is an internal failure.
var (
	// Creation / allocation.
	ErrDayLocked             = errors.New("day is locked")
	ErrSequenceNotConfigured = errors.New("order sequence not configured")
	ErrInvalidOrderType      = errors.New("invalid order_type")

	// Item operations.
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidQuantity  = errors.New("quantity must be > 0")
	ErrInvalidCombo     = errors.New("invalid combo")
	ErrItemNotRemovable = errors.New("item cannot be removed (already sent to kitchen)")

	// State machine transitions.
	ErrOrderNotEligible   = errors.New("order not found, already sent, or cancelled")
	ErrOrderNotReady      = errors.New("order not ready for dispatch")
	ErrItemNotFoundOrDone = errors.New("item not found or already processed")

	// Discounts.
	ErrEmptyOrder           = errors.New("no items in order")
	ErrInvalidDiscountType  = errors.New("invalid discount type")
	ErrInvalidDiscountValue = errors.New("invalid discount value")
	ErrDiscountExceedsOrder = errors.New("discount exceeds order amount")
	ErrInvalidPercent       = errors.New("discount percent cannot exceed 100")

	// Closing.
	ErrOrderNotReadyToClose = errors.New("order not ready to close")
	ErrPaymentRequired      = errors.New("payment is required")
	ErrPaymentMismatch      = errors.New("payment amount does not match final bill amount")
	ErrInvalidPayment       = errors.New("invalid payment entry")

	// Day end.
	ErrDayAlreadyLocked = errors.New("day already locked")
	ErrOpenOrdersExist  = errors.New("cannot lock day, pending orders exist")
)
