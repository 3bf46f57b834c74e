package models

import (
	"errors"
	"strings"
)

// AppError is the error type returned by model and service code. Handlers
// inspect Code to pick an HTTP status instead of sniffing message strings.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

var (
	ErrNotFound          = NewAppError("NOT_FOUND", "resource not found")
	ErrForbidden         = NewAppError("FORBIDDEN", "not allowed to access this resource")
	ErrDuplicateEmail    = NewAppError("DUPLICATE_EMAIL", "email is already registered")
	ErrDuplicateSKU      = NewAppError("DUPLICATE_SKU", "sku is already in use")
	ErrDuplicateReview   = NewAppError("DUPLICATE_REVIEW", "product already reviewed by this user")
	ErrEmptyCart         = NewAppError("EMPTY_CART", "cart is empty")
	ErrStockShortage     = NewAppError("STOCK_SHORTAGE", "requested quantity exceeds stock")
	ErrProductInactive   = NewAppError("PRODUCT_INACTIVE", "product is not available for purchase")
	ErrPaymentIncomplete = NewAppError("PAYMENT_INCOMPLETE", "payment has not completed for this session")
	ErrInvalidInput      = NewAppError("INVALID_INPUT", "invalid input")
)

// ErrInvalidTransition is returned by order status mutators when the state
// machine rejects the move. Cancellation wraps it with a customer-facing
// message depending on the current status.
var ErrInvalidTransition = NewAppError("INVALID_TRANSITION", "order status transition not allowed")

// IsDuplicateKey reports whether err is a unique-index violation from MySQL
// or SQLite.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// AsAppError unwraps err into an *AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
