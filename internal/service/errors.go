package service

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound     = errors.New("product not found or inactive")
	ErrVariantNotFound     = errors.New("variant not found or inactive")
	ErrIncompleteSelection = errors.New("variant selection incomplete")
	ErrStockNotAvailable   = errors.New("stock record not available")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrPaymentCaptured     = errors.New("payment already captured")
	ErrAddressRequired     = errors.New("shipping address required")
	ErrPaymentMethod       = errors.New("unsupported payment method")
	ErrAlertNotFound       = errors.New("stock alert not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDisabled     = errors.New("account disabled")
	ErrEmailTaken          = errors.New("email already registered")
)

// InsufficientStockError carries the available quantity observed at rejection
// time. It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	ProductID uint
	VariantID uint
	Available int
}

// Error implements the error interface.
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d", e.Available)
}

// Is makes errors.Is(err, ErrInsufficientStock) succeed.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
