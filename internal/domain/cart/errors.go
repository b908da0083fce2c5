// internal/domain/cart/errors.go
package cart

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when the referenced product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrItemNotFound is returned when a cart item does not exist or does not
// belong to the requesting user.
var ErrItemNotFound = errors.New("cart item not found")

// InsufficientStockError is returned when the requested quantity exceeds the
// product's live stock. Available carries the quantity the client can still
// order.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
