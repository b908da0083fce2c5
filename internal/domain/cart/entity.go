// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// CartItem represents a line in a user's shopping cart.
// At most one row exists per (user, product); AddItem merges quantities
// instead of inserting duplicates, so no DB uniqueness constraint is needed.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// CartLine is a cart item joined with live product data. Price and stock
// are read at view time; nothing product-side is cached on the cart row.
type CartLine struct {
	ID            uint      `json:"id"`
	ProductID     uint      `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Price         float64   `json:"price"`
	ImageURL      string    `json:"image_url"`
	StockQuantity int       `json:"stock_quantity"`
	Quantity      int       `json:"quantity"`
	ItemTotal     float64   `json:"item_total"`
	CreatedAt     time.Time `json:"created_at"`
}

// Summary aggregates a cart: total_items sums quantities, not rows
type Summary struct {
	TotalItems int     `json:"total_items"`
	TotalPrice float64 `json:"total_price"`
}

// CartView is the derived cart representation returned to clients
type CartView struct {
	Items   []CartLine `json:"items"`
	Summary Summary    `json:"summary"`
}

// StockShortfall describes a cart line whose quantity exceeds live stock
type StockShortfall struct {
	ProductID         uint   `json:"product_id"`
	ProductName       string `json:"product_name"`
	RequestedQuantity int    `json:"requested_quantity"`
	AvailableQuantity int    `json:"available_quantity"`
}
