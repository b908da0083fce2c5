// internal/domain/cart/store.go
package cart

import (
	"fmt"

	"gorm.io/gorm"
)

// Store persists cart items. It enforces storage invariants only — one row
// per (user, product) via merge-on-insert — and knows nothing about stock
// policy; that lives in Service.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new cart store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Lines returns the user's cart items joined with live product data,
// newest first.
func (s *Store) Lines(userID uint) ([]CartLine, error) {
	var lines []CartLine
	err := s.db.Table("cart_items").
		Select("cart_items.id, cart_items.product_id, products.name AS product_name, products.price, products.image_url, products.stock_quantity, cart_items.quantity, products.price * cart_items.quantity AS item_total, cart_items.created_at").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ? AND products.deleted_at IS NULL", userID).
		Order("cart_items.created_at DESC").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart items: %w", err)
	}
	return lines, nil
}

// Find looks up the user's cart row for a product. Callers branch on
// gorm.ErrRecordNotFound.
func (s *Store) Find(userID, productID uint) (*CartItem, error) {
	var item CartItem
	result := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item)
	if result.Error != nil {
		return nil, result.Error
	}
	return &item, nil
}

// AddItem adds quantity of a product to the user's cart. An existing row is
// merged (quantity = existing + qty); otherwise a new row is inserted.
func (s *Store) AddItem(userID, productID uint, quantity int) error {
	existing, err := s.Find(userID, productID)
	if err == nil {
		return s.UpdateQuantity(existing.ID, existing.Quantity+quantity)
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to check existing cart item: %w", err)
	}

	item := CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}
	return nil
}

// UpdateQuantity overwrites a cart row's quantity by row id
func (s *Store) UpdateQuantity(itemID uint, quantity int) error {
	result := s.db.Model(&CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Remove deletes a cart row by id
func (s *Store) Remove(itemID uint) error {
	result := s.db.Where("id = ?", itemID).Delete(&CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Clear deletes every cart row for the user. Clearing an empty cart is not
// an error.
func (s *Store) Clear(userID uint) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Total computes SUM(price * quantity) over the join; 0 for an empty cart
func (s *Store) Total(userID uint) (float64, error) {
	var total float64
	err := s.db.Table("cart_items").
		Select("COALESCE(SUM(products.price * cart_items.quantity), 0)").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ? AND products.deleted_at IS NULL", userID).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute cart total: %w", err)
	}
	return total, nil
}

// StockShortfalls returns the cart lines whose quantity exceeds the
// product's live stock. An empty result means every line is satisfiable.
func (s *Store) StockShortfalls(userID uint) ([]StockShortfall, error) {
	var shortfalls []StockShortfall
	err := s.db.Table("cart_items").
		Select("cart_items.product_id, products.name AS product_name, cart_items.quantity AS requested_quantity, products.stock_quantity AS available_quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ? AND cart_items.quantity > products.stock_quantity AND products.deleted_at IS NULL", userID).
		Scan(&shortfalls).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check stock availability: %w", err)
	}
	return shortfalls, nil
}
