// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/product"
	"gorm.io/gorm"
)

// Service reconciles cart mutations against live product stock. Storage
// invariants (merge-on-add, row shape) live in Store; this layer owns the
// stock policy and ownership checks.
//
// The read-check-then-write sequence is intentionally not transactional;
// concurrent adds for the same user can race past the stock check. Stock is
// not reserved at cart time, so the window is accepted.
type Service struct {
	db     *gorm.DB
	store  *Store
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		store:  NewStore(db),
		config: cfg,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents update cart item request
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// StockCheckResult reports whether every cart line is satisfiable
type StockCheckResult struct {
	Valid      bool             `json:"valid"`
	Shortfalls []StockShortfall `json:"shortfalls"`
}

// GetCart returns the user's cart view with live product data and totals
func (s *Service) GetCart(userID uint) (*CartView, error) {
	lines, err := s.store.Lines(userID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []CartLine{}
	}

	var summary Summary
	for _, line := range lines {
		summary.TotalItems += line.Quantity
		summary.TotalPrice += line.ItemTotal
	}

	return &CartView{
		Items:   lines,
		Summary: summary,
	}, nil
}

// AddToCart adds a product to the user's cart with merge semantics. The
// stock check covers the post-merge quantity: an existing line's quantity
// plus the requested amount must not exceed live stock.
func (s *Service) AddToCart(userID uint, req *AddToCartRequest) (*CartView, error) {
	var prod product.Product
	result := s.db.Where("id = ?", req.ProductID).First(&prod)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	requested := req.Quantity
	existing, err := s.store.Find(userID, req.ProductID)
	if err == nil {
		requested += existing.Quantity
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing cart item: %w", err)
	}

	if requested > prod.StockQuantity {
		return nil, &InsufficientStockError{
			ProductID: req.ProductID,
			Requested: requested,
			Available: prod.StockQuantity,
		}
	}

	if err := s.store.AddItem(userID, req.ProductID, req.Quantity); err != nil {
		return nil, err
	}

	return s.GetCart(userID)
}

// UpdateItem sets a cart line's quantity. The line must belong to the user,
// and the new quantity must not exceed the product's live stock.
func (s *Service) UpdateItem(userID, itemID uint, req *UpdateItemRequest) (*CartView, error) {
	item, prod, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Quantity > prod.StockQuantity {
		return nil, &InsufficientStockError{
			ProductID: item.ProductID,
			Requested: req.Quantity,
			Available: prod.StockQuantity,
		}
	}

	if err := s.store.UpdateQuantity(item.ID, req.Quantity); err != nil {
		return nil, err
	}

	return s.GetCart(userID)
}

// RemoveItem deletes a cart line owned by the user
func (s *Service) RemoveItem(userID, itemID uint) error {
	var item CartItem
	result := s.db.Where("id = ? AND user_id = ?", itemID, userID).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to find cart item: %w", result.Error)
	}
	return s.store.Remove(item.ID)
}

// ClearCart wipes the user's cart; always succeeds, even when already empty
func (s *Service) ClearCart(userID uint) error {
	return s.store.Clear(userID)
}

// GetTotal returns the cart total as SUM(price * quantity)
func (s *Service) GetTotal(userID uint) (float64, error) {
	return s.store.Total(userID)
}

// CheckStock reports every cart line whose quantity exceeds live stock
func (s *Service) CheckStock(userID uint) (*StockCheckResult, error) {
	shortfalls, err := s.store.StockShortfalls(userID)
	if err != nil {
		return nil, err
	}
	if shortfalls == nil {
		shortfalls = []StockShortfall{}
	}
	return &StockCheckResult{
		Valid:      len(shortfalls) == 0,
		Shortfalls: shortfalls,
	}, nil
}

// findOwnedItem loads a cart row scoped to the user together with its product
func (s *Service) findOwnedItem(userID, itemID uint) (*CartItem, *product.Product, error) {
	var item CartItem
	result := s.db.Where("id = ? AND user_id = ?", itemID, userID).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil, ErrItemNotFound
		}
		return nil, nil, fmt.Errorf("failed to find cart item: %w", result.Error)
	}

	var prod product.Product
	if err := s.db.Where("id = ?", item.ProductID).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProductNotFound
		}
		return nil, nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	return &item, &prod, nil
}
