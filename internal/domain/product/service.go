// internal/domain/product/service.go
package product

import (
	"fmt"
	"math"
	"strings"

	"github.com/your-org/storefront-api/internal/config"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ErrProductNotFound is returned when a product lookup misses.
var ErrProductNotFound = fmt.Errorf("product not found")

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Search     string `form:"search"`
	CategoryID uint   `form:"category_id"`
	Page       int    `form:"page,default=1"`
	PerPage    int    `form:"per_page,default=10"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gte=0"`
	ImageURL      string  `json:"image_url"`
	StockQuantity int     `json:"stock_quantity" binding:"gte=0"`
	CategoryID    *uint   `json:"category_id"`
}

// ProductUpdateRequest represents product update data; nil fields keep their value
type ProductUpdateRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price" binding:"omitempty,gte=0"`
	ImageURL      *string  `json:"image_url"`
	StockQuantity *int     `json:"stock_quantity" binding:"omitempty,gte=0"`
	CategoryID    *uint    `json:"category_id"`
}

// Paging represents pagination information
type Paging struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalRows   int64 `json:"total_rows"`
	TotalPages  int   `json:"total_pages"`
}

// ProductListResponse represents product listing with paging
type ProductListResponse struct {
	Records []Product `json:"records"`
	Paging  Paging    `json:"paging"`
}

// GetProducts retrieves products with optional search and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PerPage <= 0 || req.PerPage > 100 {
		req.PerPage = 10
	}

	var products []Product
	var total int64

	query := s.db.Model(&Product{}).Preload("Category")

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (req.Page - 1) * req.PerPage
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.PerPage).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return &ProductListResponse{
		Records: products,
		Paging: Paging{
			CurrentPage: req.Page,
			PerPage:     req.PerPage,
			TotalRows:   total,
			TotalPages:  int(math.Ceil(float64(total) / float64(req.PerPage))),
		},
	}, nil
}

// GetProduct retrieves a single product by ID. This is the stock-authority
// lookup the cart reconciliation relies on.
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.db.Preload("Category").Where("id = ?", id).First(&product)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	if req.CategoryID != nil {
		var category Category
		if result := s.db.Where("id = ?", *req.CategoryID).First(&category); result.Error != nil {
			return nil, fmt.Errorf("category not found")
		}
	}

	product := Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

// UpdateProduct updates an existing product; absent fields keep their value
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	var product Product
	result := s.db.Where("id = ?", id).First(&product)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.db.Preload("Category").First(&product, product.ID)

	return &product, nil
}

// DeleteProduct soft deletes a product
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// UpdateStock overwrites a product's stock quantity
func (s *Service) UpdateStock(productID uint, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("stock quantity cannot be negative")
	}

	result := s.db.Model(&Product{}).
		Where("id = ?", productID).
		Update("stock_quantity", quantity)

	if result.Error != nil {
		return fmt.Errorf("failed to update stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
