// internal/domain/product/review_service.go
package product

import (
	"fmt"
	"math"
	"time"

	"github.com/your-org/storefront-api/internal/config"
	"gorm.io/gorm"
)

// ReviewService handles product review business logic
type ReviewService struct {
	db     *gorm.DB
	config *config.Config
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB, cfg *config.Config) *ReviewService {
	return &ReviewService{
		db:     db,
		config: cfg,
	}
}

// ErrReviewNotFound is returned when a review lookup misses.
var ErrReviewNotFound = fmt.Errorf("review not found")

// ErrAlreadyReviewed is returned when a user reviews the same product twice.
var ErrAlreadyReviewed = fmt.Errorf("you have already reviewed this product")

// ReviewCreateRequest represents review creation data
type ReviewCreateRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ReviewUpdateRequest represents review update data
type ReviewUpdateRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ReviewWithReviewer joins a review with the reviewer's display name
type ReviewWithReviewer struct {
	ID           uint      `json:"id"`
	ProductID    uint      `json:"product_id"`
	UserID       uint      `json:"user_id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductReviews represents the reviews listing for a product
type ProductReviews struct {
	Reviews       []ReviewWithReviewer `json:"reviews"`
	ReviewCount   int                  `json:"review_count"`
	AverageRating float64              `json:"average_rating"`
}

// CreateReview adds a review for a product; one review per user per product
func (s *ReviewService) CreateReview(userID, productID uint, req *ReviewCreateRequest) (*Review, error) {
	var product Product
	if result := s.db.Where("id = ?", productID).First(&product); result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}

	var existing Review
	result := s.db.Where("product_id = ? AND user_id = ?", productID, userID).First(&existing)
	if result.Error == nil {
		return nil, ErrAlreadyReviewed
	}

	review := Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := s.db.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return &review, nil
}

// GetProductReviews lists a product's reviews newest first, with the
// reviewer's name and the aggregate rating
func (s *ReviewService) GetProductReviews(productID uint) (*ProductReviews, error) {
	var product Product
	if result := s.db.Where("id = ?", productID).First(&product); result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}

	var reviews []ReviewWithReviewer
	err := s.db.Table("reviews").
		Select("reviews.id, reviews.product_id, reviews.user_id, users.name AS reviewer_name, reviews.rating, reviews.comment, reviews.created_at").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.product_id = ?", productID).
		Order("reviews.created_at DESC").
		Scan(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	var average float64
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		average = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}

	return &ProductReviews{
		Reviews:       reviews,
		ReviewCount:   len(reviews),
		AverageRating: average,
	}, nil
}

// UpdateReview updates a review owned by the given user
func (s *ReviewService) UpdateReview(userID, reviewID uint, req *ReviewUpdateRequest) (*Review, error) {
	var review Review
	result := s.db.Where("id = ? AND user_id = ?", reviewID, userID).First(&review)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review: %w", result.Error)
	}

	updates := map[string]interface{}{
		"rating":  req.Rating,
		"comment": req.Comment,
	}

	if err := s.db.Model(&review).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return &review, nil
}

// DeleteReview removes a review owned by the given user
func (s *ReviewService) DeleteReview(userID, reviewID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", reviewID, userID).Delete(&Review{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
