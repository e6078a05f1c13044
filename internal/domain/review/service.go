// internal/domain/review/service.go
package review

import (
	"errors"
	"fmt"

	"github.com/your-org/farmmarket-backend/internal/config"
	"github.com/your-org/farmmarket-backend/internal/domain/product"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a review does not exist
	ErrNotFound = errors.New("review not found")
	// ErrProductNotFound is returned when reviewing an unknown product
	ErrProductNotFound = errors.New("product not found")
	// ErrAccessDenied is returned when a review belongs to another user
	ErrAccessDenied = errors.New("review does not belong to user")
	// ErrAlreadyReviewed is returned when a user reviews a product twice
	ErrAlreadyReviewed = errors.New("product already reviewed by user")
)

// Service handles product review business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new review service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateReviewRequest represents review creation data
type CreateReviewRequest struct {
	ProductID uint   `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// UpdateReviewRequest represents partial review update data
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

// ListFilters narrows review listings
type ListFilters struct {
	ProductID *uint
	UserID    *uint
}

// List returns reviews matching the filters, newest first
func (s *Service) List(filters ListFilters) ([]Review, error) {
	query := s.db.Preload("User")
	if filters.ProductID != nil {
		query = query.Where("product_id = ?", *filters.ProductID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}

	var reviews []Review
	if err := query.Order("created_at DESC, id DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// Get returns a single review by ID
func (s *Service) Get(id uint) (*Review, error) {
	return s.get(id)
}

// ListByProduct returns a product's reviews, newest first
func (s *Service) ListByProduct(productID uint) ([]Review, error) {
	var reviews []Review
	err := s.db.Preload("User").Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// Create records a review; each user may review a product once
func (s *Service) Create(userID uint, req *CreateReviewRequest) (*Review, error) {
	var p product.Product
	if err := s.db.First(&p, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	var count int64
	err := s.db.Model(&Review{}).
		Where("product_id = ? AND user_id = ?", req.ProductID, userID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyReviewed
	}

	r := Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.db.Create(&r).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return s.get(r.ID)
}

// Update applies a partial update to a review owned by the user
func (s *Service) Update(userID, reviewID uint, req *UpdateReviewRequest) (*Review, error) {
	r, err := s.getOwned(userID, reviewID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}

	if len(updates) > 0 {
		if err := s.db.Model(r).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update review: %w", err)
		}
	}

	return s.get(reviewID)
}

// Delete removes a review owned by the user; admins may delete any review
func (s *Service) Delete(userID, reviewID uint, isAdmin bool) error {
	r, err := s.get(reviewID)
	if err != nil {
		return err
	}

	if r.UserID != userID && !isAdmin {
		return ErrAccessDenied
	}

	if err := s.db.Delete(r).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

func (s *Service) get(id uint) (*Review, error) {
	var r Review
	if err := s.db.Preload("User").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve review: %w", err)
	}
	return &r, nil
}

func (s *Service) getOwned(userID, reviewID uint) (*Review, error) {
	r, err := s.get(reviewID)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, ErrAccessDenied
	}
	return r, nil
}
