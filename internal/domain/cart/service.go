// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/your-org/farmmarket-backend/internal/config"
	"github.com/your-org/farmmarket-backend/internal/domain/product"
	"gorm.io/gorm"
)

var (
	// ErrItemNotFound is returned when a cart line does not exist
	ErrItemNotFound = errors.New("cart item not found")
	// ErrProductNotFound is returned when the referenced product does not exist
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidQuantity is returned when a quantity is not strictly positive
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrInsufficientStock is returned when a quantity exceeds available stock
	ErrInsufficientStock = errors.New("quantity exceeds available stock")
	// ErrAccessDenied is returned when a line belongs to another user's cart
	ErrAccessDenied = errors.New("cart item does not belong to user")
)

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AddItemRequest represents add-to-cart data
type AddItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// UpdateItemRequest represents a cart line quantity change
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetOrCreate returns the user's cart, creating an empty one on first access
func (s *Service) GetOrCreate(userID uint) (*Cart, error) {
	var c Cart
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.id ASC")
	}).Preload("Items.Product").Preload("Items.Product.Farm").
		Where("user_id = ?", userID).First(&c).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = Cart{UserID: userID}
		if err := s.db.Create(&c).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return &c, nil
}

// AddItem adds a product to the user's cart. When a line for the product
// already exists the incoming quantity is subtracted from it, mirroring the
// historical behavior clients rely on. A subtraction that would go below
// zero is rejected; a line landing exactly on zero is kept.
func (s *Service) AddItem(userID uint, req *AddItemRequest) (*Cart, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var p product.Product
	if err := s.db.First(&p, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	if req.Quantity > p.Quantity {
		return nil, ErrInsufficientStock
	}

	c, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	var existing Item
	err = s.db.Where("cart_id = ? AND product_id = ?", c.ID, req.ProductID).First(&existing).Error
	switch {
	case err == nil:
		if existing.Quantity-req.Quantity < 0 {
			return nil, ErrInsufficientStock
		}
		existing.Quantity -= req.Quantity
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := Item{
			CartID:    c.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	}

	return s.GetOrCreate(userID)
}

// UpdateItem changes the quantity of a cart line owned by the user
func (s *Service) UpdateItem(userID, itemID uint, req *UpdateItemRequest) (*Cart, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.getOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	var p product.Product
	if err := s.db.First(&p, item.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	if req.Quantity > p.Quantity {
		return nil, ErrInsufficientStock
	}

	if err := s.db.Model(item).Update("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.GetOrCreate(userID)
}

// RemoveItem deletes a cart line owned by the user
func (s *Service) RemoveItem(userID, itemID uint) (*Cart, error) {
	item, err := s.getOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(item).Error; err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return s.GetOrCreate(userID)
}

// Clear removes all lines from the user's cart. The cart row itself stays.
func (s *Service) Clear(userID uint) error {
	c, err := s.GetOrCreate(userID)
	if err != nil {
		return err
	}

	if err := s.db.Where("cart_id = ?", c.ID).Delete(&Item{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// getOwnedItem loads a cart line and checks it belongs to the user's cart.
// Unknown lines yield ErrItemNotFound; another user's lines yield
// ErrAccessDenied so handlers can distinguish 404 from 403.
func (s *Service) getOwnedItem(userID, itemID uint) (*Item, error) {
	var item Item
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cart item: %w", err)
	}

	var c Cart
	if err := s.db.First(&c, item.CartID).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if c.UserID != userID {
		return nil, ErrAccessDenied
	}
	return &item, nil
}
