// internal/domain/product/category_service.go
package product

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrCategoryNotFound is returned when a category does not exist
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryCycle is returned when a parent assignment would create a cycle
	ErrCategoryCycle = errors.New("category cannot be its own ancestor")
)

// CategoryService handles product category tree operations
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// CreateCategoryRequest represents category creation data
type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	ParentID  *uint  `json:"parentId"`
	Thumbnail string `json:"thumbnail"`
}

// UpdateCategoryRequest represents partial category update data
type UpdateCategoryRequest struct {
	Name      *string `json:"name"`
	Thumbnail *string `json:"thumbnail"`
}

// List returns all categories
func (s *CategoryService) List() ([]Category, error) {
	var categories []Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListRoots returns categories without a parent, children preloaded
func (s *CategoryService) ListRoots() ([]Category, error) {
	var categories []Category
	if err := s.db.Preload("Children").Where("parent_id IS NULL").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list root categories: %w", err)
	}
	return categories, nil
}

// Get retrieves a category with its parent and children
func (s *CategoryService) Get(id uint) (*Category, error) {
	var c Category
	err := s.db.Preload("Parent").Preload("Children").First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}
	return &c, nil
}

// Children returns the direct children of a category
func (s *CategoryService) Children(id uint) ([]Category, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	var children []Category
	if err := s.db.Where("parent_id = ?", id).Find(&children).Error; err != nil {
		return nil, fmt.Errorf("failed to list category children: %w", err)
	}
	return children, nil
}

// Products returns the products attached to a category
func (s *CategoryService) Products(id uint) ([]Product, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var products []Product
	err = s.db.Preload("Farm").Preload("Unity").
		Joins("JOIN product_categories_products pcp ON pcp.product_id = products.id").
		Where("pcp.category_id = ?", c.ID).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list category products: %w", err)
	}
	return products, nil
}

// Create creates a new category, optionally under a parent
func (s *CategoryService) Create(req *CreateCategoryRequest) (*Category, error) {
	if req.ParentID != nil {
		if _, err := s.Get(*req.ParentID); err != nil {
			return nil, err
		}
	}

	c := Category{
		Name:      req.Name,
		ParentID:  req.ParentID,
		Thumbnail: req.Thumbnail,
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return s.Get(c.ID)
}

// Update applies a partial update to a category
func (s *CategoryService) Update(id uint, req *UpdateCategoryRequest) (*Category, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Thumbnail != nil {
		updates["thumbnail"] = *req.Thumbnail
	}

	if len(updates) > 0 {
		if err := s.db.Model(c).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update category: %w", err)
		}
	}

	return s.Get(id)
}

// SetParent reparents a category. The new parent must exist and must not be
// the category itself or one of its descendants.
func (s *CategoryService) SetParent(id, parentID uint) (*Category, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	parent, err := s.Get(parentID)
	if err != nil {
		return nil, err
	}

	// Walk up from the candidate parent; hitting the category means a cycle.
	for node := parent; node != nil; {
		if node.ID == c.ID {
			return nil, ErrCategoryCycle
		}
		if node.ParentID == nil {
			break
		}
		node, err = s.Get(*node.ParentID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(&Category{}).Where("id = ?", c.ID).Update("parent_id", parentID).Error; err != nil {
		return nil, fmt.Errorf("failed to set category parent: %w", err)
	}
	return s.Get(id)
}

// RemoveParent detaches a category from its parent, making it a root
func (s *CategoryService) RemoveParent(id uint) (*Category, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	// Update through the table, not the loaded instance: gorm would re-save
	// the preloaded Parent association and write the old FK straight back.
	if err := s.db.Model(&Category{}).Where("id = ?", c.ID).Update("parent_id", nil).Error; err != nil {
		return nil, fmt.Errorf("failed to remove category parent: %w", err)
	}
	return s.Get(id)
}

// Delete removes a category; its children are detached, not deleted
func (s *CategoryService) Delete(id uint) error {
	c, err := s.Get(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Category{}).Where("parent_id = ?", c.ID).Update("parent_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach category children: %w", err)
		}
		if err := tx.Delete(c).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}
