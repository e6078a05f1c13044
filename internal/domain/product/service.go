// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/farmmarket-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a product does not exist
	ErrNotFound = errors.New("product not found")
	// ErrFarmNotFound is returned when attaching a product to an unknown farm
	ErrFarmNotFound = errors.New("farm not found")
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

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Name              string           `json:"name" binding:"required"`
	Quantity          int              `json:"quantity"`
	FarmID            *uint            `json:"farmId"`
	Price             decimal.Decimal  `json:"price" binding:"required"`
	UnitPrice         decimal.Decimal  `json:"unitPrice"`
	OldPrice          *decimal.Decimal `json:"oldPrice"`
	UnityID           *uint            `json:"unityId"`
	Featured          bool             `json:"featured"`
	Origin            string           `json:"origin"`
	ShortDescription  string           `json:"shortDescription"`
	LongDescription   string           `json:"longDescription"`
	Conservation      string           `json:"conservation"`
	PreparationAdvice string           `json:"preparationAdvice"`
	Categories        []uint           `json:"categories"`
	Tags              []string         `json:"tags"`
}

// UpdateProductRequest represents partial product update data
type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	Quantity          *int             `json:"quantity"`
	FarmID            *uint            `json:"farmId"`
	Price             *decimal.Decimal `json:"price"`
	UnitPrice         *decimal.Decimal `json:"unitPrice"`
	OldPrice          *decimal.Decimal `json:"oldPrice"`
	UnityID           *uint            `json:"unityId"`
	Featured          *bool            `json:"featured"`
	Origin            *string          `json:"origin"`
	ShortDescription  *string          `json:"shortDescription"`
	LongDescription   *string          `json:"longDescription"`
	Conservation      *string          `json:"conservation"`
	PreparationAdvice *string          `json:"preparationAdvice"`
	Status            *string          `json:"status"`
	Categories        []uint           `json:"categories"`
	Tags              []string         `json:"tags"`
}

// ListFilters narrows product listings
type ListFilters struct {
	FarmID     *uint
	CategoryID *uint
	Featured   *bool
	Search     string
}

// List returns products matching the given filters
func (s *Service) List(filters *ListFilters) ([]Product, error) {
	query := s.db.Preload("Farm").Preload("Unity").Preload("Categories").Preload("Tags")

	if filters != nil {
		if filters.FarmID != nil {
			query = query.Where("farm_id = ?", *filters.FarmID)
		}
		if filters.Featured != nil {
			query = query.Where("featured = ?", *filters.Featured)
		}
		if filters.Search != "" {
			query = query.Where("name LIKE ?", "%"+filters.Search+"%")
		}
		if filters.CategoryID != nil {
			query = query.Joins("JOIN product_categories_products pcp ON pcp.product_id = products.id").
				Where("pcp.category_id = ?", *filters.CategoryID)
		}
	}

	var products []Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get retrieves a product by ID with its associations
func (s *Service) Get(id uint) (*Product, error) {
	var p Product
	err := s.db.Preload("Farm").Preload("Unity").Preload("Categories").Preload("Tags").First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &p, nil
}

// Create creates a new product
func (s *Service) Create(req *CreateProductRequest) (*Product, error) {
	if req.FarmID != nil {
		if err := s.checkFarmExists(*req.FarmID); err != nil {
			return nil, err
		}
	}

	p := Product{
		Name:              req.Name,
		Quantity:          req.Quantity,
		FarmID:            req.FarmID,
		Price:             req.Price,
		UnitPrice:         req.UnitPrice,
		OldPrice:          req.OldPrice,
		UnityID:           req.UnityID,
		Featured:          req.Featured,
		Origin:            req.Origin,
		ShortDescription:  req.ShortDescription,
		LongDescription:   req.LongDescription,
		Conservation:      req.Conservation,
		PreparationAdvice: req.PreparationAdvice,
		Status:            "on",
	}

	if req.UnitPrice.IsZero() {
		p.UnitPrice = req.Price
	}

	categories, err := s.resolveCategories(req.Categories)
	if err != nil {
		return nil, err
	}
	p.Categories = categories

	tags, err := s.resolveTags(req.Tags)
	if err != nil {
		return nil, err
	}
	p.Tags = tags

	if err := s.db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return s.Get(p.ID)
}

// Update applies a partial update to a product
func (s *Service) Update(id uint, req *UpdateProductRequest) (*Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.FarmID != nil {
		if err := s.checkFarmExists(*req.FarmID); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.FarmID != nil {
		updates["farm_id"] = *req.FarmID
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.UnitPrice != nil {
		updates["unit_price"] = *req.UnitPrice
	}
	if req.OldPrice != nil {
		updates["old_price"] = *req.OldPrice
	}
	if req.UnityID != nil {
		updates["unity_id"] = *req.UnityID
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.Origin != nil {
		updates["origin"] = *req.Origin
	}
	if req.ShortDescription != nil {
		updates["short_description"] = *req.ShortDescription
	}
	if req.LongDescription != nil {
		updates["long_description"] = *req.LongDescription
	}
	if req.Conservation != nil {
		updates["conservation"] = *req.Conservation
	}
	if req.PreparationAdvice != nil {
		updates["preparation_advice"] = *req.PreparationAdvice
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.db.Model(p).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	if req.Categories != nil {
		categories, err := s.resolveCategories(req.Categories)
		if err != nil {
			return nil, err
		}
		if err := s.db.Model(p).Association("Categories").Replace(categories); err != nil {
			return nil, fmt.Errorf("failed to update product categories: %w", err)
		}
	}

	if req.Tags != nil {
		tags, err := s.resolveTags(req.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.db.Model(p).Association("Tags").Replace(tags); err != nil {
			return nil, fmt.Errorf("failed to update product tags: %w", err)
		}
	}

	return s.Get(id)
}

// Delete removes a product
func (s *Service) Delete(id uint) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.db.Select("Categories", "Tags").Delete(p).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *Service) checkFarmExists(farmID uint) error {
	var count int64
	if err := s.db.Table("farms").Where("id = ?", farmID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check farm: %w", err)
	}
	if count == 0 {
		return ErrFarmNotFound
	}
	return nil
}

func (s *Service) resolveCategories(ids []uint) ([]Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var categories []Category
	if err := s.db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}
	return categories, nil
}

// resolveTags looks up tags by name, creating the ones that do not exist yet
func (s *Service) resolveTags(names []string) ([]Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	tags := make([]Tag, 0, len(names))
	for _, name := range names {
		var t Tag
		err := s.db.Where("name = ?", name).First(&t).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			t = Tag{Name: name}
			if err := s.db.Create(&t).Error; err != nil {
				return nil, fmt.Errorf("failed to create tag: %w", err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to resolve tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, nil
}
