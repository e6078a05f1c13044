// internal/domain/farm/service.go
package farm

import (
	"errors"
	"fmt"

	"github.com/your-org/farmmarket-backend/internal/config"
	"github.com/your-org/farmmarket-backend/internal/domain/user"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a farm does not exist
	ErrNotFound = errors.New("farm not found")
	// ErrUserNotFound is returned when adding an unknown user as member
	ErrUserNotFound = errors.New("user not found")
)

// Service handles farm business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new farm service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateFarmRequest represents farm creation data
type CreateFarmRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	ZipCode     string `json:"zipCode"`
	Region      string `json:"region"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	Types       []uint `json:"types"`
}

// UpdateFarmRequest represents partial farm update data
type UpdateFarmRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	ZipCode     *string `json:"zipCode"`
	Region      *string `json:"region"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Website     *string `json:"website"`
	Types       []uint  `json:"types"`
}

// AddMemberRequest represents farm membership data
type AddMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

// List returns all farms with their types
func (s *Service) List() ([]Farm, error) {
	var farms []Farm
	if err := s.db.Preload("Types").Find(&farms).Error; err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	return farms, nil
}

// Get retrieves a farm by ID with types and members
func (s *Service) Get(id uint) (*Farm, error) {
	var f Farm
	err := s.db.Preload("Types").Preload("Members").Preload("Members.User").First(&f, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve farm: %w", err)
	}
	return &f, nil
}

// Create creates a farm and records the creator as its owner
func (s *Service) Create(ownerID uint, req *CreateFarmRequest) (*Farm, error) {
	f := Farm{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		ZipCode:     req.ZipCode,
		Region:      req.Region,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Status:      StatusOn,
	}

	types, err := s.resolveTypes(req.Types)
	if err != nil {
		return nil, err
	}
	f.Types = types

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&f).Error; err != nil {
			return fmt.Errorf("failed to create farm: %w", err)
		}

		owner := FarmUser{
			FarmID: f.ID,
			UserID: ownerID,
			Role:   "owner",
		}
		if err := tx.Create(&owner).Error; err != nil {
			return fmt.Errorf("failed to record farm owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(f.ID)
}

// Update applies a partial update to a farm
func (s *Service) Update(id uint, req *UpdateFarmRequest) (*Farm, error) {
	f, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.ZipCode != nil {
		updates["zip_code"] = *req.ZipCode
	}
	if req.Region != nil {
		updates["region"] = *req.Region
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}

	if len(updates) > 0 {
		if err := s.db.Model(f).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update farm: %w", err)
		}
	}

	if req.Types != nil {
		types, err := s.resolveTypes(req.Types)
		if err != nil {
			return nil, err
		}
		if err := s.db.Model(f).Association("Types").Replace(types); err != nil {
			return nil, fmt.Errorf("failed to update farm types: %w", err)
		}
	}

	return s.Get(id)
}

// Delete soft-deletes a farm by default; hard removes the row when requested
func (s *Service) Delete(id uint, hard bool) error {
	f, err := s.Get(id)
	if err != nil {
		return err
	}

	if hard {
		return s.db.Delete(f).Error
	}

	f.SoftDelete()
	return s.db.Model(f).Update("status", f.Status).Error
}

// AddMember adds a user to a farm with the given role
func (s *Service) AddMember(farmID uint, req *AddMemberRequest) (*FarmUser, error) {
	if _, err := s.Get(farmID); err != nil {
		return nil, err
	}

	var u user.User
	if err := s.db.First(&u, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	role := req.Role
	if role == "" {
		role = "member"
	}

	member := FarmUser{
		FarmID: farmID,
		UserID: req.UserID,
		Role:   role,
	}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, fmt.Errorf("failed to add farm member: %w", err)
	}

	return &member, nil
}

func (s *Service) resolveTypes(ids []uint) ([]FarmType, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var types []FarmType
	if err := s.db.Where("id IN ?", ids).Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve farm types: %w", err)
	}
	return types, nil
}
