// internal/domain/farm/entity.go
package farm

import (
	"time"

	"github.com/your-org/farmmarket-backend/internal/domain/user"
)

// Farm lifecycle status values. Farms are soft-deleted by flipping the
// status to "off" so historical orders keep a resolvable farm reference.
const (
	StatusOn  = "on"
	StatusOff = "off"
)

// Farm represents a producer selling on the marketplace
type Farm struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null;size:255" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Address     string     `gorm:"size:255" json:"address"`
	City        string     `gorm:"size:100" json:"city"`
	ZipCode     string     `gorm:"size:20" json:"zipCode"`
	Region      string     `gorm:"size:100" json:"region"`
	Phone       string     `gorm:"size:20" json:"phone"`
	Email       string     `gorm:"size:255" json:"email"`
	Website     string     `gorm:"size:255" json:"website"`
	Status      string     `gorm:"size:10;default:'on'" json:"status"`
	Types       []FarmType `gorm:"many2many:farm_farm_types;" json:"types,omitempty"`
	Members     []FarmUser `gorm:"foreignKey:FarmID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"members,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FarmType categorizes a farm (dairy, market garden, orchard...)
type FarmType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;uniqueIndex;size:100" json:"name"`
}

// FarmUser links a user to a farm with a membership role
type FarmUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FarmID    uint      `gorm:"not null;index" json:"farm_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Role      string    `gorm:"not null;size:20;default:'member'" json:"role"` // owner, member
	User      user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Farm) TableName() string     { return "farms" }
func (FarmType) TableName() string { return "farm_types" }
func (FarmUser) TableName() string { return "farm_users" }

// SoftDelete marks the farm as inactive without removing the row
func (f *Farm) SoftDelete() {
	f.Status = StatusOff
}

// IsDeleted reports whether the farm has been soft-deleted
func (f *Farm) IsDeleted() bool {
	return f.Status == StatusOff
}
