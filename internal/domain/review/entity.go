// internal/domain/review/entity.go
package review

import (
	"time"

	"github.com/your-org/farmmarket-backend/internal/domain/user"
)

// Review represents a user's rating and comment on a product
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index:idx_review_user_product,unique" json:"productId"`
	UserID    uint      `gorm:"not null;index:idx_review_user_product,unique" json:"userId"`
	User      user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating    int       `gorm:"not null" json:"rating"` // 1..5
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName override
func (Review) TableName() string { return "reviews" }
