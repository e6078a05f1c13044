// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/farmmarket-backend/internal/domain/product"
)

// Cart represents a user's shopping cart. Each user has at most one cart,
// created lazily on first access. The cart row survives checkout; only its
// lines are removed.
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"userId"`
	Items     []Item    `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Item represents a line in a cart: one product plus a quantity. A cart
// holds at most one line per distinct product.
type Item struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	CartID    uint             `gorm:"not null;index:idx_cart_product,unique" json:"cartId"`
	ProductID uint             `gorm:"not null;index:idx_cart_product,unique" json:"productId"`
	Product   *product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int              `gorm:"not null" json:"quantity"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// TableName overrides
func (Cart) TableName() string { return "carts" }
func (Item) TableName() string { return "cart_items" }

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total quantity across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// TotalAmount sums quantity times current product price over loaded lines.
// Informational only: checkout computes its own totals per farm.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		if item.Product == nil {
			continue
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
