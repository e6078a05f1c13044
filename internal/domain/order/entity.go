// internal/domain/order/entity.go
package order

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/farmmarket-backend/internal/domain/farm"
	"github.com/your-org/farmmarket-backend/internal/domain/product"
)

// Order status values
const (
	StatusPending   = "pending"
	StatusValidated = "validated"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Order represents a confirmed purchase from a single farm. Checkout emits
// one order per farm present in the cart; the farm reference never changes
// after creation.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderNumber string          `gorm:"not null;uniqueIndex;size:32" json:"orderNumber"`
	UserID      uint            `gorm:"not null;index" json:"userId"`
	FarmID      uint            `gorm:"not null;index" json:"farmId"`
	Farm        *farm.Farm      `gorm:"foreignKey:FarmID" json:"-"`
	Status      string          `gorm:"not null;size:20;default:'pending'" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	Items       []Item          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"orderItems"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Item represents one line of an order. UnitPrice is captured from the
// product at order-creation time and never recomputed afterward.
type Item struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	OrderID   uint             `gorm:"not null;index" json:"orderId"`
	ProductID uint             `gorm:"not null;index" json:"productId"`
	Product   *product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int              `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	CreatedAt time.Time        `json:"createdAt"`
}

// TableName overrides
func (Order) TableName() string { return "orders" }
func (Item) TableName() string  { return "order_items" }

// TotalPrice returns quantity times the frozen unit price
func (i *Item) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// MarshalJSON flattens the preloaded farm into the farmName field clients
// expect instead of a nested object
func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	farmName := ""
	if o.Farm != nil {
		farmName = o.Farm.Name
	}
	return json.Marshal(struct {
		alias
		FarmName string `json:"farmName"`
	}{alias(o), farmName})
}

// MarshalJSON includes the computed line total in serialized items
func (i Item) MarshalJSON() ([]byte, error) {
	type alias Item
	return json.Marshal(struct {
		alias
		TotalPrice decimal.Decimal `json:"totalPrice"`
	}{alias(i), i.TotalPrice()})
}

// CanTransitionTo reports whether a status change is allowed
func (o *Order) CanTransitionTo(status string) bool {
	switch o.Status {
	case StatusPending:
		return status == StatusValidated || status == StatusCancelled
	case StatusValidated:
		return status == StatusDelivered || status == StatusCancelled
	default:
		return false
	}
}
