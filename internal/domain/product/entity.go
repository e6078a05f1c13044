// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/farmmarket-backend/internal/domain/farm"
)

// Product represents an item sold by a farm. FarmID is nullable: a product
// can exist before being attached to a farm, and checkout skips such lines.
type Product struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	Name              string           `gorm:"not null;size:255" json:"name"`
	Quantity          int              `gorm:"not null;default:0" json:"quantity"` // available stock
	FarmID            *uint            `gorm:"index" json:"farmId,omitempty"`
	Farm              *farm.Farm       `gorm:"foreignKey:FarmID" json:"farm,omitempty"`
	Price             decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	UnitPrice         decimal.Decimal  `gorm:"type:decimal(10,2)" json:"unitPrice"`
	OldPrice          *decimal.Decimal `gorm:"type:decimal(10,2)" json:"oldPrice,omitempty"`
	UnityID           *uint            `gorm:"index" json:"unityId,omitempty"`
	Unity             *Unity           `gorm:"foreignKey:UnityID" json:"unity,omitempty"`
	Featured          bool             `gorm:"default:false" json:"featured"`
	Origin            string           `gorm:"size:255" json:"origin,omitempty"`
	ShortDescription  string           `gorm:"type:text" json:"shortDescription,omitempty"`
	LongDescription   string           `gorm:"type:text" json:"longDescription,omitempty"`
	Conservation      string           `gorm:"size:255" json:"conservation,omitempty"`
	PreparationAdvice string           `gorm:"size:255" json:"preparationAdvice,omitempty"`
	Status            string           `gorm:"size:10;default:'on'" json:"status"`
	Categories        []Category       `gorm:"many2many:product_categories_products;" json:"categories,omitempty"`
	Tags              []Tag            `gorm:"many2many:product_tags;" json:"tags,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// Category represents a node in the product category tree
type Category struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"not null;size:255" json:"name"`
	ParentID  *uint      `gorm:"index" json:"parentId,omitempty"`
	Parent    *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children  []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Thumbnail string     `gorm:"size:500" json:"thumbnail,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Unity is the measurement unit a product is priced against (kg, litre...)
type Unity struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;uniqueIndex;size:50" json:"name"`
}

// Tag is a free-form product label
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;uniqueIndex;size:100" json:"name"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Category) TableName() string { return "product_categories" }
func (Unity) TableName() string    { return "unities" }
func (Tag) TableName() string      { return "tags" }

// IsInStock reports whether any stock remains
func (p *Product) IsInStock() bool {
	return p.Quantity > 0
}

// HasFarm reports whether the product is attached to a farm
func (p *Product) HasFarm() bool {
	return p.FarmID != nil
}

// IsRoot reports whether the category has no parent
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
