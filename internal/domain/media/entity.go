// internal/domain/media/entity.go
package media

import (
	"time"
)

// Media owner entity types
const (
	EntityProduct = "product"
	EntityFarm    = "farm"
	EntityUser    = "user"
)

// Media represents an uploaded file attached to a product, farm or user
type Media struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OriginalName string    `gorm:"not null;size:255" json:"originalName"`
	Filename     string    `gorm:"not null;size:255;uniqueIndex" json:"filename"`
	Path         string    `gorm:"not null;size:500" json:"-"`
	URL          string    `gorm:"not null;size:500" json:"url"`
	MimeType     string    `gorm:"not null;size:100" json:"mimeType"`
	Size         int64     `gorm:"not null" json:"size"`
	EntityType   string    `gorm:"size:20;index:idx_media_entity" json:"entityType,omitempty"`
	EntityID     uint      `gorm:"index:idx_media_entity" json:"entityId,omitempty"`
	UploadedBy   uint      `gorm:"not null;index" json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName override
func (Media) TableName() string { return "media" }

// IsImage checks if the file is an image
func (m *Media) IsImage() bool {
	switch m.MimeType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
