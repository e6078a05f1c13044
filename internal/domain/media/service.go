// internal/domain/media/service.go
package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/your-org/farmmarket-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a media record does not exist
	ErrNotFound = errors.New("media not found")
	// ErrAccessDenied is returned when media belongs to another user
	ErrAccessDenied = errors.New("media does not belong to user")
	// ErrFileTooLarge is returned when an upload exceeds the size limit
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUnsupportedType is returned for a disallowed file extension
	ErrUnsupportedType = errors.New("file type not allowed")
	// ErrUnknownEntity is returned for an unrecognized attachment target
	ErrUnknownEntity = errors.New("unknown entity type")
)

// Service handles media upload business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new media service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// UploadRequest represents a file upload
type UploadRequest struct {
	File       multipart.File        `json:"-"`
	Header     *multipart.FileHeader `json:"-"`
	EntityType string                `json:"entityType"`
	EntityID   uint                  `json:"entityId"`
	UploadedBy uint                  `json:"-"`
}

// Upload validates and stores a file on local disk, then records it
func (s *Service) Upload(req *UploadRequest) (*Media, error) {
	if req.Header.Size > s.config.Upload.MaxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(req.Header.Filename))
	if !s.isAllowedExtension(ext) {
		return nil, ErrUnsupportedType
	}

	if req.EntityType != "" {
		switch req.EntityType {
		case EntityProduct, EntityFarm, EntityUser:
		default:
			return nil, ErrUnknownEntity
		}
	}

	filename := uuid.New().String() + ext
	dir := s.config.Upload.LocalPath
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, req.File); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	m := Media{
		OriginalName: req.Header.Filename,
		Filename:     filename,
		Path:         path,
		URL:          "/media/" + filename,
		MimeType:     req.Header.Header.Get("Content-Type"),
		Size:         req.Header.Size,
		EntityType:   req.EntityType,
		EntityID:     req.EntityID,
		UploadedBy:   req.UploadedBy,
	}
	if err := s.db.Create(&m).Error; err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to record media: %w", err)
	}

	return &m, nil
}

// Get retrieves a media record by ID
func (s *Service) Get(id uint) (*Media, error) {
	var m Media
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve media: %w", err)
	}
	return &m, nil
}

// ListForEntity returns the media attached to a product, farm or user
func (s *Service) ListForEntity(entityType string, entityID uint) ([]Media, error) {
	switch entityType {
	case EntityProduct, EntityFarm, EntityUser:
	default:
		return nil, ErrUnknownEntity
	}

	var list []Media
	err := s.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id ASC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	return list, nil
}

// Delete removes a media record and its file. Only the uploader (or an
// admin) may delete; the caller passes isAdmin from the auth context.
func (s *Service) Delete(id, userID uint, isAdmin bool) error {
	m, err := s.Get(id)
	if err != nil {
		return err
	}

	if m.UploadedBy != userID && !isAdmin {
		return ErrAccessDenied
	}

	if err := s.db.Delete(m).Error; err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	// Best-effort: the DB record is authoritative.
	os.Remove(m.Path)
	return nil
}

func (s *Service) isAllowedExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if ext == strings.TrimPrefix(allowed, ".") {
			return true
		}
	}
	return false
}
