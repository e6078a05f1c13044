// internal/interfaces/http/handlers/media.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/farmmarket-backend/internal/config"
	"github.com/your-org/farmmarket-backend/internal/domain/media"
	"github.com/your-org/farmmarket-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// MediaHandler handles media upload endpoints
type MediaHandler struct {
	mediaService *media.Service
	config       *config.Config
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(db *gorm.DB, cfg *config.Config) *MediaHandler {
	return &MediaHandler{
		mediaService: media.NewService(db, cfg),
		config:       cfg,
	}
}

// Upload stores a multipart file and records it
func (h *MediaHandler) Upload(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	req := &media.UploadRequest{
		File:       file,
		Header:     header,
		EntityType: c.PostForm("entityType"),
		UploadedBy: userID,
	}
	if v := c.PostForm("entityId"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			req.EntityID = uint(id)
		}
	}

	m, err := h.mediaService.Upload(req)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrUnknownEntity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"data":    m,
	})
}

// ListForEntity returns media attached to a product, farm or user
func (h *MediaHandler) ListForEntity(c *gin.Context) {
	entityType := c.Query("entityType")
	if entityType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entityType is required"})
		return
	}
	entityID, err := strconv.ParseUint(c.Query("entityId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity ID"})
		return
	}

	list, err := h.mediaService.ListForEntity(entityType, uint(entityID))
	if err != nil {
		if errors.Is(err, media.ErrUnknownEntity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list media"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": list,
	})
}

// GetMedia returns a single media record
func (h *MediaHandler) GetMedia(c *gin.Context) {
	mediaID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media ID"})
		return
	}

	m, err := h.mediaService.Get(uint(mediaID))
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve media"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": m,
	})
}

// Delete removes a media record and its file
func (h *MediaHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	mediaID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media ID"})
		return
	}

	isAdmin := middleware.IsAdminFromContext(c)

	if err := h.mediaService.Delete(uint(mediaID), userID, isAdmin); err != nil {
		switch {
		case errors.Is(err, media.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, media.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete media"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Media deleted successfully",
	})
}
