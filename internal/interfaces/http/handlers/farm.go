// internal/interfaces/http/handlers/farm.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/farmmarket-backend/internal/config"
	"github.com/your-org/farmmarket-backend/internal/domain/farm"
	"github.com/your-org/farmmarket-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// FarmHandler handles farm endpoints
type FarmHandler struct {
	farmService *farm.Service
	config      *config.Config
}

// NewFarmHandler creates a new farm handler
func NewFarmHandler(db *gorm.DB, cfg *config.Config) *FarmHandler {
	return &FarmHandler{
		farmService: farm.NewService(db, cfg),
		config:      cfg,
	}
}

// ListFarms returns all farms
func (h *FarmHandler) ListFarms(c *gin.Context) {
	farms, err := h.farmService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list farms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": farms,
	})
}

// GetFarm returns one farm with its types and members
func (h *FarmHandler) GetFarm(c *gin.Context) {
	farmID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid farm ID"})
		return
	}

	f, err := h.farmService.Get(uint(farmID))
	if err != nil {
		if errors.Is(err, farm.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve farm"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": f,
	})
}

// CreateFarm creates a farm owned by the authenticated user
func (h *FarmHandler) CreateFarm(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req farm.CreateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	f, err := h.farmService.Create(userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create farm"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Farm created successfully",
		"data":    f,
	})
}

// UpdateFarm applies a partial update to a farm
func (h *FarmHandler) UpdateFarm(c *gin.Context) {
	farmID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid farm ID"})
		return
	}

	var req farm.UpdateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	f, err := h.farmService.Update(uint(farmID), &req)
	if err != nil {
		if errors.Is(err, farm.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update farm"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Farm updated successfully",
		"data":    f,
	})
}

// DeleteFarm soft-deletes a farm; ?hard=true removes the row
func (h *FarmHandler) DeleteFarm(c *gin.Context) {
	farmID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid farm ID"})
		return
	}

	hard := c.Query("hard") == "true"

	if err := h.farmService.Delete(uint(farmID), hard); err != nil {
		if errors.Is(err, farm.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete farm"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Farm deleted successfully",
	})
}

// AddMember adds a user to a farm
func (h *FarmHandler) AddMember(c *gin.Context) {
	farmID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid farm ID"})
		return
	}

	var req farm.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	member, err := h.farmService.AddMember(uint(farmID), &req)
	if err != nil {
		if errors.Is(err, farm.ErrNotFound) || errors.Is(err, farm.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add farm member"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Member added successfully",
		"data":    member,
	})
}
