package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/macroledger/backend/internal/nutrition"
	"github.com/macroledger/backend/internal/service"
	"github.com/macroledger/backend/internal/types"
)

// ProfileHandler handles profile and target requests.
type ProfileHandler struct {
	profileService service.IProfileService
}

func NewProfileHandler(profileService service.IProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// RegisterRoutes registers the profile routes on an authenticated group.
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}
	router.GET("/targets", h.GetTargets)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		if errors.Is(err, nutrition.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile replaces the stored body metrics and returns the freshly
// computed target set along with any advisory warnings.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var in types.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, targets, warnings, err := h.profileService.UpdateProfile(c.Request.Context(), userID.(uuid.UUID), in)
	if err != nil {
		switch {
		case nutrition.IsValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, nutrition.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":  profile,
		"targets":  targets,
		"warnings": warnings,
	})
}

func (h *ProfileHandler) GetTargets(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	targets, err := h.profileService.GetTargets(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		if errors.Is(err, nutrition.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no targets computed yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get targets"})
		return
	}

	c.JSON(http.StatusOK, targets)
}
