package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/macroledger/backend/internal/models"
	"github.com/macroledger/backend/internal/nutrition"
	"github.com/macroledger/backend/internal/service"
)

// DashboardHandler assembles the day view: profile, targets, meals, summary
// and quality assessment.
type DashboardHandler struct {
	profileService service.IProfileService
	ledger         service.ILedgerService
}

func NewDashboardHandler(profileService service.IProfileService, ledger service.ILedgerService) *DashboardHandler {
	return &DashboardHandler{
		profileService: profileService,
		ledger:         ledger,
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.GetDashboard)
}

// GetDashboard returns the full day view for ?date=YYYY-MM-DD (today by
// default, UTC).
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	uid := userID.(uuid.UUID)

	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	ctx := c.Request.Context()

	profile, err := h.profileService.GetProfile(ctx, uid)
	if err != nil {
		if errors.Is(err, nutrition.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	var targets *models.TargetSet
	targets, err = h.profileService.GetTargets(ctx, uid)
	if err != nil && !errors.Is(err, nutrition.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	meals, err := h.ledger.ListMeals(ctx, uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	summary, err := h.ledger.GetSummary(ctx, uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	var assessment *nutrition.Assessment
	if targets != nil {
		assessment = nutrition.Assess(
			nutrition.Macros{
				Protein:  summary.TotalProtein,
				Carbs:    summary.TotalCarbs,
				Fats:     summary.TotalFats,
				Calories: summary.TotalCalories,
			},
			nutrition.Targets{
				Protein:  targets.Protein,
				Carbs:    targets.Carbs,
				Fats:     targets.Fats,
				Calories: targets.Calories,
			},
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"date":       date,
		"profile":    profile,
		"targets":    targets,
		"meals":      meals,
		"summary":    summary,
		"assessment": assessment,
	})
}
