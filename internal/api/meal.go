package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/macroledger/backend/internal/nutrition"
	"github.com/macroledger/backend/internal/service"
	"github.com/macroledger/backend/internal/types"
)

// AnalysisLimiter bounds how often one user may invoke the external analysis
// collaborator. It is consulted only when a submission actually triggers an
// analysis call; manual-macro submissions never touch it.
type AnalysisLimiter interface {
	IsAllowed(ctx context.Context, userID string) (bool, int, time.Time, error)
}

// MealHandler handles meal logging, preview and deletion.
type MealHandler struct {
	ledger   service.ILedgerService
	analysis service.IAnalysisService
	limiter  AnalysisLimiter
}

func NewMealHandler(ledger service.ILedgerService, analysis service.IAnalysisService, limiter AnalysisLimiter) *MealHandler {
	return &MealHandler{
		ledger:   ledger,
		analysis: analysis,
		limiter:  limiter,
	}
}

// RegisterRoutes registers the meal routes on an authenticated group.
func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.POST("", h.LogMeal)
		meals.POST("/preview", h.PreviewMeal)
		meals.DELETE("/:id", h.DeleteMeal)
	}
}

// LogMeal resolves a submission and appends it to the caller's daily ledger.
// Analysis failure is never a meal-logging failure by itself: it downgrades
// the submission to manual macros, and only their absence is an error.
func (h *MealHandler) LogMeal(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sub, analysis, ok := h.resolveSubmission(c)
	if !ok {
		return
	}

	resolved, warnings, err := nutrition.Resolve(*sub, analysis)
	if err != nil {
		respondResolveError(c, err, sub.Description != "")
		return
	}

	entry, summary, err := h.ledger.AppendMeal(c.Request.Context(), userID.(uuid.UUID), *sub, resolved)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log meal"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"meal":     entry,
		"summary":  summary,
		"warnings": warnings,
	})
}

// PreviewMeal resolves a submission without persisting anything, so the
// caller can inspect the analysis estimate before logging.
func (h *MealHandler) PreviewMeal(c *gin.Context) {
	_, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sub, analysis, ok := h.resolveSubmission(c)
	if !ok {
		return
	}

	resolved, warnings, err := nutrition.Resolve(*sub, analysis)
	if err != nil {
		respondResolveError(c, err, sub.Description != "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"macros":      resolved.Macros,
		"source":      resolved.Source,
		"ingredients": resolved.Ingredients,
		"warnings":    warnings,
	})
}

func (h *MealHandler) DeleteMeal(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return
	}

	summary, err := h.ledger.RemoveMeal(c.Request.Context(), userID.(uuid.UUID), mealID)
	if err != nil {
		if errors.Is(err, nutrition.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete meal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// resolveSubmission binds the request, defaults the date, and runs the
// analysis collaborator when a description is present. It writes the error
// response itself when ok is false.
func (h *MealHandler) resolveSubmission(c *gin.Context) (*nutrition.Submission, *nutrition.AnalysisResult, bool) {
	var req types.LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return nil, nil, false
	}

	date := req.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return nil, nil, false
	}

	sub := nutrition.Submission{
		MealType:    nutrition.MealType(req.MealType),
		Date:        date,
		Description: req.Description,
	}
	if req.ManualMacros != nil {
		sub.Manual = &nutrition.ManualMacros{
			Protein: req.ManualMacros.Protein,
			Carbs:   req.ManualMacros.Carbs,
			Fats:    req.ManualMacros.Fats,
		}
	}

	var analysis *nutrition.AnalysisResult
	if req.Description != "" && h.analysis != nil {
		allowed, resetTime := h.analysisAllowed(c)
		switch {
		case allowed:
			result, err := h.analysis.Analyze(c.Request.Context(), req.Description)
			if err != nil {
				// Degrade to manual macros; the resolver reports the submission
				// as incomplete if there are none.
				log.Printf("[MealHandler] analysis unavailable, falling back to manual macros: %v", err)
			} else {
				analysis = result
			}
		case sub.Manual != nil:
			// The quota guards the analysis call only; manual macros still count.
			log.Printf("[MealHandler] analysis quota exhausted, using manual macros")
		default:
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "analysis rate limit exceeded, please enter macros manually",
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			return nil, nil, false
		}
	}

	return &sub, analysis, true
}

// analysisAllowed consults the rate limiter ahead of an analysis call. A
// limiter failure never blocks the request.
func (h *MealHandler) analysisAllowed(c *gin.Context) (bool, time.Time) {
	if h.limiter == nil {
		return true, time.Time{}
	}

	userID, _ := c.Get("user_id")
	allowed, remaining, resetTime, err := h.limiter.IsAllowed(c.Request.Context(), fmt.Sprintf("%v", userID))
	if err != nil {
		c.Header("X-RateLimit-Error", "rate limit check failed")
		return true, time.Time{}
	}

	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))
	return allowed, resetTime
}

func respondResolveError(c *gin.Context, err error, hadDescription bool) {
	switch {
	case errors.Is(err, nutrition.ErrIncompleteSubmission):
		msg := "meal needs a description or manual macros"
		if hadDescription {
			msg = "analysis is unavailable right now, please enter macros manually"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	case nutrition.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve meal"})
	}
}
