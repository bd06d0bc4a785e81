package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/macroledger/backend/internal/service"
)

// ExportHandler handles meal history export requests.
type ExportHandler struct {
	exportService service.IExportService
}

func NewExportHandler(exportService service.IExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// RegisterRoutes registers the export routes
func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/export", h.ExportMealHistory)
}

func (h *ExportHandler) ExportMealHistory(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	url, err := h.exportService.ExportMealHistory(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export meal history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
