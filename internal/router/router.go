package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/macroledger/backend/internal/api"
	"github.com/macroledger/backend/internal/database"
	"github.com/macroledger/backend/internal/middleware"
)

// Handlers bundles the API handlers the router wires up.
type Handlers struct {
	Auth      *api.AuthHandler
	Profile   *api.ProfileHandler
	Meal      *api.MealHandler
	Dashboard *api.DashboardHandler
	Export    *api.ExportHandler
}

// SetupRouter configures the application routes
func SetupRouter(
	h Handlers,
	tokenValidator middleware.TokenValidator,
	db *gorm.DB,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS())

	router.GET("/health", healthHandler(db, redisClient))

	// API v1 routes
	v1 := router.Group("/api/v1")

	h.Auth.RegisterRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(tokenValidator))
	{
		h.Profile.RegisterRoutes(protected)
		h.Meal.RegisterRoutes(protected)
		h.Dashboard.RegisterRoutes(protected)
		if h.Export != nil {
			h.Export.RegisterRoutes(protected)
		}
	}

	return router
}

func healthHandler(db *gorm.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "ok", "redis": "ok"}

		if db != nil {
			if err := database.HealthCheck(c.Request.Context(), db); err != nil {
				checks["database"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
				checks["redis"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}

		c.JSON(status, checks)
	}
}
