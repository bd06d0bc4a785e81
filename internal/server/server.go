package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/macroledger/backend/config"
	"github.com/macroledger/backend/internal/api"
	"github.com/macroledger/backend/internal/database"
	"github.com/macroledger/backend/internal/middleware"
	"github.com/macroledger/backend/internal/router"
	"github.com/macroledger/backend/internal/service"
)

// Server wires the database, cache, services and HTTP router together.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
}

// New builds a fully wired server from the given configuration.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)
	ledgerService := service.NewLedgerService(db)

	cache := service.NewAnalysisCache(redisClient)
	var analysisService service.IAnalysisService
	if svc, err := service.NewAnalysisService(cache); err != nil {
		// Meals can still be logged with manual macros.
		log.Printf("[Server] analysis disabled: %v", err)
	} else {
		analysisService = svc
	}

	limiter := middleware.NewAnalysisRateLimiter(redisClient)
	handlers := router.Handlers{
		Auth:      api.NewAuthHandler(authService),
		Profile:   api.NewProfileHandler(profileService),
		Meal:      api.NewMealHandler(ledgerService, analysisService, limiter),
		Dashboard: api.NewDashboardHandler(profileService, ledgerService),
	}

	if s3Config, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("[Server] meal history export disabled: %v", err)
	} else {
		exportService := service.NewExportService(db, s3Config)
		handlers.Export = api.NewExportHandler(exportService)
	}

	engine := router.SetupRouter(handlers, authService, db, redisClient)

	return &Server{
		cfg:    cfg,
		engine: engine,
		db:     db,
		redis:  redisClient,
	}, nil
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.engine,
	}

	log.Printf("[Server] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes the Redis connection.
func (s *Server) Shutdown(ctx context.Context) error {
	var firstErr error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
