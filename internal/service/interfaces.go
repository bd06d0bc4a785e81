package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/macroledger/backend/internal/models"
	"github.com/macroledger/backend/internal/nutrition"
	"github.com/macroledger/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for profile and target operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in types.ProfileInput) (*models.UserProfile, *models.TargetSet, []string, error)
	GetTargets(ctx context.Context, userID uuid.UUID) (*models.TargetSet, error)
}

// ILedgerService defines the interface for the daily meal ledger
type ILedgerService interface {
	AppendMeal(ctx context.Context, userID uuid.UUID, sub nutrition.Submission, resolved *nutrition.ResolvedMeal) (*models.MealEntry, *models.DailySummary, error)
	RemoveMeal(ctx context.Context, userID, mealID uuid.UUID) (*models.DailySummary, error)
	ListMeals(ctx context.Context, userID uuid.UUID, date string) ([]models.MealEntry, error)
	GetSummary(ctx context.Context, userID uuid.UUID, date string) (*models.DailySummary, error)
}

// IAnalysisService defines the interface for the meal description analyzer
type IAnalysisService interface {
	Analyze(ctx context.Context, description string) (*nutrition.AnalysisResult, error)
}

// IExportService defines the interface for meal history export
type IExportService interface {
	ExportMealHistory(ctx context.Context, userID uuid.UUID) (string, error)
}
