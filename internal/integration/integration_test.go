package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macroledger/backend/internal/nutrition"
	"github.com/macroledger/backend/internal/service"
	"github.com/macroledger/backend/internal/testhelpers"
	"github.com/macroledger/backend/internal/types"
)

// TestMealLedgerFlow runs the register -> log meals -> delete -> summary flow
// against a real PostgreSQL instance.
func TestMealLedgerFlow(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	authSvc := service.NewAuthService(db, "integration-secret")
	profileSvc := service.NewProfileService(db)
	ledgerSvc := service.NewLedgerService(db)

	token, err := authSvc.Register(ctx, &types.RegisterRequest{
		Name:     "Integration User",
		Email:    "integration@example.com",
		Password: "password123",
		Profile: types.ProfileInput{
			WeightKg:      75,
			HeightCm:      180,
			Age:           30,
			Sex:           "male",
			ActivityLevel: "moderate",
			Goal:          "maintain",
		},
	})
	require.NoError(t, err)

	claims, err := authSvc.ValidateToken(token)
	require.NoError(t, err)
	userID := claims.UserID

	targets, err := profileSvc.GetTargets(ctx, userID)
	require.NoError(t, err)
	assert.InDelta(t, 165.0, targets.Protein, 0.001)

	sub := nutrition.Submission{MealType: nutrition.MealBreakfast, Date: "2026-08-30"}
	first, summary, err := ledgerSvc.AppendMeal(ctx, userID, sub, &nutrition.ResolvedMeal{
		Macros: nutrition.Macros{Protein: 30, Carbs: 60, Fats: 10, Calories: 450},
		Source: nutrition.SourceManual,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.MealCount)

	sub.MealType = nutrition.MealLunch
	_, summary, err = ledgerSvc.AppendMeal(ctx, userID, sub, &nutrition.ResolvedMeal{
		Macros: nutrition.Macros{Protein: 50, Carbs: 80, Fats: 20, Calories: 700},
		Source: nutrition.SourceManual,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.MealCount)
	assert.InDelta(t, 80.0, summary.TotalProtein, 0.001)
	assert.InDelta(t, 1150.0, summary.TotalCalories, 0.001)

	// Changing the profile replaces the target set; the next recompute sees it.
	_, newTargets, _, err := profileSvc.UpdateProfile(ctx, userID, types.ProfileInput{
		WeightKg:      75,
		HeightCm:      180,
		Age:           30,
		Sex:           "male",
		ActivityLevel: "sedentary",
		Goal:          "cut",
	})
	require.NoError(t, err)
	assert.InDelta(t, 180.0, newTargets.Protein, 0.001)

	summary, err = ledgerSvc.RemoveMeal(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.MealCount)
	assert.InDelta(t, 50.0, summary.TotalProtein, 0.001)

	meals, err := ledgerSvc.ListMeals(ctx, userID, "2026-08-30")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "lunch", meals[0].MealType)

	assessment := nutrition.Assess(
		nutrition.Macros{
			Protein:  summary.TotalProtein,
			Carbs:    summary.TotalCarbs,
			Fats:     summary.TotalFats,
			Calories: summary.TotalCalories,
		},
		nutrition.Targets{
			Protein:  newTargets.Protein,
			Carbs:    newTargets.Carbs,
			Fats:     newTargets.Fats,
			Calories: newTargets.Calories,
		},
	)
	assert.Equal(t, nutrition.TierPoor, assessment.Tier)
	require.NotEmpty(t, assessment.Shortfalls)
	assert.Equal(t, "protein", assessment.Shortfalls[0].Macro)
}
