package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/macroledger/backend/internal/models"
	"github.com/macroledger/backend/internal/nutrition"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.TargetSet{},
		&models.MealEntry{},
		&models.DailySummary{},
	))
	return db
}

// seedUser creates a user with a target set of 160p/300c/80f (2560 kcal).
func seedUser(t *testing.T, db *gorm.DB) uuid.UUID {
	user := models.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)

	targets := models.TargetSet{
		ID:       uuid.New(),
		UserID:   user.ID,
		Protein:  160,
		Carbs:    300,
		Fats:     80,
		Calories: 2560,
	}
	require.NoError(t, db.Create(&targets).Error)
	return user.ID
}

func resolvedMeal(protein, carbs, fats float64) *nutrition.ResolvedMeal {
	return &nutrition.ResolvedMeal{
		Macros: nutrition.Macros{
			Protein:  protein,
			Carbs:    carbs,
			Fats:     fats,
			Calories: nutrition.DeriveCalories(protein, carbs, fats),
		},
		Source: nutrition.SourceManual,
	}
}

func TestLedgerService_AppendMeal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)
	userID := seedUser(t, db)
	ctx := context.Background()

	sub := nutrition.Submission{MealType: nutrition.MealBreakfast, Date: "2026-08-30", Description: "oats"}
	entry, summary, err := svc.AppendMeal(ctx, userID, sub, resolvedMeal(30, 60, 10))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, "breakfast", entry.MealType)
	assert.Equal(t, "2026-08-30", entry.Date)

	assert.Equal(t, 1, summary.MealCount)
	assert.InDelta(t, 30.0, summary.TotalProtein, 0.001)
	assert.InDelta(t, 60.0, summary.TotalCarbs, 0.001)
	assert.InDelta(t, 10.0, summary.TotalFats, 0.001)
	assert.InDelta(t, 450.0, summary.TotalCalories, 0.001)
	assert.False(t, summary.ProteinMet)

	// A second meal accumulates into the same summary row.
	sub.MealType = nutrition.MealLunch
	_, summary2, err := svc.AppendMeal(ctx, userID, sub, resolvedMeal(140, 250, 75))
	require.NoError(t, err)

	assert.Equal(t, summary.ID, summary2.ID)
	assert.Equal(t, 2, summary2.MealCount)
	assert.InDelta(t, 170.0, summary2.TotalProtein, 0.001)
	assert.True(t, summary2.ProteinMet)
	assert.True(t, summary2.CarbsMet)
	assert.True(t, summary2.FatsMet)
	assert.True(t, summary2.CaloriesMet)
}

func TestLedgerService_RemoveMeal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)
	userID := seedUser(t, db)
	ctx := context.Background()

	sub := nutrition.Submission{MealType: nutrition.MealDinner, Date: "2026-08-30"}
	entry, _, err := svc.AppendMeal(ctx, userID, sub, resolvedMeal(40, 50, 20))
	require.NoError(t, err)
	_, _, err = svc.AppendMeal(ctx, userID, sub, resolvedMeal(10, 10, 5))
	require.NoError(t, err)

	summary, err := svc.RemoveMeal(ctx, userID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.MealCount)
	assert.InDelta(t, 10.0, summary.TotalProtein, 0.001)

	meals, err := svc.ListMeals(ctx, userID, "2026-08-30")
	require.NoError(t, err)
	assert.Len(t, meals, 1)

	t.Run("unknown meal", func(t *testing.T) {
		_, err := svc.RemoveMeal(ctx, userID, uuid.New())
		assert.ErrorIs(t, err, nutrition.ErrNotFound)
	})

	t.Run("another user's meal reads as not found", func(t *testing.T) {
		otherID := seedUser(t, db)
		other, _, err := svc.AppendMeal(ctx, otherID, sub, resolvedMeal(5, 5, 5))
		require.NoError(t, err)

		_, err = svc.RemoveMeal(ctx, userID, other.ID)
		assert.ErrorIs(t, err, nutrition.ErrNotFound)

		// The entry is untouched.
		meals, err := svc.ListMeals(ctx, otherID, "2026-08-30")
		require.NoError(t, err)
		assert.Len(t, meals, 1)
	})
}

func TestLedgerService_AppendRemoveRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)
	userID := seedUser(t, db)
	ctx := context.Background()

	sub := nutrition.Submission{MealType: nutrition.MealBreakfast, Date: "2026-08-30"}
	_, _, err := svc.AppendMeal(ctx, userID, sub, resolvedMeal(30, 60, 10))
	require.NoError(t, err)

	before, err := svc.GetSummary(ctx, userID, "2026-08-30")
	require.NoError(t, err)

	sub.MealType = nutrition.MealLunch
	entry, _, err := svc.AppendMeal(ctx, userID, sub, resolvedMeal(140, 250, 75))
	require.NoError(t, err)
	_, err = svc.RemoveMeal(ctx, userID, entry.ID)
	require.NoError(t, err)

	// Appending and removing a meal restores the summary exactly, down to
	// the goal flags.
	after, err := svc.GetSummary(ctx, userID, "2026-08-30")
	require.NoError(t, err)

	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.MealCount, after.MealCount)
	assert.InDelta(t, before.TotalProtein, after.TotalProtein, 0.001)
	assert.InDelta(t, before.TotalCarbs, after.TotalCarbs, 0.001)
	assert.InDelta(t, before.TotalFats, after.TotalFats, 0.001)
	assert.InDelta(t, before.TotalCalories, after.TotalCalories, 0.001)
	assert.Equal(t, before.ProteinMet, after.ProteinMet)
	assert.Equal(t, before.CarbsMet, after.CarbsMet)
	assert.Equal(t, before.FatsMet, after.FatsMet)
	assert.Equal(t, before.CaloriesMet, after.CaloriesMet)
}

func TestLedgerService_SummaryOrderIndependent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)
	userID := seedUser(t, db)
	ctx := context.Background()

	meals := []*nutrition.ResolvedMeal{
		resolvedMeal(30, 60, 10),
		resolvedMeal(55, 110, 25),
		resolvedMeal(80, 140, 50),
	}

	// Same meals, two different orders, one day apiece.
	for _, resolved := range meals {
		sub := nutrition.Submission{MealType: nutrition.MealSnack, Date: "2026-08-30"}
		_, _, err := svc.AppendMeal(ctx, userID, sub, resolved)
		require.NoError(t, err)
	}
	for _, i := range []int{2, 0, 1} {
		sub := nutrition.Submission{MealType: nutrition.MealSnack, Date: "2026-08-31"}
		_, _, err := svc.AppendMeal(ctx, userID, sub, meals[i])
		require.NoError(t, err)
	}

	first, err := svc.GetSummary(ctx, userID, "2026-08-30")
	require.NoError(t, err)
	second, err := svc.GetSummary(ctx, userID, "2026-08-31")
	require.NoError(t, err)

	assert.Equal(t, first.MealCount, second.MealCount)
	assert.InDelta(t, first.TotalProtein, second.TotalProtein, 0.001)
	assert.InDelta(t, first.TotalCarbs, second.TotalCarbs, 0.001)
	assert.InDelta(t, first.TotalFats, second.TotalFats, 0.001)
	assert.InDelta(t, first.TotalCalories, second.TotalCalories, 0.001)
	assert.Equal(t, first.ProteinMet, second.ProteinMet)
	assert.Equal(t, first.CarbsMet, second.CarbsMet)
	assert.Equal(t, first.FatsMet, second.FatsMet)
	assert.Equal(t, first.CaloriesMet, second.CaloriesMet)
}

func TestLedgerService_GetSummary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)
	userID := seedUser(t, db)
	ctx := context.Background()

	t.Run("materializes empty day lazily", func(t *testing.T) {
		summary, err := svc.GetSummary(ctx, userID, "2026-01-01")
		require.NoError(t, err)
		assert.Equal(t, 0, summary.MealCount)
		assert.InDelta(t, 0.0, summary.TotalCalories, 0.001)
		assert.False(t, summary.ProteinMet)
	})

	t.Run("reflects a later target change on recompute", func(t *testing.T) {
		sub := nutrition.Submission{MealType: nutrition.MealSnack, Date: "2026-01-02"}
		_, summary, err := svc.AppendMeal(ctx, userID, sub, resolvedMeal(100, 100, 40))
		require.NoError(t, err)
		assert.False(t, summary.ProteinMet)

		require.NoError(t, db.Model(&models.TargetSet{}).
			Where("user_id = ?", userID).
			Update("protein", 90).Error)

		_, summary, err = svc.AppendMeal(ctx, userID, sub, resolvedMeal(1, 1, 1))
		require.NoError(t, err)
		assert.True(t, summary.ProteinMet)
	})
}

func TestLedgerService_NoTargets(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)
	ctx := context.Background()

	user := models.User{ID: uuid.New(), Name: "No Targets", Email: "nt@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	sub := nutrition.Submission{MealType: nutrition.MealLunch, Date: "2026-08-30"}
	_, summary, err := svc.AppendMeal(ctx, user.ID, sub, resolvedMeal(500, 500, 500))
	require.NoError(t, err)

	// Without a target set no goal can be met, however large the totals.
	assert.False(t, summary.ProteinMet)
	assert.False(t, summary.CarbsMet)
	assert.False(t, summary.FatsMet)
	assert.False(t, summary.CaloriesMet)
}

func TestIngredientsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)
	userID := seedUser(t, db)

	sub := nutrition.Submission{MealType: nutrition.MealLunch, Date: "2026-08-30", Description: "salmon salad"}
	resolved := resolvedMeal(35, 10, 25)
	resolved.Source = nutrition.SourceAI
	resolved.Ingredients = []string{"salmon", "mixed greens", "olive oil"}

	entry, _, err := svc.AppendMeal(context.Background(), userID, sub, resolved)
	require.NoError(t, err)

	assert.Equal(t, []string{"salmon", "mixed greens", "olive oil"}, DecodeIngredients(entry.Ingredients))
	assert.Nil(t, DecodeIngredients(""))
}
