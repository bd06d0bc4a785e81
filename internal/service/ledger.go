package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/macroledger/backend/internal/models"
	"github.com/macroledger/backend/internal/nutrition"
	"gorm.io/gorm"
)

// LedgerService maintains the per-day meal entry collection and its derived
// summary. Summaries are always recomputed from the full entry set, which
// makes concurrent appends and removals converge regardless of interleaving.
type LedgerService struct {
	db *gorm.DB
}

var _ ILedgerService = (*LedgerService)(nil)

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{
		db: db,
	}
}

// AppendMeal stores a resolved meal and recomputes the day's summary.
func (s *LedgerService) AppendMeal(ctx context.Context, userID uuid.UUID, sub nutrition.Submission, resolved *nutrition.ResolvedMeal) (*models.MealEntry, *models.DailySummary, error) {
	entry := models.MealEntry{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        sub.Date,
		MealType:    string(sub.MealType),
		Description: sub.Description,
		Protein:     resolved.Macros.Protein,
		Carbs:       resolved.Macros.Carbs,
		Fats:        resolved.Macros.Fats,
		Calories:    resolved.Macros.Calories,
		Source:      string(resolved.Source),
		Ingredients: encodeIngredients(resolved.Ingredients),
	}

	var summary *models.DailySummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		var err error
		summary, err = s.recompute(tx, userID, sub.Date)
		return err
	})
	if err != nil {
		return nil, nil, &nutrition.StorageError{Op: "append meal", Err: err}
	}
	return &entry, summary, nil
}

// RemoveMeal deletes an entry after verifying ownership, then recomputes the
// summary for the entry's date. A meal belonging to another user is reported
// as not found rather than forbidden, so meal IDs leak nothing across users.
func (s *LedgerService) RemoveMeal(ctx context.Context, userID, mealID uuid.UUID) (*models.DailySummary, error) {
	var summary *models.DailySummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.MealEntry
		if err := tx.First(&entry, "id = ?", mealID).Error; err != nil {
			return err
		}
		if entry.UserID != userID {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Delete(&entry).Error; err != nil {
			return err
		}
		var err error
		summary, err = s.recompute(tx, userID, entry.Date)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nutrition.ErrNotFound
		}
		return nil, &nutrition.StorageError{Op: "remove meal", Err: err}
	}
	return summary, nil
}

// ListMeals returns the non-deleted entries for one (user, date).
func (s *LedgerService) ListMeals(ctx context.Context, userID uuid.UUID, date string) ([]models.MealEntry, error) {
	var entries []models.MealEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, &nutrition.StorageError{Op: "list meals", Err: err}
	}
	return entries, nil
}

// GetSummary returns the stored summary for the date, materializing it
// lazily when the day has no summary row yet.
func (s *LedgerService) GetSummary(ctx context.Context, userID uuid.UUID, date string) (*models.DailySummary, error) {
	var summary models.DailySummary
	err := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&summary).Error
	if err == nil {
		return &summary, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &nutrition.StorageError{Op: "get summary", Err: err}
	}

	var fresh *models.DailySummary
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		fresh, err = s.recompute(tx, userID, date)
		return err
	})
	if err != nil {
		return nil, &nutrition.StorageError{Op: "materialize summary", Err: err}
	}
	return fresh, nil
}

// recompute rebuilds the summary for (user, date) by summing all non-deleted
// entries and comparing against the current target set. Targets are fetched
// fresh on every recompute so a profile change is reflected immediately,
// not the targets in effect when each meal was logged.
func (s *LedgerService) recompute(tx *gorm.DB, userID uuid.UUID, date string) (*models.DailySummary, error) {
	var entries []models.MealEntry
	if err := tx.Where("user_id = ? AND date = ?", userID, date).Find(&entries).Error; err != nil {
		return nil, err
	}

	var totals nutrition.Macros
	for _, e := range entries {
		totals.Protein += e.Protein
		totals.Carbs += e.Carbs
		totals.Fats += e.Fats
		totals.Calories += e.Calories
	}

	var targets models.TargetSet
	hasTargets := true
	if err := tx.Where("user_id = ?", userID).First(&targets).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		hasTargets = false
	}

	var summary models.DailySummary
	if err := tx.Where("user_id = ? AND date = ?", userID, date).First(&summary).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		summary = models.DailySummary{ID: uuid.New(), UserID: userID, Date: date}
	}

	summary.TotalProtein = totals.Protein
	summary.TotalCarbs = totals.Carbs
	summary.TotalFats = totals.Fats
	summary.TotalCalories = totals.Calories
	summary.MealCount = len(entries)
	summary.ProteinMet = hasTargets && totals.Protein >= targets.Protein
	summary.CarbsMet = hasTargets && totals.Carbs >= targets.Carbs
	summary.FatsMet = hasTargets && totals.Fats >= targets.Fats
	summary.CaloriesMet = hasTargets && totals.Calories >= targets.Calories

	if err := tx.Save(&summary).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}

func encodeIngredients(ingredients []string) string {
	if len(ingredients) == 0 {
		return ""
	}
	data, err := json.Marshal(ingredients)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeIngredients parses the stored ingredient breakdown of an entry.
func DecodeIngredients(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
