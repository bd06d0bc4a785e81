package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TargetSet is the current daily macro target set for a user. It is replaced
// wholesale on every profile change; prior target sets are not retained.
// Calories are always 4*protein + 4*carbs + 9*fats.
type TargetSet struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID       uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Protein      float64   `gorm:"not null" json:"protein"`
	Carbs        float64   `gorm:"not null" json:"carbs"`
	Fats         float64   `gorm:"not null" json:"fats"`
	Calories     float64   `gorm:"not null" json:"calories"`
	CalculatedAt time.Time `gorm:"not null" json:"calculated_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MealEntry is a single logged meal. Entries are immutable once created;
// corrections are modeled as delete + re-add. Date is the logical calendar
// day (YYYY-MM-DD) the meal counts toward, independent of CreatedAt.
type MealEntry struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:varchar(36);not null;index:idx_meal_entries_user_date" json:"user_id"`
	Date        string         `gorm:"type:varchar(10);not null;index:idx_meal_entries_user_date" json:"date"`
	MealType    string         `gorm:"size:20;not null" json:"meal_type"`
	Description string         `gorm:"type:text" json:"description"`
	Protein     float64        `gorm:"not null" json:"protein"`
	Carbs       float64        `gorm:"not null" json:"carbs"`
	Fats        float64        `gorm:"not null" json:"fats"`
	Calories    float64        `gorm:"not null" json:"calories"`
	Source      string         `gorm:"size:10;not null" json:"source"`
	Ingredients string         `gorm:"type:text" json:"ingredients,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// DailySummary is derived state: aggregate totals over all non-deleted meal
// entries for one (user, date), compared against the user's current targets.
// It is recomputed whenever the entry set changes, never written directly.
type DailySummary struct {
	ID            uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_daily_summaries_user_date" json:"user_id"`
	Date          string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_summaries_user_date" json:"date"`
	TotalProtein  float64   `gorm:"not null" json:"total_protein"`
	TotalCarbs    float64   `gorm:"not null" json:"total_carbs"`
	TotalFats     float64   `gorm:"not null" json:"total_fats"`
	TotalCalories float64   `gorm:"not null" json:"total_calories"`
	MealCount     int       `gorm:"not null" json:"meal_count"`
	ProteinMet    bool      `gorm:"not null" json:"protein_met"`
	CarbsMet      bool      `gorm:"not null" json:"carbs_met"`
	FatsMet       bool      `gorm:"not null" json:"fats_met"`
	CaloriesMet   bool      `gorm:"not null" json:"calories_met"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
